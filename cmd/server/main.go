package main

import (
	"context"
	"log"

	"github.com/joho/godotenv"

	"github.com/Saveanu-Robert/Weather-Microservice-sub001/internal/app"
)

func main() {
	// Missing .env is fine; configuration falls back to real environment
	// variables and defaults.
	_ = godotenv.Load()

	application, err := app.New()

	if err != nil {
		log.Fatalf("Failed to create application: %v", err)
	}

	ctx := context.Background()

	if err := application.Start(ctx); err != nil {
		log.Fatalf("Failed to start application: %v", err)
	}

	application.WaitForShutdown()
	application.Stop()
}
