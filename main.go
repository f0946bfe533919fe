package main

import (
	"log"

	"github.com/joho/godotenv"

	"invoicer/cmd"
	"invoicer/internal/config"
	"invoicer/internal/logger"
)

func main() {
	// Load environment variables
	if err := godotenv.Load(); err != nil {
		log.Printf("Warning: Could not load .env file: %v", err)
	}

	// The commands load and validate the full configuration themselves; here
	// it only drives the logger, falling back to defaults when it is incomplete.
	cfg, err := config.Load()
	if err != nil {
		if err := logger.Setup(logger.DefaultConfig()); err != nil {
			log.Fatalf("Failed to initialize logger: %v", err)
		}
	} else {
		if err := logger.Setup(cfg.GetLoggerConfig()); err != nil {
			log.Fatalf("Failed to initialize logger: %v", err)
		}
	}

	cmd.Execute()
}
