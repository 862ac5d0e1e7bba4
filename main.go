package main

import (
	"log"
	"os"

	"github.com/joho/godotenv"
	"invoicer/cmd"
	"invoicer/internal/config"
	"invoicer/internal/logger"
)

func main() {
	// Load environment variables
	if err := godotenv.Load(); err != nil && !os.IsNotExist(err) {
		log.Printf("Warning: Could not load .env file: %v", err)
	}

	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		log.Printf("Warning: Could not load configuration: %v", err)
		// Fall back to defaults so the CLI still runs
		cfg = config.Default()
	}

	// Initialize logger with configuration
	if err := logger.Setup(cfg.GetLoggerConfig()); err != nil {
		log.Fatalf("Failed to initialize logger: %v", err)
	}

	// Log application startup
	log := logger.WithComponent("main")
	log.Debug().
		Str("store_backend", cfg.StoreBackend).
		Str("data_dir", cfg.DataDir).
		Msg("Starting Invoicer")

	// Execute CLI commands
	cmd.Execute(cfg)
}
