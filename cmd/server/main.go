package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/AlexTLDR/yuruly/internal/config"
	"github.com/AlexTLDR/yuruly/internal/database"
	"github.com/AlexTLDR/yuruly/internal/server"
	"github.com/joho/godotenv"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

func main() {
	log.Logger = zerolog.New(os.Stdout).With().Timestamp().Logger()

	// Load .env file (ignore error if a file doesn't exist)
	// Use Overload to force to overwrite any existing environment variables
	err := godotenv.Overload()
	if err != nil {
		log.Warn().Err(err).Msg("Error loading .env file")
	} else {
		log.Info().Msg(".env file loaded successfully (with overload)")
	}

	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to load config")
	}
	zerolog.SetGlobalLevel(cfg.LogLevel)

	// Initialize database
	db, err := database.New(cfg.DatabaseDriver, cfg.DatabaseURL, cfg.TokenCost)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to initialize database")
	}
	defer func(db *database.DB) {
		if err := db.Close(); err != nil {
			log.Error().Err(err).Msg("Failed to close database")
		}
	}(db)

	// Run migrations
	if err := db.Migrate(); err != nil {
		log.Fatal().Err(err).Msg("Failed to run migrations")
	}

	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	// Create and start the server
	srv := server.New(cfg, db)

	log.Info().Str("port", cfg.Port).Str("driver", cfg.DatabaseDriver).Msg("Starting server")
	if err := srv.Start(ctx, ":"+cfg.Port); err != nil {
		log.Error().Err(err).Msg("Server failed")
		return
	}
	log.Info().Msg("Server stopped")
}
