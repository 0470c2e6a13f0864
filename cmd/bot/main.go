// Package main is the entry point for the Telegram run bot.
package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"telegram-run-bot/internal/bot"
	"telegram-run-bot/internal/config"
	"telegram-run-bot/internal/pkg/db"
	"telegram-run-bot/internal/repository"
	"telegram-run-bot/internal/service"
)

func main() {
	zerolog.TimeFieldFormat = zerolog.TimeFormatUnix
	log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.RFC3339})

	cfg, err := config.Load("config")
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to load configuration")
	}

	log.Info().Msg("Configuration loaded successfully")

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	dbPool, err := db.NewPool(ctx, &cfg.Database)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to connect to database")
	}
	defer dbPool.Close()

	if err := runMigrations(ctx, dbPool); err != nil {
		log.Fatal().Err(err).Msg("Failed to run database migrations")
	}

	userRepo := repository.NewUserRepository(dbPool.Pool)
	runRepo := repository.NewRunRepository(dbPool.Pool)

	ledgerService := service.NewLedgerService(userRepo, runRepo)

	deps := &bot.Dependencies{
		Config:        cfg,
		LedgerService: ledgerService,
	}

	telegramBot, err := bot.New(deps)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to create bot")
	}

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)

	go func() {
		log.Info().Msg("Bot is starting...")
		telegramBot.Start()
	}()

	sig := <-sigChan
	log.Info().Str("signal", sig.String()).Msg("Received shutdown signal")

	telegramBot.Stop()
	log.Info().Msg("Bot stopped gracefully")
}

// runMigrations executes database migrations.
func runMigrations(ctx context.Context, pool *db.Pool) error {
	log.Info().Msg("Running database migrations...")

	// Migration 1: users table. The identity key is the full
	// (chat_id, telegram_id, username) tuple; a duplicate insert is a
	// no-op by design.
	_, err := pool.Exec(ctx, `
		CREATE TABLE IF NOT EXISTS users (
			id BIGSERIAL PRIMARY KEY,
			chat_id TEXT NOT NULL,
			telegram_id BIGINT NOT NULL,
			username VARCHAR(255) NOT NULL,
			created_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
			UNIQUE (chat_id, telegram_id, username)
		);
		CREATE INDEX IF NOT EXISTS idx_users_chat ON users(chat_id);
	`)
	if err != nil {
		return err
	}
	log.Info().Msg("Migration 1: users table created")

	// Migration 2: runs table. recorded_at stays nullable for rows
	// imported from the legacy ledger.
	_, err = pool.Exec(ctx, `
		CREATE TABLE IF NOT EXISTS runs (
			id BIGSERIAL PRIMARY KEY,
			distance DOUBLE PRECISION NOT NULL CHECK (distance >= 0),
			recorded_at TIMESTAMPTZ DEFAULT NOW(),
			user_id BIGINT NOT NULL REFERENCES users(id) ON DELETE CASCADE
		);
		CREATE INDEX IF NOT EXISTS idx_runs_user_time ON runs(user_id, recorded_at DESC);
	`)
	if err != nil {
		return err
	}
	log.Info().Msg("Migration 2: runs table created")

	log.Info().Msg("All migrations completed successfully")
	return nil
}
