package main

import (
	"context"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"

	"saldo/internal/amqp"
	"saldo/internal/config"
	"saldo/internal/services"
	"saldo/internal/storage"
)

func main() {
	// Load .env file for local development (ignore errors in production/docker)
	_ = godotenv.Load()

	logger := slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{
		Level: slog.LevelInfo,
	}))
	slog.SetDefault(logger)

	logger.Info("Starting recurring-worker")

	cfg := config.Load()
	if err := cfg.Validate(); err != nil {
		logger.Error("Configuration validation failed", "error", err)
		os.Exit(1)
	}

	repo, err := storage.NewSQLiteRepository(cfg.SQLiteDBPath)
	if err != nil {
		logger.Error("Failed to initialize SQLite repository", "error", err, "path", cfg.SQLiteDBPath)
		os.Exit(1)
	}
	defer repo.Close()

	var publisher services.EventPublisher
	if cfg.AMQPURL != "" {
		amqpClient, err := amqp.NewClient(cfg.AMQPURL, cfg.AMQPExchange, cfg.AMQPQueue)
		if err != nil {
			logger.Warn("Failed to initialize AMQP client, continuing without events", "error", err)
		} else {
			defer amqpClient.Close()
			publisher = amqpClient
			logger.Info("AMQP client initialized - events will reach saldo-worker")
		}
	} else {
		logger.Info("AMQP disabled - materialized transactions will not produce events")
	}

	processor := services.NewRecurringProcessor(repo, publisher)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	logger.Info("Recurring transaction processor configured",
		"interval", cfg.RecurringInterval,
		"upcoming_days", cfg.UpcomingDays,
		"sqlite_db", cfg.SQLiteDBPath)

	// Run one pass on startup so a long interval never delays catch-up.
	runOnce(ctx, processor, cfg.UpcomingDays, time.Now())

	ticker := time.NewTicker(cfg.RecurringInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			logger.Info("Recurring-worker shutdown complete")
			return
		case now := <-ticker.C:
			runOnce(ctx, processor, cfg.UpcomingDays, now)
		}
	}
}

func runOnce(ctx context.Context, processor *services.RecurringProcessor, upcomingDays int, now time.Time) {
	count, err := processor.ProcessDue(ctx, now)
	if err != nil {
		slog.Error("Processing due recurring transactions failed", "error", err)
	} else {
		slog.Info("Recurring processing complete", "transactions_created", count)
	}

	if upcomingDays > 0 {
		if err := processor.NotifyDueSoon(ctx, now, upcomingDays); err != nil {
			slog.Error("Due-soon notification pass failed", "error", err)
		}
	}
}
