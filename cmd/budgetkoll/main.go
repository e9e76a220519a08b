package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"golang.org/x/sync/errgroup"

	"budgetkoll/internal/amqp"
	"budgetkoll/internal/config"
	"budgetkoll/internal/core"
	"budgetkoll/internal/holiday"
	apphttp "budgetkoll/internal/http"
	applog "budgetkoll/internal/log"
	"budgetkoll/internal/services"
	"budgetkoll/internal/storage"
)

func main() {
	// Load .env for local development; absent in production is fine.
	_ = godotenv.Load()

	logger := applog.New(applog.Config{Component: applog.ComponentApp})
	applog.SetDefault(logger)

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

	if err := seedFromConfig(context.Background(), repo, cfg, logger); err != nil {
		logger.Error("Failed to apply configured defaults", "error", err)
		os.Exit(1)
	}

	// AMQP is optional: without it mutations still apply locally and the
	// worker catches up on its next startup recompute.
	var publisher services.ChangePublisher
	var amqpClient *amqp.Client
	if cfg.AMQPURL != "" {
		amqpClient, err = amqp.NewClient(cfg.AMQPURL, cfg.AMQPExchange, cfg.AMQPQueue)
		if err != nil {
			logger.Warn("AMQP unavailable, continuing without change events", "error", err)
		} else {
			publisher = amqpClient
			defer amqpClient.Close()
		}
	}

	summaries := services.NewSummaryService(repo)
	budgets := services.NewBudgetService(repo, publisher)

	srv := apphttp.NewServer(":"+cfg.Port, summaries, budgets, cfg.SummaryCacheSize, cfg.SummaryCacheTTL)
	srv.ReadTimeout = 10 * time.Second
	srv.WriteTimeout = 10 * time.Second
	srv.IdleTimeout = 60 * time.Second
	srv.MaxHeaderBytes = 1 << 16

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	g, ctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		logger.Info("Starting budgetkoll server", "port", cfg.Port)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})
	g.Go(func() error {
		<-ctx.Done()
		logger.Info("Shutdown signal received")

		shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	})

	if err := g.Wait(); err != nil {
		logger.Error("Server error", "error", err)
		os.Exit(1)
	}
	logger.Info("Server stopped gracefully")
}

// seedFromConfig applies environment defaults to the database. Transfer
// amounts only fill in when nothing has been set yet, so values changed
// through the API survive restarts. Custom holidays are upserted every
// start since the environment is their source of truth.
func seedFromConfig(ctx context.Context, repo *storage.SQLiteRepository, cfg *config.Config, logger *applog.Logger) error {
	if cfg.DailyTransferOre > 0 || cfg.WeekendTransferOre > 0 {
		daily, weekend, err := repo.TransferSettings(ctx)
		if err != nil {
			return err
		}
		if daily.Ore == 0 && weekend.Ore == 0 {
			err := repo.SetTransferSettings(ctx,
				core.Money{Ore: cfg.DailyTransferOre},
				core.Money{Ore: cfg.WeekendTransferOre})
			if err != nil {
				return err
			}
			logger.Info("Seeded transfer defaults from environment",
				"daily_ore", cfg.DailyTransferOre, "weekend_ore", cfg.WeekendTransferOre)
		}
	}

	for date, name := range cfg.CustomHolidays {
		day, err := time.Parse("2006-01-02", date)
		if err != nil {
			return err
		}
		if err := repo.PutCustomHoliday(ctx, holiday.Holiday{Date: day, Name: name}); err != nil {
			return err
		}
	}
	if len(cfg.CustomHolidays) > 0 {
		logger.Info("Merged custom holidays from environment", "count", len(cfg.CustomHolidays))
	}
	return nil
}
