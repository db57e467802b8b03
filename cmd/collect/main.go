package main

import (
	"context"
	"flag"
	"log"
	"time"

	"supportscan/config"
	"supportscan/internal/adapters/binanceclient"
	"supportscan/internal/adapters/logger"
	"supportscan/internal/adapters/sqlite"
	"supportscan/internal/app"
	"supportscan/internal/backtesting"
	"supportscan/internal/indicators"
)

// Collects one indicator snapshot per configured symbol and stores it.
// Intended to run from cron once per hour. With -backfill N it instead
// seeds the store from N days of historical klines.
func main() {
	backfillDays := flag.Int("backfill", 0, "seed the store from this many days of historical klines instead of collecting once")
	flag.Parse()

	// 1. Load Configuration
	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatalf("FATAL: Failed to load configuration: %v", err) // Use standard log before logger is ready
	}

	// 2. Initialize Logger
	appLogger := logger.NewStdLogger(cfg.LogLevel)
	ctx := context.Background()
	appLogger.Info(ctx, "Logger initialized", map[string]interface{}{"level": cfg.LogLevel.String()})

	// 3. Initialize Exchange Client (Binance Adapter)
	market, err := binanceclient.New(binanceclient.Config{
		APIKey:     cfg.APIKey,
		SecretKey:  cfg.SecretKey,
		UseTestnet: cfg.IsTestnet,
		Logger:     appLogger,
	})
	if err != nil {
		log.Fatalf("FATAL: Failed to initialize Binance client: %v", err)
	}
	if err := market.Ping(ctx); err != nil {
		appLogger.Error(ctx, err, "FATAL: Exchange is unreachable")
		log.Fatalf("FATAL: Exchange is unreachable: %v", err)
	}

	// Snapshot timestamps anchor session boundaries, so a drifting local
	// clock would shift which snapshots count as boundaries.
	if serverTime, err := market.GetServerTime(ctx); err == nil {
		drift := time.Since(serverTime)
		if drift < 0 {
			drift = -drift
		}
		if drift > time.Minute {
			appLogger.Warn(ctx, "Local clock drifts from exchange time", map[string]interface{}{
				"drift":      drift.String(),
				"serverTime": serverTime.UTC(),
			})
		}
	}

	// 4. Initialize Repository (SQLite Adapter)
	repo, err := sqlite.NewRepository(sqlite.Config{DBPath: cfg.DBPath, Logger: appLogger})
	if err != nil {
		log.Fatalf("FATAL: Failed to initialize SQLite repository: %v", err)
	}
	defer repo.Close()

	// 5. Initialize Engine and Service
	engine, err := backtesting.New(backtesting.Config{
		AnchorHour:        cfg.AnchorHour,
		UTCOffsetHours:    cfg.UTCOffsetHours,
		SessionLength:     cfg.SessionLength,
		PlausibilityRatio: cfg.PlausibilityRatio,
	}, appLogger)
	if err != nil {
		log.Fatalf("FATAL: Failed to initialize engine: %v", err)
	}

	svc, err := app.NewService(cfg, appLogger, repo, market, engine, indicators.NewSnapshotBuilder(), nil)
	if err != nil {
		log.Fatalf("FATAL: Failed to initialize service: %v", err)
	}

	// 6. Collect (or backfill history)
	if *backfillDays > 0 {
		if err := svc.Backfill(ctx, *backfillDays); err != nil {
			appLogger.Error(ctx, err, "Backfill failed")
			log.Fatalf("FATAL: Backfill failed: %v", err)
		}
		appLogger.Info(ctx, "Backfill finished", map[string]interface{}{"symbols": cfg.Symbols, "days": *backfillDays})
		return
	}

	if err := svc.CollectOnce(ctx); err != nil {
		appLogger.Error(ctx, err, "Snapshot collection failed")
		log.Fatalf("FATAL: Snapshot collection failed: %v", err)
	}
	appLogger.Info(ctx, "Snapshot collection finished", map[string]interface{}{"symbols": cfg.Symbols})
}
