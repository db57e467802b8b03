package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"os"
	"sort"
	"text/tabwriter"

	"supportscan/config"
	"supportscan/internal/adapters/logger"
	"supportscan/internal/adapters/sqlite"
	"supportscan/internal/app"
	"supportscan/internal/backtesting"
	"supportscan/internal/ports"
)

// Prints session-over-session close changes for the configured symbols.
func main() {
	// 1. Load Configuration
	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatalf("FATAL: Failed to load configuration: %v", err)
	}

	// 2. Initialize Logger
	appLogger := logger.NewStdLogger(cfg.LogLevel)
	ctx := context.Background()

	// 3. Initialize Repository (SQLite Adapter)
	repo, err := sqlite.NewRepository(sqlite.Config{DBPath: cfg.DBPath, Logger: appLogger})
	if err != nil {
		log.Fatalf("FATAL: Failed to initialize SQLite repository: %v", err)
	}
	defer repo.Close()

	// 4. Initialize Engine and Service
	engine, err := backtesting.New(backtesting.Config{
		AnchorHour:        cfg.AnchorHour,
		UTCOffsetHours:    cfg.UTCOffsetHours,
		SessionLength:     cfg.SessionLength,
		PlausibilityRatio: cfg.PlausibilityRatio,
	}, appLogger)
	if err != nil {
		log.Fatalf("FATAL: Failed to initialize engine: %v", err)
	}

	svc, err := app.NewService(cfg, appLogger, repo, nil, engine, nil, nil)
	if err != nil {
		log.Fatalf("FATAL: Failed to initialize service: %v", err)
	}

	// 5. Analyze per symbol
	for _, symbol := range cfg.Symbols {
		stats, err := svc.Changes(ctx, symbol)
		if err != nil {
			if errors.Is(err, ports.ErrEmptyInput) {
				appLogger.Warn(ctx, "No snapshots collected yet", map[string]interface{}{"symbol": symbol})
			} else {
				appLogger.Error(ctx, err, "Change analysis failed", map[string]interface{}{"symbol": symbol})
			}
			continue
		}
		printChanges(stats)
	}
}

func printChanges(stats *backtesting.ChangeStats) {
	fmt.Printf("\n=== %s: session changes ===\n", stats.Symbol)

	all := make([]backtesting.SessionChange, 0, stats.Total())
	all = append(all, stats.UpDays...)
	all = append(all, stats.DownDays...)
	sort.Slice(all, func(i, j int) bool { return all[i].Date.Before(all[j].Date) })

	w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
	fmt.Fprintln(w, "DATE\tSTART\tEND\tDIFF\tPCT")
	for _, c := range all {
		fmt.Fprintf(w, "%s\t%.4f\t%.4f\t%+.4f\t%+.2f%%\n",
			c.Date.Format("2006-01-02"), c.StartPrice, c.EndPrice, c.Diff, c.PctChange)
	}
	w.Flush()

	fmt.Printf("sessions=%d up=%d down=%d\n", stats.Total(), len(stats.UpDays), len(stats.DownDays))
	fmt.Printf("avg up: %+.4f (%+.2f%%)  avg down: %+.4f (%+.2f%%)  avg all: %+.4f (%+.2f%%)\n",
		stats.AvgUpDiff, stats.AvgUpPct, stats.AvgDownDiff, stats.AvgDownPct,
		stats.AvgChangeDiff, stats.AvgChangePct)
}
