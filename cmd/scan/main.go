package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"log"
	"os"
	"strings"
	"text/tabwriter"

	"supportscan/config"
	"supportscan/internal/adapters/logger"
	"supportscan/internal/adapters/sqlite"
	"supportscan/internal/adapters/telegram"
	"supportscan/internal/app"
	"supportscan/internal/backtesting"
	"supportscan/internal/ports"
	"supportscan/internal/utils"
)

// Scans every stored price-scale indicator column as a support candidate for
// the configured symbols and prints a ranked leaderboard. When Telegram is
// configured the leaderboard is delivered there as well.
func main() {
	csvPath := flag.String("csv", "", "optional path to write the ranked stats as CSV")
	flag.Parse()

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

	// 4. Initialize optional Telegram delivery
	var notifier ports.Notifier
	if cfg.NotifyEnabled() {
		tg, err := telegram.New(telegram.Config{
			BotToken: cfg.TelegramBotToken,
			ChatID:   cfg.TelegramChatID,
			Logger:   appLogger,
		})
		if err != nil {
			log.Fatalf("FATAL: Failed to initialize Telegram notifier: %v", err)
		}
		notifier = tg
	}

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

	svc, err := app.NewService(cfg, appLogger, repo, nil, engine, nil, notifier)
	if err != nil {
		log.Fatalf("FATAL: Failed to initialize service: %v", err)
	}

	// 6. Scan per symbol
	for _, symbol := range cfg.Symbols {
		report, err := svc.Scan(ctx, symbol)
		if err != nil {
			if errors.Is(err, ports.ErrEmptyInput) {
				appLogger.Warn(ctx, "No snapshots collected yet", map[string]interface{}{"symbol": symbol})
			} else {
				appLogger.Error(ctx, err, "Scan failed", map[string]interface{}{"symbol": symbol})
			}
			continue
		}
		printScan(report)

		if *csvPath != "" {
			filename := utils.OutputPath(*csvPath, symbol)
			if err := utils.WriteStatsToCSV(report.Ranked, filename); err != nil {
				appLogger.Error(ctx, err, "Failed to write stats CSV", map[string]interface{}{"filename": filename})
			} else {
				appLogger.Info(ctx, "Stats written", map[string]interface{}{"filename": filename})
			}
		}

		if err := svc.Notify(ctx, renderScanMessage(report)); err != nil {
			appLogger.Error(ctx, err, "Failed to deliver scan report", map[string]interface{}{"symbol": symbol})
		}
	}
}

func printScan(report *app.ScanReport) {
	fmt.Printf("\n=== %s: top %d support candidates ===\n", report.Symbol, len(report.Ranked))
	fmt.Printf("candidates: price=%d oscillator=%d unknown=%d\n",
		len(report.Candidates.Price), len(report.Candidates.Oscillator), len(report.Candidates.Unknown))
	if len(report.Candidates.Unknown) > 0 {
		fmt.Printf("unclassified: %s\n", strings.Join(report.Candidates.Unknown, ", "))
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
	fmt.Fprintln(w, "RANK\tINDICATOR\tSESSIONS\tPASSES\tWIN%\tAVG SAFETY%")
	for i, st := range report.Ranked {
		fmt.Fprintf(w, "%d\t%s\t%d\t%d\t%.2f\t%.2f\n",
			i+1, st.Indicator, st.Sessions, st.Passes, st.WinRate, st.AvgSafetyDistancePct)
	}
	w.Flush()

	d := report.Result.Diagnostics
	fmt.Printf("skipped: gaps=%d missingSupport=%d degenerate=%d implausible=%d\n",
		d.GapDroppedPairs, d.MissingSupport, d.Degenerate, d.Implausible)
}

// renderScanMessage renders a compact leaderboard for chat delivery.
func renderScanMessage(report *app.ScanReport) string {
	var b strings.Builder
	fmt.Fprintf(&b, "%s support scan\n", report.Symbol)
	limit := len(report.Ranked)
	if limit > 10 {
		limit = 10
	}
	for i, st := range report.Ranked[:limit] {
		fmt.Fprintf(&b, "%d. %s  %.1f%% (%d/%d)  safety %.2f%%\n",
			i+1, st.Indicator, st.WinRate, st.Passes, st.Sessions, st.AvgSafetyDistancePct)
	}
	if len(report.Ranked) == 0 {
		b.WriteString("no usable candidates\n")
	}
	return b.String()
}
