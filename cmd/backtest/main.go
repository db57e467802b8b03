package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"log"
	"os"
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

// Backtests one support indicator against every stored session for the
// configured symbols and prints per-session verdicts plus a summary.
func main() {
	csvPath := flag.String("csv", "", "optional path to write per-session outcomes as CSV")
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

	// 6. Run the backtest per symbol
	for _, symbol := range cfg.Symbols {
		result, err := svc.Backtest(ctx, symbol, cfg.Indicator)
		if err != nil {
			if errors.Is(err, ports.ErrEmptyInput) {
				appLogger.Warn(ctx, "No snapshots collected yet", map[string]interface{}{"symbol": symbol})
			} else {
				appLogger.Error(ctx, err, "Backtest failed", map[string]interface{}{"symbol": symbol})
			}
			continue
		}
		printBacktest(result)

		if *csvPath != "" {
			filename := utils.OutputPath(*csvPath, symbol, cfg.Indicator)
			if err := utils.WriteOutcomesToCSV(result.Outcomes, filename); err != nil {
				appLogger.Error(ctx, err, "Failed to write outcomes CSV", map[string]interface{}{"filename": filename})
			} else {
				appLogger.Info(ctx, "Outcomes written", map[string]interface{}{"filename": filename})
			}
		}

		if err := svc.Notify(ctx, renderBacktestMessage(result)); err != nil {
			appLogger.Error(ctx, err, "Failed to deliver backtest summary", map[string]interface{}{"symbol": symbol})
		}
	}
}

// renderBacktestMessage renders a one-line summary for chat delivery.
func renderBacktestMessage(result *backtesting.BacktestResult) string {
	s := result.Summary
	return fmt.Sprintf("%s %s backtest: %d sessions, %d passed, %d failed, win rate %.2f%%",
		result.Symbol, result.Indicator, s.Total, s.Passed, s.Failed, s.WinRate)
}

func printBacktest(result *backtesting.BacktestResult) {
	fmt.Printf("\n=== %s / %s ===\n", result.Symbol, result.Indicator)

	w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
	fmt.Fprintln(w, "START\tEND\tSUPPORT\tCLOSE\tVERDICT\tDIFF%\tSAFETY%")
	for _, o := range result.Outcomes {
		end := "-"
		if !o.EndTime.IsZero() {
			end = o.EndTime.Format("2006-01-02 15:04")
		}
		safety := "-"
		if o.SafetyDistanceValid {
			safety = fmt.Sprintf("%.2f", o.SafetyDistancePct)
		}
		fmt.Fprintf(w, "%s\t%s\t%.4f\t%.4f\t%s\t%.2f\t%s\n",
			o.StartTime.Format("2006-01-02 15:04"), end,
			o.SupportValue, o.ReferenceValue, o.Verdict(), o.PctDiff, safety)
	}
	w.Flush()

	s := result.Summary
	fmt.Printf("sessions=%d passed=%d failed=%d winRate=%.2f%%\n", s.Total, s.Passed, s.Failed, s.WinRate)
	d := result.Diagnostics
	if d.GapDroppedPairs+d.MissingSupport+d.Degenerate > 0 {
		fmt.Printf("skipped: gaps=%d missingSupport=%d degenerate=%d\n",
			d.GapDroppedPairs, d.MissingSupport, d.Degenerate)
	}
}
