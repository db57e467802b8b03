package app

import (
	"context"
	"errors"
	"fmt"
	"time"

	"supportscan/config"
	"supportscan/internal/backtesting"
	"supportscan/internal/domain"
	"supportscan/internal/indicators"
	"supportscan/internal/ports"
)

// Service orchestrates snapshot collection, backtesting, scanning and change
// analysis over the repository, the exchange client and the engine.
type Service struct {
	cfg      *config.Config
	logger   ports.Logger
	repo     ports.SnapshotRepository
	market   ports.MarketDataClient
	engine   *backtesting.Engine
	builder  *indicators.SnapshotBuilder
	notifier ports.Notifier // Optional; nil disables delivery
}

// NewService creates a new application service instance.
// The market client is only required for collection; pass nil when the
// service backs a read-only command. The notifier is always optional.
func NewService(
	cfg *config.Config,
	logger ports.Logger,
	repo ports.SnapshotRepository,
	market ports.MarketDataClient,
	engine *backtesting.Engine,
	builder *indicators.SnapshotBuilder,
	notifier ports.Notifier,
) (*Service, error) {

	// Validate dependencies
	if cfg == nil || logger == nil || repo == nil || engine == nil {
		return nil, fmt.Errorf("missing required dependencies for Service")
	}

	return &Service{
		cfg:      cfg,
		logger:   logger,
		repo:     repo,
		market:   market,
		engine:   engine,
		builder:  builder,
		notifier: notifier,
	}, nil
}

// CollectOnce builds and stores one snapshot per configured symbol. A symbol
// that fails after all retries is logged and skipped; the method returns an
// error only when every symbol failed, so a single flaky instrument does not
// abort a scheduled run.
func (s *Service) CollectOnce(ctx context.Context) error {
	if s.market == nil || s.builder == nil {
		return fmt.Errorf("collection requires a market data client and a snapshot builder")
	}

	collectedAt := time.Now().UTC()
	var failed int
	for _, symbol := range s.cfg.Symbols {
		if err := s.collectSymbol(ctx, symbol, collectedAt); err != nil {
			s.logger.Error(ctx, err, "Snapshot collection failed for symbol", map[string]interface{}{"symbol": symbol})
			failed++
		}
	}
	if failed == len(s.cfg.Symbols) {
		return fmt.Errorf("snapshot collection failed for all %d symbols", failed)
	}
	return nil
}

// collectSymbol fetches the kline window, builds the snapshot and stores it,
// retrying transient exchange failures.
func (s *Service) collectSymbol(ctx context.Context, symbol string, collectedAt time.Time) error {
	op := "collectSymbol"
	required := s.builder.RequiredDataPoints()

	var klines []*domain.Kline
	var err error
	for attempt := 1; attempt <= s.cfg.CollectRetries; attempt++ {
		klines, err = s.market.GetKlines(ctx, symbol, s.cfg.KlineInterval, required)
		if err == nil {
			break
		}
		s.logger.Warn(ctx, op+": kline fetch failed, retrying", map[string]interface{}{
			"symbol":  symbol,
			"attempt": attempt,
			"error":   err.Error(),
		})
		if attempt < s.cfg.CollectRetries {
			select {
			case <-time.After(s.cfg.CollectRetryDelay):
			case <-ctx.Done():
				return ctx.Err()
			}
		}
	}
	if err != nil {
		return fmt.Errorf("failed to fetch klines after %d attempts: %w", s.cfg.CollectRetries, err)
	}
	if len(klines) < required {
		s.logger.Warn(ctx, op+": short kline window, some columns will be omitted", map[string]interface{}{
			"symbol":   symbol,
			"got":      len(klines),
			"required": required,
		})
	}

	snap, err := s.builder.Build(ctx, symbol, klines, collectedAt)
	if err != nil {
		return fmt.Errorf("failed to build snapshot: %w", err)
	}

	id, err := s.repo.InsertSnapshot(ctx, snap)
	if err != nil {
		if errors.Is(err, ports.ErrDuplicateEntry) {
			s.logger.Warn(ctx, op+": snapshot already recorded for this timestamp", map[string]interface{}{
				"symbol":      symbol,
				"collectedAt": snap.CollectedAt,
			})
			return nil
		}
		return fmt.Errorf("failed to store snapshot: %w", err)
	}

	s.logger.Info(ctx, "Snapshot stored", map[string]interface{}{
		"symbol":      symbol,
		"snapshotID":  id,
		"collectedAt": snap.CollectedAt,
		"price":       snap.Price,
		"columns":     len(snap.Indicators),
	})
	return nil
}

// Backfill fetches historical klines covering the given number of days and
// stores one snapshot per closed kline, so backtests have sessions to work
// with before the hourly collector has run for weeks. The fetch window is
// widened by the builder's lookback so the earliest stored snapshots carry
// the full column set. Timestamps already recorded are skipped.
func (s *Service) Backfill(ctx context.Context, days int) error {
	if s.market == nil || s.builder == nil {
		return fmt.Errorf("backfill requires a market data client and a snapshot builder")
	}
	if days <= 0 {
		return fmt.Errorf("backfill days must be positive, got %d", days)
	}

	end := time.Now().UTC()
	from := end.AddDate(0, 0, -days)
	step, err := time.ParseDuration(s.cfg.KlineInterval)
	if err != nil {
		step = time.Hour
	}
	warmup := time.Duration(s.builder.RequiredDataPoints()) * step

	var failed int
	for _, symbol := range s.cfg.Symbols {
		if err := s.backfillSymbol(ctx, symbol, from.Add(-warmup), from, end); err != nil {
			s.logger.Error(ctx, err, "Backfill failed for symbol", map[string]interface{}{"symbol": symbol})
			failed++
		}
	}
	if failed == len(s.cfg.Symbols) {
		return fmt.Errorf("backfill failed for all %d symbols", failed)
	}
	return nil
}

func (s *Service) backfillSymbol(ctx context.Context, symbol string, fetchFrom, rangeFrom, end time.Time) error {
	klines, err := s.market.GetKlinesRange(ctx, symbol, s.cfg.KlineInterval, fetchFrom, end)
	if err != nil {
		return fmt.Errorf("failed to fetch historical klines: %w", err)
	}
	if len(klines) == 0 {
		return fmt.Errorf("no historical klines returned for %s", symbol)
	}

	stored, skipped := 0, 0
	for i, k := range klines {
		if k.CloseTime.Before(rangeFrom) {
			continue // lookback warmup, not part of the requested range
		}
		snap, err := s.builder.Build(ctx, symbol, klines[:i+1], k.CloseTime)
		if err != nil {
			return fmt.Errorf("failed to build snapshot at %s: %w", k.CloseTime, err)
		}
		if _, err := s.repo.InsertSnapshot(ctx, snap); err != nil {
			if errors.Is(err, ports.ErrDuplicateEntry) {
				skipped++
				continue
			}
			return fmt.Errorf("failed to store snapshot at %s: %w", k.CloseTime, err)
		}
		stored++
	}

	s.logger.Info(ctx, "Backfill finished", map[string]interface{}{
		"symbol":  symbol,
		"stored":  stored,
		"skipped": skipped,
	})
	return nil
}

// loadSnapshots loads a symbol's ordered snapshot history, mapping an empty
// history to ports.ErrEmptyInput so callers can distinguish "nothing
// collected yet" from a real failure and move on to the next symbol.
func (s *Service) loadSnapshots(ctx context.Context, symbol string) ([]*domain.Snapshot, error) {
	snaps, err := s.repo.FindBySymbol(ctx, symbol)
	if err != nil {
		return nil, fmt.Errorf("failed to load snapshots for %s: %w", symbol, err)
	}
	if len(snaps) == 0 {
		return nil, fmt.Errorf("symbol %s: %w", symbol, ports.ErrEmptyInput)
	}
	return snaps, nil
}

// Backtest runs the single-indicator session backtest for one symbol.
func (s *Service) Backtest(ctx context.Context, symbol, indicator string) (*backtesting.BacktestResult, error) {
	snaps, err := s.loadSnapshots(ctx, symbol)
	if err != nil {
		return nil, err
	}
	return s.engine.Backtest(ctx, snaps, indicator), nil
}

// ScanReport bundles the scan output with its ranked, truncated leaderboard
// and the candidate partition used to produce it.
type ScanReport struct {
	Symbol     string
	Candidates backtesting.CandidateSet
	Result     *backtesting.ScanResult
	Ranked     []domain.IndicatorStat
}

// Scan evaluates every price-scale indicator column as a support candidate
// for one symbol and ranks the survivors by win rate, then mean safety
// distance. Non-price columns are excluded before evaluation; names the
// classifier does not recognize are reported, not silently dropped.
func (s *Service) Scan(ctx context.Context, symbol string) (*ScanReport, error) {
	snaps, err := s.loadSnapshots(ctx, symbol)
	if err != nil {
		return nil, err
	}

	names, err := s.repo.ListIndicatorNames(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list indicator columns: %w", err)
	}

	candidates := backtesting.SelectCandidates(names)
	if len(candidates.Unknown) > 0 {
		s.logger.Warn(ctx, "Indicator columns with unrecognized scale excluded from scan", map[string]interface{}{
			"symbol": symbol,
			"names":  candidates.Unknown,
		})
	}

	result := s.engine.Scan(ctx, snaps, candidates.Price)
	ranked := backtesting.TopN(backtesting.Rank(result.Stats), s.cfg.TopN)

	return &ScanReport{
		Symbol:     symbol,
		Candidates: candidates,
		Result:     result,
		Ranked:     ranked,
	}, nil
}

// Changes computes session-over-session close changes for one symbol.
func (s *Service) Changes(ctx context.Context, symbol string) (*backtesting.ChangeStats, error) {
	snaps, err := s.loadSnapshots(ctx, symbol)
	if err != nil {
		return nil, err
	}
	return s.engine.AnalyzeChanges(snaps), nil
}

// Notify delivers a rendered report when a notifier is configured. Without
// one the text stays wherever the caller printed it and this is a no-op.
func (s *Service) Notify(ctx context.Context, text string) error {
	if s.notifier == nil {
		return nil
	}
	if err := s.notifier.Send(ctx, text); err != nil {
		return fmt.Errorf("failed to deliver report: %w", err)
	}
	return nil
}
