package backtesting

import (
	"context"
	"errors"

	"supportscan/internal/domain"
	"supportscan/internal/ports"
)

// BacktestResult holds the classified outcomes for one (instrument, indicator)
// backtest: completed sessions in order, followed by the provisional outcome
// for the still-open session when one exists.
type BacktestResult struct {
	Symbol      string
	Indicator   string
	Outcomes    []*domain.Outcome
	Summary     Summary
	Diagnostics Diagnostics
}

// Summary aggregates completed sessions only; the provisional outcome is
// excluded from the denominator.
type Summary struct {
	Total   int
	Passed  int
	Failed  int
	WinRate float64 // 100 * Passed / Total, 0 when Total is 0
}

// Backtest classifies every valid session in the snapshot sequence against a
// single named support definition. An instrument with no boundary snapshots at
// the anchor hour yields an empty result, not an error. Per-session anomalies
// (missing support value, degenerate support) are dropped and counted in the
// diagnostics so one bad data point never aborts the run.
func (e *Engine) Backtest(ctx context.Context, snaps []*domain.Snapshot, indicator string) *BacktestResult {
	result := &BacktestResult{Indicator: indicator}
	if len(snaps) == 0 {
		return result
	}
	result.Symbol = snaps[0].Symbol

	boundaries := e.Boundaries(snaps)
	if len(boundaries) == 0 {
		e.logger.Warn(ctx, "No session boundaries at anchor hour", map[string]interface{}{
			"symbol":     result.Symbol,
			"anchorHour": e.cfg.AnchorHour,
		})
		return result
	}

	sessions, dropped := e.PairSessions(boundaries)
	result.Diagnostics.GapDroppedPairs = dropped

	for _, sess := range sessions {
		out, err := e.ClassifySession(sess, indicator, snaps)
		if err != nil {
			switch {
			case errors.Is(err, ports.ErrMissingSupportValue):
				result.Diagnostics.MissingSupport++
			case errors.Is(err, ports.ErrDegenerateSupport):
				result.Diagnostics.Degenerate++
				e.logger.Debug(ctx, "Session excluded for degenerate support", map[string]interface{}{
					"symbol":    result.Symbol,
					"indicator": indicator,
					"start":     sess.Start.CollectedAt,
				})
			}
			continue
		}
		result.Outcomes = append(result.Outcomes, out)
		result.Summary.Total++
		if out.Passed {
			result.Summary.Passed++
		} else {
			result.Summary.Failed++
		}
	}
	if result.Summary.Total > 0 {
		result.Summary.WinRate = 100 * float64(result.Summary.Passed) / float64(result.Summary.Total)
	}

	if open := e.OpenSession(boundaries, snaps[len(snaps)-1]); open != nil {
		out, err := e.ClassifyOpen(*open, indicator)
		if err == nil {
			result.Outcomes = append(result.Outcomes, out)
		} else if errors.Is(err, ports.ErrMissingSupportValue) {
			result.Diagnostics.MissingSupport++
		} else if errors.Is(err, ports.ErrDegenerateSupport) {
			result.Diagnostics.Degenerate++
		}
	}
	return result
}
