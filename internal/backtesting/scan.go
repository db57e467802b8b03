package backtesting

import (
	"context"
	"errors"
	"math"

	"supportscan/internal/domain"
	"supportscan/internal/ports"
)

// CandidateSet partitions indicator column names by value scale. Only
// price-scale names are support-level candidates; unknown names are surfaced
// so the caller can log them instead of silently dropping them.
type CandidateSet struct {
	Price      []string
	Oscillator []string
	Unknown    []string
}

// SelectCandidates classifies indicator names into candidate and
// non-candidate sets, preserving the input order.
func SelectCandidates(names []string) CandidateSet {
	var set CandidateSet
	for _, name := range names {
		switch domain.ClassifyIndicator(name) {
		case domain.PriceScale:
			set.Price = append(set.Price, name)
		case domain.OscillatorScale:
			set.Oscillator = append(set.Oscillator, name)
		default:
			set.Unknown = append(set.Unknown, name)
		}
	}
	return set
}

// ScanResult holds one IndicatorStat per candidate that produced at least one
// valid, plausible session. Candidates with zero usable sessions are omitted
// entirely rather than reported as zero.
type ScanResult struct {
	Symbol      string
	Stats       []domain.IndicatorStat
	Diagnostics Diagnostics
}

// sessionEval caches the per-session values shared by every candidate so the
// snapshot window is walked once per session, not once per (session, indicator).
type sessionEval struct {
	session   domain.Session
	reference float64
	trueLow   float64
	hasLow    bool
}

// Scan evaluates every candidate support definition against every valid
// session of one instrument. Each candidate is independent of the others, so
// the loop is embarrassingly parallel; the reference behavior stays
// single-goroutine to keep results deterministic given the input order.
func (e *Engine) Scan(ctx context.Context, snaps []*domain.Snapshot, candidates []string) *ScanResult {
	result := &ScanResult{}
	if len(snaps) == 0 {
		return result
	}
	result.Symbol = snaps[0].Symbol

	boundaries := e.Boundaries(snaps)
	sessions, dropped := e.PairSessions(boundaries)
	result.Diagnostics.GapDroppedPairs = dropped
	if len(sessions) == 0 {
		return result
	}

	evals := make([]sessionEval, 0, len(sessions))
	for _, sess := range sessions {
		ev := sessionEval{session: sess, reference: sess.End.Price}
		ev.trueLow, ev.hasLow = sessionTrueLow(sess, snaps)
		evals = append(evals, ev)
	}

	for _, indicator := range candidates {
		stat, diag := e.scanIndicator(evals, indicator)
		result.Diagnostics.add(diag)
		if stat == nil {
			continue
		}
		result.Stats = append(result.Stats, *stat)
	}

	e.logger.Debug(ctx, "Indicator scan finished", map[string]interface{}{
		"symbol":      result.Symbol,
		"candidates":  len(candidates),
		"emitted":     len(result.Stats),
		"sessions":    len(sessions),
		"gapDropped":  dropped,
		"implausible": result.Diagnostics.Implausible,
	})
	return result
}

func (e *Engine) scanIndicator(evals []sessionEval, indicator string) (*domain.IndicatorStat, Diagnostics) {
	var diag Diagnostics
	var sessions, passes, safetyCount int
	var totalSafety float64

	for _, ev := range evals {
		support, ok := ev.session.Start.Indicator(indicator)
		if !ok {
			diag.MissingSupport++
			continue
		}
		// Cheap outlier rejection for mismatched scales that slipped past the
		// name classification. A legitimately far support during a large move
		// is wrongly discarded too; that false negative is accepted.
		if math.Abs(support-ev.reference) > e.cfg.PlausibilityRatio*math.Abs(ev.reference) {
			diag.Implausible++
			continue
		}
		out, err := e.classify(ev.session.Start, ev.reference, support, indicator, false)
		if err != nil {
			if errors.Is(err, ports.ErrDegenerateSupport) {
				diag.Degenerate++
			}
			continue
		}
		if ev.hasLow && ev.trueLow <= minSupportValue {
			// A zero or negative realized low makes the safety distance as
			// undefined as a zero support; exclude the session entirely.
			diag.Degenerate++
			continue
		}
		sessions++
		if out.Passed {
			passes++
		}
		if ev.hasLow {
			totalSafety += 100 * (ev.trueLow - support) / ev.trueLow
			safetyCount++
		}
	}

	if sessions == 0 {
		return nil, diag
	}
	stat := &domain.IndicatorStat{
		Symbol:    evals[0].session.Start.Symbol,
		Indicator: indicator,
		Scale:     domain.ClassifyIndicator(indicator),
		Sessions:  sessions,
		Passes:    passes,
		WinRate:   100 * float64(passes) / float64(sessions),
	}
	if safetyCount > 0 {
		stat.AvgSafetyDistancePct = totalSafety / float64(safetyCount)
	}
	return stat, diag
}
