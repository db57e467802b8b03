package backtesting

import (
	"fmt"
	"math"

	"supportscan/internal/domain"
	"supportscan/internal/ports"
)

// minSupportValue is the threshold below which percentage arithmetic against
// a support value (or a realized low) is considered undefined.
const minSupportValue = 1e-9

// ClassifySession evaluates one completed session against the named support
// value. The full snapshot sequence for the instrument is needed to realize
// the intrasession low; snapshots outside [start, end) are ignored. Sessions
// whose start carries no value for the indicator return
// ports.ErrMissingSupportValue; a near-zero support value returns
// ports.ErrDegenerateSupport. Both are recoverable per-session conditions.
func (e *Engine) ClassifySession(sess domain.Session, indicator string, snaps []*domain.Snapshot) (*domain.Outcome, error) {
	support, ok := sess.Start.Indicator(indicator)
	if !ok {
		return nil, fmt.Errorf("indicator %q at %s: %w", indicator, sess.Start.CollectedAt, ports.ErrMissingSupportValue)
	}
	out, err := e.classify(sess.Start, sess.End.Price, support, indicator, false)
	if err != nil {
		return nil, err
	}
	out.EndTime = sess.End.LocalTime(e.cfg.UTCOffsetHours)

	if trueLow, ok := sessionTrueLow(sess, snaps); ok {
		out.TrueLow = trueLow
		out.TrueLowValid = true
		// Division by a zero or negative realized low is as undefined as a
		// zero support; the safety margin is left unset in that case.
		if trueLow > minSupportValue {
			out.SafetyDistancePct = 100 * (trueLow - support) / trueLow
			out.SafetyDistanceValid = true
		}
	}
	return out, nil
}

// ClassifyOpen evaluates the still-open session against the latest snapshot,
// producing a provisional outcome. The arithmetic is identical to completed
// sessions but the result is tagged provisional and carries no intrasession
// low, so it never enters win-rate or safety aggregates by default.
func (e *Engine) ClassifyOpen(open domain.OpenSession, indicator string) (*domain.Outcome, error) {
	support, ok := open.Start.Indicator(indicator)
	if !ok {
		return nil, fmt.Errorf("indicator %q at %s: %w", indicator, open.Start.CollectedAt, ports.ErrMissingSupportValue)
	}
	return e.classify(open.Start, open.Latest.Price, support, indicator, true)
}

func (e *Engine) classify(start *domain.Snapshot, reference, support float64, indicator string, provisional bool) (*domain.Outcome, error) {
	if math.Abs(support) < minSupportValue {
		return nil, fmt.Errorf("indicator %q at %s: support %v: %w", indicator, start.CollectedAt, support, ports.ErrDegenerateSupport)
	}
	diff := reference - support
	return &domain.Outcome{
		Symbol:         start.Symbol,
		Indicator:      indicator,
		StartTime:      start.LocalTime(e.cfg.UTCOffsetHours),
		SupportValue:   support,
		ReferenceValue: reference,
		Passed:         reference >= support,
		Diff:           diff,
		PctDiff:        100 * diff / support,
		Provisional:    provisional,
	}, nil
}

// sessionTrueLow returns the minimum low across snapshots strictly within
// [start, end), or false when no snapshot in the window carries a low.
func sessionTrueLow(sess domain.Session, snaps []*domain.Snapshot) (float64, bool) {
	low := math.Inf(1)
	found := false
	for _, snap := range snaps {
		if snap.CollectedAt.Before(sess.Start.CollectedAt) || !snap.CollectedAt.Before(sess.End.CollectedAt) {
			continue
		}
		if !snap.LowValid {
			continue
		}
		if snap.Low < low {
			low = snap.Low
			found = true
		}
	}
	return low, found
}
