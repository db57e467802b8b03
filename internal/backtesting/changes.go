package backtesting

import (
	"time"

	"supportscan/internal/domain"
)

// SessionChange records the close-to-close move over one valid session.
type SessionChange struct {
	Date       time.Time // Local session start
	StartPrice float64
	EndPrice   float64
	Diff       float64
	PctChange  float64
}

// ChangeStats summarizes up-day and down-day behavior across all valid
// sessions of one instrument. A flat session (zero diff) counts as an up day.
type ChangeStats struct {
	Symbol        string
	UpDays        []SessionChange
	DownDays      []SessionChange
	AvgUpDiff     float64
	AvgUpPct      float64
	AvgDownDiff   float64
	AvgDownPct    float64
	AvgChangeDiff float64
	AvgChangePct  float64
}

// Total returns the number of valid sessions analyzed.
func (c *ChangeStats) Total() int {
	return len(c.UpDays) + len(c.DownDays)
}

// AnalyzeChanges computes session-over-session price changes on the same
// aligner and pairer the support backtest uses, so gaps and duplicate
// boundaries are handled identically.
func (e *Engine) AnalyzeChanges(snaps []*domain.Snapshot) *ChangeStats {
	stats := &ChangeStats{}
	if len(snaps) == 0 {
		return stats
	}
	stats.Symbol = snaps[0].Symbol

	sessions, _ := e.PairSessions(e.Boundaries(snaps))
	var upDiff, upPct, downDiff, downPct float64
	for _, sess := range sessions {
		diff := sess.End.Price - sess.Start.Price
		change := SessionChange{
			Date:       sess.Start.LocalTime(e.cfg.UTCOffsetHours),
			StartPrice: sess.Start.Price,
			EndPrice:   sess.End.Price,
			Diff:       diff,
		}
		if sess.Start.Price != 0 {
			change.PctChange = 100 * diff / sess.Start.Price
		}
		if diff >= 0 {
			stats.UpDays = append(stats.UpDays, change)
			upDiff += diff
			upPct += change.PctChange
		} else {
			stats.DownDays = append(stats.DownDays, change)
			downDiff += diff
			downPct += change.PctChange
		}
	}

	if n := len(stats.UpDays); n > 0 {
		stats.AvgUpDiff = upDiff / float64(n)
		stats.AvgUpPct = upPct / float64(n)
	}
	if n := len(stats.DownDays); n > 0 {
		stats.AvgDownDiff = downDiff / float64(n)
		stats.AvgDownPct = downPct / float64(n)
	}
	if n := stats.Total(); n > 0 {
		stats.AvgChangeDiff = (upDiff + downDiff) / float64(n)
		stats.AvgChangePct = (upPct + downPct) / float64(n)
	}
	return stats
}
