package domain

import "time"

// Verdict labels the close-based result of one session against one support value.
type Verdict string

const (
	VerdictPass        Verdict = "PASS"
	VerdictFail        Verdict = "FAIL"
	VerdictProvisional Verdict = "PROVISIONAL"
)

// Outcome is the result of classifying one Session or OpenSession against one
// named support value. The close-based pass/fail verdict and the intrasession
// safety distance are independent properties: a session can pass on close
// while the support was breached intraday, and both facts are reported.
type Outcome struct {
	Symbol    string
	Indicator string

	StartTime time.Time // Local session start
	EndTime   time.Time // Local session end; zero for provisional outcomes

	SupportValue   float64 // Indicator value at the start boundary
	ReferenceValue float64 // Close at the end boundary, or latest price for provisional
	Passed         bool    // ReferenceValue >= SupportValue (equality counts as pass)
	Diff           float64 // ReferenceValue - SupportValue
	PctDiff        float64 // 100 * Diff / SupportValue

	// TrueLow is the minimum of the low values across snapshots within
	// [start, end). Undefined for provisional outcomes or when the source
	// carries no lows.
	TrueLow      float64
	TrueLowValid bool

	// SafetyDistancePct is 100 * (TrueLow - SupportValue) / TrueLow.
	// Positive: the support sat below the realized low (no intrasession
	// breach). Negative: the support was breached intraday even if the
	// close-based verdict says pass.
	SafetyDistancePct   float64
	SafetyDistanceValid bool

	Provisional bool // True for open-session outcomes
}

// Verdict returns the display label for this outcome.
func (o *Outcome) Verdict() Verdict {
	if o.Provisional {
		return VerdictProvisional
	}
	if o.Passed {
		return VerdictPass
	}
	return VerdictFail
}

// IndicatorStat aggregates outcomes over all valid, plausible sessions for one
// (instrument, indicator) pair. Provisional outcomes never enter the counts.
type IndicatorStat struct {
	Symbol    string
	Indicator string
	Scale     IndicatorScale // Name-based classification of the indicator

	Sessions int     // Valid plausible sessions evaluated
	Passes   int     // Sessions whose close held above the support
	WinRate  float64 // 100 * Passes / Sessions

	// AvgSafetyDistancePct is the mean safety distance across the evaluated
	// sessions. Values near zero from the positive side mean the support
	// tracked the realized low tightly without being breached.
	AvgSafetyDistancePct float64
}
