package backtesting

import (
	"errors"
	"math"
	"testing"
	"time"

	"supportscan/internal/domain"
	"supportscan/internal/ports"
)

func testSession(startPrice, endPrice float64, indicators map[string]float64) domain.Session {
	return domain.Session{
		Start: snapAt(boundaryTime(0), startPrice, indicators),
		End:   snapAt(boundaryTime(1), endPrice, nil),
	}
}

func TestClassifySession_Verdicts(t *testing.T) {
	e := newTestEngine(t)

	tests := []struct {
		name     string
		support  float64
		endPrice float64
		passed   bool
	}{
		{name: "close above support passes", support: 95, endPrice: 110, passed: true},
		{name: "close below support fails", support: 95, endPrice: 90, passed: false},
		{name: "close exactly on support passes", support: 110, endPrice: 110, passed: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			sess := testSession(100, tt.endPrice, map[string]float64{"sma_20": tt.support})
			out, err := e.ClassifySession(sess, "sma_20", nil)
			if err != nil {
				t.Fatalf("Unexpected error: %v", err)
			}
			if out.Passed != tt.passed {
				t.Errorf("Expected passed=%v, got %v", tt.passed, out.Passed)
			}
			wantDiff := tt.endPrice - tt.support
			if math.Abs(out.Diff-wantDiff) > 1e-9 {
				t.Errorf("Expected diff %f, got %f", wantDiff, out.Diff)
			}
			wantPct := 100 * wantDiff / tt.support
			if math.Abs(out.PctDiff-wantPct) > 1e-9 {
				t.Errorf("Expected pct diff %f, got %f", wantPct, out.PctDiff)
			}
			if out.Provisional {
				t.Error("Completed session must not be provisional")
			}
		})
	}
}

func TestClassifySession_MissingSupport(t *testing.T) {
	e := newTestEngine(t)
	sess := testSession(100, 110, map[string]float64{"ema_50": 95})

	_, err := e.ClassifySession(sess, "sma_20", nil)
	if !errors.Is(err, ports.ErrMissingSupportValue) {
		t.Errorf("Expected ErrMissingSupportValue, got %v", err)
	}
}

func TestClassifySession_DegenerateSupport(t *testing.T) {
	e := newTestEngine(t)
	sess := testSession(100, 110, map[string]float64{"sma_20": 0})

	_, err := e.ClassifySession(sess, "sma_20", nil)
	if !errors.Is(err, ports.ErrDegenerateSupport) {
		t.Errorf("Expected ErrDegenerateSupport, got %v", err)
	}
}

func TestClassifySession_SafetyDistance(t *testing.T) {
	e := newTestEngine(t)
	sess := testSession(100, 110, map[string]float64{"sma_20": 95})

	// Intrasession snapshots with lows; the boundary ending the session does
	// not belong to the window.
	snaps := []*domain.Snapshot{
		sess.Start,
		snapWithLow(boundaryTime(0).Add(6*time.Hour), 102, 98, nil),
		snapWithLow(boundaryTime(0).Add(12*time.Hour), 104, 101, nil),
		snapWithLow(boundaryTime(1), 110, 90, nil), // end boundary, excluded
	}

	out, err := e.ClassifySession(sess, "sma_20", snaps)
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	if !out.TrueLowValid || out.TrueLow != 98 {
		t.Fatalf("Expected true low 98, got %f (valid=%v)", out.TrueLow, out.TrueLowValid)
	}
	if !out.SafetyDistanceValid {
		t.Fatal("Expected a valid safety distance")
	}
	want := 100 * (98.0 - 95.0) / 98.0
	if math.Abs(out.SafetyDistancePct-want) > 1e-9 {
		t.Errorf("Expected safety distance %f, got %f", want, out.SafetyDistancePct)
	}
}

func TestClassifySession_BreachedSupportStillPasses(t *testing.T) {
	e := newTestEngine(t)
	// Intraday low dips below the support, but the close recovers above it:
	// the close-based verdict passes while the safety distance goes negative.
	sess := testSession(100, 110, map[string]float64{"sma_20": 95})
	snaps := []*domain.Snapshot{
		sess.Start,
		snapWithLow(boundaryTime(0).Add(10*time.Hour), 96, 92, nil),
	}

	out, err := e.ClassifySession(sess, "sma_20", snaps)
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	if !out.Passed {
		t.Error("Close above support must pass regardless of the intraday breach")
	}
	if !out.SafetyDistanceValid || out.SafetyDistancePct >= 0 {
		t.Errorf("Expected negative safety distance, got %f (valid=%v)", out.SafetyDistancePct, out.SafetyDistanceValid)
	}
}

func TestClassifySession_NoLowsNoSafety(t *testing.T) {
	e := newTestEngine(t)
	sess := testSession(100, 110, map[string]float64{"sma_20": 95})

	out, err := e.ClassifySession(sess, "sma_20", []*domain.Snapshot{sess.Start, sess.End})
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	if out.TrueLowValid || out.SafetyDistanceValid {
		t.Error("Expected no true low and no safety distance without intrasession lows")
	}
	if !out.Passed {
		t.Error("The close verdict must still be computed")
	}
}

func TestClassifySession_ZeroTrueLowNoSafety(t *testing.T) {
	e := newTestEngine(t)
	sess := testSession(100, 110, map[string]float64{"sma_20": 95})
	snaps := []*domain.Snapshot{
		sess.Start,
		snapWithLow(boundaryTime(0).Add(6*time.Hour), 102, 0, nil),
	}

	out, err := e.ClassifySession(sess, "sma_20", snaps)
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	if !out.TrueLowValid {
		t.Error("The zero low is still the realized low")
	}
	if out.SafetyDistanceValid {
		t.Error("Safety distance must be unset when the realized low is zero")
	}
}

func TestClassifyOpen(t *testing.T) {
	e := newTestEngine(t)
	open := domain.OpenSession{
		Start:  snapAt(boundaryTime(0), 100, map[string]float64{"sma_20": 95}),
		Latest: snapAt(boundaryTime(0).Add(6*time.Hour), 93, nil),
	}

	out, err := e.ClassifyOpen(open, "sma_20")
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	if !out.Provisional {
		t.Error("Open session outcome must be provisional")
	}
	if out.Verdict() != domain.VerdictProvisional {
		t.Errorf("Expected PROVISIONAL verdict, got %s", out.Verdict())
	}
	if out.Passed {
		t.Error("Latest price below support must not pass")
	}
	if !out.EndTime.IsZero() {
		t.Error("Provisional outcome must carry no end time")
	}
	if out.TrueLowValid || out.SafetyDistanceValid {
		t.Error("Provisional outcome must carry no intrasession fields")
	}
}

func TestClassifySession_LocalTimes(t *testing.T) {
	e := newTestEngine(t)
	sess := testSession(100, 110, map[string]float64{"sma_20": 95})

	out, err := e.ClassifySession(sess, "sma_20", nil)
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	if out.StartTime.Hour() != 16 {
		t.Errorf("Expected local start hour 16, got %d", out.StartTime.Hour())
	}
	if out.EndTime.Sub(out.StartTime) != 24*time.Hour {
		t.Errorf("Expected a 24h session, got %s", out.EndTime.Sub(out.StartTime))
	}
}
