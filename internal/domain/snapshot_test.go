package domain

import (
	"testing"
	"time"
)

func TestSnapshot_LocalTime(t *testing.T) {
	snap := &Snapshot{CollectedAt: time.Date(2026, 1, 1, 8, 0, 0, 0, time.UTC)}

	if got := snap.LocalTime(8).Hour(); got != 16 {
		t.Errorf("Expected hour 16 at UTC+8, got %d", got)
	}
	if got := snap.LocalTime(-5).Hour(); got != 3 {
		t.Errorf("Expected hour 3 at UTC-5, got %d", got)
	}
	if got := snap.LocalTime(0); !got.Equal(snap.CollectedAt) {
		t.Errorf("Zero offset must be identity, got %s", got)
	}
}

func TestSnapshot_Indicator(t *testing.T) {
	snap := &Snapshot{Indicators: map[string]float64{"sma_20": 95.5, "zeroed": 0}}

	if v, ok := snap.Indicator("sma_20"); !ok || v != 95.5 {
		t.Errorf("Expected (95.5, true), got (%f, %v)", v, ok)
	}
	// A stored zero is present; only an absent key is missing.
	if _, ok := snap.Indicator("zeroed"); !ok {
		t.Error("Stored zero must be reported as present")
	}
	if _, ok := snap.Indicator("absent"); ok {
		t.Error("Absent key must be reported as missing")
	}
}

func TestOutcome_Verdict(t *testing.T) {
	tests := []struct {
		name    string
		outcome Outcome
		want    Verdict
	}{
		{"pass", Outcome{Passed: true}, VerdictPass},
		{"fail", Outcome{Passed: false}, VerdictFail},
		{"provisional wins over pass", Outcome{Passed: true, Provisional: true}, VerdictProvisional},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.outcome.Verdict(); got != tt.want {
				t.Errorf("Expected %s, got %s", tt.want, got)
			}
		})
	}
}
