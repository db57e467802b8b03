package backtesting

import (
	"math"
	"testing"

	"supportscan/internal/domain"
)

func TestAnalyzeChanges(t *testing.T) {
	e := newTestEngine(t)

	// 100 -> 110 (up), 110 -> 99 (down), 99 -> 99 (flat, counts as up).
	snaps := []*domain.Snapshot{
		snapAt(boundaryTime(0), 100, nil),
		snapAt(boundaryTime(1), 110, nil),
		snapAt(boundaryTime(2), 99, nil),
		snapAt(boundaryTime(3), 99, nil),
	}

	stats := e.AnalyzeChanges(snaps)
	if stats.Total() != 3 {
		t.Fatalf("Expected 3 sessions, got %d", stats.Total())
	}
	if len(stats.UpDays) != 2 || len(stats.DownDays) != 1 {
		t.Fatalf("Expected 2 up / 1 down, got %d / %d", len(stats.UpDays), len(stats.DownDays))
	}

	if math.Abs(stats.AvgUpDiff-5) > 1e-9 { // (10 + 0) / 2
		t.Errorf("Expected avg up diff 5, got %f", stats.AvgUpDiff)
	}
	if math.Abs(stats.AvgDownDiff+11) > 1e-9 {
		t.Errorf("Expected avg down diff -11, got %f", stats.AvgDownDiff)
	}
	wantAll := (10.0 + 0.0 - 11.0) / 3.0
	if math.Abs(stats.AvgChangeDiff-wantAll) > 1e-9 {
		t.Errorf("Expected avg change diff %f, got %f", wantAll, stats.AvgChangeDiff)
	}

	down := stats.DownDays[0]
	wantPct := 100 * (99.0 - 110.0) / 110.0
	if math.Abs(down.PctChange-wantPct) > 1e-9 {
		t.Errorf("Expected down pct %f, got %f", wantPct, down.PctChange)
	}
	if down.Date.Hour() != 16 {
		t.Errorf("Expected local session date at hour 16, got %d", down.Date.Hour())
	}
}

func TestAnalyzeChanges_GapsExcluded(t *testing.T) {
	e := newTestEngine(t)

	snaps := []*domain.Snapshot{
		snapAt(boundaryTime(0), 100, nil),
		snapAt(boundaryTime(1), 110, nil),
		snapAt(boundaryTime(3), 120, nil), // day 2 missing
	}

	stats := e.AnalyzeChanges(snaps)
	if stats.Total() != 1 {
		t.Errorf("Expected only the contiguous session, got %d", stats.Total())
	}
}

func TestAnalyzeChanges_Empty(t *testing.T) {
	e := newTestEngine(t)
	stats := e.AnalyzeChanges(nil)
	if stats.Total() != 0 {
		t.Errorf("Expected no sessions, got %d", stats.Total())
	}
	if stats.AvgChangeDiff != 0 || stats.AvgUpPct != 0 {
		t.Error("Averages must stay zero for empty input")
	}
}
