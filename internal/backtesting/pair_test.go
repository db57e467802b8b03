package backtesting

import (
	"errors"
	"testing"
	"time"

	"supportscan/internal/domain"
	"supportscan/internal/ports"
)

func TestValidatePair(t *testing.T) {
	e := newTestEngine(t)

	exact := e.ValidatePair(snapAt(boundaryTime(0), 100, nil), snapAt(boundaryTime(1), 110, nil))
	if exact != nil {
		t.Errorf("Unexpected error for exact spacing: %v", exact)
	}

	gap := e.ValidatePair(snapAt(boundaryTime(0), 100, nil), snapAt(boundaryTime(2), 120, nil))
	if !errors.Is(gap, ports.ErrInvalidSessionGap) {
		t.Errorf("Expected ErrInvalidSessionGap, got %v", gap)
	}
}

func TestPairSessions_ExactSpacing(t *testing.T) {
	e := newTestEngine(t)
	boundaries := []*domain.Snapshot{
		snapAt(boundaryTime(0), 100, nil),
		snapAt(boundaryTime(1), 110, nil),
		snapAt(boundaryTime(2), 105, nil),
	}

	sessions, dropped := e.PairSessions(boundaries)
	if dropped != 0 {
		t.Errorf("Expected no dropped pairs, got %d", dropped)
	}
	if len(sessions) != 2 {
		t.Fatalf("Expected 2 sessions, got %d", len(sessions))
	}
	if sessions[0].Duration() != 24*time.Hour {
		t.Errorf("Expected 24h session, got %s", sessions[0].Duration())
	}
	if sessions[0].End != sessions[1].Start {
		t.Error("Adjacent sessions must share the middle boundary")
	}
}

func TestPairSessions_GapDropsPairOnly(t *testing.T) {
	e := newTestEngine(t)
	// Day 2 boundary missing: days 1->3 are 48h apart and must be dropped,
	// while 0->1 and 3->4 survive.
	boundaries := []*domain.Snapshot{
		snapAt(boundaryTime(0), 100, nil),
		snapAt(boundaryTime(1), 110, nil),
		snapAt(boundaryTime(3), 120, nil),
		snapAt(boundaryTime(4), 125, nil),
	}

	sessions, dropped := e.PairSessions(boundaries)
	if dropped != 1 {
		t.Errorf("Expected 1 dropped pair, got %d", dropped)
	}
	if len(sessions) != 2 {
		t.Fatalf("Expected 2 surviving sessions, got %d", len(sessions))
	}
	if !sessions[0].Start.CollectedAt.Equal(boundaryTime(0)) || !sessions[1].Start.CollectedAt.Equal(boundaryTime(3)) {
		t.Error("Wrong sessions survived the gap")
	}
}

func TestPairSessions_DuplicateBoundaryDropped(t *testing.T) {
	e := newTestEngine(t)
	// Two snapshots at the same boundary instant: the zero-length pair is
	// invalid, but the duplicate still pairs forward with the next day.
	boundaries := []*domain.Snapshot{
		snapAt(boundaryTime(0), 100, nil),
		snapAt(boundaryTime(0), 101, nil),
		snapAt(boundaryTime(1), 110, nil),
	}

	sessions, dropped := e.PairSessions(boundaries)
	if dropped != 1 {
		t.Errorf("Expected 1 dropped pair, got %d", dropped)
	}
	if len(sessions) != 1 {
		t.Fatalf("Expected 1 session, got %d", len(sessions))
	}
	if sessions[0].Start.Price != 101 {
		t.Errorf("Expected the later duplicate to start the session, got price %f", sessions[0].Start.Price)
	}
}

func TestPairSessions_TooFewBoundaries(t *testing.T) {
	e := newTestEngine(t)
	sessions, dropped := e.PairSessions([]*domain.Snapshot{snapAt(boundaryTime(0), 100, nil)})
	if len(sessions) != 0 || dropped != 0 {
		t.Errorf("Expected nothing from a single boundary, got %d sessions, %d dropped", len(sessions), dropped)
	}
}

func TestOpenSession(t *testing.T) {
	e := newTestEngine(t)
	boundaries := []*domain.Snapshot{
		snapAt(boundaryTime(0), 100, nil),
		snapAt(boundaryTime(1), 110, nil),
	}

	tests := []struct {
		name   string
		latest *domain.Snapshot
		want   bool
	}{
		{
			name:   "inside the open window",
			latest: snapAt(boundaryTime(1).Add(6*time.Hour), 112, nil),
			want:   true,
		},
		{
			name:   "latest is the boundary itself",
			latest: snapAt(boundaryTime(1), 110, nil),
			want:   false,
		},
		{
			name:   "exactly one session after the boundary",
			latest: snapAt(boundaryTime(2), 115, nil),
			want:   false,
		},
		{
			name:   "latest before the boundary",
			latest: snapAt(boundaryTime(0).Add(time.Hour), 102, nil),
			want:   false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			open := e.OpenSession(boundaries, tt.latest)
			if tt.want && open == nil {
				t.Fatal("Expected an open session")
			}
			if !tt.want && open != nil {
				t.Fatal("Expected no open session")
			}
			if open != nil && open.Start.Price != 110 {
				t.Errorf("Open session anchored on wrong boundary, got price %f", open.Start.Price)
			}
		})
	}
}

func TestOpenSession_NoBoundaries(t *testing.T) {
	e := newTestEngine(t)
	if open := e.OpenSession(nil, snapAt(boundaryTime(0), 100, nil)); open != nil {
		t.Error("Expected no open session without boundaries")
	}
}
