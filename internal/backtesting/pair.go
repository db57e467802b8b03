package backtesting

import (
	"fmt"

	"supportscan/internal/domain"
	"supportscan/internal/ports"
)

// ValidatePair checks that two boundary snapshots sit exactly one session
// length apart. Shorter spacing (duplicate timestamps) and longer spacing
// (feed outage) both return ports.ErrInvalidSessionGap.
func (e *Engine) ValidatePair(start, end *domain.Snapshot) error {
	if gap := end.CollectedAt.Sub(start.CollectedAt); gap != e.cfg.SessionLength {
		return fmt.Errorf("boundaries %s and %s are %s apart, want %s: %w",
			start.CollectedAt, end.CollectedAt, gap, e.cfg.SessionLength, ports.ErrInvalidSessionGap)
	}
	return nil
}

// PairSessions groups the ordered boundary subsequence into adjacent pairs.
// An invalid pair is dropped rather than rounded or split. The returned count
// reports how many pairs were dropped.
func (e *Engine) PairSessions(boundaries []*domain.Snapshot) ([]domain.Session, int) {
	sessions := make([]domain.Session, 0, len(boundaries))
	dropped := 0
	for i := 0; i+1 < len(boundaries); i++ {
		start, end := boundaries[i], boundaries[i+1]
		if err := e.ValidatePair(start, end); err != nil {
			dropped++
			continue
		}
		sessions = append(sessions, domain.Session{Start: start, End: end})
	}
	return sessions, dropped
}

// OpenSession derives the still-running session after the last boundary, if
// one exists. The latest snapshot must fall strictly after the last boundary
// and strictly before the boundary plus one session length; anything else
// means the interval is either empty or already closed by a later boundary,
// and no OpenSession is produced.
func (e *Engine) OpenSession(boundaries []*domain.Snapshot, latest *domain.Snapshot) *domain.OpenSession {
	if len(boundaries) == 0 || latest == nil {
		return nil
	}
	last := boundaries[len(boundaries)-1]
	elapsed := latest.CollectedAt.Sub(last.CollectedAt)
	if elapsed <= 0 || elapsed >= e.cfg.SessionLength {
		return nil
	}
	return &domain.OpenSession{Start: last, Latest: latest}
}
