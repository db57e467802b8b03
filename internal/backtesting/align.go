package backtesting

import "supportscan/internal/domain"

// Boundaries extracts the ordered subsequence of snapshots whose local hour
// equals the configured anchor hour. The input must be ordered by collection
// time; duplicates on the same calendar hour are both retained in order, and
// de-duplication is the caller's responsibility.
func (e *Engine) Boundaries(snaps []*domain.Snapshot) []*domain.Snapshot {
	boundaries := make([]*domain.Snapshot, 0, len(snaps)/24+1)
	for _, snap := range snaps {
		if snap.LocalTime(e.cfg.UTCOffsetHours).Hour() == e.cfg.AnchorHour {
			boundaries = append(boundaries, snap)
		}
	}
	return boundaries
}
