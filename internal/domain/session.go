package domain

import "time"

// Session pairs two consecutive anchor-hour boundary snapshots for the same
// instrument. A Session is only constructed when the local-time distance
// between the boundaries equals the configured session length exactly;
// boundary pairs with any other spacing are discarded by the pairer.
type Session struct {
	Start *Snapshot // Boundary snapshot opening the session
	End   *Snapshot // Boundary snapshot closing the session
}

// Duration is the local-time distance between the two boundaries.
// Local time is a fixed shift of the source clock, so the UTC distance
// is identical.
func (s *Session) Duration() time.Duration {
	return s.End.CollectedAt.Sub(s.Start.CollectedAt)
}

// OpenSession is the still-running window after the last boundary: the start
// boundary exists but no closing boundary does yet. It is evaluated against
// the instrument's most recent snapshot and always yields a provisional
// verdict. At most one OpenSession exists per instrument per run.
type OpenSession struct {
	Start  *Snapshot // Last anchor-hour boundary
	Latest *Snapshot // Most recent snapshot for the instrument
}
