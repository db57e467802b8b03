package domain

import "time"

// Snapshot is one observation of an instrument: its price plus the set of
// precomputed technical indicator values collected at the same instant.
type Snapshot struct {
	Symbol      string             // Instrument identifier (e.g., "BINANCE:BTCUSDT")
	CollectedAt time.Time          // Observation timestamp in UTC (source clock)
	Price       float64            // Last/close price at this observation
	Low         float64            // Intrasession low at this observation (valid iff LowValid)
	LowValid    bool               // Whether Low was present in the source data
	Indicators  map[string]float64 // Indicator name -> value; absent key means missing value
}

// LocalTime shifts CollectedAt by a fixed UTC offset. It is used only for
// session alignment, never for storage ordering.
func (s *Snapshot) LocalTime(utcOffsetHours int) time.Time {
	return s.CollectedAt.Add(time.Duration(utcOffsetHours) * time.Hour)
}

// Indicator returns the named indicator value and whether it is present.
func (s *Snapshot) Indicator(name string) (float64, bool) {
	v, ok := s.Indicators[name]
	return v, ok
}
