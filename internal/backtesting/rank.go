package backtesting

import (
	"sort"

	"supportscan/internal/domain"
)

// Rank orders indicator statistics by win rate descending, then by mean
// safety distance ascending: the tightest support that still holds sorts
// first within a win-rate tier. The sort is stable, so ties keep the original
// candidate enumeration order, and the input slice is not mutated. Rate beats
// sample size: a 3-for-3 indicator outranks a 9-for-10 one.
func Rank(stats []domain.IndicatorStat) []domain.IndicatorStat {
	ranked := make([]domain.IndicatorStat, len(stats))
	copy(ranked, stats)
	sort.SliceStable(ranked, func(i, j int) bool {
		if ranked[i].WinRate != ranked[j].WinRate {
			return ranked[i].WinRate > ranked[j].WinRate
		}
		return ranked[i].AvgSafetyDistancePct < ranked[j].AvgSafetyDistancePct
	})
	return ranked
}

// TopN truncates a ranked slice to at most n entries. A non-positive n
// returns the slice unchanged.
func TopN(stats []domain.IndicatorStat, n int) []domain.IndicatorStat {
	if n <= 0 || n >= len(stats) {
		return stats
	}
	return stats[:n]
}
