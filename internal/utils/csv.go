package utils

import (
	"encoding/csv"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"supportscan/internal/domain"
)

// OutputPath prefixes the file name of path with the given tags, keeping any
// directory component intact, so "out/results.csv" tagged with a symbol
// becomes "out/BTCUSDT_results.csv" rather than a broken path.
func OutputPath(path string, tags ...string) string {
	name := strings.Join(append(append([]string{}, tags...), filepath.Base(path)), "_")
	return filepath.Join(filepath.Dir(path), name)
}

func WriteOutcomesToCSV(outcomes []*domain.Outcome, filename string) error {
	file, err := os.Create(filename)
	if err != nil {
		return err
	}
	defer file.Close()

	writer := csv.NewWriter(file)
	defer writer.Flush()

	// Write header
	writer.Write([]string{"symbol", "indicator", "start_time", "end_time", "support", "reference", "verdict", "diff", "pct_diff", "true_low", "safety_distance_pct"})

	for _, o := range outcomes {
		endTime := ""
		if !o.EndTime.IsZero() {
			endTime = o.EndTime.Format(time.RFC3339)
		}
		trueLow := ""
		if o.TrueLowValid {
			trueLow = strconv.FormatFloat(o.TrueLow, 'f', -1, 64)
		}
		safety := ""
		if o.SafetyDistanceValid {
			safety = strconv.FormatFloat(o.SafetyDistancePct, 'f', -1, 64)
		}
		writer.Write([]string{
			o.Symbol,
			o.Indicator,
			o.StartTime.Format(time.RFC3339),
			endTime,
			strconv.FormatFloat(o.SupportValue, 'f', -1, 64),
			strconv.FormatFloat(o.ReferenceValue, 'f', -1, 64),
			string(o.Verdict()),
			strconv.FormatFloat(o.Diff, 'f', -1, 64),
			strconv.FormatFloat(o.PctDiff, 'f', -1, 64),
			trueLow,
			safety,
		})
	}
	return writer.Error()
}

func WriteStatsToCSV(stats []domain.IndicatorStat, filename string) error {
	file, err := os.Create(filename)
	if err != nil {
		return err
	}
	defer file.Close()

	writer := csv.NewWriter(file)
	defer writer.Flush()

	// Write header
	writer.Write([]string{"symbol", "indicator", "sessions", "passes", "win_rate", "avg_safety_distance_pct"})

	for _, s := range stats {
		writer.Write([]string{
			s.Symbol,
			s.Indicator,
			strconv.Itoa(s.Sessions),
			strconv.Itoa(s.Passes),
			strconv.FormatFloat(s.WinRate, 'f', 2, 64),
			strconv.FormatFloat(s.AvgSafetyDistancePct, 'f', 4, 64),
		})
	}
	return writer.Error()
}
