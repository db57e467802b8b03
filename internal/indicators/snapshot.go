package indicators

import (
	"context"
	"fmt"
	"time"

	"supportscan/internal/domain"
)

// sessionKlines is how many hourly klines make up one trading session; the
// pivot families are derived from the previous session's range.
const sessionKlines = 24

// SnapshotBuilder computes the full indicator column set for one observation
// from a window of hourly klines. The column names mirror the store layout
// (sma_20, bb_lower, pivot_classic_s1, ...), so the scanner's name-scale
// classification applies to collected data unchanged.
type SnapshotBuilder struct {
	set []Indicator
}

// NewSnapshotBuilder creates a builder with the standard column set: simple
// and exponential moving averages over the common periods, volume weighted
// and Hull moving averages, Bollinger/Keltner/Donchian bands, ATR and RSI.
func NewSnapshotBuilder() *SnapshotBuilder {
	periods := []int{10, 20, 50, 100, 200}
	set := make([]Indicator, 0, 2*len(periods)+11)
	for _, p := range periods {
		set = append(set, NewMovingAverage(MovingAverageConfig{
			IndicatorConfig: IndicatorConfig{Period: p},
			Type:            SimpleMovingAverage,
		}))
		set = append(set, NewMovingAverage(MovingAverageConfig{
			IndicatorConfig: IndicatorConfig{Period: p},
			Type:            ExponentialMovingAverage,
		}))
	}
	set = append(set,
		NewMovingAverage(MovingAverageConfig{
			IndicatorConfig: IndicatorConfig{Period: 20},
			Type:            VolumeWeightedMovingAverage,
		}),
		NewMovingAverage(MovingAverageConfig{
			IndicatorConfig: IndicatorConfig{Period: 20},
			Type:            HullMovingAverage,
		}),
		NewBollinger(BollingerConfig{IndicatorConfig: IndicatorConfig{Period: 20}, Band: UpperBand}),
		NewBollinger(BollingerConfig{IndicatorConfig: IndicatorConfig{Period: 20}, Band: LowerBand}),
		NewKeltner(KeltnerConfig{IndicatorConfig: IndicatorConfig{Period: 20}, Band: UpperBand}),
		NewKeltner(KeltnerConfig{IndicatorConfig: IndicatorConfig{Period: 20}, Band: LowerBand}),
		NewDonchian(DonchianConfig{IndicatorConfig: IndicatorConfig{Period: 20}, Band: UpperBand}),
		NewDonchian(DonchianConfig{IndicatorConfig: IndicatorConfig{Period: 20}, Band: LowerBand}),
		NewATR(ATRConfig{IndicatorConfig: IndicatorConfig{Period: 14}}),
		NewRSI(RSIConfig{IndicatorConfig: IndicatorConfig{Period: 14}}),
		NewRSI(RSIConfig{IndicatorConfig: IndicatorConfig{Period: 7}}),
	)
	return &SnapshotBuilder{set: set}
}

// RequiredDataPoints returns the kline window the builder needs for every
// column, including the previous-session range behind the pivot families.
func (b *SnapshotBuilder) RequiredDataPoints() int {
	required := sessionKlines + 1
	for _, ind := range b.set {
		if n := ind.RequiredDataPoints(); n > required {
			required = n
		}
	}
	return required
}

// Build computes one snapshot from the kline window. The last kline is the
// current observation; columns whose lookback exceeds the window are omitted
// rather than failing the whole snapshot, since missing values are a normal
// condition downstream.
func (b *SnapshotBuilder) Build(ctx context.Context, symbol string, klines []*domain.Kline, collectedAt time.Time) (*domain.Snapshot, error) {
	if len(klines) == 0 {
		return nil, fmt.Errorf("no klines supplied for %s", symbol)
	}
	last := klines[len(klines)-1]

	snap := &domain.Snapshot{
		Symbol:      symbol,
		CollectedAt: collectedAt.UTC(),
		Price:       last.Close,
		Low:         last.Low,
		LowValid:    true,
		Indicators:  make(map[string]float64, len(b.set)+16),
	}

	for _, ind := range b.set {
		value, err := ind.Calculate(ctx, klines)
		if err != nil {
			continue
		}
		snap.Indicators[ind.Name()] = value
	}

	if len(klines) >= 2 {
		prevClose := klines[len(klines)-2].Close
		if prevClose != 0 {
			snap.Indicators["change_pct"] = 100 * (last.Close - prevClose) / prevClose
		}
	}

	// Pivot families come from the previous full session's range, excluding
	// the current kline.
	if len(klines) >= sessionKlines+1 {
		window := klines[len(klines)-1-sessionKlines : len(klines)-1]
		high, low := window[0].High, window[0].Low
		for _, k := range window[1:] {
			if k.High > high {
				high = k.High
			}
			if k.Low < low {
				low = k.Low
			}
		}
		prevClose := window[len(window)-1].Close

		addPivots(snap.Indicators, "pivot_classic", ClassicPivots(high, low, prevClose))
		addPivots(snap.Indicators, "pivot_fib", FibonacciPivots(high, low, prevClose))
	}

	return snap, nil
}

func addPivots(values map[string]float64, prefix string, levels PivotLevels) {
	values[prefix+"_p"] = levels.P
	values[prefix+"_r1"] = levels.R1
	values[prefix+"_r2"] = levels.R2
	values[prefix+"_r3"] = levels.R3
	values[prefix+"_s1"] = levels.S1
	values[prefix+"_s2"] = levels.S2
	values[prefix+"_s3"] = levels.S3
}
