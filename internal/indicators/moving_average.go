package indicators

import (
	"context"
	"fmt"
	"math"

	"supportscan/internal/domain"
)

// MovingAverageType defines the type of moving average
type MovingAverageType string

const (
	// SimpleMovingAverage represents a simple moving average
	SimpleMovingAverage MovingAverageType = "sma"
	// ExponentialMovingAverage represents an exponential moving average
	ExponentialMovingAverage MovingAverageType = "ema"
	// VolumeWeightedMovingAverage represents a volume weighted moving average
	VolumeWeightedMovingAverage MovingAverageType = "vwma"
	// HullMovingAverage represents a Hull moving average
	HullMovingAverage MovingAverageType = "hull_ma"
)

// MovingAverageConfig holds configuration for moving average indicators
type MovingAverageConfig struct {
	IndicatorConfig
	Type MovingAverageType
}

// MovingAverage implements the SMA, EMA and VWMA indicators
type MovingAverage struct {
	BaseIndicator
	config MovingAverageConfig
}

// NewMovingAverage creates a new moving average indicator instance
func NewMovingAverage(config MovingAverageConfig) *MovingAverage {
	return &MovingAverage{
		BaseIndicator: BaseIndicator{Config: config.IndicatorConfig},
		config:        config,
	}
}

// Name returns the column name of the indicator (e.g. "sma_20").
func (m *MovingAverage) Name() string {
	return fmt.Sprintf("%s_%d", m.config.Type, m.Config.Period)
}

// RequiredDataPoints returns the minimum number of klines needed for calculation.
// The Hull variant smooths a weighted-average series and needs a few extra
// points beyond its period.
func (m *MovingAverage) RequiredDataPoints() int {
	if m.config.Type == HullMovingAverage {
		return m.Config.Period + hullSmoothPeriod(m.Config.Period) - 1
	}
	return m.Config.Period
}

// Calculate computes the moving average value based on the configured type
func (m *MovingAverage) Calculate(ctx context.Context, klines []*domain.Kline) (float64, error) {
	switch m.config.Type {
	case SimpleMovingAverage:
		return m.calculateSMA(klines)
	case ExponentialMovingAverage:
		return m.calculateEMA(klines)
	case VolumeWeightedMovingAverage:
		return m.calculateVWMA(klines)
	case HullMovingAverage:
		return m.calculateHull(klines)
	default:
		return 0, fmt.Errorf("unsupported moving average type: %s", m.config.Type)
	}
}

// calculateSMA computes the Simple Moving Average
func (m *MovingAverage) calculateSMA(klines []*domain.Kline) (float64, error) {
	if len(klines) < m.Config.Period {
		return 0, fmt.Errorf("not enough data (%d) to calculate SMA for period %d", len(klines), m.Config.Period)
	}

	total := 0.0
	for i := len(klines) - m.Config.Period; i < len(klines); i++ {
		total += klines[i].Close
	}
	return total / float64(m.Config.Period), nil
}

// calculateEMA computes the Exponential Moving Average
func (m *MovingAverage) calculateEMA(klines []*domain.Kline) (float64, error) {
	if len(klines) < m.Config.Period {
		return 0, fmt.Errorf("not enough data (%d) to calculate EMA for period %d", len(klines), m.Config.Period)
	}

	multiplier := 2.0 / float64(m.Config.Period+1)

	// Seed with the SMA of the first 'period' klines
	initialSMA, err := m.calculateSMA(klines[:m.Config.Period])
	if err != nil {
		return 0, fmt.Errorf("failed to calculate initial SMA for EMA: %w", err)
	}
	ema := initialSMA

	for i := m.Config.Period; i < len(klines); i++ {
		closePrice := klines[i].Close
		ema = (closePrice-ema)*multiplier + ema
	}

	return ema, nil
}

// calculateVWMA computes the Volume Weighted Moving Average
func (m *MovingAverage) calculateVWMA(klines []*domain.Kline) (float64, error) {
	if len(klines) < m.Config.Period {
		return 0, fmt.Errorf("not enough data (%d) to calculate VWMA for period %d", len(klines), m.Config.Period)
	}

	var weighted, volume float64
	for i := len(klines) - m.Config.Period; i < len(klines); i++ {
		weighted += klines[i].Close * klines[i].Volume
		volume += klines[i].Volume
	}
	if volume == 0 {
		// Zero traded volume over the window; fall back to the simple mean.
		return m.calculateSMA(klines)
	}
	return weighted / volume, nil
}

// calculateHull computes the Hull Moving Average: a linearly-weighted average
// of the series 2*WMA(period/2) - WMA(period), smoothed over sqrt(period)
// points to cut lag while keeping the curve smooth.
func (m *MovingAverage) calculateHull(klines []*domain.Kline) (float64, error) {
	period := m.Config.Period
	if period < 2 {
		return 0, fmt.Errorf("hull moving average requires a period of at least 2, got %d", period)
	}
	smooth := hullSmoothPeriod(period)
	need := period + smooth - 1
	if len(klines) < need {
		return 0, fmt.Errorf("not enough data (%d) to calculate Hull MA for period %d", len(klines), period)
	}

	half := period / 2
	raw := make([]float64, smooth)
	for j := 0; j < smooth; j++ {
		end := len(klines) - smooth + 1 + j
		raw[j] = 2*wmaCloses(klines[:end], half) - wmaCloses(klines[:end], period)
	}
	return wmaValues(raw), nil
}

func hullSmoothPeriod(period int) int {
	s := int(math.Round(math.Sqrt(float64(period))))
	if s < 1 {
		s = 1
	}
	return s
}

// wmaCloses returns the linearly-weighted average of the last 'period' closes,
// newest close weighted heaviest.
func wmaCloses(klines []*domain.Kline, period int) float64 {
	var num, den float64
	start := len(klines) - period
	for i := 0; i < period; i++ {
		w := float64(i + 1)
		num += klines[start+i].Close * w
		den += w
	}
	return num / den
}

func wmaValues(values []float64) float64 {
	var num, den float64
	for i, v := range values {
		w := float64(i + 1)
		num += v * w
		den += w
	}
	return num / den
}
