package indicators

import (
	"context"
	"fmt"
	"math"

	"supportscan/internal/domain"
)

// ChannelBand selects which band of a channel indicator to compute.
type ChannelBand string

const (
	UpperBand ChannelBand = "upper"
	LowerBand ChannelBand = "lower"
)

// BollingerConfig holds configuration for Bollinger Bands.
type BollingerConfig struct {
	IndicatorConfig
	Band   ChannelBand
	StdDev float64 // Band width in standard deviations; zero selects 2.0
}

// Bollinger implements one band of the Bollinger Bands indicator.
type Bollinger struct {
	BaseIndicator
	config BollingerConfig
}

// NewBollinger creates a new Bollinger band indicator instance.
func NewBollinger(config BollingerConfig) *Bollinger {
	if config.StdDev == 0 {
		config.StdDev = 2.0
	}
	return &Bollinger{
		BaseIndicator: BaseIndicator{Config: config.IndicatorConfig},
		config:        config,
	}
}

// Name returns the column name of the indicator (e.g. "bb_lower").
func (b *Bollinger) Name() string {
	return fmt.Sprintf("bb_%s", b.config.Band)
}

// Calculate computes the configured Bollinger band over the closing prices.
func (b *Bollinger) Calculate(ctx context.Context, klines []*domain.Kline) (float64, error) {
	period := b.Config.Period
	if len(klines) < period {
		return 0, fmt.Errorf("not enough data (%d) to calculate Bollinger band for period %d", len(klines), period)
	}

	window := klines[len(klines)-period:]
	var sum float64
	for _, k := range window {
		sum += k.Close
	}
	mean := sum / float64(period)

	var variance float64
	for _, k := range window {
		variance += (k.Close - mean) * (k.Close - mean)
	}
	stdDev := math.Sqrt(variance / float64(period))

	if b.config.Band == UpperBand {
		return mean + b.config.StdDev*stdDev, nil
	}
	return mean - b.config.StdDev*stdDev, nil
}

// KeltnerConfig holds configuration for Keltner Channels.
type KeltnerConfig struct {
	IndicatorConfig
	Band       ChannelBand
	ATRPeriod  int     // Zero selects the channel period
	Multiplier float64 // Zero selects 2.0
}

// Keltner implements one band of the Keltner Channel indicator: an EMA
// midline shifted by a multiple of the ATR.
type Keltner struct {
	BaseIndicator
	config KeltnerConfig
}

// NewKeltner creates a new Keltner channel indicator instance.
func NewKeltner(config KeltnerConfig) *Keltner {
	if config.ATRPeriod == 0 {
		config.ATRPeriod = config.Period
	}
	if config.Multiplier == 0 {
		config.Multiplier = 2.0
	}
	return &Keltner{
		BaseIndicator: BaseIndicator{Config: config.IndicatorConfig},
		config:        config,
	}
}

// Name returns the column name of the indicator (e.g. "keltner_lower").
func (k *Keltner) Name() string {
	return fmt.Sprintf("keltner_%s", k.config.Band)
}

// RequiredDataPoints returns the minimum number of klines needed for calculation
func (k *Keltner) RequiredDataPoints() int {
	if k.config.ATRPeriod+1 > k.Config.Period {
		return k.config.ATRPeriod + 1
	}
	return k.Config.Period
}

// Calculate computes the configured Keltner channel band.
func (k *Keltner) Calculate(ctx context.Context, klines []*domain.Kline) (float64, error) {
	if len(klines) < k.RequiredDataPoints() {
		return 0, fmt.Errorf("not enough data (%d) to calculate Keltner channel for period %d", len(klines), k.Config.Period)
	}

	ema := NewMovingAverage(MovingAverageConfig{
		IndicatorConfig: IndicatorConfig{Period: k.Config.Period},
		Type:            ExponentialMovingAverage,
	})
	mid, err := ema.Calculate(ctx, klines)
	if err != nil {
		return 0, fmt.Errorf("failed to calculate Keltner midline: %w", err)
	}

	atr := NewATR(ATRConfig{IndicatorConfig: IndicatorConfig{Period: k.config.ATRPeriod}})
	rangeVal, err := atr.Calculate(ctx, klines)
	if err != nil {
		return 0, fmt.Errorf("failed to calculate Keltner ATR: %w", err)
	}

	if k.config.Band == UpperBand {
		return mid + k.config.Multiplier*rangeVal, nil
	}
	return mid - k.config.Multiplier*rangeVal, nil
}

// DonchianConfig holds configuration for Donchian Channels.
type DonchianConfig struct {
	IndicatorConfig
	Band ChannelBand
}

// Donchian implements one band of the Donchian Channel indicator: the highest
// high or lowest low over the lookback window.
type Donchian struct {
	BaseIndicator
	config DonchianConfig
}

// NewDonchian creates a new Donchian channel indicator instance.
func NewDonchian(config DonchianConfig) *Donchian {
	return &Donchian{
		BaseIndicator: BaseIndicator{Config: config.IndicatorConfig},
		config:        config,
	}
}

// Name returns the column name of the indicator (e.g. "donchian_lower").
func (d *Donchian) Name() string {
	return fmt.Sprintf("donchian_%s", d.config.Band)
}

// Calculate computes the configured Donchian channel band.
func (d *Donchian) Calculate(ctx context.Context, klines []*domain.Kline) (float64, error) {
	period := d.Config.Period
	if len(klines) < period {
		return 0, fmt.Errorf("not enough data (%d) to calculate Donchian channel for period %d", len(klines), period)
	}

	window := klines[len(klines)-period:]
	if d.config.Band == UpperBand {
		highest := window[0].High
		for _, k := range window[1:] {
			if k.High > highest {
				highest = k.High
			}
		}
		return highest, nil
	}

	lowest := window[0].Low
	for _, k := range window[1:] {
		if k.Low < lowest {
			lowest = k.Low
		}
	}
	return lowest, nil
}
