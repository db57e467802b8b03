package domain

import "strings"

// IndicatorScale classifies an indicator column by the scale of its values.
// Only price-scale indicators are meaningful support-level candidates;
// oscillators live on bounded or unrelated scales and would only survive the
// plausibility filter by accident.
type IndicatorScale string

const (
	PriceScale      IndicatorScale = "price"
	OscillatorScale IndicatorScale = "oscillator"
	UnknownScale    IndicatorScale = "unknown"
)

// priceScalePatterns match columns that represent price levels: moving
// averages, bands/channels, ichimoku lines, pivots and price overlays.
var priceScalePatterns = []string{
	"ema_", "sma_", "hull_ma", "vwma",
	"bb_", "keltner_", "donchian_",
	"ichimoku_",
	"pivot_",
	"parabolic_sar", "vwap",
}

// oscillatorPatterns match columns on bounded or momentum scales that can
// never act as a price floor.
var oscillatorPatterns = []string{
	"rsi_", "stoch_", "macd_", "cci_", "adx_",
	"awesome_osc", "momentum_", "williams_r", "uo",
	"aroon_", "bull_bear_power", "roc_",
	"cmf", "mfi", "plus_di", "minus_di",
	"change_pct", "rating",
}

// ClassifyIndicator maps an indicator column name to its value scale.
// Names matching neither pattern set are reported as UnknownScale so the
// caller can log them instead of silently including or excluding them.
func ClassifyIndicator(name string) IndicatorScale {
	lower := strings.ToLower(name)
	for _, pat := range priceScalePatterns {
		if strings.Contains(lower, pat) {
			return PriceScale
		}
	}
	for _, pat := range oscillatorPatterns {
		if strings.Contains(lower, pat) {
			return OscillatorScale
		}
	}
	return UnknownScale
}
