package indicators

import (
	"context"
	"math"
	"testing"

	"supportscan/internal/domain"
)

func TestATR_Calculate(t *testing.T) {
	// Constant 2-point true range throughout, so the smoothed ATR is 2.
	klines := []*domain.Kline{
		{High: 10, Low: 8, Close: 9},
		{High: 11, Low: 9, Close: 10},
		{High: 12, Low: 10, Close: 11},
		{High: 13, Low: 11, Close: 12},
	}

	atr := NewATR(ATRConfig{IndicatorConfig: IndicatorConfig{Period: 3}})
	value, err := atr.Calculate(context.Background(), klines)
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	if math.Abs(value-2.0) > 0.0001 {
		t.Errorf("Expected ATR 2.0, got %f", value)
	}
}

func TestATR_GapWidensTrueRange(t *testing.T) {
	// The last kline gaps above the previous close, so its true range is the
	// |high - prevClose| leg, not high - low.
	klines := []*domain.Kline{
		{High: 10, Low: 8, Close: 9},
		{High: 10, Low: 8, Close: 9},
		{High: 20, Low: 18, Close: 19},
	}

	atr := NewATR(ATRConfig{IndicatorConfig: IndicatorConfig{Period: 2}})
	value, err := atr.Calculate(context.Background(), klines)
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	// Seed: (2 + 2) / 2 = 2. Smoothed with TR3 = max(2, |20-9|, |18-9|) = 11:
	// (2*1 + 11) / 2 = 6.5.
	if math.Abs(value-6.5) > 0.0001 {
		t.Errorf("Expected ATR 6.5, got %f", value)
	}
}

func TestATR_InsufficientData(t *testing.T) {
	atr := NewATR(ATRConfig{IndicatorConfig: IndicatorConfig{Period: 14}})
	if _, err := atr.Calculate(context.Background(), []*domain.Kline{{High: 10, Low: 8, Close: 9}}); err == nil {
		t.Error("Expected error for insufficient data")
	}
}

func TestATR_NameAndRequiredDataPoints(t *testing.T) {
	atr := NewATR(ATRConfig{IndicatorConfig: IndicatorConfig{Period: 14}})
	if got := atr.Name(); got != "atr_14" {
		t.Errorf("Expected name atr_14, got %q", got)
	}
	if got := atr.RequiredDataPoints(); got != 15 {
		t.Errorf("Expected 15 required data points, got %d", got)
	}
}
