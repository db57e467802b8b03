package indicators

import (
	"context"
	"testing"
	"time"

	"supportscan/internal/domain"
)

func TestMovingAverage_Calculate(t *testing.T) {
	now := time.Now()
	klines := []*domain.Kline{
		{OpenTime: now.Add(-4 * time.Hour), Close: 100.0, Volume: 1},
		{OpenTime: now.Add(-3 * time.Hour), Close: 102.0, Volume: 2},
		{OpenTime: now.Add(-2 * time.Hour), Close: 101.0, Volume: 1},
		{OpenTime: now.Add(-1 * time.Hour), Close: 103.0, Volume: 3},
		{OpenTime: now, Close: 104.0, Volume: 2},
	}

	tests := []struct {
		name          string
		config        MovingAverageConfig
		klines        []*domain.Kline
		expectedValue float64
		expectError   bool
	}{
		{
			name: "SMA with sufficient data",
			config: MovingAverageConfig{
				IndicatorConfig: IndicatorConfig{Period: 3},
				Type:            SimpleMovingAverage,
			},
			klines:        klines,
			expectedValue: 102.666667, // (101 + 103 + 104) / 3
			expectError:   false,
		},
		{
			name: "EMA with sufficient data",
			config: MovingAverageConfig{
				IndicatorConfig: IndicatorConfig{Period: 3},
				Type:            ExponentialMovingAverage,
			},
			klines:        klines,
			expectedValue: 103.0, // Seeded with SMA(100,102,101), smoothed over 103 and 104
			expectError:   false,
		},
		{
			name: "VWMA with sufficient data",
			config: MovingAverageConfig{
				IndicatorConfig: IndicatorConfig{Period: 3},
				Type:            VolumeWeightedMovingAverage,
			},
			klines:        klines,
			expectedValue: 103.0, // (101*1 + 103*3 + 104*2) / 6
			expectError:   false,
		},
		{
			name: "Insufficient data",
			config: MovingAverageConfig{
				IndicatorConfig: IndicatorConfig{Period: 6},
				Type:            SimpleMovingAverage,
			},
			klines:      klines,
			expectError: true,
		},
		{
			name: "Invalid MA type",
			config: MovingAverageConfig{
				IndicatorConfig: IndicatorConfig{Period: 3},
				Type:            "INVALID",
			},
			klines:      klines,
			expectError: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ma := NewMovingAverage(tt.config)
			value, err := ma.Calculate(context.Background(), tt.klines)

			if tt.expectError {
				if err == nil {
					t.Error("Expected error but got none")
				}
				return
			}

			if err != nil {
				t.Errorf("Unexpected error: %v", err)
				return
			}

			// Allow for small floating point differences
			if value-tt.expectedValue > 0.0001 || value-tt.expectedValue < -0.0001 {
				t.Errorf("Expected value %f, got %f", tt.expectedValue, value)
			}
		})
	}
}

func TestMovingAverage_VWMAZeroVolumeFallback(t *testing.T) {
	klines := []*domain.Kline{
		{Close: 100.0},
		{Close: 102.0},
		{Close: 104.0},
	}
	vwma := NewMovingAverage(MovingAverageConfig{
		IndicatorConfig: IndicatorConfig{Period: 3},
		Type:            VolumeWeightedMovingAverage,
	})

	value, err := vwma.Calculate(context.Background(), klines)
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	if value != 102.0 {
		t.Errorf("Expected SMA fallback 102, got %f", value)
	}
}

func TestMovingAverage_Hull(t *testing.T) {
	// On a perfectly linear series the Hull MA lands just behind the last
	// close: close - 2/3 of the per-step increment for period 20.
	klines := make([]*domain.Kline, 23)
	for i := range klines {
		klines[i] = &domain.Kline{Close: float64(i + 1)}
	}
	hull := NewMovingAverage(MovingAverageConfig{
		IndicatorConfig: IndicatorConfig{Period: 20},
		Type:            HullMovingAverage,
	})

	if got := hull.RequiredDataPoints(); got != 23 {
		t.Errorf("Expected 23 required data points for hull_ma_20, got %d", got)
	}

	value, err := hull.Calculate(context.Background(), klines)
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	want := 23.0 - 2.0/3.0
	if value-want > 0.0001 || value-want < -0.0001 {
		t.Errorf("Expected value %f, got %f", want, value)
	}

	if _, err := hull.Calculate(context.Background(), klines[:22]); err == nil {
		t.Error("Expected error with fewer klines than the hull window needs")
	}
}

func TestMovingAverage_Name(t *testing.T) {
	tests := []struct {
		config   MovingAverageConfig
		expected string
	}{
		{MovingAverageConfig{IndicatorConfig: IndicatorConfig{Period: 20}, Type: SimpleMovingAverage}, "sma_20"},
		{MovingAverageConfig{IndicatorConfig: IndicatorConfig{Period: 200}, Type: ExponentialMovingAverage}, "ema_200"},
		{MovingAverageConfig{IndicatorConfig: IndicatorConfig{Period: 20}, Type: VolumeWeightedMovingAverage}, "vwma_20"},
		{MovingAverageConfig{IndicatorConfig: IndicatorConfig{Period: 20}, Type: HullMovingAverage}, "hull_ma_20"},
	}

	for _, tt := range tests {
		if got := NewMovingAverage(tt.config).Name(); got != tt.expected {
			t.Errorf("Expected name %q, got %q", tt.expected, got)
		}
	}
}
