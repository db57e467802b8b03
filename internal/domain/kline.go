package domain

import (
	"math"
	"time"
)

// Kline is one closed candlestick of market history. The snapshot builder
// consumes a window of these to derive indicator columns; only closed candles
// are ever stored, so there is no partial-candle state to track.
type Kline struct {
	OpenTime  time.Time
	CloseTime time.Time
	Open      float64
	High      float64
	Low       float64
	Close     float64
	Volume    float64
}

// Range returns the high-to-low span of the candle.
func (k *Kline) Range() float64 {
	return k.High - k.Low
}

// TrueRange returns the true range of the candle relative to the previous
// close: the greatest of high-low, |high-prevClose| and |low-prevClose|.
// A nil prev (first candle of a window) falls back to the plain range.
func (k *Kline) TrueRange(prev *Kline) float64 {
	if prev == nil {
		return k.Range()
	}
	tr := k.Range()
	if d := math.Abs(k.High - prev.Close); d > tr {
		tr = d
	}
	if d := math.Abs(k.Low - prev.Close); d > tr {
		tr = d
	}
	return tr
}
