package indicators

// PivotLevels holds one family of pivot point levels derived from the
// previous period's high, low and close.
type PivotLevels struct {
	P  float64
	R1 float64
	R2 float64
	R3 float64
	S1 float64
	S2 float64
	S3 float64
}

// ClassicPivots computes classic (floor trader) pivot levels.
func ClassicPivots(high, low, close float64) PivotLevels {
	p := (high + low + close) / 3
	return PivotLevels{
		P:  p,
		R1: 2*p - low,
		R2: p + (high - low),
		R3: high + 2*(p-low),
		S1: 2*p - high,
		S2: p - (high - low),
		S3: low - 2*(high-p),
	}
}

// FibonacciPivots computes Fibonacci pivot levels.
func FibonacciPivots(high, low, close float64) PivotLevels {
	p := (high + low + close) / 3
	r := high - low
	return PivotLevels{
		P:  p,
		R1: p + 0.382*r,
		R2: p + 0.618*r,
		R3: p + r,
		S1: p - 0.382*r,
		S2: p - 0.618*r,
		S3: p - r,
	}
}
