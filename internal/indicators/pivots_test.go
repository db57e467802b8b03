package indicators

import (
	"math"
	"testing"
)

func TestClassicPivots(t *testing.T) {
	levels := ClassicPivots(110, 90, 100)

	p := (110.0 + 90.0 + 100.0) / 3
	checks := []struct {
		name string
		got  float64
		want float64
	}{
		{"P", levels.P, p},
		{"R1", levels.R1, 2*p - 90},
		{"R2", levels.R2, p + 20},
		{"R3", levels.R3, 110 + 2*(p-90)},
		{"S1", levels.S1, 2*p - 110},
		{"S2", levels.S2, p - 20},
		{"S3", levels.S3, 90 - 2*(110-p)},
	}
	for _, c := range checks {
		if math.Abs(c.got-c.want) > 0.0001 {
			t.Errorf("%s: expected %f, got %f", c.name, c.want, c.got)
		}
	}

	if !(levels.S3 < levels.S2 && levels.S2 < levels.S1 && levels.S1 < levels.P &&
		levels.P < levels.R1 && levels.R1 < levels.R2 && levels.R2 < levels.R3) {
		t.Error("Pivot levels must be strictly ordered S3 < S2 < S1 < P < R1 < R2 < R3")
	}
}

func TestFibonacciPivots(t *testing.T) {
	levels := FibonacciPivots(110, 90, 100)

	p := (110.0 + 90.0 + 100.0) / 3
	if math.Abs(levels.P-p) > 0.0001 {
		t.Errorf("P: expected %f, got %f", p, levels.P)
	}
	if math.Abs(levels.S1-(p-0.382*20)) > 0.0001 {
		t.Errorf("S1: expected %f, got %f", p-0.382*20, levels.S1)
	}
	if math.Abs(levels.R2-(p+0.618*20)) > 0.0001 {
		t.Errorf("R2: expected %f, got %f", p+0.618*20, levels.R2)
	}
	if math.Abs(levels.R3-(p+20)) > 0.0001 {
		t.Errorf("R3: expected %f, got %f", p+20, levels.R3)
	}

	// S3/R3 bracket the levels at exactly one prior range from the pivot.
	if math.Abs((levels.R3-levels.P)-(levels.P-levels.S3)) > 0.0001 {
		t.Error("Fibonacci levels must be symmetric around the pivot")
	}
}
