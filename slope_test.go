package printdem

import (
	"math"
	"testing"
)

func almostEqual(a, b, tol float64) bool {
	return math.Abs(a-b) <= tol
}

func TestSlopePercentFlat(t *testing.T) {
	z := make([]float64, 16)
	for i := range z {
		z[i] = 420.5
	}
	out := SlopePercent(z, 4, 4, 5, 5)
	for i, v := range out {
		if v != 0 {
			t.Fatalf("flat slope[%d] = %v, want 0", i, v)
		}
	}
}

func TestSlopePercentRampX(t *testing.T) {
	const w, h = 5, 3
	z := make([]float64, w*h)
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			z[y*w+x] = 1.5 * float64(x)
		}
	}
	out := SlopePercent(z, w, h, 10, 10)
	for i, v := range out {
		if !almostEqual(v, 15, 1e-9) {
			t.Fatalf("ramp slope[%d] = %v, want 15", i, v)
		}
	}
}

func TestSlopePercentRampY(t *testing.T) {
	const w, h = 3, 5
	z := make([]float64, w*h)
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			z[y*w+x] = 2 * float64(y)
		}
	}
	out := SlopePercent(z, w, h, 4, 4)
	for i, v := range out {
		if !almostEqual(v, 50, 1e-9) {
			t.Fatalf("ramp slope[%d] = %v, want 50", i, v)
		}
	}
}

// A NaN cell poisons the cells whose difference stencil reads it. With
// centered differences that is its four direct neighbors, not itself.
func TestSlopePercentNaNPropagation(t *testing.T) {
	z := []float64{
		10, 10, 10,
		10, math.NaN(), 10,
		10, 10, 10,
	}
	out := SlopePercent(z, 3, 3, 1, 1)
	nan := map[int]bool{1: true, 3: true, 5: true, 7: true}
	for i, v := range out {
		if nan[i] != math.IsNaN(v) {
			t.Errorf("slope[%d] = %v, want NaN=%v", i, v, nan[i])
		}
	}
}

func TestSlopePercentDegenerate(t *testing.T) {
	out := SlopePercent([]float64{7}, 1, 1, 1, 1)
	if out[0] != 0 {
		t.Fatalf("single cell slope = %v, want 0", out[0])
	}
	out = SlopePercent([]float64{0, 3, 6}, 1, 3, 1, 2)
	for i, v := range out {
		if !almostEqual(v, 150, 1e-9) {
			t.Fatalf("column slope[%d] = %v, want 150", i, v)
		}
	}
}
