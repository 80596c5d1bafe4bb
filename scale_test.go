package printdem

import (
	"errors"
	"math"
	"testing"
)

func TestBuildContinuousVisualMax(t *testing.T) {
	cases := []struct {
		kind MapKind
		max  float64
		want float64
	}{
		{KindVelocity, 0.8, 2.5},
		{KindVelocity, 2.5, 2.5},
		{KindVelocity, 6.2, 6.2},
		{KindDepth, 0.45, 2.0},
		{KindDepth, 3.1, 3.1},
	}
	for _, c := range cases {
		sc, err := BuildContinuous(c.kind, 0.002, c.max)
		if err != nil {
			t.Fatal(err)
		}
		if sc.VisualMax != c.want {
			t.Errorf("%s max=%v: visual max = %v, want %v", c.kind, c.max, sc.VisualMax, c.want)
		}
		if sc.VisualMin != 0 {
			t.Errorf("%s: visual min = %v, want 0", c.kind, sc.VisualMin)
		}
	}
}

func TestBuildContinuousTerrainRange(t *testing.T) {
	sc, err := BuildContinuous(KindElevation, 100, 2500)
	if err != nil {
		t.Fatal(err)
	}
	if sc.VisualMin != 100 || sc.VisualMax != 2500 {
		t.Fatalf("elevation scale anchored to [%v, %v], want [100, 2500]", sc.VisualMin, sc.VisualMax)
	}

	sc, err = BuildContinuous(KindSlope, -0.8, 42.7)
	if err != nil {
		t.Fatal(err)
	}
	if sc.VisualMin != 0 {
		t.Fatalf("slope visual min = %v, want clamp to 0", sc.VisualMin)
	}
}

func TestBuildCategoricalTop(t *testing.T) {
	sc, err := BuildCategorical(KindDepth, 0.45)
	if err != nil {
		t.Fatal(err)
	}
	if got := sc.Bounds[len(sc.Bounds)-1]; got != 2.0 {
		t.Fatalf("top bound = %v, want ceiling 2.0", got)
	}

	sc, err = BuildCategorical(KindDepth, 4.0)
	if err != nil {
		t.Fatal(err)
	}
	if got := sc.Bounds[len(sc.Bounds)-1]; got != 5.0 {
		t.Fatalf("top bound = %v, want observed+1 = 5.0", got)
	}
	for i := 1; i < len(sc.Bounds); i++ {
		if sc.Bounds[i] <= sc.Bounds[i-1] {
			t.Fatalf("bounds not strictly ascending: %v", sc.Bounds)
		}
	}
	if len(sc.Bounds) != len(sc.Colors)+1 {
		t.Fatalf("%d bounds for %d colors", len(sc.Bounds), len(sc.Colors))
	}

	if _, err = BuildCategorical(KindElevation, 100); !errors.Is(err, ErrNoCategorical) {
		t.Fatalf("elevation categorical err = %v, want ErrNoCategorical", err)
	}
}

func TestBucketAssignment(t *testing.T) {
	sc, err := BuildCategorical(KindDepth, 0.45)
	if err != nil {
		t.Fatal(err)
	}
	// bounds: 0, 0.3, 0.8, 1.5, 2.0
	cases := []struct {
		v    float64
		want int
	}{
		{0, 0},
		{0.05, 0},
		{0.3, 1}, // boundary belongs to the upper bucket
		{0.79, 1},
		{0.8, 2},
		{1.5, 3},
		{1.9, 3},
		{2.0, 3},
		{5.0, 3},
		{-1, 0},
	}
	for _, c := range cases {
		if got := sc.Bucket(c.v); got != c.want {
			t.Errorf("Bucket(%v) = %d, want %d", c.v, got, c.want)
		}
	}
}

func TestBucketTotal(t *testing.T) {
	sc, err := BuildCategorical(KindVelocity, 7.3)
	if err != nil {
		t.Fatal(err)
	}
	for v := -2.0; v < 12; v += 0.037 {
		i := sc.Bucket(v)
		if i < 0 || i >= len(sc.Colors) {
			t.Fatalf("Bucket(%v) = %d out of range", v, i)
		}
	}
}

func TestGradientEndpoints(t *testing.T) {
	sc, err := BuildContinuous(KindVelocity, 0.002, 2.5)
	if err != nil {
		t.Fatal(err)
	}
	if r, g, b := sc.Lookup(0).Clamped().RGB255(); r != 0xe1 || g != 0xf5 || b != 0xfe {
		t.Errorf("bottom of ramp = #%02x%02x%02x, want #e1f5fe", r, g, b)
	}
	if r, g, b := sc.Lookup(2.5).Clamped().RGB255(); r != 0x4a || g != 0x14 || b != 0x8c {
		t.Errorf("top of ramp = #%02x%02x%02x, want #4a148c", r, g, b)
	}
	// out of range values clamp instead of wrapping
	if r, g, b := sc.Lookup(99).Clamped().RGB255(); r != 0x4a || g != 0x14 || b != 0x8c {
		t.Errorf("overshoot = #%02x%02x%02x, want top color", r, g, b)
	}
	if got, want := sc.Lookup(math.NaN()), sc.Lookup(0); got != want {
		t.Errorf("NaN lookup = %v, want bottom color %v", got, want)
	}
}

func TestGradientMonotonicPositions(t *testing.T) {
	for _, stops := range [][]GradientStop{viridisStops(), terrainStops()} {
		for i := 1; i < len(stops); i++ {
			if stops[i].Pos <= stops[i-1].Pos {
				t.Fatalf("stop %d not ascending: %v", i, stops[i].Pos)
			}
		}
		if stops[0].Pos != 0 || stops[len(stops)-1].Pos != 1 {
			t.Fatalf("ramp not anchored at 0 and 1")
		}
	}
}
