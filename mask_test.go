package printdem

import (
	"errors"
	"math"
	"testing"
)

func TestHazardValidity(t *testing.T) {
	valid := HazardValidity(-9999)
	cases := []struct {
		v    float64
		want bool
	}{
		{-9999, false},
		{0, false},
		{HAZARD_EPSILON, false},
		{0.0011, true},
		{-0.5, false},
		{2.5, true},
		{math.NaN(), false},
		{math.Inf(1), false},
	}
	for _, c := range cases {
		if got := valid(c.v); got != c.want {
			t.Errorf("hazard valid(%v) = %v, want %v", c.v, got, c.want)
		}
	}
}

func TestTerrainValidity(t *testing.T) {
	valid := TerrainValidity(-9999)
	cases := []struct {
		v    float64
		want bool
	}{
		{-9999, false},
		{0, true},
		{-120.5, true},
		{2500, true},
		{math.NaN(), false},
		{math.Inf(-1), false},
	}
	for _, c := range cases {
		if got := valid(c.v); got != c.want {
			t.Errorf("terrain valid(%v) = %v, want %v", c.v, got, c.want)
		}
	}
}

func TestBuildMaskStats(t *testing.T) {
	g := &Grid{
		Data:   []float64{-9999, 0.5, 2.0, 0},
		W:      2,
		H:      2,
		NoData: -9999,
	}
	m, err := BuildMask(g, HazardValidity(g.NoData))
	if err != nil {
		t.Fatal(err)
	}
	if m.Valid != 2 {
		t.Fatalf("valid cells = %d, want 2", m.Valid)
	}
	if m.Min != 0.5 || m.Max != 2.0 {
		t.Fatalf("range = [%v, %v], want [0.5, 2.0]", m.Min, m.Max)
	}
	wantBits := []bool{false, true, true, false}
	for i, b := range wantBits {
		if m.Bits[i] != b {
			t.Errorf("bit %d = %v, want %v", i, m.Bits[i], b)
		}
	}
}

func TestBuildMaskEmptyDomain(t *testing.T) {
	g := &Grid{
		Data:   []float64{0, 0, -9999, 0},
		W:      2,
		H:      2,
		NoData: -9999,
	}
	_, err := BuildMask(g, HazardValidity(g.NoData))
	if !errors.Is(err, ErrEmptyDomain) {
		t.Fatalf("err = %v, want ErrEmptyDomain", err)
	}
}
