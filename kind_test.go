package printdem

import (
	"errors"
	"testing"
)

func TestParseMapKind(t *testing.T) {
	for _, k := range []MapKind{KindVelocity, KindDepth, KindSlope, KindElevation} {
		got, err := ParseMapKind(k.String())
		if err != nil {
			t.Fatalf("%s: %v", k, err)
		}
		if got != k {
			t.Fatalf("ParseMapKind(%q) = %v, want %v", k.String(), got, k)
		}
	}
	if _, err := ParseMapKind("watershed"); !errors.Is(err, ErrUnknownKind) {
		t.Fatalf("err = %v, want ErrUnknownKind", err)
	}
	if MapKind(99).String() != "unknown" {
		t.Fatalf("stray kind String() = %q", MapKind(99).String())
	}
}

func TestDefaultShading(t *testing.T) {
	s := KindSlope.DefaultShading()
	if s.Azimuth != 315 || s.Altitude != 35 || s.Blend != BlendSoft || s.VertExag != 2 {
		t.Fatalf("slope shading = %+v", s)
	}
	e := KindElevation.DefaultShading()
	if e.Azimuth != 315 || e.Altitude != 45 || e.Blend != BlendOverlay || e.VertExag != 1 {
		t.Fatalf("elevation shading = %+v", e)
	}
}

func TestCategorizable(t *testing.T) {
	if !KindVelocity.Categorizable() || !KindDepth.Categorizable() {
		t.Fatal("hazard kinds define danger buckets")
	}
	if KindSlope.Categorizable() || KindElevation.Categorizable() {
		t.Fatal("terrain kinds define no buckets")
	}
}

func TestValidityPerKind(t *testing.T) {
	if KindVelocity.Validity(-9999)(0.0005) {
		t.Fatal("velocity must mask values at or under the hazard epsilon")
	}
	if !KindElevation.Validity(-9999)(0.0005) {
		t.Fatal("elevation keeps near-zero values")
	}
}
