package printdem

import (
	"math"
	"sort"

	"github.com/lucasb-eyer/go-colorful"
)

// GradientStop anchors a color at a relative position on a ramp. Stop
// positions are deliberately non-uniform for the hazard ramps so
// mid-range values stay distinguishable from low ones.
type GradientStop struct {
	Pos   float64
	Color colorful.Color
}

// ColorScale maps scalar values to colors. Exactly one policy is
// active: a gradient over [VisualMin, VisualMax], or half-open buckets
// [Bounds[i], Bounds[i+1]) with one solid color each.
type ColorScale struct {
	Continuous  bool
	Stops       []GradientStop
	VisualMin   float64
	VisualMax   float64
	Bounds      []float64 // len(Colors)+1, last one open-ended
	Colors      []colorful.Color
	ObservedMin float64
	ObservedMax float64
	Unit        string
}

// BuildContinuous anchors the kind's gradient to the observed range.
// For hazard kinds the top of scale is max(observedMax, floor), so a
// slow/shallow raster never reads as dangerous and an extreme one never
// saturates.
func BuildContinuous(kind MapKind, observedMin, observedMax float64) (*ColorScale, error) {
	spec, err := kind.spec()
	if err != nil {
		return nil, err
	}
	sc := &ColorScale{
		Continuous:  true,
		Stops:       spec.stops,
		ObservedMin: observedMin,
		ObservedMax: observedMax,
		Unit:        spec.unit,
	}
	switch {
	case spec.hazard:
		sc.VisualMin = 0
		sc.VisualMax = math.Max(observedMax, spec.floor)
	case kind == KindSlope:
		sc.VisualMin = math.Max(observedMin, 0)
		sc.VisualMax = observedMax
	default:
		sc.VisualMin = observedMin
		sc.VisualMax = observedMax
	}
	return sc, nil
}

// BuildCategorical closes the kind's fixed thresholds with an
// open-ended top boundary of max(ceiling, observedMax+1), so the last
// bucket swallows any outlier.
func BuildCategorical(kind MapKind, observedMax float64) (*ColorScale, error) {
	spec, err := kind.spec()
	if err != nil {
		return nil, err
	}
	if len(spec.bounds) == 0 {
		return nil, ErrNoCategorical
	}
	bounds := make([]float64, 0, len(spec.bounds)+1)
	bounds = append(bounds, spec.bounds...)
	bounds = append(bounds, math.Max(spec.floor, observedMax+1))
	return &ColorScale{
		Bounds:      bounds,
		Colors:      spec.catColors,
		ObservedMax: observedMax,
		Unit:        spec.unit,
	}, nil
}

// Lookup resolves one value to its color. Pure and O(log stops).
func (s *ColorScale) Lookup(v float64) colorful.Color {
	if s.Continuous {
		return s.gradientAt(s.norm(v))
	}
	return s.Colors[s.Bucket(v)]
}

// Bucket returns the index of the half-open interval holding v; a value
// sitting exactly on a boundary belongs to the upper bucket. Values
// outside [Bounds[0], top) clamp to the nearest bucket.
func (s *ColorScale) Bucket(v float64) int {
	i := sort.SearchFloat64s(s.Bounds, v)
	if i == len(s.Bounds) || (i > 0 && s.Bounds[i] != v) {
		i--
	}
	if i >= len(s.Colors) {
		i = len(s.Colors) - 1
	}
	if i < 0 {
		i = 0
	}
	return i
}

func (s *ColorScale) norm(v float64) float64 {
	span := s.VisualMax - s.VisualMin
	if span <= 0 || math.IsNaN(v) {
		return 0
	}
	t := (v - s.VisualMin) / span
	if t < 0 {
		return 0
	}
	if t > 1 {
		return 1
	}
	return t
}

func (s *ColorScale) gradientAt(t float64) colorful.Color {
	stops := s.Stops
	if t <= stops[0].Pos {
		return stops[0].Color
	}
	if last := stops[len(stops)-1]; t >= last.Pos {
		return last.Color
	}
	i := sort.Search(len(stops), func(i int) bool { return stops[i].Pos >= t })
	lo, hi := stops[i-1], stops[i]
	f := (t - lo.Pos) / (hi.Pos - lo.Pos)
	return lo.Color.BlendRgb(hi.Color, f)
}

func hexColor(s string) colorful.Color {
	c, _ := colorful.Hex(s)
	return c
}

func gradientStops(pos []float64, hex ...string) []GradientStop {
	stops := make([]GradientStop, len(hex))
	for i, h := range hex {
		stops[i] = GradientStop{Pos: pos[i], Color: hexColor(h)}
	}
	return stops
}

// viridis anchors, evenly spaced.
func viridisStops() []GradientStop {
	anchors := []colorful.Color{
		rgb255(68, 1, 84), rgb255(72, 35, 116), rgb255(64, 67, 135),
		rgb255(52, 94, 141), rgb255(41, 120, 142), rgb255(32, 144, 140),
		rgb255(34, 167, 132), rgb255(68, 190, 112), rgb255(121, 209, 81),
		rgb255(189, 222, 38), rgb255(253, 231, 37),
	}
	stops := make([]GradientStop, len(anchors))
	for i, c := range anchors {
		stops[i] = GradientStop{Pos: float64(i) / float64(len(anchors)-1), Color: c}
	}
	return stops
}

// terrain ramp: deep blue through green and sand to white peaks.
func terrainStops() []GradientStop {
	return []GradientStop{
		{Pos: 0, Color: colorful.Color{R: 0.2, G: 0.2, B: 0.6}},
		{Pos: 0.15, Color: colorful.Color{R: 0, G: 0.6, B: 1}},
		{Pos: 0.25, Color: colorful.Color{R: 0, G: 0.8, B: 0.4}},
		{Pos: 0.5, Color: colorful.Color{R: 1, G: 1, B: 0.6}},
		{Pos: 0.75, Color: colorful.Color{R: 0.5, G: 0.36, B: 0.33}},
		{Pos: 1, Color: colorful.Color{R: 1, G: 1, B: 1}},
	}
}

func rgb255(r, g, b uint8) colorful.Color {
	return colorful.Color{R: float64(r) / 255, G: float64(g) / 255, B: float64(b) / 255}
}
