package printdem

import "math"

// ValidFunc reports whether one cell value carries visible data.
type ValidFunc func(v float64) bool

// Mask marks the cells of a grid that survive validity filtering,
// along with the value range over those cells.
type Mask struct {
	Bits  []bool
	Valid int
	Min   float64
	Max   float64
}

// HazardValidity drops nodata and anything at or below the epsilon, so
// dry cells and numeric noise never render.
func HazardValidity(nodata float64) ValidFunc {
	return func(v float64) bool {
		return !math.IsNaN(v) && !math.IsInf(v, 0) && v != nodata && v > HAZARD_EPSILON
	}
}

// TerrainValidity drops only nodata; zero and negative values are
// legitimate terrain.
func TerrainValidity(nodata float64) ValidFunc {
	return func(v float64) bool {
		return !math.IsNaN(v) && !math.IsInf(v, 0) && v != nodata
	}
}

// BuildMask classifies every cell of g. It returns ErrEmptyDomain when
// nothing is valid, so callers abort before producing a blank map.
func BuildMask(g *Grid, valid ValidFunc) (*Mask, error) {
	m := &Mask{
		Bits: make([]bool, len(g.Data)),
		Min:  math.Inf(1),
		Max:  math.Inf(-1),
	}
	for i, v := range g.Data {
		if !valid(v) {
			continue
		}
		m.Bits[i] = true
		m.Valid++
		if v < m.Min {
			m.Min = v
		}
		if v > m.Max {
			m.Max = v
		}
	}
	if m.Valid == 0 {
		return nil, ErrEmptyDomain
	}
	return m, nil
}
