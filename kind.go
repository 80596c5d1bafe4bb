package printdem

import (
	gdal "github.com/airbusgeo/godal"
	"github.com/lucasb-eyer/go-colorful"
)

// MapKind selects the hazard/terrain variant being rendered.
type MapKind int

const (
	KindVelocity MapKind = iota
	KindDepth
	KindSlope
	KindElevation
)

var kindNames = map[MapKind]string{
	KindVelocity:  "velocity",
	KindDepth:     "depth",
	KindSlope:     "slope",
	KindElevation: "elevation",
}

func (k MapKind) String() string {
	if s, ok := kindNames[k]; ok {
		return s
	}
	return "unknown"
}

func ParseMapKind(s string) (MapKind, error) {
	for k, name := range kindNames {
		if s == name {
			return k, nil
		}
	}
	return 0, ErrUnknownKind
}

// kindSpec is the per-domain calibration: palette, scale floor, danger
// thresholds, light model and output naming. The floor keeps the danger
// color out of low-magnitude maps and doubles as the categorical
// ceiling. Values are hazard-engineering references; override through
// Job and Config rather than editing them.
type kindSpec struct {
	unit       string
	title      string // drawn on the canvas, elevation only
	prefix     string
	floor      float64
	bounds     []float64 // finite categorical boundaries, ascending
	catColors  []colorful.Color
	stops      []GradientStop
	hazard     bool // mask values <= epsilon as "no hazard"
	basemap    bool
	alpha      uint8
	resampling gdal.ResamplingAlg
	shading    *ShadingParams
}

var kindSpecs = map[MapKind]kindSpec{
	KindVelocity: {
		unit:   "Velocidad de Flujo (m/s)",
		prefix: "mapa_velocidad",
		floor:  2.5,
		bounds: []float64{0, 0.5, 1.0, 2.0},
		catColors: []colorful.Color{
			hexColor("#00c853"), hexColor("#ffd600"), hexColor("#d50000"), hexColor("#4a148c"),
		},
		stops: gradientStops(
			[]float64{0, 0.2, 0.4, 0.6, 0.8, 1},
			"#e1f5fe", "#00e5ff", "#00c853", "#ffd600", "#d50000", "#4a148c",
		),
		hazard:     true,
		basemap:    true,
		alpha:      HAZARD_LAYER_ALPHA,
		resampling: gdal.Bilinear,
	},
	KindDepth: {
		unit:   "Profundidad de Inundación (m)",
		prefix: "mapa_profundidad",
		floor:  2.0,
		bounds: []float64{0, 0.3, 0.8, 1.5},
		catColors: []colorful.Color{
			hexColor("#29b6f6"), hexColor("#fff176"), hexColor("#ff9800"), hexColor("#b71c1c"),
		},
		stops: gradientStops(
			[]float64{0, 0.25, 0.5, 0.75, 1},
			"#e0f7fa", "#29b6f6", "#fff176", "#ff9800", "#b71c1c",
		),
		hazard:     true,
		basemap:    true,
		alpha:      HAZARD_LAYER_ALPHA,
		resampling: gdal.Bilinear,
	},
	KindSlope: {
		unit:       "Pendiente (%)",
		prefix:     "mapa_pendiente",
		stops:      viridisStops(),
		basemap:    true,
		alpha:      SOLID_LAYER_ALPHA,
		resampling: gdal.Bilinear,
		shading:    &ShadingParams{Azimuth: 315, Altitude: 35, Blend: BlendSoft, VertExag: 2},
	},
	KindElevation: {
		unit:       "Elevación (m)",
		title:      "Modelo de Elevación con Hillshade",
		stops:      terrainStops(),
		alpha:      SOLID_LAYER_ALPHA,
		resampling: gdal.Average,
		shading:    &ShadingParams{Azimuth: 315, Altitude: 45, Blend: BlendOverlay, VertExag: 1},
	},
}

func (k MapKind) spec() (kindSpec, error) {
	s, ok := kindSpecs[k]
	if !ok {
		return kindSpec{}, ErrUnknownKind
	}
	return s, nil
}

// Validity returns the cell predicate for this kind given the raster's
// nodata sentinel.
func (k MapKind) Validity(nodata float64) ValidFunc {
	if s, ok := kindSpecs[k]; ok && s.hazard {
		return HazardValidity(nodata)
	}
	return TerrainValidity(nodata)
}

// DefaultShading exposes the kind's light model so callers can tweak
// single parameters without losing the rest.
func (k MapKind) DefaultShading() ShadingParams {
	if s, ok := kindSpecs[k]; ok && s.shading != nil {
		return *s.shading
	}
	return ShadingParams{Azimuth: 315, Altitude: 45, Blend: BlendOverlay, VertExag: 1}
}

// Categorizable reports whether the kind defines fixed danger buckets.
func (k MapKind) Categorizable() bool {
	s, ok := kindSpecs[k]
	return ok && len(s.bounds) > 0
}
