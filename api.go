package printdem

import (
	gdal "github.com/airbusgeo/godal"
)

type Dataset = gdal.Dataset

type SpatialRef = gdal.SpatialRef

// Span is a geographic extent in [left, right, bottom, top] order, in
// the units of its CRS.
type Span = [4]float64

// Grid is one resampled raster band with its georeferencing. It is
// created once per run and read-only afterwards.
type Grid struct {
	Data   []float64 // row-major, north row first
	W, H   int
	GT     [6]float64 // geotransform, rescaled for any decimation
	SRID   int        // EPSG id, 0 when the source CRS names none
	Wkt    string
	NoData float64
}

func (g *Grid) At(x, y int) float64 {
	return g.Data[y*g.W+x]
}

// CellSize returns the ground resolution per axis, always positive.
func (g *Grid) CellSize() (xres, yres float64) {
	xres = g.GT[1]
	if xres < 0 {
		xres = -xres
	}
	yres = g.GT[5]
	if yres < 0 {
		yres = -yres
	}
	return
}

// PixelOf inverts the geotransform, mapping CRS coordinates to
// fractional pixel coordinates.
func (g *Grid) PixelOf(x, y float64) (px, py float64) {
	det := g.GT[1]*g.GT[5] - g.GT[2]*g.GT[4]
	if det == 0 {
		return
	}
	dx, dy := x-g.GT[0], y-g.GT[3]
	px = (g.GT[5]*dx - g.GT[2]*dy) / det
	py = (g.GT[1]*dy - g.GT[4]*dx) / det
	return
}

// Extent returns the outer bounds of the grid in CRS coordinates.
func (g *Grid) Extent() (span Span) {
	w, h := float64(g.W), float64(g.H)
	xs := [4]float64{g.GT[0], g.GT[0] + g.GT[1]*w, g.GT[0] + g.GT[2]*h, g.GT[0] + g.GT[1]*w + g.GT[2]*h}
	ys := [4]float64{g.GT[3], g.GT[3] + g.GT[4]*w, g.GT[3] + g.GT[5]*h, g.GT[3] + g.GT[4]*w + g.GT[5]*h}
	span[0], span[1] = xs[0], xs[0]
	span[2], span[3] = ys[0], ys[0]
	for i := 1; i < 4; i++ {
		if xs[i] < span[0] {
			span[0] = xs[i]
		}
		if xs[i] > span[1] {
			span[1] = xs[i]
		}
		if ys[i] < span[2] {
			span[2] = ys[i]
		}
		if ys[i] > span[3] {
			span[3] = ys[i]
		}
	}
	return
}

// Job describes one rendering run.
type Job struct {
	Raster      string
	Kind        MapKind
	Shapefile   string // optional boundary overlay
	Out         string // optional explicit output name
	Categorical bool   // fixed danger buckets instead of a gradient
	NoBasemap   bool
	Shading     *ShadingParams // overrides the kind default when set
	Budget      *PixelBudget   // overrides the renderer config when set
}

// Result reports what a run produced.
type Result struct {
	Image       string
	SlopeRaster string // auxiliary GeoTIFF, slope kind only
	Min, Max    float64
	Warnings    []string
}
