package printdem

import (
	"context"
	"image"
	"math"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"github.com/JuanDSuarezAI/print-dem/log"
	"github.com/JuanDSuarezAI/print-dem/utils"

	gdal "github.com/airbusgeo/godal"
	"github.com/disintegration/imaging"
	"go.uber.org/zap"
)

// Renderer drives the map pipeline. One instance is safe for concurrent
// use; the spatial reference cache is the only shared state.
type Renderer struct {
	cfg    Config
	refMap srsCache
	rLock  sync.Mutex
	client *http.Client
	tmpDir string
	logTag string
}

// NewRenderer builds a Renderer, optionally from a Config.
func NewRenderer(cfg ...Config) *Renderer {
	c := Config{}
	if len(cfg) > 0 {
		c = cfg[0]
	}
	c = c.withDefaults()
	return &Renderer{
		cfg:    c,
		refMap: srsCache{},
		client: &http.Client{Timeout: c.BasemapTimeout},
		tmpDir: c.TmpDir,
		logTag: "Renderer:",
	}
}

var setupOnce sync.Once

// Setup registers GDAL's raster drivers and points PROJ at its data
// directory. Call once before the first render.
func Setup(projData string) {
	setupOnce.Do(func() {
		if projData == "" {
			projData = os.Getenv(ENV_PROJ_DATA)
		}
		if projData != "" {
			os.Setenv(PROJ_LIB_ENV, projData)
		}
		gdal.RegisterInternalDrivers()
	})
}

// Render runs one job start to finish and reports what it wrote. The
// raster and derived statistics are fatal territory; basemap and
// boundary overlay failures degrade to warnings so a map is still
// produced.
func (g *Renderer) Render(ctx context.Context, job Job) (res Result, err error) {
	spec, err := job.Kind.spec()
	if err != nil {
		return
	}
	warn := func(msg string, fields ...zap.Field) {
		log.Warn(g.logTag+msg, fields...)
		res.Warnings = append(res.Warnings, msg)
	}

	budget := PixelBudget{MaxDimension: g.cfg.MaxDimension, MaxPixels: g.cfg.MaxPixels}
	if job.Budget != nil {
		budget = *job.Budget
	}
	grid, err := g.SampleRaster(job.Raster, budget, spec.resampling)
	if err != nil {
		return
	}
	if grid.SRID != CTM12_SRID {
		warn("raster is not in CTM12 (epsg:9377), continuing", zap.Int("srid", grid.SRID))
	}

	mask, err := BuildMask(grid, job.Kind.Validity(grid.NoData))
	if err != nil {
		return
	}
	if job.Kind == KindSlope {
		if grid, mask, err = g.deriveSlope(job, grid, mask, &res); err != nil {
			return
		}
	}
	res.Min, res.Max = mask.Min, mask.Max

	var sc *ColorScale
	if job.Categorical {
		sc, err = BuildCategorical(job.Kind, mask.Max)
	} else {
		sc, err = BuildContinuous(job.Kind, mask.Min, mask.Max)
	}
	if err != nil {
		return
	}

	shading := spec.shading
	if job.Shading != nil {
		shading = job.Shading
	}
	layer := RenderLayer(grid, mask, sc, shading, spec.alpha)

	legend, err := BuildLegend(job.Kind, sc)
	if err != nil {
		return
	}

	var basemap *image.RGBA
	if spec.basemap && !job.NoBasemap {
		if basemap, err = g.FetchBasemap(ctx, grid); err != nil {
			warn("rendering without basemap", zap.Error(err))
			basemap, err = nil, nil
		}
	}

	var rings [][]image.Point
	if job.Shapefile != "" {
		if rings, err = g.LoadBoundary(job.Shapefile, grid); err != nil {
			warn("rendering without boundary overlay", zap.Error(err))
			rings, err = nil, nil
		}
	}

	img := Composite(composeInput{
		layer:    layer,
		basemap:  basemap,
		boundary: rings,
		legend:   legend,
		scale:    sc,
		title:    spec.title,
	})

	out, err := OutputName(job)
	if err != nil {
		return
	}
	if utils.FileExists(out) {
		if g.cfg.NoClobber {
			err = ErrOutputExists
			return
		}
		warn("overwriting existing output", zap.String("out", out))
	}
	if err = g.saveImage(out, img); err != nil {
		return
	}
	res.Image = out
	log.Info(g.logTag+"map rendered", zap.String("kind", job.Kind.String()),
		zap.String("out", out), zap.Float64("min", res.Min), zap.Float64("max", res.Max))
	return
}

// deriveSlope swaps the sampled elevations for slope percentages and
// persists them as the auxiliary GeoTIFF. An all-flat DEM is still a
// valid slope map; only an all-nodata derivation aborts. A failed
// auxiliary write degrades to a warning, the map image matters more.
func (g *Renderer) deriveSlope(job Job, grid *Grid, mask *Mask, res *Result) (*Grid, *Mask, error) {
	vals := make([]float64, len(grid.Data))
	for i, v := range grid.Data {
		if mask.Bits[i] {
			vals[i] = v
		} else {
			vals[i] = math.NaN()
		}
	}
	xres, yres := grid.CellSize()
	slope := SlopePercent(vals, grid.W, grid.H, xres, yres)
	sg := &Grid{Data: slope, W: grid.W, H: grid.H, GT: grid.GT, SRID: grid.SRID, Wkt: grid.Wkt, NoData: SLOPE_NODATA}
	sm, err := BuildMask(sg, TerrainValidity(SLOPE_NODATA))
	if err != nil {
		return nil, nil, err
	}
	aux := SlopeRasterName(job.Raster)
	if werr := g.WriteSlopeRaster(aux, sg, slope); werr != nil {
		log.Warn(g.logTag+"slope raster not written", zap.Error(werr))
		res.Warnings = append(res.Warnings, "slope raster not written")
	} else {
		res.SlopeRaster = aux
	}
	return sg, sm, nil
}

func (g *Renderer) saveImage(out string, img *image.RGBA) (err error) {
	var opts []imaging.EncodeOption
	if ext := strings.ToLower(filepath.Ext(out)); ext == FILE_EXT_JPG || ext == FILE_EXT_JPEG {
		opts = append(opts, imaging.JPEGQuality(JPEG_QUALITY))
	}
	if err = imaging.Save(img, out, opts...); err != nil {
		log.Error(g.logTag+"save image failed", zap.String("out", out), zap.Error(err))
		err = ErrOutputWrite
	}
	return
}
