package printdem

import (
	"math"

	"github.com/JuanDSuarezAI/print-dem/log"

	gdal "github.com/airbusgeo/godal"
	"go.uber.org/zap"
)

// PixelBudget caps how many cells are pulled out of a source raster.
// Zero fields fall back to the package defaults.
type PixelBudget struct {
	MaxDimension int
	MaxPixels    int
}

func (b PixelBudget) normalized() PixelBudget {
	if b.MaxDimension <= 0 {
		b.MaxDimension = DEFAULT_MAX_DIMENSION
	}
	if b.MaxPixels <= 0 {
		b.MaxPixels = DEFAULT_MAX_PIXELS
	}
	return b
}

// Fit shrinks source dimensions until the longest side is within
// MaxDimension and the cell count is within MaxPixels. Aspect ratio is
// preserved and nothing is ever upscaled. The side cap divides by a
// whole factor, rounded up, so the result cannot overshoot the cap.
func (b PixelBudget) Fit(srcW, srcH int) (outW, outH int) {
	outW, outH = srcW, srcH
	if m := max(outW, outH); m > b.MaxDimension {
		f := (m + b.MaxDimension - 1) / b.MaxDimension
		outW = max(outW/f, 1)
		outH = max(outH/f, 1)
	}
	if outW*outH > b.MaxPixels {
		s := math.Sqrt(float64(b.MaxPixels) / float64(outW*outH))
		outW = max(int(float64(outW)*s), 1)
		outH = max(int(float64(outH)*s), 1)
	}
	return
}

// SampleRaster reads band 1 of a GeoTIFF at a resolution bounded by the
// budget, letting GDAL resample during the read. The returned grid
// carries a geotransform adjusted for the decimation, so its geographic
// extent matches the source exactly.
func (g *Renderer) SampleRaster(tif string, budget PixelBudget, alg gdal.ResamplingAlg) (grid *Grid, err error) {
	sds, err := gdal.Open(tif, gdal.RasterOnly())
	if err != nil {
		log.Error(g.logTag+"open raster failed", zap.String("tif", tif), zap.Error(err))
		err = ErrSourceUnreadable
		return
	}
	defer sds.Close()
	bands := sds.Bands()
	if len(bands) == 0 {
		log.Error(g.logTag+"raster has no bands", zap.String("tif", tif))
		err = ErrSourceUnreadable
		return
	}
	band := bands[0]
	st := band.Structure()
	srcW, srcH := st.SizeX, st.SizeY
	if srcW <= 0 || srcH <= 0 {
		log.Error(g.logTag+"raster has void size", zap.Int("width", srcW), zap.Int("height", srcH))
		err = ErrSourceUnreadable
		return
	}

	outW, outH := budget.normalized().Fit(srcW, srcH)
	buf := make([]float64, outW*outH)
	if outW == srcW && outH == srcH {
		err = band.IO(gdal.IORead, 0, 0, buf, outW, outH)
	} else {
		log.Info(g.logTag+"decimating raster read", zap.Int("srcW", srcW), zap.Int("srcH", srcH),
			zap.Int("outW", outW), zap.Int("outH", outH))
		err = band.IO(gdal.IORead, 0, 0, buf, outW, outH, gdal.Window(srcW, srcH), gdal.Resampling(alg))
	}
	if err != nil {
		log.Error(g.logTag+"read raster band failed", zap.Error(err))
		err = ErrSourceUnreadable
		return
	}

	gt, err := sds.GeoTransform()
	if err != nil {
		log.Warn(g.logTag+"raster has no geotransform, using identity", zap.Error(err))
		gt = [6]float64{0, 1, 0, 0, 0, -1}
		err = nil
	}
	if outW != srcW || outH != srcH {
		sx := float64(srcW) / float64(outW)
		sy := float64(srcH) / float64(outH)
		gt[1] *= sx
		gt[4] *= sx
		gt[2] *= sy
		gt[5] *= sy
	}

	grid = &Grid{Data: buf, W: outW, H: outH, GT: gt, NoData: DEFAULT_NODATA}
	if nd, ok := band.NoData(); ok {
		grid.NoData = nd
	}
	if sr := sds.SpatialRef(); sr != nil {
		wkt, werr := sr.WKT()
		if werr != nil {
			log.Warn(g.logTag+"raster srs not exportable", zap.Error(werr))
		} else if wkt != "" {
			grid.Wkt = wkt
			if srid, serr := g.sridOfWkt(wkt); serr != nil {
				log.Warn(g.logTag+"raster srid not identified", zap.Error(serr))
			} else {
				grid.SRID = srid
			}
		}
	}
	log.Info(g.logTag+"sampled raster", zap.String("tif", tif), zap.Int("width", outW),
		zap.Int("height", outH), zap.Int("srid", grid.SRID), zap.Float64("nodata", grid.NoData))
	return
}

// WriteSlopeRaster persists a derived grid as a single band Float32
// GeoTIFF next to the eventual map image. Non-finite cells become the
// nodata marker.
func (g *Renderer) WriteSlopeRaster(out string, grid *Grid, slope []float64) (err error) {
	buf := make([]float32, len(slope))
	for i, v := range slope {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			buf[i] = SLOPE_NODATA
		} else {
			buf[i] = float32(v)
		}
	}
	sds, err := gdal.Create(gdal.GTiff, out, 1, gdal.Float32, grid.W, grid.H,
		gdal.CreationOption("COMPRESS=LZW"))
	if err != nil {
		log.Error(g.logTag+"create slope raster failed", zap.String("out", out), zap.Error(err))
		return
	}
	if err = sds.SetGeoTransform(grid.GT); err != nil {
		log.Error(g.logTag+"set slope geotransform failed", zap.Error(err))
		sds.Close()
		return
	}
	if serr := g.stampSpatialRef(sds, grid); serr != nil {
		log.Warn(g.logTag+"slope raster left without srs", zap.Error(serr))
	}
	band := sds.Bands()[0]
	if err = band.SetNoData(SLOPE_NODATA); err != nil {
		log.Error(g.logTag+"set slope nodata failed", zap.Error(err))
		sds.Close()
		return
	}
	if err = band.Write(0, 0, buf, grid.W, grid.H); err != nil {
		log.Error(g.logTag+"write slope band failed", zap.Error(err))
		sds.Close()
		return
	}
	if err = sds.Close(); err != nil {
		log.Error(g.logTag+"flush slope raster failed", zap.Error(err))
		return
	}
	log.Info(g.logTag+"wrote slope raster", zap.String("out", out))
	return
}

func (g *Renderer) stampSpatialRef(sds *Dataset, grid *Grid) (err error) {
	var sr *SpatialRef
	switch {
	case grid.SRID > 0:
		sr, err = gdal.NewSpatialRefFromEPSG(grid.SRID)
	case grid.Wkt != "":
		sr, err = gdal.NewSpatialRefFromWKT(grid.Wkt)
	default:
		return
	}
	if err != nil {
		return
	}
	defer sr.Close()
	return sds.SetSpatialRef(sr)
}
