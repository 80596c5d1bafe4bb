package printdem

import (
	"context"
	"fmt"
	"image"
	"image/draw"
	_ "image/jpeg"
	_ "image/png"
	"math"
	"net/http"
	"os"
	"path/filepath"
	"sync"

	"github.com/JuanDSuarezAI/print-dem/log"

	gdal "github.com/airbusgeo/godal"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

const (
	degToRad = math.Pi / 180

	xr = 20037508.34 / 180
	yr = xr / degToRad
	tr = degToRad / 2

	originShift = xr * 180

	// web mercator is only defined up to this latitude
	mercLatLimit = 85.051128
)

func Convert4326To3857(lon, lat float64) (lonIn3857, latIn3857 float64) {
	lonIn3857 = lon * xr
	latIn3857 = math.Log(math.Tan((90+lat)*tr)) * yr
	return
}

func Convert3857To4326(lonIn3857, latIn3857 float64) (lon, lat float64) {
	lon = lonIn3857 / xr
	lat = math.Atan(math.Pow(math.E, latIn3857/yr))/tr - 90
	return
}

// lonLatToTile maps a coordinate to fractional slippy tile indices.
func lonLatToTile(lon, lat float64, zoom int) (tx, ty float64) {
	if lat > mercLatLimit {
		lat = mercLatLimit
	} else if lat < -mercLatLimit {
		lat = -mercLatLimit
	}
	n := float64(int(1) << zoom)
	tx = (lon + 180) / 360 * n
	latRad := lat * degToRad
	ty = (1 - math.Log(math.Tan(latRad)+1/math.Cos(latRad))/math.Pi) / 2 * n
	return
}

func tileTo4326(tx, ty float64, zoom int) (lon, lat float64) {
	n := float64(int(1) << zoom)
	lon = tx/n*360 - 180
	lat = math.Atan(math.Sinh(math.Pi*(1-2*ty/n))) / degToRad
	return
}

// autoZoom picks the lowest tile level whose ground resolution still
// meets the grid's own on both axes, bounded to what the tile service
// offers. A tile covers 360/2^zoom degrees across TILE_SIZE pixels.
func autoZoom(span Span, w, h int) int {
	lonSpan := span[1] - span[0]
	latSpan := span[3] - span[2]
	if lonSpan <= 0 || latSpan <= 0 || w <= 0 || h <= 0 {
		return MAX_TILE_ZOOM
	}
	zx := math.Ceil(math.Log2(360 * float64(w) / (TILE_SIZE * lonSpan)))
	zy := math.Ceil(math.Log2(360 * float64(h) / (TILE_SIZE * latSpan)))
	zoom := int(math.Max(zx, zy))
	if zoom < MIN_TILE_ZOOM {
		zoom = MIN_TILE_ZOOM
	}
	if zoom > MAX_TILE_ZOOM {
		zoom = MAX_TILE_ZOOM
	}
	return zoom
}

func tileRange(span Span, zoom int) (minTX, maxTX, minTY, maxTY int) {
	last := (1 << zoom) - 1
	clamp := func(v float64) int {
		i := int(math.Floor(v))
		if i < 0 {
			i = 0
		}
		if i > last {
			i = last
		}
		return i
	}
	wx, _ := lonLatToTile(span[0], span[2], zoom)
	ex, _ := lonLatToTile(span[1], span[2], zoom)
	_, ny := lonLatToTile(span[0], span[3], zoom)
	_, sy := lonLatToTile(span[0], span[2], zoom)
	minTX, maxTX = clamp(wx), clamp(ex)
	minTY, maxTY = clamp(ny), clamp(sy)
	return
}

// tilePlan resolves the zoom and tile range covering a span, backing
// the zoom off until the fetch fits the tile limit.
func tilePlan(span Span, w, h int) (zoom, minTX, maxTX, minTY, maxTY int) {
	zoom = autoZoom(span, w, h)
	for {
		minTX, maxTX, minTY, maxTY = tileRange(span, zoom)
		if (maxTX-minTX+1)*(maxTY-minTY+1) <= BASEMAP_TILE_LIMIT || zoom <= MIN_TILE_ZOOM {
			return
		}
		zoom--
	}
}

// FetchBasemap downloads satellite tiles covering the grid, mosaics
// them and warps the mosaic onto the grid's CRS and pixel layout. Any
// failed tile fails the whole basemap; the map still renders without
// it. The grid must carry a usable srid for the warp.
func (g *Renderer) FetchBasemap(ctx context.Context, grid *Grid) (img *image.RGBA, err error) {
	if grid.SRID <= 0 {
		log.Warn(g.logTag + "raster srid unknown, skipping basemap")
		err = ErrBasemapUnavailable
		return
	}
	span, err := g.spanTo4326(grid)
	if err != nil {
		log.Warn(g.logTag+"extent not transformable, skipping basemap", zap.Error(err))
		err = ErrBasemapUnavailable
		return
	}

	zoom, minTX, maxTX, minTY, maxTY := tilePlan(span, grid.W, grid.H)
	nx, ny := maxTX-minTX+1, maxTY-minTY+1
	log.Info(g.logTag+"fetching basemap tiles", zap.Int("zoom", zoom), zap.Int("tiles", nx*ny))

	var (
		tiles = make([]image.Image, nx*ny)
		sem   = make(chan struct{}, g.cfg.TileConcurrency)
		wg    sync.WaitGroup
		once  sync.Once
		ferr  error
	)
	for ty := minTY; ty <= maxTY; ty++ {
		for tx := minTX; tx <= maxTX; tx++ {
			wg.Add(1)
			go func(tx, ty int) {
				defer wg.Done()
				sem <- struct{}{}
				defer func() { <-sem }()
				tile, e := g.fetchTile(ctx, zoom, tx, ty)
				if e != nil {
					once.Do(func() { ferr = e })
					return
				}
				tiles[(ty-minTY)*nx+(tx-minTX)] = tile
			}(tx, ty)
		}
	}
	wg.Wait()
	if ferr != nil {
		log.Warn(g.logTag+"basemap tile fetch failed", zap.Error(ferr))
		err = ErrBasemapUnavailable
		return
	}

	mosaic := image.NewRGBA(image.Rect(0, 0, nx*TILE_SIZE, ny*TILE_SIZE))
	for i, tile := range tiles {
		x0 := (i % nx) * TILE_SIZE
		y0 := (i / nx) * TILE_SIZE
		draw.Draw(mosaic, image.Rect(x0, y0, x0+TILE_SIZE, y0+TILE_SIZE), tile, tile.Bounds().Min, draw.Src)
	}

	img, err = g.warpMosaic(mosaic, minTX, minTY, zoom, grid)
	if err != nil {
		log.Warn(g.logTag+"basemap warp failed", zap.Error(err))
		err = ErrBasemapUnavailable
	}
	return
}

func (g *Renderer) fetchTile(ctx context.Context, zoom, tx, ty int) (image.Image, error) {
	url := fmt.Sprintf(g.cfg.BasemapURL, zoom, ty, tx)
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("User-Agent", BASEMAP_USER_AGENT)
	resp, err := g.client.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("tile %d/%d/%d: http status %d", zoom, tx, ty, resp.StatusCode)
	}
	img, _, err := image.Decode(resp.Body)
	return img, err
}

// warpMosaic georeferences the tile mosaic in web mercator, warps it to
// the grid's CRS and extent, and reads it back at the grid's size.
func (g *Renderer) warpMosaic(mosaic *image.RGBA, minTX, minTY, zoom int, grid *Grid) (img *image.RGBA, err error) {
	w := mosaic.Rect.Dx()
	h := mosaic.Rect.Dy()
	res := 2 * originShift / float64(int(1)<<zoom) / TILE_SIZE
	lon0, lat0 := tileTo4326(float64(minTX), float64(minTY), zoom)
	x0, y0 := Convert4326To3857(lon0, lat0)

	tmpMosaic := filepath.Join(g.tmpDir, fmt.Sprintf(TMP_MOSAIC, uuid.NewString()))
	tmpWarp := filepath.Join(g.tmpDir, fmt.Sprintf(TMP_WARP, uuid.NewString()))
	defer func() {
		os.Remove(tmpMosaic)
		os.Remove(tmpWarp)
	}()

	mds, err := gdal.Create(gdal.GTiff, tmpMosaic, 3, gdal.Byte, w, h)
	if err != nil {
		return
	}
	if err = mds.SetGeoTransform([6]float64{x0, res, 0, y0, 0, -res}); err != nil {
		mds.Close()
		return
	}
	sr, err := gdal.NewSpatialRefFromEPSG(WEB_MERCATOR_SRID)
	if err != nil {
		mds.Close()
		return
	}
	if err = mds.SetSpatialRef(sr); err != nil {
		sr.Close()
		mds.Close()
		return
	}
	sr.Close()
	chans := splitRGB(mosaic, w, h)
	bnds := mds.Bands()
	for i := range chans {
		if err = bnds[i].Write(0, 0, chans[i], w, h); err != nil {
			mds.Close()
			return
		}
	}
	if err = mds.Close(); err != nil {
		return
	}

	mds, err = gdal.Open(tmpMosaic, gdal.RasterOnly())
	if err != nil {
		return
	}
	ext := grid.Extent()
	switches := []string{
		"-t_srs", fmt.Sprintf("epsg:%d", grid.SRID),
		"-te", fmt.Sprintf("%f", ext[0]), fmt.Sprintf("%f", ext[2]), fmt.Sprintf("%f", ext[1]), fmt.Sprintf("%f", ext[3]),
		"-ts", fmt.Sprintf("%d", grid.W), fmt.Sprintf("%d", grid.H),
		"-r", "bilinear",
	}
	wds, err := gdal.Warp(tmpWarp, []*Dataset{mds}, switches)
	mds.Close()
	if err != nil {
		return
	}
	defer wds.Close()

	img = image.NewRGBA(image.Rect(0, 0, grid.W, grid.H))
	buf := make([]byte, grid.W*grid.H)
	wb := wds.Bands()
	for c := 0; c < 3 && c < len(wb); c++ {
		if err = wb[c].IO(gdal.IORead, 0, 0, buf, grid.W, grid.H); err != nil {
			img = nil
			return
		}
		for i, v := range buf {
			img.Pix[i*4+c] = v
		}
	}
	for i := 3; i < len(img.Pix); i += 4 {
		img.Pix[i] = 0xff
	}
	return
}

func splitRGB(src *image.RGBA, w, h int) [3][]byte {
	var chans [3][]byte
	for c := range chans {
		chans[c] = make([]byte, w*h)
	}
	for i := 0; i < w*h; i++ {
		chans[0][i] = src.Pix[i*4]
		chans[1][i] = src.Pix[i*4+1]
		chans[2][i] = src.Pix[i*4+2]
	}
	return chans
}
