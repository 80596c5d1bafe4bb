package printdem

import (
	"os"
	"time"
)

const (
	FILE_EXT_SHP  = ".shp"
	FILE_EXT_TIF  = ".tif"
	FILE_EXT_PNG  = ".png"
	FILE_EXT_JPG  = ".jpg"
	FILE_EXT_JPEG = ".jpeg"

	SHP_DRIVER_NAME = "ESRI Shapefile"

	UNIVERSAL_SRID    = 4326
	WEB_MERCATOR_SRID = 3857
	CTM12_SRID        = 9377

	DEFAULT_MAX_DIMENSION = 2000
	DEFAULT_MAX_PIXELS    = 8_000_000
	DEFAULT_NODATA        = -9999.0
	SLOPE_NODATA          = -9999.0

	HAZARD_EPSILON = 0.001

	BASEMAP_URL         = "https://server.arcgisonline.com/ArcGIS/rest/services/World_Imagery/MapServer/tile/%d/%d/%d"
	BASEMAP_USER_AGENT  = "print-dem/1.0"
	BASEMAP_TIMEOUT     = 15 * time.Second
	BASEMAP_CONCURRENCY = 4
	BASEMAP_TILE_LIMIT  = 120
	TILE_SIZE           = 256
	MIN_TILE_ZOOM       = 1
	MAX_TILE_ZOOM       = 19

	JPEG_QUALITY = 95

	HAZARD_LAYER_ALPHA = 229 // 90% opacity over the basemap
	SOLID_LAYER_ALPHA  = 255

	DASH_ON            = 7
	DASH_OFF           = 5
	BOUNDARY_THICKNESS = 2

	LEGEND_STRIP_MIN_W = 180
	LEGEND_BAR_FRAC    = 0.035
	LEGEND_BAR_MIN_W   = 14
	LEGEND_BAR_MAX_W   = 26
	LEGEND_BAR_SHRINK  = 0.6
	LEGEND_PAD         = 14
	LEGEND_TEXT_GAP    = 6
	LEGEND_SWATCH_W    = 26
	LEGEND_SWATCH_H    = 22
	LEGEND_SWATCH_GAP  = 8
	TITLE_BAND_H       = 42

	TMP_MOSAIC = "mosaic_%s.tif"
	TMP_WARP   = "basemap_%s.tif"

	ENV_BASEMAP_URL = "PRINTDEM_BASEMAP_URL"
	ENV_PROJ_DATA   = "PRINTDEM_PROJ_DATA"
	ENV_TMP_DIR     = "PRINTDEM_TMP_DIR"
	PROJ_LIB_ENV    = "PROJ_LIB"
)

// Config carries the run-independent knobs of a Renderer. The zero
// value is usable: missing fields fall back to the constants above and
// the PRINTDEM_* environment.
type Config struct {
	MaxDimension    int
	MaxPixels       int
	BasemapURL      string
	BasemapTimeout  time.Duration
	TileConcurrency int
	TmpDir          string
	NoClobber       bool
}

func (c Config) withDefaults() Config {
	if c.MaxDimension <= 0 {
		c.MaxDimension = DEFAULT_MAX_DIMENSION
	}
	if c.MaxPixels <= 0 {
		c.MaxPixels = DEFAULT_MAX_PIXELS
	}
	if c.BasemapURL == "" {
		c.BasemapURL = os.Getenv(ENV_BASEMAP_URL)
	}
	if c.BasemapURL == "" {
		c.BasemapURL = BASEMAP_URL
	}
	if c.BasemapTimeout <= 0 {
		c.BasemapTimeout = BASEMAP_TIMEOUT
	}
	if c.TileConcurrency <= 0 {
		c.TileConcurrency = BASEMAP_CONCURRENCY
	}
	if c.TmpDir == "" {
		c.TmpDir = os.Getenv(ENV_TMP_DIR)
	}
	if c.TmpDir == "" {
		c.TmpDir = os.TempDir()
	}
	return c
}
