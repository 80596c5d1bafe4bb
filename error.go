package printdem

import "errors"

var (
	ErrSourceUnreadable   = errors.New("raster source unreadable")
	ErrEmptyDomain        = errors.New("raster has no valid cells")
	ErrCrsMismatch        = errors.New("overlay srid differs from raster")
	ErrBasemapUnavailable = errors.New("basemap unavailable")
	ErrOutputExists       = errors.New("output file already exists")
	ErrOutputWrite        = errors.New("output write failed")
	ErrUnknownKind        = errors.New("unknown map kind")
	ErrNoCategorical      = errors.New("map kind has no categorical thresholds")
	ErrGdalDriverOpen     = errors.New("gdal driver open err")
	ErrVoidSrid           = errors.New("spatial ref with void srid")
	ErrInvalidWKT         = errors.New("invalid WKT")
	ErrEmptyOverlay       = errors.New("overlay shp is empty")
	ErrNotShapefile       = errors.New("overlay is not a shapefile")
)
