package printdem

import (
	"fmt"
	"image"
	"math"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/JuanDSuarezAI/print-dem/log"

	"github.com/lukeroth/gdal"
	"go.uber.org/zap"
)

// Objects allocated by GDAL's C side must be reclaimed manually.
type destroyable interface {
	Destroy()
}

// Spatial references are reused for the process lifetime, so cache
// entries are never destroyed.
type srsCache = map[int]gdal.SpatialReference

// getSridRef returns the cached spatial reference for an srid. Axis
// mapping is forced to traditional GIS order (lon/lat, easting/northing)
// so transformed coordinates never arrive swapped.
func (g *Renderer) getSridRef(srid int) (ref gdal.SpatialReference, err error) {
	g.rLock.Lock()
	defer g.rLock.Unlock()
	ref, ok := g.refMap[srid]
	if ok {
		return
	}
	ref = gdal.CreateSpatialReference("")
	if err = ref.FromEPSG(srid); err != nil {
		log.Error(g.logTag+"set ref srid failed", zap.Int("srid", srid), zap.Error(err))
		ref.Destroy()
		return
	}
	ref.SetAxisMappingStrategy(gdal.OAMS_TraditionalGisOrder)
	g.refMap[srid] = ref
	return
}

func (g *Renderer) getSrid(sp gdal.SpatialReference) (srid int, err error) {
	rawId, ok := sp.AttrValue("AUTHORITY", 1)
	if !ok {
		if sp.AutoIdentifyEPSG() == nil {
			rawId, ok = sp.AttrValue("AUTHORITY", 1)
		}
	}
	if !ok {
		// ESRI flavored CTM12 rasters often lack the authority node
		wkt, _ := sp.ToWKT()
		if !strings.Contains(wkt, "Origen-Nacional") {
			err = ErrVoidSrid
			return
		}
		rawId = strconv.Itoa(CTM12_SRID)
	}
	if srid, err = strconv.Atoi(rawId); err != nil {
		log.Error(g.logTag+"authority code not numeric", zap.String("id", rawId))
		err = ErrVoidSrid
	}
	return
}

func (g *Renderer) sridOfWkt(wkt string) (srid int, err error) {
	sp := gdal.CreateSpatialReference(wkt)
	defer sp.Destroy()
	return g.getSrid(sp)
}

// gridRef resolves the spatial reference a grid lives in. When built
// from raw WKT the reference is not cached and the caller owns it.
func (g *Renderer) gridRef(grid *Grid) (ref gdal.SpatialReference, owned bool, err error) {
	if grid.SRID > 0 {
		ref, err = g.getSridRef(grid.SRID)
		return
	}
	if grid.Wkt == "" {
		err = ErrVoidSrid
		return
	}
	ref = gdal.CreateSpatialReference(grid.Wkt)
	ref.SetAxisMappingStrategy(gdal.OAMS_TraditionalGisOrder)
	owned = true
	return
}

func (g *Renderer) parseWKT(wkt string, ref gdal.SpatialReference) (ret gdal.Geometry, err error) {
	ret, err = gdal.CreateFromWKT(wkt, ref)
	if err != nil {
		log.Error(g.logTag+"parse wkt failed", zap.Error(err))
		err = ErrInvalidWKT
	}
	return
}

// LoadBoundary unions every feature of a boundary shapefile and, when
// its srid differs from the raster's, reprojects the union onto the
// raster. The result comes back as pixel space rings ready to stroke.
// Only .shp paths are accepted; a failed reprojection surfaces as
// ErrCrsMismatch so callers can drop the overlay instead of drawing it
// misplaced.
func (g *Renderer) LoadBoundary(shp string, grid *Grid) (rings [][]image.Point, err error) {
	if !strings.EqualFold(filepath.Ext(shp), FILE_EXT_SHP) {
		log.Error(g.logTag+"boundary must be a shapefile", zap.String("shp", shp))
		err = ErrNotShapefile
		return
	}
	driver := gdal.OGRDriverByName(SHP_DRIVER_NAME)
	ds, ok := driver.Open(shp, 0)
	if !ok {
		err = ErrGdalDriverOpen
		return
	}
	defer ds.Destroy()
	var (
		layer   = ds.LayerByIndex(0)
		feature *gdal.Feature
		gc      []destroyable
	)
	defer func() {
		for _, v := range gc {
			v.Destroy()
		}
	}()
	srid, err := g.getSrid(layer.SpatialReference())
	if err != nil {
		return
	}
	geo := gdal.Create(gdal.GT_Polygon)
	for {
		if feature = layer.NextFeature(); feature != nil {
			gc = append(gc, *feature)
			gc = append(gc, geo)
			geo = geo.Union(feature.Geometry())
		} else {
			break
		}
	}
	gc = append(gc, geo)
	if geo.IsEmpty() {
		err = ErrEmptyOverlay
		return
	}
	if srid != grid.SRID {
		log.Warn(g.logTag+"overlay srid differs from raster, reprojecting",
			zap.Int("overlay", srid), zap.Int("raster", grid.SRID))
		tRef, owned, rerr := g.gridRef(grid)
		if rerr != nil {
			err = ErrCrsMismatch
			return
		}
		if owned {
			defer tRef.Destroy()
		}
		if err = geo.TransformTo(tRef); err != nil {
			log.Error(g.logTag+"overlay reprojection failed", zap.Error(err))
			err = ErrCrsMismatch
			return
		}
	}
	rings = pixelRings(geo, grid)
	log.Info(g.logTag+"loaded boundary overlay", zap.String("shp", shp),
		zap.Int("srid", srid), zap.Int("rings", len(rings)))
	return
}

func pixelRings(geo gdal.Geometry, grid *Grid) (rings [][]image.Point) {
	switch geo.Type() {
	case gdal.GT_LineString, gdal.GT_LinearRing:
		if pts := ringPoints(geo, grid); len(pts) > 1 {
			rings = append(rings, pts)
		}
	case gdal.GT_Polygon:
		for i := 0; i < geo.GeometryCount(); i++ {
			if pts := ringPoints(geo.Geometry(i), grid); len(pts) > 1 {
				rings = append(rings, pts)
			}
		}
	default:
		for i := 0; i < geo.GeometryCount(); i++ {
			rings = append(rings, pixelRings(geo.Geometry(i), grid)...)
		}
	}
	return
}

func ringPoints(ring gdal.Geometry, grid *Grid) []image.Point {
	n := ring.PointCount()
	pts := make([]image.Point, 0, n)
	for j := 0; j < n; j++ {
		x, y, _ := ring.Point(j)
		px, py := grid.PixelOf(x, y)
		pts = append(pts, image.Pt(int(math.Round(px)), int(math.Round(py))))
	}
	return pts
}

// spanTo4326 reprojects the grid extent into lon/lat order
// [west, east, south, north].
func (g *Renderer) spanTo4326(grid *Grid) (span Span, err error) {
	ext := grid.Extent()
	if grid.SRID == UNIVERSAL_SRID {
		span = ext
		return
	}
	ref, owned, err := g.gridRef(grid)
	if err != nil {
		return
	}
	if owned {
		defer ref.Destroy()
	}
	tRef, err := g.getSridRef(UNIVERSAL_SRID)
	if err != nil {
		return
	}
	geo, err := g.parseWKT(SpanToWkt(ext), ref)
	if err != nil {
		return
	}
	defer geo.Destroy()
	if err = geo.TransformTo(tRef); err != nil {
		log.Error(g.logTag+"extent transform failed", zap.Error(err))
		return
	}
	envelop := geo.Envelope()
	span[0] = envelop.MinX()
	span[1] = envelop.MaxX()
	span[2] = envelop.MinY()
	span[3] = envelop.MaxY()
	return
}

func PointsToWkt(lon1, lon2, lat1, lat2 float64) string {
	return fmt.Sprintf("POLYGON((%[1]f %[3]f, %[1]f %[4]f, %[2]f %[4]f, %[2]f %[3]f, %[1]f %[3]f))", lon1, lon2, lat1, lat2)
}

func SpanToWkt(span Span) string {
	return PointsToWkt(span[0], span[1], span[2], span[3])
}
