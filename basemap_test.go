package printdem

import (
	"context"
	"errors"
	"image"
	"image/png"
	"math"
	"net/http"
	"net/http/httptest"
	"testing"
)

func TestMercatorRoundTrip(t *testing.T) {
	// Bogotá
	lon, lat := -74.08, 4.61
	x, y := Convert4326To3857(lon, lat)
	lon2, lat2 := Convert3857To4326(x, y)
	if math.Abs(lon2-lon) > 1e-6 || math.Abs(lat2-lat) > 1e-6 {
		t.Fatalf("round trip = (%v, %v), want (%v, %v)", lon2, lat2, lon, lat)
	}

	x, y = Convert4326To3857(180, 0)
	if math.Abs(x-originShift) > 1e-6 || math.Abs(y) > 1e-6 {
		t.Fatalf("antimeridian = (%v, %v), want (%v, 0)", x, y, originShift)
	}
}

func TestTileRoundTrip(t *testing.T) {
	lon, lat := -74.08, 4.61
	tx, ty := lonLatToTile(lon, lat, 12)
	lon2, lat2 := tileTo4326(tx, ty, 12)
	if math.Abs(lon2-lon) > 1e-9 || math.Abs(lat2-lat) > 1e-9 {
		t.Fatalf("round trip = (%v, %v), want (%v, %v)", lon2, lat2, lon, lat)
	}
}

func TestAutoZoom(t *testing.T) {
	// tile resolution must reach the grid's own: a municipal span
	// ~0.05 degrees wide on a 2000 px grid needs level 16, not the
	// handful of tiles a coarser level would stretch across it
	if z := autoZoom(Span{-74.125, -74.075, 4.575, 4.625}, 2000, 2000); z != 16 {
		t.Errorf("municipal span zoom = %d, want 16", z)
	}
	if z := autoZoom(Span{-74.3, -74.0, 4.5, 4.8}, 1500, 1500); z != 13 {
		t.Errorf("regional span zoom = %d, want 13", z)
	}
	if z := autoZoom(Span{-74.081, -74.080, 4.610, 4.611}, 2000, 2000); z != MAX_TILE_ZOOM {
		t.Errorf("tiny span zoom = %d, want %d", z, MAX_TILE_ZOOM)
	}
	if z := autoZoom(Span{-180, 180, -85, 85}, 64, 64); z != MIN_TILE_ZOOM {
		t.Errorf("world thumbnail zoom = %d, want %d", z, MIN_TILE_ZOOM)
	}
	if z := autoZoom(Span{-74, -74, 4, 5}, 2000, 2000); z != MAX_TILE_ZOOM {
		t.Errorf("degenerate span zoom = %d, want %d", z, MAX_TILE_ZOOM)
	}
	if z := autoZoom(Span{-74.3, -74.0, 4.5, 4.8}, 0, 0); z != MAX_TILE_ZOOM {
		t.Errorf("degenerate grid zoom = %d, want %d", z, MAX_TILE_ZOOM)
	}
}

func TestTilePlan(t *testing.T) {
	// a large grid over a wide span wants more tiles than the fetch
	// limit allows; the plan backs the zoom off until it fits
	span := Span{-74.3, -73.8, 4.3, 4.8}
	zoom, minTX, maxTX, minTY, maxTY := tilePlan(span, 8000, 8000)
	if want := autoZoom(span, 8000, 8000); zoom >= want {
		t.Fatalf("zoom = %d, want below the unbounded %d", zoom, want)
	}
	if zoom != 12 {
		t.Fatalf("zoom = %d, want 12", zoom)
	}
	if n := (maxTX - minTX + 1) * (maxTY - minTY + 1); n > BASEMAP_TILE_LIMIT {
		t.Fatalf("tile count = %d, over the %d limit", n, BASEMAP_TILE_LIMIT)
	}

	// a small fetch keeps the resolution-matched zoom untouched
	span = Span{-74.125, -74.075, 4.575, 4.625}
	zoom, minTX, maxTX, minTY, maxTY = tilePlan(span, 500, 500)
	if want := autoZoom(span, 500, 500); zoom != want {
		t.Fatalf("zoom = %d, want %d", zoom, want)
	}
	if n := (maxTX - minTX + 1) * (maxTY - minTY + 1); n > BASEMAP_TILE_LIMIT {
		t.Fatalf("tile count = %d, over the %d limit", n, BASEMAP_TILE_LIMIT)
	}
}

func TestTileRange(t *testing.T) {
	span := Span{-74.3, -74.0, 4.5, 4.8}
	zoom := 12
	minTX, maxTX, minTY, maxTY := tileRange(span, zoom)
	last := (1 << zoom) - 1
	for _, v := range []int{minTX, maxTX, minTY, maxTY} {
		if v < 0 || v > last {
			t.Fatalf("tile index %d outside [0, %d]", v, last)
		}
	}
	if minTX > maxTX || minTY > maxTY {
		t.Fatalf("inverted range (%d..%d, %d..%d)", minTX, maxTX, minTY, maxTY)
	}
	wx, _ := lonLatToTile(span[0], span[2], zoom)
	if int(math.Floor(wx)) != minTX {
		t.Fatalf("west tile = %d, want %d", minTX, int(math.Floor(wx)))
	}
}

func TestFetchTile(t *testing.T) {
	var path string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		path = r.URL.Path
		png.Encode(w, image.NewRGBA(image.Rect(0, 0, TILE_SIZE, TILE_SIZE)))
	}))
	defer srv.Close()

	g := NewRenderer(Config{BasemapURL: srv.URL + "/%d/%d/%d"})
	tile, err := g.fetchTile(context.Background(), 12, 100, 200)
	if err != nil {
		t.Fatal(err)
	}
	if tile.Bounds().Dx() != TILE_SIZE || tile.Bounds().Dy() != TILE_SIZE {
		t.Fatalf("tile size = %v", tile.Bounds())
	}
	// zoom/row/col, the arcgis layout
	if path != "/12/200/100" {
		t.Fatalf("requested path = %q, want /12/200/100", path)
	}
}

func TestFetchTileHTTPError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.NotFound(w, r)
	}))
	defer srv.Close()

	g := NewRenderer(Config{BasemapURL: srv.URL + "/%d/%d/%d"})
	if _, err := g.fetchTile(context.Background(), 5, 1, 2); err == nil {
		t.Fatal("expected error on http 404")
	}
}

func TestFetchBasemapNoSrid(t *testing.T) {
	g := NewRenderer()
	grid := &Grid{W: 10, H: 10, GT: [6]float64{0, 1, 0, 0, 0, -1}}
	_, err := g.FetchBasemap(context.Background(), grid)
	if !errors.Is(err, ErrBasemapUnavailable) {
		t.Fatalf("err = %v, want ErrBasemapUnavailable", err)
	}
}
