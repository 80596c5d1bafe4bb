package printdem

import "math"

// SlopePercent derives slope magnitude, in percent, from an elevation
// grid via centered differences (one-sided at the edges). Cell sizes
// are in the same linear unit as the elevation values. Cells touching
// a NaN neighbor come out NaN and are re-masked downstream.
func SlopePercent(z []float64, w, h int, xres, yres float64) []float64 {
	out := make([]float64, len(z))
	at := func(x, y int) float64 { return z[y*w+x] }
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			var dzdx, dzdy float64
			switch {
			case w < 2:
				dzdx = 0
			case x == 0:
				dzdx = (at(1, y) - at(0, y)) / xres
			case x == w-1:
				dzdx = (at(w-1, y) - at(w-2, y)) / xres
			default:
				dzdx = (at(x+1, y) - at(x-1, y)) / (2 * xres)
			}
			switch {
			case h < 2:
				dzdy = 0
			case y == 0:
				dzdy = (at(x, 1) - at(x, 0)) / yres
			case y == h-1:
				dzdy = (at(x, h-1) - at(x, h-2)) / yres
			default:
				dzdy = (at(x, y+1) - at(x, y-1)) / (2 * yres)
			}
			out[y*w+x] = 100 * math.Hypot(dzdx, dzdy)
		}
	}
	return out
}
