package printdem

import (
	"image"
	"math"

	"github.com/anthonynsimon/bild/blend"
)

// BlendMode selects how hillshade intensity combines with the color
// layer.
type BlendMode string

const (
	BlendOverlay BlendMode = "overlay"
	BlendSoft    BlendMode = "soft"
)

// ShadingParams positions the light source for relief shading. Azimuth
// is degrees clockwise from north, altitude degrees above the horizon.
type ShadingParams struct {
	Azimuth  float64
	Altitude float64
	Blend    BlendMode
	VertExag float64
}

// Hillshade computes illumination intensity in [0,1] for a surface lit
// from the given direction. The row axis is treated as pointing south,
// so the y spacing enters negated. A perfectly flat surface yields a
// uniform sin(altitude) rather than NaN. Non-finite inputs stay out of
// the contrast stretch and land at 0.
func Hillshade(z []float64, w, h int, xres, yres float64, p ShadingParams) []float64 {
	az := (90 - p.Azimuth) * degToRad
	alt := p.Altitude * degToRad
	lx := math.Cos(az) * math.Cos(alt)
	ly := math.Sin(az) * math.Cos(alt)
	lz := math.Sin(alt)

	exag := p.VertExag
	if exag == 0 {
		exag = 1
	}
	at := func(x, y int) float64 { return exag * z[y*w+x] }

	out := make([]float64, len(z))
	imin, imax := math.Inf(1), math.Inf(-1)
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
				dzdy = (at(x, 1) - at(x, 0)) / -yres
			case y == h-1:
				dzdy = (at(x, h-1) - at(x, h-2)) / -yres
			default:
				dzdy = (at(x, y+1) - at(x, y-1)) / (-2 * yres)
			}
			mag := math.Sqrt(dzdx*dzdx + dzdy*dzdy + 1)
			it := (-dzdx*lx - dzdy*ly + lz) / mag
			out[y*w+x] = it
			if !math.IsNaN(it) && !math.IsInf(it, 0) {
				if it < imin {
					imin = it
				}
				if it > imax {
					imax = it
				}
			}
		}
	}
	if span := imax - imin; span > 1e-6 {
		for i, it := range out {
			out[i] = (it - imin) / span
		}
	}
	for i, it := range out {
		switch {
		case math.IsNaN(it) || math.IsInf(it, 0):
			out[i] = 0
		case it < 0:
			out[i] = 0
		case it > 1:
			out[i] = 1
		}
	}
	return out
}

// RenderLayer rasterizes the grid through the color scale, optionally
// relief-shades it, and masks invalid cells fully transparent. The
// returned image is straight-alpha so the compositor controls opacity.
func RenderLayer(g *Grid, m *Mask, sc *ColorScale, p *ShadingParams, alpha uint8) *image.NRGBA {
	vals := make([]float64, len(g.Data))
	for i, v := range g.Data {
		if m.Bits[i] {
			vals[i] = v
		} else {
			vals[i] = math.NaN()
		}
	}

	colorized := image.NewRGBA(image.Rect(0, 0, g.W, g.H))
	for i, v := range vals {
		c := sc.Lookup(v).Clamped()
		r, gr, b := c.RGB255()
		o := i * 4
		px := colorized.Pix[o : o+4 : o+4]
		px[0], px[1], px[2], px[3] = r, gr, b, 0xff
	}

	if p != nil {
		xres, yres := g.CellSize()
		intensity := Hillshade(vals, g.W, g.H, xres, yres, *p)
		gray := image.NewRGBA(colorized.Rect)
		for i, it := range intensity {
			v := uint8(math.Round(it * 255))
			o := i * 4
			px := gray.Pix[o : o+4 : o+4]
			px[0], px[1], px[2], px[3] = v, v, v, 0xff
		}
		if p.Blend == BlendSoft {
			colorized = blend.SoftLight(colorized, gray)
		} else {
			colorized = blend.Overlay(colorized, gray)
		}
	}

	out := image.NewNRGBA(colorized.Rect)
	for i, ok := range m.Bits {
		if !ok {
			continue
		}
		o := i * 4
		src := colorized.Pix[o : o+4 : o+4]
		dst := out.Pix[o : o+4 : o+4]
		dst[0], dst[1], dst[2], dst[3] = src[0], src[1], src[2], alpha
	}
	return out
}
