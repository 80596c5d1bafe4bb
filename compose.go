package printdem

import (
	"image"
	"image/color"
	"image/draw"
	"math"
)

// composeInput gathers the layers of one finished map. Layer and
// basemap share the same pixel grid.
type composeInput struct {
	layer    *image.NRGBA
	basemap  *image.RGBA // nil when unavailable
	boundary [][]image.Point
	legend   *LegendSpec
	scale    *ColorScale
	title    string
}

// Composite assembles page, basemap, value layer, boundary and legend
// into the final image. The legend strip extends the canvas to the
// right and the title adds a band on top, keeping map pixels 1:1 with
// the sampled grid.
func Composite(in composeInput) *image.RGBA {
	mapW := in.layer.Rect.Dx()
	mapH := in.layer.Rect.Dy()
	stripW := 0
	if in.legend != nil {
		stripW = in.legend.stripWidth()
	}
	topH := 0
	if in.title != "" {
		topH = TITLE_BAND_H
	}

	canvas := image.NewRGBA(image.Rect(0, 0, mapW+stripW, topH+mapH))
	draw.Draw(canvas, canvas.Rect, image.NewUniform(color.White), image.Point{}, draw.Src)

	mapRect := image.Rect(0, topH, mapW, topH+mapH)
	if in.basemap != nil {
		draw.Draw(canvas, mapRect, in.basemap, image.Point{}, draw.Src)
	}
	draw.Draw(canvas, mapRect, in.layer, image.Point{}, draw.Over)

	off := image.Pt(0, topH)
	for _, ring := range in.boundary {
		strokeDashedRing(canvas, ring, off, mapRect)
	}

	if in.legend != nil {
		drawLegend(canvas, image.Rect(mapW, topH, mapW+stripW, topH+mapH), in.legend, in.scale)
	}
	if in.title != "" {
		drawTitle(canvas, image.Rect(0, 0, canvas.Rect.Dx(), topH), in.title)
	}
	return canvas
}

func drawTitle(dst *image.RGBA, band image.Rectangle, title string) {
	x := band.Min.X + (band.Dx()-textWidth(title))/2
	if x < band.Min.X+4 {
		x = band.Min.X + 4
	}
	drawText(dst, x, band.Min.Y+band.Dy()/2+4, title, color.Black)
}

func strokeDashedRing(dst *image.RGBA, ring []image.Point, off image.Point, clip image.Rectangle) {
	if len(ring) < 2 {
		return
	}
	phase := 0.0
	for i := 1; i < len(ring); i++ {
		phase = strokeDashedSegment(dst, ring[i-1].Add(off), ring[i].Add(off), phase, clip)
	}
}

// strokeDashedSegment walks one segment pixel by pixel, drawing marks
// of DASH_ON pixels separated by DASH_OFF gaps. The dash phase carries
// across segments so corners do not restart the pattern.
func strokeDashedSegment(dst *image.RGBA, a, b image.Point, phase float64, clip image.Rectangle) float64 {
	dx := float64(b.X - a.X)
	dy := float64(b.Y - a.Y)
	length := math.Hypot(dx, dy)
	if length == 0 {
		return phase
	}
	period := float64(DASH_ON + DASH_OFF)
	for s := 0.0; s < length; s++ {
		if math.Mod(phase+s, period) < DASH_ON {
			x := a.X + int(math.Round(s/length*dx))
			y := a.Y + int(math.Round(s/length*dy))
			setThick(dst, x, y, clip)
		}
	}
	return math.Mod(phase+length, period)
}

func setThick(dst *image.RGBA, x, y int, clip image.Rectangle) {
	for oy := 0; oy < BOUNDARY_THICKNESS; oy++ {
		for ox := 0; ox < BOUNDARY_THICKNESS; ox++ {
			p := image.Pt(x+ox, y+oy)
			if p.In(clip) {
				dst.SetRGBA(p.X, p.Y, color.RGBA{A: 0xff})
			}
		}
	}
}
