package printdem

import (
	"fmt"
	"image"
	"image/color"
	"image/draw"
	"strconv"
	"strings"

	"github.com/JuanDSuarezAI/print-dem/utils"

	"github.com/lucasb-eyer/go-colorful"
	"golang.org/x/image/font"
	"golang.org/x/image/font/basicfont"
	"golang.org/x/image/math/fixed"
)

type LegendTick struct {
	Pos   float64 // 0 at the bottom of the bar, 1 at the top
	Label string
}

type LegendBucket struct {
	Color colorful.Color
	Label string
}

// LegendSpec holds everything the legend strip says, decoupled from
// pixel layout so the label policies stay testable on their own.
type LegendSpec struct {
	Label       string
	Continuous  bool
	Ticks       []LegendTick
	MaxLabel    string
	MaxPos      float64
	ShowMaxLine bool
	Buckets     []LegendBucket
}

// BuildLegend derives the legend wording from a color scale. Hazard
// gradients always announce the observed maximum above the bar and mark
// it with a line when it sits below the top of scale, so a capped scale
// cannot be mistaken for the data's own range.
func BuildLegend(kind MapKind, sc *ColorScale) (ls *LegendSpec, err error) {
	spec, err := kind.spec()
	if err != nil {
		return
	}
	if !sc.Continuous {
		ls = &LegendSpec{Label: spec.unit}
		n := len(sc.Colors)
		for i := 0; i < n; i++ {
			var label string
			if i < n-1 {
				label = formatBound(sc.Bounds[i]) + "–" + formatBound(sc.Bounds[i+1])
			} else {
				label = fmt.Sprintf(">%s (Max: %.2f)", formatBound(sc.Bounds[i]), sc.ObservedMax)
			}
			ls.Buckets = append(ls.Buckets, LegendBucket{Color: sc.Colors[i], Label: label})
		}
		return
	}
	ls = &LegendSpec{Label: spec.unit, Continuous: true}
	switch {
	case spec.hazard:
		ls.Ticks = []LegendTick{
			{Pos: 0, Label: fmt.Sprintf("%.2f", sc.VisualMin)},
			{Pos: 1, Label: fmt.Sprintf("%.2f", sc.VisualMax)},
		}
		ls.MaxLabel = fmt.Sprintf("Max: %.2f", sc.ObservedMax)
		if sc.ObservedMax < sc.VisualMax {
			ls.ShowMaxLine = true
			ls.MaxPos = sc.ObservedMax / sc.VisualMax
		}
	case kind == KindSlope:
		ls.Label = fmt.Sprintf("%s [%.1f, %.1f]", spec.unit, sc.ObservedMin, sc.ObservedMax)
		for i := 0; i <= 4; i++ {
			t := float64(i) / 4
			v := sc.VisualMin + t*(sc.VisualMax-sc.VisualMin)
			ls.Ticks = append(ls.Ticks, LegendTick{Pos: t, Label: strconv.FormatFloat(v, 'f', 1, 64)})
		}
	default:
		ls.Ticks = []LegendTick{
			{Pos: 0, Label: fmt.Sprintf("%.2f", sc.VisualMin)},
			{Pos: 1, Label: fmt.Sprintf("%.2f", sc.VisualMax)},
		}
	}
	return
}

func formatBound(b float64) string {
	return strconv.FormatFloat(b, 'g', -1, 64)
}

// stripWidth is the pixel width the legend strip needs for its widest
// label next to the bar or swatch column.
func (ls *LegendSpec) stripWidth() int {
	w := textWidth(ls.MaxLabel)
	for _, t := range ls.Ticks {
		if tw := textWidth(t.Label); tw > w {
			w = tw
		}
	}
	for _, b := range ls.Buckets {
		if tw := textWidth(b.Label); tw > w {
			w = tw
		}
	}
	base := LEGEND_BAR_MAX_W
	if len(ls.Buckets) > 0 {
		base = LEGEND_SWATCH_W
	}
	w += base + LEGEND_TEXT_GAP + 2*LEGEND_PAD + 8
	if w < LEGEND_STRIP_MIN_W {
		w = LEGEND_STRIP_MIN_W
	}
	return w
}

// drawLegend paints the legend into rect, assuming a light background.
func drawLegend(dst *image.RGBA, rect image.Rectangle, ls *LegendSpec, sc *ColorScale) {
	if len(ls.Buckets) > 0 {
		drawBucketLegend(dst, rect, ls)
		return
	}
	barW := int(LEGEND_BAR_FRAC * float64(rect.Dy()))
	if barW < LEGEND_BAR_MIN_W {
		barW = LEGEND_BAR_MIN_W
	}
	if barW > LEGEND_BAR_MAX_W {
		barW = LEGEND_BAR_MAX_W
	}
	barH := int(LEGEND_BAR_SHRINK * float64(rect.Dy()))
	if barH < 2 {
		barH = 2
	}
	x0 := rect.Min.X + LEGEND_PAD
	y0 := rect.Min.Y + (rect.Dy()-barH)/2

	for row := 0; row < barH; row++ {
		t := 1 - float64(row)/float64(barH-1)
		v := sc.VisualMin + t*(sc.VisualMax-sc.VisualMin)
		fillRect(dst, image.Rect(x0, y0+row, x0+barW, y0+row+1), toRGBA(sc.Lookup(v)))
	}

	for _, tick := range ls.Ticks {
		ty := y0 + barH - 1 - int(tick.Pos*float64(barH-1))
		fillRect(dst, image.Rect(x0+barW, ty, x0+barW+3, ty+1), color.Black)
		drawText(dst, x0+barW+LEGEND_TEXT_GAP, ty+4, tick.Label, color.Black)
	}

	if ls.MaxLabel != "" {
		lx := x0 + (barW-textWidth(ls.MaxLabel))/2
		if lx < rect.Min.X+2 {
			lx = rect.Min.X + 2
		}
		drawText(dst, lx, y0-LEGEND_TEXT_GAP, ls.MaxLabel, color.Black)
	}
	if ls.ShowMaxLine {
		my := y0 + barH - 1 - int(ls.MaxPos*float64(barH-1))
		fillRect(dst, image.Rect(x0, my, x0+barW, my+2), color.White)
		drawText(dst, x0+barW+LEGEND_TEXT_GAP, my+4, ls.MaxLabel, color.Black)
	}

	drawWrapped(dst, x0, y0+barH+2*LEGEND_TEXT_GAP+8, rect.Max.X-LEGEND_PAD-x0, ls.Label)
}

// drawBucketLegend stacks the discrete classes, most dangerous on top.
func drawBucketLegend(dst *image.RGBA, rect image.Rectangle, ls *LegendSpec) {
	x0 := rect.Min.X + LEGEND_PAD
	y := rect.Min.Y + LEGEND_PAD + 10
	y = drawWrapped(dst, x0, y, rect.Max.X-LEGEND_PAD-x0, ls.Label)
	y += LEGEND_SWATCH_GAP
	for i := len(ls.Buckets) - 1; i >= 0; i-- {
		b := ls.Buckets[i]
		fillRect(dst, image.Rect(x0, y, x0+LEGEND_SWATCH_W, y+LEGEND_SWATCH_H), toRGBA(b.Color))
		drawText(dst, x0+LEGEND_SWATCH_W+LEGEND_TEXT_GAP, y+LEGEND_SWATCH_H/2+4, b.Label, color.Black)
		y += LEGEND_SWATCH_H + LEGEND_SWATCH_GAP
	}
}

// drawWrapped word-wraps text into the given width and returns the y
// just below the last line.
func drawWrapped(dst *image.RGBA, x, y, width int, s string) int {
	if s == "" {
		return y
	}
	words := strings.Fields(s)
	line := ""
	flush := func() {
		if line != "" {
			drawText(dst, x, y, line, color.Black)
			y += 14
			line = ""
		}
	}
	for _, w := range words {
		next := w
		if line != "" {
			next = line + " " + w
		}
		if textWidth(next) > width {
			flush()
			line = w
			continue
		}
		line = next
	}
	flush()
	return y
}

func drawText(dst *image.RGBA, x, y int, s string, col color.Color) {
	d := font.Drawer{
		Dst:  dst,
		Src:  image.NewUniform(col),
		Face: basicfont.Face7x13,
		Dot:  fixed.P(x, y),
	}
	d.DrawString(asciiFold(s))
}

func textWidth(s string) int {
	if s == "" {
		return 0
	}
	return font.MeasureString(basicfont.Face7x13, asciiFold(s)).Ceil()
}

// Face7x13 carries ASCII glyphs only, so accents are folded and typeset
// dashes downgraded right before drawing. Legend wording keeps the real
// characters.
func asciiFold(s string) string {
	s = utils.StripDiacritics(s)
	return strings.Map(func(r rune) rune {
		switch {
		case r == '–' || r == '—':
			return '-'
		case r > 0x7e:
			return -1
		}
		return r
	}, s)
}

func fillRect(dst *image.RGBA, r image.Rectangle, c color.Color) {
	draw.Draw(dst, r, image.NewUniform(c), image.Point{}, draw.Src)
}

func toRGBA(c colorful.Color) color.RGBA {
	r, g, b := c.Clamped().RGB255()
	return color.RGBA{R: r, G: g, B: b, A: 0xff}
}
