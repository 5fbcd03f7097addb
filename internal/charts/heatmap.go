package charts

import (
	"image"
	"image/color"
	"image/draw"
	"image/png"
	"io"
	"math"
	"strconv"

	"datalens/internal/errors"

	"golang.org/x/image/font"
	"golang.org/x/image/font/basicfont"
	"golang.org/x/image/math/fixed"
)

var (
	coolEnd   = color.RGBA{R: 59, G: 76, B: 192, A: 255}
	midColor  = color.RGBA{R: 221, G: 221, B: 221, A: 255}
	warmEnd   = color.RGBA{R: 180, G: 4, B: 38, A: 255}
	nanColor  = color.RGBA{R: 245, G: 245, B: 245, A: 255}
	textColor = color.Black
)

const (
	heatmapMargin = 20
	titleHeight   = 40
	legendWidth   = 60
)

// coolwarm maps a correlation in [-1, 1] onto a diverging blue/red palette
func coolwarm(v float64) color.RGBA {
	if math.IsNaN(v) {
		return nanColor
	}
	v = math.Max(-1, math.Min(1, v))
	if v < 0 {
		return lerp(midColor, coolEnd, -v)
	}
	return lerp(midColor, warmEnd, v)
}

func lerp(a, b color.RGBA, t float64) color.RGBA {
	mix := func(x, y uint8) uint8 {
		return uint8(math.Round(float64(x) + (float64(y)-float64(x))*t))
	}
	return color.RGBA{R: mix(a.R, b.R), G: mix(a.G, b.G), B: mix(a.B, b.B), A: 255}
}

// annotation formats a coefficient with two decimals
func annotation(v float64) string {
	if math.IsNaN(v) {
		return "nan"
	}
	return strconv.FormatFloat(v, 'f', 2, 64)
}

// renderHeatmap draws the matrix as a grid of colored cells annotated with
// their coefficient. go-chart has no heatmap series, so cells and labels are
// drawn directly.
func (r *Renderer) renderHeatmap(w io.Writer, title string, m correlationMatrix) error {
	face := basicfont.Face7x13
	n := len(m.Columns)

	labelWidth := 0
	for _, name := range m.Columns {
		labelWidth = max(labelWidth, font.MeasureString(face, name).Ceil())
	}
	left := heatmapMargin + labelWidth + 8
	top := heatmapMargin + titleHeight
	bottom := heatmapMargin + 2*face.Height

	gridW := r.opts.Width - left - heatmapMargin - legendWidth
	gridH := r.opts.Height - top - bottom
	cell := min(gridW, gridH) / n
	if cell < 1 {
		return errors.InvalidParameter("too many numeric columns for the configured chart size")
	}

	img := image.NewRGBA(image.Rect(0, 0, r.opts.Width, r.opts.Height))
	draw.Draw(img, img.Bounds(), image.White, image.Point{}, draw.Src)

	drawText(img, face, title, (r.opts.Width-font.MeasureString(face, title).Ceil())/2, heatmapMargin+face.Height)

	for i := 0; i < n; i++ {
		for j := 0; j < n; j++ {
			v := m.Values[i][j]
			x0, y0 := left+j*cell, top+i*cell
			rect := image.Rect(x0, y0, x0+cell, y0+cell)
			c := coolwarm(v)
			draw.Draw(img, rect, &image.Uniform{C: c}, image.Point{}, draw.Src)

			label := annotation(v)
			tw := font.MeasureString(face, label).Ceil()
			if tw < cell {
				ink := textColor
				if !math.IsNaN(v) && math.Abs(v) > 0.6 {
					ink = color.White
				}
				drawTextColor(img, face, label, x0+(cell-tw)/2, y0+(cell+face.Ascent)/2, ink)
			}
		}
	}

	for i, name := range m.Columns {
		// row labels, right aligned against the grid
		tw := font.MeasureString(face, name).Ceil()
		drawText(img, face, name, left-8-tw, top+i*cell+(cell+face.Ascent)/2)

		// column labels below the grid, truncated to the cell width
		col := truncate(face, name, cell)
		cw := font.MeasureString(face, col).Ceil()
		drawText(img, face, col, left+i*cell+(cell-cw)/2, top+n*cell+face.Height+4)
	}

	drawLegend(img, face, left+n*cell+20, top, n*cell)

	if err := png.Encode(w, img); err != nil {
		return errors.Wrap(err, "failed to encode heatmap")
	}
	return nil
}

// drawLegend paints a vertical color bar from +1 at the top to -1 at the bottom
func drawLegend(img *image.RGBA, face font.Face, x, y, height int) {
	const barWidth = 14
	if height <= 0 {
		return
	}
	for dy := 0; dy < height; dy++ {
		v := 1 - 2*float64(dy)/float64(max(height-1, 1))
		row := image.Rect(x, y+dy, x+barWidth, y+dy+1)
		draw.Draw(img, row, &image.Uniform{C: coolwarm(v)}, image.Point{}, draw.Src)
	}
	drawText(img, face, "1.0", x+barWidth+4, y+10)
	drawText(img, face, "0.0", x+barWidth+4, y+height/2+4)
	drawText(img, face, "-1.0", x+barWidth+4, y+height)
}

func truncate(face font.Face, s string, width int) string {
	for len(s) > 0 && font.MeasureString(face, s).Ceil() > width {
		s = s[:len(s)-1]
	}
	return s
}

func drawText(img draw.Image, face font.Face, s string, x, y int) {
	drawTextColor(img, face, s, x, y, textColor)
}

func drawTextColor(img draw.Image, face font.Face, s string, x, y int, c color.Color) {
	d := &font.Drawer{
		Dst:  img,
		Src:  image.NewUniform(c),
		Face: face,
		Dot:  fixed.P(x, y),
	}
	d.DrawString(s)
}
