package charts

import (
	"io"
	"math"

	"datalens/domain/table"
	"datalens/internal/errors"

	"github.com/wcharczuk/go-chart/v2"
	"github.com/wcharczuk/go-chart/v2/drawing"
)

var (
	seriesColor  = drawing.ColorFromHex("4c72b0")
	densityColor = drawing.ColorFromHex("dd8452")
)

func (r *Renderer) renderHistogram(w io.Writer, title string, col *table.Column) error {
	if !col.IsNumeric() {
		// text columns fall back to a count per distinct value
		return r.renderBars(w, title, col.Name, countValues(col))
	}
	values := finite(col.Numbers())
	if len(values) == 0 {
		return errors.InvalidParameter("column " + col.Name + " has no finite values to plot")
	}

	h := buildHistogram(values)
	maxCount := 0.0
	for _, c := range h.Counts {
		maxCount = math.Max(maxCount, c)
	}
	for _, d := range h.DensityY {
		maxCount = math.Max(maxCount, d)
	}

	series := []chart.Series{
		chart.HistogramSeries{
			Name: "count",
			Style: chart.Style{
				FillColor:   seriesColor.WithAlpha(180),
				StrokeColor: seriesColor,
			},
			InnerSeries: chart.ContinuousSeries{
				XValues: h.Centers(),
				YValues: h.Counts,
			},
		},
	}
	if len(h.DensityX) > 0 {
		series = append(series, chart.ContinuousSeries{
			Name:    "density",
			XValues: h.DensityX,
			YValues: h.DensityY,
			Style: chart.Style{
				StrokeColor: densityColor,
				StrokeWidth: 2,
			},
		})
	}

	graph := chart.Chart{
		Title:  title,
		Width:  r.opts.Width,
		Height: r.opts.Height,
		Background: chart.Style{
			Padding: chart.Box{Top: 50, Left: 20, Right: 20, Bottom: 20},
		},
		XAxis: chart.XAxis{
			Name:  col.Name,
			Range: paddedRange(h.Edges[0], h.Edges[len(h.Edges)-1]),
		},
		YAxis: chart.YAxis{
			Name:  "Count",
			Range: &chart.ContinuousRange{Min: 0, Max: maxCount * 1.1},
		},
		Series: series,
	}
	if err := graph.Render(chart.PNG, w); err != nil {
		return errors.Wrap(err, "failed to render histogram")
	}
	return nil
}

func (r *Renderer) renderBars(w io.Writer, title, label string, counts []categoryCount) error {
	if len(counts) == 0 {
		return errors.InvalidParameter("column " + label + " has no values to plot")
	}

	bars := make([]chart.Value, len(counts))
	maxCount := 0
	for i, c := range counts {
		bars[i] = chart.Value{
			Label: c.Label,
			Value: float64(c.Count),
			Style: chart.Style{FillColor: seriesColor, StrokeColor: seriesColor},
		}
		if c.Count > maxCount {
			maxCount = c.Count
		}
	}

	slot := (r.opts.Width - 120) / (2 * len(bars))
	if slot < 2 {
		slot = 2
	}

	graph := chart.BarChart{
		Title:  title,
		Width:  r.opts.Width,
		Height: r.opts.Height,
		Background: chart.Style{
			Padding: chart.Box{Top: 50, Left: 20, Right: 20, Bottom: 20},
		},
		BarWidth:   slot,
		BarSpacing: slot,
		YAxis: chart.YAxis{
			Name:  "Count",
			Range: &chart.ContinuousRange{Min: 0, Max: float64(maxCount) * 1.1},
		},
		Bars: bars,
	}
	if err := graph.Render(chart.PNG, w); err != nil {
		return errors.Wrap(err, "failed to render bar chart")
	}
	return nil
}

func (r *Renderer) renderScatter(w io.Writer, title string, x, y *table.Column) error {
	xs, ys := finitePoints(scatterPoints(x, y))
	if len(xs) == 0 {
		return errors.InvalidParameter("columns " + x.Name + " and " + y.Name + " share no numeric rows")
	}

	graph := chart.Chart{
		Title:  title,
		Width:  r.opts.Width,
		Height: r.opts.Height,
		Background: chart.Style{
			Padding: chart.Box{Top: 50, Left: 20, Right: 20, Bottom: 20},
		},
		XAxis: chart.XAxis{Name: x.Name, Range: paddedRange(minMax(xs))},
		YAxis: chart.YAxis{Name: y.Name, Range: paddedRange(minMax(ys))},
		Series: []chart.Series{
			chart.ContinuousSeries{
				Name:    title,
				XValues: xs,
				YValues: ys,
				Style: chart.Style{
					StrokeColor: drawing.ColorTransparent,
					DotWidth:    4,
					DotColor:    seriesColor,
				},
			},
		},
	}
	if err := graph.Render(chart.PNG, w); err != nil {
		return errors.Wrap(err, "failed to render scatter plot")
	}
	return nil
}

func minMax(values []float64) (float64, float64) {
	lo, hi := values[0], values[0]
	for _, v := range values[1:] {
		lo = math.Min(lo, v)
		hi = math.Max(hi, v)
	}
	return lo, hi
}

// paddedRange widens [lo, hi] by 5% so edge points are not clipped. A
// degenerate range is widened by one unit each way.
func paddedRange(lo, hi float64) *chart.ContinuousRange {
	pad := (hi - lo) * 0.05
	if pad == 0 {
		pad = 1
	}
	return &chart.ContinuousRange{Min: lo - pad, Max: hi + pad}
}
