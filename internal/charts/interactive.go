package charts

import (
	"fmt"
	"io"
	"math"
	"strconv"

	"datalens/domain/table"
	"datalens/internal/errors"

	"github.com/go-echarts/go-echarts/v2/charts"
	"github.com/go-echarts/go-echarts/v2/opts"
)

// RenderInteractive writes a self-contained ECharts HTML page for the same
// chart types Render supports. Nothing is written to the artifact path.
func (r *Renderer) RenderInteractive(w io.Writer, t *table.Table, columnX, columnY string, chartType ChartType) error {
	initOpts := charts.WithInitializationOpts(opts.Initialization{
		PageTitle: "Data Visualization",
		Width:     fmt.Sprintf("%dpx", r.opts.Width),
		Height:    fmt.Sprintf("%dpx", r.opts.Height),
	})

	switch chartType {
	case Histogram:
		col, err := lookup(t, columnX)
		if err != nil {
			return err
		}
		return r.interactiveHistogram(w, initOpts, col)
	case BarChart:
		col, err := lookup(t, columnX)
		if err != nil {
			return err
		}
		return interactiveBars(w, initOpts, fmt.Sprintf("Bar Chart of %s", columnX), countValues(col))
	case ScatterPlot:
		x, y, err := lookupPair(t, columnX, columnY)
		if err != nil {
			return err
		}
		return interactiveScatter(w, initOpts, x, y)
	case Heatmap:
		cols := t.NumericColumns()
		if len(cols) == 0 {
			return errors.InvalidParameter("heatmap needs at least one numeric column")
		}
		return interactiveHeatmap(w, initOpts, correlate(cols))
	}
	_, err := ParseChartType(string(chartType))
	return err
}

func (r *Renderer) interactiveHistogram(w io.Writer, initOpts charts.GlobalOpts, col *table.Column) error {
	title := fmt.Sprintf("Histogram of %s", col.Name)
	if !col.IsNumeric() {
		return interactiveBars(w, initOpts, title, countValues(col))
	}
	values := finite(col.Numbers())
	if len(values) == 0 {
		return errors.InvalidParameter("column " + col.Name + " has no finite values to plot")
	}
	h := buildHistogram(values)

	labels := make([]string, len(h.Counts))
	bars := make([]opts.BarData, len(h.Counts))
	for i, c := range h.Counts {
		labels[i] = fmt.Sprintf("%s-%s", short(h.Edges[i]), short(h.Edges[i+1]))
		bars[i] = opts.BarData{Value: c}
	}

	bar := charts.NewBar()
	bar.SetGlobalOptions(initOpts,
		charts.WithTitleOpts(opts.Title{Title: title}),
		charts.WithTooltipOpts(opts.Tooltip{Show: true}),
		charts.WithXAxisOpts(opts.XAxis{Name: col.Name}),
		charts.WithYAxisOpts(opts.YAxis{Name: "Count"}),
	)
	bar.SetXAxis(labels).AddSeries("count", bars)

	if len(h.DensityX) > 0 {
		// sample the density at bin centers so it shares the category axis
		density := make([]opts.LineData, len(h.Counts))
		for i, c := range h.Centers() {
			density[i] = opts.LineData{Value: densityAt(h, c)}
		}
		line := charts.NewLine()
		line.SetXAxis(labels).AddSeries("density", density,
			charts.WithLineChartOpts(opts.LineChart{Smooth: true}))
		bar.Overlap(line)
	}

	if err := bar.Render(w); err != nil {
		return errors.Wrap(err, "failed to render interactive histogram")
	}
	return nil
}

// densityAt linearly interpolates the sampled density curve at x
func densityAt(h histogram, x float64) float64 {
	xs, ys := h.DensityX, h.DensityY
	if x <= xs[0] {
		return ys[0]
	}
	for i := 1; i < len(xs); i++ {
		if x <= xs[i] {
			t := (x - xs[i-1]) / (xs[i] - xs[i-1])
			return ys[i-1] + t*(ys[i]-ys[i-1])
		}
	}
	return ys[len(ys)-1]
}

func interactiveBars(w io.Writer, initOpts charts.GlobalOpts, title string, counts []categoryCount) error {
	if len(counts) == 0 {
		return errors.InvalidParameter("no values to plot")
	}
	labels := make([]string, len(counts))
	data := make([]opts.BarData, len(counts))
	for i, c := range counts {
		labels[i] = c.Label
		data[i] = opts.BarData{Value: c.Count}
	}

	bar := charts.NewBar()
	bar.SetGlobalOptions(initOpts,
		charts.WithTitleOpts(opts.Title{Title: title}),
		charts.WithTooltipOpts(opts.Tooltip{Show: true}),
		charts.WithYAxisOpts(opts.YAxis{Name: "Count"}),
	)
	bar.SetXAxis(labels).AddSeries("count", data)
	if err := bar.Render(w); err != nil {
		return errors.Wrap(err, "failed to render interactive bar chart")
	}
	return nil
}

func interactiveScatter(w io.Writer, initOpts charts.GlobalOpts, x, y *table.Column) error {
	xs, ys := finitePoints(scatterPoints(x, y))
	data := make([]opts.ScatterData, len(xs))
	for i := range xs {
		data[i] = opts.ScatterData{Value: []float64{xs[i], ys[i]}, SymbolSize: 6}
	}

	scatter := charts.NewScatter()
	scatter.SetGlobalOptions(initOpts,
		charts.WithTitleOpts(opts.Title{Title: fmt.Sprintf("Scatter Plot: %s vs. %s", x.Name, y.Name)}),
		charts.WithTooltipOpts(opts.Tooltip{Show: true}),
		charts.WithXAxisOpts(opts.XAxis{Name: x.Name, Type: "value"}),
		charts.WithYAxisOpts(opts.YAxis{Name: y.Name, Type: "value"}),
	)
	scatter.AddSeries(x.Name+" vs "+y.Name, data)
	if err := scatter.Render(w); err != nil {
		return errors.Wrap(err, "failed to render interactive scatter plot")
	}
	return nil
}

func interactiveHeatmap(w io.Writer, initOpts charts.GlobalOpts, m correlationMatrix) error {
	var data []opts.HeatMapData
	for i := range m.Columns {
		for j := range m.Columns {
			var v interface{} = "-"
			if !math.IsNaN(m.Values[i][j]) {
				v = math.Round(m.Values[i][j]*100) / 100
			}
			data = append(data, opts.HeatMapData{Value: [3]interface{}{j, i, v}})
		}
	}

	hm := charts.NewHeatMap()
	hm.SetGlobalOptions(initOpts,
		charts.WithTitleOpts(opts.Title{Title: "Correlation Heatmap"}),
		charts.WithTooltipOpts(opts.Tooltip{Show: true}),
		charts.WithXAxisOpts(opts.XAxis{Type: "category", Data: m.Columns, SplitArea: &opts.SplitArea{Show: true}}),
		charts.WithYAxisOpts(opts.YAxis{Type: "category", Data: m.Columns, SplitArea: &opts.SplitArea{Show: true}}),
		charts.WithVisualMapOpts(opts.VisualMap{
			Calculable: true,
			Min:        -1,
			Max:        1,
			InRange:    &opts.VisualMapInRange{Color: []string{"#3b4cc0", "#dddddd", "#b40426"}},
		}),
	)
	hm.SetXAxis(m.Columns).AddSeries("correlation", data,
		charts.WithLabelOpts(opts.Label{Show: true}))
	if err := hm.Render(w); err != nil {
		return errors.Wrap(err, "failed to render interactive heatmap")
	}
	return nil
}

func short(f float64) string {
	return strconv.FormatFloat(f, 'g', 4, 64)
}
