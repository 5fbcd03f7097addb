package charts

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"

	"datalens/domain/table"
	"datalens/internal"
	"datalens/internal/errors"
)

// ChartType names one of the four supported visualizations
type ChartType string

const (
	Histogram   ChartType = "histogram"
	BarChart    ChartType = "bar_chart"
	ScatterPlot ChartType = "scatter_plot"
	Heatmap     ChartType = "heatmap"
)

// MissingColumnsMessage is shown instead of a scatter plot when either
// selected column is absent
const MissingColumnsMessage = "Selected columns do not exist in the dataset."

// ParseChartType validates a visualization_type form value
func ParseChartType(s string) (ChartType, error) {
	switch ct := ChartType(s); ct {
	case Histogram, BarChart, ScatterPlot, Heatmap:
		return ct, nil
	}
	return "", errors.InvalidParameter(fmt.Sprintf("unknown visualization_type %q", s))
}

// Artifact describes the rendered image on disk
type Artifact struct {
	Path        string
	ContentType string
	Title       string
	Type        ChartType
}

// Options sizes the rendered image and fixes where it is written
type Options struct {
	OutputPath string
	Width      int
	Height     int
}

// Renderer rasterizes charts to a single fixed path. Every render
// overwrites the previous artifact; concurrent renders race on the file.
type Renderer struct {
	opts   Options
	logger *internal.Logger
}

// NewRenderer creates a renderer
func NewRenderer(opts Options, logger *internal.Logger) *Renderer {
	if logger == nil {
		logger = internal.DefaultLogger
	}
	return &Renderer{opts: opts, logger: logger.With("Charts")}
}

// OutputPath is where artifacts are written
func (r *Renderer) OutputPath() string {
	return r.opts.OutputPath
}

// Render draws chartType for the selected columns and writes the PNG.
// columnY is only read by scatter plots.
func (r *Renderer) Render(t *table.Table, columnX, columnY string, chartType ChartType) (Artifact, error) {
	var (
		buf   bytes.Buffer
		title string
		err   error
	)

	switch chartType {
	case Histogram:
		col, cerr := lookup(t, columnX)
		if cerr != nil {
			return Artifact{}, cerr
		}
		title = fmt.Sprintf("Histogram of %s", columnX)
		err = r.renderHistogram(&buf, title, col)
	case BarChart:
		col, cerr := lookup(t, columnX)
		if cerr != nil {
			return Artifact{}, cerr
		}
		title = fmt.Sprintf("Bar Chart of %s", columnX)
		err = r.renderBars(&buf, title, columnX, countValues(col))
	case ScatterPlot:
		x, y, cerr := lookupPair(t, columnX, columnY)
		if cerr != nil {
			return Artifact{}, cerr
		}
		title = fmt.Sprintf("Scatter Plot: %s vs. %s", columnX, columnY)
		err = r.renderScatter(&buf, title, x, y)
	case Heatmap:
		cols := t.NumericColumns()
		if len(cols) == 0 {
			return Artifact{}, errors.InvalidParameter("heatmap needs at least one numeric column")
		}
		title = "Correlation Heatmap"
		err = r.renderHeatmap(&buf, title, correlate(cols))
	default:
		_, err = ParseChartType(string(chartType))
		return Artifact{}, err
	}
	if err != nil {
		return Artifact{}, err
	}

	if err := r.write(buf.Bytes()); err != nil {
		return Artifact{}, err
	}
	r.logger.Info("rendered %s (%d bytes) to %s", chartType, buf.Len(), r.opts.OutputPath)

	return Artifact{
		Path:        r.opts.OutputPath,
		ContentType: "image/png",
		Title:       title,
		Type:        chartType,
	}, nil
}

func (r *Renderer) write(png []byte) error {
	if dir := filepath.Dir(r.opts.OutputPath); dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return errors.Wrap(err, "failed to create chart directory")
		}
	}
	if err := os.WriteFile(r.opts.OutputPath, png, 0o644); err != nil {
		return errors.Wrap(err, "failed to write chart")
	}
	return nil
}

func lookup(t *table.Table, name string) (*table.Column, error) {
	col, ok := t.Column(name)
	if !ok {
		return nil, errors.ColumnNotFound(name)
	}
	return col, nil
}

func lookupPair(t *table.Table, x, y string) (*table.Column, *table.Column, error) {
	colX, okX := t.Column(x)
	colY, okY := t.Column(y)
	if !okX || !okY {
		return nil, nil, errors.ColumnNotFound(x, y)
	}
	return colX, colY, nil
}
