package charts

import (
	"math"
	"sort"
	"strconv"

	"datalens/domain/table"

	"gonum.org/v1/gonum/stat"
	"gonum.org/v1/gonum/stat/distuv"
)

// kdePoints is how many points the density curve is sampled at
const kdePoints = 200

// histogram is a binned frequency distribution with an optional density
// curve already scaled to counts
type histogram struct {
	Edges    []float64
	Counts   []float64
	DensityX []float64
	DensityY []float64
}

// Centers returns the midpoint of every bin
func (h histogram) Centers() []float64 {
	centers := make([]float64, len(h.Counts))
	for i := range h.Counts {
		centers[i] = (h.Edges[i] + h.Edges[i+1]) / 2
	}
	return centers
}

// finite drops NaN and infinite values
func finite(values []float64) []float64 {
	out := make([]float64, 0, len(values))
	for _, v := range values {
		if !math.IsNaN(v) && !math.IsInf(v, 0) {
			out = append(out, v)
		}
	}
	return out
}

// buildHistogram bins values with Sturges' rule and overlays a Gaussian KDE
// using Scott's bandwidth. values must be finite and non-empty.
func buildHistogram(values []float64) histogram {
	n := len(values)
	lo, hi := values[0], values[0]
	for _, v := range values {
		lo = math.Min(lo, v)
		hi = math.Max(hi, v)
	}

	bins := int(math.Ceil(math.Log2(float64(n)))) + 1
	if hi == lo {
		bins = 1
		lo, hi = lo-0.5, hi+0.5
	}
	width := (hi - lo) / float64(bins)

	h := histogram{
		Edges:  make([]float64, bins+1),
		Counts: make([]float64, bins),
	}
	for i := range h.Edges {
		h.Edges[i] = lo + float64(i)*width
	}
	h.Edges[bins] = hi
	for _, v := range values {
		idx := int((v - lo) / width)
		if idx < 0 {
			idx = 0
		}
		if idx >= bins {
			idx = bins - 1
		}
		h.Counts[idx]++
	}

	sd := stat.StdDev(values, nil)
	if n < 2 || sd == 0 || math.IsNaN(sd) {
		return h
	}
	bandwidth := sd * math.Pow(float64(n), -1.0/5.0)
	kernels := make([]distuv.Normal, n)
	for i, v := range values {
		kernels[i] = distuv.Normal{Mu: v, Sigma: bandwidth}
	}

	scale := float64(n) * width
	step := (hi - lo) / float64(kdePoints-1)
	h.DensityX = make([]float64, kdePoints)
	h.DensityY = make([]float64, kdePoints)
	for i := 0; i < kdePoints; i++ {
		x := lo + float64(i)*step
		density := 0.0
		for _, k := range kernels {
			density += k.Prob(x)
		}
		h.DensityX[i] = x
		h.DensityY[i] = density / float64(n) * scale
	}
	return h
}

// categoryCount is one bar of a count plot
type categoryCount struct {
	Label string
	Count int
}

// countValues counts present values of a column. Numeric columns are
// ordered ascending, text columns by first appearance.
func countValues(col *table.Column) []categoryCount {
	if col.IsNumeric() {
		counts := make(map[float64]int)
		for _, f := range col.Numbers() {
			counts[f]++
		}
		keys := make([]float64, 0, len(counts))
		for k := range counts {
			keys = append(keys, k)
		}
		sort.Float64s(keys)
		out := make([]categoryCount, len(keys))
		for i, k := range keys {
			out[i] = categoryCount{Label: strconv.FormatFloat(k, 'g', -1, 64), Count: counts[k]}
		}
		return out
	}

	index := make(map[string]int)
	var out []categoryCount
	for _, v := range col.Values {
		if v.IsMissing() {
			continue
		}
		label := v.String()
		if i, ok := index[label]; ok {
			out[i].Count++
			continue
		}
		index[label] = len(out)
		out = append(out, categoryCount{Label: label, Count: 1})
	}
	return out
}

// scatterPoints pairs rows where both columns hold numbers
func scatterPoints(x, y *table.Column) (xs, ys []float64) {
	for i := range x.Values {
		xv, okX := x.Values[i].Float()
		yv, okY := y.Values[i].Float()
		if okX && okY {
			xs = append(xs, xv)
			ys = append(ys, yv)
		}
	}
	return xs, ys
}

// finitePoints keeps the pairs where both coordinates are finite
func finitePoints(xs, ys []float64) (fx, fy []float64) {
	for i := range xs {
		if math.IsInf(xs[i], 0) || math.IsInf(ys[i], 0) || math.IsNaN(xs[i]) || math.IsNaN(ys[i]) {
			continue
		}
		fx = append(fx, xs[i])
		fy = append(fy, ys[i])
	}
	return fx, fy
}

// correlationMatrix is a symmetric Pearson matrix over numeric columns
type correlationMatrix struct {
	Columns []string
	Values  [][]float64
}

// correlate computes pairwise Pearson coefficients using, for each pair,
// only the rows where both columns are present. Pairs with fewer than two
// shared rows or zero variance are NaN.
func correlate(columns []*table.Column) correlationMatrix {
	m := correlationMatrix{
		Columns: make([]string, len(columns)),
		Values:  make([][]float64, len(columns)),
	}
	for i, ci := range columns {
		m.Columns[i] = ci.Name
		m.Values[i] = make([]float64, len(columns))
	}
	for i, ci := range columns {
		for j := i; j < len(columns); j++ {
			xs, ys := scatterPoints(ci, columns[j])
			r := math.NaN()
			if len(xs) >= 2 {
				r = stat.Correlation(xs, ys, nil)
			}
			m.Values[i][j] = r
			m.Values[j][i] = r
		}
	}
	return m
}
