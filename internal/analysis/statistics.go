package analysis

import (
	"math"
	"sort"

	"datalens/domain/table"

	"github.com/montanaflynn/stats"
)

// ColumnStatistics is the describe() row for one numeric column
type ColumnStatistics struct {
	Column string
	Count  int
	Mean   float64
	Std    float64
	Min    float64
	Q25    float64
	Median float64
	Q75    float64
	Max    float64
}

// StatisticsReport holds ColumnStatistics for numeric columns in table order
type StatisticsReport struct {
	Columns []ColumnStatistics
}

// Get looks up the statistics of one column
func (r StatisticsReport) Get(column string) (ColumnStatistics, bool) {
	for _, c := range r.Columns {
		if c.Column == column {
			return c, true
		}
	}
	return ColumnStatistics{}, false
}

// Describe computes count, mean, sample std, min, quartiles and max for every
// numeric column. Columns with no present values report NaN metrics.
func Describe(t *table.Table) StatisticsReport {
	report := StatisticsReport{}
	for _, col := range t.NumericColumns() {
		report.Columns = append(report.Columns, describeColumn(col.Name, col.Numbers()))
	}
	return report
}

func describeColumn(name string, data []float64) ColumnStatistics {
	nan := math.NaN()
	cs := ColumnStatistics{
		Column: name,
		Count:  len(data),
		Mean:   nan, Std: nan, Min: nan, Q25: nan, Median: nan, Q75: nan, Max: nan,
	}
	if len(data) == 0 {
		return cs
	}

	// stats only fails on empty input, which is handled above
	cs.Mean, _ = stats.Mean(data)
	cs.Min, _ = stats.Min(data)
	cs.Max, _ = stats.Max(data)
	if len(data) > 1 {
		cs.Std, _ = stats.StandardDeviationSample(data)
	}

	sorted := make([]float64, len(data))
	copy(sorted, data)
	sort.Float64s(sorted)
	cs.Q25 = Quantile(sorted, 0.25)
	cs.Median = Quantile(sorted, 0.50)
	cs.Q75 = Quantile(sorted, 0.75)
	return cs
}

// Quantile returns the p-quantile of an ascending slice, interpolating
// linearly between the order statistics at floor/ceil of (n-1)p
func Quantile(sorted []float64, p float64) float64 {
	n := len(sorted)
	if n == 0 {
		return math.NaN()
	}
	h := float64(n-1) * p
	lo := math.Floor(h)
	hi := math.Ceil(h)
	if lo == hi || sorted[int(lo)] == sorted[int(hi)] {
		return sorted[int(lo)]
	}
	return sorted[int(lo)] + (h-lo)*(sorted[int(hi)]-sorted[int(lo)])
}
