package analysis

import (
	"math"
	"strings"
	"testing"

	"datalens/domain/table"
	"datalens/internal/dataset"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func numbers(vals ...float64) []table.Value {
	out := make([]table.Value, len(vals))
	for i, v := range vals {
		if math.IsNaN(v) {
			out[i] = table.Missing()
			continue
		}
		out[i] = table.Number(v)
	}
	return out
}

func TestDescribeMatchesKnownValues(t *testing.T) {
	nan := math.NaN()
	tbl := table.MustNew(
		table.NewColumn("Name", table.Text("a"), table.Text("b"), table.Text("c"), table.Text("d"), table.Missing()),
		table.NewColumn("Speed", numbers(45, 60, nan, 80, 100)...),
	)

	report := Describe(tbl)
	require.Len(t, report.Columns, 1)

	_, ok := report.Get("Name")
	assert.False(t, ok, "non-numeric columns are excluded")

	s, ok := report.Get("Speed")
	require.True(t, ok)
	assert.Equal(t, 4, s.Count)
	assert.InDelta(t, 71.25, s.Mean, 1e-9)
	assert.InDelta(t, 23.935678, s.Std, 1e-6)
	assert.Equal(t, 45.0, s.Min)
	assert.InDelta(t, 56.25, s.Q25, 1e-9)
	assert.InDelta(t, 70.0, s.Median, 1e-9)
	assert.InDelta(t, 85.0, s.Q75, 1e-9)
	assert.Equal(t, 100.0, s.Max)
}

func TestDescribeEmptyAndSingleton(t *testing.T) {
	nan := math.NaN()
	tbl := table.MustNew(
		table.NewColumn("empty", numbers(nan, nan)...),
		table.NewColumn("one", numbers(7, nan)...),
	)

	report := Describe(tbl)

	empty, ok := report.Get("empty")
	require.True(t, ok)
	assert.Equal(t, 0, empty.Count)
	assert.True(t, math.IsNaN(empty.Mean))
	assert.True(t, math.IsNaN(empty.Max))

	one, _ := report.Get("one")
	assert.Equal(t, 1, one.Count)
	assert.Equal(t, 7.0, one.Mean)
	assert.True(t, math.IsNaN(one.Std))
	assert.Equal(t, 7.0, one.Q25)
}

func TestDescribeQuartilesAreOrdered(t *testing.T) {
	columns := [][]float64{
		{3, -1, 4, 1, 5, 9, 2, 6},
		{0.5},
		{10, 10, 10},
		{-3, 1e6, 2.25, 7},
	}
	for _, data := range columns {
		s := describeColumn("c", data)
		assert.LessOrEqual(t, s.Min, s.Q25)
		assert.LessOrEqual(t, s.Q25, s.Median)
		assert.LessOrEqual(t, s.Median, s.Q75)
		assert.LessOrEqual(t, s.Q75, s.Max)
	}
}

func TestDescribeParsedNonFiniteCells(t *testing.T) {
	tbl, err := dataset.Parse("x.csv", strings.NewReader("A,B\n1,1\nNAN,inf\n3,inf\n5,inf\n+nan,2\n"))
	require.NoError(t, err)

	missing := CountMissing(tbl)
	assert.Equal(t, []MissingCount{{"A", 2}, {"B", 0}}, missing.Columns)

	report := Describe(tbl)
	a, ok := report.Get("A")
	require.True(t, ok)
	assert.Equal(t, 3, a.Count)
	assert.Equal(t, 3.0, a.Mean)
	assert.Equal(t, 3.0, a.Median)

	for _, s := range report.Columns {
		assert.LessOrEqual(t, s.Min, s.Q25, s.Column)
		assert.LessOrEqual(t, s.Q25, s.Median, s.Column)
		assert.LessOrEqual(t, s.Median, s.Q75, s.Column)
		assert.LessOrEqual(t, s.Q75, s.Max, s.Column)
	}
}

func TestQuantileInterpolation(t *testing.T) {
	sorted := []float64{1, 2, 3, 4}
	assert.Equal(t, 1.75, Quantile(sorted, 0.25))
	assert.Equal(t, 2.5, Quantile(sorted, 0.5))
	assert.Equal(t, 3.25, Quantile(sorted, 0.75))
	assert.Equal(t, 4.0, Quantile(sorted, 1))
	assert.True(t, math.IsNaN(Quantile(nil, 0.5)))
	assert.True(t, math.IsInf(Quantile([]float64{1, math.Inf(1), math.Inf(1), math.Inf(1)}, 0.75), 1))
}

func TestCountMissingCoversEveryColumn(t *testing.T) {
	nan := math.NaN()
	tbl := table.MustNew(
		table.NewColumn("Name", table.Text("a"), table.Missing(), table.Text("c")),
		table.NewColumn("Speed", numbers(nan, nan, 3)...),
		table.NewColumn("HP", numbers(1, 2, 3)...),
	)

	report := CountMissing(tbl)
	require.Len(t, report.Columns, 3)
	assert.Equal(t, []MissingCount{{"Name", 1}, {"Speed", 2}, {"HP", 0}}, report.Columns)
	assert.Equal(t, 3, report.Total())

	for _, c := range report.Columns {
		assert.GreaterOrEqual(t, c.Missing, 0)
		assert.LessOrEqual(t, c.Missing, tbl.RowCount())
	}
}

func TestStatisticsMatrixLayout(t *testing.T) {
	tbl := table.MustNew(table.NewColumn("Speed", numbers(1, 2, 3, 4)...))

	header, rows := Describe(tbl).Matrix()
	assert.Equal(t, []string{"", "Speed"}, header)
	require.Len(t, rows, len(StatisticNames))
	assert.Equal(t, []string{"count", "4.000000"}, rows[0])
	assert.Equal(t, []string{"25%", "1.750000"}, rows[4])
}
