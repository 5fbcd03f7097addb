package analysis

import (
	"fmt"
	"math"
	"strconv"
	"strings"
)

// StatisticNames are the describe() row labels, in display order
var StatisticNames = []string{"count", "mean", "std", "min", "25%", "50%", "75%", "max"}

// Matrix lays the report out the way describe() prints it: one row per
// statistic, one column per numeric column. The first cell of each row is
// the statistic name.
func (r StatisticsReport) Matrix() (header []string, rows [][]string) {
	header = append([]string{""}, r.columnNames()...)
	for i, name := range StatisticNames {
		row := []string{name}
		for _, c := range r.Columns {
			row = append(row, FormatNumber(c.values()[i]))
		}
		rows = append(rows, row)
	}
	return header, rows
}

func (r StatisticsReport) columnNames() []string {
	names := make([]string, len(r.Columns))
	for i, c := range r.Columns {
		names[i] = c.Column
	}
	return names
}

func (c ColumnStatistics) values() []float64 {
	return []float64{float64(c.Count), c.Mean, c.Std, c.Min, c.Q25, c.Median, c.Q75, c.Max}
}

// Rows returns column name / missing count pairs as strings
func (r MissingValueReport) Rows() [][]string {
	rows := make([][]string, len(r.Columns))
	for i, c := range r.Columns {
		rows[i] = []string{c.Column, strconv.Itoa(c.Missing)}
	}
	return rows
}

// String renders the statistics as a plain text block for logs
func (r StatisticsReport) String() string {
	header, rows := r.Matrix()
	var b strings.Builder
	b.WriteString(strings.Join(header, "\t"))
	for _, row := range rows {
		b.WriteString("\n")
		b.WriteString(strings.Join(row, "\t"))
	}
	return b.String()
}

// String renders the missing counts as a plain text block for logs
func (r MissingValueReport) String() string {
	var b strings.Builder
	for i, c := range r.Columns {
		if i > 0 {
			b.WriteString("\n")
		}
		fmt.Fprintf(&b, "%s\t%d", c.Column, c.Missing)
	}
	return b.String()
}

// FormatNumber prints six decimals, NaN as "NaN"
func FormatNumber(v float64) string {
	if math.IsNaN(v) {
		return "NaN"
	}
	return strconv.FormatFloat(v, 'f', 6, 64)
}
