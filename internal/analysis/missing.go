package analysis

import (
	"datalens/domain/table"
)

// MissingCount is the number of missing entries in one column
type MissingCount struct {
	Column  string
	Missing int
}

// MissingValueReport lists every column in table order
type MissingValueReport struct {
	Columns []MissingCount
}

// Get looks up the missing count of one column
func (r MissingValueReport) Get(column string) (int, bool) {
	for _, c := range r.Columns {
		if c.Column == column {
			return c.Missing, true
		}
	}
	return 0, false
}

// Total sums missing entries over all columns
func (r MissingValueReport) Total() int {
	total := 0
	for _, c := range r.Columns {
		total += c.Missing
	}
	return total
}

// CountMissing counts missing entries per column, numeric or not
func CountMissing(t *table.Table) MissingValueReport {
	report := MissingValueReport{Columns: make([]MissingCount, 0, len(t.Columns()))}
	for _, col := range t.Columns() {
		report.Columns = append(report.Columns, MissingCount{Column: col.Name, Missing: col.MissingCount()})
	}
	return report
}
