package cleaning

import (
	"fmt"
	"math"
	"strconv"
	"strings"

	"datalens/domain/table"
	"datalens/internal/errors"

	"github.com/montanaflynn/stats"
)

// FillMethod selects how missing entries are imputed
type FillMethod string

const (
	FillWithValue  FillMethod = "value"
	FillWithMean   FillMethod = "mean"
	FillWithMedian FillMethod = "median"
)

// Valid reports whether m is one of the recognized methods
func (m FillMethod) Valid() bool {
	switch m {
	case FillWithValue, FillWithMean, FillWithMedian:
		return true
	}
	return false
}

// Parameters are the per-request cleaning settings
type Parameters struct {
	FillMethod FillMethod
	// FillValue is used verbatim as text when FillMethod is "value"
	FillValue string
	// DropThreshold is the percentage (0-100) of rows a column must have
	// present to survive
	DropThreshold float64
}

// ParseParameters converts raw form fields. The fill method is not checked
// here: an unknown method degrades to no imputation inside Clean. A drop
// threshold that is not a number in [0, 100] is an INVALID_PARAMETER error.
func ParseParameters(method, value, threshold string) (Parameters, error) {
	pct, err := strconv.ParseFloat(strings.TrimSpace(threshold), 64)
	if err != nil || math.IsNaN(pct) {
		return Parameters{}, errors.InvalidParameter(fmt.Sprintf("drop_threshold %q is not a number", threshold))
	}
	if pct < 0 || pct > 100 {
		return Parameters{}, errors.InvalidParameter(fmt.Sprintf("drop_threshold %v must be between 0 and 100", pct))
	}
	return Parameters{
		FillMethod:    FillMethod(method),
		FillValue:     value,
		DropThreshold: pct,
	}, nil
}

// MinRequired is the number of present entries a column needs to be kept:
// floor(threshold% * rows)
func MinRequired(dropThreshold float64, rows int) int {
	threshold := dropThreshold / 100.0
	return int(math.Floor(threshold * float64(rows)))
}

// Clean imputes missing entries and then drops sparse columns, returning a
// new table. Imputation runs first, so a column it fills completely always
// survives the drop step.
//
// An unrecognized fill method skips imputation; the drop step still runs and
// the cleaned table is returned together with an INVALID_PARAMETER error.
func Clean(t *table.Table, p Parameters) (*table.Table, error) {
	out := t.Clone()

	var methodErr error
	switch p.FillMethod {
	case FillWithValue:
		fillText(out, p.FillValue)
	case FillWithMean:
		fillNumeric(out, stats.Mean)
	case FillWithMedian:
		fillNumeric(out, stats.Median)
	default:
		methodErr = errors.InvalidParameter(fmt.Sprintf("unrecognized fill_method %q", p.FillMethod))
	}

	minRequired := MinRequired(p.DropThreshold, out.RowCount())
	cleaned := out.Select(func(c *table.Column) bool {
		return c.PresentCount() >= minRequired
	})
	return cleaned, methodErr
}

// fillText replaces every missing entry, in every column, with the same text
func fillText(t *table.Table, value string) {
	fill := table.Text(value)
	for _, col := range t.Columns() {
		for i, v := range col.Values {
			if v.IsMissing() {
				col.Values[i] = fill
			}
		}
	}
}

// fillNumeric replaces missing entries of numeric columns with agg over the
// column's present numbers. Non-numeric and all-missing columns are left alone.
func fillNumeric(t *table.Table, agg func(stats.Float64Data) (float64, error)) {
	for _, col := range t.Columns() {
		if !col.IsNumeric() {
			continue
		}
		data := col.Numbers()
		if len(data) == 0 || len(data) == len(col.Values) {
			continue
		}
		fill, err := agg(data)
		if err != nil || math.IsNaN(fill) {
			continue
		}
		for i, v := range col.Values {
			if v.IsMissing() {
				col.Values[i] = table.Number(fill)
			}
		}
	}
}
