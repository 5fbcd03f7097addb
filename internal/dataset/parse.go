package dataset

import (
	"bytes"
	"encoding/csv"
	"fmt"
	"io"
	"math"
	"path/filepath"
	"strconv"
	"strings"

	"datalens/domain/table"
	"datalens/internal/errors"

	"github.com/xuri/excelize/v2"
)

// naTokens are the cell texts read as missing, in addition to the empty cell
var naTokens = map[string]struct{}{
	"#N/A": {}, "#N/A N/A": {}, "#NA": {}, "-1.#IND": {}, "-1.#QNAN": {},
	"-NaN": {}, "-nan": {}, "1.#IND": {}, "1.#QNAN": {}, "<NA>": {},
	"N/A": {}, "NA": {}, "NULL": {}, "NaN": {}, "None": {},
	"n/a": {}, "nan": {}, "null": {},
}

// IsMissingToken reports whether a trimmed cell is a missing marker
func IsMissingToken(cell string) bool {
	if cell == "" {
		return true
	}
	_, ok := naTokens[cell]
	return ok
}

// Parse decodes a tabular document. Names ending in .xlsx are read as
// Excel workbooks (first sheet); everything else as comma-separated text.
func Parse(name string, r io.Reader) (*table.Table, error) {
	var (
		rows [][]string
		err  error
	)
	if strings.EqualFold(filepath.Ext(name), ".xlsx") {
		rows, err = readExcelRows(r)
	} else {
		rows, err = readCSVRows(r)
	}
	if err != nil {
		return nil, errors.ParseError(name, err)
	}

	tbl, err := buildTable(rows)
	if err != nil {
		return nil, errors.ParseError(name, err)
	}
	return tbl, nil
}

func readCSVRows(r io.Reader) ([][]string, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("failed to read CSV: %w", err)
	}
	data = bytes.TrimPrefix(data, []byte("\xef\xbb\xbf"))

	reader := csv.NewReader(bytes.NewReader(data))
	reader.FieldsPerRecord = -1
	rows, err := reader.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("failed to read CSV: %w", err)
	}
	return rows, nil
}

func readExcelRows(r io.Reader) ([][]string, error) {
	f, err := excelize.OpenReader(r)
	if err != nil {
		return nil, fmt.Errorf("failed to open Excel workbook: %w", err)
	}
	defer f.Close()

	sheets := f.GetSheetList()
	if len(sheets) == 0 {
		return nil, fmt.Errorf("workbook has no sheets")
	}
	rows, err := f.GetRows(sheets[0])
	if err != nil {
		return nil, fmt.Errorf("failed to read sheet %s: %w", sheets[0], err)
	}
	return rows, nil
}

// buildTable turns raw string rows (header first) into a typed table
func buildTable(rows [][]string) (*table.Table, error) {
	if len(rows) == 0 {
		return nil, fmt.Errorf("no header row")
	}

	headers := headerNames(rows[0])
	body := rows[1:]

	cells := make([][]string, len(headers))
	for c := range cells {
		cells[c] = make([]string, len(body))
	}
	for i, row := range body {
		if len(row) > len(headers) {
			return nil, fmt.Errorf("row %d has %d fields, header has %d", i+2, len(row), len(headers))
		}
		for c := range headers {
			if c < len(row) {
				cells[c][i] = row[c]
			}
		}
	}

	columns := make([]*table.Column, len(headers))
	for c, name := range headers {
		columns[c] = typedColumn(name, cells[c])
	}
	return table.New(columns...)
}

// headerNames trims headers, names blanks "Unnamed: i" and suffixes
// duplicates with .1, .2, ...
func headerNames(raw []string) []string {
	names := make([]string, len(raw))
	used := make(map[string]bool, len(raw))
	suffix := make(map[string]int, len(raw))
	for i, h := range raw {
		base := strings.TrimSpace(h)
		if base == "" {
			base = fmt.Sprintf("Unnamed: %d", i)
		}
		name := base
		for used[name] {
			suffix[base]++
			name = fmt.Sprintf("%s.%d", base, suffix[base])
		}
		used[name] = true
		names[i] = name
	}
	return names
}

// typedColumn stores every present cell as a Number when all of them parse
// as floats, otherwise every present cell is kept as Text. Missing and
// numeric checks look at the trimmed cell; Text keeps the raw cell. A cell
// that parses to NaN under any spelling is Missing.
func typedColumn(name string, cells []string) *table.Column {
	missing := make([]bool, len(cells))
	numbers := make([]float64, len(cells))
	numeric := true
	for i, cell := range cells {
		trimmed := strings.TrimSpace(cell)
		if IsMissingToken(trimmed) {
			missing[i] = true
			continue
		}
		f, err := strconv.ParseFloat(trimmed, 64)
		switch {
		case err != nil:
			numeric = false
		case math.IsNaN(f):
			missing[i] = true
		default:
			numbers[i] = f
		}
	}

	values := make([]table.Value, len(cells))
	for i, cell := range cells {
		switch {
		case missing[i]:
			values[i] = table.Missing()
		case numeric:
			values[i] = table.Number(numbers[i])
		default:
			values[i] = table.Text(cell)
		}
	}
	return table.NewColumn(name, values...)
}
