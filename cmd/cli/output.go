package main

import (
	"io"

	"datalens/internal/analysis"

	"github.com/olekukonko/tablewriter"
)

// printStatistics writes the describe() matrix as a bordered table
func printStatistics(w io.Writer, report analysis.StatisticsReport) {
	header, rows := report.Matrix()
	if len(header) == 1 {
		io.WriteString(w, "No numeric columns.\n")
		return
	}

	tbl := tablewriter.NewWriter(w)
	tbl.SetHeader(header)
	tbl.SetBorder(true)
	tbl.SetAutoFormatHeaders(false)
	tbl.SetAlignment(tablewriter.ALIGN_RIGHT)
	tbl.AppendBulk(rows)
	tbl.Render()
}

func printMissing(w io.Writer, report analysis.MissingValueReport) {
	tbl := tablewriter.NewWriter(w)
	tbl.SetHeader([]string{"Column", "Missing Values"})
	tbl.SetBorder(true)
	tbl.SetAutoFormatHeaders(false)
	tbl.AppendBulk(report.Rows())
	tbl.Render()
}
