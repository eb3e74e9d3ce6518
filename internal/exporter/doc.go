// Package exporter writes report output in formats other than JSON.
//
// CSVWriter renders a table view as delimited text with a UTF-8 BOM so that
// spreadsheet software picks the right encoding. Cells are written as their
// display text ("85,12%", "202,71"), the way they appear on screen.
//
// ChartRenderer draws a chart view with gonum/plot as PNG or SVG:
// participation in orange, outcomes in black, regional series dashed.
//
//	w := exporter.NewCSVWriter(';')
//	err := w.WriteTable(os.Stdout, report.Table)
//
//	r := exporter.NewChartRenderer(view)
//	err = r.Render(f, report.Chart, exporter.FormatPNG)
package exporter
