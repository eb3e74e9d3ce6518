package exporter

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"scorepanel/pkg/contracts/domain"
)

var utf8BOM = []byte{0xEF, 0xBB, 0xBF}

// CSVWriter writes table views as CSV
type CSVWriter struct {
	delimiter rune
	bom       bool
}

// NewCSVWriter creates a writer using the given field delimiter. Output
// starts with a UTF-8 BOM.
func NewCSVWriter(delimiter rune) *CSVWriter {
	if delimiter == 0 {
		delimiter = ';'
	}
	return &CSVWriter{delimiter: delimiter, bom: true}
}

// WithoutBOM returns a copy of the writer that omits the byte order mark
func (w *CSVWriter) WithoutBOM() *CSVWriter {
	c := *w
	c.bom = false
	return &c
}

// WriteTable writes the header and one line per row, using each cell's
// display text
func (w *CSVWriter) WriteTable(out io.Writer, table *domain.TableView) error {
	if table == nil {
		return fmt.Errorf("no table to export")
	}

	if w.bom {
		if _, err := out.Write(utf8BOM); err != nil {
			return fmt.Errorf("failed to write BOM: %w", err)
		}
	}

	writer := csv.NewWriter(out)
	writer.Comma = w.delimiter

	if err := writer.Write(table.Columns); err != nil {
		return fmt.Errorf("failed to write headers: %w", err)
	}

	record := make([]string, len(table.Columns))
	for i, row := range table.Rows {
		for j := range record {
			record[j] = ""
			if j < len(row.Cells) {
				record[j] = row.Cells[j].Display
			}
		}
		if err := writer.Write(record); err != nil {
			return fmt.Errorf("failed to write record %d: %w", i, err)
		}
	}

	writer.Flush()
	return writer.Error()
}

// WriteFile writes the table to a file, creating parent directories
func (w *CSVWriter) WriteFile(path string, table *domain.TableView) error {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("failed to create directory: %w", err)
	}

	file, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create file: %w", err)
	}

	if err := w.WriteTable(file, table); err != nil {
		file.Close()
		return err
	}
	return file.Close()
}
