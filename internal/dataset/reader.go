package dataset

import (
	"bytes"
	"context"
	"encoding/csv"
	"fmt"
	"os"

	"github.com/xuri/excelize/v2"
	"golang.org/x/sync/errgroup"

	apperrors "scorepanel/internal/errors"
	"scorepanel/internal/files"
	"scorepanel/pkg/contracts/domain"
)

// ReadWorkbook reads every sheet of an Excel workbook. Cells come back as
// their displayed text, so locale formatting is preserved for the parser.
func ReadWorkbook(ctx context.Context, path string) ([]*domain.Table, error) {
	f, err := excelize.OpenFile(path)
	if err != nil {
		return nil, apperrors.NewStorageError(fmt.Sprintf("failed to open workbook %s", path), err)
	}
	defer f.Close()

	var tables []*domain.Table
	for _, sheet := range f.GetSheetList() {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		rows, err := f.GetRows(sheet)
		if err != nil {
			return nil, apperrors.NewParsingError(fmt.Sprintf("failed to read sheet %q", sheet), err).
				WithContext("sheet", sheet)
		}
		tables = append(tables, buildTable(sheet, rows))
	}
	return tables, nil
}

// ReadCSV reads one delimited file as a table called name
func ReadCSV(path, name string) (*domain.Table, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, apperrors.NewStorageError(fmt.Sprintf("failed to read %s", path), err)
	}
	data = bytes.TrimPrefix(data, []byte("\ufeff"))

	r := csv.NewReader(bytes.NewReader(data))
	r.Comma = DetectDelimiter(data)
	r.FieldsPerRecord = -1
	r.LazyQuotes = true

	rows, err := r.ReadAll()
	if err != nil {
		return nil, apperrors.NewParsingError(fmt.Sprintf("failed to parse %s", path), err).
			WithContext("sheet", name)
	}
	return buildTable(name, rows), nil
}

// ReadCSVDir reads every CSV file of a directory concurrently, one table per
// file in name order
func ReadCSVDir(ctx context.Context, list []files.FileInfo) ([]*domain.Table, error) {
	tables := make([]*domain.Table, len(list))

	g, ctx := errgroup.WithContext(ctx)
	for i, f := range list {
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			t, err := ReadCSV(f.Path, f.Stem())
			if err != nil {
				return err
			}
			tables[i] = t
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return tables, nil
}

// DetectDelimiter picks ';' or ',' by counting both in the header line.
// Ties go to ','.
func DetectDelimiter(data []byte) rune {
	header := data
	if i := bytes.IndexByte(data, '\n'); i >= 0 {
		header = data[:i]
	}
	if bytes.Count(header, []byte(";")) > bytes.Count(header, []byte(",")) {
		return ';'
	}
	return ','
}
