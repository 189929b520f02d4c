// Package ingest reads order snapshots from disk into the raw table the
// pipeline consumes. It auto-selects the reader from the file extension,
// mirroring the original report's Excel-engine auto-detection, and leaves
// all typing and validation to the pipeline.
package ingest

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/xuri/excelize/v2"

	"github.com/andresuchdata/vendor-otif/backend-go/internal/otif"
)

// ReadTable reads a snapshot file into a raw table. .csv goes through the
// CSV reader, .xlsx/.xlsm/.xltx/.xltm through excelize; for unknown
// extensions both readers are attempted before giving up with a combined
// error. Legacy .xls workbooks are not supported and must be re-saved.
func ReadTable(path string) (otif.Table, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".csv":
		return readCSV(path)
	case ".xlsx", ".xlsm", ".xltx", ".xltm":
		return readXLSX(path)
	case ".xls":
		return otif.Table{}, fmt.Errorf("legacy .xls workbook %s is not supported, re-save it as .xlsx", path)
	default:
		table, xlsxErr := readXLSX(path)
		if xlsxErr == nil {
			return table, nil
		}
		table, csvErr := readCSV(path)
		if csvErr == nil {
			return table, nil
		}
		return otif.Table{}, fmt.Errorf("could not parse %s as xlsx (%v) or csv (%v)", path, xlsxErr, csvErr)
	}
}

func readCSV(path string) (otif.Table, error) {
	f, err := os.Open(path)
	if err != nil {
		return otif.Table{}, fmt.Errorf("open %s: %w", path, err)
	}
	defer f.Close()
	return ReadCSV(f)
}

// ReadCSV reads a CSV stream into a raw table. The first record is the
// header row; ragged rows are tolerated and handled downstream.
func ReadCSV(r io.Reader) (otif.Table, error) {
	reader := csv.NewReader(r)
	reader.TrimLeadingSpace = true
	reader.FieldsPerRecord = -1

	header, err := reader.Read()
	if err != nil {
		return otif.Table{}, fmt.Errorf("read csv header: %w", err)
	}

	var rows [][]string
	for {
		record, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return otif.Table{}, fmt.Errorf("read csv row: %w", err)
		}
		rows = append(rows, record)
	}

	return otif.Table{Headers: header, Rows: rows}, nil
}

// readXLSX reads the first sheet of a workbook into a raw table.
func readXLSX(path string) (otif.Table, error) {
	f, err := excelize.OpenFile(path)
	if err != nil {
		return otif.Table{}, fmt.Errorf("open xlsx file %s: %w", path, err)
	}
	defer f.Close()

	sheets := f.GetSheetList()
	if len(sheets) == 0 {
		return otif.Table{}, fmt.Errorf("xlsx file %s has no sheets", path)
	}

	rows, err := f.Rows(sheets[0])
	if err != nil {
		return otif.Table{}, fmt.Errorf("read rows from sheet %s: %w", sheets[0], err)
	}
	defer rows.Close()

	var table otif.Table
	for rows.Next() {
		record, err := rows.Columns()
		if err != nil {
			return otif.Table{}, fmt.Errorf("read row from %s: %w", path, err)
		}
		if table.Headers == nil {
			table.Headers = record
			continue
		}
		table.Rows = append(table.Rows, record)
	}
	if err := rows.Error(); err != nil {
		return otif.Table{}, fmt.Errorf("iterate rows in %s: %w", path, err)
	}
	if table.Headers == nil {
		return otif.Table{}, fmt.Errorf("xlsx file %s has no header row", path)
	}

	return table, nil
}
