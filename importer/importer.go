// Package importer turns uploaded roster files into raw string rows.
//
// It understands .xlsx/.xlsm (first sheet), legacy .xls (every sheet, as
// the xls reader only exposes whole-workbook reads) and .csv files. It
// does not decide which cells are names; that is left to roster.Reconcile.
package importer

import (
	"bytes"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"log"
	"path/filepath"
	"strings"

	"github.com/extrame/xls"
	"github.com/xuri/excelize/v2"
	"golang.org/x/text/encoding/unicode"
	"golang.org/x/text/transform"

	"conduct-server-go/models"
)

// ErrUnsupportedFormat is returned for file extensions other than xlsx, xlsm, xls and csv
var ErrUnsupportedFormat = errors.New("unsupported file format")

// maxXLSRows bounds how many rows are read from a legacy .xls workbook
const maxXLSRows = 100000

// ReadRows reads every row of an uploaded roster file.
// The format is chosen from the extension of filename. An empty file
// yields no rows and no error.
func ReadRows(file io.Reader, filename string) ([][]string, error) {
	data, err := io.ReadAll(file)
	if err != nil {
		return nil, fmt.Errorf("failed to read %s: %w", filename, err)
	}
	if len(bytes.TrimSpace(data)) == 0 {
		return nil, nil
	}

	switch ext := strings.ToLower(filepath.Ext(filename)); ext {
	case ".xlsx", ".xlsm":
		return readXLSX(data)
	case ".xls":
		return readXLS(data)
	case ".csv":
		return readCSV(data)
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnsupportedFormat, ext)
	}
}

// Cells flattens rows into a sequence of non-empty cell values, row by row
func Cells(rows [][]string) []string {
	var cells []string
	for _, row := range rows {
		for _, cell := range row {
			if strings.TrimSpace(cell) == "" {
				continue
			}
			cells = append(cells, cell)
		}
	}
	return cells
}

// Pairs reads rows as (class, student name) in the first two columns.
// Short rows yield blank fields, which the reconciler skips.
func Pairs(rows [][]string) []models.ClassStudent {
	pairs := make([]models.ClassStudent, 0, len(rows))
	for _, row := range rows {
		var p models.ClassStudent
		if len(row) > 0 {
			p.Class = row[0]
		}
		if len(row) > 1 {
			p.Name = row[1]
		}
		pairs = append(pairs, p)
	}
	return pairs
}

func readXLSX(data []byte) ([][]string, error) {
	f, err := excelize.OpenReader(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("failed to open excel file: %w", err)
	}
	defer func() {
		if err := f.Close(); err != nil {
			log.Printf("Error closing excel file: %v", err)
		}
	}()

	sheetName := f.GetSheetName(0)
	if sheetName == "" {
		return nil, errors.New("excel file does not contain any sheets")
	}

	rows, err := f.GetRows(sheetName)
	if err != nil {
		return nil, fmt.Errorf("failed to get rows from sheet %s: %w", sheetName, err)
	}
	return rows, nil
}

func readXLS(data []byte) ([][]string, error) {
	workbook, err := xls.OpenReader(bytes.NewReader(data), "utf-8")
	if err != nil {
		return nil, fmt.Errorf("failed to open xls file: %w", err)
	}
	if workbook.NumSheets() == 0 {
		return nil, errors.New("xls file does not contain any sheets")
	}
	return workbook.ReadAllCells(maxXLSRows), nil
}

// readCSV strips a leading UTF-8 BOM (spreadsheet tools add one) and
// tolerates rows of different lengths.
func readCSV(data []byte) ([][]string, error) {
	decoder := unicode.BOMOverride(unicode.UTF8.NewDecoder())
	reader := csv.NewReader(transform.NewReader(bytes.NewReader(data), decoder))
	reader.FieldsPerRecord = -1
	reader.LazyQuotes = true

	rows, err := reader.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("failed to parse csv: %w", err)
	}
	return rows, nil
}
