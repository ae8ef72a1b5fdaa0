package dataprocessing

import (
	"bufio"
	"bytes"
	"encoding/csv"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/go-gota/gota/dataframe"
	"github.com/go-gota/gota/series"
	"github.com/xuri/excelize/v2"
)

var utf8BOM = []byte{0xEF, 0xBB, 0xBF}

// ReadFile reads a CSV or XLSX file, chosen by extension, into a frame of
// string columns.
func ReadFile(path string) (dataframe.DataFrame, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".csv":
		return ReadCSV(path)
	case ".xlsx":
		return ReadXLSX(path)
	default:
		return dataframe.DataFrame{}, fmt.Errorf("unsupported file type %q", filepath.Ext(path))
	}
}

// ReadCSV reads a comma separated file with a header row. A leading UTF-8
// byte order mark is skipped.
func ReadCSV(path string) (dataframe.DataFrame, error) {
	f, err := os.Open(path)
	if err != nil {
		return dataframe.DataFrame{}, fmt.Errorf("failed to open file: %w", err)
	}
	defer f.Close()

	br := bufio.NewReader(f)
	if head, err := br.Peek(len(utf8BOM)); err == nil && bytes.Equal(head, utf8BOM) {
		br.Discard(len(utf8BOM))
	}

	r := csv.NewReader(br)
	r.FieldsPerRecord = -1
	r.TrimLeadingSpace = true

	records, err := r.ReadAll()
	if err != nil {
		return dataframe.DataFrame{}, fmt.Errorf("failed to read csv: %w", err)
	}

	records, err = normalizeRecords(records, true)
	if err != nil {
		return dataframe.DataFrame{}, err
	}
	return recordsToFrame(records)
}

// ReadXLSX reads the first sheet of a workbook. Cells are read raw, so
// date cells arrive as Excel serial numbers.
func ReadXLSX(path string) (dataframe.DataFrame, error) {
	f, err := excelize.OpenFile(path)
	if err != nil {
		return dataframe.DataFrame{}, fmt.Errorf("failed to open workbook: %w", err)
	}
	defer f.Close()

	sheets := f.GetSheetList()
	if len(sheets) == 0 {
		return dataframe.DataFrame{}, fmt.Errorf("workbook has no sheets")
	}

	rows, err := f.GetRows(sheets[0], excelize.Options{RawCellValue: true})
	if err != nil {
		return dataframe.DataFrame{}, fmt.Errorf("failed to read sheet %q: %w", sheets[0], err)
	}

	records, err := normalizeRecords(rows, false)
	if err != nil {
		return dataframe.DataFrame{}, err
	}
	return recordsToFrame(records)
}

// normalizeRecords trims the header, drops blank rows and pads short rows
// to the header width. Rows wider than the header are an error when strict
// and truncated otherwise.
func normalizeRecords(records [][]string, strict bool) ([][]string, error) {
	if len(records) == 0 {
		return nil, fmt.Errorf("input is empty")
	}

	header := make([]string, len(records[0]))
	for i, h := range records[0] {
		header[i] = strings.TrimSpace(h)
	}
	width := len(header)

	out := make([][]string, 0, len(records))
	out = append(out, header)
	for i, row := range records[1:] {
		if isBlank(row) {
			continue
		}
		switch {
		case len(row) > width && strict:
			return nil, fmt.Errorf("row %d has %d fields, header has %d", i+1, len(row), width)
		case len(row) > width:
			row = row[:width]
		case len(row) < width:
			padded := make([]string, width)
			copy(padded, row)
			row = padded
		}
		out = append(out, row)
	}

	if len(out) == 1 {
		return nil, fmt.Errorf("%w: input has a header but no data rows", ErrEmptyDataset)
	}
	return out, nil
}

func isBlank(row []string) bool {
	for _, cell := range row {
		if strings.TrimSpace(cell) != "" {
			return false
		}
	}
	return true
}

// recordsToFrame loads records into a frame without type detection, so
// every column stays a string column until the Transformer parses it. Only
// the literal "NaN" is missing; "NA" is a country code.
func recordsToFrame(records [][]string) (dataframe.DataFrame, error) {
	df := dataframe.LoadRecords(records,
		dataframe.HasHeader(true),
		dataframe.DetectTypes(false),
		dataframe.DefaultType(series.String),
		dataframe.NaNValues([]string{"NaN"}),
	)
	if df.Err != nil {
		return dataframe.DataFrame{}, fmt.Errorf("failed to build frame: %w", df.Err)
	}
	return df, nil
}
