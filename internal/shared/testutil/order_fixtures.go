package testutil

import (
	"encoding/csv"
	"os"
	"path/filepath"
	"testing"

	"github.com/xuri/excelize/v2"
)

// OrderHeader is the column layout of a typical marketplace export
var OrderHeader = []string{"Sale Date", "Order ID", "Quantity", "Item Total", "Date Posted", "Ship Country", "Delivery"}

// OrderRows returns a small export matching OrderHeader
func OrderRows() [][]string {
	return [][]string{
		{"2023-01-02", "1001", "2", "10.50", "2023-01-04", "Germany", "0"},
		{"2023-01-02", "1002", "1", "20.00", "2023-01-03", "France", "4.00"},
		{"2023-01-05", "1003", "3", "5.25", "2023-01-05", "Germany", "1.05"},
		{"2023-01-09", "1004", "1", "100.00", "2023-01-16", "Spain", "0"},
	}
}

// WriteCSV writes a CSV file into dir and returns its path
func WriteCSV(t *testing.T, dir, name string, header []string, rows [][]string) string {
	t.Helper()

	path := filepath.Join(dir, name)
	f, err := os.Create(path)
	if err != nil {
		t.Fatalf("create csv fixture: %v", err)
	}
	defer f.Close()

	w := csv.NewWriter(f)
	if err := w.Write(header); err != nil {
		t.Fatalf("write csv header: %v", err)
	}
	if err := w.WriteAll(rows); err != nil {
		t.Fatalf("write csv rows: %v", err)
	}
	return path
}

// WriteXLSX writes a single-sheet workbook into dir and returns its path.
// Cell values are written as given, so callers can mix strings, numbers
// and time.Time values.
func WriteXLSX(t *testing.T, dir, name string, header []string, rows [][]interface{}) string {
	t.Helper()

	f := excelize.NewFile()
	defer f.Close()

	sheet := "Orders"
	if err := f.SetSheetName("Sheet1", sheet); err != nil {
		t.Fatalf("rename sheet: %v", err)
	}

	for col, h := range header {
		cell, _ := excelize.CoordinatesToCellName(col+1, 1)
		if err := f.SetCellValue(sheet, cell, h); err != nil {
			t.Fatalf("set header cell: %v", err)
		}
	}
	for r, row := range rows {
		for col, v := range row {
			cell, _ := excelize.CoordinatesToCellName(col+1, r+2)
			if err := f.SetCellValue(sheet, cell, v); err != nil {
				t.Fatalf("set cell %s: %v", cell, err)
			}
		}
	}

	path := filepath.Join(dir, name)
	if err := f.SaveAs(path); err != nil {
		t.Fatalf("save xlsx fixture: %v", err)
	}
	return path
}
