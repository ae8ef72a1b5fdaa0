package exporter

import (
	"context"
	"fmt"
	"io"
	"log/slog"

	"github.com/xuri/excelize/v2"

	"github.com/justas-b/ecommerce-dashboard/internal/files"
)

// DefaultSheet names the sheet orders are written to
const DefaultSheet = "Orders"

// XLSXWriter writes records as a single-sheet workbook
type XLSXWriter struct {
	manager *files.Manager
	sheet   string
	logger  *slog.Logger
}

// NewXLSXWriter creates a workbook writer. Relative paths are resolved by
// manager.
func NewXLSXWriter(manager *files.Manager, logger *slog.Logger) *XLSXWriter {
	if logger == nil {
		logger = slog.Default()
	}
	if manager == nil {
		manager = files.NewManager("", logger)
	}
	return &XLSXWriter{
		manager: manager,
		sheet:   DefaultSheet,
		logger:  logger.With(slog.String("component", "xlsx_writer")),
	}
}

// WriteRecords replaces path with a workbook holding header and rows. Cells
// are written as strings so the file reads back exactly like the CSV.
func (w *XLSXWriter) WriteRecords(ctx context.Context, path string, header []string, rows [][]string) error {
	w.logger.InfoContext(ctx, "Writing XLSX file",
		slog.String("file_path", path),
		slog.Int("record_count", len(rows)))

	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName("Sheet1", w.sheet); err != nil {
		return fmt.Errorf("failed to name sheet: %w", err)
	}
	sw, err := f.NewStreamWriter(w.sheet)
	if err != nil {
		return fmt.Errorf("failed to open stream writer: %w", err)
	}

	if err := sw.SetRow("A1", toCells(header)); err != nil {
		return fmt.Errorf("failed to write headers: %w", err)
	}
	for i, row := range rows {
		if i%1000 == 0 {
			if err := ctx.Err(); err != nil {
				return err
			}
		}
		cell, err := excelize.CoordinatesToCellName(1, i+2)
		if err != nil {
			return err
		}
		if err := sw.SetRow(cell, toCells(row)); err != nil {
			return fmt.Errorf("failed to write record %d: %w", i, err)
		}
	}
	if err := sw.Flush(); err != nil {
		return fmt.Errorf("failed to flush sheet: %w", err)
	}

	return w.manager.WriteFileAtomic(path, func(out io.Writer) error {
		_, err := f.WriteTo(out)
		return err
	})
}

func toCells(values []string) []interface{} {
	cells := make([]interface{}, len(values))
	for i, v := range values {
		cells[i] = v
	}
	return cells
}
