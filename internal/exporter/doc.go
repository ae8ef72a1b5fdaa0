// Package exporter writes tabular data to CSV and XLSX files.
//
// CSVWriter writes through files.Manager, so every export replaces its
// target atomically. It implements dataprocessing.RecordWriter and is used
// to persist synthetic orders.
//
// Example usage:
//
//	writer := exporter.NewCSVWriter(files.NewManager(dataDir, logger), logger)
//	header, rows := dataprocessing.OrderRecords(orders)
//	err := writer.WriteRecords(ctx, "generated_orders.csv", header, rows)
package exporter
