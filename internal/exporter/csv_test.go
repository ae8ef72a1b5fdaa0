package exporter

import (
	"context"
	"encoding/csv"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/justas-b/ecommerce-dashboard/internal/dataprocessing"
	"github.com/justas-b/ecommerce-dashboard/internal/files"
)

func setupWriter(t *testing.T) (*CSVWriter, string) {
	t.Helper()
	dir := t.TempDir()
	return NewCSVWriter(files.NewManager(dir, nil), nil), dir
}

func readCSV(t *testing.T, path string) [][]string {
	t.Helper()
	f, err := os.Open(path)
	require.NoError(t, err)
	defer f.Close()

	records, err := csv.NewReader(f).ReadAll()
	require.NoError(t, err)
	return records
}

func TestWriteCSV(t *testing.T) {
	tests := []struct {
		name    string
		options WriteOptions
		want    [][]string
	}{
		{
			name: "header and records",
			options: WriteOptions{
				Headers: []string{"country", "orders"},
				Records: [][]string{{"France", "1"}, {"Germany", "2"}},
			},
			want: [][]string{{"country", "orders"}, {"France", "1"}, {"Germany", "2"}},
		},
		{
			name: "records without header",
			options: WriteOptions{
				Records: [][]string{{"Spain", "1"}},
			},
			want: [][]string{{"Spain", "1"}},
		},
		{
			name: "quoted values",
			options: WriteOptions{
				Headers: []string{"country"},
				Records: [][]string{{"Korea, Republic of"}},
			},
			want: [][]string{{"country"}, {"Korea, Republic of"}},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w, dir := setupWriter(t)
			require.NoError(t, w.WriteCSV(context.Background(), "out.csv", tt.options))
			assert.Equal(t, tt.want, readCSV(t, filepath.Join(dir, "out.csv")))
		})
	}
}

func TestWriteCSVWithBOM(t *testing.T) {
	w, dir := setupWriter(t)

	err := w.WriteCSV(context.Background(), "bom.csv", WriteOptions{
		Headers:   []string{"a"},
		Records:   [][]string{{"1"}},
		BOMPrefix: true,
	})
	require.NoError(t, err)

	content, err := os.ReadFile(filepath.Join(dir, "bom.csv"))
	require.NoError(t, err)
	assert.Equal(t, utf8BOM, content[:3])
	assert.Equal(t, "a\n1\n", string(content[3:]))
}

func TestWriteCSVReplacesExisting(t *testing.T) {
	w, dir := setupWriter(t)
	ctx := context.Background()

	require.NoError(t, w.WriteRecords(ctx, "out.csv", []string{"a"}, [][]string{{"1"}, {"2"}, {"3"}}))
	require.NoError(t, w.WriteRecords(ctx, "out.csv", []string{"a"}, [][]string{{"9"}}))

	assert.Equal(t, [][]string{{"a"}, {"9"}}, readCSV(t, filepath.Join(dir, "out.csv")))
}

func TestWriteCSVCancelled(t *testing.T) {
	w, dir := setupWriter(t)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	err := w.WriteRecords(ctx, "out.csv", []string{"a"}, [][]string{{"1"}})
	assert.ErrorIs(t, err, context.Canceled)
	assert.NoFileExists(t, filepath.Join(dir, "out.csv"))
}

func TestWriteOrderRecordsRoundTrip(t *testing.T) {
	w, dir := setupWriter(t)
	day := func(d int) time.Time { return time.Date(2023, 3, d, 0, 0, 0, 0, time.UTC) }

	orders := []dataprocessing.Order{
		{SaleDate: day(1), PostDate: day(3), Quantity: 2, Price: 12.5, DeliveryCost: 2.5, DeliveryPaid: true, Country: "France"},
		{SaleDate: day(2), PostDate: day(2), Quantity: 1, Price: 7, Country: "Spain"},
	}
	header, rows := dataprocessing.OrderRecords(orders)
	require.NoError(t, w.WriteRecords(context.Background(), "orders.csv", header, rows))

	records := readCSV(t, filepath.Join(dir, "orders.csv"))
	require.Len(t, records, 3)
	assert.Equal(t, strings.Join(dataprocessing.CanonicalColumns, ","), strings.Join(records[0], ","))
	assert.Equal(t, []string{"2023-03-01", "2", "12.50", "2023-03-03", "France", "2.50"}, records[1])
	assert.Equal(t, []string{"2023-03-02", "1", "7.00", "2023-03-02", "Spain", "0.00"}, records[2])

	frame, err := dataprocessing.ReadCSV(filepath.Join(dir, "orders.csv"))
	require.NoError(t, err)
	assert.Equal(t, 2, frame.Nrow())
}
