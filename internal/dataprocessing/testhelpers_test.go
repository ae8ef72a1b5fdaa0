package dataprocessing

import (
	"context"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/justas-b/ecommerce-dashboard/internal/config"
)

func day(month time.Month, d int) time.Time {
	return time.Date(2023, month, d, 0, 0, 0, 0, time.UTC)
}

// fixtureOrders mirrors testutil.OrderRows
func fixtureOrders() []Order {
	return []Order{
		{SaleDate: day(1, 2), PostDate: day(1, 4), Quantity: 2, Price: 10.50, Country: "Germany"},
		{SaleDate: day(1, 2), PostDate: day(1, 3), Quantity: 1, Price: 20.00, DeliveryCost: 4, DeliveryPaid: true, Country: "France"},
		{SaleDate: day(1, 5), PostDate: day(1, 5), Quantity: 3, Price: 5.25, DeliveryCost: 1.05, DeliveryPaid: true, Country: "Germany"},
		{SaleDate: day(1, 9), PostDate: day(1, 16), Quantity: 1, Price: 100.00, Country: "Spain"},
	}
}

func fixtureExtractor() *Extractor {
	return NewExtractor(NewDataset(fixtureOrders(), "fixture", false))
}

// exportMapping maps testutil.OrderHeader onto the canonical columns
const exportMapping = `{
	"FILENAME": %s,
	"QUANTITY": "Quantity",
	"PRICE": "Item Total",
	"SALE_DATE": "Sale Date",
	"POSTED_DATE": "Date Posted",
	"COUNTRY": "Ship Country",
	"DELIVERY_COST": "Delivery"
}`

func datasetConfig(t *testing.T, filename string) *config.DatasetConfig {
	t.Helper()
	name := "null"
	if filename != "" {
		name = `"` + filename + `"`
	}
	cfg, err := config.ParseDatasetConfig([]byte(fmt.Sprintf(exportMapping, name)))
	require.NoError(t, err)
	return cfg
}

// recordingWriter captures persisted records
type recordingWriter struct {
	mu     sync.Mutex
	path   string
	header []string
	rows   [][]string
	err    error
}

func (w *recordingWriter) WriteRecords(_ context.Context, path string, header []string, rows [][]string) error {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.path, w.header, w.rows = path, header, rows
	return w.err
}
