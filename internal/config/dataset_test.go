package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const validDataset = `{
  "FILENAME": "orders_2023",
  "QUANTITY": "Quantity",
  "PRICE": "Item Total",
  "SALE_DATE": "Sale Date",
  "POSTED_DATE": "Date Posted",
  "COUNTRY": "Ship Country",
  "DELIVERY_COST": "Delivery"
}`

func TestParseDatasetConfig(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		wantErr string
		check   func(*testing.T, *DatasetConfig)
	}{
		{
			name:  "named file",
			input: validDataset,
			check: func(t *testing.T, cfg *DatasetConfig) {
				require.True(t, cfg.HasFile())
				assert.Equal(t, "orders_2023", *cfg.Filename)
				assert.Equal(t, []string{"Sale Date", "Quantity", "Item Total", "Date Posted", "Ship Country", "Delivery"}, cfg.Columns())
			},
		},
		{
			name:  "null filename",
			input: `{"FILENAME": null, "QUANTITY": "", "PRICE": "", "SALE_DATE": "", "POSTED_DATE": "", "COUNTRY": "", "DELIVERY_COST": ""}`,
			check: func(t *testing.T, cfg *DatasetConfig) {
				assert.False(t, cfg.HasFile())
			},
		},
		{
			name:    "unknown key",
			input:   `{"FILENAME": null, "QUANTITY": "q", "PRICE": "p", "SALE_DATE": "s", "POSTED_DATE": "d", "COUNTRY": "c", "DELIVERY_COST": "x", "PAID_DATE": "y"}`,
			wantErr: "unknown field",
		},
		{
			name:    "missing filename",
			input:   `{"QUANTITY": "q", "PRICE": "p", "SALE_DATE": "s", "POSTED_DATE": "d", "COUNTRY": "c", "DELIVERY_COST": "x"}`,
			wantErr: `missing required key "FILENAME"`,
		},
		{
			name:    "missing column",
			input:   `{"FILENAME": "f", "QUANTITY": "q", "PRICE": "p", "SALE_DATE": "s", "POSTED_DATE": "d", "COUNTRY": "c"}`,
			wantErr: `missing required key "DELIVERY_COST"`,
		},
		{
			name:    "null column",
			input:   `{"FILENAME": "f", "QUANTITY": null, "PRICE": "p", "SALE_DATE": "s", "POSTED_DATE": "d", "COUNTRY": "c", "DELIVERY_COST": "x"}`,
			wantErr: `key "QUANTITY" must be a string`,
		},
		{
			name:    "numeric filename",
			input:   `{"FILENAME": 12, "QUANTITY": "q", "PRICE": "p", "SALE_DATE": "s", "POSTED_DATE": "d", "COUNTRY": "c", "DELIVERY_COST": "x"}`,
			wantErr: "must be a string or null",
		},
		{
			name:    "blank filename",
			input:   `{"FILENAME": "  ", "QUANTITY": "q", "PRICE": "p", "SALE_DATE": "s", "POSTED_DATE": "d", "COUNTRY": "c", "DELIVERY_COST": "x"}`,
			wantErr: "must not be empty",
		},
		{
			name:    "not an object",
			input:   `["FILENAME"]`,
			wantErr: "invalid dataset config",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg, err := ParseDatasetConfig([]byte(tt.input))
			if tt.wantErr != "" {
				require.Error(t, err)
				assert.Contains(t, err.Error(), tt.wantErr)
				return
			}
			require.NoError(t, err)
			tt.check(t, cfg)
		})
	}
}

func TestDatasetConfig_ValidateColumns(t *testing.T) {
	cfg, err := ParseDatasetConfig([]byte(validDataset))
	require.NoError(t, err)
	assert.NoError(t, cfg.ValidateColumns())

	cfg.Country = ""
	assert.ErrorContains(t, cfg.ValidateColumns(), `"COUNTRY" is empty`)

	cfg.Country = "Quantity"
	assert.ErrorContains(t, cfg.ValidateColumns(), "mapped by both QUANTITY and COUNTRY")
}

func TestLoadDatasetConfig(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.json")
	require.NoError(t, os.WriteFile(path, []byte(validDataset), 0644))

	cfg, err := LoadDatasetConfig(path)
	require.NoError(t, err)
	assert.Equal(t, "Item Total", cfg.Price)

	_, err = LoadDatasetConfig(filepath.Join(dir, "missing.json"))
	assert.ErrorContains(t, err, "failed to read dataset config")
}
