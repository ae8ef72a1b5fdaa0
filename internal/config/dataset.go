package config

import (
	"bytes"
	"encoding/json"
	"fmt"
	"os"
	"strings"
)

// DatasetConfig maps the columns of an input export onto the canonical
// order fields. A nil Filename means no file is configured.
type DatasetConfig struct {
	Filename     *string
	Quantity     string
	Price        string
	SaleDate     string
	PostedDate   string
	Country      string
	DeliveryCost string
}

// datasetFile mirrors config.json. Raw messages let the loader tell a
// missing key apart from an explicit null.
type datasetFile struct {
	Filename     json.RawMessage `json:"FILENAME"`
	Quantity     json.RawMessage `json:"QUANTITY"`
	Price        json.RawMessage `json:"PRICE"`
	SaleDate     json.RawMessage `json:"SALE_DATE"`
	PostedDate   json.RawMessage `json:"POSTED_DATE"`
	Country      json.RawMessage `json:"COUNTRY"`
	DeliveryCost json.RawMessage `json:"DELIVERY_COST"`
}

// LoadDatasetConfig reads and validates the dataset config file
func LoadDatasetConfig(path string) (*DatasetConfig, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read dataset config %s: %w", path, err)
	}

	cfg, err := ParseDatasetConfig(data)
	if err != nil {
		return nil, fmt.Errorf("dataset config %s: %w", path, err)
	}
	return cfg, nil
}

// ParseDatasetConfig decodes a dataset config document. Unknown keys and
// missing keys are rejected.
func ParseDatasetConfig(data []byte) (*DatasetConfig, error) {
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.DisallowUnknownFields()

	var raw datasetFile
	if err := dec.Decode(&raw); err != nil {
		return nil, fmt.Errorf("invalid dataset config: %w", err)
	}

	cfg := &DatasetConfig{}

	if len(raw.Filename) == 0 {
		return nil, fmt.Errorf("missing required key %q", "FILENAME")
	}
	if string(raw.Filename) != "null" {
		var name string
		if err := json.Unmarshal(raw.Filename, &name); err != nil {
			return nil, fmt.Errorf("key %q must be a string or null: %w", "FILENAME", err)
		}
		name = strings.TrimSpace(name)
		if name == "" {
			return nil, fmt.Errorf("key %q must not be empty; use null for synthetic data", "FILENAME")
		}
		cfg.Filename = &name
	}

	columns := []struct {
		key string
		raw json.RawMessage
		dst *string
	}{
		{"QUANTITY", raw.Quantity, &cfg.Quantity},
		{"PRICE", raw.Price, &cfg.Price},
		{"SALE_DATE", raw.SaleDate, &cfg.SaleDate},
		{"POSTED_DATE", raw.PostedDate, &cfg.PostedDate},
		{"COUNTRY", raw.Country, &cfg.Country},
		{"DELIVERY_COST", raw.DeliveryCost, &cfg.DeliveryCost},
	}
	for _, c := range columns {
		if len(c.raw) == 0 {
			return nil, fmt.Errorf("missing required key %q", c.key)
		}
		if err := json.Unmarshal(c.raw, c.dst); err != nil || string(c.raw) == "null" {
			return nil, fmt.Errorf("key %q must be a string", c.key)
		}
	}

	return cfg, nil
}

// HasFile reports whether an input file is configured
func (d *DatasetConfig) HasFile() bool {
	return d.Filename != nil
}

// Columns returns the configured source column names in canonical order:
// sale date, quantity, price, post date, country, delivery cost.
func (d *DatasetConfig) Columns() []string {
	return []string{d.SaleDate, d.Quantity, d.Price, d.PostedDate, d.Country, d.DeliveryCost}
}

// ValidateColumns fails on the first empty column name. It is only needed
// when the mapping will be applied to a real file.
func (d *DatasetConfig) ValidateColumns() error {
	names := []string{"SALE_DATE", "QUANTITY", "PRICE", "POSTED_DATE", "COUNTRY", "DELIVERY_COST"}
	seen := make(map[string]string, len(names))
	for i, col := range d.Columns() {
		if strings.TrimSpace(col) == "" {
			return fmt.Errorf("column mapping %q is empty", names[i])
		}
		if prev, dup := seen[col]; dup {
			return fmt.Errorf("column %q is mapped by both %s and %s", col, prev, names[i])
		}
		seen[col] = names[i]
	}
	return nil
}
