package dataprocessing

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"math"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/go-gota/gota/dataframe"

	"github.com/justas-b/ecommerce-dashboard/internal/config"
	apperrors "github.com/justas-b/ecommerce-dashboard/internal/errors"
	"github.com/justas-b/ecommerce-dashboard/internal/files"
)

// RecordWriter persists tabular records, used to save synthetic data
type RecordWriter interface {
	WriteRecords(ctx context.Context, path string, header []string, rows [][]string) error
}

// LatestFileFinder locates the most recently modified data file in dir
type LatestFileFinder interface {
	LatestDataFile(dir string, exclude ...string) (string, error)
}

// Transformer loads the configured input and turns it into a Dataset
type Transformer struct {
	dsCfg     *config.DatasetConfig
	dataDir   string
	generator *Generator

	discover      bool
	finder        LatestFileFinder
	writer        RecordWriter
	generatedName string
	rows          int
	start, end    string
	logger        *slog.Logger
}

// TransformerOption customises a Transformer
type TransformerOption func(*Transformer)

// WithLogger sets the logger
func WithLogger(logger *slog.Logger) TransformerOption {
	return func(t *Transformer) {
		if logger != nil {
			t.logger = logger
		}
	}
}

// WithDiscovery loads the newest data file when no filename is configured
func WithDiscovery(finder LatestFileFinder) TransformerOption {
	return func(t *Transformer) {
		t.discover = true
		if finder != nil {
			t.finder = finder
		}
	}
}

// WithRecordWriter persists generated orders through w
func WithRecordWriter(w RecordWriter) TransformerOption {
	return func(t *Transformer) { t.writer = w }
}

// WithGeneration overrides the synthetic row count and date window
func WithGeneration(rows int, start, end string) TransformerOption {
	return func(t *Transformer) {
		t.rows, t.start, t.end = rows, start, end
	}
}

// WithGeneratedFileName sets the file name generated orders are saved as
func WithGeneratedFileName(name string) TransformerOption {
	return func(t *Transformer) { t.generatedName = name }
}

// NewTransformer creates a Transformer reading from dataDir
func NewTransformer(dsCfg *config.DatasetConfig, dataDir string, generator *Generator, opts ...TransformerOption) *Transformer {
	t := &Transformer{
		dsCfg:         dsCfg,
		dataDir:       dataDir,
		generator:     generator,
		finder:        files.NewDiscovery(dataDir),
		generatedName: config.GeneratedFileName,
		rows:          config.DefaultGeneratedRows,
		start:         config.DefaultGenerateStart,
		end:           config.DefaultGenerateEnd,
		logger:        slog.Default(),
	}
	for _, opt := range opts {
		opt(t)
	}
	t.logger = t.logger.With(slog.String("component", "transformer"))
	return t
}

// Transform resolves the source and runs the post-load steps. A failure is
// returned in LoadResult.Err and no dataset is produced.
func (t *Transformer) Transform(ctx context.Context) LoadResult {
	if t.dsCfg == nil {
		return LoadResult{Err: apperrors.NewConfigError("dataset config is required", nil)}
	}

	if t.dsCfg.HasFile() {
		path, frame, err := t.readConfigured(*t.dsCfg.Filename)
		if err != nil {
			return LoadResult{Source: *t.dsCfg.Filename, Err: err}
		}
		return t.fromFrame(ctx, frame, path)
	}

	if t.discover {
		path, err := t.finder.LatestDataFile(t.dataDir, t.generatedName)
		switch {
		case err == nil:
			t.logger.InfoContext(ctx, "Discovered latest data file", slog.String("path", path))
			frame, err := ReadFile(path)
			if err != nil {
				return LoadResult{Source: path, Err: apperrors.NewParsingError("input file unreadable: "+path, err)}
			}
			return t.fromFrame(ctx, frame, path)
		case errors.Is(err, files.ErrNoDataFiles), errors.Is(err, os.ErrNotExist):
			t.logger.InfoContext(ctx, "No data file found, generating synthetic orders",
				slog.String("data_dir", t.dataDir))
		default:
			return LoadResult{Source: t.dataDir, Err: apperrors.NewStorageError("data file discovery failed", err)}
		}
	}

	return t.generate(ctx)
}

// readConfigured tries <name>.csv then <name>.xlsx. A name that already
// carries one of those extensions is tried as given.
func (t *Transformer) readConfigured(name string) (string, dataframe.DataFrame, error) {
	candidates := []string{name + ".csv", name + ".xlsx"}
	switch strings.ToLower(filepath.Ext(name)) {
	case ".csv", ".xlsx":
		candidates = []string{name}
	}

	var causes []error
	for _, candidate := range candidates {
		path := candidate
		if !filepath.IsAbs(path) {
			path = filepath.Join(t.dataDir, candidate)
		}
		frame, err := ReadFile(path)
		if err == nil {
			return path, frame, nil
		}
		t.logger.Debug("Input candidate rejected", slog.String("path", path), slog.String("error", err.Error()))
		causes = append(causes, fmt.Errorf("%s: %w", path, err))
	}

	return "", dataframe.DataFrame{}, apperrors.NewParsingError(
		"input file unreadable",
		errors.Join(causes...),
	).WithContext("filename", name)
}

// generate draws synthetic orders, persists them and loads them through the
// same date parsing path as a file. Restrict and rename are skipped.
func (t *Transformer) generate(ctx context.Context) LoadResult {
	if t.generator == nil {
		return LoadResult{Source: SourceGenerated, Synthetic: true,
			Err: apperrors.NewConfigError("no input file configured and no generator available", nil)}
	}

	orders, err := t.generator.Generate(t.start, t.end, t.rows)
	if err != nil {
		return LoadResult{Source: SourceGenerated, Synthetic: true,
			Err: apperrors.NewConfigError("failed to generate synthetic orders", err)}
	}

	header, rows := OrderRecords(orders)
	source := SourceGenerated
	if t.writer != nil {
		path := filepath.Join(t.dataDir, t.generatedName)
		if err := t.writer.WriteRecords(ctx, path, header, rows); err != nil {
			return LoadResult{Source: path, Synthetic: true,
				Err: apperrors.NewStorageError("failed to persist synthetic orders", err)}
		}
		source = path
	}

	t.logger.InfoContext(ctx, "Generated synthetic orders",
		slog.Int("rows", len(orders)),
		slog.String("start", t.start),
		slog.String("end", t.end),
		slog.String("source", source))

	if len(rows) == 0 {
		ds := NewDataset(nil, source, true)
		return LoadResult{Dataset: ds, Source: source, Synthetic: true}
	}

	frame, err := recordsToFrame(append([][]string{header}, rows...))
	if err != nil {
		return LoadResult{Source: source, Synthetic: true, Err: apperrors.NewParsingError("synthetic orders unreadable", err)}
	}
	return t.finish(ctx, frame, source, true)
}

// fromFrame restricts and renames a loaded file before the shared steps
func (t *Transformer) fromFrame(ctx context.Context, frame dataframe.DataFrame, source string) LoadResult {
	if err := t.dsCfg.ValidateColumns(); err != nil {
		return LoadResult{Source: source, Err: apperrors.NewConfigError("invalid column mapping", err)}
	}

	frame, err := restrictAndRename(frame, t.dsCfg.Columns())
	if err != nil {
		return LoadResult{Source: source, Err: err}
	}
	return t.finish(ctx, frame, source, false)
}

// restrictAndRename keeps only the configured columns and gives them their
// canonical names
func restrictAndRename(frame dataframe.DataFrame, columns []string) (dataframe.DataFrame, error) {
	present := make(map[string]bool, frame.Ncol())
	for _, name := range frame.Names() {
		present[name] = true
	}
	for _, col := range columns {
		if !present[col] {
			return dataframe.DataFrame{}, apperrors.NewConfigError(
				fmt.Sprintf("configured column %q not found in input", col), nil,
			).WithContext("column", col)
		}
	}

	restricted := frame.Select(columns)
	if restricted.Err != nil {
		return dataframe.DataFrame{}, apperrors.NewParsingError("failed to restrict columns", restricted.Err)
	}
	if err := restricted.SetNames(CanonicalColumns...); err != nil {
		return dataframe.DataFrame{}, apperrors.NewParsingError("failed to rename columns", err)
	}
	return restricted, nil
}

// finish parses the date columns, materialises typed orders and derives
// dispatch latency through NewDataset
func (t *Transformer) finish(ctx context.Context, frame dataframe.DataFrame, source string, synthetic bool) LoadResult {
	start := time.Now()

	dates := make(map[string][]time.Time)
	for _, name := range frame.Names() {
		if !isDateColumn(name) {
			continue
		}
		parsed, err := parseDateColumn(name, frame.Col(name).Records())
		if err != nil {
			return LoadResult{Source: source, Synthetic: synthetic, Err: err}
		}
		dates[name] = parsed
	}

	orders, err := materialise(frame, dates)
	if err != nil {
		return LoadResult{Source: source, Synthetic: synthetic, Err: err}
	}

	ds := NewDataset(orders, source, synthetic)
	t.logger.InfoContext(ctx, "Dataset loaded",
		slog.String("source", source),
		slog.Bool("synthetic", synthetic),
		slog.Int("orders", ds.Len()),
		slog.Duration("duration", time.Since(start)))

	return LoadResult{Dataset: ds, Source: source, Synthetic: synthetic}
}

func parseDateColumn(name string, values []string) ([]time.Time, error) {
	out := make([]time.Time, len(values))
	for i, raw := range values {
		t, err := ParseDate(raw)
		if err != nil {
			return nil, apperrors.NewParsingError(
				fmt.Sprintf("row %d, column %q: invalid date", i+1, name), err,
			).WithContext("row", i+1).WithContext("column", name)
		}
		out[i] = t
	}
	return out, nil
}

// materialise converts the canonical string columns into orders
func materialise(frame dataframe.DataFrame, dates map[string][]time.Time) ([]Order, error) {
	saleDates, ok := dates[ColSaleDate]
	if !ok {
		return nil, apperrors.NewParsingError("missing column "+ColSaleDate, nil)
	}
	postDates, ok := dates[ColPostDate]
	if !ok {
		return nil, apperrors.NewParsingError("missing column "+ColPostDate, nil)
	}

	quantities := frame.Col(ColQuantity).Records()
	prices := frame.Col(ColPrice).Records()
	countries := frame.Col(ColCountry).Records()
	deliveries := frame.Col(ColDeliveryCost).Records()

	orders := make([]Order, frame.Nrow())
	for i := range orders {
		quantity, err := parseQuantity(quantities[i])
		if err != nil {
			return nil, cellError(i, ColQuantity, err)
		}
		price, err := parseAmount(prices[i])
		if err != nil {
			return nil, cellError(i, ColPrice, err)
		}
		cost, paid := parseDelivery(deliveries[i])

		orders[i] = Order{
			SaleDate:     saleDates[i],
			PostDate:     postDates[i],
			Quantity:     quantity,
			Price:        price,
			DeliveryCost: cost,
			DeliveryPaid: paid,
			Country:      strings.TrimSpace(countries[i]),
		}
	}
	return orders, nil
}

func cellError(row int, column string, err error) error {
	return apperrors.NewParsingError(
		fmt.Sprintf("row %d, column %q: invalid value", row+1, column), err,
	).WithContext("row", row+1).WithContext("column", column)
}

// parseQuantity accepts integers and integral floats such as "2.0"
func parseQuantity(raw string) (int, error) {
	s := strings.TrimSpace(raw)
	if n, err := strconv.Atoi(s); err == nil {
		return n, nil
	}
	f, err := strconv.ParseFloat(s, 64)
	if err != nil || math.IsInf(f, 0) || f != math.Trunc(f) {
		return 0, fmt.Errorf("not a whole number: %q", raw)
	}
	return int(f), nil
}

// parseAmount parses a money amount, ignoring a leading currency symbol
// and thousands separators
func parseAmount(raw string) (float64, error) {
	s := strings.TrimSpace(raw)
	s = strings.TrimLeft(s, "£$€")
	s = strings.ReplaceAll(s, ",", "")
	f, err := strconv.ParseFloat(s, 64)
	if err != nil || math.IsNaN(f) || math.IsInf(f, 0) {
		return 0, fmt.Errorf("not a number: %q", raw)
	}
	return f, nil
}

// parseDelivery treats the delivery column as a boolean-like signal:
// numeric non-zero is paid, zero or missing (empty or NaN in any case) is
// free and any other text is paid with no known cost.
func parseDelivery(raw string) (float64, bool) {
	s := strings.TrimSpace(raw)
	if s == "" || strings.EqualFold(s, "nan") {
		return 0, false
	}
	if f, err := parseAmount(s); err == nil {
		return f, f != 0
	}
	return 0, true
}
