// Package dataprocessing turns sales-order exports into a queryable dataset.
// It covers the whole lifecycle from raw file to chart-ready aggregates.
//
// # Architecture
//
// The package is organized into four components:
//
//  1. Parser: reads CSV or XLSX files into a gota DataFrame of strings
//  2. Transformer: restricts and renames columns, parses dates and
//     materialises an immutable Dataset
//  3. Generator: produces synthetic orders when no input file is configured
//  4. Extractor: read-only queries over a Dataset (totals, country
//     rankings, delivery splits, time-series bins, best periods)
//
// # Usage
//
// Loading a dataset:
//
//	dsCfg, err := config.LoadDatasetConfig("config.json")
//	if err != nil {
//	    log.Fatal(err)
//	}
//	gen := dataprocessing.NewGenerator(dataprocessing.DefaultCountries(), nil)
//	result := dataprocessing.NewTransformer(dsCfg, "data", gen).Transform(ctx)
//	ds, err := result.Unwrap()
//
// Querying it:
//
//	ex := dataprocessing.NewExtractor(ds)
//	top, err := ex.CountryPlots(dataprocessing.AnalyticRevenue, "head")
//	series, err := ex.OrdersPerDay(ex.NumberOfWeeks())
//
// # Data Flow
//
//	CSV/XLSX -> DataFrame -> restrict -> rename -> parse dates -> Dataset -> Extractor
//
// A Dataset is only ever produced with every derived column in place, so a
// partially transformed dataset cannot reach the Extractor.
//
// # Error Handling
//
// Load failures are returned through LoadResult and are fatal to the caller.
// Date parse failures name the 1-based data row and the column. Invalid
// query parameters wrap errors.ErrInvalidArgument and list the allowed values.
package dataprocessing
