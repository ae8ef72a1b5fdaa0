// Package shared holds helpers used across packages that belong to no
// single layer. The testutil subpackage provides a capturing slog handler
// and order fixtures (CSV and XLSX writers) for tests.
package shared
