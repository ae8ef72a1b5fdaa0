package config

// Application constants
const (
	AppName = "ecommerce-dashboard"

	// EnvPrefix namespaces every environment variable, e.g. DASH_SERVER_PORT
	EnvPrefix = "DASH"

	// DateLayout is the calendar date format used by configuration and output
	DateLayout = "2006-01-02"

	// File paths (relative to the base directory)
	DefaultDataDir       = "data"
	DefaultLogsDir       = "logs"
	DefaultDatasetConfig = "config.json"

	// Synthetic dataset defaults
	DefaultGeneratedRows = 1000
	DefaultGenerateStart = "2023-01-01"
	DefaultGenerateEnd   = "2023-12-31"

	// GeneratedFileName is the default name synthetic data is saved as in
	// the data directory
	GeneratedFileName = "generated_orders.csv"
)
