// Package config loads the dashboard configuration.
//
// Two documents are involved. The application config (server, logging,
// paths, data sourcing, websocket, telemetry) is built from defaults, an
// optional YAML file and DASH_* environment variables, in increasing order
// of precedence:
//
//	DASH_SERVER_PORT=8050
//	DASH_LOGGING_LEVEL=debug
//	DASH_PATHS_DATA_DIR=/srv/orders
//	DASH_DATA_DISCOVER_LATEST=true
//
// The dataset config (config.json) maps the columns of an input export
// onto the canonical order fields:
//
//	{
//	  "FILENAME": "orders_2023",
//	  "QUANTITY": "Quantity",
//	  "PRICE": "Item Total",
//	  "SALE_DATE": "Sale Date",
//	  "POSTED_DATE": "Date Posted",
//	  "COUNTRY": "Ship Country",
//	  "DELIVERY_COST": "Delivery"
//	}
//
// Unknown and missing keys are rejected at load time. A null FILENAME
// selects the newest export in the data directory when discovery is
// enabled, and synthetic data otherwise.
//
// Relative paths are resolved against Paths.BaseDir, which defaults to the
// directory of the running executable.
package config
