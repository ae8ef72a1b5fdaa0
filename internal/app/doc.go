// Package app wires the dashboard together and manages its lifecycle.
//
// # Initialization Flow
//
//  1. Load configuration from defaults, YAML and DASH_* variables
//  2. Initialize logging and OpenTelemetry
//  3. Load the dataset once (file, discovered file or synthetic orders)
//  4. Build the dashboard, health and callback services
//  5. Set up the chi router and HTTP server
//
// A dataset load failure is returned from New and nothing is served.
//
// # Graceful Shutdown
//
// Serve runs the HTTP server and the callback hub under one errgroup. When
// the context is cancelled or either fails, the server is shut down, the
// hub closes every client and the telemetry providers are flushed.
package app
