// Package files provides file system operations and discovery utilities
// for the dashboard's data directory.
//
// Discovery finds CSV and XLSX inputs and picks the most recently modified
// one. Manager writes files atomically relative to a base directory.
//
// Example usage:
//
//	discovery := files.NewDiscovery("/srv/dashboard")
//	path, err := discovery.LatestDataFile("data", "generated_orders.csv")
//	if errors.Is(err, files.ErrNoDataFiles) {
//	    // fall back to synthetic data
//	}
package files
