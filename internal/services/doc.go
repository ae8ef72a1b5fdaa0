// Package services holds the dashboard logic between the transport layer
// and the extractor.
//
// DashboardService turns extractor queries into the Overview and Winners
// panels and into chart figures. Each figure method validates its controls
// and returns an invalid argument error naming the allowed values, so the
// HTTP and WebSocket surfaces report the same message.
//
// HealthService backs the health, readiness, liveness and version
// endpoints.
package services
