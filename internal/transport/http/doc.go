// Package http implements the HTTP handlers of the dashboard. Handlers are
// thin: they parse and validate the request, call the dashboard service and
// format the response.
//
// # Routes
//
//	GET /                                     dashboard page
//	GET /api/dashboard/overview               overview panel
//	GET /api/dashboard/winners                winners panel
//	GET /api/dashboard/charts/{chart}         figure JSON
//	GET /api/dashboard/charts/{chart}/image   figure PNG
//	GET /ws                                   callback channel
//	GET /api/health, /api/health/ready, /api/health/live, /api/version
//	GET /metrics                              Prometheus exposition
//
// # Error Handling
//
// Errors are written as RFC 7807 problems by the shared ErrorHandler. An
// invalid chart parameter answers 400 with a detail naming the allowed
// values:
//
//	{
//	    "type": "/errors/invalid-argument",
//	    "title": "Invalid Argument",
//	    "status": 400,
//	    "detail": "invalid order \"middle\": must be one of head, tail",
//	    "instance": "/api/dashboard/charts/country"
//	}
//
// # Testing
//
// Handlers are tested with httptest against a mocked
// DashboardServiceInterface.
package http
