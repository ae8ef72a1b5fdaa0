package http

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// MetricsHandler exposes a Prometheus registry
type MetricsHandler struct {
	handler http.Handler
}

// NewMetricsHandler serves handler when set, otherwise the registry. A nil
// registry falls back to the default gatherer.
func NewMetricsHandler(handler http.Handler, registry *prometheus.Registry) *MetricsHandler {
	if handler == nil {
		if registry != nil {
			handler = promhttp.HandlerFor(registry, promhttp.HandlerOpts{Registry: registry})
		} else {
			handler = promhttp.Handler()
		}
	}
	return &MetricsHandler{handler: handler}
}

// ServeHTTP handles GET /metrics
func (h *MetricsHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	h.handler.ServeHTTP(w, r)
}
