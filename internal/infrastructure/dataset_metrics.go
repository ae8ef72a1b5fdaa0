package infrastructure

import (
	"fmt"
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// DatasetMetrics exposes the shape of the loaded dataset as gauges
type DatasetMetrics struct {
	Rows      prometheus.Gauge
	Synthetic prometheus.Gauge
	LoadedAt  prometheus.Gauge
}

// NewDatasetMetrics creates the dataset gauges and registers them with reg.
// A nil registerer leaves the gauges unregistered.
func NewDatasetMetrics(reg prometheus.Registerer) (*DatasetMetrics, error) {
	m := &DatasetMetrics{
		Rows: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: "dashboard",
			Subsystem: "dataset",
			Name:      "rows",
			Help:      "Number of orders in the loaded dataset.",
		}),
		Synthetic: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: "dashboard",
			Subsystem: "dataset",
			Name:      "synthetic",
			Help:      "1 when the dataset was generated rather than read from a file.",
		}),
		LoadedAt: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: "dashboard",
			Subsystem: "dataset",
			Name:      "loaded_timestamp_seconds",
			Help:      "Unix time at which the dataset was loaded.",
		}),
	}

	if reg == nil {
		return m, nil
	}
	for _, c := range []prometheus.Collector{m.Rows, m.Synthetic, m.LoadedAt} {
		if err := reg.Register(c); err != nil {
			return nil, fmt.Errorf("failed to register dataset metric: %w", err)
		}
	}
	return m, nil
}

// Observe records a completed load
func (m *DatasetMetrics) Observe(rows int, synthetic bool) {
	if m == nil {
		return
	}
	m.Rows.Set(float64(rows))
	if synthetic {
		m.Synthetic.Set(1)
	} else {
		m.Synthetic.Set(0)
	}
	m.LoadedAt.Set(float64(time.Now().Unix()))
}
