// Package api contains the request contracts of the dashboard API.
package api

// Chart names accepted by the chart endpoints and the callback channel
const (
	ChartTimeline = "timeline"
	ChartCountry  = "country"
	ChartDelivery = "delivery"
	ChartDispatch = "dispatch"
)

// ChartNames lists every chart in display order
var ChartNames = []string{ChartTimeline, ChartCountry, ChartDelivery, ChartDispatch}

// ChartRequest carries the UI controls of a chart. Fields a chart does not
// use are ignored; empty fields take their defaults.
type ChartRequest struct {
	Chart       string `json:"chart" validate:"required,oneof=timeline country delivery dispatch"`
	Analytic    string `json:"analytic,omitempty" validate:"omitempty,oneof=orders revenue mean_revenue"`
	Granularity int    `json:"granularity,omitempty" validate:"omitempty,oneof=1 2 3"`
	Order       string `json:"order,omitempty" validate:"omitempty,oneof=head tail"`
}

// Chart request defaults
const (
	DefaultAnalytic    = "orders"
	DefaultGranularity = 1
	DefaultOrder       = "head"
)

// WithDefaults fills empty controls
func (r ChartRequest) WithDefaults() ChartRequest {
	if r.Analytic == "" {
		r.Analytic = DefaultAnalytic
	}
	if r.Granularity == 0 {
		r.Granularity = DefaultGranularity
	}
	if r.Order == "" {
		r.Order = DefaultOrder
	}
	return r
}
