// Package domain contains the dashboard payloads shared by the HTTP and
// WebSocket surfaces.
package domain

// FigureKind is the shape a figure is drawn as
type FigureKind string

const (
	FigureBar       FigureKind = "bar"
	FigurePie       FigureKind = "pie"
	FigureHistogram FigureKind = "histogram"
)

// Point is one labelled value of a figure
type Point struct {
	Label string  `json:"label"`
	Value float64 `json:"value"`
}

// Figure is a chart-ready series with its presentation metadata
type Figure struct {
	Title  string     `json:"title"`
	Kind   FigureKind `json:"kind"`
	XLabel string     `json:"x_label,omitempty"`
	YLabel string     `json:"y_label,omitempty"`
	Points []Point    `json:"points"`
}

// Empty reports whether the figure has nothing to draw
func (f Figure) Empty() bool {
	return len(f.Points) == 0
}

// Total sums the point values
func (f Figure) Total() float64 {
	var total float64
	for _, p := range f.Points {
		total += p.Value
	}
	return total
}

// Overview is the headline panel of the dashboard
type Overview struct {
	DateRange       string  `json:"date_range"`
	Days            int     `json:"days"`
	Revenue         float64 `json:"revenue"`
	Orders          int     `json:"orders"`
	Items           int     `json:"items"`
	DailyRevenue    float64 `json:"daily_revenue"`
	RevenuePerOrder float64 `json:"revenue_per_order"`
	DailyOrders     float64 `json:"daily_orders"`
	Synthetic       bool    `json:"synthetic"`
	Source          string  `json:"source"`
}

// Winner is the best performer along one dimension
type Winner struct {
	Label string  `json:"label"`
	Value float64 `json:"value"`
}

// WinnerSet groups the winners for one measure
type WinnerSet struct {
	Date    Winner `json:"date"`
	Weekday Winner `json:"weekday"`
	Month   Winner `json:"month"`
	Country Winner `json:"country"`
}

// Winners holds the best performers by orders and by revenue
type Winners struct {
	Orders  WinnerSet `json:"orders"`
	Revenue WinnerSet `json:"revenue"`
}
