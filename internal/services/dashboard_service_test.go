package services

import (
	"context"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/justas-b/ecommerce-dashboard/internal/dataprocessing"
	apperrors "github.com/justas-b/ecommerce-dashboard/internal/errors"
	"github.com/justas-b/ecommerce-dashboard/internal/infrastructure"
	logtest "github.com/justas-b/ecommerce-dashboard/internal/shared/testutil"
	api "github.com/justas-b/ecommerce-dashboard/pkg/contracts/api/v1"
	"github.com/justas-b/ecommerce-dashboard/pkg/contracts/domain"
)

func day(d int) time.Time {
	return time.Date(2023, time.January, d, 0, 0, 0, 0, time.UTC)
}

// fixtureDataset mirrors testutil.OrderRows
func fixtureDataset() *dataprocessing.Dataset {
	return dataprocessing.NewDataset([]dataprocessing.Order{
		{SaleDate: day(2), PostDate: day(4), Quantity: 2, Price: 10.50, Country: "Germany"},
		{SaleDate: day(2), PostDate: day(3), Quantity: 1, Price: 20.00, DeliveryCost: 4, DeliveryPaid: true, Country: "France"},
		{SaleDate: day(5), PostDate: day(5), Quantity: 3, Price: 5.25, DeliveryCost: 1.05, DeliveryPaid: true, Country: "Germany"},
		{SaleDate: day(9), PostDate: day(16), Quantity: 1, Price: 100.00, Country: "Spain"},
	}, "fixture.csv", false)
}

func newService(t *testing.T) *DashboardService {
	logger, _ := logtest.NewTestLogger(t)
	return NewDashboardService(fixtureDataset(), nil, logger)
}

func values(fig domain.Figure) []float64 {
	out := make([]float64, len(fig.Points))
	for i, p := range fig.Points {
		out[i] = p.Value
	}
	return out
}

func labels(fig domain.Figure) []string {
	out := make([]string, len(fig.Points))
	for i, p := range fig.Points {
		out[i] = p.Label
	}
	return out
}

func TestOverview(t *testing.T) {
	overview, err := newService(t).Overview(context.Background())
	require.NoError(t, err)

	assert.Equal(t, domain.Overview{
		DateRange:       "2023-01-02 - 2023-01-09",
		Days:            7,
		Revenue:         135.75,
		Orders:          4,
		Items:           7,
		DailyRevenue:    19.39,
		RevenuePerOrder: 33.94,
		DailyOrders:     0.57,
		Source:          "fixture.csv",
	}, overview)
}

func TestOverviewSingleDay(t *testing.T) {
	ds := dataprocessing.NewDataset([]dataprocessing.Order{
		{SaleDate: day(3), PostDate: day(3), Quantity: 1, Price: 12, Country: "Spain"},
		{SaleDate: day(3), PostDate: day(4), Quantity: 1, Price: 8, Country: "Spain"},
	}, "one-day.csv", false)

	overview, err := NewDashboardService(ds, nil, nil).Overview(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 1, overview.Days)
	assert.Equal(t, 20.0, overview.DailyRevenue)
	assert.Equal(t, 2.0, overview.DailyOrders)
}

func TestOverviewEmptyDataset(t *testing.T) {
	overview, err := NewDashboardService(nil, nil, nil).Overview(context.Background())
	require.NoError(t, err)
	assert.Empty(t, overview.DateRange)
	assert.Equal(t, 1, overview.Days)
	assert.Zero(t, overview.Orders)
	assert.Zero(t, overview.DailyRevenue)
}

func TestWinners(t *testing.T) {
	winners, err := newService(t).Winners(context.Background())
	require.NoError(t, err)

	assert.Equal(t, domain.WinnerSet{
		Date:    domain.Winner{Label: "2023-01-02", Value: 2},
		Weekday: domain.Winner{Label: "Monday", Value: 3},
		Month:   domain.Winner{Label: "January", Value: 4},
		Country: domain.Winner{Label: "Germany", Value: 2},
	}, winners.Orders)
	assert.Equal(t, domain.WinnerSet{
		Date:    domain.Winner{Label: "2023-01-09", Value: 100},
		Weekday: domain.Winner{Label: "Monday", Value: 130.5},
		Month:   domain.Winner{Label: "January", Value: 135.75},
		Country: domain.Winner{Label: "Spain", Value: 100},
	}, winners.Revenue)
}

func TestWinnersEmptyDataset(t *testing.T) {
	_, err := NewDashboardService(nil, nil, nil).Winners(context.Background())
	require.Error(t, err)
	assert.True(t, apperrors.IsType(err, apperrors.ErrTypeNotFound))
	assert.ErrorIs(t, err, dataprocessing.ErrEmptyDataset)
}

func TestTimelineFigure(t *testing.T) {
	tests := []struct {
		name        string
		analytic    string
		granularity int
		title       string
		values      []float64
	}{
		{"daily orders", "orders", 1, "Daily Orders", []float64{2, 0, 0, 1, 0, 0, 1}},
		{"daily revenue", "revenue", 1, "Daily Revenue", []float64{30.5, 0, 0, 5.25, 0, 0, 100}},
		{"weekly orders", "orders", 2, "Weekly Orders", []float64{4}},
		{"monthly revenue", "revenue", 3, "Monthly Revenue", []float64{135.75}},
	}

	svc := newService(t)
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			fig, err := svc.TimelineFigure(context.Background(), tt.analytic, tt.granularity)
			require.NoError(t, err)
			assert.Equal(t, tt.title, fig.Title)
			assert.Equal(t, domain.FigureHistogram, fig.Kind)
			assert.Equal(t, tt.values, values(fig))
			assert.Equal(t, "2023-01-02", fig.Points[0].Label)
		})
	}
}

func TestCountryFigure(t *testing.T) {
	svc := newService(t)

	fig, err := svc.CountryFigure(context.Background(), "orders", "head")
	require.NoError(t, err)
	assert.Equal(t, "Orders per Country", fig.Title)
	assert.Equal(t, domain.FigureBar, fig.Kind)
	assert.Equal(t, []string{"Germany", "France", "Spain"}, labels(fig))
	assert.Equal(t, []float64{2, 1, 1}, values(fig))

	fig, err = svc.CountryFigure(context.Background(), "mean_revenue", "tail")
	require.NoError(t, err)
	assert.Equal(t, "Average Revenue per Country", fig.Title)
	assert.Equal(t, []string{"Germany", "France", "Spain"}, labels(fig))
	assert.Equal(t, []float64{7.88, 20, 100}, values(fig))

	fig, err = svc.CountryFigure(context.Background(), "revenue", "head")
	require.NoError(t, err)
	assert.Equal(t, "Total Revenue per Country", fig.Title)
}

func TestDeliveryFigure(t *testing.T) {
	svc := newService(t)

	fig, err := svc.DeliveryFigure(context.Background(), "orders")
	require.NoError(t, err)
	assert.Equal(t, "Orders per Delivery Type", fig.Title)
	assert.Equal(t, domain.FigurePie, fig.Kind)
	assert.Equal(t, []string{"Paid", "Free"}, labels(fig))
	assert.Equal(t, []float64{2, 2}, values(fig))

	fig, err = svc.DeliveryFigure(context.Background(), "revenue")
	require.NoError(t, err)
	assert.Equal(t, "Revenue per Delivery Type", fig.Title)
	assert.Equal(t, []float64{25.25, 110.5}, values(fig))
}

func TestDispatchFigure(t *testing.T) {
	fig, err := newService(t).DispatchFigure(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "Days to Dispatch", fig.Title)
	assert.Equal(t, []string{"0", "1", "2", "7"}, labels(fig))
	assert.Equal(t, []float64{1, 1, 1, 1}, values(fig))
}

func TestFigureRejectsInvalidControls(t *testing.T) {
	tests := []struct {
		name    string
		req     api.ChartRequest
		allowed string
	}{
		{"unknown chart", api.ChartRequest{Chart: "scatter"}, "timeline, country, delivery, dispatch"},
		{"timeline analytic", api.ChartRequest{Chart: "timeline", Analytic: "mean_revenue"}, "orders, revenue"},
		{"granularity", api.ChartRequest{Chart: "timeline", Granularity: 4}, "1, 2, 3"},
		{"country order", api.ChartRequest{Chart: "country", Order: "middle"}, "head, tail"},
		{"country analytic", api.ChartRequest{Chart: "country", Analytic: "items"}, "orders, revenue, mean_revenue"},
		{"delivery analytic", api.ChartRequest{Chart: "delivery", Analytic: "items"}, "orders, revenue"},
	}

	svc := newService(t)
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := svc.Figure(context.Background(), tt.req)
			require.Error(t, err)
			assert.ErrorIs(t, err, apperrors.ErrInvalidArgument)
			assert.Contains(t, err.Error(), tt.allowed)
		})
	}
}

func TestFigureDefaults(t *testing.T) {
	svc := newService(t)

	fig, err := svc.Figure(context.Background(), api.ChartRequest{Chart: api.ChartTimeline})
	require.NoError(t, err)
	assert.Equal(t, "Daily Orders", fig.Title)

	fig, err = svc.Figure(context.Background(), api.ChartRequest{Chart: api.ChartCountry})
	require.NoError(t, err)
	assert.Equal(t, "Germany", fig.Points[0].Label)
}

func TestFiguresOnEmptyDataset(t *testing.T) {
	svc := NewDashboardService(dataprocessing.NewDataset(nil, "empty.csv", false), nil, nil)
	for _, chart := range api.ChartNames {
		fig, err := svc.Figure(context.Background(), api.ChartRequest{Chart: chart})
		require.NoError(t, err, chart)
		assert.True(t, fig.Empty(), chart)
		assert.NotEmpty(t, fig.Title, chart)
	}
}

func TestFigureQueriesAreRecorded(t *testing.T) {
	providers, err := infrastructure.InitializeOTel(infrastructure.OTelConfig{ServiceName: "test", EnableMetrics: true},
		slog.New(slog.NewTextHandler(io.Discard, nil)))
	require.NoError(t, err)
	defer providers.Shutdown(context.Background())

	metrics, err := infrastructure.CreateBusinessMetrics(providers.Meter)
	require.NoError(t, err)

	logger, handler := logtest.NewTestLogger(t)
	svc := NewDashboardService(fixtureDataset(), metrics, logger)

	_, err = svc.DispatchFigure(context.Background())
	require.NoError(t, err)
	_, err = svc.DeliveryFigure(context.Background(), "items")
	require.Error(t, err)

	count, err := testutil.GatherAndCount(providers.Registry, "dashboard_queries_total")
	require.NoError(t, err)
	assert.Equal(t, 2, count, "one series per chart and status")
	logtest.AssertLogContains(t, handler, slog.LevelWarn, "Figure query rejected")
}

func TestDashboardServiceConcurrentReads(t *testing.T) {
	svc := newService(t)
	errs := make(chan error, 40)
	for i := 0; i < 40; i++ {
		go func(i int) {
			chart := api.ChartNames[i%len(api.ChartNames)]
			_, err := svc.Figure(context.Background(), api.ChartRequest{Chart: chart})
			errs <- err
		}(i)
	}
	for i := 0; i < 40; i++ {
		assert.NoError(t, <-errs)
	}
}
