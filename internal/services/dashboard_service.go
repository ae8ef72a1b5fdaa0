package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strconv"
	"time"

	"github.com/justas-b/ecommerce-dashboard/internal/dataprocessing"
	apperrors "github.com/justas-b/ecommerce-dashboard/internal/errors"
	"github.com/justas-b/ecommerce-dashboard/internal/infrastructure"
	api "github.com/justas-b/ecommerce-dashboard/pkg/contracts/api/v1"
	"github.com/justas-b/ecommerce-dashboard/pkg/contracts/domain"
)

// Timeline granularities
const (
	GranularityDaily   = 1
	GranularityWeekly  = 2
	GranularityMonthly = 3
)

var granularityNames = map[int]string{
	GranularityDaily:   "Daily",
	GranularityWeekly:  "Weekly",
	GranularityMonthly: "Monthly",
}

var analyticNames = map[string]string{
	dataprocessing.AnalyticOrders:  "Orders",
	dataprocessing.AnalyticRevenue: "Revenue",
}

// DashboardService answers the dashboard panels and chart callbacks from a
// loaded dataset. It holds no mutable state and is safe for concurrent use.
type DashboardService struct {
	dataset   *dataprocessing.Dataset
	extractor *dataprocessing.Extractor
	metrics   *infrastructure.BusinessMetrics
	logger    *slog.Logger
}

// NewDashboardService creates a dashboard service over ds. metrics may be nil.
func NewDashboardService(ds *dataprocessing.Dataset, metrics *infrastructure.BusinessMetrics, logger *slog.Logger) *DashboardService {
	if logger == nil {
		logger = slog.Default()
	}
	if ds == nil {
		ds = dataprocessing.NewDataset(nil, "", false)
	}
	return &DashboardService{
		dataset:   ds,
		extractor: dataprocessing.NewExtractor(ds),
		metrics:   metrics,
		logger:    logger.With(slog.String("component", "dashboard_service")),
	}
}

// Dataset returns the dataset the service reads from
func (s *DashboardService) Dataset() *dataprocessing.Dataset {
	return s.dataset
}

// days is the span used for daily averages; a single-day span counts as 1
func (s *DashboardService) days() int {
	if d := s.extractor.NumberOfDays(); d > 0 {
		return d
	}
	return 1
}

// Overview returns the headline figures
func (s *DashboardService) Overview(ctx context.Context) (domain.Overview, error) {
	days := s.days()
	revenue := s.extractor.TotalRevenue()
	orders := s.extractor.TotalOrders()

	overview := domain.Overview{
		Days:            days,
		Revenue:         revenue,
		Orders:          orders,
		Items:           s.extractor.TotalItems(),
		DailyRevenue:    dataprocessing.Round2(revenue / float64(days)),
		RevenuePerOrder: s.extractor.AverageRevenue(),
		DailyOrders:     dataprocessing.Round2(float64(orders) / float64(days)),
		Synthetic:       s.dataset.Synthetic(),
		Source:          s.dataset.Source(),
	}

	if span, err := s.extractor.DateRange(); err == nil {
		overview.DateRange = span.String()
	} else if !errors.Is(err, dataprocessing.ErrEmptyDataset) {
		return domain.Overview{}, err
	}

	s.logger.DebugContext(ctx, "Overview computed",
		slog.Int("orders", orders),
		slog.Int("days", days))
	return overview, nil
}

// Winners returns the best date, weekday, month and country by orders and
// by revenue
func (s *DashboardService) Winners(ctx context.Context) (domain.Winners, error) {
	if s.dataset.Len() == 0 {
		return domain.Winners{}, apperrors.NewAppError(apperrors.ErrTypeNotFound,
			"no winners in an empty dataset", dataprocessing.ErrEmptyDataset)
	}

	var winners domain.Winners
	for _, measure := range []struct {
		aggregate string
		dst       *domain.WinnerSet
	}{
		{dataprocessing.AnalyticOrders, &winners.Orders},
		{dataprocessing.AnalyticRevenue, &winners.Revenue},
	} {
		for _, period := range []struct {
			decomposer string
			dst        *domain.Winner
		}{
			{dataprocessing.DecomposeDate, &measure.dst.Date},
			{dataprocessing.DecomposeWeekday, &measure.dst.Weekday},
			{dataprocessing.DecomposeMonth, &measure.dst.Month},
		} {
			perf, err := s.extractor.BestDatetimePerformance(measure.aggregate, period.decomposer)
			if err != nil {
				return domain.Winners{}, fmt.Errorf("best %s by %s: %w", period.decomposer, measure.aggregate, err)
			}
			*period.dst = domain.Winner{Label: perf.Label, Value: perf.Value}
		}

		top, err := s.topCountry(measure.aggregate)
		if err != nil {
			return domain.Winners{}, err
		}
		measure.dst.Country = top
	}

	s.logger.DebugContext(ctx, "Winners computed")
	return winners, nil
}

// topCountry returns the first country by name among those with the
// largest aggregate
func (s *DashboardService) topCountry(analytic string) (domain.Winner, error) {
	values, err := s.extractor.CountryGrouping(analytic)
	if err != nil {
		return domain.Winner{}, err
	}
	var best domain.Winner
	for i, v := range values {
		if i == 0 || v.Value > best.Value {
			best = domain.Winner{Label: v.Country, Value: v.Value}
		}
	}
	return best, nil
}

// Figure dispatches a chart request to the matching figure. Empty controls
// take their defaults.
func (s *DashboardService) Figure(ctx context.Context, req api.ChartRequest) (domain.Figure, error) {
	req = req.WithDefaults()
	switch req.Chart {
	case api.ChartTimeline:
		return s.TimelineFigure(ctx, req.Analytic, req.Granularity)
	case api.ChartCountry:
		return s.CountryFigure(ctx, req.Analytic, req.Order)
	case api.ChartDelivery:
		return s.DeliveryFigure(ctx, req.Analytic)
	case api.ChartDispatch:
		return s.DispatchFigure(ctx)
	default:
		return domain.Figure{}, apperrors.NewInvalidArgumentError("chart", req.Chart, api.ChartNames...)
	}
}

// TimelineFigure bins orders or revenue by sale date. Granularity 1, 2 and
// 3 use one bin per day, week and month of the date span.
func (s *DashboardService) TimelineFigure(ctx context.Context, analytic string, granularity int) (fig domain.Figure, err error) {
	defer s.record(ctx, api.ChartTimeline, time.Now(), &err)

	name, ok := analyticNames[analytic]
	if !ok {
		return domain.Figure{}, apperrors.NewInvalidArgumentError("analytic", analytic,
			dataprocessing.AnalyticOrders, dataprocessing.AnalyticRevenue)
	}

	var bins int
	switch granularity {
	case GranularityDaily:
		bins = s.extractor.NumberOfDays()
	case GranularityWeekly:
		bins = s.extractor.NumberOfWeeks()
	case GranularityMonthly:
		bins = s.extractor.NumberOfMonths()
	default:
		return domain.Figure{}, apperrors.NewInvalidArgumentError("granularity", strconv.Itoa(granularity), "1", "2", "3")
	}
	if bins < 1 {
		bins = 1
	}

	var series dataprocessing.TimeSeries
	if analytic == dataprocessing.AnalyticOrders {
		series, err = s.extractor.OrdersPerDay(bins)
	} else {
		series, err = s.extractor.RevenuePerDay(bins)
	}
	if err != nil {
		return domain.Figure{}, err
	}

	points := make([]domain.Point, len(series.Buckets))
	for i, b := range series.Buckets {
		points[i] = domain.Point{Label: b.Start.Format(dataprocessing.DateLayout), Value: b.Value}
	}
	return domain.Figure{
		Title:  granularityNames[granularity] + " " + name,
		Kind:   domain.FigureHistogram,
		XLabel: "Sale Date",
		YLabel: name,
		Points: points,
	}, nil
}

// CountryFigure ranks countries by orders, revenue or mean revenue
func (s *DashboardService) CountryFigure(ctx context.Context, analytic, order string) (fig domain.Figure, err error) {
	defer s.record(ctx, api.ChartCountry, time.Now(), &err)

	plot, err := s.extractor.CountryPlots(analytic, order)
	if err != nil {
		return domain.Figure{}, err
	}

	points := make([]domain.Point, len(plot.Rows))
	for i, row := range plot.Rows {
		points[i] = domain.Point{Label: row.Country, Value: row.Value}
	}
	return domain.Figure{
		Title:  plot.Label + " per Country",
		Kind:   domain.FigureBar,
		XLabel: "Country",
		YLabel: plot.Label,
		Points: points,
	}, nil
}

// DeliveryFigure splits orders or revenue into paid and free delivery
func (s *DashboardService) DeliveryFigure(ctx context.Context, analytic string) (fig domain.Figure, err error) {
	defer s.record(ctx, api.ChartDelivery, time.Now(), &err)

	var slices []dataprocessing.Slice
	switch analytic {
	case dataprocessing.AnalyticOrders:
		slices = s.extractor.OrderDeliveryCharge()
	case dataprocessing.AnalyticRevenue:
		slices = s.extractor.RevenueDeliveryCharge()
	default:
		return domain.Figure{}, apperrors.NewInvalidArgumentError("analytic", analytic,
			dataprocessing.AnalyticOrders, dataprocessing.AnalyticRevenue)
	}

	points := make([]domain.Point, len(slices))
	for i, sl := range slices {
		points[i] = domain.Point{Label: sl.Label, Value: sl.Value}
	}
	return domain.Figure{
		Title:  analyticNames[analytic] + " per Delivery Type",
		Kind:   domain.FigurePie,
		Points: points,
	}, nil
}

// DispatchFigure counts orders per day of dispatch latency
func (s *DashboardService) DispatchFigure(ctx context.Context) (fig domain.Figure, err error) {
	defer s.record(ctx, api.ChartDispatch, time.Now(), &err)

	buckets := s.extractor.DaysToDispatch()
	points := make([]domain.Point, len(buckets))
	for i, b := range buckets {
		points[i] = domain.Point{Label: strconv.Itoa(b.Days), Value: float64(b.Orders)}
	}
	return domain.Figure{
		Title:  "Days to Dispatch",
		Kind:   domain.FigureBar,
		XLabel: "Days",
		YLabel: "Orders",
		Points: points,
	}, nil
}

func (s *DashboardService) record(ctx context.Context, chart string, start time.Time, errp *error) {
	elapsed := time.Since(start)
	s.metrics.RecordQuery(ctx, chart, elapsed, *errp)
	if *errp != nil {
		s.logger.WarnContext(ctx, "Figure query rejected",
			slog.String("chart", chart),
			slog.String("error", (*errp).Error()))
	}
}
