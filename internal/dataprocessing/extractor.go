package dataprocessing

import (
	"math"
	"sort"
	"time"

	apperrors "github.com/justas-b/ecommerce-dashboard/internal/errors"
)

// maxCountryRows caps ranked country aggregates
const maxCountryRows = 10

// Country chart labels by analytic
var countryLabels = map[string]string{
	AnalyticOrders:      "Orders",
	AnalyticRevenue:     "Total Revenue",
	AnalyticMeanRevenue: "Average Revenue",
}

// Extractor answers read-only queries over a Dataset. It never modifies the
// dataset and is safe for concurrent use.
type Extractor struct {
	orders []Order
}

// NewExtractor wraps ds. A nil dataset behaves as an empty one.
func NewExtractor(ds *Dataset) *Extractor {
	if ds == nil {
		return &Extractor{}
	}
	return &Extractor{orders: ds.orders}
}

// TotalOrders returns the number of orders
func (e *Extractor) TotalOrders() int {
	return len(e.orders)
}

// TotalItems returns the sum of quantities
func (e *Extractor) TotalItems() int {
	total := 0
	for _, o := range e.orders {
		total += o.Quantity
	}
	return total
}

// TotalRevenue returns the sum of prices rounded to 2 decimals
func (e *Extractor) TotalRevenue() float64 {
	return Round2(e.revenue())
}

// AverageRevenue returns the mean price rounded to 2 decimals, or 0 when
// there are no orders
func (e *Extractor) AverageRevenue() float64 {
	if len(e.orders) == 0 {
		return 0
	}
	return Round2(e.revenue() / float64(len(e.orders)))
}

func (e *Extractor) revenue() float64 {
	var sum float64
	for _, o := range e.orders {
		sum += o.Price
	}
	return sum
}

// OrdersByCountry ranks countries by order count
func (e *Extractor) OrdersByCountry(order Ranking) (CountrySeries, error) {
	chart, err := e.CountryPlots(AnalyticOrders, string(order))
	return chart.Rows, err
}

// TotalRevenuePerCountry ranks countries by summed price
func (e *Extractor) TotalRevenuePerCountry(order Ranking) (CountrySeries, error) {
	chart, err := e.CountryPlots(AnalyticRevenue, string(order))
	return chart.Rows, err
}

// AverageRevenuePerCountry ranks countries by mean price
func (e *Extractor) AverageRevenuePerCountry(order Ranking) (CountrySeries, error) {
	chart, err := e.CountryPlots(AnalyticMeanRevenue, string(order))
	return chart.Rows, err
}

// CountryGrouping aggregates every country by analytic, sorted by name
func (e *Extractor) CountryGrouping(analytic string) ([]CountryValue, error) {
	if _, ok := countryLabels[analytic]; !ok {
		return nil, apperrors.NewInvalidArgumentError("analytic", analytic,
			AnalyticOrders, AnalyticRevenue, AnalyticMeanRevenue)
	}

	type agg struct {
		count int
		sum   float64
	}
	groups := make(map[string]*agg)
	for _, o := range e.orders {
		g, ok := groups[o.Country]
		if !ok {
			g = &agg{}
			groups[o.Country] = g
		}
		g.count++
		g.sum += o.Price
	}

	values := make([]CountryValue, 0, len(groups))
	for country, g := range groups {
		var v float64
		switch analytic {
		case AnalyticOrders:
			v = float64(g.count)
		case AnalyticRevenue:
			v = Round2(g.sum)
		case AnalyticMeanRevenue:
			v = Round2(g.sum / float64(g.count))
		}
		values = append(values, CountryValue{Country: country, Value: v})
	}
	sort.Slice(values, func(i, j int) bool { return values[i].Country < values[j].Country })
	return values, nil
}

// CountryPlots returns the label of analytic and at most ten ranked
// countries. head is the largest values descending, tail the smallest
// ascending. Equal values are ordered by country name.
func (e *Extractor) CountryPlots(analytic, order string) (CountryChart, error) {
	values, err := e.CountryGrouping(analytic)
	if err != nil {
		return CountryChart{}, err
	}

	switch Ranking(order) {
	case RankingHead:
		sort.SliceStable(values, func(i, j int) bool { return values[i].Value > values[j].Value })
	case RankingTail:
		sort.SliceStable(values, func(i, j int) bool { return values[i].Value < values[j].Value })
	default:
		return CountryChart{}, apperrors.NewInvalidArgumentError("order", order,
			string(RankingHead), string(RankingTail))
	}

	if len(values) > maxCountryRows {
		values = values[:maxCountryRows]
	}
	return CountryChart{Label: countryLabels[analytic], Rows: values}, nil
}

// DaysToDispatch counts orders per dispatch latency, ascending by latency
func (e *Extractor) DaysToDispatch() []Bucket {
	counts := make(map[int]int)
	for _, o := range e.orders {
		counts[o.DaysToDispatch]++
	}

	buckets := make([]Bucket, 0, len(counts))
	for days, n := range counts {
		buckets = append(buckets, Bucket{Days: days, Orders: n})
	}
	sort.Slice(buckets, func(i, j int) bool { return buckets[i].Days < buckets[j].Days })
	return buckets
}

// OrderDeliveryCharge splits the order count into paid and free delivery
func (e *Extractor) OrderDeliveryCharge() []Slice {
	return e.deliverySplit(func(Order) float64 { return 1 })
}

// RevenueDeliveryCharge splits revenue into paid and free delivery
func (e *Extractor) RevenueDeliveryCharge() []Slice {
	return e.deliverySplit(func(o Order) float64 { return o.Price })
}

func (e *Extractor) deliverySplit(value func(Order) float64) []Slice {
	var paid, free float64
	var nPaid, nFree int
	for _, o := range e.orders {
		if o.DeliveryPaid {
			paid += value(o)
			nPaid++
		} else {
			free += value(o)
			nFree++
		}
	}

	var slices []Slice
	if nPaid > 0 {
		slices = append(slices, Slice{Label: DeliveryPaid, Value: Round2(paid)})
	}
	if nFree > 0 {
		slices = append(slices, Slice{Label: DeliveryFree, Value: Round2(free)})
	}
	return slices
}

// OrdersPerDay bins order counts into bins equal-width sale date buckets
func (e *Extractor) OrdersPerDay(bins int) (TimeSeries, error) {
	return e.histogram(bins, func(Order) float64 { return 1 })
}

// RevenuePerDay bins summed prices into bins equal-width sale date buckets
func (e *Extractor) RevenuePerDay(bins int) (TimeSeries, error) {
	return e.histogram(bins, func(o Order) float64 { return o.Price })
}

// histogram spreads [min, max] of the sale dates over bins buckets. The
// maximum lands in the last bucket, and a dataset with a single distinct
// sale date yields one bucket.
func (e *Extractor) histogram(bins int, value func(Order) float64) (TimeSeries, error) {
	if bins <= 0 {
		return TimeSeries{}, apperrors.NewAppError(apperrors.ErrTypeInvalidArgument,
			"bins must be a positive integer", apperrors.ErrInvalidArgument).
			WithContext("parameter", "bins")
	}
	if len(e.orders) == 0 {
		return TimeSeries{}, nil
	}

	lo, hi := e.saleBounds()
	span := hi.Sub(lo)
	if span == 0 {
		bins = 1
	}
	width := span / time.Duration(bins)

	// Integer milliseconds keep bucket edges exact
	spanMs := span.Milliseconds()
	sums := make([]float64, bins)
	for _, o := range e.orders {
		idx := 0
		if spanMs > 0 {
			idx = int(o.SaleDate.Sub(lo).Milliseconds() * int64(bins) / spanMs)
		}
		if idx >= bins {
			idx = bins - 1
		}
		sums[idx] += value(o)
	}

	buckets := make([]TimeBucket, bins)
	for i := range buckets {
		start := lo.Add(time.Duration(i) * width)
		end := start.Add(width)
		if i == bins-1 {
			end = hi
		}
		buckets[i] = TimeBucket{Start: start, End: end, Value: Round2(sums[i])}
	}
	return TimeSeries{Buckets: buckets}, nil
}

func (e *Extractor) saleBounds() (time.Time, time.Time) {
	lo, hi := e.orders[0].SaleDate, e.orders[0].SaleDate
	for _, o := range e.orders[1:] {
		if o.SaleDate.Before(lo) {
			lo = o.SaleDate
		}
		if o.SaleDate.After(hi) {
			hi = o.SaleDate
		}
	}
	return lo, hi
}

// DateRange returns the first and last sale dates as calendar days
func (e *Extractor) DateRange() (DateRange, error) {
	if len(e.orders) == 0 {
		return DateRange{}, ErrEmptyDataset
	}
	lo, hi := e.saleBounds()
	return DateRange{Start: truncateDay(lo), End: truncateDay(hi)}, nil
}

// NumberOfDays returns the days between the first and last sale date, or 0
// for an empty dataset
func (e *Extractor) NumberOfDays() int {
	r, err := e.DateRange()
	if err != nil {
		return 0
	}
	return r.Days()
}

// NumberOfWeeks returns NumberOfDays divided by 7, rounded up
func (e *Extractor) NumberOfWeeks() int {
	return int(math.Ceil(float64(e.NumberOfDays()) / 7))
}

// NumberOfMonths returns NumberOfDays divided by 365/12, rounded up
func (e *Extractor) NumberOfMonths() int {
	return int(math.Ceil(float64(e.NumberOfDays()) / (365.0 / 12)))
}

// BestDatetimePerformance finds the date, weekday or month with the most
// orders or revenue. Ties go to the chronologically first period.
func (e *Extractor) BestDatetimePerformance(aggregate, decomposer string) (Performance, error) {
	if aggregate != AnalyticOrders && aggregate != AnalyticRevenue {
		return Performance{}, apperrors.NewInvalidArgumentError("aggregate", aggregate,
			AnalyticOrders, AnalyticRevenue)
	}

	var key func(time.Time) int
	var label func(int) string
	switch decomposer {
	case DecomposeDate:
		key = func(t time.Time) int { return int(truncateDay(t).Unix() / 86400) }
		label = func(k int) string { return time.Unix(int64(k)*86400, 0).UTC().Format(DateLayout) }
	case DecomposeWeekday:
		// Monday first
		key = func(t time.Time) int { return (int(t.Weekday()) + 6) % 7 }
		label = func(k int) string { return time.Weekday((k + 1) % 7).String() }
	case DecomposeMonth:
		key = func(t time.Time) int { return int(t.Month()) }
		label = func(k int) string { return time.Month(k).String() }
	default:
		return Performance{}, apperrors.NewInvalidArgumentError("decomposer", decomposer,
			DecomposeDate, DecomposeWeekday, DecomposeMonth)
	}

	if len(e.orders) == 0 {
		return Performance{}, ErrEmptyDataset
	}

	totals := make(map[int]float64)
	for _, o := range e.orders {
		if aggregate == AnalyticOrders {
			totals[key(o.SaleDate)]++
		} else {
			totals[key(o.SaleDate)] += o.Price
		}
	}

	keys := make([]int, 0, len(totals))
	for k := range totals {
		keys = append(keys, k)
	}
	sort.Ints(keys)

	best := keys[0]
	for _, k := range keys[1:] {
		if totals[k] > totals[best] {
			best = k
		}
	}
	return Performance{Label: label(best), Value: Round2(totals[best])}, nil
}
