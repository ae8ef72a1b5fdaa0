package dataprocessing

import (
	"errors"
	"fmt"
	"time"
)

// Canonical column names shared by every dataset
const (
	ColSaleDate     = "sale_date"
	ColQuantity     = "quantity"
	ColPrice        = "price"
	ColPostDate     = "post_date"
	ColCountry      = "country"
	ColDeliveryCost = "delivery_cost"
)

// CanonicalColumns lists the canonical columns in load order. The order
// matches config.DatasetConfig.Columns.
var CanonicalColumns = []string{ColSaleDate, ColQuantity, ColPrice, ColPostDate, ColCountry, ColDeliveryCost}

// DateLayout is the calendar date format used for labels and persisted data
const DateLayout = "2006-01-02"

// Delivery partition labels
const (
	DeliveryPaid = "Paid"
	DeliveryFree = "Free"
)

// SourceGenerated is the Dataset source of synthetic data that was not persisted
const SourceGenerated = "generated"

// ErrEmptyDataset is returned by queries that need at least one order
var ErrEmptyDataset = errors.New("dataset is empty")

// Order is one row of the canonical dataset
type Order struct {
	SaleDate     time.Time
	PostDate     time.Time
	Quantity     int
	Price        float64
	DeliveryCost float64
	DeliveryPaid bool
	Country      string

	// Derived by NewDataset
	DaysToDispatch int
	Year           int
	Month          time.Month
	Day            int
}

// DeliveryType returns DeliveryPaid or DeliveryFree
func (o Order) DeliveryType() string {
	if o.DeliveryPaid {
		return DeliveryPaid
	}
	return DeliveryFree
}

// Dataset is an immutable, fully derived set of orders
type Dataset struct {
	orders    []Order
	source    string
	synthetic bool
}

// NewDataset copies orders and derives dispatch latency and the sale date
// decomposition for each of them.
func NewDataset(orders []Order, source string, synthetic bool) *Dataset {
	derived := make([]Order, len(orders))
	for i, o := range orders {
		o.DaysToDispatch = daysBetween(o.SaleDate, o.PostDate)
		o.Year, o.Month, o.Day = o.SaleDate.Date()
		derived[i] = o
	}
	return &Dataset{orders: derived, source: source, synthetic: synthetic}
}

// daysBetween returns the whole-day floor of to minus from
func daysBetween(from, to time.Time) int {
	d := to.Sub(from)
	days := int(d / (24 * time.Hour))
	if d < 0 && d%(24*time.Hour) != 0 {
		days--
	}
	return days
}

// Len returns the number of orders
func (d *Dataset) Len() int {
	if d == nil {
		return 0
	}
	return len(d.orders)
}

// Orders returns a copy of the orders
func (d *Dataset) Orders() []Order {
	if d == nil {
		return nil
	}
	out := make([]Order, len(d.orders))
	copy(out, d.orders)
	return out
}

// Source is the file the dataset was read from, or SourceGenerated
func (d *Dataset) Source() string {
	if d == nil {
		return ""
	}
	return d.source
}

// Synthetic reports whether the orders came from the Generator
func (d *Dataset) Synthetic() bool {
	return d != nil && d.synthetic
}

// LoadResult is the outcome of a Transformer run. Exactly one of Dataset
// and Err is set.
type LoadResult struct {
	Dataset   *Dataset
	Source    string
	Synthetic bool
	Err       error
}

// Ok reports whether the load succeeded
func (r LoadResult) Ok() bool {
	return r.Err == nil && r.Dataset != nil
}

// Unwrap returns the dataset or the load error
func (r LoadResult) Unwrap() (*Dataset, error) {
	if r.Err != nil {
		return nil, r.Err
	}
	if r.Dataset == nil {
		return nil, fmt.Errorf("load of %s produced no dataset", r.Source)
	}
	return r.Dataset, nil
}

// Ranking selects which end of a sorted country aggregate is returned
type Ranking string

const (
	// RankingHead returns the largest values, descending
	RankingHead Ranking = "head"
	// RankingTail returns the smallest values, ascending
	RankingTail Ranking = "tail"
)

// Query parameter values
const (
	AnalyticOrders      = "orders"
	AnalyticRevenue     = "revenue"
	AnalyticMeanRevenue = "mean_revenue"

	DecomposeDate    = "date"
	DecomposeWeekday = "weekday"
	DecomposeMonth   = "month"
)

// CountryValue is one aggregated country row
type CountryValue struct {
	Country string  `json:"country"`
	Value   float64 `json:"value"`
}

// CountrySeries is a ranked list of country rows, at most ten long
type CountrySeries []CountryValue

// CountryChart is a ranked country series with its display label
type CountryChart struct {
	Label string        `json:"label"`
	Rows  CountrySeries `json:"rows"`
}

// Bucket counts the orders that took Days days to dispatch
type Bucket struct {
	Days   int `json:"days"`
	Orders int `json:"orders"`
}

// Slice is one partition of a pie chart
type Slice struct {
	Label string  `json:"label"`
	Value float64 `json:"value"`
}

// TimeBucket is one equal-width bin of a time series
type TimeBucket struct {
	Start time.Time `json:"start"`
	End   time.Time `json:"end"`
	Value float64   `json:"value"`
}

// TimeSeries is a histogram of sale dates
type TimeSeries struct {
	Buckets []TimeBucket `json:"buckets"`
}

// DateRange is the span of sale dates, truncated to calendar days
type DateRange struct {
	Start time.Time `json:"start"`
	End   time.Time `json:"end"`
}

// String renders the range as "YYYY-MM-DD - YYYY-MM-DD"
func (r DateRange) String() string {
	return r.Start.Format(DateLayout) + " - " + r.End.Format(DateLayout)
}

// Days returns the number of whole days between Start and End
func (r DateRange) Days() int {
	return daysBetween(r.Start, r.End)
}

// Performance is the best period found by BestDatetimePerformance
type Performance struct {
	Label string  `json:"label"`
	Value float64 `json:"value"`
}
