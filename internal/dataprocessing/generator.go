package dataprocessing

import (
	_ "embed"
	"fmt"
	"math/rand"
	"strconv"
	"strings"
	"sync"
	"time"
)

//go:embed countries.txt
var countriesFile string

// DefaultCountries returns the embedded country list
func DefaultCountries() []string {
	var countries []string
	for _, line := range strings.Split(countriesFile, "\n") {
		if name := strings.TrimSpace(line); name != "" {
			countries = append(countries, name)
		}
	}
	return countries
}

// Generator draws synthetic orders. It is safe for concurrent use.
type Generator struct {
	countries []string

	mu  sync.Mutex
	rng *rand.Rand
}

// NewGenerator creates a generator over countries. A nil rng is seeded from
// the clock; pass a seeded one for reproducible output.
func NewGenerator(countries []string, rng *rand.Rand) *Generator {
	if rng == nil {
		rng = rand.New(rand.NewSource(time.Now().UnixNano()))
	}
	return &Generator{
		countries: append([]string(nil), countries...),
		rng:       rng,
	}
}

// GenerateDate returns a uniformly drawn calendar day in [start, end]. A
// positive maxDays narrows the window to [start, start+maxDays].
func (g *Generator) GenerateDate(start, end time.Time, maxDays int) time.Time {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.generateDate(start, end, maxDays)
}

func (g *Generator) generateDate(start, end time.Time, maxDays int) time.Time {
	days := daysBetween(start, end)
	if days < 0 {
		days = 0
	}
	if maxDays > 0 && maxDays < days {
		days = maxDays
	}
	return start.AddDate(0, 0, g.rng.Intn(days+1))
}

// Country returns a uniformly drawn country, or "" when the list is empty
func (g *Generator) Country() string {
	g.mu.Lock()
	defer g.mu.Unlock()
	if len(g.countries) == 0 {
		return ""
	}
	return g.countries[g.rng.Intn(len(g.countries))]
}

// Generate draws n orders with sale dates in [start, end], both given as
// YYYY-MM-DD.
func (g *Generator) Generate(start, end string, n int) ([]Order, error) {
	startDate, err := time.Parse(DateLayout, start)
	if err != nil {
		return nil, fmt.Errorf("invalid start date %q: %w", start, err)
	}
	endDate, err := time.Parse(DateLayout, end)
	if err != nil {
		return nil, fmt.Errorf("invalid end date %q: %w", end, err)
	}
	if endDate.Before(startDate) {
		return nil, fmt.Errorf("end date %s is before start date %s", end, start)
	}
	if n < 0 {
		return nil, fmt.Errorf("row count must not be negative, got %d", n)
	}
	if len(g.countries) == 0 {
		return nil, fmt.Errorf("country list is empty")
	}

	g.mu.Lock()
	defer g.mu.Unlock()

	orders := make([]Order, n)
	for i := range orders {
		sale := g.generateDate(startDate, endDate, 0)
		quantity := g.rng.Intn(5) + 1
		price := Round2(float64(g.rng.Intn(100)+1) + g.rng.Float64())
		post := g.generateDate(sale, endDate, 7)
		country := g.countries[g.rng.Intn(len(g.countries))]

		var delivery float64
		if g.rng.Float64() >= 0.5 {
			delivery = Round2(0.2 * price)
		}

		orders[i] = Order{
			SaleDate:     sale,
			PostDate:     post,
			Quantity:     quantity,
			Price:        price,
			DeliveryCost: delivery,
			DeliveryPaid: delivery != 0,
			Country:      country,
		}
	}
	return orders, nil
}

// OrderRecords renders orders as canonical CSV records: a header row
// followed by one row per order.
func OrderRecords(orders []Order) (header []string, rows [][]string) {
	header = append([]string(nil), CanonicalColumns...)
	rows = make([][]string, len(orders))
	for i, o := range orders {
		rows[i] = []string{
			o.SaleDate.Format(DateLayout),
			strconv.Itoa(o.Quantity),
			strconv.FormatFloat(o.Price, 'f', 2, 64),
			o.PostDate.Format(DateLayout),
			o.Country,
			strconv.FormatFloat(o.DeliveryCost, 'f', 2, 64),
		}
	}
	return header, rows
}
