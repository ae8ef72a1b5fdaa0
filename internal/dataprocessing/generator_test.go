package dataprocessing

import (
	"math/rand"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func seededGenerator(seed int64) *Generator {
	return NewGenerator(DefaultCountries(), rand.New(rand.NewSource(seed)))
}

func TestDefaultCountries(t *testing.T) {
	countries := DefaultCountries()
	require.NotEmpty(t, countries)
	for _, c := range countries {
		assert.NotEmpty(t, c)
		assert.Equal(t, strings.TrimSpace(c), c)
	}
}

func TestGenerateRowsWithinBounds(t *testing.T) {
	orders, err := seededGenerator(42).Generate("2023-01-01", "2023-12-31", 1000)
	require.NoError(t, err)
	require.Len(t, orders, 1000)

	start, end := day(1, 1), day(12, 31)
	countries := make(map[string]bool)
	for _, c := range DefaultCountries() {
		countries[c] = true
	}

	for i, o := range orders {
		assert.False(t, o.SaleDate.Before(start), "row %d sale date before start", i)
		assert.False(t, o.SaleDate.After(end), "row %d sale date after end", i)
		assert.False(t, o.PostDate.Before(o.SaleDate), "row %d posted before sale", i)
		assert.False(t, o.PostDate.After(end), "row %d posted after end", i)
		assert.LessOrEqual(t, o.PostDate.Sub(o.SaleDate), 7*24*time.Hour, "row %d", i)

		assert.GreaterOrEqual(t, o.Quantity, 1)
		assert.LessOrEqual(t, o.Quantity, 5)
		assert.GreaterOrEqual(t, o.Price, 1.0)
		assert.LessOrEqual(t, o.Price, 101.0)
		assert.Equal(t, Round2(o.Price), o.Price)

		assert.True(t, countries[o.Country], "unknown country %q", o.Country)

		if o.DeliveryPaid {
			assert.Equal(t, Round2(0.2*o.Price), o.DeliveryCost)
		} else {
			assert.Zero(t, o.DeliveryCost)
		}
	}
}

func TestGenerateDeliveryIsRoughlyHalfPaid(t *testing.T) {
	orders, err := seededGenerator(7).Generate("2023-01-01", "2023-12-31", 2000)
	require.NoError(t, err)

	paid := 0
	for _, o := range orders {
		if o.DeliveryPaid {
			paid++
		}
	}
	assert.InDelta(t, 1000, paid, 150)
}

func TestGenerateIsReproducibleWithSeed(t *testing.T) {
	a, err := seededGenerator(99).Generate("2023-01-01", "2023-03-31", 50)
	require.NoError(t, err)
	b, err := seededGenerator(99).Generate("2023-01-01", "2023-03-31", 50)
	require.NoError(t, err)
	assert.Equal(t, a, b)
}

func TestGenerateErrors(t *testing.T) {
	tests := []struct {
		name      string
		gen       *Generator
		start     string
		end       string
		n         int
		errSubstr string
	}{
		{"malformed start", seededGenerator(1), "2023/01/01", "2023-12-31", 10, "invalid start date"},
		{"malformed end", seededGenerator(1), "2023-01-01", "31-12-2023", 10, "invalid end date"},
		{"end before start", seededGenerator(1), "2023-12-31", "2023-01-01", 10, "before start date"},
		{"negative rows", seededGenerator(1), "2023-01-01", "2023-12-31", -1, "must not be negative"},
		{"no countries", NewGenerator(nil, nil), "2023-01-01", "2023-12-31", 1, "country list is empty"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := tt.gen.Generate(tt.start, tt.end, tt.n)
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.errSubstr)
		})
	}
}

func TestGenerateZeroRows(t *testing.T) {
	orders, err := seededGenerator(1).Generate("2023-01-01", "2023-01-01", 0)
	require.NoError(t, err)
	assert.Empty(t, orders)
}

func TestGenerateDate(t *testing.T) {
	g := seededGenerator(3)
	start := day(6, 1)

	for i := 0; i < 200; i++ {
		d := g.GenerateDate(start, day(6, 30), 7)
		assert.False(t, d.Before(start))
		assert.False(t, d.After(day(6, 8)), "maxDays must bound the window")
		assert.Equal(t, truncateDay(d), d)
	}

	assert.Equal(t, start, g.GenerateDate(start, start, 7))
}

func TestCountry(t *testing.T) {
	g := NewGenerator([]string{"Only"}, nil)
	assert.Equal(t, "Only", g.Country())
	assert.Equal(t, "", NewGenerator(nil, nil).Country())
}

func TestOrderRecords(t *testing.T) {
	header, rows := OrderRecords(fixtureOrders()[1:2])

	assert.Equal(t, CanonicalColumns, header)
	assert.Equal(t, [][]string{{"2023-01-02", "1", "20.00", "2023-01-03", "France", "4.00"}}, rows)
}
