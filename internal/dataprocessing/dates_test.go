package dataprocessing

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseDate(t *testing.T) {
	tests := []struct {
		raw  string
		want time.Time
	}{
		{"2023-01-02", day(1, 2)},
		{" 2023-01-02 ", day(1, 2)},
		{"2023-01-02 15:04:05", time.Date(2023, 1, 2, 15, 4, 5, 0, time.UTC)},
		{"2023-01-02T15:04:05", time.Date(2023, 1, 2, 15, 4, 5, 0, time.UTC)},
		{"2023-01-02T23:30:00+05:00", time.Date(2023, 1, 2, 23, 30, 0, 0, time.UTC)},
		{"2023/01/02", day(1, 2)},
		{"01/02/2023", day(1, 2)},
		{"44928", day(1, 2)},
	}

	for _, tt := range tests {
		t.Run(tt.raw, func(t *testing.T) {
			got, err := ParseDate(tt.raw)
			require.NoError(t, err)
			assert.True(t, tt.want.Equal(got), "want %s, got %s", tt.want, got)
			assert.Equal(t, time.UTC, got.Location())
		})
	}
}

func TestParseDateErrors(t *testing.T) {
	for _, raw := range []string{"", "NaN", "yesterday", "2023-13-01", "-5", "99999999"} {
		t.Run(raw, func(t *testing.T) {
			_, err := ParseDate(raw)
			assert.Error(t, err)
		})
	}
}

func TestIsDateColumn(t *testing.T) {
	assert.True(t, isDateColumn("sale_date"))
	assert.True(t, isDateColumn("Date Posted"))
	assert.True(t, isDateColumn("UPDATED"))
	assert.False(t, isDateColumn("country"))
}

func TestRound2(t *testing.T) {
	tests := []struct {
		in, want float64
	}{
		{1.005, 1.01},
		{2.675, 2.68},
		{7.875, 7.88},
		{-1.005, -1.01},
		{10, 10},
		{33.9375, 33.94},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, Round2(tt.in), "Round2(%v)", tt.in)
	}
}
