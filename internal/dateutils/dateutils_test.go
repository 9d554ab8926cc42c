package dateutils

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseDate(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected time.Time
	}{
		{"US format", "03/15/2026", time.Date(2026, 3, 15, 0, 0, 0, 0, time.UTC)},
		{"ISO format", "2026-03-15", time.Date(2026, 3, 15, 0, 0, 0, 0, time.UTC)},
		{"with surrounding space", " 03/15/2026 ", time.Date(2026, 3, 15, 0, 0, 0, 0, time.UTC)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			parsed, err := ParseDate(tt.input)
			require.NoError(t, err)
			assert.Equal(t, tt.expected, parsed)
		})
	}
}

func TestParseDateInvalid(t *testing.T) {
	for _, input := range []string{"", "not a date", "13/45/2026"} {
		_, err := ParseDate(input)
		assert.Error(t, err, "input %q", input)
	}
}

func TestToISODate(t *testing.T) {
	date := time.Date(2026, 3, 5, 0, 0, 0, 0, time.UTC)
	assert.Equal(t, "2026-03-05", ToISODate(date))
}

func TestMonthAbbrev(t *testing.T) {
	assert.Equal(t, "Jan", MonthAbbrev(1))
	assert.Equal(t, "Dec", MonthAbbrev(12))
	assert.Equal(t, "", MonthAbbrev(0))
	assert.Equal(t, "", MonthAbbrev(13))
}

func TestQuarter(t *testing.T) {
	tests := []struct {
		month    time.Month
		expected int
	}{
		{time.January, 1}, {time.March, 1},
		{time.April, 2}, {time.June, 2},
		{time.July, 3}, {time.September, 3},
		{time.October, 4}, {time.December, 4},
	}
	for _, tt := range tests {
		date := time.Date(2026, tt.month, 10, 0, 0, 0, 0, time.UTC)
		assert.Equal(t, tt.expected, Quarter(date), "month %s", tt.month)
	}
}
