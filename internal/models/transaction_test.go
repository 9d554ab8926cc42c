package models

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseAmount(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected string
	}{
		{"plain", "12.34", "12.34"},
		{"negative", "-52.40", "-52.4"},
		{"dollar sign", "$1,234.56", "1234.56"},
		{"parenthesized negative", "(45.00)", "-45"},
		{"surrounding whitespace", "  9.99 ", "9.99"},
		{"empty coerces to zero", "", "0"},
		{"garbage coerces to zero", "abc", "0"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			expected, err := decimal.NewFromString(tt.expected)
			require.NoError(t, err)
			assert.True(t, expected.Equal(ParseAmount(tt.input)),
				"ParseAmount(%q) = %s", tt.input, ParseAmount(tt.input))
		})
	}
}

func TestDateCSVRoundTrip(t *testing.T) {
	d := NewDate(2026, time.March, 5)

	out, err := d.MarshalCSV()
	require.NoError(t, err)
	assert.Equal(t, "2026-03-05", out)

	var parsed Date
	require.NoError(t, parsed.UnmarshalCSV(out))
	assert.Equal(t, d, parsed)
}

func TestDateUnmarshalBadInputIsZero(t *testing.T) {
	var d Date
	require.NoError(t, d.UnmarshalCSV("not a date"))
	assert.True(t, d.IsZero())

	out, err := d.MarshalCSV()
	require.NoError(t, err)
	assert.Empty(t, out)
}

func TestTransactionMonthYear(t *testing.T) {
	tx := Transaction{Date: NewDate(2026, time.November, 20)}
	assert.Equal(t, 11, tx.Month())
	assert.Equal(t, 2026, tx.Year())
}

func TestIsBudgetCategory(t *testing.T) {
	assert.True(t, IsBudgetCategory("Groceries"))
	assert.True(t, IsBudgetCategory(CategoryPersonal))
	assert.False(t, IsBudgetCategory("Not A Category"))
	assert.False(t, IsBudgetCategory(""))
}
