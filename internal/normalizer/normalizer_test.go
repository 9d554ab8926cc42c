package normalizer

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNormalize(t *testing.T) {
	n := NewDefault()

	tests := []struct {
		name     string
		raw      string
		expected string
	}{
		{
			name:     "curated rule wins over cleanup",
			raw:      "AMZN MKTP US*123ABC",
			expected: "Amazon",
		},
		{
			name:     "curated rule is case insensitive",
			raw:      "amzn mktp us",
			expected: "Amazon",
		},
		{
			name:     "square prefix stripped",
			raw:      "SQ *LOCAL COFFEE SHOP",
			expected: "Local Coffee Shop",
		},
		{
			name:     "toast prefix stripped",
			raw:      "TST*TACO STAND",
			expected: "Taco Stand",
		},
		{
			name:     "location suffix truncated",
			raw:      "COFFEE HOUSE - PHOENIX AZ",
			expected: "Coffee House",
		},
		{
			name:     "plain text title cased",
			raw:      "some random place",
			expected: "Some Random Place",
		},
		{
			name:     "whitespace runs collapsed",
			raw:      "BIG   BOX    STORE",
			expected: "Big Box Store",
		},
		{
			name:     "trailing punctuation stripped",
			raw:      "CORNER DELI.,",
			expected: "Corner Deli",
		},
		{
			name:     "starbucks rule",
			raw:      "STARBUCKS STORE 800-782-7282",
			expected: "Starbucks",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, n.Normalize(tt.raw))
		})
	}
}

func TestNormalizeStoreNumberRemoved(t *testing.T) {
	n := NewDefault()
	result := n.Normalize("RANDOM STORE #9876")
	assert.NotContains(t, result, "#")
	assert.Equal(t, "Random Store", result)
}

func TestNormalizeDeterministic(t *testing.T) {
	n := NewDefault()
	inputs := []string{"AMZN MKTP", "SQ *CAFE", "weird   input.,", ""}
	for _, input := range inputs {
		assert.Equal(t, n.Normalize(input), n.Normalize(input))
	}
}

func TestNormalizeNeverEmpty(t *testing.T) {
	n := NewDefault()
	inputs := []string{"", "   ", " - ", " #123", "...", "SQ *"}
	for _, input := range inputs {
		result := n.Normalize(input)
		// Whitespace-only falls back to the upper-cased input, which may
		// itself be whitespace, but a merchant with visible characters must
		// never normalize to nothing.
		if strings.TrimSpace(input) != "" {
			assert.NotEmpty(t, strings.TrimSpace(result), "input %q", input)
		}
	}
}

func TestNormalizeCustomRulesPrecedeDefaults(t *testing.T) {
	rules := append([]Rule{{Match: "AMZN", Merchant: "Work Expenses"}}, DefaultRules...)
	n := New(rules)
	assert.Equal(t, "Work Expenses", n.Normalize("AMZN MKTP US*123ABC"))
}

func TestNormalizeRuleOrderSignificant(t *testing.T) {
	n := New([]Rule{
		{Match: "TRADER JOE", Merchant: "Trader Joes"},
		{Match: "JOE", Merchant: "Joes Diner"},
	})
	assert.Equal(t, "Trader Joes", n.Normalize("TRADER JOE'S #123"))
	assert.Equal(t, "Joes Diner", n.Normalize("JOE SMITH LLC"))
}
