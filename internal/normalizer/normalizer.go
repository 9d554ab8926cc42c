// Package normalizer maps raw, noisy statement descriptions to canonical
// merchant names. A curated substring table handles high-volume merchants;
// everything else goes through generic suffix-stripping heuristics.
package normalizer

import (
	"regexp"
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

// Rule maps a substring of the upper-cased description to a canonical
// merchant name. Rules are evaluated in order and the first match wins, so
// table order is significant (some keys are substrings of others' contexts).
type Rule struct {
	Match    string `yaml:"match"`
	Merchant string `yaml:"name"`
}

// DefaultRules is the built-in curated merchant table.
var DefaultRules = []Rule{
	{Match: "AMZN", Merchant: "Amazon"},
	{Match: "AMAZON", Merchant: "Amazon"},
	{Match: "UBER", Merchant: "Uber"},
	{Match: "LYFT", Merchant: "Lyft"},
	{Match: "STARBUCKS", Merchant: "Starbucks"},
	{Match: "TRADER JOE", Merchant: "Trader Joes"},
	{Match: "WHOLEFDS", Merchant: "Whole Foods"},
	{Match: "APPLE", Merchant: "Apple"},
	{Match: "NETFLIX", Merchant: "Netflix"},
	{Match: "SPOTIFY", Merchant: "Spotify"},
	{Match: "TARGET", Merchant: "Target"},
	{Match: "COSTCO", Merchant: "Costco"},
	{Match: "SHELL", Merchant: "Shell"},
	{Match: "CHEVRON", Merchant: "Chevron"},
	{Match: "IN-N-OUT", Merchant: "In-N-Out"},
}

// processorPrefix strips payment-processor prefixes (Square, Toast, PayPal
// and friends) anchored at the start of the description.
var processorPrefix = regexp.MustCompile(`^(SQ \*|TST\*|PY \*|SP \*|TOAST\*)\s*`)

// trailingPunct matches punctuation left dangling after suffix truncation.
var trailingPunct = regexp.MustCompile(`[.,;]+$`)

// Normalizer turns raw statement text into canonical merchant names. It is
// safe for concurrent use; the rule table is fixed at construction.
type Normalizer struct {
	rules []Rule
}

// New creates a Normalizer with the given rule table. Extra rules supplied by
// configuration should be placed ahead of DefaultRules by the caller so they
// win ties.
func New(rules []Rule) *Normalizer {
	return &Normalizer{rules: rules}
}

// NewDefault creates a Normalizer with the built-in rule table.
func NewDefault() *Normalizer {
	return New(DefaultRules)
}

// Normalize maps a raw description to a canonical merchant name. It is pure
// and total: the worst case falls back to a cleaned version of the input and
// the result is never empty.
func (n *Normalizer) Normalize(raw string) string {
	desc := strings.ToUpper(raw)

	for _, rule := range n.rules {
		if strings.Contains(desc, rule.Match) {
			return rule.Merchant
		}
	}

	cleaned := processorPrefix.ReplaceAllString(desc, "")

	// Drop trailing location suffixes ("COFFEE SHOP - PHOENIX AZ") and
	// store/register numbers ("STORE #00329").
	if idx := strings.Index(cleaned, " - "); idx >= 0 {
		cleaned = cleaned[:idx]
	}
	if idx := strings.Index(cleaned, " #"); idx >= 0 {
		cleaned = cleaned[:idx]
	}

	cleaned = strings.Join(strings.Fields(cleaned), " ")
	// cases.Caser carries transform state, so build one per call.
	cleaned = cases.Title(language.AmericanEnglish).String(strings.ToLower(cleaned))
	cleaned = trailingPunct.ReplaceAllString(cleaned, "")
	cleaned = strings.TrimSpace(cleaned)

	if cleaned == "" {
		return desc
	}
	return cleaned
}
