package store

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"btran/budget-csv/internal/normalizer"
)

func TestRuleStoreMissingFileYieldsDefaults(t *testing.T) {
	s := NewRuleStore(filepath.Join(t.TempDir(), "merchants.yaml"))
	rules, err := s.LoadMerchantRules()
	require.NoError(t, err)
	assert.Equal(t, normalizer.DefaultRules, rules)
}

func TestRuleStoreEmptyPathYieldsDefaults(t *testing.T) {
	s := NewRuleStore("")
	rules, err := s.LoadMerchantRules()
	require.NoError(t, err)
	assert.Equal(t, normalizer.DefaultRules, rules)
}

func TestRuleStoreUserRulesComeFirst(t *testing.T) {
	file := filepath.Join(t.TempDir(), "merchants.yaml")
	content := `merchants:
  - match: "LOCAL GYM"
    name: "Local Gym"
  - match: "AMZN"
    name: "Work Expenses"
`
	require.NoError(t, os.WriteFile(file, []byte(content), 0600))

	s := NewRuleStore(file)
	rules, err := s.LoadMerchantRules()
	require.NoError(t, err)

	require.Len(t, rules, len(normalizer.DefaultRules)+2)
	assert.Equal(t, normalizer.Rule{Match: "LOCAL GYM", Merchant: "Local Gym"}, rules[0])

	// User rules shadow defaults with the same match key.
	n := normalizer.New(rules)
	assert.Equal(t, "Work Expenses", n.Normalize("AMZN MKTP US*123ABC"))
	assert.Equal(t, "Local Gym", n.Normalize("LOCAL GYM MONTHLY DUES"))
}

func TestRuleStoreMalformedYAML(t *testing.T) {
	file := filepath.Join(t.TempDir(), "merchants.yaml")
	require.NoError(t, os.WriteFile(file, []byte(":\t not yaml ["), 0600))

	s := NewRuleStore(file)
	_, err := s.LoadMerchantRules()
	assert.Error(t, err)
}
