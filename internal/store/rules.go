package store

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"btran/budget-csv/internal/logging"
	"btran/budget-csv/internal/normalizer"
)

// merchantRulesFile is the YAML shape of a user-maintained merchant rule
// file:
//
//	merchants:
//	  - match: "LOCAL GYM"
//	    name: "Local Gym"
type merchantRulesFile struct {
	Merchants []normalizer.Rule `yaml:"merchants"`
}

// RuleStore loads user-defined merchant normalization rules from a YAML
// file. User rules are placed ahead of the built-in table so they win.
type RuleStore struct {
	File string
}

// NewRuleStore creates a store over the given YAML file path.
func NewRuleStore(file string) *RuleStore {
	return &RuleStore{File: file}
}

// LoadMerchantRules returns the combined rule table: user rules first, then
// the built-in defaults. A missing file just yields the defaults.
func (s *RuleStore) LoadMerchantRules() ([]normalizer.Rule, error) {
	if s.File == "" {
		return normalizer.DefaultRules, nil
	}
	if _, err := os.Stat(s.File); os.IsNotExist(err) {
		return normalizer.DefaultRules, nil
	}

	data, err := os.ReadFile(s.File) // #nosec G304
	if err != nil {
		return nil, fmt.Errorf("error reading merchant rules file: %w", err)
	}

	var parsed merchantRulesFile
	if err := yaml.Unmarshal(data, &parsed); err != nil {
		return nil, fmt.Errorf("error parsing merchant rules file: %w", err)
	}

	log.WithFields(
		logging.Field{Key: logging.FieldFile, Value: s.File},
		logging.Field{Key: logging.FieldCount, Value: len(parsed.Merchants)},
	).Debug("Loaded user merchant rules")
	return append(parsed.Merchants, normalizer.DefaultRules...), nil
}
