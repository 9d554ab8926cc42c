// Package categorizer resolves budget categories for transactions through a
// layered rule cascade:
// 1. Exact human overrides from the persisted mapping table
// 2. A fixed bank-category fallback table
// 3. Utility sub-classification for the bank's generic bills bucket
// 4. Generic merchant keywords
// 5. The default category, surfaced to the caller as unreviewed
package categorizer

import (
	"strings"

	"btran/budget-csv/internal/logging"
	"btran/budget-csv/internal/models"
)

// BankCategoryFallback maps common bank-assigned categories to budget
// categories. Exact match on the bank label.
var BankCategoryFallback = map[string]string{
	"Food & Drink":      "Restaurants",
	"Vehicle Services":  "Gas",
	"Health & Wellness": "Health / Doctors",
	"Groceries":         "Groceries",
	"Home":              "Home Furniture",
	"Travel":            "Vacation",
	"Automotive":        "Car Maintenance",
}

// BillsBucket is the bank's generic utilities category that triggers
// merchant-keyword sub-classification.
const BillsBucket = "Bills & Utilities"

// UtilityGroup routes a Bills & Utilities merchant to a specific home
// category by keyword. Groups are checked in order, first match wins.
type UtilityGroup struct {
	Keywords []string
	Category string
}

// UtilityGroups is the ordered utility sub-classification table.
var UtilityGroups = []UtilityGroup{
	{Keywords: []string{"electric", "srp", "power"}, Category: "Home Electricity"},
	{Keywords: []string{"water", "trash", "sewer", "city of"}, Category: "Home Water/Trash"},
	{Keywords: []string{"internet", "cox", "wifi"}, Category: "Internet"},
	{Keywords: []string{"phone", "verizon", "mobile", "t-mobile"}, Category: "Phone Bill"},
}

// genericKeywords is the last keyword layer before the default fires.
var genericKeywords = []struct {
	keywords []string
	category string
}{
	{keywords: []string{"gas", "fuel"}, category: "Gas"},
	{keywords: []string{"food", "restaurant"}, category: "Restaurants"},
}

// Resolver assigns budget categories. The override table and the fallback
// tables are fixed at construction; Resolve is pure and safe to call
// concurrently across independent transaction sets.
type Resolver struct {
	overrides models.OverrideTable
	logger    logging.Logger
}

// NewResolver creates a Resolver over the given override table. The table is
// copied so later edits through the store do not race with classification;
// they are picked up on the next full run.
func NewResolver(overrides models.OverrideTable, logger logging.Logger) *Resolver {
	if logger == nil {
		logger = logging.GetLogger()
	}
	return &Resolver{
		overrides: overrides.Clone(),
		logger:    logger,
	}
}

// Resolve returns the budget category for a canonical merchant and bank
// category. It is total: the result is always a member of the fixed budget
// category set. The second return value reports whether any rule matched;
// false means the default fired and the merchant should be surfaced for
// human review.
func (r *Resolver) Resolve(merchant, bankCategory string) (string, bool) {
	if bankCategory == "" {
		bankCategory = models.BankCategoryUncategorized
	}

	// Layer 1: exact override, the human-correctable layer.
	if category, ok := r.overrides[models.OverrideKey{Merchant: merchant, BankCategory: bankCategory}]; ok {
		return category, true
	}

	// Layer 2: bank-category fallback.
	if category, ok := BankCategoryFallback[bankCategory]; ok {
		return category, true
	}

	// Layer 3: utility sub-classification.
	if bankCategory == BillsBucket {
		lower := strings.ToLower(merchant)
		for _, group := range UtilityGroups {
			for _, keyword := range group.Keywords {
				if strings.Contains(lower, keyword) {
					return group.Category, true
				}
			}
		}
	}

	// Layer 4: generic merchant keywords.
	lower := strings.ToLower(merchant)
	for _, entry := range genericKeywords {
		for _, keyword := range entry.keywords {
			if strings.Contains(lower, keyword) {
				return entry.category, true
			}
		}
	}

	// Layer 5: default. The caller surfaces these so a human can record an
	// exact override.
	r.logger.WithFields(
		logging.Field{Key: logging.FieldMerchant, Value: merchant},
		logging.Field{Key: logging.FieldCategory, Value: bankCategory},
	).Debug("No categorization rule matched, using default")
	return models.CategoryPersonal, false
}
