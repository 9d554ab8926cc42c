// Package categorize handles one-off merchant categorization and overrides.
package categorize

import (
	"github.com/spf13/cobra"

	"btran/budget-csv/cmd/root"
	"btran/budget-csv/internal/categorizer"
	"btran/budget-csv/internal/models"
	"btran/budget-csv/internal/normalizer"
	"btran/budget-csv/internal/store"
)

var (
	description  string
	bankCategory string
	setCategory  string
)

// Cmd represents the categorize command
var Cmd = &cobra.Command{
	Use:   "categorize",
	Short: "Resolve or override the budget category for a merchant",
	Long: `Categorize normalizes a raw statement description and runs it through
the category cascade, printing the result. With --set it records a permanent
override in the mapping table instead.`,
	Run: categorizeFunc,
}

func init() {
	Cmd.Flags().StringVarP(&description, "description", "d", "", "Raw statement description or merchant name")
	Cmd.Flags().StringVarP(&bankCategory, "bank-category", "b", "", "Bank-assigned category (optional)")
	Cmd.Flags().StringVarP(&setCategory, "set", "s", "", "Budget category to record as a permanent override")
	if err := Cmd.MarkFlagRequired("description"); err != nil {
		panic(err)
	}
}

func categorizeFunc(cmd *cobra.Command, args []string) {
	cfg := root.Cfg

	ruleStore := store.NewRuleStore(cfg.Data.RulesFile)
	rules, err := ruleStore.LoadMerchantRules()
	if err != nil {
		root.Log.Fatalf("Failed to load merchant rules: %v", err)
	}
	merchant := normalizer.New(rules).Normalize(description)

	mappingStore := store.NewMappingStore(cfg.Data.MappingsFile)

	if setCategory != "" {
		if !models.IsBudgetCategory(setCategory) {
			root.Log.Fatalf("Unknown budget category: %s", setCategory)
		}
		bank := bankCategory
		if bank == "" {
			bank = models.BankCategoryUncategorized
		}
		entry := models.OverrideTable{
			{Merchant: merchant, BankCategory: bank}: setCategory,
		}
		if err := mappingStore.Upsert(entry); err != nil {
			root.Log.Fatalf("Failed to save override: %v", err)
		}
		root.Log.WithField("merchant", merchant).
			WithField("category", setCategory).
			Info("Override recorded")
		return
	}

	overrides, err := mappingStore.Load()
	if err != nil {
		root.Log.Fatalf("Failed to load category mappings: %v", err)
	}

	resolver := categorizer.NewResolver(overrides, nil)
	category, matched := resolver.Resolve(merchant, bankCategory)

	entry := root.Log.WithField("merchant", merchant).WithField("category", category)
	if matched {
		entry.Info("Category resolved")
	} else {
		entry.Info("No rule matched; default category assigned")
	}
}
