// Package process implements the batch ingestion command.
package process

import (
	"path/filepath"

	"github.com/spf13/cobra"

	"btran/budget-csv/cmd/root"
	"btran/budget-csv/internal/models"
	"btran/budget-csv/internal/pipeline"
	"btran/budget-csv/internal/report"
	"btran/budget-csv/internal/statement"
	"btran/budget-csv/internal/store"
)

// Cmd represents the process command
var Cmd = &cobra.Command{
	Use:   "process",
	Short: "Ingest statement exports and generate categorized spending files",
	Long: `Process loads every CSV export from the statements and checking
directories, normalizes merchant names, assigns budget categories, splits
card payments and checking income/transfers from spending, and writes the
combined data files the reports are built from.`,
	Run: processFunc,
}

func init() {
	Cmd.Flags().StringVarP(&root.StatementsDir, "statements", "s", "", "Credit card statements directory (overrides configuration)")
	Cmd.Flags().StringVarP(&root.CheckingDir, "checking", "c", "", "Checking account statements directory (overrides configuration)")
}

func processFunc(cmd *cobra.Command, args []string) {
	cfg := root.Cfg

	statementsDir := cfg.Data.StatementsDir
	if root.StatementsDir != "" {
		statementsDir = root.StatementsDir
	}
	checkingDir := cfg.Data.CheckingDir
	if root.CheckingDir != "" {
		checkingDir = root.CheckingDir
	}

	ruleStore := store.NewRuleStore(cfg.Data.RulesFile)
	rules, err := ruleStore.LoadMerchantRules()
	if err != nil {
		root.Log.Fatalf("Failed to load merchant rules: %v", err)
	}

	mappingStore := store.NewMappingStore(cfg.Data.MappingsFile)
	overrides, err := mappingStore.Load()
	if err != nil {
		root.Log.Fatalf("Failed to load category mappings: %v", err)
	}

	credit, err := statement.LoadDir(statementsDir, models.AccountTypeCredit, "credit_card")
	if err != nil {
		root.Log.Fatalf("Failed to load statements: %v", err)
	}
	checking, err := statement.LoadDir(checkingDir, models.AccountTypeChecking, "checking")
	if err != nil {
		root.Log.Warnf("Failed to load checking statements: %v", err)
	}

	all := append(credit, checking...)
	all = statement.FilterYear(all, root.ResolvedYear())
	if len(all) == 0 {
		root.Log.Warn("No transactions found to process")
		return
	}

	p := pipeline.New(rules, overrides, nil)
	result := p.Process(all)

	for _, merchant := range result.UnreviewedMerchants() {
		root.Log.WithField("merchant", merchant).
			WithField("transactions", result.Unreviewed[merchant]).
			Info("Merchant needs category review")
	}

	outDir := root.ResolvedOutputDir()
	outputs := []struct {
		txs  []models.Transaction
		name string
	}{
		{result.Spending, "all_transactions.csv"},
		{result.Payments, "all_credit_card_payments.csv"},
		{result.Income, "all_income.csv"},
		{result.CheckingExpenses, "all_checking_spending.csv"},
	}
	for _, out := range outputs {
		if len(out.txs) == 0 {
			continue
		}
		if err := store.WriteTransactions(out.txs, filepath.Join(outDir, out.name)); err != nil {
			root.Log.Fatalf("Failed to write %s: %v", out.name, err)
		}
	}

	if year := root.ResolvedYear(); year != 0 {
		gen := report.NewGenerator(nil)
		if weekly := gen.WeeklySummary(result.Spending, year); weekly != nil {
			if err := gen.WritePeriodSummary(weekly, filepath.Join(outDir, "weekly_summary.csv")); err != nil {
				root.Log.Warnf("Failed to write weekly summary: %v", err)
			}
		}
		if quarterly := gen.QuarterlySummary(result.Spending, year); quarterly != nil {
			if err := gen.WritePeriodSummary(quarterly, filepath.Join(outDir, "quarterly_summary.csv")); err != nil {
				root.Log.Warnf("Failed to write quarterly summary: %v", err)
			}
		}
	}

	root.Log.WithField("spending", len(result.Spending)).
		WithField("payments", len(result.Payments)).
		WithField("income", len(result.Income)).
		WithField("checking_expenses", len(result.CheckingExpenses)).
		Info("Processing complete")
}
