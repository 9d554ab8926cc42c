// Package recurring implements the subscription detection commands.
package recurring

import (
	"path/filepath"

	"github.com/shopspring/decimal"
	"github.com/spf13/cobra"

	"btran/budget-csv/cmd/root"
	"btran/budget-csv/internal/recurring"
	"btran/budget-csv/internal/report"
	"btran/budget-csv/internal/statement"
	"btran/budget-csv/internal/store"
)

var changes bool

// Cmd represents the recurring command
var Cmd = &cobra.Command{
	Use:   "recurring",
	Short: "Detect recurring charges in processed spending data",
	Long: `Recurring scans the processed spending and checking expense files for
merchants charging a consistent amount month after month. With --changes it
splits the window in half and reports new, cancelled and price-changed
subscriptions instead.`,
	Run: recurringFunc,
}

func init() {
	Cmd.Flags().BoolVar(&changes, "changes", false, "Report subscription changes between the earlier and later half of the window")
}

func recurringFunc(cmd *cobra.Command, args []string) {
	cfg := root.Cfg
	outDir := root.ResolvedOutputDir()

	spending, err := store.LoadTransactions(filepath.Join(outDir, "all_transactions.csv"))
	if err != nil {
		root.Log.Fatalf("Failed to load spending data: %v", err)
	}
	checking, err := store.LoadTransactions(filepath.Join(outDir, "all_checking_spending.csv"))
	if err != nil {
		root.Log.Fatalf("Failed to load checking data: %v", err)
	}

	txs := append(spending, checking...)
	txs = statement.FilterYear(txs, root.ResolvedYear())
	if len(txs) == 0 {
		root.Log.Warn("No processed transactions found; run process first")
		return
	}

	if changes {
		alerts := recurring.DetectChanges(txs, cfg.Recurring.AmountTolerance)
		if len(alerts) == 0 {
			root.Log.Info("No subscription changes detected")
			return
		}
		for _, alert := range alerts {
			root.Log.WithField("merchant", alert.Merchant).
				WithField("type", alert.Type).
				Info(alert.Detail)
		}
		return
	}

	opts := recurring.Options{
		AmountTolerance:      cfg.Recurring.AmountTolerance,
		MinConsecutiveMonths: cfg.Recurring.MinConsecutiveMonths,
		MaxMonthlyFrequency:  cfg.Recurring.MaxMonthlyFrequency,
	}
	merchants := recurring.Detect(txs, opts)
	if len(merchants) == 0 {
		root.Log.Info("No recurring charges detected")
		return
	}

	annual := decimal.Zero
	for _, m := range merchants {
		root.Log.WithField("merchant", m.Name).
			WithField("monthly", m.MonthlyAmount.StringFixed(2)).
			WithField("months_active", m.MonthsActive).
			Info("Recurring charge detected")
		annual = annual.Add(m.AnnualProjected)
	}
	root.Log.WithField("merchants", len(merchants)).
		WithField("annual_projected", annual.StringFixed(2)).
		Info("Recurring detection complete")

	gen := report.NewGenerator(nil)
	outFile := filepath.Join(outDir, "recurring_merchants.csv")
	if err := gen.WriteRecurringReport(merchants, outFile); err != nil {
		root.Log.Fatalf("Failed to write recurring report: %v", err)
	}
}
