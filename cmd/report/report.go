// Package report implements the summary generation commands.
package report

import (
	"fmt"
	"path/filepath"

	"github.com/spf13/cobra"

	"btran/budget-csv/cmd/root"
	"btran/budget-csv/internal/report"
	"btran/budget-csv/internal/store"
)

// Cmd represents the report command
var Cmd = &cobra.Command{
	Use:   "report",
	Short: "Generate monthly and annual spending summaries",
	Long: `Report builds summary CSVs from the processed data files. The annual
summary pivots spending by category and month and appends income, total
expense and net savings rows. With --month it builds a single-month category
summary with comparisons against the previous month and the same month last
year.`,
	Run: reportFunc,
}

func init() {
	Cmd.Flags().IntVarP(&root.Month, "month", "m", 0, "Month number (1-12) for a monthly summary")
}

func reportFunc(cmd *cobra.Command, args []string) {
	year := root.ResolvedYear()
	if year == 0 {
		root.Log.Fatal("A year is required for reports; pass --year or set data.year")
	}
	if root.Month < 0 || root.Month > 12 {
		root.Log.Fatalf("Invalid month: %d", root.Month)
	}

	outDir := root.ResolvedOutputDir()
	spending, err := store.LoadTransactions(filepath.Join(outDir, "all_transactions.csv"))
	if err != nil {
		root.Log.Fatalf("Failed to load spending data: %v", err)
	}
	if len(spending) == 0 {
		root.Log.Warn("No processed transactions found; run process first")
		return
	}

	gen := report.NewGenerator(nil)

	if root.Month != 0 {
		rows := gen.MonthlySummary(spending, year, root.Month)
		if rows == nil {
			root.Log.Warnf("No spending found for %d-%02d", year, root.Month)
			return
		}
		outFile := filepath.Join(outDir, fmt.Sprintf("monthly_summary_%d_%02d.csv", year, root.Month))
		if err := gen.WriteMonthlySummary(rows, outFile); err != nil {
			root.Log.Fatalf("Failed to write monthly summary: %v", err)
		}
		root.Log.WithField("file_path", outFile).Info("Monthly summary written")
		return
	}

	income, err := store.LoadTransactions(filepath.Join(outDir, "all_income.csv"))
	if err != nil {
		root.Log.Fatalf("Failed to load income data: %v", err)
	}
	checking, err := store.LoadTransactions(filepath.Join(outDir, "all_checking_spending.csv"))
	if err != nil {
		root.Log.Fatalf("Failed to load checking data: %v", err)
	}

	records := gen.AnnualSummary(spending, income, checking, year)
	if records == nil {
		root.Log.Warnf("No spending found for %d", year)
		return
	}
	outFile := filepath.Join(outDir, fmt.Sprintf("annual_summary_%d.csv", year))
	if err := gen.WriteAnnualSummary(records, outFile); err != nil {
		root.Log.Fatalf("Failed to write annual summary: %v", err)
	}
	root.Log.WithField("file_path", outFile).Info("Annual summary written")
}
