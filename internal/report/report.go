// Package report builds the derived CSV artifacts: monthly and annual
// category summaries, weekly and quarterly pivots, the recurring-charge
// report and the annotated transaction export.
package report

import (
	"fmt"
	"sort"
	"time"

	"github.com/shopspring/decimal"

	"btran/budget-csv/internal/common"
	"btran/budget-csv/internal/dateutils"
	"btran/budget-csv/internal/logging"
	"btran/budget-csv/internal/models"
	"btran/budget-csv/internal/recurring"
	"btran/budget-csv/internal/store"
)

// Generator builds report artifacts. Now is injectable so elapsed-month math
// is testable.
type Generator struct {
	logger logging.Logger
	now    func() time.Time
}

// NewGenerator creates a Generator.
func NewGenerator(logger logging.Logger) *Generator {
	if logger == nil {
		logger = logging.GetLogger()
	}
	return &Generator{logger: logger, now: time.Now}
}

// SetNow overrides the clock used for elapsed-month calculations.
func (g *Generator) SetNow(now func() time.Time) {
	g.now = now
}

// MonthlySummaryRow is one line of the monthly category summary. Comparison
// columns are empty strings when no prior period exists.
type MonthlySummaryRow struct {
	Category       string `csv:"Category"`
	TotalSpent     string `csv:"Total_Spent"`
	Transactions   int    `csv:"Transactions"`
	PctOfTotal     string `csv:"Pct_of_Total"`
	VsPrevMonth    string `csv:"vs_Prev_Month_$"`
	VsPrevMonthPct string `csv:"vs_Prev_Month_%"`
	VsLastYear     string `csv:"vs_Same_Month_Last_Year_$"`
	VsLastYearPct  string `csv:"vs_Same_Month_Last_Year_%"`
}

// MonthlySummary summarizes one month's spending per category with deltas
// against the previous month and the same month last year. The input stream
// may span multiple years; only spending rows belong in it. Rows are sorted
// by total descending with a TOTAL line appended.
func (g *Generator) MonthlySummary(spending []models.Transaction, year, month int) []MonthlySummaryRow {
	current := categoryTotals(spending, year, month)
	if len(current.totals) == 0 {
		return nil
	}

	var prev, lastYear monthTotals
	if month > 1 {
		prev = categoryTotals(spending, year, month-1)
	}
	lastYear = categoryTotals(spending, year-1, month)

	grandTotal := decimal.Zero
	for _, total := range current.totals {
		grandTotal = grandTotal.Add(total)
	}

	categories := sortedByTotalDesc(current.totals)

	var rows []MonthlySummaryRow
	txTotal := 0
	prevDelta, lastYearDelta := decimal.Zero, decimal.Zero
	hasPrev, hasLastYear := false, false

	for _, category := range categories {
		total := current.totals[category]
		row := MonthlySummaryRow{
			Category:     category,
			TotalSpent:   total.StringFixed(2),
			Transactions: current.counts[category],
			PctOfTotal:   pctString(total, grandTotal),
		}
		txTotal += current.counts[category]

		if month > 1 {
			base := prev.totals[category]
			delta := total.Sub(base)
			row.VsPrevMonth = delta.StringFixed(2)
			if !base.IsZero() {
				row.VsPrevMonthPct = pctString(delta, base)
			}
			prevDelta = prevDelta.Add(delta)
			hasPrev = true
		}
		if len(lastYear.totals) > 0 {
			base := lastYear.totals[category]
			delta := total.Sub(base)
			row.VsLastYear = delta.StringFixed(2)
			if !base.IsZero() {
				row.VsLastYearPct = pctString(delta, base)
			}
			lastYearDelta = lastYearDelta.Add(delta)
			hasLastYear = true
		}
		rows = append(rows, row)
	}

	totalRow := MonthlySummaryRow{
		Category:     "TOTAL",
		TotalSpent:   grandTotal.StringFixed(2),
		Transactions: txTotal,
		PctOfTotal:   "100.0",
	}
	if hasPrev {
		totalRow.VsPrevMonth = prevDelta.StringFixed(2)
	}
	if hasLastYear {
		totalRow.VsLastYear = lastYearDelta.StringFixed(2)
	}
	return append(rows, totalRow)
}

// WriteMonthlySummary writes the monthly summary to a CSV file.
func (g *Generator) WriteMonthlySummary(rows []MonthlySummaryRow, filePath string) error {
	return common.WriteCSVFile(rows, filePath)
}

// AnnualSummary builds the category-by-month pivot for one year, with
// Annual_Total, Monthly_Avg, Min_Month and Max_Month per category, followed
// by MONTHLY TOTAL and MONTHLY AVERAGE rows and, when income data exists, an
// INCOME / TOTAL EXPENSES / NET SAVINGS / SAVINGS RATE block.
//
// Monthly averages divide by elapsed months for the current year so a
// half-finished year is not diluted by empty future months.
func (g *Generator) AnnualSummary(spending, income, checking []models.Transaction, year int) [][]string {
	elapsed := 12
	if now := g.now(); year == now.Year() {
		elapsed = int(now.Month())
	}

	byCategory := make(map[string][12]decimal.Decimal)
	for _, tx := range spending {
		if tx.Year() != year {
			continue
		}
		months := byCategory[tx.BudgetCategory]
		months[tx.Month()-1] = months[tx.Month()-1].Add(tx.Amount)
		byCategory[tx.BudgetCategory] = months
	}
	if len(byCategory) == 0 {
		return nil
	}

	annualTotals := make(map[string]decimal.Decimal, len(byCategory))
	for category, months := range byCategory {
		total := decimal.Zero
		for _, m := range months {
			total = total.Add(m)
		}
		annualTotals[category] = total
	}
	categories := sortedByTotalDesc(annualTotals)

	header := []string{"Category"}
	for m := 1; m <= 12; m++ {
		header = append(header, dateutils.MonthAbbrev(m))
	}
	header = append(header, "Annual_Total", "Monthly_Avg", "Min_Month", "Max_Month")
	records := [][]string{header}

	var monthlyTotal [12]decimal.Decimal
	for _, category := range categories {
		months := byCategory[category]
		row := []string{category}
		for i := 0; i < 12; i++ {
			row = append(row, months[i].StringFixed(2))
			monthlyTotal[i] = monthlyTotal[i].Add(months[i])
		}
		total := annualTotals[category]
		row = append(row,
			total.StringFixed(2),
			monthlyAvg(total, elapsed),
			minNonZero(months[:]),
			maxMonth(months[:]),
		)
		records = append(records, row)
	}

	grandTotal := decimal.Zero
	for _, m := range monthlyTotal {
		grandTotal = grandTotal.Add(m)
	}

	totalRow := []string{"MONTHLY TOTAL"}
	avgRow := []string{"MONTHLY AVERAGE"}
	for i := 0; i < 12; i++ {
		totalRow = append(totalRow, monthlyTotal[i].StringFixed(2))
		avgRow = append(avgRow, divide(monthlyTotal[i], elapsed).StringFixed(2))
	}
	totalRow = append(totalRow, grandTotal.StringFixed(2), monthlyAvg(grandTotal, elapsed),
		minNonZero(monthlyTotal[:]), maxMonth(monthlyTotal[:]))
	avgRow = append(avgRow, divide(grandTotal, elapsed).StringFixed(2), "", "", "")
	records = append(records, totalRow, avgRow)

	if len(income) > 0 {
		records = append(records, g.cashflowRows(income, checking, monthlyTotal, grandTotal, year, elapsed)...)
	}
	return records
}

// cashflowRows builds the INCOME through SAVINGS RATE block of the annual
// summary. Checking expenses fold into TOTAL EXPENSES so net savings reflects
// both cards and the checking account.
func (g *Generator) cashflowRows(income, checking []models.Transaction, monthlyTotal [12]decimal.Decimal, grandTotal decimal.Decimal, year, elapsed int) [][]string {
	var incomeMonthly, expenseMonthly [12]decimal.Decimal
	for _, tx := range income {
		if tx.Year() == year {
			incomeMonthly[tx.Month()-1] = incomeMonthly[tx.Month()-1].Add(tx.Amount)
		}
	}
	copy(expenseMonthly[:], monthlyTotal[:])
	for _, tx := range checking {
		if tx.Year() == year {
			expenseMonthly[tx.Month()-1] = expenseMonthly[tx.Month()-1].Add(tx.Amount)
		}
	}

	incomeTotal, expenseTotal := decimal.Zero, decimal.Zero
	for i := 0; i < 12; i++ {
		incomeTotal = incomeTotal.Add(incomeMonthly[i])
		expenseTotal = expenseTotal.Add(expenseMonthly[i])
	}
	netTotal := incomeTotal.Sub(expenseTotal)

	blank := make([]string, 17)
	incomeRow := []string{"INCOME"}
	expenseRow := []string{"TOTAL EXPENSES"}
	netRow := []string{"NET SAVINGS"}
	rateRow := []string{"SAVINGS RATE"}
	for i := 0; i < 12; i++ {
		net := incomeMonthly[i].Sub(expenseMonthly[i])
		incomeRow = append(incomeRow, incomeMonthly[i].StringFixed(2))
		expenseRow = append(expenseRow, expenseMonthly[i].StringFixed(2))
		netRow = append(netRow, net.StringFixed(2))
		if incomeMonthly[i].IsPositive() {
			rateRow = append(rateRow, pctString(net, incomeMonthly[i]))
		} else {
			rateRow = append(rateRow, "0.0")
		}
	}

	incomeRow = append(incomeRow, incomeTotal.StringFixed(2), monthlyAvg(incomeTotal, elapsed), "", "")
	expenseRow = append(expenseRow, expenseTotal.StringFixed(2), monthlyAvg(expenseTotal, elapsed), "", "")
	netRow = append(netRow, netTotal.StringFixed(2), monthlyAvg(netTotal, elapsed), "", "")
	annualRate := "0.0"
	if incomeTotal.IsPositive() {
		annualRate = pctString(netTotal, incomeTotal)
	}
	rateRow = append(rateRow, annualRate, "", "", "")

	return [][]string{blank, incomeRow, expenseRow, netRow, rateRow}
}

// WriteAnnualSummary writes the annual pivot to a CSV file.
func (g *Generator) WriteAnnualSummary(records [][]string, filePath string) error {
	return common.WriteRecords(records, filePath)
}

// WeeklySummary pivots spending by ISO week and category with a Total column.
func (g *Generator) WeeklySummary(spending []models.Transaction, year int) [][]string {
	return g.periodSummary(spending, year, "Week", func(tx models.Transaction) int {
		_, week := tx.Date.Time.ISOWeek()
		return week
	})
}

// QuarterlySummary pivots spending by calendar quarter and category with a
// Total column.
func (g *Generator) QuarterlySummary(spending []models.Transaction, year int) [][]string {
	return g.periodSummary(spending, year, "Quarter", func(tx models.Transaction) int {
		return dateutils.Quarter(tx.Date.Time)
	})
}

// periodSummary builds a period-by-category pivot. Categories are columns in
// sorted order; periods are rows in ascending order.
func (g *Generator) periodSummary(spending []models.Transaction, year int, periodName string, period func(models.Transaction) int) [][]string {
	cells := make(map[int]map[string]decimal.Decimal)
	categorySet := make(map[string]bool)
	for _, tx := range spending {
		if tx.Year() != year {
			continue
		}
		p := period(tx)
		if cells[p] == nil {
			cells[p] = make(map[string]decimal.Decimal)
		}
		cells[p][tx.BudgetCategory] = cells[p][tx.BudgetCategory].Add(tx.Amount)
		categorySet[tx.BudgetCategory] = true
	}
	if len(cells) == 0 {
		return nil
	}

	categories := make([]string, 0, len(categorySet))
	for category := range categorySet {
		categories = append(categories, category)
	}
	sort.Strings(categories)

	periods := make([]int, 0, len(cells))
	for p := range cells {
		periods = append(periods, p)
	}
	sort.Ints(periods)

	header := append([]string{periodName}, categories...)
	header = append(header, "Total")
	records := [][]string{header}

	for _, p := range periods {
		row := []string{fmt.Sprintf("%d", p)}
		total := decimal.Zero
		for _, category := range categories {
			amount := cells[p][category]
			row = append(row, amount.StringFixed(2))
			total = total.Add(amount)
		}
		row = append(row, total.StringFixed(2))
		records = append(records, row)
	}
	return records
}

// WritePeriodSummary writes a weekly or quarterly pivot to a CSV file.
func (g *Generator) WritePeriodSummary(records [][]string, filePath string) error {
	return common.WriteRecords(records, filePath)
}

// WriteRecurringReport writes detected recurring merchants to a CSV file.
func (g *Generator) WriteRecurringReport(merchants []recurring.Merchant, filePath string) error {
	return common.WriteCSVFile(merchants, filePath)
}

// ExportRow is one line of the annotated transaction export.
type ExportRow struct {
	Date     models.Date `csv:"Date"`
	Merchant string      `csv:"Merchant"`
	Category string      `csv:"Category"`
	Amount   string      `csv:"Amount"`
	Note     string      `csv:"Note"`
	Tags     string      `csv:"Tags"`
}

// TransactionExport joins transactions with their notes and tags for a flat
// export. Input order is preserved.
func (g *Generator) TransactionExport(txs []models.Transaction, notes []store.Note) []ExportRow {
	byKey := make(map[string]store.Note, len(notes))
	for _, note := range notes {
		byKey[note.TxKey] = note
	}
	keys := store.KeyTransactions(txs)

	rows := make([]ExportRow, len(txs))
	for i, tx := range txs {
		note := byKey[keys[i]]
		rows[i] = ExportRow{
			Date:     tx.Date,
			Merchant: tx.Merchant,
			Category: tx.BudgetCategory,
			Amount:   tx.Amount.StringFixed(2),
			Note:     note.Note,
			Tags:     note.Tags,
		}
	}
	return rows
}

// WriteTransactionExport writes the annotated export to a CSV file.
func (g *Generator) WriteTransactionExport(rows []ExportRow, filePath string) error {
	return common.WriteCSVFile(rows, filePath)
}

// monthTotals holds one month's per-category sums and transaction counts.
type monthTotals struct {
	totals map[string]decimal.Decimal
	counts map[string]int
}

func categoryTotals(txs []models.Transaction, year, month int) monthTotals {
	result := monthTotals{
		totals: make(map[string]decimal.Decimal),
		counts: make(map[string]int),
	}
	for _, tx := range txs {
		if tx.Year() != year || tx.Month() != month {
			continue
		}
		result.totals[tx.BudgetCategory] = result.totals[tx.BudgetCategory].Add(tx.Amount)
		result.counts[tx.BudgetCategory]++
	}
	return result
}

// sortedByTotalDesc orders category names by their total descending, ties
// broken by name so output is deterministic.
func sortedByTotalDesc(totals map[string]decimal.Decimal) []string {
	names := make([]string, 0, len(totals))
	for name := range totals {
		names = append(names, name)
	}
	sort.Slice(names, func(i, j int) bool {
		if !totals[names[i]].Equal(totals[names[j]]) {
			return totals[names[i]].GreaterThan(totals[names[j]])
		}
		return names[i] < names[j]
	})
	return names
}

func pctString(part, whole decimal.Decimal) string {
	if whole.IsZero() {
		return "0.0"
	}
	pct := part.Div(whole).Mul(decimal.NewFromInt(100))
	return fmt.Sprintf("%.1f", pct.InexactFloat64())
}

func divide(total decimal.Decimal, months int) decimal.Decimal {
	if months <= 0 {
		return decimal.Zero
	}
	return total.Div(decimal.NewFromInt(int64(months))).Round(2)
}

func monthlyAvg(total decimal.Decimal, elapsed int) string {
	return divide(total, elapsed).StringFixed(2)
}

// minNonZero returns the smallest nonzero month total, empty when every
// month is zero. Zero months are inactivity, not cheap months.
func minNonZero(months []decimal.Decimal) string {
	var min decimal.Decimal
	found := false
	for _, m := range months {
		if m.IsZero() {
			continue
		}
		if !found || m.LessThan(min) {
			min = m
			found = true
		}
	}
	if !found {
		return ""
	}
	return min.StringFixed(2)
}

func maxMonth(months []decimal.Decimal) string {
	if len(months) == 0 {
		return ""
	}
	max := months[0]
	for _, m := range months[1:] {
		if m.GreaterThan(max) {
			max = m
		}
	}
	return max.StringFixed(2)
}
