// Package recurring detects merchants with statistically consistent monthly
// charges from an unlabeled transaction stream, and compares sub-periods to
// flag new, cancelled and price-changed subscriptions.
package recurring

import (
	"fmt"
	"math"
	"sort"
	"strings"

	"github.com/shopspring/decimal"

	"btran/budget-csv/internal/dateutils"
	"btran/budget-csv/internal/models"
)

// Spending type labels assigned from detection results.
const (
	SpendingTypeFixed    = "Fixed"
	SpendingTypeVariable = "Variable"
)

// Options tune the detector. Zero values are not meaningful; start from
// DefaultOptions.
type Options struct {
	// AmountTolerance is the maximum sample standard deviation of a
	// merchant's monthly totals for it to count as recurring.
	AmountTolerance float64
	// MinConsecutiveMonths is the minimum length of the longest run of
	// consecutive active months.
	MinConsecutiveMonths int
	// MaxMonthlyFrequency filters out high-frequency venues (weekly grocery
	// runs) that are real spending but not subscriptions.
	MaxMonthlyFrequency float64
}

// DefaultOptions returns the standard detection thresholds.
func DefaultOptions() Options {
	return Options{
		AmountTolerance:      2.0,
		MinConsecutiveMonths: 2,
		MaxMonthlyFrequency:  2.0,
	}
}

// Merchant is one detected recurring charge. Records are recomputed from a
// transaction window on demand and never persisted; they have no identity
// across runs.
type Merchant struct {
	Name              string          `csv:"Clean_Description"`
	BudgetCategory    string          `csv:"Budget_Category"`
	MonthlyAmount     decimal.Decimal `csv:"Monthly_Amount"`
	MonthsActive      int             `csv:"Months_Active"`
	ConsecutiveMonths int             `csv:"Consecutive_Months"`
	ActiveRange       string          `csv:"Active_Range"`
	AnnualProjected   decimal.Decimal `csv:"Annual_Projected"`
	AmountStd         float64         `csv:"Amount_Std"`
}

// Alert types emitted by DetectChanges.
const (
	AlertNew           = "new"
	AlertCancelled     = "cancelled"
	AlertPriceIncrease = "price_increase"
	AlertPriceDecrease = "price_decrease"
)

// Alert describes a change in a merchant's recurring status between the
// earlier and the later half of a window.
type Alert struct {
	Type      string
	Merchant  string
	Detail    string
	OldAmount decimal.Decimal
	NewAmount decimal.Decimal
	Delta     decimal.Decimal
}

// monthBucket aggregates one merchant's activity in one calendar month.
type monthBucket struct {
	total decimal.Decimal
	count int
}

// Detect finds merchants with consistent monthly charges in the given
// transactions. All four filters must pass: enough active months, a long
// enough consecutive run, amount stability, and low transaction frequency.
// Results are sorted by merchant name.
func Detect(txs []models.Transaction, opts Options) []Merchant {
	buckets := make(map[string]map[int]*monthBucket)
	categories := make(map[string]map[string]int)
	categoryOrder := make(map[string][]string)

	for _, tx := range txs {
		if tx.Date.IsZero() {
			continue
		}
		month := tx.Month()

		months, ok := buckets[tx.Merchant]
		if !ok {
			months = make(map[int]*monthBucket)
			buckets[tx.Merchant] = months
		}
		bucket, ok := months[month]
		if !ok {
			bucket = &monthBucket{}
			months[month] = bucket
		}
		bucket.total = bucket.total.Add(tx.Amount)
		bucket.count++

		cats, ok := categories[tx.Merchant]
		if !ok {
			cats = make(map[string]int)
			categories[tx.Merchant] = cats
		}
		if cats[tx.BudgetCategory] == 0 {
			categoryOrder[tx.Merchant] = append(categoryOrder[tx.Merchant], tx.BudgetCategory)
		}
		cats[tx.BudgetCategory]++
	}

	names := make([]string, 0, len(buckets))
	for name := range buckets {
		names = append(names, name)
	}
	sort.Strings(names)

	var results []Merchant
	for _, name := range names {
		months := buckets[name]

		monthNums := make([]int, 0, len(months))
		for m := range months {
			monthNums = append(monthNums, m)
		}
		sort.Ints(monthNums)

		if len(monthNums) < opts.MinConsecutiveMonths {
			continue
		}
		if longestConsecutiveRun(monthNums) < opts.MinConsecutiveMonths {
			continue
		}

		totals := make([]decimal.Decimal, 0, len(monthNums))
		txCount := 0
		for _, m := range monthNums {
			totals = append(totals, months[m].total)
			txCount += months[m].count
		}

		std := sampleStd(totals)
		if std > opts.AmountTolerance {
			continue
		}
		if float64(txCount)/float64(len(monthNums)) > opts.MaxMonthlyFrequency {
			continue
		}

		monthly := median(totals).Round(2)
		results = append(results, Merchant{
			Name:              name,
			BudgetCategory:    modalCategory(categories[name], categoryOrder[name]),
			MonthlyAmount:     monthly,
			MonthsActive:      len(monthNums),
			ConsecutiveMonths: longestConsecutiveRun(monthNums),
			ActiveRange:       monthRange(monthNums),
			AnnualProjected:   monthly.Mul(decimal.NewFromInt(12)).Round(2),
			AmountStd:         math.Round(std*100) / 100,
		})
	}
	return results
}

// DetectChanges compares the earlier and later half of the window's active
// months and reports subscriptions that appeared, disappeared, or changed
// price by more than the tolerance. Fewer than three distinct active months
// is not enough signal to split, so the result is empty.
func DetectChanges(txs []models.Transaction, amountTolerance float64) []Alert {
	monthSet := make(map[int]bool)
	for _, tx := range txs {
		if !tx.Date.IsZero() {
			monthSet[tx.Month()] = true
		}
	}
	if len(monthSet) < 3 {
		return nil
	}

	months := make([]int, 0, len(monthSet))
	for m := range monthSet {
		months = append(months, m)
	}
	sort.Ints(months)

	midpoint := len(months) / 2
	earlierMonths := toSet(months[:midpoint])
	recentMonths := toSet(months[midpoint:])

	opts := DefaultOptions()
	opts.AmountTolerance = amountTolerance
	earlier := byName(Detect(filterByMonths(txs, earlierMonths), opts))
	recent := byName(Detect(filterByMonths(txs, recentMonths), opts))

	var alerts []Alert
	for name, m := range recent {
		if _, ok := earlier[name]; ok {
			continue
		}
		alerts = append(alerts, Alert{
			Type:      AlertNew,
			Merchant:  name,
			Detail:    fmt.Sprintf("New recurring charge: $%s/mo", m.MonthlyAmount.StringFixed(2)),
			NewAmount: m.MonthlyAmount,
		})
	}
	for name, m := range earlier {
		if _, ok := recent[name]; ok {
			continue
		}
		alerts = append(alerts, Alert{
			Type:      AlertCancelled,
			Merchant:  name,
			Detail:    fmt.Sprintf("No longer appears (was $%s/mo)", m.MonthlyAmount.StringFixed(2)),
			OldAmount: m.MonthlyAmount,
		})
	}
	for name, newM := range recent {
		oldM, ok := earlier[name]
		if !ok {
			continue
		}
		delta := newM.MonthlyAmount.Sub(oldM.MonthlyAmount)
		if delta.Abs().LessThanOrEqual(decimal.NewFromFloat(amountTolerance)) {
			continue
		}
		alertType := AlertPriceIncrease
		sign := "+"
		if delta.IsNegative() {
			alertType = AlertPriceDecrease
			sign = ""
		}
		alerts = append(alerts, Alert{
			Type:      alertType,
			Merchant:  name,
			Detail: fmt.Sprintf("$%s -> $%s/mo (%s%s)",
				oldM.MonthlyAmount.StringFixed(2), newM.MonthlyAmount.StringFixed(2),
				sign, delta.StringFixed(2)),
			OldAmount: oldM.MonthlyAmount,
			NewAmount: newM.MonthlyAmount,
			Delta:     delta,
		})
	}

	sort.Slice(alerts, func(i, j int) bool {
		if alerts[i].Type != alerts[j].Type {
			return alerts[i].Type < alerts[j].Type
		}
		return alerts[i].Merchant < alerts[j].Merchant
	})
	return alerts
}

// SpendingTypes labels each transaction Fixed when its merchant is in the
// detected recurring set, Variable otherwise. The slice is aligned with txs.
func SpendingTypes(txs []models.Transaction, merchants []Merchant) []string {
	recurringNames := make(map[string]bool, len(merchants))
	for _, m := range merchants {
		recurringNames[m.Name] = true
	}

	types := make([]string, len(txs))
	for i, tx := range txs {
		if recurringNames[tx.Merchant] {
			types[i] = SpendingTypeFixed
		} else {
			types[i] = SpendingTypeVariable
		}
	}
	return types
}

// longestConsecutiveRun scans sorted distinct month numbers and returns the
// length of the longest run where each month is the previous plus one.
func longestConsecutiveRun(months []int) int {
	if len(months) <= 1 {
		return len(months)
	}
	maxRun, run := 1, 1
	for i := 1; i < len(months); i++ {
		if months[i] == months[i-1]+1 {
			run++
			if run > maxRun {
				maxRun = run
			}
		} else {
			run = 1
		}
	}
	return maxRun
}

// sampleStd returns the sample standard deviation of the totals, or 0 when
// there are fewer than two data points (undefined std passes the tolerance
// filter).
func sampleStd(totals []decimal.Decimal) float64 {
	if len(totals) < 2 {
		return 0
	}
	var sum float64
	for _, t := range totals {
		sum += t.InexactFloat64()
	}
	mean := sum / float64(len(totals))

	var sq float64
	for _, t := range totals {
		d := t.InexactFloat64() - mean
		sq += d * d
	}
	return math.Sqrt(sq / float64(len(totals)-1))
}

// median returns the median of the totals (mean of the middle two for even
// counts). Median rather than mean keeps one-off surcharges from skewing the
// monthly amount.
func median(totals []decimal.Decimal) decimal.Decimal {
	if len(totals) == 0 {
		return decimal.Zero
	}
	sorted := make([]decimal.Decimal, len(totals))
	copy(sorted, totals)
	sort.Slice(sorted, func(i, j int) bool { return sorted[i].LessThan(sorted[j]) })

	mid := len(sorted) / 2
	if len(sorted)%2 == 1 {
		return sorted[mid]
	}
	return sorted[mid-1].Add(sorted[mid]).Div(decimal.NewFromInt(2))
}

// modalCategory picks the most frequent budget category, breaking ties by
// first appearance in the input.
func modalCategory(counts map[string]int, order []string) string {
	best, bestCount := models.CategoryPersonal, 0
	for _, cat := range order {
		if counts[cat] > bestCount {
			best, bestCount = cat, counts[cat]
		}
	}
	return best
}

// monthRange renders sorted month numbers as "Jan, Feb, Mar".
func monthRange(months []int) string {
	names := make([]string, len(months))
	for i, m := range months {
		names[i] = dateutils.MonthAbbrev(m)
	}
	return strings.Join(names, ", ")
}

func toSet(months []int) map[int]bool {
	set := make(map[int]bool, len(months))
	for _, m := range months {
		set[m] = true
	}
	return set
}

func filterByMonths(txs []models.Transaction, months map[int]bool) []models.Transaction {
	var out []models.Transaction
	for _, tx := range txs {
		if !tx.Date.IsZero() && months[tx.Month()] {
			out = append(out, tx)
		}
	}
	return out
}

func byName(merchants []Merchant) map[string]Merchant {
	out := make(map[string]Merchant, len(merchants))
	for _, m := range merchants {
		out[m.Name] = m
	}
	return out
}
