// Package pipeline runs statement batches through normalization and
// categorization and partitions the results into the streams the reports
// consume.
package pipeline

import (
	"sort"

	"btran/budget-csv/internal/categorizer"
	"btran/budget-csv/internal/logging"
	"btran/budget-csv/internal/models"
	"btran/budget-csv/internal/normalizer"
)

// Pipeline wires the normalizer and the category resolver together. Build one
// per run; the override table is snapshotted at construction.
type Pipeline struct {
	normalizer *normalizer.Normalizer
	resolver   *categorizer.Resolver
	logger     logging.Logger
}

// Result partitions a processed batch. Amounts in Spending, Payments and
// CheckingExpenses are positive money out; Income amounts are positive money
// in. Transfers are internal money movement and stay out of every aggregate.
type Result struct {
	Spending         []models.Transaction
	Payments         []models.Transaction
	Income           []models.Transaction
	CheckingExpenses []models.Transaction
	Transfers        []models.Transaction
	// Unreviewed counts transactions per merchant that fell through to the
	// default category and need a human override.
	Unreviewed map[string]int
}

// New creates a Pipeline over the given merchant rules and override table.
func New(rules []normalizer.Rule, overrides models.OverrideTable, logger logging.Logger) *Pipeline {
	if logger == nil {
		logger = logging.GetLogger()
	}
	return &Pipeline{
		normalizer: normalizer.New(rules),
		resolver:   categorizer.NewResolver(overrides, logger),
		logger:     logger,
	}
}

// Process classifies every transaction and splits the batch.
//
// Credit card rows arrive with spending already positive; card payment rows
// are diverted so paying the bill is never double-counted against the
// purchases it covers. Checking rows arrive with the bank's sign (positive
// money in) and are routed by the income/transfer/expense classifier; expense
// amounts are flipped to positive money out so they aggregate alongside card
// spending.
func (p *Pipeline) Process(txs []models.Transaction) Result {
	result := Result{Unreviewed: make(map[string]int)}

	for _, tx := range txs {
		tx.Merchant = p.normalizer.Normalize(tx.RawDescription)

		category, matched := p.resolver.Resolve(tx.Merchant, tx.BankCategory)
		tx.BudgetCategory = category
		if !matched {
			result.Unreviewed[tx.Merchant]++
		}

		switch tx.AccountType {
		case models.AccountTypeChecking:
			tx.TxType = categorizer.ClassifyTransactionType(tx.RawDescription, tx.Amount)
			switch tx.TxType {
			case models.TxTypeTransfer:
				result.Transfers = append(result.Transfers, tx)
			case models.TxTypeIncome:
				tx.IncomeSource = categorizer.ClassifyIncomeSource(tx.RawDescription)
				result.Income = append(result.Income, tx)
			default:
				tx.Amount = tx.Amount.Neg()
				result.CheckingExpenses = append(result.CheckingExpenses, tx)
			}
		default:
			if categorizer.IsCardPayment(tx.RawDescription) {
				result.Payments = append(result.Payments, tx)
			} else {
				result.Spending = append(result.Spending, tx)
			}
		}
	}

	sortByDateDesc(result.Spending)
	sortByDateDesc(result.Payments)
	sortByDateDesc(result.Income)
	sortByDateDesc(result.CheckingExpenses)
	sortByDateDesc(result.Transfers)

	p.logger.WithFields(
		logging.Field{Key: "spending", Value: len(result.Spending)},
		logging.Field{Key: "payments", Value: len(result.Payments)},
		logging.Field{Key: "income", Value: len(result.Income)},
		logging.Field{Key: "checking_expenses", Value: len(result.CheckingExpenses)},
		logging.Field{Key: "transfers", Value: len(result.Transfers)},
		logging.Field{Key: "unreviewed_merchants", Value: len(result.Unreviewed)},
	).Info("Processed transaction batch")
	return result
}

// UnreviewedMerchants returns the default-categorized merchants sorted by
// descending transaction count, ties by name.
func (r *Result) UnreviewedMerchants() []string {
	names := make([]string, 0, len(r.Unreviewed))
	for name := range r.Unreviewed {
		names = append(names, name)
	}
	sort.Slice(names, func(i, j int) bool {
		if r.Unreviewed[names[i]] != r.Unreviewed[names[j]] {
			return r.Unreviewed[names[i]] > r.Unreviewed[names[j]]
		}
		return names[i] < names[j]
	})
	return names
}

// ForRecurring combines card spending and checking expenses into the window
// the recurring detector scans. Both streams carry positive money out.
func (r *Result) ForRecurring() []models.Transaction {
	combined := make([]models.Transaction, 0, len(r.Spending)+len(r.CheckingExpenses))
	combined = append(combined, r.Spending...)
	combined = append(combined, r.CheckingExpenses...)
	return combined
}

// sortByDateDesc orders newest first, matching the export convention. The
// sort is stable so same-day rows keep their statement order.
func sortByDateDesc(txs []models.Transaction) {
	sort.SliceStable(txs, func(i, j int) bool {
		return txs[i].Date.Time.After(txs[j].Date.Time)
	})
}
