package categorizer

import (
	"strings"

	"github.com/shopspring/decimal"

	"btran/budget-csv/internal/models"
)

// TransferKeywords flag checking rows as account-to-account movements. They
// are checked before income keywords because transfer phrasing can co-occur
// with income-shaped words ("TRANSFER DEPOSIT") and must win.
var TransferKeywords = []string{
	"TRANSFER", "PAYMENT TO CHASE CARD", "ONLINE TRANSFER",
	"SAVE AS YOU GO", "ZELLE",
}

// IncomeKeywords flag checking rows as income.
var IncomeKeywords = []string{"DIRECT DEP", "PAYROLL", "ACH CREDIT", "DEPOSIT"}

// incomeSources maps income keywords to a named source, first match wins.
var incomeSources = []struct {
	keyword string
	source  string
}{
	{keyword: "DIRECT DEP", source: models.IncomeSourcePayroll},
	{keyword: "PAYROLL", source: models.IncomeSourcePayroll},
	{keyword: "ACH CREDIT", source: models.IncomeSourceACHCredit},
	{keyword: "DEPOSIT", source: models.IncomeSourceDeposit},
}

// PaymentTerms identify credit-card bill payoffs, which are excluded from
// spending.
var PaymentTerms = []string{
	"PAYMENT THANK YOU", "MOBILE PAYMENT", "CREDIT CARD PYMT", "AUTOPAY",
}

// ClassifyTransactionType labels a checking row as income, transfer or
// expense from its description and raw (bank-convention) amount. Pure and
// total; the sign of the raw amount only decides when no keyword matches.
func ClassifyTransactionType(description string, rawAmount decimal.Decimal) string {
	desc := strings.ToUpper(description)

	for _, keyword := range TransferKeywords {
		if strings.Contains(desc, keyword) {
			return models.TxTypeTransfer
		}
	}

	for _, keyword := range IncomeKeywords {
		if strings.Contains(desc, keyword) {
			return models.TxTypeIncome
		}
	}

	if rawAmount.IsPositive() {
		return models.TxTypeIncome
	}
	return models.TxTypeExpense
}

// ClassifyIncomeSource labels an income row by source, defaulting to
// "Other Income".
func ClassifyIncomeSource(description string) string {
	desc := strings.ToUpper(description)
	for _, entry := range incomeSources {
		if strings.Contains(desc, entry.keyword) {
			return entry.source
		}
	}
	return models.IncomeSourceOther
}

// IsCardPayment reports whether a credit-card row is a bill payoff rather
// than spending.
func IsCardPayment(description string) bool {
	desc := strings.ToUpper(description)
	for _, term := range PaymentTerms {
		if strings.Contains(desc, term) {
			return true
		}
	}
	return false
}
