// Package models provides the data structures shared across the application.
package models

import (
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"btran/budget-csv/internal/dateutils"
)

// Transaction is the canonical record every statement row is normalized into.
// It is treated as immutable once built; classification fills Merchant,
// BudgetCategory and the checking-only fields.
type Transaction struct {
	Date           Date            `csv:"Transaction Date"`
	RawDescription string          `csv:"Description"`
	Merchant       string          `csv:"Clean_Description"`
	BankCategory   string          `csv:"Bank_Category"`
	BudgetCategory string          `csv:"Budget_Category"`
	Amount         decimal.Decimal `csv:"Amount"`
	AccountType    string          `csv:"Account_Type"`
	Source         string          `csv:"Source"`
	TxType         string          `csv:"Transaction_Type"`
	IncomeSource   string          `csv:"Income_Source"`
}

// Month returns the calendar month number (1-12) of the transaction date.
func (t *Transaction) Month() int {
	return int(t.Date.Time.Month())
}

// Year returns the calendar year of the transaction date.
func (t *Transaction) Year() int {
	return t.Date.Time.Year()
}

// Date wraps time.Time with CSV marshaling in YYYY-MM-DD form. Unparseable
// dates unmarshal to the zero time rather than failing the row.
type Date struct {
	time.Time
}

// NewDate builds a Date from year, month, day.
func NewDate(year int, month time.Month, day int) Date {
	return Date{time.Date(year, month, day, 0, 0, 0, 0, time.UTC)}
}

// MarshalCSV implements gocsv marshaling.
func (d Date) MarshalCSV() (string, error) {
	if d.IsZero() {
		return "", nil
	}
	return dateutils.ToISODate(d.Time), nil
}

// UnmarshalCSV implements gocsv unmarshaling. It is total: bad input yields
// the zero time so a malformed row never aborts a batch.
func (d *Date) UnmarshalCSV(value string) error {
	parsed, err := dateutils.ParseDate(value)
	if err != nil {
		d.Time = time.Time{}
		return nil
	}
	d.Time = parsed
	return nil
}

// ParseAmount converts a statement amount string to a decimal. Currency
// symbols, thousands separators and surrounding whitespace are stripped.
// Malformed input coerces to zero, matching the rest of the pipeline's
// never-abort policy.
func ParseAmount(amountStr string) decimal.Decimal {
	amount := strings.TrimSpace(amountStr)
	amount = strings.ReplaceAll(amount, "$", "")
	amount = strings.ReplaceAll(amount, ",", "")
	amount = strings.ReplaceAll(amount, " ", "")

	// Some exports wrap negatives in parentheses.
	if strings.HasPrefix(amount, "(") && strings.HasSuffix(amount, ")") {
		amount = "-" + strings.Trim(amount, "()")
	}

	dec, err := decimal.NewFromString(amount)
	if err != nil {
		return decimal.Zero
	}
	return dec
}
