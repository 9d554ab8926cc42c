package categorizer

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"

	"btran/budget-csv/internal/models"
)

func TestClassifyTransactionType(t *testing.T) {
	tests := []struct {
		name        string
		description string
		amount      decimal.Decimal
		expected    string
	}{
		{
			name:        "online transfer",
			description: "ONLINE TRANSFER TO SAVINGS",
			amount:      decimal.NewFromInt(-500),
			expected:    models.TxTypeTransfer,
		},
		{
			name:        "direct deposit payroll",
			description: "DIRECT DEP COMPANY PAYROLL",
			amount:      decimal.NewFromInt(3000),
			expected:    models.TxTypeIncome,
		},
		{
			name:        "debit card purchase",
			description: "DEBIT CARD PURCHASE WALMART",
			amount:      decimal.NewFromInt(-50),
			expected:    models.TxTypeExpense,
		},
		{
			name:        "transfer keyword beats income keyword",
			description: "TRANSFER DEPOSIT SAVINGS",
			amount:      decimal.NewFromInt(500),
			expected:    models.TxTypeTransfer,
		},
		{
			name:        "zelle is a transfer",
			description: "ZELLE PAYMENT FROM JANE",
			amount:      decimal.NewFromInt(120),
			expected:    models.TxTypeTransfer,
		},
		{
			name:        "card payoff from checking is a transfer",
			description: "PAYMENT TO CHASE CARD ENDING IN 1234",
			amount:      decimal.NewFromInt(-800),
			expected:    models.TxTypeTransfer,
		},
		{
			name:        "positive unlabeled amount is income",
			description: "MISC ADJUSTMENT",
			amount:      decimal.NewFromFloat(12.34),
			expected:    models.TxTypeIncome,
		},
		{
			name:        "zero amount is expense",
			description: "MISC ADJUSTMENT",
			amount:      decimal.Zero,
			expected:    models.TxTypeExpense,
		},
		{
			name:        "lower case description still matches",
			description: "online transfer to savings",
			amount:      decimal.NewFromInt(-500),
			expected:    models.TxTypeTransfer,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, ClassifyTransactionType(tt.description, tt.amount))
		})
	}
}

func TestClassifyIncomeSource(t *testing.T) {
	tests := []struct {
		description string
		expected    string
	}{
		{"DIRECT DEP ACME CORP", models.IncomeSourcePayroll},
		{"ACME PAYROLL 123", models.IncomeSourcePayroll},
		{"ACH CREDIT VENDOR REFUND", models.IncomeSourceACHCredit},
		{"ATM CHECK DEPOSIT", models.IncomeSourceDeposit},
		{"SOMETHING ELSE ENTIRELY", models.IncomeSourceOther},
	}

	for _, tt := range tests {
		t.Run(tt.description, func(t *testing.T) {
			assert.Equal(t, tt.expected, ClassifyIncomeSource(tt.description))
		})
	}
}

func TestIsCardPayment(t *testing.T) {
	assert.True(t, IsCardPayment("PAYMENT THANK YOU - WEB"))
	assert.True(t, IsCardPayment("Payment Thank You - Mobile"))
	assert.True(t, IsCardPayment("CHASE CREDIT CARD PYMT"))
	assert.True(t, IsCardPayment("AUTOPAY RECEIVED"))
	assert.False(t, IsCardPayment("STARBUCKS STORE 123"))
	assert.False(t, IsCardPayment("PAYROLL DEPOSIT"))
}
