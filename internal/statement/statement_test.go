package statement

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"btran/budget-csv/internal/models"
)

func writeFile(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0600))
	return path
}

const creditCSV = `Transaction Date,Post Date,Description,Category,Type,Amount
01/15/2026,01/16/2026,STARBUCKS STORE 123,Food & Drink,Sale,-6.50
01/20/2026,01/21/2026,Payment Thank You - Web,,Payment,500.00
02/02/2026,02/03/2026,AMZN MKTP US*123ABC,Shopping,Sale,-29.99
`

const checkingCSV = `Transaction Date,Description,Category,Amount
01/10/2026,DIRECT DEP ACME PAYROLL,,3000.00
01/12/2026,DEBIT CARD PURCHASE WALMART,,-52.40
`

const debitCreditCSV = `Date,Description,Debit,Credit
2026-01-10,GYM MONTHLY DUES,45.00,
2026-01-15,ATM CHECK DEPOSIT,,200.00
`

func TestDetectLayout(t *testing.T) {
	dir := t.TempDir()
	standard := writeFile(t, dir, "credit.csv", creditCSV)
	alternate := writeFile(t, dir, "alt.csv", debitCreditCSV)
	garbage := writeFile(t, dir, "other.csv", "Foo,Bar\n1,2\n")

	layout, err := DetectLayout(standard)
	require.NoError(t, err)
	assert.Equal(t, LayoutStandard, layout)

	layout, err = DetectLayout(alternate)
	require.NoError(t, err)
	assert.Equal(t, LayoutDebitCredit, layout)

	_, err = DetectLayout(garbage)
	assert.Error(t, err)
}

func TestValidateFormat(t *testing.T) {
	dir := t.TempDir()
	good := writeFile(t, dir, "credit.csv", creditCSV)
	bad := writeFile(t, dir, "bad.csv", "Foo,Bar\n")

	ok, err := ValidateFormat(good)
	require.NoError(t, err)
	assert.True(t, ok)

	ok, err = ValidateFormat(bad)
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestParseFileCreditSignFlipped(t *testing.T) {
	dir := t.TempDir()
	path := writeFile(t, dir, "credit.csv", creditCSV)

	txs, err := ParseFile(path, models.AccountTypeCredit, "chase")
	require.NoError(t, err)
	require.Len(t, txs, 3)

	// Sales arrive negative and flip to positive spending.
	assert.True(t, txs[0].Amount.Equal(decimal.NewFromFloat(6.50)), "got %s", txs[0].Amount)
	assert.Equal(t, "Food & Drink", txs[0].BankCategory)
	assert.Equal(t, "STARBUCKS STORE 123", txs[0].RawDescription)
	assert.Equal(t, models.AccountTypeCredit, txs[0].AccountType)
	assert.Equal(t, "chase", txs[0].Source)

	// Payments arrive positive and flip to negative.
	assert.True(t, txs[1].Amount.Equal(decimal.NewFromInt(-500)))
	assert.Equal(t, models.BankCategoryUncategorized, txs[1].BankCategory)

	assert.Equal(t, 2026, txs[2].Year())
	assert.Equal(t, 2, txs[2].Month())
}

func TestParseFileCheckingKeepsBankSign(t *testing.T) {
	dir := t.TempDir()
	path := writeFile(t, dir, "checking.csv", checkingCSV)

	txs, err := ParseFile(path, models.AccountTypeChecking, "checking")
	require.NoError(t, err)
	require.Len(t, txs, 2)

	assert.True(t, txs[0].Amount.Equal(decimal.NewFromInt(3000)))
	assert.True(t, txs[1].Amount.Equal(decimal.NewFromFloat(-52.40)))
}

func TestParseFileDebitCreditLayout(t *testing.T) {
	dir := t.TempDir()
	path := writeFile(t, dir, "alt.csv", debitCreditCSV)

	txs, err := ParseFile(path, models.AccountTypeChecking, "checking")
	require.NoError(t, err)
	require.Len(t, txs, 2)

	// Debit rows are money out, credit rows money in.
	assert.True(t, txs[0].Amount.Equal(decimal.NewFromInt(-45)), "got %s", txs[0].Amount)
	assert.True(t, txs[1].Amount.Equal(decimal.NewFromInt(200)), "got %s", txs[1].Amount)
	assert.Equal(t, models.BankCategoryUncategorized, txs[0].BankCategory)
}

func TestParseFileSkipsBadDates(t *testing.T) {
	dir := t.TempDir()
	content := `Transaction Date,Description,Category,Amount
not a date,MYSTERY ROW,,-10.00
01/05/2026,REAL ROW,,-20.00
`
	path := writeFile(t, dir, "credit.csv", content)

	txs, err := ParseFile(path, models.AccountTypeCredit, "chase")
	require.NoError(t, err)
	require.Len(t, txs, 1)
	assert.Equal(t, "REAL ROW", txs[0].RawDescription)
}

func TestLoadDirCombinesAndSkipsUnreadable(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "a.csv", creditCSV)
	writeFile(t, dir, "b.CSV", `Transaction Date,Description,Category,Amount
03/01/2026,TARGET 00123,Shopping,-15.00
`)
	writeFile(t, dir, "broken.csv", "Foo,Bar\n1,2\n")
	writeFile(t, dir, "notes.txt", "not a statement")

	txs, err := LoadDir(dir, models.AccountTypeCredit, "chase")
	require.NoError(t, err)
	assert.Len(t, txs, 4)
}

func TestLoadDirEmpty(t *testing.T) {
	txs, err := LoadDir(t.TempDir(), models.AccountTypeCredit, "chase")
	require.NoError(t, err)
	assert.Empty(t, txs)
}

func TestFilterYear(t *testing.T) {
	txs := []models.Transaction{
		{Date: models.NewDate(2025, 12, 31)},
		{Date: models.NewDate(2026, 1, 1)},
	}

	filtered := FilterYear(txs, 2026)
	require.Len(t, filtered, 1)
	assert.Equal(t, 2026, filtered[0].Year())

	assert.Len(t, FilterYear(txs, 0), 2)
}
