// Package statement parses bank statement CSV exports into transactions.
//
// Two layouts are supported. The standard export carries Transaction Date,
// Description, Category and a signed Amount column. The alternate export is
// recognized by its Debit/Credit header pair and carries money out and money
// in as separate unsigned columns.
package statement

import (
	"encoding/csv"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"btran/budget-csv/internal/common"
	"btran/budget-csv/internal/logging"
	"btran/budget-csv/internal/models"
)

var log = logging.GetLogger()

// SetLogger allows setting a configured logger.
func SetLogger(logger logging.Logger) {
	if logger != nil {
		log = logger
	}
}

// Layout identifies which export format a file uses.
type Layout string

const (
	// LayoutStandard is the Transaction Date / Description / Category /
	// Amount export.
	LayoutStandard Layout = "standard"
	// LayoutDebitCredit is the alternate export with separate Debit and
	// Credit columns.
	LayoutDebitCredit Layout = "debit_credit"
)

// standardRow mirrors the standard export. Amount stays a string so currency
// symbols and thousands separators survive until ParseAmount.
type standardRow struct {
	Date        models.Date `csv:"Transaction Date"`
	Description string      `csv:"Description"`
	Category    string      `csv:"Category"`
	Amount      string      `csv:"Amount"`
}

// debitCreditRow mirrors the alternate export.
type debitCreditRow struct {
	Date        models.Date `csv:"Date"`
	Description string      `csv:"Description"`
	Debit       string      `csv:"Debit"`
	Credit      string      `csv:"Credit"`
}

// DetectLayout reads the header row and decides which export format the file
// uses. A Debit/Credit column pair selects the alternate layout; otherwise a
// Transaction Date and Amount pair selects the standard one.
func DetectLayout(filePath string) (Layout, error) {
	file, err := os.Open(filePath) // #nosec G304 -- paths come from user configuration
	if err != nil {
		return "", fmt.Errorf("error opening file: %w", err)
	}
	defer func() {
		if err := file.Close(); err != nil {
			log.WithError(err).Warn("Failed to close file")
		}
	}()

	reader := csv.NewReader(file)
	header, err := reader.Read()
	if err != nil {
		return "", fmt.Errorf("error reading CSV header: %w", err)
	}

	columns := make(map[string]bool, len(header))
	for _, col := range header {
		columns[strings.TrimSpace(col)] = true
	}

	if columns["Debit"] && columns["Credit"] {
		return LayoutDebitCredit, nil
	}
	if columns["Transaction Date"] && columns["Amount"] {
		return LayoutStandard, nil
	}
	return "", fmt.Errorf("unrecognized statement header in %s", filepath.Base(filePath))
}

// ValidateFormat checks whether the file looks like a parseable statement
// export of either layout.
func ValidateFormat(filePath string) (bool, error) {
	_, err := DetectLayout(filePath)
	if err != nil {
		log.WithError(err).WithField(logging.FieldFile, filePath).Debug("Statement format validation failed")
		return false, nil
	}
	return true, nil
}

// ParseFile reads one statement export into transactions.
//
// Amount signs are normalized per account type. Credit card exports record a
// sale as a negative number, so amounts are negated to make spending
// positive. Checking amounts keep the bank's sign, positive meaning money in,
// because the income/transfer/expense split still needs the direction; the
// pipeline flips expense rows after classification. The alternate layout's
// Debit/Credit pair collapses to Credit minus Debit, the same money-in
// convention.
//
// Rows whose date fails to parse are skipped with a warning rather than
// aborting the batch.
func ParseFile(filePath, accountType, source string) ([]models.Transaction, error) {
	layout, err := DetectLayout(filePath)
	if err != nil {
		return nil, err
	}

	var txs []models.Transaction
	switch layout {
	case LayoutStandard:
		rows, err := common.ReadCSVFile[standardRow](filePath)
		if err != nil {
			return nil, err
		}
		for _, row := range rows {
			if row.Date.IsZero() {
				log.WithField(logging.FieldFile, filePath).Warn("Skipping row with unparseable date")
				continue
			}
			amount := models.ParseAmount(row.Amount)
			if accountType == models.AccountTypeCredit {
				amount = amount.Neg()
			}
			category := strings.TrimSpace(row.Category)
			if category == "" {
				category = models.BankCategoryUncategorized
			}
			txs = append(txs, models.Transaction{
				Date:           row.Date,
				RawDescription: row.Description,
				BankCategory:   category,
				Amount:         amount,
				AccountType:    accountType,
				Source:         source,
			})
		}
	case LayoutDebitCredit:
		rows, err := common.ReadCSVFile[debitCreditRow](filePath)
		if err != nil {
			return nil, err
		}
		for _, row := range rows {
			if row.Date.IsZero() {
				log.WithField(logging.FieldFile, filePath).Warn("Skipping row with unparseable date")
				continue
			}
			amount := models.ParseAmount(row.Credit).Sub(models.ParseAmount(row.Debit))
			txs = append(txs, models.Transaction{
				Date:           row.Date,
				RawDescription: row.Description,
				BankCategory:   models.BankCategoryUncategorized,
				Amount:         amount,
				AccountType:    accountType,
				Source:         source,
			})
		}
	}

	log.WithFields(
		logging.Field{Key: logging.FieldFile, Value: filePath},
		logging.Field{Key: logging.FieldLayout, Value: string(layout)},
		logging.Field{Key: logging.FieldCount, Value: len(txs)},
	).Info("Parsed statement file")
	return txs, nil
}

// LoadDir parses every CSV file in a directory and combines the results.
// Unreadable or unrecognized files are skipped with a warning. Files are
// processed in sorted name order so batches are deterministic.
func LoadDir(dir, accountType, source string) ([]models.Transaction, error) {
	lower, err := filepath.Glob(filepath.Join(dir, "*.csv"))
	if err != nil {
		return nil, fmt.Errorf("error listing directory: %w", err)
	}
	upper, err := filepath.Glob(filepath.Join(dir, "*.CSV"))
	if err != nil {
		return nil, fmt.Errorf("error listing directory: %w", err)
	}

	files := append(lower, upper...)
	sort.Strings(files)

	if len(files) == 0 {
		log.WithField(logging.FieldDir, dir).Warn("No CSV files found")
		return nil, nil
	}

	var all []models.Transaction
	for _, file := range files {
		txs, err := ParseFile(file, accountType, source)
		if err != nil {
			log.WithError(err).WithField(logging.FieldFile, file).Warn("Skipping unreadable statement file")
			continue
		}
		all = append(all, txs...)
	}

	log.WithFields(
		logging.Field{Key: logging.FieldDir, Value: dir},
		logging.Field{Key: logging.FieldCount, Value: len(all)},
	).Info("Loaded statement directory")
	return all, nil
}

// FilterYear keeps only transactions dated in the given year. Zero keeps
// everything.
func FilterYear(txs []models.Transaction, year int) []models.Transaction {
	if year == 0 {
		return txs
	}
	var out []models.Transaction
	for _, tx := range txs {
		if tx.Year() == year {
			out = append(out, tx)
		}
	}
	return out
}
