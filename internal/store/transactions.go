package store

import (
	"os"

	"btran/budget-csv/internal/common"
	"btran/budget-csv/internal/models"
)

// WriteTransactions persists a processed transaction stream to a CSV file.
func WriteTransactions(txs []models.Transaction, filePath string) error {
	return common.WriteCSVFile(txs, filePath)
}

// LoadTransactions reads a previously written transaction stream. A missing
// file is an empty stream, not an error, so reports degrade gracefully when a
// source was never processed.
func LoadTransactions(filePath string) ([]models.Transaction, error) {
	if _, err := os.Stat(filePath); os.IsNotExist(err) {
		return nil, nil
	}
	return common.ReadCSVFile[models.Transaction](filePath)
}
