// Package common provides shared CSV helpers built on gocsv.
package common

import (
	"encoding/csv"
	"fmt"
	"os"
	"path/filepath"

	"github.com/gocarina/gocsv"

	"btran/budget-csv/internal/logging"
)

var log = logging.GetLogger()

// Delimiter is the field separator used for all CSV output.
var Delimiter rune = ','

// SetDelimiter sets the delimiter for CSV output.
func SetDelimiter(delim rune) {
	Delimiter = delim
}

// SetLogger allows setting a configured logger.
func SetLogger(logger logging.Logger) {
	if logger != nil {
		log = logger
	}
}

// ReadCSVFile reads a CSV file into a slice of row structs using gocsv tags.
func ReadCSVFile[TRow any](filePath string) ([]TRow, error) {
	file, err := os.Open(filePath) // #nosec G304 -- paths come from user configuration
	if err != nil {
		return nil, fmt.Errorf("error opening CSV file: %w", err)
	}
	defer func() {
		if err := file.Close(); err != nil {
			log.WithError(err).Warn("Failed to close file")
		}
	}()

	var rows []TRow
	if err := gocsv.UnmarshalFile(file, &rows); err != nil {
		return nil, fmt.Errorf("error parsing CSV file: %w", err)
	}

	log.WithFields(
		logging.Field{Key: logging.FieldFile, Value: filePath},
		logging.Field{Key: logging.FieldCount, Value: len(rows)},
	).Debug("Read CSV file")
	return rows, nil
}

// WriteCSVFile writes a slice of row structs to a CSV file, creating parent
// directories as needed. The whole file is rewritten on every call.
func WriteCSVFile[TRow any](rows []TRow, filePath string) error {
	if err := os.MkdirAll(filepath.Dir(filePath), 0750); err != nil {
		return fmt.Errorf("error creating directory: %w", err)
	}

	file, err := os.Create(filePath) // #nosec G304
	if err != nil {
		return fmt.Errorf("error creating CSV file: %w", err)
	}
	defer func() {
		if err := file.Close(); err != nil {
			log.WithError(err).Warn("Failed to close file")
		}
	}()

	csvWriter := csv.NewWriter(file)
	csvWriter.Comma = Delimiter
	if err := gocsv.MarshalCSV(rows, gocsv.NewSafeCSVWriter(csvWriter)); err != nil {
		return fmt.Errorf("error writing CSV data: %w", err)
	}

	log.WithFields(
		logging.Field{Key: logging.FieldFile, Value: filePath},
		logging.Field{Key: logging.FieldCount, Value: len(rows)},
	).Debug("Wrote CSV file")
	return nil
}

// WriteRecords writes raw string records (header included by the caller) to a
// CSV file. Used for pivot-style reports whose columns are not fixed structs.
func WriteRecords(records [][]string, filePath string) error {
	if err := os.MkdirAll(filepath.Dir(filePath), 0750); err != nil {
		return fmt.Errorf("error creating directory: %w", err)
	}

	file, err := os.Create(filePath) // #nosec G304
	if err != nil {
		return fmt.Errorf("error creating CSV file: %w", err)
	}
	defer func() {
		if err := file.Close(); err != nil {
			log.WithError(err).Warn("Failed to close file")
		}
	}()

	csvWriter := csv.NewWriter(file)
	csvWriter.Comma = Delimiter
	if err := csvWriter.WriteAll(records); err != nil {
		return fmt.Errorf("error writing CSV records: %w", err)
	}
	return nil
}
