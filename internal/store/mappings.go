// Package store persists the application's flat-file state: the category
// override table and the transaction notes. Both are plain CSV files that are
// read and rewritten wholesale on every save; there is one interactive writer
// and readers tolerate staleness, so no locking is needed.
package store

import (
	"fmt"
	"os"
	"sort"

	"btran/budget-csv/internal/common"
	"btran/budget-csv/internal/logging"
	"btran/budget-csv/internal/models"
)

var log = logging.GetLogger()

// SetLogger allows setting a configured logger for the package.
func SetLogger(logger logging.Logger) {
	if logger != nil {
		log = logger
	}
}

// MappingRow is one persisted override entry.
type MappingRow struct {
	Merchant       string `csv:"Clean_Description"`
	BankCategory   string `csv:"Bank_Category"`
	BudgetCategory string `csv:"Budget_Category"`
}

// DefaultMappings seeds the override table the first time the store file is
// created. These cover the fixed fee/subscription labels that no fallback
// rule can infer from bank categories alone.
var DefaultMappings = models.OverrideTable{
	{Merchant: "Spotify", BankCategory: "Bills & Utilities"}:                "Spotify Subscription",
	{Merchant: "Discord", BankCategory: "Entertainment"}:                   "Discord Subscription",
	{Merchant: "Amazon", BankCategory: "Prime Membership"}:                 "Amazon Prime Subscription",
	{Merchant: "Annual Membership Fee", BankCategory: "Fees & Adjustments"}: "Chase Sapphire Preferred Fee",
	{Merchant: "Costco", BankCategory: "Fees & Adjustments"}:               "Costco Membership",
}

// MappingStore loads and saves the category override table.
type MappingStore struct {
	File string
}

// NewMappingStore creates a store over the given CSV file path.
func NewMappingStore(file string) *MappingStore {
	return &MappingStore{File: file}
}

// Load reads the override table. If the file does not exist it is seeded from
// DefaultMappings and the seed is written back so the human sees and can edit
// it. Later duplicate keys win, matching the keep-last save semantics.
func (s *MappingStore) Load() (models.OverrideTable, error) {
	if _, err := os.Stat(s.File); os.IsNotExist(err) {
		log.WithField(logging.FieldFile, s.File).Info("Mapping file not found, seeding defaults")
		if err := s.write(tableToRows(DefaultMappings)); err != nil {
			return nil, fmt.Errorf("error seeding mapping file: %w", err)
		}
		return DefaultMappings.Clone(), nil
	}

	rows, err := common.ReadCSVFile[MappingRow](s.File)
	if err != nil {
		return nil, fmt.Errorf("error reading mapping file: %w", err)
	}

	table := make(models.OverrideTable, len(rows))
	for _, row := range rows {
		table[models.OverrideKey{Merchant: row.Merchant, BankCategory: row.BankCategory}] = row.BudgetCategory
	}
	log.WithField(logging.FieldCount, len(table)).Debug("Loaded category mappings")
	return table, nil
}

// Upsert merges new entries into the persisted table: the whole file is read,
// the new rows appended, duplicates dropped keeping the last occurrence, and
// the whole file written back. This read-modify-write cycle is the store's
// upsert contract; do not replace it with partial writes.
func (s *MappingStore) Upsert(entries models.OverrideTable) error {
	var existing []MappingRow
	if _, err := os.Stat(s.File); err == nil {
		existing, err = common.ReadCSVFile[MappingRow](s.File)
		if err != nil {
			return fmt.Errorf("error reading mapping file: %w", err)
		}
	}

	combined := append(existing, tableToRows(entries)...)
	deduped := dedupeKeepLast(combined)

	if err := s.write(deduped); err != nil {
		return err
	}
	log.WithFields(
		logging.Field{Key: logging.FieldFile, Value: s.File},
		logging.Field{Key: logging.FieldCount, Value: len(deduped)},
	).Info("Saved category mappings")
	return nil
}

func (s *MappingStore) write(rows []MappingRow) error {
	if err := common.WriteCSVFile(rows, s.File); err != nil {
		return fmt.Errorf("error writing mapping file: %w", err)
	}
	return nil
}

// tableToRows flattens a table into rows sorted by key so writes are
// deterministic.
func tableToRows(table models.OverrideTable) []MappingRow {
	rows := make([]MappingRow, 0, len(table))
	for key, category := range table {
		rows = append(rows, MappingRow{
			Merchant:       key.Merchant,
			BankCategory:   key.BankCategory,
			BudgetCategory: category,
		})
	}
	sort.Slice(rows, func(i, j int) bool {
		if rows[i].Merchant != rows[j].Merchant {
			return rows[i].Merchant < rows[j].Merchant
		}
		return rows[i].BankCategory < rows[j].BankCategory
	})
	return rows
}

// dedupeKeepLast drops duplicate (merchant, bank category) rows, keeping the
// last occurrence and its position.
func dedupeKeepLast(rows []MappingRow) []MappingRow {
	lastIndex := make(map[models.OverrideKey]int, len(rows))
	for i, row := range rows {
		lastIndex[models.OverrideKey{Merchant: row.Merchant, BankCategory: row.BankCategory}] = i
	}

	out := make([]MappingRow, 0, len(lastIndex))
	for i, row := range rows {
		if lastIndex[models.OverrideKey{Merchant: row.Merchant, BankCategory: row.BankCategory}] == i {
			out = append(out, row)
		}
	}
	return out
}
