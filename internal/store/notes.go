package store

import (
	"fmt"
	"os"
	"sort"
	"strings"

	"github.com/shopspring/decimal"

	"btran/budget-csv/internal/common"
	"btran/budget-csv/internal/logging"
	"btran/budget-csv/internal/models"
)

// Note is a human annotation attached to a single transaction.
type Note struct {
	TxKey string `csv:"_tx_key"`
	Note  string `csv:"Note"`
	Tags  string `csv:"Tags"`
}

// NotesStore loads and saves transaction notes and tags.
type NotesStore struct {
	File string
}

// NewNotesStore creates a store over the given CSV file path.
func NewNotesStore(file string) *NotesStore {
	return &NotesStore{File: file}
}

// TxKey builds the annotation identity for a transaction. Two charges with
// identical date, merchant and amount are distinguished by the occurrence
// index, assigned in input order.
func TxKey(tx models.Transaction, occurrence int) string {
	return fmt.Sprintf("%s::%s::%s::%d",
		tx.Date.Format("2006-01-02"), tx.Merchant, tx.Amount.String(), occurrence)
}

// KeyTransactions returns the annotation key for each transaction, in input
// order. The occurrence index counts duplicates of the same base key as they
// appear, so identical same-day charges get distinct identities. The index
// depends on input row order; re-exported statements in a different order may
// shuffle keys for duplicate rows.
func KeyTransactions(txs []models.Transaction) []string {
	seen := make(map[string]int, len(txs))
	keys := make([]string, len(txs))
	for i, tx := range txs {
		base := fmt.Sprintf("%s::%s::%s", tx.Date.Format("2006-01-02"), tx.Merchant, tx.Amount.String())
		keys[i] = fmt.Sprintf("%s::%d", base, seen[base])
		seen[base]++
	}
	return keys
}

// Load reads all notes. A missing file is an empty store, not an error.
// Legacy three-part keys are migrated to the four-part format by appending an
// occurrence index of zero.
func (s *NotesStore) Load() ([]Note, error) {
	if _, err := os.Stat(s.File); os.IsNotExist(err) {
		return nil, nil
	}

	notes, err := common.ReadCSVFile[Note](s.File)
	if err != nil {
		return nil, fmt.Errorf("error reading notes file: %w", err)
	}

	for i := range notes {
		if strings.Count(notes[i].TxKey, "::") == 2 {
			notes[i].TxKey += "::0"
		}
	}
	log.WithField(logging.FieldCount, len(notes)).Debug("Loaded transaction notes")
	return notes, nil
}

// Save persists notes: rows with no content are dropped, duplicate keys keep
// the last occurrence, and the file is replaced atomically via a temp file so
// a crash mid-write cannot corrupt existing annotations.
func (s *NotesStore) Save(notes []Note) error {
	cleaned := make([]Note, 0, len(notes))
	for _, n := range notes {
		n.Note = strings.TrimSpace(n.Note)
		n.Tags = strings.TrimSpace(n.Tags)
		if n.Note == "" && n.Tags == "" {
			continue
		}
		cleaned = append(cleaned, n)
	}

	lastIndex := make(map[string]int, len(cleaned))
	for i, n := range cleaned {
		lastIndex[n.TxKey] = i
	}
	deduped := cleaned[:0:0]
	for i, n := range cleaned {
		if lastIndex[n.TxKey] == i {
			deduped = append(deduped, n)
		}
	}

	tmpFile := s.File + ".tmp"
	if err := common.WriteCSVFile(deduped, tmpFile); err != nil {
		return fmt.Errorf("error writing notes file: %w", err)
	}
	if err := os.Rename(tmpFile, s.File); err != nil {
		return fmt.Errorf("error replacing notes file: %w", err)
	}

	log.WithFields(
		logging.Field{Key: logging.FieldFile, Value: s.File},
		logging.Field{Key: logging.FieldCount, Value: len(deduped)},
	).Info("Saved transaction notes")
	return nil
}

// SplitTags splits a comma-separated tag string into trimmed, non-empty tags.
func SplitTags(tagStr string) []string {
	var tags []string
	for _, t := range strings.Split(tagStr, ",") {
		t = strings.TrimSpace(t)
		if t != "" {
			tags = append(tags, t)
		}
	}
	return tags
}

// AvailableTags returns the default tag list combined with every tag observed
// in the notes, sorted.
func AvailableTags(notes []Note) []string {
	seen := make(map[string]bool, len(models.DefaultTags))
	for _, t := range models.DefaultTags {
		seen[t] = true
	}
	for _, n := range notes {
		for _, t := range SplitTags(n.Tags) {
			seen[t] = true
		}
	}

	tags := make([]string, 0, len(seen))
	for t := range seen {
		tags = append(tags, t)
	}
	sort.Strings(tags)
	return tags
}

// TagTotals sums transaction amounts per tag. Keys must be aligned with txs
// (see KeyTransactions); transactions without a tagged note contribute
// nothing.
func TagTotals(txs []models.Transaction, keys []string, notes []Note) map[string]decimal.Decimal {
	byKey := make(map[string]Note, len(notes))
	for _, n := range notes {
		byKey[n.TxKey] = n
	}

	totals := make(map[string]decimal.Decimal)
	for i, tx := range txs {
		if i >= len(keys) {
			break
		}
		note, ok := byKey[keys[i]]
		if !ok {
			continue
		}
		for _, tag := range SplitTags(note.Tags) {
			totals[tag] = totals[tag].Add(tx.Amount)
		}
	}
	return totals
}

// FilterByTags returns the transactions whose note carries any of the
// selected tags.
func FilterByTags(txs []models.Transaction, keys []string, notes []Note, selected []string) []models.Transaction {
	if len(selected) == 0 {
		return txs
	}
	want := make(map[string]bool, len(selected))
	for _, t := range selected {
		want[t] = true
	}
	byKey := make(map[string]Note, len(notes))
	for _, n := range notes {
		byKey[n.TxKey] = n
	}

	var out []models.Transaction
	for i, tx := range txs {
		if i >= len(keys) {
			break
		}
		note, ok := byKey[keys[i]]
		if !ok {
			continue
		}
		for _, tag := range SplitTags(note.Tags) {
			if want[tag] {
				out = append(out, tx)
				break
			}
		}
	}
	return out
}
