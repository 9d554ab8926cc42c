package store

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"btran/budget-csv/internal/models"
)

func TestMappingStoreSeedsDefaultsOnFirstLoad(t *testing.T) {
	file := filepath.Join(t.TempDir(), "category_mappings.csv")
	s := NewMappingStore(file)

	table, err := s.Load()
	require.NoError(t, err)
	assert.Equal(t, len(DefaultMappings), len(table))
	assert.Equal(t, "Spotify Subscription",
		table[models.OverrideKey{Merchant: "Spotify", BankCategory: "Bills & Utilities"}])

	// Seed is written back so the file exists for editing.
	assert.FileExists(t, file)

	// A second load reads the seeded file instead of re-seeding.
	again, err := s.Load()
	require.NoError(t, err)
	assert.Equal(t, table, again)
}

func TestMappingStoreUpsertMergesAndOverwrites(t *testing.T) {
	file := filepath.Join(t.TempDir(), "category_mappings.csv")
	s := NewMappingStore(file)

	_, err := s.Load()
	require.NoError(t, err)

	err = s.Upsert(models.OverrideTable{
		{Merchant: "Spotify", BankCategory: "Bills & Utilities"}: "Games",
		{Merchant: "New Gym", BankCategory: "Health & Wellness"}: "Gym Membership",
	})
	require.NoError(t, err)

	table, err := s.Load()
	require.NoError(t, err)

	// Existing key overwritten, new key added, untouched keys preserved.
	assert.Equal(t, "Games",
		table[models.OverrideKey{Merchant: "Spotify", BankCategory: "Bills & Utilities"}])
	assert.Equal(t, "Gym Membership",
		table[models.OverrideKey{Merchant: "New Gym", BankCategory: "Health & Wellness"}])
	assert.Equal(t, "Costco Membership",
		table[models.OverrideKey{Merchant: "Costco", BankCategory: "Fees & Adjustments"}])
	assert.Equal(t, len(DefaultMappings)+1, len(table))
}

func TestMappingStoreUpsertWithoutExistingFile(t *testing.T) {
	file := filepath.Join(t.TempDir(), "category_mappings.csv")
	s := NewMappingStore(file)

	err := s.Upsert(models.OverrideTable{
		{Merchant: "Acme", BankCategory: "Shopping"}: "Personal",
	})
	require.NoError(t, err)

	table, err := s.Load()
	require.NoError(t, err)
	assert.Equal(t, models.OverrideTable{
		{Merchant: "Acme", BankCategory: "Shopping"}: "Personal",
	}, table)
}

func TestDedupeKeepLast(t *testing.T) {
	rows := []MappingRow{
		{Merchant: "A", BankCategory: "X", BudgetCategory: "Old"},
		{Merchant: "B", BankCategory: "Y", BudgetCategory: "Keep"},
		{Merchant: "A", BankCategory: "X", BudgetCategory: "New"},
	}

	deduped := dedupeKeepLast(rows)
	require.Len(t, deduped, 2)
	assert.Equal(t, "Keep", deduped[0].BudgetCategory)
	assert.Equal(t, "New", deduped[1].BudgetCategory)
}

func TestOverrideKeyValueSemantics(t *testing.T) {
	table := models.OverrideTable{}
	table[models.OverrideKey{Merchant: "A", BankCategory: "X"}] = "First"
	table[models.OverrideKey{Merchant: "A", BankCategory: "X"}] = "Second"

	assert.Len(t, table, 1)
	assert.Equal(t, "Second", table[models.OverrideKey{Merchant: "A", BankCategory: "X"}])
}
