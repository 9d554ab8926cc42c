package config

import (
	"os"
	"testing"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func clearTestEnvVars(t *testing.T) {
	t.Helper()
	for _, key := range []string{
		"BUDGET_LOG_LEVEL", "BUDGET_LOG_FORMAT", "BUDGET_CSV_DELIMITER",
		"BUDGET_DATA_YEAR", "BUDGET_DATA_OUTPUT_DIR",
		"BUDGET_RECURRING_AMOUNT_TOLERANCE",
		"BUDGET_RECURRING_MIN_CONSECUTIVE_MONTHS",
		"LOG_LEVEL", "LOG_FORMAT",
	} {
		if _, exists := os.LookupEnv(key); exists {
			t.Setenv(key, "")
			require.NoError(t, os.Unsetenv(key))
		}
	}
}

func TestInitializeConfig_Defaults(t *testing.T) {
	clearTestEnvVars(t)

	config, err := InitializeConfig()
	require.NoError(t, err)

	assert.Equal(t, "info", config.Log.Level)
	assert.Equal(t, "text", config.Log.Format)
	assert.Equal(t, ",", config.CSV.Delimiter)
	assert.Equal(t, "statements", config.Data.StatementsDir)
	assert.Equal(t, "checking", config.Data.CheckingDir)
	assert.Equal(t, "data", config.Data.OutputDir)
	assert.Equal(t, "data/category_mappings.csv", config.Data.MappingsFile)
	assert.Equal(t, "data/transaction_notes.csv", config.Data.NotesFile)
	assert.Equal(t, 0, config.Data.Year)
	assert.Equal(t, 2.0, config.Recurring.AmountTolerance)
	assert.Equal(t, 2, config.Recurring.MinConsecutiveMonths)
	assert.Equal(t, 2.0, config.Recurring.MaxMonthlyFrequency)
}

func TestInitializeConfig_EnvironmentVariables(t *testing.T) {
	clearTestEnvVars(t)

	t.Setenv("BUDGET_LOG_LEVEL", "debug")
	t.Setenv("BUDGET_LOG_FORMAT", "json")
	t.Setenv("BUDGET_CSV_DELIMITER", ";")
	t.Setenv("BUDGET_DATA_YEAR", "2026")
	t.Setenv("BUDGET_RECURRING_AMOUNT_TOLERANCE", "5.0")

	config, err := InitializeConfig()
	require.NoError(t, err)

	assert.Equal(t, "debug", config.Log.Level)
	assert.Equal(t, "json", config.Log.Format)
	assert.Equal(t, ";", config.CSV.Delimiter)
	assert.Equal(t, 2026, config.Data.Year)
	assert.Equal(t, 5.0, config.Recurring.AmountTolerance)
}

func TestInitializeConfig_InvalidValues(t *testing.T) {
	tests := []struct {
		name  string
		key   string
		value string
	}{
		{"bad log level", "BUDGET_LOG_LEVEL", "verbose"},
		{"bad log format", "BUDGET_LOG_FORMAT", "xml"},
		{"multi char delimiter", "BUDGET_CSV_DELIMITER", ";;"},
		{"negative tolerance", "BUDGET_RECURRING_AMOUNT_TOLERANCE", "-1"},
		{"zero min months", "BUDGET_RECURRING_MIN_CONSECUTIVE_MONTHS", "0"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			clearTestEnvVars(t)
			t.Setenv(tt.key, tt.value)

			_, err := InitializeConfig()
			assert.Error(t, err)
		})
	}
}

func TestConfigureLoggingFromConfig(t *testing.T) {
	clearTestEnvVars(t)

	config, err := InitializeConfig()
	require.NoError(t, err)

	config.Log.Level = "debug"
	config.Log.Format = "json"
	logger := ConfigureLoggingFromConfig(config)

	assert.Equal(t, logrus.DebugLevel, logger.GetLevel())
	assert.IsType(t, &logrus.JSONFormatter{}, logger.Formatter)
}

func TestGetEnv(t *testing.T) {
	t.Setenv("BUDGET_TEST_KEY", "value")
	assert.Equal(t, "value", GetEnv("BUDGET_TEST_KEY", "fallback"))
	assert.Equal(t, "fallback", GetEnv("BUDGET_TEST_KEY_ABSENT", "fallback"))
}
