// Package config provides Viper-based hierarchical configuration management
package config

import (
	"fmt"
	"strings"

	"github.com/sirupsen/logrus"
	"github.com/spf13/viper"
)

// Config represents the complete application configuration
type Config struct {
	Log struct {
		Level  string `mapstructure:"level" yaml:"level"`
		Format string `mapstructure:"format" yaml:"format"`
	} `mapstructure:"log" yaml:"log"`

	CSV struct {
		Delimiter string `mapstructure:"delimiter" yaml:"delimiter"`
	} `mapstructure:"csv" yaml:"csv"`

	Data struct {
		StatementsDir string `mapstructure:"statements_dir" yaml:"statements_dir"`
		CheckingDir   string `mapstructure:"checking_dir" yaml:"checking_dir"`
		OutputDir     string `mapstructure:"output_dir" yaml:"output_dir"`
		MappingsFile  string `mapstructure:"mappings_file" yaml:"mappings_file"`
		NotesFile     string `mapstructure:"notes_file" yaml:"notes_file"`
		RulesFile     string `mapstructure:"rules_file" yaml:"rules_file"`
		Year          int    `mapstructure:"year" yaml:"year"`
	} `mapstructure:"data" yaml:"data"`

	Recurring struct {
		AmountTolerance      float64 `mapstructure:"amount_tolerance" yaml:"amount_tolerance"`
		MinConsecutiveMonths int     `mapstructure:"min_consecutive_months" yaml:"min_consecutive_months"`
		MaxMonthlyFrequency  float64 `mapstructure:"max_monthly_frequency" yaml:"max_monthly_frequency"`
	} `mapstructure:"recurring" yaml:"recurring"`
}

// InitializeConfig initializes Viper configuration with hierarchical loading
func InitializeConfig() (*Config, error) {
	v := viper.New()

	// 1. Set defaults
	setDefaults(v)

	// 2. Config file locations
	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath("$HOME/.budget-csv")
	v.AddConfigPath(".budget-csv")
	v.AddConfigPath(".")

	// 3. Environment variables
	v.SetEnvPrefix("BUDGET")
	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	// 4. Read config file (optional)
	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			// Log the error but don't fail - continue with defaults and env vars
			fmt.Printf("Warning: error reading config file %s: %v\n", v.ConfigFileUsed(), err)
		}
		// Config file not found or invalid is OK, we'll use defaults and env vars
	}

	var config Config
	if err := v.Unmarshal(&config); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	// 5. Validate configuration
	if err := validateConfig(&config); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return &config, nil
}

// setDefaults sets default configuration values
func setDefaults(v *viper.Viper) {
	// Log defaults
	v.SetDefault("log.level", "info")
	v.SetDefault("log.format", "text")

	// CSV defaults
	v.SetDefault("csv.delimiter", ",")

	// Data defaults
	v.SetDefault("data.statements_dir", "statements")
	v.SetDefault("data.checking_dir", "checking")
	v.SetDefault("data.output_dir", "data")
	v.SetDefault("data.mappings_file", "data/category_mappings.csv")
	v.SetDefault("data.notes_file", "data/transaction_notes.csv")
	v.SetDefault("data.rules_file", "")
	v.SetDefault("data.year", 0)

	// Recurring detection defaults
	v.SetDefault("recurring.amount_tolerance", 2.0)
	v.SetDefault("recurring.min_consecutive_months", 2)
	v.SetDefault("recurring.max_monthly_frequency", 2.0)
}

// validateConfig validates the configuration values
func validateConfig(config *Config) error {
	// Validate log level
	if _, err := logrus.ParseLevel(config.Log.Level); err != nil {
		return fmt.Errorf("invalid log level: %s", config.Log.Level)
	}

	// Validate log format
	if config.Log.Format != "text" && config.Log.Format != "json" {
		return fmt.Errorf("invalid log format: %s (must be 'text' or 'json')", config.Log.Format)
	}

	// Validate CSV delimiter
	if len(config.CSV.Delimiter) != 1 {
		return fmt.Errorf("CSV delimiter must be a single character, got: %s", config.CSV.Delimiter)
	}

	// Validate recurring detection thresholds
	if config.Recurring.AmountTolerance < 0 {
		return fmt.Errorf("recurring.amount_tolerance must be non-negative, got: %f", config.Recurring.AmountTolerance)
	}
	if config.Recurring.MinConsecutiveMonths < 1 {
		return fmt.Errorf("recurring.min_consecutive_months must be at least 1, got: %d", config.Recurring.MinConsecutiveMonths)
	}
	if config.Recurring.MaxMonthlyFrequency <= 0 {
		return fmt.Errorf("recurring.max_monthly_frequency must be positive, got: %f", config.Recurring.MaxMonthlyFrequency)
	}

	if config.Data.Year < 0 {
		return fmt.Errorf("data.year must be a calendar year or 0 for all years, got: %d", config.Data.Year)
	}

	return nil
}

// ConfigureLoggingFromConfig configures logging based on the Config struct
func ConfigureLoggingFromConfig(config *Config) *logrus.Logger {
	logger := logrus.New()

	// Parse and set log level
	logLevel, err := logrus.ParseLevel(strings.ToLower(config.Log.Level))
	if err != nil {
		logger.Warnf("Invalid log level '%s', using 'info'", config.Log.Level)
		logLevel = logrus.InfoLevel
	}
	logger.SetLevel(logLevel)

	// Configure log format
	if strings.ToLower(config.Log.Format) == "json" {
		logger.SetFormatter(&logrus.JSONFormatter{})
	} else {
		logger.SetFormatter(&logrus.TextFormatter{
			FullTimestamp: true,
		})
	}

	return logger
}
