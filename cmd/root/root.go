// Package root contains the root command for the application
package root

import (
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"btran/budget-csv/internal/common"
	"btran/budget-csv/internal/config"
	"btran/budget-csv/internal/logging"
	"btran/budget-csv/internal/statement"
	"btran/budget-csv/internal/store"
)

var (
	// Log is the shared logger instance for commands
	Log = logrus.New()

	// Cfg is the resolved application configuration, available to all
	// subcommands after PersistentPreRun.
	Cfg *config.Config

	// Cmd is the root command
	Cmd = &cobra.Command{
		Use:   "budget-csv",
		Short: "A CLI tool to categorize bank statement exports and track spending.",
		Long: `budget-csv ingests credit card and checking account CSV exports,
normalizes merchant names, assigns budget categories through a layered rule
cascade, detects recurring charges, and generates spending reports.`,
		Run: func(cmd *cobra.Command, args []string) {
			Log.Info("Welcome to budget-csv!")
			Log.Info("Use --help to see available commands")
		},
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			config.LoadEnv()

			var err error
			Cfg, err = config.InitializeConfig()
			if err != nil {
				Log.Fatalf("Failed to initialize configuration: %v", err)
			}
			Log = config.ConfigureLoggingFromConfig(Cfg)

			adapter := logging.NewLogrusAdapterFromLogger(Log)
			logging.SetDefaultLogger(adapter)
			common.SetLogger(adapter)
			statement.SetLogger(adapter)
			store.SetLogger(adapter)

			if Cfg.CSV.Delimiter != "" {
				common.SetDelimiter([]rune(Cfg.CSV.Delimiter)[0])
			}
		},
	}

	// Shared flags for subcommands
	Year          int
	Month         int
	OutputDir     string
	StatementsDir string
	CheckingDir   string
)

// Init initializes the root command and all flags
func Init() {
	Cmd.PersistentFlags().IntVarP(&Year, "year", "y", 0, "Calendar year to process (0 = all years)")
	Cmd.PersistentFlags().StringVarP(&OutputDir, "output", "o", "", "Output directory (overrides configuration)")
}

// ResolvedYear returns the year flag when set, falling back to configuration.
func ResolvedYear() int {
	if Year != 0 {
		return Year
	}
	return Cfg.Data.Year
}

// ResolvedOutputDir returns the output flag when set, falling back to
// configuration.
func ResolvedOutputDir() string {
	if OutputDir != "" {
		return OutputDir
	}
	return Cfg.Data.OutputDir
}
