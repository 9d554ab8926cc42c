package main

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/joho/godotenv"
	"github.com/sirupsen/logrus"

	"btran/budget-csv/cmd/categorize"
	"btran/budget-csv/cmd/process"
	recurringcmd "btran/budget-csv/cmd/recurring"
	reportcmd "btran/budget-csv/cmd/report"
	"btran/budget-csv/cmd/root"
)

func init() {
	// Load environment variables silently first (no logging yet)
	loadEnvSilently()

	// Configure the global log level before any logger is created
	logrus.SetLevel(resolveLogLevel())

	root.Init()

	root.Cmd.AddCommand(process.Cmd)
	root.Cmd.AddCommand(recurringcmd.Cmd)
	root.Cmd.AddCommand(reportcmd.Cmd)
	root.Cmd.AddCommand(categorize.Cmd)
}

// loadEnvSilently loads environment variables without logging anything
func loadEnvSilently() {
	envFile := ".env"
	if _, err := os.Stat(envFile); os.IsNotExist(err) {
		// Try to find .env in parent directory (project root)
		envFile = filepath.Join("..", ".env")
		if _, err := os.Stat(envFile); os.IsNotExist(err) {
			return
		}
	}
	_ = godotenv.Load(envFile)
}

// resolveLogLevel reads LOG_LEVEL from the environment, defaulting to info.
func resolveLogLevel() logrus.Level {
	logLevelStr := os.Getenv("LOG_LEVEL")
	if logLevelStr == "" {
		logLevelStr = "info"
	}
	logLevel, err := logrus.ParseLevel(strings.ToLower(logLevelStr))
	if err != nil {
		logLevel = logrus.InfoLevel
	}
	return logLevel
}

func main() {
	if err := root.Cmd.Execute(); err != nil {
		fmt.Println(err)
		os.Exit(1)
	}
}
