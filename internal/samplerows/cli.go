package samplerows

import (
	"context"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/okian/nyusatsu/pkg/logger"
)

// SetupLogging initializes the global logger, writing to stdout and, when
// logFile is set, to that file as well.
func SetupLogging(logFile string, verbose bool) error {
	var out io.Writer = os.Stdout
	if logFile != "" {
		file, err := os.OpenFile(logFile, os.O_CREATE|os.O_WRONLY|os.O_APPEND, filePermission)
		if err != nil {
			return fmt.Errorf("failed to create log file: %w", err)
		}
		out = io.MultiWriter(os.Stdout, file)
	}

	if err := logger.Init(logger.WithOutput(out)); err != nil {
		return fmt.Errorf("failed to initialize logger: %w", err)
	}
	if verbose {
		_ = logger.SetLevelString("debug")
	}
	if logFile != "" {
		logger.Get().Info(context.Background(), "logging to file", logger.String("logFile", logFile))
	}
	return nil
}

// DefaultOutput returns a timestamped CSV file name.
func DefaultOutput(now time.Time) string {
	return "generated_rows_" + now.Format("20060102_150405") + ".csv"
}

// ShowHelp prints usage information for the row generator.
func ShowHelp(w io.Writer) {
	_, _ = io.WriteString(w, `Nyusatsu Row Generator
======================

Generates a synthetic procurement export with a mix of qualification clauses
for load testing the batch classifier.

Usage:
  go run ./cmd/gen-rows [options]

Options:
  -rows int
        Number of rows to generate (default 10000)
  -workers int
        Number of concurrent generators (default CPU cores)
  -first-id int
        Case id of the first row (default 100000)
  -duplicates float
        Share of rows repeating an earlier case id (default 0.02)
  -missing float
        Share of rows without a case id (default 0.01)
  -output string
        Output file, .csv, .tsv or .xlsx (default: generated_rows_TIMESTAMP.csv)
  -encoding string
        utf-8 or shift_jis for .csv and .tsv output (default "utf-8")
  -verify
        Read the file back and check the row counts
  -log string
        Also write logs to this file
  -verbose
        Enable debug logging
  -help
        Show this help message

Examples:
  # Ten thousand rows in UTF-8
  go run ./cmd/gen-rows

  # A Shift_JIS export as the procurement portal produces it
  go run ./cmd/gen-rows -rows 50000 -encoding shift_jis -output cases.csv -verify

  # Classify it
  go run ./cmd -input cases.csv -output cases.xlsx
`)
}
