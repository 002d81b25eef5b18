package main

import (
	"context"
	"flag"
	"os"
	"runtime"
	"time"

	"github.com/okian/nyusatsu/internal/samplerows"
)

// Default configuration constants.
const (
	defaultNumRows       = 10000
	defaultDuplicateRate = 0.02
	defaultMissingRate   = 0.01
	defaultTimeout       = 10 * time.Minute
)

func main() {
	var (
		numRows    = flag.Int("rows", defaultNumRows, "Number of rows to generate")
		workers    = flag.Int("workers", runtime.NumCPU(), "Number of concurrent generators")
		firstID    = flag.Int("first-id", samplerows.DefaultFirstCaseID, "Case id of the first row")
		duplicates = flag.Float64("duplicates", defaultDuplicateRate, "Share of rows repeating an earlier case id")
		missing    = flag.Float64("missing", defaultMissingRate, "Share of rows without a case id")
		outputFile = flag.String("output", "", "Output file (default: generated_rows_TIMESTAMP.csv)")
		encoding   = flag.String("encoding", samplerows.EncodingUTF8, "utf-8 or shift_jis for .csv and .tsv output")
		verify     = flag.Bool("verify", false, "Read the file back and check the row counts")
		logFile    = flag.String("log", "", "Also write logs to this file")
		verbose    = flag.Bool("verbose", false, "Enable verbose logging")
		help       = flag.Bool("help", false, "Show help")
	)
	flag.Parse()

	if *help {
		samplerows.ShowHelp(os.Stdout)
		return
	}

	if err := samplerows.SetupLogging(*logFile, *verbose); err != nil {
		os.Stderr.WriteString("Failed to setup logging: " + err.Error() + "\n")
		os.Exit(1)
	}

	ctx, cancel := context.WithTimeout(context.Background(), defaultTimeout)
	defer cancel()

	config := &samplerows.Config{
		NumRows:       *numRows,
		Workers:       *workers,
		FirstCaseID:   *firstID,
		DuplicateRate: *duplicates,
		MissingRate:   *missing,
		Output:        *outputFile,
		Encoding:      *encoding,
		Verify:        *verify,
	}

	if _, err := samplerows.Run(ctx, config); err != nil {
		os.Stderr.WriteString("Generation failed: " + err.Error() + "\n")
		cancel()
		os.Exit(1)
	}
}
