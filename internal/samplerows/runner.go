package samplerows

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/okian/nyusatsu/pkg/logger"
)

// File permission constants.
const (
	directoryPermission = 0o750
)

// Run generates the rows, writes them to config.Output and optionally reads
// the file back to verify it.
func Run(ctx context.Context, config *Config) (*Stats, error) {
	stats := &Stats{
		StartTime: time.Now(),
		ByPattern: make(map[string]int, len(Patterns)),
	}

	if config.NumRows <= 0 {
		return stats, ErrNoRows
	}
	if config.FirstCaseID <= 0 {
		config.FirstCaseID = DefaultFirstCaseID
	}
	if config.Output == "" {
		config.Output = DefaultOutput(stats.StartTime)
	}

	logger.Get().Info(ctx, "starting row generation",
		logger.Int("rows", config.NumRows),
		logger.Int("workers", config.Workers),
		logger.String("output", config.Output),
		logger.String("encoding", config.Encoding),
		logger.Float64("duplicateRate", config.DuplicateRate),
		logger.Float64("missingRate", config.MissingRate))

	// Step 1: Generate rows
	rows, err := generateRows(ctx, config)
	if err != nil {
		return stats, fmt.Errorf("row generation failed: %w", err)
	}
	tally(rows, stats)

	// Step 2: Write the export file
	if dir := filepath.Dir(config.Output); dir != "." {
		if err := os.MkdirAll(dir, directoryPermission); err != nil {
			return stats, fmt.Errorf("failed to create directory: %w", err)
		}
	}
	if err := WriteFile(config.Output, config.Encoding, rows); err != nil {
		return stats, fmt.Errorf("write failed: %w", err)
	}
	logger.Get().Info(ctx, "rows saved to file", logger.String("filename", config.Output))

	// Step 3: Read the file back
	if config.Verify {
		if err := verifyFile(ctx, config, stats); err != nil {
			return stats, err
		}
	}

	stats.EndTime = time.Now()
	stats.Duration = stats.EndTime.Sub(stats.StartTime)
	displayFinalStats(ctx, stats)

	return stats, nil
}

// tally counts generated rows by pattern, repeated case ids and missing ids.
func tally(rows []Row, stats *Stats) {
	seen := make(map[string]struct{}, len(rows))
	for _, row := range rows {
		stats.RowsGenerated++
		stats.ByPattern[row.Pattern]++
		id := row.Cells[colCaseID]
		if id == "" {
			stats.MissingIDs++
			continue
		}
		if _, dup := seen[id]; dup {
			stats.Duplicates++
			continue
		}
		seen[id] = struct{}{}
	}
}

// displayFinalStats logs the final generation statistics.
func displayFinalStats(ctx context.Context, stats *Stats) {
	var rowsPerSecond float64
	if stats.Duration > 0 {
		rowsPerSecond = float64(stats.RowsGenerated) / stats.Duration.Seconds()
	}

	fields := []logger.Field{
		logger.Int("rowsGenerated", stats.RowsGenerated),
		logger.Int("duplicates", stats.Duplicates),
		logger.Int("missingIDs", stats.MissingIDs),
		logger.String("duration", stats.Duration.String()),
		logger.Float64("rowsPerSecond", rowsPerSecond),
	}
	for _, p := range Patterns {
		fields = append(fields, logger.Int("pattern_"+p, stats.ByPattern[p]))
	}
	logger.Get().Info(ctx, "final statistics", fields...)
}
