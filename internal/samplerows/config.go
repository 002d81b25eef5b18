// Package samplerows generates synthetic procurement exports for exercising
// the batch classifier.
package samplerows

import "time"

// Config holds configuration for one generation run.
type Config struct {
	NumRows       int     // Number of rows to generate
	Workers       int     // Number of concurrent generators
	FirstCaseID   int     // Case id of the first row
	DuplicateRate float64 // Share of rows that repeat an earlier case id
	MissingRate   float64 // Share of rows without a case id
	Output        string  // Output file (.csv, .tsv or .xlsx)
	Encoding      string  // utf-8 or shift_jis for delimited output
	Verify        bool    // Read the file back and compare row counts
}

// Stats holds generation statistics.
type Stats struct {
	RowsGenerated int
	Duplicates    int
	MissingIDs    int
	ByPattern     map[string]int
	StartTime     time.Time
	EndTime       time.Time
	Duration      time.Duration
}

// Row is one generated export line together with the qualification
// pattern it was built from.
type Row struct {
	Cells   []string
	Pattern string
}
