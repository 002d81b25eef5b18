// Package config defines batch configuration structures and loading hooks.
//
// Conventions:
// - Provide New(ctx) to build a Config with defaults.
// - Loading errors wrap ErrLoadConfig; validation returns a *FieldError.
package config

import (
	"context"
	"fmt"
	"runtime"
	"strings"
)

// Input encodings accepted for delimited text sources.
const (
	EncodingAuto     = "auto"
	EncodingUTF8     = "utf-8"
	EncodingShiftJIS = "shift_jis"
)

// Config contains process configuration.
type Config struct {
	// LogLevel controls verbosity: debug, info, warn, error.
	LogLevel string `koanf:"log_level"`

	// LogFormat selects the log handler: text or json.
	LogFormat string `koanf:"log_format"`

	// Input is the procurement export to classify (.csv, .tsv, .xlsx, .jsonl).
	Input string `koanf:"input"`

	// Output is where classified records are written (.jsonl or .xlsx).
	Output string `koanf:"output"`

	// InputEncoding applies to .csv and .tsv sources.
	InputEncoding string `koanf:"input_encoding"`

	// Sheet names the worksheet of an .xlsx source; empty means the first sheet.
	Sheet string `koanf:"sheet"`

	// WorkerCount sets the number of classification workers.
	WorkerCount int `koanf:"worker_count"`

	// QueueSize bounds the in-memory row queue.
	QueueSize int `koanf:"queue_size"`

	// DedupeSize sets the size of the case id deduplication cache.
	DedupeSize int `koanf:"dedupe_size"`

	// ShardCount configures the number of shards in the record store.
	ShardCount int `koanf:"shard_count"`

	// MetricsTextfile, when set, receives a Prometheus textfile dump after the batch.
	MetricsTextfile string `koanf:"metrics_textfile"`
}

// New creates a Config with defaults. The context is reserved for future use.
func New(_ context.Context) *Config {
	return &Config{
		LogLevel:      "info",
		LogFormat:     "text",
		InputEncoding: EncodingAuto,
		WorkerCount:   runtime.NumCPU(),
		QueueSize:     1_000,
		DedupeSize:    100_000,
		ShardCount:    8,
	}
}

// Validate checks the values a batch run depends on.
func (c *Config) Validate() error {
	if c.Input == "" {
		return &FieldError{Field: "input", Reason: "must not be empty"}
	}
	if c.Output == "" {
		return &FieldError{Field: "output", Reason: "must not be empty"}
	}
	switch strings.ToLower(c.InputEncoding) {
	case EncodingAuto, EncodingUTF8, EncodingShiftJIS:
	default:
		return &FieldError{Field: "input_encoding", Reason: fmt.Sprintf("unknown value %q", c.InputEncoding)}
	}
	switch strings.ToLower(c.LogFormat) {
	case "text", "json":
	default:
		return &FieldError{Field: "log_format", Reason: fmt.Sprintf("unknown value %q", c.LogFormat)}
	}
	if c.WorkerCount <= 0 {
		return &FieldError{Field: "worker_count", Reason: "must be positive"}
	}
	if c.QueueSize <= 0 {
		return &FieldError{Field: "queue_size", Reason: "must be positive"}
	}
	if c.DedupeSize <= 0 {
		return &FieldError{Field: "dedupe_size", Reason: "must be positive"}
	}
	if c.ShardCount <= 0 {
		return &FieldError{Field: "shard_count", Reason: "must be positive"}
	}
	return nil
}
