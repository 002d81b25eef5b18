package samplerows

import "errors"

// Sentinel errors for generation runs.
var (
	ErrUnsupportedOutput = errors.New("unsupported output format")
	ErrUnknownEncoding   = errors.New("unknown output encoding")
	ErrNoRows            = errors.New("no rows to generate")
	ErrVerification      = errors.New("generated file verification failed")
)
