package config

import "errors"

// ErrLoadConfig wraps failures reading the YAML file or the NYUSATSU_
// environment. ErrInvalidConfig is matched by every *FieldError.
var (
	ErrLoadConfig    = errors.New("load batch config")
	ErrInvalidConfig = errors.New("invalid batch config")
)

// FieldError names the setting that failed validation.
type FieldError struct {
	Field  string
	Reason string
}

func (e *FieldError) Error() string {
	return ErrInvalidConfig.Error() + ": " + e.Field + " " + e.Reason
}

func (e *FieldError) Unwrap() error { return ErrInvalidConfig }
