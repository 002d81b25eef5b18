package record

import (
	"errors"
	"fmt"
)

// Sentinel kinds for record building errors.
var (
	ErrInvalidInput  = errors.New("invalid input")
	ErrMissingCaseID = errors.New("missing case id")
)

// InvalidInputError reports a row field whose value has the wrong shape.
type InvalidInputError struct {
	Field  string
	Reason string
}

func (e *InvalidInputError) Error() string {
	return fmt.Sprintf("invalid input: %s: %s", e.Field, e.Reason)
}

// Unwrap lets errors.Is match ErrInvalidInput.
func (e *InvalidInputError) Unwrap() error { return ErrInvalidInput }
