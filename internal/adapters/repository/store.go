// Package repository keeps classified case records for the duration of a batch.
package repository

import (
	"context"

	"github.com/okian/nyusatsu/internal/domain/record"
)

// Store provides read/write access to classified records keyed by case id.
type Store interface {
	// Save inserts or replaces the record for rec.CaseID.
	// Returns true if the case was not stored before.
	Save(ctx context.Context, rec record.Record) (bool, error)

	// Get returns the record for caseID or ErrNotFound.
	Get(ctx context.Context, caseID int64) (record.Record, error)

	// Count returns the number of stored cases.
	Count(ctx context.Context) int

	// All returns every stored record ordered by case id.
	All(ctx context.Context) []record.Record
}
