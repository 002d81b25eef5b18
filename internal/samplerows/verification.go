package samplerows

import (
	"context"
	"fmt"

	"github.com/okian/nyusatsu/internal/adapters/source"
	"github.com/okian/nyusatsu/internal/domain/model"
	"github.com/okian/nyusatsu/pkg/logger"
)

// verifyFile reads the written export through the batch source and checks
// that every generated row and its case id survived the round trip.
func verifyFile(ctx context.Context, config *Config, stats *Stats) error {
	logger.Get().Info(ctx, "verifying generated file")

	reader, err := source.Open(config.Output, source.WithEncoding(encodingForSource(config.Encoding)))
	if err != nil {
		return fmt.Errorf("%w: %w", ErrVerification, err)
	}
	rows, err := reader.ReadAll(ctx)
	if err != nil {
		return fmt.Errorf("%w: %w", ErrVerification, err)
	}

	if len(rows) != stats.RowsGenerated {
		return fmt.Errorf("%w: read %d rows, generated %d", ErrVerification, len(rows), stats.RowsGenerated)
	}

	missing := 0
	for _, row := range rows {
		if _, ok := row.Values[model.FieldQualificationText]; !ok {
			return fmt.Errorf("%w: line %d has no qualification column", ErrVerification, row.Line)
		}
		if row.CaseID() == "" {
			missing++
		}
	}
	if missing != stats.MissingIDs {
		return fmt.Errorf("%w: read %d rows without case id, generated %d", ErrVerification, missing, stats.MissingIDs)
	}

	logger.Get().Info(ctx, "generated file verified", logger.Int("rows", len(rows)))
	return nil
}

func encodingForSource(encoding string) string {
	if encoding == EncodingShiftJIS {
		return source.EncodingShiftJIS
	}
	return source.EncodingAuto
}
