package source

import (
	"context"
	"fmt"

	"github.com/xuri/excelize/v2"

	"github.com/okian/nyusatsu/internal/domain/model"
	"github.com/okian/nyusatsu/pkg/logger"
)

type xlsxReader struct {
	path   string
	sheet  string
	logger logger.Logger
}

func (r *xlsxReader) Format() Format { return FormatXLSX }

func (r *xlsxReader) ReadAll(ctx context.Context) ([]model.Row, error) {
	f, err := excelize.OpenFile(r.path)
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", r.path, err)
	}
	defer func() { _ = f.Close() }()

	sheet := r.sheet
	if sheet == "" {
		sheet = f.GetSheetName(0)
	}
	if idx, err := f.GetSheetIndex(sheet); err != nil || idx == -1 {
		return nil, fmt.Errorf("%s: %w: %q", r.path, ErrSheetNotFound, sheet)
	}
	r.logger.Debug(ctx, "reading worksheet", logger.String("path", r.path), logger.String("sheet", sheet))

	grid, err := f.GetRows(sheet)
	if err != nil {
		return nil, fmt.Errorf("%s: read sheet %q: %w", r.path, sheet, err)
	}
	if len(grid) == 0 {
		return nil, fmt.Errorf("%s: %w", r.path, ErrNoHeader)
	}
	index, err := headerIndex(grid[0])
	if err != nil {
		return nil, fmt.Errorf("%s: %w", r.path, err)
	}

	rows := make([]model.Row, 0, len(grid)-1)
	for i, cells := range grid[1:] {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		if blank(cells) {
			continue
		}
		rows = append(rows, rowFromCells(r.path, i+2, index, cells))
	}
	return rows, nil
}
