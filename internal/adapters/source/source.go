// Package source reads procurement exports into raw rows.
package source

import (
	"context"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/okian/nyusatsu/internal/domain/model"
	"github.com/okian/nyusatsu/pkg/logger"
)

// Format identifies an input file layout.
type Format string

// Supported formats.
const (
	FormatCSV   Format = "csv"
	FormatTSV   Format = "tsv"
	FormatXLSX  Format = "xlsx"
	FormatJSONL Format = "jsonl"
)

// Reader yields every row of one input file.
type Reader interface {
	Format() Format
	ReadAll(ctx context.Context) ([]model.Row, error)
}

// DetectFormat maps a file extension to its format.
func DetectFormat(path string) (Format, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".csv":
		return FormatCSV, nil
	case ".tsv":
		return FormatTSV, nil
	case ".xlsx":
		return FormatXLSX, nil
	case ".jsonl", ".ndjson":
		return FormatJSONL, nil
	default:
		return "", fmt.Errorf("%w: %q", ErrUnsupportedFormat, path)
	}
}

// Open returns a Reader for path chosen by its extension. The file is read
// when ReadAll is called.
func Open(path string, opts ...Option) (Reader, error) {
	o := options{encoding: EncodingAuto, logger: logger.Discard()}
	for _, opt := range opts {
		opt(&o)
	}

	format, err := DetectFormat(path)
	if err != nil {
		return nil, err
	}

	switch format {
	case FormatCSV, FormatTSV:
		enc := strings.ToLower(o.encoding)
		switch enc {
		case EncodingAuto, EncodingUTF8, EncodingShiftJIS:
		default:
			return nil, fmt.Errorf("%w: %q", ErrUnknownEncoding, o.encoding)
		}
		comma := ','
		if format == FormatTSV {
			comma = '\t'
		}
		return &delimitedReader{path: path, format: format, comma: comma, encoding: enc, logger: o.logger}, nil
	case FormatXLSX:
		return &xlsxReader{path: path, sheet: o.sheet, logger: o.logger}, nil
	default:
		return &jsonlReader{path: path}, nil
	}
}

// headerIndex maps column positions to canonical fields. Unknown headers
// are left out.
func headerIndex(header []string) (map[int]string, error) {
	index := make(map[int]string, len(header))
	for i, h := range header {
		if field, ok := model.Canonical(h); ok {
			index[i] = field
		}
	}
	if len(index) == 0 {
		return nil, ErrNoHeader
	}
	return index, nil
}

// rowFromCells builds a row from one record of cells. When two headers map
// to the same field the first non-blank cell wins.
func rowFromCells(path string, line int, index map[int]string, cells []string) model.Row {
	values := make(map[string]any, len(index))
	for i, cell := range cells {
		if field, ok := index[i]; ok {
			mergeValue(values, field, cell)
		}
	}
	return model.Row{Source: path, Line: line, Values: values}
}

// mergeValue sets field unless an earlier alias already gave it a non-blank
// value. Columns and keys are visited in source order.
func mergeValue(values map[string]any, field string, v any) {
	if prev, seen := values[field]; seen && !blankValue(prev) {
		return
	}
	values[field] = v
}

func blankValue(v any) bool {
	switch t := v.(type) {
	case nil:
		return true
	case string:
		return strings.TrimSpace(t) == ""
	default:
		return false
	}
}

func blank(cells []string) bool {
	for _, c := range cells {
		if strings.TrimSpace(c) != "" {
			return false
		}
	}
	return true
}
