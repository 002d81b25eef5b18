// Package sink writes classified records to JSON lines or Excel files.
package sink

import (
	"bufio"
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/xuri/excelize/v2"

	"github.com/okian/nyusatsu/internal/domain/record"
)

// SheetName is the worksheet that holds exported cases.
const SheetName = "Cases"

// Write stores records at path in the format chosen by its extension.
func Write(ctx context.Context, path string, records []record.Record) error {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".jsonl", ".ndjson":
		return writeJSONL(ctx, path, records)
	case ".xlsx":
		return writeXLSX(ctx, path, records)
	default:
		return fmt.Errorf("%w: %q", ErrUnsupportedFormat, path)
	}
}

func writeJSONL(ctx context.Context, path string, records []record.Record) (err error) {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create %s: %w", path, err)
	}
	defer func() {
		if cerr := f.Close(); cerr != nil && err == nil {
			err = fmt.Errorf("close %s: %w", path, cerr)
		}
	}()

	w := bufio.NewWriter(f)
	enc := json.NewEncoder(w)
	enc.SetEscapeHTML(false)
	for _, rec := range records {
		if err := ctx.Err(); err != nil {
			return err
		}
		if err := enc.Encode(rec); err != nil {
			return fmt.Errorf("encode case %d: %w", rec.CaseID, err)
		}
	}
	if err := w.Flush(); err != nil {
		return fmt.Errorf("write %s: %w", path, err)
	}
	return nil
}

func writeXLSX(ctx context.Context, path string, records []record.Record) error {
	f := excelize.NewFile()
	defer func() { _ = f.Close() }()

	if index, _ := f.GetSheetIndex(SheetName); index == -1 {
		if _, err := f.NewSheet(SheetName); err != nil {
			return fmt.Errorf("create sheet: %w", err)
		}
	}
	activeIndex, _ := f.GetSheetIndex(SheetName)
	f.SetActiveSheet(activeIndex)
	if first := f.GetSheetName(0); first != SheetName {
		if err := f.DeleteSheet(first); err != nil {
			return fmt.Errorf("drop default sheet: %w", err)
		}
	}

	columns := record.Columns()
	for i, h := range columns {
		cell, _ := excelize.CoordinatesToCellName(i+1, 1)
		if err := f.SetCellValue(SheetName, cell, h); err != nil {
			return fmt.Errorf("write header: %w", err)
		}
	}

	for r, rec := range records {
		if err := ctx.Err(); err != nil {
			return err
		}
		values, err := flatten(rec)
		if err != nil {
			return fmt.Errorf("flatten case %d: %w", rec.CaseID, err)
		}
		for c, key := range columns {
			v, ok := values[key]
			if !ok || v == nil {
				continue
			}
			cell, _ := excelize.CoordinatesToCellName(c+1, r+2)
			if err := f.SetCellValue(SheetName, cell, v); err != nil {
				return fmt.Errorf("write case %d: %w", rec.CaseID, err)
			}
		}
	}

	if err := f.SaveAs(path); err != nil {
		return fmt.Errorf("save %s: %w", path, err)
	}
	return nil
}

// flatten maps a record to cell values keyed by JSON column. Lists and
// objects become JSON text.
func flatten(rec record.Record) (map[string]any, error) {
	raw, err := json.Marshal(rec)
	if err != nil {
		return nil, err
	}
	dec := json.NewDecoder(bytes.NewReader(raw))
	dec.UseNumber()
	var fields map[string]any
	if err := dec.Decode(&fields); err != nil {
		return nil, err
	}

	out := make(map[string]any, len(fields))
	for k, v := range fields {
		switch val := v.(type) {
		case json.Number:
			if i, err := val.Int64(); err == nil {
				out[k] = i
			} else if f, err := val.Float64(); err == nil {
				out[k] = f
			}
		case []any, map[string]any:
			text, err := marshalText(val)
			if err != nil {
				return nil, err
			}
			out[k] = text
		default:
			out[k] = val
		}
	}
	return out, nil
}

func marshalText(v any) (string, error) {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	if err := enc.Encode(v); err != nil {
		return "", err
	}
	return strings.TrimSuffix(buf.String(), "\n"), nil
}
