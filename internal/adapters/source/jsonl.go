package source

import (
	"bufio"
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"os"

	"github.com/okian/nyusatsu/internal/domain/model"
)

const maxJSONLine = 4 << 20

type jsonlReader struct {
	path string
}

func (r *jsonlReader) Format() Format { return FormatJSONL }

// ReadAll decodes one object per line. Values keep their decoded JSON type
// so that wrongly shaped fields reach the record builder's schema check.
// Keys are merged in the order they appear on the line.
func (r *jsonlReader) ReadAll(ctx context.Context) ([]model.Row, error) {
	f, err := os.Open(r.path)
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", r.path, err)
	}
	defer func() { _ = f.Close() }()

	sc := bufio.NewScanner(f)
	sc.Buffer(make([]byte, 0, 64*1024), maxJSONLine)

	var rows []model.Row
	line := 0
	for sc.Scan() {
		line++
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		text := bytes.TrimSpace(sc.Bytes())
		if len(text) == 0 {
			continue
		}
		values, err := decodeObject(text)
		if err != nil {
			return nil, fmt.Errorf("%s:%d: %w: %w", r.path, line, ErrMalformedRecord, err)
		}
		rows = append(rows, model.Row{Source: r.path, Line: line, Values: values})
	}
	if err := sc.Err(); err != nil {
		return nil, fmt.Errorf("read %s: %w", r.path, err)
	}
	return rows, nil
}

// decodeObject walks a single JSON object token by token so aliased keys
// merge in document order.
func decodeObject(text []byte) (map[string]any, error) {
	dec := json.NewDecoder(bytes.NewReader(text))
	dec.UseNumber()

	tok, err := dec.Token()
	if err != nil {
		return nil, err
	}
	if d, ok := tok.(json.Delim); !ok || d != '{' {
		return nil, fmt.Errorf("want object, got %v", tok)
	}

	values := make(map[string]any)
	for dec.More() {
		keyTok, err := dec.Token()
		if err != nil {
			return nil, err
		}
		key, ok := keyTok.(string)
		if !ok {
			return nil, fmt.Errorf("want key, got %v", keyTok)
		}
		var v any
		if err := dec.Decode(&v); err != nil {
			return nil, err
		}
		if field, ok := model.Canonical(key); ok {
			mergeValue(values, field, v)
		}
	}
	if _, err := dec.Token(); err != nil {
		return nil, err
	}
	return values, nil
}
