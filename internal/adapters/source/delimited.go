package source

import (
	"bytes"
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"unicode/utf8"

	"golang.org/x/text/encoding/japanese"

	"github.com/okian/nyusatsu/internal/domain/model"
	"github.com/okian/nyusatsu/pkg/logger"
)

var utf8BOM = []byte{0xEF, 0xBB, 0xBF}

type delimitedReader struct {
	path     string
	format   Format
	comma    rune
	encoding string
	logger   logger.Logger
}

func (r *delimitedReader) Format() Format { return r.format }

func (r *delimitedReader) ReadAll(ctx context.Context) ([]model.Row, error) {
	raw, err := os.ReadFile(r.path)
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", r.path, err)
	}
	text, used, err := decode(raw, r.encoding)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", r.path, err)
	}
	r.logger.Debug(ctx, "input decoded", logger.String("path", r.path), logger.String("encoding", used))

	cr := csv.NewReader(bytes.NewReader(text))
	cr.Comma = r.comma
	cr.FieldsPerRecord = -1
	cr.LazyQuotes = true

	header, err := cr.Read()
	if errors.Is(err, io.EOF) {
		return nil, fmt.Errorf("%s: %w", r.path, ErrNoHeader)
	}
	if err != nil {
		return nil, fmt.Errorf("%s: %w: %w", r.path, ErrMalformedRecord, err)
	}
	index, err := headerIndex(header)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", r.path, err)
	}

	var rows []model.Row
	for {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		cells, err := cr.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("%s: %w: %w", r.path, ErrMalformedRecord, err)
		}
		if blank(cells) {
			continue
		}
		line, _ := cr.FieldPos(0)
		rows = append(rows, rowFromCells(r.path, line, index, cells))
	}
	return rows, nil
}

// decode returns raw as UTF-8 text along with the encoding that was applied.
func decode(raw []byte, encoding string) ([]byte, string, error) {
	switch encoding {
	case EncodingShiftJIS:
		out, err := japanese.ShiftJIS.NewDecoder().Bytes(raw)
		if err != nil {
			return nil, "", fmt.Errorf("%w: %w", ErrDecode, err)
		}
		return out, EncodingShiftJIS, nil
	case EncodingUTF8:
		if !utf8.Valid(raw) {
			return nil, "", fmt.Errorf("%w: not valid utf-8", ErrDecode)
		}
		return bytes.TrimPrefix(raw, utf8BOM), EncodingUTF8, nil
	default:
		if utf8.Valid(raw) {
			return bytes.TrimPrefix(raw, utf8BOM), EncodingUTF8, nil
		}
		return decode(raw, EncodingShiftJIS)
	}
}
