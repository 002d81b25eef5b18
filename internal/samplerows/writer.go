package samplerows

import (
	"bufio"
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/xuri/excelize/v2"
	"golang.org/x/text/encoding/japanese"
	"golang.org/x/text/transform"
)

// WriteFile writes the header and rows to path. .csv and .tsv honor encoding;
// .xlsx always stores Unicode.
func WriteFile(path, encoding string, rows []Row) error {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".csv":
		return writeDelimited(path, encoding, ',', rows)
	case ".tsv":
		return writeDelimited(path, encoding, '\t', rows)
	case ".xlsx":
		return writeWorkbook(path, rows)
	default:
		return fmt.Errorf("%w: %q", ErrUnsupportedOutput, path)
	}
}

func writeDelimited(path, encoding string, comma rune, rows []Row) (err error) {
	f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, filePermission)
	if err != nil {
		return fmt.Errorf("failed to create output file: %w", err)
	}
	defer func() {
		if cerr := f.Close(); cerr != nil && err == nil {
			err = fmt.Errorf("failed to close output file: %w", cerr)
		}
	}()

	buf := bufio.NewWriter(f)
	var out io.Writer = buf
	var encoder *transform.Writer
	switch strings.ToLower(encoding) {
	case "", EncodingUTF8:
	case EncodingShiftJIS:
		encoder = transform.NewWriter(buf, japanese.ShiftJIS.NewEncoder())
		out = encoder
	default:
		return fmt.Errorf("%w: %q", ErrUnknownEncoding, encoding)
	}

	w := csv.NewWriter(out)
	w.Comma = comma
	if err := w.Write(Header); err != nil {
		return fmt.Errorf("failed to write header: %w", err)
	}
	for i, row := range rows {
		if err := w.Write(row.Cells); err != nil {
			return fmt.Errorf("failed to write row %d: %w", i, err)
		}
	}
	w.Flush()
	if err := w.Error(); err != nil {
		return fmt.Errorf("failed to flush rows: %w", err)
	}
	if encoder != nil {
		if err := encoder.Close(); err != nil {
			return fmt.Errorf("failed to encode rows: %w", err)
		}
	}
	return buf.Flush()
}

func writeWorkbook(path string, rows []Row) error {
	f := excelize.NewFile()
	defer func() { _ = f.Close() }()
	sheet := f.GetSheetName(0)

	header := make([]any, len(Header))
	for i, h := range Header {
		header[i] = h
	}
	if err := f.SetSheetRow(sheet, "A1", &header); err != nil {
		return fmt.Errorf("failed to write header: %w", err)
	}
	for i, row := range rows {
		values := make([]any, len(row.Cells))
		for j, c := range row.Cells {
			values[j] = c
		}
		cell, _ := excelize.CoordinatesToCellName(1, i+2)
		if err := f.SetSheetRow(sheet, cell, &values); err != nil {
			return fmt.Errorf("failed to write row %d: %w", i, err)
		}
	}
	if err := f.SaveAs(path); err != nil {
		return fmt.Errorf("failed to save workbook: %w", err)
	}
	return nil
}
