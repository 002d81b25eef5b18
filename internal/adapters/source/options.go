package source

import "github.com/okian/nyusatsu/pkg/logger"

// Input encodings for delimited text.
const (
	EncodingAuto     = "auto"
	EncodingUTF8     = "utf-8"
	EncodingShiftJIS = "shift_jis"
)

type options struct {
	encoding string
	sheet    string
	logger   logger.Logger
}

// Option configures Open.
type Option func(*options)

// WithEncoding sets the encoding of .csv and .tsv input. auto detects
// UTF-8 and falls back to Shift_JIS.
func WithEncoding(encoding string) Option {
	return func(o *options) {
		if encoding != "" {
			o.encoding = encoding
		}
	}
}

// WithSheet selects the worksheet of an .xlsx workbook.
func WithSheet(sheet string) Option {
	return func(o *options) { o.sheet = sheet }
}

// WithLogger sets the logger used to report decoding decisions.
func WithLogger(l logger.Logger) Option {
	return func(o *options) {
		if l != nil {
			o.logger = l
		}
	}
}
