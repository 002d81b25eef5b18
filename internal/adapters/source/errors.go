package source

import "errors"

// Sentinel kinds for source errors.
var (
	ErrUnsupportedFormat = errors.New("unsupported input format")
	ErrUnknownEncoding   = errors.New("unknown input encoding")
	ErrDecode            = errors.New("input decoding failed")
	ErrNoHeader          = errors.New("input has no recognised header")
	ErrSheetNotFound     = errors.New("worksheet not found")
	ErrMalformedRecord   = errors.New("malformed record")
)
