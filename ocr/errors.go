package ocr

import "errors"

// DefaultLanguage is used when no language is configured.
const DefaultLanguage = "tur"

var (
	// ErrOCRNotEnabled is returned when OCR support was not compiled in.
	// Rebuild with -tags ocr to enable it.
	ErrOCRNotEnabled = errors.New("ocr: support not enabled; rebuild with -tags ocr")

	// ErrClosed is returned by a client used after Close.
	ErrClosed = errors.New("ocr: client closed")
)
