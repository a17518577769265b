package udf

import (
	"log/slog"

	"github.com/tsawler/udf/font"
)

// ConvertOptions holds configuration for a conversion.
type ConvertOptions struct {
	// Font policy
	canonicalFont  string
	preferDeclared bool
	family         *font.Family // TrueType files for PDF output

	// Placeholders
	imagePlaceholder    string
	markdownPlaceholder string

	// Backend options
	ocr         bool
	ocrLanguage string
	optimize    bool
	title       string

	maxInputSize int64
	logger       *slog.Logger
}

// defaultOptions returns the default conversion options. Empty values are
// filled in by the renderers.
func defaultOptions() ConvertOptions {
	return ConvertOptions{
		canonicalFont:       "",
		preferDeclared:      false,
		imagePlaceholder:    "",
		markdownPlaceholder: "",
		ocr:                 false,
		optimize:            false,
		maxInputSize:        0, // parser default
	}
}

// clone creates a copy of ConvertOptions. The font family is shared; it
// is never modified after it has been loaded.
func (o ConvertOptions) clone() ConvertOptions {
	return o
}

func (o ConvertOptions) log() *slog.Logger {
	if o.logger == nil {
		return slog.Default()
	}
	return o.logger
}
