package render

import (
	"log/slog"
	"strings"
)

// DefaultCanonicalFont is the family used for every run unless a policy
// says otherwise.
const DefaultCanonicalFont = "DejaVuSerif"

// Placeholders written in place of images that cannot be decoded.
const (
	DefaultImagePlaceholder    = "[GÖRSEL]"
	DefaultMarkdownPlaceholder = "[Image]"
)

// FontPolicy decides the font family of a run.
//
// The zero value always uses the canonical font, which guarantees glyph
// coverage for Turkish text regardless of what the document declares.
type FontPolicy struct {
	Canonical      string
	PreferDeclared bool
}

// Family returns the family to use for a run that declares declared.
func (p FontPolicy) Family(declared string) string {
	if p.PreferDeclared && strings.TrimSpace(declared) != "" {
		return declared
	}
	if p.Canonical == "" {
		return DefaultCanonicalFont
	}
	return p.Canonical
}

// Options are shared by every backend.
type Options struct {
	Fonts FontPolicy

	// ImagePlaceholder replaces images that cannot be decoded.
	ImagePlaceholder string

	// Logger for debug and warning messages.
	Logger *slog.Logger
}

// Defaults fills unset options. placeholder is the backend's own default.
func (o *Options) Defaults(placeholder string) {
	if o.Fonts.Canonical == "" {
		o.Fonts.Canonical = DefaultCanonicalFont
	}
	if o.ImagePlaceholder == "" {
		o.ImagePlaceholder = placeholder
	}
	if o.Logger == nil {
		o.Logger = slog.Default()
	}
}
