package font

import (
	"github.com/tsawler/udf/core"
)

// Style selects the weight and slant of a face.
type Style int

const (
	Regular Style = iota
	Bold
	Italic
	BoldItalic
)

// StyleOf returns the style for the given attributes.
func StyleOf(bold, italic bool) Style {
	switch {
	case bold && italic:
		return BoldItalic
	case bold:
		return Bold
	case italic:
		return Italic
	default:
		return Regular
	}
}

// String returns the string representation of the style
func (s Style) String() string {
	switch s {
	case Bold:
		return "Bold"
	case Italic:
		return "Italic"
	case BoldItalic:
		return "BoldItalic"
	default:
		return "Regular"
	}
}

// Face is a font the renderer can measure and draw text with.
type Face interface {
	// BaseFont is the PostScript name written to the font dictionary.
	BaseFont() string

	// Encode returns the bytes a Tj operator shows for s.
	Encode(s string) []byte

	// Width returns the advance width of s in points at size.
	Width(s string, size float64) float64

	// Ascent and Descent are in 1000ths of the font size. Descent is
	// negative.
	Ascent() float64
	Descent() float64

	// Embed writes the font dictionary and everything it refers to.
	// Faces that record glyph usage must be embedded after all text has
	// been encoded.
	Embed(w *core.Writer) (core.IndirectRef, error)
}

// LineHeight returns the distance between baselines at size with single
// spacing.
func LineHeight(f Face, size float64) float64 {
	return (f.Ascent() - f.Descent()) * size / 1000
}
