package font

import (
	"golang.org/x/text/encoding/charmap"

	"github.com/tsawler/udf/core"
)

var timesNames = map[Style]string{
	Regular:    "Times-Roman",
	Bold:       "Times-Bold",
	Italic:     "Times-Italic",
	BoldItalic: "Times-BoldItalic",
}

// Standard is a Times face from the Standard 14 fonts. It is not embedded.
type Standard struct {
	style   Style
	metrics metrics
}

// NewStandard returns the Times face for style.
func NewStandard(style Style) *Standard {
	m, ok := timesMetrics[style]
	if !ok {
		style, m = Regular, timesMetrics[Regular]
	}
	return &Standard{style: style, metrics: m}
}

func (f *Standard) BaseFont() string { return timesNames[f.style] }

func (f *Standard) Encode(s string) []byte { return EncodeTurkish(s) }

// Width measures the glyphs that Encode selects, so substituted runes are
// measured as drawn.
func (f *Standard) Width(s string, size float64) float64 {
	total := 0.0
	for _, b := range EncodeTurkish(s) {
		total += f.metrics.width(charmap.Windows1254.DecodeByte(b))
	}
	return total * size / 1000
}

func (f *Standard) Ascent() float64  { return f.metrics.ascent }
func (f *Standard) Descent() float64 { return f.metrics.descent }

func (f *Standard) Embed(w *core.Writer) (core.IndirectRef, error) {
	return w.Add(core.Dict{
		"Type":     core.Name("Font"),
		"Subtype":  core.Name("Type1"),
		"BaseFont": core.Name(f.BaseFont()),
		"Encoding": TurkishEncoding(),
	}), nil
}
