package font

import (
	"strings"

	"golang.org/x/text/encoding/charmap"

	"github.com/tsawler/udf/core"
)

// turkishDifferences patches WinAnsiEncoding into Windows-1254. The two
// code pages differ only in these six positions.
var turkishDifferences = core.Array{
	core.Int(0xD0), core.Name("Gbreve"),
	core.Int(0xDD), core.Name("Idotaccent"),
	core.Name("Scedilla"),
	core.Int(0xF0), core.Name("gbreve"),
	core.Int(0xFD), core.Name("dotlessi"),
	core.Name("scedilla"),
}

// TurkishEncoding returns the /Encoding dictionary of the Standard faces.
func TurkishEncoding() core.Dict {
	return core.Dict{
		"Type":         core.Name("Encoding"),
		"BaseEncoding": core.Name("WinAnsiEncoding"),
		"Differences":  turkishDifferences,
	}
}

// EncodeTurkish encodes s as Windows-1254. Runes outside the code page
// are replaced by their base letter when it exists and by '?' otherwise.
func EncodeTurkish(s string) []byte {
	out := make([]byte, 0, len(s))
	for _, r := range s {
		out = append(out, encodeRune(r))
	}
	return out
}

func encodeRune(r rune) byte {
	switch r {
	case '\t', '\n', '\r':
		return ' '
	}
	if b, ok := charmap.Windows1254.EncodeRune(r); ok {
		return b
	}
	if base, ok := baseLetter(r); ok {
		if b, ok := charmap.Windows1254.EncodeRune(base); ok {
			return b
		}
	}
	return '?'
}

// DecodeTurkish is the inverse of EncodeTurkish.
func DecodeTurkish(data []byte) string {
	var sb strings.Builder
	for _, b := range data {
		sb.WriteRune(charmap.Windows1254.DecodeByte(b))
	}
	return sb.String()
}
