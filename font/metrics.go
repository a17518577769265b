package font

import (
	"golang.org/x/text/unicode/norm"
)

// Advance widths in 1000ths of an em for the printable ASCII range,
// starting at the space character. Index 7 is quotesingle as in
// WinAnsiEncoding.
var (
	timesRomanWidths = [95]uint16{
		250, 333, 408, 500, 500, 833, 778, 180, 333, 333, 500, 564, 250, 333, 250, 278,
		500, 500, 500, 500, 500, 500, 500, 500, 500, 500, 278, 278, 564, 564, 564, 444,
		921, 722, 667, 667, 722, 611, 556, 722, 722, 333, 389, 722, 611, 889, 722, 722,
		556, 722, 667, 556, 611, 722, 722, 944, 722, 722, 611, 333, 278, 333, 469, 500,
		333, 444, 500, 444, 500, 444, 333, 500, 500, 278, 278, 500, 278, 778, 500, 500,
		500, 500, 333, 389, 278, 500, 500, 722, 500, 500, 444, 480, 200, 480, 541,
	}
	timesBoldWidths = [95]uint16{
		250, 333, 555, 500, 500, 1000, 833, 278, 333, 333, 500, 570, 250, 333, 250, 278,
		500, 500, 500, 500, 500, 500, 500, 500, 500, 500, 333, 333, 570, 570, 570, 500,
		930, 722, 667, 722, 722, 667, 611, 778, 778, 389, 500, 778, 667, 944, 722, 778,
		611, 778, 722, 556, 667, 722, 722, 1000, 722, 722, 667, 333, 278, 333, 581, 500,
		333, 500, 556, 444, 556, 444, 333, 500, 556, 278, 333, 556, 278, 833, 556, 500,
		556, 556, 444, 389, 333, 556, 500, 722, 500, 500, 444, 394, 220, 394, 520,
	}
	timesItalicWidths = [95]uint16{
		250, 333, 420, 500, 500, 833, 778, 214, 333, 333, 500, 675, 250, 333, 250, 278,
		500, 500, 500, 500, 500, 500, 500, 500, 500, 500, 333, 333, 675, 675, 675, 500,
		920, 611, 611, 667, 722, 611, 611, 722, 722, 333, 444, 667, 556, 833, 667, 722,
		611, 722, 611, 500, 556, 722, 611, 833, 611, 556, 556, 389, 278, 389, 422, 500,
		333, 500, 500, 444, 500, 444, 278, 500, 500, 278, 278, 444, 278, 722, 500, 500,
		500, 500, 389, 389, 278, 500, 444, 667, 444, 444, 389, 400, 275, 400, 541,
	}
	timesBoldItalicWidths = [95]uint16{
		250, 389, 555, 500, 500, 833, 778, 278, 333, 333, 500, 570, 250, 333, 250, 278,
		500, 500, 500, 500, 500, 500, 500, 500, 500, 500, 333, 333, 570, 570, 570, 500,
		832, 667, 667, 667, 722, 667, 667, 722, 778, 389, 500, 667, 611, 889, 722, 722,
		611, 722, 667, 556, 611, 722, 667, 889, 667, 611, 611, 333, 278, 333, 570, 500,
		333, 500, 500, 444, 500, 444, 333, 500, 556, 278, 278, 500, 278, 778, 556, 500,
		500, 500, 389, 389, 278, 556, 444, 667, 500, 444, 389, 348, 220, 348, 570,
	}
)

// Punctuation outside ASCII shared by the Times faces.
var timesExtraWidths = map[rune]uint16{
	'\u00A0': 250,  // no-break space
	'\u00A7': 500,  // section
	'\u00AB': 500,  // guillemotleft
	'\u00B0': 400,  // degree
	'\u00B7': 250,  // periodcentered
	'\u00BB': 500,  // guillemotright
	'\u2013': 500,  // endash
	'\u2014': 1000, // emdash
	'\u2018': 333,  // quoteleft
	'\u2019': 333,  // quoteright
	'\u201C': 444,  // quotedblleft
	'\u201D': 444,  // quotedblright
	'\u2022': 350,  // bullet
	'\u2026': 1000, // ellipsis
	'\u20AC': 500,  // Euro
}

const defaultWidth = 500

// metrics holds the widths of one Standard face.
type metrics struct {
	ascii   *[95]uint16
	ascent  float64
	descent float64
}

var timesMetrics = map[Style]metrics{
	Regular:    {&timesRomanWidths, 683, -217},
	Bold:       {&timesBoldWidths, 676, -205},
	Italic:     {&timesItalicWidths, 683, -205},
	BoldItalic: {&timesBoldItalicWidths, 699, -205},
}

// width returns the advance of r in 1000ths of an em.
func (m metrics) width(r rune) float64 {
	if r >= 32 && r <= 126 {
		return float64(m.ascii[r-32])
	}
	if w, ok := timesExtraWidths[r]; ok {
		return float64(w)
	}
	if base, ok := baseLetter(r); ok {
		return m.width(base)
	}
	return defaultWidth
}

// baseLetter returns the letter r is built on: the first rune of its NFD
// form, or i for the dotless i.
func baseLetter(r rune) (rune, bool) {
	if r == 'ı' {
		return 'i', true
	}
	d := []rune(norm.NFD.String(string(r)))
	if len(d) > 1 && d[0] >= 32 && d[0] <= 126 {
		return d[0], true
	}
	return 0, false
}
