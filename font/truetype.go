package font

import (
	"fmt"
	"sort"
	"strings"

	xfont "golang.org/x/image/font"
	"golang.org/x/image/font/sfnt"
	"golang.org/x/image/math/fixed"

	"github.com/tsawler/udf/core"
)

// ppem1000 makes sfnt report lengths in 1000ths of an em.
var ppem1000 = fixed.I(1000)

// TrueType is an embedded TrueType face. It records every glyph Encode
// hands out so that Embed can write widths and the ToUnicode CMap for
// exactly those glyphs. A TrueType face belongs to one document.
type TrueType struct {
	data     []byte
	font     *sfnt.Font
	buf      sfnt.Buffer
	baseFont string
	ascent   float64
	descent  float64
	bbox     [4]float64

	widths  map[sfnt.GlyphIndex]float64
	toUni   *CMap
	advance map[rune]glyph
}

type glyph struct {
	index sfnt.GlyphIndex
	width float64
}

// ParseTrueType parses a TrueType or OpenType (TrueType outlines) file.
func ParseTrueType(data []byte) (*TrueType, error) {
	f, err := sfnt.Parse(data)
	if err != nil {
		return nil, fmt.Errorf("failed to parse font: %w", err)
	}
	return newTrueType(data, f)
}

func newTrueType(data []byte, f *sfnt.Font) (*TrueType, error) {
	tt := &TrueType{
		data:    data,
		font:    f,
		widths:  make(map[sfnt.GlyphIndex]float64),
		toUni:   NewCMap(),
		advance: make(map[rune]glyph),
	}

	name, err := f.Name(&tt.buf, sfnt.NameIDPostScript)
	if err != nil || name == "" {
		name = "EmbeddedFont"
	}
	tt.baseFont = strings.Map(func(r rune) rune {
		if r <= ' ' || r > '~' || strings.ContainsRune("()<>[]{}/%#", r) {
			return -1
		}
		return r
	}, name)

	m, err := f.Metrics(&tt.buf, ppem1000, xfont.HintingNone)
	if err != nil {
		return nil, fmt.Errorf("failed to read font metrics: %w", err)
	}
	tt.ascent = float64(m.Ascent) / 64
	tt.descent = -float64(m.Descent) / 64

	b, err := f.Bounds(&tt.buf, ppem1000, xfont.HintingNone)
	if err != nil {
		return nil, fmt.Errorf("failed to read font bounds: %w", err)
	}
	// sfnt bounds grow downwards; PDF boxes grow upwards.
	tt.bbox = [4]float64{
		float64(b.Min.X) / 64, -float64(b.Max.Y) / 64,
		float64(b.Max.X) / 64, -float64(b.Min.Y) / 64,
	}
	return tt, nil
}

func (tt *TrueType) BaseFont() string { return tt.baseFont }
func (tt *TrueType) Ascent() float64  { return tt.ascent }
func (tt *TrueType) Descent() float64 { return tt.descent }

// lookup returns the glyph for r. Runes the font lacks fall back to their
// base letter and then to the .notdef glyph.
func (tt *TrueType) lookup(r rune) glyph {
	if g, ok := tt.advance[r]; ok {
		return g
	}

	idx, err := tt.font.GlyphIndex(&tt.buf, r)
	if (err != nil || idx == 0) && r != 'ı' {
		if base, ok := baseLetter(r); ok {
			idx, err = tt.font.GlyphIndex(&tt.buf, base)
		}
	}
	if err != nil {
		idx = 0
	}

	g := glyph{index: idx, width: defaultWidth}
	if adv, err := tt.font.GlyphAdvance(&tt.buf, idx, ppem1000, xfont.HintingNone); err == nil {
		g.width = float64(adv) / 64
	}
	tt.advance[r] = g
	return g
}

// Encode returns 2-byte glyph IDs and records the glyphs as used.
func (tt *TrueType) Encode(s string) []byte {
	out := make([]byte, 0, 2*len(s))
	for _, r := range s {
		switch r {
		case '\t', '\n', '\r':
			r = ' '
		}
		g := tt.lookup(r)
		tt.widths[g.index] = g.width
		if g.index != 0 {
			tt.toUni.Add(uint32(g.index), string(r))
		}
		out = append(out, byte(g.index>>8), byte(g.index))
	}
	return out
}

func (tt *TrueType) Width(s string, size float64) float64 {
	total := 0.0
	for _, r := range s {
		total += tt.lookup(r).width
	}
	return total * size / 1000
}

// Embed writes the Type0 font, its CIDFontType2 descendant, the font
// descriptor, the font file and the ToUnicode CMap.
func (tt *TrueType) Embed(w *core.Writer) (core.IndirectRef, error) {
	file, err := core.NewFlateStream(core.Dict{"Length1": core.Int(len(tt.data))}, tt.data, nil)
	if err != nil {
		return core.IndirectRef{}, fmt.Errorf("font file: %w", err)
	}
	toUnicode, err := tt.toUni.Stream()
	if err != nil {
		return core.IndirectRef{}, fmt.Errorf("tounicode: %w", err)
	}

	descriptor := w.Add(core.Dict{
		"Type":        core.Name("FontDescriptor"),
		"FontName":    core.Name(tt.baseFont),
		"Flags":       core.Int(32),
		"FontBBox":    core.Reals(tt.bbox[:]...),
		"ItalicAngle": core.Int(0),
		"Ascent":      core.Real(tt.ascent),
		"Descent":     core.Real(tt.descent),
		"CapHeight":   core.Real(tt.ascent),
		"StemV":       core.Int(80),
		"FontFile2":   w.Add(file),
	})

	cid := w.Add(core.Dict{
		"Type":     core.Name("Font"),
		"Subtype":  core.Name("CIDFontType2"),
		"BaseFont": core.Name(tt.baseFont),
		"CIDSystemInfo": core.Dict{
			"Registry":   core.String("Adobe"),
			"Ordering":   core.String("Identity"),
			"Supplement": core.Int(0),
		},
		"FontDescriptor": descriptor,
		"DW":             core.Int(defaultWidth),
		"W":              tt.widthArray(),
		"CIDToGIDMap":    core.Name("Identity"),
	})

	return w.Add(core.Dict{
		"Type":            core.Name("Font"),
		"Subtype":         core.Name("Type0"),
		"BaseFont":        core.Name(tt.baseFont),
		"Encoding":        core.Name("Identity-H"),
		"DescendantFonts": core.Array{cid},
		"ToUnicode":       w.Add(toUnicode),
	}), nil
}

// widthArray builds the W array as one "gid [w]" entry per used glyph.
func (tt *TrueType) widthArray() core.Array {
	gids := make([]sfnt.GlyphIndex, 0, len(tt.widths))
	for g := range tt.widths {
		gids = append(gids, g)
	}
	sort.Slice(gids, func(i, j int) bool { return gids[i] < gids[j] })

	arr := make(core.Array, 0, 2*len(gids))
	for _, g := range gids {
		arr = append(arr, core.Int(g), core.Array{core.Real(tt.widths[g])})
	}
	return arr
}

// ToUnicode returns the CMap of the glyphs encoded so far.
func (tt *TrueType) ToUnicode() *CMap { return tt.toUni }
