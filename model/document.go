package model

import "unicode/utf8"

// Document represents a parsed UDF document.
//
// A Document is built once by the parser and is read-only afterwards. All
// spans in it have been validated against Content, so renderers can call
// Text and RunText without further checks.
type Document struct {
	// Content is the flat text buffer addressed by every span.
	Content string

	// Styles maps style names to their definitions. Never nil.
	Styles map[string]StyleDef

	PageFormat PageFormat

	// Background is the optional full-page background image.
	Background *BackgroundImage

	Header *BlockGroup
	Footer *BlockGroup

	// Elements is the ordered body. Header and footer are never part of it.
	Elements []Block

	runes []rune
}

// BackgroundImage is the page background declared in the document properties.
type BackgroundImage struct {
	Data   []byte // base64 payload, still encoded
	Source string // original file reference, informational
}

// NewDocument creates an empty document over the given content buffer.
func NewDocument(content string) *Document {
	return &Document{
		Content:    content,
		Styles:     make(map[string]StyleDef),
		PageFormat: DefaultPageFormat(),
		runes:      []rune(content),
	}
}

// Len returns the length of the content buffer in characters.
func (d *Document) Len() int {
	if d.runes == nil {
		return utf8.RuneCountInString(d.Content)
	}
	return len(d.runes)
}

// buffer returns Content as runes. Documents not built by NewDocument
// get a fresh conversion on every call; the receiver is never written.
func (d *Document) buffer() []rune {
	if d.runes == nil {
		return []rune(d.Content)
	}
	return d.runes
}

// CheckSpan reports an OffsetError if s does not lie inside the buffer.
func (d *Document) CheckSpan(s Span) error {
	n := d.Len()
	if s.Offset < 0 || s.Length < 0 || s.Offset > n || s.Length > n-s.Offset {
		return &OffsetError{Offset: s.Offset, Length: s.Length, BufferLen: n}
	}
	return nil
}

// Text returns the buffer text covered by s.
// Spans outside the buffer yield an empty string; the parser never
// produces such spans.
func (d *Document) Text(s Span) string {
	if d.CheckSpan(s) != nil {
		return ""
	}
	return string(d.buffer()[s.Offset:s.End()])
}

// RunText returns the literal text a run contributes to its paragraph.
func (d *Document) RunText(r Run) string {
	switch run := r.(type) {
	case *TextRun:
		return d.Text(run.Span)
	case *GapRun:
		return d.Text(run.Span)
	case *FieldRun:
		if run.Span != nil {
			return d.Text(*run.Span)
		}
		return run.Name
	case *SpaceRun:
		return " "
	default:
		return ""
	}
}

// Style returns the named style, falling back to the "default" style and
// then to the built-in defaults.
func (d *Document) Style(name string) StyleDef {
	if s, ok := d.Styles[name]; ok && name != "" {
		return s
	}
	if s, ok := d.Styles[DefaultStyleName]; ok {
		return s
	}
	return DefaultStyle()
}

// EffectiveStyle fills the unset attributes of a run style from the named
// document style. Bold and italic from the style are added, never removed.
func (d *Document) EffectiveStyle(rs RunStyle, styleName string) RunStyle {
	def := d.Style(styleName)
	if rs.Size <= 0 {
		rs.Size = def.Size
	}
	if rs.Foreground == nil {
		fg := def.Foreground
		rs.Foreground = &fg
	}
	if rs.Family == "" {
		rs.Family = def.Family
	}
	rs.Bold = rs.Bold || def.Bold
	rs.Italic = rs.Italic || def.Italic
	return rs
}

// Paragraphs returns every paragraph of the body in document order,
// including paragraphs nested in table cells.
func (d *Document) Paragraphs() []*Paragraph {
	var out []*Paragraph
	for _, b := range d.Elements {
		switch el := b.(type) {
		case *Paragraph:
			out = append(out, el)
		case *Table:
			for ri := range el.Rows {
				for ci := range el.Rows[ri].Cells {
					cell := &el.Rows[ri].Cells[ci]
					for pi := range cell.Paragraphs {
						out = append(out, &cell.Paragraphs[pi])
					}
				}
			}
		}
	}
	return out
}
