package model

// RunType identifies the variant of a Run
type RunType int

const (
	RunUnknown RunType = iota
	RunText
	RunField
	RunSpace
	RunImage
	RunGap
)

func (rt RunType) String() string {
	switch rt {
	case RunText:
		return "Text"
	case RunField:
		return "Field"
	case RunSpace:
		return "Space"
	case RunImage:
		return "Image"
	case RunGap:
		return "Gap"
	default:
		return "Unknown"
	}
}

// Run is an inline element of a paragraph.
// The set of implementations is closed: *TextRun, *FieldRun, *SpaceRun,
// *ImageRun and *GapRun.
type Run interface {
	RunType() RunType
}

// Span addresses a range of the content buffer in characters
type Span struct {
	Offset int
	Length int
}

// End returns the exclusive end offset.
func (s Span) End() int { return s.Offset + s.Length }

// RunStyle is the character formatting declared on a run.
// A zero Size and a nil Foreground mean "not set"; renderers fill them from
// the document styles via Document.EffectiveStyle.
type RunStyle struct {
	Bold       bool
	Italic     bool
	Underline  bool
	Size       float64
	Foreground *Color
	Family     string // informational, see render.FontPolicy
}

// TextRun is a styled slice of the content buffer.
type TextRun struct {
	Span      Span
	Style     RunStyle
	StyleName string // named style from the resolver attribute
}

func (r *TextRun) RunType() RunType { return RunText }

// FieldRun is a field whose text comes from the buffer when it carries a
// span, and from its name otherwise.
type FieldRun struct {
	Name  string
	Span  *Span
	Style RunStyle
}

func (r *FieldRun) RunType() RunType { return RunField }

// SpaceRun is a single literal space that does not consume buffer text.
type SpaceRun struct{}

func (r *SpaceRun) RunType() RunType { return RunSpace }

// ImageRun is an inline picture. Payload is the base64 text as found in
// the document; decoding happens at render time.
type ImageRun struct {
	Payload []byte
	Width   float64 // points, 0 if undeclared
	Height  float64

	// Span is the placeholder range the image occupies in the buffer, if any.
	Span *Span
}

func (r *ImageRun) RunType() RunType { return RunImage }

// GapRun covers buffer text between explicit runs that no run claimed.
// It is rendered as plain text.
type GapRun struct {
	Span Span
}

func (r *GapRun) RunType() RunType { return RunGap }

// SpanOf returns the buffer span of an offset-bearing run.
func SpanOf(r Run) (Span, bool) {
	switch run := r.(type) {
	case *TextRun:
		return run.Span, true
	case *GapRun:
		return run.Span, true
	case *FieldRun:
		if run.Span != nil {
			return *run.Span, true
		}
	case *ImageRun:
		if run.Span != nil {
			return *run.Span, true
		}
	}
	return Span{}, false
}
