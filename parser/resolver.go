package parser

import (
	"errors"
	"fmt"
	"log/slog"
	"strconv"
	"strings"

	"github.com/tsawler/udf/model"
)

// RunResolver turns the children of a paragraph element into an ordered,
// gap-free, non-overlapping run sequence over the content buffer.
type RunResolver struct {
	doc    *model.Document
	logger *slog.Logger
}

// NewRunResolver creates a resolver for spans of doc.
func NewRunResolver(doc *model.Document, logger *slog.Logger) *RunResolver {
	if logger == nil {
		logger = slog.Default()
	}
	return &RunResolver{doc: doc, logger: logger}
}

// cursor tracks the end of the last offset-bearing run of a paragraph.
type cursor struct {
	set bool
	end int
}

// paragraph builds a paragraph from its element.
func (rr *RunResolver) paragraph(n *node) (model.Paragraph, error) {
	p := model.Paragraph{
		Alignment:       model.ParseAlignment(n.attrString("Alignment", "0")),
		LeftIndent:      n.attrFloat("LeftIndent", 0),
		RightIndent:     n.attrFloat("RightIndent", 0),
		FirstLineIndent: n.attrFloat("FirstLineIndent", 0),
		LineSpacing:     model.NormalizeLineSpacing(n.attrFloat("LineSpacing", 0)),
	}

	runs, err := rr.Resolve(n)
	if err != nil {
		return p, err
	}
	p.Runs = runs
	return p, nil
}

// Resolve returns the runs of a paragraph element.
//
// The cursor starts at the paragraph's own startOffset when it declares
// one. Buffer text between the cursor and the next offset-bearing child
// becomes a GapRun. A child starting before the cursor is clipped to it,
// or dropped when it is fully covered.
func (rr *RunResolver) Resolve(n *node) ([]model.Run, error) {
	var cur cursor
	if start, ok, err := n.attrInt("startOffset"); err != nil {
		return nil, rr.offsetAttrError(n, "startOffset", model.Span{Offset: start}, err)
	} else if ok {
		if start < 0 || start > rr.doc.Len() {
			return nil, &model.OffsetError{Offset: start, BufferLen: rr.doc.Len()}
		}
		cur = cursor{set: true, end: start}
	}

	var runs []model.Run
	for i := range n.Children {
		child := &n.Children[i]

		switch child.name() {
		case tagContent:
			span, ok, err := rr.span(child)
			if err != nil {
				return nil, err
			}
			if !ok {
				rr.logger.Debug("parser: content run without startOffset skipped")
				continue
			}
			span, keep := rr.advance(&cur, span, &runs)
			if !keep {
				continue
			}
			runs = append(runs, &model.TextRun{
				Span:      span,
				Style:     runStyle(child),
				StyleName: child.attrString("resolver", ""),
			})

		case tagField:
			run := &model.FieldRun{
				Name:  child.attrString("fieldName", ""),
				Style: runStyle(child),
			}
			span, ok, err := rr.span(child)
			if err != nil {
				return nil, err
			}
			if ok {
				_, hasLength := child.attr("length")
				clipped, keep := rr.advance(&cur, span, &runs)
				if !keep {
					continue
				}
				if hasLength {
					run.Span = &clipped
				}
			}
			runs = append(runs, run)

		case tagSpace:
			runs = append(runs, &model.SpaceRun{})

		case tagImage:
			run := &model.ImageRun{
				Payload: []byte(strings.TrimSpace(child.attrString("imageData", ""))),
				Width:   child.attrFloat("width", 0),
				Height:  child.attrFloat("height", 0),
			}
			span, ok, err := rr.span(child)
			if err != nil {
				return nil, err
			}
			if ok {
				clipped, keep := rr.advance(&cur, span, &runs)
				if keep {
					run.Span = &clipped
				}
			}
			runs = append(runs, run)

		default:
			rr.logger.Debug("parser: skipping unknown run element", "tag", child.name())
		}
	}

	return runs, nil
}

// span reads and validates the startOffset/length pair of a child.
// ok is false when the child carries no startOffset. A missing length is 0.
func (rr *RunResolver) span(n *node) (model.Span, bool, error) {
	start, ok, err := n.attrInt("startOffset")
	if err != nil {
		return model.Span{}, false, rr.offsetAttrError(n, "startOffset", model.Span{Offset: start}, err)
	}
	if !ok {
		return model.Span{}, false, nil
	}
	length, _, err := n.attrInt("length")
	if err != nil {
		return model.Span{}, false, rr.offsetAttrError(n, "length", model.Span{Offset: start, Length: length}, err)
	}

	s := model.Span{Offset: start, Length: length}
	if err := rr.doc.CheckSpan(s); err != nil {
		return model.Span{}, false, err
	}
	return s, true, nil
}

// advance moves the cursor over s, appending a GapRun for unclaimed text.
// It returns s clipped to the cursor, and false when nothing of s remains.
func (rr *RunResolver) advance(cur *cursor, s model.Span, runs *[]model.Run) (model.Span, bool) {
	if cur.set {
		if s.Offset < cur.end {
			end := s.End()
			if end <= cur.end {
				rr.logger.Debug("parser: dropping run covered by previous run",
					"offset", s.Offset, "length", s.Length, "cursor", cur.end)
				return s, false
			}
			rr.logger.Debug("parser: clipping overlapping run",
				"offset", s.Offset, "length", s.Length, "cursor", cur.end)
			s = model.Span{Offset: cur.end, Length: end - cur.end}
		}
		if s.Offset > cur.end {
			*runs = append(*runs, &model.GapRun{Span: model.Span{Offset: cur.end, Length: s.Offset - cur.end}})
		}
	}
	cur.set = true
	cur.end = s.End()
	return s, true
}

// offsetAttrError reports an offset attribute that failed to parse. A
// number too large for an int is an OffsetError at s; anything else is a
// FormatError.
func (rr *RunResolver) offsetAttrError(n *node, attr string, s model.Span, err error) error {
	if errors.Is(err, strconv.ErrRange) {
		return &model.OffsetError{Offset: s.Offset, Length: s.Length, BufferLen: rr.doc.Len()}
	}
	return &model.FormatError{Cause: fmt.Errorf("<%s> attribute %s: %w", n.name(), attr, err)}
}

// runStyle reads the character formatting declared on a run element.
func runStyle(n *node) model.RunStyle {
	rs := model.RunStyle{
		Bold:      n.attrBool("bold"),
		Italic:    n.attrBool("italic"),
		Underline: n.attrBool("underline"),
		Size:      n.attrFloat("size", 0),
		Family:    n.attrString("family", ""),
	}
	if rs.Size < 0 {
		rs.Size = 0
	}
	if v, ok := n.attr("foreground"); ok {
		if c, ok := model.ParseColor(v); ok {
			rs.Foreground = &c
		}
	}
	return rs
}
