// Package render defines the contract between a parsed UDF document and
// the backends that turn it into an output artifact.
//
// A backend implements [Renderer]. [Dispatch] drives it over a document:
// header and footer first, then every body block in order, then
// EndDocument, which is the only call that writes output. Values handed to
// a renderer have already been validated by the parser, so renderers
// resolve text with [model.Document.RunText] and never check offsets.
package render

import (
	"fmt"
	"io"
	"log/slog"
	"strings"

	"github.com/tsawler/udf/model"
)

// Renderer is implemented once per output format.
type Renderer interface {
	// BeginDocument is called once before any other method.
	BeginDocument(doc *model.Document) error

	EmitHeader(g *model.BlockGroup) error
	EmitFooter(g *model.BlockGroup) error
	EmitParagraph(p *model.Paragraph) error
	EmitTable(t *model.Table) error
	EmitPageBreak() error

	// EndDocument writes the finished artifact to w.
	EndDocument(w io.Writer) error
}

// WarningSource is implemented by renderers that recover from asset errors.
type WarningSource interface {
	Warnings() []Warning
}

// Dispatch walks doc and drives r, writing the artifact to w.
// Nothing is written to w unless every block was accepted.
func Dispatch(doc *model.Document, r Renderer, w io.Writer) error {
	if err := r.BeginDocument(doc); err != nil {
		return fmt.Errorf("begin document: %w", err)
	}

	if doc.Header != nil {
		if err := r.EmitHeader(doc.Header); err != nil {
			return fmt.Errorf("header: %w", err)
		}
	}
	if doc.Footer != nil {
		if err := r.EmitFooter(doc.Footer); err != nil {
			return fmt.Errorf("footer: %w", err)
		}
	}

	for i, b := range doc.Elements {
		var err error
		switch el := b.(type) {
		case *model.Paragraph:
			err = r.EmitParagraph(el)
		case *model.Table:
			err = r.EmitTable(el)
		case *model.PageBreak:
			err = r.EmitPageBreak()
		case *model.BlockGroup:
			// Header and footer live on the document, never in the body.
		default:
			err = fmt.Errorf("unsupported block %T", b)
		}
		if err != nil {
			return fmt.Errorf("element %d (%s): %w", i, b.BlockType(), err)
		}
	}

	if err := r.EndDocument(w); err != nil {
		return fmt.Errorf("end document: %w", err)
	}
	return nil
}

// Warning records a recoverable problem met while rendering.
type Warning struct {
	Kind    string // e.g. "image"
	Message string
	Err     error
}

func (w Warning) String() string {
	if w.Err != nil {
		return fmt.Sprintf("%s: %s: %v", w.Kind, w.Message, w.Err)
	}
	return fmt.Sprintf("%s: %s", w.Kind, w.Message)
}

// FormatWarnings joins warnings into a single human readable string.
func FormatWarnings(ws []Warning) string {
	parts := make([]string, len(ws))
	for i, w := range ws {
		parts[i] = w.String()
	}
	return strings.Join(parts, "; ")
}

// Warnings collects warnings and logs each one.
type Warnings struct {
	logger *slog.Logger
	list   []Warning
}

// NewWarnings returns a collector that logs through logger.
func NewWarnings(logger *slog.Logger) *Warnings {
	if logger == nil {
		logger = slog.Default()
	}
	return &Warnings{logger: logger}
}

// Add records a warning.
func (ws *Warnings) Add(kind, msg string, err error) {
	ws.logger.Warn("render: "+msg, "kind", kind, "error", err)
	ws.list = append(ws.list, Warning{Kind: kind, Message: msg, Err: err})
}

// List returns a copy of the recorded warnings.
func (ws *Warnings) List() []Warning {
	return append([]Warning(nil), ws.list...)
}

// Reset drops every recorded warning.
func (ws *Warnings) Reset() { ws.list = nil }
