package udf

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/tsawler/udf/config"
	"github.com/tsawler/udf/font"
	"github.com/tsawler/udf/format"
	"github.com/tsawler/udf/model"
	"github.com/tsawler/udf/ocr"
	"github.com/tsawler/udf/parser"
	"github.com/tsawler/udf/render"
	"github.com/tsawler/udf/render/docx"
	"github.com/tsawler/udf/render/markdown"
	"github.com/tsawler/udf/render/pdf"
)

// Converter provides a fluent interface for converting UDF documents.
// Converter is immutable; each configuration method returns a new instance.
type Converter struct {
	filename string
	data     []byte
	inMemory bool
	options  ConvertOptions
	err      error // First error encountered during configuration
}

// clone creates a copy of the Converter for immutability.
func (c *Converter) clone() *Converter {
	return &Converter{
		filename: c.filename,
		data:     c.data,
		inMemory: c.inMemory,
		options:  c.options.clone(),
		err:      c.err,
	}
}

// ============================================================================
// Configuration Methods
// ============================================================================

// CanonicalFont sets the family written for every run.
func (c *Converter) CanonicalFont(name string) *Converter {
	n := c.clone()
	n.options.canonicalFont = strings.TrimSpace(name)
	return n
}

// PreferDeclaredFamily uses the family declared by each run when there is
// one, falling back to the canonical font.
func (c *Converter) PreferDeclaredFamily() *Converter {
	n := c.clone()
	n.options.preferDeclared = true
	return n
}

// ImagePlaceholder sets the text written in place of undecodable images
// in DOCX and PDF output.
func (c *Converter) ImagePlaceholder(text string) *Converter {
	n := c.clone()
	n.options.imagePlaceholder = text
	return n
}

// MarkdownPlaceholder sets the text written for every image in Markdown
// output.
func (c *Converter) MarkdownPlaceholder(text string) *Converter {
	n := c.clone()
	n.options.markdownPlaceholder = text
	return n
}

// FontFiles embeds TrueType files for the canonical family in PDF output.
// Empty paths are skipped; regular is required. Errors are reported by the
// terminal operation.
//
// Example:
//
//	data, _, err := udf.Open("dilekce.udf").
//	    CanonicalFont("DejaVuSerif").
//	    FontFiles("DejaVuSerif.ttf", "DejaVuSerif-Bold.ttf", "", "").
//	    Bytes(format.PDF)
func (c *Converter) FontFiles(regular, bold, italic, boldItalic string) *Converter {
	n := c.clone()
	if n.err != nil {
		return n
	}
	if regular == "" {
		n.err = errors.New("font files: regular file is required")
		return n
	}

	fam := font.NewFamily(n.options.canonicalFont)
	files := []struct {
		style font.Style
		path  string
	}{
		{font.Regular, regular},
		{font.Bold, bold},
		{font.Italic, italic},
		{font.BoldItalic, boldItalic},
	}
	for _, f := range files {
		if f.path == "" {
			continue
		}
		if err := fam.LoadFile(f.style, f.path); err != nil {
			n.err = err
			return n
		}
	}
	n.options.family = fam
	return n
}

// OCR asks Tesseract for the text of every image in Markdown output. An
// empty lang selects the Turkish language data. Without OCR support
// compiled in, conversion continues with a warning.
func (c *Converter) OCR(lang string) *Converter {
	n := c.clone()
	n.options.ocr = true
	n.options.ocrLanguage = lang
	return n
}

// Optimize runs PDF output through pdfcpu's optimizer.
func (c *Converter) Optimize() *Converter {
	n := c.clone()
	n.options.optimize = true
	return n
}

// Title sets the title written to PDF and DOCX metadata.
func (c *Converter) Title(title string) *Converter {
	n := c.clone()
	n.options.title = title
	return n
}

// MaxInputSize caps the size of the input file or archive entry in bytes.
func (c *Converter) MaxInputSize(n int64) *Converter {
	nc := c.clone()
	nc.options.maxInputSize = n
	return nc
}

// Logger sets the logger used by the parser and the renderers.
func (c *Converter) Logger(logger *slog.Logger) *Converter {
	n := c.clone()
	n.options.logger = logger
	return n
}

// WithConfig applies a loaded configuration.
func (c *Converter) WithConfig(cfg *config.Config) *Converter {
	n := c.CanonicalFont(cfg.CanonicalFont).
		ImagePlaceholder(cfg.ImagePlaceholder).
		MarkdownPlaceholder(cfg.MarkdownPlaceholder).
		MaxInputSize(cfg.MaxInputBytes())
	if cfg.PreferDeclaredFamily {
		n = n.PreferDeclaredFamily()
	}
	if !cfg.Fonts.IsZero() {
		n = n.FontFiles(cfg.Fonts.Regular, cfg.Fonts.Bold, cfg.Fonts.Italic, cfg.Fonts.BoldItalic)
	}
	if cfg.OCR.Enabled {
		n = n.OCR(cfg.OCR.Language)
	}
	if cfg.PDF.Optimize {
		n = n.Optimize()
	}
	return n
}

// Err returns the first error met while configuring the Converter.
func (c *Converter) Err() error { return c.err }

// WithInput returns a copy of the Converter that reads data instead of its
// original input. A configured Converter can serve many inputs this way.
func (c *Converter) WithInput(data []byte) *Converter {
	n := c.clone()
	n.filename = ""
	n.data = data
	n.inMemory = true
	return n
}

// ============================================================================
// Terminal Operations
// ============================================================================

// Document parses the input and returns the resolved model.
//
// Example:
//
//	doc, err := udf.Open("dilekce.udf").Document()
//	for _, el := range doc.Elements {
//	    if p, ok := el.(*model.Paragraph); ok {
//	        fmt.Println(p.Text(doc))
//	    }
//	}
func (c *Converter) Document() (*model.Document, error) {
	if c.err != nil {
		return nil, c.err
	}

	p := parser.Parser{MaxSize: c.options.maxInputSize, Logger: c.options.log()}
	if c.inMemory {
		return p.ParseBytes(c.data)
	}
	return p.Open(c.filename)
}

// ToDOCX writes the document as a DOCX package to w.
func (c *Converter) ToDOCX(w io.Writer) ([]Warning, error) {
	return c.Convert(format.DOCX, w)
}

// ToPDF writes the document as a PDF file to w.
func (c *Converter) ToPDF(w io.Writer) ([]Warning, error) {
	return c.Convert(format.PDF, w)
}

// ToMarkdown returns the document as Markdown.
func (c *Converter) ToMarkdown() (string, []Warning, error) {
	var sb strings.Builder
	warnings, err := c.Convert(format.Markdown, &sb)
	if err != nil {
		return "", warnings, err
	}
	return sb.String(), warnings, nil
}

// Bytes returns the document rendered in the given format.
func (c *Converter) Bytes(f format.Format) ([]byte, []Warning, error) {
	var buf bytes.Buffer
	warnings, err := c.Convert(f, &buf)
	if err != nil {
		return nil, warnings, err
	}
	return buf.Bytes(), warnings, nil
}

// Convert parses the input and writes it to w in the given format. Nothing
// is written to w when the conversion fails.
func (c *Converter) Convert(f format.Format, w io.Writer) ([]Warning, error) {
	doc, err := c.Document()
	if err != nil {
		return nil, err
	}

	r, warnings, done, err := c.renderer(f)
	if err != nil {
		return nil, err
	}
	defer done()

	if err := render.Dispatch(doc, r, w); err != nil {
		return warnings, err
	}
	return append(warnings, r.Warnings()...), nil
}

// ConvertFile converts the input to outPath, picking the format from its
// extension. The file is only created after a successful conversion.
//
// Example:
//
//	warnings, err := udf.Open("dilekce.udf").ConvertFile("dilekce.pdf")
func (c *Converter) ConvertFile(outPath string) ([]Warning, error) {
	f := format.Detect(outPath)
	if f == format.Unknown {
		return nil, fmt.Errorf("%w: %q", format.ErrUnknownFormat, filepath.Ext(outPath))
	}

	data, warnings, err := c.Bytes(f)
	if err != nil {
		return warnings, err
	}
	if err := os.WriteFile(outPath, data, 0o644); err != nil {
		return warnings, fmt.Errorf("writing %s: %w", outPath, err)
	}
	return warnings, nil
}

// backend is a renderer that reports recovered problems.
type backend interface {
	render.Renderer
	render.WarningSource
}

// renderer builds the backend for f. done releases resources held by the
// backend. Problems met while building it are returned as warnings.
func (c *Converter) renderer(f format.Format) (backend, []Warning, func(), error) {
	o := c.options
	base := render.Options{
		Fonts:            render.FontPolicy{Canonical: o.canonicalFont, PreferDeclared: o.preferDeclared},
		ImagePlaceholder: o.imagePlaceholder,
		Logger:           o.log(),
	}
	noop := func() {}

	switch f {
	case format.DOCX:
		return docx.New(docx.Options{Options: base, Title: o.title}), nil, noop, nil

	case format.PDF:
		opts := pdf.Options{Options: base, Optimize: o.optimize, Title: o.title}
		if o.family.Embedded() {
			name := o.canonicalFont
			if name == "" {
				name = render.DefaultCanonicalFont
			}
			opts.Families = map[string]*font.Family{name: o.family}
		}
		return pdf.New(opts), nil, noop, nil

	case format.Markdown:
		base.ImagePlaceholder = o.markdownPlaceholder
		opts := markdown.Options{Options: base}
		if !o.ocr {
			return markdown.New(opts), nil, noop, nil
		}
		client, err := ocr.New(o.ocrLanguage)
		if err != nil {
			w := Warning{Kind: "ocr", Message: "image text recognition unavailable", Err: err}
			base.Logger.Warn("udf: "+w.Message, "error", err)
			return markdown.New(opts), []Warning{w}, noop, nil
		}
		opts.OCR = client
		return markdown.New(opts), nil, func() { client.Close() }, nil

	default:
		return nil, nil, nil, fmt.Errorf("%w: %s", format.ErrUnknownFormat, f)
	}
}
