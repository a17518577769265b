// Package markdown renders UDF documents as Markdown.
//
// Bold and italic runs become emphasis, paragraph alignment other than
// left is kept with an HTML div wrapper, tables become pipe tables with a
// generic header row and images become a placeholder, optionally followed
// by OCR text.
package markdown

import (
	"fmt"
	"io"
	"strings"

	"golang.org/x/text/unicode/norm"

	"github.com/tsawler/udf/model"
	"github.com/tsawler/udf/render"
)

// TextRecognizer extracts text from image file bytes.
// *ocr.Client implements it.
type TextRecognizer interface {
	RecognizeImage(data []byte) (string, error)
}

// Options configures the Markdown renderer.
type Options struct {
	render.Options

	// OCR, when set, is asked for the text of every decodable image.
	OCR TextRecognizer
}

// Renderer builds a Markdown document in memory.
type Renderer struct {
	opts     Options
	doc      *model.Document
	header   strings.Builder
	body     strings.Builder
	footer   strings.Builder
	warnings *render.Warnings
}

// New creates a Markdown renderer.
func New(opts Options) *Renderer {
	opts.Defaults(render.DefaultMarkdownPlaceholder)
	return &Renderer{
		opts:     opts,
		warnings: render.NewWarnings(opts.Logger),
	}
}

// Warnings returns the recoverable problems met while rendering.
func (r *Renderer) Warnings() []render.Warning { return r.warnings.List() }

// BeginDocument resets the renderer for doc.
func (r *Renderer) BeginDocument(doc *model.Document) error {
	r.doc = doc
	r.header.Reset()
	r.body.Reset()
	r.footer.Reset()
	r.warnings.Reset()
	if doc.Background != nil {
		r.opts.Logger.Debug("markdown: background image not rendered", "source", doc.Background.Source)
	}
	return nil
}

// EmitHeader writes the header paragraphs above the body.
func (r *Renderer) EmitHeader(g *model.BlockGroup) error {
	r.writeGroup(&r.header, g)
	return nil
}

// EmitFooter writes the footer paragraphs below the body.
func (r *Renderer) EmitFooter(g *model.BlockGroup) error {
	r.writeGroup(&r.footer, g)
	return nil
}

func (r *Renderer) writeGroup(sb *strings.Builder, g *model.BlockGroup) {
	for i := range g.Paragraphs {
		r.writeParagraph(sb, &g.Paragraphs[i])
	}
}

// EmitParagraph appends p to the body as one Markdown paragraph.
func (r *Renderer) EmitParagraph(p *model.Paragraph) error {
	r.writeParagraph(&r.body, p)
	return nil
}

func (r *Renderer) writeParagraph(sb *strings.Builder, p *model.Paragraph) {
	text := strings.TrimRight(r.inline(p), "\r\n")
	if strings.TrimSpace(text) == "" {
		return
	}

	if p.Alignment != model.AlignLeft {
		fmt.Fprintf(sb, "<div align='%s'>%s</div>", p.Alignment, text)
	} else {
		sb.WriteString(text)
	}
	sb.WriteString("\n\n")
}

// inline renders the runs of a paragraph.
func (r *Renderer) inline(p *model.Paragraph) string {
	var sb strings.Builder
	for _, run := range p.Runs {
		switch rn := run.(type) {
		case *model.TextRun:
			st := r.doc.EffectiveStyle(rn.Style, rn.StyleName)
			sb.WriteString(emphasize(r.doc.RunText(rn), st.Bold, st.Italic))
		case *model.FieldRun:
			st := r.doc.EffectiveStyle(rn.Style, "")
			sb.WriteString(emphasize(r.doc.RunText(rn), st.Bold, st.Italic))
		case *model.GapRun, *model.SpaceRun:
			sb.WriteString(r.doc.RunText(rn))
		case *model.ImageRun:
			sb.WriteString(r.image(rn))
		}
	}
	return sb.String()
}

// emphasize wraps s in emphasis markers. Surrounding whitespace stays
// outside the markers so the result is valid Markdown.
func emphasize(s string, bold, italic bool) string {
	var marker string
	switch {
	case bold && italic:
		marker = "***"
	case bold:
		marker = "**"
	case italic:
		marker = "*"
	default:
		return s
	}

	core := strings.TrimSpace(s)
	if core == "" {
		return s
	}
	start := strings.Index(s, core)
	return s[:start] + marker + core + marker + s[start+len(core):]
}

func (r *Renderer) image(run *model.ImageRun) string {
	img, err := render.DecodeImage(run.Payload)
	if err != nil {
		r.warnings.Add("image", "image replaced by placeholder", err)
		return r.opts.ImagePlaceholder
	}
	if r.opts.OCR == nil {
		return r.opts.ImagePlaceholder
	}

	text, err := r.opts.OCR.RecognizeImage(img.Data)
	if err != nil {
		r.opts.Logger.Debug("markdown: ocr failed", "error", err)
		return r.opts.ImagePlaceholder
	}
	text = strings.Join(strings.Fields(text), " ")
	if text == "" {
		return r.opts.ImagePlaceholder
	}
	if p := r.opts.ImagePlaceholder; strings.HasSuffix(p, "]") {
		return p[:len(p)-1] + ": " + text + "]"
	}
	return r.opts.ImagePlaceholder + " " + text
}

// EmitTable appends t as a pipe table under a placeholder header row.
func (r *Renderer) EmitTable(t *model.Table) error {
	cols := t.ColumnCount
	if cols <= 0 {
		return nil
	}

	row := func(cells []string) {
		r.body.WriteString("| " + strings.Join(cells, " | ") + " |\n")
	}

	header := make([]string, cols)
	sep := make([]string, cols)
	for i := range header {
		header[i] = "Column"
		sep[i] = "---"
	}
	row(header)
	row(sep)

	for _, tr := range t.Rows {
		cells := make([]string, cols)
		for ci := 0; ci < cols && ci < len(tr.Cells); ci++ {
			cells[ci] = r.cellText(&tr.Cells[ci])
		}
		row(cells)
	}
	r.body.WriteString("\n")
	return nil
}

func (r *Renderer) cellText(c *model.Cell) string {
	parts := make([]string, 0, len(c.Paragraphs))
	for i := range c.Paragraphs {
		parts = append(parts, r.inline(&c.Paragraphs[i]))
	}
	s := strings.Join(parts, " ")
	s = strings.NewReplacer("\r\n", " ", "\n", " ", "|", `\|`).Replace(s)
	return strings.TrimSpace(s)
}

// EmitPageBreak writes a thematic break.
func (r *Renderer) EmitPageBreak() error {
	r.body.WriteString("---\n\n")
	return nil
}

// EndDocument writes header, body and footer to w in NFC form.
func (r *Renderer) EndDocument(w io.Writer) error {
	var out strings.Builder
	out.WriteString(r.header.String())
	out.WriteString(r.body.String())
	out.WriteString(r.footer.String())

	_, err := io.WriteString(w, norm.NFC.String(out.String()))
	return err
}
