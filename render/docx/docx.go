// Package docx renders UDF documents as Office Open XML word processing
// files.
//
// The output is a flow document: paragraphs keep their alignment, indents
// and line spacing, runs keep their character formatting and Word does the
// pagination. Header and footer become the default header and footer of
// the single section; page size and margins come from the document's page
// format. Pictures are stored under word/media and placed inline.
package docx

import (
	"strconv"
	"strings"

	"github.com/tsawler/udf/model"
	"github.com/tsawler/udf/render"
)

// Options configures the DOCX renderer.
type Options struct {
	render.Options

	// Title is written to the core properties.
	Title string
}

// lineUnit is the w:line value of single line spacing.
const lineUnit = 240

// cellBorderSize is the table border width in eighths of a point.
const cellBorderSize = 4

// Renderer builds a DOCX package in memory. A Renderer handles one
// document at a time.
type Renderer struct {
	opts     Options
	warnings *render.Warnings

	doc    *model.Document
	body   []any
	header *part
	footer *part
	main   *part
	media  *mediaStore
	drawID int
}

// New creates a DOCX renderer.
func New(opts Options) *Renderer {
	opts.Defaults(render.DefaultImagePlaceholder)
	return &Renderer{
		opts:     opts,
		warnings: render.NewWarnings(opts.Logger),
	}
}

// Warnings returns the recoverable problems met while rendering.
func (r *Renderer) Warnings() []render.Warning { return r.warnings.List() }

// BeginDocument starts a new package for doc.
func (r *Renderer) BeginDocument(doc *model.Document) error {
	r.doc = doc
	r.body = nil
	r.header, r.footer = nil, nil
	r.main = newPart("word/document.xml")
	r.media = newMediaStore()
	r.drawID = 0
	r.warnings.Reset()

	if doc.Background != nil {
		r.opts.Logger.Debug("docx: background image not rendered", "source", doc.Background.Source)
	}
	return nil
}

// EmitHeader builds the header part.
func (r *Renderer) EmitHeader(g *model.BlockGroup) error {
	r.header = newPart("word/header1.xml")
	r.header.paragraphs = r.groupParagraphs(r.header, g)
	return nil
}

// EmitFooter builds the footer part.
func (r *Renderer) EmitFooter(g *model.BlockGroup) error {
	r.footer = newPart("word/footer1.xml")
	r.footer.paragraphs = r.groupParagraphs(r.footer, g)
	return nil
}

// groupParagraphs converts a header or footer. The group background
// becomes paragraph shading.
func (r *Renderer) groupParagraphs(pt *part, g *model.BlockGroup) []paragraphXML {
	out := make([]paragraphXML, 0, len(g.Paragraphs))
	for i := range g.Paragraphs {
		p := r.paragraph(pt, &g.Paragraphs[i], r.contentWidth())
		if g.Background != nil {
			if p.PPr == nil {
				p.PPr = &pPrXML{}
			}
			p.PPr.Shading = &shadingXML{Val: "clear", Color: "auto", Fill: g.Background.Hex()}
		}
		out = append(out, p)
	}
	if len(out) == 0 {
		out = append(out, paragraphXML{})
	}
	return out
}

// EmitParagraph appends p to the document body.
func (r *Renderer) EmitParagraph(p *model.Paragraph) error {
	r.body = append(r.body, r.paragraph(r.main, p, r.contentWidth()))
	return nil
}

// EmitPageBreak appends a paragraph holding a page break.
func (r *Renderer) EmitPageBreak() error {
	r.body = append(r.body, paragraphXML{
		Runs: []runXML{{Content: []any{breakXML{Type: "page"}}}},
	})
	return nil
}

// contentWidth is the width between the page margins in points.
func (r *Renderer) contentWidth() float64 {
	w, _ := r.doc.PageFormat.PageSize()
	return w - r.doc.PageFormat.LeftMargin - r.doc.PageFormat.RightMargin
}

// paragraph converts p. maxWidth bounds the size of inline pictures.
func (r *Renderer) paragraph(pt *part, p *model.Paragraph, maxWidth float64) paragraphXML {
	out := paragraphXML{PPr: paragraphProps(p)}
	for _, run := range p.Runs {
		switch rn := run.(type) {
		case *model.TextRun:
			out.Runs = append(out.Runs, r.textRun(r.doc.RunText(rn), r.doc.EffectiveStyle(rn.Style, rn.StyleName)))
		case *model.FieldRun:
			out.Runs = append(out.Runs, r.textRun(r.doc.RunText(rn), r.doc.EffectiveStyle(rn.Style, "")))
		case *model.GapRun, *model.SpaceRun:
			out.Runs = append(out.Runs, r.textRun(r.doc.RunText(rn), r.doc.EffectiveStyle(model.RunStyle{}, "")))
		case *model.ImageRun:
			out.Runs = append(out.Runs, r.imageRun(pt, rn, maxWidth))
		}
	}
	trimParagraphEnd(out.Runs)
	return out
}

func paragraphProps(p *model.Paragraph) *pPrXML {
	ls := model.NormalizeLineSpacing(p.LineSpacing)
	props := &pPrXML{
		Spacing: &spacingXML{
			After:    "0",
			Line:     strconv.Itoa(int(ls*lineUnit + 0.5)),
			LineRule: "auto",
		},
	}

	var ind indentXML
	if p.LeftIndent != 0 {
		ind.Left = twips(p.LeftIndent)
	}
	if p.RightIndent != 0 {
		ind.Right = twips(p.RightIndent)
	}
	switch {
	case p.FirstLineIndent > 0:
		ind.FirstLine = twips(p.FirstLineIndent)
	case p.FirstLineIndent < 0:
		ind.Hanging = twips(-p.FirstLineIndent)
	}
	if ind != (indentXML{}) {
		props.Indent = &ind
	}

	switch p.Alignment {
	case model.AlignCenter:
		props.Jc = &valXML{Val: "center"}
	case model.AlignRight:
		props.Jc = &valXML{Val: "right"}
	case model.AlignJustify:
		props.Jc = &valXML{Val: "both"}
	}
	return props
}

func twips(pt float64) string { return strconv.Itoa(model.PointsToTwips(pt)) }

// textRun converts text to a run. Newlines become line breaks and tabs
// become tab characters.
func (r *Renderer) textRun(text string, st model.RunStyle) runXML {
	run := runXML{RPr: r.runProps(st)}

	var sb strings.Builder
	flush := func() {
		if sb.Len() == 0 {
			return
		}
		run.Content = append(run.Content, textXML{Space: "preserve", Value: sb.String()})
		sb.Reset()
	}
	for _, c := range text {
		switch c {
		case '\r':
		case '\n':
			flush()
			run.Content = append(run.Content, breakXML{})
		case '\t':
			flush()
			run.Content = append(run.Content, tabXML{})
		default:
			sb.WriteRune(c)
		}
	}
	flush()
	return run
}

func (r *Renderer) runProps(st model.RunStyle) *rPrXML {
	family := r.opts.Fonts.Family(st.Family)
	half := strconv.Itoa(model.PointsToHalfPoints(st.Size))
	props := &rPrXML{
		Fonts:  &fontXML{ASCII: family, HAnsi: family, CS: family, EastAsia: family},
		Size:   &valXML{Val: half},
		SizeCS: &valXML{Val: half},
	}
	if st.Bold {
		props.Bold = &onXML{}
	}
	if st.Italic {
		props.Italic = &onXML{}
	}
	if st.Foreground != nil {
		props.Color = &valXML{Val: st.Foreground.Hex()}
	}
	if st.Underline {
		props.Under = &valXML{Val: "single"}
	}
	return props
}

// trimParagraphEnd drops the line break that ends the last run; the
// paragraph mark already ends the line.
func trimParagraphEnd(runs []runXML) {
	if len(runs) == 0 {
		return
	}
	last := &runs[len(runs)-1]
	if n := len(last.Content); n > 0 {
		if br, ok := last.Content[n-1].(breakXML); ok && br.Type == "" {
			last.Content = last.Content[:n-1]
		}
	}
}

// imageRun places a picture inline. Undecodable payloads become the
// placeholder text in the default style.
func (r *Renderer) imageRun(pt *part, run *model.ImageRun, maxWidth float64) runXML {
	img, err := render.DecodeImage(run.Payload)
	if err == nil {
		var m *media
		if m, err = r.media.add(img); err == nil {
			w, h := img.DisplaySize(run.Width, run.Height, maxWidth)
			return runXML{Content: []any{r.drawing(pt.relate(relImage, "media/"+m.name), m.name, w, h)}}
		}
	}
	r.warnings.Add("image", "image replaced by placeholder", err)
	return r.textRun(r.opts.ImagePlaceholder, r.doc.EffectiveStyle(model.RunStyle{}, ""))
}

func (r *Renderer) drawing(relID, name string, w, h float64) drawingXML {
	r.drawID++
	ext := extentXML{CX: model.PointsToEMU(w), CY: model.PointsToEMU(h)}
	pr := docPrXML{ID: r.drawID, Name: name}

	var d drawingXML
	d.Inline.Extent = ext
	d.Inline.DocPr = pr
	data := &d.Inline.Graphic.Data
	data.URI = nsPic
	data.Pic.NvPicPr.CNvPr = pr
	data.Pic.BlipFill.Blip.Embed = relID
	data.Pic.SpPr.Xfrm.Ext = ext
	data.Pic.SpPr.PrstGeom.Prst = "rect"
	return d
}

// EmitTable writes a fixed layout table over the content width.
func (r *Renderer) EmitTable(t *model.Table) error {
	cols := t.ColumnCount
	if cols <= 0 {
		return nil
	}
	total := r.contentWidth()
	rel := t.RelativeWidths()

	out := tableXML{}
	out.TblPr.Width = tableSizeXML{W: model.PointsToTwips(total), Type: "dxa"}
	out.TblPr.Borders = tableBorders(t.Border)
	out.TblPr.Layout.Type = "fixed"

	widths := make([]float64, cols)
	for i := range widths {
		widths[i] = rel[i] * total
		out.Grid.Cols = append(out.Grid.Cols, gridColXML{W: model.PointsToTwips(widths[i])})
	}

	for ri := range t.Rows {
		row := &t.Rows[ri]
		tr := tableRowXML{}
		if row.Height > 0 {
			tr.Properties = &rowPropsXML{Height: rowHeightXML{Val: model.PointsToTwips(row.Height), Rule: "atLeast"}}
		}
		for ci := 0; ci < cols; ci++ {
			tc := tableCellXML{}
			tc.Properties.Width = tableSizeXML{W: model.PointsToTwips(widths[ci]), Type: "dxa"}
			if ci < len(row.Cells) {
				for pi := range row.Cells[ci].Paragraphs {
					tc.Paragraphs = append(tc.Paragraphs, r.paragraph(r.main, &row.Cells[ci].Paragraphs[pi], widths[ci]))
				}
			}
			if len(tc.Paragraphs) == 0 {
				tc.Paragraphs = []paragraphXML{{}}
			}
			tr.Cells = append(tr.Cells, tc)
		}
		out.Rows = append(out.Rows, tr)
	}

	r.body = append(r.body, out)
	return nil
}

func tableBorders(style model.BorderStyle) tableBordersXML {
	cell := borderXML{Val: "single", Sz: cellBorderSize, Space: "0", Color: "000000"}
	none := borderXML{Val: "nil", Space: "0"}

	if !style.DrawsCellBorders() {
		return tableBordersXML{Top: cell, Left: cell, Bottom: cell, Right: cell, InsideH: none, InsideV: none}
	}
	return tableBordersXML{Top: cell, Left: cell, Bottom: cell, Right: cell, InsideH: cell, InsideV: cell}
}
