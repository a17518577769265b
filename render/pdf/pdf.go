// Package pdf renders UDF documents as fixed-page PDF files.
//
// Paragraphs are broken into lines by a greedy word-wrapping layout and
// flowed onto A4 pages inside the document margins. The header is drawn at
// the top and the footer at the bottom of every page; the body flows in
// between. Tables are laid out row by row and a row that does not fit
// moves to the next page.
//
// Text is drawn with the faces of a [font.Family]. Without TrueType files
// the Standard Times faces are used with Windows-1254 encoding, which
// covers Turkish text.
package pdf

import (
	"log/slog"
	"strings"

	"github.com/tsawler/udf/font"
	"github.com/tsawler/udf/model"
	"github.com/tsawler/udf/render"
)

// Options configures the PDF renderer.
type Options struct {
	render.Options

	// Families maps family names, matched case-insensitively, to TrueType
	// files. The family picked by the font policy is looked up here.
	Families map[string]*font.Family

	// Optimize runs the finished file through pdfcpu.
	Optimize bool

	// Title is written to the document information dictionary.
	Title string
}

// Layout constants in points.
const (
	cellPadding   = 3
	groupGap      = 6
	borderWidth   = 0.5
	underlineGap  = 0.1 // of the font size
	underlineSize = 0.05
)

// Renderer lays out a document onto pages and writes the PDF when the
// document ends. A Renderer handles one document at a time.
type Renderer struct {
	opts     Options
	families map[string]*font.Family
	warnings *render.Warnings

	doc     *model.Document
	geo     geometry
	res     *resources
	bg      *imageRes
	header  *group
	footer  *group
	pages   []*page
	cur     *page
	y       float64
}

// New creates a PDF renderer.
func New(opts Options) *Renderer {
	opts.Defaults(render.DefaultImagePlaceholder)
	families := make(map[string]*font.Family, len(opts.Families))
	for name, fam := range opts.Families {
		families[strings.ToLower(name)] = fam
	}
	return &Renderer{
		opts:     opts,
		families: families,
		warnings: render.NewWarnings(opts.Logger),
	}
}

// Warnings returns the recoverable problems met while rendering.
func (r *Renderer) Warnings() []render.Warning { return r.warnings.List() }

func (r *Renderer) logger() *slog.Logger { return r.opts.Logger }

// geometry is the page box and the body area inside it. Y grows upwards
// as in PDF user space.
type geometry struct {
	width, height float64
	left, right   float64
	top, bottom   float64
}

func (g geometry) contentWidth() float64 { return g.right - g.left }

// BeginDocument sets up page geometry and the background image for doc.
func (r *Renderer) BeginDocument(doc *model.Document) error {
	r.doc = doc
	r.res = newResources()
	r.warnings.Reset()
	r.pages = nil
	r.cur = nil
	r.header, r.footer, r.bg = nil, nil, nil

	pf := doc.PageFormat
	w, h := pf.PageSize()
	r.geo = geometry{
		width:  w,
		height: h,
		left:   pf.LeftMargin,
		right:  w - pf.RightMargin,
		top:    h - pf.TopMargin,
		bottom: pf.BottomMargin,
	}
	if r.geo.contentWidth() <= 0 {
		r.logger().Debug("pdf: margins leave no room, using defaults", "left", pf.LeftMargin, "right", pf.RightMargin)
		def := model.DefaultPageFormat()
		r.geo.left, r.geo.right = def.LeftMargin, w-def.RightMargin
	}

	if doc.Background != nil {
		img, err := render.DecodeImage(doc.Background.Data)
		if err != nil {
			r.warnings.Add("background", "background image skipped", err)
		} else if r.bg, err = r.res.image(img); err != nil {
			r.warnings.Add("background", "background image skipped", err)
		}
	}
	return nil
}

// EmitHeader lays out the header repeated on every page.
func (r *Renderer) EmitHeader(g *model.BlockGroup) error {
	r.header = r.layoutGroup(g)
	return nil
}

// EmitFooter lays out the footer repeated on every page.
func (r *Renderer) EmitFooter(g *model.BlockGroup) error {
	r.footer = r.layoutGroup(g)
	return nil
}

// EmitParagraph flows p onto the current page, breaking pages as needed.
func (r *Renderer) EmitParagraph(p *model.Paragraph) error {
	x := r.geo.left
	for _, l := range r.layoutParagraph(p, r.geo.contentWidth()) {
		r.place(l.height)
		r.cur.drawLine(l, x, r.y)
		r.y -= l.height
	}
	return nil
}

// EmitPageBreak starts a new page.
func (r *Renderer) EmitPageBreak() error {
	r.newPage()
	return nil
}

// bodyTop and bodyBottom bound the flow area of every page.
func (r *Renderer) bodyTop() float64 {
	if r.header != nil {
		return r.geo.top - r.header.height - groupGap
	}
	return r.geo.top
}

func (r *Renderer) bodyBottom() float64 {
	if r.footer != nil {
		return r.geo.bottom + r.footer.height + groupGap
	}
	return r.geo.bottom
}

// place makes room for h points of body content, starting a new page when
// the current one is full. Content taller than a page is placed at the top
// of a fresh page and allowed to overflow.
func (r *Renderer) place(h float64) {
	if r.cur == nil {
		r.newPage()
	}
	if r.y-h < r.bodyBottom() && r.cur.hasBody {
		r.newPage()
	}
	r.cur.hasBody = true
}

// newPage starts a page with its background, header and footer drawn.
func (r *Renderer) newPage() {
	p := &page{}
	r.pages = append(r.pages, p)
	r.cur = p
	r.y = r.bodyTop()

	if r.bg != nil {
		p.drawImage(r.bg, 0, 0, r.geo.width, r.geo.height)
	}
	if r.header != nil {
		r.drawGroup(r.header, r.geo.top)
	}
	if r.footer != nil {
		r.drawGroup(r.footer, r.geo.bottom+r.footer.height)
	}
}
