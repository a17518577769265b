package pdf

import (
	"strings"
	"unicode/utf8"

	"github.com/tsawler/udf/font"
	"github.com/tsawler/udf/model"
	"github.com/tsawler/udf/render"
)

type tokenKind int

const (
	tokWord tokenKind = iota
	tokSpace
	tokImage
	tokBreak
)

// token is an unbreakable piece of a paragraph.
type token struct {
	kind      tokenKind
	text      string
	face      *faceRes
	size      float64
	color     model.Color
	underline bool
	width     float64
	height    float64
	image     *imageRes
}

// item is a token placed on a line at x from the line start.
type item struct {
	token
	x float64
}

// line is a laid out line. Positions are relative so that header and
// footer lines can be drawn again on every page.
type line struct {
	items     []item
	indent    float64 // from the left edge of the column
	avail     float64 // width available for items
	width     float64 // width of items without trailing spaces
	height    float64
	baseline  float64 // from the top of the line
	align     model.Alignment
	justified bool
}

// tokens turns the runs of p into tokens.
func (r *Renderer) tokens(p *model.Paragraph, maxWidth float64) []token {
	var out []token
	for _, run := range p.Runs {
		switch rn := run.(type) {
		case *model.TextRun:
			out = r.appendText(out, r.doc.RunText(rn), r.doc.EffectiveStyle(rn.Style, rn.StyleName))
		case *model.FieldRun:
			out = r.appendText(out, r.doc.RunText(rn), r.doc.EffectiveStyle(rn.Style, ""))
		case *model.GapRun, *model.SpaceRun:
			out = r.appendText(out, r.doc.RunText(rn), r.doc.EffectiveStyle(model.RunStyle{}, ""))
		case *model.ImageRun:
			out = append(out, r.imageToken(rn, maxWidth))
		}
	}
	return out
}

// styled returns an empty word token carrying the font and color of st.
func (r *Renderer) styled(st model.RunStyle) token {
	face := r.res.face(r.family(st.Family), font.StyleOf(st.Bold, st.Italic))
	return token{face: face, size: st.Size, color: *st.Foreground, underline: st.Underline}
}

func (r *Renderer) appendText(out []token, text string, st model.RunStyle) []token {
	base := r.styled(st)
	face := base.face

	var word strings.Builder
	flush := func() {
		if word.Len() == 0 {
			return
		}
		t := base
		t.kind, t.text = tokWord, word.String()
		t.width = face.face.Width(t.text, t.size)
		out = append(out, t)
		word.Reset()
	}

	for _, c := range text {
		switch c {
		case '\r':
		case '\n':
			flush()
			t := base
			t.kind = tokBreak
			out = append(out, t)
		case ' ', '\t':
			flush()
			t := base
			t.kind, t.text = tokSpace, " "
			t.width = face.face.Width(" ", t.size)
			out = append(out, t)
		default:
			word.WriteRune(c)
		}
	}
	flush()
	return out
}

// imageToken decodes an image run. Undecodable payloads become the
// placeholder text in the default style.
func (r *Renderer) imageToken(run *model.ImageRun, maxWidth float64) token {
	img, err := render.DecodeImage(run.Payload)
	if err != nil {
		r.warnings.Add("image", "image replaced by placeholder", err)
		return r.placeholder()
	}

	w, h := img.DisplaySize(run.Width, run.Height, maxWidth)
	if limit := r.bodyTop() - r.bodyBottom(); h > limit && limit > 0 {
		w, h = w*limit/h, limit
	}
	res, err := r.res.image(img)
	if err != nil {
		r.warnings.Add("image", "image replaced by placeholder", err)
		return r.placeholder()
	}
	return token{kind: tokImage, image: res, width: w, height: h}
}

// placeholder is the text drawn instead of an image, in the default style.
func (r *Renderer) placeholder() token {
	t := r.styled(r.doc.EffectiveStyle(model.RunStyle{}, ""))
	t.kind, t.text = tokWord, r.opts.ImagePlaceholder
	t.width = t.face.face.Width(t.text, t.size)
	return t
}

// family resolves the family of a run through the font policy.
func (r *Renderer) family(declared string) *font.Family {
	name := r.opts.Fonts.Family(declared)
	if fam, ok := r.families[strings.ToLower(name)]; ok {
		return fam
	}
	if fam, ok := r.families[strings.ToLower(r.opts.Fonts.Family(""))]; ok {
		return fam
	}
	return nil
}

// layoutParagraph breaks p into lines for a column of the given width.
func (r *Renderer) layoutParagraph(p *model.Paragraph, width float64) []*line {
	ls := model.NormalizeLineSpacing(p.LineSpacing)
	avail := width - p.LeftIndent - p.RightIndent
	toks := r.tokens(p, max(avail, 1))

	var (
		lines []*line
		cur   *line
		first = true
		soft  bool
	)
	start := func() {
		indent := p.LeftIndent
		if first {
			indent += p.FirstLineIndent
		}
		cur = &line{indent: indent, avail: width - indent - p.RightIndent, align: p.Alignment}
		if cur.avail <= 0 {
			cur.avail = 1
		}
		first = false
	}
	finish := func(hard bool, size float64) {
		cur.justified = p.Alignment == model.AlignJustify && !hard
		cur.measure(ls, size)
		lines = append(lines, cur)
		cur = nil
		soft = !hard
	}
	defaultSize := r.doc.EffectiveStyle(model.RunStyle{}, "").Size

	for _, t := range toks {
		if cur == nil {
			start()
		}
		switch t.kind {
		case tokBreak:
			finish(true, t.size)
		case tokSpace:
			if len(cur.items) == 0 && soft {
				continue
			}
			cur.add(t)
		default:
			for _, piece := range split(t, cur.avail) {
				if cur.width > 0 && cur.extent()+piece.width > cur.avail {
					finish(false, piece.size)
					start()
				}
				cur.add(piece)
			}
		}
	}

	switch {
	case cur != nil && len(cur.items) > 0:
		finish(true, defaultSize)
	case len(lines) == 0:
		// An empty paragraph still takes one line.
		start()
		finish(true, defaultSize)
	}
	return lines
}

// split breaks a word that is wider than avail into pieces that fit.
// Every piece holds at least one rune.
func split(t token, avail float64) []token {
	if t.kind != tokWord || t.width <= avail {
		return []token{t}
	}

	var out []token
	rest := t.text
	for rest != "" {
		_, n := utf8.DecodeRuneInString(rest)
		fits := true
		for i := range rest {
			if i <= n {
				continue
			}
			if t.face.face.Width(rest[:i], t.size) > avail {
				fits = false
				break
			}
			n = i
		}
		if fits && t.face.face.Width(rest, t.size) <= avail {
			n = len(rest)
		}

		piece := t
		piece.text = rest[:n]
		piece.width = t.face.face.Width(piece.text, t.size)
		out = append(out, piece)
		rest = rest[n:]
	}
	return out
}

// extent is the x position after the last item, trailing spaces included.
func (l *line) extent() float64 {
	if len(l.items) == 0 {
		return 0
	}
	last := l.items[len(l.items)-1]
	return last.x + last.width
}

func (l *line) add(t token) {
	l.items = append(l.items, item{token: t, x: l.extent()})
	if t.kind != tokSpace {
		l.width = l.extent()
	}
}

// measure computes height and baseline. size is used for lines without
// text.
func (l *line) measure(ls, size float64) {
	// Trailing spaces are neither drawn nor justified.
	for len(l.items) > 0 && l.items[len(l.items)-1].kind == tokSpace {
		l.items = l.items[:len(l.items)-1]
	}

	var ascent, descent, maxSize float64
	for _, it := range l.items {
		switch it.kind {
		case tokImage:
			ascent = max(ascent, it.height)
		default:
			f := it.face.face
			ascent = max(ascent, it.size*f.Ascent()/1000)
			descent = max(descent, -it.size*f.Descent()/1000)
			maxSize = max(maxSize, it.size)
		}
	}
	if maxSize == 0 && ascent == 0 {
		maxSize = size
		ascent, descent = size*0.683, size*0.217
	}

	natural := ascent + descent
	l.height = max(natural, maxSize*ls)
	l.baseline = ascent + (l.height-natural)/2
}

// group is a laid out header or footer.
type group struct {
	background *model.Color
	lines      []*line
	height     float64
}

func (r *Renderer) layoutGroup(g *model.BlockGroup) *group {
	out := &group{background: g.Background}
	for i := range g.Paragraphs {
		for _, l := range r.layoutParagraph(&g.Paragraphs[i], r.geo.contentWidth()) {
			out.lines = append(out.lines, l)
			out.height += l.height
		}
	}
	return out
}

// drawGroup draws a header or footer whose top edge is at top.
func (r *Renderer) drawGroup(g *group, top float64) {
	if g.background != nil {
		r.cur.fillRect(*g.background, r.geo.left, top-g.height, r.geo.contentWidth(), g.height)
	}
	y := top
	for _, l := range g.lines {
		r.cur.drawLine(l, r.geo.left, y)
		y -= l.height
	}
}
