package pdf

import (
	"bytes"
	"fmt"

	"github.com/tsawler/udf/core"
	"github.com/tsawler/udf/model"
)

// page accumulates the content stream of one page.
type page struct {
	content bytes.Buffer
	hasBody bool
}

func num(f float64) string { return core.FormatReal(f) }

func colorOp(c model.Color, op string) string {
	r, g, b := c.Floats()
	return num(r) + " " + num(g) + " " + num(b) + " " + op
}

func (p *page) fillRect(c model.Color, x, y, w, h float64) {
	fmt.Fprintf(&p.content, "q %s %s %s %s %s re f Q\n", colorOp(c, "rg"), num(x), num(y), num(w), num(h))
}

func (p *page) strokeRect(x, y, w, h, width float64) {
	fmt.Fprintf(&p.content, "q 0 0 0 RG %s w %s %s %s %s re S Q\n", num(width), num(x), num(y), num(w), num(h))
}

func (p *page) drawImage(img *imageRes, x, y, w, h float64) {
	fmt.Fprintf(&p.content, "q %s 0 0 %s %s %s cm /%s Do Q\n", num(w), num(h), num(x), num(y), img.name)
}

func (p *page) showText(t token, x, baseline float64) {
	code := core.HexString(t.face.face.Encode(t.text))
	fmt.Fprintf(&p.content, "BT /%s %s Tf %s %s %s Td %s Tj ET\n",
		t.face.name, num(t.size), colorOp(t.color, "rg"), num(x), num(baseline), code)

	if t.underline {
		y := baseline - t.size*underlineGap
		fmt.Fprintf(&p.content, "q %s %s w %s %s m %s %s l S Q\n",
			colorOp(t.color, "RG"), num(t.size*underlineSize), num(x), num(y), num(x+t.width), num(y))
	}
}

// drawLine draws l with its top edge at top and the column starting at x0.
func (p *page) drawLine(l *line, x0, top float64) {
	baseline := top - l.baseline
	extra := l.avail - l.width

	var dx, gap float64
	switch l.align {
	case model.AlignCenter:
		dx = extra / 2
	case model.AlignRight:
		dx = extra
	case model.AlignJustify:
		if spaces := l.spaces(); l.justified && spaces > 0 {
			gap = extra / float64(spaces)
		}
	}
	if extra < 0 {
		dx, gap = 0, 0
	}

	shift := 0.0
	for _, it := range l.items {
		x := x0 + l.indent + dx + it.x + shift
		switch it.kind {
		case tokSpace:
			shift += gap
		case tokWord:
			p.showText(it.token, x, baseline)
		case tokImage:
			p.drawImage(it.image, x, baseline, it.width, it.height)
		}
	}
}

func (l *line) spaces() int {
	n := 0
	for _, it := range l.items {
		if it.kind == tokSpace {
			n++
		}
	}
	return n
}
