package pdf

import (
	"github.com/tsawler/udf/model"
)


// EmitTable lays the table out row by row across the content width.
// Column widths keep the proportions of the declared widths.
func (r *Renderer) EmitTable(t *model.Table) error {
	cols := max(t.ColumnCount, 1)
	rel := t.RelativeWidths()
	widths := make([]float64, cols)
	for i := range widths {
		if i < len(rel) {
			widths[i] = rel[i] * r.geo.contentWidth()
		} else {
			widths[i] = r.geo.contentWidth() / float64(cols)
		}
	}

	var (
		open   bool
		segTop float64
	)
	// closeFrame draws the outer border of the part of the table that is
	// on the current page.
	closeFrame := func() {
		if !open {
			return
		}
		open = false
		if !t.Border.DrawsCellBorders() {
			r.cur.strokeRect(r.geo.left, r.y, r.geo.contentWidth(), segTop-r.y, borderWidth)
		}
	}

	for ri := range t.Rows {
		row := &t.Rows[ri]
		cells := make([][]*line, cols)
		content := 0.0
		for ci := 0; ci < cols && ci < len(row.Cells); ci++ {
			h := 0.0
			for pi := range row.Cells[ci].Paragraphs {
				lines := r.layoutParagraph(&row.Cells[ci].Paragraphs[pi], widths[ci]-2*cellPadding)
				for _, l := range lines {
					h += l.height
				}
				cells[ci] = append(cells[ci], lines...)
			}
			content = max(content, h)
		}
		height := max(content+2*cellPadding, row.Height)

		if r.cur != nil && r.cur.hasBody && r.y-height < r.bodyBottom() {
			closeFrame()
		}
		r.place(height)
		if !open {
			open, segTop = true, r.y
		}

		top := r.y
		x := r.geo.left
		for ci := 0; ci < cols; ci++ {
			if t.Border.DrawsCellBorders() {
				r.cur.strokeRect(x, top-height, widths[ci], height, borderWidth)
			}
			y := top - cellPadding
			for _, l := range cells[ci] {
				r.cur.drawLine(l, x+cellPadding, y)
				y -= l.height
			}
			x += widths[ci]
		}
		r.y -= height
	}
	closeFrame()
	return nil
}
