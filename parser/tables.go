package parser

import (
	"strconv"
	"strings"

	"github.com/tsawler/udf/model"
)

// parseTable builds a table from its element. Cells beyond the column
// count are dropped; cell paragraphs use the paragraph algorithm.
func (b *builder) parseTable(n *node) (*model.Table, error) {
	cols := 1
	if v, ok, err := n.attrInt("columnCount"); ok && err == nil && v > 0 {
		cols = v
	} else if ok {
		b.logger.Debug("parser: invalid columnCount, using 1", "value", n.attrString("columnCount", ""))
	}

	t := &model.Table{
		ColumnCount:  cols,
		Border:       model.ParseBorderStyle(n.attrString("border", "borderCell")),
		ColumnWidths: b.columnWidths(n, cols),
	}

	for ri, row := range n.children(tagRow) {
		r := model.Row{}
		if h := row.attrFloat("height_min", 0); h > 0 {
			r.Height = model.InchesToPoints(h)
		}

		for ci, cell := range row.children(tagCell) {
			if ci >= cols {
				b.logger.Debug("parser: dropping cell beyond column count",
					"row", ri, "cell", ci, "columns", cols)
				continue
			}
			c, err := b.parseCell(cell)
			if err != nil {
				return nil, err
			}
			r.Cells = append(r.Cells, c)
		}

		t.Rows = append(t.Rows, r)
	}

	return t, nil
}

func (b *builder) parseCell(n *node) (model.Cell, error) {
	var c model.Cell
	for _, pn := range n.children(tagParagraph) {
		p, err := b.resolver.paragraph(pn)
		if err != nil {
			return c, err
		}
		c.Paragraphs = append(c.Paragraphs, p)
	}
	return c, nil
}

// columnWidths parses the columnSpans list. It is honoured only when it
// has exactly one parseable entry per column.
func (b *builder) columnWidths(n *node, cols int) []float64 {
	raw, ok := n.attr("columnSpans")
	if !ok || strings.TrimSpace(raw) == "" {
		return nil
	}

	parts := strings.Split(raw, ",")
	if len(parts) != cols {
		b.logger.Debug("parser: ignoring columnSpans with wrong count",
			"entries", len(parts), "columns", cols)
		return nil
	}

	widths := make([]float64, 0, cols)
	for _, p := range parts {
		w, err := strconv.ParseFloat(strings.TrimSpace(p), 64)
		if err != nil || w < 0 {
			b.logger.Debug("parser: ignoring unparsable columnSpans", "value", raw)
			return nil
		}
		widths = append(widths, w)
	}
	return widths
}
