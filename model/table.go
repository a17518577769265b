package model

import "strings"

// BorderStyle describes how table borders are drawn
type BorderStyle int

const (
	// CellBordered draws a border around every cell.
	CellBordered BorderStyle = iota
	// AllBordered draws the same borders as CellBordered. The parser
	// never produces it; "border" in a document means CellBordered.
	AllBordered
	// OuterOnly draws only the outer rectangle of the table.
	OuterOnly
)

func (b BorderStyle) String() string {
	switch b {
	case AllBordered:
		return "border"
	case OuterOnly:
		return "borderOuter"
	default:
		return "borderCell"
	}
}

// ParseBorderStyle maps the border attribute. "borderCell", "border" and
// unknown values all draw every cell.
func ParseBorderStyle(s string) BorderStyle {
	switch strings.TrimSpace(s) {
	case "borderOuter":
		return OuterOnly
	default:
		return CellBordered
	}
}

// DrawsCellBorders reports whether inner cell borders are visible.
func (b BorderStyle) DrawsCellBorders() bool { return b != OuterOnly }

// Table is a grid of cells. No cell spans more than one column.
type Table struct {
	ColumnCount int
	Border      BorderStyle

	// ColumnWidths holds one relative width per column, or nil when the
	// document did not declare a usable set.
	ColumnWidths []float64

	Rows []Row
}

func (t *Table) BlockType() BlockType { return BlockTable }

// Row is a table row. Height is the minimum row height in points, 0 if unset.
type Row struct {
	Height float64
	Cells  []Cell
}

// Cell holds the paragraphs of one table cell
type Cell struct {
	Paragraphs []Paragraph
}

// Text returns the cell text with paragraphs joined by newlines.
func (c *Cell) Text(doc *Document) string {
	parts := make([]string, 0, len(c.Paragraphs))
	for i := range c.Paragraphs {
		parts = append(parts, c.Paragraphs[i].Text(doc))
	}
	return strings.Join(parts, "\n")
}

// RelativeWidths returns the column widths normalized to sum to 1.
// Tables without declared widths split evenly.
func (t *Table) RelativeWidths() []float64 {
	n := t.ColumnCount
	if n <= 0 {
		return nil
	}
	out := make([]float64, n)
	var total float64
	if len(t.ColumnWidths) == n {
		for _, w := range t.ColumnWidths {
			total += w
		}
	}
	if total <= 0 {
		for i := range out {
			out[i] = 1 / float64(n)
		}
		return out
	}
	for i, w := range t.ColumnWidths {
		out[i] = w / total
	}
	return out
}
