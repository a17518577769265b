package model

import "strings"

// BlockType identifies the variant of a Block
type BlockType int

const (
	BlockUnknown BlockType = iota
	BlockParagraph
	BlockTable
	BlockPageBreak
	BlockHeaderRef
	BlockFooterRef
)

func (bt BlockType) String() string {
	switch bt {
	case BlockParagraph:
		return "Paragraph"
	case BlockTable:
		return "Table"
	case BlockPageBreak:
		return "PageBreak"
	case BlockHeaderRef:
		return "Header"
	case BlockFooterRef:
		return "Footer"
	default:
		return "Unknown"
	}
}

// Block is a top-level element of the document body.
// The set of implementations is closed: *Paragraph, *Table, *PageBreak
// and *BlockGroup.
type Block interface {
	BlockType() BlockType
}

// Alignment is the horizontal alignment of a paragraph
type Alignment int

const (
	AlignLeft Alignment = iota
	AlignCenter
	AlignRight
	AlignJustify
)

func (a Alignment) String() string {
	switch a {
	case AlignCenter:
		return "center"
	case AlignRight:
		return "right"
	case AlignJustify:
		return "justify"
	default:
		return "left"
	}
}

// ParseAlignment maps the numeric alignment codes "0".."3".
// Anything else is left aligned.
func ParseAlignment(s string) Alignment {
	switch strings.TrimSpace(s) {
	case "1":
		return AlignCenter
	case "2":
		return AlignRight
	case "3":
		return AlignJustify
	default:
		return AlignLeft
	}
}

// MinLineSpacing is the smallest line spacing kept as declared.
// Smaller values, including an absent attribute, become DefaultLineSpacing.
const (
	MinLineSpacing     = 1.0
	DefaultLineSpacing = 1.2
)

// NormalizeLineSpacing applies the line spacing policy.
func NormalizeLineSpacing(v float64) float64 {
	if v < MinLineSpacing {
		return DefaultLineSpacing
	}
	return v
}

// Paragraph is a sequence of runs with block level formatting.
// Indents are in points, LineSpacing is a multiplier of the font size.
type Paragraph struct {
	Alignment       Alignment
	LeftIndent      float64
	RightIndent     float64
	FirstLineIndent float64
	LineSpacing     float64
	Runs            []Run
}

func (p *Paragraph) BlockType() BlockType { return BlockParagraph }

// Text returns the concatenated text of all runs, gaps included.
func (p *Paragraph) Text(doc *Document) string {
	var sb strings.Builder
	for _, r := range p.Runs {
		sb.WriteString(doc.RunText(r))
	}
	return sb.String()
}

// IsEmpty reports whether the paragraph has no visible content.
func (p *Paragraph) IsEmpty(doc *Document) bool {
	for _, r := range p.Runs {
		if _, ok := r.(*ImageRun); ok {
			return false
		}
	}
	return strings.TrimSpace(p.Text(doc)) == ""
}

// PageBreak forces subsequent content onto a new page
type PageBreak struct{}

func (pb *PageBreak) BlockType() BlockType { return BlockPageBreak }

// GroupKind tells a header group from a footer group
type GroupKind int

const (
	GroupHeader GroupKind = iota
	GroupFooter
)

func (k GroupKind) String() string {
	if k == GroupFooter {
		return "footer"
	}
	return "header"
}

// BlockGroup holds the paragraphs of a page header or footer.
type BlockGroup struct {
	Kind       GroupKind
	Background *Color
	Paragraphs []Paragraph
}

func (g *BlockGroup) BlockType() BlockType {
	if g.Kind == GroupFooter {
		return BlockFooterRef
	}
	return BlockHeaderRef
}
