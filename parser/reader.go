package parser

import (
	"fmt"
	"log/slog"

	"github.com/tsawler/udf/container"
	"github.com/tsawler/udf/model"
)

// Parser reads UDF documents.
type Parser struct {
	// MaxSize caps the input size (default: 100 MB).
	MaxSize int64

	// Logger for debug messages.
	Logger *slog.Logger
}

func (p *Parser) defaults() {
	if p.Logger == nil {
		p.Logger = slog.Default()
	}
}

// Open parses the UDF file at path.
func Open(path string) (*model.Document, error) {
	var p Parser
	return p.Open(path)
}

// ParseBytes parses a UDF file held in memory, archived or bare XML.
func ParseBytes(data []byte) (*model.Document, error) {
	var p Parser
	return p.ParseBytes(data)
}

// Open parses the UDF file at path.
func (p Parser) Open(path string) (*model.Document, error) {
	p.defaults()
	l := container.Loader{MaxSize: p.MaxSize, Logger: p.Logger}
	xmlData, err := l.LoadFile(path)
	if err != nil {
		return nil, err
	}
	return p.ParseXML(xmlData)
}

// ParseBytes parses a UDF file held in memory, archived or bare XML.
func (p Parser) ParseBytes(data []byte) (*model.Document, error) {
	p.defaults()
	l := container.Loader{MaxSize: p.MaxSize, Logger: p.Logger}
	xmlData, err := l.Load(data)
	if err != nil {
		return nil, err
	}
	return p.ParseXML(xmlData)
}

// ParseXML parses the document XML.
func (p Parser) ParseXML(data []byte) (*model.Document, error) {
	p.defaults()

	root, err := decodeTree(data)
	if err != nil {
		return nil, err
	}

	content, err := decodeContent(root)
	if err != nil {
		return nil, err
	}

	doc := model.NewDocument(content)
	doc.Styles = parseStyles(root, p.Logger)
	parseProperties(root, doc)

	elements := root.child(tagElements)
	if elements == nil {
		return nil, &model.StructureError{Section: tagElements}
	}

	b := &builder{
		doc:      doc,
		logger:   p.Logger,
		resolver: NewRunResolver(doc, p.Logger),
	}
	if err := b.walk(elements); err != nil {
		return nil, err
	}

	p.Logger.Debug("parser: document parsed",
		"content_len", doc.Len(),
		"styles", len(doc.Styles),
		"elements", len(doc.Elements),
		"header", doc.Header != nil,
		"footer", doc.Footer != nil)

	return doc, nil
}

// builder accumulates body blocks while walking the elements section.
type builder struct {
	doc      *model.Document
	logger   *slog.Logger
	resolver *RunResolver
}

// walk visits the elements section in document order.
func (b *builder) walk(elements *node) error {
	for i := range elements.Children {
		el := &elements.Children[i]

		switch el.name() {
		case tagParagraph:
			p, err := b.resolver.paragraph(el)
			if err != nil {
				return err
			}
			b.doc.Elements = append(b.doc.Elements, &p)

		case tagTable:
			t, err := b.parseTable(el)
			if err != nil {
				return fmt.Errorf("table %d: %w", i, err)
			}
			b.doc.Elements = append(b.doc.Elements, t)

		case tagPageBreak:
			b.doc.Elements = append(b.doc.Elements, &model.PageBreak{})

		case tagHeader:
			if b.doc.Header != nil {
				b.logger.Debug("parser: ignoring additional header")
				continue
			}
			g, err := b.parseGroup(el, model.GroupHeader)
			if err != nil {
				return err
			}
			b.doc.Header = g

		case tagFooter:
			if b.doc.Footer != nil {
				b.logger.Debug("parser: ignoring additional footer")
				continue
			}
			g, err := b.parseGroup(el, model.GroupFooter)
			if err != nil {
				return err
			}
			b.doc.Footer = g

		default:
			b.logger.Debug("parser: skipping unknown element", "tag", el.name())
		}
	}
	return nil
}

// parseGroup builds a header or footer.
func (b *builder) parseGroup(n *node, kind model.GroupKind) (*model.BlockGroup, error) {
	g := &model.BlockGroup{Kind: kind}
	if v, ok := n.attr("background"); ok {
		if c, ok := model.ParseColor(v); ok {
			g.Background = &c
		}
	}
	for _, pn := range n.children(tagParagraph) {
		p, err := b.resolver.paragraph(pn)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", kind, err)
		}
		g.Paragraphs = append(g.Paragraphs, p)
	}
	return g, nil
}
