// Package parser provides UDF document parsing.
//
// The XML is decoded into a generic element tree that keeps children in
// document order. The tree is then walked to build a [model.Document]:
// the content buffer, the style table, the page format and the body blocks
// with their resolved runs.
package parser

import (
	"bytes"
	"encoding/xml"
	"errors"
	"strconv"
	"strings"

	"golang.org/x/net/html/charset"

	"github.com/tsawler/udf/model"
)

// UDF element names
const (
	tagContent    = "content"
	tagStyles     = "styles"
	tagStyle      = "style"
	tagProperties = "properties"
	tagPageFormat = "pageFormat"
	tagBgImage    = "bgImage"
	tagElements   = "elements"
	tagParagraph  = "paragraph"
	tagTable      = "table"
	tagRow        = "row"
	tagCell       = "cell"
	tagPageBreak  = "page-break"
	tagHeader     = "header"
	tagFooter     = "footer"
	tagField      = "field"
	tagSpace      = "space"
	tagImage      = "image"
)

// node is an XML element with its attributes and children in document order.
type node struct {
	XMLName  xml.Name
	Attrs    []xml.Attr `xml:",any,attr"`
	Text     string     `xml:",chardata"`
	Children []node     `xml:",any"`
}

func (n *node) name() string { return n.XMLName.Local }

// attr returns the value of the named attribute and whether it is present.
func (n *node) attr(name string) (string, bool) {
	for _, a := range n.Attrs {
		if a.Name.Local == name {
			return a.Value, true
		}
	}
	return "", false
}

// attrString returns the named attribute or def when absent.
func (n *node) attrString(name, def string) string {
	if v, ok := n.attr(name); ok {
		return v
	}
	return def
}

// attrBool reports whether the named attribute is literally "true".
func (n *node) attrBool(name string) bool {
	v, _ := n.attr(name)
	return strings.TrimSpace(v) == "true"
}

// attrFloat parses the named attribute. Missing or garbled values yield def.
func (n *node) attrFloat(name string, def float64) float64 {
	v, ok := n.attr(name)
	if !ok {
		return def
	}
	f, err := strconv.ParseFloat(strings.TrimSpace(v), 64)
	if err != nil {
		return def
	}
	return f
}

// attrInt parses the named attribute as an integer.
// ok is false when the attribute is absent; err is set when it is garbled.
// A number outside the int range yields strconv.ErrRange with v clamped.
func (n *node) attrInt(name string) (v int, ok bool, err error) {
	s, present := n.attr(name)
	if !present {
		return 0, false, nil
	}
	v, err = strconv.Atoi(strings.TrimSpace(s))
	return v, true, err
}

// child returns the first direct child with the given name, or nil.
func (n *node) child(name string) *node {
	for i := range n.Children {
		if n.Children[i].name() == name {
			return &n.Children[i]
		}
	}
	return nil
}

// children returns all direct children with the given name.
func (n *node) children(name string) []*node {
	var out []*node
	for i := range n.Children {
		if n.Children[i].name() == name {
			out = append(out, &n.Children[i])
		}
	}
	return out
}

// decodeTree parses data into an element tree.
// Declared non-UTF-8 encodings are converted through the charset package.
func decodeTree(data []byte) (*node, error) {
	d := xml.NewDecoder(bytes.NewReader(data))
	d.CharsetReader = charset.NewReaderLabel

	var root node
	if err := d.Decode(&root); err != nil {
		fe := &model.FormatError{Cause: err}
		var se *xml.SyntaxError
		if errors.As(err, &se) {
			fe.Line = se.Line
		}
		return nil, fe
	}
	return &root, nil
}
