package parser

import (
	"strings"

	"github.com/tsawler/udf/model"
)

const (
	cdataPrefix = "<![CDATA["
	cdataSuffix = "]]>"
)

// decodeContent returns the flat text buffer held by the content element.
// Literal CDATA markers are removed only when both the prefix and the
// suffix match exactly.
func decodeContent(root *node) (string, error) {
	c := root.child(tagContent)
	if c == nil {
		return "", &model.StructureError{Section: tagContent}
	}
	return stripCDATA(c.Text), nil
}

func stripCDATA(s string) string {
	if len(s) >= len(cdataPrefix)+len(cdataSuffix) &&
		strings.HasPrefix(s, cdataPrefix) && strings.HasSuffix(s, cdataSuffix) {
		return s[len(cdataPrefix) : len(s)-len(cdataSuffix)]
	}
	return s
}
