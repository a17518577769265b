// Package format provides input detection and output format names for the udf library.
package format

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"path/filepath"
	"strings"
)

// ErrUnknownFormat is returned when an output format name is not recognized.
var ErrUnknownFormat = errors.New("format: unknown output format")

// Format represents a supported output format.
type Format int

const (
	// Unknown indicates an unrecognized format.
	Unknown Format = iota
	// DOCX indicates a Word flow document.
	DOCX
	// PDF indicates a fixed-page PDF document.
	PDF
	// Markdown indicates lightweight markup.
	Markdown
)

// String returns the string representation of the format.
func (f Format) String() string {
	switch f {
	case DOCX:
		return "DOCX"
	case PDF:
		return "PDF"
	case Markdown:
		return "Markdown"
	default:
		return "Unknown"
	}
}

// Extension returns the typical file extension for the format.
func (f Format) Extension() string {
	switch f {
	case DOCX:
		return ".docx"
	case PDF:
		return ".pdf"
	case Markdown:
		return ".md"
	default:
		return ""
	}
}

// ContentType returns the MIME type served for the format.
func (f Format) ContentType() string {
	switch f {
	case DOCX:
		return "application/vnd.openxmlformats-officedocument.wordprocessingml.document"
	case PDF:
		return "application/pdf"
	case Markdown:
		return "text/markdown; charset=utf-8"
	default:
		return "application/octet-stream"
	}
}

// Parse resolves a user supplied format name such as "pdf", "docx" or "md".
func Parse(name string) (Format, error) {
	switch strings.ToLower(strings.TrimPrefix(strings.TrimSpace(name), ".")) {
	case "docx", "word":
		return DOCX, nil
	case "pdf":
		return PDF, nil
	case "md", "markdown":
		return Markdown, nil
	default:
		return Unknown, fmt.Errorf("%w: %q", ErrUnknownFormat, name)
	}
}

// Detect determines the output format from a filename extension.
func Detect(filename string) Format {
	f, err := Parse(filepath.Ext(filename))
	if err != nil {
		return Unknown
	}
	return f
}

// Input classifies raw input bytes.
type Input int

const (
	// InputUnknown is handed to the XML parser as is.
	InputUnknown Input = iota
	// InputZip is a zip archive expected to hold content.xml.
	InputZip
	// InputXML is a bare XML document.
	InputXML
)

func (in Input) String() string {
	switch in {
	case InputZip:
		return "zip"
	case InputXML:
		return "xml"
	default:
		return "unknown"
	}
}

var zipMagic = []byte{0x50, 0x4B, 0x03, 0x04}

// IsZip reports whether data starts with the zip local file header magic.
func IsZip(data []byte) bool {
	return bytes.HasPrefix(data, zipMagic)
}

// DetectInput checks magic bytes to classify the input.
func DetectInput(data []byte) Input {
	if IsZip(data) {
		return InputZip
	}

	// Skip a UTF-8 byte order mark and leading whitespace
	data = bytes.TrimPrefix(data, []byte{0xEF, 0xBB, 0xBF})
	data = bytes.TrimLeft(data, " \t\r\n")
	if len(data) > 0 && data[0] == '<' {
		return InputXML
	}

	return InputUnknown
}

// DetectFromReader reads the leading bytes of r to classify the input.
func DetectFromReader(r io.ReaderAt) (Input, error) {
	magic := make([]byte, 512)
	n, err := r.ReadAt(magic, 0)
	if err != nil && err != io.EOF {
		return InputUnknown, err
	}
	return DetectInput(magic[:n]), nil
}
