// Package udf converts UDF documents, the XML based word processor format
// used by the Turkish judiciary, to DOCX, PDF and Markdown.
//
// Basic usage:
//
//	var buf bytes.Buffer
//	warnings, err := udf.Open("dilekce.udf").ToPDF(&buf)
//	if err != nil {
//	    // handle error
//	}
//	if len(warnings) > 0 {
//	    log.Println("Warnings:", udf.FormatWarnings(warnings))
//	}
//
// With options:
//
//	md, _, err := udf.Open("dilekce.udf").
//	    PreferDeclaredFamily().
//	    OCR("tur").
//	    ToMarkdown()
//
// For advanced use cases, the parser and render packages are also available.
package udf

import (
	"github.com/tsawler/udf/render"
)

// Warning records a recoverable problem met while converting, such as an
// image that could not be decoded.
type Warning = render.Warning

// FormatWarnings joins warnings into a single human readable string.
func FormatWarnings(ws []Warning) string { return render.FormatWarnings(ws) }

// Open returns a Converter for the UDF file at filename. The file is read
// by the terminal operation.
//
// Example:
//
//	warnings, err := udf.Open("dilekce.udf").ConvertFile("dilekce.docx")
func Open(filename string) *Converter {
	return &Converter{
		filename: filename,
		options:  defaultOptions(),
	}
}

// FromBytes returns a Converter for a UDF document held in memory, either
// the archive or the bare XML.
//
// Example:
//
//	md, _, err := udf.FromBytes(body).ToMarkdown()
func FromBytes(data []byte) *Converter {
	return &Converter{
		data:     data,
		inMemory: true,
		options:  defaultOptions(),
	}
}

// Must is a helper that wraps a call to a function returning (T, error)
// and panics if the error is non-nil. It is intended for use in scripts
// or tests where error handling would be cumbersome.
//
// Example:
//
//	doc := udf.Must(udf.Open("dilekce.udf").Document())
func Must[T any](val T, err error) T {
	if err != nil {
		panic(err)
	}
	return val
}

// MustOutput is a helper that wraps a conversion and panics if the error
// is non-nil. It discards warnings and returns just the output.
//
// Example:
//
//	pdf := udf.MustOutput(udf.Open("dilekce.udf").Bytes(format.PDF))
func MustOutput[T any](val T, _ []Warning, err error) T {
	if err != nil {
		panic(err)
	}
	return val
}
