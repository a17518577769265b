// Package model provides the document object model for parsed UDF content.
//
// A UDF document stores all of its text once, in a flat content buffer.
// Everything else (paragraph runs, fields, table cells, header and footer
// text) addresses that buffer by offset and length. The types in this
// package keep that addressing intact: a [TextRun] holds a [Span], not a
// copy of its text, and [Document.RunText] is the single place where spans
// are turned back into strings.
//
// # Document Structure
//
// The [Document] type holds the content buffer, the optional style table,
// the page format, an optional header and footer, and the ordered body:
//
//	doc := model.NewDocument("Hello, World!")
//	doc.Elements = append(doc.Elements, &model.Paragraph{...})
//
// # Blocks
//
// Body content implements the [Block] interface. The closed set of concrete
// types is:
//
//   - [Paragraph] - a sequence of runs with alignment and indentation
//   - [Table] - rows of cells, each cell holding paragraphs
//   - [PageBreak] - a structural marker
//   - [BlockGroup] - header or footer content
//
// # Runs
//
// Paragraph content implements the [Run] interface:
//
//   - [TextRun] - formatted text addressed by a [Span]
//   - [FieldRun] - a named field, addressed or literal
//   - [SpaceRun] - a single space
//   - [ImageRun] - an embedded, still encoded image payload
//   - [GapRun] - buffer text between two explicit runs, never declared in
//     the source and carrying no formatting
//
// # Values
//
// [Color] converts the signed 32-bit colors used by the format, and the
// unit helpers in units.go convert points to the units of each output
// format.
package model
