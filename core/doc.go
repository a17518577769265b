// Package core provides the PDF object model and the file writer used by
// the PDF renderer.
//
// # Object Types
//
// Every PDF object type satisfies the [Object] interface, whose String
// method returns the object in PDF syntax:
//
//   - [Null], [Bool], [Int] and [Real] for scalars
//   - [String] for literal strings and [HexString] for binary strings
//   - [Name] for names such as /Type or /Font
//   - [Array] and [Dict] for containers
//   - [Stream] for a dictionary followed by binary data
//   - [IndirectRef] for a reference to a numbered object
//
// Dictionary keys are written in sorted order so that identical input
// produces byte-identical files.
//
// # Writing
//
// A [Writer] collects numbered objects and serializes them with a
// cross-reference table and trailer:
//
//	w := core.NewWriter()
//	pages := w.Reserve()
//	catalog := w.Add(core.Dict{"Type": core.Name("Catalog"), "Pages": pages})
//	w.Set(pages, core.Dict{...})
//	w.Root = catalog
//	_, err := w.WriteTo(out)
//
// Reserving a number first lets parents and children reference each other.
package core
