package core

import (
	"bytes"
	"fmt"
	"io"

	"github.com/google/uuid"
)

// DefaultVersion is written in the file header.
const DefaultVersion = "1.7"

// idNamespace seeds the document identifier so that identical files get
// identical IDs.
var idNamespace = uuid.NewSHA1(uuid.NameSpaceURL, []byte("https://github.com/tsawler/udf/pdf"))

// Writer collects indirect objects and writes them as a complete PDF file.
// Object numbers start at 1 and follow the order of Reserve and Add calls.
type Writer struct {
	Version string

	// Root is the document catalog. Info, when set, is the document
	// information dictionary.
	Root IndirectRef
	Info IndirectRef

	objects []Object
}

// NewWriter creates an empty writer.
func NewWriter() *Writer {
	return &Writer{Version: DefaultVersion}
}

// Reserve allocates an object number whose value is supplied later with Set.
func (w *Writer) Reserve() IndirectRef {
	w.objects = append(w.objects, nil)
	return IndirectRef{Number: len(w.objects)}
}

// Add stores obj under the next object number.
func (w *Writer) Add(obj Object) IndirectRef {
	w.objects = append(w.objects, obj)
	return IndirectRef{Number: len(w.objects)}
}

// Set stores obj under a number obtained from Reserve.
func (w *Writer) Set(ref IndirectRef, obj Object) error {
	if ref.Number < 1 || ref.Number > len(w.objects) {
		return fmt.Errorf("object %d was never reserved", ref.Number)
	}
	w.objects[ref.Number-1] = obj
	return nil
}

// Len returns the number of allocated objects.
func (w *Writer) Len() int { return len(w.objects) }

// WriteTo serializes the header, every object, the cross-reference table
// and the trailer. Nothing is written to out when an object is missing.
func (w *Writer) WriteTo(out io.Writer) (int64, error) {
	if w.Root.IsZero() {
		return 0, fmt.Errorf("pdf writer: no document catalog")
	}

	version := w.Version
	if version == "" {
		version = DefaultVersion
	}

	var buf bytes.Buffer
	fmt.Fprintf(&buf, "%%PDF-%s\n%%\xE2\xE3\xCF\xD3\n", version)

	offsets := make([]int, len(w.objects))
	for i, obj := range w.objects {
		if obj == nil {
			return 0, fmt.Errorf("pdf writer: object %d reserved but never set", i+1)
		}
		offsets[i] = buf.Len()
		fmt.Fprintf(&buf, "%d 0 obj\n%s\nendobj\n", i+1, obj.String())
	}

	sum := uuid.NewSHA1(idNamespace, buf.Bytes())
	id := HexString(sum[:])

	xref := buf.Len()
	fmt.Fprintf(&buf, "xref\n0 %d\n0000000000 65535 f \n", len(w.objects)+1)
	for _, off := range offsets {
		fmt.Fprintf(&buf, "%010d 00000 n \n", off)
	}

	trailer := Dict{
		"Size": Int(len(w.objects) + 1),
		"Root": w.Root,
		"ID":   Array{id, id},
	}
	if !w.Info.IsZero() {
		trailer["Info"] = w.Info
	}
	fmt.Fprintf(&buf, "trailer\n%s\nstartxref\n%d\n%%%%EOF\n", trailer, xref)

	return buf.WriteTo(out)
}
