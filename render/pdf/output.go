package pdf

import (
	"bytes"
	"fmt"
	"io"
	"sync"
	"unicode/utf16"

	"github.com/pdfcpu/pdfcpu/pkg/api"
	pdfmodel "github.com/pdfcpu/pdfcpu/pkg/pdfcpu/model"

	"github.com/tsawler/udf/core"
)

// Producer is written to the document information dictionary.
const Producer = "udf"

// EndDocument assembles the pages into a PDF file and writes it to out.
// A document without content still gets one empty page.
func (r *Renderer) EndDocument(out io.Writer) error {
	if r.cur == nil {
		r.newPage()
	}

	w := core.NewWriter()
	resDict, err := r.res.write(w)
	if err != nil {
		return err
	}
	resRef := w.Add(resDict)

	pagesRef := w.Reserve()
	kids := make(core.Array, 0, len(r.pages))
	for i, p := range r.pages {
		contents, err := core.NewFlateStream(nil, p.content.Bytes(), nil)
		if err != nil {
			return fmt.Errorf("page %d: %w", i+1, err)
		}
		kids = append(kids, w.Add(core.Dict{
			"Type":      core.Name("Page"),
			"Parent":    pagesRef,
			"MediaBox":  core.Reals(0, 0, r.geo.width, r.geo.height),
			"Resources": resRef,
			"Contents":  w.Add(contents),
		}))
	}
	if err := w.Set(pagesRef, core.Dict{
		"Type":  core.Name("Pages"),
		"Kids":  kids,
		"Count": core.Int(len(kids)),
	}); err != nil {
		return err
	}

	w.Root = w.Add(core.Dict{"Type": core.Name("Catalog"), "Pages": pagesRef})
	info := core.Dict{"Producer": core.String(Producer)}
	if r.opts.Title != "" {
		info["Title"] = textString(r.opts.Title)
	}
	w.Info = w.Add(info)

	var buf bytes.Buffer
	if _, err := w.WriteTo(&buf); err != nil {
		return err
	}
	data := buf.Bytes()

	if r.opts.Optimize {
		optimized, err := optimize(data)
		if err != nil {
			r.warnings.Add("optimize", "pdf written without optimization", err)
		} else {
			data = optimized
		}
	}

	r.logger().Debug("pdf: document written", "pages", len(r.pages), "bytes", len(data))
	_, err = out.Write(data)
	return err
}

// textString encodes s as a PDF text string: literal for ASCII,
// UTF-16BE with a byte order mark otherwise.
func textString(s string) core.Object {
	ascii := true
	for i := 0; i < len(s); i++ {
		if s[i] >= 0x80 {
			ascii = false
			break
		}
	}
	if ascii {
		return core.String(s)
	}
	b := []byte{0xFE, 0xFF}
	for _, u := range utf16.Encode([]rune(s)) {
		b = append(b, byte(u>>8), byte(u))
	}
	return core.HexString(b)
}

var disableConfigDir sync.Once

// optimize rewrites data with pdfcpu, which merges duplicate objects and
// compresses the cross-reference section.
func optimize(data []byte) ([]byte, error) {
	disableConfigDir.Do(api.DisableConfigDir)

	var out bytes.Buffer
	if err := api.Optimize(bytes.NewReader(data), &out, pdfmodel.NewDefaultConfiguration()); err != nil {
		return nil, fmt.Errorf("pdfcpu optimize: %w", err)
	}
	return out.Bytes(), nil
}
