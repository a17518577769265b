package pdf

import (
	"bytes"
	"encoding/base64"
	"errors"
	"image"
	"image/jpeg"
	"image/png"
	"math"
	"strconv"
	"strings"
	"testing"

	"github.com/pdfcpu/pdfcpu/pkg/api"
	"golang.org/x/image/font/gofont/goregular"

	"github.com/tsawler/udf/core"
	"github.com/tsawler/udf/font"
	"github.com/tsawler/udf/model"
	"github.com/tsawler/udf/render"
)

func renderPDF(t *testing.T, doc *model.Document, opts Options) ([]byte, *Renderer) {
	t.Helper()
	r := New(opts)
	var buf bytes.Buffer
	if err := render.Dispatch(doc, r, &buf); err != nil {
		t.Fatalf("Dispatch failed: %v", err)
	}
	return buf.Bytes(), r
}

func pageCount(t *testing.T, data []byte) int {
	t.Helper()
	api.DisableConfigDir()
	n, err := api.PageCount(bytes.NewReader(data), nil)
	if err != nil {
		t.Fatalf("pdfcpu rejected the file: %v", err)
	}
	return n
}

func hexOf(s string) string {
	return core.HexString(font.EncodeTurkish(s)).String()
}

func para(runs ...model.Run) *model.Paragraph {
	return &model.Paragraph{LineSpacing: 1.2, Runs: runs}
}

func text(off, n int, st model.RunStyle) *model.TextRun {
	return &model.TextRun{Span: model.Span{Offset: off, Length: n}, Style: st}
}

func pngPayload(t *testing.T, w, h int) []byte {
	t.Helper()
	m := image.NewNRGBA(image.Rect(0, 0, w, h))
	for i := range m.Pix {
		m.Pix[i] = 0xC0
	}
	var buf bytes.Buffer
	if err := png.Encode(&buf, m); err != nil {
		t.Fatal(err)
	}
	return []byte(base64.StdEncoding.EncodeToString(buf.Bytes()))
}

// ============================================================================
// Document Tests
// ============================================================================

func TestEmptyDocument(t *testing.T) {
	data, r := renderPDF(t, model.NewDocument(""), Options{})
	if n := pageCount(t, data); n != 1 {
		t.Errorf("page count = %d, want 1", n)
	}
	if len(r.Warnings()) != 0 {
		t.Errorf("unexpected warnings: %v", r.Warnings())
	}
}

func TestParagraphText(t *testing.T) {
	doc := model.NewDocument("Merhaba Dünya\n")
	doc.Elements = []model.Block{para(
		text(0, 8, model.RunStyle{}),
		text(8, 6, model.RunStyle{Bold: true}),
	)}

	data, r := renderPDF(t, doc, Options{})
	pageCount(t, data)

	content := r.pages[0].content.String()
	for _, want := range []string{hexOf("Merhaba"), hexOf("Dünya"), "/F1 12 Tf", "/F2 12 Tf"} {
		if !strings.Contains(content, want) {
			t.Errorf("content lacks %s:\n%s", want, content)
		}
	}
	out := string(data)
	for _, want := range []string{"/BaseFont /Times-Roman", "/BaseFont /Times-Bold", "/Differences", "/Producer (udf)"} {
		if !strings.Contains(out, want) {
			t.Errorf("file lacks %s", want)
		}
	}
}

func TestRunColorAndUnderline(t *testing.T) {
	doc := model.NewDocument("kırmızı")
	red := model.Color{R: 255}
	doc.Elements = []model.Block{para(text(0, 7, model.RunStyle{Foreground: &red, Underline: true, Size: 10}))}

	_, r := renderPDF(t, doc, Options{})
	content := r.pages[0].content.String()
	if !strings.Contains(content, "1 0 0 rg") {
		t.Errorf("text color not set:\n%s", content)
	}
	if !strings.Contains(content, "1 0 0 RG 0.5 w") || !strings.Contains(content, " l S Q") {
		t.Errorf("underline not drawn:\n%s", content)
	}
}

func TestNamedStyleFallback(t *testing.T) {
	doc := model.NewDocument("Başlık")
	doc.Styles["baslik"] = model.StyleDef{Name: "baslik", Size: 16, Bold: true, Foreground: model.ColorFromInt(-65536)}
	doc.Elements = []model.Block{para(&model.TextRun{Span: model.Span{Length: 6}, StyleName: "baslik"})}

	_, r := renderPDF(t, doc, Options{})
	content := r.pages[0].content.String()
	if !strings.Contains(content, "/F1 16 Tf") || !strings.Contains(content, "1 0 0 rg") {
		t.Errorf("named style not applied:\n%s", content)
	}
	if r.res.faceOrder[0].face.BaseFont() != "Times-Bold" {
		t.Errorf("face = %s", r.res.faceOrder[0].face.BaseFont())
	}
}

func TestPagination(t *testing.T) {
	const n = 120
	doc := model.NewDocument(strings.Repeat("satır\n", n) + "ÜST")
	doc.Header = &model.BlockGroup{Kind: model.GroupHeader, Paragraphs: []model.Paragraph{*para(text(6*n, 3, model.RunStyle{}))}}
	for i := 0; i < n; i++ {
		doc.Elements = append(doc.Elements, para(text(6*i, 6, model.RunStyle{})))
	}

	data, r := renderPDF(t, doc, Options{})
	pages := pageCount(t, data)
	if pages < 2 {
		t.Fatalf("page count = %d, want more than 1", pages)
	}
	for i, p := range r.pages {
		if !strings.Contains(p.content.String(), hexOf("ÜST")) {
			t.Errorf("page %d has no header", i+1)
		}
	}

	drawn := 0
	for _, p := range r.pages {
		drawn += strings.Count(p.content.String(), hexOf("satır"))
	}
	if drawn != n {
		t.Errorf("drew %d paragraphs, want %d", drawn, n)
	}
}

func TestPageBreak(t *testing.T) {
	doc := model.NewDocument("birinci\nikinci\n")
	doc.Elements = []model.Block{
		para(text(0, 8, model.RunStyle{})),
		&model.PageBreak{},
		para(text(8, 7, model.RunStyle{})),
	}

	data, r := renderPDF(t, doc, Options{})
	if n := pageCount(t, data); n != 2 {
		t.Fatalf("page count = %d, want 2", n)
	}
	if !strings.Contains(r.pages[1].content.String(), hexOf("ikinci")) {
		t.Error("second paragraph should be on page 2")
	}
}

func TestLandscape(t *testing.T) {
	doc := model.NewDocument("")
	doc.PageFormat.Orientation = model.Landscape
	data, _ := renderPDF(t, doc, Options{})
	if !strings.Contains(string(data), "/MediaBox [0 0 841.89 595.28]") {
		t.Error("landscape page size not applied")
	}
}

func TestHeaderFooterBackground(t *testing.T) {
	doc := model.NewDocument("ab")
	gray := model.Color{R: 204, G: 204, B: 204}
	doc.Header = &model.BlockGroup{Kind: model.GroupHeader, Background: &gray, Paragraphs: []model.Paragraph{*para(text(0, 1, model.RunStyle{}))}}
	doc.Footer = &model.BlockGroup{Kind: model.GroupFooter, Paragraphs: []model.Paragraph{*para(text(1, 1, model.RunStyle{}))}}

	_, r := renderPDF(t, doc, Options{})
	content := r.pages[0].content.String()
	if strings.Count(content, "re f") != 1 || !strings.Contains(content, "0.8 0.8 0.8 rg") {
		t.Errorf("header band missing:\n%s", content)
	}
	if !strings.Contains(content, hexOf("b")) {
		t.Error("footer not drawn")
	}
}

func TestTitle(t *testing.T) {
	data, _ := renderPDF(t, model.NewDocument(""), Options{Title: "Dilekçe"})
	if !strings.Contains(string(data), "/Title <FEFF00440069006C0065006B00E70065>") {
		t.Error("title not written as UTF-16")
	}
	if textString("Plain").String() != "(Plain)" {
		t.Error("ASCII title should be a literal string")
	}
}

// ============================================================================
// Layout Tests
// ============================================================================

func layoutText(t *testing.T, s string, p *model.Paragraph, width float64) []*line {
	t.Helper()
	doc := model.NewDocument(s)
	r := New(Options{})
	if err := r.BeginDocument(doc); err != nil {
		t.Fatal(err)
	}
	if p == nil {
		p = para(text(0, len([]rune(s)), model.RunStyle{}))
	}
	return r.layoutParagraph(p, width)
}

// textX returns the x operand of the first Td operator in content.
func textX(t *testing.T, content string) float64 {
	t.Helper()
	fields := strings.Fields(content)
	for i, f := range fields {
		if f == "Td" && i >= 2 {
			x, err := strconv.ParseFloat(fields[i-2], 64)
			if err != nil {
				t.Fatalf("bad Td operand in %q", content)
			}
			return x
		}
	}
	t.Fatalf("no text in %q", content)
	return 0
}

func lineText(l *line) string {
	var sb strings.Builder
	for _, it := range l.items {
		sb.WriteString(it.text)
	}
	return sb.String()
}

func TestWrapping(t *testing.T) {
	s := "Bu dilekçe ile mahkemenize başvuruyorum ve gereğinin yapılmasını arz ederim"
	lines := layoutText(t, s, nil, 150)
	if len(lines) < 3 {
		t.Fatalf("got %d lines, want wrapping", len(lines))
	}

	var words []string
	for i, l := range lines {
		if l.width > l.avail {
			t.Errorf("line %d is %v wide, limit %v", i, l.width, l.avail)
		}
		if strings.HasPrefix(lineText(l), " ") {
			t.Errorf("wrapped line %d starts with a space", i)
		}
		words = append(words, strings.Fields(lineText(l))...)
	}
	if strings.Join(words, " ") != s {
		t.Errorf("text changed by wrapping: %q", strings.Join(words, " "))
	}
}

func TestHardBreaks(t *testing.T) {
	lines := layoutText(t, "a\n\nb\n", nil, 300)
	if len(lines) != 3 {
		t.Fatalf("got %d lines, want 3", len(lines))
	}
	if lineText(lines[0]) != "a" || len(lines[1].items) != 0 || lineText(lines[2]) != "b" {
		t.Errorf("lines = %q %q %q", lineText(lines[0]), lineText(lines[1]), lineText(lines[2]))
	}
	if math.Abs(lines[1].height-14.4) > 1e-9 {
		t.Errorf("empty line height = %v", lines[1].height)
	}
}

func TestEmptyParagraph(t *testing.T) {
	lines := layoutText(t, "", &model.Paragraph{}, 300)
	if len(lines) != 1 || len(lines[0].items) != 0 {
		t.Fatalf("empty paragraph lines = %d", len(lines))
	}
}

func TestIndents(t *testing.T) {
	p := para(text(0, 5, model.RunStyle{}))
	p.LeftIndent, p.RightIndent, p.FirstLineIndent = 20, 10, 15
	lines := layoutText(t, "kelime", p, 200)
	if lines[0].indent != 35 || lines[0].avail != 155 {
		t.Errorf("first line indent %v avail %v", lines[0].indent, lines[0].avail)
	}
}

func TestSplitLongWord(t *testing.T) {
	lines := layoutText(t, strings.Repeat("m", 40), nil, 50)
	if len(lines) < 4 {
		t.Fatalf("got %d lines", len(lines))
	}
	total := 0
	for _, l := range lines {
		if l.width > l.avail {
			t.Errorf("piece %q is %v wide", lineText(l), l.width)
		}
		total += len(lineText(l))
	}
	if total != 40 {
		t.Errorf("split lost characters: %d", total)
	}
}

func TestAlignment(t *testing.T) {
	tests := []struct {
		align model.Alignment
		check func(x float64) bool
	}{
		{model.AlignLeft, func(x float64) bool { return x == 0 }},
		{model.AlignCenter, func(x float64) bool { return x > 100 && x < 200 }},
		{model.AlignRight, func(x float64) bool { return x > 250 }},
	}

	for _, tt := range tests {
		t.Run(tt.align.String(), func(t *testing.T) {
			p := para(text(0, 3, model.RunStyle{}))
			p.Alignment = tt.align
			lines := layoutText(t, "abc", p, 300)

			pg := &page{}
			pg.drawLine(lines[0], 0, 100)
			x := textX(t, pg.content.String())
			if !tt.check(x) {
				t.Errorf("x = %v", x)
			}
		})
	}
}

func TestJustify(t *testing.T) {
	s := strings.Repeat("söz ", 60)
	p := para(text(0, len([]rune(s)), model.RunStyle{}))
	p.Alignment = model.AlignJustify
	lines := layoutText(t, s, p, 200)
	if len(lines) < 2 {
		t.Fatal("expected several lines")
	}
	for i, l := range lines {
		last := i == len(lines)-1
		if l.justified == last {
			t.Errorf("line %d justified = %v", i, l.justified)
		}
	}
}

// ============================================================================
// Table Tests
// ============================================================================

func tableDoc(border model.BorderStyle) *model.Document {
	doc := model.NewDocument("abcd")
	cell := func(off int) model.Cell {
		return model.Cell{Paragraphs: []model.Paragraph{*para(text(off, 1, model.RunStyle{}))}}
	}
	doc.Elements = []model.Block{&model.Table{
		ColumnCount:  2,
		Border:       border,
		ColumnWidths: []float64{1, 3},
		Rows: []model.Row{
			{Cells: []model.Cell{cell(0), cell(1)}},
			{Cells: []model.Cell{cell(2), cell(3)}},
		},
	}}
	return doc
}

func TestTableBorders(t *testing.T) {
	tests := []struct {
		border model.BorderStyle
		rects  int
	}{
		{model.CellBordered, 4},
		{model.OuterOnly, 1},
		{model.AllBordered, 4},
	}

	for _, tt := range tests {
		t.Run(tt.border.String(), func(t *testing.T) {
			data, r := renderPDF(t, tableDoc(tt.border), Options{})
			pageCount(t, data)
			content := r.pages[0].content.String()
			if n := strings.Count(content, "re S"); n != tt.rects {
				t.Errorf("stroked %d rectangles, want %d:\n%s", n, tt.rects, content)
			}
			if strings.Contains(content, "RG 1 w") {
				t.Errorf("table border stroked wider than %v:\n%s", borderWidth, content)
			}
			for _, s := range []string{"a", "b", "c", "d"} {
				if !strings.Contains(content, hexOf(s)) {
					t.Errorf("cell %s not drawn", s)
				}
			}
		})
	}
}

func TestTableColumnWidths(t *testing.T) {
	_, r := renderPDF(t, tableDoc(model.CellBordered), Options{})
	content := r.pages[0].content.String()
	cw := model.A4Width - 2*model.DefaultMargin
	first := "42.5 "
	if !strings.Contains(content, "0.5 w "+first) {
		t.Fatalf("first cell not at the left margin:\n%s", content)
	}
	if !strings.Contains(content, " "+num(cw/4)+" ") || !strings.Contains(content, " "+num(cw*3/4)+" ") {
		t.Errorf("cells not split 1:3 over %v:\n%s", cw, content)
	}
}

func TestTableRowHeight(t *testing.T) {
	doc := model.NewDocument("x")
	doc.Elements = []model.Block{&model.Table{
		ColumnCount: 1,
		Rows: []model.Row{{Height: 100, Cells: []model.Cell{
			{Paragraphs: []model.Paragraph{*para(text(0, 1, model.RunStyle{}))}},
		}}},
	}}

	r := New(Options{})
	if err := r.BeginDocument(doc); err != nil {
		t.Fatal(err)
	}
	if err := r.EmitTable(doc.Elements[0].(*model.Table)); err != nil {
		t.Fatal(err)
	}
	if want := r.bodyTop() - 100; math.Abs(r.y-want) > 1e-9 {
		t.Errorf("y after row = %v, want %v", r.y, want)
	}
}

func TestTableRowsMoveToNextPage(t *testing.T) {
	doc := model.NewDocument("x")
	row := model.Row{Height: 300, Cells: []model.Cell{{Paragraphs: []model.Paragraph{*para(text(0, 1, model.RunStyle{}))}}}}
	doc.Elements = []model.Block{&model.Table{
		ColumnCount: 1,
		Border:      model.OuterOnly,
		Rows:        []model.Row{row, row, row, row},
	}}

	data, r := renderPDF(t, doc, Options{})
	if n := pageCount(t, data); n != 2 {
		t.Fatalf("page count = %d, want 2", n)
	}
	for i, p := range r.pages {
		if n := strings.Count(p.content.String(), "re S"); n != 1 {
			t.Errorf("page %d has %d frames, want 1", i+1, n)
		}
	}
}

// ============================================================================
// Image Tests
// ============================================================================

func TestImages(t *testing.T) {
	doc := model.NewDocument("")
	payload := pngPayload(t, 40, 20)
	doc.Elements = []model.Block{
		para(&model.ImageRun{Payload: payload}),
		para(&model.ImageRun{Payload: payload, Width: 80}),
		para(&model.ImageRun{Payload: []byte("bozuk veri")}),
	}

	data, r := renderPDF(t, doc, Options{})
	pageCount(t, data)

	content := r.pages[0].content.String()
	if n := strings.Count(content, "/Im1 Do"); n != 2 {
		t.Errorf("image drawn %d times, want 2", n)
	}
	if strings.Contains(content, "/Im2") {
		t.Error("identical images should share one XObject")
	}
	if !strings.Contains(content, "q 80 0 0 40 ") {
		t.Errorf("declared width not applied:\n%s", content)
	}
	if !strings.Contains(content, hexOf(render.DefaultImagePlaceholder)) {
		t.Error("placeholder not drawn for the broken image")
	}
	if !strings.Contains(string(data), "/Subtype /Image") {
		t.Error("no image XObject in file")
	}

	warnings := r.Warnings()
	if len(warnings) != 1 {
		t.Fatalf("got %d warnings, want 1", len(warnings))
	}
	var ae *model.AssetError
	if !errors.As(warnings[0].Err, &ae) {
		t.Errorf("warning error = %v, want *model.AssetError", warnings[0].Err)
	}
}

func TestImageXObject(t *testing.T) {
	var buf bytes.Buffer
	m := image.NewRGBA(image.Rect(0, 0, 8, 8))
	for i := range m.Pix {
		m.Pix[i] = 0xFF
	}
	if err := jpeg.Encode(&buf, m, nil); err != nil {
		t.Fatal(err)
	}
	img, err := render.DecodeImage([]byte(base64.StdEncoding.EncodeToString(buf.Bytes())))
	if err != nil {
		t.Fatal(err)
	}

	stream, err := imageXObject(img)
	if err != nil {
		t.Fatalf("imageXObject failed: %v", err)
	}
	if f, _ := stream.Dict.GetName("Filter"); f != "DCTDecode" {
		t.Errorf("jpeg filter = %q, want DCTDecode", f)
	}
	if !bytes.Equal(stream.Data, buf.Bytes()) {
		t.Error("jpeg data should pass through unchanged")
	}

	img, err = render.DecodeImage(pngPayload(t, 3, 2))
	if err != nil {
		t.Fatal(err)
	}
	stream, err = imageXObject(img)
	if err != nil {
		t.Fatalf("imageXObject failed: %v", err)
	}
	f, _ := stream.Dict.GetName("Filter")
	cs, _ := stream.Dict.GetName("ColorSpace")
	if f != "FlateDecode" || cs != "DeviceRGB" {
		t.Errorf("png stream dict = %s", stream.Dict)
	}
	samples, err := stream.Decode()
	if err != nil {
		t.Fatalf("Decode failed: %v", err)
	}
	if len(samples) != 3*2*3 {
		t.Errorf("samples = %v", samples)
	}
}

func TestBackground(t *testing.T) {
	doc := model.NewDocument("a")
	doc.Background = &model.BackgroundImage{Data: pngPayload(t, 10, 10)}
	doc.Elements = []model.Block{para(text(0, 1, model.RunStyle{})), &model.PageBreak{}}

	data, r := renderPDF(t, doc, Options{})
	if n := pageCount(t, data); n != 2 {
		t.Fatalf("page count = %d", n)
	}
	for i, p := range r.pages {
		if !strings.HasPrefix(p.content.String(), "q 595.28 0 0 841.89 0 0 cm /Im1 Do Q") {
			t.Errorf("page %d lacks the background", i+1)
		}
	}

	doc.Background = &model.BackgroundImage{Data: []byte("???")}
	_, r = renderPDF(t, doc, Options{})
	if len(r.Warnings()) != 1 || r.Warnings()[0].Kind != "background" {
		t.Errorf("warnings = %v", r.Warnings())
	}
}

// ============================================================================
// Font and Output Tests
// ============================================================================

func TestTrueTypeFamily(t *testing.T) {
	fam := font.NewFamily("Go")
	if err := fam.Add(font.Regular, goregular.TTF); err != nil {
		t.Fatal(err)
	}

	doc := model.NewDocument("Iğdır ılık")
	doc.Elements = []model.Block{para(text(0, 10, model.RunStyle{Bold: true}))}

	opts := Options{Families: map[string]*font.Family{"go": fam}}
	opts.Fonts.Canonical = "Go"
	data, _ := renderPDF(t, doc, opts)
	pageCount(t, data)

	out := string(data)
	for _, want := range []string{"/Subtype /Type0", "/CIDFontType2", "/FontFile2", "/ToUnicode"} {
		if !strings.Contains(out, want) {
			t.Errorf("file lacks %s", want)
		}
	}
	if strings.Contains(out, "/Times-") {
		t.Error("standard font used although a family was configured")
	}
}

func TestUnknownFamilyFallsBack(t *testing.T) {
	doc := model.NewDocument("a")
	doc.Elements = []model.Block{para(text(0, 1, model.RunStyle{Family: "Arial"}))}

	opts := Options{}
	opts.Fonts.PreferDeclared = true
	data, _ := renderPDF(t, doc, opts)
	if !strings.Contains(string(data), "/BaseFont /Times-Roman") {
		t.Error("expected the standard face")
	}
}

func TestOptimize(t *testing.T) {
	doc := model.NewDocument("Merhaba")
	doc.Elements = []model.Block{para(text(0, 7, model.RunStyle{}))}

	data, r := renderPDF(t, doc, Options{Optimize: true})
	if n := pageCount(t, data); n != 1 {
		t.Errorf("page count = %d", n)
	}
	if len(r.Warnings()) != 0 {
		t.Errorf("warnings = %v", r.Warnings())
	}
}

func TestDeterministicOutput(t *testing.T) {
	doc := model.NewDocument("aynı")
	doc.Elements = []model.Block{para(text(0, 4, model.RunStyle{}))}

	a, _ := renderPDF(t, doc, Options{})
	b, _ := renderPDF(t, doc, Options{})
	if !bytes.Equal(a, b) {
		t.Error("rendering the same document twice gave different files")
	}
}

func TestRendererReuse(t *testing.T) {
	doc := model.NewDocument("a")
	doc.Elements = []model.Block{para(text(0, 1, model.RunStyle{})), &model.PageBreak{}}

	r := New(Options{})
	var first, second bytes.Buffer
	if err := render.Dispatch(doc, r, &first); err != nil {
		t.Fatal(err)
	}
	if err := render.Dispatch(doc, r, &second); err != nil {
		t.Fatal(err)
	}
	if !bytes.Equal(first.Bytes(), second.Bytes()) {
		t.Error("second document differs from the first")
	}
	if len(r.pages) != 2 {
		t.Errorf("pages = %d, want 2", len(r.pages))
	}
}

func TestTextString(t *testing.T) {
	if got := textString("Dilekçe").(core.HexString); len(got) != 2+7*2 || got[0] != 0xFE {
		t.Errorf("textString() = %v", got)
	}
}
