package docx

import (
	"archive/zip"
	"bytes"
	"encoding/base64"
	"encoding/xml"
	"errors"
	"image"
	"image/png"
	"io"
	"strconv"
	"strings"
	"testing"

	"golang.org/x/image/bmp"

	"github.com/tsawler/udf/model"
	"github.com/tsawler/udf/render"
)

// pkg is a rendered package opened for inspection.
type pkg struct {
	files    map[string]string
	warnings []render.Warning
}

func renderDOCX(t *testing.T, doc *model.Document, opts Options) *pkg {
	t.Helper()
	r := New(opts)
	var buf bytes.Buffer
	if err := render.Dispatch(doc, r, &buf); err != nil {
		t.Fatalf("Dispatch failed: %v", err)
	}

	zr, err := zip.NewReader(bytes.NewReader(buf.Bytes()), int64(buf.Len()))
	if err != nil {
		t.Fatalf("output is not a zip archive: %v", err)
	}
	p := &pkg{files: make(map[string]string), warnings: r.Warnings()}
	for _, f := range zr.File {
		rc, err := f.Open()
		if err != nil {
			t.Fatalf("open %s: %v", f.Name, err)
		}
		data, err := io.ReadAll(rc)
		rc.Close()
		if err != nil {
			t.Fatalf("read %s: %v", f.Name, err)
		}
		p.files[f.Name] = string(data)
	}
	return p
}

// part returns a part and checks that XML parts are well formed.
func (p *pkg) part(t *testing.T, name string) string {
	t.Helper()
	s, ok := p.files[name]
	if !ok {
		t.Fatalf("package has no %s", name)
	}
	if strings.HasSuffix(name, ".xml") || strings.HasSuffix(name, ".rels") {
		dec := xml.NewDecoder(strings.NewReader(s))
		for {
			if _, err := dec.Token(); err == io.EOF {
				break
			} else if err != nil {
				t.Fatalf("%s is not well formed: %v", name, err)
			}
		}
	}
	return s
}

func para(runs ...model.Run) *model.Paragraph {
	return &model.Paragraph{LineSpacing: 1.2, Runs: runs}
}

func text(off, n int, st model.RunStyle) *model.TextRun {
	return &model.TextRun{Span: model.Span{Offset: off, Length: n}, Style: st}
}

func payload(t *testing.T, data []byte) []byte {
	t.Helper()
	return []byte(base64.StdEncoding.EncodeToString(data))
}

func pngData(t *testing.T, w, h int) []byte {
	t.Helper()
	var buf bytes.Buffer
	if err := png.Encode(&buf, image.NewGray(image.Rect(0, 0, w, h))); err != nil {
		t.Fatal(err)
	}
	return buf.Bytes()
}

func assertContains(t *testing.T, s string, wants ...string) {
	t.Helper()
	for _, want := range wants {
		if !strings.Contains(s, want) {
			t.Errorf("missing %s in\n%s", want, s)
		}
	}
}

// ============================================================================
// Package Tests
// ============================================================================

func TestPackageParts(t *testing.T) {
	p := renderDOCX(t, model.NewDocument(""), Options{Title: "Dilekçe"})

	assertContains(t, p.part(t, "[Content_Types].xml"),
		`<Types xmlns="http://schemas.openxmlformats.org/package/2006/content-types">`,
		`PartName="/word/document.xml"`)
	assertContains(t, p.part(t, "_rels/.rels"), `Target="word/document.xml"`, `Target="docProps/core.xml"`)
	assertContains(t, p.part(t, "word/_rels/document.xml.rels"), `Target="styles.xml"`)
	assertContains(t, p.part(t, "docProps/core.xml"), "<dc:title>Dilekçe</dc:title>", "<cp:lastModifiedBy>udf</cp:lastModifiedBy>")
	assertContains(t, p.part(t, "word/styles.xml"),
		`<w:rFonts w:ascii="DejaVuSerif"`,
		`<w:sz w:val="24">`,
		`<w:color w:val="333333">`)
	assertContains(t, p.part(t, "word/document.xml"), `xmlns:w="`+nsW+`"`, "<w:body>")

	if _, ok := p.files["word/header1.xml"]; ok {
		t.Error("header part written for a document without header")
	}
}

func TestSectionProperties(t *testing.T) {
	tests := []struct {
		name   string
		orient model.Orientation
		want   string
	}{
		{"portrait", model.Portrait, `<w:pgSz w:w="11906" w:h="16838"></w:pgSz>`},
		{"landscape", model.Landscape, `<w:pgSz w:w="16838" w:h="11906" w:orient="landscape"></w:pgSz>`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			doc := model.NewDocument("")
			doc.PageFormat.Orientation = tt.orient
			doc.PageFormat.LeftMargin = 70.85
			p := renderDOCX(t, doc, Options{})
			assertContains(t, p.part(t, "word/document.xml"), tt.want,
				`<w:pgMar w:top="850" w:right="850" w:bottom="850" w:left="1417"`)
		})
	}
}

// ============================================================================
// Paragraph Tests
// ============================================================================

func TestParagraphFormatting(t *testing.T) {
	doc := model.NewDocument("Sayın Hakim\n")
	red := model.Color{R: 255}
	p := para(
		text(0, 6, model.RunStyle{Bold: true, Size: 14}),
		text(6, 6, model.RunStyle{Italic: true, Underline: true, Foreground: &red}),
	)
	p.Alignment = model.AlignJustify
	p.LeftIndent, p.RightIndent, p.FirstLineIndent = 36, 18, 10
	p.LineSpacing = 1.5
	doc.Elements = []model.Block{p}

	got := renderDOCX(t, doc, Options{}).part(t, "word/document.xml")
	assertContains(t, got,
		`<w:spacing w:after="0" w:line="360" w:lineRule="auto">`,
		`<w:ind w:left="720" w:right="360" w:firstLine="200">`,
		`<w:jc w:val="both">`,
		`<w:b></w:b>`,
		`<w:sz w:val="28">`,
		`<w:i></w:i>`,
		`<w:u w:val="single">`,
		`<w:color w:val="FF0000">`,
		`<w:t xml:space="preserve">Sayın </w:t>`,
		`<w:t xml:space="preserve">Hakim</w:t>`)

	if strings.Contains(got, "<w:br>") {
		t.Error("the newline ending the paragraph should not become a break")
	}
}

func TestParagraphDefaults(t *testing.T) {
	tests := []struct {
		name  string
		setup func(p *model.Paragraph)
		want  string
		not   string
	}{
		{"line spacing below minimum", func(p *model.Paragraph) { p.LineSpacing = 0.5 }, `w:line="288"`, ""},
		{"hanging indent", func(p *model.Paragraph) { p.FirstLineIndent = -12 }, `w:hanging="240"`, "w:firstLine"},
		{"left alignment", func(p *model.Paragraph) {}, "", "<w:jc"},
		{"center", func(p *model.Paragraph) { p.Alignment = model.AlignCenter }, `<w:jc w:val="center">`, ""},
		{"right", func(p *model.Paragraph) { p.Alignment = model.AlignRight }, `<w:jc w:val="right">`, ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			doc := model.NewDocument("a")
			p := para(text(0, 1, model.RunStyle{}))
			tt.setup(p)
			doc.Elements = []model.Block{p}

			got := renderDOCX(t, doc, Options{}).part(t, "word/document.xml")
			if tt.want != "" && !strings.Contains(got, tt.want) {
				t.Errorf("missing %s", tt.want)
			}
			if tt.not != "" && strings.Contains(got, tt.not) {
				t.Errorf("unexpected %s", tt.not)
			}
		})
	}
}

func TestBreaksAndTabs(t *testing.T) {
	doc := model.NewDocument("a\nb\tc\n")
	doc.Elements = []model.Block{para(text(0, 6, model.RunStyle{}))}

	got := renderDOCX(t, doc, Options{}).part(t, "word/document.xml")
	assertContains(t, got, `a</w:t><w:br></w:br><w:t xml:space="preserve">b</w:t><w:tab></w:tab>`)
	if strings.Count(got, "<w:br>") != 1 {
		t.Errorf("want one line break:\n%s", got)
	}
}

func TestRunKinds(t *testing.T) {
	doc := model.NewDocument("Hello, World!")
	doc.Styles["baslik"] = model.StyleDef{Name: "baslik", Family: "Arial", Size: 16}
	doc.Elements = []model.Block{para(
		&model.GapRun{Span: model.Span{Offset: 0, Length: 7}},
		&model.TextRun{Span: model.Span{Offset: 7, Length: 6}, StyleName: "baslik"},
		&model.SpaceRun{},
		&model.FieldRun{Name: "DAVACI", Style: model.RunStyle{Bold: true}},
	)}

	got := renderDOCX(t, doc, Options{}).part(t, "word/document.xml")
	assertContains(t, got, ">Hello, <", ">World!<", "> <", ">DAVACI<", `<w:sz w:val="32">`)
	if strings.Contains(got, "Arial") {
		t.Error("declared family used although the policy forces the canonical font")
	}

	opts := Options{}
	opts.Fonts.PreferDeclared = true
	got = renderDOCX(t, doc, opts).part(t, "word/document.xml")
	assertContains(t, got, `<w:rFonts w:ascii="Arial" w:hAnsi="Arial"`)
}

func TestPageBreak(t *testing.T) {
	doc := model.NewDocument("ab")
	doc.Elements = []model.Block{
		para(text(0, 1, model.RunStyle{})),
		&model.PageBreak{},
		para(text(1, 1, model.RunStyle{})),
	}

	got := renderDOCX(t, doc, Options{}).part(t, "word/document.xml")
	assertContains(t, got, `<w:p><w:r><w:br w:type="page"></w:br></w:r></w:p>`)
	if strings.Index(got, ">a<") > strings.Index(got, `w:type="page"`) || strings.Index(got, ">b<") < strings.Index(got, `w:type="page"`) {
		t.Error("page break out of order")
	}
}

// ============================================================================
// Header and Footer Tests
// ============================================================================

func TestHeaderFooter(t *testing.T) {
	doc := model.NewDocument("ÜstAlt")
	gray := model.Color{R: 0xCC, G: 0xCC, B: 0xCC}
	doc.Header = &model.BlockGroup{Kind: model.GroupHeader, Background: &gray, Paragraphs: []model.Paragraph{*para(text(0, 3, model.RunStyle{}))}}
	doc.Footer = &model.BlockGroup{Kind: model.GroupFooter, Paragraphs: []model.Paragraph{*para(text(3, 3, model.RunStyle{}))}}

	p := renderDOCX(t, doc, Options{})
	header := p.part(t, "word/header1.xml")
	assertContains(t, header, "<w:hdr ", `<w:shd w:val="clear" w:color="auto" w:fill="CCCCCC">`, ">Üst<")
	footer := p.part(t, "word/footer1.xml")
	assertContains(t, footer, "<w:ftr ", ">Alt<")
	if strings.Contains(footer, "<w:shd") {
		t.Error("footer without background should not be shaded")
	}

	assertContains(t, p.part(t, "word/document.xml"),
		`<w:headerReference w:type="default" r:id="`, `<w:footerReference w:type="default" r:id="`)
	assertContains(t, p.part(t, "word/_rels/document.xml.rels"), `Target="header1.xml"`, `Target="footer1.xml"`)
	assertContains(t, p.part(t, "[Content_Types].xml"), `PartName="/word/header1.xml"`, `PartName="/word/footer1.xml"`)

	body := p.part(t, "word/document.xml")
	if strings.Contains(body, "Üst") {
		t.Error("header text leaked into the body")
	}
}

func TestHeaderImage(t *testing.T) {
	doc := model.NewDocument("")
	doc.Header = &model.BlockGroup{Kind: model.GroupHeader, Paragraphs: []model.Paragraph{
		*para(&model.ImageRun{Payload: payload(t, pngData(t, 8, 8))}),
	}}

	p := renderDOCX(t, doc, Options{})
	assertContains(t, p.part(t, "word/header1.xml"), `<a:blip r:embed="rId1">`)
	assertContains(t, p.part(t, "word/_rels/header1.xml.rels"), `Target="media/image1.png"`)
	if strings.Contains(p.part(t, "word/_rels/document.xml.rels"), "media/") {
		t.Error("header image related from the main part")
	}
}

// ============================================================================
// Table Tests
// ============================================================================

func TestTable(t *testing.T) {
	doc := model.NewDocument("abc")
	cell := func(off int) model.Cell {
		return model.Cell{Paragraphs: []model.Paragraph{*para(text(off, 1, model.RunStyle{}))}}
	}
	doc.Elements = []model.Block{&model.Table{
		ColumnCount:  3,
		ColumnWidths: []float64{1, 1, 2},
		Rows: []model.Row{
			{Height: 20, Cells: []model.Cell{cell(0), cell(1), cell(2)}},
			{Cells: []model.Cell{cell(0)}},
		},
	}}

	got := renderDOCX(t, doc, Options{}).part(t, "word/document.xml")
	assertContains(t, got,
		`<w:tblW w:w="10206" w:type="dxa">`,
		`<w:tblLayout w:type="fixed">`,
		`<w:gridCol w:w="2551"></w:gridCol><w:gridCol w:w="2551"></w:gridCol><w:gridCol w:w="5103"></w:gridCol>`,
		`<w:trHeight w:val="400" w:hRule="atLeast">`)

	if n := strings.Count(got, "<w:tc>"); n != 6 {
		t.Errorf("got %d cells, want 6 (short row padded)", n)
	}
	if n := strings.Count(got, "<w:trPr>"); n != 1 {
		t.Errorf("got %d row property blocks, want 1", n)
	}
}

func TestTableBorders(t *testing.T) {
	tests := []struct {
		border       model.BorderStyle
		top, insideH string
	}{
		{model.CellBordered, `<w:top w:val="single" w:sz="4"`, `<w:insideH w:val="single" w:sz="4"`},
		{model.AllBordered, `<w:top w:val="single" w:sz="4"`, `<w:insideH w:val="single" w:sz="4"`},
		{model.OuterOnly, `<w:top w:val="single" w:sz="4"`, `<w:insideH w:val="nil"`},
	}

	for _, tt := range tests {
		t.Run(tt.border.String(), func(t *testing.T) {
			doc := model.NewDocument("")
			doc.Elements = []model.Block{&model.Table{ColumnCount: 1, Border: tt.border, Rows: []model.Row{{}}}}
			got := renderDOCX(t, doc, Options{}).part(t, "word/document.xml")
			assertContains(t, got, tt.top, tt.insideH)
		})
	}
}

// ============================================================================
// Image Tests
// ============================================================================

func TestImages(t *testing.T) {
	data := pngData(t, 96, 48)
	doc := model.NewDocument("")
	doc.Elements = []model.Block{
		para(&model.ImageRun{Payload: payload(t, data)}),
		para(&model.ImageRun{Payload: payload(t, data), Width: 36}),
		para(&model.ImageRun{Payload: []byte("bozuk veri")}),
	}

	p := renderDOCX(t, doc, Options{})
	got := p.part(t, "word/document.xml")
	assertContains(t, got,
		`<wp:extent cx="914400" cy="457200">`,
		`<wp:extent cx="457200" cy="228600">`,
		`<a:graphicData uri="`+nsPic+`">`,
		">[GÖRSEL]<")

	if p.files["word/media/image1.png"] != string(data) {
		t.Error("png should be stored unchanged")
	}
	if _, ok := p.files["word/media/image2.png"]; ok {
		t.Error("identical pictures should share one media file")
	}
	if strings.Count(p.part(t, "word/_rels/document.xml.rels"), "media/image1.png") != 1 {
		t.Error("want one relationship per picture")
	}

	if len(p.warnings) != 1 {
		t.Fatalf("got %d warnings, want 1", len(p.warnings))
	}
	var ae *model.AssetError
	if !errors.As(p.warnings[0].Err, &ae) {
		t.Errorf("warning error = %v, want *model.AssetError", p.warnings[0].Err)
	}
}

func TestImageConversion(t *testing.T) {
	var buf bytes.Buffer
	if err := bmp.Encode(&buf, image.NewGray(image.Rect(0, 0, 4, 4))); err != nil {
		t.Fatal(err)
	}
	doc := model.NewDocument("")
	doc.Elements = []model.Block{para(&model.ImageRun{Payload: payload(t, buf.Bytes())})}

	p := renderDOCX(t, doc, Options{Options: render.Options{ImagePlaceholder: "(resim)"}})
	data, ok := p.files["word/media/image1.png"]
	if !ok {
		t.Fatal("bmp not converted to png")
	}
	if _, err := png.Decode(strings.NewReader(data)); err != nil {
		t.Errorf("converted file is not a png: %v", err)
	}
}

func TestImageInTableIsBoundedByCell(t *testing.T) {
	doc := model.NewDocument("")
	doc.Elements = []model.Block{&model.Table{
		ColumnCount: 2,
		Rows: []model.Row{{Cells: []model.Cell{
			{Paragraphs: []model.Paragraph{*para(&model.ImageRun{Payload: payload(t, pngData(t, 1000, 100))})}},
		}}},
	}}

	got := renderDOCX(t, doc, Options{}).part(t, "word/document.xml")
	half := model.PointsToEMU((model.A4Width - 2*model.DefaultMargin) / 2)
	if !strings.Contains(got, `<wp:extent cx="`+strconv.FormatInt(half, 10)+`"`) {
		t.Errorf("picture not scaled to the cell width %d:\n%s", half, got)
	}
}
