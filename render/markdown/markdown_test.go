package markdown

import (
	"bytes"
	"encoding/base64"
	"errors"
	"image"
	"image/png"
	"strings"
	"testing"

	"github.com/tsawler/udf/model"
	"github.com/tsawler/udf/render"
)

func renderDoc(t *testing.T, doc *model.Document, opts Options) (string, []render.Warning) {
	t.Helper()
	r := New(opts)
	var buf bytes.Buffer
	if err := render.Dispatch(doc, r, &buf); err != nil {
		t.Fatalf("Dispatch failed: %v", err)
	}
	return buf.String(), r.Warnings()
}

func para(runs ...model.Run) *model.Paragraph {
	return &model.Paragraph{LineSpacing: 1.2, Runs: runs}
}

func text(off, n int, st model.RunStyle) *model.TextRun {
	return &model.TextRun{Span: model.Span{Offset: off, Length: n}, Style: st}
}

func TestEmphasize(t *testing.T) {
	tests := []struct {
		in           string
		bold, italic bool
		want         string
	}{
		{"x", true, true, "***x***"},
		{"x", true, false, "**x**"},
		{"x", false, true, "*x*"},
		{"x", false, false, "x"},
		{" World ", true, false, " **World** "},
		{"Son\n", false, true, "*Son*\n"},
		{"   ", true, true, "   "},
	}

	for _, tt := range tests {
		if got := emphasize(tt.in, tt.bold, tt.italic); got != tt.want {
			t.Errorf("emphasize(%q, %v, %v) = %q, want %q", tt.in, tt.bold, tt.italic, got, tt.want)
		}
	}
}

func TestParagraphs(t *testing.T) {
	doc := model.NewDocument("Hello, World!\nİkinci satır")
	center := para(text(14, 12, model.RunStyle{Italic: true}))
	center.Alignment = model.AlignCenter
	doc.Elements = []model.Block{
		para(&model.GapRun{Span: model.Span{Offset: 0, Length: 7}}, text(7, 7, model.RunStyle{Bold: true})),
		center,
		para(&model.SpaceRun{}),
		para(&model.FieldRun{Name: "TARIH", Style: model.RunStyle{Bold: true, Italic: true}}),
	}

	got, _ := renderDoc(t, doc, Options{})
	want := "Hello, **World!**\n\n" +
		"<div align='center'>*İkinci satır*</div>\n\n" +
		"***TARIH***\n\n"
	if got != want {
		t.Errorf("output = %q, want %q", got, want)
	}
}

func TestNamedStyleEmphasis(t *testing.T) {
	doc := model.NewDocument("Başlık")
	doc.Styles["baslik"] = model.StyleDef{Name: "baslik", Bold: true, Size: 14}
	doc.Elements = []model.Block{
		para(&model.TextRun{Span: model.Span{Length: 6}, StyleName: "baslik"}),
	}

	got, _ := renderDoc(t, doc, Options{})
	if got != "**Başlık**\n\n" {
		t.Errorf("output = %q", got)
	}
}

func TestTable(t *testing.T) {
	doc := model.NewDocument("a|bcd")
	doc.Elements = []model.Block{&model.Table{
		ColumnCount: 3,
		Rows: []model.Row{
			{Cells: []model.Cell{
				{Paragraphs: []model.Paragraph{*para(text(0, 3, model.RunStyle{}))}},
				{Paragraphs: []model.Paragraph{*para(text(3, 1, model.RunStyle{Bold: true})), *para(text(4, 1, model.RunStyle{}))}},
			}},
		},
	}}

	got, _ := renderDoc(t, doc, Options{})
	want := "| Column | Column | Column |\n" +
		"| --- | --- | --- |\n" +
		"| a\\|b | **c** d |  |\n\n"
	if got != want {
		t.Errorf("output = %q, want %q", got, want)
	}
}

func TestTableExtraCells(t *testing.T) {
	doc := model.NewDocument("xy")
	cell := func(off int) model.Cell {
		return model.Cell{Paragraphs: []model.Paragraph{*para(text(off, 1, model.RunStyle{}))}}
	}
	doc.Elements = []model.Block{&model.Table{
		ColumnCount: 1,
		Rows:        []model.Row{{Cells: []model.Cell{cell(0), cell(1)}}},
	}}

	got, _ := renderDoc(t, doc, Options{})
	if want := "| Column |\n| --- |\n| x |\n\n"; got != want {
		t.Errorf("output = %q, want %q", got, want)
	}
}

func TestHeaderFooterAndPageBreak(t *testing.T) {
	doc := model.NewDocument("ÜstAltGövde")
	doc.Header = &model.BlockGroup{Kind: model.GroupHeader, Paragraphs: []model.Paragraph{*para(text(0, 3, model.RunStyle{}))}}
	doc.Footer = &model.BlockGroup{Kind: model.GroupFooter, Paragraphs: []model.Paragraph{*para(text(3, 3, model.RunStyle{}))}}
	doc.Elements = []model.Block{
		para(text(6, 5, model.RunStyle{})),
		&model.PageBreak{},
		para(text(6, 5, model.RunStyle{})),
	}

	got, _ := renderDoc(t, doc, Options{})
	want := "Üst\n\nGövde\n\n---\n\nGövde\n\nAlt\n\n"
	if got != want {
		t.Errorf("output = %q, want %q", got, want)
	}
}

type fakeOCR struct {
	text string
	err  error
}

func (f fakeOCR) RecognizeImage([]byte) (string, error) { return f.text, f.err }

func pngPayload(t *testing.T) []byte {
	t.Helper()
	var buf bytes.Buffer
	if err := png.Encode(&buf, image.NewGray(image.Rect(0, 0, 2, 2))); err != nil {
		t.Fatal(err)
	}
	return []byte(base64.StdEncoding.EncodeToString(buf.Bytes()))
}

func TestImages(t *testing.T) {
	doc := model.NewDocument("")
	doc.Elements = []model.Block{
		para(&model.ImageRun{Payload: pngPayload(t)}),
		para(&model.ImageRun{Payload: []byte("bozuk veri")}),
	}

	got, warnings := renderDoc(t, doc, Options{})
	if got != "[Image]\n\n[Image]\n\n" {
		t.Errorf("output = %q", got)
	}
	if len(warnings) != 1 {
		t.Fatalf("got %d warnings, want 1", len(warnings))
	}
	var ae *model.AssetError
	if !errors.As(warnings[0].Err, &ae) {
		t.Errorf("warning error = %v, want *model.AssetError", warnings[0].Err)
	}
}

func TestImageOCR(t *testing.T) {
	doc := model.NewDocument("")
	doc.Elements = []model.Block{para(&model.ImageRun{Payload: pngPayload(t)})}

	got, _ := renderDoc(t, doc, Options{OCR: fakeOCR{text: "T.C.\n  MAHKEMESİ "}})
	if got != "[Image: T.C. MAHKEMESİ]\n\n" {
		t.Errorf("output = %q", got)
	}

	got, _ = renderDoc(t, doc, Options{OCR: fakeOCR{err: errors.New("no tesseract")}})
	if got != "[Image]\n\n" {
		t.Errorf("output on ocr failure = %q", got)
	}

	got, _ = renderDoc(t, doc, Options{Options: render.Options{ImagePlaceholder: "(resim)"}, OCR: fakeOCR{text: "yazı"}})
	if !strings.HasPrefix(got, "(resim) yazı") {
		t.Errorf("output with custom placeholder = %q", got)
	}
}

func TestNFCOutput(t *testing.T) {
	// "ş" as s + combining cedilla
	doc := model.NewDocument("s\u0327")
	doc.Elements = []model.Block{para(text(0, 2, model.RunStyle{}))}

	got, _ := renderDoc(t, doc, Options{})
	if got != "\u015f\n\n" {
		t.Errorf("output = %q, want NFC form", got)
	}
}
