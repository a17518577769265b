package docx

import (
	"archive/zip"
	"bytes"
	"encoding/xml"
	"fmt"
	"io"
	"path"

	"github.com/tsawler/udf/model"
	"github.com/tsawler/udf/render"
)

// Producer is written as the last modifier in the core properties.
const Producer = "udf"

// headerDistance is the distance of header and footer from the page edge
// in twips.
const headerDistance = 708

// part is a package part with its own relationships.
type part struct {
	name       string
	rels       []relationshipXML
	paragraphs []paragraphXML
}

func newPart(name string) *part {
	return &part{name: name}
}

// relate returns the ID of a relationship from the part to target,
// adding it on first use.
func (p *part) relate(typ, target string) string {
	for _, rel := range p.rels {
		if rel.Type == typ && rel.Target == target {
			return rel.ID
		}
	}
	id := fmt.Sprintf("rId%d", len(p.rels)+1)
	p.rels = append(p.rels, relationshipXML{ID: id, Type: typ, Target: target})
	return id
}

// relsName is the name of the part holding the relationships of p.
func (p *part) relsName() string {
	dir, file := path.Split(p.name)
	return dir + "_rels/" + file + ".rels"
}

// media is a picture stored under word/media.
type media struct {
	name string
	data []byte
}

// mediaStore keeps one file per distinct picture.
type mediaStore struct {
	byData map[string]*media
	files  []*media
}

func newMediaStore() *mediaStore {
	return &mediaStore{byData: make(map[string]*media)}
}

// add stores img. PNG, JPEG and GIF are kept as they are; other formats
// are converted to PNG.
func (s *mediaStore) add(img *render.Image) (*media, error) {
	if m, ok := s.byData[string(img.Data)]; ok {
		return m, nil
	}

	data, ext := img.Data, img.Format
	switch img.Format {
	case "png", "jpeg", "gif":
	default:
		var err error
		if data, err = img.PNG(); err != nil {
			return nil, err
		}
		ext = "png"
	}

	m := &media{name: fmt.Sprintf("image%d.%s", len(s.files)+1, ext), data: data}
	s.byData[string(img.Data)] = m
	s.files = append(s.files, m)
	return m, nil
}

// EndDocument assembles the package and writes it to out.
func (r *Renderer) EndDocument(out io.Writer) error {
	doc := documentXML{namespaces: wordNamespaces()}
	doc.Body.Blocks = r.body
	doc.Body.SectPr = r.section()

	r.main.relate(relStyles, "styles.xml")

	var buf bytes.Buffer
	zw := zip.NewWriter(&buf)
	pw := &packageWriter{zw: zw}

	pw.write("[Content_Types].xml", r.contentTypes())
	pw.write("_rels/.rels", relationshipsXML{Relationships: []relationshipXML{
		{ID: "rId1", Type: relOfficeDocument, Target: "word/document.xml"},
		{ID: "rId2", Type: relCoreProperties, Target: "docProps/core.xml"},
	}})
	pw.write("docProps/core.xml", corePropertiesXML{
		CP:             nsCP,
		DC:             nsDC,
		Title:          r.opts.Title,
		LastModifiedBy: Producer,
	})
	pw.write("word/styles.xml", r.styles())
	pw.write(r.main.name, doc)
	if r.header != nil {
		pw.write(r.header.name, headerXML{namespaces: wordNamespaces(), Paragraphs: r.header.paragraphs})
		pw.writeRels(r.header)
	}
	if r.footer != nil {
		pw.write(r.footer.name, footerXML{namespaces: wordNamespaces(), Paragraphs: r.footer.paragraphs})
		pw.writeRels(r.footer)
	}
	pw.writeRels(r.main)
	for _, m := range r.media.files {
		pw.raw("word/media/"+m.name, m.data)
	}

	if pw.err != nil {
		return pw.err
	}
	if err := zw.Close(); err != nil {
		return fmt.Errorf("closing package: %w", err)
	}

	r.opts.Logger.Debug("docx: document written", "blocks", len(r.body), "media", len(r.media.files), "bytes", buf.Len())
	_, err := buf.WriteTo(out)
	return err
}

// section returns the page setup. The header and footer relationships are
// added to the main part here.
func (r *Renderer) section() sectPrXML {
	pf := r.doc.PageFormat
	w, h := pf.PageSize()

	s := sectPrXML{
		PgSz: pageSizeXML{W: model.PointsToTwips(w), H: model.PointsToTwips(h)},
		PgMar: pageMarginXML{
			Top:    model.PointsToTwips(pf.TopMargin),
			Right:  model.PointsToTwips(pf.RightMargin),
			Bottom: model.PointsToTwips(pf.BottomMargin),
			Left:   model.PointsToTwips(pf.LeftMargin),
			Header: headerDistance,
			Footer: headerDistance,
		},
	}
	if pf.Orientation == model.Landscape {
		s.PgSz.Orient = "landscape"
	}
	if r.header != nil {
		s.HeaderRef = &referenceXML{Type: "default", ID: r.main.relate(relHeader, "header1.xml")}
	}
	if r.footer != nil {
		s.FooterRef = &referenceXML{Type: "default", ID: r.main.relate(relFooter, "footer1.xml")}
	}
	return s
}

func (r *Renderer) contentTypes() contentTypesXML {
	ct := contentTypesXML{
		Defaults: []defaultXML{
			{Extension: "rels", ContentType: "application/vnd.openxmlformats-package.relationships+xml"},
			{Extension: "xml", ContentType: "application/xml"},
			{Extension: "png", ContentType: "image/png"},
			{Extension: "jpeg", ContentType: "image/jpeg"},
			{Extension: "gif", ContentType: "image/gif"},
		},
		Overrides: []overrideXML{
			{PartName: "/word/document.xml", ContentType: "application/vnd.openxmlformats-officedocument.wordprocessingml.document.main+xml"},
			{PartName: "/word/styles.xml", ContentType: "application/vnd.openxmlformats-officedocument.wordprocessingml.styles+xml"},
			{PartName: "/docProps/core.xml", ContentType: "application/vnd.openxmlformats-package.core-properties+xml"},
		},
	}
	if r.header != nil {
		ct.Overrides = append(ct.Overrides, overrideXML{PartName: "/word/header1.xml", ContentType: "application/vnd.openxmlformats-officedocument.wordprocessingml.header+xml"})
	}
	if r.footer != nil {
		ct.Overrides = append(ct.Overrides, overrideXML{PartName: "/word/footer1.xml", ContentType: "application/vnd.openxmlformats-officedocument.wordprocessingml.footer+xml"})
	}
	return ct
}

// styles declares the document defaults from the default style and the
// font policy.
func (r *Renderer) styles() stylesXML {
	def := r.doc.EffectiveStyle(model.RunStyle{}, "")
	s := stylesXML{W: nsW}
	s.DocDefaults.RPrDefault.RPr = *r.runProps(def)
	s.DocDefaults.PPrDefault.PPr = pPrXML{Spacing: &spacingXML{After: "0", Line: "240", LineRule: "auto"}}
	s.Styles = []styleDefXML{{Type: "paragraph", Default: "1", StyleID: "Normal", Name: valXML{Val: "Normal"}, QFormat: &onXML{}}}
	return s
}

// packageWriter writes parts until the first error.
type packageWriter struct {
	zw  *zip.Writer
	err error
}

func (pw *packageWriter) write(name string, v any) {
	if pw.err != nil {
		return
	}
	data, err := xml.Marshal(v)
	if err != nil {
		pw.err = fmt.Errorf("encoding %s: %w", name, err)
		return
	}
	pw.raw(name, append([]byte(xml.Header), data...))
}

func (pw *packageWriter) writeRels(p *part) {
	if len(p.rels) == 0 {
		return
	}
	pw.write(p.relsName(), relationshipsXML{Relationships: p.rels})
}

func (pw *packageWriter) raw(name string, data []byte) {
	if pw.err != nil {
		return
	}
	w, err := pw.zw.CreateHeader(&zip.FileHeader{Name: name, Method: zip.Deflate})
	if err != nil {
		pw.err = fmt.Errorf("creating %s: %w", name, err)
		return
	}
	if _, err := w.Write(data); err != nil {
		pw.err = fmt.Errorf("writing %s: %w", name, err)
	}
}
