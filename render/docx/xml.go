package docx

import "encoding/xml"

// XML namespaces used in DOCX files
const (
	nsW   = "http://schemas.openxmlformats.org/wordprocessingml/2006/main"
	nsR   = "http://schemas.openxmlformats.org/officeDocument/2006/relationships"
	nsWP  = "http://schemas.openxmlformats.org/drawingml/2006/wordprocessingDrawing"
	nsA   = "http://schemas.openxmlformats.org/drawingml/2006/main"
	nsPic = "http://schemas.openxmlformats.org/drawingml/2006/picture"
	nsDC  = "http://purl.org/dc/elements/1.1/"
	nsCP  = "http://schemas.openxmlformats.org/package/2006/metadata/core-properties"
)

// Relationship types
const (
	relOfficeDocument = "http://schemas.openxmlformats.org/officeDocument/2006/relationships/officeDocument"
	relCoreProperties = "http://schemas.openxmlformats.org/package/2006/relationships/metadata/core-properties"
	relStyles         = "http://schemas.openxmlformats.org/officeDocument/2006/relationships/styles"
	relHeader         = "http://schemas.openxmlformats.org/officeDocument/2006/relationships/header"
	relFooter         = "http://schemas.openxmlformats.org/officeDocument/2006/relationships/footer"
	relImage          = "http://schemas.openxmlformats.org/officeDocument/2006/relationships/image"
)

// Element names carry their prefix literally; the namespaces are declared
// on each part's root element.

// namespaces declares the prefixes used by document, header and footer parts.
type namespaces struct {
	W   string `xml:"xmlns:w,attr"`
	R   string `xml:"xmlns:r,attr"`
	WP  string `xml:"xmlns:wp,attr"`
	A   string `xml:"xmlns:a,attr"`
	Pic string `xml:"xmlns:pic,attr"`
}

func wordNamespaces() namespaces {
	return namespaces{W: nsW, R: nsR, WP: nsWP, A: nsA, Pic: nsPic}
}

// documentXML is word/document.xml
type documentXML struct {
	XMLName xml.Name `xml:"w:document"`
	namespaces
	Body bodyXML `xml:"w:body"`
}

// bodyXML holds paragraphs and tables in document order.
type bodyXML struct {
	Blocks []any
	SectPr sectPrXML `xml:"w:sectPr"`
}

// headerXML is word/header1.xml (<w:hdr>).
type headerXML struct {
	XMLName xml.Name `xml:"w:hdr"`
	namespaces
	Paragraphs []paragraphXML
}

// footerXML is word/footer1.xml (<w:ftr>).
type footerXML struct {
	XMLName xml.Name `xml:"w:ftr"`
	namespaces
	Paragraphs []paragraphXML
}

// paragraphXML represents a paragraph element (<w:p>).
type paragraphXML struct {
	XMLName xml.Name   `xml:"w:p"`
	PPr     *pPrXML    `xml:"w:pPr,omitempty"`
	Runs    []runXML
}

// pPrXML represents paragraph properties. Field order follows the schema.
type pPrXML struct {
	Shading *shadingXML `xml:"w:shd,omitempty"`
	Spacing *spacingXML `xml:"w:spacing,omitempty"`
	Indent  *indentXML  `xml:"w:ind,omitempty"`
	Jc      *valXML     `xml:"w:jc,omitempty"`
}

// valXML is any element with a single w:val attribute.
type valXML struct {
	Val string `xml:"w:val,attr"`
}

// onXML is a toggle element such as <w:b/>.
type onXML struct{}

// spacingXML represents paragraph spacing. Line is in 240ths of a line.
type spacingXML struct {
	Before   string `xml:"w:before,attr,omitempty"`
	After    string `xml:"w:after,attr"`
	Line     string `xml:"w:line,attr,omitempty"`
	LineRule string `xml:"w:lineRule,attr,omitempty"`
}

// indentXML represents paragraph indentation in twips.
type indentXML struct {
	Left      string `xml:"w:left,attr,omitempty"`
	Right     string `xml:"w:right,attr,omitempty"`
	FirstLine string `xml:"w:firstLine,attr,omitempty"`
	Hanging   string `xml:"w:hanging,attr,omitempty"`
}

// shadingXML represents background shading.
type shadingXML struct {
	Val   string `xml:"w:val,attr"`
	Color string `xml:"w:color,attr"`
	Fill  string `xml:"w:fill,attr"`
}

// runXML represents a text run (<w:r>). Content holds textXML, breakXML,
// tabXML and drawingXML values in order.
type runXML struct {
	XMLName xml.Name `xml:"w:r"`
	RPr     *rPrXML  `xml:"w:rPr,omitempty"`
	Content []any
}

// rPrXML represents run properties. Field order follows the schema.
type rPrXML struct {
	Fonts  *fontXML `xml:"w:rFonts,omitempty"`
	Bold   *onXML   `xml:"w:b,omitempty"`
	Italic *onXML   `xml:"w:i,omitempty"`
	Color  *valXML  `xml:"w:color,omitempty"`
	Size   *valXML  `xml:"w:sz,omitempty"`
	SizeCS *valXML  `xml:"w:szCs,omitempty"`
	Under  *valXML  `xml:"w:u,omitempty"`
}

// fontXML represents font settings.
type fontXML struct {
	ASCII    string `xml:"w:ascii,attr"`
	HAnsi    string `xml:"w:hAnsi,attr"`
	CS       string `xml:"w:cs,attr"`
	EastAsia string `xml:"w:eastAsia,attr"`
}

// textXML represents text content (<w:t>).
type textXML struct {
	XMLName xml.Name `xml:"w:t"`
	Space   string   `xml:"xml:space,attr,omitempty"`
	Value   string   `xml:",chardata"`
}

// breakXML represents a break (line or page).
type breakXML struct {
	XMLName xml.Name `xml:"w:br"`
	Type    string   `xml:"w:type,attr,omitempty"`
}

// tabXML represents a tab character.
type tabXML struct {
	XMLName xml.Name `xml:"w:tab"`
}

// drawingXML represents an inline picture.
type drawingXML struct {
	XMLName xml.Name  `xml:"w:drawing"`
	Inline  inlineXML `xml:"wp:inline"`
}

type inlineXML struct {
	DistT   int        `xml:"distT,attr"`
	DistB   int        `xml:"distB,attr"`
	DistL   int        `xml:"distL,attr"`
	DistR   int        `xml:"distR,attr"`
	Extent  extentXML  `xml:"wp:extent"`
	DocPr   docPrXML   `xml:"wp:docPr"`
	Graphic graphicXML `xml:"a:graphic"`
}

// extentXML represents image dimensions in EMUs.
type extentXML struct {
	CX int64 `xml:"cx,attr"`
	CY int64 `xml:"cy,attr"`
}

type docPrXML struct {
	ID   int    `xml:"id,attr"`
	Name string `xml:"name,attr"`
}

type graphicXML struct {
	Data graphicDataXML `xml:"a:graphicData"`
}

type graphicDataXML struct {
	URI string `xml:"uri,attr"`
	Pic picXML `xml:"pic:pic"`
}

type picXML struct {
	NvPicPr  nvPicPrXML  `xml:"pic:nvPicPr"`
	BlipFill blipFillXML `xml:"pic:blipFill"`
	SpPr     spPrXML     `xml:"pic:spPr"`
}

type nvPicPrXML struct {
	CNvPr    docPrXML `xml:"pic:cNvPr"`
	CNvPicPr struct{} `xml:"pic:cNvPicPr"`
}

type blipFillXML struct {
	Blip    blipXML  `xml:"a:blip"`
	Stretch struct {
		FillRect struct{} `xml:"a:fillRect"`
	} `xml:"a:stretch"`
}

// blipXML references the picture through a relationship ID.
type blipXML struct {
	Embed string `xml:"r:embed,attr"`
}

type spPrXML struct {
	Xfrm struct {
		Off struct {
			X int `xml:"x,attr"`
			Y int `xml:"y,attr"`
		} `xml:"a:off"`
		Ext extentXML `xml:"a:ext"`
	} `xml:"a:xfrm"`
	PrstGeom struct {
		Prst  string   `xml:"prst,attr"`
		AvLst struct{} `xml:"a:avLst"`
	} `xml:"a:prstGeom"`
}

// tableXML represents a table (<w:tbl>).
type tableXML struct {
	XMLName xml.Name      `xml:"w:tbl"`
	TblPr   tablePropsXML `xml:"w:tblPr"`
	Grid    tableGridXML  `xml:"w:tblGrid"`
	Rows    []tableRowXML `xml:"w:tr"`
}

// tablePropsXML represents table properties.
type tablePropsXML struct {
	Width   tableSizeXML    `xml:"w:tblW"`
	Borders tableBordersXML `xml:"w:tblBorders"`
	Layout  struct {
		Type string `xml:"w:type,attr"`
	} `xml:"w:tblLayout"`
}

// tableSizeXML represents table/cell size.
type tableSizeXML struct {
	W    int    `xml:"w:w,attr"`
	Type string `xml:"w:type,attr"` // dxa (twips), pct, auto
}

// tableBordersXML represents table borders.
type tableBordersXML struct {
	Top     borderXML `xml:"w:top"`
	Left    borderXML `xml:"w:left"`
	Bottom  borderXML `xml:"w:bottom"`
	Right   borderXML `xml:"w:right"`
	InsideH borderXML `xml:"w:insideH"`
	InsideV borderXML `xml:"w:insideV"`
}

// borderXML represents a single border. Sz is in eighths of a point.
type borderXML struct {
	Val   string `xml:"w:val,attr"`
	Sz    int    `xml:"w:sz,attr,omitempty"`
	Space string `xml:"w:space,attr"`
	Color string `xml:"w:color,attr,omitempty"`
}

// tableGridXML represents table grid definition.
type tableGridXML struct {
	Cols []gridColXML `xml:"w:gridCol"`
}

// gridColXML represents a grid column.
type gridColXML struct {
	W int `xml:"w:w,attr"` // Width in twips
}

// tableRowXML represents a table row (<w:tr>).
type tableRowXML struct {
	Properties *rowPropsXML   `xml:"w:trPr,omitempty"`
	Cells      []tableCellXML `xml:"w:tc"`
}

type rowPropsXML struct {
	Height rowHeightXML `xml:"w:trHeight"`
}

// rowHeightXML represents row height.
type rowHeightXML struct {
	Val  int    `xml:"w:val,attr"`
	Rule string `xml:"w:hRule,attr"` // exact, atLeast, auto
}

// tableCellXML represents a table cell (<w:tc>). A cell holds at least
// one paragraph.
type tableCellXML struct {
	Properties cellPropsXML `xml:"w:tcPr"`
	Paragraphs []paragraphXML
}

type cellPropsXML struct {
	Width tableSizeXML `xml:"w:tcW"`
}

// sectPrXML represents the section properties closing the body.
type sectPrXML struct {
	HeaderRef *referenceXML `xml:"w:headerReference,omitempty"`
	FooterRef *referenceXML `xml:"w:footerReference,omitempty"`
	PgSz      pageSizeXML   `xml:"w:pgSz"`
	PgMar     pageMarginXML `xml:"w:pgMar"`
}

type referenceXML struct {
	Type string `xml:"w:type,attr"`
	ID   string `xml:"r:id,attr"`
}

// pageSizeXML is in twips.
type pageSizeXML struct {
	W      int    `xml:"w:w,attr"`
	H      int    `xml:"w:h,attr"`
	Orient string `xml:"w:orient,attr,omitempty"`
}

// pageMarginXML is in twips.
type pageMarginXML struct {
	Top    int `xml:"w:top,attr"`
	Right  int `xml:"w:right,attr"`
	Bottom int `xml:"w:bottom,attr"`
	Left   int `xml:"w:left,attr"`
	Header int `xml:"w:header,attr"`
	Footer int `xml:"w:footer,attr"`
	Gutter int `xml:"w:gutter,attr"`
}

// stylesXML is word/styles.xml
type stylesXML struct {
	XMLName     xml.Name       `xml:"w:styles"`
	W           string         `xml:"xmlns:w,attr"`
	DocDefaults docDefaultsXML `xml:"w:docDefaults"`
	Styles      []styleDefXML  `xml:"w:style"`
}

// docDefaultsXML represents document default styles.
type docDefaultsXML struct {
	RPrDefault struct {
		RPr rPrXML `xml:"w:rPr"`
	} `xml:"w:rPrDefault"`
	PPrDefault struct {
		PPr pPrXML `xml:"w:pPr"`
	} `xml:"w:pPrDefault"`
}

// styleDefXML represents a style definition.
type styleDefXML struct {
	Type    string `xml:"w:type,attr"`
	Default string `xml:"w:default,attr,omitempty"`
	StyleID string `xml:"w:styleId,attr"`
	Name    valXML `xml:"w:name"`
	QFormat *onXML `xml:"w:qFormat,omitempty"`
}

// relationshipsXML represents a .rels part.
type relationshipsXML struct {
	XMLName       xml.Name          `xml:"http://schemas.openxmlformats.org/package/2006/relationships Relationships"`
	Relationships []relationshipXML `xml:"Relationship"`
}

type relationshipXML struct {
	ID     string `xml:"Id,attr"`
	Type   string `xml:"Type,attr"`
	Target string `xml:"Target,attr"`
}

// contentTypesXML is [Content_Types].xml
type contentTypesXML struct {
	XMLName   xml.Name      `xml:"http://schemas.openxmlformats.org/package/2006/content-types Types"`
	Defaults  []defaultXML  `xml:"Default"`
	Overrides []overrideXML `xml:"Override"`
}

type defaultXML struct {
	Extension   string `xml:"Extension,attr"`
	ContentType string `xml:"ContentType,attr"`
}

type overrideXML struct {
	PartName    string `xml:"PartName,attr"`
	ContentType string `xml:"ContentType,attr"`
}

// corePropertiesXML is docProps/core.xml
type corePropertiesXML struct {
	XMLName        xml.Name `xml:"cp:coreProperties"`
	CP             string   `xml:"xmlns:cp,attr"`
	DC             string   `xml:"xmlns:dc,attr"`
	Title          string   `xml:"dc:title,omitempty"`
	LastModifiedBy string   `xml:"cp:lastModifiedBy"`
}
