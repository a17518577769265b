package parser

import (
	"log/slog"
	"strings"

	"github.com/tsawler/udf/model"
)

// parseStyles builds the style table. A missing styles section yields an
// empty map; missing or garbled attributes fall back to the defaults.
func parseStyles(root *node, logger *slog.Logger) map[string]model.StyleDef {
	styles := make(map[string]model.StyleDef)

	sec := root.child(tagStyles)
	if sec == nil {
		return styles
	}

	for _, s := range sec.children(tagStyle) {
		name := strings.TrimSpace(s.attrString("name", ""))
		if name == "" {
			logger.Debug("parser: skipping unnamed style")
			continue
		}

		def := model.DefaultStyle()
		def.Name = name
		def.Family = s.attrString("family", "")
		def.Size = s.attrFloat("size", model.DefaultFontSize)
		if def.Size <= 0 {
			def.Size = model.DefaultFontSize
		}
		def.Bold = s.attrBool("bold")
		def.Italic = s.attrBool("italic")
		if v, ok := s.attr("foreground"); ok {
			if c, ok := model.ParseColor(v); ok {
				def.Foreground = c
			}
		}

		styles[name] = def
	}

	return styles
}

// parseProperties reads the page format and the optional background image.
func parseProperties(root *node, doc *model.Document) {
	props := root.child(tagProperties)
	if props == nil {
		return
	}

	if pf := props.child(tagPageFormat); pf != nil {
		doc.PageFormat = model.PageFormat{
			LeftMargin:   pf.attrFloat("leftMargin", model.DefaultMargin),
			RightMargin:  pf.attrFloat("rightMargin", model.DefaultMargin),
			TopMargin:    pf.attrFloat("topMargin", model.DefaultMargin),
			BottomMargin: pf.attrFloat("bottomMargin", model.DefaultMargin),
			Orientation:  model.ParseOrientation(pf.attrString("paperOrientation", "1")),
		}
	}

	if bg := props.child(tagBgImage); bg != nil {
		data := strings.TrimSpace(bg.attrString("bgImageData", ""))
		if data != "" {
			doc.Background = &model.BackgroundImage{
				Data:   []byte(data),
				Source: bg.attrString("bgImageSource", ""),
			}
		}
	}
}
