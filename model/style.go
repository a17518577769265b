package model

import "strings"

// DefaultStyleName is the style consulted when a run names none
const DefaultStyleName = "default"

// Style defaults
const (
	DefaultFontSize   = 12.0
	DefaultForeground = int32(-13421773)
	DefaultMargin     = 42.5
)

// StyleDef is a named character style from the styles section
type StyleDef struct {
	Name       string
	Family     string
	Size       float64
	Bold       bool
	Italic     bool
	Foreground Color
}

// DefaultStyle returns a style with every attribute at its default.
func DefaultStyle() StyleDef {
	return StyleDef{
		Name:       DefaultStyleName,
		Size:       DefaultFontSize,
		Foreground: ColorFromInt(DefaultForeground),
	}
}

// Orientation of the page
type Orientation int

const (
	Portrait Orientation = iota
	Landscape
)

func (o Orientation) String() string {
	if o == Landscape {
		return "landscape"
	}
	return "portrait"
}

// ParseOrientation maps the paperOrientation attribute; "2" is landscape.
func ParseOrientation(s string) Orientation {
	if strings.TrimSpace(s) == "2" {
		return Landscape
	}
	return Portrait
}

// PageFormat holds page margins in points and the orientation
type PageFormat struct {
	LeftMargin   float64
	RightMargin  float64
	TopMargin    float64
	BottomMargin float64
	Orientation  Orientation
}

// DefaultPageFormat returns portrait with default margins on every side.
func DefaultPageFormat() PageFormat {
	return PageFormat{
		LeftMargin:   DefaultMargin,
		RightMargin:  DefaultMargin,
		TopMargin:    DefaultMargin,
		BottomMargin: DefaultMargin,
	}
}

// A4 page dimensions in points, portrait.
const (
	A4Width  = 595.28
	A4Height = 841.89
)

// PageSize returns the page width and height in points for A4 paper.
func (pf PageFormat) PageSize() (w, h float64) {
	if pf.Orientation == Landscape {
		return A4Height, A4Width
	}
	return A4Width, A4Height
}
