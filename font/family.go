package font

import (
	"fmt"
	"os"

	"golang.org/x/image/font/sfnt"
)

// Family holds the TrueType files of one typeface. A Family is safe for
// concurrent use once its files are loaded; the faces it returns are not.
type Family struct {
	Name  string
	files [4]*parsedFile
}

type parsedFile struct {
	data []byte
	font *sfnt.Font
}

// NewFamily creates a family with no files.
func NewFamily(name string) *Family {
	return &Family{Name: name}
}

// Add registers the file for style.
func (fam *Family) Add(style Style, data []byte) error {
	if style < Regular || style > BoldItalic {
		return fmt.Errorf("font family %s: invalid style %d", fam.Name, style)
	}
	f, err := sfnt.Parse(data)
	if err != nil {
		return fmt.Errorf("font family %s: %s: %w", fam.Name, style, err)
	}
	fam.files[style] = &parsedFile{data: data, font: f}
	return nil
}

// LoadFile reads and registers the file at path for style.
func (fam *Family) LoadFile(style Style, path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("font family %s: %w", fam.Name, err)
	}
	return fam.Add(style, data)
}

// Embedded reports whether any TrueType file is registered.
func (fam *Family) Embedded() bool {
	if fam == nil {
		return false
	}
	for _, f := range fam.files {
		if f != nil {
			return true
		}
	}
	return false
}

// fallbacks lists the styles tried, in order, when a file is missing.
var fallbacks = map[Style][]Style{
	Regular:    {Regular},
	Bold:       {Bold, Regular},
	Italic:     {Italic, Regular},
	BoldItalic: {BoldItalic, Bold, Italic, Regular},
}

// Face returns a new face for style. Missing styles fall back to the
// closest registered file and, without any file, to the Standard Times
// face.
func (fam *Family) Face(style Style) Face {
	if fam != nil {
		for _, s := range fallbacks[style] {
			pf := fam.files[s]
			if pf == nil {
				continue
			}
			if tt, err := newTrueType(pf.data, pf.font); err == nil {
				return tt
			}
		}
	}
	return NewStandard(style)
}
