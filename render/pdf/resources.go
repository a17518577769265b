package pdf

import (
	"bytes"
	"fmt"
	"image"
	"image/color"

	"github.com/tsawler/udf/core"
	"github.com/tsawler/udf/font"
	"github.com/tsawler/udf/internal/filters"
	"github.com/tsawler/udf/render"
)

type faceRes struct {
	name string
	face font.Face
}

type imageRes struct {
	name   string
	stream *core.Stream
}

type faceKey struct {
	family *font.Family
	style  font.Style
}

// resources holds the fonts and images of one document. All pages share
// a single resource dictionary.
type resources struct {
	faces      map[faceKey]*faceRes
	faceOrder  []*faceRes
	images     map[string]*imageRes
	imageOrder []*imageRes
}

func newResources() *resources {
	return &resources{
		faces:  make(map[faceKey]*faceRes),
		images: make(map[string]*imageRes),
	}
}

// face returns the face for a family and style, creating it on first use.
// A nil family selects the Standard faces.
func (res *resources) face(fam *font.Family, style font.Style) *faceRes {
	key := faceKey{fam, style}
	if f, ok := res.faces[key]; ok {
		return f
	}
	f := &faceRes{
		name: fmt.Sprintf("F%d", len(res.faceOrder)+1),
		face: fam.Face(style),
	}
	res.faces[key] = f
	res.faceOrder = append(res.faceOrder, f)
	return f
}

// image returns the XObject for img. Identical pictures share one object.
func (res *resources) image(img *render.Image) (*imageRes, error) {
	key := string(img.Data)
	if r, ok := res.images[key]; ok {
		return r, nil
	}
	stream, err := imageXObject(img)
	if err != nil {
		return nil, err
	}
	r := &imageRes{name: fmt.Sprintf("Im%d", len(res.imageOrder)+1), stream: stream}
	res.images[key] = r
	res.imageOrder = append(res.imageOrder, r)
	return r, nil
}

// imageXObject passes JPEG data through and stores everything else as
// Flate-compressed RGB samples.
func imageXObject(img *render.Image) (*core.Stream, error) {
	dict := core.Dict{
		"Type":             core.Name("XObject"),
		"Subtype":          core.Name("Image"),
		"Width":            core.Int(img.Width),
		"Height":           core.Int(img.Height),
		"BitsPerComponent": core.Int(8),
	}

	if img.Format == "jpeg" {
		if cs, ok := jpegColorSpace(img.Data); ok {
			dict["ColorSpace"] = core.Name(cs)
			dict["Filter"] = core.Name("DCTDecode")
			return core.NewStream(dict, img.Data), nil
		}
	}

	rgb, err := img.RGB()
	if err != nil {
		return nil, err
	}
	dict["ColorSpace"] = core.Name("DeviceRGB")
	return core.NewFlateStream(dict, rgb, filters.Params{
		"Predictor":        filters.PredictorUp,
		"Columns":          img.Width,
		"Colors":           3,
		"BitsPerComponent": 8,
	})
}

func jpegColorSpace(data []byte) (string, bool) {
	cfg, _, err := image.DecodeConfig(bytes.NewReader(data))
	if err != nil {
		return "", false
	}
	switch cfg.ColorModel {
	case color.GrayModel:
		return "DeviceGray", true
	case color.YCbCrModel:
		return "DeviceRGB", true
	default:
		return "", false
	}
}

// write embeds every font and image and returns the resource dictionary.
func (res *resources) write(w *core.Writer) (core.Dict, error) {
	fonts := core.Dict{}
	for _, f := range res.faceOrder {
		ref, err := f.face.Embed(w)
		if err != nil {
			return nil, fmt.Errorf("font %s: %w", f.face.BaseFont(), err)
		}
		fonts[f.name] = ref
	}

	dict := core.Dict{
		"ProcSet": core.Array{core.Name("PDF"), core.Name("Text"), core.Name("ImageB"), core.Name("ImageC")},
	}
	if len(fonts) > 0 {
		dict["Font"] = fonts
	}
	if len(res.imageOrder) > 0 {
		xobjects := core.Dict{}
		for _, img := range res.imageOrder {
			xobjects[img.name] = w.Add(img.stream)
		}
		dict["XObject"] = xobjects
	}
	return dict, nil
}
