package render

import (
	"bytes"
	"encoding/base64"
	"errors"
	"image"
	"image/color"
	"image/draw"
	_ "image/gif"
	_ "image/jpeg"
	"image/png"
	"strings"

	_ "golang.org/x/image/bmp"
	_ "golang.org/x/image/tiff"
	_ "golang.org/x/image/webp"

	"github.com/tsawler/udf/model"
)

// Image is a decoded embedded picture payload.
type Image struct {
	// Data holds the raw image file bytes.
	Data []byte

	// Format is the name reported by the image package: png, jpeg, gif,
	// bmp, tiff or webp.
	Format string

	Width  int
	Height int
}

var errEmptyPayload = errors.New("empty payload")

// DecodeImage decodes a base64 image payload and reads its header.
// Failures are reported as *model.AssetError.
func DecodeImage(payload []byte) (*Image, error) {
	data, err := decodeBase64(payload)
	if err != nil {
		return nil, &model.AssetError{Kind: "image", Cause: err}
	}

	cfg, name, err := image.DecodeConfig(bytes.NewReader(data))
	if err != nil {
		return nil, &model.AssetError{Kind: "image", Cause: err}
	}
	if cfg.Width <= 0 || cfg.Height <= 0 {
		return nil, &model.AssetError{Kind: "image", Cause: errors.New("zero-sized image")}
	}

	return &Image{Data: data, Format: name, Width: cfg.Width, Height: cfg.Height}, nil
}

func decodeBase64(payload []byte) ([]byte, error) {
	s := strings.Map(func(r rune) rune {
		switch r {
		case ' ', '\t', '\r', '\n':
			return -1
		}
		return r
	}, string(payload))
	if s == "" {
		return nil, errEmptyPayload
	}

	data, err := base64.StdEncoding.DecodeString(s)
	if err != nil {
		if raw, rawErr := base64.RawStdEncoding.DecodeString(strings.TrimRight(s, "=")); rawErr == nil {
			return raw, nil
		}
		return nil, err
	}
	return data, nil
}

// Decode fully decodes the picture.
func (img *Image) Decode() (image.Image, error) {
	m, _, err := image.Decode(bytes.NewReader(img.Data))
	if err != nil {
		return nil, &model.AssetError{Kind: "image", Cause: err}
	}
	return m, nil
}

// PNG returns the picture re-encoded as PNG.
func (img *Image) PNG() ([]byte, error) {
	if img.Format == "png" {
		return img.Data, nil
	}
	m, err := img.Decode()
	if err != nil {
		return nil, err
	}
	var buf bytes.Buffer
	if err := png.Encode(&buf, m); err != nil {
		return nil, &model.AssetError{Kind: "image", Cause: err}
	}
	return buf.Bytes(), nil
}

// RGB returns the picture as packed 8-bit RGB samples with alpha composited
// over white.
func (img *Image) RGB() ([]byte, error) {
	m, err := img.Decode()
	if err != nil {
		return nil, err
	}

	b := m.Bounds()
	canvas := image.NewRGBA(image.Rect(0, 0, b.Dx(), b.Dy()))
	draw.Draw(canvas, canvas.Bounds(), &image.Uniform{C: color.White}, image.Point{}, draw.Src)
	draw.Draw(canvas, canvas.Bounds(), m, b.Min, draw.Over)

	out := make([]byte, 0, b.Dx()*b.Dy()*3)
	for i := 0; i < len(canvas.Pix); i += 4 {
		out = append(out, canvas.Pix[i], canvas.Pix[i+1], canvas.Pix[i+2])
	}
	return out, nil
}

// DisplaySize returns the rendered size in points. Declared dimensions win;
// otherwise pixels map to points at 96 dpi. The result is scaled down to
// fit maxWidth while keeping the aspect ratio.
func (img *Image) DisplaySize(declaredW, declaredH, maxWidth float64) (w, h float64) {
	w, h = declaredW, declaredH
	switch {
	case w > 0 && h > 0:
	case w > 0:
		h = w * float64(img.Height) / float64(img.Width)
	case h > 0:
		w = h * float64(img.Width) / float64(img.Height)
	default:
		w = float64(img.Width) * 72 / 96
		h = float64(img.Height) * 72 / 96
	}
	if maxWidth > 0 && w > maxWidth {
		h = h * maxWidth / w
		w = maxWidth
	}
	return w, h
}
