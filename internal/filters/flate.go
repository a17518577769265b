package filters

import (
	"bytes"
	"compress/zlib"
	"fmt"
	"io"
)

// Params holds the DecodeParms of a stream: Predictor, Columns, Colors
// and BitsPerComponent.
type Params map[string]interface{}

// PNG predictor numbers as written to DecodeParms.
const (
	PredictorNone = 1
	PredictorUp   = 12
)

// FlateEncode compresses data with zlib. When params asks for a PNG
// predictor every row is prefixed with the Up filter byte first.
func FlateEncode(data []byte, params Params) ([]byte, error) {
	if predictor := getIntParam(params, "Predictor", PredictorNone); predictor >= 10 {
		predicted, err := encodePNGUp(data, params)
		if err != nil {
			return nil, fmt.Errorf("predictor failed: %w", err)
		}
		data = predicted
	}

	var buf bytes.Buffer
	w, err := zlib.NewWriterLevel(&buf, zlib.BestCompression)
	if err != nil {
		return nil, fmt.Errorf("failed to create zlib writer: %w", err)
	}
	if _, err := w.Write(data); err != nil {
		return nil, fmt.Errorf("failed to compress: %w", err)
	}
	if err := w.Close(); err != nil {
		return nil, fmt.Errorf("failed to compress: %w", err)
	}
	return buf.Bytes(), nil
}

// FlateDecode decompresses zlib data and undoes a PNG predictor when
// params names one.
func FlateDecode(data []byte, params Params) ([]byte, error) {
	reader, err := zlib.NewReader(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("zlib decompression failed: %w", err)
	}
	defer reader.Close()

	var buf bytes.Buffer
	if _, err := io.Copy(&buf, reader); err != nil {
		return nil, fmt.Errorf("zlib decompression failed: %w", err)
	}

	predictor := getIntParam(params, "Predictor", PredictorNone)
	switch {
	case predictor == PredictorNone:
		return buf.Bytes(), nil
	case predictor >= 10 && predictor <= 15:
		out, err := decodePNG(buf.Bytes(), params)
		if err != nil {
			return nil, fmt.Errorf("predictor failed: %w", err)
		}
		return out, nil
	default:
		return nil, fmt.Errorf("unsupported predictor: %d", predictor)
	}
}

func rowLength(params Params) (int, error) {
	columns := getIntParam(params, "Columns", 1)
	colors := getIntParam(params, "Colors", 1)
	if bpc := getIntParam(params, "BitsPerComponent", 8); bpc != 8 {
		return 0, fmt.Errorf("PNG predictor only supports 8 bits per component, got %d", bpc)
	}
	if columns <= 0 || colors <= 0 {
		return 0, fmt.Errorf("invalid row geometry: %d columns, %d colors", columns, colors)
	}
	return columns * colors, nil
}

// encodePNGUp writes each row as the difference to the row above.
func encodePNGUp(data []byte, params Params) ([]byte, error) {
	n, err := rowLength(params)
	if err != nil {
		return nil, err
	}
	if len(data)%n != 0 {
		return nil, fmt.Errorf("data size %d is not a multiple of row size %d", len(data), n)
	}

	rows := len(data) / n
	out := make([]byte, 0, rows*(n+1))
	for row := 0; row < rows; row++ {
		cur := data[row*n : (row+1)*n]
		out = append(out, 2)
		for i, b := range cur {
			if row > 0 {
				b -= data[(row-1)*n+i]
			}
			out = append(out, b)
		}
	}
	return out, nil
}

// decodePNG undoes the per-row PNG filters None, Sub, Up, Average and Paeth.
func decodePNG(data []byte, params Params) ([]byte, error) {
	n, err := rowLength(params)
	if err != nil {
		return nil, err
	}
	bpp := getIntParam(params, "Colors", 1)
	if len(data)%(n+1) != 0 {
		return nil, fmt.Errorf("data size %d is not a multiple of row size %d", len(data), n+1)
	}

	rows := len(data) / (n + 1)
	out := make([]byte, rows*n)
	for row := 0; row < rows; row++ {
		filter := data[row*(n+1)]
		src := data[row*(n+1)+1 : (row+1)*(n+1)]
		dst := out[row*n : (row+1)*n]
		var prev []byte
		if row > 0 {
			prev = out[(row-1)*n : row*n]
		}

		for i := range src {
			var left, up, upLeft byte
			if i >= bpp {
				left = dst[i-bpp]
			}
			if prev != nil {
				up = prev[i]
				if i >= bpp {
					upLeft = prev[i-bpp]
				}
			}

			var predicted byte
			switch filter {
			case 0:
			case 1:
				predicted = left
			case 2:
				predicted = up
			case 3:
				predicted = byte((int(left) + int(up)) / 2)
			case 4:
				predicted = paeth(left, up, upLeft)
			default:
				return nil, fmt.Errorf("row %d: unknown PNG filter %d", row, filter)
			}
			dst[i] = src[i] + predicted
		}
	}
	return out, nil
}

// paeth picks the neighbour closest to left + up - upLeft.
func paeth(a, b, c byte) byte {
	p := int(a) + int(b) - int(c)
	pa, pb, pc := abs(p-int(a)), abs(p-int(b)), abs(p-int(c))
	if pa <= pb && pa <= pc {
		return a
	} else if pb <= pc {
		return b
	}
	return c
}

func getIntParam(params Params, key string, defaultValue int) int {
	if params == nil {
		return defaultValue
	}
	switch v := params[key].(type) {
	case int:
		return v
	case int64:
		return int(v)
	case int32:
		return int(v)
	case float64:
		return int(v)
	default:
		return defaultValue
	}
}

func abs(x int) int {
	if x < 0 {
		return -x
	}
	return x
}
