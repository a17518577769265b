// Package filters implements the PDF stream filters used when writing
// documents.
//
// FlateEncode compresses content, font and image streams. For image data
// it can apply the PNG Up predictor, which the reader undoes when the
// stream dictionary carries matching DecodeParms:
//
//	data, err := filters.FlateEncode(rgb, filters.Params{
//	    "Predictor": 12,
//	    "Columns":   width,
//	    "Colors":    3,
//	})
//
// FlateDecode reverses FlateEncode, predictors included. ASCIIHexEncode
// produces the body of hexadecimal strings.
package filters
