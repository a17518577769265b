//go:build !ocr

// Package ocr reads text out of images embedded in UDF documents.
//
// This is the stub implementation used when the "ocr" build tag is not set.
// New returns ErrOCRNotEnabled. To enable OCR, rebuild with:
//
//	go build -tags ocr
package ocr

// Enabled reports whether OCR support was compiled in.
const Enabled = false

// Client is a stub OCR client that returns errors for all operations.
type Client struct{}

// New returns ErrOCRNotEnabled.
func New(lang string) (*Client, error) {
	return nil, ErrOCRNotEnabled
}

// Close is a no-op for the stub client.
// It is safe to call on a nil client.
func (c *Client) Close() error {
	return nil
}

// RecognizeImage returns ErrOCRNotEnabled.
func (c *Client) RecognizeImage(imageData []byte) (string, error) {
	return "", ErrOCRNotEnabled
}
