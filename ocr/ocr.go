//go:build ocr

// Package ocr reads text out of images embedded in UDF documents.
//
// This package wraps the Tesseract OCR engine via gosseract. It requires
// Tesseract and the Turkish language data to be installed. On Ubuntu/Debian:
//
//	apt-get install tesseract-ocr tesseract-ocr-tur
package ocr

import (
	"fmt"
	"strings"
	"sync"

	"github.com/otiai10/gosseract/v2"
)

// Enabled reports whether OCR support was compiled in.
const Enabled = true

// Client wraps Tesseract. It is safe for concurrent use; calls are
// serialized on the underlying engine.
type Client struct {
	mu     sync.Mutex
	client *gosseract.Client
}

// New creates a client recognizing lang, a "+" separated list of
// Tesseract language codes. An empty lang selects DefaultLanguage.
// The client should be closed when no longer needed.
func New(lang string) (*Client, error) {
	if lang == "" {
		lang = DefaultLanguage
	}
	client := gosseract.NewClient()
	if err := client.SetLanguage(strings.Split(lang, "+")...); err != nil {
		client.Close()
		return nil, fmt.Errorf("ocr: set language %q: %w", lang, err)
	}
	return &Client{client: client}, nil
}

// Close releases OCR resources.
func (c *Client) Close() error {
	if c == nil || c.client == nil {
		return nil
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	err := c.client.Close()
	c.client = nil
	return err
}

// RecognizeImage performs OCR on encoded image data (PNG, JPEG, TIFF...).
// The recognized text is returned with surrounding whitespace trimmed.
func (c *Client) RecognizeImage(imageData []byte) (string, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.client == nil {
		return "", ErrClosed
	}
	if err := c.client.SetImageFromBytes(imageData); err != nil {
		return "", fmt.Errorf("ocr: set image: %w", err)
	}

	text, err := c.client.Text()
	if err != nil {
		return "", fmt.Errorf("ocr: recognize: %w", err)
	}

	return strings.TrimSpace(text), nil
}
