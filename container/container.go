// Package container loads the XML payload of a UDF document.
//
// A UDF file is either a zip archive holding a content.xml entry or the
// bare XML itself. The loader returns the XML bytes in both cases.
package container

import (
	"archive/zip"
	"bytes"
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/tsawler/udf/format"
	"github.com/tsawler/udf/model"
)

// ContentEntry is the archive entry holding the document XML.
const ContentEntry = "content.xml"

// Loader extracts the document XML from raw input.
type Loader struct {
	// MaxSize caps the input and the extracted entry (default: 100 MB).
	MaxSize int64

	// Logger for debug messages.
	Logger *slog.Logger
}

func (l *Loader) defaults() {
	if l.MaxSize <= 0 {
		l.MaxSize = 100 * 1024 * 1024
	}
	if l.Logger == nil {
		l.Logger = slog.Default()
	}
}

// Load returns the XML payload of data.
func Load(data []byte) ([]byte, error) {
	var l Loader
	return l.Load(data)
}

// LoadFile reads path and returns its XML payload.
func LoadFile(path string) ([]byte, error) {
	var l Loader
	return l.LoadFile(path)
}

// Load returns the XML payload of data.
func (l Loader) Load(data []byte) ([]byte, error) {
	return l.LoadReaderAt(bytes.NewReader(data), int64(len(data)))
}

// LoadFile reads path and returns its XML payload.
func (l Loader) LoadFile(path string) ([]byte, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("opening %s: %w", path, err)
	}
	defer f.Close()

	info, err := f.Stat()
	if err != nil {
		return nil, fmt.Errorf("stat %s: %w", path, err)
	}
	return l.LoadReaderAt(f, info.Size())
}

// LoadReaderAt returns the XML payload of the size bytes readable from r.
func (l Loader) LoadReaderAt(r io.ReaderAt, size int64) ([]byte, error) {
	l.defaults()

	if size > l.MaxSize {
		return nil, &model.ContainerError{Message: fmt.Sprintf("input of %d bytes exceeds limit of %d", size, l.MaxSize)}
	}

	kind, err := format.DetectFromReader(r)
	if err != nil {
		return nil, &model.ContainerError{Message: "reading input", Cause: err}
	}

	if kind != format.InputZip {
		l.Logger.Debug("container: treating input as bare xml", "kind", kind.String(), "size", size)
		return io.ReadAll(io.NewSectionReader(r, 0, size))
	}

	return l.readEntry(r, size)
}

func (l Loader) readEntry(r io.ReaderAt, size int64) ([]byte, error) {
	zr, err := zip.NewReader(r, size)
	if err != nil {
		return nil, &model.ContainerError{Message: "unreadable archive", Cause: err}
	}

	var entry *zip.File
	for _, f := range zr.File {
		if f.Name == ContentEntry {
			entry = f
			break
		}
	}
	if entry == nil {
		return nil, &model.ContainerError{Message: "missing required file: " + ContentEntry}
	}

	rc, err := entry.Open()
	if err != nil {
		return nil, &model.ContainerError{Message: "opening " + ContentEntry, Cause: err}
	}
	defer rc.Close()

	data, err := io.ReadAll(io.LimitReader(rc, l.MaxSize+1))
	if err != nil {
		return nil, &model.ContainerError{Message: "reading " + ContentEntry, Cause: err}
	}
	if int64(len(data)) > l.MaxSize {
		return nil, &model.ContainerError{Message: ContentEntry + " exceeds size limit"}
	}

	l.Logger.Debug("container: extracted entry", "entry", ContentEntry, "bytes", len(data), "archive_entries", len(zr.File))
	return data, nil
}
