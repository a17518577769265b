package container

import (
	"archive/zip"
	"bytes"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/tsawler/udf/model"
)

// createTestArchive creates a zip file holding the given entries.
func createTestArchive(t *testing.T, entries map[string]string) string {
	t.Helper()

	path := filepath.Join(t.TempDir(), "test.udf")
	f, err := os.Create(path)
	if err != nil {
		t.Fatalf("failed to create archive: %v", err)
	}

	zw := zip.NewWriter(f)
	for name, body := range entries {
		w, err := zw.Create(name)
		if err != nil {
			t.Fatalf("failed to create %s: %v", name, err)
		}
		w.Write([]byte(body))
	}

	if err := zw.Close(); err != nil {
		t.Fatalf("failed to close zip: %v", err)
	}
	if err := f.Close(); err != nil {
		t.Fatalf("failed to close file: %v", err)
	}
	return path
}

const sampleXML = `<?xml version="1.0" encoding="UTF-8"?><template><content>Hi</content></template>`

func TestLoadFileArchive(t *testing.T) {
	path := createTestArchive(t, map[string]string{
		"content.xml": sampleXML,
		"other.txt":   "ignored",
	})

	got, err := LoadFile(path)
	if err != nil {
		t.Fatalf("LoadFile failed: %v", err)
	}
	if string(got) != sampleXML {
		t.Errorf("LoadFile() = %q", got)
	}
}

func TestLoadBareXML(t *testing.T) {
	got, err := Load([]byte(sampleXML))
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if string(got) != sampleXML {
		t.Errorf("Load() = %q", got)
	}

	// Unknown input is passed through for the XML parser to reject.
	got, err = Load([]byte("not xml"))
	if err != nil || string(got) != "not xml" {
		t.Errorf("Load(text) = %q, %v", got, err)
	}
}

func TestLoadMissingContent(t *testing.T) {
	path := createTestArchive(t, map[string]string{"styles.xml": "<x/>"})

	_, err := LoadFile(path)
	var ce *model.ContainerError
	if !errors.As(err, &ce) {
		t.Fatalf("LoadFile() error = %v, want *model.ContainerError", err)
	}
}

func TestLoadCorruptArchive(t *testing.T) {
	data := append([]byte("PK\x03\x04"), bytes.Repeat([]byte{0xFF}, 64)...)

	_, err := Load(data)
	var ce *model.ContainerError
	if !errors.As(err, &ce) {
		t.Fatalf("Load() error = %v, want *model.ContainerError", err)
	}
}

func TestLoadSizeLimit(t *testing.T) {
	l := Loader{MaxSize: 10}
	_, err := l.Load([]byte(sampleXML))
	var ce *model.ContainerError
	if !errors.As(err, &ce) {
		t.Fatalf("Load() error = %v, want *model.ContainerError", err)
	}
}

func TestLoadFileMissing(t *testing.T) {
	_, err := LoadFile(filepath.Join(t.TempDir(), "nope.udf"))
	if err == nil {
		t.Fatal("expected error for missing file")
	}
	if !errors.Is(err, os.ErrNotExist) {
		t.Errorf("error should wrap os.ErrNotExist, got %v", err)
	}
}
