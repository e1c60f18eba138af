package convert

import (
	"archive/zip"
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"estoria/archive"
)

func TestLoadSource_File(t *testing.T) {
	data := t.TempDir()
	path := writeRecord(t, data, "Q", "12v", samplePage)

	rec, pf, err := LoadSource(context.Background(), path)
	if err != nil {
		t.Fatalf("LoadSource() error = %v", err)
	}
	if pf.Siglum != "Q" || pf.Page != "12v" || pf.Path != path {
		t.Errorf("LoadSource() page = %+v", pf)
	}
	if rec.Text() != samplePage {
		t.Errorf("Text() = %q", rec.Text())
	}
}

func TestLoadSource_UpperCaseExtension(t *testing.T) {
	data := t.TempDir()
	path := writeRecord(t, data, "Q", "3v", samplePage)
	upper := filepath.Join(filepath.Dir(path), "3v.JSON")
	if err := os.Rename(path, upper); err != nil {
		t.Fatal(err)
	}

	_, pf, err := LoadSource(context.Background(), upper)
	if err != nil {
		t.Fatalf("LoadSource() error = %v", err)
	}
	if pf.Siglum != "Q" || pf.Page != "3v" {
		t.Errorf("LoadSource() page = %+v", pf)
	}
}

func TestLoadSource_Archive(t *testing.T) {
	data := t.TempDir()
	path := writeRecord(t, data, "Z", "3r", samplePage)
	content, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}

	arc := filepath.Join(t.TempDir(), "snapshot.zip")
	f, err := os.Create(arc)
	if err != nil {
		t.Fatal(err)
	}
	w := zip.NewWriter(f)
	fw, err := w.Create("transcription/Z/3r.json")
	if err != nil {
		t.Fatal(err)
	}
	if _, err := fw.Write(content); err != nil {
		t.Fatal(err)
	}
	if err := w.Close(); err != nil {
		t.Fatal(err)
	}
	f.Close()

	src := filepath.Join(arc, "transcription", "Z", "3r.json")
	rec, pf, err := LoadSource(context.Background(), src)
	if err != nil {
		t.Fatalf("LoadSource() error = %v", err)
	}
	if pf.Siglum != "Z" || pf.Page != "3r" {
		t.Errorf("LoadSource() page = %+v", pf)
	}
	if rec.Document() != "Z" || rec.Text() != samplePage {
		t.Errorf("record = %s %q", rec.Document(), rec.Text())
	}

	if _, _, err := LoadSource(context.Background(), filepath.Join(arc, "transcription", "Z", "4r.json")); !errors.Is(err, archive.ErrNotFound) {
		t.Errorf("LoadSource() error = %v, want %v", err, archive.ErrNotFound)
	}
}

func TestLoadSource_Errors(t *testing.T) {
	dir := t.TempDir()

	if _, _, err := LoadSource(context.Background(), dir); err == nil {
		t.Error("expected error for directory")
	}
	if _, _, err := LoadSource(context.Background(), filepath.Join(dir, "missing", "1r.json")); err == nil {
		t.Error("expected error for missing file")
	}

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if _, _, err := LoadSource(ctx, dir); !errors.Is(err, context.Canceled) {
		t.Errorf("LoadSource() error = %v, want %v", err, context.Canceled)
	}
}
