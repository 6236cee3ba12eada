package fileutil

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"testing"
)

func TestTempPath(t *testing.T) {
	got := TempPath("/music/list.txt")
	if got != "/music/.list.txt~" {
		t.Fatalf("TempPath = %q", got)
	}
}

func TestWriteFileAtomicReplacesContent(t *testing.T) {
	dir := t.TempDir()
	target := filepath.Join(dir, "playlist")
	if err := os.WriteFile(target, []byte("old\n"), 0o644); err != nil {
		t.Fatal(err)
	}

	err := WriteFileAtomic(target, 0o644, func(w io.Writer) error {
		_, err := io.WriteString(w, "new\n")
		return err
	})
	if err != nil {
		t.Fatalf("WriteFileAtomic: %v", err)
	}

	got, err := os.ReadFile(target)
	if err != nil {
		t.Fatal(err)
	}
	if string(got) != "new\n" {
		t.Fatalf("content = %q, want %q", got, "new\n")
	}
	if _, err := os.Stat(TempPath(target)); !errors.Is(err, os.ErrNotExist) {
		t.Fatalf("expected temp file to be gone, stat err = %v", err)
	}
}

func TestWriteFileAtomicCrashBeforeRenameKeepsOriginal(t *testing.T) {
	dir := t.TempDir()
	target := filepath.Join(dir, "playlist")
	if err := os.WriteFile(target, []byte("original\n"), 0o644); err != nil {
		t.Fatal(err)
	}

	orig := rename
	rename = func(string, string) error { return fmt.Errorf("simulated crash") }
	t.Cleanup(func() { rename = orig })

	err := WriteFileAtomic(target, 0o644, func(w io.Writer) error {
		_, err := io.WriteString(w, "half-written")
		return err
	})
	if err == nil {
		t.Fatal("expected error from failed rename")
	}

	got, err := os.ReadFile(target)
	if err != nil {
		t.Fatal(err)
	}
	if string(got) != "original\n" {
		t.Fatalf("target modified: %q", got)
	}
}

func TestWriteFileAtomicWriterErrorRemovesTemp(t *testing.T) {
	dir := t.TempDir()
	target := filepath.Join(dir, "playlist")

	want := errors.New("boom")
	err := WriteFileAtomic(target, 0o644, func(io.Writer) error { return want })
	if !errors.Is(err, want) {
		t.Fatalf("err = %v, want %v", err, want)
	}
	if _, err := os.Stat(TempPath(target)); !errors.Is(err, os.ErrNotExist) {
		t.Fatalf("expected temp file removed, stat err = %v", err)
	}
	if _, err := os.Stat(target); !errors.Is(err, os.ErrNotExist) {
		t.Fatalf("expected target absent, stat err = %v", err)
	}
}
