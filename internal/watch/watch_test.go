package watch_test

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/ekimekim/awp/internal/logging"
	"github.com/ekimekim/awp/internal/watch"
)

func TestReportsExternalWrite(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "songs.awp")
	if err := os.WriteFile(path, []byte("1\t1\t/a\n"), 0o644); err != nil {
		t.Fatalf("write: %v", err)
	}
	w, err := watch.New(path, logging.NewNop())
	if err != nil {
		t.Fatalf("watch.New: %v", err)
	}
	defer w.Close()

	if err := os.WriteFile(filepath.Join(dir, "other.txt"), []byte("x"), 0o644); err != nil {
		t.Fatalf("write other: %v", err)
	}
	if err := os.WriteFile(path, []byte("2\t1\t/a\n"), 0o644); err != nil {
		t.Fatalf("rewrite: %v", err)
	}

	select {
	case event := <-w.Events():
		if event.Path != path {
			t.Fatalf("unexpected event path %s", event.Path)
		}
	case <-time.After(5 * time.Second):
		t.Fatal("no event for external write")
	}
}

func TestExpectWriteSuppressesEvents(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "songs.awp")
	w, err := watch.New(path, nil)
	if err != nil {
		t.Fatalf("watch.New: %v", err)
	}
	defer w.Close()

	w.ExpectWrite()
	if err := os.WriteFile(path, []byte("1\t1\t/a\n"), 0o644); err != nil {
		t.Fatalf("write: %v", err)
	}

	select {
	case event := <-w.Events():
		t.Fatalf("unexpected event %+v", event)
	case <-time.After(300 * time.Millisecond):
	}
}

func TestCloseClosesEvents(t *testing.T) {
	w, err := watch.New(filepath.Join(t.TempDir(), "songs.awp"), nil)
	if err != nil {
		t.Fatalf("watch.New: %v", err)
	}
	if err := w.Close(); err != nil {
		t.Fatalf("Close: %v", err)
	}
	if _, ok := <-w.Events(); ok {
		t.Fatal("expected closed events channel")
	}
	_ = w.Close()
}
