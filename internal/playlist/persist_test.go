package playlist_test

import (
	"bytes"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/ekimekim/awp/internal/fileutil"
	"github.com/ekimekim/awp/internal/playlist"
)

func TestReadWriteRoundTrip(t *testing.T) {
	s := playlist.New()
	s.Add("/music/one.mp3", 16, 0.5, false)
	s.Add("/music/two\tparts.flac", 0.125, 1.75, false)
	s.Add("/music/zero.ogg", 0, 0.3, false)

	var buf bytes.Buffer
	if err := s.Write(&buf); err != nil {
		t.Fatalf("Write: %v", err)
	}

	back := playlist.New()
	if err := back.Read(&buf); err != nil {
		t.Fatalf("Read: %v", err)
	}
	if diff := playlist.Diff(s, back); len(diff) != 0 {
		t.Fatalf("round trip differs: %+v", diff)
	}
	got, want := back.Entries(), s.Entries()
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("entry %d = %+v, want %+v", i, got[i], want[i])
		}
	}
}

func TestReadLegacyLineImpliesFullVolume(t *testing.T) {
	s := playlist.New()
	if err := s.Read(strings.NewReader("16\t/music/old.mp3\n")); err != nil {
		t.Fatalf("Read: %v", err)
	}
	v, ok := s.Get("/music/old.mp3")
	if !ok {
		t.Fatal("entry missing")
	}
	if v.Weight != 16 || v.Volume != 1 {
		t.Fatalf("values = %+v, want weight 16 volume 1", v)
	}

	var buf bytes.Buffer
	if err := s.Write(&buf); err != nil {
		t.Fatalf("Write: %v", err)
	}
	if buf.String() != "16\t1\t/music/old.mp3\n" {
		t.Fatalf("canonical form = %q", buf.String())
	}
}

func TestReadSkipsBlankAndCommentLines(t *testing.T) {
	input := strings.Join([]string{
		"# header",
		"",
		"   # indented comment",
		"2\t0.5\t/a.mp3",
		"1\t0.5\t/b.mp3",
	}, "\n")
	s := playlist.New()
	if err := s.Read(strings.NewReader(input)); err != nil {
		t.Fatalf("Read: %v", err)
	}
	if s.Len() != 2 {
		t.Fatalf("Len = %d, want 2", s.Len())
	}
	if e := s.Entries(); e[0].Path != "/a.mp3" || e[1].Path != "/b.mp3" {
		t.Fatalf("unexpected order: %+v", e)
	}
}

func TestReadRejectsMalformedLines(t *testing.T) {
	tests := []struct {
		name string
		line string
	}{
		{name: "single field", line: "/just/a/path.mp3"},
		{name: "bad weight", line: "heavy\t0.5\t/a.mp3"},
		{name: "bad volume", line: "1\tloud\t/a.mp3"},
		{name: "negative weight", line: "-1\t0.5\t/a.mp3"},
		{name: "nan weight", line: "NaN\t0.5\t/a.mp3"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := playlist.New()
			err := s.Read(strings.NewReader("1\t1\t/ok.mp3\n" + tt.line + "\n"))
			if !errors.Is(err, playlist.ErrMalformedLine) {
				t.Fatalf("err = %v, want ErrMalformedLine", err)
			}
			var lineErr *playlist.LineError
			if !errors.As(err, &lineErr) {
				t.Fatalf("expected *LineError, got %T", err)
			}
			if lineErr.Line != 2 || lineErr.Text != tt.line {
				t.Fatalf("LineError = %+v", lineErr)
			}
		})
	}
}

func TestReadAppendsAndWarnsOnDuplicate(t *testing.T) {
	s := playlist.New()
	s.Add("/a.mp3", 1, 1, false)
	if err := s.Read(strings.NewReader("3\t0.5\t/a.mp3\n4\t0.5\t/b.mp3\n")); err != nil {
		t.Fatalf("Read: %v", err)
	}
	if s.Len() != 2 {
		t.Fatalf("Len = %d, want 2", s.Len())
	}
	if v, _ := s.Get("/a.mp3"); v.Weight != 3 {
		t.Fatalf("duplicate did not overwrite: %+v", v)
	}
}

func TestLoadLeavesStoreClean(t *testing.T) {
	path := filepath.Join(t.TempDir(), "list")
	if err := os.WriteFile(path, []byte("1\t0.5\t/a.mp3\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	s, err := playlist.Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if s.Dirty() {
		t.Fatal("freshly loaded store is dirty")
	}
	if s.SourcePath() != path {
		t.Fatalf("SourcePath = %q", s.SourcePath())
	}
}

func TestWriteFileUsesSourcePathAndClearsDirty(t *testing.T) {
	path := filepath.Join(t.TempDir(), "list")
	if err := os.WriteFile(path, []byte("2\t0.5\t/x.mp3\n"), 0o644); err != nil {
		t.Fatal(err)
	}

	s, err := playlist.Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if err := s.Update("/x.mp3", playlist.Scale(2), playlist.Keep()); err != nil {
		t.Fatalf("Update: %v", err)
	}
	if !s.Dirty() {
		t.Fatal("update did not mark dirty")
	}
	if err := s.WriteFile(""); err != nil {
		t.Fatalf("WriteFile: %v", err)
	}
	if s.Dirty() {
		t.Fatal("WriteFile did not clear dirty")
	}
	if _, err := os.Stat(fileutil.TempPath(path)); !errors.Is(err, os.ErrNotExist) {
		t.Fatalf("temp file left behind: %v", err)
	}

	reloaded, err := playlist.Load(path)
	if err != nil {
		t.Fatalf("reload: %v", err)
	}
	v, _ := reloaded.Get("/x.mp3")
	if v.Weight != 4 || v.Volume != 0.5 {
		t.Fatalf("persisted values = %+v, want weight 4 volume 0.5", v)
	}
}

func TestWriteFileWithoutPath(t *testing.T) {
	s := playlist.New()
	s.Add("/a", 1, 1, false)
	if err := s.WriteFile(""); !errors.Is(err, playlist.ErrNoPath) {
		t.Fatalf("err = %v, want ErrNoPath", err)
	}
}
