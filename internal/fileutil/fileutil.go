// Package fileutil holds small filesystem helpers shared by the playlist and
// CLI packages.
package fileutil

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
)

// rename is swapped in tests to simulate a crash between the temp write and
// the replace.
var rename = os.Rename

// TempPath returns the sibling temp file used while atomically replacing path:
// ".<basename>~" in the same directory.
func TempPath(path string) string {
	dir, base := filepath.Split(path)
	return filepath.Join(dir, "."+base+"~")
}

// WriteFileAtomic streams write's output into TempPath(path) and renames it
// over path. Readers observe either the old or the new content, never a
// partial file. On failure the target is left untouched.
func WriteFileAtomic(path string, mode os.FileMode, write func(io.Writer) error) error {
	tmp := TempPath(path)
	out, err := os.OpenFile(tmp, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, mode)
	if err != nil {
		return fmt.Errorf("create temp file: %w", err)
	}
	if err := write(out); err != nil {
		_ = out.Close()
		_ = os.Remove(tmp)
		return err
	}
	if err := out.Close(); err != nil {
		_ = os.Remove(tmp)
		return fmt.Errorf("close temp file: %w", err)
	}
	if err := rename(tmp, path); err != nil {
		return fmt.Errorf("replace %s: %w", path, err)
	}
	return nil
}
