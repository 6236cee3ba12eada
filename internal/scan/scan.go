// Package scan builds playlists from directories of audio files.
//
// Files are recognized by extension first. With sniffing enabled, files whose
// extension is not listed are identified by content and kept when they carry
// an audio/* MIME type. Files that differ only by extension ("song.flac",
// "song.mp3") are treated as one track; the extension listed earliest wins.
package scan

import (
	"context"
	"fmt"
	"io/fs"
	"log/slog"
	"path/filepath"
	"slices"
	"strings"

	"github.com/gabriel-vasile/mimetype"

	"github.com/ekimekim/awp/internal/config"
	"github.com/ekimekim/awp/internal/logging"
	"github.com/ekimekim/awp/internal/playlist"
)

// Options controls a directory scan.
type Options struct {
	// Extensions are lowercase without the leading dot, in priority order.
	Extensions []string
	Weight     float64
	Volume     float64
	Sniff      bool
	Recurse    bool
	Logger     *slog.Logger
}

// OptionsFromConfig returns scan options matching the [scan] config section.
func OptionsFromConfig(cfg *config.Config) Options {
	return Options{
		Extensions: append([]string(nil), cfg.Scan.Extensions...),
		Weight:     cfg.Scan.Weight,
		Volume:     cfg.Scan.Volume,
		Sniff:      cfg.Scan.Sniff,
		Recurse:    cfg.Scan.Recurse,
	}
}

// Directory walks root and returns a playlist of every audio file found,
// using absolute paths. Unreadable subdirectories are logged and skipped.
func Directory(ctx context.Context, root string, opts Options) (*playlist.Store, error) {
	logger := opts.Logger
	if logger == nil {
		logger = logging.NewNop()
	}
	abs, err := filepath.Abs(root)
	if err != nil {
		return nil, fmt.Errorf("resolve scan root: %w", err)
	}

	store := playlist.New(playlist.WithLogger(logger))
	seen := make(map[string]string)

	err = filepath.WalkDir(abs, func(path string, d fs.DirEntry, walkErr error) error {
		if err := ctx.Err(); err != nil {
			return err
		}
		if walkErr != nil {
			if path == abs {
				return walkErr
			}
			logger.Warn("scan skipped path", logging.String("path", path), logging.Error(walkErr))
			if d != nil && d.IsDir() {
				return fs.SkipDir
			}
			return nil
		}
		if d.IsDir() {
			if path != abs && !opts.Recurse {
				return fs.SkipDir
			}
			return nil
		}
		if !d.Type().IsRegular() {
			return nil
		}

		ext := extension(path)
		known := slices.Contains(opts.Extensions, ext)
		if !known {
			if !opts.Sniff || !IsAudio(path) {
				return nil
			}
		}

		name := strings.TrimSuffix(path, filepath.Ext(path))
		if other, ok := seen[name]; ok {
			if !known {
				return nil
			}
			otherIdx := slices.Index(opts.Extensions, extension(other))
			if otherIdx >= 0 && otherIdx <= slices.Index(opts.Extensions, ext) {
				return nil
			}
			store.Remove(other)
		}
		seen[name] = path
		store.Add(path, opts.Weight, opts.Volume, false)
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("scan %s: %w", abs, err)
	}
	return store, nil
}

// IsAudio reports whether the file's content identifies it as audio.
func IsAudio(path string) bool {
	mtype, err := mimetype.DetectFile(path)
	if err != nil {
		return false
	}
	for m := mtype; m != nil; m = m.Parent() {
		if strings.HasPrefix(m.String(), "audio/") {
			return true
		}
	}
	return false
}

func extension(path string) string {
	return strings.TrimPrefix(strings.ToLower(filepath.Ext(path)), ".")
}
