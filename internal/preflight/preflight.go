package preflight

import (
	"path/filepath"

	"github.com/ekimekim/awp/internal/config"
)

// Result reports the outcome of a single preflight check.
type Result struct {
	Name   string
	Passed bool
	Detail string
}

// RunAll executes all applicable preflight checks for the given config.
func RunAll(cfg *config.Config) []Result {
	if cfg == nil {
		return nil
	}

	results := []Result{CheckDirectoryAccess("State directory", cfg.Paths.StateDir)}

	if cfg.Paths.Playlist != "" {
		results = append(results, CheckPlaylist("Playlist", cfg.Paths.Playlist))
		// Saving replaces the file with a sibling, so the directory must be writable.
		results = append(results, CheckDirectoryAccess("Playlist directory", filepath.Dir(cfg.Paths.Playlist)))
	}

	if cfg.LastFM.Enabled {
		results = append(results, CheckLastFM(cfg.LastFM))
	}

	return results
}
