package preflight

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strings"

	"golang.org/x/sys/unix"

	"github.com/ekimekim/awp/internal/config"
	"github.com/ekimekim/awp/internal/playlist"
)

// CheckDirectoryAccess verifies that the directory exists and is readable/writable.
func CheckDirectoryAccess(name, path string) Result {
	info, err := os.Stat(path)
	if err != nil {
		if os.IsNotExist(err) {
			return Result{Name: name, Detail: fmt.Sprintf("%s (error: does not exist)", path)}
		}
		return Result{Name: name, Detail: fmt.Sprintf("%s (error: stat: %v)", path, err)}
	}
	if !info.IsDir() {
		return Result{Name: name, Detail: fmt.Sprintf("%s (error: is not a directory)", path)}
	}
	if err := unix.Access(path, unix.R_OK|unix.W_OK|unix.X_OK); err != nil {
		return Result{Name: name, Detail: fmt.Sprintf("%s (error: insufficient permissions: %v)", path, err)}
	}
	return Result{Name: name, Passed: true, Detail: fmt.Sprintf("%s (read/write ok)", path)}
}

// CheckPlaylist verifies that path parses as a playlist with at least one
// entry that can be drawn.
func CheckPlaylist(name, path string) Result {
	store, err := playlist.Load(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return Result{Name: name, Detail: fmt.Sprintf("%s (error: does not exist)", path)}
		}
		return Result{Name: name, Detail: fmt.Sprintf("%s (error: %v)", path, err)}
	}
	detail := fmt.Sprintf("%s (%d entries, total weight %s)", path, store.Len(), playlist.FormatNumber(store.TotalWeight()))
	if store.TotalWeight() <= 0 {
		return Result{Name: name, Detail: detail + ": nothing can be played"}
	}
	return Result{Name: name, Passed: true, Detail: detail}
}

// CheckLastFM verifies that now-playing updates have the credentials they
// need. It does not contact the service.
func CheckLastFM(cfg config.LastFM) Result {
	var missing []string
	if cfg.APIKey == "" {
		missing = append(missing, "api_key")
	}
	if cfg.APISecret == "" {
		missing = append(missing, "api_secret")
	}
	if cfg.SessionKey == "" {
		missing = append(missing, "session_key")
	}
	if len(missing) > 0 {
		return Result{Name: "Last.fm", Detail: "missing " + strings.Join(missing, ", ")}
	}
	detail := "credentials configured"
	if cfg.User != "" {
		detail += " for " + cfg.User
	}
	return Result{Name: "Last.fm", Passed: true, Detail: detail}
}
