package config

import (
	_ "embed"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/pelletier/go-toml/v2"
)

//go:embed sample_config.toml
var sampleConfig string

// Paths contains state and playlist locations.
type Paths struct {
	StateDir string `toml:"state_dir"`
	Playlist string `toml:"playlist"`
}

// Player contains configuration for the external media player.
type Player struct {
	Binary    string   `toml:"binary"`
	ExtraArgs []string `toml:"extra_args"`
	// VolMax is the volume that the player reports as 100%.
	VolMax float64 `toml:"vol_max"`
	// VolFudge scales every track's starting volume. Any value other than 1
	// disables persisting volume changes.
	VolFudge   float64 `toml:"vol_fudge"`
	VolumeStep float64 `toml:"volume_step"`
}

// Input contains terminal and control input settings.
type Input struct {
	EscapeTimeoutMS int `toml:"escape_timeout_ms"`
}

// Control contains configuration for the local control socket.
type Control struct {
	Enabled bool   `toml:"enabled"`
	Socket  string `toml:"socket"`
}

// Scan contains defaults for building playlists from directories.
type Scan struct {
	Extensions []string `toml:"extensions"`
	Weight     float64  `toml:"weight"`
	Volume     float64  `toml:"volume"`
	Sniff      bool     `toml:"sniff"`
	Recurse    bool     `toml:"recurse"`
}

// History contains configuration for the play journal.
type History struct {
	Enabled bool   `toml:"enabled"`
	Path    string `toml:"path"`
}

// LastFM contains credentials for now-playing updates.
type LastFM struct {
	Enabled         bool   `toml:"enabled"`
	User            string `toml:"user"`
	SessionKey      string `toml:"session_key"`
	APIKey          string `toml:"api_key"`
	APISecret       string `toml:"api_secret"`
	BaseURL         string `toml:"base_url"`
	CooldownSeconds int    `toml:"cooldown_seconds"`
	RequestTimeout  int    `toml:"request_timeout"`
}

// Ambient describes a side process run for the lifetime of the player.
type Ambient struct {
	Command []string `toml:"command"`
}

// Watch controls reporting of external playlist edits during playback.
type Watch struct {
	Enabled bool `toml:"enabled"`
}

// Logging contains configuration for log output.
type Logging struct {
	Format string `toml:"format"`
	Level  string `toml:"level"`
	// File receives player logs; the terminal belongs to the player display.
	File string `toml:"file"`
}

// Config encapsulates all configuration values for awp.
//
// Configuration sections by subsystem:
//   - Paths: state directory and default playlist
//   - Player: external player binary and volume scaling
//   - Input: escape sequence look-ahead
//   - Control: unix socket for remote key presses
//   - Scan: directory scan defaults
//   - History: SQLite play journal
//   - LastFM: now-playing updates
//   - Ambient: background side process
//   - Watch: playlist change reporting
//   - Logging: log format, level and player log file
type Config struct {
	Paths   Paths   `toml:"paths"`
	Player  Player  `toml:"player"`
	Input   Input   `toml:"input"`
	Control Control `toml:"control"`
	Scan    Scan    `toml:"scan"`
	History History `toml:"history"`
	LastFM  LastFM  `toml:"lastfm"`
	Ambient Ambient `toml:"ambient"`
	Watch   Watch   `toml:"watch"`
	Logging Logging `toml:"logging"`
}

// DefaultConfigPath returns the absolute path to the default configuration file location.
func DefaultConfigPath() (string, error) {
	return expandPath(defaultConfigPath)
}

// Load locates, parses, and validates a configuration file. The returned config has all
// path fields expanded and normalized, and environment overrides applied.
func Load(path string) (*Config, string, bool, error) {
	cfg := Default()

	resolvedPath, exists, err := resolveConfigPath(path)
	if err != nil {
		return nil, "", false, err
	}

	if exists {
		file, err := os.Open(resolvedPath)
		if err != nil {
			return nil, "", false, fmt.Errorf("open config: %w", err)
		}
		defer file.Close()

		decoder := toml.NewDecoder(file)
		if err := decoder.Decode(&cfg); err != nil {
			return nil, "", false, fmt.Errorf("parse config: %w", err)
		}
	}

	cfg.applyEnv()

	if err := cfg.normalize(); err != nil {
		return nil, "", false, err
	}

	if err := cfg.Validate(); err != nil {
		return nil, "", false, err
	}

	return &cfg, resolvedPath, exists, nil
}

func resolveConfigPath(path string) (string, bool, error) {
	if path != "" {
		expanded, err := expandPath(path)
		if err != nil {
			return "", false, err
		}
		_, err = os.Stat(expanded)
		if err != nil {
			if errors.Is(err, fs.ErrNotExist) {
				return expanded, false, nil
			}
			return "", false, fmt.Errorf("stat config: %w", err)
		}
		return expanded, true, nil
	}

	defaultPath, err := expandPath(defaultConfigPath)
	if err != nil {
		return "", false, err
	}

	projectPath, err := filepath.Abs("awp.toml")
	if err != nil {
		return "", false, err
	}

	if info, err := os.Stat(defaultPath); err == nil && !info.IsDir() {
		return defaultPath, true, nil
	}
	if info, err := os.Stat(projectPath); err == nil && !info.IsDir() {
		return projectPath, true, nil
	}

	return defaultPath, false, nil
}

// EnsureDirectories creates the state directory and the parents of every
// file awp writes.
func (c *Config) EnsureDirectories() error {
	dirs := []string{c.Paths.StateDir, filepath.Dir(c.Control.Socket), filepath.Dir(c.Logging.File)}
	if c.History.Enabled {
		dirs = append(dirs, filepath.Dir(c.History.Path))
	}
	for _, dir := range dirs {
		if strings.TrimSpace(dir) == "" {
			continue
		}
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("create directory %q: %w", dir, err)
		}
	}
	return nil
}

// EscapeTimeout returns the escape sequence look-ahead window.
func (c *Config) EscapeTimeout() time.Duration {
	return time.Duration(c.Input.EscapeTimeoutMS) * time.Millisecond
}

// LastFMCooldown returns the minimum spacing between Last.fm calls.
func (c *Config) LastFMCooldown() time.Duration {
	return time.Duration(c.LastFM.CooldownSeconds) * time.Second
}

// PersistVolume reports whether volume changes made during playback are
// written back to the playlist.
func (c *Config) PersistVolume() bool {
	return c.Player.VolFudge == 1
}

// LockPath returns the single-instance lock file guarding the control socket.
func (c *Config) LockPath() string {
	return c.Control.Socket + ".lock"
}

func expandPath(pathValue string) (string, error) {
	if pathValue == "" {
		return pathValue, nil
	}
	if strings.HasPrefix(pathValue, "~") {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", fmt.Errorf("resolve home directory: %w", err)
		}
		if pathValue == "~" {
			pathValue = home
		} else if len(pathValue) > 1 && (pathValue[1] == '/' || pathValue[1] == '\\') {
			pathValue = filepath.Join(home, pathValue[2:])
		}
	}
	cleaned := filepath.Clean(pathValue)
	absolute, err := filepath.Abs(cleaned)
	if err != nil {
		return "", fmt.Errorf("resolve absolute path for %q: %w", cleaned, err)
	}
	return absolute, nil
}

// ExpandPath exposes the repository path expansion rules for other packages.
func ExpandPath(pathValue string) (string, error) {
	return expandPath(pathValue)
}

// CreateSample writes a sample configuration file to the specified location.
func CreateSample(path string) error {
	if dir := filepath.Dir(path); dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("create config directory: %w", err)
		}
	}

	if err := os.WriteFile(path, []byte(sampleConfig), 0o644); err != nil {
		return fmt.Errorf("write sample config: %w", err)
	}
	return nil
}
