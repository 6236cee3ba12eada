package config_test

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/pelletier/go-toml/v2"

	"github.com/ekimekim/awp/internal/config"
)

func TestLoadDefaultConfigExpandsPaths(t *testing.T) {
	tempHome := t.TempDir()
	t.Setenv("HOME", tempHome)
	t.Setenv("VOL_MAX", "")
	t.Setenv("VOL_FUDGE", "")

	cfg, resolved, exists, err := config.Load("")
	if err != nil {
		t.Fatalf("Load returned error: %v", err)
	}
	if resolved == "" {
		t.Fatal("expected resolved path")
	}
	if exists {
		t.Fatal("expected config file to be absent in temp HOME")
	}

	wantState := filepath.Join(tempHome, ".local", "share", "awp")
	if cfg.Paths.StateDir != wantState {
		t.Fatalf("unexpected state dir: got %q want %q", cfg.Paths.StateDir, wantState)
	}
	if cfg.Control.Socket != filepath.Join(wantState, "awp.sock") {
		t.Fatalf("unexpected socket: %q", cfg.Control.Socket)
	}
	if cfg.History.Path != filepath.Join(wantState, "history.db") {
		t.Fatalf("unexpected history path: %q", cfg.History.Path)
	}
	if cfg.Logging.File != filepath.Join(wantState, "awp.log") {
		t.Fatalf("unexpected log file: %q", cfg.Logging.File)
	}
	if cfg.Player.VolMax != 2 || cfg.Player.VolFudge != 1 {
		t.Fatalf("unexpected volume scale: max %v fudge %v", cfg.Player.VolMax, cfg.Player.VolFudge)
	}
	if !cfg.PersistVolume() {
		t.Fatal("expected volume persistence with default fudge")
	}
	if cfg.EscapeTimeout().Milliseconds() != 100 {
		t.Fatalf("unexpected escape timeout: %v", cfg.EscapeTimeout())
	}
	if cfg.LockPath() != cfg.Control.Socket+".lock" {
		t.Fatalf("unexpected lock path: %q", cfg.LockPath())
	}
	if cfg.LastFM.Enabled {
		t.Fatal("expected Last.fm disabled by default")
	}
	if got := strings.Join(cfg.Scan.Extensions, ","); got != "flac,aac,m4a,wav,ogg,mp3,wma" {
		t.Fatalf("unexpected extensions: %s", got)
	}

	if err := cfg.EnsureDirectories(); err != nil {
		t.Fatalf("EnsureDirectories failed: %v", err)
	}
	info, err := os.Stat(cfg.Paths.StateDir)
	if err != nil || !info.IsDir() {
		t.Fatalf("expected state dir to exist: %v", err)
	}
}

func TestLoadCustomPath(t *testing.T) {
	tempDir := t.TempDir()
	configPath := filepath.Join(tempDir, "awp.toml")
	t.Setenv("VOL_MAX", "")
	t.Setenv("VOL_FUDGE", "")

	type payload struct {
		Paths struct {
			StateDir string `toml:"state_dir"`
			Playlist string `toml:"playlist"`
		} `toml:"paths"`
		Player struct {
			Binary string  `toml:"binary"`
			VolMax float64 `toml:"vol_max"`
		} `toml:"player"`
		Scan struct {
			Extensions []string `toml:"extensions"`
		} `toml:"scan"`
	}
	custom := payload{}
	custom.Paths.StateDir = filepath.Join(tempDir, "state")
	custom.Paths.Playlist = filepath.Join(tempDir, "main.playlist")
	custom.Player.Binary = "mpv"
	custom.Player.VolMax = 4
	custom.Scan.Extensions = []string{" .MP3", "ogg", "mp3", ""}

	data, err := toml.Marshal(custom)
	if err != nil {
		t.Fatalf("marshal config: %v", err)
	}
	if err := os.WriteFile(configPath, data, 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}

	cfg, resolved, exists, err := config.Load(configPath)
	if err != nil {
		t.Fatalf("Load returned error: %v", err)
	}
	if !exists || resolved != configPath {
		t.Fatalf("unexpected resolution: %q exists=%v", resolved, exists)
	}
	if cfg.Player.Binary != "mpv" || cfg.Player.VolMax != 4 {
		t.Fatalf("player not loaded: %+v", cfg.Player)
	}
	if cfg.Paths.Playlist != custom.Paths.Playlist {
		t.Fatalf("playlist = %q", cfg.Paths.Playlist)
	}
	if cfg.Control.Socket != filepath.Join(tempDir, "state", "awp.sock") {
		t.Fatalf("socket not derived from state dir: %q", cfg.Control.Socket)
	}
	if got := strings.Join(cfg.Scan.Extensions, ","); got != "mp3,ogg" {
		t.Fatalf("extensions not normalized: %s", got)
	}
	if cfg.Player.VolumeStep != config.Default().Player.VolumeStep {
		t.Fatalf("volume step default lost: %v", cfg.Player.VolumeStep)
	}
}

func TestEnvOverridesVolumeScale(t *testing.T) {
	t.Setenv("HOME", t.TempDir())
	t.Setenv("VOL_MAX", "3")
	t.Setenv("VOL_FUDGE", "0.5")

	cfg, _, _, err := config.Load("")
	if err != nil {
		t.Fatalf("Load returned error: %v", err)
	}
	if cfg.Player.VolMax != 3 {
		t.Fatalf("VolMax = %v, want 3", cfg.Player.VolMax)
	}
	if cfg.Player.VolFudge != 0.5 {
		t.Fatalf("VolFudge = %v, want 0.5", cfg.Player.VolFudge)
	}
	if cfg.PersistVolume() {
		t.Fatal("fudge != 1 must disable volume persistence")
	}
}

func TestEnvFillsLastFMCredentials(t *testing.T) {
	t.Setenv("HOME", t.TempDir())
	t.Setenv("LASTFM_API_KEY", "key")
	t.Setenv("LASTFM_API_SECRET", "secret")
	t.Setenv("LASTFM_SESSION_KEY", "session")

	path := filepath.Join(t.TempDir(), "awp.toml")
	if err := os.WriteFile(path, []byte("[lastfm]\nenabled = true\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	cfg, _, _, err := config.Load(path)
	if err != nil {
		t.Fatalf("Load returned error: %v", err)
	}
	if cfg.LastFM.APIKey != "key" || cfg.LastFM.APISecret != "secret" || cfg.LastFM.SessionKey != "session" {
		t.Fatalf("credentials not filled: %+v", cfg.LastFM)
	}
}

func TestValidateRejectsBadValues(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*config.Config)
		want   string
	}{
		{name: "vol max", mutate: func(c *config.Config) { c.Player.VolMax = 0 }, want: "player.vol_max"},
		{name: "vol fudge", mutate: func(c *config.Config) { c.Player.VolFudge = -1 }, want: "player.vol_fudge"},
		{name: "volume step", mutate: func(c *config.Config) { c.Player.VolumeStep = 2 }, want: "player.volume_step"},
		{name: "scan weight", mutate: func(c *config.Config) { c.Scan.Weight = -1 }, want: "scan.weight"},
		{name: "lastfm missing key", mutate: func(c *config.Config) { c.LastFM.Enabled = true }, want: "lastfm."},
		{name: "log level", mutate: func(c *config.Config) { c.Logging.Level = "verbose" }, want: "logging.level"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := config.Default()
			tt.mutate(&cfg)
			err := cfg.Validate()
			if err == nil {
				t.Fatal("expected validation error")
			}
			if !strings.Contains(err.Error(), tt.want) {
				t.Fatalf("error %q does not mention %q", err, tt.want)
			}
		})
	}
}

func TestCreateSampleLoads(t *testing.T) {
	t.Setenv("HOME", t.TempDir())
	path := filepath.Join(t.TempDir(), "nested", "config.toml")
	if err := config.CreateSample(path); err != nil {
		t.Fatalf("CreateSample: %v", err)
	}
	if _, _, exists, err := config.Load(path); err != nil || !exists {
		t.Fatalf("sample config did not load: exists=%v err=%v", exists, err)
	}
}
