package config

import (
	"fmt"
	"path/filepath"
	"strings"
)

func (c *Config) normalize() error {
	if err := c.normalizePaths(); err != nil {
		return err
	}
	c.normalizePlayer()
	c.normalizeScan()
	c.normalizeLastFM()
	c.normalizeAmbient()
	c.normalizeLogging()
	return nil
}

func (c *Config) normalizePaths() error {
	var err error
	if strings.TrimSpace(c.Paths.StateDir) == "" {
		c.Paths.StateDir = defaultStateDir
	}
	if c.Paths.StateDir, err = expandPath(strings.TrimSpace(c.Paths.StateDir)); err != nil {
		return fmt.Errorf("paths.state_dir: %w", err)
	}
	if c.Paths.Playlist, err = expandPath(strings.TrimSpace(c.Paths.Playlist)); err != nil {
		return fmt.Errorf("paths.playlist: %w", err)
	}

	if strings.TrimSpace(c.Control.Socket) == "" {
		c.Control.Socket = filepath.Join(c.Paths.StateDir, socketName)
	}
	if c.Control.Socket, err = expandPath(strings.TrimSpace(c.Control.Socket)); err != nil {
		return fmt.Errorf("control.socket: %w", err)
	}

	if strings.TrimSpace(c.History.Path) == "" {
		c.History.Path = filepath.Join(c.Paths.StateDir, historyName)
	}
	if c.History.Path, err = expandPath(strings.TrimSpace(c.History.Path)); err != nil {
		return fmt.Errorf("history.path: %w", err)
	}

	if strings.TrimSpace(c.Logging.File) == "" {
		c.Logging.File = filepath.Join(c.Paths.StateDir, logName)
	}
	if c.Logging.File, err = expandPath(strings.TrimSpace(c.Logging.File)); err != nil {
		return fmt.Errorf("logging.file: %w", err)
	}
	return nil
}

func (c *Config) normalizePlayer() {
	c.Player.Binary = strings.TrimSpace(c.Player.Binary)
	if c.Player.Binary == "" {
		c.Player.Binary = defaultPlayerBinary
	}
	if c.Player.VolumeStep == 0 {
		c.Player.VolumeStep = defaultVolumeStep
	}
	if c.Input.EscapeTimeoutMS == 0 {
		c.Input.EscapeTimeoutMS = defaultEscapeTimeoutMS
	}
}

func (c *Config) normalizeScan() {
	if len(c.Scan.Extensions) == 0 {
		c.Scan.Extensions = append([]string(nil), defaultExtensions...)
		return
	}
	exts := make([]string, 0, len(c.Scan.Extensions))
	seen := make(map[string]struct{}, len(c.Scan.Extensions))
	for _, ext := range c.Scan.Extensions {
		normalized := strings.ToLower(strings.TrimPrefix(strings.TrimSpace(ext), "."))
		if normalized == "" {
			continue
		}
		if _, exists := seen[normalized]; exists {
			continue
		}
		seen[normalized] = struct{}{}
		exts = append(exts, normalized)
	}
	c.Scan.Extensions = exts
}

func (c *Config) normalizeLastFM() {
	c.LastFM.User = strings.TrimSpace(c.LastFM.User)
	c.LastFM.SessionKey = strings.TrimSpace(c.LastFM.SessionKey)
	c.LastFM.APIKey = strings.TrimSpace(c.LastFM.APIKey)
	c.LastFM.APISecret = strings.TrimSpace(c.LastFM.APISecret)
	c.LastFM.BaseURL = strings.TrimSpace(c.LastFM.BaseURL)
	if c.LastFM.BaseURL == "" {
		c.LastFM.BaseURL = defaultLastFMBaseURL
	}
	if c.LastFM.CooldownSeconds < 0 {
		c.LastFM.CooldownSeconds = 0
	}
	if c.LastFM.RequestTimeout <= 0 {
		c.LastFM.RequestTimeout = defaultLastFMTimeout
	}
}

func (c *Config) normalizeAmbient() {
	cmd := c.Ambient.Command[:0]
	for _, arg := range c.Ambient.Command {
		if trimmed := strings.TrimSpace(arg); trimmed != "" {
			cmd = append(cmd, trimmed)
		}
	}
	c.Ambient.Command = cmd
}

func (c *Config) normalizeLogging() {
	c.Logging.Format = strings.ToLower(strings.TrimSpace(c.Logging.Format))
	switch c.Logging.Format {
	case "", "console":
		c.Logging.Format = "console"
	case "json":
	default:
		c.Logging.Format = "console"
	}
	c.Logging.Level = strings.ToLower(strings.TrimSpace(c.Logging.Level))
	if c.Logging.Level == "" {
		c.Logging.Level = defaultLogLevel
	}
}
