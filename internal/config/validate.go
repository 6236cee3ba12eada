package config

import (
	"errors"
	"fmt"
	"strings"
)

// Validate ensures the configuration is usable.
func (c *Config) Validate() error {
	if err := c.validatePlayer(); err != nil {
		return err
	}
	if err := c.validateScan(); err != nil {
		return err
	}
	if err := c.validateLastFM(); err != nil {
		return err
	}
	if err := c.validateLogging(); err != nil {
		return err
	}
	return nil
}

func (c *Config) validatePlayer() error {
	if c.Player.VolMax <= 0 {
		return errors.New("player.vol_max must be positive (check VOL_MAX)")
	}
	if c.Player.VolFudge <= 0 {
		return errors.New("player.vol_fudge must be positive (check VOL_FUDGE)")
	}
	if c.Player.VolumeStep <= 0 || c.Player.VolumeStep > 1 {
		return errors.New("player.volume_step must be in (0, 1]")
	}
	if c.Input.EscapeTimeoutMS <= 0 {
		return errors.New("input.escape_timeout_ms must be positive")
	}
	return nil
}

func (c *Config) validateScan() error {
	if c.Scan.Weight < 0 {
		return errors.New("scan.weight must be >= 0")
	}
	if c.Scan.Volume < 0 {
		return errors.New("scan.volume must be >= 0")
	}
	if len(c.Scan.Extensions) == 0 && !c.Scan.Sniff {
		return errors.New("scan.extensions must not be empty when scan.sniff is false")
	}
	return nil
}

func (c *Config) validateLastFM() error {
	if !c.LastFM.Enabled {
		return nil
	}
	for key, value := range map[string]string{
		"lastfm.api_key":     c.LastFM.APIKey,
		"lastfm.api_secret":  c.LastFM.APISecret,
		"lastfm.session_key": c.LastFM.SessionKey,
	} {
		if strings.TrimSpace(value) == "" {
			return fmt.Errorf("%s must be set when lastfm.enabled is true", key)
		}
	}
	return nil
}

func (c *Config) validateLogging() error {
	switch c.Logging.Level {
	case "debug", "info", "warn", "error":
		return nil
	default:
		return fmt.Errorf("logging.level: unsupported value %q", c.Logging.Level)
	}
}
