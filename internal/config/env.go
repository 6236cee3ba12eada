package config

import (
	"os"
	"strconv"
	"strings"
)

// applyEnv layers environment variables over file values. Volume scaling and
// paths take the environment over the file; credentials only fill blanks.
func (c *Config) applyEnv() {
	c.Player.VolMax = getEnvFloatAny([]string{"VOL_MAX", "AWP_VOL_MAX"}, c.Player.VolMax)
	c.Player.VolFudge = getEnvFloatAny([]string{"VOL_FUDGE", "AWP_VOL_FUDGE"}, c.Player.VolFudge)
	c.Player.Binary = getEnvAny([]string{"AWP_PLAYER"}, c.Player.Binary)
	c.Paths.StateDir = getEnvAny([]string{"AWP_STATE_DIR"}, c.Paths.StateDir)
	c.Paths.Playlist = getEnvAny([]string{"AWP_PLAYLIST"}, c.Paths.Playlist)
	c.Control.Socket = getEnvAny([]string{"AWP_SOCKET"}, c.Control.Socket)
	c.Logging.Level = getEnvAny([]string{"AWP_LOG_LEVEL"}, c.Logging.Level)

	if strings.TrimSpace(c.LastFM.APIKey) == "" {
		c.LastFM.APIKey = getEnv("LASTFM_API_KEY", "")
	}
	if strings.TrimSpace(c.LastFM.APISecret) == "" {
		c.LastFM.APISecret = getEnv("LASTFM_API_SECRET", "")
	}
	if strings.TrimSpace(c.LastFM.SessionKey) == "" {
		c.LastFM.SessionKey = getEnv("LASTFM_SESSION_KEY", "")
	}
}

func getEnv(key, def string) string {
	if val := os.Getenv(key); val != "" {
		return val
	}
	return def
}

// getEnvAny returns the first non-empty environment variable value from keys, or def if none set.
func getEnvAny(keys []string, def string) string {
	for _, k := range keys {
		if v := os.Getenv(k); v != "" {
			return v
		}
	}
	return def
}

// getEnvFloatAny returns the first set float environment variable value from keys, or def.
func getEnvFloatAny(keys []string, def float64) float64 {
	for _, k := range keys {
		if v := os.Getenv(k); v != "" {
			if parsed, err := strconv.ParseFloat(strings.TrimSpace(v), 64); err == nil {
				return parsed
			}
		}
	}
	return def
}
