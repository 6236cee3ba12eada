package main

import (
	"errors"
	"log/slog"
	"strings"
	"sync"

	"github.com/spf13/cobra"

	"github.com/ekimekim/awp/internal/config"
	"github.com/ekimekim/awp/internal/logging"
	"github.com/ekimekim/awp/internal/playlist"
)

type commandContext struct {
	configFlag *string

	configOnce sync.Once
	config     *config.Config
	configErr  error
}

func newCommandContext(configFlag *string) *commandContext {
	return &commandContext{configFlag: configFlag}
}

func (c *commandContext) ensureConfig() (*config.Config, error) {
	c.configOnce.Do(func() {
		var path string
		if c.configFlag != nil {
			path = strings.TrimSpace(*c.configFlag)
		}
		cfg, _, _, err := config.Load(path)
		if err != nil {
			c.configErr = err
			return
		}
		if err := cfg.EnsureDirectories(); err != nil {
			c.configErr = err
			return
		}
		c.config = cfg
	})
	return c.config, c.configErr
}

func (c *commandContext) configValue() *config.Config {
	cfg, _ := c.ensureConfig()
	return cfg
}

// logger returns the logger used by the playlist tools. Records go to the
// command's stderr so stdout stays clean for playlist data.
func (c *commandContext) logger(cmd *cobra.Command) *slog.Logger {
	logger, err := logging.NewFromConfig(c.configValue(), cmd.ErrOrStderr())
	if err != nil {
		return logging.NewNop()
	}
	return logging.NewComponentLogger(logger, cmd.Name())
}

// resolvePlaylist returns the explicit playlist argument, or the configured
// default when none was given.
func (c *commandContext) resolvePlaylist(args []string) (string, error) {
	if len(args) > 0 && strings.TrimSpace(args[0]) != "" {
		return config.ExpandPath(strings.TrimSpace(args[0]))
	}
	if cfg := c.configValue(); cfg != nil && cfg.Paths.Playlist != "" {
		return cfg.Paths.Playlist, nil
	}
	return "", errors.New("no playlist given and paths.playlist is not set")
}

// loadPlaylist reads path with overwrite warnings routed to logger.
func loadPlaylist(path string, logger *slog.Logger) (*playlist.Store, error) {
	return playlist.Load(path, playlist.WithLogger(logger))
}

func shouldSkipConfig(cmd *cobra.Command) bool {
	for c := cmd; c != nil; c = c.Parent() {
		if c.Annotations != nil && c.Annotations["skipConfigLoad"] == "true" {
			return true
		}
	}
	return false
}
