package main

import (
	"errors"
	"fmt"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"github.com/ekimekim/awp/internal/ambient"
	"github.com/ekimekim/awp/internal/config"
	"github.com/ekimekim/awp/internal/deps"
	"github.com/ekimekim/awp/internal/history"
	"github.com/ekimekim/awp/internal/input"
	"github.com/ekimekim/awp/internal/ipc"
	"github.com/ekimekim/awp/internal/logging"
	"github.com/ekimekim/awp/internal/nowplaying"
	"github.com/ekimekim/awp/internal/player"
	"github.com/ekimekim/awp/internal/term"
	"github.com/ekimekim/awp/internal/watch"
)

func newPlayCommand(ctx *commandContext) *cobra.Command {
	var noControl bool

	cmd := &cobra.Command{
		Use:   "play [PLAYLIST]",
		Short: "Play tracks from a playlist at random, weighted by preference",
		Long: `Play tracks from a playlist at random, weighted by preference.

Keys while a track plays:
  q    halve the track's weight and skip to the next track
  f    double the track's weight
  d    halve the track's weight
  * /  raise or lower the track's saved volume
  Q    quit without saving this track's changes

Every other key is passed to the player unchanged.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}
			path, err := ctx.resolvePlaylist(args)
			if err != nil {
				return err
			}
			if err := deps.FirstMissing(deps.CheckBinaries(deps.ForConfig(cfg))); err != nil {
				return err
			}
			if noControl {
				cfg.Control.Enabled = false
			}
			return runPlayer(cmd, cfg, path)
		},
	}

	cmd.Flags().BoolVar(&noControl, "no-control", false, "Do not listen on the control socket")
	return cmd
}

func runPlayer(cmd *cobra.Command, cfg *config.Config, path string) error {
	runCtx := cmd.Context()

	logger, err := logging.NewPlayerLogger(cfg)
	if err != nil {
		return fmt.Errorf("init logger: %w", err)
	}

	mux := input.New(
		input.WithEscapeTimeout(cfg.EscapeTimeout()),
		input.WithLogger(logger),
	)

	stdin := cmd.InOrStdin()
	if f, ok := stdin.(*os.File); ok && term.IsTerminal(f) {
		restore, err := term.Raw(f)
		if err != nil {
			return fmt.Errorf("configure terminal: %w", err)
		}
		defer func() {
			if err := restore(); err != nil {
				logger.Warn("restore terminal failed", logging.Error(err))
			}
		}()
	}
	mux.AddSource(runCtx, "stdin", stdin)

	if cfg.Control.Enabled {
		srv, err := ipc.NewServer(runCtx, cfg.Control.Socket, cfg.LockPath(), mux, logger)
		if err != nil {
			if errors.Is(err, ipc.ErrAlreadyRunning) {
				return fmt.Errorf("%w (socket %s); use --no-control to run a second player", err, cfg.Control.Socket)
			}
			return fmt.Errorf("start control socket: %w", err)
		}
		srv.Serve()
		defer srv.Close()
	}

	opts := player.Options{
		PlaylistPath: path,
		VolMax:       cfg.Player.VolMax,
		VolFudge:     cfg.Player.VolFudge,
		VolumeStep:   cfg.Player.VolumeStep,
		Launcher:     player.NewExecLauncher(cfg),
		Input:        mux,
		Display:      cmd.OutOrStdout(),
		Logger:       logger,
		Reporter:     nowplaying.NewReporter(cfg),
	}

	if cfg.History.Enabled {
		store, err := history.Open(runCtx, cfg.History.Path)
		if err != nil {
			return fmt.Errorf("open history: %w", err)
		}
		defer store.Close()
		opts.History = store
	}

	if cfg.Watch.Enabled {
		watcher, err := watch.New(path, logger)
		if err != nil {
			logging.WarnWithContext(logger, "playlist watch unavailable", "playlist_watch_failed",
				logging.Error(err),
				logging.String(logging.FieldImpact, "external playlist edits will not be reported"))
		} else {
			defer watcher.Close()
			opts.Watcher = watcher
		}
	}

	side := startAmbient(cmd, cfg, logger)
	defer func() {
		if err := side.Stop(); err != nil {
			logger.Warn("ambient process exited with error", logging.Error(err))
		}
	}()

	supervisor, err := player.New(opts)
	if err != nil {
		return err
	}
	return supervisor.Run(runCtx)
}

// startAmbient launches the configured side process. A failure is logged and
// playback continues without it.
func startAmbient(cmd *cobra.Command, cfg *config.Config, logger *slog.Logger) *ambient.Process {
	proc, err := ambient.Start(cmd.Context(), cfg.Ambient.Command, logger)
	if err != nil {
		logging.WarnWithContext(logger, "ambient process failed to start", "ambient_start_failed",
			logging.Error(err),
			logging.String(logging.FieldImpact, "playing without background sound"),
			logging.String(logging.FieldErrorHint, "check ambient.command in the config"))
		return nil
	}
	return proc
}
