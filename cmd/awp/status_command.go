package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/ekimekim/awp/internal/config"
	"github.com/ekimekim/awp/internal/deps"
	"github.com/ekimekim/awp/internal/ipc"
	"github.com/ekimekim/awp/internal/preflight"
)

const pingTimeout = time.Second

func newStatusCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:     "status",
		Aliases: []string{"doctor"},
		Short:   "Check external programs, files and whether a player is running",
		Args:    cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg := ctx.configValue()
			out := cmd.OutOrStdout()
			colorize := shouldColorize(out)

			writeSection(out, "Player", colorize, playerLine(cmd.Context(), cfg, colorize))

			statuses := deps.CheckBinaries(deps.ForConfig(cfg))
			writeSection(out, "Dependencies", colorize, dependencyLines(statuses, colorize)...)

			files := checkLines(preflight.RunAll(cfg), colorize)
			files = append(files,
				renderStatusLine("History", statusInfo, historyDetail(cfg), colorize),
				renderStatusLine("Log", statusInfo, cfg.Logging.File, colorize),
			)
			if !cfg.LastFM.Enabled {
				files = append(files, renderStatusLine("Last.fm", statusInfo, "Now-playing updates disabled", colorize))
			}
			writeSection(out, "Setup", colorize, files...)

			if err := deps.FirstMissing(statuses); err != nil {
				return exitError{code: 1}
			}
			return nil
		},
	}
}

func writeSection(out io.Writer, title string, colorize bool, lines ...string) {
	for _, line := range renderSectionHeader(title, colorize) {
		fmt.Fprintln(out, line)
	}
	for _, line := range lines {
		fmt.Fprintln(out, line)
	}
	fmt.Fprintln(out)
}

func playerLine(ctx context.Context, cfg *config.Config, colorize bool) string {
	if !cfg.Control.Enabled {
		return renderStatusLine("Control socket", statusInfo, "Disabled", colorize)
	}
	pingCtx, cancel := context.WithTimeout(ctx, pingTimeout)
	defer cancel()
	if err := ipc.Ping(pingCtx, cfg.Control.Socket); err != nil {
		return renderStatusLine("Control socket", statusInfo, "No player listening on "+cfg.Control.Socket, colorize)
	}
	return renderStatusLine("Control socket", statusOK, "Player listening on "+cfg.Control.Socket, colorize)
}

// checkLines renders preflight results. Failures are warnings: they do not
// stop the playlist tools from working.
func checkLines(results []preflight.Result, colorize bool) []string {
	lines := make([]string, 0, len(results))
	for _, result := range results {
		kind := statusOK
		if !result.Passed {
			kind = statusWarn
		}
		lines = append(lines, renderStatusLine(result.Name, kind, result.Detail, colorize))
	}
	return lines
}

func historyDetail(cfg *config.Config) string {
	if !cfg.History.Enabled {
		return "Disabled"
	}
	if _, err := os.Stat(cfg.History.Path); err != nil {
		return cfg.History.Path + " (no plays yet)"
	}
	return cfg.History.Path
}
