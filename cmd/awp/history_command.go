package main

import (
	"errors"
	"fmt"
	"maps"
	"path/filepath"
	"slices"
	"time"

	"github.com/spf13/cobra"

	"github.com/ekimekim/awp/internal/history"
	"github.com/ekimekim/awp/internal/playlist"
)

func newHistoryCommand(ctx *commandContext) *cobra.Command {
	var limit int
	var fullPaths bool

	cmd := &cobra.Command{
		Use:   "history",
		Short: "Show recent plays from the play journal",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg := ctx.configValue()
			if !cfg.History.Enabled {
				return errors.New("play history is disabled (history.enabled = false)")
			}
			store, err := history.Open(cmd.Context(), cfg.History.Path)
			if err != nil {
				return err
			}
			defer store.Close()

			plays, err := store.Recent(cmd.Context(), limit)
			if err != nil {
				return err
			}
			summary, err := store.Summarize(cmd.Context())
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			if len(plays) == 0 {
				fmt.Fprintln(out, "No plays recorded")
				return nil
			}
			fmt.Fprintln(out, renderTable(historyColumns, playRows(plays, fullPaths)))
			fmt.Fprintf(out, "%d plays over %d sessions, %d distinct tracks\n", summary.Plays, summary.Sessions, summary.Tracks)
			for _, outcome := range slices.Sorted(maps.Keys(summary.Outcomes)) {
				fmt.Fprintf(out, "  %-9s %d\n", string(outcome)+":", summary.Outcomes[outcome])
			}
			return nil
		},
	}

	cmd.Flags().IntVarP(&limit, "limit", "n", 20, "Number of plays to show")
	cmd.Flags().BoolVar(&fullPaths, "full-paths", false, "Show full track paths instead of file names")
	return cmd
}

var historyColumns = []tableColumn{
	{Title: "Started"},
	{Title: "Length", Numeric: true},
	{Title: "Outcome"},
	{Title: "Weight", Numeric: true},
	{Title: "Volume", Numeric: true},
	{Title: "Track"},
}

func playRows(plays []history.Play, fullPaths bool) [][]string {
	rows := make([][]string, 0, len(plays))
	for _, play := range plays {
		track := play.Path
		if !fullPaths {
			track = filepath.Base(track)
		}
		rows = append(rows, []string{
			play.StartedAt.Local().Format("2006-01-02 15:04:05"),
			play.Duration().Round(time.Second).String(),
			string(play.Outcome),
			"x" + playlist.FormatNumber(play.WeightFactor),
			volumeChange(play.StartVolume, play.EndVolume),
			track,
		})
	}
	return rows
}

func volumeChange(start, end float64) string {
	if start == end {
		return playlist.FormatNumber(start)
	}
	return playlist.FormatNumber(start) + " -> " + playlist.FormatNumber(end)
}
