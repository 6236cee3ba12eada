package main

import (
	"errors"
	"fmt"
	"io"
	"maps"
	"os"
	"path/filepath"
	"slices"
	"strings"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/ekimekim/awp/internal/playlist"
)

const (
	defaultMergeWeight = "extreme:16"
	defaultMergeVolume = "extreme:0.5"
)

func newMergeCommand(ctx *commandContext) *cobra.Command {
	var weightName, volumeName, output string
	var inPlace bool

	cmd := &cobra.Command{
		Use:   "merge PLAYLIST [PLAYLIST...]",
		Short: "Merge playlists left to right into the first",
		Long: `Merge playlists left to right into a copy of the first and print the result.

Strategies are one of average, newer, extreme or extreme:<midpoint>, optionally
prefixed with existing: to drop paths the first playlist does not contain.`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if inPlace && output != "" {
				return errors.New("--in-place and --output are mutually exclusive")
			}
			logger := ctx.logger(cmd)

			base, err := loadPlaylist(args[0], logger)
			if err != nil {
				return err
			}
			weight, err := playlist.ParseStrategy(weightName, 16)
			if err != nil {
				return fmt.Errorf("--weight: %w", err)
			}
			volume, err := playlist.ParseStrategy(volumeName, base.MeanVolume())
			if err != nil {
				return fmt.Errorf("--volume: %w", err)
			}

			result := base.Copy()
			for _, path := range args[1:] {
				other, err := loadPlaylist(path, logger)
				if err != nil {
					return err
				}
				if err := result.Merge(other, weight, volume); err != nil {
					return fmt.Errorf("merge %s: %w", path, err)
				}
			}

			switch {
			case inPlace:
				return result.WriteFile(args[0])
			case output != "":
				return result.WriteFile(output)
			default:
				return result.Write(cmd.OutOrStdout())
			}
		},
	}

	cmd.Flags().StringVar(&weightName, "weight", defaultMergeWeight, "Strategy for weights")
	cmd.Flags().StringVar(&volumeName, "volume", defaultMergeVolume, "Strategy for volumes")
	cmd.Flags().StringVarP(&output, "output", "o", "", "Write the result to this file instead of stdout")
	cmd.Flags().BoolVarP(&inPlace, "in-place", "i", false, "Replace the first playlist with the result")
	return cmd
}

func newGenerateCommand(ctx *commandContext) *cobra.Command {
	var count int

	cmd := &cobra.Command{
		Use:   "generate [PLAYLIST]",
		Short: "Print randomly chosen paths, weighted like the player",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			path, err := ctx.resolvePlaylist(args)
			if err != nil {
				return err
			}
			store, err := loadPlaylist(path, ctx.logger(cmd))
			if err != nil {
				return err
			}
			return generate(cmd.Context().Done(), store, cmd.OutOrStdout(), count)
		},
	}

	cmd.Flags().IntVarP(&count, "count", "n", 0, "Stop after this many paths (0 runs until interrupted)")
	return cmd
}

// generate writes count weighted picks to w, or picks forever when count is
// not positive. A closed reader ends it quietly.
func generate(done <-chan struct{}, store *playlist.Store, w io.Writer, count int) error {
	for i := 0; count <= 0 || i < count; i++ {
		select {
		case <-done:
			return nil
		default:
		}
		entry, err := store.Next(nil)
		if err != nil {
			return err
		}
		if _, err := fmt.Fprintln(w, entry.Path); err != nil {
			if errors.Is(err, syscall.EPIPE) || errors.Is(err, os.ErrClosed) || errors.Is(err, io.ErrClosedPipe) {
				return nil
			}
			return err
		}
	}
	return nil
}

func newStatsCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "stats [PLAYLIST]",
		Short: "Summarize a playlist by weight",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			path, err := ctx.resolvePlaylist(args)
			if err != nil {
				return err
			}
			store, err := loadPlaylist(path, ctx.logger(cmd))
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "Total songs: %d\n", store.Len())
			if store.Len() == 0 {
				return nil
			}
			fmt.Fprintln(out, renderTable(weightColumns, weightRows(store)))
			return nil
		},
	}
}

var weightColumns = []tableColumn{
	{Title: "Weight", Numeric: true},
	{Title: "Songs", Numeric: true},
	{Title: "Chance", Numeric: true},
}

// weightRows groups entries by weight, lowest first, with the share of total
// selection probability held by each group.
func weightRows(store *playlist.Store) [][]string {
	counts := make(map[float64]int)
	for _, entry := range store.Entries() {
		counts[entry.Weight]++
	}
	total := store.TotalWeight()
	weights := slices.Sorted(maps.Keys(counts))
	rows := make([][]string, 0, len(weights))
	for _, weight := range weights {
		count := counts[weight]
		var chance float64
		if total > 0 {
			chance = 100 * weight * float64(count) / total
		}
		rows = append(rows, []string{
			playlist.FormatNumber(weight) + "x",
			fmt.Sprintf("%d", count),
			fmt.Sprintf("%5.2f%%", chance),
		})
	}
	return rows
}

func newVerifyCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "verify [PLAYLIST]",
		Short: "List playlist entries that cannot be read",
		Long:  "List playlist entries that cannot be read. Exits with status 1 when any are found.",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			path, err := ctx.resolvePlaylist(args)
			if err != nil {
				return err
			}
			store, err := loadPlaylist(path, ctx.logger(cmd))
			if err != nil {
				return err
			}
			bad := store.Verify()
			if len(bad) == 0 {
				return nil
			}
			out := cmd.OutOrStdout()
			colorize := shouldColorize(out)
			for _, path := range bad {
				if colorize {
					path = ansiRed + path + ansiReset
				}
				fmt.Fprintln(out, path)
			}
			return exitError{code: 1}
		},
	}
}

func newM3UCommand(ctx *commandContext) *cobra.Command {
	var scale float64

	cmd := &cobra.Command{
		Use:   "m3u PLAYLIST SRC DEST",
		Short: "Write a playlist as m3u, repeating paths to express weight",
		Long: `Write a playlist in m3u format to stdout, repeating each path in proportion
to its weight. Paths under SRC are rewritten to sit under DEST instead.`,
		Args: cobra.ExactArgs(3),
		RunE: func(cmd *cobra.Command, args []string) error {
			store, err := loadPlaylist(args[0], ctx.logger(cmd))
			if err != nil {
				return err
			}
			paths, err := store.RepeatedList(scale)
			if err != nil {
				return fmt.Errorf("flatten playlist: %w (pass --scale)", err)
			}
			out := cmd.OutOrStdout()
			for _, path := range paths {
				fmt.Fprintln(out, "file://"+rewritePath(path, args[1], args[2]))
			}
			return nil
		},
	}

	cmd.Flags().Float64Var(&scale, "scale", 0, "Weight represented by one repetition (guessed when 0)")
	return cmd
}

// rewritePath moves path from under src to under dest. Paths outside src are
// returned unchanged.
func rewritePath(path, src, dest string) string {
	prefix := strings.TrimRight(src, "/") + "/"
	if !strings.HasPrefix(path, prefix) {
		return path
	}
	return filepath.Join(dest, strings.TrimPrefix(path, prefix))
}
