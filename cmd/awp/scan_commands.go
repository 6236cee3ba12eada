package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"

	"github.com/ekimekim/awp/internal/playlist"
	"github.com/ekimekim/awp/internal/scan"
)

// scanFlags are the directory scan overrides shared by scan and missing.
type scanFlags struct {
	extensions []string
	noSniff    bool
	noRecurse  bool
}

func (f *scanFlags) register(flags *pflag.FlagSet) {
	flags.StringSliceVar(&f.extensions, "extensions", nil, "Audio extensions to recognize, highest priority first")
	flags.BoolVar(&f.noSniff, "no-sniff", false, "Recognize audio by extension only")
	flags.BoolVar(&f.noRecurse, "no-recurse", false, "Do not descend into subdirectories")
}

func (f *scanFlags) apply(opts *scan.Options) {
	if len(f.extensions) > 0 {
		exts := make([]string, 0, len(f.extensions))
		for _, ext := range f.extensions {
			if ext = strings.ToLower(strings.TrimPrefix(strings.TrimSpace(ext), ".")); ext != "" {
				exts = append(exts, ext)
			}
		}
		opts.Extensions = exts
	}
	if f.noSniff {
		opts.Sniff = false
	}
	if f.noRecurse {
		opts.Recurse = false
	}
}

func newScanCommand(ctx *commandContext) *cobra.Command {
	var flags scanFlags
	var weight, volume float64
	var output string

	cmd := &cobra.Command{
		Use:   "scan DIRECTORY",
		Short: "Build a playlist from the audio files in a directory",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			opts := scan.OptionsFromConfig(ctx.configValue())
			flags.apply(&opts)
			if cmd.Flags().Changed("weight") {
				opts.Weight = weight
			}
			if cmd.Flags().Changed("volume") {
				opts.Volume = volume
			}
			opts.Logger = ctx.logger(cmd)

			store, err := scan.Directory(cmd.Context(), args[0], opts)
			if err != nil {
				return err
			}
			if output != "" {
				return store.WriteFile(output)
			}
			return store.Write(cmd.OutOrStdout())
		},
	}

	flags.register(cmd.Flags())
	cmd.Flags().Float64Var(&weight, "weight", 16, "Weight given to every file found")
	cmd.Flags().Float64Var(&volume, "volume", 0.5, "Volume given to every file found")
	cmd.Flags().StringVarP(&output, "output", "o", "", "Write the playlist to this file instead of stdout")
	return cmd
}

func newMissingCommand(ctx *commandContext) *cobra.Command {
	var flags scanFlags
	var verbose bool

	cmd := &cobra.Command{
		Use:   "missing PLAYLIST DIRECTORY",
		Short: "List audio files under a directory that a playlist does not contain",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			logger := ctx.logger(cmd)
			store, err := loadPlaylist(args[0], logger)
			if err != nil {
				return err
			}
			opts := scan.OptionsFromConfig(ctx.configValue())
			flags.apply(&opts)
			opts.Logger = logger
			found, err := scan.Directory(cmd.Context(), args[1], opts)
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			errOut := cmd.ErrOrStderr()
			if verbose {
				fmt.Fprintf(errOut, "%s contains %d entries\n", args[0], store.Len())
				fmt.Fprintf(errOut, "%s/ contains %d entries\n", strings.TrimRight(args[1], "/"), found.Len())
			}
			for _, d := range playlist.Diff(store, found) {
				if d.Ours == nil {
					fmt.Fprintln(out, d.Path)
				}
				if verbose && d.Theirs == nil {
					fmt.Fprintf(errOut, "warning: %s not found in %s\n", d.Path, args[1])
				}
			}
			return nil
		},
	}

	flags.register(cmd.Flags())
	cmd.Flags().BoolVarP(&verbose, "verbose", "v", false, "Report counts and playlist entries not found on disk")
	return cmd
}
