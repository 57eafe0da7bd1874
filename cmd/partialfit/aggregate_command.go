package main

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/cwbudde/algo-partials/aggregate"
)

func newAggregateCommand(ctx *commandContext) *cobra.Command {
	var (
		outputPath string
		noCache    bool
	)

	cmd := &cobra.Command{
		Use:   "aggregate <file>...",
		Short: "Aggregate notes into per-harmonic JSON tables",
		Long: "Aggregate reads one partials file per note slot, in slot order, and writes\n" +
			"h_lev/h_ran/h_att/h_atp tables. Use \"-\" as a file to leave a slot empty.",
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}
			logger, err := ctx.logger(cfg, cmd.ErrOrStderr())
			if err != nil {
				return err
			}

			aggCfg := cfg.AggregateConfig()
			if len(args) > aggCfg.Notes {
				return fmt.Errorf("%w: %d files, %d slots", aggregate.ErrTooManyNotes, len(args), aggCfg.Notes)
			}

			loader, err := newNoteLoader(cmd.Context(), cfg, !noCache, logger)
			if err != nil {
				return err
			}
			defer loader.Close()

			notes := make([][]aggregate.Descriptor, len(args))
			for slot, path := range args {
				if strings.TrimSpace(path) == "-" {
					continue
				}
				descs, err := loader.load(cmd.Context(), path)
				if err != nil {
					return fmt.Errorf("note %d: %w", slot, err)
				}
				notes[slot] = descs
				logger.Info("note loaded", "slot", slot, "path", path, "partials", len(descs))
			}

			res, err := aggregate.BuildDescriptors(aggCfg, notes)
			if err != nil {
				return err
			}

			if outputPath == "" || outputPath == "-" {
				return aggregate.WriteJSON(cmd.OutOrStdout(), res)
			}
			if err := writeResultFile(outputPath, res); err != nil {
				return err
			}
			logger.Info("aggregate written", "path", outputPath, "harmonics", aggCfg.Harmonics, "notes", aggCfg.Notes)
			return nil
		},
	}

	cmd.Flags().StringVarP(&outputPath, "output", "o", "", "Output JSON file (default stdout)")
	cmd.Flags().BoolVar(&noCache, "no-cache", false, "Bypass the analysis catalog")
	return cmd
}

func writeResultFile(path string, res aggregate.Result) (err error) {
	if dir := filepath.Dir(path); dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("create output directory: %w", err)
		}
	}
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create output: %w", err)
	}
	defer func() {
		if cerr := f.Close(); cerr != nil && err == nil {
			err = fmt.Errorf("close output: %w", cerr)
		}
	}()
	return aggregate.WriteJSON(f, res)
}
