package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/cwbudde/algo-partials/internal/config"
)

func newConfigCommand(ctx *commandContext) *cobra.Command {
	configCmd := &cobra.Command{
		Use:   "config",
		Short: "Create or check the partialfit configuration",
	}
	configCmd.AddCommand(newConfigInitCommand(), newConfigValidateCommand(ctx))
	return configCmd
}

func newConfigInitCommand() *cobra.Command {
	var (
		target    string
		overwrite bool
	)

	cmd := &cobra.Command{
		Use:         "init",
		Short:       "Write the annotated sample configuration",
		Args:        cobra.NoArgs,
		Annotations: map[string]string{"skipConfigLoad": "true"},
		RunE: func(cmd *cobra.Command, args []string) error {
			written, err := config.WriteSample(target, overwrite)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Wrote sample configuration to %s\n", written)
			return nil
		},
	}

	cmd.Flags().StringVarP(&target, "path", "p", "", "Destination (default ~/.config/partialfit/config.toml)")
	cmd.Flags().BoolVar(&overwrite, "overwrite", false, "Replace an existing file")
	return cmd
}

func newConfigValidateCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:         "validate",
		Short:       "Load the configuration and print the effective analysis settings",
		Args:        cobra.NoArgs,
		Annotations: map[string]string{"skipConfigLoad": "true"},
		RunE: func(cmd *cobra.Command, args []string) error {
			var path string
			if ctx.configFlag != nil {
				path = strings.TrimSpace(*ctx.configFlag)
			}
			cfg, resolved, exists, err := config.Load(path)
			if err != nil {
				return fmt.Errorf("load config: %w", err)
			}

			out := cmd.OutOrStdout()
			source := resolved
			if !exists {
				source += " (missing, defaults were used)"
			}
			fmt.Fprintf(out, "Config path: %s\n", source)
			fmt.Fprintf(out, "Range policy: %s\n", cfg.Analysis.RangePolicy)
			fmt.Fprintf(out, "Attack profile bounds: [%g, %g] from %g\n",
				cfg.Fit.MinProfile, cfg.Fit.MaxProfile, cfg.Fit.InitialProfile)
			if cfg.Analysis.Modulation {
				fmt.Fprintf(out, "Modulation: on, depth floor %g\n", cfg.Analysis.ModulationDepth)
			} else {
				fmt.Fprintln(out, "Modulation: off")
			}
			if cfg.Catalog.Enabled {
				fmt.Fprintf(out, "Catalog: %s\n", cfg.Catalog.Path)
			} else {
				fmt.Fprintln(out, "Catalog: disabled")
			}
			fmt.Fprintln(out, "Configuration valid")
			return nil
		},
	}
}
