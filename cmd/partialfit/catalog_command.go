package main

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/cwbudde/algo-partials/internal/catalog"
)

func newCatalogCommand(ctx *commandContext) *cobra.Command {
	catalogCmd := &cobra.Command{
		Use:   "catalog",
		Short: "Analysis cache maintenance",
	}
	catalogCmd.AddCommand(newCatalogPruneCommand(ctx))
	return catalogCmd
}

func newCatalogPruneCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "prune",
		Short: "Delete cached analyses older than catalog.retention_days",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}

			opCtx, cancel := context.WithTimeout(cmd.Context(), cfg.CatalogTimeout())
			defer cancel()

			store, err := catalog.Open(opCtx, cfg.Catalog.Path)
			if err != nil {
				return fmt.Errorf("open catalog: %w", err)
			}
			defer store.Close()

			removed, err := store.Prune(opCtx, cfg.CatalogRetention())
			if err != nil {
				return err
			}
			remaining, err := store.Count(opCtx)
			if err != nil {
				return err
			}

			fmt.Fprintf(cmd.OutOrStdout(), "Removed %d cached analyses, %d remain in %s\n", removed, remaining, cfg.Catalog.Path)
			return nil
		},
	}
}
