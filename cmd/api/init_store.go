package main

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"
)

var initStoreCmd = &cobra.Command{
	Use:   "init-store",
	Short: "Create tables, constraints and indexes, then exit",
	RunE: func(cmd *cobra.Command, _ []string) error {
		ctx := cmd.Context()
		if ctx == nil {
			ctx = context.Background()
		}

		store, err := openStore(ctx, cfg)
		if err != nil {
			return fmt.Errorf("failed to open store: %w", err)
		}
		defer store.Close(context.Background())

		if err := store.Init(ctx); err != nil {
			return err
		}

		lg.Info("Store initialized", "backend", cfg.Store.Backend)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(initStoreCmd)
}
