package main

import (
	"github.com/spf13/cobra"

	"urlinfo/internal/config"
)

func newMigrateCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "migrate",
		Short: "Apply schema migrations and load the seed corpus, then exit",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load()
			if err != nil {
				return err
			}
			logger := newLogger(cfg)
			if cfg.StoreDriver == config.DriverMemory {
				logger.Info("memory store has no schema; nothing to migrate")
				return nil
			}
			_, closeStore, err := openStore(cmd.Context(), cfg, logger)
			if err != nil {
				return err
			}
			closeStore()
			return nil
		},
	}
}
