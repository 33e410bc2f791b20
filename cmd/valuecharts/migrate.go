package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/MikeSquared-Agency/ValueCharts/internal/store"
)

func newMigrateCmd() *cobra.Command {
	var down bool

	cmd := &cobra.Command{
		Use:   "migrate",
		Short: "Apply or revert database migrations",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig(cmd)
			if err != nil {
				return err
			}
			if cfg.Database.URL == "" {
				return fmt.Errorf("database url is required")
			}
			if err := store.Migrate(cfg.Database.URL, down); err != nil {
				return err
			}
			direction := "up"
			if down {
				direction = "down"
			}
			fmt.Fprintf(cmd.OutOrStdout(), "migrations applied (%s)\n", direction)
			return nil
		},
	}
	cmd.Flags().BoolVar(&down, "down", false, "revert every migration")
	return cmd
}
