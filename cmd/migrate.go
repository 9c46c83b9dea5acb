package cmd

import (
	"log/slog"

	"github.com/spf13/cobra"

	"image_media/pkg/config"
)

func newMigrateCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "migrate",
		Short: "Create or update the images table",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load(configFile)
			if err != nil {
				return err
			}
			setupLogger(cfg.Log)

			db, err := openDatabase(cfg.DB)
			if err != nil {
				return err
			}
			defer db.Close()

			slog.Info("database migrated", "driver", cfg.DB.Driver)
			return nil
		},
	}
}
