package cmd

import (
	"github.com/arboriq/arboriq-api/database"
	"github.com/spf13/cobra"
)

var migrateCmd = &cobra.Command{
	Use:   "migrate",
	Short: "Create the PostGIS extension, tables and spatial indexes",
	RunE: func(cmd *cobra.Command, _ []string) error {
		cfg, log, err := bootstrap()
		if err != nil {
			return err
		}
		defer log.Sync()

		db, err := database.Open(cfg, log)
		if err != nil {
			return err
		}
		defer database.Close(db)

		return database.Migrate(cmd.Context(), db, log)
	},
}
