package cmd

import (
	"github.com/spf13/cobra"

	"video-digest/infrastructure/configuration"
	"video-digest/infrastructure/logger"
)

var migrateCmd = &cobra.Command{
	Use:   "migrate",
	Short: "Create or update the database schema",
	RunE: func(cmd *cobra.Command, args []string) error {
		db, err := openDatabase(configuration.C)
		if err != nil {
			return err
		}
		sqlDB, err := db.DB()
		if err != nil {
			return err
		}
		defer sqlDB.Close()
		logger.GetLogger().WithField("vendor", configuration.C.Database.Vendor).Info("Schema is up to date")
		return nil
	},
}
