package commands

import (
	"github.com/spf13/cobra"
)

var migrateCmd = &cobra.Command{
	Use:   "migrate",
	Short: "Create or update the database schema",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, logger, err := loadConfig()
		if err != nil {
			return err
		}
		db, err := openDatabase(cfg, logger)
		if err != nil {
			return err
		}
		defer closeDatabase(db)
		logger.Info("migrations applied")
		return nil
	},
}
