package commands

import (
	"fmt"

	"github.com/spf13/cobra"

	"hotel-booking-api/routes"
)

var (
	adminUsername string
	adminPassword string
)

var createAdminCmd = &cobra.Command{
	Use:   "create-admin",
	Short: "Create an admin user or promote an existing one",
	Long: `Create an admin user. When the username already exists the user is promoted
to admin and keeps its password.

Examples:
  hotel-booking-api create-admin --username root --password s3cret`,
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

		app := routes.NewApp(db, cfg, logger)
		user, created, err := app.Admins.EnsureAdmin(cmd.Context(), adminUsername, adminPassword)
		if err != nil {
			return err
		}
		if created {
			fmt.Fprintf(cmd.OutOrStdout(), "admin %s created (%s)\n", user.Username, user.ID)
		} else {
			fmt.Fprintf(cmd.OutOrStdout(), "user %s promoted to admin (%s)\n", user.Username, user.ID)
		}
		return nil
	},
}

func init() {
	createAdminCmd.Flags().StringVar(&adminUsername, "username", "", "Admin username")
	createAdminCmd.Flags().StringVar(&adminPassword, "password", "", "Admin password")
	_ = createAdminCmd.MarkFlagRequired("username")
	_ = createAdminCmd.MarkFlagRequired("password")
}
