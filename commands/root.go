package commands

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/spf13/cobra"
	"gorm.io/gorm"

	"hotel-booking-api/config"
)

// rootCmd serves the API when no subcommand is given
var rootCmd = &cobra.Command{
	Use:   "hotel-booking-api",
	Short: "Hotel and accommodation booking API",
	Long: `Hotel booking API: hotels, their accommodations and the users who book them,
with admin, hotel manager and user roles.

Configuration is read from the environment (and an optional .env file).`,
	SilenceUsage: true,
	RunE: func(cmd *cobra.Command, args []string) error {
		return runServe(cmd)
	},
}

// Execute runs the root command
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func init() {
	rootCmd.AddCommand(serveCmd, migrateCmd, createAdminCmd)
}

func newLogger(format string) *slog.Logger {
	opts := &slog.HandlerOptions{Level: slog.LevelInfo}
	if format == "json" {
		return slog.New(slog.NewJSONHandler(os.Stdout, opts))
	}
	return slog.New(slog.NewTextHandler(os.Stdout, opts))
}

func loadConfig() (config.Config, *slog.Logger, error) {
	cfg, err := config.Load()
	if err != nil {
		return config.Config{}, nil, err
	}
	logger := newLogger(cfg.LogFormat)
	slog.SetDefault(logger)
	return cfg, logger, nil
}

// openDatabase connects and migrates.
func openDatabase(cfg config.Config, logger *slog.Logger) (*gorm.DB, error) {
	db, err := config.ConnectDatabase(cfg)
	if err != nil {
		return nil, fmt.Errorf("database connect failed: %w", err)
	}
	if err := config.Migrate(db); err != nil {
		closeDatabase(db)
		return nil, fmt.Errorf("migration failed: %w", err)
	}
	logger.Info("database ready", "driver", cfg.DBDriver)
	return db, nil
}

func closeDatabase(db *gorm.DB) {
	if sqlDB, err := db.DB(); err == nil {
		_ = sqlDB.Close()
	}
}
