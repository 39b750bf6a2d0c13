package cmd

import (
	"fmt"

	"roster-sync/core/config"
	"roster-sync/core/database"
	"roster-sync/core/logger"
	"roster-sync/feature/roster/repository"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

var migrateSchema bool

// schemaCmd checks the roster tables against the expected columns.
var schemaCmd = &cobra.Command{
	Use:   "schema",
	Short: "Check (and optionally migrate) the roster tables",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := config.LoadConfig(".")
		if err != nil {
			return fmt.Errorf("failed to load config: %w", err)
		}

		l, err := logger.New(&cfg.Log)
		if err != nil {
			return fmt.Errorf("failed to initialize logger: %w", err)
		}
		defer l.Sync()

		db, err := database.Connect(cfg.Database)
		if err != nil {
			return fmt.Errorf("failed to connect to database: %w", err)
		}

		if migrateSchema {
			if err := repository.Migrate(db); err != nil {
				return err
			}
			l.Info("Schema migrated")
		}

		report, err := repository.CheckSchema(db)
		if err != nil {
			return err
		}
		if len(report) == 0 {
			l.Info("Schema is up to date")
			return nil
		}

		for table, missing := range report {
			l.Warn("Missing columns", zap.String("table", table), zap.Strings("columns", missing))
		}
		return fmt.Errorf("schema is missing columns in %d table(s); run with --migrate", len(report))
	},
}

func init() {
	schemaCmd.Flags().BoolVar(&migrateSchema, "migrate", false, "Run auto-migration before checking")
	RootCmd.AddCommand(schemaCmd)
}
