// Command migrate runs schema operations for the API database.
package main

import (
	"context"
	"fmt"
	"os"
	"strconv"
	"strings"

	"tingle/internal/config"
	"tingle/internal/database"

	"github.com/spf13/cobra"
	"gorm.io/gorm"
)

var rootCmd = &cobra.Command{
	Use:   "migrate",
	Short: "Manage the Tingle database schema",
	Long: `Apply, inspect and roll back the versioned SQL migrations.

Examples:
  migrate up          # apply pending SQL migrations
  migrate auto        # run GORM AutoMigrate for every model
  migrate status      # show schema mode and pending migrations
  migrate down 3      # revert migration 3`,
	SilenceUsage: true,
}

var upCmd = &cobra.Command{
	Use:   "up",
	Short: "Apply pending SQL migrations",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, _ []string) error {
		db, _, err := connect()
		if err != nil {
			return err
		}
		defer database.Close(db)

		if err := database.RunMigrations(cmd.Context(), db); err != nil {
			return fmt.Errorf("sql migrations failed: %w", err)
		}
		cmd.Println("sql migrations applied")
		return nil
	},
}

var autoCmd = &cobra.Command{
	Use:   "auto",
	Short: "Run GORM AutoMigrate",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, _ []string) error {
		db, cfg, err := connect()
		if err != nil {
			return err
		}
		defer database.Close(db)

		cfg.DBSchemaMode = database.SchemaModeAuto
		if err := database.ApplySchema(cmd.Context(), db, cfg); err != nil {
			return fmt.Errorf("auto schema apply failed: %w", err)
		}
		cmd.Println("automigrations applied")
		return nil
	},
}

var statusCmd = &cobra.Command{
	Use:   "status",
	Short: "Show schema mode and pending migrations",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, _ []string) error {
		db, cfg, err := connect()
		if err != nil {
			return err
		}
		defer database.Close(db)

		status, err := database.GetSchemaStatus(cmd.Context(), db, cfg)
		if err != nil {
			return fmt.Errorf("schema status failed: %w", err)
		}
		pending := status.Pending()
		cmd.Printf("mode=%s env=%s run_sql=%t run_auto=%t applied=%d pending=%d\n",
			status.Mode, status.Environment, status.RunSQL, status.RunAutoMigrate,
			status.AppliedCount(), len(pending))
		for _, m := range status.Migrations {
			state := "pending"
			if m.Applied {
				state = "applied"
			}
			cmd.Printf("%-8s %s\n", state, m.String())
		}
		for _, version := range status.Unknown {
			cmd.Printf("unknown  %06d (applied but not shipped)\n", version)
		}
		if len(status.MissingTables) > 0 {
			cmd.Printf("missing tables: %s\n", strings.Join(status.MissingTables, ", "))
		}
		return nil
	},
}

var downCmd = &cobra.Command{
	Use:   "down <version>",
	Short: "Revert one applied migration",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		version, err := strconv.Atoi(args[0])
		if err != nil {
			return fmt.Errorf("invalid version %q: %w", args[0], err)
		}

		db, _, err := connect()
		if err != nil {
			return err
		}
		defer database.Close(db)

		if err := database.RollbackMigration(cmd.Context(), db, version); err != nil {
			return fmt.Errorf("rollback failed: %w", err)
		}
		cmd.Printf("rolled back migration %d\n", version)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(upCmd, autoCmd, statusCmd, downCmd)
}

func connect() (*gorm.DB, *config.Config, error) {
	cfg, err := config.LoadConfig()
	if err != nil {
		return nil, nil, fmt.Errorf("load config: %w", err)
	}
	db, err := database.Connect(cfg)
	if err != nil {
		return nil, nil, fmt.Errorf("connect database: %w", err)
	}
	return db, cfg, nil
}

func main() {
	if err := rootCmd.ExecuteContext(context.Background()); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
