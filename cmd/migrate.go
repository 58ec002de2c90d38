package cmd

import (
	"fmt"
	"reflect"

	"github.com/killallgit/studio-api/internal/database"
	"github.com/killallgit/studio-api/pkg/config"
	"github.com/spf13/cobra"
)

// migrateCmd represents the migrate command
var migrateCmd = &cobra.Command{
	Use:   "migrate",
	Short: "Manage the bookkeeping database schema",
	Long: `Manage the schema of the bookkeeping database (sessions, artifacts, jobs).

The server migrates on startup; these commands are for databases kept in
a file between runs.

Available subcommands:
  up      - Create or update all tables
  status  - Show which tables exist`,
}

// migrateUpCmd applies the schema
var migrateUpCmd = &cobra.Command{
	Use:   "up",
	Short: "Create or update all tables",
	Long: `Create missing tables and add missing columns and indexes for every
model. Existing data is kept.`,
	RunE: runMigrateUp,
}

// migrateStatusCmd shows migration status
var migrateStatusCmd = &cobra.Command{
	Use:   "status",
	Short: "Show migration status",
	Long: `Display the current status of the bookkeeping database.

This command lists every model table and whether it exists.`,
	RunE: runMigrateStatus,
}

func init() {
	rootCmd.AddCommand(migrateCmd)
	migrateCmd.AddCommand(migrateUpCmd)
	migrateCmd.AddCommand(migrateStatusCmd)

	migrateCmd.PersistentFlags().String("database", "", "database path (overrides config)")
}

// migrationDBPath resolves the database path from the flag or config
func migrationDBPath(cmd *cobra.Command) (string, error) {
	if path, _ := cmd.Flags().GetString("database"); path != "" {
		return path, nil
	}
	if configErr != nil {
		return "", configErr
	}
	cfg, err := config.GetConfig()
	if err != nil {
		return "", err
	}
	return cfg.Database.Path, nil
}

func runMigrateUp(cmd *cobra.Command, args []string) error {
	path, err := migrationDBPath(cmd)
	if err != nil {
		return err
	}

	db, err := database.InitializeWithMigrations(path, false)
	if err != nil {
		return err
	}
	defer db.Close()

	fmt.Fprintf(cmd.OutOrStdout(), "Migrated %d tables in %s\n", len(database.Models()), path)
	return nil
}

func runMigrateStatus(cmd *cobra.Command, args []string) error {
	path, err := migrationDBPath(cmd)
	if err != nil {
		return err
	}

	db, err := database.Initialize(path, false)
	if err != nil {
		return err
	}
	defer db.Close()

	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "Database: %s\n", path)
	migrator := db.Migrator()
	for _, model := range database.Models() {
		state := "missing"
		if migrator.HasTable(model) {
			state = "present"
		}
		fmt.Fprintf(out, "  %-12s %s\n", reflect.TypeOf(model).Elem().Name(), state)
	}
	return nil
}
