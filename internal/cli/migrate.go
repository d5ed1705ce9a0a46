package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

// newMigrateCmd builds the `migrate` command and its subcommands.
func newMigrateCmd(flags *rootFlags) *cobra.Command {
	var dir string

	cmd := &cobra.Command{
		Use:   "migrate",
		Short: "Apply schema migrations from a directory",
		Long: `Apply schema migrations to the database.

Migration files are named VERSION_description.up.sql with an optional
matching VERSION_description.down.sql for rollback. Applied versions
are recorded in the schema_migrations table.`,
	}

	cmd.PersistentFlags().StringVar(&dir, "dir", "migrations", "Directory containing migration files")

	up := &cobra.Command{
		Use:   "up",
		Short: "Apply all pending migrations",
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := flags.loadConfig()
			if err != nil {
				return err
			}
			log := flags.newLogger(cfg)

			db, err := flags.openDB(log, cfg)
			if err != nil {
				return err
			}
			defer db.Close() //nolint:errcheck // One-shot invocation cleanup

			if err := db.Migrate(cmd.Context(), os.DirFS(dir), "."); err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), "migrations applied")
			return nil
		},
	}

	down := &cobra.Command{
		Use:   "down",
		Short: "Roll back the most recent migration",
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := flags.loadConfig()
			if err != nil {
				return err
			}
			log := flags.newLogger(cfg)

			db, err := flags.openDB(log, cfg)
			if err != nil {
				return err
			}
			defer db.Close() //nolint:errcheck // One-shot invocation cleanup

			if err := db.MigrateDown(cmd.Context(), os.DirFS(dir), "."); err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), "rolled back")
			return nil
		},
	}

	status := &cobra.Command{
		Use:   "status",
		Short: "Show applied and pending migrations",
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := flags.loadConfig()
			if err != nil {
				return err
			}
			log := flags.newLogger(cfg)

			db, err := flags.openDB(log, cfg)
			if err != nil {
				return err
			}
			defer db.Close() //nolint:errcheck // One-shot invocation cleanup

			applied, pending, err := db.MigrationStatus(cmd.Context(), os.DirFS(dir), ".")
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			for _, m := range applied {
				fmt.Fprintf(out, "applied  %s  %s\n", m.Version, m.AppliedAt.Format("2006-01-02 15:04:05"))
			}
			for _, m := range pending {
				fmt.Fprintf(out, "pending  %s  %s\n", m.Version, m.Name)
			}
			if len(applied) == 0 && len(pending) == 0 {
				fmt.Fprintln(out, "no migrations found")
			}
			return nil
		},
	}

	cmd.AddCommand(up, down, status)
	return cmd
}
