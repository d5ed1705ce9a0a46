// Package cli provides the command-line interface for sqlight.
package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/nerrad567/sqlight"
	"github.com/nerrad567/sqlight/internal/logging"
)

// Version information (set at build time via ldflags).
var (
	Version   = "dev"
	GitCommit = "unknown"
	BuildDate = "unknown"
)

// rootFlags holds the persistent flags shared by all commands.
type rootFlags struct {
	configPath   string
	dbPath       string
	templatesDir string
	busyTimeout  int
	verbose      bool
}

// NewRootCmd creates and returns the root command.
func NewRootCmd() *cobra.Command {
	flags := &rootFlags{}

	rootCmd := &cobra.Command{
		Use:   "sqlight",
		Short: "sqlight - SQLite convenience CLI",
		Long: `sqlight runs SQL statements and queries against a local SQLite
database, with queries supplied inline or as named template files
from a configured directory.`,
		Version:       Version,
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	pf := rootCmd.PersistentFlags()
	pf.StringVarP(&flags.configPath, "config", "c", "", "Path to YAML config file")
	pf.StringVar(&flags.dbPath, "db", "", "Path to the SQLite database file")
	pf.StringVar(&flags.templatesDir, "templates-dir", "", "Directory containing SQL template files")
	pf.IntVar(&flags.busyTimeout, "busy-timeout", 0, "Lock wait timeout in seconds")
	pf.BoolVarP(&flags.verbose, "verbose", "v", false, "Enable debug logging")

	rootCmd.AddCommand(newQueryCmd(flags))
	rootCmd.AddCommand(newExecCmd(flags))
	rootCmd.AddCommand(newMigrateCmd(flags))
	rootCmd.AddCommand(newVersionCmd())

	return rootCmd
}

// loadConfig builds the effective configuration from the config file
// (if given) and flag overrides.
func (f *rootFlags) loadConfig() (*sqlight.Config, error) {
	cfg := sqlight.DefaultConfig()

	if f.configPath != "" {
		loaded, err := sqlight.LoadConfig(f.configPath)
		if err != nil {
			return nil, err
		}
		cfg = loaded
	}

	// Flags override file values
	if f.dbPath != "" {
		cfg.Database = f.dbPath
	}
	if f.templatesDir != "" {
		cfg.SQLTemplatesDir = f.templatesDir
	}
	if f.busyTimeout > 0 {
		cfg.BusyTimeout = f.busyTimeout
	}
	if f.verbose {
		cfg.Logging.Level = "debug"
	}

	if cfg.Database == "" {
		return nil, fmt.Errorf("no database configured: pass --db or a config file with a database entry")
	}
	return cfg, nil
}

// newLogger builds the CLI logger from the effective configuration.
// Output defaults to stderr so query results on stdout stay clean.
func (f *rootFlags) newLogger(cfg *sqlight.Config) *logging.Logger {
	logCfg := cfg.Logging
	if logCfg.Output == "" || logCfg.Output == "stdout" {
		logCfg.Output = "stderr"
	}
	return logging.New(logCfg, Version)
}

// openDB opens a handle using the effective configuration.
//
// CLI invocations are one-shot, so autocommit is forced on: every
// statement persists without an explicit commit step.
func (f *rootFlags) openDB(log *logging.Logger, cfg *sqlight.Config) (*sqlight.DB, error) {
	db, err := sqlight.FromConfig(cfg,
		sqlight.WithAutocommit(true),
		sqlight.WithLogger(log.Logger),
	)
	if err != nil {
		return nil, err
	}
	log.Debug("database opened", "path", db.Path())
	return db, nil
}

// sqlSource builds the Sql value from either inline text or a template
// name. Exactly one of the two must be provided.
func sqlSource(args []string, template string) (sqlight.Sql, error) {
	switch {
	case template != "" && len(args) > 0:
		return sqlight.Sql{}, fmt.Errorf("pass either inline SQL or --template, not both")
	case template != "":
		return sqlight.Template(template), nil
	case len(args) == 1:
		return sqlight.Raw(args[0]), nil
	default:
		return sqlight.Sql{}, fmt.Errorf("pass inline SQL as a single argument, or --template")
	}
}

// queryParams converts --param flag values into query parameters.
// Values are passed as strings; SQLite's type affinity handles
// numeric coercion.
func queryParams(params []string) []any {
	args := make([]any, len(params))
	for i, p := range params {
		args[i] = p
	}
	return args
}
