package cli

import (
	"fmt"

	"github.com/spf13/cobra"
)

// newExecCmd builds the `exec` command.
func newExecCmd(flags *rootFlags) *cobra.Command {
	var (
		template string
		params   []string
		script   bool
	)

	cmd := &cobra.Command{
		Use:   "exec [SQL]",
		Short: "Execute a statement that returns no rows",
		Example: `  # Inline statement
  sqlight exec --db app.db "DELETE FROM sessions WHERE expired = 1"

  # Named template with parameters
  sqlight -c config.yaml exec --template insert_user.sql --param Alice

  # Multi-statement script
  sqlight exec --db app.db --template seed.sql --script`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := flags.loadConfig()
			if err != nil {
				return err
			}
			log := flags.newLogger(cfg)

			src, err := sqlSource(args, template)
			if err != nil {
				return err
			}

			db, err := flags.openDB(log, cfg)
			if err != nil {
				return err
			}
			defer db.Close() //nolint:errcheck // One-shot invocation cleanup

			if script {
				if len(params) > 0 {
					return fmt.Errorf("--param is not supported with --script")
				}
				if err := db.ExecuteScript(cmd.Context(), src); err != nil {
					return err
				}
				fmt.Fprintln(cmd.OutOrStdout(), "script executed")
				return nil
			}

			result, err := db.Execute(cmd.Context(), src, queryParams(params)...)
			if err != nil {
				return err
			}

			affected, err := result.RowsAffected()
			if err != nil {
				return fmt.Errorf("checking rows affected: %w", err)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "%d row(s) affected\n", affected)
			return nil
		},
	}

	cmd.Flags().StringVarP(&template, "template", "t", "", "Named SQL template file to run")
	cmd.Flags().StringArrayVarP(&params, "param", "p", nil, "Statement parameter (repeatable, positional)")
	cmd.Flags().BoolVar(&script, "script", false, "Execute as a multi-statement script")

	return cmd
}
