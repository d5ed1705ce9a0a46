package cli

import (
	"encoding/json"
	"fmt"
	"io"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/spf13/cobra"

	"github.com/nerrad567/sqlight"
)

// newQueryCmd builds the `query` command.
func newQueryCmd(flags *rootFlags) *cobra.Command {
	var (
		template string
		params   []string
		format   string
	)

	cmd := &cobra.Command{
		Use:   "query [SQL]",
		Short: "Run a query and print the result rows",
		Example: `  # Inline SQL
  sqlight query --db app.db "SELECT id, name FROM users"

  # Named template with parameters
  sqlight -c config.yaml query --template get_user_by_id.sql --param 3

  # JSON output
  sqlight query --db app.db "SELECT * FROM users" --format json`,
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

			rows, err := db.Query(cmd.Context(), src, queryParams(params)...)
			if err != nil {
				return err
			}
			defer rows.Close() //nolint:errcheck // One-shot invocation cleanup

			return renderRows(cmd.OutOrStdout(), rows, format)
		},
	}

	cmd.Flags().StringVarP(&template, "template", "t", "", "Named SQL template file to run")
	cmd.Flags().StringArrayVarP(&params, "param", "p", nil, "Query parameter (repeatable, positional)")
	cmd.Flags().StringVarP(&format, "format", "f", "table", "Output format: table, json")

	return cmd
}

// renderRows drains the cursor and writes the rows in the requested
// format.
func renderRows(w io.Writer, rows *sqlight.Rows, format string) error {
	cols := rows.Columns()

	// The handle uses the default tuple factory; rebuild keyed rows here
	// so both output formats can look values up by column name.
	results := make([]map[string]any, 0)
	for rows.Next() {
		values := rows.Row().([]any)
		results = append(results, sqlight.MapFactory(cols, values).(map[string]any))
	}
	if err := rows.Err(); err != nil {
		return err
	}

	switch format {
	case "json":
		return renderJSON(w, results)
	case "table":
		renderTable(w, cols, results)
		return nil
	default:
		return fmt.Errorf("unknown output format %q", format)
	}
}

// renderTable writes the rows as an aligned text table.
func renderTable(w io.Writer, cols []string, results []map[string]any) {
	t := table.NewWriter()
	t.SetOutputMirror(w)
	t.SetStyle(table.StyleLight)

	headerRow := make(table.Row, len(cols))
	for i, col := range cols {
		headerRow[i] = col
	}
	t.AppendHeader(headerRow)

	for _, result := range results {
		row := make(table.Row, len(cols))
		for i, col := range cols {
			row[i] = formatValue(result[col])
		}
		t.AppendRow(row)
	}

	t.Render()
	_, _ = fmt.Fprintf(w, "(%d rows)\n", len(results))
}

// renderJSON writes the rows as a JSON array of objects.
func renderJSON(w io.Writer, results []map[string]any) error {
	for i, result := range results {
		for k, v := range result {
			if b, ok := v.([]byte); ok {
				results[i][k] = string(b)
			}
		}
	}
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(results)
}

// formatValue renders a single cell for table output.
func formatValue(v any) string {
	switch value := v.(type) {
	case nil:
		return "NULL"
	case []byte:
		return string(value)
	default:
		return fmt.Sprintf("%v", value)
	}
}
