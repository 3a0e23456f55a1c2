package commands

import (
	"errors"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/satishbabariya/pdo-go/cli/internal/ui"
	"github.com/satishbabariya/pdo-go/query/placeholder"
	"github.com/satishbabariya/pdo-go/runtime/client"
)

func newRewriteCommand(a *app) *cobra.Command {
	var (
		file    string
		dialect string
		report  bool
	)

	cmd := &cobra.Command{
		Use:   "rewrite [sql | -]",
		Short: "Show the driver-native form of a SQL template",
		Long: `Rewrite a template without connecting to a database. The target dialect
defaults to the configured provider.`,
		Example: `  pdo-go rewrite --dialect postgresql "SELECT * FROM t WHERE a = :a OR b = :a"
  pdo-go rewrite --report -f query.sql`,
		RunE: func(cmd *cobra.Command, args []string) error {
			query, err := readSQL(cmd, file, args)
			if err != nil {
				return err
			}
			if dialect == "" {
				dialect = a.cfg.Provider
			}
			d, err := client.DialectFor(dialect)
			if err != nil {
				return err
			}

			rewritten, err := placeholder.Rewrite(query, d.Placeholder)
			if err != nil {
				return describeRewriteError(query, err)
			}

			if report {
				return ui.PrintMarkdown(ui.RewriteReport(string(d.Name()), rewritten))
			}
			fmt.Fprintln(cmd.OutOrStdout(), rewritten.SQL)
			return nil
		},
	}

	cmd.Flags().StringVarP(&file, "file", "f", "", "read the SQL template from a file")
	cmd.Flags().StringVarP(&dialect, "dialect", "d", "", "target dialect: sqlite, postgresql or mysql")
	cmd.Flags().BoolVar(&report, "report", false, "render a slot report")

	return cmd
}

// describeRewriteError points at the offending token.
func describeRewriteError(query string, err error) error {
	var pe *placeholder.ParseError
	if !errors.As(err, &pe) || strings.Contains(query, "\n") {
		return err
	}
	return fmt.Errorf("%w\n  %s\n  %s^", err, query, strings.Repeat(" ", pe.Offset))
}
