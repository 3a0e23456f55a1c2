package commands

import (
	"github.com/spf13/cobra"
)

func newQueryCommand(a *app) *cobra.Command {
	var flags statementFlags

	cmd := &cobra.Command{
		Use:   "query [sql | -]",
		Short: "Run a SQL template and print its rows",
		Example: `  pdo-go query "SELECT * FROM fruit WHERE name = :name" -p name=apple
  pdo-go query "SELECT * FROM fruit WHERE calories > ?" -p 90 --json`,
		RunE: func(cmd *cobra.Command, args []string) error {
			query, err := readSQL(cmd, flags.file, args)
			if err != nil {
				return err
			}
			params, err := parseParams(flags.params)
			if err != nil {
				return err
			}

			ctx := cmd.Context()
			c, err := a.connect(ctx)
			if err != nil {
				return err
			}
			defer c.Close(ctx)

			return run(ctx, cmd.OutOrStdout(), c, query, params, flags.json)
		},
	}

	flags.register(cmd)
	return cmd
}
