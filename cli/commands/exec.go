package commands

import (
	"github.com/spf13/cobra"

	"github.com/satishbabariya/pdo-go/cli/internal/ui"
)

func newExecCommand(a *app) *cobra.Command {
	var params []string
	var file string

	cmd := &cobra.Command{
		Use:     "exec [sql | -]",
		Short:   "Run a SQL template and print the affected row count",
		Example: `  pdo-go exec "UPDATE fruit SET note = :note WHERE id = :id" -p note=ripe -p id=2`,
		RunE: func(cmd *cobra.Command, args []string) error {
			query, err := readSQL(cmd, file, args)
			if err != nil {
				return err
			}
			ps, err := parseParams(params)
			if err != nil {
				return err
			}

			ctx := cmd.Context()
			c, err := a.connect(ctx)
			if err != nil {
				return err
			}
			defer c.Close(ctx)

			var n int64
			if ps == nil {
				n, err = c.Exec(ctx, query)
			} else {
				n, err = c.Exec(ctx, query, ps)
			}
			if err != nil {
				return err
			}
			ui.PrintSuccess("%d rows affected", n)
			return nil
		},
	}

	cmd.Flags().StringArrayVarP(&params, "param", "p", nil, "parameter as name=value, N=value or a bare positional value (repeatable)")
	cmd.Flags().StringVarP(&file, "file", "f", "", "read the SQL template from a file")
	return cmd
}
