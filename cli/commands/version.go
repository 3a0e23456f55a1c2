package commands

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/satishbabariya/pdo-go/cli/internal/ui"
	"github.com/satishbabariya/pdo-go/cli/internal/version"
)

func newVersionCommand(a *app) *cobra.Command {
	var server bool
	var minServer string

	cmd := &cobra.Command{
		Use:   "version",
		Short: "Print version information",
		Long: `Print build information. With --server or --min-server the configured
database is contacted and its version reported or checked.`,
		Example: `  pdo-go version
  pdo-go version --min-server ">= 3.35" --url file:app.db`,
		RunE: func(cmd *cobra.Command, args []string) error {
			fmt.Fprintln(cmd.OutOrStdout(), version.Current().Report())
			if !server && minServer == "" {
				return nil
			}

			ctx := cmd.Context()
			c, err := a.connect(ctx)
			if err != nil {
				return err
			}
			defer c.Close(ctx)

			v, err := c.ServerVersion(ctx)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Server: %s %s\n", c.Dialect().Name(), v)

			if minServer != "" {
				if err := c.RequireServerVersion(ctx, minServer); err != nil {
					return err
				}
				ui.PrintSuccess("server satisfies %s", minServer)
			}
			return nil
		},
	}

	cmd.Flags().BoolVar(&server, "server", false, "also print the database server version")
	cmd.Flags().StringVar(&minServer, "min-server", "", "fail unless the server version satisfies this constraint")
	return cmd
}
