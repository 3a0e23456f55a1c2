package commands

import (
	"time"

	"github.com/spf13/afero"
	"github.com/spf13/cobra"

	"github.com/satishbabariya/pdo-go/cli/internal/config"
	"github.com/satishbabariya/pdo-go/cli/internal/ui"
	"github.com/satishbabariya/pdo-go/cli/internal/watch"
)

func newWatchCommand(a *app) *cobra.Command {
	var flags statementFlags
	var debounce time.Duration

	cmd := &cobra.Command{
		Use:   "watch FILE",
		Short: "Re-run a SQL file every time it is saved",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
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

			file := args[0]
			runFile := func() error {
				b, err := afero.ReadFile(config.AppFs, file)
				if err != nil {
					return err
				}
				ui.PrintInfo("%s  %s", time.Now().Format(time.TimeOnly), file)
				return run(ctx, cmd.OutOrStdout(), c, string(b), params, flags.json)
			}

			w, err := watch.NewWatcher(file, runFile,
				watch.WithDebounce(debounce),
				watch.WithErrorHandler(func(err error) { ui.PrintError("%v", err) }),
			)
			if err != nil {
				return err
			}
			defer w.Stop()

			if err := w.Start(); err != nil {
				// a broken first version of the file is reported, not fatal
				ui.PrintWarning("%v", err)
			}
			ui.PrintInfo("watching %s, press Ctrl+C to stop", file)

			<-ctx.Done()
			return nil
		},
	}

	flags.register(cmd)
	cmd.Flags().DurationVar(&debounce, "debounce", watch.DefaultDebounce, "quiet period before re-running")
	return cmd
}
