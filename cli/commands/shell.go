package commands

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/AlecAivazis/survey/v2"
	"github.com/AlecAivazis/survey/v2/terminal"
	"github.com/spf13/cobra"

	"github.com/satishbabariya/pdo-go/cli/internal/paramlit"
	"github.com/satishbabariya/pdo-go/cli/internal/ui"
	"github.com/satishbabariya/pdo-go/query/placeholder"
	"github.com/satishbabariya/pdo-go/runtime/client"
)

// prompter asks the user for one line of input.
type prompter func(message string) (string, error)

func surveyPrompt(message string) (string, error) {
	var line string
	err := survey.AskOne(&survey.Input{Message: message}, &line)
	return line, err
}

func newShellCommand(a *app) *cobra.Command {
	var asJSON bool

	cmd := &cobra.Command{
		Use:   "shell",
		Short: "Interactive prompt that asks for each placeholder value",
		Long: `Start an interactive session. Enter a SQL template; when it has placeholders
you are asked for each value, typed the same way as --param values
(quoted text, numbers, true/false, null). Type \q to quit.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			c, err := a.connect(ctx)
			if err != nil {
				return err
			}
			defer c.Close(ctx)

			ui.PrintHeader("pdo-go shell", fmt.Sprintf("%s  %s", a.cfg.Provider, c.Dialect().DriverName()))
			return shell(ctx, cmd.OutOrStdout(), c, surveyPrompt, asJSON)
		},
	}

	cmd.Flags().BoolVar(&asJSON, "json", false, "print rows as JSON")
	return cmd
}

// shell reads templates until \q, end of input or interrupt. Statement
// errors are printed and the session continues.
func shell(ctx context.Context, out io.Writer, c *client.Client, ask prompter, asJSON bool) error {
	for {
		line, err := ask("sql>")
		if errors.Is(err, terminal.InterruptErr) || errors.Is(err, io.EOF) {
			return nil
		}
		if err != nil {
			return err
		}

		line = strings.TrimSpace(line)
		switch line {
		case "":
			continue
		case `\q`, "exit", "quit":
			return nil
		}

		if err := shellStatement(ctx, out, c, ask, line, asJSON); err != nil {
			if errors.Is(err, terminal.InterruptErr) {
				return nil
			}
			ui.PrintError("%v", err)
		}
		if ctx.Err() != nil {
			return nil
		}
	}
}

func shellStatement(ctx context.Context, out io.Writer, c *client.Client, ask prompter, query string, asJSON bool) error {
	s, err := c.Prepare(ctx, query)
	if err != nil {
		return err
	}
	defer s.Close()

	cmd := s.Command()
	for i, slot := range cmd.Slots {
		var designator any = i + 1
		label := fmt.Sprintf("?%d", i+1)
		if cmd.Mode == placeholder.ModeNamed {
			label = cmd.ParameterName(slot)
			designator = label
		}

		raw, err := ask(label + " =")
		if err != nil {
			return err
		}
		v, err := paramlit.ParseValue(raw)
		if err != nil {
			return err
		}
		if err := s.BindValue(designator, v); err != nil {
			return err
		}
	}

	if err := s.Execute(ctx); err != nil {
		return err
	}
	return printResult(out, s, asJSON)
}
