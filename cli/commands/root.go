// Package commands implements the pdo-go command tree.
package commands

import (
	"context"
	"os"
	"os/signal"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/satishbabariya/pdo-go/cli/internal/config"
	"github.com/satishbabariya/pdo-go/cli/internal/ui"
	"github.com/satishbabariya/pdo-go/cli/internal/version"
	"github.com/satishbabariya/pdo-go/internal/debug"
)

// app carries state shared by all commands.
type app struct {
	v          *viper.Viper
	cfg        *config.Config
	configFile string
}

// NewRootCommand builds the command tree.
func NewRootCommand() *cobra.Command {
	a := &app{v: viper.New()}

	root := &cobra.Command{
		Use:   "pdo-go",
		Short: "Run SQL templates with ? and :name placeholders",
		Long: `pdo-go rewrites SQL templates written with positional (?) or named (:name)
placeholders into the native syntax of SQLite, PostgreSQL or MySQL, and runs
them with typed parameters.`,
		Version:       version.Current().Version,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return a.load()
		},
	}

	pf := root.PersistentFlags()
	pf.String("provider", "", "database provider: sqlite, postgresql or mysql")
	pf.String("url", "", "database connection url (default $DATABASE_URL)")
	pf.StringVar(&a.configFile, "config", "", "config file (default .pdo-go.yaml)")
	pf.Bool("debug", false, "enable debug logging")
	_ = a.v.BindPFlag("provider", pf.Lookup("provider"))
	_ = a.v.BindPFlag("database_url", pf.Lookup("url"))
	_ = a.v.BindPFlag("debug", pf.Lookup("debug"))

	root.AddCommand(
		newRewriteCommand(a),
		newQueryCommand(a),
		newExecCommand(a),
		newWatchCommand(a),
		newShellCommand(a),
		newVersionCommand(a),
	)
	return root
}

// Execute is the main entry point for the CLI
func Execute() error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	err := NewRootCommand().ExecuteContext(ctx)
	if err != nil {
		ui.PrintError("%v", err)
	}
	return err
}

func (a *app) load() error {
	cfg, err := config.Load(a.v, a.configFile)
	if err != nil {
		return err
	}
	debug.Init(cfg.Debug)
	debug.Debug("config loaded", "provider", cfg.Provider, "file", a.v.ConfigFileUsed())
	a.cfg = cfg
	return nil
}
