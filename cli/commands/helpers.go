package commands

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"github.com/spf13/afero"
	"github.com/spf13/cobra"

	"github.com/satishbabariya/pdo-go/cli/internal/config"
	"github.com/satishbabariya/pdo-go/cli/internal/paramlit"
	"github.com/satishbabariya/pdo-go/cli/internal/ui"
	"github.com/satishbabariya/pdo-go/runtime/client"
	"github.com/satishbabariya/pdo-go/runtime/pdo"
	"github.com/satishbabariya/pdo-go/runtime/types"
)

// connect opens a client from the loaded configuration.
func (a *app) connect(ctx context.Context) (*client.Client, error) {
	if a.cfg.DatabaseURL == "" {
		return nil, fmt.Errorf("no database url: use --url, database_url in the config file or DATABASE_URL")
	}
	opts, err := a.cfg.ClientOptions()
	if err != nil {
		return nil, err
	}
	return client.New(ctx, a.cfg.DatabaseConfig(), opts...)
}

// statementFlags are shared by commands that run SQL.
type statementFlags struct {
	params []string
	file   string
	json   bool
}

func (f *statementFlags) register(cmd *cobra.Command) {
	cmd.Flags().StringArrayVarP(&f.params, "param", "p", nil, "parameter as name=value, N=value or a bare positional value (repeatable)")
	cmd.Flags().StringVarP(&f.file, "file", "f", "", "read the SQL template from a file")
	cmd.Flags().BoolVar(&f.json, "json", false, "print rows as JSON")
}

// readSQL takes the template from --file, the arguments, or stdin when the
// only argument is "-".
func readSQL(cmd *cobra.Command, file string, args []string) (string, error) {
	switch {
	case file != "":
		b, err := afero.ReadFile(config.AppFs, file)
		if err != nil {
			return "", err
		}
		return strings.TrimSpace(string(b)), nil
	case len(args) == 1 && args[0] == "-":
		b, err := io.ReadAll(cmd.InOrStdin())
		if err != nil {
			return "", err
		}
		return strings.TrimSpace(string(b)), nil
	case len(args) > 0:
		return strings.Join(args, " "), nil
	default:
		return "", fmt.Errorf("no SQL given: pass it as an argument, with --file, or as - to read stdin")
	}
}

// run prepares and executes query, then prints its result.
func run(ctx context.Context, out io.Writer, c *client.Client, query string, params pdo.Params, asJSON bool) error {
	var ps []pdo.Params
	if params != nil {
		ps = append(ps, params)
	}
	s, err := c.Query(ctx, query, ps...)
	if err != nil {
		return err
	}
	defer s.Close()
	return printResult(out, s, asJSON)
}

// printResult prints every rowset of an executed statement, or the affected
// row count when it produced none.
func printResult(out io.Writer, s *pdo.Statement, asJSON bool) error {
	if s.ColumnCount() == 0 {
		ui.PrintSuccess("%d rows affected", s.RowCount())
		return nil
	}
	for {
		if asJSON {
			rows, err := s.FetchAll(pdo.FetchDefault)
			if err != nil {
				return err
			}
			enc := json.NewEncoder(out)
			enc.SetIndent("", "  ")
			if err := enc.Encode(rows); err != nil {
				return err
			}
		} else if err := printTable(s); err != nil {
			return err
		}
		if !s.NextRowset() {
			return nil
		}
	}
}

func printTable(s *pdo.Statement) error {
	columns := make([]string, s.ColumnCount())
	for i := range columns {
		meta, _ := s.GetColumnMeta(i)
		columns[i] = meta.Name
	}
	all, err := s.FetchAll(pdo.FetchNum)
	if err != nil {
		return err
	}
	rows := make([][]any, len(all))
	for i, r := range all {
		rows[i] = r.(*types.Row).Slice()
	}
	return ui.PrintTable(columns, rows)
}

func parseParams(literals []string) (pdo.Params, error) {
	return paramlit.Parse(literals)
}
