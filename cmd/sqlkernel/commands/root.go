// Package commands implements the sqlkernel command line.
package commands

import (
	"context"

	"github.com/cockroachdb/errors"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"

	"github.com/nao1215/sqlkernel"
	"github.com/nao1215/sqlkernel/internal/config"
	"github.com/nao1215/sqlkernel/internal/logger"
)

// flagKeys maps command line flags to the configuration keys they override.
var flagKeys = map[string]string{
	"db":                "database.path",
	"mode":              "database.mode",
	"create-if-missing": "database.create_if_missing",
	"max-rows":          "output.max_rows",
	"html":              "output.html",
	"addr":              "server.addr",
	"path":              "server.path",
	"log-json":          "log.json",
	"log-level":         "log.level",
}

// rootOptions is shared by every subcommand.
type rootOptions struct {
	configPath string
	imports    []string
	// cfg is loaded before any subcommand runs
	cfg *config.Config
}

// NewRootCmd builds the sqlkernel command tree.
func NewRootCmd() *cobra.Command {
	opts := &rootOptions{}
	cmd := &cobra.Command{
		Use:   "sqlkernel",
		Short: "SQLite notebook kernel with Vega-Lite charts",
		Long: `sqlkernel runs SQL and %-magic cells against a SQLite database.

Cells are plain SQL or one magic command:
  %LOAD <path> [RW|R]     open a database
  %CREATE <path>          create a database
  %XVEGA_PLOT ... <> SQL  chart a query as Vega-Lite

Settings come from sqlkernel.toml, SQLKERNEL_* environment variables and flags.

Examples:
  sqlkernel exec --db shop.db "SELECT * FROM sales"
  sqlkernel serve --db shop.db --addr 127.0.0.1:8888`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			return opts.load(cmd)
		},
	}

	flags := cmd.PersistentFlags()
	flags.StringVarP(&opts.configPath, "config", "c", "", "configuration file (default ./sqlkernel.toml or ~/.sqlkernel/sqlkernel.toml)")
	flags.String("db", "", "database file opened at startup")
	flags.String("mode", config.DefaultMode, "database mode: RW or R")
	flags.Bool("create-if-missing", false, "create the database file if it does not exist")
	flags.StringSliceVar(&opts.imports, "import", nil, "CSV/TSV/LTSV/Parquet/XLSX file or directory imported at startup")
	flags.Int("max-rows", config.DefaultMaxRows, "rows rendered per result, 0 for all")
	flags.Bool("html", false, "add text/html tables to results")
	flags.Bool("log-json", false, "emit JSON logs")
	flags.String("log-level", config.DefaultLogLevel, "log level: debug, info, warn or error")

	cmd.AddCommand(newServeCmd(opts), newExecCmd(opts), newVersionCmd())
	return cmd
}

// load reads the configuration, applies flag overrides and sets up logging.
func (o *rootOptions) load(cmd *cobra.Command) error {
	v, err := config.NewViper(o.configPath)
	if err != nil {
		return err
	}
	var bindErr error
	cmd.Flags().VisitAll(func(f *pflag.Flag) {
		if key, ok := flagKeys[f.Name]; ok {
			bindErr = errors.CombineErrors(bindErr, v.BindPFlag(key, f))
		}
	})
	if bindErr != nil {
		return errors.Wrap(bindErr, "failed to bind flags")
	}

	cfg, err := config.LoadWithViper(v)
	if err != nil {
		return errors.WithHint(err, "check sqlkernel.toml, SQLKERNEL_* variables and flags")
	}
	if err := logger.Initialize(cfg.Log.JSON, cfg.Log.Level); err != nil {
		return err
	}
	o.cfg = cfg
	logger.Logger.Debugw("configuration loaded", "file", v.ConfigFileUsed(), "database", cfg.Database.Path)
	return nil
}

// openKernel starts a kernel as configured.
func (o *rootOptions) openKernel(ctx context.Context) (*sqlkernel.Kernel, error) {
	cfg := o.cfg
	builder := sqlkernel.NewBuilder().
		WithMaxRows(cfg.Output.MaxRows).
		WithHTML(cfg.Output.HTML).
		WithLogger(logger.Logger)
	if cfg.Database.Path != "" {
		builder.WithDatabase(cfg.Database.Path, cfg.DatabaseMode())
		if cfg.Database.CreateIfMissing {
			builder.CreateIfMissing()
		}
	}
	for _, path := range o.imports {
		builder.AddPath(path)
	}

	built, err := builder.Build(ctx)
	if err != nil {
		return nil, err
	}
	return built.Open(ctx)
}
