package commands

import (
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/pterm/pterm"
	"github.com/spf13/cobra"

	"github.com/nao1215/sqlkernel/internal/config"
	"github.com/nao1215/sqlkernel/internal/logger"
	"github.com/nao1215/sqlkernel/transport"
)

func newServeCmd(opts *rootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:     "serve",
		Aliases: []string{"server"},
		Short:   "Serve the kernel over a websocket",
		Long: `Serve the kernel to notebook front ends. Each websocket frame carries one
JSON message; the server stops on SIGINT, SIGTERM or a shutdown_request.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			k, err := opts.openKernel(ctx)
			if err != nil {
				return err
			}
			defer k.Close()

			cfg := opts.cfg
			srv := transport.NewServer(k, transport.Options{
				Path:           cfg.Server.Path,
				AllowedOrigins: cfg.Server.AllowedOrigins,
				ReadLimit:      cfg.Server.ReadLimit,
				PingInterval:   time.Duration(cfg.Server.PingIntervalSeconds) * time.Second,
			}, logger.Logger)

			database := "none"
			if db := k.Database(); db != nil {
				database = db.Path()
			}
			fmt.Fprintln(cmd.OutOrStdout(), pterm.Info.Sprintf("sqlkernel on ws://%s%s (database: %s)",
				cfg.Server.Addr, cfg.Server.Path, database))
			return srv.Run(ctx, cfg.Server.Addr)
		},
	}
	cmd.Flags().String("addr", config.DefaultAddr, "listen address")
	cmd.Flags().String("path", config.DefaultPath, "websocket endpoint path")
	return cmd
}
