package cli

import (
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/BCalow/engine-initial-variables/internal/server"
)

// ServeOptions holds flags for the serve command.
type ServeOptions struct {
	*RootOptions
	Addr string
}

// NewServeCommand creates the serve command.
func NewServeCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &ServeOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve solve and check over a websocket",
		Long: `Accept JSON requests on ws://<addr>/ws.

Each connection reads requests in order and answers each with one reply
carrying the request id and a trace id. The server stops on SIGINT or
SIGTERM after in-flight connections drain.

Examples:
  nozzle serve
  nozzle serve --addr 127.0.0.1:9100 --config nozzle.ini`,
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runServe(opts, cmd)
		},
	}

	cmd.Flags().StringVar(&opts.Addr, "addr", "", "listen address (default from config, then "+server.DefaultAddr+")")

	return cmd
}

func runServe(opts *ServeOptions, cmd *cobra.Command) error {
	addr := opts.Config.Addr
	if opts.Addr != "" {
		addr = opts.Addr
	}

	logger := opts.logger(cmd)
	serverOpts := []server.Option{server.WithAddr(addr), server.WithLogger(logger)}
	if len(opts.Config.AllowedOrigins) > 0 {
		serverOpts = append(serverOpts, server.WithUpgrader(server.OriginUpgrader(opts.Config.AllowedOrigins...)))
	}
	if opts.TraceIDs != nil {
		serverOpts = append(serverOpts, server.WithTraceIDs(opts.TraceIDs))
	}
	srv := server.New(opts.newEngine(logger), serverOpts...)

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := srv.ListenAndServe(ctx); err != nil {
		return WrapExitError(ExitCommandError, "server failed", err)
	}
	return nil
}
