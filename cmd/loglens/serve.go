package main

import (
	"context"
	"fmt"
	"io"

	log "github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/tinytelemetry/loglens/internal/config"
	"github.com/tinytelemetry/loglens/internal/httpserver"
)

func newServeCmd(configPath *string) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "serve [files...]",
		Short: "Analyse the input once and serve the summary over HTTP",
		Long: `serve reads the input exactly like the root command, then exposes the
finished summary on a read-only HTTP API until interrupted:

  GET /api/health
  GET /api/summary?top=N
  GET /api/levels
  GET /api/levels/:level`,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig(cmd, *configPath)
			if err != nil {
				return err
			}
			return runServe(cmd.Context(), cfg, args, cmd.InOrStdin(), cmd.ErrOrStderr(), nil)
		},
	}
	cmd.Flags().String("addr", config.DefaultAddr, "HTTP listen address")
	return cmd
}

// runServe blocks until ctx is done. ready, if set, receives the bound address.
func runServe(ctx context.Context, cfg config.Config, paths []string, stdin io.Reader, stderr io.Writer, ready func(addr string)) error {
	res, err := analyze(ctx, cfg, paths, stdin)
	if err != nil {
		return err
	}
	if ctx.Err() != nil {
		// Interrupted while reading; nothing to serve.
		return nil
	}

	apiServer := httpserver.NewServer(cfg.Addr, res.Aggregator, cfg.Top)
	if err := apiServer.Start(); err != nil {
		return fmt.Errorf("failed to start API server: %w", err)
	}
	defer apiServer.Stop()

	printStartupBanner(stderr, cfg, apiServer.Addr(), res)
	if ready != nil {
		ready(apiServer.Addr())
	}

	<-ctx.Done()
	log.Debug("serve: context done, stopping API server")

	fmt.Fprintln(stderr, "\nShutting down gracefully...")
	return nil
}
