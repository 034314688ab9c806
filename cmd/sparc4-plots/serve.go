package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/sparc4-pipeline/sparc4-plots/internal/config"
	"github.com/sparc4-pipeline/sparc4-plots/internal/monitor"
	"github.com/sparc4-pipeline/sparc4-plots/internal/server"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serve the monitor flux plot and observations over HTTP.",
	Long: `Scan the data directory like sparc4-monitor and serve the result:

  GET /health
  GET /api/v1/series           every observation as JSON
  GET /api/v1/series/:filter   one filter
  GET /api/v1/summary          per-filter table
  GET /api/v1/plot.png         max flux against time

With --interval the directory is rescanned until the server stops.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, _ []string) error {
		ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
		defer stop()

		var store monitor.Store
		if cfg.CachePath != "" {
			cache, err := monitor.OpenCache(ctx, cfg.CachePath)
			if err != nil {
				return err
			}
			defer cache.Close()
			store = cache
		}

		srv := server.New(cfg.Style)
		if err := monitor.Watch(ctx, cfg.Monitor, store, 0, srv.Update); err != nil {
			return err
		}

		ctx, cancel := context.WithCancel(ctx)
		defer cancel()
		watchErr := make(chan error, 1)
		go func() {
			err := monitor.Rescan(ctx, cfg.Monitor, store, cfg.Interval, srv.Update)
			if err != nil {
				cancel()
			}
			watchErr <- err
		}()

		if err := srv.Run(ctx, cfg.Addr); err != nil {
			return err
		}
		cancel()
		return <-watchErr
	},
}

func init() {
	config.MonitorFlags(serveCmd.Flags())
	serveCmd.Flags().String("addr", config.DefaultAddr, "Listen address")
}
