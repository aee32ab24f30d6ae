package main

import (
	"context"
	"log/slog"
	"os/signal"
	"path/filepath"
	"sync"
	"syscall"

	"github.com/spf13/cobra"

	httpserver "github.com/ekisa-team/topology/internal/server/http"
	"github.com/ekisa-team/topology/internal/topology"
)

func newServeCmd(a *app) *cobra.Command {
	var (
		host string
		port int
	)

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the topology registry over HTTP",
		Long: `Serve the topology registry over HTTP.

Files and directories listed under registry.preload are loaded at startup.
When storage.watch_dir is set, new *.json files dropped there are loaded
automatically.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if cmd.Flags().Changed("host") {
				a.cfg.Server.Host = host
			}
			if cmd.Flags().Changed("port") {
				a.cfg.Server.HTTPPort = port
			}

			ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
			defer stop()

			return a.serve(ctx)
		},
	}

	cmd.Flags().StringVar(&host, "host", "", "interface to listen on (overrides config)")
	cmd.Flags().IntVarP(&port, "port", "p", 0, "HTTP port to listen on (overrides config)")

	return cmd
}

func (a *app) serve(ctx context.Context) error {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	registry := a.newRegistry()

	// Preload failures are logged, not fatal.
	if err := loadPaths(ctx, registry, a.cfg.Registry.Preload); err != nil {
		slog.Warn("Some topologies could not be preloaded", "error", err)
	}
	slog.Info("Topology registry ready", "count", registry.Len())

	var wg sync.WaitGroup
	if dir := a.cfg.Storage.WatchDir; dir != "" {
		if sameDir(dir, a.cfg.Storage.OutputDir) {
			slog.Warn("Watch directory is also the output directory; saved topologies will be loaded again", "dir", dir)
		}

		watcher := topology.NewWatcher(registry, dir)
		wg.Add(1)
		go func() {
			defer wg.Done()
			if err := watcher.Run(ctx); err != nil {
				slog.Error("Topology watcher stopped", "error", err)
			}
		}()
	}

	srv := httpserver.NewServer(a.cfg.Server.Host, a.cfg.Server.HTTPPort, version, registry)
	err := srv.Run(ctx)

	cancel()
	wg.Wait()
	return err
}

func sameDir(a, b string) bool {
	absA, errA := filepath.Abs(a)
	absB, errB := filepath.Abs(b)
	return errA == nil && errB == nil && absA == absB
}
