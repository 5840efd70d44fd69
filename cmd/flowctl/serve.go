package main

import (
	"context"
	"fmt"
	"net"
	"os/signal"
	"strconv"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/valaphee/flowgo/cmd/server/config"
	"github.com/valaphee/flowgo/internal/domain/executor/builtin"
	"github.com/valaphee/flowgo/internal/infrastructure/catalog"
	"github.com/valaphee/flowgo/internal/infrastructure/httpapi"
	"github.com/valaphee/flowgo/internal/infrastructure/monitoring"
	"github.com/valaphee/flowgo/internal/pkg/eventbus"
	"github.com/valaphee/flowgo/internal/runtime/host"
	"github.com/valaphee/flowgo/internal/runtime/scope"
)

func newServeCmd() *cobra.Command {
	var (
		addr       string
		catalogDir string
	)

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the graph catalog and runtime over HTTP",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load()
			if err != nil {
				return fmt.Errorf("load config: %w", err)
			}
			if addr != "" {
				cfg.Server.Host, cfg.Server.Port = splitHostPort(addr, cfg.Server.Host, cfg.Server.Port)
			}
			if catalogDir != "" {
				cfg.Catalog.Dir = catalogDir
			}

			ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
			defer stop()

			store := catalog.NewStore(cfg.Catalog.Dir)
			if err := store.Reload(); err != nil {
				return fmt.Errorf("load graph catalog: %w", err)
			}
			fmt.Printf("catalog loaded (%d graphs) from %s\n", len(store.List()), cfg.Catalog.Dir)

			executors := builtin.NewDefaultRegistry()
			eventBus := eventbus.New()
			table := scope.NewTable()
			metrics := monitoring.NewMetrics("flowgo")

			e := httpapi.New(ctx, httpapi.Config{
				Store:              store,
				Executors:          executors,
				Host:               host.Goroutine{},
				Bus:                eventBus,
				Table:              table,
				Metrics:            metrics,
				RateLimitPerSecond: cfg.RateLimit.RequestsPerSecond,
				RateLimitBurst:     cfg.RateLimit.Burst,
			})
			e.HideBanner = true

			errCh := make(chan error, 1)
			go func() {
				fmt.Printf("listening on %s\n", cfg.ServerAddr())
				errCh <- e.Start(cfg.ServerAddr())
			}()

			select {
			case <-ctx.Done():
			case err := <-errCh:
				if err != nil {
					return err
				}
			}

			shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
			defer cancel()
			if err := e.Shutdown(shutdownCtx); err != nil {
				return fmt.Errorf("shutdown: %w", err)
			}
			for _, id := range table.List() {
				_ = table.Stop(id)
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&addr, "addr", "", "listen address, host:port (overrides HOST/PORT env)")
	cmd.Flags().StringVar(&catalogDir, "catalog-dir", "", "graph catalog directory (overrides CATALOG_DIR env)")
	return cmd
}

// splitHostPort parses "host:port", falling back to the given defaults for
// whichever half is empty or malformed.
func splitHostPort(addr, defaultHost string, defaultPort int) (string, int) {
	h, p, err := net.SplitHostPort(addr)
	if err != nil {
		return defaultHost, defaultPort
	}
	if h == "" {
		h = defaultHost
	}
	port, err := strconv.Atoi(p)
	if err != nil {
		port = defaultPort
	}
	return h, port
}
