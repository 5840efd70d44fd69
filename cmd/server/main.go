package main

import (
	"context"
	"fmt"
	"log"
	"os/signal"
	"syscall"
	"time"

	"github.com/valaphee/flowgo/cmd/server/config"
	"github.com/valaphee/flowgo/internal/domain/executor/builtin"
	"github.com/valaphee/flowgo/internal/infrastructure/catalog"
	"github.com/valaphee/flowgo/internal/infrastructure/httpapi"
	"github.com/valaphee/flowgo/internal/infrastructure/monitoring"
	"github.com/valaphee/flowgo/internal/pkg/eventbus"
	"github.com/valaphee/flowgo/internal/runtime/host"
	"github.com/valaphee/flowgo/internal/runtime/scope"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}

	fmt.Println("🚀 flowgo - dataflow graph runtime")
	fmt.Printf("📍 Server: %s\n", cfg.ServerAddr())
	fmt.Printf("🗂️  Catalog: %s\n", cfg.Catalog.Dir)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	store := catalog.NewStore(cfg.Catalog.Dir)
	if err := store.Reload(); err != nil {
		log.Fatalf("failed to load graph catalog: %v", err)
	}
	fmt.Printf("✅ Catalog loaded (%d graphs)\n", len(store.List()))

	executors := builtin.NewDefaultRegistry()
	fmt.Printf("✅ Executor registry initialized (%d kinds)\n", len(executors.Kinds()))

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

	go func() {
		fmt.Printf("🌐 Server listening on %s\n", cfg.ServerAddr())
		if err := e.Start(cfg.ServerAddr()); err != nil {
			log.Printf("server error: %v", err)
		}
	}()

	<-ctx.Done()
	fmt.Println("\n🛑 Shutting down gracefully...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := e.Shutdown(shutdownCtx); err != nil {
		log.Printf("server shutdown error: %v", err)
	}

	for _, id := range table.List() {
		if err := table.Stop(id); err != nil {
			log.Printf("error stopping scope %s: %v", id, err)
		}
	}

	fmt.Println("👋 Stopped")
}
