// Package httpapi wires the core's collaborator boundary onto an Echo
// server: graph catalog CRUD, runGraph/stopGraph/getSpec, and health and
// metrics endpoints (spec.md §6, SPEC_FULL.md §4.H).
package httpapi

import (
	"context"
	"net/http"

	"github.com/labstack/echo/v4"
	echomiddleware "github.com/labstack/echo/v4/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/valaphee/flowgo/internal/domain/executor"
	"github.com/valaphee/flowgo/internal/infrastructure/catalog"
	"github.com/valaphee/flowgo/internal/infrastructure/httpapi/handlers"
	"github.com/valaphee/flowgo/internal/infrastructure/httpapi/middleware"
	"github.com/valaphee/flowgo/internal/infrastructure/monitoring"
	"github.com/valaphee/flowgo/internal/pkg/eventbus"
	"github.com/valaphee/flowgo/internal/runtime/host"
	"github.com/valaphee/flowgo/internal/runtime/scope"
)

// Config bundles the collaborators the router needs.
type Config struct {
	Store     *catalog.Store
	Executors *executor.Registry
	Host      host.Host
	Bus       *eventbus.EventBus
	Table     *scope.Table
	Metrics   *monitoring.Metrics

	RateLimitPerSecond float64
	RateLimitBurst     int
}

// New builds an Echo instance with every route, middleware, and handler
// wired per cfg.
func New(ctx context.Context, cfg Config) *echo.Echo {
	e := echo.New()
	e.HTTPErrorHandler = middleware.ErrorHandler()
	e.Use(echomiddleware.Recover())
	e.Use(middleware.Logger())

	if cfg.Metrics != nil {
		e.Use(middleware.Metrics(cfg.Metrics))
		e.GET("/metrics", echo.WrapHandler(promhttp.Handler()))
	}

	if cfg.RateLimitPerSecond > 0 {
		e.Use(middleware.RateLimit(ctx, cfg.RateLimitPerSecond, cfg.RateLimitBurst))
	}

	e.GET("/healthz", func(c echo.Context) error {
		return c.JSON(http.StatusOK, map[string]bool{"ok": true})
	})

	catalogHandler := handlers.NewCatalogHandler(cfg.Store)
	e.GET("/graphs", catalogHandler.List)
	e.GET("/graphs/:name", catalogHandler.Get)
	e.PUT("/graphs/:name", catalogHandler.Save)
	e.DELETE("/graphs/:name", catalogHandler.Delete)

	runtimeHandler := handlers.NewRuntimeHandler(cfg.Store, cfg.Executors, cfg.Host, cfg.Bus, cfg.Table, cfg.Metrics)
	e.POST("/graphs/:name/run", runtimeHandler.Run)
	e.GET("/scopes/:id", runtimeHandler.State)
	e.DELETE("/scopes/:id", runtimeHandler.Stop)
	e.GET("/spec", runtimeHandler.Spec)

	eventsHandler := handlers.NewEventsHandler(cfg.Bus)
	e.GET("/scopes/:id/events", eventsHandler.Stream)

	return e
}
