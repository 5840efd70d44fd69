package handlers

import (
	"context"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/valaphee/flowgo/internal/domain/executor"
	"github.com/valaphee/flowgo/internal/infrastructure/catalog"
	"github.com/valaphee/flowgo/internal/infrastructure/httpapi/dto"
	"github.com/valaphee/flowgo/internal/infrastructure/monitoring"
	"github.com/valaphee/flowgo/internal/pkg/errors"
	"github.com/valaphee/flowgo/internal/pkg/eventbus"
	"github.com/valaphee/flowgo/internal/runtime/host"
	"github.com/valaphee/flowgo/internal/runtime/scope"
)

// RuntimeHandler is the service collaborator boundary spec.md §6 names:
// runGraph, stopGraph, and getSpec. It looks graphs up in the catalog,
// constructs and launches scopes, and keeps them addressable in a Table
// until they are explicitly stopped. A scope whose tasks have all finished
// stays in the Table.
type RuntimeHandler struct {
	store     *catalog.Store
	executors *executor.Registry
	host      host.Host
	bus       *eventbus.EventBus
	table     *scope.Table
	metrics   *monitoring.Metrics
}

// NewRuntimeHandler wires a RuntimeHandler. metrics may be nil.
func NewRuntimeHandler(store *catalog.Store, executors *executor.Registry, h host.Host, bus *eventbus.EventBus, table *scope.Table, metrics *monitoring.Metrics) *RuntimeHandler {
	return &RuntimeHandler{store: store, executors: executors, host: h, bus: bus, table: table, metrics: metrics}
}

// Run handles POST /graphs/:name/run: runGraph(name) -> scopeId | NotFound.
func (h *RuntimeHandler) Run(c echo.Context) error {
	name := c.Param("name")

	g, err := h.store.Lookup(name)
	if err != nil {
		return err
	}

	// Pass a genuinely nil interface when there's no metrics collaborator —
	// wrapping a nil *monitoring.Metrics directly would give Scope a non-nil
	// MetricsRecorder whose methods panic on a nil receiver.
	var recorder scope.MetricsRecorder
	if h.metrics != nil {
		recorder = h.metrics
	}

	s, err := scope.Construct(g, h.executors, h.host, h.bus, recorder)
	if err != nil {
		if h.metrics != nil {
			h.metrics.RecordScopeConstructionError(name, errors.Kind(err))
		}
		return err
	}

	h.table.Put(s)
	if h.metrics != nil {
		h.metrics.RecordScopeConstructed(name)
	}

	// The scope's entry tasks must outlive this request (the goroutine below
	// detaches from it on purpose), so they run under context.Background()
	// rather than the request context net/http cancels when the handler
	// returns.
	started := time.Now()
	s.Run(context.Background())

	go func() {
		s.Wait()
		if h.metrics != nil {
			h.metrics.RecordScopeCollected(name, time.Since(started))
		}
	}()

	return c.JSON(http.StatusOK, dto.RunGraphResponse{ScopeID: s.ID()})
}

// Stop handles DELETE /scopes/:id: stopGraph(scopeId) -> Ok | Unknown.
func (h *RuntimeHandler) Stop(c echo.Context) error {
	if err := h.table.Stop(c.Param("id")); err != nil {
		return err
	}
	return c.JSON(http.StatusOK, dto.StopGraphResponse{Ok: true})
}

// State handles GET /scopes/:id.
func (h *RuntimeHandler) State(c echo.Context) error {
	s, err := h.table.Get(c.Param("id"))
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, dto.ScopeStateResponse{ScopeID: s.ID(), State: s.State().String()})
}

// Spec handles GET /spec: getSpec() -> the merged implementation spec, here
// the set of node kinds the running registry actually has executors for.
func (h *RuntimeHandler) Spec(c echo.Context) error {
	return c.JSON(http.StatusOK, dto.SpecResponse{Kinds: h.executors.Kinds()})
}
