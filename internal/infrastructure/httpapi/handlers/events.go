package handlers

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"sync/atomic"

	"github.com/labstack/echo/v4"

	"github.com/valaphee/flowgo/internal/pkg/eventbus"
)

// scopeEventTypes is every lifecycle event type scope.Scope publishes
// (internal/runtime/scope/events.go). The stream filters these down to the
// one scope id a client asked for.
var scopeEventTypes = []string{
	"scope.bound",
	"scope.entry_launched",
	"scope.stopped",
	"scope.collected",
}

// EventsHandler is the streaming surface spec.md §4.J names as ambient and
// optional: a client can watch one scope's lifecycle over Server-Sent
// Events instead of polling GET /scopes/:id. The core never depends on this
// handler existing; it is a pure subscriber of the event bus.
type EventsHandler struct {
	bus *eventbus.EventBus
}

// NewEventsHandler wires an EventsHandler. bus may be nil, in which case
// Stream responds with an empty event stream that closes immediately.
func NewEventsHandler(bus *eventbus.EventBus) *EventsHandler {
	return &EventsHandler{bus: bus}
}

// Stream handles GET /scopes/:id/events, writing one "event: <type>\ndata:
// <json>\n\n" frame per lifecycle event for the named scope, until the
// scope is collected, stopped, or the client disconnects.
func (h *EventsHandler) Stream(c echo.Context) error {
	scopeID := c.Param("id")

	resp := c.Response()
	resp.Header().Set("Content-Type", "text/event-stream")
	resp.Header().Set("Cache-Control", "no-cache")
	resp.Header().Set("Connection", "keep-alive")
	resp.WriteHeader(http.StatusOK)
	resp.Flush()

	if h.bus == nil {
		return nil
	}

	ctx := c.Request().Context()
	frames := make(chan eventbus.Event, 16)
	var closed atomic.Bool

	subs := make([]*eventbus.Subscription, 0, len(scopeEventTypes))
	for _, eventType := range scopeEventTypes {
		subs = append(subs, h.bus.Subscribe(eventType, func(_ context.Context, event eventbus.Event) error {
			if closed.Load() || event.AggregateID() != scopeID {
				return nil
			}
			select {
			case frames <- event:
			default:
				// Slow client: drop the frame rather than block the publisher.
			}
			return nil
		}))
	}

	defer func() {
		closed.Store(true)
		for _, sub := range subs {
			sub.Unsubscribe()
		}
	}()

	for {
		select {
		case <-ctx.Done():
			return nil
		case event := <-frames:
			data, err := json.Marshal(event)
			if err != nil {
				continue
			}
			fmt.Fprintf(resp, "event: %s\ndata: %s\n\n", event.EventType(), data)
			resp.Flush()
			if event.EventType() == "scope.collected" || event.EventType() == "scope.stopped" {
				return nil
			}
		}
	}
}
