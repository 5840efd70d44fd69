// Package scope is the heart of the runtime: it binds a graph's edges to
// runnable closures, launches entry nodes, and owns the lifetime of one
// graph run (spec.md component F).
package scope

import (
	"context"
	"sync"
	"time"

	"github.com/valaphee/flowgo/internal/domain/executor"
	"github.com/valaphee/flowgo/internal/domain/graph"
	"github.com/valaphee/flowgo/internal/domain/pathway"
	"github.com/valaphee/flowgo/internal/pkg/errors"
	"github.com/valaphee/flowgo/internal/pkg/eventbus"
	"github.com/valaphee/flowgo/internal/pkg/uuid"
	"github.com/valaphee/flowgo/internal/runtime/host"
)

// State is the scope's lifecycle position: constructed -> bound -> running
// -> stopped -> collected.
type State int

const (
	StateConstructed State = iota
	StateBound
	StateRunning
	StateStopped
	StateCollected
)

func (s State) String() string {
	switch s {
	case StateConstructed:
		return "constructed"
	case StateBound:
		return "bound"
	case StateRunning:
		return "running"
	case StateStopped:
		return "stopped"
	case StateCollected:
		return "collected"
	default:
		return "unknown"
	}
}

// MetricsRecorder is the scope-level metrics hook a Scope is optionally
// constructed with. Its methods are a subset of
// internal/infrastructure/monitoring.Metrics's, so that collaborator
// satisfies MetricsRecorder with no changes of its own — the core never
// imports the monitoring package, it only depends on this interface.
type MetricsRecorder interface {
	pathway.Recorder
	RecordEntryTaskLaunched(graph string)
}

// Scope owns, exclusively, the path registry for one graph run, the
// node-executor bindings used for it, a handle to the runtime host, its own
// id, and the set of outstanding tasks it has launched. The graph it runs
// is shared, read-only, and outlives the scope.
type Scope struct {
	id      string
	graph   *graph.Graph
	host    host.Host
	bus     *eventbus.EventBus
	metrics MetricsRecorder

	registry *pathway.Registry

	mu    sync.Mutex
	state State
	tasks sync.WaitGroup
}

// DataPath implements executor.ScopeHandle.
func (s *Scope) DataPath(id int) *pathway.DataPath { return s.registry.DataPath(id) }

// ControlPath implements executor.ScopeHandle.
func (s *Scope) ControlPath(id int) *pathway.ControlPath { return s.registry.ControlPath(id) }

// ID returns the scope's universally-unique id.
func (s *Scope) ID() string { return s.id }

// State returns the scope's current lifecycle position.
func (s *Scope) State() State {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state
}

var _ executor.ScopeHandle = (*Scope)(nil)

// Construct builds a scope over g using executors to bind every node, per
// spec.md §4.F:
//  1. assign a fresh scope id,
//  2. allocate an empty path registry,
//  3. invoke the first matching executor for every node in the graph,
//  4. verify every entry node has a declared outgoing control body.
//
// Binding-time failures (NoExecutorError, DoubleBindError, and anything an
// executor itself returns) abort construction: no tasks are launched and
// the partially-built scope is discarded. metrics may be nil.
func Construct(g *graph.Graph, executors *executor.Registry, h host.Host, bus *eventbus.EventBus, metrics MetricsRecorder) (*Scope, error) {
	s := &Scope{
		id:       uuid.New(),
		graph:    g,
		host:     h,
		bus:      bus,
		metrics:  metrics,
		registry: pathway.NewRegistry(metrics),
		state:    StateConstructed,
	}

	for _, node := range g.Nodes() {
		if err := executors.Bind(s, node); err != nil {
			return nil, err
		}
	}

	for _, entry := range g.EntryNodes() {
		outID, ok := entry.Port("out")
		if !ok {
			return nil, &errors.NodeEvalError{NodeKind: string(entry.Kind), Cause: errMissingEntryOut}
		}
		if !s.ControlPath(outID).IsBound() {
			// An Entry's own executor installs nothing on its out path;
			// whatever node the edge targets must have declared it. An
			// unbound out path here means the edge points nowhere bindable.
			return nil, &errors.NoExecutorError{Kind: string(entry.Kind)}
		}
	}

	s.mu.Lock()
	s.state = StateBound
	s.mu.Unlock()

	if bus != nil {
		bus.Publish(context.Background(), Bound{ScopeID: s.id, GraphName: g.Name(), OccurredAt: time.Now()})
	}

	return s, nil
}

var errMissingEntryOut = entryPortError("Entry node is missing its out port")

type entryPortError string

func (e entryPortError) Error() string { return string(e) }

// Run launches a fresh task for every entry node's outgoing control path.
// Entry tasks are mutually independent: no ordering between them is
// guaranteed, and Run returns as soon as they are all scheduled, not when
// they complete — use Wait for that.
func (s *Scope) Run(ctx context.Context) {
	s.mu.Lock()
	s.state = StateRunning
	s.mu.Unlock()

	for _, entry := range s.graph.EntryNodes() {
		outID, ok := entry.Port("out")
		if !ok {
			continue
		}
		path := s.ControlPath(outID)

		s.tasks.Add(1)
		s.host.Launch(ctx, func(ctx context.Context) {
			defer s.tasks.Done()
			path.Invoke(ctx)
		})

		if s.metrics != nil {
			s.metrics.RecordEntryTaskLaunched(s.graph.Name())
		}
		if s.bus != nil {
			s.bus.Publish(ctx, EntryLaunched{ScopeID: s.id, NodeID: entry.ID, OccurredAt: time.Now()})
		}
	}
}

// Wait blocks until every task the scope has launched settles, then marks
// the scope collected.
func (s *Scope) Wait() {
	s.tasks.Wait()

	s.mu.Lock()
	s.state = StateCollected
	s.mu.Unlock()

	if s.bus != nil {
		s.bus.Publish(context.Background(), Collected{ScopeID: s.id, OccurredAt: time.Now()})
	}
}

// stop marks the scope stopped. Tasks already running are not forcibly
// interrupted — cancellation is cooperative, per spec.md §5 — they
// continue until they naturally finish. Table.Stop calls this after
// removing the scope from the lookup table; Scope itself never removes
// itself, since the table is the collaborator structure that owns that
// bookkeeping.
func (s *Scope) stop() {
	s.mu.Lock()
	s.state = StateStopped
	s.mu.Unlock()

	if s.bus != nil {
		s.bus.Publish(context.Background(), Stopped{ScopeID: s.id, OccurredAt: time.Now()})
	}
}
