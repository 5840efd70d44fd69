package pathway

import (
	"context"
	"sync"
	"time"

	"github.com/valaphee/flowgo/internal/pkg/errors"
)

// ControlPath is an eager, invokable side-effect closure bound to one edge
// id. Invoke runs the declared body synchronously in the caller's task: a
// body may pull data paths, invoke other control paths, or launch
// sub-tasks, but the invoking call does not return to its own caller until
// the body (and anything it does synchronously) completes.
type ControlPath struct {
	id       int
	recorder Recorder

	mu    sync.Mutex
	kind  string
	body  func(ctx context.Context) error
	bound bool
}

func newControlPath(id int, rec Recorder) *ControlPath {
	return &ControlPath{id: id, recorder: rec}
}

// ID returns the edge id this path was allocated for.
func (p *ControlPath) ID() int { return p.id }

// Declare assigns the body closure for the node kind that owns this path.
// Fails with DoubleBindError if a body is already declared.
func (p *ControlPath) Declare(kind string, body func(ctx context.Context) error) error {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.bound {
		return &errors.DoubleBindError{PathID: p.id}
	}
	p.kind = kind
	p.body = body
	p.bound = true
	return nil
}

// IsBound reports whether a body has been declared yet.
func (p *ControlPath) IsBound() bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.bound
}

// Invoke runs the declared body. If no body is declared the invocation is a
// no-op — this is the normal case for dangling control outputs, such as
// outDefault on a Branch whose key map is total over the observed inputs.
// A declared body's invocation is timed and recorded against its node kind.
func (p *ControlPath) Invoke(ctx context.Context) error {
	p.mu.Lock()
	body, kind, bound := p.body, p.kind, p.bound
	p.mu.Unlock()

	if !bound {
		return nil
	}

	started := time.Now()
	err := body(ctx)
	p.recorder.RecordNodeInvocation(kind, time.Since(started))
	if err != nil {
		p.recorder.RecordNodeInvocationError(kind, errors.Kind(err))
	}
	return err
}
