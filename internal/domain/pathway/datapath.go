package pathway

import (
	"fmt"
	"sync"
	"time"

	"github.com/valaphee/flowgo/internal/pkg/errors"
)

// DataPath is a lazy, pull-based value producer bound to one edge id. It
// carries at most one producer closure, assigned once. get() re-invokes the
// producer on every call: a data path is a pure pull with no automatic
// memoization across pulls, so two consumers reading at different times may
// observe different values if an upstream side effect intervened between
// their calls. A producer that wants caching must cache itself.
type DataPath struct {
	id       int
	recorder Recorder

	mu       sync.Mutex
	kind     string
	producer func() (any, error)
	bound    bool
}

func newDataPath(id int, rec Recorder) *DataPath {
	return &DataPath{id: id, recorder: rec}
}

// ID returns the edge id this path was allocated for.
func (p *DataPath) ID() int { return p.id }

// Bind assigns the producer closure for the node kind that owns this path.
// Fails with DoubleBindError if a producer is already bound; the slot is
// write-once per scope.
func (p *DataPath) Bind(kind string, producer func() (any, error)) error {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.bound {
		return &errors.DoubleBindError{PathID: p.id}
	}
	p.kind = kind
	p.producer = producer
	p.bound = true
	return nil
}

// Get invokes the bound producer and returns its result. Fails with
// UnboundPathError if no producer has been bound. Every pull is recorded
// against the owning node kind's invocation counter and latency histogram.
func (p *DataPath) Get() (any, error) {
	p.mu.Lock()
	producer, kind, bound := p.producer, p.kind, p.bound
	p.mu.Unlock()

	if !bound {
		return nil, &errors.UnboundPathError{PathID: p.id}
	}

	started := time.Now()
	v, err := producer()
	p.recorder.RecordNodeInvocation(kind, time.Since(started))
	if err != nil {
		p.recorder.RecordNodeInvocationError(kind, errors.Kind(err))
	}
	return v, err
}

// GetOfType calls Get and narrows the result to T, failing with
// TypeMismatchError if the runtime value is not a T.
func GetOfType[T any](p *DataPath) (T, error) {
	var zero T

	v, err := p.Get()
	if err != nil {
		return zero, err
	}

	t, ok := v.(T)
	if !ok {
		return zero, &errors.TypeMismatchError{
			Expected: fmt.Sprintf("%T", zero),
			Got:      fmt.Sprintf("%T", v),
		}
	}
	return t, nil
}
