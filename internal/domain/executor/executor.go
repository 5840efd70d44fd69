// Package executor is the node-implementation registry: discovery and
// indexing of node-kind -> executor bindings (spec.md component E). The
// registry itself does not know how a scope is built; it only knows how to
// find the right binder for a node and ask it to install closures.
package executor

import (
	"github.com/valaphee/flowgo/internal/domain/graph"
	"github.com/valaphee/flowgo/internal/domain/pathway"
	"github.com/valaphee/flowgo/internal/pkg/errors"
)

// ScopeHandle is the slice of a running scope a node binder needs: the
// ability to materialize the data and control paths for an edge id.
// Defining it here (rather than importing the scope package) keeps the
// dependency direction registry -> scope from ever existing; runtime/scope
// implements this interface instead.
type ScopeHandle interface {
	DataPath(id int) *pathway.DataPath
	ControlPath(id int) *pathway.ControlPath
}

// Executor binds one node kind to runnable closures on a scope's paths.
// Bind returns (true, nil) if it handled the node, (false, nil) if the
// node's kind didn't match (the registry tries the next executor), or
// (true, err) if it matched but binding failed; the registry returns any
// non-nil err as soon as it sees it. Kinds reports every node
// kind this executor claims to handle (more than one, for an executor like
// Math that binds Add/Sub/Mul/Div alike), so a collaborator can echo
// getSpec() without constructing a scope first.
type Executor interface {
	Bind(scope ScopeHandle, node graph.Node) (bool, error)
	Kinds() []string
}

// Registry holds (kind -> executor) bindings in discovery order. The scope
// iterates executors in that order and takes the first that returns true
// for a given node, per spec.md §4.E.
type Registry struct {
	executors []Executor
}

// NewRegistry returns an empty registry.
func NewRegistry() *Registry {
	return &Registry{}
}

// Register appends an executor to the discovery order.
func (r *Registry) Register(e Executor) {
	r.executors = append(r.executors, e)
}

// Bind asks each registered executor, in order, to bind node. Fails with
// NoExecutorError if none of them claims the node's kind.
func (r *Registry) Bind(scope ScopeHandle, node graph.Node) error {
	for _, e := range r.executors {
		handled, err := e.Bind(scope, node)
		if err != nil {
			return err
		}
		if handled {
			return nil
		}
	}
	return &errors.NoExecutorError{Kind: string(node.Kind)}
}

// Kinds returns every node kind claimed by some registered executor, in
// discovery order, duplicates included if two executors somehow claim the
// same kind.
func (r *Registry) Kinds() []string {
	var kinds []string
	for _, e := range r.executors {
		kinds = append(kinds, e.Kinds()...)
	}
	return kinds
}
