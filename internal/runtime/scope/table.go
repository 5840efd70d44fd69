package scope

import (
	"sync"

	"github.com/valaphee/flowgo/internal/pkg/errors"
)

// Table is the external scope lookup table: the collaborator structure that
// lets a caller (HTTP handler, CLI command) address a running scope by id
// after it was constructed and launched. A scope never appears in any
// Table until something explicitly registers it there, and removal from
// the table is what stop() means operationally — the scope object itself
// may still have tasks draining in the background after it is gone from
// the table.
type Table struct {
	mu     sync.Mutex
	scopes map[string]*Scope
}

// NewTable returns an empty table.
func NewTable() *Table {
	return &Table{scopes: make(map[string]*Scope)}
}

// Put registers a scope under its own id.
func (t *Table) Put(s *Scope) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.scopes[s.ID()] = s
}

// Get looks up a scope by id. Fails with NotFoundError if no scope with
// that id is currently registered.
func (t *Table) Get(id string) (*Scope, error) {
	t.mu.Lock()
	defer t.mu.Unlock()

	s, ok := t.scopes[id]
	if !ok {
		return nil, errors.NotFound("scope", id)
	}
	return s, nil
}

// List returns every scope id currently registered, in no particular
// order.
func (t *Table) List() []string {
	t.mu.Lock()
	defer t.mu.Unlock()

	ids := make([]string, 0, len(t.scopes))
	for id := range t.scopes {
		ids = append(ids, id)
	}
	return ids
}

// Stop removes id from the table and marks the underlying scope stopped.
// Fails with NotFoundError if id is not registered.
func (t *Table) Stop(id string) error {
	t.mu.Lock()
	s, ok := t.scopes[id]
	if ok {
		delete(t.scopes, id)
	}
	t.mu.Unlock()

	if !ok {
		return errors.NotFound("scope", id)
	}
	s.stop()
	return nil
}
