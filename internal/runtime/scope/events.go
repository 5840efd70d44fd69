package scope

import "time"

// Lifecycle events a Scope publishes on its event bus. Publish fans out to
// subscribers on their own goroutines and waits for them to return, so a
// scope blocks only as long as its subscribers take; a scope with zero
// subscribers behaves identically to one with many.
type (
	// Bound fires once binding succeeds, before any entry is launched.
	Bound struct {
		ScopeID    string
		GraphName  string
		OccurredAt time.Time
	}

	// EntryLaunched fires once per entry node, when its task is scheduled
	// on the host.
	EntryLaunched struct {
		ScopeID    string
		NodeID     string
		OccurredAt time.Time
	}

	// Stopped fires when Stop removes the scope from its Table.
	Stopped struct {
		ScopeID    string
		OccurredAt time.Time
	}

	// Collected fires when every task the scope launched has settled.
	Collected struct {
		ScopeID    string
		OccurredAt time.Time
	}
)

func (e Bound) EventType() string         { return "scope.bound" }
func (e Bound) AggregateID() string       { return e.ScopeID }
func (e Bound) AggregateType() string     { return "scope" }

func (e EntryLaunched) EventType() string     { return "scope.entry_launched" }
func (e EntryLaunched) AggregateID() string   { return e.ScopeID }
func (e EntryLaunched) AggregateType() string { return "scope" }

func (e Stopped) EventType() string     { return "scope.stopped" }
func (e Stopped) AggregateID() string   { return e.ScopeID }
func (e Stopped) AggregateType() string { return "scope" }

func (e Collected) EventType() string     { return "scope.collected" }
func (e Collected) AggregateID() string   { return e.ScopeID }
func (e Collected) AggregateType() string { return "scope" }
