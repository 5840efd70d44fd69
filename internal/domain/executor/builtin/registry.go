// Package builtin holds the node-kind executors shipped with the runtime:
// Entry, Branch, Select, the Map family, the Math family, Const, Sink, and
// Log. Each implements executor.Executor and is registered in
// NewDefaultRegistry's discovery order.
package builtin

import "github.com/valaphee/flowgo/internal/domain/executor"

// NewDefaultRegistry returns a registry with every built-in executor
// registered. Discovery order only matters in the pathological case of two
// executors both claiming the same kind, which none of these do.
func NewDefaultRegistry() *executor.Registry {
	r := executor.NewRegistry()
	r.Register(Entry{})
	r.Register(Branch{})
	r.Register(Select{})
	r.Register(MapRemove{})
	r.Register(MapPut{})
	r.Register(MapGet{})
	r.Register(Math{})
	r.Register(Const{})
	r.Register(Sink{})
	r.Register(Log{})
	return r
}
