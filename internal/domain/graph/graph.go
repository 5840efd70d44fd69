// Package graph is the immutable description of a dataflow graph: its nodes,
// their ports, and the edge ids that connect them. Parsing and structural
// validation live here; binding the graph to runnable closures is the
// scope's job (internal/runtime/scope).
package graph

import (
	"encoding/json"

	"github.com/valaphee/flowgo/internal/pkg/errors"
)

// Kind is the closed set of node kinds the core understands by name.
// Node implementations are looked up by Kind in the executor registry;
// the core itself never branches on Kind beyond that lookup.
type Kind string

const (
	KindEntry     Kind = "Entry"
	KindBranch    Kind = "Branch"
	KindSelect    Kind = "Select"
	KindMapRemove Kind = "Map.Remove"
	KindMapPut    Kind = "Map.Put"
	KindMapGet    Kind = "Map.Get"
	KindAdd       Kind = "Add"
	KindSub       Kind = "Sub"
	KindMul       Kind = "Mul"
	KindDiv       Kind = "Div"
	KindConst     Kind = "Const"
	KindSink      Kind = "Sink"
	KindLog       Kind = "Log"
)

// Node is polymorphic over Kind. Ports hold single edge ids (in, inValue,
// inKey, inDefault, out, outDefault, ...); Keyed holds the key->edge-id
// tables Branch and Select declare (keys are always compared by value, never
// identity, per the node's declared key type).
type Node struct {
	ID     string                    `json:"id"`
	Kind   Kind                      `json:"kind"`
	Ports  map[string]int            `json:"ports,omitempty"`
	Keyed  map[string]map[string]int `json:"keyed,omitempty"`
	Config map[string]any            `json:"config,omitempty"`
}

// Port looks up a single-valued edge id declared on the node.
func (n Node) Port(name string) (int, bool) {
	id, ok := n.Ports[name]
	return id, ok
}

// KeyedPort looks up a key->edge-id table declared on the node.
func (n Node) KeyedPort(name string) (map[string]int, bool) {
	table, ok := n.Keyed[name]
	return table, ok
}

// Graph is a named, immutable dataflow document.
type Graph struct {
	name  string
	nodes []Node
}

// New constructs a Graph. The core assumes a well-formed document (every
// edge id referenced by a node port exists as exactly one path once a scope
// binds it); New only checks the invariants a collaborator parser could not
// have skipped: a non-empty name and unique, non-empty node ids.
func New(name string, nodes []Node) (*Graph, error) {
	if name == "" {
		return nil, errors.InvalidInput("name", "graph name is required")
	}

	seen := make(map[string]bool, len(nodes))
	for _, n := range nodes {
		if n.ID == "" {
			return nil, errors.InvalidInput("node.id", "node id is required")
		}
		if seen[n.ID] {
			return nil, errors.InvalidInput("node.id", "duplicate node id: "+n.ID)
		}
		seen[n.ID] = true
	}

	cp := make([]Node, len(nodes))
	copy(cp, nodes)

	return &Graph{name: name, nodes: cp}, nil
}

// Name returns the graph's unique name.
func (g *Graph) Name() string { return g.name }

// Nodes returns the graph's nodes. The slice is a defensive copy handed to
// New; callers must not mutate the returned elements' maps in place.
func (g *Graph) Nodes() []Node {
	out := make([]Node, len(g.nodes))
	copy(out, g.nodes)
	return out
}

// EntryNodes returns every node of KindEntry, in document order.
func (g *Graph) EntryNodes() []Node {
	var entries []Node
	for _, n := range g.nodes {
		if n.Kind == KindEntry {
			entries = append(entries, n)
		}
	}
	return entries
}

// document is the wire shape for (de)serializing a Graph.
type document struct {
	Name  string `json:"name"`
	Nodes []Node `json:"nodes"`
}

// MarshalJSON encodes the graph as {"name": ..., "nodes": [...]}.
func (g *Graph) MarshalJSON() ([]byte, error) {
	return json.Marshal(document{Name: g.name, Nodes: g.nodes})
}

// Parse decodes a graph document from JSON and validates it via New.
func Parse(data []byte) (*Graph, error) {
	var doc document
	if err := json.Unmarshal(data, &doc); err != nil {
		return nil, errors.InvalidInput("document", "malformed graph document: "+err.Error())
	}
	return New(doc.Name, doc.Nodes)
}
