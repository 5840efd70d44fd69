package builtin_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/valaphee/flowgo/internal/domain/executor/builtin"
	"github.com/valaphee/flowgo/internal/domain/graph"
	"github.com/valaphee/flowgo/internal/runtime/host"
	"github.com/valaphee/flowgo/internal/runtime/scope"
)

func buildScope(t *testing.T, nodes []graph.Node) *scope.Scope {
	t.Helper()
	g, err := graph.New("test", nodes)
	require.NoError(t, err)

	s, err := scope.Construct(g, builtin.NewDefaultRegistry(), host.Inline{}, nil, nil)
	require.NoError(t, err)
	return s
}

func TestDefaultRegistry_KindsCoversAllBuiltins(t *testing.T) {
	kinds := builtin.NewDefaultRegistry().Kinds()
	assert.ElementsMatch(t, []string{
		"Entry", "Branch", "Select", "Map.Remove", "Map.Put", "Map.Get",
		"Add", "Sub", "Mul", "Div", "Const", "Sink", "Log",
	}, kinds)
}

// Math widening law: widen(widen(a,b),c) == widen(a,widen(b,c)) - checked by
// comparing a left-nested Add chain to a right-nested one over mixed
// classes (Int, Long, Double).
func TestMath_WideningIsAssociative(t *testing.T) {
	left := []graph.Node{
		{ID: "entry", Kind: graph.KindEntry, Ports: map[string]int{"out": 1}},
		{ID: "a", Kind: graph.KindConst, Ports: map[string]int{"out": 10}, Config: map[string]any{"value": 2}},
		{ID: "b", Kind: graph.KindConst, Ports: map[string]int{"out": 11}, Config: map[string]any{"value": int64(3)}},
		{ID: "c", Kind: graph.KindConst, Ports: map[string]int{"out": 12}, Config: map[string]any{"value": 4.5}},
		{ID: "ab", Kind: graph.KindAdd, Ports: map[string]int{"inA": 10, "inB": 11, "out": 20}},
		{ID: "abc", Kind: graph.KindAdd, Ports: map[string]int{"inA": 20, "inB": 12, "out": 30}},
		{ID: "sink", Kind: graph.KindSink, Ports: map[string]int{"in": 1, "inValue": 30}},
	}
	right := []graph.Node{
		{ID: "entry", Kind: graph.KindEntry, Ports: map[string]int{"out": 1}},
		{ID: "a", Kind: graph.KindConst, Ports: map[string]int{"out": 10}, Config: map[string]any{"value": 2}},
		{ID: "b", Kind: graph.KindConst, Ports: map[string]int{"out": 11}, Config: map[string]any{"value": int64(3)}},
		{ID: "c", Kind: graph.KindConst, Ports: map[string]int{"out": 12}, Config: map[string]any{"value": 4.5}},
		{ID: "bc", Kind: graph.KindAdd, Ports: map[string]int{"inA": 11, "inB": 12, "out": 21}},
		{ID: "abc", Kind: graph.KindAdd, Ports: map[string]int{"inA": 10, "inB": 21, "out": 30}},
		{ID: "sink", Kind: graph.KindSink, Ports: map[string]int{"in": 1, "inValue": 30}},
	}

	leftScope := buildScope(t, left)
	rightScope := buildScope(t, right)

	leftResult, err := leftScope.DataPath(30).Get()
	require.NoError(t, err)
	rightResult, err := rightScope.DataPath(30).Get()
	require.NoError(t, err)

	assert.Equal(t, leftResult, rightResult)
	assert.Equal(t, 9.5, leftResult)
}

// Branch law: a map that covers every observed input value never invokes
// outDefault.
func TestBranch_TotalCoverageNeverDefaults(t *testing.T) {
	var defaultFired bool

	nodes := []graph.Node{
		{ID: "entry", Kind: graph.KindEntry, Ports: map[string]int{"out": 1}},
		{ID: "inValue", Kind: graph.KindConst, Ports: map[string]int{"out": 2}, Config: map[string]any{"value": "only"}},
		{
			ID:    "branch",
			Kind:  graph.KindBranch,
			Ports: map[string]int{"in": 1, "inValue": 2, "outDefault": 11},
			Keyed: map[string]map[string]int{"out": {"only": 10}},
		},
		{ID: "sinkMatched", Kind: graph.KindSink, Ports: map[string]int{"in": 10}},
		{
			ID:   "sinkDefault",
			Kind: graph.KindSink,
			Ports: map[string]int{"in": 11},
			Config: builtin.WithRecorder(func(nodeID string, v any) { defaultFired = true }),
		},
	}

	s := buildScope(t, nodes)
	s.Run(context.Background())
	s.Wait()

	assert.False(t, defaultFired)
}

// Select law: an empty key map behaves exactly like a direct wire from
// inDefault to out.
func TestSelect_EmptyKeyMapIsDirectWireFromDefault(t *testing.T) {
	nodes := []graph.Node{
		{ID: "entry", Kind: graph.KindEntry, Ports: map[string]int{"out": 1}},
		{ID: "default", Kind: graph.KindConst, Ports: map[string]int{"out": 12}, Config: map[string]any{"value": "fallback"}},
		{ID: "select", Kind: graph.KindSelect, Ports: map[string]int{"in": 100, "out": 200, "inDefault": 12}},
		{ID: "sink", Kind: graph.KindSink, Ports: map[string]int{"in": 1, "inValue": 200}},
	}

	s := buildScope(t, nodes)
	require.NoError(t, s.DataPath(100).Bind("test", func() (any, error) { return "anything", nil }))

	v, err := s.DataPath(200).Get()
	require.NoError(t, err)
	assert.Equal(t, "fallback", v)
}

// Every real entry point a graph reaches the runtime through (graph.Parse,
// the HTTP catalog, a .gph file) decodes Config via encoding/json, which
// collapses every JSON number to float64. Without an explicit class tag,
// classOf would resolve both operands to classDouble and silently defeat
// Math's widening rules. This loads a graph through graph.Parse itself
// (not hand-built Go structs) to prove the tag survives the wire format.
func TestConst_ClassTagSurvivesJSONRoundTrip(t *testing.T) {
	doc := `{
		"name": "wire",
		"nodes": [
			{"id": "entry", "kind": "Entry", "ports": {"out": 1}},
			{"id": "a", "kind": "Const", "ports": {"out": 10}, "config": {"value": 2, "class": "Int"}},
			{"id": "b", "kind": "Const", "ports": {"out": 11}, "config": {"value": 3, "class": "Int"}},
			{"id": "add", "kind": "Add", "ports": {"inA": 10, "inB": 11, "out": 20}},
			{"id": "sink", "kind": "Sink", "ports": {"in": 1, "inValue": 20}}
		]
	}`

	g, err := graph.Parse([]byte(doc))
	require.NoError(t, err)

	s, err := scope.Construct(g, builtin.NewDefaultRegistry(), host.Inline{}, nil, nil)
	require.NoError(t, err)

	v, err := s.DataPath(20).Get()
	require.NoError(t, err)
	assert.Equal(t, 5, v)
}

func TestConst_IsPureAcrossRepeatedPulls(t *testing.T) {
	nodes := []graph.Node{
		{ID: "entry", Kind: graph.KindEntry, Ports: map[string]int{"out": 1}},
		{ID: "k", Kind: graph.KindConst, Ports: map[string]int{"out": 10}, Config: map[string]any{"value": 42}},
		{ID: "sink", Kind: graph.KindSink, Ports: map[string]int{"in": 1, "inValue": 10}},
	}
	s := buildScope(t, nodes)

	v1, err := s.DataPath(10).Get()
	require.NoError(t, err)
	v2, err := s.DataPath(10).Get()
	require.NoError(t, err)

	assert.Equal(t, v1, v2)
	assert.Equal(t, 42, v1)
}
