package scope_test

import (
	"context"
	"testing"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/require"

	"github.com/valaphee/flowgo/internal/domain/executor/builtin"
	"github.com/valaphee/flowgo/internal/domain/graph"
	"github.com/valaphee/flowgo/internal/infrastructure/monitoring"
	"github.com/valaphee/flowgo/internal/runtime/host"
	"github.com/valaphee/flowgo/internal/runtime/scope"
)

// Node/path invocation metrics must actually move when a scope runs — these
// counters were registered via promauto but never touched until
// pathway.ControlPath/DataPath gained a Recorder.
func TestScope_RecordsNodeAndEntryTaskMetrics(t *testing.T) {
	metrics := monitoring.NewMetrics("flowgo_scope_metrics_test")

	nodes := []graph.Node{
		{ID: "entry", Kind: graph.KindEntry, Ports: map[string]int{"out": 1}},
		{ID: "constA", Kind: graph.KindConst, Ports: map[string]int{"out": 2}, Config: map[string]any{"value": 3}},
		{ID: "constB", Kind: graph.KindConst, Ports: map[string]int{"out": 3}, Config: map[string]any{"value": 4}},
		{ID: "mul", Kind: graph.KindMul, Ports: map[string]int{"inA": 2, "inB": 3, "out": 4}},
		{ID: "sink", Kind: graph.KindSink, Ports: map[string]int{"in": 1, "inValue": 4}},
	}

	g, err := graph.New("metrics-test", nodes)
	require.NoError(t, err)

	s, err := scope.Construct(g, builtin.NewDefaultRegistry(), host.Inline{}, nil, metrics)
	require.NoError(t, err)

	require.Equal(t, float64(0), testutil.ToFloat64(metrics.EntryTasksLaunchedTotal.WithLabelValues("metrics-test")))

	s.Run(context.Background())
	s.Wait()

	require.Equal(t, float64(1), testutil.ToFloat64(metrics.EntryTasksLaunchedTotal.WithLabelValues("metrics-test")))
	require.Equal(t, float64(1), testutil.ToFloat64(metrics.NodeInvocationsTotal.WithLabelValues(string(graph.KindSink))))
	require.Equal(t, float64(1), testutil.ToFloat64(metrics.NodeInvocationsTotal.WithLabelValues(string(graph.KindMul))))
	// Mul pulls both constA and constB once each: two Const invocations.
	require.Equal(t, float64(2), testutil.ToFloat64(metrics.NodeInvocationsTotal.WithLabelValues(string(graph.KindConst))))
}

// A nil MetricsRecorder must behave exactly like no metrics were wired at
// all, since cmd/flowctl's CLI runs construct scopes with no metrics
// collaborator.
func TestScope_NilMetricsRecorderIsSafe(t *testing.T) {
	nodes := []graph.Node{
		{ID: "entry", Kind: graph.KindEntry, Ports: map[string]int{"out": 1}},
		{ID: "constA", Kind: graph.KindConst, Ports: map[string]int{"out": 2}, Config: map[string]any{"value": 1}},
		{ID: "sink", Kind: graph.KindSink, Ports: map[string]int{"in": 1, "inValue": 2}},
	}

	g, err := graph.New("nil-metrics-test", nodes)
	require.NoError(t, err)

	s, err := scope.Construct(g, builtin.NewDefaultRegistry(), host.Inline{}, nil, nil)
	require.NoError(t, err)

	s.Run(context.Background())
	s.Wait()
}
