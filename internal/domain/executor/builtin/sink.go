package builtin

import (
	"context"
	"fmt"

	"github.com/valaphee/flowgo/internal/domain/executor"
	"github.com/valaphee/flowgo/internal/domain/graph"
	"github.com/valaphee/flowgo/internal/pkg/errors"
)

// Recorder observes a Sink node's invocation. value is nil if the Sink has
// no inValue port wired.
type Recorder func(nodeID string, value any)

// recorderKey is the Config key a graph author sets to a Recorder so a
// Sink node can be observed without the core depending on any test or CLI
// package.
const recorderKey = "recorder"

// Sink declares a body on in that records its own invocation (and, if
// inValue is wired, the pulled value) via the node's configured Recorder.
// It exists purely for observation — end-to-end scenarios and the CLI's
// --trace mode wire a Recorder to see which control paths actually fired.
type Sink struct{}

func (Sink) Bind(scope executor.ScopeHandle, node graph.Node) (bool, error) {
	if node.Kind != graph.KindSink {
		return false, nil
	}

	inID, ok := node.Port("in")
	if !ok {
		return true, &errors.NodeEvalError{NodeKind: string(node.Kind), Cause: fmt.Errorf("missing port %q", "in")}
	}

	recorder, _ := node.Config[recorderKey].(Recorder)
	inValueID, hasValue := node.Port("inValue")

	in := scope.ControlPath(inID)
	err := in.Declare(string(node.Kind), func(ctx context.Context) error {
		if !hasValue {
			if recorder != nil {
				recorder(node.ID, nil)
			}
			return nil
		}

		v, err := scope.DataPath(inValueID).Get()
		if err != nil {
			return &errors.NodeEvalError{NodeKind: string(node.Kind), Cause: err}
		}
		if recorder != nil {
			recorder(node.ID, v)
		}
		return nil
	})
	if err != nil {
		return true, err
	}

	return true, nil
}

func (Sink) Kinds() []string { return []string{string(graph.KindSink)} }

// WithRecorder returns a Config fragment that wires rec into a Sink node.
// Merge it into a Node's Config when constructing a graph in tests or the
// CLI: node.Config = builtin.WithRecorder(rec).
func WithRecorder(rec Recorder) map[string]any {
	return map[string]any{recorderKey: rec}
}
