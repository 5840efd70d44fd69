package builtin

import (
	"context"
	"fmt"

	"github.com/valaphee/flowgo/internal/domain/executor"
	"github.com/valaphee/flowgo/internal/domain/graph"
	"github.com/valaphee/flowgo/internal/pkg/errors"
)

// Branch evaluates a key lookup over a pulled data value and invokes the
// matching outgoing control path, or outDefault if no key matches. Keys are
// compared by value (fmt.Sprint of the pulled value against the node's
// string-keyed table), never by identity; the graph model guarantees keys
// are unique, so ties cannot occur.
type Branch struct{}

func (Branch) Bind(scope executor.ScopeHandle, node graph.Node) (bool, error) {
	if node.Kind != graph.KindBranch {
		return false, nil
	}

	inID, ok := node.Port("in")
	if !ok {
		return true, &errors.NodeEvalError{NodeKind: string(node.Kind), Cause: fmt.Errorf("missing port %q", "in")}
	}
	inValueID, ok := node.Port("inValue")
	if !ok {
		return true, &errors.NodeEvalError{NodeKind: string(node.Kind), Cause: fmt.Errorf("missing port %q", "inValue")}
	}
	outTable, ok := node.KeyedPort("out")
	if !ok {
		outTable = map[string]int{}
	}
	outDefaultID, hasDefault := node.Port("outDefault")

	in := scope.ControlPath(inID)
	inValue := scope.DataPath(inValueID)

	err := in.Declare(string(node.Kind), func(ctx context.Context) error {
		v, err := inValue.Get()
		if err != nil {
			return &errors.NodeEvalError{NodeKind: string(node.Kind), Cause: err}
		}

		key := fmt.Sprint(v)
		if targetID, matched := outTable[key]; matched {
			return scope.ControlPath(targetID).Invoke(ctx)
		}
		if hasDefault {
			return scope.ControlPath(outDefaultID).Invoke(ctx)
		}
		return nil
	})
	if err != nil {
		return true, err
	}

	return true, nil
}

func (Branch) Kinds() []string { return []string{string(graph.KindBranch)} }
