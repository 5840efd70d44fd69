package builtin

import (
	"fmt"

	"github.com/valaphee/flowgo/internal/domain/executor"
	"github.com/valaphee/flowgo/internal/domain/graph"
	"github.com/valaphee/flowgo/internal/pkg/errors"
)

// Select installs a producer on out that forwards pull semantics: on each
// pull it re-reads "in", looks up a data-source id by key, and pulls either
// the matched source or inDefault. It performs no caching of its own, so a
// Select with an empty key map behaves exactly like a direct wire from
// inDefault to out.
type Select struct{}

func (Select) Bind(scope executor.ScopeHandle, node graph.Node) (bool, error) {
	if node.Kind != graph.KindSelect {
		return false, nil
	}

	inID, ok := node.Port("in")
	if !ok {
		return true, &errors.NodeEvalError{NodeKind: string(node.Kind), Cause: fmt.Errorf("missing port %q", "in")}
	}
	outID, ok := node.Port("out")
	if !ok {
		return true, &errors.NodeEvalError{NodeKind: string(node.Kind), Cause: fmt.Errorf("missing port %q", "out")}
	}
	sourceTable, ok := node.KeyedPort("inValue")
	if !ok {
		sourceTable = map[string]int{}
	}
	inDefaultID, hasDefault := node.Port("inDefault")

	in := scope.DataPath(inID)
	out := scope.DataPath(outID)

	err := out.Bind(string(node.Kind), func() (any, error) {
		key, err := in.Get()
		if err != nil {
			return nil, &errors.NodeEvalError{NodeKind: string(node.Kind), Cause: err}
		}

		sourceID, matched := sourceTable[fmt.Sprint(key)]
		if !matched {
			if !hasDefault {
				return nil, &errors.NodeEvalError{
					NodeKind: string(node.Kind),
					Cause:    fmt.Errorf("no source for key %v and no inDefault configured", key),
				}
			}
			sourceID = inDefaultID
		}
		return scope.DataPath(sourceID).Get()
	})
	if err != nil {
		return true, err
	}

	return true, nil
}

func (Select) Kinds() []string { return []string{string(graph.KindSelect)} }
