package builtin

import (
	"github.com/valaphee/flowgo/internal/domain/executor"
	"github.com/valaphee/flowgo/internal/domain/graph"
)

// Entry recognizes KindEntry nodes. It installs nothing on any path: an
// entry node has no inputs and its single outgoing control id is invoked
// directly by the scope when the scope launches, not by another node's
// binding. Registering it still matters — scope construction asks the
// registry to bind every node, so without it any graph containing an Entry
// node would fail scope construction with NoExecutorError.
type Entry struct{}

func (Entry) Bind(scope executor.ScopeHandle, node graph.Node) (bool, error) {
	if node.Kind != graph.KindEntry {
		return false, nil
	}
	return true, nil
}

func (Entry) Kinds() []string { return []string{string(graph.KindEntry)} }
