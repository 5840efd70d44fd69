package builtin

import (
	"fmt"

	"github.com/valaphee/flowgo/internal/domain/executor"
	"github.com/valaphee/flowgo/internal/domain/graph"
	"github.com/valaphee/flowgo/internal/pkg/errors"
)

// Const installs a producer on out that always returns the node's
// configured literal. It is the canonical "pure producer with no upstream
// side effects" spec.md §8 invariant 2 describes: repeated Get() calls on
// its out path always return the same value.
//
// A numeric literal may carry an explicit "class" config key (one of
// Byte/Short/Int/Long/Float/Double) alongside "value". This is what lets a
// graph's declared numeric class survive a JSON round trip: graph.Parse and
// the HTTP catalog both decode Config via encoding/json, which collapses
// every JSON number to float64 before Const ever sees it — without the tag,
// math.go's classOf would resolve every such literal to classDouble and
// silently defeat Math's widening rules.
type Const struct{}

func (Const) Bind(scope executor.ScopeHandle, node graph.Node) (bool, error) {
	if node.Kind != graph.KindConst {
		return false, nil
	}

	outID, ok := node.Port("out")
	if !ok {
		return true, &errors.NodeEvalError{NodeKind: string(node.Kind), Cause: fmt.Errorf("missing port %q", "out")}
	}

	value := node.Config["value"]
	if tag, ok := node.Config["class"]; ok {
		className, ok := tag.(string)
		if !ok {
			return true, errors.InvalidInput("class", fmt.Sprintf("must be a string, got %T", tag))
		}
		class, ok := classFromName(className)
		if !ok {
			return true, errors.InvalidInput("class", fmt.Sprintf("unknown numeric class %q", className))
		}
		value = coerceToClass(value, class)
	}
	out := scope.DataPath(outID)

	if err := out.Bind(string(node.Kind), func() (any, error) { return value, nil }); err != nil {
		return true, err
	}
	return true, nil
}

func (Const) Kinds() []string { return []string{string(graph.KindConst)} }
