package builtin

import (
	"fmt"

	"github.com/valaphee/flowgo/internal/domain/executor"
	"github.com/valaphee/flowgo/internal/domain/graph"
	"github.com/valaphee/flowgo/internal/pkg/errors"
)

// asMap narrows a pulled value to map[string]any, the core's map
// representation, failing with TypeMismatchError otherwise.
func asMap(v any) (map[string]any, error) {
	m, ok := v.(map[string]any)
	if !ok {
		return nil, &errors.TypeMismatchError{Expected: "map[string]any", Got: fmt.Sprintf("%T", v)}
	}
	return m, nil
}

func asKey(v any) string {
	if s, ok := v.(string); ok {
		return s
	}
	return fmt.Sprint(v)
}

// copyMap returns a shallow copy so the input map is never observably
// mutated by Map.Remove/Map.Put (spec.md §4, "structural sharing or copy at
// the implementation's discretion" — this implementation copies).
func copyMap(m map[string]any) map[string]any {
	cp := make(map[string]any, len(m))
	for k, v := range m {
		cp[k] = v
	}
	return cp
}

// MapRemove installs a producer on out equal to the pulled input map with
// the pulled key absent. The original map is left untouched.
type MapRemove struct{}

func (MapRemove) Bind(scope executor.ScopeHandle, node graph.Node) (bool, error) {
	if node.Kind != graph.KindMapRemove {
		return false, nil
	}

	inID, okIn := node.Port("in")
	inKeyID, okKey := node.Port("inKey")
	outID, okOut := node.Port("out")
	if !okIn || !okKey || !okOut {
		return true, &errors.NodeEvalError{NodeKind: string(node.Kind), Cause: fmt.Errorf("missing in/inKey/out port")}
	}

	in := scope.DataPath(inID)
	inKey := scope.DataPath(inKeyID)
	out := scope.DataPath(outID)

	err := out.Bind(string(node.Kind), func() (any, error) {
		mv, err := in.Get()
		if err != nil {
			return nil, &errors.NodeEvalError{NodeKind: string(node.Kind), Cause: err}
		}
		m, err := asMap(mv)
		if err != nil {
			return nil, &errors.NodeEvalError{NodeKind: string(node.Kind), Cause: err}
		}

		kv, err := inKey.Get()
		if err != nil {
			return nil, &errors.NodeEvalError{NodeKind: string(node.Kind), Cause: err}
		}

		result := copyMap(m)
		delete(result, asKey(kv))
		return result, nil
	})
	if err != nil {
		return true, err
	}

	return true, nil
}

func (MapRemove) Kinds() []string { return []string{string(graph.KindMapRemove)} }

// MapPut installs a producer on out equal to the pulled input map with the
// pulled key set to the pulled value.
type MapPut struct{}

func (MapPut) Bind(scope executor.ScopeHandle, node graph.Node) (bool, error) {
	if node.Kind != graph.KindMapPut {
		return false, nil
	}

	inID, okIn := node.Port("in")
	inKeyID, okKey := node.Port("inKey")
	inValueID, okValue := node.Port("inValue")
	outID, okOut := node.Port("out")
	if !okIn || !okKey || !okValue || !okOut {
		return true, &errors.NodeEvalError{NodeKind: string(node.Kind), Cause: fmt.Errorf("missing in/inKey/inValue/out port")}
	}

	in := scope.DataPath(inID)
	inKey := scope.DataPath(inKeyID)
	inValue := scope.DataPath(inValueID)
	out := scope.DataPath(outID)

	err := out.Bind(string(node.Kind), func() (any, error) {
		mv, err := in.Get()
		if err != nil {
			return nil, &errors.NodeEvalError{NodeKind: string(node.Kind), Cause: err}
		}
		m, err := asMap(mv)
		if err != nil {
			return nil, &errors.NodeEvalError{NodeKind: string(node.Kind), Cause: err}
		}

		kv, err := inKey.Get()
		if err != nil {
			return nil, &errors.NodeEvalError{NodeKind: string(node.Kind), Cause: err}
		}
		vv, err := inValue.Get()
		if err != nil {
			return nil, &errors.NodeEvalError{NodeKind: string(node.Kind), Cause: err}
		}

		result := copyMap(m)
		result[asKey(kv)] = vv
		return result, nil
	})
	if err != nil {
		return true, err
	}

	return true, nil
}

func (MapPut) Kinds() []string { return []string{string(graph.KindMapPut)} }

// MapGet installs a producer on out equal to the pulled input map's value
// at the pulled key. If the key is absent, it falls back to pulling
// inDefault when declared, otherwise fails with NodeEvalError.
type MapGet struct{}

func (MapGet) Bind(scope executor.ScopeHandle, node graph.Node) (bool, error) {
	if node.Kind != graph.KindMapGet {
		return false, nil
	}

	inID, okIn := node.Port("in")
	inKeyID, okKey := node.Port("inKey")
	outID, okOut := node.Port("out")
	if !okIn || !okKey || !okOut {
		return true, &errors.NodeEvalError{NodeKind: string(node.Kind), Cause: fmt.Errorf("missing in/inKey/out port")}
	}
	inDefaultID, hasDefault := node.Port("inDefault")

	in := scope.DataPath(inID)
	inKey := scope.DataPath(inKeyID)
	out := scope.DataPath(outID)

	err := out.Bind(string(node.Kind), func() (any, error) {
		mv, err := in.Get()
		if err != nil {
			return nil, &errors.NodeEvalError{NodeKind: string(node.Kind), Cause: err}
		}
		m, err := asMap(mv)
		if err != nil {
			return nil, &errors.NodeEvalError{NodeKind: string(node.Kind), Cause: err}
		}

		kv, err := inKey.Get()
		if err != nil {
			return nil, &errors.NodeEvalError{NodeKind: string(node.Kind), Cause: err}
		}

		if v, present := m[asKey(kv)]; present {
			return v, nil
		}
		if hasDefault {
			return scope.DataPath(inDefaultID).Get()
		}
		return nil, &errors.NodeEvalError{
			NodeKind: string(node.Kind),
			Cause:    fmt.Errorf("key %v not present and no inDefault configured", kv),
		}
	})
	if err != nil {
		return true, err
	}

	return true, nil
}

func (MapGet) Kinds() []string { return []string{string(graph.KindMapGet)} }
