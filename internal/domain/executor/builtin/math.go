package builtin

import (
	"fmt"

	"github.com/valaphee/flowgo/internal/domain/executor"
	"github.com/valaphee/flowgo/internal/domain/graph"
	"github.com/valaphee/flowgo/internal/pkg/errors"
)

// numClass ranks the numeric widening order spec.md §4 names:
// Byte < Short < Int < Long < Float < Double.
type numClass int

const (
	classByte numClass = iota
	classShort
	classInt
	classLong
	classFloat
	classDouble
)

// classOf returns the numeric class of a Go value and a flag reporting
// whether the value was numeric at all.
func classOf(v any) (numClass, bool) {
	switch v.(type) {
	case int8, uint8:
		return classByte, true
	case int16, uint16:
		return classShort, true
	case int32, uint32, int:
		return classInt, true
	case int64, uint64:
		return classLong, true
	case float32:
		return classFloat, true
	case float64:
		return classDouble, true
	default:
		return 0, false
	}
}

func widen(v any, c numClass) float64 {
	switch n := v.(type) {
	case int8:
		return float64(n)
	case uint8:
		return float64(n)
	case int16:
		return float64(n)
	case uint16:
		return float64(n)
	case int32:
		return float64(n)
	case uint32:
		return float64(n)
	case int:
		return float64(n)
	case int64:
		return float64(n)
	case uint64:
		return float64(n)
	case float32:
		return float64(n)
	case float64:
		return n
	}
	return 0
}

// narrow converts a widened float64 result back to the Go type matching c,
// so the output carries the class its operands widened to (an Int+Int Add
// stays Int-shaped, a Float+Int Add becomes Float-shaped).
func narrow(v float64, c numClass) any {
	switch c {
	case classByte:
		return int8(v)
	case classShort:
		return int16(v)
	case classInt:
		return int(v)
	case classLong:
		return int64(v)
	case classFloat:
		return float32(v)
	default:
		return v
	}
}

func maxClass(a, b numClass) numClass {
	if a > b {
		return a
	}
	return b
}

// classNames is the wire-format spelling of numClass a Const node's
// "class" config key carries (spec.md's Byte/Short/Int/Long/Float/Double
// widening order).
var classNames = map[string]numClass{
	"Byte":   classByte,
	"Short":  classShort,
	"Int":    classInt,
	"Long":   classLong,
	"Float":  classFloat,
	"Double": classDouble,
}

// classFromName parses a class tag, used to recover the numeric class a
// literal was declared with once it survives a JSON round trip (every JSON
// number decodes to float64, which classOf would otherwise always resolve
// to classDouble).
func classFromName(name string) (numClass, bool) {
	c, ok := classNames[name]
	return c, ok
}

// coerceToClass converts a numeric literal — whether it arrived as a
// Go-native typed value or as the float64 every JSON number decodes to — to
// the Go type matching c. Non-numeric values pass through unchanged.
func coerceToClass(v any, c numClass) any {
	cls, ok := classOf(v)
	if !ok {
		return v
	}
	return narrow(widen(v, cls), c)
}

// mathOp is the operator a Math node applies after widening both operands.
type mathOp func(a, b float64) float64

var mathOps = map[graph.Kind]mathOp{
	graph.KindAdd: func(a, b float64) float64 { return a + b },
	graph.KindSub: func(a, b float64) float64 { return a - b },
	graph.KindMul: func(a, b float64) float64 { return a * b },
	graph.KindDiv: func(a, b float64) float64 { return a / b },
}

// Math binds any of Add/Sub/Mul/Div: pull inA and inB, widen both to the
// wider operand class, apply the operator, and narrow the result back to
// that class. A non-numeric operand fails the node with TypeMismatchError.
type Math struct{}

func (Math) Bind(scope executor.ScopeHandle, node graph.Node) (bool, error) {
	op, isMath := mathOps[node.Kind]
	if !isMath {
		return false, nil
	}

	inAID, okA := node.Port("inA")
	inBID, okB := node.Port("inB")
	outID, okOut := node.Port("out")
	if !okA || !okB || !okOut {
		return true, &errors.NodeEvalError{NodeKind: string(node.Kind), Cause: fmt.Errorf("missing inA/inB/out port")}
	}

	inA := scope.DataPath(inAID)
	inB := scope.DataPath(inBID)
	out := scope.DataPath(outID)

	err := out.Bind(string(node.Kind), func() (any, error) {
		av, err := inA.Get()
		if err != nil {
			return nil, &errors.NodeEvalError{NodeKind: string(node.Kind), Cause: err}
		}
		bv, err := inB.Get()
		if err != nil {
			return nil, &errors.NodeEvalError{NodeKind: string(node.Kind), Cause: err}
		}

		ac, ok := classOf(av)
		if !ok {
			return nil, &errors.TypeMismatchError{Expected: "numeric", Got: fmt.Sprintf("%T", av)}
		}
		bc, ok := classOf(bv)
		if !ok {
			return nil, &errors.TypeMismatchError{Expected: "numeric", Got: fmt.Sprintf("%T", bv)}
		}

		wide := maxClass(ac, bc)
		result := op(widen(av, wide), widen(bv, wide))
		return narrow(result, wide), nil
	})
	if err != nil {
		return true, err
	}

	return true, nil
}

// Kinds returns Add, Sub, Mul, and Div: the four kinds mathOps binds.
func (Math) Kinds() []string {
	return []string{string(graph.KindAdd), string(graph.KindSub), string(graph.KindMul), string(graph.KindDiv)}
}
