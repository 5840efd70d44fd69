// Package errors defines the typed error kinds the core surfaces, grounded
// on the teacher's DomainError shape (code + message + wrapped cause) but
// split into one struct per kind so callers can errors.As discriminate
// between the six kinds spec.md §7 names.
package errors

import (
	"errors"
	"fmt"
)

// Is and As re-export the standard library so callers never need to import
// both this package and "errors" for chain inspection.
func Is(err, target error) bool  { return errors.Is(err, target) }
func As(err error, target any) bool { return errors.As(err, target) }

// NotFoundError indicates a graph name or scope id was unknown to its
// collaborator table.
type NotFoundError struct {
	Resource string
	ID       string
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("%s not found: %s", e.Resource, e.ID)
}

// NotFound constructs a NotFoundError.
func NotFound(resource, id string) *NotFoundError {
	return &NotFoundError{Resource: resource, ID: id}
}

// NoExecutorError indicates binding found no registered executor for a node
// kind reachable from a control or data path.
type NoExecutorError struct {
	Kind string
}

func (e *NoExecutorError) Error() string {
	return fmt.Sprintf("no executor registered for node kind %q", e.Kind)
}

// DoubleBindError indicates a path slot received a second producer or body.
// This is always a graph-model bug: the slot is write-once per scope.
type DoubleBindError struct {
	PathID int
}

func (e *DoubleBindError) Error() string {
	return fmt.Sprintf("path %d already bound", e.PathID)
}

// UnboundPathError indicates a data path was pulled with no producer bound.
type UnboundPathError struct {
	PathID int
}

func (e *UnboundPathError) Error() string {
	return fmt.Sprintf("path %d has no bound producer", e.PathID)
}

// TypeMismatchError indicates getOfType, or a numeric node, saw a runtime
// value that did not match the expected type/class.
type TypeMismatchError struct {
	Expected string
	Got      string
}

func (e *TypeMismatchError) Error() string {
	return fmt.Sprintf("type mismatch: expected %s, got %s", e.Expected, e.Got)
}

// NodeEvalError wraps a failure raised from within a producer or body,
// attributing it to the node kind that raised it.
type NodeEvalError struct {
	NodeKind string
	Cause    error
}

func (e *NodeEvalError) Error() string {
	return fmt.Sprintf("node %s evaluation failed: %v", e.NodeKind, e.Cause)
}

func (e *NodeEvalError) Unwrap() error { return e.Cause }

// InvalidInputError indicates a collaborator-facing request (graph
// document, config) failed a structural check before binding even began.
type InvalidInputError struct {
	Field  string
	Reason string
}

func (e *InvalidInputError) Error() string {
	return fmt.Sprintf("invalid input for %s: %s", e.Field, e.Reason)
}

// InvalidInput constructs an InvalidInputError.
func InvalidInput(field, reason string) *InvalidInputError {
	return &InvalidInputError{Field: field, Reason: reason}
}

// Kind returns a short, stable label for err's concrete type, suitable for
// a Prometheus label value or an HTTP error response's "error" field. It
// returns "internal" for anything not one of the typed errors above.
func Kind(err error) string {
	var (
		notFound      *NotFoundError
		noExecutor    *NoExecutorError
		doubleBind    *DoubleBindError
		unboundPath   *UnboundPathError
		typeMismatch  *TypeMismatchError
		nodeEval      *NodeEvalError
		invalidInput  *InvalidInputError
	)
	switch {
	case As(err, &notFound):
		return "not_found"
	case As(err, &noExecutor):
		return "no_executor"
	case As(err, &doubleBind):
		return "double_bind"
	case As(err, &unboundPath):
		return "unbound_path"
	case As(err, &typeMismatch):
		return "type_mismatch"
	case As(err, &nodeEval):
		return "node_eval"
	case As(err, &invalidInput):
		return "invalid_input"
	default:
		return "internal"
	}
}
