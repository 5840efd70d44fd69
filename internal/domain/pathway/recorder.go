package pathway

import "time"

// Recorder is the metrics sink a Registry may be constructed with. Its
// methods are a subset of internal/infrastructure/monitoring.Metrics's, so
// that collaborator satisfies Recorder with no changes of its own — the core
// never imports the monitoring package, it only depends on this interface.
type Recorder interface {
	RecordNodeInvocation(kind string, duration time.Duration)
	RecordNodeInvocationError(kind, errorKind string)
}

// noopRecorder discards every call. Used when a Registry is constructed
// with a nil Recorder so DataPath/ControlPath never need a nil check.
type noopRecorder struct{}

func (noopRecorder) RecordNodeInvocation(kind string, duration time.Duration) {}
func (noopRecorder) RecordNodeInvocationError(kind, errorKind string)         {}
