package pathway

import "sync"

// Registry maps edge id to a path object, lazily: the same id returns the
// same path object on every call within one scope. A registry is owned
// exclusively by one scope and never shared across runs.
type Registry struct {
	mu       sync.Mutex
	data     map[int]*DataPath
	control  map[int]*ControlPath
	recorder Recorder
}

// NewRegistry returns an empty registry that records node invocations
// against rec. A nil rec is valid and records nothing.
func NewRegistry(rec Recorder) *Registry {
	if rec == nil {
		rec = noopRecorder{}
	}
	return &Registry{
		data:     make(map[int]*DataPath),
		control:  make(map[int]*ControlPath),
		recorder: rec,
	}
}

// DataPath returns the data path for id, creating it on first reference.
func (r *Registry) DataPath(id int) *DataPath {
	r.mu.Lock()
	defer r.mu.Unlock()

	p, ok := r.data[id]
	if !ok {
		p = newDataPath(id, r.recorder)
		r.data[id] = p
	}
	return p
}

// ControlPath returns the control path for id, creating it on first
// reference.
func (r *Registry) ControlPath(id int) *ControlPath {
	r.mu.Lock()
	defer r.mu.Unlock()

	p, ok := r.control[id]
	if !ok {
		p = newControlPath(id, r.recorder)
		r.control[id] = p
	}
	return p
}

// DataPathIDs returns the ids of every data path materialized so far.
func (r *Registry) DataPathIDs() []int {
	r.mu.Lock()
	defer r.mu.Unlock()

	ids := make([]int, 0, len(r.data))
	for id := range r.data {
		ids = append(ids, id)
	}
	return ids
}

// ControlPathIDs returns the ids of every control path materialized so far.
func (r *Registry) ControlPathIDs() []int {
	r.mu.Lock()
	defer r.mu.Unlock()

	ids := make([]int, 0, len(r.control))
	for id := range r.control {
		ids = append(ids, id)
	}
	return ids
}
