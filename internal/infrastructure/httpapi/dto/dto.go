// Package dto holds the wire shapes the HTTP collaborator exchanges with
// clients. None of these types are used by the core; they exist purely at
// the service boundary (spec.md §6, "Exposed to the service collaborator").
package dto

// ErrorResponse is the body returned for any failed request.
type ErrorResponse struct {
	Error   string `json:"error"`
	Message string `json:"message"`
}

// SaveGraphRequest is the body for PUT /graphs/:name.
type SaveGraphRequest struct {
	Name  string         `json:"name"`
	Nodes []NodeDocument `json:"nodes"`
}

// NodeDocument mirrors graph.Node's wire shape so callers don't need to
// import the domain package directly.
type NodeDocument struct {
	ID     string                    `json:"id"`
	Kind   string                    `json:"kind"`
	Ports  map[string]int            `json:"ports,omitempty"`
	Keyed  map[string]map[string]int `json:"keyed,omitempty"`
	Config map[string]any            `json:"config,omitempty"`
}

// GraphSummary is one entry in GET /graphs.
type GraphSummary struct {
	Name string `json:"name"`
}

// RunGraphResponse is the body for POST /graphs/:name/run.
type RunGraphResponse struct {
	ScopeID string `json:"scope_id"`
}

// StopGraphResponse is the body for DELETE /scopes/:id.
type StopGraphResponse struct {
	Ok bool `json:"ok"`
}

// SpecResponse is the body for GET /spec: the merged implementation spec,
// i.e. every node kind the running registry has an executor for.
type SpecResponse struct {
	Kinds []string `json:"kinds"`
}

// ScopeStateResponse is the body for GET /scopes/:id.
type ScopeStateResponse struct {
	ScopeID string `json:"scope_id"`
	State   string `json:"state"`
}
