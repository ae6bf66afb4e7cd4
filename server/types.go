package server

import (
	"time"
)

// Server limits and timeouts
const (
	// MaxClients is the maximum number of concurrent WebSocket clients
	MaxClients = 100

	// ShutdownTimeout is how long to wait for graceful shutdown
	ShutdownTimeout = 10 * time.Second

	// sendBufferSize is the per-client event queue depth. Clients that
	// fall this far behind are evicted rather than allowed to stall the
	// hub.
	sendBufferSize = 16

	// broadcastBufferSize absorbs reload bursts without blocking the
	// model watcher goroutine
	broadcastBufferSize = 64
)

// ServerState represents the server lifecycle state
type ServerState int32

const (
	ServerStateRunning  ServerState = iota // Normal operation
	ServerStateDraining                    // Graceful shutdown in progress
	ServerStateStopped                     // Shutdown complete
)

// stateString returns the human-readable state name
func stateString(state ServerState) string {
	switch state {
	case ServerStateRunning:
		return "running"
	case ServerStateDraining:
		return "draining"
	case ServerStateStopped:
		return "stopped"
	default:
		return "unknown"
	}
}

// HealthResponse is the GET /api/health payload
type HealthResponse struct {
	Status      string `json:"status"`
	Version     string `json:"version"`
	Fingerprint string `json:"fingerprint"`
	Elements    int    `json:"elements"`
	Clients     int    `json:"clients"`
	State       string `json:"state"`
}

// ParentResponse mirrors Toolkit.Parent. Defined reports whether the
// queried name exists at all, so a defined root (parent "") stays
// distinguishable from an unknown name.
type ParentResponse struct {
	Name    string `json:"name"`
	Parent  string `json:"parent"`
	Defined bool   `json:"defined"`
}

// ChildrenResponse lists the direct children of a name
type ChildrenResponse struct {
	Name     string   `json:"name"`
	Children []string `json:"children"`
}

// AncestorsResponse lists the ancestor chain of a name, nearest first
type AncestorsResponse struct {
	Name      string   `json:"name"`
	Ancestors []string `json:"ancestors"`
}

// DescendantsResponse lists the subtree below a name in depth-first
// order
type DescendantsResponse struct {
	Name        string   `json:"name"`
	Descendants []string `json:"descendants"`
}

// CheckResponse carries a boolean predicate answer (edge-label or
// category membership)
type CheckResponse struct {
	Name  string `json:"name"`
	Check string `json:"check"`
	Value bool   `json:"value"`
}

// MappingResponse lists every element claiming an identifier
type MappingResponse struct {
	Identifier string   `json:"identifier"`
	Elements   []string `json:"elements"`
}

// ResolveResponse is the common-ancestor resolution of an identifier.
// Resolved false means no element claims the identifier or the matches
// share no lineage.
type ResolveResponse struct {
	Identifier string `json:"identifier"`
	Element    string `json:"element"`
	Resolved   bool   `json:"resolved"`
}

// QueryRequest is the POST /api/query body. Input accepts any JSON
// value; non-string inputs yield the op's absent result rather than an
// error.
type QueryRequest struct {
	Op    string `json:"op"`
	Input any    `json:"input"`
}

// QueryResponse pairs a query with its op-shaped result
type QueryResponse struct {
	Op     string `json:"op"`
	Input  any    `json:"input"`
	Result any    `json:"result"`
}

// clientMessage is the envelope for inbound WebSocket messages
type clientMessage struct {
	Type string `json:"type"`
}
