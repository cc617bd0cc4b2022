// Package flow provides edge definitions
package flow

// Edge is a directed connection from a source node's output port to a target
// node's input port. An empty handle is the absent port: two absent handles
// name the same port, and an absent handle never matches a named one.
type Edge struct {
	ID           string `json:"id" msgpack:"id" yaml:"id" validate:"required,max=300"`
	Source       string `json:"source" msgpack:"source" yaml:"source" validate:"required,node_id"`
	Target       string `json:"target" msgpack:"target" yaml:"target" validate:"required,node_id"`
	SourceHandle string `json:"sourceHandle,omitempty" msgpack:"sourceHandle,omitempty" yaml:"sourceHandle,omitempty" validate:"omitempty,max=100"`
	TargetHandle string `json:"targetHandle,omitempty" msgpack:"targetHandle,omitempty" yaml:"targetHandle,omitempty" validate:"omitempty,max=100"`
}

// Validate ensures edge integrity. Port cardinality is not checked here; that
// belongs to the connection policy.
func (e *Edge) Validate() error {
	if e.Source == "" {
		return ErrInvalidSource
	}
	if e.Target == "" {
		return ErrInvalidTarget
	}
	return nil
}

// OutputPort returns the (source node, source handle) pair the edge occupies.
func (e *Edge) OutputPort() Port {
	return Port{NodeID: e.Source, Handle: e.SourceHandle}
}

// Key returns the full connection tuple used for duplicate detection.
func (e *Edge) Key() EdgeKey {
	return EdgeKey{
		Source:       e.Source,
		Target:       e.Target,
		SourceHandle: e.SourceHandle,
		TargetHandle: e.TargetHandle,
	}
}

// Port identifies an attachment point on a node.
type Port struct {
	NodeID string
	Handle string
}

// EdgeKey is the (source, target, sourceHandle, targetHandle) tuple.
type EdgeKey struct {
	Source       string
	Target       string
	SourceHandle string
	TargetHandle string
}
