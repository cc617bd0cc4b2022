// Package flow provides node definitions
package flow

// NodeType tags the payload of a node. The set of types is closed.
type NodeType string

const (
	// NodeTypeTextMessage represents a node that sends a text message
	NodeTypeTextMessage NodeType = "textNode"
)

// IsValid reports whether t is one of the known node types.
func (t NodeType) IsValid() bool {
	_, ok := nodeTypeTable[t]
	return ok
}

func (t NodeType) String() string {
	return string(t)
}

// Position is the canvas coordinate of a node. It never affects validation.
type Position struct {
	X float64 `json:"x" msgpack:"x" yaml:"x"`
	Y float64 `json:"y" msgpack:"y" yaml:"y"`
}

// NodeData is the payload edited in the settings panel.
type NodeData struct {
	Label string   `json:"label" msgpack:"label" yaml:"label" validate:"max=200"`
	Text  string   `json:"text,omitempty" msgpack:"text,omitempty" yaml:"text,omitempty" validate:"max=4096"` // empty means absent
	Type  NodeType `json:"type" msgpack:"type" yaml:"type" validate:"node_type"`
}

// Node represents one chatbot message step in the flow
// PRINCIPLES:
// - KISS: Plain value type, copied freely
// - SRP: Only responsible for node data
type Node struct {
	ID       string   `json:"id" msgpack:"id" yaml:"id" validate:"required,node_id"`
	Position Position `json:"position" msgpack:"position" yaml:"position"`
	Data     NodeData `json:"data" msgpack:"data" yaml:"data"`
}

// Validate ensures node integrity
func (n *Node) Validate() error {
	if n.ID == "" {
		return ErrInvalidNodeID
	}
	if !n.Data.Type.IsValid() {
		return ErrUnknownNodeType
	}
	return nil
}

// Type returns the payload type tag.
func (n *Node) Type() NodeType {
	return n.Data.Type
}
