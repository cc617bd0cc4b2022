package flow

// NodeTypeConfig is the panel metadata and default payload for a node type.
type NodeTypeConfig struct {
	Type        NodeType `json:"type"`
	Label       string   `json:"label"`
	Icon        string   `json:"icon"`
	Description string   `json:"description"`
	DefaultData NodeData `json:"defaultData"`
}

var nodeTypeTable = map[NodeType]NodeTypeConfig{
	NodeTypeTextMessage: {
		Type:        NodeTypeTextMessage,
		Label:       "Message",
		Icon:        "message",
		Description: "Send a text message",
		DefaultData: NodeData{
			Label: "Text Message",
			Type:  NodeTypeTextMessage,
		},
	},
}

// nodeTypeOrder fixes the panel order of the table.
var nodeTypeOrder = []NodeType{NodeTypeTextMessage}

// LookupNodeType returns the table entry for t.
func LookupNodeType(t NodeType) (NodeTypeConfig, bool) {
	cfg, ok := nodeTypeTable[t]
	return cfg, ok
}

// NodeTypes returns every node type in panel order.
func NodeTypes() []NodeTypeConfig {
	out := make([]NodeTypeConfig, 0, len(nodeTypeOrder))
	for _, t := range nodeTypeOrder {
		out = append(out, nodeTypeTable[t])
	}
	return out
}

// NewNode instantiates a node of type t at pos with the type's default payload.
func NewNode(t NodeType, pos Position, ids *IDGenerator) (Node, error) {
	cfg, ok := LookupNodeType(t)
	if !ok {
		return Node{}, ErrUnknownNodeType
	}
	if ids == nil {
		ids = defaultIDs
	}
	return Node{
		ID:       ids.GenerateNodeID(t),
		Position: pos,
		Data:     cfg.DefaultData,
	}, nil
}
