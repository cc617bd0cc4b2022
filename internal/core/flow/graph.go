// Package flow provides the chatbot flow graph model: message nodes, the
// directed edges between their ports, and the static node-type table.
// It has no dependencies beyond the standard library and google/uuid.
package flow

// Graph is an ordered snapshot of a flow. Slice order is insertion order and
// is the traversal order used by every predicate over the graph.
// PRINCIPLES:
// - KISS: Two slices, no hidden indices
// - SRP: Only responsible for graph structure, not validation policy
type Graph struct {
	ID    string `json:"id,omitempty" msgpack:"id,omitempty" yaml:"id,omitempty"`
	Name  string `json:"name,omitempty" msgpack:"name,omitempty" yaml:"name,omitempty" validate:"max=200"`
	Nodes []Node `json:"nodes" msgpack:"nodes" yaml:"nodes" validate:"dive"`
	Edges []Edge `json:"edges" msgpack:"edges" yaml:"edges" validate:"dive"`
}

// Node returns the node with the given id.
func (g *Graph) Node(id string) (Node, bool) {
	if i := g.nodeIndex(id); i >= 0 {
		return g.Nodes[i], true
	}
	return Node{}, false
}

// HasNode reports whether a node with the given id exists.
func (g *Graph) HasNode(id string) bool {
	return g.nodeIndex(id) >= 0
}

// AddNode appends a node to the graph
// PRINCIPLES:
// - KISS: Direct and simple implementation
// - SRP: Only adds node, doesn't validate the flow
func (g *Graph) AddNode(node Node) error {
	if err := node.Validate(); err != nil {
		return err
	}
	if g.HasNode(node.ID) {
		return ErrDuplicateNode
	}
	g.Nodes = append(g.Nodes, node)
	return nil
}

// AddEdge appends an edge between two existing nodes. Port rules are the
// caller's job (see validation.CanConnect).
func (g *Graph) AddEdge(edge Edge) error {
	if err := edge.Validate(); err != nil {
		return err
	}
	if !g.HasNode(edge.Source) {
		return ErrSourceNodeNotFound
	}
	if !g.HasNode(edge.Target) {
		return ErrTargetNodeNotFound
	}
	g.Edges = append(g.Edges, edge)
	return nil
}

// UpdateNode replaces the label and message text of a node in place.
func (g *Graph) UpdateNode(id, label, text string) error {
	i := g.nodeIndex(id)
	if i < 0 {
		return ErrNodeNotFound
	}
	g.Nodes[i].Data.Label = label
	g.Nodes[i].Data.Text = text
	return nil
}

// MoveNode sets the canvas position of a node.
func (g *Graph) MoveNode(id string, pos Position) error {
	i := g.nodeIndex(id)
	if i < 0 {
		return ErrNodeNotFound
	}
	g.Nodes[i].Position = pos
	return nil
}

// RemoveNode deletes a node together with every edge touching it.
func (g *Graph) RemoveNode(id string) error {
	i := g.nodeIndex(id)
	if i < 0 {
		return ErrNodeNotFound
	}
	g.Nodes = append(g.Nodes[:i], g.Nodes[i+1:]...)

	kept := g.Edges[:0]
	for _, e := range g.Edges {
		if e.Source != id && e.Target != id {
			kept = append(kept, e)
		}
	}
	g.Edges = kept
	return nil
}

// RemoveEdge deletes the edge with the given id.
func (g *Graph) RemoveEdge(id string) error {
	for i, e := range g.Edges {
		if e.ID == id {
			g.Edges = append(g.Edges[:i], g.Edges[i+1:]...)
			return nil
		}
	}
	return ErrEdgeNotFound
}

// Clone returns a copy that shares no backing arrays with g.
func (g *Graph) Clone() Graph {
	out := Graph{ID: g.ID, Name: g.Name}
	out.Nodes = append(make([]Node, 0, len(g.Nodes)), g.Nodes...)
	out.Edges = append(make([]Edge, 0, len(g.Edges)), g.Edges...)
	return out
}

func (g *Graph) nodeIndex(id string) int {
	for i := range g.Nodes {
		if g.Nodes[i].ID == id {
			return i
		}
	}
	return -1
}
