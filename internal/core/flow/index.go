package flow

// Index is a read-only adjacency view over a node/edge snapshot, built once so
// that neighbour and port lookups do not rescan the edge list.
type Index struct {
	known     map[string]struct{}
	incoming  map[string]int
	outgoing  map[string]int
	adjacency map[string][]string
	ports     map[Port]struct{}
	keys      map[EdgeKey]struct{}
}

// NewIndex indexes edges against the given nodes. Traversal adjacency only
// contains edges whose endpoints are both known nodes; degree counts and port
// usage consider every edge.
func NewIndex(nodes []Node, edges []Edge) *Index {
	idx := &Index{
		known:     make(map[string]struct{}, len(nodes)),
		incoming:  make(map[string]int, len(nodes)),
		outgoing:  make(map[string]int, len(nodes)),
		adjacency: make(map[string][]string, len(nodes)),
		ports:     make(map[Port]struct{}, len(edges)),
		keys:      make(map[EdgeKey]struct{}, len(edges)),
	}
	for _, n := range nodes {
		idx.known[n.ID] = struct{}{}
	}
	for i := range edges {
		e := &edges[i]
		idx.incoming[e.Target]++
		idx.outgoing[e.Source]++
		idx.ports[e.OutputPort()] = struct{}{}
		idx.keys[e.Key()] = struct{}{}

		_, srcKnown := idx.known[e.Source]
		_, dstKnown := idx.known[e.Target]
		if srcKnown && dstKnown {
			idx.adjacency[e.Source] = append(idx.adjacency[e.Source], e.Target)
		}
	}
	return idx
}

// NewEdgeIndex indexes an edge set without a node collection. Only port and
// tuple lookups are meaningful on the result.
func NewEdgeIndex(edges []Edge) *Index {
	return NewIndex(nil, edges)
}

// HasIncoming reports whether any edge targets id.
func (x *Index) HasIncoming(id string) bool {
	return x.incoming[id] > 0
}

// HasOutgoing reports whether any edge leaves id.
func (x *Index) HasOutgoing(id string) bool {
	return x.outgoing[id] > 0
}

// Successors returns the known targets of id in edge order.
func (x *Index) Successors(id string) []string {
	return x.adjacency[id]
}

// PortInUse reports whether an edge already leaves the given output port.
func (x *Index) PortInUse(p Port) bool {
	_, ok := x.ports[p]
	return ok
}

// HasEdge reports whether an edge with exactly this tuple exists.
func (x *Index) HasEdge(k EdgeKey) bool {
	_, ok := x.keys[k]
	return ok
}
