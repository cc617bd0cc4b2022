package validation

import (
	"github.com/Apoorv-2711/bitespeed/internal/core/flow"
)

// HasFlowCycles reports whether the directed graph contains a cycle. Edges
// that reference unknown nodes are ignored. Nodes are visited in slice order
// and successors in edge order. A node is on the recursion stack only while
// its subtree is being explored, so reaching a node finished on an earlier
// path is not a cycle.
//
// The save path does not call this; cycles are a permitted flow state.
func HasFlowCycles(nodes []flow.Node, edges []flow.Edge) bool {
	idx := flow.NewIndex(nodes, edges)
	visited := make(map[string]bool, len(nodes))
	onStack := make(map[string]bool, len(nodes))

	var dfs func(string) bool
	dfs = func(u string) bool {
		visited[u] = true
		onStack[u] = true
		for _, v := range idx.Successors(u) {
			if onStack[v] {
				return true // back-edge
			}
			if !visited[v] && dfs(v) {
				return true
			}
		}
		onStack[u] = false
		return false
	}

	for i := range nodes {
		id := nodes[i].ID
		if !visited[id] && dfs(id) {
			return true
		}
	}
	return false
}

// GraphHasCycles runs HasFlowCycles over a graph snapshot.
func GraphHasCycles(g *flow.Graph) bool {
	return HasFlowCycles(g.Nodes, g.Edges)
}
