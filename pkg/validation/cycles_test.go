package validation

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/Apoorv-2711/bitespeed/internal/core/flow"
)

func TestHasFlowCycles(t *testing.T) {
	abc := []flow.Node{msg("a", ""), msg("b", ""), msg("c", "")}

	tests := []struct {
		name  string
		nodes []flow.Node
		edges []flow.Edge
		want  bool
	}{
		{name: "no edges", nodes: abc, want: false},
		{name: "no nodes", edges: []flow.Edge{link("a", "b"), link("b", "a")}, want: false},
		{name: "single edge", nodes: abc[:2], edges: []flow.Edge{link("a", "b")}, want: false},
		{name: "two node cycle", nodes: abc[:2], edges: []flow.Edge{link("a", "b"), link("b", "a")}, want: true},
		{name: "self loop", nodes: abc[:1], edges: []flow.Edge{link("a", "a")}, want: true},
		{name: "three node cycle", nodes: abc, edges: []flow.Edge{link("a", "b"), link("b", "c"), link("c", "a")}, want: true},
		{
			name:  "diamond reached twice is not a cycle",
			nodes: append(abc, msg("d", "")),
			edges: []flow.Edge{link("a", "b"), link("a", "c"), link("b", "d"), link("c", "d")},
			want:  false,
		},
		{
			name:  "node finished on an earlier path is not on the stack",
			nodes: abc,
			edges: []flow.Edge{link("b", "c"), link("a", "c")},
			want:  false,
		},
		{
			name:  "cycle in a later component",
			nodes: append(abc, msg("x", ""), msg("y", "")),
			edges: []flow.Edge{link("a", "b"), link("x", "y"), link("y", "x")},
			want:  true,
		},
		{
			name:  "edges through unknown nodes are ignored",
			nodes: abc[:2],
			edges: []flow.Edge{link("a", "ghost"), link("ghost", "a"), link("a", "b")},
			want:  false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, HasFlowCycles(tt.nodes, tt.edges))
		})
	}
}

func TestHasFlowCycles_NotPartOfValidation(t *testing.T) {
	g := &flow.Graph{
		Nodes: []flow.Node{msg("a", "hi"), msg("b", "hi")},
		Edges: []flow.Edge{link("a", "b"), link("b", "a")},
	}
	assert.True(t, GraphHasCycles(g))
	assert.True(t, ValidateGraph(g).IsValid)
}
