package validation

import (
	"fmt"
	"strings"

	"github.com/Apoorv-2711/bitespeed/internal/core/flow"
)

// Diagnostic message formats, in the order they are reported.
const (
	msgMultipleStarts = "Flow has %d nodes with no incoming connections. Only one starting node is allowed."
	msgEmptyText      = "%d node(s) have empty message text. Please fill in all messages before saving."
	msgIsolated       = "%d node(s) are not connected to the flow. Please connect or remove them."
)

// Result is the outcome of ValidateFlow. Errors is never nil.
type Result struct {
	IsValid bool     `json:"isValid"`
	Errors  []string `json:"errors"`
}

// ValidateFlow checks a flow before it is saved. Every check runs, so one
// call reports every problem:
//  1. more than one node without an incoming edge
//  2. nodes whose message text is empty after trimming
//  3. more than one node with no edges at all
//
// Flows of zero or one node are always valid. Cycles are not checked.
func ValidateFlow(nodes []flow.Node, edges []flow.Edge) Result {
	res := Result{IsValid: true, Errors: []string{}}
	if len(nodes) <= 1 {
		return res
	}

	idx := flow.NewIndex(nodes, edges)
	var starts, empty, isolated int
	for i := range nodes {
		n := &nodes[i]
		in, out := idx.HasIncoming(n.ID), idx.HasOutgoing(n.ID)
		if !in {
			starts++
		}
		if strings.TrimSpace(n.Data.Text) == "" {
			empty++
		}
		if !in && !out {
			isolated++
		}
	}

	if starts > 1 {
		res.Errors = append(res.Errors, fmt.Sprintf(msgMultipleStarts, starts))
	}
	if empty > 0 {
		res.Errors = append(res.Errors, fmt.Sprintf(msgEmptyText, empty))
	}
	if isolated > 1 {
		res.Errors = append(res.Errors, fmt.Sprintf(msgIsolated, isolated))
	}
	res.IsValid = len(res.Errors) == 0
	return res
}

// ValidateGraph runs ValidateFlow over a graph snapshot.
func ValidateGraph(g *flow.Graph) Result {
	return ValidateFlow(g.Nodes, g.Edges)
}
