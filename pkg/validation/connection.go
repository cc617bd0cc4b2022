package validation

import (
	"github.com/Apoorv-2711/bitespeed/internal/core/flow"
)

// CanConnect reports whether an edge from (sourceID, sourceHandle) to
// (targetID, targetHandle) may be added to edges. It rejects self-loops, a
// second edge out of an occupied output port, and exact duplicates. An empty
// handle is the absent port. edges is never modified.
func CanConnect(sourceID, sourceHandle, targetID, targetHandle string, edges []flow.Edge) bool {
	return CheckConnection(sourceID, sourceHandle, targetID, targetHandle, edges) == nil
}

// CheckConnection is CanConnect with the reason for a rejection:
// flow.ErrSelfLoop, flow.ErrSourcePortInUse or flow.ErrDuplicateEdge.
func CheckConnection(sourceID, sourceHandle, targetID, targetHandle string, edges []flow.Edge) error {
	return NewConnectionPolicy(edges).Check(sourceID, sourceHandle, targetID, targetHandle)
}

// ConnectionPolicy answers repeated connection queries against one edge set.
// PRINCIPLES:
// - SRP: Only decides, never mutates the edge set
// - KISS: Index built once, O(1) per query
type ConnectionPolicy struct {
	index *flow.Index
}

// NewConnectionPolicy indexes edges for connection checks.
func NewConnectionPolicy(edges []flow.Edge) *ConnectionPolicy {
	return &ConnectionPolicy{index: flow.NewEdgeIndex(edges)}
}

// Allow reports whether the connection is permitted.
func (p *ConnectionPolicy) Allow(sourceID, sourceHandle, targetID, targetHandle string) bool {
	return p.Check(sourceID, sourceHandle, targetID, targetHandle) == nil
}

// Check returns nil when the connection is permitted.
func (p *ConnectionPolicy) Check(sourceID, sourceHandle, targetID, targetHandle string) error {
	if sourceID == targetID {
		return flow.ErrSelfLoop
	}
	if p.index.PortInUse(flow.Port{NodeID: sourceID, Handle: sourceHandle}) {
		return flow.ErrSourcePortInUse
	}
	if p.index.HasEdge(flow.EdgeKey{
		Source:       sourceID,
		Target:       targetID,
		SourceHandle: sourceHandle,
		TargetHandle: targetHandle,
	}) {
		return flow.ErrDuplicateEdge
	}
	return nil
}
