// Package flow defines domain-specific errors
package flow

import "errors"

// Domain errors - defined once, used everywhere
var (
	// Node errors
	ErrInvalidNodeID   = errors.New("invalid node ID")
	ErrUnknownNodeType = errors.New("unknown node type")
	ErrNodeNotFound    = errors.New("node not found")
	ErrDuplicateNode   = errors.New("duplicate node ID")

	// Edge errors
	ErrInvalidSource      = errors.New("invalid source node")
	ErrInvalidTarget      = errors.New("invalid target node")
	ErrEdgeNotFound       = errors.New("edge not found")
	ErrSourceNodeNotFound = errors.New("source node not found")
	ErrTargetNodeNotFound = errors.New("target node not found")

	// Connection errors
	ErrSelfLoop        = errors.New("self-loops are not allowed")
	ErrSourcePortInUse = errors.New("source handle already has an outgoing connection")
	ErrDuplicateEdge   = errors.New("duplicate edge")
)
