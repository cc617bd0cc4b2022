package dto

import "time"

// NoticeKind classifies the transient banner shown after an editor action
type NoticeKind string

const (
	NoticeSuccess NoticeKind = "success"
	NoticeError   NoticeKind = "error"
)

// Notice is a transient status message that disappears at ExpiresAt
type Notice struct {
	Kind      NoticeKind `json:"kind"`
	Message   string     `json:"message"`
	ExpiresAt time.Time  `json:"expires_at"`
}

// Active reports whether the notice should still be shown at now.
func (n Notice) Active(now time.Time) bool {
	return n.Message != "" && now.Before(n.ExpiresAt)
}

// ConnectRequest is one edge-draw gesture from the canvas
type ConnectRequest struct {
	Source       string `json:"source"`
	SourceHandle string `json:"sourceHandle,omitempty"`
	Target       string `json:"target"`
	TargetHandle string `json:"targetHandle,omitempty"`
}

// SaveResult represents the response to a save action
type SaveResult struct {
	FlowID  string    `json:"flow_id,omitempty"`
	Saved   bool      `json:"saved"`
	Errors  []string  `json:"errors"`
	Notice  Notice    `json:"notice"`
	Nodes   int       `json:"nodes"`
	Edges   int       `json:"edges"`
	SavedAt time.Time `json:"saved_at,omitempty"`
}
