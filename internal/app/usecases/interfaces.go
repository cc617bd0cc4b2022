package usecases

import (
	"context"
	"time"

	"github.com/Apoorv-2711/bitespeed/internal/core/flow"
)

// SaveHook observes successful saves. The editor persists nothing itself;
// hooks receive the snapshot and its encoded form.
// PRINCIPLES:
// - DIP: The editor depends on this abstraction, not on a store
// - ISP: One method, called only for valid flows
type SaveHook interface {
	OnSave(ctx context.Context, snapshot flow.Graph, encoded []byte) error
}

// SaveHookFunc adapts a function to SaveHook.
type SaveHookFunc func(ctx context.Context, snapshot flow.Graph, encoded []byte) error

// OnSave calls f.
func (f SaveHookFunc) OnSave(ctx context.Context, snapshot flow.Graph, encoded []byte) error {
	return f(ctx, snapshot, encoded)
}

// Clock returns the current time. Notice expiry and generated ids read it.
type Clock func() time.Time
