// Package flowrepo keeps saved flow revisions in memory for the lifetime of
// the process. Nothing is written to disk.
package flowrepo

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"sync"

	"github.com/Apoorv-2711/bitespeed/internal/core/flow"
	"github.com/Apoorv-2711/bitespeed/pkg/validation"
)

// DefaultFlowID keys flows saved without an ID.
const DefaultFlowID = "default"

// ErrFlowNotFound is returned when no revision exists for a flow ID.
var ErrFlowNotFound = errors.New("flow not found")

// Revision is one successful save of a flow.
type Revision struct {
	Number  int
	Flow    flow.Graph
	Encoded []byte
}

// InMemoryFlowRepository stores every saved revision per flow
// PRINCIPLES:
// - KISS: Simple map-based storage
// - SRP: Only responsible for holding saved revisions
// - Thread-safe
type InMemoryFlowRepository struct {
	mu        sync.RWMutex
	revisions map[string][]Revision
}

func NewInMemoryFlowRepository() *InMemoryFlowRepository {
	return &InMemoryFlowRepository{
		revisions: make(map[string][]Revision),
	}
}

// OnSave records a revision; it makes the repository a usecases.SaveHook.
// The flow must pass the save checks.
func (r *InMemoryFlowRepository) OnSave(ctx context.Context, g flow.Graph, encoded []byte) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if res := validation.ValidateGraph(&g); !res.IsValid {
		return fmt.Errorf("invalid flow: %v", res.Errors)
	}

	id := g.ID
	if id == "" {
		id = DefaultFlowID
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	revs := r.revisions[id]
	r.revisions[id] = append(revs, Revision{
		Number:  len(revs) + 1,
		Flow:    g.Clone(),
		Encoded: append([]byte(nil), encoded...),
	})
	return nil
}

// Latest returns the most recent revision of a flow.
func (r *InMemoryFlowRepository) Latest(_ context.Context, id string) (Revision, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	revs := r.revisions[id]
	if len(revs) == 0 {
		return Revision{}, ErrFlowNotFound
	}
	return revs[len(revs)-1], nil
}

// History returns every revision of a flow, oldest first.
func (r *InMemoryFlowRepository) History(_ context.Context, id string) ([]Revision, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	revs := r.revisions[id]
	if len(revs) == 0 {
		return nil, ErrFlowNotFound
	}
	return append([]Revision(nil), revs...), nil
}

// List returns the IDs of every stored flow, sorted.
func (r *InMemoryFlowRepository) List(_ context.Context) ([]string, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]string, 0, len(r.revisions))
	for id := range r.revisions {
		out = append(out, id)
	}
	sort.Strings(out)
	return out, nil
}
