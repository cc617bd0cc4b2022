package validation

import (
	"errors"
	"fmt"

	"github.com/Apoorv-2711/bitespeed/internal/core/flow"
)

// ValidateDocument performs structural validation on a flow loaded from an
// external source, where the editor's own guards (node-type table, endpoint
// checks on connect) may have been bypassed. It checks field formats, node id
// uniqueness and that every edge endpoint names a node. Flow rules such as
// starting nodes or empty text are left to ValidateFlow.
func ValidateDocument(g *flow.Graph, config *ValidationConfig) error {
	if g == nil {
		return errors.New("flow document is nil")
	}
	if config == nil {
		config = DefaultValidationConfig()
	}

	var errs ValidationErrors
	if err := ValidateWithConfig(g, config); err != nil {
		if !errors.As(err, &errs) {
			return err
		}
	}

	seen := make(map[string]bool, len(g.Nodes))
	for i, n := range g.Nodes {
		if n.ID == "" {
			continue
		}
		if seen[n.ID] {
			errs = append(errs, ValidationError{
				Field:   fmt.Sprintf("nodes[%d].id", i),
				Value:   n.ID,
				Message: "duplicate node ID",
			})
		}
		seen[n.ID] = true
	}

	for i, e := range g.Edges {
		if e.Source != "" && !seen[e.Source] {
			errs = append(errs, ValidationError{
				Field:   fmt.Sprintf("edges[%d].source", i),
				Value:   e.Source,
				Message: "source node does not exist",
			})
		}
		if e.Target != "" && !seen[e.Target] {
			errs = append(errs, ValidationError{
				Field:   fmt.Sprintf("edges[%d].target", i),
				Value:   e.Target,
				Message: "target node does not exist",
			})
		}
	}

	if len(errs) > 0 {
		return truncate(errs, config.MaxErrors)
	}
	return nil
}
