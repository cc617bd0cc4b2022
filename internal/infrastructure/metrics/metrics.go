package metrics

import (
	"expvar"
)

// Validation metrics.
var (
	validationsTotal  = new(expvar.Int)
	validationsFailed = expvar.NewMap("bitespeed_validations_failed_total")
)

// Editor metrics, keyed by outcome.
var (
	savesTotal       = expvar.NewMap("bitespeed_saves_total")
	connectionsTotal = expvar.NewMap("bitespeed_connections_total")
	nodesCreated     = new(expvar.Int)
)

// Outcome keys used in the maps above.
const (
	OutcomeAccepted = "accepted"
	OutcomeRejected = "rejected"
)

func init() {
	expvar.Publish("bitespeed_validations_total", validationsTotal)
	expvar.Publish("bitespeed_nodes_created_total", nodesCreated)
}

// Validation helpers

// IncValidations counts one validation pass.
func IncValidations() { validationsTotal.Add(1) }

// ValidationFailed counts a failed validation, keyed by caller ("save", "cli").
func ValidationFailed(kind string) { validationsFailed.Add(kind, 1) }

// Editor helpers
func SaveAttempt(outcome string) { savesTotal.Add(outcome, 1) }
func ConnectionAttempt(outcome string) { connectionsTotal.Add(outcome, 1) }
func IncNodesCreated() { nodesCreated.Add(1) }

// Snapshot returns the current counter values as a flat map, with map
// entries keyed "<metric>.<key>".
func Snapshot() map[string]int64 {
	out := map[string]int64{
		"validations_total":   validationsTotal.Value(),
		"nodes_created_total": nodesCreated.Value(),
	}
	collect(out, "validations_failed", validationsFailed)
	collect(out, "saves", savesTotal)
	collect(out, "connections", connectionsTotal)
	return out
}

func collect(out map[string]int64, prefix string, m *expvar.Map) {
	m.Do(func(kv expvar.KeyValue) {
		if v, ok := kv.Value.(*expvar.Int); ok {
			out[prefix+"."+kv.Key] = v.Value()
		}
	})
}
