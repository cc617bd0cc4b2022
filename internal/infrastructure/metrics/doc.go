// Package metrics exposes expvar-published counters for the flow editor:
// validation runs, saves and connection attempts. Values are readable from
// /debug/vars when a host process mounts expvar, and from Snapshot in-process.
package metrics
