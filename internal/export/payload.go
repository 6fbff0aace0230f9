// Package export builds serializable session payloads from log store
// snapshots and writes them as pretty/compact JSON, CSV, or a SQLite
// session archive.
//
// Exports are write-once artifacts of a finished (or in-flight) session.
// They are not a persistence layer: nothing in this package is ever read
// back into a running kernel.
package export

import (
	"time"

	"github.com/davenwood/prism/internal/event"
	"github.com/davenwood/prism/internal/logstore"
)

// Metadata describes the session an export was taken from.
type Metadata struct {
	ExportedAt        time.Time `json:"exported_at"`
	SessionStart      time.Time `json:"session_start"`
	SessionDurationMS int64     `json:"session_duration_ms"`
	TotalLogs         int       `json:"total_logs"`
	ComponentCount    int       `json:"component_count"`
}

// Summary aggregates retained entries along the three query axes.
type Summary struct {
	ByComponent map[string]int     `json:"by_component"`
	ByEventKind map[event.Kind]int `json:"by_event_kind"`
	ByLevel     map[string]int     `json:"by_level"`
}

// Payload is the complete export shape.
type Payload struct {
	Metadata Metadata         `json:"metadata"`
	Logs     []logstore.Entry `json:"logs"`
	Summary  Summary          `json:"summary"`
}

// Build assembles a payload from a store snapshot. The session duration is
// measured from the snapshot's start time to now.
func Build(snap logstore.Snapshot, now time.Time) Payload {
	p := Payload{
		Metadata: Metadata{
			ExportedAt:        now,
			SessionStart:      snap.StartTime,
			SessionDurationMS: now.Sub(snap.StartTime).Milliseconds(),
			TotalLogs:         len(snap.Entries),
			ComponentCount:    len(snap.ByComponent),
		},
		Logs: snap.Entries,
		Summary: Summary{
			ByComponent: make(map[string]int, len(snap.ByComponent)),
			ByEventKind: make(map[event.Kind]int, len(snap.ByType)),
			ByLevel:     make(map[string]int),
		},
	}
	for id, bucket := range snap.ByComponent {
		p.Summary.ByComponent[id] = len(bucket)
	}
	for kind, bucket := range snap.ByType {
		p.Summary.ByEventKind[kind] = len(bucket)
	}
	for _, e := range snap.Entries {
		p.Summary.ByLevel[e.Level.String()]++
	}
	return p
}
