// Package logstore provides the bounded, multi-indexed in-memory log that
// retains formatted lifecycle events for querying and export.
//
// The store keeps one insertion-ordered sequence of entries plus two derived
// indexes (by component id and by event kind). Indexes hold references to the
// same entries, never copies.
//
// Invariants, maintained by every operation:
//   - len(entries) <= capacity after every Append
//   - every reference in an index is present in entries
//   - no index bucket is ever left empty; an emptied bucket is deleted
//   - the session start time survives Clear
package logstore

import (
	"time"

	"github.com/davenwood/prism/internal/event"
)

// DefaultCapacity bounds the log when no explicit capacity is configured.
const DefaultCapacity = 1000

// Entry is one stored, leveled, formatted wrapper around an emitted event.
// Entries are immutable once appended; they are destroyed only by trimming
// or an explicit Clear.
type Entry struct {
	ID            string      `json:"id" yaml:"id"`
	Time          time.Time   `json:"time" yaml:"time"`
	ComponentID   string      `json:"component_id" yaml:"component_id"`
	ComponentName string      `json:"component_name" yaml:"component_name"`
	Event         event.Event `json:"event" yaml:"event"`
	Level         event.Level `json:"level" yaml:"level"`
	Message       string      `json:"message" yaml:"message"`
}

// Store is the bounded multi-indexed log.
//
// Store is not internally locked: it inherits the kernel's single-writer
// discipline, where every operation runs to completion within the caller's
// turn.
type Store struct {
	entries     []*Entry
	byComponent map[string][]*Entry
	byType      map[event.Kind][]*Entry
	startTime   time.Time
	lastEntry   *Entry
	capacity    int
}

// New creates an empty store. The start time marks the beginning of the
// session and is preserved across Clear. A non-positive capacity falls back
// to DefaultCapacity.
func New(capacity int, start time.Time) *Store {
	if capacity < 1 {
		capacity = DefaultCapacity
	}
	return &Store{
		entries:     make([]*Entry, 0, 64),
		byComponent: make(map[string][]*Entry),
		byType:      make(map[event.Kind][]*Entry),
		startTime:   start,
		capacity:    capacity,
	}
}

// Append stores the entry, updates both indexes, and trims from the front if
// the store now exceeds capacity. Trimming and index maintenance are atomic
// relative to the call: no partially-updated index state is observable after
// Append returns.
func (s *Store) Append(entry Entry) {
	e := &entry
	s.entries = append(s.entries, e)
	s.byComponent[e.ComponentID] = append(s.byComponent[e.ComponentID], e)
	s.byType[e.Event.Kind] = append(s.byType[e.Event.Kind], e)
	s.lastEntry = e
	s.trim()
}

// trim evicts the oldest entries until the store fits its capacity, removing
// each evicted entry's reference from both indexes and deleting buckets that
// empty out.
func (s *Store) trim() {
	overflow := len(s.entries) - s.capacity
	if overflow <= 0 {
		return
	}

	evicted := s.entries[:overflow]
	s.entries = append(s.entries[:0:0], s.entries[overflow:]...)

	for _, e := range evicted {
		s.dropFromIndex(s.byComponent, e.ComponentID, e)
		s.dropKindFromIndex(s.byType, e.Event.Kind, e)
	}

	if len(s.entries) == 0 {
		s.lastEntry = nil
	}
}

// dropFromIndex removes one entry reference from a component bucket.
// Evictions are oldest-first, so the reference is normally at the bucket
// front; the scan handles it regardless.
func (s *Store) dropFromIndex(idx map[string][]*Entry, key string, e *Entry) {
	bucket := idx[key]
	for i, ref := range bucket {
		if ref == e {
			bucket = append(bucket[:i], bucket[i+1:]...)
			break
		}
	}
	if len(bucket) == 0 {
		delete(idx, key)
	} else {
		idx[key] = bucket
	}
}

func (s *Store) dropKindFromIndex(idx map[event.Kind][]*Entry, key event.Kind, e *Entry) {
	bucket := idx[key]
	for i, ref := range bucket {
		if ref == e {
			bucket = append(bucket[:i], bucket[i+1:]...)
			break
		}
	}
	if len(bucket) == 0 {
		delete(idx, key)
	} else {
		idx[key] = bucket
	}
}

// SetCapacity updates the bound and immediately re-trims if the store
// currently exceeds it. Non-positive capacities are ignored.
func (s *Store) SetCapacity(n int) {
	if n < 1 {
		return
	}
	s.capacity = n
	s.trim()
}

// Capacity returns the configured bound.
func (s *Store) Capacity() int {
	return s.capacity
}

// Len returns the number of retained entries.
func (s *Store) Len() int {
	return len(s.entries)
}

// Clear empties the sequence and both indexes. The session start time is
// preserved.
func (s *Store) Clear() {
	s.entries = s.entries[:0]
	s.byComponent = make(map[string][]*Entry)
	s.byType = make(map[event.Kind][]*Entry)
	s.lastEntry = nil
}

// StartTime returns the session start marker.
func (s *Store) StartTime() time.Time {
	return s.startTime
}

// LastEntry returns the most recently appended entry, or nil when the store
// is empty.
func (s *Store) LastEntry() *Entry {
	return s.lastEntry
}

// Snapshot is a point-in-time copy of the store's state for read egress.
// Mutating a snapshot does not affect the store.
type Snapshot struct {
	Entries     []Entry
	ByComponent map[string][]Entry
	ByType      map[event.Kind][]Entry
	StartTime   time.Time
	LastEntry   *Entry
}

// Snapshot copies the current entries and indexes.
func (s *Store) Snapshot() Snapshot {
	snap := Snapshot{
		Entries:     make([]Entry, len(s.entries)),
		ByComponent: make(map[string][]Entry, len(s.byComponent)),
		ByType:      make(map[event.Kind][]Entry, len(s.byType)),
		StartTime:   s.startTime,
	}
	for i, e := range s.entries {
		snap.Entries[i] = *e
	}
	for id, bucket := range s.byComponent {
		copies := make([]Entry, len(bucket))
		for i, e := range bucket {
			copies[i] = *e
		}
		snap.ByComponent[id] = copies
	}
	for kind, bucket := range s.byType {
		copies := make([]Entry, len(bucket))
		for i, e := range bucket {
			copies[i] = *e
		}
		snap.ByType[kind] = copies
	}
	if s.lastEntry != nil {
		last := *s.lastEntry
		snap.LastEntry = &last
	}
	return snap
}

// ComponentIDs returns the ids currently present in the component index.
// Used for testing and export summaries.
func (s *Store) ComponentIDs() []string {
	ids := make([]string, 0, len(s.byComponent))
	for id := range s.byComponent {
		ids = append(ids, id)
	}
	return ids
}
