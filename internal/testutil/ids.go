package testutil

import "fmt"

// FixedIDs returns predetermined entry ids in order.
//
// This enables deterministic golden comparison of exported sessions.
// Panics when all ids have been consumed; fail-fast catches a test that
// emits more entries than it expected.
type FixedIDs struct {
	ids []string
	idx int
}

// NewFixedIDs creates a generator that returns ids in order.
//
// Example:
//
//	gen := NewFixedIDs("e1", "e2")
//	gen.NewID() // "e1"
//	gen.NewID() // "e2"
//	gen.NewID() // panic: all ids exhausted
func NewFixedIDs(ids ...string) *FixedIDs {
	return &FixedIDs{ids: ids}
}

// NewID returns the next predetermined id.
func (g *FixedIDs) NewID() string {
	if g.idx >= len(g.ids) {
		panic("FixedIDs: all ids exhausted")
	}
	id := g.ids[g.idx]
	g.idx++
	return id
}

// SeqIDs generates "prefix-1", "prefix-2", ... without exhausting.
// Use when a test cares about determinism but not the exact count.
type SeqIDs struct {
	prefix string
	n      int
}

// NewSeqIDs creates a sequential generator with the given prefix.
func NewSeqIDs(prefix string) *SeqIDs {
	return &SeqIDs{prefix: prefix}
}

// NewID returns the next sequential id.
func (g *SeqIDs) NewID() string {
	g.n++
	return fmt.Sprintf("%s-%d", g.prefix, g.n)
}
