package deep

import "sort"

// ChangeKind classifies a single key-level difference.
type ChangeKind string

const (
	// ChangeAdded means the key is present in next but not prev.
	ChangeAdded ChangeKind = "added"
	// ChangeRemoved means the key is present in prev but not next.
	ChangeRemoved ChangeKind = "removed"
	// ChangeChanged means the key is present in both with unequal values.
	ChangeChanged ChangeKind = "changed"
)

// FieldChange describes one differing key between two records.
type FieldChange struct {
	Key  string     `json:"key" yaml:"key"`
	Prev any        `json:"prev,omitempty" yaml:"prev,omitempty"`
	Next any        `json:"next,omitempty" yaml:"next,omitempty"`
	Kind ChangeKind `json:"kind" yaml:"kind"`
}

// PropChange describes one differing prop between two renders.
// StructurallyEqual distinguishes "new reference, same content" props,
// which usually indicate a missing memoization rather than real change.
type PropChange struct {
	Key               string `json:"key" yaml:"key"`
	Prev              any    `json:"prev,omitempty" yaml:"prev,omitempty"`
	Next              any    `json:"next,omitempty" yaml:"next,omitempty"`
	StructurallyEqual bool   `json:"structurally_equal" yaml:"structurally_equal"`
}

// IndexChange describes one differing position between two slices.
type IndexChange struct {
	Index int `json:"index" yaml:"index"`
	Prev  any `json:"prev,omitempty" yaml:"prev,omitempty"`
	Next  any `json:"next,omitempty" yaml:"next,omitempty"`
}

// SliceDiff buckets every index of two slices by how it changed.
type SliceDiff struct {
	Added     []IndexChange `json:"added,omitempty" yaml:"added,omitempty"`
	Removed   []IndexChange `json:"removed,omitempty" yaml:"removed,omitempty"`
	Changed   []IndexChange `json:"changed,omitempty" yaml:"changed,omitempty"`
	Unchanged []IndexChange `json:"unchanged,omitempty" yaml:"unchanged,omitempty"`
}

// DiffRecord compares two records over the union of their key sets.
// Keys with structurally equal values are omitted. Results are sorted by key
// so repeated diffs of the same inputs are stable.
func DiffRecord(prev, next map[string]any) []FieldChange {
	var changes []FieldChange
	for _, k := range unionKeys(prev, next) {
		pv, inPrev := prev[k]
		nv, inNext := next[k]
		switch {
		case !inPrev:
			changes = append(changes, FieldChange{Key: k, Next: nv, Kind: ChangeAdded})
		case !inNext:
			changes = append(changes, FieldChange{Key: k, Prev: pv, Kind: ChangeRemoved})
		case !Equal(pv, nv):
			changes = append(changes, FieldChange{Key: k, Prev: pv, Next: nv, Kind: ChangeChanged})
		}
	}
	return changes
}

// DiffSlice compares two slices positionally in a single pass over
// max(len(prev), len(next)) indices.
func DiffSlice(prev, next []any) SliceDiff {
	var d SliceDiff
	n := len(prev)
	if len(next) > n {
		n = len(next)
	}
	for i := 0; i < n; i++ {
		switch {
		case i >= len(prev):
			d.Added = append(d.Added, IndexChange{Index: i, Next: next[i]})
		case i >= len(next):
			d.Removed = append(d.Removed, IndexChange{Index: i, Prev: prev[i]})
		case Equal(prev[i], next[i]):
			d.Unchanged = append(d.Unchanged, IndexChange{Index: i, Prev: prev[i], Next: next[i]})
		default:
			d.Changed = append(d.Changed, IndexChange{Index: i, Prev: prev[i], Next: next[i]})
		}
	}
	return d
}

// DiffProps compares two prop records the way a render debugger should:
// a key is reported only when its presence differs, or when the value is both
// a different reference and structurally different. Reference-identical
// values are never reported, and never traversed, regardless of how expensive
// their structural comparison would be. A stable (memoized) reference is by
// definition not a change, so the short-circuit is also what keeps diffing
// cheap on large unchanged subtrees.
func DiffProps(prev, next map[string]any) []PropChange {
	var changes []PropChange
	for _, k := range unionKeys(prev, next) {
		pv, inPrev := prev[k]
		nv, inNext := next[k]
		switch {
		case !inPrev:
			changes = append(changes, PropChange{Key: k, Next: nv})
		case !inNext:
			changes = append(changes, PropChange{Key: k, Prev: pv})
		case Same(pv, nv):
			// Stable reference: not a change.
		case Equal(pv, nv):
			// New reference, same content: not a change either, but a
			// candidate memoization warning for callers that ask.
		default:
			changes = append(changes, PropChange{Key: k, Prev: pv, Next: nv})
		}
	}
	return changes
}

// UnstablePropKeys returns the keys whose values changed reference between
// renders while remaining structurally equal. These are the props DiffProps
// deliberately suppresses; adapters surface them as memoization hints.
func UnstablePropKeys(prev, next map[string]any) []string {
	var keys []string
	for _, k := range unionKeys(prev, next) {
		pv, inPrev := prev[k]
		nv, inNext := next[k]
		if inPrev && inNext && !Same(pv, nv) && Equal(pv, nv) {
			keys = append(keys, k)
		}
	}
	return keys
}

// ChangedDeps returns the indices at which two dependency arrays differ under
// identity semantics: a dependency is unchanged only when it is the same
// reference (or the same comparable value), with NaN treated as stable and
// +0 / -0 treated as distinct. Index range is max(len(prev), len(next));
// indices past the shorter array always count as changed.
func ChangedDeps(prev, next []any) []int {
	var changed []int
	n := len(prev)
	if len(next) > n {
		n = len(next)
	}
	for i := 0; i < n; i++ {
		if i >= len(prev) || i >= len(next) || !Same(prev[i], next[i]) {
			changed = append(changed, i)
		}
	}
	return changed
}

func unionKeys(a, b map[string]any) []string {
	keys := make([]string, 0, len(a)+len(b))
	for k := range a {
		keys = append(keys, k)
	}
	for k := range b {
		if _, dup := a[k]; !dup {
			keys = append(keys, k)
		}
	}
	sort.Strings(keys)
	return keys
}
