package logstore

import (
	"regexp"
	"time"

	"golang.org/x/text/unicode/norm"

	"github.com/davenwood/prism/internal/event"
)

// Filter selects entries by the conjunction of its non-zero fields.
//
// Component names are NFC-normalized on both sides before matching, so a
// name captured in decomposed form still matches its composed spelling.
type Filter struct {
	// ComponentName matches entries whose component name equals it exactly.
	ComponentName string
	// NamePattern matches entries whose component name matches the pattern.
	// May be combined with ComponentName; both must then hold.
	NamePattern *regexp.Regexp
	// Kinds restricts to the listed event kinds. Empty means any kind.
	Kinds []event.Kind
	// Levels restricts to the listed levels. Empty means any level.
	Levels []event.Level
	// Since/Until bound the entry timestamp, inclusive on both ends.
	// Zero values leave the corresponding end unbounded.
	Since time.Time
	Until time.Time
	// Limit keeps only the most recent N matches. Applied last, after all
	// predicates. Zero means no limit.
	Limit int
}

// Query returns copies of the entries matching f, oldest first.
func (s *Store) Query(f Filter) []Entry {
	var matches []Entry
	wantName := norm.NFC.String(f.ComponentName)

	for _, e := range s.entries {
		name := norm.NFC.String(e.ComponentName)
		if f.ComponentName != "" && name != wantName {
			continue
		}
		if f.NamePattern != nil && !f.NamePattern.MatchString(name) {
			continue
		}
		if len(f.Kinds) > 0 && !containsKind(f.Kinds, e.Event.Kind) {
			continue
		}
		if len(f.Levels) > 0 && !containsLevel(f.Levels, e.Level) {
			continue
		}
		if !f.Since.IsZero() && e.Time.Before(f.Since) {
			continue
		}
		if !f.Until.IsZero() && e.Time.After(f.Until) {
			continue
		}
		matches = append(matches, *e)
	}

	if f.Limit > 0 && len(matches) > f.Limit {
		matches = matches[len(matches)-f.Limit:]
	}
	return matches
}

func containsKind(kinds []event.Kind, k event.Kind) bool {
	for _, want := range kinds {
		if want == k {
			return true
		}
	}
	return false
}

func containsLevel(levels []event.Level, l event.Level) bool {
	for _, want := range levels {
		if want == l {
			return true
		}
	}
	return false
}
