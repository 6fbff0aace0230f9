package logstore

import (
	"regexp"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/davenwood/prism/internal/event"
)

func queryFixture() *Store {
	s := New(100, testStart)
	s.Append(testEntry("e1", "Header", event.KindMount, 1*time.Millisecond))
	s.Append(testEntry("e2", "Header", event.KindUpdate, 2*time.Millisecond))
	s.Append(testEntry("e3", "Sidebar", event.KindMount, 3*time.Millisecond))
	s.Append(testEntry("e4", "Sidebar", event.KindUnmount, 4*time.Millisecond))
	s.Append(testEntry("e5", "Header", event.KindError, 5*time.Millisecond))
	return s
}

func ids(entries []Entry) []string {
	out := make([]string, len(entries))
	for i, e := range entries {
		out[i] = e.ID
	}
	return out
}

func TestStore_Query_NoFilterReturnsAll(t *testing.T) {
	got := queryFixture().Query(Filter{})
	assert.Equal(t, []string{"e1", "e2", "e3", "e4", "e5"}, ids(got))
}

func TestStore_Query_ByComponentName(t *testing.T) {
	got := queryFixture().Query(Filter{ComponentName: "Header"})
	assert.Equal(t, []string{"e1", "e2", "e5"}, ids(got))
}

func TestStore_Query_ByNamePattern(t *testing.T) {
	got := queryFixture().Query(Filter{NamePattern: regexp.MustCompile(`^Side`)})
	assert.Equal(t, []string{"e3", "e4"}, ids(got))
}

func TestStore_Query_NameNormalization(t *testing.T) {
	s := New(10, testStart)
	// "é" in decomposed form (e + combining acute).
	e := testEntry("e1", "Carté", event.KindMount, 0)
	s.Append(e)

	// Composed form must still match.
	got := s.Query(Filter{ComponentName: "Carté"})
	require.Len(t, got, 1)
	assert.Equal(t, "e1", got[0].ID)
}

func TestStore_Query_ByKinds(t *testing.T) {
	got := queryFixture().Query(Filter{Kinds: []event.Kind{event.KindMount, event.KindUnmount}})
	assert.Equal(t, []string{"e1", "e3", "e4"}, ids(got))
}

func TestStore_Query_ByLevels(t *testing.T) {
	got := queryFixture().Query(Filter{Levels: []event.Level{event.LevelError}})
	assert.Equal(t, []string{"e5"}, ids(got))
}

func TestStore_Query_TimeRangeInclusive(t *testing.T) {
	s := queryFixture()
	got := s.Query(Filter{
		Since: testStart.Add(2 * time.Millisecond),
		Until: testStart.Add(4 * time.Millisecond),
	})
	assert.Equal(t, []string{"e2", "e3", "e4"}, ids(got), "both bounds are inclusive")
}

func TestStore_Query_LimitKeepsMostRecent(t *testing.T) {
	// Mixed-level store: limit applies after filtering and keeps the most
	// recent match.
	s := queryFixture()
	got := s.Query(Filter{Levels: []event.Level{event.LevelDebug}, Limit: 1})
	require.Len(t, got, 1)
	assert.Equal(t, "e4", got[0].ID, "e4 is the only debug entry")

	got = s.Query(Filter{ComponentName: "Header", Limit: 2})
	assert.Equal(t, []string{"e2", "e5"}, ids(got))
}

func TestStore_Query_Conjunction(t *testing.T) {
	s := queryFixture()
	got := s.Query(Filter{
		ComponentName: "Header",
		Kinds:         []event.Kind{event.KindUpdate},
		Until:         testStart.Add(3 * time.Millisecond),
	})
	assert.Equal(t, []string{"e2"}, ids(got))
}

func TestStore_Query_ExactAndPatternCombined(t *testing.T) {
	s := queryFixture()
	got := s.Query(Filter{
		ComponentName: "Header",
		NamePattern:   regexp.MustCompile(`^Side`),
	})
	assert.Empty(t, got, "both predicates must hold")
}
