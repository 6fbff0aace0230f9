package deep

import (
	"math"
	"regexp"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestEqual_Scalars(t *testing.T) {
	tests := []struct {
		name string
		a, b any
		want bool
	}{
		{"identical ints", 42, 42, true},
		{"different ints", 42, 43, false},
		{"int vs string", 42, "42", false},
		{"int vs int64", int(1), int64(1), false},
		{"identical strings", "go", "go", true},
		{"bools", true, true, true},
		{"nan equals nan", math.NaN(), math.NaN(), true},
		{"nan vs number", math.NaN(), 1.0, false},
		{"positive and negative zero", 0.0, math.Copysign(0, -1), true},
		{"nil equals nil", nil, nil, true},
		{"nil vs value", nil, 0, false},
		{"value vs nil", "", nil, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Equal(tt.a, tt.b))
		})
	}
}

func TestEqual_TimeByInstant(t *testing.T) {
	base := time.Date(2026, 3, 14, 9, 26, 53, 0, time.UTC)
	inParis := base.In(time.FixedZone("CET", 3600))

	assert.True(t, Equal(base, inParis), "same instant in different zones")
	assert.False(t, Equal(base, base.Add(time.Nanosecond)))
}

func TestEqual_RegexpBySource(t *testing.T) {
	assert.True(t, Equal(regexp.MustCompile(`^Btn`), regexp.MustCompile(`^Btn`)))
	assert.False(t, Equal(regexp.MustCompile(`^Btn`), regexp.MustCompile(`(?i)^Btn`)))
	assert.True(t, Equal((*regexp.Regexp)(nil), (*regexp.Regexp)(nil)))
	assert.False(t, Equal(regexp.MustCompile(`a`), (*regexp.Regexp)(nil)))
}

func TestEqual_Slices(t *testing.T) {
	assert.True(t, Equal([]any{1, "a", true}, []any{1, "a", true}))
	assert.False(t, Equal([]any{1, 2}, []any{1, 2, 3}))
	assert.False(t, Equal([]any{1, 2}, []any{2, 1}))

	// Nil and empty slices are both "no elements".
	assert.True(t, Equal([]any(nil), []any{}))

	shared := []any{1, 2, 3}
	assert.True(t, Equal(shared, shared), "identical backing array short-circuits")
}

func TestEqual_Maps(t *testing.T) {
	a := map[string]any{"count": 1, "label": "ok"}
	b := map[string]any{"label": "ok", "count": 1}
	assert.True(t, Equal(a, b))

	assert.False(t, Equal(a, map[string]any{"count": 1}))
	assert.False(t, Equal(a, map[string]any{"count": 1, "label": "no"}))
	assert.False(t, Equal(a, map[string]any{"count": 1, "other": "ok"}), "key sets must match")
}

func TestEqual_Sets(t *testing.T) {
	assert.True(t, Equal(Set{1, 2, 3}, Set{3, 1, 2}), "order-insensitive")
	assert.False(t, Equal(Set{1, 2, 3}, Set{1, 2}))
	assert.False(t, Equal(Set{1, 2, 3}, Set{1, 2, 4}))
	assert.True(t, Equal(Set{}, Set{}))

	// Elements may themselves be structural.
	assert.True(t, Equal(
		Set{map[string]any{"id": 1}, map[string]any{"id": 2}},
		Set{map[string]any{"id": 2}, map[string]any{"id": 1}},
	))
}

func TestEqual_Structs(t *testing.T) {
	type props struct {
		Label string
		Count int
	}
	assert.True(t, Equal(props{"a", 1}, props{"a", 1}))
	assert.False(t, Equal(props{"a", 1}, props{"a", 2}))
}

func TestEqual_Pointers(t *testing.T) {
	x, y := 5, 5
	assert.True(t, Equal(&x, &x), "identical pointer")
	assert.True(t, Equal(&x, &y), "distinct pointers, equal pointees")
	z := 6
	assert.False(t, Equal(&x, &z))
	assert.False(t, Equal(&x, (*int)(nil)))
}

type node struct {
	Label string
	Next  *node
}

func TestEqual_SelfReferential(t *testing.T) {
	a := &node{Label: "loop"}
	a.Next = a

	assert.True(t, Equal(a, a), "equal(x, x) holds for cycles")

	b := &node{Label: "loop"}
	b.Next = b
	assert.True(t, Equal(a, b), "isomorphic single-node cycles")

	c := &node{Label: "other"}
	c.Next = c
	assert.False(t, Equal(a, c))
}

func TestEqual_MutualCycle(t *testing.T) {
	a1 := &node{Label: "a"}
	a2 := &node{Label: "b", Next: a1}
	a1.Next = a2

	b1 := &node{Label: "a"}
	b2 := &node{Label: "b", Next: b1}
	b1.Next = b2

	assert.True(t, Equal(a1, b1))
}

func TestEqual_CyclicSlice(t *testing.T) {
	a := make([]any, 1)
	a[0] = a
	assert.True(t, Equal(a, a))
}

func TestEqual_SymmetricForAcyclic(t *testing.T) {
	pairs := [][2]any{
		{map[string]any{"a": []any{1, 2}}, map[string]any{"a": []any{1, 2}}},
		{[]any{"x", 1.5}, []any{"x", 1.5}},
		{Set{1, "two"}, Set{"two", 1}},
		{map[string]any{"a": 1}, map[string]any{"b": 1}},
		{[]any{1}, []any{2}},
	}
	for _, p := range pairs {
		assert.Equal(t, Equal(p[0], p[1]), Equal(p[1], p[0]))
	}
}

func TestSame_Identity(t *testing.T) {
	shared := []any{1, 2}
	assert.True(t, Same(shared, shared))
	assert.False(t, Same([]any{1, 2}, []any{1, 2}), "deep copies are not the same reference")

	m := map[string]any{}
	assert.True(t, Same(m, m))
	assert.False(t, Same(m, map[string]any{}))

	assert.True(t, Same(math.NaN(), math.NaN()))
	assert.False(t, Same(0.0, math.Copysign(0, -1)), "signed zeros are distinct identities")
	assert.True(t, Same("a", "a"))
	assert.True(t, Same(nil, nil))
	assert.False(t, Same(nil, 0))
}
