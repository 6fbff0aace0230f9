package deep

import (
	"math"
	"reflect"
	"regexp"
	"time"
)

// Set is an unordered collection compared by existential matching.
// Elements need not be hashable or ordered; membership is decided by Equal.
// Lookup during comparison is O(n), so comparing two Sets is worst case
// quadratic in their size.
type Set []any

var (
	timeType   = reflect.TypeOf(time.Time{})
	regexpType = reflect.TypeOf((*regexp.Regexp)(nil))
	setType    = reflect.TypeOf(Set(nil))
)

// Equal reports whether a and b are structurally equal.
//
// Rules, in order:
//   - nil equals only nil
//   - values of differing dynamic types are unequal
//   - NaN equals NaN; +0 equals -0
//   - time.Time compares by instant, *regexp.Regexp by expression source
//   - pointers, maps and slices that share identity are equal without traversal
//   - slices and arrays compare by length then pairwise
//   - maps compare by size then per-key value equality
//   - Set compares by size then existential pairwise matching
//   - structs compare per exported field
//
// Cycle handling: a per-call map records, for every pointer-identity value
// visited on the left side, the identity it was paired with on the right.
// Revisiting a recorded value succeeds iff it is paired with the same
// counterpart as before. This assumes a consistent traversal order and is a
// practical heuristic, not full graph isomorphism.
func Equal(a, b any) bool {
	return equalValue(reflect.ValueOf(a), reflect.ValueOf(b), make(map[uintptr]uintptr))
}

func equalValue(av, bv reflect.Value, seen map[uintptr]uintptr) bool {
	// reflect.ValueOf(nil) and nil interface elements are invalid values.
	av = unwrap(av)
	bv = unwrap(bv)
	if !av.IsValid() || !bv.IsValid() {
		return av.IsValid() == bv.IsValid()
	}
	if av.Type() != bv.Type() {
		return false
	}

	switch av.Type() {
	case timeType:
		return av.Interface().(time.Time).Equal(bv.Interface().(time.Time))
	case regexpType:
		ar, br := av.Interface().(*regexp.Regexp), bv.Interface().(*regexp.Regexp)
		if ar == nil || br == nil {
			return ar == br
		}
		return ar.String() == br.String()
	case setType:
		return equalSet(av.Interface().(Set), bv.Interface().(Set), seen)
	}

	switch av.Kind() {
	case reflect.Bool:
		return av.Bool() == bv.Bool()

	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		return av.Int() == bv.Int()

	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64, reflect.Uintptr:
		return av.Uint() == bv.Uint()

	case reflect.Float32, reflect.Float64:
		af, bf := av.Float(), bv.Float()
		if math.IsNaN(af) && math.IsNaN(bf) {
			return true
		}
		return af == bf

	case reflect.Complex64, reflect.Complex128:
		return av.Complex() == bv.Complex()

	case reflect.String:
		return av.String() == bv.String()

	case reflect.Pointer:
		if av.IsNil() || bv.IsNil() {
			return av.IsNil() && bv.IsNil()
		}
		if av.Pointer() == bv.Pointer() {
			return true
		}
		if done, eq := checkVisited(av, bv, seen); done {
			return eq
		}
		return equalValue(av.Elem(), bv.Elem(), seen)

	case reflect.Slice:
		if av.IsNil() != bv.IsNil() {
			return av.Len() == 0 && bv.Len() == 0
		}
		if av.Len() != bv.Len() {
			return false
		}
		if av.Len() > 0 && av.Pointer() == bv.Pointer() {
			return true
		}
		if done, eq := checkVisited(av, bv, seen); done {
			return eq
		}
		for i := 0; i < av.Len(); i++ {
			if !equalValue(av.Index(i), bv.Index(i), seen) {
				return false
			}
		}
		return true

	case reflect.Array:
		for i := 0; i < av.Len(); i++ {
			if !equalValue(av.Index(i), bv.Index(i), seen) {
				return false
			}
		}
		return true

	case reflect.Map:
		if av.IsNil() != bv.IsNil() {
			return av.Len() == 0 && bv.Len() == 0
		}
		if av.Len() != bv.Len() {
			return false
		}
		if av.Len() > 0 && av.Pointer() == bv.Pointer() {
			return true
		}
		if done, eq := checkVisited(av, bv, seen); done {
			return eq
		}
		for _, k := range av.MapKeys() {
			bval := bv.MapIndex(k)
			if !bval.IsValid() {
				return false
			}
			if !equalValue(av.MapIndex(k), bval, seen) {
				return false
			}
		}
		return true

	case reflect.Struct:
		t := av.Type()
		for i := 0; i < t.NumField(); i++ {
			if !t.Field(i).IsExported() {
				continue
			}
			if !equalValue(av.Field(i), bv.Field(i), seen) {
				return false
			}
		}
		return true

	case reflect.Func, reflect.Chan, reflect.UnsafePointer:
		if av.IsNil() || bv.IsNil() {
			return av.IsNil() && bv.IsNil()
		}
		return av.Pointer() == bv.Pointer()

	default:
		return false
	}
}

// unwrap peels interface wrappers so container elements compare by their
// dynamic type.
func unwrap(v reflect.Value) reflect.Value {
	for v.Kind() == reflect.Interface {
		if v.IsNil() {
			return reflect.Value{}
		}
		v = v.Elem()
	}
	return v
}

// checkVisited records the (left, right) identity pair and detects revisits.
// Returns done=true when the pair was seen before; eq then reports whether the
// left value is paired with the same right counterpart as on first visit.
func checkVisited(av, bv reflect.Value, seen map[uintptr]uintptr) (done, eq bool) {
	ap, bp := av.Pointer(), bv.Pointer()
	if prev, ok := seen[ap]; ok {
		return true, prev == bp
	}
	seen[ap] = bp
	return false, false
}

func equalSet(a, b Set, seen map[uintptr]uintptr) bool {
	if len(a) != len(b) {
		return false
	}
	matched := make([]bool, len(b))
outer:
	for _, ae := range a {
		for i, be := range b {
			if matched[i] {
				continue
			}
			if equalValue(reflect.ValueOf(ae), reflect.ValueOf(be), seen) {
				matched[i] = true
				continue outer
			}
		}
		return false
	}
	return true
}

// Same reports identity equality in the sense hook dependency arrays use:
// identical references (or identical comparable values) count as unchanged,
// NaN counts as the same as NaN, and +0 differs from -0.
//
// Unlike Equal, Same never traverses: two deeply equal but distinct slices
// are not Same.
func Same(a, b any) bool {
	av, bv := reflect.ValueOf(a), reflect.ValueOf(b)
	if !av.IsValid() || !bv.IsValid() {
		return av.IsValid() == bv.IsValid()
	}
	if av.Type() != bv.Type() {
		return false
	}

	switch av.Kind() {
	case reflect.Float32, reflect.Float64:
		af, bf := av.Float(), bv.Float()
		if math.IsNaN(af) && math.IsNaN(bf) {
			return true
		}
		if af == 0 && bf == 0 {
			return math.Signbit(af) == math.Signbit(bf)
		}
		return af == bf

	case reflect.Pointer, reflect.Map, reflect.Chan, reflect.Func, reflect.UnsafePointer:
		return av.Pointer() == bv.Pointer()

	case reflect.Slice:
		if av.IsNil() || bv.IsNil() {
			return av.IsNil() && bv.IsNil()
		}
		return av.Pointer() == bv.Pointer() && av.Len() == bv.Len()

	default:
		if !av.Type().Comparable() {
			return false
		}
		return a == b
	}
}
