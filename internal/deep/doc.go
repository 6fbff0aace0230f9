// Package deep provides structural value comparison and diffing for
// instrumented component data (props, state, hook dependencies).
//
// The comparison rules are tuned for debugging UI renders rather than for
// general-purpose equality:
//   - NaN compares equal to NaN (a re-render caused by NaN state is noise)
//   - time.Time compares by instant, *regexp.Regexp by source text
//   - Set compares existentially (order-insensitive, worst case quadratic)
//   - cyclic structures terminate via a per-call visited-pair map
//
// Two identity notions coexist and must not be conflated:
//   - Equal: structural equality, +0 == -0, used to classify "changed" props
//   - Same: reference/identity equality with NaN==NaN and +0 != -0, used for
//     hook dependency arrays where callers rely on memoized references
//
// Equal is total: it never panics and never mutates its arguments.
package deep
