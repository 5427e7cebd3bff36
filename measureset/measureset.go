// Package measureset implements the Pareto-optimal frontier over
// (last-line width, cost) pairs that the resolver searches: a [Measure]
// describes one realisable layout of a sub-document at a position, and a
// [Set] collects the non-dominated measures for that position, or
// degrades to a single best-effort value when width exhaustion makes a
// clean frontier impossible.
package measureset

import (
	"github.com/foldline/foldline/cost"
	"github.com/foldline/foldline/docarena"
)

// Measure is one realisable layout of a sub-document at a position: the
// width of its last output line, the accumulated cost of producing it, and
// the choice-free document that realises it.
type Measure struct {
	LastLineWidth int
	Cost          cost.Cost
	Doc           docarena.Key
}

// Dominates reports whether m dominates other: no worse in either width or
// cost, and strictly better in at least one.
func (m Measure) Dominates(other Measure) bool {
	if m.LastLineWidth > other.LastLineWidth || !m.Cost.LessOrEqual(other.Cost) {
		return false
	}
	return m.LastLineWidth < other.LastLineWidth || m.Cost.Less(other.Cost)
}

// Set is either a clean Pareto-optimal frontier, stored in strictly
// decreasing LastLineWidth order (equivalently strictly increasing cost),
// or a tainted singleton standing in for a best-effort result obtained
// where no choice could satisfy the width limit.
type Set struct {
	measures []Measure
	tainted  bool
}

// Clean builds a clean set from measures already known to form a
// Pareto-optimal frontier in strictly decreasing LastLineWidth order. Base
// cases (Text, Newline) produce a single-measure Clean set, which is
// trivially Pareto-optimal.
func Clean(measures ...Measure) Set {
	return Set{measures: measures}
}

// Tainted builds a tainted singleton around measure.
func Tainted(measure Measure) Set {
	return Set{measures: []Measure{measure}, tainted: true}
}

// IsTainted reports whether s is a best-effort result rather than a clean
// Pareto frontier.
func (s Set) IsTainted() bool {
	return s.tainted
}

// Measures returns the frontier's members. For a tainted set this is the
// single best-effort measure.
func (s Set) Measures() []Measure {
	return s.measures
}

// Best returns the least-cost measure: for a clean set this is the first
// (largest-LastLineWidth) member, which is Pareto-equivalent to the
// least-cost one; for a tainted set it is the lone measure. Best panics on
// an empty set, which never occurs for a Set built by this package's
// constructors or by Resolve.
func (s Set) Best() Measure {
	if len(s.measures) == 0 {
		panic("measureset: Best called on empty set")
	}
	return s.measures[0]
}

// Taint converts a clean set to a tainted singleton containing the set's
// least-cost measure. Taint is idempotent on an already-tainted set.
func Taint(s Set) Set {
	if s.tainted {
		return s
	}
	return Tainted(s.Best())
}

// Lift maps f across every measure in s, preserving the tainted/clean tag.
// f is typically a column-advancing or document-rebuilding transform; for
// the standard lifts used by the resolver (text append, nest, concat step)
// f is monotone in LastLineWidth, so the result needs no re-sorting to stay
// a valid frontier.
func Lift(s Set, f func(Measure) Measure) Set {
	out := make([]Measure, len(s.measures))
	for i, m := range s.measures {
		out[i] = f(m)
	}
	return Set{measures: out, tainted: s.tainted}
}

// Merge combines two measure sets per the resolver's merge rules:
//
//   - tainted ⊕ clean and clean ⊕ tainted both yield the clean set.
//   - tainted ⊕ tainted yields a tainted set wrapping whichever of the two
//     singletons is not dominated by the other (ties keep the first).
//   - clean ⊕ clean performs a two-pointer linear merge over both frontiers
//     (each already sorted by strictly decreasing LastLineWidth): at each
//     step, if one side's head dominates the other's, the dominated head is
//     dropped; two heads equal in width and cost keep only a's; otherwise
//     the head with the larger LastLineWidth is emitted and advanced.
//     Remaining tails are appended once one side is exhausted.
func Merge(a, b Set) Set {
	switch {
	case a.tainted && b.tainted:
		if b.Best().Dominates(a.Best()) {
			return Tainted(b.Best())
		}
		return Tainted(a.Best())
	case a.tainted:
		return b
	case b.tainted:
		return a
	}

	ai, bi := 0, 0
	merged := make([]Measure, 0, len(a.measures)+len(b.measures))
	for ai < len(a.measures) && bi < len(b.measures) {
		ma, mb := a.measures[ai], b.measures[bi]
		switch {
		case ma.Dominates(mb):
			bi++
		case mb.Dominates(ma):
			ai++
		case ma.LastLineWidth == mb.LastLineWidth:
			// Equal width with neither dominating means equal cost too: keep
			// only a's measure so the result stays strictly ordered.
			bi++
		case ma.LastLineWidth > mb.LastLineWidth:
			merged = append(merged, ma)
			ai++
		default:
			merged = append(merged, mb)
			bi++
		}
	}
	merged = append(merged, a.measures[ai:]...)
	merged = append(merged, b.measures[bi:]...)
	return Set{measures: merged}
}
