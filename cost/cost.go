// Package cost defines the pluggable cost monoid the resolver minimises
// over, and a default implementation suitable for source-code formatting.
//
// A [Cost] is the only polymorphic axis of the resolver (see
// docarena/resolver design notes): everything else is structural pattern
// matching over the six document constructors, so the monoid is exposed as
// a small interface rather than a type parameter threaded through every
// package.
package cost

// Cost is an abstract totally ordered monoid with an associative operator
// Combine, an identity Zero, and a family of values Text(col, len, width)
// satisfying, for any c <= c', l, l':
//
//  1. Monotonicity in column: Text(c, l, W) <= Text(c', l, W).
//  2. Splitting: Text(c, l+l', W) = Text(c, l, W).Combine(Text(c+l, l', W)).
//  3. Left-zero at zero length: Text(c, 0, W) = Text(0, 0, W) = Zero().
//
// Implementations must not assume Combine is commutative; the resolver
// always combines costs left-to-right in source order.
type Cost interface {
	// Zero is this cost's identity element.
	Zero() Cost

	// Combine associatively combines this cost with other, in that order.
	Combine(other Cost) Cost

	// Less reports whether this cost sorts strictly before other under the
	// monoid's total order.
	Less(other Cost) bool

	// LessOrEqual reports whether this cost sorts before or equal to
	// other.
	LessOrEqual(other Cost) bool

	// Text computes the cost of laying out length characters starting at
	// column, against a page limit of width.
	Text(column, length, width int) Cost

	// Newline is the distinguished cost of emitting a single line break.
	Newline() Cost
}

// Overflow is the default concrete cost for formatting output: the
// lexicographic pair (overflow², height), where overflow² is the sum of
// squared excesses past the width limit and height is the newline count.
// Lower is better; the zero value is the identity Overflow{0, 0}.
type Overflow struct {
	// SquaredOverflow accumulates (excess past width)² across every Text
	// segment that overran the limit.
	SquaredOverflow int
	// Height counts emitted newlines.
	Height int
}

func (Overflow) Zero() Cost {
	return Overflow{}
}

func (o Overflow) Combine(other Cost) Cost {
	b := other.(Overflow)
	return Overflow{
		SquaredOverflow: o.SquaredOverflow + b.SquaredOverflow,
		Height:          o.Height + b.Height,
	}
}

func (o Overflow) Less(other Cost) bool {
	b := other.(Overflow)
	if o.SquaredOverflow != b.SquaredOverflow {
		return o.SquaredOverflow < b.SquaredOverflow
	}
	return o.Height < b.Height
}

func (o Overflow) LessOrEqual(other Cost) bool {
	b := other.(Overflow)
	if o.SquaredOverflow != b.SquaredOverflow {
		return o.SquaredOverflow < b.SquaredOverflow
	}
	return o.Height <= b.Height
}

// Text implements the overflow-squared cost factory: no cost if the text
// fits before width, otherwise the integral of the squared excess over the
// overflowing span.
//
// When column+length exceeds width, let a = max(width, column) - width and
// b = column+length - max(width, column); the cost is b*(2a+b).
func (Overflow) Text(column, length, width int) Cost {
	if column+length <= width {
		return Overflow{}
	}
	m := column
	if width > m {
		m = width
	}
	a := m - width
	b := column + length - m
	return Overflow{SquaredOverflow: b * (2*a + b)}
}

func (Overflow) Newline() Cost {
	return Overflow{Height: 1}
}
