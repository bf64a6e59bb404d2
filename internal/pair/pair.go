// Package pair provides the two-element homogeneous tuple used throughout
// the subtyping core as the algorithmic symmetry primitive: every place the
// decision procedure must treat "the left FSM" and "the right FSM"
// identically, it does so through a Pair and an explicit Swap, rather than
// duplicating code for the symmetric case.
package pair

// Pair is a two-element homogeneous tuple.
type Pair[T any] struct {
	Left  T
	Right T
}

// New constructs a Pair from its two elements.
func New[T any](left, right T) Pair[T] {
	return Pair[T]{Left: left, Right: right}
}

// Swap exchanges Left and Right in place.
func (p *Pair[T]) Swap() {
	p.Left, p.Right = p.Right, p.Left
}

// Swapped returns a copy of p with Left and Right exchanged.
func Swapped[T any](p Pair[T]) Pair[T] {
	return Pair[T]{Left: p.Right, Right: p.Left}
}

// Map applies f to both elements, producing a Pair of the result type.
func Map[T, U any](p Pair[T], f func(T) U) Pair[U] {
	return Pair[U]{Left: f(p.Left), Right: f(p.Right)}
}

// Zip combines p with another Pair elementwise into a Pair of 2-tuples.
func Zip[T, U any](p Pair[T], q Pair[U]) Pair[Zipped[T, U]] {
	return Pair[Zipped[T, U]]{
		Left:  Zipped[T, U]{First: p.Left, Second: q.Left},
		Right: Zipped[T, U]{First: p.Right, Second: q.Right},
	}
}

// Zipped is the elementwise result of Zip.
type Zipped[T, U any] struct {
	First  T
	Second U
}

// Iter returns the two elements of p in Left, Right order. It exists for
// callers that want to range over both sides uniformly instead of naming
// Left/Right explicitly.
func (p Pair[T]) Iter() []T {
	return []T{p.Left, p.Right}
}

// All reports whether f holds for both elements of p.
func All[T any](p Pair[T], f func(T) bool) bool {
	return f(p.Left) && f(p.Right)
}
