// Package reduction implements the prefix canonicalisation rewrite of
// spec.md §4.2: before the subtype visitor decides whether two states
// "behave equivalently from here", it eagerly cancels pending transitions
// that already match across the two prefixes, modulo the asynchronous
// reordering the theory permits.
package reduction

import (
	"github.com/dantte-lp/gosubtype/internal/fsm"
	"github.com/dantte-lp/gosubtype/internal/pair"
	"github.com/dantte-lp/gosubtype/internal/prefix"
)

// reorder walks rights from its head looking for an entry structurally
// equal to left, failing immediately if the reject predicate holds for any
// entry inspected along the way (including the head itself, which the
// caller has already established differs from left via the reduction fast
// path). It returns (index, true, false) on a match, (_, false, false) if
// it reached the end without a match or a reject, and (_, false, true) if
// reject fired.
func reorder[R, N comparable](
	left fsm.Transition[R, N],
	rights *prefix.Buffer[R, N],
	reject func(left, right fsm.Transition[R, N]) bool,
) (idx prefix.Index, found, rejected bool) {
	entries := rights.IterFull()
	if len(entries) == 0 {
		panic("reduction: reorder called with an empty right buffer")
	}

	if reject(left, entries[0].Transition) {
		return 0, false, true
	}

	for _, e := range entries[1:] {
		if left.Equal(e.Transition) {
			return e.Index, true, false
		}
		if reject(left, e.Transition) {
			return 0, false, true
		}
	}

	return 0, false, false
}

// rejectSend is the reject predicate for a pending Send at the head of the
// left prefix (spec.md §4.2 step 5): two concurrent sends to the same peer
// cannot be reordered past one another.
func rejectSend[R, N comparable](left, right fsm.Transition[R, N]) bool {
	return right.Role == left.Role && right.Action == fsm.Send
}

// rejectReceive is the reject predicate for a pending Receive at the head
// of the left prefix: a receive cannot be delayed past any send, nor past
// another action on the same peer.
func rejectReceive[R, N comparable](left, right fsm.Transition[R, N]) bool {
	return right.Role == left.Role || right.Action == fsm.Send
}

// Reduce runs the reduction to a fixed point on the two prefixes, in place.
// It returns false the moment a reject predicate fires (the two prefixes
// cannot be reconciled — the subtype question at this branch is false) and
// true otherwise, whether or not anything was cancelled.
func Reduce[R, N comparable](prefixes pair.Pair[*prefix.Buffer[R, N]]) bool {
	for {
		left, lok := prefixes.Left.First()
		right, rok := prefixes.Right.First()
		if !lok || !rok {
			return true
		}

		if left.Equal(right) {
			prefixes.Left.RemoveFirst()
			prefixes.Right.RemoveFirst()
			continue
		}

		var reject func(left, right fsm.Transition[R, N]) bool
		switch left.Action {
		case fsm.Receive:
			reject = rejectReceive[R, N]
		case fsm.Send:
			reject = rejectSend[R, N]
		}

		idx, found, rejected := reorder(left, prefixes.Right, reject)
		if rejected {
			return false
		}
		if !found {
			return true
		}

		prefixes.Left.RemoveFirst()
		prefixes.Right.Remove(idx)
	}
}
