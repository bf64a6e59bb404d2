// Package subtype implements the asynchronous subtyping decision procedure
// of spec.md §4.3: a bounded, co-inductive visitor over the product of two
// role-projected CFSMs that decides whether left may be safely substituted
// wherever right is expected, modulo the prefix reduction of
// internal/reduction.
package subtype

import (
	"github.com/dantte-lp/gosubtype/internal/fsm"
	"github.com/dantte-lp/gosubtype/internal/matrix"
	"github.com/dantte-lp/gosubtype/internal/pair"
	"github.com/dantte-lp/gosubtype/internal/prefix"
	"github.com/dantte-lp/gosubtype/internal/reduction"
)

// historyEntry is the per-(left state, right state) visit record: how many
// further visits this cell may still absorb before the budget is exhausted,
// and — while a visit to this cell is in progress — the prefix snapshots
// taken on the most recent such visit, used by the co-inductive shortcut to
// recognise revisits that have made no further progress. The entry is
// restored to its previous value when that visit returns.
type historyEntry struct {
	visits    int
	snapshots *pair.Pair[prefix.Snapshot]
}

// quantifier selects how a side's outgoing transitions are combined: All
// requires every alternative to satisfy the subtype relation, Any requires
// only one.
type quantifier int

const (
	all quantifier = iota
	any
)

// visitor carries the state threaded through one IsSubtype call: the two
// FSMs being compared, the per-state-pair visit history, and the two
// prefixes of transitions each side has gotten ahead on.
type visitor[R, N comparable] struct {
	fsms     pair.Pair[*fsm.Fsm[R, N]]
	history  *matrix.Matrix[historyEntry]
	prefixes pair.Pair[*prefix.Buffer[R, N]]
}

// visit decides whether states.Left (in fsms.Left) is a subtype of
// states.Right (in fsms.Right), given the prefixes accumulated so far.
func (v *visitor[R, N]) visit(states pair.Pair[fsm.StateIndex]) bool {
	index := pair.Map(states, func(s fsm.StateIndex) int { return int(s) })

	if v.history.Get(index).visits == 0 {
		return false
	}

	if !reduction.Reduce(v.prefixes) {
		return false
	}

	old := v.history.Get(index)
	if old.snapshots != nil {
		if !v.prefixes.Left.IsModified(old.snapshots.Left) && !v.prefixes.Right.IsModified(old.snapshots.Right) {
			return true
		}
	}

	transitions := pair.Zip(v.fsms, states)
	leftTransitions := transitions.Left.First.TransitionsFrom(transitions.Left.Second)
	rightTransitions := transitions.Right.First.TransitionsFrom(transitions.Right.Second)

	emptyPrefixes := v.prefixes.Left.IsEmpty() && v.prefixes.Right.IsEmpty()

	switch {
	case len(leftTransitions) == 0 && len(rightTransitions) == 0:
		return emptyPrefixes

	case len(leftTransitions) > 0 && len(rightTransitions) > 0:
		snapshots := pair.New(v.prefixes.Left.Snapshot(), v.prefixes.Right.Snapshot())
		v.history.Set(index, historyEntry{visits: old.visits - 1, snapshots: &snapshots})

		both := pair.New(leftTransitions, rightTransitions)
		leftAction := leftTransitions[0].Transition.Action
		rightAction := rightTransitions[0].Transition.Action

		var output bool
		switch {
		case leftAction == fsm.Send && rightAction == fsm.Send:
			output = v.unroll(both, pair.New(all, any), false)
		case leftAction == fsm.Send && rightAction == fsm.Receive:
			output = v.unroll(both, pair.New(all, all), false)
		case leftAction == fsm.Receive && rightAction == fsm.Send:
			output = v.unroll(both, pair.New(any, any), false)
		default: // Receive, Receive
			output = v.unroll(both, pair.New(any, all), true)
		}

		v.history.Set(index, old)
		return output

	default:
		return false
	}
}

// unroll drives the quantifier-combined comparison across one side's
// outgoing transitions against the other's, per spec.md §4.3.1. When swap
// is true, the roles of "left" and "right" are reversed throughout — used
// for the (Receive, Receive) case, where the quantifiers and the iteration
// order need to be mirrored relative to (Send, Send).
func (v *visitor[R, N]) unroll(
	transitions pair.Pair[[]fsm.TransitionEdge[R, N]],
	quantifiers pair.Pair[quantifier],
	swap bool,
) bool {
	if swap {
		transitions.Swap()
		quantifiers.Swap()
	}

	prefixes := v.prefixes
	if swap {
		prefixes.Swap()
	}

	rightTransitions := transitions.Right
	outerLeftSnapshot := prefixes.Left.Snapshot()
	rightSnapshot := prefixes.Right.Snapshot()

	for _, lt := range transitions.Left {
		p := v.prefixes
		if swap {
			p.Swap()
		}

		p.Left.Revert(outerLeftSnapshot)
		p.Left.Push(lt.Transition)
		innerLeftSnapshot := p.Left.Snapshot()

		output := quantifiers.Right == all
		for _, rt := range rightTransitions {
			p := v.prefixes
			if swap {
				p.Swap()
			}

			p.Left.Revert(innerLeftSnapshot)
			p.Right.Revert(rightSnapshot)
			p.Right.Push(rt.Transition)

			states := pair.New(lt.Target, rt.Target)
			if swap {
				states.Swap()
			}

			output = v.visit(states)
			if output == (quantifiers.Right == any) {
				break
			}
		}

		if output == (quantifiers.Left == any) {
			return output
		}
	}

	return quantifiers.Left == all
}

// IsSubtype decides whether left is an asynchronous subtype of right: every
// observable sequence of sends and receives left can produce or consume,
// modulo reordering of independent pending messages, is one right can also
// produce or consume. Both FSMs must be for the same role. visits bounds
// how many times the visitor may revisit any one (left state, right state)
// pair before giving up and reporting false — a finite answer to what is in
// general an undecidable question.
func IsSubtype[R, N comparable](left, right *fsm.Fsm[R, N], visits int) bool {
	if left.Role() != right.Role() {
		panic("subtype: FSMs are for different roles")
	}

	leftStates, _ := left.Size()
	rightStates, _ := right.Size()
	sizes := pair.New(leftStates, rightStates)

	v := &visitor[R, N]{
		fsms:     pair.New(left, right),
		history:  matrix.New(sizes, historyEntry{visits: visits}),
		prefixes: pair.New(prefix.New[R, N](), prefix.New[R, N]()),
	}

	return v.visit(pair.New(fsm.StateIndex(0), fsm.StateIndex(0)))
}
