// Package localtype renders an Fsm as a local session type: the `rec X. …`
// recursive binder form of spec.md §6, used for human-readable output and
// as a cross-check against the FSM graph itself. Grounded on
// original_source/src/fsm/local.rs.
package localtype

import (
	"fmt"
	"strings"

	"github.com/dantte-lp/gosubtype/internal/fsm"
)

// Type is a local session type tree: End, a bound recursion variable
// occurrence, a `rec X{n}.` binder, or a choice over one or more outgoing
// transitions.
type Type[R, N comparable] interface {
	isType()
}

type end struct{}

func (end) isType() {}

type recursionVar struct{ variable int }

func (recursionVar) isType() {}

type binder[R, N comparable] struct {
	variable int
	body     Type[R, N]
}

func (binder[R, N]) isType() {}

type choice[R, N comparable] struct {
	branches []branch[R, N]
}

func (choice[R, N]) isType() {}

type branch[R, N comparable] struct {
	transition fsm.Transition[R, N]
	next       Type[R, N]
}

// builder walks an Fsm depth-first from its start state, folding any cycle
// it revisits into a `rec X{n}.` binder the way original_source/src/fsm/
// local.rs's Builder does: `seen` guards against infinite recursion while a
// state is on the current path, `looped` remembers which states ended up
// needing a binder once the walk returns to them.
type builder[R, N comparable] struct {
	f         *fsm.Fsm[R, N]
	seen      []bool
	looped    []int // -1 = no variable assigned yet
	variables int
}

// New builds the local type of f as seen from its start state (index 0).
func New[R, N comparable](f *fsm.Fsm[R, N]) Type[R, N] {
	states, _ := f.Size()
	if states == 0 {
		panic("localtype: New called on an FSM with no states")
	}

	looped := make([]int, states)
	for i := range looped {
		looped[i] = -1
	}

	b := &builder[R, N]{f: f, seen: make([]bool, states), looped: looped}
	return b.build(0)
}

func (b *builder[R, N]) variable(state fsm.StateIndex) int {
	if b.looped[state] == -1 {
		b.looped[state] = b.variables
		b.variables++
	}
	return b.looped[state]
}

func (b *builder[R, N]) build(state fsm.StateIndex) Type[R, N] {
	if b.seen[state] {
		return recursionVar{variable: b.variable(state)}
	}

	edges := b.f.TransitionsFrom(state)
	if len(edges) == 0 {
		return end{}
	}

	b.seen[state] = true
	branches := make([]branch[R, N], len(edges))
	for i, e := range edges {
		branches[i] = branch[R, N]{transition: e.Transition, next: b.build(e.Target)}
	}
	b.seen[state] = false

	ty := Type[R, N](choice[R, N]{branches: branches})
	if v := b.looped[state]; v != -1 {
		b.looped[state] = -1
		return binder[R, N]{variable: v, body: ty}
	}
	return ty
}

// String renders ty in the notation of spec.md §6: `rec X{n} . …` binders,
// `[t1; S1, t2; S2, …]` for a choice of two or more branches, `t; S` for a
// single-successor state, and `end` for a terminal state.
func String[R, N comparable](ty Type[R, N]) string {
	var b strings.Builder
	writeType[R, N](&b, ty)
	return b.String()
}

func writeType[R, N comparable](b *strings.Builder, ty Type[R, N]) {
	switch t := ty.(type) {
	case end:
		b.WriteString("end")
	case recursionVar:
		fmt.Fprintf(b, "X%d", t.variable)
	case binder[R, N]:
		fmt.Fprintf(b, "rec X%d . ", t.variable)
		writeType[R, N](b, t.body)
	case choice[R, N]:
		if len(t.branches) == 1 {
			br := t.branches[0]
			fmt.Fprintf(b, "%s; ", br.transition.String())
			writeType[R, N](b, br.next)
			return
		}
		b.WriteByte('[')
		for i, br := range t.branches {
			if i > 0 {
				b.WriteString(", ")
			}
			fmt.Fprintf(b, "%s; ", br.transition.String())
			writeType[R, N](b, br.next)
		}
		b.WriteByte(']')
	}
}
