package fsm

import (
	"fmt"
	"strings"
)

// NamedParameter is a single name:sort parameter of a message, with an
// optional opaque refinement predicate. The refinement/effect sublanguage
// itself is out of scope (see SPEC_FULL.md Non-goals); refinement text is
// carried verbatim and never interpreted.
type NamedParameter[N comparable] struct {
	Name       N
	Sort       N
	Refinement string
	HasRefine  bool
}

// Parameters is either an unnamed positional list or a named list, mirroring
// the two message-parameter forms the DOT grammar accepts.
type Parameters[N comparable] struct {
	Named       bool
	Unnamed     []N
	NamedParams []NamedParameter[N]
}

// IsEmpty reports whether the parameter list has no entries.
func (p Parameters[N]) IsEmpty() bool {
	if p.Named {
		return len(p.NamedParams) == 0
	}
	return len(p.Unnamed) == 0
}

// Assignment is a single `name = refinement` entry of a message's trailing
// `[...]` assignment list. Like NamedParameter's refinement, the expression
// text is opaque payload.
type Assignment[N comparable] struct {
	Name       N
	Refinement string
}

// Message is a transition's label plus its opaque payload. Only Label
// participates in the subtyping decision (spec.md §3: "The subtype core
// uses only label; parameters are opaque payload").
type Message[N comparable] struct {
	Label       N
	Parameters  Parameters[N]
	Assignments []Assignment[N]
}

// FromLabel builds a Message with no parameters or assignments.
func FromLabel[N comparable](label N) Message[N] {
	return Message[N]{Label: label}
}

// String renders the message as `label(params)[assignments]`, omitting the
// parenthesized/bracketed parts when empty, matching the Petrify/local-type
// printers' expectations.
func (m Message[N]) String() string {
	var b strings.Builder
	fmt.Fprintf(&b, "%v", m.Label)

	if !m.Parameters.IsEmpty() {
		b.WriteByte('(')
		if m.Parameters.Named {
			for i, p := range m.Parameters.NamedParams {
				if i > 0 {
					b.WriteString(", ")
				}
				fmt.Fprintf(&b, "%v: %v", p.Name, p.Sort)
				if p.HasRefine {
					fmt.Fprintf(&b, "{%s}", p.Refinement)
				}
			}
		} else {
			for i, u := range m.Parameters.Unnamed {
				if i > 0 {
					b.WriteString(", ")
				}
				fmt.Fprintf(&b, "%v", u)
			}
		}
		b.WriteByte(')')
	}

	if len(m.Assignments) > 0 {
		b.WriteByte('[')
		for i, a := range m.Assignments {
			if i > 0 {
				b.WriteString(", ")
			}
			fmt.Fprintf(&b, "%v = %s", a.Name, a.Refinement)
		}
		b.WriteByte(']')
	}

	return b.String()
}
