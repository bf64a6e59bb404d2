// Package petrify writes an Fsm in the Petrify tool's state-graph format,
// bit-exactly per spec.md §6, so the output can be fed to an external model
// checker as a cross-oracle. Grounded on
// original_source/fsm/src/petrify.rs.
package petrify

import (
	"fmt"
	"strings"

	"github.com/dantte-lp/gosubtype/internal/fsm"
)

// Print renders f as Petrify's `.outputs` / `.state graph` format: one
// `s{from} {role} {!|?} {label} s{to}` line per edge, terminated by
// `.marking s0` / `.end`.
func Print[R, N comparable](f *fsm.Fsm[R, N]) string {
	var b strings.Builder
	b.WriteString(".outputs\n")
	b.WriteString(".state graph\n")

	for _, t := range f.Transitions() {
		fmt.Fprintf(&b, "s%d %v %s %v s%d\n", t.From, t.Transition.Role, t.Transition.Action, t.Transition.Message.Label, t.To)
	}

	b.WriteString(".marking s0\n")
	b.WriteString(".end")
	return b.String()
}

// PrintAll renders a sequence of FSMs, each separated by two blank lines,
// per spec.md §6's "multiple FSMs are separated by two blank lines".
func PrintAll[R, N comparable](fsms []*fsm.Fsm[R, N]) string {
	parts := make([]string, len(fsms))
	for i, f := range fsms {
		parts[i] = Print(f)
	}
	return strings.Join(parts, "\n\n\n")
}
