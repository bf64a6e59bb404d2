package dotfmt

import (
	"fmt"
	"strings"

	"github.com/dantte-lp/gosubtype/internal/fsm"
)

// Print renders f as a normalized DOT document: one `s{n};` declaration per
// state in index order, followed by one `s{from} -> s{to} [label = "..."];`
// per edge in the graph's natural iteration order. Parse(Print(f)) produces
// an Fsm structurally equal to f, since states are declared and therefore
// re-numbered in the same order they were originally indexed.
func Print(f *fsm.Fsm[string, string]) string {
	states, _ := f.Size()

	var b strings.Builder
	fmt.Fprintf(&b, "digraph %s {\n", f.Role())
	for s := 0; s < states; s++ {
		fmt.Fprintf(&b, "  s%d;\n", s)
	}
	for _, t := range f.Transitions() {
		fmt.Fprintf(&b, "  s%d -> s%d [label = %q];\n", t.From, t.To, t.Transition.String())
	}
	b.WriteString("}\n")
	return b.String()
}
