// Command subtype decides asynchronous subtyping between two role-projected
// CFSMs, converts between CFSM representations, and runs bundled
// session-runtime examples.
package main

import "github.com/dantte-lp/gosubtype/cmd/subtype/commands"

func main() {
	commands.Execute()
}
