package commands

import (
	"fmt"

	"github.com/dantte-lp/gosubtype/internal/fsm"
)

// buildExample returns every role's projected Fsm for one of the bundled
// session-runtime examples named in spec.md §8, so `subtype run` has a
// concrete, testable surface instead of the collaborator runtime going
// unexercised.
func buildExample(name string) (map[string]*fsm.Fsm[string, string], error) {
	switch name {
	case "ring-optimisation":
		return ringOptimisationExample(), nil
	case "double-buffering":
		return doubleBufferingExample(), nil
	case "video-streaming-client":
		return videoStreamingClientExample(), nil
	default:
		return nil, fmt.Errorf("run: unknown example %q (want ring-optimisation, double-buffering, video-streaming-client)", name)
	}
}

func add(f *fsm.Fsm[string, string], from, to fsm.StateIndex, role string, action fsm.Action, label string) {
	if err := f.AddTransition(from, to, fsm.NewTransition(role, action, fsm.FromLabel(label))); err != nil {
		panic(fmt.Sprintf("buildExample: AddTransition(%d -> %d): %v", from, to, err))
	}
}

// ringOptimisationExample is spec.md §8 scenario 1's optimised schedule,
// run to completion instead of just decided: A sends "0" to B, B relays
// "0" on to C.
func ringOptimisationExample() map[string]*fsm.Fsm[string, string] {
	a := fsm.New[string, string]("A")
	a0, a1 := a.AddState(), a.AddState()
	add(a, a0, a1, "B", fsm.Send, "0")

	b := fsm.New[string, string]("B")
	b0, b1, b2 := b.AddState(), b.AddState(), b.AddState()
	add(b, b0, b1, "C", fsm.Send, "0")
	add(b, b1, b2, "A", fsm.Receive, "0")

	c := fsm.New[string, string]("C")
	c0, c1 := c.AddState(), c.AddState()
	add(c, c0, c1, "B", fsm.Receive, "0")

	return map[string]*fsm.Fsm[string, string]{"A": a, "B": b, "C": c}
}

// doubleBufferingExample is spec.md §8 scenario 2's optimised schedule: K
// pipelines two rounds of a ready/value exchange with S and T.
func doubleBufferingExample() map[string]*fsm.Fsm[string, string] {
	k := fsm.New[string, string]("K")
	states := make([]fsm.StateIndex, 9)
	for i := range states {
		states[i] = k.AddState()
	}
	kSteps := []struct {
		role   string
		action fsm.Action
		label  string
	}{
		{"S", fsm.Send, "ready"},
		{"S", fsm.Send, "ready"},
		{"S", fsm.Receive, "value"},
		{"T", fsm.Receive, "ready"},
		{"T", fsm.Send, "value"},
		{"S", fsm.Receive, "value"},
		{"T", fsm.Receive, "ready"},
		{"T", fsm.Send, "value"},
	}
	for i, step := range kSteps {
		add(k, states[i], states[i+1], step.role, step.action, step.label)
	}

	s := fsm.New[string, string]("S")
	s0, s1, s2, s3, s4 := s.AddState(), s.AddState(), s.AddState(), s.AddState(), s.AddState()
	add(s, s0, s1, "K", fsm.Receive, "ready")
	add(s, s1, s2, "K", fsm.Receive, "ready")
	add(s, s2, s3, "K", fsm.Send, "value")
	add(s, s3, s4, "K", fsm.Send, "value")

	t := fsm.New[string, string]("T")
	t0, t1, t2, t3, t4 := t.AddState(), t.AddState(), t.AddState(), t.AddState(), t.AddState()
	add(t, t0, t1, "K", fsm.Send, "ready")
	add(t, t1, t2, "K", fsm.Receive, "value")
	add(t, t2, t3, "K", fsm.Send, "ready")
	add(t, t3, t4, "K", fsm.Receive, "value")

	return map[string]*fsm.Fsm[string, string]{"K": k, "S": s, "T": t}
}

// videoStreamingClientExample is spec.md §8 scenario 4, the
// Bravetti-Carbone-Zavattaro refined client paired with a server that
// always reports ok on the first request, completing the session in one
// round under the default first-choice scheduling policy.
func videoStreamingClientExample() map[string]*fsm.Fsm[string, string] {
	client := fsm.New[string, string]("Client")
	c0, c1, c2, c3 := client.AddState(), client.AddState(), client.AddState(), client.AddState()
	add(client, c0, c1, "S", fsm.Send, "hq")
	add(client, c1, c2, "S", fsm.Receive, "ok")
	add(client, c1, c3, "S", fsm.Receive, "fail")
	add(client, c3, c1, "S", fsm.Send, "lq")

	server := fsm.New[string, string]("S")
	s0, s1, s2, s3 := server.AddState(), server.AddState(), server.AddState(), server.AddState()
	add(server, s0, s1, "Client", fsm.Receive, "hq")
	add(server, s1, s2, "Client", fsm.Send, "ok")
	add(server, s1, s3, "Client", fsm.Send, "fail")
	add(server, s3, s1, "Client", fsm.Receive, "lq")

	return map[string]*fsm.Fsm[string, string]{"Client": client, "S": server}
}
