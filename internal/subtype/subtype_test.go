package subtype_test

import (
	"testing"

	"github.com/dantte-lp/gosubtype/internal/fsm"
	"github.com/dantte-lp/gosubtype/internal/subtype"
)

func mustAdd(t *testing.T, f *fsm.Fsm[string, string], from, to fsm.StateIndex, role string, action fsm.Action, label string) {
	t.Helper()
	tr := fsm.NewTransition(role, action, fsm.FromLabel(label))
	if err := f.AddTransition(from, to, tr); err != nil {
		t.Fatalf("AddTransition(%d -> %d, %v): %v", from, to, tr, err)
	}
}

// linear builds a straight-line FSM for selfRole from a flat list of
// (peerRole, action, label) steps, one state per step plus a trailing End
// state.
func linear(t *testing.T, selfRole string, steps [][3]any) *fsm.Fsm[string, string] {
	t.Helper()
	f := fsm.New[string, string](selfRole)
	states := make([]fsm.StateIndex, len(steps)+1)
	for i := range states {
		states[i] = f.AddState()
	}
	for i, step := range steps {
		mustAdd(t, f, states[i], states[i+1], step[0].(string), step[1].(fsm.Action), step[2].(string))
	}
	return f
}

// TestIsSubtypeRingOptimisation is spec.md §8 scenario 1.
func TestIsSubtypeRingOptimisation(t *testing.T) {
	t.Parallel()

	unoptimised := linear(t, "B", [][3]any{
		{"A", fsm.Receive, "0"},
		{"C", fsm.Send, "0"},
	})
	optimised := linear(t, "B", [][3]any{
		{"C", fsm.Send, "0"},
		{"A", fsm.Receive, "0"},
	})

	if !subtype.IsSubtype(optimised, unoptimised, 4) {
		t.Error("IsSubtype(optimised, unoptimised, 4) = false, want true")
	}
	if !subtype.IsSubtype(unoptimised, optimised, 4) {
		t.Error("IsSubtype(unoptimised, optimised, 4) = false, want true")
	}
}

// TestIsSubtypeDoubleBuffering is spec.md §8 scenario 2.
func TestIsSubtypeDoubleBuffering(t *testing.T) {
	t.Parallel()

	unoptimised := linear(t, "K", [][3]any{
		{"S", fsm.Send, "ready"},
		{"S", fsm.Receive, "value"},
		{"T", fsm.Receive, "ready"},
		{"T", fsm.Send, "value"},
		{"S", fsm.Send, "ready"},
		{"S", fsm.Receive, "value"},
		{"T", fsm.Receive, "ready"},
		{"T", fsm.Send, "value"},
	})
	optimised := linear(t, "K", [][3]any{
		{"S", fsm.Send, "ready"},
		{"S", fsm.Send, "ready"},
		{"S", fsm.Receive, "value"},
		{"T", fsm.Receive, "ready"},
		{"T", fsm.Send, "value"},
		{"S", fsm.Receive, "value"},
		{"T", fsm.Receive, "ready"},
		{"T", fsm.Send, "value"},
	})

	if !subtype.IsSubtype(optimised, unoptimised, 2) {
		t.Error("IsSubtype(optimised, unoptimised, 2) = false, want true")
	}
	if subtype.IsSubtype(unoptimised, optimised, 2) {
		t.Error("IsSubtype(unoptimised, optimised, 2) = true, want false")
	}
}

// TestIsSubtypeForbidsSendReorder is spec.md §8 scenario 3.
func TestIsSubtypeForbidsSendReorder(t *testing.T) {
	t.Parallel()

	left := linear(t, "Self", [][3]any{
		{"A", fsm.Send, "x"},
		{"A", fsm.Send, "y"},
	})
	right := linear(t, "Self", [][3]any{
		{"A", fsm.Send, "y"},
		{"A", fsm.Send, "x"},
	})

	if subtype.IsSubtype(left, right, 10) {
		t.Error("IsSubtype(left, right, 10) = true, want false (same-peer sends must not reorder)")
	}
}

// TestIsSubtypeVideoStreamingClient is spec.md §8 scenario 4, the
// Bravetti-Carbone-Zavattaro video streaming client.
func TestIsSubtypeVideoStreamingClient(t *testing.T) {
	t.Parallel()

	// Refined client: always offers hq first, only falling back to lq
	// after the server reports fail.
	refined := fsm.New[string, string]("Client")
	c0 := refined.AddState()
	c1 := refined.AddState()
	c2 := refined.AddState()
	c3 := refined.AddState()
	mustAdd(t, refined, c0, c1, "S", fsm.Send, "hq")
	mustAdd(t, refined, c1, c2, "S", fsm.Receive, "ok")
	mustAdd(t, refined, c1, c3, "S", fsm.Receive, "fail")
	mustAdd(t, refined, c3, c1, "S", fsm.Send, "lq")

	// Free-choice client: offers hq or lq on every round.
	free := fsm.New[string, string]("Client")
	d0 := free.AddState()
	d1 := free.AddState()
	mustAdd(t, free, d0, d1, "S", fsm.Send, "hq")
	mustAdd(t, free, d0, d1, "S", fsm.Send, "lq")
	mustAdd(t, free, d1, d0, "S", fsm.Receive, "ok")
	mustAdd(t, free, d1, d0, "S", fsm.Receive, "fail")

	if !subtype.IsSubtype(refined, free, 10) {
		t.Error("IsSubtype(refined, free, 10) = false, want true")
	}
	if subtype.IsSubtype(free, refined, 10) {
		t.Error("IsSubtype(free, refined, 10) = true, want false")
	}
}

// TestIsSubtypeBudgetExhaustion is spec.md §8 scenario 6: a cyclic FSM
// where deciding self-subtyping requires revisiting the same state pair
// more than once before the co-inductive snapshot shortcut can fire, so an
// insufficient visit budget reports false even though the relation holds.
func TestIsSubtypeBudgetExhaustion(t *testing.T) {
	t.Parallel()

	f := fsm.New[string, string]("Self")
	s0, s1, s2 := f.AddState(), f.AddState(), f.AddState()
	mustAdd(t, f, s0, s1, "A", fsm.Send, "x")
	mustAdd(t, f, s1, s2, "A", fsm.Send, "y")
	mustAdd(t, f, s2, s0, "A", fsm.Send, "z")

	if subtype.IsSubtype(f, f, 1) {
		t.Error("IsSubtype(f, f, 1) = true, want false (budget too small to revisit the start pair)")
	}
	if !subtype.IsSubtype(f, f, 100) {
		t.Error("IsSubtype(f, f, 100) = false, want true")
	}
}

// TestIsSubtypeReflexiveWithinBudget is the universal invariant from
// spec.md §8: is_subtype(F, F, N) = true for any N>=1, given enough budget
// to cover F's own cyclic structure.
func TestIsSubtypeReflexiveWithinBudget(t *testing.T) {
	t.Parallel()

	f := linear(t, "B", [][3]any{
		{"A", fsm.Receive, "0"},
		{"C", fsm.Send, "0"},
	})

	if !subtype.IsSubtype(f, f, 1) {
		t.Error("IsSubtype(f, f, 1) = false, want true for an acyclic FSM")
	}
}

func TestIsSubtypePanicsOnRoleMismatch(t *testing.T) {
	t.Parallel()

	left := fsm.New[string, string]("A")
	right := fsm.New[string, string]("B")

	defer func() {
		if recover() == nil {
			t.Fatal("IsSubtype did not panic on mismatched roles")
		}
	}()
	subtype.IsSubtype(left, right, 1)
}
