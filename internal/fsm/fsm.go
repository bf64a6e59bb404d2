// Package fsm implements the communicating-finite-state-machine data model:
// a directed graph of states where every non-terminal state carries a
// single (peer role, action) pair and fans out over distinctly labeled
// messages, per spec.md §3/§4.1.
package fsm

import "fmt"

// Nil is the unit role used by Fsm.ToBinary, which collapses every peer
// role in a binary-session FSM down to a single placeholder.
type Nil struct{}

// String renders Nil as the empty string, matching the reference
// implementation's Display impl for its unit role.
func (Nil) String() string { return "" }

// StateIndex identifies a state within one Fsm. Indexes are only meaningful
// relative to the Fsm that produced them.
type StateIndex int

// Transition is a single (role, action, message) record. Equality for
// subtyping purposes is structural over (role, action, label) only — see
// Equal.
type Transition[R, N comparable] struct {
	Role    R
	Action  Action
	Message Message[N]
}

// NewTransition builds a Transition from its three fields.
func NewTransition[R, N comparable](role R, action Action, message Message[N]) Transition[R, N] {
	return Transition[R, N]{Role: role, Action: action, Message: message}
}

// Equal reports structural equality over (role, action, label), ignoring
// parameters and assignments — the comparison the reduction and visitor
// use throughout (spec.md §3: "equality is structural over
// (role, action, label) for subtyping").
func (t Transition[R, N]) Equal(other Transition[R, N]) bool {
	return t.Role == other.Role && t.Action == other.Action && t.Message.Label == other.Message.Label
}

// String renders the transition as `role<action><message>`, e.g. `A!x`.
func (t Transition[R, N]) String() string {
	return fmt.Sprintf("%v%s%s", t.Role, t.Action, t.Message)
}

type choices[R any] struct {
	role   R
	action Action
}

type stateNode[R any] struct {
	hasChoice bool
	choice    choices[R]
}

type edgeRecord[R, N comparable] struct {
	target  StateIndex
	message Message[N]
}

// Fsm is a per-role communicating finite state machine: a directed
// multigraph over states where every state is either End (no outgoing
// edges) or Choices(peer role, action) with one or more outgoing edges
// sharing that (role, action) pair.
type Fsm[R, N comparable] struct {
	role   R
	states []stateNode[R]
	edges  [][]edgeRecord[R, N]
}

// New constructs an empty Fsm for the given role.
func New[R, N comparable](role R) *Fsm[R, N] {
	return &Fsm[R, N]{role: role}
}

// Role returns the FSM's own participant role.
func (f *Fsm[R, N]) Role() R {
	return f.role
}

// Size returns the number of states and the number of edges in the graph.
func (f *Fsm[R, N]) Size() (states, edges int) {
	for _, es := range f.edges {
		edges += len(es)
	}
	return len(f.states), edges
}

// AddState creates a new End state and returns its index.
func (f *Fsm[R, N]) AddState() StateIndex {
	f.states = append(f.states, stateNode[R]{})
	f.edges = append(f.edges, nil)
	return StateIndex(len(f.states) - 1)
}

// IsEnd reports whether state s has no outgoing edges.
func (f *Fsm[R, N]) IsEnd(s StateIndex) bool {
	return !f.states[s].hasChoice
}

// PeerAndAction returns the (peer role, action) pair of a Choices state.
// ok is false if s is an End state.
func (f *Fsm[R, N]) PeerAndAction(s StateIndex) (role R, action Action, ok bool) {
	node := f.states[s]
	if !node.hasChoice {
		return role, action, false
	}
	return node.choice.role, node.choice.action, true
}

// AddTransition adds an edge from -> to carrying transition. It enforces
// the three invariants of spec.md §4.1: the transition's role must not be
// this FSM's own role (ErrSelfCommunication); all edges leaving a state
// must share one peer role (ErrMultipleRoles) and one action
// (ErrMultipleActions). The first edge inserted from a state fixes that
// state's (peer, action); the graph is left unchanged on error.
func (f *Fsm[R, N]) AddTransition(from, to StateIndex, transition Transition[R, N]) error {
	if transition.Role == f.role {
		return ErrSelfCommunication
	}

	node := &f.states[from]
	if !node.hasChoice {
		node.hasChoice = true
		node.choice = choices[R]{role: transition.Role, action: transition.Action}
	} else {
		if node.choice.role != transition.Role {
			return ErrMultipleRoles
		}
		if node.choice.action != transition.Action {
			return ErrMultipleActions
		}
	}

	f.edges[from] = append(f.edges[from], edgeRecord[R, N]{target: to, message: transition.Message})
	return nil
}

// TransitionEdge pairs an outgoing edge's target state with the
// (role, action, message) transition that labels it.
type TransitionEdge[R, N comparable] struct {
	Target     StateIndex
	Transition Transition[R, N]
}

// TransitionsFrom returns every outgoing edge of state s, in insertion
// order (deterministic, required by spec.md §4.3.1).
func (f *Fsm[R, N]) TransitionsFrom(s StateIndex) []TransitionEdge[R, N] {
	node := f.states[s]
	edges := f.edges[s]
	out := make([]TransitionEdge[R, N], len(edges))
	for i, e := range edges {
		out[i] = TransitionEdge[R, N]{
			Target:     e.target,
			Transition: NewTransition(node.choice.role, node.choice.action, e.message),
		}
	}
	return out
}

// TransitionFull additionally carries the source state, for printers that
// need to enumerate the whole graph.
type TransitionFull[R, N comparable] struct {
	From, To   StateIndex
	Transition Transition[R, N]
}

// Transitions iterates every edge in the graph, in state-then-insertion
// order.
func (f *Fsm[R, N]) Transitions() []TransitionFull[R, N] {
	var out []TransitionFull[R, N]
	for from := range f.states {
		for _, e := range f.TransitionsFrom(StateIndex(from)) {
			out = append(out, TransitionFull[R, N]{From: StateIndex(from), To: e.Target, Transition: e.Transition})
		}
	}
	return out
}

// ToBinary collapses every peer role in the graph down to Nil, asserting
// (via panic, as this is a programming-contract violation not a data
// error) that every Choices state agreed on a single original peer role —
// i.e. that this is indeed a binary (two-party) session FSM.
func (f *Fsm[R, N]) ToBinary() *Fsm[Nil, N] {
	out := &Fsm[Nil, N]{
		role:  Nil{},
		edges: make([][]edgeRecord[Nil, N], len(f.edges)),
	}

	var seenRole *R
	for _, node := range f.states {
		newNode := stateNode[Nil]{hasChoice: node.hasChoice}
		if node.hasChoice {
			if seenRole == nil {
				role := node.choice.role
				seenRole = &role
			} else if *seenRole != node.choice.role {
				panic("fsm: ToBinary called on an FSM with more than one peer role")
			}
			newNode.choice = choices[Nil]{role: Nil{}, action: node.choice.action}
		}
		out.states = append(out.states, newNode)
	}

	for from, edges := range f.edges {
		for _, e := range edges {
			out.edges[from] = append(out.edges[from], edgeRecord[Nil, N]{target: e.target, message: e.message})
		}
	}

	return out
}

// Dual returns a copy of f in which the self-role is peer, the peer role of
// every Choices state is f's original self-role, and every action is
// dualised (Send<->Receive). This is the standard MPST duality: if f is
// role A's projection of a session involving B, f.Dual(B) is (up to
// renaming) B's projection of the same two-party session.
func (f *Fsm[R, N]) Dual(peer R) *Fsm[R, N] {
	out := &Fsm[R, N]{
		role:  peer,
		edges: make([][]edgeRecord[R, N], len(f.edges)),
	}

	for _, node := range f.states {
		newNode := stateNode[R]{hasChoice: node.hasChoice}
		if node.hasChoice {
			if node.choice.role != peer {
				panic("fsm: Dual called with a peer role that does not match the FSM's recorded peer")
			}
			newNode.choice = choices[R]{role: f.role, action: node.choice.action.Dual()}
		}
		out.states = append(out.states, newNode)
	}

	for from, edges := range f.edges {
		for _, e := range edges {
			out.edges[from] = append(out.edges[from], edgeRecord[R, N]{target: e.target, message: e.message})
		}
	}

	return out
}
