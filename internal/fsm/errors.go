package fsm

import "errors"

// Sentinel errors returned by AddTransition, mirroring the three graph
// construction invariants of spec.md §3/§4.1.
var (
	// ErrSelfCommunication is returned when a transition's role is the
	// FSM's own role — a participant cannot communicate with itself.
	ErrSelfCommunication = errors.New("fsm: cannot perform self-communication")

	// ErrMultipleRoles is returned when a state already has outgoing
	// edges to one peer role and a transition to a different peer role
	// is added from the same state.
	ErrMultipleRoles = errors.New("fsm: cannot communicate with different roles from the same state")

	// ErrMultipleActions is returned when a state already has outgoing
	// edges of one action and a transition of the other action is added
	// from the same state.
	ErrMultipleActions = errors.New("fsm: cannot both send and receive from the same state")
)
