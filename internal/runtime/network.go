package runtime

import (
	"context"
	"fmt"
)

// Message is the payload exchanged between two Session endpoints: the
// label of the Fsm transition that produced it, and the role that sent
// it. Parameters and assignments are opaque at the Fsm level (spec.md §3)
// and are not carried at runtime.
type Message struct {
	From  string
	Label string
}

type edgeKey[R comparable] struct {
	from, to R
}

// Network wires a point-to-point Queue between every ordered pair of
// distinct roles, the Go analogue of the reference implementation's
// role::ToFrom pairing — but built for an arbitrary role set rather than
// a fixed binary pair.
type Network[R comparable] struct {
	queues map[edgeKey[R]]*Queue[Message]
}

// NewNetwork builds a fully connected Network over roles: every role may
// send directly to every other role.
func NewNetwork[R comparable](roles []R) *Network[R] {
	queues := make(map[edgeKey[R]]*Queue[Message])
	for _, from := range roles {
		for _, to := range roles {
			if from == to {
				continue
			}
			queues[edgeKey[R]{from: from, to: to}] = NewQueue[Message]()
		}
	}
	return &Network[R]{queues: queues}
}

// Send delivers message from sender to receiver.
func (n *Network[R]) Send(ctx context.Context, from, to R, message Message) error {
	q, ok := n.queues[edgeKey[R]{from: from, to: to}]
	if !ok {
		return fmt.Errorf("runtime: no channel from %v to %v", from, to)
	}
	return q.Send(ctx, message)
}

// Receive blocks until a message addressed to `to` from `from` arrives.
func (n *Network[R]) Receive(ctx context.Context, from, to R) (Message, error) {
	q, ok := n.queues[edgeKey[R]{from: from, to: to}]
	if !ok {
		return Message{}, fmt.Errorf("runtime: no channel from %v to %v", from, to)
	}
	return q.Receive(ctx)
}

// Close closes every queue in the network. Call once all sessions have
// stopped sending.
func (n *Network[R]) Close() {
	for _, q := range n.queues {
		q.Close()
	}
}
