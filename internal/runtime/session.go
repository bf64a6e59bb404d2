package runtime

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"

	"github.com/dantte-lp/gosubtype/internal/fsm"
	"github.com/dantte-lp/gosubtype/internal/telemetry"
)

// Chooser picks which outgoing label to send when a Send state offers more
// than one choice. options is in the Fsm's deterministic insertion order.
// A Chooser that always returns options[0] reproduces the reference
// implementation's single-threaded, first-branch-wins scheduling.
type Chooser func(options []string) string

// FirstChoice is the default Chooser: always takes the first branch.
func FirstChoice(options []string) string {
	return options[0]
}

// Session drives one role's Fsm against a shared Network, sending and
// receiving Messages until the Fsm reaches an End state.
type Session[R comparable] struct {
	id      uuid.UUID
	self    R
	fsm     *fsm.Fsm[R, string]
	network *Network[R]
	chooser Chooser
	metrics *telemetry.Collector
	logger  *slog.Logger
}

// NewSession constructs a Session for self's projection f, talking over
// network. metrics and logger may be nil; a nil logger discards output, a
// nil collector skips instrumentation. If chooser is nil, FirstChoice is
// used.
func NewSession[R comparable](
	self R,
	f *fsm.Fsm[R, string],
	network *Network[R],
	chooser Chooser,
	metrics *telemetry.Collector,
	logger *slog.Logger,
) *Session[R] {
	if chooser == nil {
		chooser = FirstChoice
	}
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}

	id := uuid.New()
	return &Session[R]{
		id:      id,
		self:    self,
		fsm:     f,
		network: network,
		chooser: chooser,
		metrics: metrics,
		logger:  logger.With(slog.String("component", "runtime.session"), slog.String("session_id", id.String())),
	}
}

// ErrUnexpectedMessage indicates a received message's label did not match
// any outgoing edge of the current Receive state.
type ErrUnexpectedMessage struct {
	Role  string
	Label string
}

func (e *ErrUnexpectedMessage) Error() string {
	return fmt.Sprintf("runtime: unexpected message %q from role %v", e.Label, e.Role)
}

// Run walks the Fsm from its start state to an End state, sending and
// receiving over network until then or until ctx is canceled.
func (s *Session[R]) Run(ctx context.Context) error {
	state := fsm.StateIndex(0)
	roleName := fmt.Sprint(s.self)

	for {
		peer, action, ok := s.fsm.PeerAndAction(state)
		if !ok {
			s.logger.Debug("session reached end state", slog.Int("state", int(state)))
			return nil
		}

		edges := s.fsm.TransitionsFrom(state)

		switch action {
		case fsm.Send:
			edge, err := s.choose(edges)
			if err != nil {
				return err
			}

			message := Message{From: roleName, Label: edge.Transition.Message.Label}
			if err := s.network.Send(ctx, s.self, peer, message); err != nil {
				return fmt.Errorf("runtime: session %s send to %v: %w", s.id, peer, err)
			}

			if s.metrics != nil {
				s.metrics.IncMessagesSent(roleName)
				s.metrics.IncTransitions(roleName)
			}
			s.logger.Debug("sent message", slog.String("to", fmt.Sprint(peer)), slog.String("label", message.Label))
			state = edge.Target

		case fsm.Receive:
			message, err := s.network.Receive(ctx, peer, s.self)
			if err != nil {
				return fmt.Errorf("runtime: session %s receive from %v: %w", s.id, peer, err)
			}

			edge, ok := matchEdge(edges, message.Label)
			if !ok {
				return &ErrUnexpectedMessage{Role: roleName, Label: message.Label}
			}

			if s.metrics != nil {
				s.metrics.IncMessagesReceived(roleName)
				s.metrics.IncTransitions(roleName)
			}
			s.logger.Debug("received message", slog.String("from", fmt.Sprint(peer)), slog.String("label", message.Label))
			state = edge.Target

		default:
			return fmt.Errorf("runtime: session %s: unknown action %v", s.id, action)
		}
	}
}

func (s *Session[R]) choose(edges []fsm.TransitionEdge[R, string]) (fsm.TransitionEdge[R, string], error) {
	if len(edges) == 1 {
		return edges[0], nil
	}

	options := make([]string, len(edges))
	for i, e := range edges {
		options[i] = e.Transition.Message.Label
	}

	label := s.chooser(options)
	edge, ok := matchEdge(edges, label)
	if !ok {
		return fsm.TransitionEdge[R, string]{}, fmt.Errorf("runtime: chooser returned unknown label %q", label)
	}
	return edge, nil
}

func matchEdge[R comparable](edges []fsm.TransitionEdge[R, string], label string) (fsm.TransitionEdge[R, string], bool) {
	for _, e := range edges {
		if e.Transition.Message.Label == label {
			return e, true
		}
	}
	return fsm.TransitionEdge[R, string]{}, false
}

// RunAll launches one Session per participant concurrently and waits for
// all to finish or for the first error, per errgroup.Group's fail-fast
// semantics.
func RunAll[R comparable](ctx context.Context, sessions []*Session[R]) error {
	g, ctx := errgroup.WithContext(ctx)
	for _, sess := range sessions {
		g.Go(func() error {
			return sess.Run(ctx)
		})
	}
	return g.Wait()
}
