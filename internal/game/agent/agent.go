package agent

import (
	"context"
	"errors"
	"fmt"
	"math/rand"
	"sync"

	"go.uber.org/zap"

	"github.com/elemduel/duel-server-go/internal/game/action"
	"github.com/elemduel/duel-server-go/internal/game/state"
)

var (
	// ErrNoLegalActions is returned when an agent is asked to act but has
	// nothing it may do.
	ErrNoLegalActions = errors.New("no legal actions")
	// ErrScriptExhausted is returned by a Scripted agent with no actions
	// left.
	ErrScriptExhausted = errors.New("script exhausted")
)

// endRoundOdds is the one-in-n chance a RandomAgent ends its round while
// it still has something else to do.
const endRoundOdds = 10

// RandomAgent picks uniformly among the legal actions, mostly avoiding
// ending the round early. Its choices depend only on its seed and the
// states it is shown.
type RandomAgent struct {
	logger *zap.Logger
	mu     sync.Mutex
	rng    *rand.Rand
}

// NewRandomAgent creates an agent drawing from seed.
func NewRandomAgent(seed int64, logger *zap.Logger) *RandomAgent {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &RandomAgent{
		logger: logger,
		rng:    rand.New(rand.NewSource(seed)),
	}
}

func (a *RandomAgent) ChooseAction(_ context.Context, gs *state.GameState, pid state.PID) (action.Action, error) {
	legal := LegalActions(gs, pid)
	if len(legal) == 0 {
		return nil, fmt.Errorf("%s in %s: %w", pid, gs.Phase, ErrNoLegalActions)
	}

	a.mu.Lock()
	defer a.mu.Unlock()

	options := legal
	if len(legal) > 1 && a.rng.Intn(endRoundOdds) != 0 {
		options = withoutEndRound(legal)
	}
	choice := options[a.rng.Intn(len(options))]
	a.logger.Debug("random agent chose",
		zap.Stringer("player", pid),
		zap.Stringer("action", choice),
		zap.Int("options", len(legal)),
	)
	return choice, nil
}

func withoutEndRound(actions []action.Action) []action.Action {
	out := make([]action.Action, 0, len(actions))
	for _, a := range actions {
		if a.Kind() != action.KindEndRound {
			out = append(out, a)
		}
	}
	if len(out) == 0 {
		return actions
	}
	return out
}

// Scripted replays a fixed list of actions, one per call.
type Scripted struct {
	mu      sync.Mutex
	actions []action.Action
}

// NewScripted creates an agent that returns actions in order.
func NewScripted(actions ...action.Action) *Scripted {
	return &Scripted{actions: actions}
}

func (s *Scripted) ChooseAction(context.Context, *state.GameState, state.PID) (action.Action, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if len(s.actions) == 0 {
		return nil, ErrScriptExhausted
	}
	next := s.actions[0]
	s.actions = s.actions[1:]
	return next, nil
}

// Remaining returns how many scripted actions are left.
func (s *Scripted) Remaining() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.actions)
}
