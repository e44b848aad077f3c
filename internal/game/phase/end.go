package phase

import (
	"fmt"

	"github.com/elemduel/duel-server-go/internal/game/action"
	"github.com/elemduel/duel-server-go/internal/game/effects"
	"github.com/elemduel/duel-server-go/internal/game/state"
)

// End resolves the end of a round: ROUND_END triggers such as summon
// damage, card draws, a death check, then the move to the next round.
type End struct{}

func (End) Kind() state.PhaseKind { return state.PhaseEnd }

func (End) Step(gs *state.GameState) (*state.GameState, error) {
	next, stepped, err := stepStack(gs)
	if err != nil || stepped {
		return next, err
	}
	if !gs.Stack.IsEmpty() {
		return nil, fmt.Errorf("%s: %w", state.PhaseEnd, ErrNothingToStep)
	}
	order := turnOrder(gs)
	return gs.PushEffects(
		effects.BroadcastSignalEffect{PID: order[0], Signal: state.SignalRoundEnd},
		effects.DrawCardsEffect{PID: order[0], N: gs.Mode.CardsPerRound},
		effects.DrawCardsEffect{PID: order[1], N: gs.Mode.CardsPerRound},
		effects.DeathCheckEffect{},
		effects.RoundEndEffect{},
	), nil
}

func (p End) StepAction(gs *state.GameState, pid state.PID, act action.Action) (*state.GameState, error) {
	if err := checkWaiting(p, gs, pid); err != nil {
		return nil, err
	}
	return deathSwap(gs, pid, act)
}

func (End) WaitingFor(gs *state.GameState) (state.PID, bool) {
	pid, paused, _ := waitingOnStack(gs)
	return pid, paused
}

// GameEnd is terminal; nothing advances and every action is rejected.
type GameEnd struct{}

func (GameEnd) Kind() state.PhaseKind { return state.PhaseGameEnd }

func (GameEnd) Step(*state.GameState) (*state.GameState, error) {
	return nil, ErrGameOver
}

func (GameEnd) StepAction(*state.GameState, state.PID, action.Action) (*state.GameState, error) {
	return nil, ErrGameOver
}

func (GameEnd) WaitingFor(*state.GameState) (state.PID, bool) { return 0, false }
