package phase

import (
	"fmt"

	"github.com/elemduel/duel-server-go/internal/game/action"
	"github.com/elemduel/duel-server-go/internal/game/state"
)

// StartingHandSelect waits for each player to pick a starting active
// character, then opens round one.
type StartingHandSelect struct{}

func (StartingHandSelect) Kind() state.PhaseKind { return state.PhaseStartingHandSelect }

func (StartingHandSelect) Step(gs *state.GameState) (*state.GameState, error) {
	if !bothAct(gs, state.ActEnd) {
		return nil, fmt.Errorf("%s: %w", state.PhaseStartingHandSelect, ErrNothingToStep)
	}
	gs = setBothAct(gs, state.ActPassiveWait)
	return gs.With(func(gs *state.GameState) {
		gs.Round = 1
		gs.Phase = state.PhaseRoll
		gs.ActivePlayer = gs.RoundFirstPlayer
	}), nil
}

func (p StartingHandSelect) StepAction(gs *state.GameState, pid state.PID, act action.Action) (*state.GameState, error) {
	if err := checkWaiting(p, gs, pid); err != nil {
		return nil, err
	}
	sel, ok := act.(action.CharacterSelectAction)
	if !ok {
		return nil, fmt.Errorf("%s in %s: %w", act.Kind(), p.Kind(), ErrWrongPhaseAction)
	}
	c, ok := gs.Character(pid, sel.Char)
	if !ok || !c.Alive {
		return nil, fmt.Errorf("select character %d: %w", sel.Char, ErrIllegalTarget)
	}
	chars, err := gs.Player(pid).Characters.WithActive(sel.Char)
	if err != nil {
		return nil, err
	}
	return gs.UpdatePlayer(pid, func(p *state.PlayerState) {
		p.Characters = chars
		p.Act = state.ActEnd
	}), nil
}

func (StartingHandSelect) WaitingFor(gs *state.GameState) (state.PID, bool) {
	return firstWithAct(gs, state.ActAction)
}
