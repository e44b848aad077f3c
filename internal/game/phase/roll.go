package phase

import (
	"fmt"

	"github.com/elemduel/duel-server-go/internal/game/action"
	"github.com/elemduel/duel-server-go/internal/game/dice"
	"github.com/elemduel/duel-server-go/internal/game/state"
)

// Roll rolls each player's dice for the round and lets them reroll any
// selection while their reroll budget lasts.
type Roll struct{}

func (Roll) Kind() state.PhaseKind { return state.PhaseRoll }

func (Roll) Step(gs *state.GameState) (*state.GameState, error) {
	switch {
	case bothAct(gs, state.ActPassiveWait):
		for _, pid := range turnOrder(gs) {
			gs = rollFor(gs, pid)
		}
		return gs, nil
	case bothAct(gs, state.ActEnd):
		gs = setBothAct(gs, state.ActPassiveWait)
		return gs.WithPhase(state.PhaseAction), nil
	default:
		return nil, fmt.Errorf("%s: %w", state.PhaseRoll, ErrNothingToStep)
	}
}

// rollFor rolls the round's dice for pid. Statuses may fix some faces in
// advance and change the reroll budget.
func rollFor(gs *state.GameState, pid state.PID) *state.GameState {
	gs, fixed := state.Preprocess(gs, pid, state.PreprocessRollDiceInit, state.RollInitEvent{PID: pid})
	gs, chances := state.Preprocess(gs, pid, state.PreprocessRollChances,
		state.RollChancesEvent{PID: pid, Chances: gs.Mode.RerollChances})

	rng := gs.Rand()
	rolled := dice.RollWithFixed(rng, gs.Mode.DicePerRoll, fixed.Fixed)
	gs = gs.UpdatePlayer(pid, func(p *state.PlayerState) {
		p.Dice = p.Dice.Add(rolled)
		p.RerollChances = max(0, chances.Chances)
		p.Act = state.ActAction
		if p.RerollChances == 0 {
			p.Act = state.ActEnd
		}
	})
	return gs.Reseed(rng)
}

func (p Roll) StepAction(gs *state.GameState, pid state.PID, act action.Action) (*state.GameState, error) {
	if err := checkWaiting(p, gs, pid); err != nil {
		return nil, err
	}
	sel, ok := act.(action.DiceSelectAction)
	if !ok {
		return nil, fmt.Errorf("%s in %s: %w", act.Kind(), p.Kind(), ErrWrongPhaseAction)
	}
	player := gs.Player(pid)
	if sel.Selected.IsEmpty() {
		return gs.UpdatePlayer(pid, func(p *state.PlayerState) {
			p.RerollChances = 0
			p.Act = state.ActEnd
		}), nil
	}
	if player.RerollChances <= 0 {
		return nil, ErrNoRerollsLeft
	}
	if !sel.Selected.IsLegal() || !player.Dice.Contains(sel.Selected) {
		return nil, fmt.Errorf("reroll %s from %s: %w", sel.Selected, player.Dice, ErrIllegalDiceChoice)
	}

	rng := gs.Rand()
	rerolled, err := dice.Reroll(rng, player.Dice, sel.Selected)
	if err != nil {
		return nil, fmt.Errorf("reroll: %w", ErrIllegalDiceChoice)
	}
	gs = gs.UpdatePlayer(pid, func(p *state.PlayerState) {
		p.Dice = rerolled
		p.RerollChances--
		if p.RerollChances == 0 {
			p.Act = state.ActEnd
		}
	})
	return gs.Reseed(rng), nil
}

func (Roll) WaitingFor(gs *state.GameState) (state.PID, bool) {
	return firstWithAct(gs, state.ActAction)
}
