package phase

import (
	"fmt"
	"math/rand"

	"github.com/elemduel/duel-server-go/internal/game/action"
	"github.com/elemduel/duel-server-go/internal/game/state"
)

// CardSelect deals the starting hands and lets each player redraw any of
// them once.
type CardSelect struct{}

func (CardSelect) Kind() state.PhaseKind { return state.PhaseCardSelect }

func (CardSelect) Step(gs *state.GameState) (*state.GameState, error) {
	switch {
	case bothAct(gs, state.ActPassiveWait):
		rng := gs.Rand()
		for _, pid := range []state.PID{state.P1, state.P2} {
			gs = gs.UpdatePlayer(pid, func(p *state.PlayerState) {
				p.Deck = shuffled(rng, p.Deck)
				p.RedrawChances = 1
				p.Act = state.ActAction
			})
			gs = gs.WithPlayer(pid, gs.Player(pid).Draw(gs.Mode.InitialHand, gs.Mode.MaxHand))
		}
		return gs.Reseed(rng), nil
	case bothAct(gs, state.ActEnd):
		gs = setBothAct(gs, state.ActAction)
		return gs.WithPhase(state.PhaseStartingHandSelect), nil
	default:
		return nil, fmt.Errorf("%s: %w", state.PhaseCardSelect, ErrNothingToStep)
	}
}

func (p CardSelect) StepAction(gs *state.GameState, pid state.PID, act action.Action) (*state.GameState, error) {
	if err := checkWaiting(p, gs, pid); err != nil {
		return nil, err
	}
	sel, ok := act.(action.CardsSelectAction)
	if !ok {
		return nil, fmt.Errorf("%s in %s: %w", act.Kind(), p.Kind(), ErrWrongPhaseAction)
	}

	hand := append([]state.Card(nil), gs.Player(pid).Hand...)
	var returned []state.Card
	for _, name := range sel.Selected {
		i := cardIndex(hand, name)
		if i < 0 {
			return nil, fmt.Errorf("redraw %q: %w", name, ErrCardNotInHand)
		}
		returned = append(returned, hand[i])
		hand = append(hand[:i], hand[i+1:]...)
	}

	gs = gs.UpdatePlayer(pid, func(p *state.PlayerState) {
		p.Hand = hand
		p.RedrawChances = 0
		p.Act = state.ActEnd
	})
	if len(returned) == 0 {
		return gs, nil
	}
	rng := gs.Rand()
	gs = gs.UpdatePlayer(pid, func(p *state.PlayerState) {
		p.Deck = shuffled(rng, append(append([]state.Card(nil), p.Deck...), returned...))
	})
	gs = gs.WithPlayer(pid, gs.Player(pid).Draw(len(returned), gs.Mode.MaxHand))
	return gs.Reseed(rng), nil
}

func (CardSelect) WaitingFor(gs *state.GameState) (state.PID, bool) {
	return firstWithAct(gs, state.ActAction)
}

func shuffled(rng *rand.Rand, cards []state.Card) []state.Card {
	out := append([]state.Card(nil), cards...)
	rng.Shuffle(len(out), func(i, j int) { out[i], out[j] = out[j], out[i] })
	return out
}

func cardIndex(cards []state.Card, name string) int {
	for i, c := range cards {
		if c.Name() == name {
			return i
		}
	}
	return -1
}
