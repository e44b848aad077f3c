package effects

import (
	"fmt"

	"github.com/elemduel/duel-server-go/internal/game/dice"
	"github.com/elemduel/duel-server-go/internal/game/state"
)

// DeathCheckEffect looks for defeated characters after a damage cascade.
// A wiped team ends the game. Otherwise every side whose active character
// fell gets a DEATH_EVENT broadcast with a death swap marker below it, the
// side of the active player first.
type DeathCheckEffect struct{}

func (DeathCheckEffect) Execute(gs *state.GameState) (*state.GameState, error) {
	p1Out := gs.Player(state.P1).Characters.AllDefeated()
	p2Out := gs.Player(state.P2).Characters.AllDefeated()
	switch {
	case p1Out && p2Out:
		return gs.PushEffects(GameEndEffect{Outcome: state.OutcomeDraw}), nil
	case p1Out:
		return gs.PushEffects(GameEndEffect{Outcome: state.WinFor(state.P2)}), nil
	case p2Out:
		return gs.PushEffects(GameEndEffect{Outcome: state.WinFor(state.P1)}), nil
	}

	var out []state.Effect
	for _, pid := range []state.PID{gs.ActivePlayer, gs.ActivePlayer.Other()} {
		active, ok := gs.Player(pid).Characters.ActiveCharacter()
		if ok && !active.Alive {
			out = append(out,
				BroadcastSignalEffect{PID: pid, Signal: state.SignalDeathEvent},
				DeathSwapPhaseStartEffect{PID: pid},
			)
		}
	}
	return gs.PushEffects(out...), nil
}

// DeathSwapPhaseStartEffect is the pause marker waiting for PID to choose a
// new active character. It is resolved by a death swap action and must
// never be executed.
type DeathSwapPhaseStartEffect struct {
	PID state.PID
}

func (e DeathSwapPhaseStartEffect) Execute(*state.GameState) (*state.GameState, error) {
	return nil, fmt.Errorf("death swap for %s: %w", e.PID, ErrMarkerExecuted)
}

// PausedFor returns the player who must swap.
func (e DeathSwapPhaseStartEffect) PausedFor() state.PID { return e.PID }

// TurnEndEffect closes PID's turn after a combat action. The turn passes
// to the opponent unless they already ended the round; once both have, the
// game moves to the end phase.
type TurnEndEffect struct {
	PID state.PID
}

func (e TurnEndEffect) Execute(gs *state.GameState) (*state.GameState, error) {
	me, opp := e.PID, e.PID.Other()
	meDone, oppDone := gs.Player(me).DeclaredEnd, gs.Player(opp).DeclaredEnd
	if meDone && oppDone {
		gs = setAct(gs, me, state.ActPassiveWait)
		gs = setAct(gs, opp, state.ActPassiveWait)
		return gs.WithPhase(state.PhaseEnd), nil
	}
	next := me
	if !oppDone {
		next = opp
	}
	gs = setAct(gs, next.Other(), state.ActPassiveWait)
	gs = setAct(gs, next, state.ActAction)
	return gs.With(func(gs *state.GameState) { gs.ActivePlayer = next }), nil
}

func setAct(gs *state.GameState, pid state.PID, act state.Act) *state.GameState {
	if gs.Player(pid).Act == act {
		return gs
	}
	return gs.UpdatePlayer(pid, func(p *state.PlayerState) { p.Act = act })
}

// RoundEndEffect closes the round: unused dice are discarded and the next
// round starts with its roll phase, or the game ends in a draw once the
// round limit is reached.
type RoundEndEffect struct{}

func (RoundEndEffect) Execute(gs *state.GameState) (*state.GameState, error) {
	if gs.Round >= gs.Mode.MaxRounds {
		return gs.PushEffects(GameEndEffect{Outcome: state.OutcomeDraw}), nil
	}
	for _, pid := range []state.PID{state.P1, state.P2} {
		gs = gs.UpdatePlayer(pid, func(p *state.PlayerState) {
			p.Act = state.ActPassiveWait
			p.DeclaredEnd = false
			p.Dice = dice.ActualDice{}
		})
	}
	return gs.With(func(gs *state.GameState) {
		gs.Round++
		gs.Phase = state.PhaseRoll
		gs.ActivePlayer = gs.RoundFirstPlayer
	}), nil
}

// GameEndEffect finishes the game. Whatever is left on the stack is
// dropped.
type GameEndEffect struct {
	Outcome state.Outcome
}

func (e GameEndEffect) Execute(gs *state.GameState) (*state.GameState, error) {
	gs = setAct(gs, state.P1, state.ActEnd)
	gs = setAct(gs, state.P2, state.ActEnd)
	return gs.With(func(gs *state.GameState) {
		gs.Outcome = e.Outcome
		gs.Phase = state.PhaseGameEnd
		gs.Stack = state.EffectStack{}
	}), nil
}
