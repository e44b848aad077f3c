// Package phase implements the round structure of a duel: card selection,
// starting character selection, then rounds of roll, action and end phases
// until the game ends.
package phase

import (
	"fmt"

	"github.com/elemduel/duel-server-go/internal/game/action"
	"github.com/elemduel/duel-server-go/internal/game/effects"
	"github.com/elemduel/duel-server-go/internal/game/state"
)

// Phase drives the game while it is in one phase.
type Phase interface {
	Kind() state.PhaseKind
	// Step advances the game without player input: one pending effect, or
	// the phase's own automatic work. It fails with ErrNothingToStep when a
	// player must act first.
	Step(gs *state.GameState) (*state.GameState, error)
	// StepAction applies one player decision. Rejected actions return an
	// error for which IsRejection holds and leave gs untouched.
	StepAction(gs *state.GameState, pid state.PID, act action.Action) (*state.GameState, error)
	// WaitingFor returns the player whose decision is required, or false
	// when the phase can advance on its own.
	WaitingFor(gs *state.GameState) (state.PID, bool)
}

var registry = map[state.PhaseKind]Phase{
	state.PhaseCardSelect:         CardSelect{},
	state.PhaseStartingHandSelect: StartingHandSelect{},
	state.PhaseRoll:               Roll{},
	state.PhaseAction:             Action{},
	state.PhaseEnd:                End{},
	state.PhaseGameEnd:            GameEnd{},
}

// For returns the phase implementation for kind.
func For(kind state.PhaseKind) (Phase, error) {
	p, ok := registry[kind]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrUnknownPhase, kind)
	}
	return p, nil
}

// Current returns the phase gs is in.
func Current(gs *state.GameState) (Phase, error) {
	return For(gs.Phase)
}

// stepStack pops and executes the top effect. It reports false when the
// stack is empty or paused.
func stepStack(gs *state.GameState) (*state.GameState, bool, error) {
	if !gs.WaitingOnStack() {
		return gs, false, nil
	}
	rest, e := gs.Stack.Pop()
	next, err := e.Execute(gs.WithStack(rest))
	if err != nil {
		return nil, true, fmt.Errorf("execute %T: %w", e, err)
	}
	return next, true, nil
}

// waitingOnStack reports who the stack is waiting for. settled is false
// while effects remain that run on their own.
func waitingOnStack(gs *state.GameState) (pid state.PID, paused, settled bool) {
	if marker, ok := gs.Stack.TopPause(); ok {
		return marker.PausedFor(), true, true
	}
	return 0, false, gs.Stack.IsEmpty()
}

// firstWithAct returns the first player, in turn order from the round's
// first player, whose marker is act.
func firstWithAct(gs *state.GameState, act state.Act) (state.PID, bool) {
	for _, pid := range turnOrder(gs) {
		if gs.Player(pid).Act == act {
			return pid, true
		}
	}
	return 0, false
}

func turnOrder(gs *state.GameState) []state.PID {
	return []state.PID{gs.RoundFirstPlayer, gs.RoundFirstPlayer.Other()}
}

func bothAct(gs *state.GameState, act state.Act) bool {
	return gs.Player(state.P1).Act == act && gs.Player(state.P2).Act == act
}

func setAct(gs *state.GameState, pid state.PID, act state.Act) *state.GameState {
	return gs.UpdatePlayer(pid, func(p *state.PlayerState) { p.Act = act })
}

func setBothAct(gs *state.GameState, act state.Act) *state.GameState {
	return setAct(setAct(gs, state.P1, act), state.P2, act)
}

// checkWaiting rejects actions from anyone but the awaited player.
func checkWaiting(p Phase, gs *state.GameState, pid state.PID) error {
	want, ok := p.WaitingFor(gs)
	if !ok || want != pid {
		return fmt.Errorf("%s in %s: %w", pid, p.Kind(), ErrNotWaitingFor)
	}
	return nil
}

// deathSwap resolves a pending death swap marker for pid: the marker is
// popped and a swap to the chosen character pushed in its place, after
// which the raising phase carries on with whatever lies below.
func deathSwap(gs *state.GameState, pid state.PID, act action.Action) (*state.GameState, error) {
	marker, ok := gs.Stack.TopPause()
	if !ok {
		return nil, fmt.Errorf("%s: %w", act.Kind(), ErrWrongPhaseAction)
	}
	if marker.PausedFor() != pid {
		return nil, fmt.Errorf("death swap belongs to %s: %w", marker.PausedFor(), ErrNotWaitingFor)
	}
	swap, ok := act.(action.DeathSwapAction)
	if !ok {
		return nil, fmt.Errorf("%s: %w", act.Kind(), ErrPendingDeathSwap)
	}
	target, ok := gs.Character(pid, swap.Char)
	if !ok || !target.Alive || swap.Char == gs.Player(pid).Characters.Active {
		return nil, fmt.Errorf("death swap to %d: %w", swap.Char, ErrIllegalTarget)
	}
	rest, _ := gs.Stack.Pop()
	return gs.WithStack(rest.Push(effects.SwapCharacterEffect{PID: pid, Char: swap.Char})), nil
}
