// Package agent builds the legal decisions of a player and provides agents
// that choose among them.
package agent

import (
	"github.com/elemduel/duel-server-go/internal/game/action"
	"github.com/elemduel/duel-server-go/internal/game/dice"
	"github.com/elemduel/duel-server-go/internal/game/phase"
	"github.com/elemduel/duel-server-go/internal/game/state"
)

// LegalActions lists decisions pid may submit now. The list is built
// choice by choice: first what to do and at what, then which dice pay for
// it. It is empty when no decision is due from pid.
func LegalActions(gs *state.GameState, pid state.PID) []action.Action {
	p, err := phase.Current(gs)
	if err != nil {
		return nil
	}
	if waiting, ok := p.WaitingFor(gs); !ok || waiting != pid {
		return nil
	}
	if _, paused := gs.Stack.TopPause(); paused {
		return deathSwaps(gs, pid)
	}

	switch gs.Phase {
	case state.PhaseCardSelect:
		return cardSelections(gs, pid)
	case state.PhaseStartingHandSelect:
		return characterSelections(gs, pid)
	case state.PhaseRoll:
		return diceSelections(gs, pid)
	case state.PhaseAction:
		return combatActions(gs, pid)
	default:
		return nil
	}
}

func deathSwaps(gs *state.GameState, pid state.PID) []action.Action {
	var out []action.Action
	for _, c := range swapTargets(gs, pid) {
		out = append(out, action.DeathSwapAction{Char: c})
	}
	return out
}

func swapTargets(gs *state.GameState, pid state.PID) []state.CharID {
	team := gs.Player(pid).Characters
	var out []state.CharID
	for _, c := range team.All() {
		if c.Alive && c.ID != team.Active {
			out = append(out, c.ID)
		}
	}
	return out
}

// cardSelections offers keeping the hand or redrawing one of each card.
func cardSelections(gs *state.GameState, pid state.PID) []action.Action {
	out := []action.Action{action.CardsSelectAction{}}
	for _, name := range distinctCards(gs.Player(pid).Hand) {
		out = append(out, action.CardsSelectAction{Selected: []string{name}})
	}
	return out
}

func characterSelections(gs *state.GameState, pid state.PID) []action.Action {
	var out []action.Action
	for _, c := range gs.Player(pid).Characters.All() {
		if c.Alive {
			out = append(out, action.CharacterSelectAction{Char: c.ID})
		}
	}
	return out
}

// diceSelections offers keeping the dice or rerolling every die that
// matches no character of the team.
func diceSelections(gs *state.GameState, pid state.PID) []action.Action {
	out := []action.Action{action.DiceSelectAction{}}
	player := gs.Player(pid)
	if player.RerollChances <= 0 {
		return out
	}
	wanted := map[dice.Element]bool{dice.Omni: true}
	for _, c := range player.Characters.All() {
		if face, ok := dice.FaceFor(c.Element); ok && c.Alive {
			wanted[face] = true
		}
	}
	var reroll dice.ActualDice
	for _, face := range dice.Faces {
		if !wanted[face] {
			reroll = reroll.With(face, player.Dice.Get(face))
		}
	}
	if !reroll.IsEmpty() {
		out = append(out, action.DiceSelectAction{Selected: reroll})
	}
	return out
}

func combatActions(gs *state.GameState, pid state.PID) []action.Action {
	holding := gs.Player(pid).Dice
	var out []action.Action

	for _, kind := range []state.SkillKind{state.NormalAttack, state.ElementalSkill, state.ElementalBurst} {
		_, cost, err := phase.SkillCost(gs, pid, kind)
		if err != nil {
			continue
		}
		if payment, ok := dice.BasicallySatisfy(cost, holding); ok {
			out = append(out, action.SkillAction{Skill: kind, Payment: payment})
		}
	}

	for _, char := range swapTargets(gs, pid) {
		_, cost, err := phase.SwapCostFor(gs, pid, char)
		if err != nil {
			continue
		}
		if payment, ok := dice.BasicallySatisfy(cost, holding); ok {
			out = append(out, action.SwapAction{Char: char, Payment: payment})
		}
	}

	hand := gs.Player(pid).Hand
	for _, name := range distinctCards(hand) {
		card := hand[gs.Player(pid).HandIndex(name)]
		for _, target := range cardTargets(gs, pid, card) {
			_, _, cost, err := phase.CardCost(gs, pid, name, target)
			if err != nil {
				continue
			}
			if payment, ok := dice.BasicallySatisfy(cost, holding); ok {
				out = append(out, action.CardAction{Card: name, Target: target, Payment: payment})
			}
		}
	}

	if face, ok := phase.TuningTarget(gs, pid); ok && len(hand) > 0 {
		for _, die := range dice.Faces {
			if die != dice.Omni && die != face && holding.Get(die) > 0 {
				out = append(out, action.ElementalTuningAction{Card: hand[0].Name(), Die: die})
			}
		}
	}

	return append(out, action.EndRoundAction{})
}

func cardTargets(gs *state.GameState, pid state.PID, card state.Card) []state.Target {
	if t, ok := card.(state.Targeted); ok {
		return t.Targets(gs, pid)
	}
	return []state.Target{{}}
}

func distinctCards(hand []state.Card) []string {
	seen := make(map[string]bool, len(hand))
	var out []string
	for _, c := range hand {
		if !seen[c.Name()] {
			seen[c.Name()] = true
			out = append(out, c.Name())
		}
	}
	return out
}
