package state

import "github.com/elemduel/duel-server-go/internal/game/dice"

// Target is what a card or skill is aimed at. The zero value means the
// card takes no target.
type Target struct {
	PID  PID
	Char CharID
}

// IsZero reports whether no target was given.
func (t Target) IsZero() bool { return t.Char == 0 }

// Card is an action card supplied by content.
type Card interface {
	Name() string
	Cost() dice.AbstractDice
	// Valid reports whether the card may be played at target right now.
	Valid(gs *GameState, pid PID, target Target) bool
	// Effects returns the effects of playing the card, first to last.
	Effects(gs *GameState, pid PID, target Target) []Effect
}

// Targeted is implemented by cards that need a target; Targets lists the
// candidates in a stable order.
type Targeted interface {
	Targets(gs *GameState, pid PID) []Target
}

// CombatCard is implemented by cards whose play counts as a combat action
// and ends the turn.
type CombatCard interface {
	IsCombatAction() bool
}
