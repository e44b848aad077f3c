package content

import (
	"errors"
	"fmt"
	"sort"

	"github.com/elemduel/duel-server-go/internal/game/dice"
	"github.com/elemduel/duel-server-go/internal/game/effects"
	"github.com/elemduel/duel-server-go/internal/game/state"
)

// ErrUnknownCard is returned for names missing from the catalog.
var ErrUnknownCard = errors.New("unknown card")

// Card names.
const (
	HealingTea = "Healing Tea"
	StoneWall  = "Stone Wall"
	DiceForge  = "Dice Forge"
	SwiftStep  = "Swift Step"
)

var cards = map[string]state.Card{
	HealingTea: healingTea{},
	StoneWall:  stoneWall{},
	DiceForge:  diceForge{},
	SwiftStep:  swiftStep{},
}

// CardNames lists the catalog in name order.
func CardNames() []string {
	names := make([]string, 0, len(cards))
	for name := range cards {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// NewCard returns the named card.
func NewCard(name string) (state.Card, error) {
	c, ok := cards[name]
	if !ok {
		return nil, fmt.Errorf("%q: %w", name, ErrUnknownCard)
	}
	return c, nil
}

// StarterDeck returns n cards cycling through the catalog in name order.
func StarterDeck(n int) []state.Card {
	names := CardNames()
	deck := make([]state.Card, n)
	for i := range deck {
		deck[i] = cards[names[i%len(names)]]
	}
	return deck
}

// healingTea heals one of the player's living characters by 2.
type healingTea struct{}

func (healingTea) Name() string { return HealingTea }

func (healingTea) Cost() dice.AbstractDice {
	return dice.NewAbstractDice(map[dice.Element]int{dice.Any: 1})
}

func (healingTea) Valid(gs *state.GameState, pid state.PID, target state.Target) bool {
	c, ok := gs.Character(target.PID, target.Char)
	return target.PID == pid && ok && c.Alive
}

func (c healingTea) Targets(gs *state.GameState, pid state.PID) []state.Target {
	var out []state.Target
	for _, ch := range gs.Player(pid).Characters.All() {
		t := state.Target{PID: pid, Char: ch.ID}
		if c.Valid(gs, pid, t) {
			out = append(out, t)
		}
	}
	return out
}

func (healingTea) Effects(_ *state.GameState, _ state.PID, target state.Target) []state.Effect {
	return []state.Effect{effects.RecoverHPEffect{PID: target.PID, Char: target.Char, Amount: 2}}
}

// stoneWall grants the team a 2 point shield.
type stoneWall struct{}

func (stoneWall) Name() string { return StoneWall }

func (stoneWall) Cost() dice.AbstractDice {
	return dice.NewAbstractDice(map[dice.Element]int{dice.Omni: 1})
}

func (stoneWall) Valid(_ *state.GameState, _ state.PID, target state.Target) bool {
	return target.IsZero()
}

func (stoneWall) Effects(_ *state.GameState, pid state.PID, _ state.Target) []state.Effect {
	return []state.Effect{effects.AddCombatStatusEffect{
		PID:    pid,
		Status: effects.NewPointShield(StoneWall, 2),
	}}
}

// diceForge is a support producing one omni die at the start of each of
// the next two rounds.
type diceForge struct{}

func (diceForge) Name() string { return DiceForge }

func (diceForge) Cost() dice.AbstractDice {
	return dice.NewAbstractDice(map[dice.Element]int{dice.Any: 2})
}

func (diceForge) Valid(_ *state.GameState, _ state.PID, target state.Target) bool {
	return target.IsZero()
}

func (diceForge) Effects(_ *state.GameState, pid state.PID, _ state.Target) []state.Effect {
	return []state.Effect{effects.AddSupportEffect{
		PID: pid,
		Support: effects.DiceSupport{
			UsageCounter: effects.UsageCounter{Count: 2},
			Label:        DiceForge,
			Face:         dice.Omni,
			PerRound:     1,
		},
	}}
}

// swiftStep makes the player's next swap one die cheaper. Playing it is a
// combat action.
type swiftStep struct{}

func (swiftStep) Name() string { return SwiftStep }

func (swiftStep) Cost() dice.AbstractDice { return dice.AbstractDice{} }

func (swiftStep) Valid(_ *state.GameState, _ state.PID, target state.Target) bool {
	return target.IsZero()
}

func (swiftStep) IsCombatAction() bool { return true }

func (swiftStep) Effects(_ *state.GameState, pid state.PID, _ state.Target) []state.Effect {
	return []state.Effect{effects.AddCombatStatusEffect{
		PID: pid,
		Status: effects.CostDiscount{
			UsageCounter: effects.UsageCounter{Count: 1},
			Label:        SwiftStep,
			Key:          state.PreprocessSwap,
			Amount:       1,
		},
	}}
}
