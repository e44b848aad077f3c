// Package effects holds the atomic mutations the effect stack executes and
// the built-in statuses, summons and supports that react to them.
package effects

import (
	"errors"
	"fmt"

	"github.com/elemduel/duel-server-go/internal/game/dice"
	"github.com/elemduel/duel-server-go/internal/game/state"
)

// ErrMarkerExecuted is returned when a pause marker is executed instead of
// being resolved by a player decision.
var ErrMarkerExecuted = errors.New("pause marker executed")

// RecoverHPEffect heals a living character up to its max hp.
type RecoverHPEffect struct {
	PID    state.PID
	Char   state.CharID
	Amount int
}

func (e RecoverHPEffect) Execute(gs *state.GameState) (*state.GameState, error) {
	return gs.UpdateCharacter(e.PID, e.Char, func(c *state.Character) {
		if c.Alive {
			c.HP = min(c.MaxHP, c.HP+e.Amount)
		}
	})
}

// EnergyRechargeEffect adds energy up to the character's max.
type EnergyRechargeEffect struct {
	PID    state.PID
	Char   state.CharID
	Amount int
}

func (e EnergyRechargeEffect) Execute(gs *state.GameState) (*state.GameState, error) {
	return gs.UpdateCharacter(e.PID, e.Char, func(c *state.Character) {
		if c.Alive {
			c.Energy = min(c.MaxEnergy, c.Energy+e.Amount)
		}
	})
}

// EnergyDrainEffect removes energy, flooring at zero.
type EnergyDrainEffect struct {
	PID    state.PID
	Char   state.CharID
	Amount int
}

func (e EnergyDrainEffect) Execute(gs *state.GameState) (*state.GameState, error) {
	return gs.UpdateCharacter(e.PID, e.Char, func(c *state.Character) {
		c.Energy = max(0, c.Energy-e.Amount)
	})
}

// SwapCharacterEffect makes Char the active character of PID.
type SwapCharacterEffect struct {
	PID  state.PID
	Char state.CharID
}

func (e SwapCharacterEffect) Execute(gs *state.GameState) (*state.GameState, error) {
	p := gs.Player(e.PID)
	target, ok := p.Characters.Get(e.Char)
	if !ok {
		return nil, fmt.Errorf("swap %s: %w: %d", e.PID, state.ErrCharacterNotFound, e.Char)
	}
	if !target.Alive {
		return nil, fmt.Errorf("swap %s to defeated character %d", e.PID, e.Char)
	}
	chars, err := p.Characters.WithActive(e.Char)
	if err != nil {
		return nil, err
	}
	return gs.UpdatePlayer(e.PID, func(p *state.PlayerState) { p.Characters = chars }), nil
}

// ForwardSwapCharacterEffect moves PID's active pointer to the next living
// character in swap order. Nothing happens when no other character lives.
type ForwardSwapCharacterEffect struct {
	PID state.PID
}

func (e ForwardSwapCharacterEffect) Execute(gs *state.GameState) (*state.GameState, error) {
	next, ok := gs.Player(e.PID).Characters.NextAlive()
	if !ok {
		return gs, nil
	}
	return SwapCharacterEffect{PID: e.PID, Char: next.ID}.Execute(gs)
}

// AddCharacterStatusEffect grants a status to a living character.
type AddCharacterStatusEffect struct {
	PID    state.PID
	Char   state.CharID
	Status state.Status
}

func (e AddCharacterStatusEffect) Execute(gs *state.GameState) (*state.GameState, error) {
	c, ok := gs.Character(e.PID, e.Char)
	if !ok {
		return nil, fmt.Errorf("add status %s: %w: %d", e.Status.Name(), state.ErrCharacterNotFound, e.Char)
	}
	if !c.Alive {
		return gs, nil
	}
	return gs.AddStatus(state.Location{PID: e.PID, Kind: state.ContainerCharacter, Char: e.Char}, e.Status), nil
}

// RemoveCharacterStatusEffect drops a character status by name.
type RemoveCharacterStatusEffect struct {
	PID  state.PID
	Char state.CharID
	Name string
}

func (e RemoveCharacterStatusEffect) Execute(gs *state.GameState) (*state.GameState, error) {
	return gs.ReplaceStatus(state.Location{PID: e.PID, Kind: state.ContainerCharacter, Char: e.Char}, e.Name, nil), nil
}

// AddCombatStatusEffect grants a team-wide status.
type AddCombatStatusEffect struct {
	PID    state.PID
	Status state.Status
}

func (e AddCombatStatusEffect) Execute(gs *state.GameState) (*state.GameState, error) {
	return gs.AddStatus(state.Location{PID: e.PID, Kind: state.ContainerCombat}, e.Status), nil
}

// RemoveCombatStatusEffect drops a team-wide status by name.
type RemoveCombatStatusEffect struct {
	PID  state.PID
	Name string
}

func (e RemoveCombatStatusEffect) Execute(gs *state.GameState) (*state.GameState, error) {
	return gs.ReplaceStatus(state.Location{PID: e.PID, Kind: state.ContainerCombat}, e.Name, nil), nil
}

// AddSummonEffect puts a summon on the field. A present summon merges; a
// new one is dropped when the zone is full.
type AddSummonEffect struct {
	PID    state.PID
	Summon state.Status
}

func (e AddSummonEffect) Execute(gs *state.GameState) (*state.GameState, error) {
	return addLimited(gs, state.Location{PID: e.PID, Kind: state.ContainerSummon}, e.Summon, gs.Mode.MaxSummons), nil
}

// AddSupportEffect puts a support on the field with the same limit rule as
// summons.
type AddSupportEffect struct {
	PID     state.PID
	Support state.Status
}

func (e AddSupportEffect) Execute(gs *state.GameState) (*state.GameState, error) {
	return addLimited(gs, state.Location{PID: e.PID, Kind: state.ContainerSupport}, e.Support, gs.Mode.MaxSupports), nil
}

func addLimited(gs *state.GameState, loc state.Location, st state.Status, limit int) *state.GameState {
	zone := gs.Container(loc)
	if !zone.Contains(st.Name()) && limit > 0 && zone.Len() >= limit {
		return gs
	}
	return gs.AddStatus(loc, st)
}

// AddDiceEffect adds dice to a holding. Dice beyond the holding limit are
// lost, taken in face order.
type AddDiceEffect struct {
	PID  state.PID
	Dice dice.ActualDice
}

func (e AddDiceEffect) Execute(gs *state.GameState) (*state.GameState, error) {
	return gs.UpdatePlayer(e.PID, func(p *state.PlayerState) {
		room := gs.Mode.MaxDice - p.Dice.Num()
		for _, face := range dice.Faces {
			n := min(room, e.Dice.Get(face))
			if n <= 0 {
				continue
			}
			p.Dice = p.Dice.With(face, p.Dice.Get(face)+n)
			room -= n
		}
	}), nil
}

// DrawCardsEffect draws N cards from the top of the deck.
type DrawCardsEffect struct {
	PID state.PID
	N   int
}

func (e DrawCardsEffect) Execute(gs *state.GameState) (*state.GameState, error) {
	return gs.WithPlayer(e.PID, gs.Player(e.PID).Draw(e.N, gs.Mode.MaxHand)), nil
}

// BroadcastSignalEffect offers a signal to every status and pushes what
// they emit so that it runs next, in activity order.
type BroadcastSignalEffect struct {
	PID    state.PID
	Signal state.Signal
}

func (e BroadcastSignalEffect) Execute(gs *state.GameState) (*state.GameState, error) {
	gs, emitted := state.Broadcast(gs, e.PID, e.Signal)
	return gs.PushEffects(emitted...), nil
}
