package state

import (
	"fmt"
	"math/rand"
)

// Mode carries the tunable rules of a game.
type Mode struct {
	MaxRounds     int `mapstructure:"max_rounds"`
	InitialHand   int `mapstructure:"initial_hand"`
	CardsPerRound int `mapstructure:"cards_per_round"`
	DicePerRoll   int `mapstructure:"dice_per_roll"`
	RerollChances int `mapstructure:"reroll_chances"`
	MaxHand       int `mapstructure:"max_hand"`
	MaxDice       int `mapstructure:"max_dice"`
	MaxSummons    int `mapstructure:"max_summons"`
	MaxSupports   int `mapstructure:"max_supports"`
}

// DefaultMode returns the standard rules.
func DefaultMode() Mode {
	return Mode{
		MaxRounds:     15,
		InitialHand:   5,
		CardsPerRound: 2,
		DicePerRoll:   8,
		RerollChances: 1,
		MaxHand:       10,
		MaxDice:       16,
		MaxSummons:    4,
		MaxSupports:   4,
	}
}

// GameState is an immutable snapshot of a game. Every transition returns a
// new value; fields of a state reachable from history must never be
// written.
type GameState struct {
	Mode             Mode
	Round            int
	Phase            PhaseKind
	ActivePlayer     PID
	RoundFirstPlayer PID
	Players          [2]*PlayerState
	Stack            EffectStack
	Seed             int64
	Outcome          Outcome
}

// NewGameState builds the initial state before card selection.
func NewGameState(mode Mode, seed int64, p1, p2 *PlayerState) *GameState {
	return &GameState{
		Mode:             mode,
		Round:            0,
		Phase:            PhaseCardSelect,
		ActivePlayer:     P1,
		RoundFirstPlayer: P1,
		Players:          [2]*PlayerState{p1, p2},
		Seed:             seed,
	}
}

func (gs *GameState) clone() *GameState {
	c := *gs
	return &c
}

// Player returns the state of pid.
func (gs *GameState) Player(pid PID) *PlayerState { return gs.Players[pid] }

// WithPlayer returns a state where pid's side is p.
func (gs *GameState) WithPlayer(pid PID, p *PlayerState) *GameState {
	out := gs.clone()
	out.Players[pid] = p
	return out
}

// UpdatePlayer applies fn to a private copy of pid's side.
func (gs *GameState) UpdatePlayer(pid PID, fn func(p *PlayerState)) *GameState {
	p := gs.Player(pid).clone()
	fn(p)
	return gs.WithPlayer(pid, p)
}

// WithStack returns a state with stack s.
func (gs *GameState) WithStack(s EffectStack) *GameState {
	out := gs.clone()
	out.Stack = s
	return out
}

// PushEffects pushes effects so that effects[0] runs first.
func (gs *GameState) PushEffects(effects ...Effect) *GameState {
	if len(effects) == 0 {
		return gs
	}
	return gs.WithStack(gs.Stack.PushManyFL(effects))
}

// WithPhase returns a state in phase k.
func (gs *GameState) WithPhase(k PhaseKind) *GameState {
	out := gs.clone()
	out.Phase = k
	return out
}

// With applies fn to a private copy of the top-level fields. Player states
// reached through the copy are still shared and must not be written.
func (gs *GameState) With(fn func(gs *GameState)) *GameState {
	out := gs.clone()
	fn(out)
	return out
}

// Rand returns the random source for the current seed. Callers that draw
// from it store the successor with Reseed so replays stay deterministic.
func (gs *GameState) Rand() *rand.Rand {
	return rand.New(rand.NewSource(gs.Seed))
}

// Reseed advances the seed from rng.
func (gs *GameState) Reseed(rng *rand.Rand) *GameState {
	out := gs.clone()
	out.Seed = rng.Int63()
	return out
}

// Character returns a character of pid.
func (gs *GameState) Character(pid PID, id CharID) (Character, bool) {
	return gs.Player(pid).Characters.Get(id)
}

// ActiveCharacter returns the active character of pid.
func (gs *GameState) ActiveCharacter(pid PID) (Character, error) {
	ch, ok := gs.Player(pid).Characters.ActiveCharacter()
	if !ok {
		return Character{}, fmt.Errorf("%s: %w", pid, ErrNoActiveCharacter)
	}
	return ch, nil
}

// UpdateCharacter applies fn to a copy of one character.
func (gs *GameState) UpdateCharacter(pid PID, id CharID, fn func(c *Character)) (*GameState, error) {
	ch, ok := gs.Character(pid, id)
	if !ok {
		return gs, fmt.Errorf("%s/%d: %w", pid, id, ErrCharacterNotFound)
	}
	fn(&ch)
	chars, err := gs.Player(pid).Characters.With(ch)
	if err != nil {
		return gs, err
	}
	return gs.UpdatePlayer(pid, func(p *PlayerState) { p.Characters = chars }), nil
}

// Container returns the statuses at loc. Unknown characters hold nothing.
func (gs *GameState) Container(loc Location) Statuses {
	p := gs.Player(loc.PID)
	switch loc.Kind {
	case ContainerCombat:
		return p.CombatStatuses
	case ContainerSummon:
		return p.Summons
	case ContainerSupport:
		return p.Supports
	}
	ch, ok := p.Characters.Get(loc.Char)
	if !ok {
		return Statuses{}
	}
	switch loc.Kind {
	case ContainerHidden:
		return ch.Hidden
	case ContainerEquipment:
		return ch.Equipment
	default:
		return ch.Statuses
	}
}

// WithContainer returns a state where the statuses at loc are s. A
// character location must name an existing character; anything else is a
// broken invariant and panics.
func (gs *GameState) WithContainer(loc Location, s Statuses) *GameState {
	switch loc.Kind {
	case ContainerCombat:
		return gs.UpdatePlayer(loc.PID, func(p *PlayerState) { p.CombatStatuses = s })
	case ContainerSummon:
		return gs.UpdatePlayer(loc.PID, func(p *PlayerState) { p.Summons = s })
	case ContainerSupport:
		return gs.UpdatePlayer(loc.PID, func(p *PlayerState) { p.Supports = s })
	}
	out, err := gs.UpdateCharacter(loc.PID, loc.Char, func(c *Character) {
		switch loc.Kind {
		case ContainerHidden:
			c.Hidden = s
		case ContainerEquipment:
			c.Equipment = s
		default:
			c.Statuses = s
		}
	})
	if err != nil {
		panic(fmt.Sprintf("state: status container %s %s/%d: %v", loc.Kind, loc.PID, loc.Char, err))
	}
	return out
}

// AddStatus grants st at loc, merging with a present instance.
func (gs *GameState) AddStatus(loc Location, st Status) *GameState {
	return gs.WithContainer(loc, gs.Container(loc).Add(st))
}

// ReplaceStatus writes back an updated instance of the status called name
// at loc; nil removes it.
func (gs *GameState) ReplaceStatus(loc Location, name string, st Status) *GameState {
	c := gs.Container(loc)
	if !c.Contains(name) {
		return gs
	}
	return gs.WithContainer(loc, c.Replace(name, st))
}

// WaitingOnStack reports whether the stack still holds effects that run
// without player input.
func (gs *GameState) WaitingOnStack() bool {
	if gs.Stack.IsEmpty() {
		return false
	}
	_, paused := gs.Stack.TopPause()
	return !paused
}
