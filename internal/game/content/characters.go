// Package content is the starter catalog of characters and cards. It is
// small on purpose: enough to play full games in simulations and tests.
package content

import (
	"errors"
	"fmt"
	"sort"

	"github.com/elemduel/duel-server-go/internal/game/dice"
	"github.com/elemduel/duel-server-go/internal/game/effects"
	"github.com/elemduel/duel-server-go/internal/game/element"
	"github.com/elemduel/duel-server-go/internal/game/state"
)

// ErrUnknownCharacter is returned for names missing from the catalog.
var ErrUnknownCharacter = errors.New("unknown character")

// Character names.
const (
	Ember  = "Ember"
	Ripple = "Ripple"
	Frost  = "Frost"
)

const (
	nameRainWard    = "Rain Ward"
	nameEmberSpirit = "Ember Spirit"
	nameFrostSpirit = "Frost Spirit"
)

var characters = map[string]func() state.Character{
	Ember:  ember,
	Ripple: ripple,
	Frost:  frost,
}

// CharacterNames lists the catalog in name order.
func CharacterNames() []string {
	names := make([]string, 0, len(characters))
	for name := range characters {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// NewCharacter returns a fresh copy of the named character.
func NewCharacter(name string) (state.Character, error) {
	build, ok := characters[name]
	if !ok {
		return state.Character{}, fmt.Errorf("%q: %w", name, ErrUnknownCharacter)
	}
	return build(), nil
}

// NewTeam builds a team from character names, in order.
func NewTeam(names ...string) (state.Characters, error) {
	chars := make([]state.Character, 0, len(names))
	for _, name := range names {
		c, err := NewCharacter(name)
		if err != nil {
			return state.Characters{}, err
		}
		chars = append(chars, c)
	}
	return state.NewCharacters(chars...), nil
}

// StarterTeam is one of each catalog character.
func StarterTeam() state.Characters {
	team, _ := NewTeam(Ember, Ripple, Frost)
	return team
}

func cost(m map[dice.Element]int) dice.AbstractDice { return dice.NewAbstractDice(m) }

// normalAttack is the shared physical strike: one die of the character's
// element and two of anything.
func normalAttack(name string, face dice.Element) state.Skill {
	return state.Skill{
		Kind:    state.NormalAttack,
		Name:    name,
		Cost:    cost(map[dice.Element]int{face: 1, dice.Any: 2}),
		Damage:  2,
		Element: element.Physical,
	}
}

func base(name string, elem element.Element, skills ...state.Skill) state.Character {
	return state.Character{
		Name:      name,
		Element:   elem,
		HP:        10,
		MaxHP:     10,
		MaxEnergy: 2,
		Alive:     true,
		Skills:    skills,
	}
}

func ember() state.Character {
	return base(Ember, element.Pyro,
		normalAttack("Cinder Blade", dice.Pyro),
		state.Skill{
			Kind:    state.ElementalSkill,
			Name:    "Searing Arc",
			Cost:    cost(map[dice.Element]int{dice.Pyro: 3}),
			Damage:  3,
			Element: element.Pyro,
		},
		state.Skill{
			Kind:    state.ElementalBurst,
			Name:    "Pyre",
			Cost:    cost(map[dice.Element]int{dice.Pyro: 3}),
			Damage:  3,
			Element: element.Pyro,
			Extra:   summon{newEmberSpirit},
		},
	)
}

func ripple() state.Character {
	return base(Ripple, element.Hydro,
		normalAttack("Tide Strike", dice.Hydro),
		state.Skill{
			Kind:    state.ElementalSkill,
			Name:    "Rain Veil",
			Cost:    cost(map[dice.Element]int{dice.Hydro: 3}),
			Damage:  1,
			Element: element.Hydro,
			Extra:   rainWard{},
		},
		state.Skill{
			Kind:    state.ElementalBurst,
			Name:    "Deluge",
			Cost:    cost(map[dice.Element]int{dice.Hydro: 3}),
			Damage:  2,
			Element: element.Hydro,
			Extra:   teamHeal{amount: 2},
		},
	)
}

func frost() state.Character {
	return base(Frost, element.Cryo,
		normalAttack("Rime Edge", dice.Cryo),
		state.Skill{
			Kind:    state.ElementalSkill,
			Name:    "Hailstorm",
			Cost:    cost(map[dice.Element]int{dice.Cryo: 3}),
			Damage:  3,
			Element: element.Cryo,
		},
		state.Skill{
			Kind:    state.ElementalBurst,
			Name:    "Glacier",
			Cost:    cost(map[dice.Element]int{dice.Cryo: 3}),
			Damage:  2,
			Element: element.Cryo,
			Extra:   summon{newFrostSpirit},
		},
	)
}

func newEmberSpirit() state.Status {
	return effects.DamageSummon{
		UsageCounter: effects.UsageCounter{Count: 2},
		Label:        nameEmberSpirit,
		Element:      element.Pyro,
		Damage:       1,
		MaxUsages:    2,
	}
}

func newFrostSpirit() state.Status {
	return effects.DamageSummon{
		UsageCounter: effects.UsageCounter{Count: 3},
		Label:        nameFrostSpirit,
		Element:      element.Cryo,
		Damage:       1,
		MaxUsages:    3,
	}
}

// summon places a fresh summon for the caster's side.
type summon struct {
	build func() state.Status
}

func (s summon) Effects(_ *state.GameState, pid state.PID, _ state.CharID) []state.Effect {
	return []state.Effect{effects.AddSummonEffect{PID: pid, Summon: s.build()}}
}

// rainWard shields the active character from the next two hits, 1 each.
type rainWard struct{}

func (rainWard) Effects(_ *state.GameState, pid state.PID, _ state.CharID) []state.Effect {
	return []state.Effect{effects.AddCombatStatusEffect{
		PID:    pid,
		Status: effects.NewFixedShield(nameRainWard, 2, 1),
	}}
}

// teamHeal heals every living character of the caster's team.
type teamHeal struct {
	amount int
}

func (h teamHeal) Effects(gs *state.GameState, pid state.PID, _ state.CharID) []state.Effect {
	var out []state.Effect
	for _, c := range gs.Player(pid).Characters.All() {
		if c.Alive {
			out = append(out, effects.RecoverHPEffect{PID: pid, Char: c.ID, Amount: h.amount})
		}
	}
	return out
}
