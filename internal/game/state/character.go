package state

import (
	"fmt"

	"github.com/elemduel/duel-server-go/internal/game/dice"
	"github.com/elemduel/duel-server-go/internal/game/element"
)

// SkillKind distinguishes the three skill slots of a character.
type SkillKind int

const (
	NormalAttack SkillKind = iota
	ElementalSkill
	ElementalBurst
)

func (k SkillKind) String() string {
	switch k {
	case NormalAttack:
		return "NORMAL_ATTACK"
	case ElementalSkill:
		return "ELEMENTAL_SKILL"
	case ElementalBurst:
		return "ELEMENTAL_BURST"
	default:
		return fmt.Sprintf("SKILL_%d", int(k))
	}
}

// SkillExtra lets content attach effects to a skill beyond its damage.
// The effects run after the skill's damage.
type SkillExtra interface {
	Effects(gs *GameState, pid PID, char CharID) []Effect
}

// Skill is the data of one character skill.
type Skill struct {
	Kind    SkillKind
	Name    string
	Cost    dice.AbstractDice
	Damage  int
	Element element.Element
	Extra   SkillExtra
}

// SkillBlocker is implemented by character statuses that lock skills, such
// as Frozen.
type SkillBlocker interface {
	BlocksSkills() bool
}

// Character is one member of a team.
type Character struct {
	ID        CharID
	Name      string
	Element   element.Element
	HP        int
	MaxHP     int
	Energy    int
	MaxEnergy int
	Alive     bool
	Aura      element.Aura
	Hidden    Statuses
	Equipment Statuses
	Statuses  Statuses
	Skills    []Skill
}

// Skill returns the character's skill of the given kind.
func (c Character) Skill(kind SkillKind) (Skill, bool) {
	for _, s := range c.Skills {
		if s.Kind == kind {
			return s, true
		}
	}
	return Skill{}, false
}

// SkillsLocked reports whether any of the character's statuses blocks
// skill use.
func (c Character) SkillsLocked() bool {
	for _, st := range c.Statuses.All() {
		if b, ok := st.(SkillBlocker); ok && b.BlocksSkills() {
			return true
		}
	}
	return false
}

// Characters is a team in fixed order plus the active pointer.
type Characters struct {
	Active CharID
	chars  []Character
}

// NewCharacters builds a team. Characters without an ID are numbered by
// position starting at 1. No character is active yet.
func NewCharacters(chars ...Character) Characters {
	out := make([]Character, len(chars))
	for i, c := range chars {
		if c.ID == 0 {
			c.ID = CharID(i + 1)
		}
		out[i] = c
	}
	return Characters{chars: out}
}

// All returns the team in order.
func (c Characters) All() []Character {
	return append([]Character(nil), c.chars...)
}

// Len returns the team size.
func (c Characters) Len() int { return len(c.chars) }

func (c Characters) index(id CharID) int {
	for i, ch := range c.chars {
		if ch.ID == id {
			return i
		}
	}
	return -1
}

// Get returns the character with the given id.
func (c Characters) Get(id CharID) (Character, bool) {
	if i := c.index(id); i >= 0 {
		return c.chars[i], true
	}
	return Character{}, false
}

// ActiveCharacter returns the active character.
func (c Characters) ActiveCharacter() (Character, bool) {
	if c.Active == 0 {
		return Character{}, false
	}
	return c.Get(c.Active)
}

// With replaces the character sharing ch's id.
func (c Characters) With(ch Character) (Characters, error) {
	i := c.index(ch.ID)
	if i < 0 {
		return c, fmt.Errorf("%w: %d", ErrCharacterNotFound, ch.ID)
	}
	chars := append([]Character(nil), c.chars...)
	chars[i] = ch
	return Characters{Active: c.Active, chars: chars}, nil
}

// WithActive moves the active pointer to id.
func (c Characters) WithActive(id CharID) (Characters, error) {
	if c.index(id) < 0 {
		return c, fmt.Errorf("%w: %d", ErrCharacterNotFound, id)
	}
	return Characters{Active: id, chars: c.chars}, nil
}

// SwapOrder returns the non-active characters starting after the active one
// and wrapping around. Without an active character the whole team is
// returned in order.
func (c Characters) SwapOrder() []Character {
	start := c.index(c.Active)
	if start < 0 {
		return c.All()
	}
	out := make([]Character, 0, len(c.chars)-1)
	for k := 1; k < len(c.chars); k++ {
		out = append(out, c.chars[(start+k)%len(c.chars)])
	}
	return out
}

// NextAlive returns the first living character in swap order.
func (c Characters) NextAlive() (Character, bool) {
	for _, ch := range c.SwapOrder() {
		if ch.Alive {
			return ch, true
		}
	}
	return Character{}, false
}

// AliveCount returns the number of living characters.
func (c Characters) AliveCount() int {
	n := 0
	for _, ch := range c.chars {
		if ch.Alive {
			n++
		}
	}
	return n
}

// AllDefeated reports whether the whole team is down.
func (c Characters) AllDefeated() bool { return c.AliveCount() == 0 }
