package effects

import (
	"fmt"

	"github.com/elemduel/duel-server-go/internal/game/element"
	"github.com/elemduel/duel-server-go/internal/game/state"
)

// DamageTarget selects which characters of the target side are hit.
type DamageTarget int

const (
	TargetActive DamageTarget = iota
	TargetOffField
	TargetAll
	TargetSpecific
	// TargetOthers hits every character except Char.
	TargetOthers
)

// DamageEffect deals damage to one or more characters of TargetPID. It
// expands into one SpecificDamageEffect per living target: the active
// character first, then the others in swap order.
type DamageEffect struct {
	SourcePID  state.PID
	SourceChar state.CharID
	FromSkill  bool
	Skill      state.SkillKind
	TargetPID  state.PID
	Target     DamageTarget
	// Char is the character hit by TargetSpecific and spared by
	// TargetOthers.
	Char    state.CharID
	Element element.Element
	Amount  int
}

func (e DamageEffect) Execute(gs *state.GameState) (*state.GameState, error) {
	team := gs.Player(e.TargetPID).Characters
	var ids []state.CharID
	switch e.Target {
	case TargetSpecific:
		ids = []state.CharID{e.Char}
	case TargetActive, TargetAll:
		if team.Active != 0 {
			ids = append(ids, team.Active)
		}
		if e.Target == TargetActive {
			break
		}
		fallthrough
	case TargetOffField:
		for _, c := range team.SwapOrder() {
			ids = append(ids, c.ID)
		}
	case TargetOthers:
		if team.Active != 0 && team.Active != e.Char {
			ids = append(ids, team.Active)
		}
		for _, c := range team.SwapOrder() {
			if c.ID != e.Char {
				ids = append(ids, c.ID)
			}
		}
	default:
		return nil, fmt.Errorf("unknown damage target %d", e.Target)
	}

	hits := make([]state.Effect, 0, len(ids))
	for _, id := range ids {
		c, ok := team.Get(id)
		if !ok {
			return nil, fmt.Errorf("damage %s: %w: %d", e.TargetPID, state.ErrCharacterNotFound, id)
		}
		if !c.Alive {
			continue
		}
		hits = append(hits, SpecificDamageEffect{
			SourcePID:  e.SourcePID,
			SourceChar: e.SourceChar,
			FromSkill:  e.FromSkill,
			Skill:      e.Skill,
			TargetPID:  e.TargetPID,
			Char:       id,
			Element:    e.Element,
			Amount:     e.Amount,
		})
	}
	return gs.PushEffects(hits...), nil
}

// SpecificDamageEffect resolves damage on a single character.
//
// Resolution order: DMG_ELEMENT preprocessing, reaction against the aura,
// DMG_REACTION preprocessing, reaction boost, DMG_AMOUNT_PLUS, _MUL and
// _MINUS preprocessing, hp loss, aura update, then the reaction's side
// effects are pushed. Piercing damage skips everything but the hp loss.
type SpecificDamageEffect struct {
	SourcePID  state.PID
	SourceChar state.CharID
	FromSkill  bool
	Skill      state.SkillKind
	TargetPID  state.PID
	Char       state.CharID
	Element    element.Element
	Amount     int
}

func (e SpecificDamageEffect) Execute(gs *state.GameState) (*state.GameState, error) {
	target, ok := gs.Character(e.TargetPID, e.Char)
	if !ok {
		return nil, fmt.Errorf("damage %s: %w: %d", e.TargetPID, state.ErrCharacterNotFound, e.Char)
	}
	if !target.Alive {
		return gs, nil
	}

	dmg := state.DamageEvent{
		SourcePID:  e.SourcePID,
		SourceChar: e.SourceChar,
		FromSkill:  e.FromSkill,
		Skill:      e.Skill,
		TargetPID:  e.TargetPID,
		Target:     e.Char,
		Element:    e.Element,
		Amount:     e.Amount,
	}

	aura := target.Aura
	if dmg.Element != element.Piercing {
		gs, dmg = state.Preprocess(gs, e.SourcePID, state.PreprocessDmgElement, dmg)
		if dmg.Element.IsElemental() {
			aura, dmg.Reaction = element.Apply(aura, dmg.Element)
		}
		gs, dmg = state.Preprocess(gs, e.SourcePID, state.PreprocessDmgReaction, dmg)
		if dmg.Reaction != nil {
			dmg.Amount += dmg.Reaction.Boost
		}
		gs, dmg = state.Preprocess(gs, e.SourcePID, state.PreprocessDmgAmountPlus, dmg)
		gs, dmg = state.Preprocess(gs, e.SourcePID, state.PreprocessDmgAmountMul, dmg)
		gs, dmg = state.Preprocess(gs, e.SourcePID, state.PreprocessDmgAmountMinus, dmg)
	}
	dmg.Amount = max(0, dmg.Amount)

	gs, err := gs.UpdateCharacter(e.TargetPID, e.Char, func(c *state.Character) {
		c.HP = max(0, c.HP-dmg.Amount)
		c.Aura = aura
		if c.HP == 0 {
			defeat(c)
		}
	})
	if err != nil {
		return nil, err
	}
	if dmg.Reaction == nil {
		return gs, nil
	}
	return gs.PushEffects(reactionEffects(gs, dmg)...), nil
}

// defeat clears everything a defeated character carries.
func defeat(c *state.Character) {
	c.Alive = false
	c.Energy = 0
	c.Aura = element.Aura{}
	c.Hidden = state.Statuses{}
	c.Equipment = state.Statuses{}
	c.Statuses = state.Statuses{}
}

// reactionEffects returns the follow-up effects of the reaction carried by
// dmg, to run first to last.
func reactionEffects(gs *state.GameState, dmg state.DamageEvent) []state.Effect {
	r := dmg.Reaction
	switch r.Reaction {
	case element.Superconduct, element.ElectroCharged:
		return []state.Effect{DamageEffect{
			SourcePID: dmg.SourcePID,
			TargetPID: dmg.TargetPID,
			Target:    TargetOthers,
			Char:      dmg.Target,
			Element:   element.Piercing,
			Amount:    1,
		}}
	case element.Swirl:
		return []state.Effect{DamageEffect{
			SourcePID:  dmg.SourcePID,
			SourceChar: dmg.SourceChar,
			TargetPID:  dmg.TargetPID,
			Target:     TargetOthers,
			Char:       dmg.Target,
			Element:    r.AuraElement,
			Amount:     1,
		}}
	case element.Overloaded:
		team := gs.Player(dmg.TargetPID).Characters
		if c, _ := team.Get(dmg.Target); team.Active != dmg.Target || !c.Alive {
			return nil
		}
		return []state.Effect{ForwardSwapCharacterEffect{PID: dmg.TargetPID}}
	case element.Frozen:
		return []state.Effect{AddCharacterStatusEffect{PID: dmg.TargetPID, Char: dmg.Target, Status: NewFrozen()}}
	case element.Crystallize:
		return []state.Effect{AddCombatStatusEffect{PID: dmg.SourcePID, Status: NewCrystallizeShield()}}
	case element.Quicken:
		return []state.Effect{AddCombatStatusEffect{PID: dmg.SourcePID, Status: NewCatalyzingField()}}
	case element.Bloom:
		return []state.Effect{AddCombatStatusEffect{PID: dmg.SourcePID, Status: NewDendroCore()}}
	case element.Burning:
		return []state.Effect{AddSummonEffect{PID: dmg.SourcePID, Summon: NewBurningFlame()}}
	default:
		return nil
	}
}
