// Package action defines the decisions a player submits to the game.
package action

import (
	"fmt"

	"github.com/elemduel/duel-server-go/internal/game/dice"
	"github.com/elemduel/duel-server-go/internal/game/state"
)

// Kind tags an action.
type Kind int

const (
	KindCardsSelect Kind = iota
	KindDiceSelect
	KindCharacterSelect
	KindEndRound
	KindSkill
	KindSwap
	KindCard
	KindElementalTuning
	KindDeathSwap
)

var kindNames = map[Kind]string{
	KindCardsSelect:     "CARDS_SELECT",
	KindDiceSelect:      "DICE_SELECT",
	KindCharacterSelect: "CHARACTER_SELECT",
	KindEndRound:        "END_ROUND",
	KindSkill:           "SKILL",
	KindSwap:            "SWAP",
	KindCard:            "CARD",
	KindElementalTuning: "ELEMENTAL_TUNING",
	KindDeathSwap:       "DEATH_SWAP",
}

func (k Kind) String() string {
	if name, ok := kindNames[k]; ok {
		return name
	}
	return fmt.Sprintf("ACTION_%d", int(k))
}

// Action is one player decision.
type Action interface {
	Kind() Kind
	String() string
}

// CardsSelectAction redraws the named cards of the starting hand. An empty
// selection keeps the hand.
type CardsSelectAction struct {
	Selected []string
}

// DiceSelectAction rerolls the selected dice. An empty selection keeps the
// dice and gives up the remaining rerolls.
type DiceSelectAction struct {
	Selected dice.ActualDice
}

// CharacterSelectAction picks the starting active character.
type CharacterSelectAction struct {
	Char state.CharID
}

// EndRoundAction declares the end of the player's round.
type EndRoundAction struct{}

// SkillAction casts a skill of the active character.
type SkillAction struct {
	Skill   state.SkillKind
	Payment dice.ActualDice
}

// SwapAction makes another character active.
type SwapAction struct {
	Char    state.CharID
	Payment dice.ActualDice
}

// CardAction plays a card from hand.
type CardAction struct {
	Card    string
	Target  state.Target
	Payment dice.ActualDice
}

// ElementalTuningAction discards a card to turn one die into the active
// character's element.
type ElementalTuningAction struct {
	Card string
	Die  dice.Element
}

// DeathSwapAction replaces a defeated active character.
type DeathSwapAction struct {
	Char state.CharID
}

func (CardsSelectAction) Kind() Kind     { return KindCardsSelect }
func (DiceSelectAction) Kind() Kind      { return KindDiceSelect }
func (CharacterSelectAction) Kind() Kind { return KindCharacterSelect }
func (EndRoundAction) Kind() Kind        { return KindEndRound }
func (SkillAction) Kind() Kind           { return KindSkill }
func (SwapAction) Kind() Kind            { return KindSwap }
func (CardAction) Kind() Kind            { return KindCard }
func (ElementalTuningAction) Kind() Kind { return KindElementalTuning }
func (DeathSwapAction) Kind() Kind       { return KindDeathSwap }

func (a CardsSelectAction) String() string {
	return fmt.Sprintf("%s%v", a.Kind(), a.Selected)
}

func (a DiceSelectAction) String() string {
	return fmt.Sprintf("%s%s", a.Kind(), a.Selected)
}

func (a CharacterSelectAction) String() string {
	return fmt.Sprintf("%s(%d)", a.Kind(), a.Char)
}

func (a EndRoundAction) String() string { return a.Kind().String() }

func (a SkillAction) String() string {
	return fmt.Sprintf("%s(%s, %s)", a.Kind(), a.Skill, a.Payment)
}

func (a SwapAction) String() string {
	return fmt.Sprintf("%s(%d, %s)", a.Kind(), a.Char, a.Payment)
}

func (a CardAction) String() string {
	if a.Target.IsZero() {
		return fmt.Sprintf("%s(%s, %s)", a.Kind(), a.Card, a.Payment)
	}
	return fmt.Sprintf("%s(%s -> %s/%d, %s)", a.Kind(), a.Card, a.Target.PID, a.Target.Char, a.Payment)
}

func (a ElementalTuningAction) String() string {
	return fmt.Sprintf("%s(%s, %s)", a.Kind(), a.Card, a.Die)
}

func (a DeathSwapAction) String() string {
	return fmt.Sprintf("%s(%d)", a.Kind(), a.Char)
}

// IsCombat reports whether the action ends the player's turn once it
// resolves. Playing a card is a fast action unless the card says otherwise.
func IsCombat(a Action, card state.Card) bool {
	switch a.Kind() {
	case KindSkill, KindSwap, KindEndRound:
		return true
	case KindCard:
		c, ok := card.(state.CombatCard)
		return ok && c.IsCombatAction()
	default:
		return false
	}
}
