package state

import (
	"fmt"

	"github.com/elemduel/duel-server-go/internal/game/dice"
	"github.com/elemduel/duel-server-go/internal/game/element"
)

// PreprocessKey names a typed event statuses may transform before it is
// applied.
type PreprocessKey int

const (
	PreprocessSkill PreprocessKey = iota
	PreprocessSwap
	PreprocessCard
	PreprocessDmgElement
	PreprocessDmgReaction
	PreprocessDmgAmountPlus
	PreprocessDmgAmountMul
	PreprocessDmgAmountMinus
	PreprocessRollDiceInit
	PreprocessRollChances
)

var preprocessKeyNames = map[PreprocessKey]string{
	PreprocessSkill:          "SKILL",
	PreprocessSwap:           "SWAP",
	PreprocessCard:           "CARD",
	PreprocessDmgElement:     "DMG_ELEMENT",
	PreprocessDmgReaction:    "DMG_REACTION",
	PreprocessDmgAmountPlus:  "DMG_AMOUNT_PLUS",
	PreprocessDmgAmountMul:   "DMG_AMOUNT_MUL",
	PreprocessDmgAmountMinus: "DMG_AMOUNT_MINUS",
	PreprocessRollDiceInit:   "ROLL_DICE_INIT",
	PreprocessRollChances:    "ROLL_CHANCES",
}

func (k PreprocessKey) String() string {
	if name, ok := preprocessKeyNames[k]; ok {
		return name
	}
	return fmt.Sprintf("PREPROCESS_%d", int(k))
}

// OpponentParticipates reports whether the statuses of the other player are
// consulted after the acting player's. Damage is shaped by both sides, e.g.
// a shield on the receiving side.
func (k PreprocessKey) OpponentParticipates() bool {
	switch k {
	case PreprocessDmgElement, PreprocessDmgReaction, PreprocessDmgAmountPlus,
		PreprocessDmgAmountMul, PreprocessDmgAmountMinus:
		return true
	default:
		return false
	}
}

// Preprocessable is a value flowing through the preprocessing pipeline.
type Preprocessable interface {
	preprocessable()
}

// CostKind tells what a cost is paid for.
type CostKind int

const (
	CostSkill CostKind = iota
	CostSwap
	CostCard
)

// CostEvent is a cost about to be validated and paid.
type CostEvent struct {
	PID      PID
	Kind     CostKind
	Char     CharID
	Skill    SkillKind
	CardName string
	Cost     dice.AbstractDice
}

// DamageEvent is damage on its way to one character.
type DamageEvent struct {
	SourcePID PID
	// SourceChar is zero when the damage does not come from a character.
	SourceChar CharID
	FromSkill  bool
	Skill      SkillKind
	TargetPID  PID
	Target     CharID
	Element    element.Element
	Amount     int
	Reaction   *element.ReactionDetail
}

// RollInitEvent decides dice fixed before the random part of a roll.
type RollInitEvent struct {
	PID   PID
	Fixed dice.ActualDice
}

// RollChancesEvent decides how many rerolls a player gets this round.
type RollChancesEvent struct {
	PID     PID
	Chances int
}

func (CostEvent) preprocessable()        {}
func (DamageEvent) preprocessable()      {}
func (RollInitEvent) preprocessable()    {}
func (RollChancesEvent) preprocessable() {}

// StatusLocations lists the containers of pid in activity order: the active
// character (hidden, equipment, character statuses), combat statuses, the
// other characters in swap order, summons, then supports.
func (gs *GameState) StatusLocations(pid PID) []Location {
	p := gs.Player(pid)
	locs := make([]Location, 0, 12)
	charLocs := func(id CharID) {
		locs = append(locs,
			Location{PID: pid, Kind: ContainerHidden, Char: id},
			Location{PID: pid, Kind: ContainerEquipment, Char: id},
			Location{PID: pid, Kind: ContainerCharacter, Char: id},
		)
	}
	if p.Characters.Active != 0 {
		charLocs(p.Characters.Active)
	}
	locs = append(locs, Location{PID: pid, Kind: ContainerCombat})
	for _, c := range p.Characters.SwapOrder() {
		charLocs(c.ID)
	}
	return append(locs,
		Location{PID: pid, Kind: ContainerSummon},
		Location{PID: pid, Kind: ContainerSupport},
	)
}

func listens[K comparable](keys []K, key K) bool {
	for _, k := range keys {
		if k == key {
			return true
		}
	}
	return false
}

// Preprocess runs item through every status listening to key: the acting
// player's statuses first, then the opponent's when the key allows it. Each
// status sees the output of the previous one. Statuses that do not listen to
// key are skipped. The returned state holds the updated statuses.
func Preprocess[T Preprocessable](gs *GameState, pid PID, key PreprocessKey, item T) (*GameState, T) {
	pids := []PID{pid}
	if key.OpponentParticipates() {
		pids = append(pids, pid.Other())
	}
	for _, p := range pids {
		for _, loc := range gs.StatusLocations(p) {
			for _, st := range gs.Container(loc).All() {
				pp, ok := st.(Preprocessor)
				if !ok || !listens(pp.PreprocessKeys(), key) {
					continue
				}
				out, updated := pp.Preprocess(gs, loc, key, item)
				if next, ok := out.(T); ok {
					item = next
				}
				gs = gs.ReplaceStatus(loc, st.Name(), updated)
			}
		}
	}
	return gs, item
}
