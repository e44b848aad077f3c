package effects

import (
	"github.com/elemduel/duel-server-go/internal/game/element"
	"github.com/elemduel/duel-server-go/internal/game/state"
)

// Status names of the built-in statuses.
const (
	NameFrozen            = "Frozen"
	NameCrystallizeShield = "Crystallize Shield"
	NameCatalyzingField   = "Catalyzing Field"
	NameDendroCore        = "Dendro Core"
	NameBurningFlame      = "Burning Flame"
)

// UsageCounter holds the usage budget shared by the built-in statuses.
// Spending never takes it below zero.
type UsageCounter struct {
	Count int
}

// Usages returns the remaining budget.
func (u UsageCounter) Usages() int { return u.Count }

// spend removes up to n usages and returns how many were taken.
func (u *UsageCounter) spend(n int) int {
	n = min(max(n, 0), u.Count)
	u.Count -= n
	return n
}

// refreshed keeps the larger of the current and the granted budget.
func (u UsageCounter) refreshed(incoming state.Status) UsageCounter {
	return UsageCounter{Count: max(u.Count, incoming.Usages())}
}

// stacked adds the granted budget, capped at limit.
func (u UsageCounter) stacked(incoming state.Status, limit int) UsageCounter {
	return UsageCounter{Count: min(u.Count+incoming.Usages(), limit)}
}

// protects reports whether a status at loc stands in front of the damage:
// team statuses guard the active character, character statuses their own
// character.
func protects(gs *state.GameState, loc state.Location, dmg state.DamageEvent) bool {
	if dmg.TargetPID != loc.PID || dmg.Element == element.Piercing || dmg.Amount <= 0 {
		return false
	}
	switch loc.Kind {
	case state.ContainerCombat:
		return gs.Player(loc.PID).Characters.Active == dmg.Target
	case state.ContainerHidden, state.ContainerEquipment, state.ContainerCharacter:
		return loc.Char == dmg.Target
	default:
		return false
	}
}

// boosts reports whether damage dealt by the side at loc is one of elems.
func boosts(loc state.Location, dmg state.DamageEvent, elems ...element.Element) bool {
	if dmg.SourcePID != loc.PID || dmg.TargetPID == loc.PID {
		return false
	}
	for _, e := range elems {
		if dmg.Element == e {
			return true
		}
	}
	return false
}

var minusKeys = []state.PreprocessKey{state.PreprocessDmgAmountMinus}
var plusKeys = []state.PreprocessKey{state.PreprocessDmgAmountPlus}

// PointShield absorbs damage point by point; its usages are the points
// left.
type PointShield struct {
	UsageCounter
	Label string
}

// NewPointShield returns a shield worth points.
func NewPointShield(label string, points int) PointShield {
	return PointShield{UsageCounter: UsageCounter{Count: points}, Label: label}
}

func (s PointShield) Name() string { return s.Label }

func (s PointShield) Update(incoming state.Status) state.Status {
	s.UsageCounter = s.refreshed(incoming)
	return s
}

func (s PointShield) PreprocessKeys() []state.PreprocessKey { return minusKeys }

func (s PointShield) Preprocess(gs *state.GameState, loc state.Location, _ state.PreprocessKey, item state.Preprocessable) (state.Preprocessable, state.Status) {
	dmg, ok := item.(state.DamageEvent)
	if !ok || !protects(gs, loc, dmg) {
		return item, s
	}
	dmg.Amount -= s.spend(dmg.Amount)
	return dmg, s
}

// FixedShield absorbs up to Amount damage per hit; its usages are the hits
// left.
type FixedShield struct {
	UsageCounter
	Label  string
	Amount int
}

// NewFixedShield returns a shield blocking up to amount damage for hits
// hits.
func NewFixedShield(label string, hits, amount int) FixedShield {
	return FixedShield{UsageCounter: UsageCounter{Count: hits}, Label: label, Amount: amount}
}

func (s FixedShield) Name() string { return s.Label }

func (s FixedShield) Update(incoming state.Status) state.Status {
	s.UsageCounter = s.refreshed(incoming)
	return s
}

func (s FixedShield) PreprocessKeys() []state.PreprocessKey { return minusKeys }

func (s FixedShield) Preprocess(gs *state.GameState, loc state.Location, _ state.PreprocessKey, item state.Preprocessable) (state.Preprocessable, state.Status) {
	dmg, ok := item.(state.DamageEvent)
	if !ok || !protects(gs, loc, dmg) {
		return item, s
	}
	dmg.Amount -= min(dmg.Amount, s.Amount)
	s.spend(1)
	return dmg, s
}

// Frozen locks the character's skills until the end of the round. Pyro or
// physical damage breaks it for +2 damage.
type Frozen struct {
	UsageCounter
}

// NewFrozen returns a fresh Frozen status.
func NewFrozen() Frozen { return Frozen{UsageCounter{Count: 1}} }

func (Frozen) Name() string       { return NameFrozen }
func (Frozen) BlocksSkills() bool { return true }

func (s Frozen) Update(incoming state.Status) state.Status {
	s.UsageCounter = s.refreshed(incoming)
	return s
}

func (Frozen) PreprocessKeys() []state.PreprocessKey { return plusKeys }

func (s Frozen) Preprocess(gs *state.GameState, loc state.Location, _ state.PreprocessKey, item state.Preprocessable) (state.Preprocessable, state.Status) {
	dmg, ok := item.(state.DamageEvent)
	if !ok || dmg.TargetPID != loc.PID || dmg.Target != loc.Char {
		return item, s
	}
	if dmg.Element != element.Pyro && dmg.Element != element.Physical {
		return item, s
	}
	dmg.Amount += 2
	return dmg, nil
}

func (Frozen) Signals() []state.Signal { return []state.Signal{state.SignalRoundEnd} }

func (s Frozen) React(*state.GameState, state.Location, state.SignalEvent) ([]state.Effect, state.Status) {
	return nil, nil
}

// CrystallizeShield is the point shield granted by crystallize. Repeated
// crystallizes stack one point at a time up to two.
type CrystallizeShield struct {
	PointShield
}

// NewCrystallizeShield returns a one point crystallize shield.
func NewCrystallizeShield() CrystallizeShield {
	return CrystallizeShield{NewPointShield(NameCrystallizeShield, 1)}
}

func (s CrystallizeShield) Update(incoming state.Status) state.Status {
	s.UsageCounter = s.stacked(incoming, 2)
	return s
}

func (s CrystallizeShield) Preprocess(gs *state.GameState, loc state.Location, key state.PreprocessKey, item state.Preprocessable) (state.Preprocessable, state.Status) {
	out, st := s.PointShield.Preprocess(gs, loc, key, item)
	s.PointShield = st.(PointShield)
	return out, s
}

// CatalyzingField adds 1 to the side's electro and dendro damage, twice.
type CatalyzingField struct {
	UsageCounter
}

// NewCatalyzingField returns a field with two usages.
func NewCatalyzingField() CatalyzingField { return CatalyzingField{UsageCounter{Count: 2}} }

func (CatalyzingField) Name() string { return NameCatalyzingField }

func (s CatalyzingField) Update(incoming state.Status) state.Status {
	s.UsageCounter = s.refreshed(incoming)
	return s
}

func (CatalyzingField) PreprocessKeys() []state.PreprocessKey { return plusKeys }

func (s CatalyzingField) Preprocess(_ *state.GameState, loc state.Location, _ state.PreprocessKey, item state.Preprocessable) (state.Preprocessable, state.Status) {
	dmg, ok := item.(state.DamageEvent)
	if !ok || !boosts(loc, dmg, element.Electro, element.Dendro) {
		return item, s
	}
	dmg.Amount++
	s.spend(1)
	return dmg, s
}

// DendroCore adds 2 to the side's next pyro or electro damage.
type DendroCore struct {
	UsageCounter
}

// NewDendroCore returns a core with one usage.
func NewDendroCore() DendroCore { return DendroCore{UsageCounter{Count: 1}} }

func (DendroCore) Name() string { return NameDendroCore }

func (s DendroCore) Update(incoming state.Status) state.Status {
	s.UsageCounter = s.refreshed(incoming)
	return s
}

func (DendroCore) PreprocessKeys() []state.PreprocessKey { return plusKeys }

func (s DendroCore) Preprocess(_ *state.GameState, loc state.Location, _ state.PreprocessKey, item state.Preprocessable) (state.Preprocessable, state.Status) {
	dmg, ok := item.(state.DamageEvent)
	if !ok || !boosts(loc, dmg, element.Pyro, element.Electro) {
		return item, s
	}
	dmg.Amount += 2
	s.spend(1)
	return dmg, s
}
