package effects

import (
	"github.com/elemduel/duel-server-go/internal/game/dice"
	"github.com/elemduel/duel-server-go/internal/game/element"
	"github.com/elemduel/duel-server-go/internal/game/state"
)

// DamageSummon deals Damage of Element to the opposing active character at
// the end of every round, spending one usage each time.
//
// Re-summoning either adds the granted usages up to MaxUsages (Stacking)
// or refreshes to the larger budget.
type DamageSummon struct {
	UsageCounter
	Label     string
	Element   element.Element
	Damage    int
	MaxUsages int
	Stacking  bool
}

// NewBurningFlame returns the summon left by burning: 1 pyro damage per
// round, stacking up to two usages.
func NewBurningFlame() DamageSummon {
	return DamageSummon{
		UsageCounter: UsageCounter{Count: 1},
		Label:        NameBurningFlame,
		Element:      element.Pyro,
		Damage:       1,
		MaxUsages:    2,
		Stacking:     true,
	}
}

func (s DamageSummon) Name() string { return s.Label }

func (s DamageSummon) Update(incoming state.Status) state.Status {
	if s.Stacking {
		s.UsageCounter = s.stacked(incoming, s.MaxUsages)
	} else {
		s.UsageCounter = s.refreshed(incoming)
	}
	return s
}

func (DamageSummon) Signals() []state.Signal { return []state.Signal{state.SignalRoundEnd} }

func (s DamageSummon) React(_ *state.GameState, loc state.Location, _ state.SignalEvent) ([]state.Effect, state.Status) {
	hit := DamageEffect{
		SourcePID: loc.PID,
		TargetPID: loc.PID.Other(),
		Target:    TargetActive,
		Element:   s.Element,
		Amount:    s.Damage,
	}
	s.spend(1)
	return []state.Effect{hit}, s
}

// DiceSupport adds PerRound dice of Face to its owner at the start of each
// round for as many rounds as it has usages.
type DiceSupport struct {
	UsageCounter
	Label    string
	Face     dice.Element
	PerRound int
}

func (s DiceSupport) Name() string { return s.Label }

func (s DiceSupport) Update(incoming state.Status) state.Status {
	s.UsageCounter = s.refreshed(incoming)
	return s
}

func (DiceSupport) Signals() []state.Signal { return []state.Signal{state.SignalRoundStart} }

func (s DiceSupport) React(_ *state.GameState, loc state.Location, _ state.SignalEvent) ([]state.Effect, state.Status) {
	grant := AddDiceEffect{PID: loc.PID, Dice: dice.ActualDice{}.With(s.Face, s.PerRound)}
	s.spend(1)
	return []state.Effect{grant}, s
}

// CostDiscount lowers the owner's next costs of one kind by Amount dice,
// once per usage. Costs that are already free do not spend a usage.
type CostDiscount struct {
	UsageCounter
	Label  string
	Key    state.PreprocessKey
	Amount int
}

func (s CostDiscount) Name() string { return s.Label }

func (s CostDiscount) Update(incoming state.Status) state.Status {
	s.UsageCounter = s.refreshed(incoming)
	return s
}

func (s CostDiscount) PreprocessKeys() []state.PreprocessKey {
	return []state.PreprocessKey{s.Key}
}

func (s CostDiscount) Preprocess(_ *state.GameState, loc state.Location, _ state.PreprocessKey, item state.Preprocessable) (state.Preprocessable, state.Status) {
	cost, ok := item.(state.CostEvent)
	if !ok || cost.PID != loc.PID || cost.Cost.IsEmpty() {
		return item, s
	}
	cost.Cost = cost.Cost.ReduceAny(s.Amount)
	s.spend(1)
	return cost, s
}
