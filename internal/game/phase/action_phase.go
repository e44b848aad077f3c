package phase

import (
	"fmt"

	"github.com/elemduel/duel-server-go/internal/game/action"
	"github.com/elemduel/duel-server-go/internal/game/dice"
	"github.com/elemduel/duel-server-go/internal/game/effects"
	"github.com/elemduel/duel-server-go/internal/game/state"
)

// SwapCost is the base cost of swapping the active character.
var SwapCost = dice.NewAbstractDice(map[dice.Element]int{dice.Any: 1})

// Action is the main phase of a round. Players alternate turns; skills,
// swaps and ending the round are combat actions that pass the turn, cards
// and elemental tuning are fast actions that do not.
type Action struct{}

func (Action) Kind() state.PhaseKind { return state.PhaseAction }

func (Action) Step(gs *state.GameState) (*state.GameState, error) {
	next, stepped, err := stepStack(gs)
	if err != nil || stepped {
		return next, err
	}
	if gs.Stack.IsEmpty() && bothAct(gs, state.ActPassiveWait) {
		// Round opening: the first player gets the turn once ROUND_START
		// has resolved.
		first := gs.RoundFirstPlayer
		gs = setAct(gs, first, state.ActAction)
		gs = gs.With(func(gs *state.GameState) { gs.ActivePlayer = first })
		return gs.PushEffects(effects.BroadcastSignalEffect{PID: first, Signal: state.SignalRoundStart}), nil
	}
	return nil, fmt.Errorf("%s: %w", state.PhaseAction, ErrNothingToStep)
}

func (Action) WaitingFor(gs *state.GameState) (state.PID, bool) {
	pid, paused, settled := waitingOnStack(gs)
	if paused {
		return pid, true
	}
	if !settled || bothAct(gs, state.ActPassiveWait) {
		return 0, false
	}
	return firstWithAct(gs, state.ActAction)
}

func (p Action) StepAction(gs *state.GameState, pid state.PID, act action.Action) (*state.GameState, error) {
	if err := checkWaiting(p, gs, pid); err != nil {
		return nil, err
	}
	if _, paused := gs.Stack.TopPause(); paused {
		return deathSwap(gs, pid, act)
	}
	switch a := act.(type) {
	case action.SkillAction:
		return castSkill(gs, pid, a)
	case action.SwapAction:
		return swap(gs, pid, a)
	case action.CardAction:
		return playCard(gs, pid, a)
	case action.ElementalTuningAction:
		return elementalTuning(gs, pid, a)
	case action.EndRoundAction:
		return endRound(gs, pid)
	default:
		return nil, fmt.Errorf("%s in %s: %w", act.Kind(), p.Kind(), ErrWrongPhaseAction)
	}
}

// pay checks payment against the preprocessed cost and removes it from
// pid's dice.
func pay(gs *state.GameState, pid state.PID, cost dice.AbstractDice, payment dice.ActualDice) (*state.GameState, error) {
	holding := gs.Player(pid).Dice
	if !dice.LooselySatisfy(cost, holding) {
		return nil, fmt.Errorf("cost %s with %s: %w", cost, holding, ErrInsufficientDice)
	}
	if !dice.JustSatisfy(cost, payment) || !holding.Contains(payment) {
		return nil, fmt.Errorf("pay %s with %s: %w", cost, payment, ErrInvalidPayment)
	}
	rest, err := holding.Sub(payment)
	if err != nil {
		return nil, fmt.Errorf("pay %s: %w", payment, ErrInvalidPayment)
	}
	return gs.UpdatePlayer(pid, func(p *state.PlayerState) { p.Dice = rest }), nil
}

// SkillCost returns the cost of casting kind with pid's active character
// after preprocessing, together with the state holding the updated
// statuses.
func SkillCost(gs *state.GameState, pid state.PID, kind state.SkillKind) (*state.GameState, dice.AbstractDice, error) {
	active, err := gs.ActiveCharacter(pid)
	if err != nil {
		return nil, dice.AbstractDice{}, fmt.Errorf("%v: %w", err, ErrIllegalTarget)
	}
	if !active.Alive {
		return nil, dice.AbstractDice{}, fmt.Errorf("active character %d is defeated: %w", active.ID, ErrIllegalTarget)
	}
	if active.SkillsLocked() {
		return nil, dice.AbstractDice{}, fmt.Errorf("%s: %w", active.Name, ErrSkillLocked)
	}
	skill, ok := active.Skill(kind)
	if !ok {
		return nil, dice.AbstractDice{}, fmt.Errorf("%s has no %s: %w", active.Name, kind, ErrIllegalTarget)
	}
	if kind == state.ElementalBurst && active.Energy < active.MaxEnergy {
		return nil, dice.AbstractDice{}, fmt.Errorf("%s has %d/%d energy: %w", active.Name, active.Energy, active.MaxEnergy, ErrNotEnoughEnergy)
	}
	gs, cost := state.Preprocess(gs, pid, state.PreprocessSkill, state.CostEvent{
		PID:   pid,
		Kind:  state.CostSkill,
		Char:  active.ID,
		Skill: kind,
		Cost:  skill.Cost,
	})
	return gs, cost.Cost, nil
}

func castSkill(gs *state.GameState, pid state.PID, a action.SkillAction) (*state.GameState, error) {
	gs, cost, err := SkillCost(gs, pid, a.Skill)
	if err != nil {
		return nil, err
	}
	gs, err = pay(gs, pid, cost, a.Payment)
	if err != nil {
		return nil, err
	}
	active, _ := gs.ActiveCharacter(pid)
	skill, _ := active.Skill(a.Skill)

	cascade := make([]state.Effect, 0, 8)
	if skill.Kind == state.ElementalBurst {
		cascade = append(cascade, effects.EnergyDrainEffect{PID: pid, Char: active.ID, Amount: active.MaxEnergy})
	} else {
		cascade = append(cascade, effects.EnergyRechargeEffect{PID: pid, Char: active.ID, Amount: 1})
	}
	if skill.Damage > 0 {
		cascade = append(cascade, effects.DamageEffect{
			SourcePID:  pid,
			SourceChar: active.ID,
			FromSkill:  true,
			Skill:      skill.Kind,
			TargetPID:  pid.Other(),
			Target:     effects.TargetActive,
			Element:    skill.Element,
			Amount:     skill.Damage,
		})
	}
	if skill.Extra != nil {
		cascade = append(cascade, skill.Extra.Effects(gs, pid, active.ID)...)
	}
	cascade = append(cascade,
		effects.DeathCheckEffect{},
		effects.BroadcastSignalEffect{PID: pid, Signal: state.SignalPostSkill},
		effects.BroadcastSignalEffect{PID: pid, Signal: state.SignalCombatAction},
		effects.TurnEndEffect{PID: pid},
	)
	return gs.PushEffects(cascade...), nil
}

// SwapCostFor returns the preprocessed cost of swapping to char.
func SwapCostFor(gs *state.GameState, pid state.PID, char state.CharID) (*state.GameState, dice.AbstractDice, error) {
	team := gs.Player(pid).Characters
	target, ok := team.Get(char)
	if !ok || !target.Alive || char == team.Active {
		return nil, dice.AbstractDice{}, fmt.Errorf("swap to %d: %w", char, ErrIllegalTarget)
	}
	gs, cost := state.Preprocess(gs, pid, state.PreprocessSwap, state.CostEvent{
		PID:  pid,
		Kind: state.CostSwap,
		Char: char,
		Cost: SwapCost,
	})
	return gs, cost.Cost, nil
}

func swap(gs *state.GameState, pid state.PID, a action.SwapAction) (*state.GameState, error) {
	gs, cost, err := SwapCostFor(gs, pid, a.Char)
	if err != nil {
		return nil, err
	}
	gs, err = pay(gs, pid, cost, a.Payment)
	if err != nil {
		return nil, err
	}
	return gs.PushEffects(
		effects.SwapCharacterEffect{PID: pid, Char: a.Char},
		effects.BroadcastSignalEffect{PID: pid, Signal: state.SignalSwapEvent},
		effects.BroadcastSignalEffect{PID: pid, Signal: state.SignalCombatAction},
		effects.TurnEndEffect{PID: pid},
	), nil
}

// CardCost returns the card called name from pid's hand with its
// preprocessed cost, after checking it may be played at target.
func CardCost(gs *state.GameState, pid state.PID, name string, target state.Target) (*state.GameState, state.Card, dice.AbstractDice, error) {
	player := gs.Player(pid)
	i := player.HandIndex(name)
	if i < 0 {
		return nil, nil, dice.AbstractDice{}, fmt.Errorf("%q: %w", name, ErrCardNotInHand)
	}
	card := player.Hand[i]
	if !card.Valid(gs, pid, target) {
		return nil, nil, dice.AbstractDice{}, fmt.Errorf("%q at %+v: %w", name, target, ErrIllegalTarget)
	}
	gs, cost := state.Preprocess(gs, pid, state.PreprocessCard, state.CostEvent{
		PID:      pid,
		Kind:     state.CostCard,
		CardName: name,
		Cost:     card.Cost(),
	})
	return gs, card, cost.Cost, nil
}

func playCard(gs *state.GameState, pid state.PID, a action.CardAction) (*state.GameState, error) {
	gs, card, cost, err := CardCost(gs, pid, a.Card, a.Target)
	if err != nil {
		return nil, err
	}
	gs, err = pay(gs, pid, cost, a.Payment)
	if err != nil {
		return nil, err
	}
	player, _ := gs.Player(pid).RemoveFromHand(a.Card)
	gs = gs.WithPlayer(pid, player)

	cascade := append(card.Effects(gs, pid, a.Target), effects.DeathCheckEffect{})
	if action.IsCombat(a, card) {
		cascade = append(cascade,
			effects.BroadcastSignalEffect{PID: pid, Signal: state.SignalCombatAction},
			effects.TurnEndEffect{PID: pid},
		)
	}
	return gs.PushEffects(cascade...), nil
}

// TuningTarget returns the die face elemental tuning produces for pid.
func TuningTarget(gs *state.GameState, pid state.PID) (dice.Element, bool) {
	active, err := gs.ActiveCharacter(pid)
	if err != nil {
		return dice.Omni, false
	}
	return dice.FaceFor(active.Element)
}

func elementalTuning(gs *state.GameState, pid state.PID, a action.ElementalTuningAction) (*state.GameState, error) {
	player := gs.Player(pid)
	if !player.HasCard(a.Card) {
		return nil, fmt.Errorf("tune with %q: %w", a.Card, ErrCardNotInHand)
	}
	face, ok := TuningTarget(gs, pid)
	if !ok {
		return nil, fmt.Errorf("active character has no die face: %w", ErrIllegalTarget)
	}
	if a.Die == dice.Omni || a.Die == face || player.Dice.Get(a.Die) == 0 {
		return nil, fmt.Errorf("tune %s into %s: %w", a.Die, face, ErrIllegalDiceChoice)
	}
	player, _ = player.RemoveFromHand(a.Card)
	return gs.UpdatePlayer(pid, func(p *state.PlayerState) {
		*p = *player
		p.Dice = p.Dice.With(a.Die, p.Dice.Get(a.Die)-1).With(face, p.Dice.Get(face)+1)
	}), nil
}

// endRound declares pid done for the round. The first player to do so
// starts the next round.
func endRound(gs *state.GameState, pid state.PID) (*state.GameState, error) {
	first := !gs.Player(pid.Other()).DeclaredEnd
	gs = gs.UpdatePlayer(pid, func(p *state.PlayerState) { p.DeclaredEnd = true })
	if first {
		gs = gs.With(func(gs *state.GameState) { gs.RoundFirstPlayer = pid })
	}
	return gs.PushEffects(effects.TurnEndEffect{PID: pid}), nil
}
