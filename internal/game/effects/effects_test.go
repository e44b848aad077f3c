package effects

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/elemduel/duel-server-go/internal/game/dice"
	"github.com/elemduel/duel-server-go/internal/game/element"
	"github.com/elemduel/duel-server-go/internal/game/state"
)

func testTeam(t *testing.T) state.Characters {
	t.Helper()
	chars := make([]state.Character, 3)
	for i := range chars {
		chars[i] = state.Character{Name: "c", Element: element.Pyro, HP: 10, MaxHP: 10, MaxEnergy: 2, Alive: true}
	}
	team, err := state.NewCharacters(chars...).WithActive(1)
	require.NoError(t, err)
	return team
}

func newTestGame(t *testing.T) *state.GameState {
	t.Helper()
	gs := state.NewGameState(state.DefaultMode(), 42,
		state.NewPlayerState(testTeam(t), nil),
		state.NewPlayerState(testTeam(t), nil))
	return gs.With(func(gs *state.GameState) {
		gs.Round = 1
		gs.Phase = state.PhaseAction
	})
}

// resolve runs the stack until it is empty or a pause marker is on top.
func resolve(t *testing.T, gs *state.GameState, effects ...state.Effect) *state.GameState {
	t.Helper()
	gs = gs.PushEffects(effects...)
	for !gs.Stack.IsEmpty() {
		if _, paused := gs.Stack.TopPause(); paused {
			return gs
		}
		rest, e := gs.Stack.Pop()
		var err error
		gs, err = e.Execute(gs.WithStack(rest))
		require.NoError(t, err, "%T", e)
	}
	return gs
}

func char(t *testing.T, gs *state.GameState, pid state.PID, id state.CharID) state.Character {
	t.Helper()
	c, ok := gs.Character(pid, id)
	require.True(t, ok)
	return c
}

func hit(amount int, elem element.Element) DamageEffect {
	return DamageEffect{SourcePID: state.P1, SourceChar: 1, TargetPID: state.P2, Target: TargetActive, Element: elem, Amount: amount}
}

func setAura(t *testing.T, gs *state.GameState, pid state.PID, id state.CharID, aura element.Aura) *state.GameState {
	t.Helper()
	gs, err := gs.UpdateCharacter(pid, id, func(c *state.Character) { c.Aura = aura })
	require.NoError(t, err)
	return gs
}

func TestDamageWithoutAuraAppliesElement(t *testing.T) {
	gs := resolve(t, newTestGame(t), hit(2, element.Pyro))

	target := char(t, gs, state.P2, 1)
	assert.Equal(t, 8, target.HP)
	assert.Equal(t, []element.Element{element.Pyro}, target.Aura.Elements())
	assert.Equal(t, 10, char(t, gs, state.P2, 2).HP)
}

func TestDamageReactsWithAura(t *testing.T) {
	gs := setAura(t, newTestGame(t), state.P2, 1, element.NewAura(element.Cryo))
	gs = resolve(t, gs, hit(2, element.Pyro))

	target := char(t, gs, state.P2, 1)
	assert.Equal(t, 10-(2+element.Melt.DamageBoost()), target.HP)
	assert.True(t, target.Aura.Empty())
}

func TestPhysicalDamageLeavesAura(t *testing.T) {
	gs := setAura(t, newTestGame(t), state.P2, 1, element.NewAura(element.Hydro))
	gs = resolve(t, gs, hit(2, element.Physical))

	target := char(t, gs, state.P2, 1)
	assert.Equal(t, 8, target.HP)
	assert.True(t, target.Aura.Contains(element.Hydro))
}

func TestSuperconductPiercesOthers(t *testing.T) {
	gs := setAura(t, newTestGame(t), state.P2, 1, element.NewAura(element.Cryo))
	gs = resolve(t, gs, hit(1, element.Electro))

	assert.Equal(t, 8, char(t, gs, state.P2, 1).HP)
	assert.Equal(t, 9, char(t, gs, state.P2, 2).HP)
	assert.Equal(t, 9, char(t, gs, state.P2, 3).HP)
}

func TestSwirlSpreadsElement(t *testing.T) {
	gs := setAura(t, newTestGame(t), state.P2, 1, element.NewAura(element.Hydro))
	gs = setAura(t, gs, state.P2, 2, element.NewAura(element.Pyro))
	gs = resolve(t, gs, hit(1, element.Anemo))

	assert.Equal(t, 9, char(t, gs, state.P2, 1).HP)
	// Hydro on pyro vaporizes: 1 + 1.
	second := char(t, gs, state.P2, 2)
	assert.Equal(t, 8, second.HP)
	assert.True(t, second.Aura.Empty())
	third := char(t, gs, state.P2, 3)
	assert.Equal(t, 9, third.HP)
	assert.True(t, third.Aura.Contains(element.Hydro))
}

func TestOverloadedForcesSwap(t *testing.T) {
	gs := setAura(t, newTestGame(t), state.P2, 1, element.NewAura(element.Electro))
	gs = resolve(t, gs, hit(1, element.Pyro))

	assert.Equal(t, 7, char(t, gs, state.P2, 1).HP)
	assert.Equal(t, state.CharID(2), gs.Player(state.P2).Characters.Active)
}

func TestFrozenLocksAndBreaks(t *testing.T) {
	gs := setAura(t, newTestGame(t), state.P2, 1, element.NewAura(element.Hydro))
	gs = resolve(t, gs, hit(1, element.Cryo))

	target := char(t, gs, state.P2, 1)
	assert.Equal(t, 8, target.HP)
	assert.True(t, target.SkillsLocked())

	gs = resolve(t, gs, hit(1, element.Physical))
	target = char(t, gs, state.P2, 1)
	assert.Equal(t, 5, target.HP, "physical on frozen deals +2")
	assert.False(t, target.SkillsLocked())
}

func TestReactionStatusesGoToAttacker(t *testing.T) {
	tests := []struct {
		aura     element.Element
		incoming element.Element
		loc      state.ContainerKind
		name     string
	}{
		{element.Hydro, element.Geo, state.ContainerCombat, NameCrystallizeShield},
		{element.Electro, element.Dendro, state.ContainerCombat, NameCatalyzingField},
		{element.Hydro, element.Dendro, state.ContainerCombat, NameDendroCore},
		{element.Pyro, element.Dendro, state.ContainerSummon, NameBurningFlame},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			gs := setAura(t, newTestGame(t), state.P2, 1, element.NewAura(tt.aura))
			gs = resolve(t, gs, hit(1, tt.incoming))
			assert.True(t, gs.Container(state.Location{PID: state.P1, Kind: tt.loc}).Contains(tt.name))
			assert.False(t, gs.Container(state.Location{PID: state.P2, Kind: tt.loc}).Contains(tt.name))
		})
	}
}

func TestFixedShieldAbsorbsPerHit(t *testing.T) {
	loc := state.Location{PID: state.P2, Kind: state.ContainerCombat}
	gs := newTestGame(t).AddStatus(loc, NewFixedShield("Barrier", 2, 2))

	gs = resolve(t, gs, hit(1, element.Physical))
	shield, ok := gs.Container(loc).Find("Barrier")
	require.True(t, ok)
	assert.Equal(t, 1, shield.Usages())
	assert.Equal(t, 10, char(t, gs, state.P2, 1).HP, "nothing passes the first hit")

	gs = resolve(t, gs, hit(3, element.Physical))
	assert.False(t, gs.Container(loc).Contains("Barrier"))
	assert.Equal(t, 9, char(t, gs, state.P2, 1).HP, "3 minus the 2 absorbed")
}

func TestPointShieldConsumesAbsorbedAmount(t *testing.T) {
	loc := state.Location{PID: state.P2, Kind: state.ContainerCharacter, Char: 1}
	gs := newTestGame(t).AddStatus(loc, NewPointShield("Ward", 3))

	gs = resolve(t, gs, hit(2, element.Physical))
	shield, ok := gs.Container(loc).Find("Ward")
	require.True(t, ok)
	assert.Equal(t, 1, shield.Usages())
	assert.Equal(t, 10, char(t, gs, state.P2, 1).HP)

	gs = resolve(t, gs, hit(2, element.Physical))
	assert.False(t, gs.Container(loc).Contains("Ward"))
	assert.Equal(t, 9, char(t, gs, state.P2, 1).HP)
}

func TestShieldIgnoresPiercingAndOtherCharacters(t *testing.T) {
	loc := state.Location{PID: state.P2, Kind: state.ContainerCombat}
	gs := newTestGame(t).AddStatus(loc, NewPointShield("Ward", 3))

	gs = resolve(t, gs,
		DamageEffect{SourcePID: state.P1, TargetPID: state.P2, Target: TargetActive, Element: element.Piercing, Amount: 2},
		DamageEffect{SourcePID: state.P1, TargetPID: state.P2, Target: TargetSpecific, Char: 2, Element: element.Physical, Amount: 2},
	)
	assert.Equal(t, 8, char(t, gs, state.P2, 1).HP)
	assert.Equal(t, 8, char(t, gs, state.P2, 2).HP)
	shield, _ := gs.Container(loc).Find("Ward")
	assert.Equal(t, 3, shield.Usages())
}

func TestCrystallizeShieldStacksToTwo(t *testing.T) {
	s := state.NewStatuses(NewCrystallizeShield())
	for i := 0; i < 3; i++ {
		s = s.Add(NewCrystallizeShield())
	}
	got, ok := s.Find(NameCrystallizeShield)
	require.True(t, ok)
	assert.Equal(t, 2, got.Usages())
	assert.IsType(t, CrystallizeShield{}, got)
}

func TestDeathOfActivePausesForSwap(t *testing.T) {
	gs, err := newTestGame(t).UpdateCharacter(state.P2, 1, func(c *state.Character) { c.HP = 1 })
	require.NoError(t, err)

	gs = resolve(t, gs, hit(3, element.Physical), DeathCheckEffect{}, TurnEndEffect{PID: state.P1})

	dead := char(t, gs, state.P2, 1)
	assert.False(t, dead.Alive)
	assert.Equal(t, 0, dead.HP)

	marker, ok := gs.Stack.TopPause()
	require.True(t, ok)
	assert.Equal(t, state.P2, marker.PausedFor())
	assert.Equal(t, 2, gs.Stack.Len(), "turn end waits below the marker")

	_, err = marker.Execute(gs)
	assert.ErrorIs(t, err, ErrMarkerExecuted)
}

func TestDeathCheckEndsGameOnWipe(t *testing.T) {
	gs := newTestGame(t)
	for id := state.CharID(1); id <= 3; id++ {
		var err error
		gs, err = gs.UpdateCharacter(state.P2, id, func(c *state.Character) { c.HP = 1 })
		require.NoError(t, err)
	}
	gs = resolve(t, gs,
		DamageEffect{SourcePID: state.P1, TargetPID: state.P2, Target: TargetAll, Element: element.Piercing, Amount: 1},
		DeathCheckEffect{},
		TurnEndEffect{PID: state.P1},
	)
	assert.Equal(t, state.PhaseGameEnd, gs.Phase)
	assert.Equal(t, state.OutcomeP1Wins, gs.Outcome)
	assert.True(t, gs.Stack.IsEmpty())
}

func TestTurnEndHandsOverUntilBothEnd(t *testing.T) {
	gs := resolve(t, newTestGame(t), TurnEndEffect{PID: state.P1})
	assert.Equal(t, state.P2, gs.ActivePlayer)
	assert.Equal(t, state.ActAction, gs.Player(state.P2).Act)
	assert.Equal(t, state.ActPassiveWait, gs.Player(state.P1).Act)

	gs = gs.UpdatePlayer(state.P1, func(p *state.PlayerState) { p.DeclaredEnd = true })
	gs = resolve(t, gs, TurnEndEffect{PID: state.P2})
	assert.Equal(t, state.P2, gs.ActivePlayer, "opponent already ended the round")

	gs = gs.UpdatePlayer(state.P2, func(p *state.PlayerState) { p.DeclaredEnd = true })
	gs = resolve(t, gs, TurnEndEffect{PID: state.P2})
	assert.Equal(t, state.PhaseEnd, gs.Phase)
}

func TestRoundEndStopsAtRoundLimit(t *testing.T) {
	gs := newTestGame(t).With(func(gs *state.GameState) { gs.RoundFirstPlayer = state.P2 })
	gs = gs.UpdatePlayer(state.P1, func(p *state.PlayerState) {
		p.DeclaredEnd = true
		p.Dice = dice.ActualDice{}.With(dice.Omni, 3)
	})

	next := resolve(t, gs, RoundEndEffect{})
	assert.Equal(t, 2, next.Round)
	assert.Equal(t, state.PhaseRoll, next.Phase)
	assert.Equal(t, state.P2, next.ActivePlayer)
	assert.False(t, next.Player(state.P1).DeclaredEnd)
	assert.True(t, next.Player(state.P1).Dice.IsEmpty())

	last := gs.With(func(gs *state.GameState) { gs.Round = gs.Mode.MaxRounds })
	last = resolve(t, last, RoundEndEffect{})
	assert.Equal(t, state.PhaseGameEnd, last.Phase)
	assert.Equal(t, state.OutcomeDraw, last.Outcome)
}

func TestBurningFlameDamagesAtRoundEnd(t *testing.T) {
	gs := resolve(t, newTestGame(t),
		AddSummonEffect{PID: state.P1, Summon: NewBurningFlame()},
		AddSummonEffect{PID: state.P1, Summon: NewBurningFlame()},
		AddSummonEffect{PID: state.P1, Summon: NewBurningFlame()},
	)
	loc := state.Location{PID: state.P1, Kind: state.ContainerSummon}
	flame, ok := gs.Container(loc).Find(NameBurningFlame)
	require.True(t, ok)
	assert.Equal(t, 2, flame.Usages())

	gs = resolve(t, gs, BroadcastSignalEffect{PID: state.P1, Signal: state.SignalRoundEnd})
	assert.Equal(t, 9, char(t, gs, state.P2, 1).HP)
	flame, _ = gs.Container(loc).Find(NameBurningFlame)
	assert.Equal(t, 1, flame.Usages())

	gs = resolve(t, gs, BroadcastSignalEffect{PID: state.P2, Signal: state.SignalRoundEnd})
	assert.False(t, gs.Container(loc).Contains(NameBurningFlame))
}

func TestSummonZoneLimit(t *testing.T) {
	gs := newTestGame(t).With(func(gs *state.GameState) { gs.Mode.MaxSummons = 1 })
	gs = resolve(t, gs,
		AddSummonEffect{PID: state.P1, Summon: NewBurningFlame()},
		AddSummonEffect{PID: state.P1, Summon: DamageSummon{UsageCounter: UsageCounter{Count: 2}, Label: "Oz", Element: element.Electro, Damage: 1}},
	)
	assert.Equal(t, 1, gs.Player(state.P1).Summons.Len())
}

func TestDiceSupportAndLimit(t *testing.T) {
	gs := newTestGame(t).With(func(gs *state.GameState) { gs.Mode.MaxDice = 2 })
	gs = gs.AddStatus(state.Location{PID: state.P1, Kind: state.ContainerSupport},
		DiceSupport{UsageCounter: UsageCounter{Count: 2}, Label: "Paimon", Face: dice.Omni, PerRound: 3})

	gs = resolve(t, gs, BroadcastSignalEffect{PID: state.P1, Signal: state.SignalRoundStart})
	assert.Equal(t, 2, gs.Player(state.P1).Dice.Get(dice.Omni))
	support, ok := gs.Player(state.P1).Supports.Find("Paimon")
	require.True(t, ok)
	assert.Equal(t, 1, support.Usages())
}

func TestCostDiscount(t *testing.T) {
	loc := state.Location{PID: state.P1, Kind: state.ContainerCombat}
	gs := newTestGame(t).AddStatus(loc, CostDiscount{UsageCounter: UsageCounter{Count: 1}, Label: "Leave It", Key: state.PreprocessSwap, Amount: 1})
	cost := state.CostEvent{PID: state.P1, Kind: state.CostSwap, Cost: dice.NewAbstractDice(map[dice.Element]int{dice.Any: 1})}

	// The opponent's swaps are not discounted.
	_, other := state.Preprocess(gs, state.P2, state.PreprocessSwap, state.CostEvent{PID: state.P2, Cost: cost.Cost})
	assert.Equal(t, 1, other.Cost.Num())

	gs, out := state.Preprocess(gs, state.P1, state.PreprocessSwap, cost)
	assert.True(t, out.Cost.IsEmpty())
	assert.False(t, gs.Container(loc).Contains("Leave It"))
}

func TestRecoverAndEnergyAreCapped(t *testing.T) {
	gs, err := newTestGame(t).UpdateCharacter(state.P1, 1, func(c *state.Character) { c.HP = 5 })
	require.NoError(t, err)
	gs = resolve(t, gs,
		RecoverHPEffect{PID: state.P1, Char: 1, Amount: 9},
		EnergyRechargeEffect{PID: state.P1, Char: 1, Amount: 5},
	)
	c := char(t, gs, state.P1, 1)
	assert.Equal(t, 10, c.HP)
	assert.Equal(t, 2, c.Energy)

	gs = resolve(t, gs, EnergyDrainEffect{PID: state.P1, Char: 1, Amount: 3})
	assert.Equal(t, 0, char(t, gs, state.P1, 1).Energy)
}

func TestSwapRejectsDefeatedCharacter(t *testing.T) {
	gs, err := newTestGame(t).UpdateCharacter(state.P1, 2, func(c *state.Character) { c.Alive = false })
	require.NoError(t, err)
	_, err = SwapCharacterEffect{PID: state.P1, Char: 2}.Execute(gs)
	assert.Error(t, err)

	gs = resolve(t, gs, ForwardSwapCharacterEffect{PID: state.P1})
	assert.Equal(t, state.CharID(3), gs.Player(state.P1).Characters.Active)
}

func TestRemoveStatusEffects(t *testing.T) {
	charLoc := state.Location{PID: state.P2, Kind: state.ContainerCharacter, Char: 1}
	teamLoc := state.Location{PID: state.P2, Kind: state.ContainerCombat}
	gs := newTestGame(t).
		AddStatus(charLoc, NewPointShield("Ward", 3)).
		AddStatus(teamLoc, NewFixedShield("Barrier", 2, 1))

	t.Run("present", func(t *testing.T) {
		out, err := RemoveCharacterStatusEffect{PID: state.P2, Char: 1, Name: "Ward"}.Execute(gs)
		require.NoError(t, err)
		assert.False(t, out.Container(charLoc).Contains("Ward"))
		assert.True(t, out.Container(teamLoc).Contains("Barrier"))

		out, err = RemoveCombatStatusEffect{PID: state.P2, Name: "Barrier"}.Execute(out)
		require.NoError(t, err)
		assert.False(t, out.Container(teamLoc).Contains("Barrier"))

		// The source state is untouched.
		assert.True(t, gs.Container(charLoc).Contains("Ward"))
		assert.True(t, gs.Container(teamLoc).Contains("Barrier"))
	})

	t.Run("absent", func(t *testing.T) {
		for _, e := range []state.Effect{
			RemoveCharacterStatusEffect{PID: state.P2, Char: 1, Name: "Missing"},
			RemoveCharacterStatusEffect{PID: state.P1, Char: 1, Name: "Ward"},
			RemoveCombatStatusEffect{PID: state.P2, Name: "Missing"},
			RemoveCombatStatusEffect{PID: state.P1, Name: "Barrier"},
		} {
			out, err := e.Execute(gs)
			require.NoError(t, err, "%+v", e)
			assert.Same(t, gs, out, "%+v", e)
		}
	})
}
