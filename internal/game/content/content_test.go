package content

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/elemduel/duel-server-go/internal/game/dice"
	"github.com/elemduel/duel-server-go/internal/game/effects"
	"github.com/elemduel/duel-server-go/internal/game/element"
	"github.com/elemduel/duel-server-go/internal/game/state"
)

func newGame(t *testing.T) *state.GameState {
	t.Helper()
	gs := state.NewGameState(state.DefaultMode(), 5,
		state.NewPlayerState(StarterTeam(), StarterDeck(8)),
		state.NewPlayerState(StarterTeam(), StarterDeck(8)))
	for _, pid := range []state.PID{state.P1, state.P2} {
		chars, err := gs.Player(pid).Characters.WithActive(1)
		require.NoError(t, err)
		gs = gs.UpdatePlayer(pid, func(p *state.PlayerState) { p.Characters = chars })
	}
	return gs
}

func resolve(t *testing.T, gs *state.GameState, effs ...state.Effect) *state.GameState {
	t.Helper()
	gs = gs.PushEffects(effs...)
	for !gs.Stack.IsEmpty() {
		rest, e := gs.Stack.Pop()
		var err error
		gs, err = e.Execute(gs.WithStack(rest))
		require.NoError(t, err, "%T", e)
	}
	return gs
}

func TestCatalog(t *testing.T) {
	assert.Equal(t, []string{Ember, Frost, Ripple}, CharacterNames())
	assert.Equal(t, []string{DiceForge, HealingTea, StoneWall, SwiftStep}, CardNames())

	_, err := NewCharacter("Nobody")
	assert.ErrorIs(t, err, ErrUnknownCharacter)
	_, err = NewTeam(Ember, "Nobody")
	assert.ErrorIs(t, err, ErrUnknownCharacter)
	_, err = NewCard("Nothing")
	assert.ErrorIs(t, err, ErrUnknownCard)
}

func TestCharactersHaveEverySkill(t *testing.T) {
	for _, name := range CharacterNames() {
		c, err := NewCharacter(name)
		require.NoError(t, err)
		assert.True(t, c.Alive)
		assert.Equal(t, c.MaxHP, c.HP)
		for _, kind := range []state.SkillKind{state.NormalAttack, state.ElementalSkill, state.ElementalBurst} {
			skill, ok := c.Skill(kind)
			require.True(t, ok, "%s %s", name, kind)
			assert.Positive(t, skill.Cost.Num())
		}
		normal, _ := c.Skill(state.NormalAttack)
		assert.Equal(t, element.Physical, normal.Element)
	}
}

func TestTeamNumbersCharacters(t *testing.T) {
	team, err := NewTeam(Frost, Ember)
	require.NoError(t, err)
	require.Equal(t, 2, team.Len())
	c, ok := team.Get(2)
	require.True(t, ok)
	assert.Equal(t, Ember, c.Name)
}

func TestStarterDeckCycles(t *testing.T) {
	deck := StarterDeck(6)
	require.Len(t, deck, 6)
	assert.Equal(t, DiceForge, deck[0].Name())
	assert.Equal(t, SwiftStep, deck[3].Name())
	assert.Equal(t, DiceForge, deck[4].Name())
}

func TestRainVeilGrantsWard(t *testing.T) {
	gs := newGame(t)
	c, err := NewCharacter(Ripple)
	require.NoError(t, err)
	skill, _ := c.Skill(state.ElementalSkill)

	gs = resolve(t, gs, skill.Extra.Effects(gs, state.P1, 1)...)
	ward, ok := gs.Player(state.P1).CombatStatuses.Find(nameRainWard)
	require.True(t, ok)
	assert.Equal(t, 2, ward.Usages())

	gs = resolve(t, gs, effects.DamageEffect{
		SourcePID: state.P2, TargetPID: state.P1, Target: effects.TargetActive,
		Element: element.Physical, Amount: 3,
	})
	active, err := gs.ActiveCharacter(state.P1)
	require.NoError(t, err)
	assert.Equal(t, 8, active.HP)
}

func TestDelugeHealsTeam(t *testing.T) {
	gs := newGame(t)
	for _, id := range []state.CharID{1, 2} {
		var err error
		gs, err = gs.UpdateCharacter(state.P1, id, func(c *state.Character) { c.HP = 5 })
		require.NoError(t, err)
	}
	c, _ := NewCharacter(Ripple)
	burst, _ := c.Skill(state.ElementalBurst)

	gs = resolve(t, gs, burst.Extra.Effects(gs, state.P1, 2)...)
	for id, hp := range map[state.CharID]int{1: 7, 2: 7, 3: 10} {
		got, ok := gs.Character(state.P1, id)
		require.True(t, ok)
		assert.Equal(t, hp, got.HP, "character %d", id)
	}
}

func TestPyreSummonsSpirit(t *testing.T) {
	gs := newGame(t)
	c, _ := NewCharacter(Ember)
	burst, _ := c.Skill(state.ElementalBurst)

	gs = resolve(t, gs, burst.Extra.Effects(gs, state.P1, 1)...)
	spirit, ok := gs.Player(state.P1).Summons.Find(nameEmberSpirit)
	require.True(t, ok)
	assert.Equal(t, 2, spirit.Usages())
}

func TestCards(t *testing.T) {
	gs := newGame(t)

	tea, _ := NewCard(HealingTea)
	targets := tea.(state.Targeted).Targets(gs, state.P1)
	assert.Len(t, targets, 3)
	assert.False(t, tea.Valid(gs, state.P1, state.Target{PID: state.P2, Char: 1}))

	wall, _ := NewCard(StoneWall)
	assert.True(t, wall.Valid(gs, state.P1, state.Target{}))
	gs = resolve(t, gs, wall.Effects(gs, state.P1, state.Target{})...)
	assert.True(t, gs.Player(state.P1).CombatStatuses.Contains(StoneWall))

	forge, _ := NewCard(DiceForge)
	gs = resolve(t, gs, forge.Effects(gs, state.P1, state.Target{})...)
	assert.True(t, gs.Player(state.P1).Supports.Contains(DiceForge))
	gs = resolve(t, gs, effects.BroadcastSignalEffect{PID: state.P1, Signal: state.SignalRoundStart})
	assert.Equal(t, 1, gs.Player(state.P1).Dice.Get(dice.Omni))

	step, _ := NewCard(SwiftStep)
	assert.True(t, step.Cost().IsEmpty())
	assert.True(t, step.(state.CombatCard).IsCombatAction())
	gs = resolve(t, gs, step.Effects(gs, state.P1, state.Target{})...)
	gs, swap := state.Preprocess(gs, state.P1, state.PreprocessSwap, state.CostEvent{
		PID: state.P1, Kind: state.CostSwap, Char: 2,
		Cost: dice.NewAbstractDice(map[dice.Element]int{dice.Any: 1}),
	})
	assert.True(t, swap.Cost.IsEmpty())
	assert.False(t, gs.Player(state.P1).CombatStatuses.Contains(SwiftStep), "spent after one swap")
}
