package phase

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/elemduel/duel-server-go/internal/game/action"
	"github.com/elemduel/duel-server-go/internal/game/dice"
	"github.com/elemduel/duel-server-go/internal/game/effects"
	"github.com/elemduel/duel-server-go/internal/game/element"
	"github.com/elemduel/duel-server-go/internal/game/state"
)

func abstract(m map[dice.Element]int) dice.AbstractDice { return dice.NewAbstractDice(m) }
func actual(m map[dice.Element]int) dice.ActualDice     { return dice.NewActualDice(m) }

func testCharacter(name string, elem element.Element) state.Character {
	return state.Character{
		Name: name, Element: elem,
		HP: 10, MaxHP: 10, MaxEnergy: 2, Alive: true,
		Skills: []state.Skill{
			{Kind: state.NormalAttack, Name: "Strike", Cost: abstract(map[dice.Element]int{dice.Omni: 3}), Damage: 2, Element: elem},
			{Kind: state.ElementalSkill, Name: "Burst Of Element", Cost: abstract(map[dice.Element]int{dice.Omni: 3}), Damage: 3, Element: elem},
			{Kind: state.ElementalBurst, Name: "Finale", Cost: abstract(map[dice.Element]int{dice.Omni: 3}), Damage: 5, Element: elem},
		},
	}
}

// healCard heals one of the player's own characters by 2 for one die.
type healCard struct{}

func (healCard) Name() string            { return "Heal" }
func (healCard) Cost() dice.AbstractDice { return abstract(map[dice.Element]int{dice.Any: 1}) }
func (healCard) Valid(gs *state.GameState, pid state.PID, target state.Target) bool {
	c, ok := gs.Character(target.PID, target.Char)
	return target.PID == pid && ok && c.Alive
}
func (healCard) Effects(_ *state.GameState, _ state.PID, target state.Target) []state.Effect {
	return []state.Effect{effects.RecoverHPEffect{PID: target.PID, Char: target.Char, Amount: 2}}
}

func testDeck(n int) []state.Card {
	deck := make([]state.Card, n)
	for i := range deck {
		deck[i] = healCard{}
	}
	return deck
}

func testPlayer(t *testing.T) *state.PlayerState {
	t.Helper()
	team := state.NewCharacters(
		testCharacter("Ember", element.Pyro),
		testCharacter("Ripple", element.Hydro),
		testCharacter("Frost", element.Cryo),
	)
	return state.NewPlayerState(team, testDeck(12))
}

// newGame returns a fresh game before card selection.
func newGame(t *testing.T) *state.GameState {
	t.Helper()
	return state.NewGameState(state.DefaultMode(), 7, testPlayer(t), testPlayer(t))
}

// actionGame returns a game in P1's turn of round one, both actives on
// character 1, P1 holding dice.
func actionGame(t *testing.T, holding dice.ActualDice) *state.GameState {
	t.Helper()
	gs := newGame(t)
	for _, pid := range []state.PID{state.P1, state.P2} {
		chars, err := gs.Player(pid).Characters.WithActive(1)
		require.NoError(t, err)
		gs = gs.UpdatePlayer(pid, func(p *state.PlayerState) { p.Characters = chars })
	}
	gs = gs.UpdatePlayer(state.P1, func(p *state.PlayerState) {
		p.Dice = holding
		p.Act = state.ActAction
		p.Hand = []state.Card{healCard{}}
	})
	return gs.With(func(gs *state.GameState) {
		gs.Round = 1
		gs.Phase = state.PhaseAction
	})
}

// drain steps the game until a player must act or the game is over.
func drain(t *testing.T, gs *state.GameState) *state.GameState {
	t.Helper()
	for i := 0; i < 10000; i++ {
		if gs.Phase == state.PhaseGameEnd {
			return gs
		}
		p, err := Current(gs)
		require.NoError(t, err)
		if _, ok := p.WaitingFor(gs); ok {
			return gs
		}
		gs, err = p.Step(gs)
		require.NoError(t, err)
	}
	t.Fatal("game did not settle")
	return nil
}

func submit(t *testing.T, gs *state.GameState, pid state.PID, act action.Action) *state.GameState {
	t.Helper()
	p, err := Current(gs)
	require.NoError(t, err)
	next, err := p.StepAction(gs, pid, act)
	require.NoError(t, err, act.String())
	return drain(t, next)
}

func character(t *testing.T, gs *state.GameState, pid state.PID, id state.CharID) state.Character {
	t.Helper()
	c, ok := gs.Character(pid, id)
	require.True(t, ok)
	return c
}

func withAura(t *testing.T, gs *state.GameState, pid state.PID, id state.CharID, aura element.Aura) *state.GameState {
	t.Helper()
	gs, err := gs.UpdateCharacter(pid, id, func(c *state.Character) { c.Aura = aura })
	require.NoError(t, err)
	return gs
}
