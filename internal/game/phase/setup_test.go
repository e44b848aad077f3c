package phase

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/elemduel/duel-server-go/internal/game/action"
	"github.com/elemduel/duel-server-go/internal/game/dice"
	"github.com/elemduel/duel-server-go/internal/game/state"
)

func TestForKnowsEveryPhase(t *testing.T) {
	for _, kind := range []state.PhaseKind{
		state.PhaseCardSelect, state.PhaseStartingHandSelect, state.PhaseRoll,
		state.PhaseAction, state.PhaseEnd, state.PhaseGameEnd,
	} {
		p, err := For(kind)
		require.NoError(t, err)
		assert.Equal(t, kind, p.Kind())
	}
	_, err := For(state.PhaseKind(42))
	assert.ErrorIs(t, err, ErrUnknownPhase)
	assert.False(t, IsRejection(err))
}

func TestSetupToFirstTurn(t *testing.T) {
	gs := drain(t, newGame(t))
	require.Equal(t, state.PhaseCardSelect, gs.Phase)
	assert.Len(t, gs.Player(state.P1).Hand, gs.Mode.InitialHand)
	assert.Len(t, gs.Player(state.P2).Deck, 12-gs.Mode.InitialHand)

	_, err := CardSelect{}.StepAction(gs, state.P2, action.CardsSelectAction{})
	assert.ErrorIs(t, err, ErrNotWaitingFor, "P1 chooses first")

	gs = submit(t, gs, state.P1, action.CardsSelectAction{Selected: []string{"Heal", "Heal"}})
	assert.Len(t, gs.Player(state.P1).Hand, gs.Mode.InitialHand)
	assert.Len(t, gs.Player(state.P1).Deck, 12-gs.Mode.InitialHand)
	gs = submit(t, gs, state.P2, action.CardsSelectAction{})

	require.Equal(t, state.PhaseStartingHandSelect, gs.Phase)
	_, err = StartingHandSelect{}.StepAction(gs, state.P1, action.CharacterSelectAction{Char: 9})
	assert.ErrorIs(t, err, ErrIllegalTarget)
	gs = submit(t, gs, state.P1, action.CharacterSelectAction{Char: 2})
	gs = submit(t, gs, state.P2, action.CharacterSelectAction{Char: 1})

	require.Equal(t, state.PhaseRoll, gs.Phase)
	assert.Equal(t, 1, gs.Round)
	assert.Equal(t, state.CharID(2), gs.Player(state.P1).Characters.Active)
	assert.Equal(t, gs.Mode.DicePerRoll, gs.Player(state.P1).Dice.Num())
	assert.Equal(t, gs.Mode.DicePerRoll, gs.Player(state.P2).Dice.Num())

	// Reroll everything once; the budget is then spent.
	held := gs.Player(state.P1).Dice
	gs = submit(t, gs, state.P1, action.DiceSelectAction{Selected: held})
	assert.Equal(t, gs.Mode.DicePerRoll, gs.Player(state.P1).Dice.Num())
	assert.Equal(t, state.ActEnd, gs.Player(state.P1).Act)

	_, err = Roll{}.StepAction(gs, state.P2, action.DiceSelectAction{Selected: dice.ActualDice{}.With(dice.Any, 1)})
	assert.ErrorIs(t, err, ErrIllegalDiceChoice)
	gs = submit(t, gs, state.P2, action.DiceSelectAction{})

	require.Equal(t, state.PhaseAction, gs.Phase)
	waiting, ok := Action{}.WaitingFor(gs)
	require.True(t, ok)
	assert.Equal(t, state.P1, waiting)
}

func TestSetupIsDeterministic(t *testing.T) {
	run := func() *state.GameState {
		gs := drain(t, newGame(t))
		gs = submit(t, gs, state.P1, action.CardsSelectAction{})
		gs = submit(t, gs, state.P2, action.CardsSelectAction{})
		gs = submit(t, gs, state.P1, action.CharacterSelectAction{Char: 1})
		return submit(t, gs, state.P2, action.CharacterSelectAction{Char: 1})
	}
	a, b := run(), run()
	assert.Equal(t, a.Seed, b.Seed)
	assert.Equal(t, a.Player(state.P1).Dice, b.Player(state.P1).Dice)
	assert.Equal(t, a.Player(state.P2).Dice, b.Player(state.P2).Dice)
}

func TestStepRefusesWhileWaiting(t *testing.T) {
	gs := actionGame(t, threePyro)
	_, err := Action{}.Step(gs)
	assert.ErrorIs(t, err, ErrNothingToStep)
	assert.False(t, IsRejection(err))
}
