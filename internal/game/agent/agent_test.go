package agent

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"

	"github.com/elemduel/duel-server-go/internal/game/action"
	"github.com/elemduel/duel-server-go/internal/game/content"
	"github.com/elemduel/duel-server-go/internal/game/dice"
	"github.com/elemduel/duel-server-go/internal/game/effects"
	"github.com/elemduel/duel-server-go/internal/game/phase"
	"github.com/elemduel/duel-server-go/internal/game/state"
)

func newPlayer() *state.PlayerState {
	return state.NewPlayerState(content.StarterTeam(), content.StarterDeck(12))
}

// actionState puts P1 on turn in round one with holding and a hand of
// every catalog card.
func actionState(t *testing.T, holding dice.ActualDice) *state.GameState {
	t.Helper()
	gs := state.NewGameState(state.DefaultMode(), 3, newPlayer(), newPlayer())
	for _, pid := range []state.PID{state.P1, state.P2} {
		chars, err := gs.Player(pid).Characters.WithActive(1)
		require.NoError(t, err)
		gs = gs.UpdatePlayer(pid, func(p *state.PlayerState) { p.Characters = chars })
	}
	var hand []state.Card
	for _, name := range content.CardNames() {
		c, err := content.NewCard(name)
		require.NoError(t, err)
		hand = append(hand, c)
	}
	gs = gs.UpdatePlayer(state.P1, func(p *state.PlayerState) {
		p.Act = state.ActAction
		p.Dice = holding
		p.Hand = hand
	})
	return gs.With(func(gs *state.GameState) {
		gs.Round = 1
		gs.Phase = state.PhaseAction
	})
}

func kinds(actions []action.Action) map[action.Kind]int {
	out := make(map[action.Kind]int)
	for _, a := range actions {
		out[a.Kind()]++
	}
	return out
}

func TestLegalActionsAreAccepted(t *testing.T) {
	holding := dice.NewActualDice(map[dice.Element]int{dice.Pyro: 3, dice.Hydro: 2, dice.Omni: 1})
	gs := actionState(t, holding)

	legal := LegalActions(gs, state.P1)
	require.NotEmpty(t, legal)
	counts := kinds(legal)
	assert.Equal(t, 2, counts[action.KindSkill], "burst needs energy")
	assert.Equal(t, 2, counts[action.KindSwap])
	assert.Equal(t, 1, counts[action.KindEndRound])
	assert.Positive(t, counts[action.KindCard])
	assert.Positive(t, counts[action.KindElementalTuning])

	for _, a := range legal {
		_, err := phase.Action{}.StepAction(gs, state.P1, a)
		assert.NoError(t, err, a.String())
	}
}

func TestLegalActionsPayExactly(t *testing.T) {
	holding := dice.NewActualDice(map[dice.Element]int{dice.Pyro: 3, dice.Hydro: 2})
	gs := actionState(t, holding)

	for _, a := range LegalActions(gs, state.P1) {
		skill, ok := a.(action.SkillAction)
		if !ok {
			continue
		}
		switch skill.Skill {
		case state.NormalAttack:
			assert.Equal(t, dice.NewActualDice(map[dice.Element]int{dice.Pyro: 1, dice.Hydro: 2}), skill.Payment)
		case state.ElementalSkill:
			assert.Equal(t, dice.NewActualDice(map[dice.Element]int{dice.Pyro: 3}), skill.Payment)
		}
	}
}

func TestLegalActionsOnlyForAwaitedPlayer(t *testing.T) {
	gs := actionState(t, dice.NewActualDice(map[dice.Element]int{dice.Omni: 8}))
	assert.Empty(t, LegalActions(gs, state.P2))
}

func TestLegalActionsDuringDeathSwap(t *testing.T) {
	gs := actionState(t, dice.ActualDice{})
	gs = gs.PushEffects(effects.DeathSwapPhaseStartEffect{PID: state.P1})

	legal := LegalActions(gs, state.P1)
	assert.Equal(t, []action.Action{
		action.DeathSwapAction{Char: 2},
		action.DeathSwapAction{Char: 3},
	}, legal)
}

func TestLegalActionsInRoll(t *testing.T) {
	gs := state.NewGameState(state.DefaultMode(), 3, newPlayer(), newPlayer())
	gs = gs.UpdatePlayer(state.P1, func(p *state.PlayerState) {
		p.Act = state.ActAction
		p.RerollChances = 1
		p.Dice = dice.NewActualDice(map[dice.Element]int{dice.Geo: 2, dice.Pyro: 1, dice.Omni: 1})
	}).WithPhase(state.PhaseRoll)

	legal := LegalActions(gs, state.P1)
	require.Len(t, legal, 2)
	assert.Equal(t, action.DiceSelectAction{}, legal[0])
	assert.Equal(t, action.DiceSelectAction{Selected: dice.NewActualDice(map[dice.Element]int{dice.Geo: 2})}, legal[1])
}

func TestRandomAgentIsDeterministic(t *testing.T) {
	gs := actionState(t, dice.NewActualDice(map[dice.Element]int{dice.Omni: 8}))
	a := NewRandomAgent(11, zaptest.NewLogger(t))
	b := NewRandomAgent(11, zaptest.NewLogger(t))

	for i := 0; i < 20; i++ {
		x, err := a.ChooseAction(context.Background(), gs, state.P1)
		require.NoError(t, err)
		y, err := b.ChooseAction(context.Background(), gs, state.P1)
		require.NoError(t, err)
		assert.Equal(t, x, y)
	}
}

func TestRandomAgentWithNothingToDo(t *testing.T) {
	gs := actionState(t, dice.ActualDice{})
	_, err := NewRandomAgent(1, nil).ChooseAction(context.Background(), gs, state.P2)
	assert.ErrorIs(t, err, ErrNoLegalActions)
}

func TestScripted(t *testing.T) {
	s := NewScripted(action.EndRoundAction{}, action.CharacterSelectAction{Char: 2})
	ctx := context.Background()

	a, err := s.ChooseAction(ctx, nil, state.P1)
	require.NoError(t, err)
	assert.Equal(t, action.EndRoundAction{}, a)
	assert.Equal(t, 1, s.Remaining())

	a, err = s.ChooseAction(ctx, nil, state.P1)
	require.NoError(t, err)
	assert.Equal(t, action.CharacterSelectAction{Char: 2}, a)

	_, err = s.ChooseAction(ctx, nil, state.P1)
	assert.ErrorIs(t, err, ErrScriptExhausted)
}
