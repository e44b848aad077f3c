package game

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/elemduel/duel-server-go/internal/game/action"
	"github.com/elemduel/duel-server-go/internal/game/dice"
	"github.com/elemduel/duel-server-go/internal/game/effects"
	"github.com/elemduel/duel-server-go/internal/game/state"
)

func testRecord(t *testing.T) Record {
	t.Helper()
	gs := newGameState(5)
	chars, err := gs.Player(state.P1).Characters.WithActive(2)
	require.NoError(t, err)
	gs = gs.UpdatePlayer(state.P1, func(p *state.PlayerState) {
		p.Characters = chars
		p.Dice = dice.NewActualDice(map[dice.Element]int{dice.Omni: 2, dice.Pyro: 1})
		p.Hand = p.Deck[:2]
	})
	gs = gs.PushEffects(effects.DeathCheckEffect{})
	return Record{State: gs, Actor: state.P1, Action: action.EndRoundAction{}}
}

func TestNewSnapshot(t *testing.T) {
	snap := NewSnapshot("g", 3, testRecord(t))

	assert.Equal(t, "g", snap.GameID)
	assert.Equal(t, 3, snap.Index)
	assert.Equal(t, "CARD_SELECT", snap.Phase)
	assert.Equal(t, "P1", snap.Actor)
	assert.Equal(t, "END_ROUND", snap.Action)
	require.Len(t, snap.Players, 2)

	p1 := snap.Players[0]
	assert.Equal(t, 2, p1.Active)
	assert.Len(t, p1.Characters, 3)
	assert.Equal(t, []DieCount{{Face: "OMNI", Count: 2}, {Face: "PYRO", Count: 1}}, p1.Dice)
	assert.Len(t, p1.Hand, 2)
	assert.Equal(t, 30, p1.DeckSize)
	assert.Equal(t, []string{"effects.DeathCheckEffect"}, snap.Stack)
	assert.True(t, snap.VerifyChecksum())
}

func TestChecksumIsDeterministic(t *testing.T) {
	r := testRecord(t)
	first := NewSnapshot("g", 0, r).Checksum
	for i := 0; i < 10; i++ {
		assert.Equal(t, first, NewSnapshot("g", 0, r).Checksum)
	}
}

func TestChecksumIgnoresTimestamp(t *testing.T) {
	a := NewSnapshot("g", 0, testRecord(t))
	b := NewSnapshot("g", 0, testRecord(t))
	b.Timestamp = a.Timestamp.Add(time.Hour)
	assert.Equal(t, a.ComputeChecksum(), b.ComputeChecksum())
}

func TestChecksumDetectsChanges(t *testing.T) {
	base := NewSnapshot("g", 0, testRecord(t))

	mutations := map[string]func(s *Snapshot){
		"round":   func(s *Snapshot) { s.Round++ },
		"hp":      func(s *Snapshot) { s.Players[1].Characters[0].HP-- },
		"dice":    func(s *Snapshot) { s.Players[0].Dice[0].Count++ },
		"hand":    func(s *Snapshot) { s.Players[0].Hand = s.Players[0].Hand[:1] },
		"stack":   func(s *Snapshot) { s.Stack = nil },
		"action":  func(s *Snapshot) { s.Action = "" },
		"seed":    func(s *Snapshot) { s.Seed++ },
		"summons": func(s *Snapshot) { s.Players[1].Summons = []StatusSnapshot{{Name: "x", Usages: 1}} },
	}
	for name, mutate := range mutations {
		t.Run(name, func(t *testing.T) {
			s := NewSnapshot("g", 0, testRecord(t))
			mutate(s)
			assert.NotEqual(t, base.Checksum, s.ComputeChecksum())
			assert.False(t, s.VerifyChecksum())
		})
	}
}
