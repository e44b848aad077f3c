package state

import "github.com/elemduel/duel-server-go/internal/game/dice"

// PlayerState is one side of the table.
type PlayerState struct {
	Act            Act
	Characters     Characters
	CombatStatuses Statuses
	Summons        Statuses
	Supports       Statuses
	Dice           dice.ActualDice
	Hand           []Card
	Deck           []Card
	Used           []Card
	RerollChances  int
	RedrawChances  int
	// DeclaredEnd is set once the player ended the round.
	DeclaredEnd bool
}

// NewPlayerState builds a player with a team and a deck, holding nothing.
func NewPlayerState(chars Characters, deck []Card) *PlayerState {
	return &PlayerState{
		Characters: chars,
		Deck:       append([]Card(nil), deck...),
	}
}

func (p *PlayerState) clone() *PlayerState {
	c := *p
	return &c
}

// HandIndex returns the position of the first card called name in hand.
func (p *PlayerState) HandIndex(name string) int {
	for i, c := range p.Hand {
		if c.Name() == name {
			return i
		}
	}
	return -1
}

// HasCard reports whether a card called name is in hand.
func (p *PlayerState) HasCard(name string) bool { return p.HandIndex(name) >= 0 }

// RemoveFromHand returns a copy without the first card called name; the
// card is moved to the used pile.
func (p *PlayerState) RemoveFromHand(name string) (*PlayerState, bool) {
	i := p.HandIndex(name)
	if i < 0 {
		return p, false
	}
	out := p.clone()
	out.Hand = make([]Card, 0, len(p.Hand)-1)
	out.Hand = append(out.Hand, p.Hand[:i]...)
	out.Hand = append(out.Hand, p.Hand[i+1:]...)
	out.Used = append(append([]Card(nil), p.Used...), p.Hand[i])
	return out, true
}

// Draw moves up to n cards from the top of the deck into the hand. Cards
// beyond maxHand are burned to the used pile.
func (p *PlayerState) Draw(n, maxHand int) *PlayerState {
	if n > len(p.Deck) {
		n = len(p.Deck)
	}
	if n <= 0 {
		return p
	}
	out := p.clone()
	out.Hand = append([]Card(nil), p.Hand...)
	used := append([]Card(nil), p.Used...)
	for _, c := range p.Deck[:n] {
		if len(out.Hand) < maxHand {
			out.Hand = append(out.Hand, c)
		} else {
			used = append(used, c)
		}
	}
	out.Used = used
	out.Deck = append([]Card(nil), p.Deck[n:]...)
	return out
}
