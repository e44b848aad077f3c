package game

import (
	"bytes"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"strings"
	"time"

	"github.com/elemduel/duel-server-go/internal/game/dice"
	"github.com/elemduel/duel-server-go/internal/game/state"
)

// Snapshot is a plain-data view of one recorded state. It holds no
// interfaces so it can be gob encoded and stored outside the engine.
type Snapshot struct {
	GameID           string
	Index            int
	Timestamp        time.Time
	Round            int
	Phase            string
	ActivePlayer     string
	RoundFirstPlayer string
	Outcome          string
	Seed             int64
	Actor            string
	Action           string
	Players          []PlayerSnapshot
	Stack            []string
	Checksum         string
}

// PlayerSnapshot is one side of a Snapshot.
type PlayerSnapshot struct {
	PID            string
	Act            string
	Active         int
	Characters     []CharacterSnapshot
	CombatStatuses []StatusSnapshot
	Summons        []StatusSnapshot
	Supports       []StatusSnapshot
	Dice           []DieCount
	Hand           []string
	DeckSize       int
	Used           int
	RerollChances  int
	RedrawChances  int
	DeclaredEnd    bool
}

// CharacterSnapshot is one character of a PlayerSnapshot.
type CharacterSnapshot struct {
	ID        int
	Name      string
	Element   string
	HP        int
	MaxHP     int
	Energy    int
	MaxEnergy int
	Alive     bool
	Aura      string
	Hidden    []StatusSnapshot
	Equipment []StatusSnapshot
	Statuses  []StatusSnapshot
}

// StatusSnapshot names a status and its remaining usages.
type StatusSnapshot struct {
	Name   string
	Usages int
}

// DieCount is the number of held dice of one face.
type DieCount struct {
	Face  string
	Count int
}

// NewSnapshot captures r as the index-th state of game gameID, stamping
// its checksum.
func NewSnapshot(gameID string, index int, r Record) *Snapshot {
	gs := r.State
	snap := &Snapshot{
		GameID:           gameID,
		Index:            index,
		Timestamp:        time.Now().UTC(),
		Round:            gs.Round,
		Phase:            gs.Phase.String(),
		ActivePlayer:     gs.ActivePlayer.String(),
		RoundFirstPlayer: gs.RoundFirstPlayer.String(),
		Outcome:          gs.Outcome.String(),
		Seed:             gs.Seed,
	}
	if r.Manual() {
		snap.Actor = r.Actor.String()
		snap.Action = r.Action.String()
	}
	for _, pid := range []state.PID{state.P1, state.P2} {
		snap.Players = append(snap.Players, playerSnapshot(pid, gs.Player(pid)))
	}
	for _, e := range gs.Stack.Effects() {
		snap.Stack = append(snap.Stack, fmt.Sprintf("%T", e))
	}
	snap.Checksum = snap.ComputeChecksum()
	return snap
}

func playerSnapshot(pid state.PID, p *state.PlayerState) PlayerSnapshot {
	ps := PlayerSnapshot{
		PID:            pid.String(),
		Act:            p.Act.String(),
		Active:         int(p.Characters.Active),
		CombatStatuses: statusSnapshots(p.CombatStatuses),
		Summons:        statusSnapshots(p.Summons),
		Supports:       statusSnapshots(p.Supports),
		DeckSize:       len(p.Deck),
		Used:           len(p.Used),
		RerollChances:  p.RerollChances,
		RedrawChances:  p.RedrawChances,
		DeclaredEnd:    p.DeclaredEnd,
	}
	for _, c := range p.Characters.All() {
		ps.Characters = append(ps.Characters, CharacterSnapshot{
			ID:        int(c.ID),
			Name:      c.Name,
			Element:   c.Element.String(),
			HP:        c.HP,
			MaxHP:     c.MaxHP,
			Energy:    c.Energy,
			MaxEnergy: c.MaxEnergy,
			Alive:     c.Alive,
			Aura:      c.Aura.String(),
			Hidden:    statusSnapshots(c.Hidden),
			Equipment: statusSnapshots(c.Equipment),
			Statuses:  statusSnapshots(c.Statuses),
		})
	}
	for _, face := range dice.Faces {
		if n := p.Dice.Get(face); n > 0 {
			ps.Dice = append(ps.Dice, DieCount{Face: face.String(), Count: n})
		}
	}
	for _, card := range p.Hand {
		ps.Hand = append(ps.Hand, card.Name())
	}
	return ps
}

func statusSnapshots(s state.Statuses) []StatusSnapshot {
	var out []StatusSnapshot
	for _, st := range s.All() {
		out = append(out, StatusSnapshot{Name: st.Name(), Usages: st.Usages()})
	}
	return out
}

// ComputeChecksum returns the SHA-256 of the snapshot's canonical text.
// The timestamp and the stored checksum are not part of it.
func (s *Snapshot) ComputeChecksum() string {
	sum := sha256.Sum256([]byte(s.canonical()))
	return hex.EncodeToString(sum[:])
}

// VerifyChecksum reports whether the stored checksum matches the content.
func (s *Snapshot) VerifyChecksum() bool {
	return s.Checksum != "" && s.Checksum == s.ComputeChecksum()
}

// canonical renders every game-relevant field in a fixed order. Hands and
// status containers keep their order since it is observable in play.
func (s *Snapshot) canonical() string {
	var buf bytes.Buffer

	fmt.Fprintf(&buf, "GAME:%s|%d|%d|%s|%s|%s|%s|%d\n",
		s.GameID, s.Index, s.Round, s.Phase,
		s.ActivePlayer, s.RoundFirstPlayer, s.Outcome, s.Seed,
	)
	fmt.Fprintf(&buf, "ACTION:%s|%s\n", s.Actor, s.Action)

	for _, p := range s.Players {
		fmt.Fprintf(&buf, "PLAYER:%s|%s|%d|%d|%d|%d|%d|%t\n",
			p.PID, p.Act, p.Active, p.DeckSize, p.Used,
			p.RerollChances, p.RedrawChances, p.DeclaredEnd,
		)
		for _, c := range p.Characters {
			fmt.Fprintf(&buf, "  CHAR:%d|%s|%s|%d/%d|%d/%d|%t|%s\n",
				c.ID, c.Name, c.Element, c.HP, c.MaxHP,
				c.Energy, c.MaxEnergy, c.Alive, c.Aura,
			)
			writeStatuses(&buf, "    HIDDEN", c.Hidden)
			writeStatuses(&buf, "    EQUIP", c.Equipment)
			writeStatuses(&buf, "    STATUS", c.Statuses)
		}
		writeStatuses(&buf, "  COMBAT", p.CombatStatuses)
		writeStatuses(&buf, "  SUMMON", p.Summons)
		writeStatuses(&buf, "  SUPPORT", p.Supports)

		dice := make([]string, len(p.Dice))
		for i, d := range p.Dice {
			dice[i] = fmt.Sprintf("%s=%d", d.Face, d.Count)
		}
		buf.WriteString("  DICE:" + strings.Join(dice, ",") + "\n")
		buf.WriteString("  HAND:" + strings.Join(p.Hand, ",") + "\n")
	}

	// Stack order is execution order, top last.
	buf.WriteString("STACK:" + strings.Join(s.Stack, ",") + "\n")
	return buf.String()
}

func writeStatuses(buf *bytes.Buffer, label string, statuses []StatusSnapshot) {
	for _, st := range statuses {
		fmt.Fprintf(buf, "%s:%s=%d\n", label, st.Name, st.Usages)
	}
}
