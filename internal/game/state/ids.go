package state

import "fmt"

// PID identifies one of the two players.
type PID int

const (
	P1 PID = iota
	P2
)

// Other returns the opposing player.
func (p PID) Other() PID {
	if p == P1 {
		return P2
	}
	return P1
}

func (p PID) String() string {
	switch p {
	case P1:
		return "P1"
	case P2:
		return "P2"
	default:
		return fmt.Sprintf("PID_%d", int(p))
	}
}

// Valid reports whether p names a seat.
func (p PID) Valid() bool { return p == P1 || p == P2 }

// CharID identifies a character within its team, starting at 1.
// The zero value means "no character".
type CharID int

// PhaseKind is the phase the game is in.
type PhaseKind int

const (
	PhaseCardSelect PhaseKind = iota
	PhaseStartingHandSelect
	PhaseRoll
	PhaseAction
	PhaseEnd
	PhaseGameEnd
)

var phaseNames = map[PhaseKind]string{
	PhaseCardSelect:         "CARD_SELECT",
	PhaseStartingHandSelect: "STARTING_HAND_SELECT",
	PhaseRoll:               "ROLL",
	PhaseAction:             "ACTION",
	PhaseEnd:                "END",
	PhaseGameEnd:            "GAME_END",
}

func (p PhaseKind) String() string {
	if name, ok := phaseNames[p]; ok {
		return name
	}
	return fmt.Sprintf("PHASE_%d", int(p))
}

// Act is a player's marker within the current phase.
type Act int

const (
	// ActPassiveWait means the player has nothing to do yet.
	ActPassiveWait Act = iota
	// ActAction means the player must act.
	ActAction
	// ActEnd means the player is done with the phase.
	ActEnd
)

func (a Act) String() string {
	switch a {
	case ActPassiveWait:
		return "PASSIVE_WAIT"
	case ActAction:
		return "ACTION"
	case ActEnd:
		return "END"
	default:
		return fmt.Sprintf("ACT_%d", int(a))
	}
}

// Outcome is the result of a finished game.
type Outcome int

const (
	OutcomeOngoing Outcome = iota
	OutcomeP1Wins
	OutcomeP2Wins
	OutcomeDraw
)

func (o Outcome) String() string {
	switch o {
	case OutcomeOngoing:
		return "ONGOING"
	case OutcomeP1Wins:
		return "P1_WINS"
	case OutcomeP2Wins:
		return "P2_WINS"
	case OutcomeDraw:
		return "DRAW"
	default:
		return fmt.Sprintf("OUTCOME_%d", int(o))
	}
}

// WinFor returns the outcome in which pid wins.
func WinFor(pid PID) Outcome {
	if pid == P1 {
		return OutcomeP1Wins
	}
	return OutcomeP2Wins
}
