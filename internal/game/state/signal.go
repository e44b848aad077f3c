package state

import "fmt"

// Signal is a trigger point broadcast to every status on the table.
type Signal int

const (
	SignalRoundStart Signal = iota
	SignalCombatAction
	SignalPostSkill
	SignalSwapEvent
	SignalDeathEvent
	SignalRoundEnd
)

func (s Signal) String() string {
	switch s {
	case SignalRoundStart:
		return "ROUND_START"
	case SignalCombatAction:
		return "COMBAT_ACTION"
	case SignalPostSkill:
		return "POST_SKILL"
	case SignalSwapEvent:
		return "SWAP_EVENT"
	case SignalDeathEvent:
		return "DEATH_EVENT"
	case SignalRoundEnd:
		return "ROUND_END"
	default:
		return fmt.Sprintf("SIGNAL_%d", int(s))
	}
}

// SignalEvent is a signal together with the player that raised it.
type SignalEvent struct {
	Signal Signal
	PID    PID
}

// Broadcast offers sig to every listening status, pid's side first, each
// side in activity order. It returns the emitted effects in that order and
// the state holding the updated statuses.
func Broadcast(gs *GameState, pid PID, sig Signal) (*GameState, []Effect) {
	ev := SignalEvent{Signal: sig, PID: pid}
	var effects []Effect
	for _, p := range []PID{pid, pid.Other()} {
		for _, loc := range gs.StatusLocations(p) {
			for _, st := range gs.Container(loc).All() {
				r, ok := st.(Reactor)
				if !ok || !listens(r.Signals(), sig) {
					continue
				}
				emitted, updated := r.React(gs, loc, ev)
				effects = append(effects, emitted...)
				gs = gs.ReplaceStatus(loc, st.Name(), updated)
			}
		}
	}
	return gs, effects
}
