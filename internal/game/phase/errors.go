package phase

import "errors"

// Rejections of player actions. A rejected action leaves the state as it
// was.
var (
	ErrNotWaitingFor     = errors.New("not waiting for this player")
	ErrWrongPhaseAction  = errors.New("action not allowed in this phase")
	ErrInsufficientDice  = errors.New("insufficient dice")
	ErrInvalidPayment    = errors.New("payment does not match cost")
	ErrIllegalTarget     = errors.New("illegal target")
	ErrSkillLocked       = errors.New("skills are locked")
	ErrNotEnoughEnergy   = errors.New("not enough energy")
	ErrCardNotInHand     = errors.New("card not in hand")
	ErrPendingDeathSwap  = errors.New("a death swap is pending")
	ErrGameOver          = errors.New("game is over")
	ErrNoRerollsLeft     = errors.New("no rerolls left")
	ErrIllegalDiceChoice = errors.New("selected dice are not held")
)

// Invariant violations. These indicate a bug in the engine or in content,
// never a bad player decision.
var (
	ErrUnknownPhase  = errors.New("unknown phase")
	ErrNothingToStep = errors.New("phase cannot advance without a player action")
)

var rejections = []error{
	ErrNotWaitingFor,
	ErrWrongPhaseAction,
	ErrInsufficientDice,
	ErrInvalidPayment,
	ErrIllegalTarget,
	ErrSkillLocked,
	ErrNotEnoughEnergy,
	ErrCardNotInHand,
	ErrPendingDeathSwap,
	ErrGameOver,
	ErrNoRerollsLeft,
	ErrIllegalDiceChoice,
}

// IsRejection reports whether err rejects a player action rather than
// signalling a broken invariant.
func IsRejection(err error) bool {
	for _, r := range rejections {
		if errors.Is(err, r) {
			return true
		}
	}
	return false
}
