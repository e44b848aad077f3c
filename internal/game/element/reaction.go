package element

import "fmt"

// Reaction is the result of two elements meeting.
type Reaction int

const (
	Melt Reaction = iota + 1
	Vaporize
	Overloaded
	Superconduct
	ElectroCharged
	Frozen
	Swirl
	Crystallize
	Burning
	Bloom
	Quicken
)

var reactionNames = map[Reaction]string{
	Melt:           "MELT",
	Vaporize:       "VAPORIZE",
	Overloaded:     "OVERLOADED",
	Superconduct:   "SUPERCONDUCT",
	ElectroCharged: "ELECTRO_CHARGED",
	Frozen:         "FROZEN",
	Swirl:          "SWIRL",
	Crystallize:    "CRYSTALLIZE",
	Burning:        "BURNING",
	Bloom:          "BLOOM",
	Quicken:        "QUICKEN",
}

func (r Reaction) String() string {
	if name, ok := reactionNames[r]; ok {
		return name
	}
	return fmt.Sprintf("REACTION_%d", int(r))
}

// catalysts are the elements swirl and crystallize react with.
var catalysts = []Element{Cryo, Hydro, Pyro, Electro}

type reactionEntry struct {
	reaction Reaction
	first    []Element
	second   []Element
	boost    int
}

// reactionTable is matched in order; a pair of elements matches an entry
// when one side is in first and the other in second.
var reactionTable = []reactionEntry{
	{Melt, []Element{Pyro}, []Element{Cryo}, 2},
	{Vaporize, []Element{Pyro}, []Element{Hydro}, 1},
	{Overloaded, []Element{Pyro}, []Element{Electro}, 2},
	{Superconduct, []Element{Cryo}, []Element{Electro}, 1},
	{ElectroCharged, []Element{Hydro}, []Element{Electro}, 1},
	{Frozen, []Element{Cryo}, []Element{Hydro}, 1},
	{Swirl, []Element{Anemo}, catalysts, 0},
	{Crystallize, []Element{Geo}, catalysts, 1},
	{Burning, []Element{Dendro}, []Element{Pyro}, 1},
	{Bloom, []Element{Dendro}, []Element{Hydro}, 1},
	{Quicken, []Element{Dendro}, []Element{Electro}, 1},
}

func contains(set []Element, e Element) bool {
	for _, x := range set {
		if x == e {
			return true
		}
	}
	return false
}

// DamageBoost returns the flat damage bonus of r.
func (r Reaction) DamageBoost() int {
	for _, entry := range reactionTable {
		if entry.reaction == r {
			return entry.boost
		}
	}
	return 0
}

// ConsultReaction looks up the reaction between e1 and e2, in either order.
func ConsultReaction(e1, e2 Element) (Reaction, bool) {
	for _, entry := range reactionTable {
		if (contains(entry.first, e1) && contains(entry.second, e2)) ||
			(contains(entry.first, e2) && contains(entry.second, e1)) {
			return entry.reaction, true
		}
	}
	return 0, false
}

// ReactionDetail describes one reaction triggered on a character.
type ReactionDetail struct {
	Reaction Reaction
	// AuraElement is the applied element that reacted and is consumed.
	AuraElement Element
	Incoming    Element
	Boost       int
}

// ConsultReactionWithAura scans aura in priority order and returns the first
// reaction with incoming.
func ConsultReactionWithAura(aura Aura, incoming Element) (ReactionDetail, bool) {
	for _, e := range aura.Elements() {
		if r, ok := ConsultReaction(e, incoming); ok {
			return ReactionDetail{
				Reaction:    r,
				AuraElement: e,
				Incoming:    incoming,
				Boost:       r.DamageBoost(),
			}, true
		}
	}
	return ReactionDetail{}, false
}

// Apply applies incoming to aura. At most one reaction fires; it consumes
// the reacted aura element and incoming does not stay. Without a reaction an
// aura element is simply applied.
func Apply(aura Aura, incoming Element) (Aura, *ReactionDetail) {
	if detail, ok := ConsultReactionWithAura(aura, incoming); ok {
		return aura.Remove(detail.AuraElement), &detail
	}
	return aura.Add(incoming), nil
}
