// Package element models elements, the aura applied to a character and the
// fixed reaction table.
package element

import "fmt"

// Element is the element of a character, a skill or a piece of damage.
type Element int

const (
	Cryo Element = iota
	Hydro
	Pyro
	Electro
	Dendro
	Anemo
	Geo
	Physical
	Piercing
)

var elementNames = map[Element]string{
	Cryo:     "CRYO",
	Hydro:    "HYDRO",
	Pyro:     "PYRO",
	Electro:  "ELECTRO",
	Dendro:   "DENDRO",
	Anemo:    "ANEMO",
	Geo:      "GEO",
	Physical: "PHYSICAL",
	Piercing: "PIERCING",
}

func (e Element) String() string {
	if name, ok := elementNames[e]; ok {
		return name
	}
	return fmt.Sprintf("ELEMENT_%d", int(e))
}

// AuraElements is the reaction priority order of elements that can stay
// applied on a character.
var AuraElements = []Element{Cryo, Hydro, Pyro, Electro, Dendro}

// IsAura reports whether e can stay applied as an aura.
func (e Element) IsAura() bool {
	return e >= Cryo && e <= Dendro
}

// IsElemental reports whether e can take part in a reaction.
func (e Element) IsElemental() bool {
	return e >= Cryo && e <= Geo
}

// Aura is the set of elements currently applied to a character.
// The zero value has nothing applied. Aura is a value type.
type Aura struct {
	present [5]bool
}

func auraIndex(e Element) int {
	if !e.IsAura() {
		return -1
	}
	return int(e - Cryo)
}

// NewAura builds an aura with the given elements applied.
func NewAura(elems ...Element) Aura {
	var a Aura
	for _, e := range elems {
		a = a.Add(e)
	}
	return a
}

// Add applies e. Adding an element already present is a no-op, and so is
// adding an element that cannot stay as an aura.
func (a Aura) Add(e Element) Aura {
	if i := auraIndex(e); i >= 0 {
		a.present[i] = true
	}
	return a
}

// Remove clears e. Removing an element that is not applied is a bug in the
// caller.
func (a Aura) Remove(e Element) Aura {
	i := auraIndex(e)
	if i < 0 || !a.present[i] {
		panic(fmt.Sprintf("element: remove %s from aura %s", e, a))
	}
	a.present[i] = false
	return a
}

// Contains reports whether e is applied.
func (a Aura) Contains(e Element) bool {
	i := auraIndex(e)
	return i >= 0 && a.present[i]
}

// Peek returns the applied element that reacts first.
func (a Aura) Peek() (Element, bool) {
	for _, e := range AuraElements {
		if a.Contains(e) {
			return e, true
		}
	}
	return 0, false
}

// Elements returns the applied elements in priority order.
func (a Aura) Elements() []Element {
	out := make([]Element, 0, len(AuraElements))
	for _, e := range AuraElements {
		if a.Contains(e) {
			out = append(out, e)
		}
	}
	return out
}

// Empty reports whether nothing is applied.
func (a Aura) Empty() bool {
	_, ok := a.Peek()
	return !ok
}

func (a Aura) String() string {
	return fmt.Sprintf("%v", a.Elements())
}
