package dice

import (
	"errors"
	"fmt"
	"strings"

	"github.com/elemduel/duel-server-go/internal/game/element"
)

// Element is a die face or a cost bucket.
//
// Omni is the wildcard face of a real die. In an AbstractDice it is the
// "N of one type, caller's choice" bucket, and Any is the "N of anything"
// bucket. Any never appears on a real die.
type Element int

const (
	Omni Element = iota
	Cryo
	Hydro
	Pyro
	Electro
	Dendro
	Anemo
	Geo
	Any

	faceCount = int(Any) + 1
)

// PureElements lists the seven elemental faces in their fixed order.
var PureElements = []Element{Cryo, Hydro, Pyro, Electro, Dendro, Anemo, Geo}

// Faces lists every face a rolled die can show.
var Faces = []Element{Omni, Cryo, Hydro, Pyro, Electro, Dendro, Anemo, Geo}

var elementNames = [faceCount]string{
	Omni:    "OMNI",
	Cryo:    "CRYO",
	Hydro:   "HYDRO",
	Pyro:    "PYRO",
	Electro: "ELECTRO",
	Dendro:  "DENDRO",
	Anemo:   "ANEMO",
	Geo:     "GEO",
	Any:     "ANY",
}

func (e Element) String() string {
	if e >= 0 && int(e) < faceCount {
		return elementNames[e]
	}
	return fmt.Sprintf("DICE_%d", int(e))
}

// IsPure reports whether e is one of the seven elemental faces.
func (e Element) IsPure() bool {
	return e >= Cryo && e <= Geo
}

// FaceFor maps a character/damage element to its die face.
// Elements without a face (physical, piercing) map to Omni with ok=false.
func FaceFor(e element.Element) (Element, bool) {
	switch e {
	case element.Cryo:
		return Cryo, true
	case element.Hydro:
		return Hydro, true
	case element.Pyro:
		return Pyro, true
	case element.Electro:
		return Electro, true
	case element.Dendro:
		return Dendro, true
	case element.Anemo:
		return Anemo, true
	case element.Geo:
		return Geo, true
	default:
		return Omni, false
	}
}

// ErrNegativeDice is returned when a subtraction would leave a face below zero.
var ErrNegativeDice = errors.New("dice count would become negative")

type counts [faceCount]int

func (c counts) num() int {
	total := 0
	for _, n := range c {
		total += n
	}
	return total
}

func (c counts) format() string {
	parts := make([]string, 0, faceCount)
	for i, n := range c {
		if n > 0 {
			parts = append(parts, fmt.Sprintf("%s:%d", Element(i), n))
		}
	}
	return "{" + strings.Join(parts, ", ") + "}"
}

// ActualDice is a concrete holding of dice. The zero value is empty.
// ActualDice is a value type; operations never modify the receiver.
type ActualDice struct {
	c counts
}

// NewActualDice builds a holding from a face -> count map.
func NewActualDice(m map[Element]int) ActualDice {
	var d ActualDice
	for e, n := range m {
		if e >= 0 && int(e) < faceCount {
			d.c[e] += n
		}
	}
	return d
}

// Get returns the number of dice showing e.
func (d ActualDice) Get(e Element) int {
	if e < 0 || int(e) >= faceCount {
		return 0
	}
	return d.c[e]
}

// Num returns the total number of dice.
func (d ActualDice) Num() int { return d.c.num() }

// IsEmpty reports whether no dice are held.
func (d ActualDice) IsEmpty() bool { return d.Num() == 0 }

// With returns a copy with face e set to n.
func (d ActualDice) With(e Element, n int) ActualDice {
	d.c[e] = n
	return d
}

// Add returns the sum of both holdings.
func (d ActualDice) Add(other ActualDice) ActualDice {
	for i := range d.c {
		d.c[i] += other.c[i]
	}
	return d
}

// Sub removes other from d, failing if any face would go negative.
func (d ActualDice) Sub(other ActualDice) (ActualDice, error) {
	for i := range d.c {
		d.c[i] -= other.c[i]
		if d.c[i] < 0 {
			return ActualDice{}, fmt.Errorf("%w: %s", ErrNegativeDice, Element(i))
		}
	}
	return d, nil
}

// Contains reports whether other is a sub-multiset of d.
func (d ActualDice) Contains(other ActualDice) bool {
	for i := range d.c {
		if other.c[i] > d.c[i] {
			return false
		}
	}
	return true
}

// IsLegal reports whether every count is non-negative and no die shows Any.
func (d ActualDice) IsLegal() bool {
	for _, n := range d.c {
		if n < 0 {
			return false
		}
	}
	return d.c[Any] == 0
}

// Elems returns the faces with a positive count in fixed face order.
func (d ActualDice) Elems() []Element {
	out := make([]Element, 0, faceCount)
	for _, e := range Faces {
		if d.c[e] > 0 {
			out = append(out, e)
		}
	}
	return out
}

// Map returns the holding as a face -> count map without zero entries.
func (d ActualDice) Map() map[Element]int {
	out := make(map[Element]int)
	for i, n := range d.c {
		if n != 0 {
			out[Element(i)] = n
		}
	}
	return out
}

func (d ActualDice) String() string { return d.c.format() }

// AbstractDice is a cost requirement.
type AbstractDice struct {
	c counts
}

// NewAbstractDice builds a requirement from a bucket -> count map.
func NewAbstractDice(m map[Element]int) AbstractDice {
	var d AbstractDice
	for e, n := range m {
		if e >= 0 && int(e) < faceCount && n > 0 {
			d.c[e] += n
		}
	}
	return d
}

// Get returns the requirement of bucket e.
func (d AbstractDice) Get(e Element) int {
	if e < 0 || int(e) >= faceCount {
		return 0
	}
	return d.c[e]
}

// Num returns the total number of dice required.
func (d AbstractDice) Num() int { return d.c.num() }

// IsEmpty reports whether nothing is required.
func (d AbstractDice) IsEmpty() bool { return d.Num() == 0 }

// Add returns the combined requirement.
func (d AbstractDice) Add(other AbstractDice) AbstractDice {
	for i := range d.c {
		d.c[i] += other.c[i]
	}
	return d
}

// Reduce lowers bucket e by n, flooring at zero.
func (d AbstractDice) Reduce(e Element, n int) AbstractDice {
	d.c[e] -= n
	if d.c[e] < 0 {
		d.c[e] = 0
	}
	return d
}

// ReduceAny applies an unspecific discount of n dice: Any first, then the
// Omni bucket, then pure buckets in face order.
func (d AbstractDice) ReduceAny(n int) AbstractDice {
	order := append([]Element{Any, Omni}, PureElements...)
	for _, e := range order {
		if n <= 0 {
			break
		}
		take := min(n, d.c[e])
		d.c[e] -= take
		n -= take
	}
	return d
}

func (d AbstractDice) String() string { return d.c.format() }
