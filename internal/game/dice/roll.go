package dice

import "math/rand"

// Roll rolls n dice uniformly over the eight faces.
//
// Roll is deterministic with respect to rng: the same source state always
// yields the same holding.
func Roll(rng *rand.Rand, n int) ActualDice {
	var d ActualDice
	for i := 0; i < n; i++ {
		d.c[Faces[rng.Intn(len(Faces))]]++
	}
	return d
}

// RollWithFixed rolls n dice where the dice of fixed are already decided.
// Fixed dice beyond n are ignored.
func RollWithFixed(rng *rand.Rand, n int, fixed ActualDice) ActualDice {
	var d ActualDice
	left := n
	for _, e := range Faces {
		k := min(left, fixed.c[e])
		d.c[e] += k
		left -= k
	}
	return d.Add(Roll(rng, left))
}

// Reroll replaces the selected dice of holding with freshly rolled ones.
func Reroll(rng *rand.Rand, holding, selected ActualDice) (ActualDice, error) {
	kept, err := holding.Sub(selected)
	if err != nil {
		return ActualDice{}, err
	}
	return kept.Add(Roll(rng, selected.Num())), nil
}
