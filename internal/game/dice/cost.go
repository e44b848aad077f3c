package dice

import "sort"

// BasicallySatisfy computes which dice of holding pay for requirement.
//
// Pure minimums are paid from their own faces with any shortfall covered by
// Omni dice. The Omni (same-type) bucket is paid from the scarcest single
// bucket that can cover it, pure faces winning ties against Omni; when no
// single bucket suffices, the most abundant pure face is topped up with Omni.
// The Any bucket drains the most abundant pure faces first and Omni last.
//
// The returned assignment is always a sub-multiset of holding. ok is false
// when holding cannot cover requirement; nothing is partially committed.
func BasicallySatisfy(requirement AbstractDice, holding ActualDice) (ActualDice, bool) {
	if requirement.Num() > holding.Num() {
		return ActualDice{}, false
	}

	remaining := holding
	var paid ActualDice
	take := func(e Element, n int) {
		remaining.c[e] -= n
		paid.c[e] += n
	}

	// Pure minimums; the shortfall is deferred to Omni and reserved before
	// anything else may spend Omni.
	deferred := 0
	for _, e := range PureElements {
		need := requirement.c[e]
		if need == 0 {
			continue
		}
		have := min(need, remaining.c[e])
		take(e, have)
		deferred += need - have
	}
	if deferred > remaining.c[Omni] {
		return ActualDice{}, false
	}
	take(Omni, deferred)

	if need := requirement.c[Omni]; need > 0 {
		face, ok := sameTypeBucket(remaining, need)
		if !ok {
			return ActualDice{}, false
		}
		if face == Omni {
			take(Omni, need)
		} else {
			fromFace := min(need, remaining.c[face])
			take(face, fromFace)
			take(Omni, need-fromFace)
		}
	}

	if need := requirement.c[Any]; need > 0 {
		for _, e := range byAbundance(remaining) {
			if need == 0 {
				break
			}
			n := min(need, remaining.c[e])
			take(e, n)
			need -= n
		}
		if need > 0 {
			n := min(need, remaining.c[Omni])
			take(Omni, n)
			need -= n
		}
		if need > 0 {
			return ActualDice{}, false
		}
	}

	return paid, true
}

// sameTypeBucket picks the face paying an Omni bucket of size need.
func sameTypeBucket(remaining ActualDice, need int) (Element, bool) {
	best, bestCount := Element(-1), 0
	for _, e := range append(append([]Element{}, PureElements...), Omni) {
		n := remaining.c[e]
		if n >= need && (best < 0 || n < bestCount) {
			best, bestCount = e, n
		}
	}
	if best >= 0 {
		return best, true
	}

	// No single bucket: the largest pure face needs the fewest Omni top-ups.
	best, bestCount = Element(-1), 0
	for _, e := range PureElements {
		n := remaining.c[e]
		if n > bestCount {
			best, bestCount = e, n
		}
	}
	if best < 0 || bestCount+remaining.c[Omni] < need {
		return 0, false
	}
	return best, true
}

// byAbundance returns the pure faces of d with a positive count, most
// abundant first; equal counts keep face order.
func byAbundance(d ActualDice) []Element {
	faces := make([]Element, 0, len(PureElements))
	for _, e := range PureElements {
		if d.c[e] > 0 {
			faces = append(faces, e)
		}
	}
	sort.SliceStable(faces, func(i, j int) bool {
		return d.c[faces[i]] > d.c[faces[j]]
	})
	return faces
}

// LooselySatisfy reports whether holding can pay requirement.
func LooselySatisfy(requirement AbstractDice, holding ActualDice) bool {
	_, ok := BasicallySatisfy(requirement, holding)
	return ok
}

// JustSatisfy reports whether payment pays requirement exactly, with no
// surplus dice.
func JustSatisfy(requirement AbstractDice, payment ActualDice) bool {
	if payment.Num() != requirement.Num() || !payment.IsLegal() {
		return false
	}
	return LooselySatisfy(requirement, payment)
}
