package state

import "fmt"

// Status is a status, summon or support instance attached to the game.
//
// Instances are values: hooks never modify the receiver, they return the
// updated instance, or nil once the instance should be removed.
type Status interface {
	// Name identifies the status type; a container holds one per name.
	Name() string
	// Usages is the remaining usage or duration budget.
	Usages() int
	// Update merges an incoming grant of the same type into the receiver.
	Update(incoming Status) Status
}

// Preprocessor is a status that transforms values passing through the
// preprocessing keys it listens to.
type Preprocessor interface {
	Status
	PreprocessKeys() []PreprocessKey
	Preprocess(gs *GameState, loc Location, key PreprocessKey, item Preprocessable) (Preprocessable, Status)
}

// Reactor is a status that reacts to broadcast signals by emitting effects.
type Reactor interface {
	Status
	Signals() []Signal
	React(gs *GameState, loc Location, ev SignalEvent) ([]Effect, Status)
}

// ContainerKind names one of the status containers of a player.
type ContainerKind int

const (
	ContainerHidden ContainerKind = iota
	ContainerEquipment
	ContainerCharacter
	ContainerCombat
	ContainerSummon
	ContainerSupport
)

func (k ContainerKind) String() string {
	switch k {
	case ContainerHidden:
		return "HIDDEN"
	case ContainerEquipment:
		return "EQUIPMENT"
	case ContainerCharacter:
		return "CHARACTER"
	case ContainerCombat:
		return "COMBAT"
	case ContainerSummon:
		return "SUMMON"
	case ContainerSupport:
		return "SUPPORT"
	default:
		return fmt.Sprintf("CONTAINER_%d", int(k))
	}
}

// Location addresses a status container. Char is only set for the three
// per-character containers.
type Location struct {
	PID  PID
	Kind ContainerKind
	Char CharID
}

func (l Location) String() string {
	if l.Char != 0 {
		return fmt.Sprintf("%s/%s/%d", l.PID, l.Kind, l.Char)
	}
	return fmt.Sprintf("%s/%s", l.PID, l.Kind)
}

// Statuses is an ordered container of statuses keyed by name. Insertion
// order is kept; re-granting a present status merges through Update.
type Statuses struct {
	items []Status
}

// NewStatuses builds a container holding items in order.
func NewStatuses(items ...Status) Statuses {
	var s Statuses
	for _, st := range items {
		s = s.Add(st)
	}
	return s
}

// All returns the statuses in order.
func (s Statuses) All() []Status {
	return append([]Status(nil), s.items...)
}

// Len returns the number of statuses held.
func (s Statuses) Len() int { return len(s.items) }

func (s Statuses) index(name string) int {
	for i, st := range s.items {
		if st.Name() == name {
			return i
		}
	}
	return -1
}

// Find returns the status called name.
func (s Statuses) Find(name string) (Status, bool) {
	if i := s.index(name); i >= 0 {
		return s.items[i], true
	}
	return nil, false
}

// Contains reports whether a status called name is held.
func (s Statuses) Contains(name string) bool { return s.index(name) >= 0 }

// Add grants st: a present status of the same name is merged through its
// Update rule in place, otherwise st is appended.
func (s Statuses) Add(st Status) Statuses {
	if st == nil {
		return s
	}
	if i := s.index(st.Name()); i >= 0 {
		return s.set(i, s.items[i].Update(st))
	}
	items := make([]Status, len(s.items), len(s.items)+1)
	copy(items, s.items)
	return Statuses{items: append(items, st)}
}

// Replace swaps the status called name for st; a nil st removes it.
// Replacing an absent status is a no-op.
func (s Statuses) Replace(name string, st Status) Statuses {
	i := s.index(name)
	if i < 0 {
		return s
	}
	return s.set(i, st)
}

// Remove drops the status called name.
func (s Statuses) Remove(name string) Statuses {
	return s.Replace(name, nil)
}

func (s Statuses) set(i int, st Status) Statuses {
	items := make([]Status, 0, len(s.items))
	items = append(items, s.items[:i]...)
	if st != nil && st.Usages() > 0 {
		items = append(items, st)
	} else if st != nil && !removeAtZero(st) {
		items = append(items, st)
	}
	items = append(items, s.items[i+1:]...)
	return Statuses{items: items}
}

// Persistent marks statuses that stay at zero usages, such as equipment
// that only counts activations. The built-in statuses all expire at zero;
// content packs opt in by implementing it.
type Persistent interface {
	Persistent() bool
}

func removeAtZero(st Status) bool {
	p, ok := st.(Persistent)
	return !ok || !p.Persistent()
}
