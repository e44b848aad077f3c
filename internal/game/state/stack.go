package state

// Effect is one atomic state mutation waiting on the effect stack.
// Execute returns a brand-new state and may push further effects onto it.
// An error from Execute is an invariant violation, never a rule rejection.
type Effect interface {
	Execute(gs *GameState) (*GameState, error)
}

// PauseMarker is an effect that suspends automatic execution until the
// player it names supplies a decision. Reaching one on top of the stack
// hands control back to the phase.
type PauseMarker interface {
	Effect
	PausedFor() PID
}

// EffectStack is a persistent LIFO of effects; the last element runs next.
// Every operation returns a new stack and leaves the receiver untouched.
type EffectStack struct {
	effects []Effect
}

// NewEffectStack builds a stack from effects listed bottom to top.
func NewEffectStack(effects ...Effect) EffectStack {
	return EffectStack{effects: append([]Effect(nil), effects...)}
}

// sealed returns the backing slice capped at its length so the next append
// always copies instead of writing into an array shared with other stacks.
func (s EffectStack) sealed() []Effect {
	return s.effects[:len(s.effects):len(s.effects)]
}

// Push puts e on top.
func (s EffectStack) Push(e Effect) EffectStack {
	return EffectStack{effects: append(s.sealed(), e)}
}

// PushManyFL pushes effects so that effects[0] executes first.
func (s EffectStack) PushManyFL(effects []Effect) EffectStack {
	if len(effects) == 0 {
		return s
	}
	out := s.sealed()
	for i := len(effects) - 1; i >= 0; i-- {
		out = append(out, effects[i])
	}
	return EffectStack{effects: out}
}

// PushManyLF pushes effects as given, so the last one executes first.
func (s EffectStack) PushManyLF(effects []Effect) EffectStack {
	if len(effects) == 0 {
		return s
	}
	return EffectStack{effects: append(s.sealed(), effects...)}
}

// Pop removes the top effect. Popping an empty stack is a bug in the caller.
func (s EffectStack) Pop() (EffectStack, Effect) {
	if len(s.effects) == 0 {
		panic("state: pop on empty effect stack")
	}
	n := len(s.effects) - 1
	return EffectStack{effects: s.effects[:n:n]}, s.effects[n]
}

// Peek returns the top effect. Peeking an empty stack is a bug in the caller.
func (s EffectStack) Peek() Effect {
	if len(s.effects) == 0 {
		panic("state: peek on empty effect stack")
	}
	return s.effects[len(s.effects)-1]
}

// IsEmpty returns whether the stack is empty.
func (s EffectStack) IsEmpty() bool { return len(s.effects) == 0 }

// Len returns the number of pending effects.
func (s EffectStack) Len() int { return len(s.effects) }

// Effects returns a copy of the pending effects, topmost last.
func (s EffectStack) Effects() []Effect {
	return append([]Effect(nil), s.effects...)
}

// TopPause returns the pause marker on top of the stack, if any.
func (s EffectStack) TopPause() (PauseMarker, bool) {
	if s.IsEmpty() {
		return nil, false
	}
	marker, ok := s.Peek().(PauseMarker)
	return marker, ok
}
