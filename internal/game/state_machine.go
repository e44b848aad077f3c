// Package game drives a duel from setup to the end: it owns the history of
// states, asks agents for decisions and records replays.
package game

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/elemduel/duel-server-go/internal/game/action"
	"github.com/elemduel/duel-server-go/internal/game/phase"
	"github.com/elemduel/duel-server-go/internal/game/state"
)

// DefaultPatience is how many attempts an agent gets for one decision.
const DefaultPatience = 3

var (
	// ErrPatienceExhausted is returned when an agent failed to produce a
	// legal action within its attempts. The game cannot continue.
	ErrPatienceExhausted = errors.New("agent patience exhausted")
	// ErrInvariant wraps engine failures that are not player mistakes.
	ErrInvariant = errors.New("engine invariant violated")
	// ErrNoAgent is returned when a decision is due from a seat without an
	// agent.
	ErrNoAgent = errors.New("no agent for player")
)

// Agent chooses actions for one seat.
type Agent interface {
	ChooseAction(ctx context.Context, gs *state.GameState, pid state.PID) (action.Action, error)
}

// Record is one entry of the history: the state reached and, for player
// decisions, who acted and how.
type Record struct {
	State  *state.GameState
	Actor  state.PID
	Action action.Action
}

// Manual reports whether the record came from a player decision.
func (r Record) Manual() bool { return r.Action != nil }

// Option configures a StateMachine.
type Option func(*StateMachine)

// WithPatience sets the number of attempts per decision.
func WithPatience(n int) Option {
	return func(sm *StateMachine) {
		if n > 0 {
			sm.patience = n
		}
	}
}

// WithRecorder records every appended state into rec. Recording stops
// with the state that ends the game.
func WithRecorder(rec *ReplayRecorder) Option {
	return func(sm *StateMachine) { sm.recorder = rec }
}

// WithGameID overrides the generated game id.
func WithGameID(id string) Option {
	return func(sm *StateMachine) { sm.id = id }
}

// StateMachine advances a game one transition at a time. History is append
// only; every state in it stays valid after later steps.
type StateMachine struct {
	id       string
	logger   *zap.Logger
	agents   [2]Agent
	patience int
	recorder *ReplayRecorder

	mu      sync.RWMutex
	history []Record
}

// NewStateMachine starts a machine at gs with one agent per seat. Agents
// may be nil when decisions are submitted through Submit.
func NewStateMachine(gs *state.GameState, agents [2]Agent, logger *zap.Logger, opts ...Option) *StateMachine {
	if logger == nil {
		logger = zap.NewNop()
	}
	sm := &StateMachine{
		id:       uuid.New().String(),
		agents:   agents,
		patience: DefaultPatience,
		history:  []Record{{State: gs}},
	}
	for _, opt := range opts {
		opt(sm)
	}
	sm.logger = logger.With(zap.String("game_id", sm.id))
	if sm.recorder != nil {
		sm.recorder.StartRecording(sm.id)
		sm.recorder.RecordState(sm.id, NewSnapshot(sm.id, 0, sm.history[0]))
	}
	return sm
}

// ID returns the game id.
func (sm *StateMachine) ID() string { return sm.id }

// Current returns the latest state.
func (sm *StateMachine) Current() *state.GameState {
	sm.mu.RLock()
	defer sm.mu.RUnlock()
	return sm.history[len(sm.history)-1].State
}

// History returns a copy of all records so far.
func (sm *StateMachine) History() []Record {
	sm.mu.RLock()
	defer sm.mu.RUnlock()
	return append([]Record(nil), sm.history...)
}

// Len returns the number of recorded states.
func (sm *StateMachine) Len() int {
	sm.mu.RLock()
	defer sm.mu.RUnlock()
	return len(sm.history)
}

// GameEnded reports whether the latest state is terminal.
func (sm *StateMachine) GameEnded() bool {
	return sm.Current().Phase == state.PhaseGameEnd
}

// WaitingFor returns the player whose decision is due.
func (sm *StateMachine) WaitingFor() (state.PID, bool, error) {
	gs := sm.Current()
	p, err := phase.Current(gs)
	if err != nil {
		return 0, false, fmt.Errorf("%w: %w", ErrInvariant, err)
	}
	pid, ok := p.WaitingFor(gs)
	return pid, ok, nil
}

func (sm *StateMachine) append(r Record) {
	sm.mu.Lock()
	sm.history = append(sm.history, r)
	index := len(sm.history) - 1
	sm.mu.Unlock()

	if sm.recorder == nil || !sm.recorder.IsRecording(sm.id) {
		return
	}
	sm.recorder.RecordState(sm.id, NewSnapshot(sm.id, index, r))
	if r.State.Phase == state.PhaseGameEnd {
		sm.recorder.StopRecording(sm.id)
	}
}

// Step performs one transition: a phase step when nothing is awaited,
// otherwise one decision from the awaited player's agent.
func (sm *StateMachine) Step(ctx context.Context) error {
	if sm.GameEnded() {
		return phase.ErrGameOver
	}
	pid, waiting, err := sm.WaitingFor()
	if err != nil {
		return err
	}
	if waiting {
		return sm.decide(ctx, pid)
	}
	return sm.autoStep()
}

// AutoStep runs phase steps until a decision is due or the game ends.
func (sm *StateMachine) AutoStep(ctx context.Context) error {
	for !sm.GameEnded() {
		if err := ctx.Err(); err != nil {
			return err
		}
		_, waiting, err := sm.WaitingFor()
		if err != nil {
			return err
		}
		if waiting {
			return nil
		}
		if err := sm.autoStep(); err != nil {
			return err
		}
	}
	return nil
}

// OneStep settles automatic work, takes one decision, then settles again.
func (sm *StateMachine) OneStep(ctx context.Context) error {
	if err := sm.AutoStep(ctx); err != nil {
		return err
	}
	if sm.GameEnded() {
		return nil
	}
	pid, _, err := sm.WaitingFor()
	if err != nil {
		return err
	}
	if err := sm.decide(ctx, pid); err != nil {
		return err
	}
	return sm.AutoStep(ctx)
}

// RunToEnd plays until the game ends and returns the outcome.
func (sm *StateMachine) RunToEnd(ctx context.Context) (state.Outcome, error) {
	for !sm.GameEnded() {
		if err := ctx.Err(); err != nil {
			return state.OutcomeOngoing, err
		}
		if err := sm.OneStep(ctx); err != nil {
			return state.OutcomeOngoing, err
		}
	}
	gs := sm.Current()
	sm.logger.Info("game ended",
		zap.Stringer("outcome", gs.Outcome),
		zap.Int("round", gs.Round),
		zap.Int("states", sm.Len()),
	)
	return gs.Outcome, nil
}

// Submit applies act for pid without consulting an agent. A rejection is
// returned as is and leaves the history untouched.
func (sm *StateMachine) Submit(pid state.PID, act action.Action) error {
	gs := sm.Current()
	p, err := phase.Current(gs)
	if err != nil {
		return fmt.Errorf("%w: %w", ErrInvariant, err)
	}
	next, err := guard(func() (*state.GameState, error) { return p.StepAction(gs, pid, act) })
	if err != nil {
		if phase.IsRejection(err) {
			return err
		}
		return fatal(err)
	}
	sm.logger.Debug("applied action",
		zap.Stringer("player", pid),
		zap.Stringer("action", act),
		zap.Stringer("phase", gs.Phase),
	)
	sm.append(Record{State: next, Actor: pid, Action: act})
	return nil
}

// decide asks pid's agent for an action, retrying rejected or failed
// attempts up to the machine's patience.
func (sm *StateMachine) decide(ctx context.Context, pid state.PID) error {
	agent := sm.agents[pid]
	if agent == nil {
		return fmt.Errorf("%s: %w", pid, ErrNoAgent)
	}
	var last error
	for attempt := 1; attempt <= sm.patience; attempt++ {
		if err := ctx.Err(); err != nil {
			return err
		}
		act, err := agent.ChooseAction(ctx, sm.Current(), pid)
		if err == nil && act == nil {
			err = errors.New("agent returned no action")
		}
		if err != nil {
			last = err
			sm.logger.Warn("agent failed to choose",
				zap.Stringer("player", pid),
				zap.Int("attempt", attempt),
				zap.Error(err),
			)
			continue
		}
		err = sm.Submit(pid, act)
		if err == nil {
			return nil
		}
		if !phase.IsRejection(err) {
			return err
		}
		last = err
		sm.logger.Warn("action rejected",
			zap.Stringer("player", pid),
			zap.Stringer("action", act),
			zap.Int("attempt", attempt),
			zap.Error(err),
		)
	}
	return fmt.Errorf("%s after %d attempts: %w: %w", pid, sm.patience, ErrPatienceExhausted, last)
}

func (sm *StateMachine) autoStep() error {
	gs := sm.Current()
	p, err := phase.Current(gs)
	if err != nil {
		return fmt.Errorf("%w: %w", ErrInvariant, err)
	}
	next, err := guard(func() (*state.GameState, error) { return p.Step(gs) })
	if err != nil {
		return fatal(fmt.Errorf("%s step: %w", gs.Phase, err))
	}
	if next.Phase != gs.Phase {
		sm.logger.Debug("phase changed",
			zap.Stringer("from", gs.Phase),
			zap.Stringer("to", next.Phase),
			zap.Int("round", next.Round),
		)
	}
	sm.append(Record{State: next})
	return nil
}

func fatal(err error) error {
	if errors.Is(err, ErrInvariant) {
		return err
	}
	return fmt.Errorf("%w: %w", ErrInvariant, err)
}

// guard turns panics raised by broken invariants inside the core into
// errors.
func guard(fn func() (*state.GameState, error)) (gs *state.GameState, err error) {
	defer func() {
		if r := recover(); r != nil {
			gs, err = nil, fmt.Errorf("%w: %v", ErrInvariant, r)
		}
	}()
	return fn()
}
