package game

import (
	"compress/gzip"
	"context"
	"encoding/gob"
	"errors"
	"fmt"
	"io"
	"sync"
	"time"

	"go.uber.org/zap"
)

const replayVersion = 1

// ErrReplayNotFound is returned when no replay is known for a game.
var ErrReplayNotFound = errors.New("replay not found")

// Replay is a recorded game: the snapshots of its history in order, with
// a cursor for playback.
type Replay struct {
	GameID       string
	States       []*Snapshot
	CurrentIndex int
	mu           sync.RWMutex
}

// NewReplay creates an empty replay.
func NewReplay(gameID string) *Replay {
	return &Replay{
		GameID: gameID,
		States: make([]*Snapshot, 0),
	}
}

// RecordState appends a snapshot.
func (r *Replay) RecordState(snapshot *Snapshot) {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.States = append(r.States, snapshot)
}

// Seek moves the cursor to index, clamped to the recorded states, and
// returns the snapshot there. An empty replay yields nil.
func (r *Replay) Seek(index int) *Snapshot {
	r.mu.Lock()
	defer r.mu.Unlock()

	return r.seek(index)
}

// Skip moves the cursor by count states, backwards when count is negative,
// and returns the snapshot it lands on. The cursor never leaves the
// recorded range.
func (r *Replay) Skip(count int) *Snapshot {
	r.mu.Lock()
	defer r.mu.Unlock()

	return r.seek(r.CurrentIndex + count)
}

func (r *Replay) seek(index int) *Snapshot {
	if len(r.States) == 0 {
		r.CurrentIndex = 0
		return nil
	}
	r.CurrentIndex = min(max(index, 0), len(r.States)-1)
	return r.States[r.CurrentIndex]
}

// Size returns the number of recorded snapshots.
func (r *Replay) Size() int {
	r.mu.RLock()
	defer r.mu.RUnlock()

	return len(r.States)
}

// At returns the snapshot at index, or nil when out of range.
func (r *Replay) At(index int) *Snapshot {
	r.mu.RLock()
	defer r.mu.RUnlock()

	if index >= 0 && index < len(r.States) {
		return r.States[index]
	}
	return nil
}

// Last returns the final snapshot, or nil for an empty replay.
func (r *Replay) Last() *Snapshot {
	r.mu.RLock()
	defer r.mu.RUnlock()

	if len(r.States) == 0 {
		return nil
	}
	return r.States[len(r.States)-1]
}

// Verify checks that snapshots are in order and untampered.
func (r *Replay) Verify() error {
	r.mu.RLock()
	defer r.mu.RUnlock()

	for i, s := range r.States {
		if s.Index != i {
			return fmt.Errorf("state %d carries index %d", i, s.Index)
		}
		if !s.VerifyChecksum() {
			return fmt.Errorf("state %d: checksum mismatch", i)
		}
	}
	return nil
}

type replayMetadata struct {
	GameID     string
	Timestamp  time.Time
	Version    int
	StateCount int
}

// Encode writes the replay as a gzip compressed gob stream.
func (r *Replay) Encode(w io.Writer) error {
	r.mu.RLock()
	defer r.mu.RUnlock()

	gzipWriter := gzip.NewWriter(w)
	encoder := gob.NewEncoder(gzipWriter)

	metadata := replayMetadata{
		GameID:     r.GameID,
		Timestamp:  time.Now().UTC(),
		Version:    replayVersion,
		StateCount: len(r.States),
	}
	if err := encoder.Encode(&metadata); err != nil {
		return fmt.Errorf("failed to encode metadata: %w", err)
	}
	for i, s := range r.States {
		if err := encoder.Encode(s); err != nil {
			return fmt.Errorf("failed to encode state %d: %w", i, err)
		}
	}
	return gzipWriter.Close()
}

// DecodeReplay reads a replay written by Encode.
func DecodeReplay(rd io.Reader) (*Replay, error) {
	gzipReader, err := gzip.NewReader(rd)
	if err != nil {
		return nil, fmt.Errorf("failed to create gzip reader: %w", err)
	}
	defer gzipReader.Close()

	decoder := gob.NewDecoder(gzipReader)

	var metadata replayMetadata
	if err := decoder.Decode(&metadata); err != nil {
		return nil, fmt.Errorf("failed to decode metadata: %w", err)
	}
	if metadata.Version != replayVersion {
		return nil, fmt.Errorf("unsupported replay version: %d", metadata.Version)
	}

	replay := NewReplay(metadata.GameID)
	for i := 0; i < metadata.StateCount; i++ {
		var s Snapshot
		if err := decoder.Decode(&s); err != nil {
			return nil, fmt.Errorf("failed to decode state %d: %w", i, err)
		}
		replay.States = append(replay.States, &s)
	}
	return replay, nil
}

// ReplayStore persists finished replays.
type ReplayStore interface {
	Save(ctx context.Context, r *Replay) error
	Load(ctx context.Context, gameID string) (*Replay, error)
}

// ReplayRecorder collects snapshots of running games and hands finished
// ones to a store.
type ReplayRecorder struct {
	logger  *zap.Logger
	store   ReplayStore
	mu      sync.RWMutex
	replays map[string]*Replay
	enabled map[string]bool
}

// NewReplayRecorder creates a recorder. store may be nil when replays are
// only kept in memory.
func NewReplayRecorder(logger *zap.Logger, store ReplayStore) *ReplayRecorder {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &ReplayRecorder{
		logger:  logger,
		store:   store,
		replays: make(map[string]*Replay),
		enabled: make(map[string]bool),
	}
}

// StartRecording begins recording a game.
func (rr *ReplayRecorder) StartRecording(gameID string) {
	rr.mu.Lock()
	defer rr.mu.Unlock()

	rr.replays[gameID] = NewReplay(gameID)
	rr.enabled[gameID] = true

	rr.logger.Info("started replay recording", zap.String("game_id", gameID))
}

// StopRecording freezes a game's replay once it is over and returns how
// many states it holds. Later RecordState calls for the game are ignored.
func (rr *ReplayRecorder) StopRecording(gameID string) int {
	rr.mu.Lock()
	replay := rr.replays[gameID]
	wasRecording := rr.enabled[gameID]
	rr.enabled[gameID] = false
	rr.mu.Unlock()

	if replay == nil || !wasRecording {
		return 0
	}
	n := replay.Size()
	rr.logger.Info("replay complete",
		zap.String("game_id", gameID),
		zap.Int("state_count", n),
	)
	return n
}

// RecordState records a snapshot if recording is enabled for its game.
func (rr *ReplayRecorder) RecordState(gameID string, snapshot *Snapshot) {
	rr.mu.RLock()
	enabled := rr.enabled[gameID]
	replay := rr.replays[gameID]
	rr.mu.RUnlock()

	if !enabled || replay == nil {
		return
	}

	replay.RecordState(snapshot)

	rr.logger.Debug("recorded replay state",
		zap.String("game_id", gameID),
		zap.Int("state_count", replay.Size()),
	)
}

// GetReplay returns the in-memory replay of a game.
func (rr *ReplayRecorder) GetReplay(gameID string) (*Replay, bool) {
	rr.mu.RLock()
	defer rr.mu.RUnlock()

	replay, exists := rr.replays[gameID]
	return replay, exists
}

// IsRecording reports whether snapshots of a game are still wanted.
func (rr *ReplayRecorder) IsRecording(gameID string) bool {
	rr.mu.RLock()
	defer rr.mu.RUnlock()

	return rr.enabled[gameID] && rr.replays[gameID] != nil
}

// SaveReplay hands a replay to the store and drops it from memory.
func (rr *ReplayRecorder) SaveReplay(ctx context.Context, gameID string) error {
	if rr.store == nil {
		return errors.New("replay recorder has no store")
	}

	rr.mu.Lock()
	replay, exists := rr.replays[gameID]
	if !exists {
		rr.mu.Unlock()
		return fmt.Errorf("game %s: %w", gameID, ErrReplayNotFound)
	}
	delete(rr.replays, gameID)
	delete(rr.enabled, gameID)
	rr.mu.Unlock()

	if err := rr.store.Save(ctx, replay); err != nil {
		return fmt.Errorf("failed to save replay: %w", err)
	}

	rr.logger.Info("saved replay",
		zap.String("game_id", gameID),
		zap.Int("state_count", replay.Size()),
	)
	return nil
}

// LoadReplay loads a replay from the store and verifies it.
func (rr *ReplayRecorder) LoadReplay(ctx context.Context, gameID string) (*Replay, error) {
	if rr.store == nil {
		return nil, errors.New("replay recorder has no store")
	}
	replay, err := rr.store.Load(ctx, gameID)
	if err != nil {
		return nil, err
	}
	if err := replay.Verify(); err != nil {
		return nil, fmt.Errorf("replay %s: %w", gameID, err)
	}

	rr.logger.Info("loaded replay",
		zap.String("game_id", gameID),
		zap.Int("state_count", replay.Size()),
	)
	return replay, nil
}

// DiscardReplay forgets an unfinished game, typically one that failed, so
// its snapshots are neither kept in memory nor saved.
func (rr *ReplayRecorder) DiscardReplay(gameID string, reason error) {
	rr.mu.Lock()
	replay, exists := rr.replays[gameID]
	delete(rr.replays, gameID)
	delete(rr.enabled, gameID)
	rr.mu.Unlock()

	if !exists {
		return
	}
	rr.logger.Warn("discarded replay",
		zap.String("game_id", gameID),
		zap.Int("state_count", replay.Size()),
		zap.Error(reason),
	)
}
