package repository

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/elemduel/duel-server-go/internal/game"
)

const replayExt = ".replay"

// ErrInvalidGameID is returned for game ids that cannot name a file inside
// the replay directory.
var ErrInvalidGameID = errors.New("invalid game id")

// FileStore keeps one file per replay in a directory.
type FileStore struct {
	dir string
}

// NewFileStore creates dir if needed and stores replays in it.
func NewFileStore(dir string) (*FileStore, error) {
	if strings.TrimSpace(dir) == "" {
		return nil, errors.New("replay directory is required")
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("failed to create directory: %w", err)
	}
	return &FileStore{dir: dir}, nil
}

func (s *FileStore) path(gameID string) (string, error) {
	if gameID == "" || gameID == "." || gameID == ".." ||
		strings.ContainsAny(gameID, `/\`) || filepath.Base(gameID) != gameID {
		return "", fmt.Errorf("%q: %w", gameID, ErrInvalidGameID)
	}
	return filepath.Join(s.dir, gameID+replayExt), nil
}

// Save writes the replay, replacing any earlier file for the same game.
func (s *FileStore) Save(_ context.Context, r *game.Replay) error {
	target, err := s.path(r.GameID)
	if err != nil {
		return err
	}
	tmp, err := os.CreateTemp(s.dir, "."+r.GameID+"-*")
	if err != nil {
		return fmt.Errorf("failed to create file: %w", err)
	}
	defer os.Remove(tmp.Name())

	if err := r.Encode(tmp); err != nil {
		tmp.Close()
		return err
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("failed to close file: %w", err)
	}
	return os.Rename(tmp.Name(), target)
}

// Load reads the replay of gameID.
func (s *FileStore) Load(_ context.Context, gameID string) (*game.Replay, error) {
	name, err := s.path(gameID)
	if err != nil {
		return nil, err
	}
	file, err := os.Open(name)
	if errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("game %s: %w", gameID, game.ErrReplayNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to open file: %w", err)
	}
	defer file.Close()

	return game.DecodeReplay(file)
}

// List decodes every replay in the directory, ordered by game id.
func (s *FileStore) List(ctx context.Context) ([]ReplayInfo, error) {
	entries, err := os.ReadDir(s.dir)
	if err != nil {
		return nil, fmt.Errorf("failed to read directory: %w", err)
	}
	var out []ReplayInfo
	for _, e := range entries {
		if e.IsDir() || !strings.HasSuffix(e.Name(), replayExt) {
			continue
		}
		gameID := strings.TrimSuffix(e.Name(), replayExt)
		r, err := s.Load(ctx, gameID)
		if err != nil {
			return nil, err
		}
		fi, err := e.Info()
		if err != nil {
			return nil, err
		}
		out = append(out, infoOf(r, fi.ModTime()))
	}
	sort.Slice(out, func(i, j int) bool { return out[i].GameID < out[j].GameID })
	return out, nil
}

// Close is a no-op.
func (s *FileStore) Close() error { return nil }
