// Package repository persists finished replays. Every store keeps the
// same gzip compressed gob encoding of a replay; they differ only in where
// the bytes live.
package repository

import (
	"bytes"
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/elemduel/duel-server-go/internal/config"
	"github.com/elemduel/duel-server-go/internal/game"
)

// ReplayInfo summarises a stored replay.
type ReplayInfo struct {
	GameID  string
	Outcome string
	Rounds  int
	States  int
	SavedAt time.Time
}

// Store persists replays.
type Store interface {
	game.ReplayStore
	List(ctx context.Context) ([]ReplayInfo, error)
	Close() error
}

// Open returns the store selected by cfg.
func Open(ctx context.Context, cfg config.ReplayConfig, logger *zap.Logger) (Store, error) {
	if logger == nil {
		logger = zap.NewNop()
	}
	var (
		store Store
		err   error
	)
	switch cfg.Driver {
	case config.DriverFile:
		store, err = NewFileStore(cfg.Dir)
	case config.DriverSQLite:
		store, err = OpenSQLite(ctx, cfg.DSN)
	case config.DriverPostgres:
		store, err = OpenPostgres(ctx, cfg.DSN)
	default:
		return nil, fmt.Errorf("unknown replay driver %q", cfg.Driver)
	}
	if err != nil {
		return nil, err
	}
	logger.Info("replay store opened", zap.String("driver", cfg.Driver))
	return store, nil
}

func encode(r *game.Replay) ([]byte, error) {
	var buf bytes.Buffer
	if err := r.Encode(&buf); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func infoOf(r *game.Replay, savedAt time.Time) ReplayInfo {
	info := ReplayInfo{GameID: r.GameID, States: r.Size(), SavedAt: savedAt}
	if last := r.Last(); last != nil {
		info.Outcome = last.Outcome
		info.Rounds = last.Round
	}
	return info
}
