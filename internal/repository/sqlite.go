package repository

import (
	"bytes"
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	_ "modernc.org/sqlite"

	"github.com/elemduel/duel-server-go/internal/game"
)

const sqliteSchema = `
CREATE TABLE IF NOT EXISTS replays (
	game_id     TEXT PRIMARY KEY,
	outcome     TEXT NOT NULL,
	rounds      INTEGER NOT NULL,
	state_count INTEGER NOT NULL,
	saved_at    INTEGER NOT NULL,
	payload     BLOB NOT NULL
)`

// SQLiteStore keeps replays in an embedded SQLite database.
type SQLiteStore struct {
	sqlDB *sql.DB
}

// OpenSQLite opens the database at path, creating the schema if needed.
// ":memory:" gives a private in-memory database.
func OpenSQLite(ctx context.Context, path string) (*SQLiteStore, error) {
	if strings.TrimSpace(path) == "" {
		return nil, errors.New("sqlite path is required")
	}
	dsn := path
	if path != ":memory:" {
		dsn = path + "?_pragma=journal_mode(WAL)&_pragma=busy_timeout(5000)"
	}
	sqlDB, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("open sqlite db: %w", err)
	}
	// One connection keeps an in-memory database alive and serialises
	// writers.
	sqlDB.SetMaxOpenConns(1)

	if err := sqlDB.PingContext(ctx); err != nil {
		_ = sqlDB.Close()
		return nil, fmt.Errorf("ping sqlite db: %w", err)
	}
	if _, err := sqlDB.ExecContext(ctx, sqliteSchema); err != nil {
		_ = sqlDB.Close()
		return nil, fmt.Errorf("create schema: %w", err)
	}
	return &SQLiteStore{sqlDB: sqlDB}, nil
}

// Save upserts the replay.
func (s *SQLiteStore) Save(ctx context.Context, r *game.Replay) error {
	payload, err := encode(r)
	if err != nil {
		return err
	}
	info := infoOf(r, time.Now().UTC())
	_, err = s.sqlDB.ExecContext(ctx,
		`INSERT INTO replays (game_id, outcome, rounds, state_count, saved_at, payload)
		 VALUES (?, ?, ?, ?, ?, ?)
		 ON CONFLICT(game_id) DO UPDATE SET
			outcome = excluded.outcome,
			rounds = excluded.rounds,
			state_count = excluded.state_count,
			saved_at = excluded.saved_at,
			payload = excluded.payload`,
		info.GameID, info.Outcome, info.Rounds, info.States, info.SavedAt.UnixMilli(), payload,
	)
	if err != nil {
		return fmt.Errorf("save replay: %w", err)
	}
	return nil
}

// Load reads the replay of gameID.
func (s *SQLiteStore) Load(ctx context.Context, gameID string) (*game.Replay, error) {
	var payload []byte
	err := s.sqlDB.QueryRowContext(ctx,
		`SELECT payload FROM replays WHERE game_id = ?`, gameID,
	).Scan(&payload)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("game %s: %w", gameID, game.ErrReplayNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("load replay: %w", err)
	}
	return game.DecodeReplay(bytes.NewReader(payload))
}

// List returns stored replays ordered by game id.
func (s *SQLiteStore) List(ctx context.Context) ([]ReplayInfo, error) {
	rows, err := s.sqlDB.QueryContext(ctx,
		`SELECT game_id, outcome, rounds, state_count, saved_at FROM replays ORDER BY game_id`)
	if err != nil {
		return nil, fmt.Errorf("list replays: %w", err)
	}
	defer rows.Close()

	var out []ReplayInfo
	for rows.Next() {
		var info ReplayInfo
		var savedAt int64
		if err := rows.Scan(&info.GameID, &info.Outcome, &info.Rounds, &info.States, &savedAt); err != nil {
			return nil, fmt.Errorf("scan replay: %w", err)
		}
		info.SavedAt = time.UnixMilli(savedAt).UTC()
		out = append(out, info)
	}
	return out, rows.Err()
}

// Close releases the database.
func (s *SQLiteStore) Close() error {
	if s == nil || s.sqlDB == nil {
		return nil
	}
	return s.sqlDB.Close()
}
