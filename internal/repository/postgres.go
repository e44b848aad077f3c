package repository

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/elemduel/duel-server-go/internal/game"
)

const postgresSchema = `
CREATE TABLE IF NOT EXISTS replays (
	game_id     TEXT PRIMARY KEY,
	outcome     TEXT NOT NULL,
	rounds      INTEGER NOT NULL,
	state_count INTEGER NOT NULL,
	saved_at    TIMESTAMPTZ NOT NULL,
	payload     BYTEA NOT NULL
)`

// PostgresStore keeps replays in PostgreSQL.
type PostgresStore struct {
	pool *pgxpool.Pool
}

// OpenPostgres connects to dsn and creates the schema if needed.
func OpenPostgres(ctx context.Context, dsn string) (*PostgresStore, error) {
	if strings.TrimSpace(dsn) == "" {
		return nil, errors.New("postgres dsn is required")
	}
	pool, err := pgxpool.New(ctx, dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}
	if _, err := pool.Exec(ctx, postgresSchema); err != nil {
		pool.Close()
		return nil, fmt.Errorf("create schema: %w", err)
	}
	return &PostgresStore{pool: pool}, nil
}

// Save upserts the replay.
func (s *PostgresStore) Save(ctx context.Context, r *game.Replay) error {
	payload, err := encode(r)
	if err != nil {
		return err
	}
	info := infoOf(r, time.Now().UTC())
	_, err = s.pool.Exec(ctx,
		`INSERT INTO replays (game_id, outcome, rounds, state_count, saved_at, payload)
		 VALUES ($1, $2, $3, $4, $5, $6)
		 ON CONFLICT (game_id) DO UPDATE SET
			outcome = EXCLUDED.outcome,
			rounds = EXCLUDED.rounds,
			state_count = EXCLUDED.state_count,
			saved_at = EXCLUDED.saved_at,
			payload = EXCLUDED.payload`,
		info.GameID, info.Outcome, info.Rounds, info.States, info.SavedAt, payload,
	)
	if err != nil {
		return fmt.Errorf("save replay: %w", err)
	}
	return nil
}

// Load reads the replay of gameID.
func (s *PostgresStore) Load(ctx context.Context, gameID string) (*game.Replay, error) {
	var payload []byte
	err := s.pool.QueryRow(ctx,
		`SELECT payload FROM replays WHERE game_id = $1`, gameID,
	).Scan(&payload)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, fmt.Errorf("game %s: %w", gameID, game.ErrReplayNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("load replay: %w", err)
	}
	return game.DecodeReplay(bytes.NewReader(payload))
}

// List returns stored replays ordered by game id.
func (s *PostgresStore) List(ctx context.Context) ([]ReplayInfo, error) {
	rows, err := s.pool.Query(ctx,
		`SELECT game_id, outcome, rounds, state_count, saved_at FROM replays ORDER BY game_id`)
	if err != nil {
		return nil, fmt.Errorf("list replays: %w", err)
	}
	defer rows.Close()

	var out []ReplayInfo
	for rows.Next() {
		var info ReplayInfo
		if err := rows.Scan(&info.GameID, &info.Outcome, &info.Rounds, &info.States, &info.SavedAt); err != nil {
			return nil, fmt.Errorf("scan replay: %w", err)
		}
		out = append(out, info)
	}
	return out, rows.Err()
}

// Close releases the pool.
func (s *PostgresStore) Close() error {
	if s != nil && s.pool != nil {
		s.pool.Close()
	}
	return nil
}
