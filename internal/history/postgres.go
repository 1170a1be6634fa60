package history

import (
	"context"
	"embed"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/charmbracelet/log"
	"github.com/coder/quartz"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/rainhsu/pokertrainer/internal/game"
)

//go:embed schema.sql
var schema embed.FS

// PGStore persists hand history in Postgres. Snapshots are stored whole as
// jsonb so the review UI replays exactly what the player saw.
type PGStore struct {
	pool   *pgxpool.Pool
	clock  quartz.Clock
	logger *log.Logger
}

// OpenPG connects a pool to the given DSN.
func OpenPG(ctx context.Context, dsn string, clock quartz.Clock, logger *log.Logger) (*PGStore, error) {
	pool, err := pgxpool.New(ctx, dsn)
	if err != nil {
		return nil, fmt.Errorf("connecting history store: %w", err)
	}
	return &PGStore{pool: pool, clock: clock, logger: logger.WithPrefix("history")}, nil
}

func (s *PGStore) Close() {
	s.pool.Close()
}

func (s *PGStore) Ping(ctx context.Context) error {
	return s.pool.Ping(ctx)
}

// Migrate applies the embedded schema.
func (s *PGStore) Migrate(ctx context.Context) error {
	sqlBytes, err := schema.ReadFile("schema.sql")
	if err != nil {
		return err
	}
	_, err = s.pool.Exec(ctx, string(sqlBytes))
	return err
}

func (s *PGStore) SaveHand(ctx context.Context, state game.Snapshot) (int64, error) {
	payload, err := json.Marshal(state)
	if err != nil {
		return 0, err
	}

	var id int64
	err = s.pool.QueryRow(ctx, `
		INSERT INTO hand_history (created_at, state)
		VALUES ($1, $2)
		RETURNING id
	`, s.clock.Now().UTC(), payload).Scan(&id)
	if err != nil {
		return 0, err
	}
	s.logger.Debug("hand archived", "id", id, "hand_id", state.HandID)
	return id, nil
}

func (s *PGStore) ListHands(ctx context.Context, limit, offset int) ([]Summary, error) {
	if limit <= 0 {
		limit = 50
	}
	if offset < 0 {
		offset = 0
	}

	rows, err := s.pool.Query(ctx, `
		SELECT id, created_at, state->'hand_result'
		  FROM hand_history
		 ORDER BY id DESC
		 LIMIT $1 OFFSET $2
	`, limit, offset)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var summaries []Summary
	for rows.Next() {
		var sum Summary
		var result []byte
		if err := rows.Scan(&sum.ID, &sum.CreatedAt, &result); err != nil {
			return nil, err
		}
		if len(result) > 0 && string(result) != "null" {
			sum.HandResult = &game.HandResult{}
			if err := json.Unmarshal(result, sum.HandResult); err != nil {
				return nil, err
			}
		}
		summaries = append(summaries, sum)
	}
	return summaries, rows.Err()
}

func (s *PGStore) GetHand(ctx context.Context, id int64) (*Record, error) {
	var rec Record
	var state []byte
	err := s.pool.QueryRow(ctx, `
		SELECT id, created_at, state FROM hand_history WHERE id = $1
	`, id).Scan(&rec.ID, &rec.CreatedAt, &state)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	if err := json.Unmarshal(state, &rec.State); err != nil {
		return nil, err
	}
	return &rec, nil
}
