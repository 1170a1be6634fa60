// Package history persists finished hands so past sessions can be reviewed.
// Two stores implement the same interface: an in-memory ring for offline use
// and a Postgres store for durable history.
package history

import (
	"context"
	"errors"
	"time"

	"github.com/rainhsu/pokertrainer/internal/game"
)

// ErrNotFound is returned when a hand id has no stored record.
var ErrNotFound = errors.New("hand not found")

// Summary is the list view of a stored hand.
type Summary struct {
	ID         int64            `json:"id"`
	CreatedAt  time.Time        `json:"created_at"`
	HandResult *game.HandResult `json:"hand_result"`
}

// Record is a stored hand with its full final snapshot.
type Record struct {
	ID        int64         `json:"id"`
	CreatedAt time.Time     `json:"created_at"`
	State     game.Snapshot `json:"state"`
}

// Store archives finished hands and serves them back newest first.
type Store interface {
	SaveHand(ctx context.Context, state game.Snapshot) (int64, error)
	ListHands(ctx context.Context, limit, offset int) ([]Summary, error)
	GetHand(ctx context.Context, id int64) (*Record, error)
}
