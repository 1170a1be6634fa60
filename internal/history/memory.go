package history

import (
	"context"
	"sync"

	"github.com/coder/quartz"

	"github.com/rainhsu/pokertrainer/internal/game"
)

// MemoryStore keeps hand history in process memory. It backs the trainer
// when no database is configured; history disappears on restart.
type MemoryStore struct {
	mu      sync.Mutex
	clock   quartz.Clock
	nextID  int64
	records []Record
}

func NewMemoryStore(clock quartz.Clock) *MemoryStore {
	return &MemoryStore{clock: clock, nextID: 1}
}

func (s *MemoryStore) SaveHand(ctx context.Context, state game.Snapshot) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	id := s.nextID
	s.nextID++
	s.records = append(s.records, Record{
		ID:        id,
		CreatedAt: s.clock.Now().UTC(),
		State:     state,
	})
	return id, nil
}

func (s *MemoryStore) ListHands(ctx context.Context, limit, offset int) ([]Summary, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if limit <= 0 {
		limit = 50
	}
	if offset < 0 {
		offset = 0
	}

	summaries := make([]Summary, 0, limit)
	// Newest first.
	for i := len(s.records) - 1 - offset; i >= 0 && len(summaries) < limit; i-- {
		rec := s.records[i]
		summaries = append(summaries, Summary{
			ID:         rec.ID,
			CreatedAt:  rec.CreatedAt,
			HandResult: rec.State.HandResult,
		})
	}
	return summaries, nil
}

func (s *MemoryStore) GetHand(ctx context.Context, id int64) (*Record, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for i := range s.records {
		if s.records[i].ID == id {
			rec := s.records[i]
			return &rec, nil
		}
	}
	return nil, ErrNotFound
}
