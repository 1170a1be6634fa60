package history

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/coder/quartz"

	"github.com/rainhsu/pokertrainer/internal/game"
)

func finishedSnapshot(handID string, winner string) game.Snapshot {
	return game.Snapshot{
		HandID:       handID,
		TableSize:    6,
		CurrentStage: "showdown",
		HandOver:     true,
		HandResult: &game.HandResult{
			WinnerName: winner,
			SeatNumber: 1,
			AmountWon:  300,
		},
	}
}

func TestMemoryStoreRoundTrip(t *testing.T) {
	t.Parallel()

	clock := quartz.NewMock(t)
	store := NewMemoryStore(clock)
	ctx := context.Background()

	firstID, err := store.SaveHand(ctx, finishedSnapshot("a", "hero"))
	if err != nil {
		t.Fatal(err)
	}
	clock.Advance(time.Minute)
	secondID, err := store.SaveHand(ctx, finishedSnapshot("b", "Player3"))
	if err != nil {
		t.Fatal(err)
	}
	if secondID <= firstID {
		t.Fatalf("ids not increasing: %d then %d", firstID, secondID)
	}

	rec, err := store.GetHand(ctx, firstID)
	if err != nil {
		t.Fatal(err)
	}
	if rec.State.HandID != "a" {
		t.Errorf("stored hand id %q", rec.State.HandID)
	}
	if rec.CreatedAt.IsZero() {
		t.Error("created_at not stamped")
	}

	if _, err := store.GetHand(ctx, 999); !errors.Is(err, ErrNotFound) {
		t.Errorf("missing id: got %v, want ErrNotFound", err)
	}
}

func TestMemoryStoreListNewestFirst(t *testing.T) {
	t.Parallel()

	clock := quartz.NewMock(t)
	store := NewMemoryStore(clock)
	ctx := context.Background()

	for _, id := range []string{"a", "b", "c", "d"} {
		if _, err := store.SaveHand(ctx, finishedSnapshot(id, "hero")); err != nil {
			t.Fatal(err)
		}
		clock.Advance(time.Second)
	}

	summaries, err := store.ListHands(ctx, 2, 0)
	if err != nil {
		t.Fatal(err)
	}
	if len(summaries) != 2 {
		t.Fatalf("%d summaries with limit 2", len(summaries))
	}
	if summaries[0].ID != 4 || summaries[1].ID != 3 {
		t.Errorf("order %d, %d, want newest first", summaries[0].ID, summaries[1].ID)
	}
	if summaries[0].HandResult == nil || summaries[0].HandResult.WinnerName != "hero" {
		t.Errorf("summary result %+v", summaries[0].HandResult)
	}

	// Offset skips the newest entries.
	summaries, err = store.ListHands(ctx, 10, 3)
	if err != nil {
		t.Fatal(err)
	}
	if len(summaries) != 1 || summaries[0].ID != 1 {
		t.Errorf("offset 3 returned %+v", summaries)
	}
}
