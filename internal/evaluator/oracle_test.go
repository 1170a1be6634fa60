package evaluator

import (
	"testing"

	phpoker "github.com/paulhankin/poker"

	"github.com/rainhsu/pokertrainer/internal/deck"
	"github.com/rainhsu/pokertrainer/internal/randutil"
)

// toOracle converts a card into the reference library's representation,
// which uses 1-based ranks with the ace low.
func toOracle(t *testing.T, c deck.Card) phpoker.Card {
	t.Helper()

	var suit phpoker.Suit
	switch c.Suit {
	case deck.Spades:
		suit = phpoker.Spade
	case deck.Hearts:
		suit = phpoker.Heart
	case deck.Diamonds:
		suit = phpoker.Diamond
	case deck.Clubs:
		suit = phpoker.Club
	}

	rank := phpoker.Rank(c.Rank)
	if c.Rank == deck.Ace {
		rank = phpoker.Rank(1)
	}

	card, err := phpoker.MakeCard(suit, rank)
	if err != nil {
		t.Fatalf("MakeCard(%v): %v", c, err)
	}
	return card
}

// TestOrderingAgreesWithOracle deals pseudo-random boards to two players and
// checks that our strength ordering matches the reference evaluator's.
func TestOrderingAgreesWithOracle(t *testing.T) {
	t.Parallel()

	rng := randutil.New(20240817)
	const trials = 2000

	for i := 0; i < trials; i++ {
		d := deck.New(rng)
		holeA := d.DealN(2)
		holeB := d.DealN(2)
		board := d.DealN(5)

		sevenA := append(append([]deck.Card(nil), holeA...), board...)
		sevenB := append(append([]deck.Card(nil), holeB...), board...)

		ours := Evaluate(sevenA).Compare(Evaluate(sevenB))

		var oracleA, oracleB [7]phpoker.Card
		for j, c := range sevenA {
			oracleA[j] = toOracle(t, c)
		}
		for j, c := range sevenB {
			oracleB[j] = toOracle(t, c)
		}
		scoreA := phpoker.Eval7(&oracleA)
		scoreB := phpoker.Eval7(&oracleB)

		theirs := 0
		if scoreA > scoreB {
			theirs = 1
		} else if scoreA < scoreB {
			theirs = -1
		}

		if ours != theirs {
			t.Fatalf("trial %d: ordering disagrees with oracle\nA: %v + %v => %v\nB: %v + %v => %v\nours=%d oracle=%d",
				i, holeA, board, Evaluate(sevenA), holeB, board, Evaluate(sevenB), ours, theirs)
		}
	}
}
