package evaluator

import (
	"testing"

	"github.com/rainhsu/pokertrainer/internal/deck"
)

func cards(t *testing.T, tokens ...string) []deck.Card {
	t.Helper()
	parsed, err := deck.ParseCards(tokens...)
	if err != nil {
		t.Fatalf("parsing %v: %v", tokens, err)
	}
	return parsed
}

func TestCategories(t *testing.T) {
	t.Parallel()

	cases := []struct {
		name   string
		tokens []string
		want   Category
	}{
		{"high card", []string{"As", "Kd", "9h", "7c", "4s", "3d", "2h"}, HighCard},
		{"pair", []string{"As", "Ad", "9h", "7c", "4s", "3d", "2h"}, Pair},
		{"two pair", []string{"As", "Ad", "9h", "9c", "4s", "3d", "2h"}, TwoPair},
		{"trips", []string{"As", "Ad", "Ah", "9c", "4s", "3d", "2h"}, ThreeOfAKind},
		{"straight", []string{"9s", "8d", "7h", "6c", "5s", "Kd", "2h"}, Straight},
		{"flush", []string{"As", "Js", "9s", "7s", "4s", "3d", "2h"}, Flush},
		{"full house", []string{"As", "Ad", "Ah", "9c", "9s", "3d", "2h"}, FullHouse},
		{"double trips is a full house", []string{"As", "Ad", "Ah", "9c", "9s", "9d", "2h"}, FullHouse},
		{"quads", []string{"As", "Ad", "Ah", "Ac", "4s", "3d", "2h"}, FourOfAKind},
		{"straight flush", []string{"9s", "8s", "7s", "6s", "5s", "Kd", "2h"}, StraightFlush},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			got := Evaluate(cards(t, tc.tokens...)).Category()
			if got != tc.want {
				t.Errorf("category = %v, want %v", got, tc.want)
			}
		})
	}
}

func TestCategoryOrderStrictlyDominates(t *testing.T) {
	t.Parallel()

	// Weakest possible four of a kind still beats the strongest full house.
	quads := Evaluate(cards(t, "2s", "2d", "2h", "2c", "3s", "4d", "5h"))
	boat := Evaluate(cards(t, "As", "Ad", "Ah", "Kc", "Ks", "3d", "4h"))
	if quads.Compare(boat) <= 0 {
		t.Errorf("quads (%v) should outrank full house (%v)", quads, boat)
	}

	// And the weakest flush beats the strongest straight.
	flush := Evaluate(cards(t, "7s", "5s", "4s", "3s", "2s", "9d", "Th"))
	straight := Evaluate(cards(t, "As", "Kd", "Qh", "Jc", "Ts", "2d", "3h"))
	if flush.Compare(straight) <= 0 {
		t.Errorf("flush (%v) should outrank straight (%v)", flush, straight)
	}
}

func TestWheelStraight(t *testing.T) {
	t.Parallel()

	// A-2 in the hole with 3-4-5 on board is a five-high straight.
	wheel := Evaluate(cards(t, "As", "2h", "3d", "4c", "5s", "9d", "Kc"))
	if wheel.Category() != Straight {
		t.Fatalf("wheel evaluated as %v, want straight", wheel.Category())
	}

	sixHigh := Evaluate(cards(t, "2s", "3h", "4d", "5c", "6s", "9d", "Kc"))
	if sixHigh.Compare(wheel) <= 0 {
		t.Error("six-high straight should beat the wheel")
	}

	// The ace must not count as the high end of a wrap-around run.
	noStraight := Evaluate(cards(t, "As", "2h", "3d", "4c", "9s", "Jd", "Kc"))
	if noStraight.Category() == Straight {
		t.Error("four to a wheel evaluated as a straight")
	}
}

func TestKickerTieBreaks(t *testing.T) {
	t.Parallel()

	// Same pair of aces, better kicker wins.
	high := Evaluate(cards(t, "As", "Ad", "Kh", "7c", "4s", "3d", "2h"))
	low := Evaluate(cards(t, "Ah", "Ac", "Qh", "7d", "4d", "3s", "2s"))
	if high.Compare(low) <= 0 {
		t.Error("king kicker should beat queen kicker")
	}

	// Flushes compare by the top five suited ranks in order.
	a := Evaluate(cards(t, "As", "Js", "9s", "7s", "4s", "3d", "2h"))
	b := Evaluate(cards(t, "Ah", "Jh", "9h", "7h", "3h", "4d", "2s"))
	if a.Compare(b) <= 0 {
		t.Error("flush with the higher fifth card should win")
	}
}

func TestIdenticalHandsTie(t *testing.T) {
	t.Parallel()

	// Both players play the board's broadway straight.
	board := []string{"Ts", "Jd", "Qh", "Kc", "Ad"}
	p1 := Evaluate(cards(t, append([]string{"2s", "3h"}, board...)...))
	p2 := Evaluate(cards(t, append([]string{"4d", "5c"}, board...)...))
	if p1.Compare(p2) != 0 {
		t.Errorf("board-playing hands should tie: %v vs %v", p1, p2)
	}
}

func TestFiveAndSixCardHands(t *testing.T) {
	t.Parallel()

	five := Evaluate(cards(t, "As", "Ad", "Ah", "9c", "9s"))
	if five.Category() != FullHouse {
		t.Errorf("5-card evaluation = %v, want full house", five.Category())
	}

	six := Evaluate(cards(t, "9s", "8d", "7h", "6c", "5s", "Kd"))
	if six.Category() != Straight {
		t.Errorf("6-card evaluation = %v, want straight", six.Category())
	}
}
