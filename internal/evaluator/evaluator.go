// Package evaluator ranks 5-7 card holdem hands.
//
// Strength values form a total order: any hand of a higher category beats
// every hand of a lower category, and ties within a category are broken by
// the encoded kicker ranks. Equal Strength values are a genuine tie.
package evaluator

import (
	"sort"

	"github.com/rainhsu/pokertrainer/internal/deck"
)

// Category enumerates hand categories from weakest to strongest.
type Category uint8

const (
	HighCard Category = iota
	Pair
	TwoPair
	ThreeOfAKind
	Straight
	Flush
	FullHouse
	FourOfAKind
	StraightFlush
)

// String returns a human-readable category name.
func (c Category) String() string {
	switch c {
	case HighCard:
		return "High Card"
	case Pair:
		return "Pair"
	case TwoPair:
		return "Two Pair"
	case ThreeOfAKind:
		return "Three of a Kind"
	case Straight:
		return "Straight"
	case Flush:
		return "Flush"
	case FullHouse:
		return "Full House"
	case FourOfAKind:
		return "Four of a Kind"
	case StraightFlush:
		return "Straight Flush"
	default:
		return "Unknown"
	}
}

// Strength is a comparable hand strength. Higher values are stronger.
//
// Layout: the category occupies the bits above 20, followed by up to five
// 4-bit tie-break slots in significance order (pair/trip/quad rank first,
// then kickers descending). Rank values are offset so a deuce encodes as 0.
type Strength uint32

// Category returns the hand category encoded in the strength.
func (s Strength) Category() Category {
	return Category(s >> 20)
}

// Compare returns -1 if s is weaker than other, 0 on a tie, 1 if stronger.
func (s Strength) Compare(other Strength) int {
	switch {
	case s < other:
		return -1
	case s > other:
		return 1
	default:
		return 0
	}
}

// String returns the category name of the strength.
func (s Strength) String() string {
	return s.Category().String()
}

func encode(cat Category, tiebreaks ...int) Strength {
	v := uint32(cat) << 20
	shift := 16
	for _, tb := range tiebreaks {
		v |= uint32(tb) << shift
		shift -= 4
	}
	return Strength(v)
}

// rankValue maps card ranks onto 0..12 so they fit a 4-bit tie-break slot.
func rankValue(r deck.Rank) int {
	return int(r) - int(deck.Two)
}

// Evaluate computes the strength of the best 5-card hand within the given
// 5 to 7 cards. It is a pure function with no side effects.
func Evaluate(cards []deck.Card) Strength {
	values := make([]int, len(cards))
	counts := make(map[int]int, len(cards))
	suits := make(map[deck.Suit][]int, 4)
	for i, c := range cards {
		v := rankValue(c.Rank)
		values[i] = v
		counts[v]++
		suits[c.Suit] = append(suits[c.Suit], v)
	}

	var flushRanks []int
	for _, ranks := range suits {
		if len(ranks) >= 5 {
			flushRanks = append([]int(nil), ranks...)
			sort.Sort(sort.Reverse(sort.IntSlice(flushRanks)))
			break
		}
	}

	straightHigh, hasStraight := straightHighValue(values)
	if flushRanks != nil {
		if sfHigh, ok := straightHighValue(flushRanks); ok {
			return encode(StraightFlush, sfHigh)
		}
	}

	var quads, trips, pairs []int
	for v, n := range counts {
		switch n {
		case 4:
			quads = append(quads, v)
		case 3:
			trips = append(trips, v)
		case 2:
			pairs = append(pairs, v)
		}
	}
	sort.Sort(sort.Reverse(sort.IntSlice(trips)))
	sort.Sort(sort.Reverse(sort.IntSlice(pairs)))

	if len(quads) > 0 {
		quad := quads[0]
		kicker := topKickers(values, []int{quad}, 1)[0]
		return encode(FourOfAKind, quad, kicker)
	}

	if len(trips) > 0 && (len(pairs) > 0 || len(trips) > 1) {
		top := trips[0]
		under := 0
		if len(trips) > 1 {
			under = trips[1]
		} else {
			under = pairs[0]
		}
		return encode(FullHouse, top, under)
	}

	if flushRanks != nil {
		return encode(Flush, flushRanks[:5]...)
	}

	if hasStraight {
		return encode(Straight, straightHigh)
	}

	if len(trips) > 0 {
		kickers := topKickers(values, trips[:1], 2)
		return encode(ThreeOfAKind, append(trips[:1:1], kickers...)...)
	}

	if len(pairs) >= 2 {
		kicker := topKickers(values, pairs[:2], 1)
		return encode(TwoPair, pairs[0], pairs[1], kicker[0])
	}

	if len(pairs) == 1 {
		kickers := topKickers(values, pairs[:1], 3)
		return encode(Pair, append(pairs[:1:1], kickers...)...)
	}

	return encode(HighCard, topKickers(values, nil, 5)...)
}

// straightHighValue finds the highest value completing a run of five
// consecutive values. The ace (12) also counts as the value below a deuce so
// the wheel (A-2-3-4-5) is found with a high card of 5.
func straightHighValue(values []int) (int, bool) {
	seen := make(map[int]bool, len(values))
	unique := make([]int, 0, len(values)+1)
	for _, v := range values {
		if !seen[v] {
			seen[v] = true
			unique = append(unique, v)
		}
	}
	if seen[rankValue(deck.Ace)] {
		unique = append(unique, -1)
	}
	sort.Ints(unique)

	run := 1
	high := 0
	found := false
	for i := 1; i < len(unique); i++ {
		if unique[i]-unique[i-1] == 1 {
			run++
			if run >= 5 {
				high = unique[i]
				found = true
			}
		} else {
			run = 1
		}
	}
	return high, found
}

// topKickers returns the n highest distinct values not present in exclude.
func topKickers(values, exclude []int, n int) []int {
	excluded := make(map[int]bool, len(exclude))
	for _, v := range exclude {
		excluded[v] = true
	}

	sorted := append([]int(nil), values...)
	sort.Sort(sort.Reverse(sort.IntSlice(sorted)))

	kickers := make([]int, 0, n)
	seen := make(map[int]bool, n)
	for _, v := range sorted {
		if excluded[v] || seen[v] {
			continue
		}
		seen[v] = true
		kickers = append(kickers, v)
		if len(kickers) == n {
			break
		}
	}
	return kickers
}
