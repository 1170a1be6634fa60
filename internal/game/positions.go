package game

import "fmt"

// Layout describes the fixed geometry of a supported table size: the seat
// ring, the canonical position names in button-first order, and the seat the
// hero is pinned to.
type Layout struct {
	Positions []string
	SeatOrder []int
	HeroSeat  int
}

var layouts = map[int]Layout{
	6: {
		Positions: []string{"BTN", "SB", "BB", "UTG", "MP", "CO"},
		SeatOrder: []int{1, 2, 3, 4, 5, 6},
		HeroSeat:  4,
	},
	9: {
		Positions: []string{"BTN", "SB", "BB", "UTG", "UTG+1", "UTG+2", "LJ", "HJ", "CO"},
		SeatOrder: []int{1, 2, 3, 4, 5, 6, 7, 8, 9},
		HeroSeat:  6,
	},
}

// LayoutForSize returns the layout for a supported table size.
func LayoutForSize(size int) (Layout, error) {
	layout, ok := layouts[size]
	if !ok {
		return Layout{}, fmt.Errorf("%w: %d seats (want 6 or 9)", ErrUnsupportedTableSize, size)
	}
	return layout, nil
}

// assignSeats pins the hero to the layout's hero seat and shuffles the
// remaining players over the remaining seats.
func (t *Table) assignSeats() {
	hero := t.hero()

	available := make([]int, 0, len(t.layout.SeatOrder)-1)
	for _, seat := range t.layout.SeatOrder {
		if seat != t.layout.HeroSeat {
			available = append(available, seat)
		}
	}
	t.rng.Shuffle(len(available), func(i, j int) {
		available[i], available[j] = available[j], available[i]
	})

	if hero != nil {
		hero.SeatNumber = t.layout.HeroSeat
	}

	i := 0
	for _, p := range t.players {
		if p == hero {
			continue
		}
		p.SeatNumber = available[i]
		i++
	}
}

// assignPositions draws a uniformly random position for the hero, then walks
// the seat ring from the hero's seat handing out the position list rotated to
// start at the hero's draw. Button/SB/BB adjacency is preserved because
// positions are distributed in seat order, never independently per seat.
func (t *Table) assignPositions() {
	heroPosition := t.layout.Positions[t.rng.IntN(len(t.layout.Positions))]

	ordered := t.rotatedPositions(heroPosition)
	seats := t.seatSequenceFrom(t.layout.HeroSeat)

	for i, seat := range seats {
		if p := t.playerInSeat(seat); p != nil {
			p.Position = ordered[i]
		}
	}

	if btn := t.playerByPosition("BTN"); btn != nil {
		t.buttonIndex = t.playerIndex(btn)
	}
}

// rotatedPositions returns the canonical position list rotated to begin at
// the given position.
func (t *Table) rotatedPositions(start string) []string {
	idx := 0
	for i, pos := range t.layout.Positions {
		if pos == start {
			idx = i
			break
		}
	}
	return append(append([]string(nil), t.layout.Positions[idx:]...), t.layout.Positions[:idx]...)
}

// seatSequenceFrom returns the seat ring rotated to begin at the given seat.
func (t *Table) seatSequenceFrom(seat int) []int {
	idx := 0
	for i, s := range t.layout.SeatOrder {
		if s == seat {
			idx = i
			break
		}
	}
	return append(append([]int(nil), t.layout.SeatOrder[idx:]...), t.layout.SeatOrder[:idx]...)
}

// seatSequenceFromPosition returns the seat ring rotated to begin at the seat
// currently holding the named position, falling back to the hero seat.
func (t *Table) seatSequenceFromPosition(position string) []int {
	start := t.layout.HeroSeat
	for _, p := range t.players {
		if p.Position == position {
			start = p.SeatNumber
			break
		}
	}
	return t.seatSequenceFrom(start)
}

func (t *Table) playerInSeat(seat int) *Player {
	for _, p := range t.players {
		if p.SeatNumber == seat {
			return p
		}
	}
	return nil
}

func (t *Table) playerByPosition(position string) *Player {
	for _, p := range t.players {
		if p.Position == position {
			return p
		}
	}
	return nil
}

func (t *Table) playerIndex(target *Player) int {
	for i, p := range t.players {
		if p == target {
			return i
		}
	}
	return -1
}
