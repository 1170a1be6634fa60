package game

import (
	"github.com/rainhsu/pokertrainer/internal/deck"
)

// Player is one seat's state for the current hand.
type Player struct {
	Name       string
	Chips      int
	Hand       []deck.Card // 0 or 2 cards
	Position   string
	SeatNumber int
	InPot      int // cumulative contribution this hand
	IsActive   bool
}

// fold marks the player out of the hand. They remain seated and are skipped
// by every subsequent queue build.
func (p *Player) fold() {
	p.IsActive = false
}

// contribute moves up to amount chips from the player's stack into the pot,
// capping at the stack (an implicit all-in). It returns the chips actually
// contributed.
func (p *Player) contribute(amount int) int {
	if amount > p.Chips {
		amount = p.Chips
	}
	p.Chips -= amount
	p.InPot += amount
	return amount
}
