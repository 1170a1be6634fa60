package game

// Stage represents the stage of a hand.
type Stage int

const (
	Preflop Stage = iota
	Flop
	Turn
	River
	Showdown
)

func (s Stage) String() string {
	return [...]string{"preflop", "flop", "turn", "river", "showdown"}[s]
}

// bettingRound owns the per-street betting state: the FIFO of player indices
// still awaiting action, the street's current bet, and each player's commit
// for this street. Commits are distinct from Player.InPot, which accumulates
// across the whole hand.
type bettingRound struct {
	queue      []int
	currentBet int
	commits    map[string]int
}

func newBettingRound() *bettingRound {
	return &bettingRound{commits: make(map[string]int)}
}

// resetForStreet clears the street bet and rebuilds the commit map over the
// given players.
func (b *bettingRound) resetForStreet(players []*Player, activeOnly bool) {
	b.currentBet = 0
	b.queue = nil
	b.commits = make(map[string]int, len(players))
	for _, p := range players {
		if activeOnly && !p.IsActive {
			continue
		}
		b.commits[p.Name] = 0
	}
}

// commitOf returns a player's commit this street.
func (b *bettingRound) commitOf(p *Player) int {
	return b.commits[p.Name]
}

// toCall returns the gap between the current bet and the player's commit.
func (b *bettingRound) toCall(p *Player) int {
	if gap := b.currentBet - b.commits[p.Name]; gap > 0 {
		return gap
	}
	return 0
}

// record adds contributed chips to a player's street commit.
func (b *bettingRound) record(p *Player, contributed int) {
	b.commits[p.Name] += contributed
}

// popNext removes and returns the next queued index belonging to a
// still-active player. ok is false when no active player remains queued,
// which closes the round.
func (b *bettingRound) popNext(players []*Player) (int, bool) {
	for len(b.queue) > 0 {
		next := b.queue[0]
		b.queue = b.queue[1:]
		if players[next].IsActive {
			return next, true
		}
	}
	return -1, false
}

// highestOtherCommit returns the largest street commit among players other
// than the named one.
func (b *bettingRound) highestOtherCommit(name string) int {
	highest := 0
	for other, commit := range b.commits {
		if other != name && commit > highest {
			highest = commit
		}
	}
	return highest
}
