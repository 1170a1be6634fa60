package game

import (
	"fmt"
	"io"
	rand "math/rand/v2"
	"sort"
	"strings"

	"github.com/charmbracelet/log"
	"github.com/google/uuid"

	"github.com/rainhsu/pokertrainer/internal/deck"
	"github.com/rainhsu/pokertrainer/internal/evaluator"
	"github.com/rainhsu/pokertrainer/internal/randutil"
)

// Config configures a table for one size selection. The zero value of every
// optional field gets a sensible default.
type Config struct {
	TableSize     int
	BigBlind      int            // default 100
	StartingStack int            // default 10000, applied per seat
	Stacks        map[string]int // explicit roster; built from StartingStack when nil
	HeroName      string         // default "hero"
	Logger        *log.Logger
	RNG           *rand.Rand
}

// Table is the per-hand mutable aggregate: seating, pot, board, betting
// state, log and result for a single hand of no-limit holdem.
//
// A Table is not safe for concurrent mutation; callers exposing one to
// several goroutines must serialize access externally.
type Table struct {
	layout        Layout
	bigBlind      int
	heroName      string
	initialStacks map[string]int

	players     []*Player
	buttonIndex int

	pot            int
	communityCards []deck.Card
	betting        *bettingRound
	currentIdx     int
	stage          Stage
	handOver       bool
	handID         string
	opponentHands  []RevealedHand
	actionLog      []ActionLogEntry
	handResult     *HandResult
	deck           *deck.Deck

	rng    *rand.Rand
	logger *log.Logger
}

// NewTable builds a table for the given size with a fresh roster. The table
// is reused across hands and replaced only when the size selection changes.
func NewTable(cfg Config) (*Table, error) {
	layout, err := LayoutForSize(cfg.TableSize)
	if err != nil {
		return nil, err
	}

	if cfg.BigBlind <= 0 {
		cfg.BigBlind = 100
	}
	if cfg.StartingStack <= 0 {
		cfg.StartingStack = 10000
	}
	if cfg.HeroName == "" {
		cfg.HeroName = "hero"
	}
	if cfg.RNG == nil {
		cfg.RNG = randutil.NewFromTime()
	}
	if cfg.Logger == nil {
		cfg.Logger = log.New(io.Discard)
	}

	stacks := cfg.Stacks
	if stacks == nil {
		stacks = make(map[string]int, cfg.TableSize)
		stacks[cfg.HeroName] = cfg.StartingStack
		for i := 2; i <= cfg.TableSize; i++ {
			stacks[fmt.Sprintf("Player%d", i)] = cfg.StartingStack
		}
	}
	if len(stacks) != cfg.TableSize {
		return nil, fmt.Errorf("roster has %d players for a %d-seat table", len(stacks), cfg.TableSize)
	}

	t := &Table{
		layout:        layout,
		bigBlind:      cfg.BigBlind,
		heroName:      strings.ToLower(cfg.HeroName),
		initialStacks: stacks,
		betting:       newBettingRound(),
		rng:           cfg.RNG,
		logger:        cfg.Logger.WithPrefix("table"),
	}

	// Hero first, then the rest in a stable order.
	names := make([]string, 0, len(stacks))
	for name := range stacks {
		if !t.isHeroName(name) {
			names = append(names, name)
		}
	}
	sort.Strings(names)
	hero := ""
	for name := range stacks {
		if t.isHeroName(name) {
			hero = name
			break
		}
	}
	if hero == "" {
		return nil, fmt.Errorf("roster has no seat for hero %q", cfg.HeroName)
	}
	for _, name := range append([]string{hero}, names...) {
		t.players = append(t.players, &Player{Name: name, Chips: stacks[name], IsActive: true})
	}

	return t, nil
}

// TableSize returns the number of seats.
func (t *Table) TableSize() int {
	return len(t.layout.SeatOrder)
}

// BigBlind returns the configured big blind.
func (t *Table) BigBlind() int {
	return t.bigBlind
}

// HandID returns the identifier of the hand in progress.
func (t *Table) HandID() string {
	return t.handID
}

// HandOver reports whether the current hand has finished.
func (t *Table) HandOver() bool {
	return t.handOver
}

// Players returns the seated players. The slice and its entries are live
// engine state; callers must not mutate them.
func (t *Table) Players() []*Player {
	return t.players
}

// Pot returns the chips currently in the pot.
func (t *Table) Pot() int {
	return t.pot
}

// IsHero reports whether the player is the human seat.
func (t *Table) IsHero(p *Player) bool {
	return p != nil && t.isHeroName(p.Name)
}

func (t *Table) isHeroName(name string) bool {
	return strings.ToLower(name) == t.heroName
}

func (t *Table) hero() *Player {
	for _, p := range t.players {
		if t.isHeroName(p.Name) {
			return p
		}
	}
	return nil
}

func (t *Table) activePlayers() []*Player {
	active := make([]*Player, 0, len(t.players))
	for _, p := range t.players {
		if p.IsActive {
			active = append(active, p)
		}
	}
	return active
}

// StartHand resets every per-hand field and deals a fresh hand. Stacks go
// back to their configured starting values; seats and positions are freshly
// randomized with the hero pinned to the layout's hero seat.
func (t *Table) StartHand() {
	t.handOver = false
	t.stage = Preflop
	t.handID = uuid.NewString()
	t.opponentHands = nil
	t.actionLog = nil
	t.handResult = nil
	t.communityCards = nil
	t.pot = 0

	for _, p := range t.players {
		p.Chips = t.initialStacks[p.Name]
		p.InPot = 0
		p.IsActive = true
		p.Hand = nil
	}

	t.assignSeats()
	t.assignPositions()
	t.dealHoleCards()

	t.betting.resetForStreet(t.players, false)
	t.postBlinds()
	t.startPreflopAction()

	t.logger.Info("hand started",
		"hand_id", t.handID,
		"table_size", t.TableSize(),
		"hero_seat", t.layout.HeroSeat,
		"button_index", t.buttonIndex)
}

func (t *Table) dealHoleCards() {
	t.deck = deck.New(t.rng)

	for _, seat := range t.seatSequenceFromPosition("SB") {
		p := t.playerInSeat(seat)
		if p == nil {
			continue
		}
		p.Hand = sortHoleCards(t.deck.DealN(2))
	}
}

// sortHoleCards orders two hole cards strongest rank first.
func sortHoleCards(cards []deck.Card) []deck.Card {
	sort.Slice(cards, func(i, j int) bool {
		return cards[i].Rank > cards[j].Rank
	})
	return cards
}

func (t *Table) postBlinds() {
	smallBlind := max(t.bigBlind/2, 1)

	if sb := t.playerByPosition("SB"); sb != nil {
		posted := sb.contribute(smallBlind)
		t.pot += posted
		t.betting.record(sb, posted)
		t.logAction(sb, "Post SB", posted)
	}
	if bb := t.playerByPosition("BB"); bb != nil {
		posted := bb.contribute(t.bigBlind)
		t.pot += posted
		t.betting.record(bb, posted)
		t.betting.currentBet = t.bigBlind
		t.logAction(bb, "Post BB", posted)
	}
}

func (t *Table) startPreflopAction() {
	t.betting.queue = t.buildQueue("UTG")
	t.advanceToNextPlayer()
}

// buildQueue lists every active player in seat order starting at the seat
// holding the anchor position.
func (t *Table) buildQueue(anchor string) []int {
	var queue []int
	for _, seat := range t.seatSequenceFromPosition(anchor) {
		if p := t.playerInSeat(seat); p != nil && p.IsActive {
			queue = append(queue, t.playerIndex(p))
		}
	}
	return queue
}

// CurrentPlayer returns the seat awaiting action. The result is stable until
// the next successful ProcessAction call.
func (t *Table) CurrentPlayer() *Player {
	if t.currentIdx < 0 || t.currentIdx >= len(t.players) {
		t.currentIdx = 0
	}
	return t.players[t.currentIdx]
}

// ProcessAction validates and applies one action for the current player.
// Illegal actions fail with ErrInvalidAction and leave all state unchanged.
func (t *Table) ProcessAction(a Action) error {
	if t.handOver {
		return fmt.Errorf("%w: hand is over", ErrInvalidAction)
	}

	p := t.CurrentPlayer()
	commit := t.betting.commitOf(p)
	toCall := t.betting.toCall(p)
	available := p.Chips + commit

	switch a.Type {
	case Fold:
		p.fold()
		t.logAction(p, "Fold", 0)
		if t.IsHero(p) {
			t.endHandOnHeroFold()
			return nil
		}

	case Check:
		if toCall != 0 {
			return fmt.Errorf("%w: cannot check, %d to call", ErrInvalidAction, toCall)
		}
		t.logAction(p, "Check", 0)

	case Call:
		if toCall <= 0 {
			return fmt.Errorf("%w: nothing to call, check or bet instead", ErrInvalidAction)
		}
		contributed := p.contribute(toCall)
		t.pot += contributed
		t.betting.record(p, contributed)
		t.logAction(p, "Call", contributed)

	case Bet, Raise:
		if a.Type == Bet && t.betting.currentBet > 0 {
			return fmt.Errorf("%w: a bet already stands, call or raise instead", ErrInvalidAction)
		}
		amount := min(a.Amount, available)
		if amount <= t.betting.currentBet {
			return fmt.Errorf("%w: amount must exceed the current bet of %d", ErrInvalidAction, t.betting.currentBet)
		}
		contributed := p.contribute(max(amount-commit, 0))
		t.pot += contributed
		t.betting.record(p, contributed)
		t.betting.currentBet = t.betting.commitOf(p)
		t.logAction(p, a.Type.String(), t.betting.currentBet)
		t.resetQueueAfterRaise(p)
		return nil

	case AllIn:
		if p.Chips <= 0 {
			return fmt.Errorf("%w: no chips left to move all-in", ErrInvalidAction)
		}
		contributed := p.contribute(p.Chips)
		t.pot += contributed
		t.betting.record(p, contributed)
		newCommit := t.betting.commitOf(p)
		t.logAction(p, "AllIn", newCommit)
		if newCommit > t.betting.currentBet {
			// Reopens the action like a raise.
			t.betting.currentBet = newCommit
			t.resetQueueAfterRaise(p)
			return nil
		}

	default:
		return fmt.Errorf("%w: unknown action", ErrInvalidAction)
	}

	t.advanceToNextPlayer()
	return nil
}

// resetQueueAfterRaise rebuilds the queue to everyone else still active, in
// seat order starting after the aggressor.
func (t *Table) resetQueueAfterRaise(raiser *Player) {
	seats := t.seatSequenceFrom(raiser.SeatNumber)[1:]
	var queue []int
	for _, seat := range seats {
		if p := t.playerInSeat(seat); p != nil && p.IsActive && p != raiser {
			queue = append(queue, t.playerIndex(p))
		}
	}
	t.betting.queue = queue

	if len(queue) == 0 {
		t.endBettingRound()
	} else {
		t.advanceToNextPlayer()
	}
}

// advanceToNextPlayer pops the queue until it finds an active actor. An
// exhausted queue closes the betting round.
func (t *Table) advanceToNextPlayer() {
	if idx, ok := t.betting.popNext(t.players); ok {
		t.currentIdx = idx
		return
	}
	t.endBettingRound()
}

func (t *Table) endBettingRound() {
	active := t.activePlayers()
	if len(active) <= 1 {
		var winner *Player
		if len(active) == 1 {
			winner = active[0]
		}
		t.refundUncalled(winner)
		t.handOver = true
		t.stage = Showdown
		t.setHandResult(winner, "")
		t.revealOpponents()
		return
	}
	t.advanceStage()
}

func (t *Table) advanceStage() {
	switch t.stage {
	case Preflop:
		t.dealCommunity(3)
		t.startPostflopRound(Flop)
	case Flop:
		t.dealCommunity(1)
		t.startPostflopRound(Turn)
	case Turn:
		t.dealCommunity(1)
		t.startPostflopRound(River)
	case River:
		t.stage = Showdown
		t.handOver = true
		t.revealOpponents()
		t.finalizeShowdown()
	}
}

func (t *Table) dealCommunity(n int) {
	t.communityCards = append(t.communityCards, t.deck.DealN(n)...)
	t.logger.Debug("community cards dealt", "count", n, "board", t.communityCards)
}

func (t *Table) startPostflopRound(stage Stage) {
	if t.handOver {
		return
	}

	t.stage = stage
	t.betting.resetForStreet(t.players, true)
	t.betting.queue = t.buildQueue("SB")

	if len(t.betting.queue) == 0 {
		// Nobody can act: run the board out to a full five cards before
		// showing down.
		t.runOutBoard()
		t.stage = Showdown
		t.handOver = true
		t.revealOpponents()
		t.finalizeShowdown()
		return
	}

	t.advanceToNextPlayer()
}

// runOutBoard deals the remaining streets so showdown always sees a
// five-card board.
func (t *Table) runOutBoard() {
	for len(t.communityCards) < 5 {
		t.communityCards = append(t.communityCards, t.deck.DealN(1)...)
	}
}

// endHandOnHeroFold closes the hand immediately after the hero folds. No
// further community cards are dealt; the first remaining active opponent
// takes the pot.
func (t *Table) endHandOnHeroFold() {
	var winner *Player
	for _, p := range t.players {
		if p.IsActive && !t.IsHero(p) {
			winner = p
			break
		}
	}
	t.refundUncalled(winner)
	t.handOver = true
	t.stage = Showdown
	t.setHandResult(winner, "")
	t.revealOpponents()
}

// refundUncalled returns the portion of the winner's street commitment that
// no opponent matched, restoring the current bet to the highest matched
// level.
func (t *Table) refundUncalled(winner *Player) {
	if winner == nil {
		return
	}

	highestOther := t.betting.highestOtherCommit(winner.Name)
	winnerBet := t.betting.commitOf(winner)
	uncalled := winnerBet - highestOther
	if uncalled <= 0 {
		return
	}

	refund := min(uncalled, t.pot)
	winner.Chips += refund
	winner.InPot = max(winner.InPot-refund, 0)
	t.pot -= refund
	t.betting.commits[winner.Name] = winnerBet - refund
	t.betting.currentBet = highestOther

	t.logger.Debug("uncalled chips refunded", "player", winner.Name, "refund", refund, "pot", t.pot)
}

// setHandResult pays the full remaining pot to the winner and records the
// result. winningHand, when non-empty, names the showdown hand category.
func (t *Table) setHandResult(winner *Player, winningHand string) {
	if winner == nil {
		t.handResult = nil
		return
	}

	amount := t.pot
	winner.Chips += amount
	t.pot = 0

	desc := fmt.Sprintf("%s (%s) wins the $%d pot", winner.Position, winner.Name, amount)
	if winningHand != "" {
		desc += " with " + winningHand
	}
	t.handResult = &HandResult{
		WinnerName:  winner.Name,
		SeatNumber:  winner.SeatNumber,
		Position:    winner.Position,
		AmountWon:   amount,
		Description: desc,
	}

	t.logger.Info("hand result",
		"hand_id", t.handID,
		"winner", winner.Name,
		"position", winner.Position,
		"amount", amount)
}

// finalizeShowdown evaluates every remaining hand and awards the whole pot
// to the strongest. Ties go to the lowest seat number; side pots for uneven
// all-in stacks are intentionally not computed.
func (t *Table) finalizeShowdown() {
	active := t.activePlayers()
	if len(active) == 0 {
		t.setHandResult(nil, "")
		return
	}

	var best evaluator.Strength
	var winners []*Player
	for _, p := range active {
		strength := evaluator.Evaluate(append(append([]deck.Card(nil), p.Hand...), t.communityCards...))
		switch {
		case len(winners) == 0 || strength.Compare(best) > 0:
			best = strength
			winners = []*Player{p}
		case strength.Compare(best) == 0:
			winners = append(winners, p)
		}
	}

	sort.Slice(winners, func(i, j int) bool {
		return winners[i].SeatNumber < winners[j].SeatNumber
	})
	t.setHandResult(winners[0], best.String())
}

// revealOpponents publishes every non-hero hand for end-of-hand display.
func (t *Table) revealOpponents() {
	t.opponentHands = nil
	for _, p := range t.players {
		if t.IsHero(p) {
			continue
		}
		hand := append([]deck.Card(nil), p.Hand...)
		if hand == nil {
			hand = []deck.Card{}
		}
		t.opponentHands = append(t.opponentHands, RevealedHand{
			Name:       p.Name,
			Position:   p.Position,
			SeatNumber: p.SeatNumber,
			Hand:       hand,
		})
	}
}

// SetPlayerHand overrides a player's hole cards. Only legal preflop, before
// any community card has been dealt.
func (t *Table) SetPlayerHand(name string, tokens []string) error {
	if t.stage != Preflop || len(t.communityCards) > 0 {
		return fmt.Errorf("%w: hands can only be set preflop", ErrInvalidHandOverride)
	}
	if len(tokens) != 2 {
		return fmt.Errorf("%w: want exactly 2 cards, got %d", ErrInvalidHandOverride, len(tokens))
	}

	var target *Player
	for _, p := range t.players {
		if strings.EqualFold(p.Name, name) {
			target = p
			break
		}
	}
	if target == nil {
		return fmt.Errorf("%w: unknown player %q", ErrInvalidHandOverride, name)
	}

	cards, err := deck.ParseCards(tokens...)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidHandOverride, err)
	}
	if cards[0] == cards[1] {
		return fmt.Errorf("%w: duplicate card %s", ErrInvalidHandOverride, cards[0])
	}

	for _, old := range target.Hand {
		t.deck.Return(old)
	}
	for _, c := range cards {
		t.deck.Remove(c)
	}
	target.Hand = sortHoleCards(cards)

	t.logger.Info("hand override applied", "player", target.Name, "cards", tokens)
	return nil
}
