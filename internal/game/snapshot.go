package game

import (
	"github.com/rainhsu/pokertrainer/internal/deck"
)

// PlayerState is the redacted per-player view in a snapshot. Hand is empty
// unless the player is the current actor or the hero.
type PlayerState struct {
	Name            string      `json:"name"`
	Position        string      `json:"position"`
	SeatNumber      int         `json:"seat_number"`
	Chips           int         `json:"chips"`
	InPot           int         `json:"in_pot"`
	CurrentRoundBet int         `json:"current_round_bet"`
	IsActive        bool        `json:"is_active"`
	Hand            []deck.Card `json:"hand"`
}

// RevealedHand is a non-hero hand disclosed at hand end.
type RevealedHand struct {
	Name       string      `json:"name"`
	Position   string      `json:"position"`
	SeatNumber int         `json:"seat_number"`
	Hand       []deck.Card `json:"hand"`
}

// Snapshot is the full frontend view of the table. Non-hero hole cards stay
// hidden until the hand ends, at which point they appear in OpponentHands.
type Snapshot struct {
	HandID         string           `json:"hand_id"`
	TableSize      int              `json:"table_size"`
	SeatOrder      []int            `json:"seat_order"`
	PotSize        int              `json:"pot_size"`
	CommunityCards []deck.Card      `json:"community_cards"`
	ActionPosition string           `json:"action_position"`
	Players        []PlayerState    `json:"players"`
	CurrentBet     int              `json:"current_bet"`
	CurrentStage   string           `json:"current_stage"`
	HandOver       bool             `json:"hand_over"`
	OpponentHands  []RevealedHand   `json:"opponent_hands"`
	ActionLog      []ActionLogEntry `json:"action_log"`
	HandResult     *HandResult      `json:"hand_result"`
}

// Snapshot renders the redacted frontend view of the table.
func (t *Table) Snapshot() Snapshot {
	actor := t.CurrentPlayer()

	players := make([]PlayerState, 0, len(t.players))
	for i, p := range t.players {
		hand := []deck.Card{}
		if i == t.currentIdx || t.isHeroName(p.Name) {
			hand = append(hand, p.Hand...)
		}
		players = append(players, PlayerState{
			Name:            p.Name,
			Position:        p.Position,
			SeatNumber:      p.SeatNumber,
			Chips:           p.Chips,
			InPot:           p.InPot,
			CurrentRoundBet: t.betting.commitOf(p),
			IsActive:        p.IsActive,
			Hand:            hand,
		})
	}

	board := make([]deck.Card, 0, len(t.communityCards))
	board = append(board, t.communityCards...)

	opponents := make([]RevealedHand, 0, len(t.opponentHands))
	opponents = append(opponents, t.opponentHands...)

	actionLog := make([]ActionLogEntry, 0, len(t.actionLog))
	actionLog = append(actionLog, t.actionLog...)

	return Snapshot{
		HandID:         t.handID,
		TableSize:      t.TableSize(),
		SeatOrder:      append([]int(nil), t.layout.SeatOrder...),
		PotSize:        t.pot,
		CommunityCards: board,
		ActionPosition: actor.Position,
		Players:        players,
		CurrentBet:     t.betting.currentBet,
		CurrentStage:   t.stage.String(),
		HandOver:       t.handOver,
		OpponentHands:  opponents,
		ActionLog:      actionLog,
		HandResult:     t.handResult,
	}
}
