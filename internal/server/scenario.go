package server

import (
	"fmt"

	"github.com/rainhsu/pokertrainer/internal/deck"
	"github.com/rainhsu/pokertrainer/internal/game"
)

// ScenarioOpponent is one opposing seat in a hand-built scenario.
type ScenarioOpponent struct {
	Name     string   `json:"name"`
	Position string   `json:"position"`
	Hand     []string `json:"hand,omitempty"`
}

// ScenarioActionLine is one prior action in a hand-built scenario.
type ScenarioActionLine struct {
	Name     string `json:"name"`
	Position string `json:"position"`
	Action   string `json:"action"`
	Stage    string `json:"stage"`
	Amount   int    `json:"amount"`
}

// ScenarioRequest describes a situation to grade without playing it out on
// the live table.
type ScenarioRequest struct {
	TableSize      int                  `json:"table_size,omitempty"`
	Stage          string               `json:"stage"`
	HeroPosition   string               `json:"hero_position"`
	HeroHand       []string             `json:"hero_hand"`
	CommunityCards []string             `json:"community_cards"`
	Opponents      []ScenarioOpponent   `json:"opponents"`
	ActionLines    []ScenarioActionLine `json:"action_lines"`
	HeroAction     game.Action          `json:"hero_action"`
}

// buildScenarioState assembles a snapshot from scenario input so the same
// analysis path grades live hands and constructed spots alike.
func buildScenarioState(req ScenarioRequest) (game.Snapshot, error) {
	heroHand, err := deck.ParseCards(req.HeroHand...)
	if err != nil {
		return game.Snapshot{}, fmt.Errorf("hero hand: %w", err)
	}

	seat := 1
	players := []game.PlayerState{{
		Name:       "Hero",
		Position:   req.HeroPosition,
		SeatNumber: seat,
		Chips:      10000,
		IsActive:   true,
		Hand:       heroHand,
	}}

	for _, opp := range req.Opponents {
		seat++
		hand := []deck.Card{}
		if len(opp.Hand) > 0 {
			hand, err = deck.ParseCards(opp.Hand...)
			if err != nil {
				return game.Snapshot{}, fmt.Errorf("opponent %s hand: %w", opp.Name, err)
			}
		}
		players = append(players, game.PlayerState{
			Name:       opp.Name,
			Position:   opp.Position,
			SeatNumber: seat,
			Chips:      10000,
			IsActive:   true,
			Hand:       hand,
		})
	}

	board, err := deck.ParseCards(req.CommunityCards...)
	if err != nil {
		return game.Snapshot{}, fmt.Errorf("community cards: %w", err)
	}

	tableSize := req.TableSize
	if tableSize == 0 {
		tableSize = len(players)
		if tableSize <= 6 {
			tableSize = 6
		} else {
			tableSize = 9
		}
	}
	if tableSize != 6 && tableSize != 9 {
		return game.Snapshot{}, fmt.Errorf("scenario table size %d: want 6 or 9", tableSize)
	}
	if len(players) > tableSize {
		return game.Snapshot{}, fmt.Errorf("%d players exceed the %d-max table", len(players), tableSize)
	}

	seatByPosition := make(map[string]int, len(players))
	for _, p := range players {
		seatByPosition[p.Position] = p.SeatNumber
	}
	actionLog := make([]game.ActionLogEntry, 0, len(req.ActionLines))
	for _, line := range req.ActionLines {
		actionLog = append(actionLog, game.ActionLogEntry{
			Name:       line.Name,
			Position:   line.Position,
			SeatNumber: seatByPosition[line.Position],
			Action:     line.Action,
			Stage:      line.Stage,
			Amount:     line.Amount,
		})
	}

	seatOrder := make([]int, 0, tableSize)
	for i := 1; i <= tableSize; i++ {
		seatOrder = append(seatOrder, i)
	}

	return game.Snapshot{
		TableSize:      tableSize,
		SeatOrder:      seatOrder,
		CommunityCards: board,
		ActionPosition: req.HeroPosition,
		Players:        players,
		CurrentStage:   req.Stage,
		OpponentHands:  []game.RevealedHand{},
		ActionLog:      actionLog,
	}, nil
}
