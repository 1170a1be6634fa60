// Package strategy provides opponent decision making and post-hoc analysis
// of the hero's play. Decisions and analysis come from an OpenAI-compatible
// chat completions API when a key is configured, with a deterministic rule
// bot and canned feedback as the offline fallback.
package strategy

import (
	"context"
	"fmt"
	"strings"

	"github.com/charmbracelet/log"

	"github.com/rainhsu/pokertrainer/internal/deck"
	"github.com/rainhsu/pokertrainer/internal/game"
)

// DecisionSource picks an action for whoever currently holds the action.
type DecisionSource interface {
	Decide(ctx context.Context, state game.Snapshot) (game.Action, error)
}

// ActionWeight is one row of an advised strategy mix.
type ActionWeight struct {
	Action    string  `json:"action"`
	Frequency float64 `json:"frequency"`
	EVBB      float64 `json:"ev_bb"`
}

// Feedback grades a single decision against the advised mix.
type Feedback struct {
	UserActionCorrect bool           `json:"user_action_correct"`
	EVLossBB          float64        `json:"ev_loss_bb"`
	GTOMatrix         []ActionWeight `json:"gto_matrix"`
	Explanation       string         `json:"explanation"`
}

// Advisor grades decisions. With a nil client every evaluation returns the
// offline placeholder mix, and model errors degrade to it as well so the
// training loop never stalls on the API.
type Advisor struct {
	client *Client
	logger *log.Logger
}

func NewAdvisor(client *Client, logger *log.Logger) *Advisor {
	return &Advisor{client: client, logger: logger.WithPrefix("advisor")}
}

// EvaluateAction grades the given action taken from the given state.
func (a *Advisor) EvaluateAction(ctx context.Context, state game.Snapshot, action game.Action) (Feedback, error) {
	if a.client == nil {
		return offlineFeedback(), nil
	}
	feedback, err := a.client.EvaluateAction(ctx, state, action)
	if err != nil {
		a.logger.Warn("model evaluation failed, serving placeholder", "err", err)
		return offlineFeedback(), nil
	}
	return feedback, nil
}

func offlineFeedback() Feedback {
	return Feedback{
		UserActionCorrect: true,
		EVLossBB:          0,
		GTOMatrix: []ActionWeight{
			{Action: "Check", Frequency: 0.5, EVBB: 0},
			{Action: "Raise", Frequency: 0.25, EVBB: 0.1},
			{Action: "Fold", Frequency: 0.25, EVBB: -0.1},
		},
		Explanation: "Placeholder evaluation: configure an OpenAI API key for model-backed analysis.",
	}
}

// actingPlayer finds the snapshot entry holding the action.
func actingPlayer(state game.Snapshot) (game.PlayerState, error) {
	for _, p := range state.Players {
		if p.Position == state.ActionPosition {
			return p, nil
		}
	}
	return game.PlayerState{}, fmt.Errorf("no player at position %q", state.ActionPosition)
}

// describeState renders the situation as prompt text.
func describeState(state game.Snapshot, hand []deck.Card) string {
	board := cardList(state.CommunityCards)
	if board == "" {
		board = "none"
	}
	cards := cardList(hand)
	if cards == "" {
		cards = "unknown"
	}

	var b strings.Builder
	fmt.Fprintf(&b, "The pot is %d.\n", state.PotSize)
	fmt.Fprintf(&b, "Board: %s\n", board)
	fmt.Fprintf(&b, "Your hand: %s\n", cards)
	fmt.Fprintf(&b, "Position: %s\n", state.ActionPosition)
	fmt.Fprintf(&b, "Stage: %s\n", state.CurrentStage)
	fmt.Fprintf(&b, "The current bet to match is %d.", state.CurrentBet)
	return b.String()
}

func cardList(cards []deck.Card) string {
	tokens := make([]string, 0, len(cards))
	for _, c := range cards {
		tokens = append(tokens, c.String())
	}
	return strings.Join(tokens, " ")
}

// legalActions lists the verbs open to the actor, lowercased for the model.
func legalActions(state game.Snapshot, actor game.PlayerState) []string {
	toCall := state.CurrentBet - actor.CurrentRoundBet
	actions := []string{"fold"}
	if toCall > 0 {
		actions = append(actions, "call")
	} else {
		actions = append(actions, "check")
	}
	if actor.Chips > 0 {
		if state.CurrentBet == 0 {
			actions = append(actions, "bet")
		} else {
			actions = append(actions, "raise")
		}
		actions = append(actions, "allin")
	}
	return actions
}

// raiseBounds returns the legal raise-to window for the actor.
func raiseBounds(state game.Snapshot, actor game.PlayerState) (minTo, maxTo int) {
	minTo = state.CurrentBet * 2
	if minTo <= state.CurrentBet {
		minTo = state.CurrentBet + 1
	}
	maxTo = actor.Chips + actor.CurrentRoundBet
	if minTo > maxTo {
		minTo = maxTo
	}
	return minTo, maxTo
}
