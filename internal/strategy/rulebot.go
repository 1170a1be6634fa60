package strategy

import (
	"context"
	rand "math/rand/v2"

	"github.com/charmbracelet/log"

	"github.com/rainhsu/pokertrainer/internal/game"
)

// RuleBot is the offline opponent. It plays a loose passive mix of checks,
// calls and occasional raises from a seeded RNG, so a given seed always
// produces the same table.
type RuleBot struct {
	rng    *rand.Rand
	logger *log.Logger
}

func NewRuleBot(rng *rand.Rand, logger *log.Logger) *RuleBot {
	return &RuleBot{rng: rng, logger: logger.WithPrefix("rulebot")}
}

// Decide picks an action for the current actor.
func (b *RuleBot) Decide(ctx context.Context, state game.Snapshot) (game.Action, error) {
	actor, err := actingPlayer(state)
	if err != nil {
		return game.Action{}, err
	}

	toCall := state.CurrentBet - actor.CurrentRoundBet
	roll := b.rng.Float64()

	var action game.Action
	switch {
	case toCall <= 0:
		if roll < 0.8 {
			action = game.Action{Type: game.Check}
		} else if state.CurrentBet == 0 {
			action = game.Action{Type: game.Bet, Amount: betSize(state)}
		} else {
			action = game.Action{Type: game.Raise, Amount: raiseSize(state, actor)}
		}
	case toCall >= actor.Chips:
		// Calling the rest of the stack; fold more often than not.
		if roll < 0.35 {
			action = game.Action{Type: game.Call}
		} else {
			action = game.Action{Type: game.Fold}
		}
	default:
		switch {
		case roll < 0.65:
			action = game.Action{Type: game.Call}
		case roll < 0.9:
			action = game.Action{Type: game.Fold}
		default:
			action = game.Action{Type: game.Raise, Amount: raiseSize(state, actor)}
		}
	}

	b.logger.Debug("rule decision",
		"actor", actor.Name,
		"to_call", toCall,
		"action", action.Type,
		"amount", action.Amount)
	return action, nil
}

// betSize opens for roughly half pot.
func betSize(state game.Snapshot) int {
	size := state.PotSize / 2
	if size < 100 {
		size = 100
	}
	return size
}

// raiseSize raises to two and a half times the standing bet, capped by the
// actor's stack.
func raiseSize(state game.Snapshot, actor game.PlayerState) int {
	size := state.CurrentBet * 5 / 2
	minTo, maxTo := raiseBounds(state, actor)
	if size < minTo {
		size = minTo
	}
	if size > maxTo {
		size = maxTo
	}
	return size
}
