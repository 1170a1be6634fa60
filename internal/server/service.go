package server

import (
	"context"
	"errors"
	rand "math/rand/v2"
	"sync"

	"github.com/charmbracelet/log"

	"github.com/rainhsu/pokertrainer/internal/game"
	"github.com/rainhsu/pokertrainer/internal/history"
	"github.com/rainhsu/pokertrainer/internal/randutil"
	"github.com/rainhsu/pokertrainer/internal/strategy"
)

// AIAction is one opponent move played during auto-play.
type AIAction struct {
	Actor      string `json:"actor"`
	ActionType string `json:"action_type"`
	Amount     int    `json:"amount"`
}

// actionContext keeps the state a decision was made from, so analysis grades
// the situation the player actually saw.
type actionContext struct {
	state  game.Snapshot
	action game.Action
}

// Service owns the single training table and everything around it: opponent
// decisions, hero-action analysis, hand archiving and snapshot broadcasts.
// All table access is serialized through its mutex.
type Service struct {
	mu sync.Mutex

	cfg     GameSettings
	table   *game.Table
	bots    strategy.DecisionSource
	advisor *strategy.Advisor
	store   history.Store
	hub     *Hub
	logger  *log.Logger

	lastAction *actionContext
	archived   bool
}

func NewService(cfg GameSettings, bots strategy.DecisionSource, advisor *strategy.Advisor, store history.Store, hub *Hub, logger *log.Logger) (*Service, error) {
	s := &Service{
		cfg:     cfg,
		bots:    bots,
		advisor: advisor,
		store:   store,
		hub:     hub,
		logger:  logger.WithPrefix("service"),
	}
	table, err := s.newTable(cfg.TableSize)
	if err != nil {
		return nil, err
	}
	s.table = table
	return s, nil
}

func (s *Service) newTable(size int) (*game.Table, error) {
	var rng *rand.Rand
	if s.cfg.Seed != 0 {
		rng = randutil.New(s.cfg.Seed)
	} else {
		rng = randutil.NewFromTime()
	}
	return game.NewTable(game.Config{
		TableSize:     size,
		BigBlind:      s.cfg.BigBlind,
		StartingStack: s.cfg.StartingStack,
		HeroName:      s.cfg.HeroName,
		Logger:        s.logger,
		RNG:           rng,
	})
}

// NewHand deals a fresh hand and plays opponents forward to the hero.
func (s *Service) NewHand(ctx context.Context) (game.Snapshot, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.table.StartHand()
	s.lastAction = nil
	s.archived = false
	s.logger.Info("new hand started", "hand_id", s.table.HandID())

	s.autoPlayUntilHero(ctx)
	snap := s.table.Snapshot()
	s.hub.Broadcast(snap)
	return snap, nil
}

// SwitchTableSize rebuilds the table at the new size and deals a hand.
func (s *Service) SwitchTableSize(ctx context.Context, size int) (game.Snapshot, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	table, err := s.newTable(size)
	if err != nil {
		return game.Snapshot{}, err
	}
	s.table = table
	s.cfg.TableSize = size
	s.lastAction = nil
	s.archived = false

	s.table.StartHand()
	s.logger.Info("table size switched", "table_size", size, "hand_id", s.table.HandID())

	s.autoPlayUntilHero(ctx)
	snap := s.table.Snapshot()
	s.hub.Broadcast(snap)
	return snap, nil
}

// State returns the current redacted snapshot.
func (s *Service) State() game.Snapshot {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.table.Snapshot()
}

// SubmitAction applies the hero's action, keeps the pre-action state for
// later analysis, then plays opponents forward.
func (s *Service) SubmitAction(ctx context.Context, action game.Action) (game.Snapshot, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	before := s.table.Snapshot()
	if err := s.table.ProcessAction(action); err != nil {
		s.logger.Warn("invalid user action", "err", err, "action", action.Type, "amount", action.Amount)
		return game.Snapshot{}, err
	}
	s.lastAction = &actionContext{state: before, action: action}

	s.autoPlayUntilHero(ctx)
	snap := s.table.Snapshot()
	s.hub.Broadcast(snap)
	return snap, nil
}

// PlayAIAction advances opponents until the hero holds the action, returning
// the moves played. With the hand over, or the hero already due, it errors.
func (s *Service) PlayAIAction(ctx context.Context) ([]AIAction, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.table.HandOver() {
		return nil, errors.New("hand is over, start a new hand first")
	}
	actions := s.autoPlayUntilHero(ctx)
	if len(actions) == 0 {
		return nil, errors.New("it is the hero's turn, no AI decision needed")
	}
	s.hub.Broadcast(s.table.Snapshot())
	return actions, nil
}

// AnalyzeLastAction grades the hero's most recent submitted action.
func (s *Service) AnalyzeLastAction(ctx context.Context) (strategy.Feedback, error) {
	s.mu.Lock()
	last := s.lastAction
	s.mu.Unlock()

	if last == nil {
		return strategy.Feedback{}, errors.New("no previous action to analyze")
	}
	return s.advisor.EvaluateAction(ctx, last.state, last.action)
}

// EvaluateScenario grades a hand-built situation.
func (s *Service) EvaluateScenario(ctx context.Context, state game.Snapshot, action game.Action) (strategy.Feedback, error) {
	return s.advisor.EvaluateAction(ctx, state, action)
}

// SetHand overrides a player's hole cards preflop.
func (s *Service) SetHand(player string, cards []string) (game.Snapshot, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.table.SetPlayerHand(player, cards); err != nil {
		return game.Snapshot{}, err
	}
	snap := s.table.Snapshot()
	s.hub.Broadcast(snap)
	return snap, nil
}

// ListHistory returns stored hand summaries, newest first.
func (s *Service) ListHistory(ctx context.Context, limit, offset int) ([]history.Summary, error) {
	return s.store.ListHands(ctx, limit, offset)
}

// GetHistory returns one stored hand.
func (s *Service) GetHistory(ctx context.Context, id int64) (*history.Record, error) {
	return s.store.GetHand(ctx, id)
}

// autoPlayUntilHero plays opponent decisions until the hero holds the action
// or the hand ends. A rejected bot decision stops the loop rather than
// looping forever. Callers must hold the mutex.
func (s *Service) autoPlayUntilHero(ctx context.Context) []AIAction {
	var actions []AIAction

	for !s.table.HandOver() {
		actor := s.table.CurrentPlayer()
		if s.table.IsHero(actor) {
			break
		}

		decision, err := s.bots.Decide(ctx, s.table.Snapshot())
		if err != nil {
			s.logger.Warn("opponent decision failed", "actor", actor.Name, "err", err)
			break
		}
		if err := s.table.ProcessAction(decision); err != nil {
			s.logger.Warn("opponent action rejected",
				"actor", actor.Name,
				"action", decision.Type,
				"amount", decision.Amount,
				"err", err)
			break
		}
		actions = append(actions, AIAction{
			Actor:      actor.Name,
			ActionType: decision.Type.String(),
			Amount:     decision.Amount,
		})
		s.logger.Info("AI action processed",
			"actor", actor.Name,
			"action", decision.Type,
			"amount", decision.Amount,
			"stage", s.table.Snapshot().CurrentStage)
	}

	if s.table.HandOver() {
		s.archiveHand(ctx)
	}
	return actions
}

// archiveHand stores the finished hand once.
func (s *Service) archiveHand(ctx context.Context) {
	if s.archived {
		return
	}
	s.archived = true

	snap := s.table.Snapshot()
	id, err := s.store.SaveHand(ctx, snap)
	if err != nil {
		s.logger.Error("failed to archive hand", "hand_id", snap.HandID, "err", err)
		return
	}
	s.logger.Info("hand archived", "id", id, "hand_id", snap.HandID)
}
