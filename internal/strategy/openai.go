package strategy

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/charmbracelet/log"

	"github.com/rainhsu/pokertrainer/internal/game"
)

const defaultBaseURL = "https://api.openai.com/v1"

// ClientConfig carries the OpenAI-compatible endpoint settings.
type ClientConfig struct {
	APIKey  string
	Model   string
	BaseURL string
	Timeout time.Duration
}

// ConfigFromEnv reads the endpoint settings from the environment. An empty
// APIKey means no model is available and callers should run offline.
func ConfigFromEnv() ClientConfig {
	return ClientConfig{
		APIKey:  strings.TrimSpace(os.Getenv("OPENAI_API_KEY")),
		Model:   strings.TrimSpace(os.Getenv("OPENAI_MODEL")),
		BaseURL: strings.TrimSpace(os.Getenv("OPENAI_BASE_URL")),
	}
}

// Client talks to an OpenAI-compatible chat completions endpoint, asking for
// structured JSON so responses coerce cleanly into engine actions.
type Client struct {
	cfg    ClientConfig
	http   *http.Client
	logger *log.Logger
}

// NewClient builds a client, or returns nil when no key is configured so the
// caller can fall back to offline behaviour.
func NewClient(cfg ClientConfig, logger *log.Logger) *Client {
	if cfg.APIKey == "" {
		return nil
	}
	if cfg.Model == "" {
		cfg.Model = "gpt-4o-mini"
	}
	if cfg.BaseURL == "" {
		cfg.BaseURL = defaultBaseURL
	}
	cfg.BaseURL = strings.TrimRight(cfg.BaseURL, "/")
	if cfg.Timeout <= 0 {
		cfg.Timeout = 45 * time.Second
	}
	return &Client{
		cfg:    cfg,
		http:   &http.Client{Timeout: cfg.Timeout},
		logger: logger.WithPrefix("openai"),
	}
}

// Decide asks the model for the acting player's move.
func (c *Client) Decide(ctx context.Context, state game.Snapshot) (game.Action, error) {
	actor, err := actingPlayer(state)
	if err != nil {
		return game.Action{}, err
	}
	legal := legalActions(state, actor)
	minTo, maxTo := raiseBounds(state, actor)

	schema := map[string]any{
		"type":                 "object",
		"additionalProperties": false,
		"properties": map[string]any{
			"action": map[string]any{
				"type": "string",
				"enum": legal,
			},
			"amount": map[string]any{
				"type":        []any{"integer", "null"},
				"minimum":     minTo,
				"maximum":     maxTo,
				"description": "Bet or raise-to amount; null otherwise",
			},
		},
		"required": []string{"action"},
	}

	system := "You are a no-limit hold'em player. Choose one legal action for the hand below."
	user := describeState(state, actor.Hand)
	raw, err := c.complete(ctx, system, user, "poker_action", schema)
	if err != nil {
		return game.Action{}, err
	}

	action, err := coerceAction(raw, state, actor)
	if err != nil {
		return game.Action{}, fmt.Errorf("bad model response: %w", err)
	}
	c.logger.Debug("model decision", "actor", actor.Name, "action", action.Type, "amount", action.Amount)
	return action, nil
}

// EvaluateAction asks the model to grade a decision against an advised mix.
func (c *Client) EvaluateAction(ctx context.Context, state game.Snapshot, action game.Action) (Feedback, error) {
	actor, err := actingPlayer(state)
	if err != nil {
		return Feedback{}, err
	}

	schema := map[string]any{
		"type":                 "object",
		"additionalProperties": false,
		"properties": map[string]any{
			"user_action_correct": map[string]any{"type": "boolean"},
			"ev_loss_bb":          map[string]any{"type": "number"},
			"gto_matrix": map[string]any{
				"type": "array",
				"items": map[string]any{
					"type":                 "object",
					"additionalProperties": false,
					"properties": map[string]any{
						"action":    map[string]any{"type": "string"},
						"frequency": map[string]any{"type": "number"},
						"ev_bb":     map[string]any{"type": "number"},
					},
					"required": []string{"action", "frequency", "ev_bb"},
				},
			},
			"explanation": map[string]any{"type": "string"},
		},
		"required": []string{"user_action_correct", "ev_loss_bb", "gto_matrix", "explanation"},
	}

	system := "You are a professional poker strategy analyst. Grade the player's decision " +
		"against a balanced strategy: whether it belongs to the advised mix, the EV lost in " +
		"big blinds, the full advised action mix with frequencies and EVs, and a one-sentence reason."
	user := describeState(state, actor.Hand) +
		fmt.Sprintf("\n\nPlayer action: %s, amount %d.", action.Type, action.Amount)

	raw, err := c.complete(ctx, system, user, "gto_feedback", schema)
	if err != nil {
		return Feedback{}, err
	}

	var feedback Feedback
	if err := json.Unmarshal([]byte(raw), &feedback); err != nil {
		if cleaned := extractJSONObject(raw); cleaned != "" {
			err = json.Unmarshal([]byte(cleaned), &feedback)
		}
		if err != nil {
			return Feedback{}, fmt.Errorf("bad model response: %w", err)
		}
	}
	return feedback, nil
}

// complete posts a two-message chat completion with a strict JSON schema and
// returns the assistant text.
func (c *Client) complete(ctx context.Context, system, user, schemaName string, schema map[string]any) (string, error) {
	payload := map[string]any{
		"model": c.cfg.Model,
		"messages": []map[string]string{
			{"role": "system", "content": system},
			{"role": "user", "content": user},
		},
		"response_format": map[string]any{
			"type": "json_schema",
			"json_schema": map[string]any{
				"name":   schemaName,
				"strict": true,
				"schema": schema,
			},
		},
	}

	body, err := json.Marshal(payload)
	if err != nil {
		return "", err
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.cfg.BaseURL+"/chat/completions", bytes.NewReader(body))
	if err != nil {
		return "", err
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")
	req.Header.Set("Authorization", "Bearer "+c.cfg.APIKey)

	resp, err := c.http.Do(req)
	if err != nil {
		return "", err
	}
	defer resp.Body.Close()

	var buf bytes.Buffer
	_, _ = buf.ReadFrom(resp.Body)
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return "", fmt.Errorf("openai http %d: %s", resp.StatusCode, truncate(buf.String(), 800))
	}

	var cc struct {
		Choices []struct {
			Message struct {
				Content string `json:"content"`
			} `json:"message"`
		} `json:"choices"`
	}
	if err := json.Unmarshal(buf.Bytes(), &cc); err != nil {
		return "", err
	}
	if len(cc.Choices) == 0 {
		return "", errors.New("no choices returned")
	}
	return cc.Choices[0].Message.Content, nil
}

// coerceAction parses the model's JSON into an engine action, tolerating
// numeric amounts rendered as strings and the bet/raise mixup.
func coerceAction(raw string, state game.Snapshot, actor game.PlayerState) (game.Action, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return game.Action{}, errors.New("empty response")
	}

	var parsed map[string]any
	if err := json.Unmarshal([]byte(raw), &parsed); err != nil {
		cleaned := extractJSONObject(raw)
		if cleaned == "" {
			return game.Action{}, err
		}
		if err := json.Unmarshal([]byte(cleaned), &parsed); err != nil {
			return game.Action{}, err
		}
	}

	verb, _ := parsed["action"].(string)
	verb = strings.ToLower(strings.TrimSpace(verb))
	if verb == "bet" && state.CurrentBet > 0 {
		verb = "raise"
	}
	if verb == "raise" && state.CurrentBet == 0 {
		verb = "bet"
	}
	actionType, err := game.ParseActionType(verb)
	if err != nil {
		return game.Action{}, err
	}

	amount := 0
	switch v := parsed["amount"].(type) {
	case float64:
		amount = int(v)
	case json.Number:
		if n, err := v.Int64(); err == nil {
			amount = int(n)
		}
	case string:
		if n, err := strconv.Atoi(strings.TrimSpace(v)); err == nil {
			amount = n
		}
	}

	if actionType == game.Bet || actionType == game.Raise {
		minTo, maxTo := raiseBounds(state, actor)
		if amount == 0 {
			amount = minTo
		}
		if amount < minTo {
			amount = minTo
		}
		if amount > maxTo {
			amount = maxTo
		}
	} else {
		amount = 0
	}
	return game.Action{Type: actionType, Amount: amount}, nil
}

func extractJSONObject(s string) string {
	start := strings.Index(s, "{")
	if start < 0 {
		return ""
	}
	end := strings.LastIndex(s, "}")
	if end < start {
		return ""
	}
	return strings.TrimSpace(s[start : end+1])
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	if n <= 3 {
		return s[:n]
	}
	return s[:n-3] + "..."
}
