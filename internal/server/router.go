package server

import (
	"encoding/json"
	"errors"
	"net/http"
	"os"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/rainhsu/pokertrainer/internal/game"
	"github.com/rainhsu/pokertrainer/internal/history"
)

// UserAction is the request body for a hero action.
type UserAction struct {
	ActionType string `json:"action_type"`
	Amount     int    `json:"amount"`
}

// SetHandRequest overrides a player's hole cards.
type SetHandRequest struct {
	PlayerName string   `json:"player_name"`
	Cards      []string `json:"cards"`
}

// TableSizeRequest switches the table between 6-max and 9-max.
type TableSizeRequest struct {
	TableSize int `json:"table_size"`
}

// Router builds the HTTP surface over the service: the JSON API, the
// websocket state stream and the static training UI when one is configured.
func Router(svc *Service, hub *Hub, staticDir string) http.Handler {
	r := chi.NewRouter()

	r.Get("/api/health", func(w http.ResponseWriter, req *http.Request) {
		writeJSON(w, http.StatusOK, map[string]any{"ok": true})
	})

	r.Post("/api/new_hand", func(w http.ResponseWriter, req *http.Request) {
		snap, err := svc.NewHand(req.Context())
		if err != nil {
			writeError(w, http.StatusInternalServerError, err)
			return
		}
		writeJSON(w, http.StatusOK, snap)
	})

	r.Post("/api/table_size", func(w http.ResponseWriter, req *http.Request) {
		var body TableSizeRequest
		if err := json.NewDecoder(req.Body).Decode(&body); err != nil {
			writeError(w, http.StatusBadRequest, err)
			return
		}
		snap, err := svc.SwitchTableSize(req.Context(), body.TableSize)
		if err != nil {
			writeError(w, http.StatusBadRequest, err)
			return
		}
		writeJSON(w, http.StatusOK, snap)
	})

	r.Get("/api/state", func(w http.ResponseWriter, req *http.Request) {
		writeJSON(w, http.StatusOK, svc.State())
	})

	r.Post("/api/action", func(w http.ResponseWriter, req *http.Request) {
		var body UserAction
		if err := json.NewDecoder(req.Body).Decode(&body); err != nil {
			writeError(w, http.StatusBadRequest, err)
			return
		}
		actionType, err := game.ParseActionType(body.ActionType)
		if err != nil {
			writeError(w, http.StatusBadRequest, err)
			return
		}
		snap, err := svc.SubmitAction(req.Context(), game.Action{Type: actionType, Amount: body.Amount})
		if err != nil {
			writeError(w, http.StatusBadRequest, err)
			return
		}
		writeJSON(w, http.StatusOK, map[string]any{
			"success": true,
			"state":   snap,
		})
	})

	r.Post("/api/ai_action", func(w http.ResponseWriter, req *http.Request) {
		actions, err := svc.PlayAIAction(req.Context())
		if err != nil {
			writeError(w, http.StatusBadRequest, err)
			return
		}
		writeJSON(w, http.StatusOK, actions[len(actions)-1])
	})

	r.Get("/api/analyze_last_action", func(w http.ResponseWriter, req *http.Request) {
		feedback, err := svc.AnalyzeLastAction(req.Context())
		if err != nil {
			writeError(w, http.StatusBadRequest, err)
			return
		}
		writeJSON(w, http.StatusOK, feedback)
	})

	r.Post("/api/scenario_evaluate", func(w http.ResponseWriter, req *http.Request) {
		var body ScenarioRequest
		if err := json.NewDecoder(req.Body).Decode(&body); err != nil {
			writeError(w, http.StatusBadRequest, err)
			return
		}
		state, err := buildScenarioState(body)
		if err != nil {
			writeError(w, http.StatusBadRequest, err)
			return
		}
		feedback, err := svc.EvaluateScenario(req.Context(), state, body.HeroAction)
		if err != nil {
			writeError(w, http.StatusInternalServerError, err)
			return
		}
		writeJSON(w, http.StatusOK, feedback)
	})

	r.Post("/api/set_hand", func(w http.ResponseWriter, req *http.Request) {
		var body SetHandRequest
		if err := json.NewDecoder(req.Body).Decode(&body); err != nil {
			writeError(w, http.StatusBadRequest, err)
			return
		}
		snap, err := svc.SetHand(body.PlayerName, body.Cards)
		if err != nil {
			writeError(w, http.StatusBadRequest, err)
			return
		}
		writeJSON(w, http.StatusOK, snap)
	})

	r.Get("/api/history", func(w http.ResponseWriter, req *http.Request) {
		limit := queryInt(req, "limit", 20)
		offset := queryInt(req, "offset", 0)
		summaries, err := svc.ListHistory(req.Context(), limit, offset)
		if err != nil {
			writeError(w, http.StatusInternalServerError, err)
			return
		}
		if summaries == nil {
			summaries = []history.Summary{}
		}
		writeJSON(w, http.StatusOK, summaries)
	})

	r.Get("/api/history/{id}", func(w http.ResponseWriter, req *http.Request) {
		id, err := strconv.ParseInt(chi.URLParam(req, "id"), 10, 64)
		if err != nil {
			writeError(w, http.StatusBadRequest, errors.New("bad hand id"))
			return
		}
		record, err := svc.GetHistory(req.Context(), id)
		if errors.Is(err, history.ErrNotFound) {
			writeError(w, http.StatusNotFound, err)
			return
		}
		if err != nil {
			writeError(w, http.StatusInternalServerError, err)
			return
		}
		writeJSON(w, http.StatusOK, record)
	})

	r.Get("/ws", hub.ServeWS)

	if staticDir != "" {
		if _, err := os.Stat(staticDir); err == nil {
			fileServer := http.FileServer(http.Dir(staticDir))
			r.Handle("/*", fileServer)
		}
	}

	return r
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, err error) {
	writeJSON(w, status, map[string]string{"detail": err.Error()})
}

func queryInt(req *http.Request, key string, fallback int) int {
	raw := req.URL.Query().Get(key)
	if raw == "" {
		return fallback
	}
	n, err := strconv.Atoi(raw)
	if err != nil {
		return fallback
	}
	return n
}
