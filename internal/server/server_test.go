package server

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/charmbracelet/log"
	"github.com/coder/quartz"
	"github.com/gorilla/websocket"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rainhsu/pokertrainer/internal/game"
	"github.com/rainhsu/pokertrainer/internal/history"
	"github.com/rainhsu/pokertrainer/internal/randutil"
	"github.com/rainhsu/pokertrainer/internal/strategy"
)

type testServer struct {
	*httptest.Server
	svc *Service
}

func newTestServer(t *testing.T, seed int64) *testServer {
	t.Helper()

	logger := log.New(io.Discard)
	hub := NewHub(logger)
	store := history.NewMemoryStore(quartz.NewMock(t))
	bots := strategy.NewRuleBot(randutil.New(seed+1000), logger)
	advisor := strategy.NewAdvisor(nil, logger)

	svc, err := NewService(GameSettings{
		TableSize:     6,
		BigBlind:      100,
		StartingStack: 10000,
		Seed:          seed,
		HeroName:      "hero",
	}, bots, advisor, store, hub, logger)
	require.NoError(t, err)

	srv := httptest.NewServer(Router(svc, hub, ""))
	t.Cleanup(srv.Close)
	return &testServer{Server: srv, svc: svc}
}

func (ts *testServer) postJSON(t *testing.T, path string, body any) (*http.Response, []byte) {
	t.Helper()
	var reader io.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(payload)
	}
	resp, err := ts.Client().Post(ts.URL+path, "application/json", reader)
	require.NoError(t, err)
	defer resp.Body.Close()
	data, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	return resp, data
}

func (ts *testServer) getJSON(t *testing.T, path string) (*http.Response, []byte) {
	t.Helper()
	resp, err := ts.Client().Get(ts.URL + path)
	require.NoError(t, err)
	defer resp.Body.Close()
	data, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	return resp, data
}

// liveHand deals hands until one pauses on the hero's turn. Opponents can
// fold a hand away before the hero acts, so retry a few deals.
func (ts *testServer) liveHand(t *testing.T) game.Snapshot {
	t.Helper()
	for i := 0; i < 10; i++ {
		resp, data := ts.postJSON(t, "/api/new_hand", nil)
		require.Equal(t, http.StatusOK, resp.StatusCode)

		var snap game.Snapshot
		require.NoError(t, json.Unmarshal(data, &snap))
		if !snap.HandOver {
			return snap
		}
	}
	t.Fatal("no hand paused on the hero after 10 deals")
	return game.Snapshot{}
}

func heroState(t *testing.T, snap game.Snapshot) game.PlayerState {
	t.Helper()
	for _, p := range snap.Players {
		if strings.EqualFold(p.Name, "hero") {
			return p
		}
	}
	t.Fatal("hero missing from snapshot")
	return game.PlayerState{}
}

func TestHealthEndpoint(t *testing.T) {
	t.Parallel()

	ts := newTestServer(t, 1)
	resp, data := ts.getJSON(t, "/api/health")
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.JSONEq(t, `{"ok": true}`, string(data))
}

func TestNewHandPausesOnHeroWithRedactedState(t *testing.T) {
	t.Parallel()

	ts := newTestServer(t, 2)
	snap := ts.liveHand(t)

	assert.NotEmpty(t, snap.HandID)
	assert.Equal(t, 6, snap.TableSize)
	assert.Empty(t, snap.OpponentHands)

	hero := heroState(t, snap)
	assert.Equal(t, hero.Position, snap.ActionPosition, "auto-play should stop on the hero")
	assert.Len(t, hero.Hand, 2)

	for _, p := range snap.Players {
		if strings.EqualFold(p.Name, "hero") {
			continue
		}
		assert.Empty(t, p.Hand, "opponent %s cards leaked", p.Name)
	}
}

func TestStateEndpointMatchesTable(t *testing.T) {
	t.Parallel()

	ts := newTestServer(t, 3)
	dealt := ts.liveHand(t)

	resp, data := ts.getJSON(t, "/api/state")
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var snap game.Snapshot
	require.NoError(t, json.Unmarshal(data, &snap))
	assert.Equal(t, dealt.HandID, snap.HandID)
	assert.Equal(t, dealt.PotSize, snap.PotSize)
}

func TestActionEndpointLegality(t *testing.T) {
	t.Parallel()

	ts := newTestServer(t, 4)
	snap := ts.liveHand(t)
	hero := heroState(t, snap)
	toCall := snap.CurrentBet - hero.CurrentRoundBet

	// The wrong passive verb for the spot must 400 without changing state.
	wrong := "call"
	if toCall > 0 {
		wrong = "check"
	}
	resp, data := ts.postJSON(t, "/api/action", UserAction{ActionType: wrong})
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	assert.Contains(t, string(data), "detail")

	_, after := ts.getJSON(t, "/api/state")
	var unchanged game.Snapshot
	require.NoError(t, json.Unmarshal(after, &unchanged))
	assert.Equal(t, snap.PotSize, unchanged.PotSize)

	// The right verb succeeds.
	right := "check"
	if toCall > 0 {
		right = "call"
	}
	resp, _ = ts.postJSON(t, "/api/action", UserAction{ActionType: right})
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	// Unknown verbs are rejected before reaching the table.
	resp, _ = ts.postJSON(t, "/api/action", UserAction{ActionType: "limp"})
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
}

func TestAIActionOnHeroTurnIsRejected(t *testing.T) {
	t.Parallel()

	ts := newTestServer(t, 5)
	ts.liveHand(t)

	// Auto-play already ran the opponents up to the hero.
	resp, _ := ts.postJSON(t, "/api/ai_action", nil)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
}

func TestSetHandEndpoint(t *testing.T) {
	t.Parallel()

	ts := newTestServer(t, 6)
	ts.liveHand(t)

	resp, data := ts.postJSON(t, "/api/set_hand", SetHandRequest{
		PlayerName: "hero",
		Cards:      []string{"As", "Ks"},
	})
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var snap game.Snapshot
	require.NoError(t, json.Unmarshal(data, &snap))
	hero := heroState(t, snap)
	require.Len(t, hero.Hand, 2)
	assert.Equal(t, "As", hero.Hand[0].String())
	assert.Equal(t, "Ks", hero.Hand[1].String())

	// Malformed cards are rejected.
	resp, _ = ts.postJSON(t, "/api/set_hand", SetHandRequest{
		PlayerName: "hero",
		Cards:      []string{"Zz", "Ks"},
	})
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
}

func TestAnalyzeLastAction(t *testing.T) {
	t.Parallel()

	ts := newTestServer(t, 7)

	// Nothing to analyze before the hero has acted.
	resp, _ := ts.getJSON(t, "/api/analyze_last_action")
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)

	snap := ts.liveHand(t)
	hero := heroState(t, snap)
	verb := "check"
	if snap.CurrentBet-hero.CurrentRoundBet > 0 {
		verb = "call"
	}
	resp, _ = ts.postJSON(t, "/api/action", UserAction{ActionType: verb})
	require.Equal(t, http.StatusOK, resp.StatusCode)

	resp, data := ts.getJSON(t, "/api/analyze_last_action")
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var feedback strategy.Feedback
	require.NoError(t, json.Unmarshal(data, &feedback))
	assert.True(t, feedback.UserActionCorrect)
	assert.NotEmpty(t, feedback.GTOMatrix)
}

func TestScenarioEvaluate(t *testing.T) {
	t.Parallel()

	ts := newTestServer(t, 8)

	scenario := ScenarioRequest{
		Stage:        "flop",
		HeroPosition: "CO",
		HeroHand:     []string{"Ah", "Kh"},
		CommunityCards: []string{
			"Qh", "Jh", "2c",
		},
		Opponents: []ScenarioOpponent{
			{Name: "Villain", Position: "BB"},
		},
		ActionLines: []ScenarioActionLine{
			{Name: "Villain", Position: "BB", Action: "Check", Stage: "flop", Amount: 0},
		},
		HeroAction: game.Action{Type: game.Bet, Amount: 150},
	}
	resp, data := ts.postJSON(t, "/api/scenario_evaluate", scenario)
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var feedback strategy.Feedback
	require.NoError(t, json.Unmarshal(data, &feedback))
	assert.NotEmpty(t, feedback.Explanation)

	// A malformed card in the scenario is a client error.
	scenario.HeroHand = []string{"Ah", "Xx"}
	resp, _ = ts.postJSON(t, "/api/scenario_evaluate", scenario)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
}

func TestTableSizeSwitch(t *testing.T) {
	t.Parallel()

	ts := newTestServer(t, 9)

	resp, data := ts.postJSON(t, "/api/table_size", TableSizeRequest{TableSize: 9})
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var snap game.Snapshot
	require.NoError(t, json.Unmarshal(data, &snap))
	assert.Equal(t, 9, snap.TableSize)
	assert.Len(t, snap.Players, 9)

	resp, _ = ts.postJSON(t, "/api/table_size", TableSizeRequest{TableSize: 5})
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
}

func TestHistoryEndpoints(t *testing.T) {
	t.Parallel()

	ts := newTestServer(t, 10)

	// Finish a hand by folding the hero; the service archives it.
	ts.liveHand(t)
	resp, _ := ts.postJSON(t, "/api/action", UserAction{ActionType: "fold"})
	require.Equal(t, http.StatusOK, resp.StatusCode)

	resp, data := ts.getJSON(t, "/api/history")
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var summaries []history.Summary
	require.NoError(t, json.Unmarshal(data, &summaries))
	require.NotEmpty(t, summaries)
	require.NotNil(t, summaries[0].HandResult)

	resp, data = ts.getJSON(t, fmt.Sprintf("/api/history/%d", summaries[0].ID))
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var record history.Record
	require.NoError(t, json.Unmarshal(data, &record))
	assert.True(t, record.State.HandOver)
	assert.NotEmpty(t, record.State.HandID)

	resp, _ = ts.getJSON(t, "/api/history/99999")
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
}

func TestWebsocketReceivesStateBroadcasts(t *testing.T) {
	t.Parallel()

	ts := newTestServer(t, 11)

	wsURL := "ws" + strings.TrimPrefix(ts.URL, "http") + "/ws"
	conn, resp, err := websocket.DefaultDialer.Dial(wsURL, nil)
	require.NoError(t, err)
	if resp != nil {
		resp.Body.Close()
	}
	defer conn.Close()

	// Give the hub a beat to register the viewer, then deal.
	require.Eventually(t, func() bool { return ts.svc.hub.Viewers() == 1 },
		time.Second, 10*time.Millisecond)
	ts.postJSON(t, "/api/new_hand", nil)

	require.NoError(t, conn.SetReadDeadline(time.Now().Add(2*time.Second)))
	var msg StateMessage
	require.NoError(t, conn.ReadJSON(&msg))
	assert.Equal(t, "state", msg.Type)
	assert.NotEmpty(t, msg.State.HandID)
}
