package api

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/battlesnakeio/nol/board"
	"github.com/battlesnakeio/nol/brain"
	"github.com/battlesnakeio/nol/rules"
	"github.com/battlesnakeio/nol/store"
	"github.com/gorilla/websocket"
	"github.com/stretchr/testify/require"
	"golang.org/x/time/rate"
)

type MockStore struct {
	store.Store

	Error error
}

func (ms *MockStore) CreateGame(ctx context.Context, id string) error { return ms.Error }

func (ms *MockStore) PushTurn(ctx context.Context, id string, t *store.Turn) error { return ms.Error }

func (ms *MockStore) EndGame(ctx context.Context, id string) error { return ms.Error }

func (ms *MockStore) GetGame(ctx context.Context, id string) (*store.Game, error) {
	return nil, ms.Error
}

var testInfo = SnakeInfo{Name: "nol", Color: "#fe642e", Head: "smile", Tail: "round-bum", Taunt: "Nöl!"}

func createAPIServer(opts ...Option) (*Server, store.Store) {
	st := store.InMemStore()
	opts = append([]Option{WithStore(st), WithSnakeInfo(testInfo)}, opts...)
	s := New(":1234", brain.New(brain.DefaultWeights()), opts...)
	return s, st
}

func do(s *Server, method, path, body string) *httptest.ResponseRecorder {
	var buf *bytes.Buffer
	if body == "" {
		buf = &bytes.Buffer{}
	} else {
		buf = bytes.NewBufferString(body)
	}
	req, _ := http.NewRequest(method, path, buf)
	rr := httptest.NewRecorder()
	s.hs.Handler.ServeHTTP(rr, req)
	return rr
}

// moveBody is a 6x4 board with a wall, one food next to the head and an
// opponent in the lower right:
//
//	    #
//	 A*
//	 a  Bb
const moveBody = `{
	"game": {"id": "game_123"},
	"turn": 3,
	"board": {
		"width": 6,
		"height": 4,
		"food": [{"x": 2, "y": 1}],
		"hazards": [{"x": 4, "y": 0}],
		"snakes": [
			{"id": "me", "health": 90, "body": [{"x": 1, "y": 1}, {"x": 1, "y": 2}]},
			{"id": "them", "health": 90, "body": [{"x": 4, "y": 2}, {"x": 5, "y": 2}]}
		]
	},
	"you": {"id": "me", "health": 90, "body": [{"x": 1, "y": 1}, {"x": 1, "y": 2}]}
}`

func TestIndex(t *testing.T) {
	s, _ := createAPIServer()

	rr := do(s, "GET", "/", "")
	require.Equal(t, http.StatusOK, rr.Code)

	info := rules.InfoResponse{}
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &info))
	require.Equal(t, "#fe642e", info.Color)
	require.Equal(t, "smile", info.Head)
}

func TestCORS(t *testing.T) {
	s, _ := createAPIServer()

	req, _ := http.NewRequest("GET", "/", nil)
	req.Header.Set("Origin", "http://board.example.com")
	rr := httptest.NewRecorder()
	s.hs.Handler.ServeHTTP(rr, req)

	require.Equal(t, http.StatusOK, rr.Code)
	require.NotEmpty(t, rr.Header().Get("Access-Control-Allow-Origin"))
}

func TestPing(t *testing.T) {
	s, _ := createAPIServer()

	require.Equal(t, http.StatusOK, do(s, "GET", "/ping", "").Code)
	require.Equal(t, http.StatusOK, do(s, "POST", "/ping", "").Code)
}

func TestStart(t *testing.T) {
	s, st := createAPIServer()

	rr := do(s, "POST", "/start", `{"game": {"id": "abc_123"}}`)
	require.Equal(t, http.StatusOK, rr.Code)

	resp := rules.StartResponse{}
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &resp))
	require.Equal(t, "#fe642e", resp.Color)
	require.Equal(t, "round-bum", resp.TailType)

	g, err := st.GetGame(context.Background(), "abc_123")
	require.NoError(t, err)
	require.Equal(t, 0, g.Turns)
}

func TestStartInvalid(t *testing.T) {
	s, _ := createAPIServer()
	require.Equal(t, http.StatusBadRequest, do(s, "POST", "/start", "{").Code)
}

func TestMove(t *testing.T) {
	s, st := createAPIServer()

	rr := do(s, "POST", "/move", moveBody)
	require.Equal(t, http.StatusOK, rr.Code)

	resp := rules.MoveResponse{}
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &resp))
	require.Equal(t, "right", resp.Move)
	require.Equal(t, "Nöl!", resp.Shout)

	turns, err := st.ListTurns(context.Background(), "game_123", 10, 0)
	require.NoError(t, err)
	require.Len(t, turns, 1)
	require.Equal(t, 3, turns[0].Turn)
	require.Equal(t, board.Right, turns[0].Move)
	require.Equal(t, 90, turns[0].TurnsUntilStarved)
	require.Equal(t, "    # \n A*   \n a  Bb\n      \n", turns[0].Board)
}

func TestMoveLegacy(t *testing.T) {
	s, _ := createAPIServer()

	rr := do(s, "POST", "/move", `{
		"game_id": "legacy",
		"turn": 1,
		"width": 3,
		"height": 1,
		"food": [],
		"snakes": [{"id": "x", "name": "nol", "coords": [[0, 0]], "last_eaten": 0}]
	}`)
	require.Equal(t, http.StatusOK, rr.Code)

	resp := rules.MoveResponse{}
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &resp))
	require.Equal(t, "right", resp.Move)
}

func TestMoveInvalid(t *testing.T) {
	s, _ := createAPIServer()

	tests := []struct {
		name string
		body string
	}{
		{"not json", "{"},
		{"no you", `{"board": {"width": 3, "height": 3}}`},
		{"no head", `{"board": {"width": 3, "height": 3}, "you": {"id": "me", "body": []}}`},
		{"out of bounds", `{"board": {"width": 3, "height": 3}, "you": {"id": "me", "body": [{"x": 5, "y": 0}]}}`},
		{"legacy without self", `{"width": 3, "height": 1, "snakes": [{"name": "other", "coords": [[0, 0]]}]}`},
	}

	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			rr := do(s, "POST", "/move", test.body)
			require.Equal(t, http.StatusBadRequest, rr.Code)
			require.Contains(t, rr.Body.String(), "error")
		})
	}
}

func TestMoveRateLimited(t *testing.T) {
	s, _ := createAPIServer(WithRateLimit(rate.NewLimiter(rate.Every(time.Hour), 1)))

	require.Equal(t, http.StatusOK, do(s, "POST", "/move", moveBody).Code)
	require.Equal(t, http.StatusTooManyRequests, do(s, "POST", "/move", moveBody).Code)
}

func TestMoveStoreFailure(t *testing.T) {
	s, _ := createAPIServer(WithStore(&MockStore{Error: errors.New("store down")}))

	rr := do(s, "POST", "/move", moveBody)
	require.Equal(t, http.StatusOK, rr.Code)
	require.Contains(t, rr.Body.String(), `"move":"right"`)
}

func TestEnd(t *testing.T) {
	s, st := createAPIServer()

	require.Equal(t, http.StatusOK, do(s, "POST", "/start", `{"game": {"id": "abc_123"}}`).Code)
	require.Equal(t, http.StatusOK, do(s, "POST", "/end", `{"game": {"id": "abc_123"}}`).Code)

	g, err := st.GetGame(context.Background(), "abc_123")
	require.NoError(t, err)
	require.True(t, g.Ended)

	// Ending a game that was never seen is fine.
	require.Equal(t, http.StatusOK, do(s, "POST", "/end", `{"game": {"id": "unknown"}}`).Code)
}

func TestGame(t *testing.T) {
	s, _ := createAPIServer()

	require.Equal(t, http.StatusOK, do(s, "POST", "/move", moveBody).Code)

	rr := do(s, "GET", "/games/game_123", "")
	require.Equal(t, http.StatusOK, rr.Code)

	status := GameStatus{}
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &status))
	require.Equal(t, "game_123", status.Game.ID)
	require.Equal(t, 1, status.Game.Turns)
	require.Len(t, status.Turns, 1)
	require.Len(t, status.Turns[0].Scores, 4)

	require.Equal(t, http.StatusNotFound, do(s, "GET", "/games/missing", "").Code)
	require.Equal(t, http.StatusBadRequest, do(s, "GET", "/games/game_123?limit=lots", "").Code)
	require.Equal(t, http.StatusBadRequest, do(s, "GET", "/games/game_123?offset=x", "").Code)
}

func TestGameStoreFailure(t *testing.T) {
	s, _ := createAPIServer(WithStore(&MockStore{Error: errors.New("store down")}))
	require.Equal(t, http.StatusInternalServerError, do(s, "GET", "/games/game_123", "").Code)
}

func TestSocket(t *testing.T) {
	s, st := createAPIServer()
	ctx := context.Background()

	for i := 0; i < 3; i++ {
		require.NoError(t, st.PushTurn(ctx, "g1", &store.Turn{GameID: "g1", Turn: i, Move: board.Up}))
	}
	require.NoError(t, st.EndGame(ctx, "g1"))

	ts := httptest.NewServer(s.hs.Handler)
	defer ts.Close()

	u := "ws" + strings.TrimPrefix(ts.URL, "http") + "/socket/g1"
	c, _, err := websocket.DefaultDialer.Dial(u, nil)
	require.NoError(t, err)
	defer c.Close()

	for i := 0; i < 3; i++ {
		turn := &store.Turn{}
		require.NoError(t, c.ReadJSON(turn))
		require.Equal(t, i, turn.Turn)
		require.Equal(t, board.Up, turn.Move)
	}

	_, _, err = c.ReadMessage()
	require.True(t, websocket.IsCloseError(err, websocket.CloseNormalClosure), "%v", err)
}

func TestSocketFollowsRunningGame(t *testing.T) {
	SocketPollInterval = 10 * time.Millisecond
	defer func() { SocketPollInterval = 250 * time.Millisecond }()

	s, st := createAPIServer()
	ctx := context.Background()
	require.NoError(t, st.PushTurn(ctx, "g2", &store.Turn{GameID: "g2", Turn: 0}))

	ts := httptest.NewServer(s.hs.Handler)
	defer ts.Close()

	u := "ws" + strings.TrimPrefix(ts.URL, "http") + "/socket/g2"
	c, _, err := websocket.DefaultDialer.Dial(u, nil)
	require.NoError(t, err)
	defer c.Close()

	turn := &store.Turn{}
	require.NoError(t, c.ReadJSON(turn))
	require.Equal(t, 0, turn.Turn)

	require.NoError(t, st.PushTurn(ctx, "g2", &store.Turn{GameID: "g2", Turn: 1}))
	require.NoError(t, st.EndGame(ctx, "g2"))

	require.NoError(t, c.ReadJSON(turn))
	require.Equal(t, 1, turn.Turn)

	_, _, err = c.ReadMessage()
	require.True(t, websocket.IsCloseError(err, websocket.CloseNormalClosure), "%v", err)
}

func TestSocketMissingGame(t *testing.T) {
	s, _ := createAPIServer()
	require.Equal(t, http.StatusNotFound, do(s, "GET", "/socket/missing", "").Code)
}

func TestDecisionMetrics(t *testing.T) {
	g, err := board.ParseLines(" A ", " a ")
	require.NoError(t, err)

	e := brain.New(brain.DefaultWeights(), brain.WithObserver(DecisionMetrics))
	d := e.EvaluateGrid(g, 100)
	require.Equal(t, board.Left, d.Move)
}
