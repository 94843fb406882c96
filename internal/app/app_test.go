package app

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strconv"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/websocket"
	"github.com/sirupsen/logrus/hooks/test"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vancomm/minesweeper-engine/internal/config"
	"github.com/vancomm/minesweeper-engine/internal/handlers"
	"github.com/vancomm/minesweeper-engine/internal/mines"
)

func setupTestServer(t *testing.T) *httptest.Server {
	t.Helper()
	logger, _ := test.NewNullLogger()
	cfg := &config.Config{
		Mode: "development",
		JWT:  config.JWTConfig{Secret: "test secret", TokenLifetime: time.Hour},
		Game: config.GameConfig{MaxSize: 32, SafeZone: mines.DefaultSafeZone},
	}
	a, err := New(cfg, logger)
	require.NoError(t, err)
	srv := httptest.NewServer(a.Handler())
	t.Cleanup(srv.Close)
	return srv
}

func do(t *testing.T, method, url, token, body string, v any) int {
	t.Helper()
	req, err := http.NewRequest(method, url, strings.NewReader(body))
	require.NoError(t, err)
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	resp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	defer resp.Body.Close()
	if v != nil {
		require.NoError(t, json.NewDecoder(resp.Body).Decode(v))
	}
	return resp.StatusCode
}

func newGame(t *testing.T, srv *httptest.Server, query string) handlers.NewGameDTO {
	t.Helper()
	var created handlers.NewGameDTO
	status := do(t, http.MethodPost, srv.URL+"/game?"+query, "", "", &created)
	require.Equal(t, http.StatusOK, status)
	require.NotEmpty(t, created.Token)
	return created
}

type errorBody struct {
	Error string `json:"error"`
	Line  int    `json:"line"`
}

func TestGameLifecycle(t *testing.T) {
	srv := setupTestServer(t)
	created := newGame(t, srv, "size=10&mine_count=15")
	id := created.Game.GameID
	game := srv.URL + "/game/" + id

	assert.Equal(t, mines.Playing, created.Game.Status)
	assert.Equal(t, 10, created.Game.Size)
	assert.Equal(t, 15, created.Game.MineCount)
	assert.Equal(t, mines.DefaultSafeZone, created.Game.SafeZone)
	require.Len(t, created.Game.Grid, 100)
	for _, s := range created.Game.Grid {
		assert.Equal(t, mines.Unknown, s)
	}

	var fetched handlers.GameSessionDTO
	assert.Equal(t, http.StatusOK, do(t, http.MethodGet, game, "", "", &fetched))
	assert.Equal(t, id, fetched.GameID)

	assert.Equal(t, http.StatusUnauthorized,
		do(t, http.MethodPost, game+"/move?move=open&row=5&col=5", "", "", nil))

	other := newGame(t, srv, "size=4&mine_count=2")
	assert.Equal(t, http.StatusUnauthorized,
		do(t, http.MethodPost, game+"/move?move=open&row=5&col=5", other.Token, "", nil))

	var moved handlers.MoveResultDTO
	status := do(t, http.MethodPost, game+"/move?move=open&row=5&col=5", created.Token, "", &moved)
	require.Equal(t, http.StatusOK, status)
	assert.NotEqual(t, mines.Lost, moved.Result.Status)
	assert.NotEmpty(t, moved.Result.Changed)
	assert.NotEqual(t, mines.Unknown, moved.Game.Grid[55])

	var flagged handlers.MoveResultDTO
	var target mines.Point
	for i, s := range moved.Game.Grid {
		if s == mines.Unknown {
			target = mines.Point{Row: i / 10, Col: i % 10}
			break
		}
	}
	url := game + "/move?move=flag&row=" + strconv.Itoa(target.Row) + "&col=" + strconv.Itoa(target.Col)
	require.Equal(t, http.StatusOK, do(t, http.MethodPost, url, created.Token, "", &flagged))
	assert.Equal(t, 1, flagged.Game.Flags)
	assert.Equal(t, mines.Flagged, flagged.Game.Grid[target.Row*10+target.Col])

	var forfeited handlers.MoveResultDTO
	status = do(t, http.MethodPost, game+"/forfeit", created.Token, "", &forfeited)
	require.Equal(t, http.StatusOK, status)
	assert.Equal(t, mines.Lost, forfeited.Result.Status)
	assert.True(t, forfeited.Result.Ended)
	assert.NotNil(t, forfeited.Game.EndedAt)
	mineCells := 0
	for _, s := range forfeited.Game.Grid {
		if s == mines.Mine {
			mineCells++
		}
	}
	assert.Equal(t, 15, mineCells)
}

func TestMoveValidation(t *testing.T) {
	srv := setupTestServer(t)
	created := newGame(t, srv, "size=5&mine_count=3")
	game := srv.URL + "/game/" + created.Game.GameID

	var body errorBody
	assert.Equal(t, http.StatusBadRequest,
		do(t, http.MethodPost, game+"/move?move=jump&row=1&col=1", created.Token, "", &body))
	assert.Contains(t, body.Error, "jump")

	assert.Equal(t, http.StatusBadRequest,
		do(t, http.MethodPost, game+"/move?move=open&row=5&col=1", created.Token, "", &body))
	assert.Contains(t, body.Error, "outside")

	assert.Equal(t, http.StatusBadRequest,
		do(t, http.MethodPost, game+"/move?move=open", created.Token, "", nil))

	assert.Equal(t, http.StatusNotFound,
		do(t, http.MethodGet, srv.URL+"/game/missing", "", "", nil))
}

func TestNewGameValidation(t *testing.T) {
	srv := setupTestServer(t)

	tests := []struct {
		query  string
		status int
	}{
		{"size=33&mine_count=1", http.StatusBadRequest},
		{"size=3&mine_count=9", http.StatusBadRequest},
		{"size=0&mine_count=0", http.StatusBadRequest},
		{"size=3", http.StatusBadRequest},
		{"size=x&mine_count=1", http.StatusBadRequest},
		{"size=3&mine_count=1&safe_zone=-2", http.StatusBadRequest},
		{"size=3&mine_count=1&safe_zone=2", http.StatusOK},
	}
	for _, tc := range tests {
		t.Run(tc.query, func(t *testing.T) {
			assert.Equal(t, tc.status,
				do(t, http.MethodPost, srv.URL+"/game?"+tc.query, "", "", nil))
		})
	}
}

func TestFirstMoveWithoutRoom(t *testing.T) {
	srv := setupTestServer(t)
	created := newGame(t, srv, "size=3&mine_count=1")
	game := srv.URL + "/game/" + created.Game.GameID

	var body errorBody
	assert.Equal(t, http.StatusUnprocessableEntity,
		do(t, http.MethodPost, game+"/move?move=open&row=1&col=1", created.Token, "", &body))
	assert.NotEmpty(t, body.Error)

	assert.Equal(t, http.StatusUnprocessableEntity,
		do(t, http.MethodPost, game+"/batch", created.Token, "f 0 0\no 1 1", nil))

	var fetched handlers.GameSessionDTO
	require.Equal(t, http.StatusOK, do(t, http.MethodGet, game, "", "", &fetched))
	assert.Zero(t, fetched.Flags, "a failed batch keeps no flags")
	assert.Equal(t, mines.Playing, fetched.Status)
}

func TestBatch(t *testing.T) {
	srv := setupTestServer(t)
	created := newGame(t, srv, "size=6&mine_count=0")
	game := srv.URL + "/game/" + created.Game.GameID

	var body errorBody
	status := do(t, http.MethodPost, game+"/batch", created.Token, "f 0 0\nx 1 1\n", &body)
	assert.Equal(t, http.StatusBadRequest, status)
	assert.Equal(t, 2, body.Line)

	var fetched handlers.GameSessionDTO
	do(t, http.MethodGet, game, "", "", &fetched)
	assert.Zero(t, fetched.Flags, "a rejected batch leaves the game untouched")

	var moved handlers.MoveResultDTO
	status = do(t, http.MethodPost, game+"/batch", created.Token, "f 0 0\nf 0 0\no 3 3\no 1 1\n", &moved)
	require.Equal(t, http.StatusOK, status)
	assert.Equal(t, mines.Won, moved.Result.Status)
	assert.True(t, moved.Result.Ended)
	assert.Len(t, moved.Result.Changed, 36)
}

func TestWebSocket(t *testing.T) {
	srv := setupTestServer(t)
	created := newGame(t, srv, "size=4&mine_count=0")
	wsURL := "ws" + strings.TrimPrefix(srv.URL, "http") +
		"/game/" + created.Game.GameID + "/connect"

	_, resp, err := websocket.DefaultDialer.Dial(wsURL, nil)
	require.Error(t, err)
	require.NotNil(t, resp)
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)

	c, _, err := websocket.DefaultDialer.Dial(wsURL+"?token="+created.Token, nil)
	require.NoError(t, err)
	defer c.Close()

	require.NoError(t, c.WriteMessage(websocket.TextMessage, []byte("g")))
	var state handlers.MoveResultDTO
	require.NoError(t, c.ReadJSON(&state))
	assert.Equal(t, mines.Playing, state.Game.Status)

	require.NoError(t, c.WriteMessage(websocket.TextMessage, []byte("o 9 9")))
	var body errorBody
	require.NoError(t, c.ReadJSON(&body))
	assert.Equal(t, 1, body.Line)

	require.NoError(t, c.WriteMessage(websocket.TextMessage, []byte("o 0 0")))
	require.NoError(t, c.ReadJSON(&state))
	assert.Equal(t, mines.Won, state.Result.Status)

	_, _, err = c.ReadMessage()
	assert.True(t, websocket.IsCloseError(err, websocket.CloseNormalClosure))
}

func TestStartStopsWithContext(t *testing.T) {
	logger, _ := test.NewNullLogger()
	cfg := &config.Config{
		Addr: "127.0.0.1:0",
		Game: config.GameConfig{MaxSize: 8, IdleTimeout: time.Minute, SweepPeriod: time.Millisecond},
	}
	a, err := New(cfg, logger)
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error)
	go func() { done <- a.Start(ctx) }()
	time.Sleep(20 * time.Millisecond)
	cancel()

	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(5 * time.Second):
		t.Fatal("server did not stop")
	}
}
