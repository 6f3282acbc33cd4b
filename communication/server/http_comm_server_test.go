package server

import (
	"bytes"
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"conquest/communication/client"
	"conquest/game"
	"conquest/gamemaster"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
	"github.com/stretchr/testify/require"
)

func newTestServer(t *testing.T) (*httptest.Server, *client.Client) {
	t.Helper()
	gin.SetMode(gin.TestMode)
	r := game.NewStandardRules()
	r.ObstacleFrequency = 0
	master := gamemaster.New(gamemaster.WithGameOptions(game.WithRules(r), game.WithSeed(1)))
	ts := httptest.NewServer(NewServer(":0", master).Handler())
	t.Cleanup(ts.Close)
	return ts, client.NewClient(ts.URL)
}

func statusOf(t *testing.T, err error) int {
	t.Helper()
	var se *client.StatusError
	require.True(t, errors.As(err, &se), "expected a status error, got %v", err)
	return se.Code
}

func TestHealthz(t *testing.T) {
	ts, _ := newTestServer(t)
	resp, err := http.Get(ts.URL + "/healthz")
	require.NoError(t, err)
	defer resp.Body.Close()
	require.Equal(t, http.StatusOK, resp.StatusCode)
}

func TestGameOverHTTP(t *testing.T) {
	ts, c := newTestServer(t)
	ctx := context.Background()

	id, err := c.NewGame(ctx, 8, 2)
	require.NoError(t, err)
	games, err := c.Games(ctx)
	require.NoError(t, err)
	require.Equal(t, []string{id}, games)

	alice, err := c.AddPlayer(ctx, id, "alice")
	require.NoError(t, err)
	bob, err := c.AddPlayer(ctx, id, "bob")
	require.NoError(t, err)
	players, err := c.Players(ctx, id)
	require.NoError(t, err)
	require.Equal(t, []string{alice, bob}, players)

	snap, err := c.StartGame(ctx, id)
	require.NoError(t, err)
	require.True(t, snap.Started)
	require.Len(t, snap.Tiles, 64)

	_, err = c.StartGame(ctx, id)
	require.Equal(t, http.StatusBadRequest, statusOf(t, err))

	res, err := c.MakeMove(ctx, id, game.Move{PlayerID: alice, Action: game.ConstructAction, Subject: "Farm"})
	require.NoError(t, err)
	require.Equal(t, game.ConstructAction, res.Action)
	require.Equal(t, bob, res.NextPlayer)
	require.Equal(t, 20.0, res.Resources.Wood)

	_, err = c.MakeMove(ctx, id, game.Move{PlayerID: alice, Action: game.PassAction})
	require.Equal(t, http.StatusConflict, statusOf(t, err))

	_, err = c.MakeMove(ctx, id, game.Move{PlayerID: bob, Action: game.ConstructAction, Subject: "Mine", From: game.Coord{X: 7}})
	require.Equal(t, http.StatusBadRequest, statusOf(t, err))

	resp, err := http.Post(ts.URL+"/make_move", "application/json",
		strings.NewReader(`{"game_id":"`+id+`","player_id":"`+bob+`"}`))
	require.NoError(t, err)
	resp.Body.Close()
	require.Equal(t, http.StatusBadRequest, resp.StatusCode, "a move without an action type is not a pass")

	state, err := c.GameState(ctx, id)
	require.NoError(t, err)
	require.Equal(t, []string{bob, alice}, state.TurnOrder)

	require.NoError(t, c.DeleteGame(ctx, id))
	_, err = c.GameState(ctx, id)
	require.Equal(t, http.StatusNotFound, statusOf(t, err))
}

func TestMalformedRequests(t *testing.T) {
	ts, _ := newTestServer(t)

	resp, err := http.Post(ts.URL+"/new_game", "application/json", strings.NewReader("{"))
	require.NoError(t, err)
	resp.Body.Close()
	require.Equal(t, http.StatusBadRequest, resp.StatusCode)

	resp, err = http.Post(ts.URL+"/new_game", "application/json", strings.NewReader(`{"board_size": 1}`))
	require.NoError(t, err)
	resp.Body.Close()
	require.Equal(t, http.StatusBadRequest, resp.StatusCode)

	resp, err = http.Post(ts.URL+"/new_game", "application/json", strings.NewReader(`{"board_size": 4294967296}`))
	require.NoError(t, err)
	resp.Body.Close()
	require.Equal(t, http.StatusBadRequest, resp.StatusCode)

	resp, err = http.Post(ts.URL+"/make_move", "application/json",
		bytes.NewReader([]byte(`{"game_id":"x","player_id":"p","action_type":"teleport"}`)))
	require.NoError(t, err)
	resp.Body.Close()
	require.Equal(t, http.StatusBadRequest, resp.StatusCode)

	resp, err = http.Get(ts.URL + "/players?game_id=missing")
	require.NoError(t, err)
	resp.Body.Close()
	require.Equal(t, http.StatusNotFound, resp.StatusCode)
}

func TestWebsocketBroadcast(t *testing.T) {
	ts, c := newTestServer(t)
	ctx := context.Background()
	id, err := c.NewGame(ctx, 6, 0)
	require.NoError(t, err)

	wsURL := "ws" + strings.TrimPrefix(ts.URL, "http") + "/ws/" + id
	conn, _, err := websocket.DefaultDialer.Dial(wsURL, nil)
	require.NoError(t, err)
	defer conn.Close()

	// the subscription is registered before the upgrade completes
	pid, err := c.AddPlayer(ctx, id, "solo")
	require.NoError(t, err)

	var ev gamemaster.Event
	require.NoError(t, conn.SetReadDeadline(time.Now().Add(5*time.Second)))
	require.NoError(t, conn.ReadJSON(&ev))
	require.Equal(t, gamemaster.JoinEvent, ev.Type)
	require.Equal(t, pid, ev.PlayerID)

	require.NoError(t, c.DeleteGame(ctx, id))
	_, _, err = conn.ReadMessage()
	require.True(t, websocket.IsCloseError(err, websocket.CloseNormalClosure), "got %v", err)

	_, _, err = websocket.DefaultDialer.Dial("ws"+strings.TrimPrefix(ts.URL, "http")+"/ws/missing", nil)
	require.Error(t, err)
}
