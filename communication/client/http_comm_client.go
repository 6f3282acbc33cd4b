package client

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"time"

	"conquest/communication"
	"conquest/game"
)

// StatusError is returned for any non-2xx response.
type StatusError struct {
	Code    int
	Message string
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("server returned %d: %s", e.Code, e.Message)
}

// Client calls the conquest HTTP API.
type Client struct {
	serverURL string
	http      *http.Client
}

type Option func(c *Client)

func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) {
		if hc != nil {
			c.http = hc
		}
	}
}

func NewClient(serverURL string, opts ...Option) *Client {
	c := &Client{
		serverURL: serverURL,
		http:      &http.Client{Timeout: 10 * time.Second},
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

func (c *Client) NewGame(ctx context.Context, boardSize, oceanWidth int) (string, error) {
	var resp communication.NewGameResponse
	err := c.do(ctx, http.MethodPost, "/new_game", nil,
		communication.NewGameRequest{BoardSize: boardSize, OceanWidth: oceanWidth}, &resp)
	return resp.GameID, err
}

func (c *Client) StartGame(ctx context.Context, gameID string) (game.Snapshot, error) {
	var snap game.Snapshot
	err := c.do(ctx, http.MethodPost, "/start_game", nil, communication.StartGameRequest{GameID: gameID}, &snap)
	return snap, err
}

func (c *Client) DeleteGame(ctx context.Context, gameID string) error {
	return c.do(ctx, http.MethodDelete, "/delete_game", url.Values{"game_id": {gameID}}, nil, nil)
}

func (c *Client) AddPlayer(ctx context.Context, gameID, name string) (string, error) {
	var resp communication.AddPlayerResponse
	err := c.do(ctx, http.MethodPost, "/add_player", nil,
		communication.AddPlayerRequest{GameID: gameID, PlayerName: name}, &resp)
	return resp.PlayerID, err
}

func (c *Client) MakeMove(ctx context.Context, gameID string, m game.Move) (*game.Result, error) {
	var res game.Result
	if err := c.do(ctx, http.MethodPost, "/make_move", nil,
		communication.MakeMoveRequest{GameID: gameID, Move: m}, &res); err != nil {
		return nil, err
	}
	return &res, nil
}

func (c *Client) GameState(ctx context.Context, gameID string) (game.Snapshot, error) {
	var snap game.Snapshot
	err := c.do(ctx, http.MethodGet, "/game_state", url.Values{"game_id": {gameID}}, nil, &snap)
	return snap, err
}

func (c *Client) Games(ctx context.Context) ([]string, error) {
	var resp communication.GamesResponse
	err := c.do(ctx, http.MethodGet, "/games", nil, nil, &resp)
	return resp.Games, err
}

func (c *Client) Players(ctx context.Context, gameID string) ([]string, error) {
	var resp communication.PlayersResponse
	err := c.do(ctx, http.MethodGet, "/players", url.Values{"game_id": {gameID}}, nil, &resp)
	return resp.Players, err
}

func (c *Client) Standings(ctx context.Context, gameID string) ([]game.Standing, error) {
	var out []game.Standing
	err := c.do(ctx, http.MethodGet, "/standings", url.Values{"game_id": {gameID}}, nil, &out)
	return out, err
}

func (c *Client) do(ctx context.Context, method, path string, query url.Values, body, out any) error {
	target := c.serverURL + path
	if len(query) > 0 {
		target += "?" + query.Encode()
	}
	var reader *bytes.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("cannot encode %s request: %w", path, err)
		}
		reader = bytes.NewReader(data)
	} else {
		reader = bytes.NewReader(nil)
	}
	req, err := http.NewRequestWithContext(ctx, method, target, reader)
	if err != nil {
		return err
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("cannot call %s: %w", path, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		var e communication.ErrorResponse
		_ = json.NewDecoder(resp.Body).Decode(&e)
		return &StatusError{Code: resp.StatusCode, Message: e.Error}
	}
	if out == nil {
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("cannot decode %s response: %w", path, err)
	}
	return nil
}
