// Package communication holds the wire types shared by the HTTP server and
// its client.
package communication

import "conquest/game"

type NewGameRequest struct {
	BoardSize  int `json:"board_size"`
	OceanWidth int `json:"ocean_width"`
}

type NewGameResponse struct {
	GameID string `json:"game_id"`
}

type StartGameRequest struct {
	GameID string `json:"game_id"`
}

type AddPlayerRequest struct {
	GameID     string `json:"game_id"`
	PlayerName string `json:"player_name"`
}

type AddPlayerResponse struct {
	PlayerID string `json:"player_id"`
}

// MakeMoveRequest is a move addressed to a game.
type MakeMoveRequest struct {
	GameID string `json:"game_id"`
	game.Move
}

type GamesResponse struct {
	Games []string `json:"games"`
}

type PlayersResponse struct {
	Players []string `json:"players"`
}

type ErrorResponse struct {
	Error string `json:"error"`
}
