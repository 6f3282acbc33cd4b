package engine

import (
	"context"
	"errors"
	"fmt"

	"conquest/communication/client"
	"conquest/game"

	"github.com/rs/zerolog/log"
)

// RunRemote plays s against a running server. The server picks ids and the
// board seed, so hashes are not comparable with Run. Transport failures abort
// the replay; rejected moves are recorded like in Run.
func RunRemote(ctx context.Context, c *client.Client, s *Script) (*Replay, error) {
	gameID, err := c.NewGame(ctx, s.BoardSize, s.OceanWidth)
	if err != nil {
		return nil, fmt.Errorf("cannot create remote game: %w", err)
	}
	ids := make(map[string]string, len(s.Players))
	for _, name := range s.Players {
		id, err := c.AddPlayer(ctx, gameID, name)
		if err != nil {
			return nil, fmt.Errorf("cannot add player %q: %w", name, err)
		}
		ids[name] = id
	}
	if _, err := c.StartGame(ctx, gameID); err != nil {
		return nil, fmt.Errorf("cannot start remote game: %w", err)
	}
	log.Info().Str("game", gameID).Msgf("replaying %d moves remotely", len(s.Moves))

	replay := &Replay{GameID: gameID, Records: make([]Record, 0, len(s.Moves))}
	for i, sm := range s.Moves {
		m := sm.move(ids)
		res, err := c.MakeMove(ctx, gameID, m)
		rec := Record{Step: i + 1, Player: sm.Player, Move: m, Result: res, Err: err}
		if err != nil {
			var se *client.StatusError
			if !errors.As(err, &se) {
				return nil, err
			}
			replay.Rejected++
		}
		replay.Records = append(replay.Records, rec)
	}

	final, err := c.GameState(ctx, gameID)
	if err != nil {
		return nil, err
	}
	replay.Final = final
	replay.Hash = game.HashSnapshot(final)
	if replay.Standings, err = c.Standings(ctx, gameID); err != nil {
		return nil, err
	}
	return replay, nil
}
