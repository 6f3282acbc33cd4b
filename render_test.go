package main

import (
	"bytes"
	"errors"
	"testing"

	"conquest/engine"
	"conquest/game"

	"github.com/stretchr/testify/require"
)

func TestCellLabel(t *testing.T) {
	seats := map[string]int{"p1": 1, "p2": 2}

	t.Run("terrain", func(t *testing.T) {
		require.Equal(t, "~", cellLabel(game.TileSnapshot{Terrain: game.Ocean}, seats))
		require.Equal(t, "#", cellLabel(game.TileSnapshot{Terrain: game.Obstacle}, seats))
	})

	t.Run("owned", func(t *testing.T) {
		require.Equal(t, "C2", cellLabel(game.TileSnapshot{Owner: "p2", Capital: true}, seats))
		garrison := make([]game.Soldier, 3)
		require.Equal(t, "P1:3", cellLabel(game.TileSnapshot{Owner: "p1", Garrison: garrison}, seats))
	})

	t.Run("bot", func(t *testing.T) {
		require.Equal(t, "L4:2", cellLabel(game.TileSnapshot{Level: 4, Garrison: make([]game.Soldier, 2)}, seats))
	})
}

func TestRender(t *testing.T) {
	g, err := game.NewGame(8, 8, 2, game.WithSeed(5))
	require.NoError(t, err)
	_, err = g.AddPlayer("red")
	require.NoError(t, err)
	_, err = g.AddPlayer("blue")
	require.NoError(t, err)
	g.Start()
	snap := g.Serialize()

	t.Run("board", func(t *testing.T) {
		var buf bytes.Buffer
		require.NoError(t, renderBoard(&buf, snap))
		out := buf.String()
		require.Contains(t, out, "C1")
		require.Contains(t, out, "C2")
		require.Contains(t, out, "~")
	})

	t.Run("players", func(t *testing.T) {
		var buf bytes.Buffer
		require.NoError(t, renderPlayers(&buf, snap))
		require.Contains(t, buf.String(), "red")
		require.Contains(t, buf.String(), "blue")
	})

	t.Run("records", func(t *testing.T) {
		var buf bytes.Buffer
		records := []engine.Record{
			{Step: 1, Player: "red", Move: game.Move{Action: game.PassAction}},
			{Step: 2, Player: "blue", Move: game.Move{Action: game.PassAction}, Err: errors.New("not your turn")},
		}
		require.NoError(t, renderRecords(&buf, records))
		require.Contains(t, buf.String(), "not your turn")
	})

	t.Run("standings", func(t *testing.T) {
		var buf bytes.Buffer
		require.NoError(t, renderStandings(&buf, g.Standings()))
		require.Contains(t, buf.String(), "red")
		require.Contains(t, buf.String(), "blue")
	})
}
