package engine

import (
	"bytes"
	"context"
	"encoding/csv"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"

	"conquest/communication/client"
	"conquest/communication/server"
	"conquest/game"
	"conquest/gamemaster"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/require"
)

const smokeScript = `
name: smoke
board_size: 8
ocean_width: 2
seed: 3
players: [alice, bob]
moves:
  - {player: alice, action: construct, subject: Farm}
  - {player: bob, action: create_unit, from: {x: 7, y: 0}, subject: Worker, amount: 2}
  - {player: bob, action: pass}
  - {player: alice, action: pass}
`

func TestParseScript(t *testing.T) {
	t.Run("valid script", func(t *testing.T) {
		s, err := ParseScript([]byte(smokeScript))
		require.NoError(t, err)
		require.Equal(t, []string{"alice", "bob"}, s.Players)
		require.Len(t, s.Moves, 4)
		require.Equal(t, game.Coord{X: 7}, s.Moves[1].From)
		require.Equal(t, 2.0, *s.Moves[1].Amount)
	})

	tests := []struct {
		name   string
		script string
	}{
		{"tiny board", "board_size: 1\nplayers: [a]"},
		{"no players", "board_size: 6"},
		{"duplicate player", "board_size: 6\nplayers: [a, a]"},
		{"unknown player", "board_size: 6\nplayers: [a]\nmoves: [{player: b, action: pass}]"},
		{"unknown action", "board_size: 6\nplayers: [a]\nmoves: [{player: a, action: fly}]"},
		{"broken yaml", "board_size: [6"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ParseScript([]byte(tt.script))
			require.Error(t, err)
		})
	}
}

func TestLoadScript(t *testing.T) {
	path := filepath.Join(t.TempDir(), "smoke.yaml")
	require.NoError(t, os.WriteFile(path, []byte(smokeScript), 0o644))

	s, err := LoadScript(path)
	require.NoError(t, err)
	require.Equal(t, "smoke", s.Name)

	_, err = LoadScript(filepath.Join(t.TempDir(), "missing.yaml"))
	require.Error(t, err)
}

func TestRun(t *testing.T) {
	s, err := ParseScript([]byte(smokeScript))
	require.NoError(t, err)

	first, err := Run(s)
	require.NoError(t, err)
	second, err := Run(s)
	require.NoError(t, err)

	require.Equal(t, first.Hash, second.Hash, "same script must replay to the same state")
	require.Equal(t, first.GameID, second.GameID)
	require.Equal(t, 1, first.Rejected)
	require.Len(t, first.Records, 4)
	require.ErrorIs(t, first.Records[2].Err, game.ErrNotYourTurn)
	require.Equal(t, first.Records[1].Hash, first.Records[2].Hash, "a rejected move leaves the hash unchanged")
	require.Equal(t, 2, first.Final.Round)
	require.Len(t, first.Standings, 2)

	other := *s
	other.Seed = 4
	other.Name = "other"
	third, err := Run(&other)
	require.NoError(t, err)
	require.NotEqual(t, first.GameID, third.GameID)
}

func TestWriteRecords(t *testing.T) {
	s, err := ParseScript([]byte(smokeScript))
	require.NoError(t, err)
	replay, err := Run(s)
	require.NoError(t, err)

	var buf bytes.Buffer
	require.NoError(t, WriteRecords(&buf, replay.Records))

	written := buf.String()
	rows, err := csv.NewReader(&buf).ReadAll()
	require.NoError(t, err)
	require.Len(t, rows, 5)
	require.Equal(t, recordHeader, rows[0])
	require.Equal(t, []string{"1", "alice", "construct", "Farm", "(0,0)"}, rows[1][:5])
	require.Equal(t, "2", rows[2][6])
	require.Equal(t, "false", rows[3][7])
	require.NotEmpty(t, rows[3][8])

	path := filepath.Join(t.TempDir(), "out", "records.csv")
	require.NoError(t, WriteRecordsFile(path, replay.Records))
	data, err := os.ReadFile(path)
	require.NoError(t, err)
	require.Equal(t, written, string(data))
}

func TestRunRemote(t *testing.T) {
	gin.SetMode(gin.TestMode)
	ts := httptest.NewServer(server.NewServer(":0", gamemaster.New()).Handler())
	defer ts.Close()
	s, err := ParseScript([]byte(smokeScript))
	require.NoError(t, err)

	replay, err := RunRemote(context.Background(), client.NewClient(ts.URL), s)

	require.NoError(t, err)
	require.Equal(t, 1, replay.Rejected)
	require.True(t, replay.Records[0].Accepted())
	require.Equal(t, 2, replay.Final.Round)
	require.NotZero(t, replay.Hash)
	require.Len(t, replay.Standings, 2)
}
