package game

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/require"
	"golang.org/x/exp/rand"
)

func TestNewBoard(t *testing.T) {
	t.Run("rejects degenerate sizes", func(t *testing.T) {
		_, err := NewBoard(1, 5, 0)
		require.Error(t, err)
		_, err = NewBoard(6, 6, 6)
		require.Error(t, err)
	})

	t.Run("rejects oversized boards", func(t *testing.T) {
		_, err := NewBoard(MaxBoardSide+1, 4, 0)
		require.Error(t, err)
		_, err = NewBoard(1<<32, 1<<32, 0)
		require.Error(t, err)
	})

	t.Run("corners are claimed in order and then exhausted", func(t *testing.T) {
		b, err := NewBoard(4, 3, 0)
		require.NoError(t, err)
		for i, want := range corners {
			got, ok := b.ClaimCorner(i)
			require.True(t, ok)
			require.Equal(t, want, got)
			require.Equal(t, i, b.Occupant(got))
		}
		_, ok := b.ClaimCorner(4)
		require.False(t, ok)
		require.Equal(t, Coord{X: 3, Y: 2}, b.CornerCoord(BottomRight))
	})

	t.Run("out of bounds lookups return nil", func(t *testing.T) {
		b, err := NewBoard(3, 3, 0)
		require.NoError(t, err)
		require.Nil(t, b.Tile(Coord{X: 3, Y: 0}))
		require.Nil(t, b.Tile(Coord{X: 0, Y: -1}))
		require.Len(t, b.Neighbors(Coord{}), 3)
		require.Len(t, b.Neighbors(Coord{X: 1, Y: 1}), 8)
	})
}

func TestGenerate(t *testing.T) {
	noObstacles := NewStandardRules()
	noObstacles.ObstacleFrequency = 0

	generated := func(t *testing.T, r *Rules, seed uint64) *Game {
		g, err := NewGame(12, 12, 2, WithRules(r), WithSeed(seed))
		require.NoError(t, err)
		for _, name := range []string{"a", "b", "c", "d"} {
			_, err := g.AddPlayer(name)
			require.NoError(t, err)
		}
		g.Start()
		return g
	}

	t.Run("ocean forms a symmetric cross", func(t *testing.T) {
		g := generated(t, noObstacles, 1)
		b := g.Board

		for y := 0; y < b.Height; y++ {
			for x := 0; x < b.Width; x++ {
				tile := b.Tile(Coord{X: x, Y: y})
				wantOcean := x == 5 || x == 6 || y == 5 || y == 6
				require.Equal(t, wantOcean, tile.Terrain == Ocean, "tile %d,%d", x, y)
				require.Equal(t, tile.Terrain, b.Tile(Coord{X: b.Width - 1 - x, Y: y}).Terrain)
				require.Equal(t, tile.Terrain, b.Tile(Coord{X: x, Y: b.Height - 1 - y}).Terrain)
				require.NotEqual(t, Obstacle, tile.Terrain)
			}
		}
	})

	t.Run("capitals sit in their corners", func(t *testing.T) {
		g := generated(t, noObstacles, 1)
		for i, c := range corners {
			tile := g.Board.Tile(g.Board.CornerCoord(c))
			require.True(t, tile.Capital)
			require.Equal(t, i, tile.Owner)
			require.Equal(t, noObstacles.Capital.HP, tile.HP)
			require.True(t, tile.HasBuilding(House))
			require.Equal(t, 1, tile.Towers)
		}
	})

	t.Run("bots scale with distance from the edge", func(t *testing.T) {
		g := generated(t, noObstacles, 1)
		edge := g.Board.Tile(Coord{X: 0, Y: 3})
		inner := g.Board.Tile(Coord{X: 3, Y: 3})

		require.Equal(t, 1, edge.Level)
		require.Equal(t, NoOwner, edge.Owner)
		require.Equal(t, noObstacles.Bot.HP, edge.MaxHP)
		require.Len(t, edge.Garrison, noObstacles.Bot.BaseArmySize)
		require.Equal(t, noObstacles.Bot.BaseTreasure, edge.Treasure)

		require.Equal(t, 4, inner.Level)
		require.Equal(t, 4*noObstacles.Bot.HP, inner.MaxHP)
		require.Equal(t, 2, inner.Walls)
		require.Len(t, inner.Garrison, 4*noObstacles.Bot.BaseArmySize)
	})

	t.Run("same seed gives the same board", func(t *testing.T) {
		r := NewStandardRules()
		r.ObstacleFrequency = 0.3
		a := generated(t, r, 42).Serialize()
		b := generated(t, r, 42).Serialize()
		require.Equal(t, a.Tiles, b.Tiles)
	})

	t.Run("no obstacles next to a corner", func(t *testing.T) {
		r := NewStandardRules()
		r.ObstacleFrequency = 1
		g := generated(t, r, 3)
		for _, c := range corners {
			for _, n := range g.Board.Neighbors(g.Board.CornerCoord(c)) {
				require.NotEqual(t, Obstacle, g.Board.Tile(n).Terrain)
			}
		}
	})
}

func TestNewGameBoardLimit(t *testing.T) {
	_, err := NewGame(200, 200, 2)
	require.ErrorIs(t, err, ErrBoardTooLarge)

	_, err = NewGame(1<<32, 1<<32, 0)
	require.ErrorIs(t, err, ErrBoardTooLarge)

	r := NewStandardRules()
	r.MaxBoardSize = 256
	g, err := NewGame(200, 200, 2, WithRules(r))
	require.NoError(t, err)
	require.Equal(t, 200, g.Board.Width)
}

func TestIsShore(t *testing.T) {
	b, err := NewBoard(12, 12, 2)
	require.NoError(t, err)
	r := NewStandardRules()
	r.ObstacleFrequency = 0
	b.Generate(r, rand.New(rand.NewSource(1)))

	tests := []struct {
		name  string
		at    Coord
		shore bool
	}{
		{"beside the vertical band", Coord{X: 4, Y: 0}, true},
		{"beside the horizontal band", Coord{X: 0, Y: 7}, true},
		{"diagonal to the crossing", Coord{X: 4, Y: 4}, true},
		{"inland", Coord{X: 3, Y: 0}, false},
		{"ocean itself", Coord{X: 5, Y: 0}, false},
		{"out of bounds", Coord{X: -1, Y: 0}, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			require.Equal(t, tt.shore, b.IsShore(tt.at))
		})
	}
}

func garrisonTypes(g []Soldier) []UnitType {
	out := make([]UnitType, len(g))
	for i, s := range g {
		out[i] = s.Type
	}
	return out
}

func TestSeedBotArmy(t *testing.T) {
	r := NewStandardRules()
	r.Bot.BaseCannonCount = 1

	tests := []struct {
		level int
		want  []UnitType
	}{
		{1, []UnitType{Swordsman, LightCavalry}},
		{2, []UnitType{Swordsman, LightCavalry, Spearman, HeavyCavalry}},
		{3, []UnitType{Swordsman, LightCavalry, Spearman, HeavyCavalry, Archer, HorseArcher, Cannon}},
		{4, []UnitType{Swordsman, LightCavalry, Spearman, HeavyCavalry, Archer, HorseArcher, Swordsman, LightCavalry, Cannon, Cannon}},
	}
	for _, tt := range tests {
		t.Run(fmt.Sprintf("level %d", tt.level), func(t *testing.T) {
			tile := &Tile{}
			seedBot(tile, tt.level, r)
			require.Equal(t, tt.want, garrisonTypes(tile.Garrison))
			require.Equal(t, NoOwner, tile.Owner)
			require.Equal(t, max(0, tt.level-2), tile.Walls)
		})
	}
}
