package game

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestTileTowers(t *testing.T) {
	r := NewStandardRules()
	tile := &Tile{Terrain: Land, Owner: 0}
	for i := 0; i < r.MaxTowersPerTile; i++ {
		require.NoError(t, tile.BuildTower(r))
	}

	err := tile.BuildTower(r)

	require.ErrorIs(t, err, ErrCapacityExceeded)
	require.Equal(t, r.MaxTowersPerTile, tile.Towers)
	require.Equal(t, float64(r.MaxTowersPerTile)*r.ArcheryPowerPerTower, tile.ArcheryPower(r))
}

func TestTileChangeFaction(t *testing.T) {
	fixture := func() *Tile {
		house := NewBuilding(House, Coord{})
		house.Workers = []Worker{{}, {HasTool: true}}
		return &Tile{
			Terrain:   Land,
			HP:        3,
			MaxHP:     20,
			Owner:     0,
			Buildings: []*Building{house, NewBuilding(Barracks, Coord{}), NewBuilding(Farm, Coord{})},
			Garrison:  []Soldier{{Type: Archer}},
			Walls:     2,
			Towers:    1,
		}
	}

	t.Run("ownership change strips military and residents", func(t *testing.T) {
		tile := fixture()

		tile.ChangeFaction(1)

		require.Equal(t, 1, tile.Owner)
		require.Equal(t, 20.0, tile.HP)
		require.Len(t, tile.Buildings, 2)
		for _, b := range tile.Buildings {
			require.False(t, b.Type.IsMilitary())
			require.Empty(t, b.Workers)
		}
		require.Empty(t, tile.Garrison)
		require.Zero(t, tile.Walls)
		require.Equal(t, 1, tile.Towers)
	})

	t.Run("changing twice equals changing once", func(t *testing.T) {
		once := fixture()
		once.ChangeFaction(1)
		twice := fixture()
		twice.ChangeFaction(1)
		twice.ChangeFaction(1)

		require.Equal(t, *once, *twice)
	})

	t.Run("a second owner sees the same reset tile", func(t *testing.T) {
		direct := fixture()
		direct.ChangeFaction(2)
		relayed := fixture()
		relayed.ChangeFaction(1)
		relayed.ChangeFaction(2)

		require.Equal(t, 2, relayed.Owner)
		require.Equal(t, *direct, *relayed)
	})
}

func TestTileWallMultiplier(t *testing.T) {
	r := NewStandardRules()
	tile := &Tile{}
	require.Equal(t, 1.0, tile.WallDamageMultiplier(r))
	tile.BuildWalls(2)
	require.InDelta(t, 0.64, tile.WallDamageMultiplier(r), 1e-9)
	tile.BuildWalls(-3)
	require.Equal(t, 2, tile.Walls)
}
