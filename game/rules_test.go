package game

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

func writeRules(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "rules.yaml")
	require.NoError(t, os.WriteFile(path, []byte(body), 0o644))
	return path
}

func TestLoadRules(t *testing.T) {
	t.Run("shipped balance file matches the defaults", func(t *testing.T) {
		r, err := LoadRules(filepath.Join("..", "configs", "rules.yaml"))
		require.NoError(t, err)
		require.Equal(t, NewStandardRules(), r)
	})

	t.Run("missing keys keep standard values", func(t *testing.T) {
		r, err := LoadRules(writeRules(t, "dock_range: 6\nwall_cost: {wood: 4}\n"))
		require.NoError(t, err)
		require.Equal(t, 6, r.DockRange)
		require.Equal(t, Bundle{Wood: 4}, r.WallCost)
		require.Equal(t, NewStandardRules().TowerCost, r.TowerCost)
	})

	t.Run("partial table entries keep their other fields", func(t *testing.T) {
		standard := NewStandardRules()
		r, err := LoadRules(writeRules(t, "soldiers:\n  Cannon: {attack: 20}\n  Archer: {cost: {metal: 1}}\nproduction:\n  Mine: {production: 2}\n"))
		require.NoError(t, err)

		cannon := standard.Soldiers[Cannon]
		cannon.Attack = 20
		require.Equal(t, cannon, r.Soldiers[Cannon])
		require.Equal(t, Bundle{Food: 5, Wood: 3, Metal: 1}, r.Soldiers[Archer].Cost)
		require.Equal(t, ProductionRate{Consumption: 2, Production: 2}, r.Production[Mine])
		require.Equal(t, standard.Soldiers[Swordsman], r.Soldiers[Swordsman])
	})

	t.Run("invalid values are rejected", func(t *testing.T) {
		for _, body := range []string{
			"obstacle_frequency: 1.5\n",
			"wall_damage_modifier: -0.1\n",
			"bot: {base_army_size: 3}\n",
			"max_tower_per_tile: -1\n",
			"max_board_size: 5000\n",
			"max_batch_size: 0\n",
			"wall_cost: {wood: -1}\n",
			"building_costs: {Farm: {wood: -5}}\n",
			"worker_cost: {food: 0}\n",
			"soldiers: {Cannon: {cost: {wood: 0, metal: 0}}}\n",
			"soldiers: {Spearman: {defense: -2}}\n",
			"soldiers: {Dragon: {cost: {food: 1}, attack: 9}}\n",
			"production: {Farm: {production: 0}}\n",
			"production: {House: {consumption: 1, production: 1}}\n",
		} {
			_, err := LoadRules(writeRules(t, body))
			require.Error(t, err, body)
		}
	})

	t.Run("missing file", func(t *testing.T) {
		_, err := LoadRules(filepath.Join(t.TempDir(), "none.yaml"))
		require.Error(t, err)
	})
}
