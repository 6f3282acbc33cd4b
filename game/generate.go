package game

import (
	"math"

	"github.com/rs/zerolog/log"
	"golang.org/x/exp/rand"
)

// botTiers are added to the bot roster one per level.
var botTiers = [][]UnitType{
	{Swordsman, LightCavalry},
	{Spearman, HeavyCavalry},
	{Archer, HorseArcher},
}

// Generate lays out the environment. Each step skips tiles an earlier step
// already assigned: capitals, ocean, obstacles, bot garrisons. Capitals are
// finalized last.
func (b *Board) Generate(r *Rules, rng *rand.Rand) {
	reserved := make(map[Coord]int)
	for _, c := range corners {
		if owner := b.occupants[c]; owner != NoOwner {
			reserved[b.CornerCoord(c)] = owner
		}
	}
	assigned := func(t *Tile) bool {
		_, ok := reserved[t.Coord]
		return ok || t.Terrain != Unassigned
	}

	oceans := 0
	b.each(func(t *Tile) {
		if !assigned(t) && b.inOceanBand(t.Coord) {
			t.Terrain = Ocean
			oceans++
		}
	})

	obstacles := 0
	b.each(func(t *Tile) {
		if assigned(t) || !b.farFromCorners(t.Coord) {
			return
		}
		if rng.Float64() < r.ObstacleFrequency {
			t.Terrain = Obstacle
			obstacles++
		}
	})

	bots := 0
	b.each(func(t *Tile) {
		if assigned(t) {
			return
		}
		seedBot(t, b.level(t.Coord), r)
		bots++
	})

	for c, owner := range reserved {
		placeCapital(b.Tile(c), owner, r)
	}

	log.Debug().
		Int("ocean", oceans).
		Int("obstacles", obstacles).
		Int("bots", bots).
		Int("capitals", len(reserved)).
		Msg("board generated")
}

// inOceanBand is true within the centred cross of width OceanWidth.
func (b *Board) inOceanBand(c Coord) bool {
	half := float64(b.OceanWidth) / 2
	cx := float64(b.Width-1) / 2
	cy := float64(b.Height-1) / 2
	return math.Abs(float64(c.X)-cx) < half || math.Abs(float64(c.Y)-cy) < half
}

func (b *Board) farFromCorners(c Coord) bool {
	for _, corner := range corners {
		if Chebyshev(c, b.CornerCoord(corner)) <= 1 {
			return false
		}
	}
	return true
}

// level is the 1-based distance to the nearest edge.
func (b *Board) level(c Coord) int {
	horizontal := min(c.Y, b.Height-1-c.Y)
	vertical := min(c.X, b.Width-1-c.X)
	return min(horizontal, vertical) + 1
}

func botRoster(level int) []UnitType {
	var roster []UnitType
	for i := 0; i < min(level, len(botTiers)); i++ {
		roster = append(roster, botTiers[i]...)
	}
	return roster
}

func seedBot(t *Tile, level int, r *Rules) {
	t.Terrain = Land
	t.Owner = NoOwner
	t.Level = level
	t.MaxHP = r.Bot.HP * float64(level)
	t.HP = t.MaxHP
	t.Treasure = r.Bot.BaseTreasure.Scale(float64(level))
	t.Walls = max(0, level-2)

	roster := botRoster(level)
	size := r.Bot.BaseArmySize * level
	t.Garrison = make([]Soldier, 0, size)
	for i := 0; i < size && len(roster) > 0; i++ {
		t.Garrison = append(t.Garrison, Soldier{Type: roster[i%len(roster)]})
	}
	for i := 0; i < r.Bot.BaseCannonCount*max(0, level-2); i++ {
		t.Garrison = append(t.Garrison, Soldier{Type: Cannon})
	}
}

func placeCapital(t *Tile, owner int, r *Rules) {
	t.Terrain = Land
	t.Capital = true
	t.Level = 0
	t.MaxHP = r.Capital.HP
	t.HP = t.MaxHP
	t.Owner = owner
	t.Treasure = r.Capital.Treasure
	t.Buildings = []*Building{NewBuilding(House, t.Coord)}
	t.Towers = min(1, r.MaxTowersPerTile)
	t.Walls = 1
}
