package game

import (
	"fmt"
	"math"
)

// NoOwner marks a tile that no player controls (unclaimed, bot or terrain).
const NoOwner = -1

type Terrain string

const (
	Unassigned Terrain = ""
	Land       Terrain = "Land"
	Ocean      Terrain = "Ocean"
	Obstacle   Terrain = "Obstacle"
)

// Tile is one board cell. Owner is a player index, or NoOwner.
type Tile struct {
	Coord
	Terrain   Terrain
	HP        float64
	MaxHP     float64
	Owner     int
	Level     int
	Capital   bool
	Buildings []*Building
	Garrison  []Soldier
	Treasure  Bundle
	Walls     int
	Towers    int
}

func newTile(c Coord) Tile {
	return Tile{Coord: c, Owner: NoOwner}
}

func (t *Tile) Passable() bool {
	return t.Terrain == Land
}

// ChangeFaction hands the tile to owner. Military production, the garrison and
// walls are lost; surviving residential buildings are emptied. Towers stay.
func (t *Tile) ChangeFaction(owner int) {
	t.HP = t.MaxHP
	t.Owner = owner
	kept := t.Buildings[:0]
	for _, b := range t.Buildings {
		if b.Type.IsMilitary() {
			continue
		}
		b.evict()
		kept = append(kept, b)
	}
	for i := len(kept); i < len(t.Buildings); i++ {
		t.Buildings[i] = nil
	}
	t.Buildings = kept
	t.Garrison = nil
	t.Walls = 0
}

func (t *Tile) BuildWalls(n int) {
	if n > 0 {
		t.Walls += n
	}
}

// BuildTower fails, leaving the count unchanged, once the tile holds the
// maximum number of towers.
func (t *Tile) BuildTower(r *Rules) error {
	if t.Towers >= r.MaxTowersPerTile {
		return fmt.Errorf("cannot build tower: %d of %d built: %w", t.Towers, r.MaxTowersPerTile, ErrCapacityExceeded)
	}
	t.Towers++
	return nil
}

// WallDamageMultiplier scales incoming non-siege damage.
func (t *Tile) WallDamageMultiplier(r *Rules) float64 {
	return math.Pow(r.WallDamageModifier, float64(t.Walls))
}

func (t *Tile) ArcheryPower(r *Rules) float64 {
	return float64(t.Towers) * r.ArcheryPowerPerTower
}

// FindBuilding returns the first building of type bt, or nil.
func (t *Tile) FindBuilding(bt BuildingType) *Building {
	for _, b := range t.Buildings {
		if b.Type == bt {
			return b
		}
	}
	return nil
}

func (t *Tile) HasBuilding(bt BuildingType) bool {
	return t.FindBuilding(bt) != nil
}

// trainerFor returns a building on the tile able to train kind.
func (t *Tile) trainerFor(kind UnitType) *Building {
	for _, b := range t.Buildings {
		if b.Type.Trains(kind) {
			return b
		}
	}
	return nil
}

// shelterCapacity is the number of garrison soldiers billeted in camps.
func (t *Tile) shelterCapacity(r *Rules) int {
	n := 0
	for _, b := range t.Buildings {
		if b.Type == MilitaryCamp {
			n += b.Capacity(r)
		}
	}
	return n
}

func (t *Tile) workerCount() int {
	n := 0
	for _, b := range t.Buildings {
		n += len(b.Workers)
	}
	return n
}

// takeSoldiers removes n soldiers from the end of the garrison.
func (t *Tile) takeSoldiers(n int) []Soldier {
	n = min(n, len(t.Garrison))
	taken := append([]Soldier(nil), t.Garrison[len(t.Garrison)-n:]...)
	t.Garrison = t.Garrison[:len(t.Garrison)-n]
	return taken
}
