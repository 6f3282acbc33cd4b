package game

import "sort"

// starterBuildings are unlocked for every faction from the start.
var starterBuildings = []BuildingType{Farm, House, Barracks, MilitaryCamp, Dock}

// distanceUnlocks maps a captured tile's distance from the capital to the buildings it unlocks.
var distanceUnlocks = map[int][]BuildingType{
	1: {Woodcutter, Stable},
	2: {Mine, Factory},
}

// Faction is a player's economic and territorial state. Tiles are referenced
// by coordinate; the Board owns them.
type Faction struct {
	Ledger
	Capital  Coord
	tiles    map[Coord]struct{}
	unlocked map[BuildingType]bool
}

// NewFaction returns a faction with an empty ledger and the starter unlocks.
func NewFaction(capital Coord) *Faction {
	f := &Faction{
		Capital:  capital,
		tiles:    make(map[Coord]struct{}),
		unlocked: make(map[BuildingType]bool),
	}
	for _, bt := range starterBuildings {
		f.unlocked[bt] = true
	}
	return f
}

// UnlockBuilding grants the unlocks tied to a tile at the given distance from
// the capital. Unlocks are never revoked. Returns the newly unlocked types.
func (f *Faction) UnlockBuilding(distanceToCapital int) []BuildingType {
	var granted []BuildingType
	for _, bt := range distanceUnlocks[distanceToCapital] {
		if !f.unlocked[bt] {
			f.unlocked[bt] = true
			granted = append(granted, bt)
		}
	}
	return granted
}

func (f *Faction) IsUnlocked(bt BuildingType) bool {
	return f.unlocked[bt]
}

// Unlocked lists unlocked building types in a stable order.
func (f *Faction) Unlocked() []BuildingType {
	var out []BuildingType
	for _, bt := range buildingTypes {
		if f.unlocked[bt] {
			out = append(out, bt)
		}
	}
	return out
}

func (f *Faction) AddResource(a Amount) error {
	return f.Add(a)
}

// UseResourceIfAvailable debits a only when the whole amount is available.
func (f *Faction) UseResourceIfAvailable(a Amount) bool {
	if a.Value < 0 || f.Balance(a.Kind).Value < a.Value {
		return false
	}
	return f.Subtract(a) == nil
}

func (f *Faction) HasResources(b Bundle) bool {
	return !b.hasNegative() && f.HasAtLeast(b)
}

// UseResources debits every kind of b, or nothing at all.
func (f *Faction) UseResources(b Bundle) bool {
	if !f.HasResources(b) {
		return false
	}
	f.stock = Bundle{
		Food:  f.stock.Food - b.Food,
		Wood:  f.stock.Wood - b.Wood,
		Metal: f.stock.Metal - b.Metal,
	}
	return true
}

// AddResources credits every kind of b.
func (f *Faction) AddResources(b Bundle) {
	for _, a := range b.Amounts() {
		if a.Value > 0 {
			_ = f.Add(a)
		}
	}
}

func (f *Faction) AddTile(c Coord) {
	f.tiles[c] = struct{}{}
}

func (f *Faction) RemoveTile(c Coord) {
	delete(f.tiles, c)
}

func (f *Faction) Controls(c Coord) bool {
	_, ok := f.tiles[c]
	return ok
}

// Tiles returns the controlled coordinates sorted row-major.
func (f *Faction) Tiles() []Coord {
	out := make([]Coord, 0, len(f.tiles))
	for c := range f.tiles {
		out = append(out, c)
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Y != out[j].Y {
			return out[i].Y < out[j].Y
		}
		return out[i].X < out[j].X
	})
	return out
}
