package game

import (
	"fmt"
	"strings"
)

type BuildingType string

const (
	Farm         BuildingType = "Farm"
	Woodcutter   BuildingType = "Woodcutter"
	Mine         BuildingType = "Mine"
	House        BuildingType = "House"
	Barracks     BuildingType = "Barracks"
	Stable       BuildingType = "Stable"
	Factory      BuildingType = "Factory"
	MilitaryCamp BuildingType = "MilitaryCamp"
	Dock         BuildingType = "Dock"
)

var buildingTypes = []BuildingType{Farm, Woodcutter, Mine, House, Barracks, Stable, Factory, MilitaryCamp, Dock}

var productionBuildings = []BuildingType{Farm, Woodcutter, Mine}

// conversion fixes the input and output kind of a production building.
type conversion struct {
	consumes ResourceKind
	produces ResourceKind
}

var conversions = map[BuildingType]conversion{
	Farm:       {consumes: Wood, produces: Food},
	Woodcutter: {consumes: Food, produces: Wood},
	Mine:       {consumes: Wood, produces: Metal},
}

var rosters = map[BuildingType][]UnitType{
	Barracks: {Swordsman, Spearman, Archer},
	Stable:   {LightCavalry, HeavyCavalry, HorseArcher},
	Factory:  {Cannon},
}

// militaryBuildings do not survive a change of ownership.
var militaryBuildings = map[BuildingType]bool{
	Barracks:     true,
	Stable:       true,
	Factory:      true,
	MilitaryCamp: true,
}

func ParseBuildingType(s string) (BuildingType, error) {
	for _, bt := range buildingTypes {
		if strings.EqualFold(s, string(bt)) {
			return bt, nil
		}
	}
	return "", fmt.Errorf("unknown building type %q: %w", s, ErrInvalidMove)
}

func (bt BuildingType) IsProduction() bool {
	_, ok := conversions[bt]
	return ok
}

func (bt BuildingType) IsMilitary() bool {
	return militaryBuildings[bt]
}

// HousesWorkers reports whether workers can reside in bt.
func (bt BuildingType) HousesWorkers() bool {
	return bt == House || bt.IsProduction()
}

// Trains reports whether bt's roster includes t.
func (bt BuildingType) Trains(t UnitType) bool {
	for _, u := range rosters[bt] {
		if u == t {
			return true
		}
	}
	return false
}

// Building is a tagged variant over every building type; behaviour is looked
// up by Type. Only worker-housing buildings carry residents.
type Building struct {
	Type    BuildingType `json:"type"`
	Tile    Coord        `json:"tile"`
	Workers []Worker     `json:"workers,omitempty"`
}

func NewBuilding(bt BuildingType, at Coord) *Building {
	return &Building{Type: bt, Tile: at}
}

func (b *Building) Capacity(r *Rules) int {
	return r.capacity(b.Type)
}

func (b *Building) Free(r *Rules) int {
	if !b.Type.HousesWorkers() {
		return 0
	}
	return max(0, b.Capacity(r)-len(b.Workers))
}

// AddWorker rejects a full building or one that does not house workers,
// leaving it untouched.
func (b *Building) AddWorker(w Worker, r *Rules) error {
	if !b.Type.HousesWorkers() {
		return fmt.Errorf("cannot add worker to %s: %w", b.Type, ErrResidentMismatch)
	}
	if len(b.Workers) >= b.Capacity(r) {
		return fmt.Errorf("cannot add worker to %s: %w", b.Type, ErrCapacityExceeded)
	}
	b.Workers = append(b.Workers, w)
	return nil
}

// takeWorkers removes up to n workers from the end of the resident list.
func (b *Building) takeWorkers(n int) []Worker {
	n = min(n, len(b.Workers))
	taken := append([]Worker(nil), b.Workers[len(b.Workers)-n:]...)
	b.Workers = b.Workers[:len(b.Workers)-n]
	return taken
}

func (b *Building) evict() {
	b.Workers = nil
}

// Produce runs one production cycle. Each resident converts its own share of
// input; a tooled worker burns twice the input. Returns what was produced and
// consumed.
func (b *Building) Produce(f *Faction, r *Rules) (produced, consumed Bundle) {
	conv, ok := conversions[b.Type]
	if !ok {
		return produced, consumed
	}
	rate := r.productionRate(b.Type)
	for _, w := range b.Workers {
		scale := 1.0
		if w.HasTool {
			scale = 2
		}
		in := Amount{Kind: conv.consumes, Value: rate.Consumption * scale}
		if !f.UseResourceIfAvailable(in) {
			continue
		}
		out := Amount{Kind: conv.produces, Value: rate.Production}
		_ = f.AddResource(out)
		consumed = consumed.With(in.Kind, consumed.Get(in.Kind)+in.Value)
		produced = produced.With(out.Kind, produced.Get(out.Kind)+out.Value)
	}
	return produced, consumed
}

// CreateSoldier trains kind if it is on this building's roster and the
// faction can pay. The soldier joins the tile garrison.
func (b *Building) CreateSoldier(f *Faction, t *Tile, kind UnitType, r *Rules) bool {
	if !b.Type.Trains(kind) {
		return false
	}
	if !f.UseResources(r.unitCost(kind)) {
		return false
	}
	t.Garrison = append(t.Garrison, Soldier{Type: kind})
	return true
}

// CreateWorker adds a new worker to a House with room, if affordable.
func (b *Building) CreateWorker(f *Faction, r *Rules) bool {
	if b.Type != House || b.Free(r) == 0 {
		return false
	}
	if !f.UseResources(r.WorkerCost) {
		return false
	}
	b.Workers = append(b.Workers, Worker{})
	return true
}

func (b *Building) clone() *Building {
	c := *b
	c.Workers = append([]Worker(nil), b.Workers...)
	return &c
}
