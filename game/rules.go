package game

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// ProductionRate is the per-worker input and output of a production building.
type ProductionRate struct {
	Consumption float64 `yaml:"consumption" json:"consumption"`
	Production  float64 `yaml:"production" json:"production"`
}

type SoldierStats struct {
	Cost    Bundle  `yaml:"cost" json:"cost"`
	Attack  float64 `yaml:"attack" json:"attack"`
	Defense float64 `yaml:"defense" json:"defense"`
}

type BotRules struct {
	HP              float64 `yaml:"hp" json:"hp"`
	BaseTreasure    Bundle  `yaml:"base_treasure" json:"base_treasure"`
	BaseArmySize    int     `yaml:"base_army_size" json:"base_army_size"`
	BaseCannonCount int     `yaml:"base_cannon_count" json:"base_cannon_count"`
}

type CapitalRules struct {
	HP       float64 `yaml:"hp" json:"hp"`
	Treasure Bundle  `yaml:"treasure" json:"treasure"`
}

// Rules is the balance table. Logic never hard-codes a rate or a cost.
type Rules struct {
	ObstacleFrequency float64 `yaml:"obstacle_frequency"`
	MaxBoardSize      int     `yaml:"max_board_size"`
	MaxBatchSize      int     `yaml:"max_batch_size"`

	TileBuildingCapacity     int `yaml:"tile_building_capacity"`
	HouseCapacity            int `yaml:"house_capacity"`
	MilitaryCampCapacity     int `yaml:"military_camp_capacity"`
	ProductionWorkerCapacity int `yaml:"production_worker_capacity"`

	Production    map[BuildingType]ProductionRate `yaml:"production"`
	BuildingCosts map[BuildingType]Bundle         `yaml:"building_costs"`

	WorkerCost     Bundle                    `yaml:"worker_cost"`
	WorkerToolCost Bundle                    `yaml:"worker_tool_cost"`
	Soldiers       map[UnitType]SoldierStats `yaml:"soldiers"`

	SoldierUnshelteredRoundCost Bundle `yaml:"soldier_unsheltered_round_cost"`
	SoldierTransportRoundCost   Bundle `yaml:"soldier_transport_round_cost"`

	WallCost             Bundle  `yaml:"wall_cost"`
	TowerCost            Bundle  `yaml:"tower_cost"`
	MaxTowersPerTile     int     `yaml:"max_tower_per_tile"`
	ArcheryPowerPerTower float64 `yaml:"archery_power_per_tower"`
	WallDamageModifier   float64 `yaml:"wall_damage_modifier"`
	AttackMovePerTile    float64 `yaml:"attack_move_per_tile"`
	DockRange            int     `yaml:"dock_range"`

	Bot              BotRules     `yaml:"bot"`
	Capital          CapitalRules `yaml:"capital"`
	InitialResources Bundle       `yaml:"initial_resources"`
}

// NewStandardRules returns the default balance.
func NewStandardRules() *Rules {
	return &Rules{
		ObstacleFrequency:        0.1,
		MaxBoardSize:             128,
		MaxBatchSize:             100,
		TileBuildingCapacity:     4,
		HouseCapacity:            5,
		MilitaryCampCapacity:     10,
		ProductionWorkerCapacity: 3,
		Production: map[BuildingType]ProductionRate{
			Farm:       {Consumption: 1, Production: 3},
			Woodcutter: {Consumption: 1, Production: 3},
			Mine:       {Consumption: 2, Production: 1},
		},
		BuildingCosts: map[BuildingType]Bundle{
			Farm:         {Wood: 10},
			Woodcutter:   {Food: 10},
			Mine:         {Wood: 20, Food: 10},
			House:        {Wood: 15},
			Barracks:     {Wood: 20, Metal: 2},
			Stable:       {Wood: 20, Food: 10, Metal: 4},
			Factory:      {Wood: 30, Metal: 10},
			MilitaryCamp: {Wood: 15, Food: 5},
			Dock:         {Wood: 25},
		},
		WorkerCost:     Bundle{Food: 5},
		WorkerToolCost: Bundle{Wood: 2, Metal: 1},
		Soldiers: map[UnitType]SoldierStats{
			Swordsman:    {Cost: Bundle{Food: 5, Metal: 1}, Attack: 3, Defense: 3},
			Spearman:     {Cost: Bundle{Food: 5, Wood: 2}, Attack: 2, Defense: 4},
			Archer:       {Cost: Bundle{Food: 5, Wood: 3}, Attack: 4, Defense: 2},
			LightCavalry: {Cost: Bundle{Food: 8, Metal: 1}, Attack: 4, Defense: 2},
			HeavyCavalry: {Cost: Bundle{Food: 10, Metal: 3}, Attack: 6, Defense: 4},
			HorseArcher:  {Cost: Bundle{Food: 10, Wood: 3}, Attack: 5, Defense: 3},
			Cannon:       {Cost: Bundle{Wood: 10, Metal: 8}, Attack: 10, Defense: 1},
		},
		SoldierUnshelteredRoundCost: Bundle{Food: 1},
		SoldierTransportRoundCost:   Bundle{Food: 1, Wood: 1},
		WallCost:                    Bundle{Wood: 10},
		TowerCost:                   Bundle{Wood: 15, Metal: 5},
		MaxTowersPerTile:            4,
		ArcheryPowerPerTower:        2,
		WallDamageModifier:          0.80,
		AttackMovePerTile:           0.125,
		DockRange:                   4,
		Bot: BotRules{
			HP:           10,
			BaseTreasure: Bundle{Food: 5, Wood: 5, Metal: 2},
			BaseArmySize: 2,
		},
		Capital: CapitalRules{
			HP: 50,
		},
		InitialResources: Bundle{Food: 30, Wood: 30, Metal: 5},
	}
}

// keyedEntries holds the raw nodes of the keyed tables, so each entry can be
// decoded over its standard value instead of a zero one.
type keyedEntries struct {
	Production map[BuildingType]yaml.Node `yaml:"production"`
	Soldiers   map[UnitType]yaml.Node     `yaml:"soldiers"`
}

// LoadRules reads a YAML balance file. Keys missing from the file keep their
// standard values, including fields of a single production or soldier entry.
func LoadRules(path string) (*Rules, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read rules file: %w", err)
	}
	r := NewStandardRules()
	if err := yaml.Unmarshal(data, r); err != nil {
		return nil, fmt.Errorf("failed to parse rules file %s: %w", path, err)
	}

	var entries keyedEntries
	if err := yaml.Unmarshal(data, &entries); err != nil {
		return nil, fmt.Errorf("failed to parse rules file %s: %w", path, err)
	}
	standard := NewStandardRules()
	for bt, node := range entries.Production {
		rate := standard.Production[bt]
		if err := node.Decode(&rate); err != nil {
			return nil, fmt.Errorf("failed to parse production rate for %s: %w", bt, err)
		}
		r.Production[bt] = rate
	}
	for t, node := range entries.Soldiers {
		stats := standard.Soldiers[t]
		if err := node.Decode(&stats); err != nil {
			return nil, fmt.Errorf("failed to parse soldier stats for %s: %w", t, err)
		}
		r.Soldiers[t] = stats
	}

	if err := r.Validate(); err != nil {
		return nil, err
	}
	return r, nil
}

func (r *Rules) Validate() error {
	if r.ObstacleFrequency < 0 || r.ObstacleFrequency > 1 {
		return fmt.Errorf("invalid rules: obstacle_frequency %g outside [0, 1]", r.ObstacleFrequency)
	}
	if r.MaxBoardSize < 2 || r.MaxBoardSize > MaxBoardSide {
		return fmt.Errorf("invalid rules: max_board_size %d outside [2, %d]", r.MaxBoardSize, MaxBoardSide)
	}
	if r.MaxBatchSize < 1 {
		return fmt.Errorf("invalid rules: max_batch_size must be positive")
	}
	if r.MaxTowersPerTile < 0 {
		return fmt.Errorf("invalid rules: max_tower_per_tile must not be negative")
	}
	if r.WallDamageModifier < 0 || r.WallDamageModifier > 1 {
		return fmt.Errorf("invalid rules: wall_damage_modifier %g outside [0, 1]", r.WallDamageModifier)
	}
	if r.ArcheryPowerPerTower < 0 || r.AttackMovePerTile < 0 || r.DockRange < 0 {
		return fmt.Errorf("invalid rules: combat modifiers must not be negative")
	}
	if r.Bot.BaseArmySize < 0 || r.Bot.BaseArmySize%2 != 0 {
		return fmt.Errorf("invalid rules: bot base_army_size must be an even, non-negative integer")
	}
	if r.Bot.BaseCannonCount < 0 {
		return fmt.Errorf("invalid rules: bot base_cannon_count must not be negative")
	}

	for bt, rate := range r.Production {
		if !bt.IsProduction() {
			return fmt.Errorf("invalid rules: %s is not a production building", bt)
		}
		if rate.Consumption < 0 || rate.Production <= 0 {
			return fmt.Errorf("invalid rules: production rate for %s must consume >= 0 and produce > 0", bt)
		}
	}
	for _, bt := range productionBuildings {
		if _, ok := r.Production[bt]; !ok {
			return fmt.Errorf("invalid rules: missing production rate for %s", bt)
		}
	}
	for t, stats := range r.Soldiers {
		if !t.IsSoldier() {
			return fmt.Errorf("invalid rules: %s is not a soldier type", t)
		}
		if stats.Cost.IsZero() || stats.Cost.hasNegative() {
			return fmt.Errorf("invalid rules: %s needs a positive cost", t)
		}
		if stats.Attack < 0 || stats.Defense < 0 {
			return fmt.Errorf("invalid rules: %s attack and defense must not be negative", t)
		}
	}
	for _, t := range soldierTypes {
		if _, ok := r.Soldiers[t]; !ok {
			return fmt.Errorf("invalid rules: missing soldier stats for %s", t)
		}
	}
	if r.WorkerCost.IsZero() {
		return fmt.Errorf("invalid rules: worker_cost must not be empty")
	}

	bundles := map[string]Bundle{
		"worker_cost":                    r.WorkerCost,
		"worker_tool_cost":               r.WorkerToolCost,
		"soldier_unsheltered_round_cost": r.SoldierUnshelteredRoundCost,
		"soldier_transport_round_cost":   r.SoldierTransportRoundCost,
		"wall_cost":                      r.WallCost,
		"tower_cost":                     r.TowerCost,
		"bot.base_treasure":              r.Bot.BaseTreasure,
		"capital.treasure":               r.Capital.Treasure,
		"initial_resources":              r.InitialResources,
	}
	for bt, cost := range r.BuildingCosts {
		bundles["building_costs."+string(bt)] = cost
	}
	for name, b := range bundles {
		if b.hasNegative() {
			return fmt.Errorf("invalid rules: %s must not be negative", name)
		}
	}
	return nil
}

func (r *Rules) productionRate(bt BuildingType) ProductionRate {
	return r.Production[bt]
}

func (r *Rules) unitCost(t UnitType) Bundle {
	if t == WorkerUnit {
		return r.WorkerCost
	}
	return r.Soldiers[t].Cost
}

// capacity is zero for non-residential buildings.
func (r *Rules) capacity(bt BuildingType) int {
	switch {
	case bt == House:
		return r.HouseCapacity
	case bt == MilitaryCamp:
		return r.MilitaryCampCapacity
	case bt.IsProduction():
		return r.ProductionWorkerCapacity
	}
	return 0
}
