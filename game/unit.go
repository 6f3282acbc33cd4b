package game

import (
	"fmt"
	"strings"
)

// UnitType names a unit. Worker is the only non-military type.
type UnitType string

const (
	WorkerUnit   UnitType = "Worker"
	Swordsman    UnitType = "Swordsman"
	Spearman     UnitType = "Spearman"
	Archer       UnitType = "Archer"
	LightCavalry UnitType = "LightCavalry"
	HeavyCavalry UnitType = "HeavyCavalry"
	HorseArcher  UnitType = "HorseArcher"
	Cannon       UnitType = "Cannon"
)

var soldierTypes = []UnitType{Swordsman, Spearman, Archer, LightCavalry, HeavyCavalry, HorseArcher, Cannon}

// SoldierClass groups soldier types by the building that trains them.
type SoldierClass int

const (
	Infantry SoldierClass = iota
	Cavalry
	Siege
)

func (c SoldierClass) String() string {
	switch c {
	case Infantry:
		return "Infantry"
	case Cavalry:
		return "Cavalry"
	case Siege:
		return "Siege"
	default:
		return fmt.Sprintf("SoldierClass(%d)", int(c))
	}
}

var soldierClasses = map[UnitType]SoldierClass{
	Swordsman:    Infantry,
	Spearman:     Infantry,
	Archer:       Infantry,
	LightCavalry: Cavalry,
	HeavyCavalry: Cavalry,
	HorseArcher:  Cavalry,
	Cannon:       Siege,
}

func (t UnitType) IsSoldier() bool {
	_, ok := soldierClasses[t]
	return ok
}

// Class panics for non-soldier types.
func (t UnitType) Class() SoldierClass {
	c, ok := soldierClasses[t]
	if !ok {
		panic(fmt.Sprintf("unit type %q has no soldier class", t))
	}
	return c
}

func ParseUnitType(s string) (UnitType, error) {
	if strings.EqualFold(s, string(WorkerUnit)) {
		return WorkerUnit, nil
	}
	for _, t := range soldierTypes {
		if strings.EqualFold(s, string(t)) {
			return t, nil
		}
	}
	return "", fmt.Errorf("unknown unit type %q: %w", s, ErrInvalidMove)
}

type Worker struct {
	HasTool bool `json:"has_tool"`
}

type Soldier struct {
	Type      UnitType `json:"type"`
	Sheltered bool     `json:"sheltered"`
	Transport bool     `json:"transport"`
}

// Upkeep is the per-round cost of keeping s.
func (s Soldier) Upkeep(r *Rules) Bundle {
	var cost Bundle
	if !s.Sheltered {
		cost = cost.Plus(r.SoldierUnshelteredRoundCost)
	}
	if s.Transport {
		cost = cost.Plus(r.SoldierTransportRoundCost)
	}
	return cost
}
