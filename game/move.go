package game

import (
	"fmt"
	"math"
	"strings"
)

// ActionType represents the kind of action a move performs.
type ActionType int

const (
	// NoAction is the zero value; a move without an action type is rejected.
	NoAction ActionType = iota
	PassAction
	MoveArmyAction
	ConstructAction
	CreateUnitAction
	TransferAction
	FortifyAction
	AssignWorkersAction
	EquipToolsAction
)

var actionNames = map[ActionType]string{
	PassAction:          "pass",
	MoveArmyAction:      "move_army",
	ConstructAction:     "construct",
	CreateUnitAction:    "create_unit",
	TransferAction:      "transfer",
	FortifyAction:       "fortify",
	AssignWorkersAction: "assign_workers",
	EquipToolsAction:    "equip_tools",
}

func (a ActionType) String() string {
	if name, ok := actionNames[a]; ok {
		return name
	}
	return fmt.Sprintf("ActionType(%d)", int(a))
}

func ParseActionType(s string) (ActionType, error) {
	for a, name := range actionNames {
		if strings.EqualFold(s, name) {
			return a, nil
		}
	}
	return NoAction, fmt.Errorf("unknown action type %q: %w", s, ErrInvalidMove)
}

func (a ActionType) MarshalText() ([]byte, error) {
	return []byte(a.String()), nil
}

func (a *ActionType) UnmarshalText(text []byte) error {
	parsed, err := ParseActionType(string(text))
	if err != nil {
		return err
	}
	*a = parsed
	return nil
}

// Fortification subjects for FortifyAction.
const (
	WallSubject  = "Wall"
	TowerSubject = "Tower"
)

// Move is one player's submitted action. Subject names the building, unit,
// resource or fortification the action is about.
type Move struct {
	PlayerID string     `json:"player_id"`
	From     Coord      `json:"first_tile"`
	To       *Coord     `json:"second_tile,omitempty"`
	Action   ActionType `json:"action_type"`
	Subject  string     `json:"subject,omitempty"`
	Amount   *float64   `json:"amount,omitempty"`
}

// count reads Amount as a positive unit count, falling back to def.
func (m Move) count(def int) (int, error) {
	if m.Amount == nil {
		return def, nil
	}
	a := *m.Amount
	if a < 1 || a > math.MaxInt32 || a != math.Trunc(a) {
		return 0, fmt.Errorf("amount %g is not a positive whole number: %w", a, ErrInvalidMove)
	}
	return int(a), nil
}

// batch is count(1) bounded by limit, for actions repeated once per unit.
func (m Move) batch(limit int) (int, error) {
	n, err := m.count(1)
	if err != nil {
		return 0, err
	}
	if n > limit {
		return 0, fmt.Errorf("amount %d exceeds the batch limit of %d: %w", n, limit, ErrCapacityExceeded)
	}
	return n, nil
}

// target returns the second tile, or the first when none was given.
func (m Move) target() Coord {
	if m.To != nil {
		return *m.To
	}
	return m.From
}
