package game

// Result is the broadcastable effect of one accepted move.
type Result struct {
	GameID     string         `json:"game_id"`
	PlayerID   string         `json:"player_id"`
	Action     ActionType     `json:"action_type"`
	Subject    string         `json:"subject,omitempty"`
	Round      int            `json:"round"`
	Changed    []Coord        `json:"changed_tiles,omitempty"`
	Created    []UnitType     `json:"created,omitempty"`
	Combat     *CombatReport  `json:"combat,omitempty"`
	Unlocked   []BuildingType `json:"unlocked,omitempty"`
	Resources  Bundle         `json:"resources"`
	Settlement *Settlement    `json:"settlement,omitempty"`
	NextPlayer string         `json:"next_player"`
}

func (r *Result) touch(cs ...Coord) {
	for _, c := range cs {
		seen := false
		for _, existing := range r.Changed {
			if existing == c {
				seen = true
				break
			}
		}
		if !seen {
			r.Changed = append(r.Changed, c)
		}
	}
}

// Snapshot is a deep, handle-free copy of a game for broadcast and hashing.
type Snapshot struct {
	ID         string           `json:"id"`
	Width      int              `json:"width"`
	Height     int              `json:"height"`
	OceanWidth int              `json:"ocean_width"`
	Started    bool             `json:"started"`
	Round      int              `json:"round"`
	Players    []PlayerSnapshot `json:"players"`
	TurnOrder  []string         `json:"turn_order"`
	Tiles      []TileSnapshot   `json:"tiles"`
}

type PlayerSnapshot struct {
	ID        string         `json:"id"`
	Name      string         `json:"name"`
	Corner    string         `json:"corner"`
	Capital   Coord          `json:"capital"`
	Resources Bundle         `json:"resources"`
	Tiles     []Coord        `json:"tiles"`
	Unlocked  []BuildingType `json:"unlocked"`
}

type TileSnapshot struct {
	X         int        `json:"x"`
	Y         int        `json:"y"`
	Terrain   Terrain    `json:"terrain"`
	HP        float64    `json:"hp"`
	MaxHP     float64    `json:"max_hp"`
	Owner     string     `json:"owner,omitempty"`
	Level     int        `json:"level,omitempty"`
	Capital   bool       `json:"capital,omitempty"`
	Buildings []Building `json:"buildings,omitempty"`
	Garrison  []Soldier  `json:"garrison,omitempty"`
	Treasure  Bundle     `json:"treasure"`
	Walls     int        `json:"walls"`
	Towers    int        `json:"towers"`
}
