package game

import (
	"fmt"

	"github.com/rs/zerolog/log"
)

// CombatReport describes one resolved battle.
type CombatReport struct {
	Attacker       string  `json:"attacker"`
	Defender       string  `json:"defender,omitempty"`
	AttackPower    float64 `json:"attack_power"`
	DefensePower   float64 `json:"defense_power"`
	AttackerLosses int     `json:"attacker_losses"`
	DefenderLosses int     `json:"defender_losses"`
	Damage         float64 `json:"damage"`
	Captured       bool    `json:"captured"`
	Loot           Bundle  `json:"loot"`
}

// resolveBattle computes the outcome of attackers marching distance tiles
// onto defender. It does not mutate anything.
//
// Attack power fades with distance and is reduced by walls, except for
// siege units. Defense is the garrison plus tower archery. The stronger side
// wipes out the weaker one and loses soldiers in proportion to the power
// ratio. A winning attacker's surplus damages the tile.
func resolveBattle(attackers []Soldier, defender *Tile, distance int, r *Rules) CombatReport {
	march := max(0, 1-r.AttackMovePerTile*float64(distance))
	walls := defender.WallDamageMultiplier(r)

	var attack float64
	for _, s := range attackers {
		power := r.Soldiers[s.Type].Attack * march
		if s.Type.Class() != Siege {
			power *= walls
		}
		attack += power
	}
	defense := defender.ArcheryPower(r)
	for _, s := range defender.Garrison {
		defense += r.Soldiers[s.Type].Defense
	}

	rep := CombatReport{AttackPower: attack, DefensePower: defense}
	if attack > defense {
		rep.DefenderLosses = len(defender.Garrison)
		rep.AttackerLosses = int(float64(len(attackers)) * defense / attack)
		rep.Damage = attack - defense
		rep.Captured = rep.Damage >= defender.HP
		return rep
	}
	rep.AttackerLosses = len(attackers)
	if defense > 0 {
		rep.DefenderLosses = int(float64(len(defender.Garrison)) * attack / defense)
	}
	return rep
}

// planMoveArmy relocates soldiers onto a friendly tile or attacks any other
// land tile. Targets further than one tile are reachable by sea from a Dock.
func planMoveArmy(g *Game, p *Player, m Move) (commitFunc, error) {
	src, err := g.ownedTile(p, m.From)
	if err != nil {
		return nil, err
	}
	if m.To == nil {
		return nil, fmt.Errorf("army move needs a destination tile: %w", ErrInvalidMove)
	}
	dst := g.Board.Tile(*m.To)
	if dst == nil {
		return nil, fmt.Errorf("tile %s: %w", *m.To, ErrOutOfBounds)
	}
	if dst.Coord == src.Coord {
		return nil, fmt.Errorf("army is already on %s: %w", src.Coord, ErrInvalidMove)
	}
	if !dst.Passable() {
		return nil, fmt.Errorf("tile %s is %s: %w", dst.Coord, dst.Terrain, ErrInvalidMove)
	}
	if len(src.Garrison) == 0 {
		return nil, fmt.Errorf("no soldiers on %s: %w", src.Coord, ErrInvalidMove)
	}
	n, err := m.count(len(src.Garrison))
	if err != nil {
		return nil, err
	}
	if n > len(src.Garrison) {
		return nil, fmt.Errorf("only %d soldiers on %s: %w", len(src.Garrison), src.Coord, ErrInvalidMove)
	}

	distance := Chebyshev(src.Coord, dst.Coord)
	bySea := false
	if distance > 1 {
		if !src.HasBuilding(Dock) || !g.Board.IsShore(dst.Coord) || distance > g.rules.DockRange {
			return nil, fmt.Errorf("%s to %s: %w", src.Coord, dst.Coord, ErrNotAdjacent)
		}
		bySea = true
	}

	if dst.Owner == p.index {
		return func(res *Result) {
			army := src.takeSoldiers(n)
			for i := range army {
				army[i].Sheltered = false
				army[i].Transport = bySea
			}
			dst.Garrison = append(dst.Garrison, army...)
			res.touch(src.Coord, dst.Coord)
		}, nil
	}

	rep := resolveBattle(src.Garrison[len(src.Garrison)-n:], dst, distance, g.rules)
	rep.Attacker = p.ID
	rep.Defender = g.ownerID(dst.Owner)
	return func(res *Result) {
		g.fight(p, src, dst, n, bySea, &rep, res)
	}, nil
}

// fight applies a resolved battle to the board.
func (g *Game) fight(p *Player, src, dst *Tile, n int, bySea bool, rep *CombatReport, res *Result) {
	army := src.takeSoldiers(n)
	survivors := army[:len(army)-rep.AttackerLosses]
	dst.Garrison = dst.Garrison[:len(dst.Garrison)-rep.DefenderLosses]

	switch {
	case rep.Captured:
		rep.Loot = g.capture(p, dst, res)
		for i := range survivors {
			survivors[i].Sheltered = false
			survivors[i].Transport = bySea
		}
		dst.Garrison = survivors
	default:
		if rep.Damage > 0 {
			dst.HP -= rep.Damage
		}
		src.Garrison = append(src.Garrison, survivors...)
	}

	log.Debug().
		Str("game", g.ID).
		Str("attacker", p.ID).
		Stringer("target", dst.Coord).
		Float64("attack", rep.AttackPower).
		Float64("defense", rep.DefensePower).
		Bool("captured", rep.Captured).
		Msg("battle resolved")
	res.Combat = rep
	res.touch(src.Coord, dst.Coord)
}

// capture moves dst to p, loots its treasure and grants distance unlocks.
func (g *Game) capture(p *Player, dst *Tile, res *Result) Bundle {
	if dst.Owner != NoOwner {
		g.players[dst.Owner].Faction.RemoveTile(dst.Coord)
	}
	loot := dst.Treasure
	dst.Treasure = Bundle{}
	p.Faction.AddResources(loot)

	dst.ChangeFaction(p.index)
	p.Faction.AddTile(dst.Coord)
	res.Unlocked = append(res.Unlocked, p.Faction.UnlockBuilding(Chebyshev(dst.Coord, p.Faction.Capital))...)
	return loot
}
