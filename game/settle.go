package game

import "github.com/rs/zerolog/log"

// Settlement is the end-of-round economy pass.
type Settlement struct {
	Round    int                 `json:"round"`
	Factions []FactionSettlement `json:"factions"`
}

type FactionSettlement struct {
	PlayerID string `json:"player_id"`
	Produced Bundle `json:"produced"`
	Consumed Bundle `json:"consumed"`
	Upkeep   Bundle `json:"upkeep"`
	Deserted int    `json:"deserted"`
}

// settle runs production, then charges soldier upkeep. Camps shelter the
// first soldiers of each garrison; a soldier whose upkeep cannot be paid
// deserts. Sea transport ends with the round.
func (g *Game) settle() *Settlement {
	s := &Settlement{Round: g.round}
	for _, p := range g.players {
		fs := FactionSettlement{PlayerID: p.ID}
		tiles := p.Faction.Tiles()
		for _, c := range tiles {
			for _, b := range g.Board.Tile(c).Buildings {
				produced, consumed := b.Produce(p.Faction, g.rules)
				fs.Produced = fs.Produced.Plus(produced)
				fs.Consumed = fs.Consumed.Plus(consumed)
			}
		}
		for _, c := range tiles {
			t := g.Board.Tile(c)
			shelter := t.shelterCapacity(g.rules)
			kept := make([]Soldier, 0, len(t.Garrison))
			for i, soldier := range t.Garrison {
				soldier.Sheltered = i < shelter
				cost := soldier.Upkeep(g.rules)
				if !p.Faction.UseResources(cost) {
					fs.Deserted++
					continue
				}
				fs.Upkeep = fs.Upkeep.Plus(cost)
				soldier.Transport = false
				kept = append(kept, soldier)
			}
			t.Garrison = kept
		}
		s.Factions = append(s.Factions, fs)
	}
	log.Debug().Str("game", g.ID).Int("round", g.round).Msg("round settled")
	return s
}
