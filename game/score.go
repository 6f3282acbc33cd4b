package game

import "sort"

// Standing summarizes a player's position. Score is the mean of the player's
// share of all held tiles, soldiers, wealth and connected territory, in [0, 1].
type Standing struct {
	PlayerID      string  `json:"player_id"`
	Name          string  `json:"name"`
	Tiles         int     `json:"tiles"`
	Soldiers      int     `json:"soldiers"`
	Workers       int     `json:"workers"`
	Wealth        float64 `json:"wealth"`
	LargestRegion int     `json:"largest_region"`
	Score         float64 `json:"score"`
}

// Standings ranks players by score, best first.
func (g *Game) Standings() []Standing {
	out := make([]Standing, len(g.players))
	var tiles, soldiers, wealth, regions float64
	for i, p := range g.players {
		st := Standing{PlayerID: p.ID, Name: p.Name}
		owned := p.Faction.Tiles()
		st.Tiles = len(owned)
		for _, c := range owned {
			t := g.Board.Tile(c)
			st.Soldiers += len(t.Garrison)
			st.Workers += t.workerCount()
		}
		stock := p.Faction.Stock()
		st.Wealth = stock.Food + stock.Wood + stock.Metal
		st.LargestRegion = g.largestRegion(p)
		out[i] = st

		tiles += float64(st.Tiles)
		soldiers += float64(st.Soldiers)
		wealth += st.Wealth
		regions += float64(st.LargestRegion)
	}
	for i := range out {
		out[i].Score = (share(float64(out[i].Tiles), tiles) +
			share(float64(out[i].Soldiers), soldiers) +
			share(out[i].Wealth, wealth) +
			share(float64(out[i].LargestRegion), regions)) / 4
	}
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].Score > out[j].Score
	})
	return out
}

func share(value, total float64) float64 {
	if total == 0 {
		return 0
	}
	return value / total
}

// largestRegion is the size of the biggest 8-connected group of p's tiles.
func (g *Game) largestRegion(p *Player) int {
	visited := make(map[Coord]bool)
	largest := 0
	for _, c := range p.Faction.Tiles() {
		if !visited[c] {
			largest = max(largest, g.dfs(c, p.Faction, visited))
		}
	}
	return largest
}

func (g *Game) dfs(c Coord, f *Faction, visited map[Coord]bool) int {
	visited[c] = true
	size := 1
	for _, n := range g.Board.Neighbors(c) {
		if f.Controls(n) && !visited[n] {
			size += g.dfs(n, f, visited)
		}
	}
	return size
}
