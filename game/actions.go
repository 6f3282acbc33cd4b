package game

import (
	"fmt"
	"strings"
)

// commitFunc applies a validated move. It must not fail.
type commitFunc func(res *Result)

// planFunc validates a move against the current state and returns the
// mutation to apply. A non-nil error means nothing may change.
type planFunc func(g *Game, p *Player, m Move) (commitFunc, error)

var actions = map[ActionType]planFunc{
	PassAction:          planPass,
	MoveArmyAction:      planMoveArmy,
	ConstructAction:     planConstruct,
	CreateUnitAction:    planCreateUnit,
	TransferAction:      planTransfer,
	FortifyAction:       planFortify,
	AssignWorkersAction: planAssignWorkers,
	EquipToolsAction:    planEquipTools,
}

func (g *Game) ownedTile(p *Player, c Coord) (*Tile, error) {
	t := g.Board.Tile(c)
	if t == nil {
		return nil, fmt.Errorf("tile %s: %w", c, ErrOutOfBounds)
	}
	if t.Owner != p.index {
		return nil, fmt.Errorf("tile %s: %w", c, ErrNotOwned)
	}
	return t, nil
}

// affordsRepeated checks that n sequential debits of cost all succeed,
// using the same arithmetic as the debits themselves.
func affordsRepeated(f *Faction, cost Bundle, n int) bool {
	if cost.hasNegative() {
		return false
	}
	stock := f.Stock()
	if cost.IsZero() {
		return true
	}
	for i := 0; i < n; i++ {
		if !stock.Covers(cost) {
			return false
		}
		stock = Bundle{Food: stock.Food - cost.Food, Wood: stock.Wood - cost.Wood, Metal: stock.Metal - cost.Metal}
	}
	return true
}

func planPass(g *Game, p *Player, m Move) (commitFunc, error) {
	return func(res *Result) {}, nil
}

func planConstruct(g *Game, p *Player, m Move) (commitFunc, error) {
	bt, err := ParseBuildingType(m.Subject)
	if err != nil {
		return nil, err
	}
	t, err := g.ownedTile(p, m.From)
	if err != nil {
		return nil, err
	}
	if !t.Passable() {
		return nil, fmt.Errorf("cannot build on %s: %w", t.Terrain, ErrInvalidMove)
	}
	if !p.Faction.IsUnlocked(bt) {
		return nil, fmt.Errorf("%s: %w", bt, ErrLocked)
	}
	if len(t.Buildings) >= g.rules.TileBuildingCapacity {
		return nil, fmt.Errorf("tile %s holds %d buildings: %w", t.Coord, len(t.Buildings), ErrCapacityExceeded)
	}
	if bt == Dock && !g.Board.IsShore(t.Coord) {
		return nil, fmt.Errorf("dock needs a shore tile: %w", ErrInvalidMove)
	}
	cost := g.rules.BuildingCosts[bt]
	if !p.Faction.HasResources(cost) {
		return nil, fmt.Errorf("%s costs %+v: %w", bt, cost, ErrInsufficientResources)
	}
	return func(res *Result) {
		p.Faction.UseResources(cost)
		t.Buildings = append(t.Buildings, NewBuilding(bt, t.Coord))
		res.touch(t.Coord)
	}, nil
}

func planCreateUnit(g *Game, p *Player, m Move) (commitFunc, error) {
	kind, err := ParseUnitType(m.Subject)
	if err != nil {
		return nil, err
	}
	n, err := m.batch(g.rules.MaxBatchSize)
	if err != nil {
		return nil, err
	}
	t, err := g.ownedTile(p, m.From)
	if err != nil {
		return nil, err
	}
	if !affordsRepeated(p.Faction, g.rules.unitCost(kind), n) {
		return nil, fmt.Errorf("%d x %s: %w", n, kind, ErrInsufficientResources)
	}

	if kind == WorkerUnit {
		var houses []*Building
		free := 0
		for _, b := range t.Buildings {
			if b.Type == House {
				houses = append(houses, b)
				free += b.Free(g.rules)
			}
		}
		if len(houses) == 0 {
			return nil, fmt.Errorf("no house on %s: %w", t.Coord, ErrInvalidMove)
		}
		if free < n {
			return nil, fmt.Errorf("houses on %s have room for %d: %w", t.Coord, free, ErrCapacityExceeded)
		}
		return func(res *Result) {
			for i := 0; i < n; i++ {
				for _, h := range houses {
					if h.CreateWorker(p.Faction, g.rules) {
						res.Created = append(res.Created, WorkerUnit)
						break
					}
				}
			}
			res.touch(t.Coord)
		}, nil
	}

	trainer := t.trainerFor(kind)
	if trainer == nil {
		return nil, fmt.Errorf("nothing on %s trains %s: %w", t.Coord, kind, ErrInvalidMove)
	}
	return func(res *Result) {
		for i := 0; i < n; i++ {
			if trainer.CreateSoldier(p.Faction, t, kind, g.rules) {
				res.Created = append(res.Created, kind)
			}
		}
		res.touch(t.Coord)
	}, nil
}

func planTransfer(g *Game, p *Player, m Move) (commitFunc, error) {
	kind, err := ParseResourceKind(m.Subject)
	if err != nil {
		return nil, err
	}
	if m.Amount == nil || *m.Amount <= 0 {
		return nil, fmt.Errorf("transfer needs a positive amount: %w", ErrInvalidMove)
	}
	if m.To == nil {
		return nil, fmt.Errorf("transfer needs a destination tile: %w", ErrInvalidMove)
	}
	if _, err := g.ownedTile(p, m.From); err != nil {
		return nil, err
	}
	dst := g.Board.Tile(*m.To)
	if dst == nil {
		return nil, fmt.Errorf("tile %s: %w", *m.To, ErrOutOfBounds)
	}
	if dst.Owner == NoOwner || dst.Owner == p.index {
		return nil, fmt.Errorf("transfer needs a tile held by another player: %w", ErrInvalidMove)
	}
	amount := Amount{Kind: kind, Value: *m.Amount}
	if p.Faction.Balance(kind).Value < amount.Value {
		return nil, fmt.Errorf("transfer of %s: %w", amount, ErrInsufficientResources)
	}
	recipient := g.players[dst.Owner].Faction
	return func(res *Result) {
		if p.Faction.UseResourceIfAvailable(amount) {
			_ = recipient.AddResource(amount)
		}
		res.touch(m.From, dst.Coord)
	}, nil
}

func planFortify(g *Game, p *Player, m Move) (commitFunc, error) {
	n, err := m.batch(g.rules.MaxBatchSize)
	if err != nil {
		return nil, err
	}
	t, err := g.ownedTile(p, m.From)
	if err != nil {
		return nil, err
	}
	switch {
	case strings.EqualFold(m.Subject, WallSubject):
		cost := g.rules.WallCost
		if !affordsRepeated(p.Faction, cost, n) {
			return nil, fmt.Errorf("%d walls: %w", n, ErrInsufficientResources)
		}
		return func(res *Result) {
			for i := 0; i < n; i++ {
				p.Faction.UseResources(cost)
			}
			t.BuildWalls(n)
			res.touch(t.Coord)
		}, nil
	case strings.EqualFold(m.Subject, TowerSubject):
		if t.Towers+n > g.rules.MaxTowersPerTile {
			return nil, fmt.Errorf("tile %s has %d of %d towers: %w", t.Coord, t.Towers, g.rules.MaxTowersPerTile, ErrCapacityExceeded)
		}
		cost := g.rules.TowerCost
		if !affordsRepeated(p.Faction, cost, n) {
			return nil, fmt.Errorf("%d towers: %w", n, ErrInsufficientResources)
		}
		return func(res *Result) {
			for i := 0; i < n; i++ {
				p.Faction.UseResources(cost)
				_ = t.BuildTower(g.rules)
			}
			res.touch(t.Coord)
		}, nil
	}
	return nil, fmt.Errorf("unknown fortification %q: %w", m.Subject, ErrInvalidMove)
}

func planAssignWorkers(g *Game, p *Player, m Move) (commitFunc, error) {
	bt, err := ParseBuildingType(m.Subject)
	if err != nil {
		return nil, err
	}
	if !bt.IsProduction() {
		return nil, fmt.Errorf("%s is not a production building: %w", bt, ErrInvalidMove)
	}
	n, err := m.batch(g.rules.MaxBatchSize)
	if err != nil {
		return nil, err
	}
	src, err := g.ownedTile(p, m.From)
	if err != nil {
		return nil, err
	}
	dst, err := g.ownedTile(p, m.target())
	if err != nil {
		return nil, err
	}
	if Chebyshev(src.Coord, dst.Coord) > 1 {
		return nil, fmt.Errorf("%s to %s: %w", src.Coord, dst.Coord, ErrNotAdjacent)
	}

	available, free := 0, 0
	for _, b := range src.Buildings {
		if b.Type == House {
			available += len(b.Workers)
		}
	}
	for _, b := range dst.Buildings {
		if b.Type == bt {
			free += b.Free(g.rules)
		}
	}
	if available < n {
		return nil, fmt.Errorf("houses on %s hold %d workers: %w", src.Coord, available, ErrInvalidMove)
	}
	if free < n {
		return nil, fmt.Errorf("%s on %s has room for %d: %w", bt, dst.Coord, free, ErrCapacityExceeded)
	}
	return func(res *Result) {
		var moving []Worker
		for _, b := range src.Buildings {
			if b.Type == House && len(moving) < n {
				moving = append(moving, b.takeWorkers(n-len(moving))...)
			}
		}
		for _, w := range moving {
			for _, b := range dst.Buildings {
				if b.Type == bt && b.AddWorker(w, g.rules) == nil {
					break
				}
			}
		}
		res.touch(src.Coord, dst.Coord)
	}, nil
}

func planEquipTools(g *Game, p *Player, m Move) (commitFunc, error) {
	bt, err := ParseBuildingType(m.Subject)
	if err != nil {
		return nil, err
	}
	if !bt.HousesWorkers() {
		return nil, fmt.Errorf("%s: %w", bt, ErrResidentMismatch)
	}
	n, err := m.batch(g.rules.MaxBatchSize)
	if err != nil {
		return nil, err
	}
	t, err := g.ownedTile(p, m.From)
	if err != nil {
		return nil, err
	}
	untooled := 0
	for _, b := range t.Buildings {
		if b.Type != bt {
			continue
		}
		for _, w := range b.Workers {
			if !w.HasTool {
				untooled++
			}
		}
	}
	if untooled < n {
		return nil, fmt.Errorf("%s on %s has %d workers without tools: %w", bt, t.Coord, untooled, ErrInvalidMove)
	}
	cost := g.rules.WorkerToolCost
	if !affordsRepeated(p.Faction, cost, n) {
		return nil, fmt.Errorf("%d tools: %w", n, ErrInsufficientResources)
	}
	return func(res *Result) {
		left := n
		for _, b := range t.Buildings {
			if b.Type != bt {
				continue
			}
			for i := range b.Workers {
				if left == 0 {
					break
				}
				if !b.Workers[i].HasTool && p.Faction.UseResources(cost) {
					b.Workers[i].HasTool = true
					left--
				}
			}
		}
		res.touch(t.Coord)
	}, nil
}
