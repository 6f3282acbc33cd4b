package game

import (
	"encoding/json"
	"fmt"
	"hash/fnv"
	"slices"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
	"golang.org/x/exp/rand"
)

// Player is a participant and the faction it owns.
type Player struct {
	ID      string
	Name    string
	Corner  Corner
	Faction *Faction
	index   int
}

// Game owns the board, the players and the turn queue. A Game is not safe
// for concurrent use; callers serialize access to it.
type Game struct {
	ID      string
	Board   *Board
	players []*Player
	queue   []int // player indexes; the head moves next
	started bool
	round   int
	moved   int // moves played in the current round
	rules   *Rules
	rng     *rand.Rand
	newID   func() string
}

type Option func(g *Game)

func WithRules(r *Rules) Option {
	return func(g *Game) {
		if r != nil {
			g.rules = r
		}
	}
}

// WithSeed fixes the obstacle placement.
func WithSeed(seed uint64) Option {
	return func(g *Game) {
		g.rng = rand.New(rand.NewSource(seed))
	}
}

// WithIDs replaces random uuids with ids from next, for reproducible replays.
func WithIDs(next func() string) Option {
	return func(g *Game) {
		if next != nil {
			g.newID = next
		}
	}
}

func NewGame(width, height, oceanWidth int, options ...Option) (*Game, error) {
	g := &Game{
		rules: NewStandardRules(),
		newID: uuid.NewString,
		round: 1,
	}
	for _, option := range options {
		option(g)
	}
	if width > g.rules.MaxBoardSize || height > g.rules.MaxBoardSize {
		return nil, fmt.Errorf("board %dx%d exceeds the %d limit: %w", width, height, g.rules.MaxBoardSize, ErrBoardTooLarge)
	}
	board, err := NewBoard(width, height, oceanWidth)
	if err != nil {
		return nil, err
	}
	g.Board = board
	if g.rng == nil {
		g.rng = rand.New(rand.NewSource(uint64(time.Now().UnixNano())))
	}
	g.ID = g.newID()
	return g, nil
}

func (g *Game) Rules() *Rules {
	return g.rules
}

func (g *Game) Started() bool {
	return g.started
}

func (g *Game) Round() int {
	return g.round
}

// IsFull reports whether every corner is taken.
func (g *Game) IsFull() bool {
	return len(g.players) == len(corners)
}

// AddPlayer seats a new player in the next free corner.
func (g *Game) AddPlayer(name string) (string, error) {
	if g.started {
		return "", fmt.Errorf("cannot add player %q: %w", name, ErrAlreadyStarted)
	}
	index := len(g.players)
	corner, ok := g.Board.ClaimCorner(index)
	if !ok {
		return "", fmt.Errorf("cannot add player %q: %w", name, ErrGameFull)
	}
	p := &Player{
		ID:      g.newID(),
		Name:    name,
		Corner:  corner,
		Faction: NewFaction(g.Board.CornerCoord(corner)),
		index:   index,
	}
	g.players = append(g.players, p)
	g.queue = append(g.queue, index)
	log.Debug().Str("game", g.ID).Str("player", p.ID).Stringer("corner", corner).Msg("player joined")
	return p.ID, nil
}

// Start places the environment. It may only be called once.
func (g *Game) Start() {
	if g.started {
		panic("game: Start called on a started game")
	}
	g.started = true
	g.Board.Generate(g.rules, g.rng)
	for _, p := range g.players {
		p.Faction.AddTile(p.Faction.Capital)
		p.Faction.AddResources(g.rules.InitialResources)
	}
	log.Debug().Str("game", g.ID).Int("players", len(g.players)).Msg("game started")
}

// MakeMove applies m for the player at the head of the turn queue. A
// rejected move leaves the game untouched.
func (g *Game) MakeMove(m Move) (*Result, error) {
	if !g.started {
		return nil, ErrNotStarted
	}
	p := g.player(m.PlayerID)
	if p == nil {
		return nil, fmt.Errorf("player %q: %w", m.PlayerID, ErrUnknownPlayer)
	}
	if g.queue[0] != p.index {
		return nil, fmt.Errorf("player %q: %w", p.Name, ErrNotYourTurn)
	}
	if m.Action == NoAction {
		return nil, fmt.Errorf("move has no action type: %w", ErrInvalidMove)
	}
	plan, ok := actions[m.Action]
	if !ok {
		return nil, fmt.Errorf("unsupported action %s: %w", m.Action, ErrInvalidMove)
	}
	commit, err := plan(g, p, m)
	if err != nil {
		return nil, fmt.Errorf("cannot %s: %w", m.Action, err)
	}

	res := &Result{
		GameID:   g.ID,
		PlayerID: p.ID,
		Action:   m.Action,
		Subject:  m.Subject,
		Round:    g.round,
	}
	commit(res)
	g.rotate()
	g.moved++
	if g.moved == len(g.players) {
		res.Settlement = g.settle()
		g.moved = 0
		g.round++
	}
	res.Resources = p.Faction.Stock()
	res.NextPlayer = g.CurrentPlayer()
	return res, nil
}

func (g *Game) rotate() {
	head := g.queue[0]
	copy(g.queue, g.queue[1:])
	g.queue[len(g.queue)-1] = head
}

func (g *Game) player(id string) *Player {
	i := slices.IndexFunc(g.players, func(p *Player) bool { return p.ID == id })
	if i < 0 {
		return nil
	}
	return g.players[i]
}

// ListPlayers returns player ids in join order.
func (g *Game) ListPlayers() []string {
	ids := make([]string, len(g.players))
	for i, p := range g.players {
		ids[i] = p.ID
	}
	return ids
}

// CurrentPlayer is the id of the player allowed to move, or "" without players.
func (g *Game) CurrentPlayer() string {
	if len(g.queue) == 0 {
		return ""
	}
	return g.players[g.queue[0]].ID
}

func (g *Game) ownerID(owner int) string {
	if owner == NoOwner {
		return ""
	}
	return g.players[owner].ID
}

// Serialize returns a deep copy of the full state.
func (g *Game) Serialize() Snapshot {
	s := Snapshot{
		ID:         g.ID,
		Width:      g.Board.Width,
		Height:     g.Board.Height,
		OceanWidth: g.Board.OceanWidth,
		Started:    g.started,
		Round:      g.round,
		Players:    make([]PlayerSnapshot, len(g.players)),
		TurnOrder:  make([]string, len(g.queue)),
		Tiles:      make([]TileSnapshot, 0, len(g.Board.tiles)),
	}
	for i, p := range g.players {
		s.Players[i] = PlayerSnapshot{
			ID:        p.ID,
			Name:      p.Name,
			Corner:    p.Corner.String(),
			Capital:   p.Faction.Capital,
			Resources: p.Faction.Stock(),
			Tiles:     p.Faction.Tiles(),
			Unlocked:  p.Faction.Unlocked(),
		}
	}
	for i, idx := range g.queue {
		s.TurnOrder[i] = g.players[idx].ID
	}
	g.Board.each(func(t *Tile) {
		ts := TileSnapshot{
			X:        t.X,
			Y:        t.Y,
			Terrain:  t.Terrain,
			HP:       t.HP,
			MaxHP:    t.MaxHP,
			Owner:    g.ownerID(t.Owner),
			Level:    t.Level,
			Capital:  t.Capital,
			Garrison: append([]Soldier(nil), t.Garrison...),
			Treasure: t.Treasure,
			Walls:    t.Walls,
			Towers:   t.Towers,
		}
		for _, b := range t.Buildings {
			ts.Buildings = append(ts.Buildings, *b.clone())
		}
		s.Tiles = append(s.Tiles, ts)
	})
	return s
}

// Hash fingerprints the full state. Two games fed the same ids, seed and
// moves hash equal.
func (g *Game) Hash() uint64 {
	return HashSnapshot(g.Serialize())
}

// HashSnapshot is FNV-64a over the JSON encoding of s.
func HashSnapshot(s Snapshot) uint64 {
	data, err := json.Marshal(s)
	if err != nil {
		panic(fmt.Sprintf("game: snapshot is not serializable: %v", err))
	}
	h := fnv.New64a()
	h.Write(data)
	return h.Sum64()
}
