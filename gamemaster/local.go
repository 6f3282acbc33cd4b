package gamemaster

import (
	"errors"
	"fmt"
	"sort"
	"sync"

	"conquest/game"

	"github.com/rs/zerolog/log"
)

var ErrGameNotFound = errors.New("game not found")

const defaultEventBuffer = 16

// session serializes every call on one game.
type session struct {
	mu          sync.Mutex
	game        *game.Game
	subscribers map[int]chan Event
	nextSub     int
}

// Master hosts games in process. Calls on different games run in parallel;
// calls on the same game are serialized.
type Master struct {
	mu          sync.RWMutex
	games       map[string]*session
	gameOptions []game.Option
	buffer      int
}

type Option func(m *Master)

// WithGameOptions applies opts to every game the master creates.
func WithGameOptions(opts ...game.Option) Option {
	return func(m *Master) {
		m.gameOptions = append(m.gameOptions, opts...)
	}
}

// WithEventBuffer sets the per-subscriber channel size.
func WithEventBuffer(n int) Option {
	return func(m *Master) {
		if n >= 0 {
			m.buffer = n
		}
	}
}

func New(opts ...Option) *Master {
	m := &Master{
		games:  make(map[string]*session),
		buffer: defaultEventBuffer,
	}
	for _, opt := range opts {
		opt(m)
	}
	return m
}

func (m *Master) CreateGame(width, height, oceanWidth int) (string, error) {
	g, err := game.NewGame(width, height, oceanWidth, m.gameOptions...)
	if err != nil {
		return "", fmt.Errorf("cannot create game: %w", err)
	}
	m.mu.Lock()
	m.games[g.ID] = &session{game: g, subscribers: make(map[int]chan Event)}
	m.mu.Unlock()
	log.Info().Str("game", g.ID).Msgf("created %dx%d game", width, height)
	return g.ID, nil
}

// DeleteGame drops the game and closes its subscriptions.
func (m *Master) DeleteGame(gameID string) error {
	m.mu.Lock()
	s, ok := m.games[gameID]
	delete(m.games, gameID)
	m.mu.Unlock()
	if !ok {
		return fmt.Errorf("game %q: %w", gameID, ErrGameNotFound)
	}

	s.mu.Lock()
	for id, ch := range s.subscribers {
		close(ch)
		delete(s.subscribers, id)
	}
	s.subscribers = nil
	s.mu.Unlock()
	log.Info().Str("game", gameID).Msg("deleted game")
	return nil
}

// Games lists hosted game ids in sorted order.
func (m *Master) Games() []string {
	m.mu.RLock()
	defer m.mu.RUnlock()
	ids := make([]string, 0, len(m.games))
	for id := range m.games {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids
}

func (m *Master) session(gameID string) (*session, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	s, ok := m.games[gameID]
	if !ok {
		return nil, fmt.Errorf("game %q: %w", gameID, ErrGameNotFound)
	}
	return s, nil
}

// with runs fn on the game while holding its lock.
func (m *Master) with(gameID string, fn func(s *session) error) error {
	s, err := m.session(gameID)
	if err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.subscribers == nil {
		// deleted while we waited for the lock
		return fmt.Errorf("game %q: %w", gameID, ErrGameNotFound)
	}
	return fn(s)
}

func (m *Master) AddPlayer(gameID, name string) (string, error) {
	var id string
	err := m.with(gameID, func(s *session) error {
		var err error
		id, err = s.game.AddPlayer(name)
		if err != nil {
			return err
		}
		s.broadcast(Event{Type: JoinEvent, GameID: gameID, PlayerID: id})
		return nil
	})
	if err != nil {
		return "", err
	}
	log.Info().Str("game", gameID).Str("player", id).Msgf("%s joined", name)
	return id, nil
}

// Start generates the board. Starting twice is reported as an error.
func (m *Master) Start(gameID string) (game.Snapshot, error) {
	var snap game.Snapshot
	err := m.with(gameID, func(s *session) error {
		if s.game.Started() {
			return fmt.Errorf("cannot start game %q: %w", gameID, game.ErrAlreadyStarted)
		}
		s.game.Start()
		snap = s.game.Serialize()
		s.broadcast(Event{Type: StartEvent, GameID: gameID, State: &snap})
		return nil
	})
	if err != nil {
		return game.Snapshot{}, err
	}
	log.Info().Str("game", gameID).Msgf("started with %d players", len(snap.Players))
	return snap, nil
}

func (m *Master) Play(gameID string, mv game.Move) (*game.Result, error) {
	var res *game.Result
	err := m.with(gameID, func(s *session) error {
		var err error
		res, err = s.game.MakeMove(mv)
		if err != nil {
			return err
		}
		s.broadcast(Event{Type: MoveEvent, GameID: gameID, PlayerID: mv.PlayerID, Result: res})
		return nil
	})
	if err != nil {
		log.Debug().Err(err).Str("game", gameID).Str("player", mv.PlayerID).Msg("move rejected")
		return nil, err
	}
	return res, nil
}

func (m *Master) State(gameID string) (game.Snapshot, error) {
	var snap game.Snapshot
	err := m.with(gameID, func(s *session) error {
		snap = s.game.Serialize()
		return nil
	})
	return snap, err
}

func (m *Master) Players(gameID string) ([]string, error) {
	var ids []string
	err := m.with(gameID, func(s *session) error {
		ids = s.game.ListPlayers()
		return nil
	})
	return ids, err
}

func (m *Master) Standings(gameID string) ([]game.Standing, error) {
	var out []game.Standing
	err := m.with(gameID, func(s *session) error {
		out = s.game.Standings()
		return nil
	})
	return out, err
}
