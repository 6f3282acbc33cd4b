package gamemaster

import (
	"conquest/game"

	"github.com/rs/zerolog/log"
)

type EventType string

const (
	JoinEvent  EventType = "join"
	StartEvent EventType = "start"
	MoveEvent  EventType = "move"
)

// Event is pushed to every subscriber of a game after a state change.
type Event struct {
	Type     EventType      `json:"type"`
	GameID   string         `json:"game_id"`
	PlayerID string         `json:"player_id,omitempty"`
	Result   *game.Result   `json:"result,omitempty"`
	State    *game.Snapshot `json:"state,omitempty"`
}

// broadcast delivers ev without blocking. Subscribers that fall behind lose
// the event. Callers hold s.mu.
func (s *session) broadcast(ev Event) {
	for id, ch := range s.subscribers {
		select {
		case ch <- ev:
		default:
			log.Warn().
				Str("game", ev.GameID).
				Int("subscriber", id).
				Str("event", string(ev.Type)).
				Msg("subscriber is full, dropping event")
		}
	}
}

// Subscribe returns a channel of events for gameID and a function that ends
// the subscription. The channel is closed when the subscription ends or the
// game is deleted.
func (m *Master) Subscribe(gameID string) (<-chan Event, func(), error) {
	s, err := m.session(gameID)
	if err != nil {
		return nil, nil, err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.subscribers == nil {
		return nil, nil, ErrGameNotFound
	}
	id := s.nextSub
	s.nextSub++
	ch := make(chan Event, m.buffer)
	s.subscribers[id] = ch

	return ch, func() {
		s.mu.Lock()
		defer s.mu.Unlock()
		if ch, ok := s.subscribers[id]; ok {
			delete(s.subscribers, id)
			close(ch)
		}
	}, nil
}
