package engine

import (
	"fmt"
	"os"

	"conquest/game"

	"gopkg.in/yaml.v3"
)

const MaxMoves = 10000

// ScriptMove is a move addressed by player name rather than id, so scripts
// can be written before any id exists.
type ScriptMove struct {
	Player  string      `yaml:"player"`
	Action  string      `yaml:"action"`
	From    game.Coord  `yaml:"from"`
	To      *game.Coord `yaml:"to,omitempty"`
	Subject string      `yaml:"subject,omitempty"`
	Amount  *float64    `yaml:"amount,omitempty"`
}

// Script describes a whole game: board, players in seating order and the
// moves to submit.
type Script struct {
	Name       string       `yaml:"name"`
	BoardSize  int          `yaml:"board_size"`
	OceanWidth int          `yaml:"ocean_width"`
	Seed       uint64       `yaml:"seed"`
	Rules      string       `yaml:"rules,omitempty"`
	Players    []string     `yaml:"players"`
	Moves      []ScriptMove `yaml:"moves"`
}

func LoadScript(path string) (*Script, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read script: %w", err)
	}
	s, err := ParseScript(data)
	if err != nil {
		return nil, fmt.Errorf("script %s: %w", path, err)
	}
	return s, nil
}

func ParseScript(data []byte) (*Script, error) {
	var s Script
	if err := yaml.Unmarshal(data, &s); err != nil {
		return nil, fmt.Errorf("failed to parse script: %w", err)
	}
	if err := s.Validate(); err != nil {
		return nil, err
	}
	return &s, nil
}

func (s *Script) Validate() error {
	if s.BoardSize < 2 {
		return fmt.Errorf("invalid script: board_size %d is too small", s.BoardSize)
	}
	if len(s.Players) == 0 || len(s.Players) > 4 {
		return fmt.Errorf("invalid script: need 1 to 4 players, got %d", len(s.Players))
	}
	if len(s.Moves) > MaxMoves {
		return fmt.Errorf("invalid script: %d moves exceeds the limit of %d", len(s.Moves), MaxMoves)
	}
	seen := make(map[string]bool, len(s.Players))
	for _, p := range s.Players {
		if seen[p] {
			return fmt.Errorf("invalid script: duplicate player %q", p)
		}
		seen[p] = true
	}
	for i, m := range s.Moves {
		if !seen[m.Player] {
			return fmt.Errorf("invalid script: move %d names unknown player %q", i+1, m.Player)
		}
		if _, err := game.ParseActionType(m.Action); err != nil {
			return fmt.Errorf("invalid script: move %d: %w", i+1, err)
		}
	}
	return nil
}

// move resolves m against the player ids assigned at join time.
func (m ScriptMove) move(ids map[string]string) game.Move {
	action, _ := game.ParseActionType(m.Action)
	return game.Move{
		PlayerID: ids[m.Player],
		From:     m.From,
		To:       m.To,
		Action:   action,
		Subject:  m.Subject,
		Amount:   m.Amount,
	}
}
