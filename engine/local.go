package engine

import (
	"fmt"
	"strconv"

	"conquest/game"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
)

// Record is the outcome of one scripted move.
type Record struct {
	Step   int
	Player string
	Move   game.Move
	Result *game.Result
	Err    error
	Hash   uint64
}

func (r Record) Accepted() bool {
	return r.Err == nil
}

// Replay is the outcome of a whole script.
type Replay struct {
	GameID    string
	Records   []Record
	Rejected  int
	Final     game.Snapshot
	Hash      uint64
	Standings []game.Standing
}

// Run plays s on a fresh in-process game. Rejected moves are recorded and
// skipped. Ids are derived from the script name and seed, so running the
// same script twice gives the same hash.
func Run(s *Script, opts ...game.Option) (*Replay, error) {
	rules := game.NewStandardRules()
	if s.Rules != "" {
		var err error
		if rules, err = game.LoadRules(s.Rules); err != nil {
			return nil, err
		}
	}
	options := append([]game.Option{
		game.WithRules(rules),
		game.WithSeed(s.Seed),
		game.WithIDs(scriptIDs(s)),
	}, opts...)

	g, err := game.NewGame(s.BoardSize, s.BoardSize, s.OceanWidth, options...)
	if err != nil {
		return nil, fmt.Errorf("cannot create game: %w", err)
	}
	ids := make(map[string]string, len(s.Players))
	for _, name := range s.Players {
		id, err := g.AddPlayer(name)
		if err != nil {
			return nil, err
		}
		ids[name] = id
	}
	g.Start()
	log.Info().Str("game", g.ID).Msgf("replaying %d moves for %d players", len(s.Moves), len(s.Players))

	replay := &Replay{GameID: g.ID, Records: make([]Record, 0, len(s.Moves))}
	for i, sm := range s.Moves {
		m := sm.move(ids)
		res, err := g.MakeMove(m)
		rec := Record{Step: i + 1, Player: sm.Player, Move: m, Result: res, Err: err, Hash: g.Hash()}
		if err != nil {
			replay.Rejected++
			log.Debug().Err(err).Int("step", rec.Step).Str("player", sm.Player).Msg("move rejected")
		}
		replay.Records = append(replay.Records, rec)
	}

	replay.Final = g.Serialize()
	replay.Hash = game.HashSnapshot(replay.Final)
	replay.Standings = g.Standings()
	log.Info().Str("game", g.ID).Msgf("replay done: %d rejected, hash %x", replay.Rejected, replay.Hash)
	return replay, nil
}

func scriptIDs(s *Script) func() string {
	namespace := uuid.NewSHA1(uuid.NameSpaceOID, []byte(s.Name+"/"+strconv.FormatUint(s.Seed, 10)))
	n := 0
	return func() string {
		n++
		return uuid.NewSHA1(namespace, []byte(strconv.Itoa(n))).String()
	}
}
