package experiments

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"conquest/experiments/metrics"
	"conquest/game"
	"conquest/gamemaster"

	"github.com/rs/zerolog/log"
)

// DefaultConfigs doubles the worker count at a fixed game load.
var DefaultConfigs = []metrics.LoadConfig{
	{ID: 1, Goroutines: 1, Games: 32, Rounds: 20, BoardSize: 12, OceanWidth: 2},
	{ID: 2, Goroutines: 2, Games: 32, Rounds: 20, BoardSize: 12, OceanWidth: 2},
	{ID: 3, Goroutines: 4, Games: 32, Rounds: 20, BoardSize: 12, OceanWidth: 2},
	{ID: 4, Goroutines: 8, Games: 32, Rounds: 20, BoardSize: 12, OceanWidth: 2},
}

var seats = []string{"north", "south"}

// RunThroughput plays every config against master and returns one record
// per config. Rejected moves are counted, not fatal.
func RunThroughput(ctx context.Context, master *gamemaster.Master, configs []metrics.LoadConfig) ([]metrics.RunRecord, error) {
	records := make([]metrics.RunRecord, 0, len(configs))
	for _, config := range configs {
		log.Info().Msgf("starting throughput run %+v...", config)
		metric, err := runConfig(ctx, master, config, metrics.NewCollector())
		if err != nil {
			return records, fmt.Errorf("run %d: %w", config.ID, err)
		}
		log.Info().
			Int("config", config.ID).
			Int("moves", metric.Accepted+metric.Rejected).
			Dur("duration", metric.Duration).
			Msg("completed throughput run")
		records = append(records, metrics.RunRecord{Config: config, RunMetric: metric})
	}
	return records, nil
}

func runConfig(ctx context.Context, master *gamemaster.Master, config metrics.LoadConfig, c metrics.Collector) (metrics.RunMetric, error) {
	if config.Goroutines < 1 || config.Games < 1 || config.Rounds < 1 {
		return metrics.RunMetric{}, errors.New("goroutines, games and rounds must be positive")
	}
	jobs := make(chan int)
	errs := make(chan error, config.Goroutines)
	var wg sync.WaitGroup

	c.Start()
	for w := 0; w < config.Goroutines; w++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for range jobs {
				if err := playGame(ctx, master, config, c); err != nil {
					errs <- err
					return
				}
			}
		}()
	}

feed:
	for i := 0; i < config.Games; i++ {
		select {
		case jobs <- i:
		case <-ctx.Done():
			break feed
		case err := <-errs:
			close(jobs)
			wg.Wait()
			return metrics.RunMetric{}, err
		}
	}
	close(jobs)
	wg.Wait()
	close(errs)
	if err := <-errs; err != nil {
		return metrics.RunMetric{}, err
	}
	if err := ctx.Err(); err != nil {
		return metrics.RunMetric{}, err
	}
	return c.Complete(), nil
}

// playGame builds a farm for each player on the first round and passes
// afterwards, so every round ends in a settlement with production.
func playGame(ctx context.Context, master *gamemaster.Master, config metrics.LoadConfig, c metrics.Collector) error {
	gameID, err := master.CreateGame(config.BoardSize, config.BoardSize, config.OceanWidth)
	if err != nil {
		return err
	}
	defer master.DeleteGame(gameID)

	for _, name := range seats {
		if _, err := master.AddPlayer(gameID, name); err != nil {
			return err
		}
	}
	snap, err := master.Start(gameID)
	if err != nil {
		return err
	}
	capitals := make(map[string]game.Coord, len(snap.Players))
	for _, p := range snap.Players {
		capitals[p.ID] = p.Capital
	}

	current := snap.TurnOrder[0]
	for round := 0; round < config.Rounds; round++ {
		for range seats {
			if err := ctx.Err(); err != nil {
				return err
			}
			move := game.Move{PlayerID: current, Action: game.PassAction}
			if round == 0 {
				move = game.Move{PlayerID: current, Action: game.ConstructAction, From: capitals[current], Subject: string(game.Farm)}
			}

			res, err := master.Play(gameID, move)
			if err != nil {
				// A rejected move keeps the turn, so fall back to a pass.
				c.AddMove(false)
				move = game.Move{PlayerID: current, Action: game.PassAction}
				if res, err = master.Play(gameID, move); err != nil {
					return err
				}
			}
			c.AddMove(true)
			if res.Settlement != nil {
				c.AddSettlement()
			}
			current = res.NextPlayer
		}
	}
	c.AddGame()
	return nil
}
