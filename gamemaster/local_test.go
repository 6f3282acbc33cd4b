package gamemaster

import (
	"fmt"
	"sync"
	"testing"

	"conquest/game"

	"github.com/stretchr/testify/require"
)

func noObstacles() game.Option {
	r := game.NewStandardRules()
	r.ObstacleFrequency = 0
	return game.WithRules(r)
}

func TestMasterLifecycle(t *testing.T) {
	m := New(WithGameOptions(noObstacles()))
	id, err := m.CreateGame(8, 8, 2)
	require.NoError(t, err)
	require.Equal(t, []string{id}, m.Games())

	alice, err := m.AddPlayer(id, "alice")
	require.NoError(t, err)
	bob, err := m.AddPlayer(id, "bob")
	require.NoError(t, err)
	players, err := m.Players(id)
	require.NoError(t, err)
	require.Equal(t, []string{alice, bob}, players)

	_, err = m.Play(id, game.Move{PlayerID: alice, Action: game.PassAction})
	require.ErrorIs(t, err, game.ErrNotStarted)

	snap, err := m.Start(id)
	require.NoError(t, err)
	require.True(t, snap.Started)

	_, err = m.Start(id)
	require.ErrorIs(t, err, game.ErrAlreadyStarted, "a second start is an error, not a panic")

	res, err := m.Play(id, game.Move{PlayerID: alice, Action: game.PassAction})
	require.NoError(t, err)
	require.Equal(t, bob, res.NextPlayer)

	state, err := m.State(id)
	require.NoError(t, err)
	require.Equal(t, []string{bob, alice}, state.TurnOrder)

	require.NoError(t, m.DeleteGame(id))
	require.Empty(t, m.Games())
	_, err = m.State(id)
	require.ErrorIs(t, err, ErrGameNotFound)
	require.ErrorIs(t, m.DeleteGame(id), ErrGameNotFound)
}

func TestMasterSubscribe(t *testing.T) {
	t.Run("subscribers see joins, start and moves", func(t *testing.T) {
		m := New(WithGameOptions(noObstacles()))
		id, err := m.CreateGame(8, 8, 0)
		require.NoError(t, err)
		events, cancel, err := m.Subscribe(id)
		require.NoError(t, err)
		defer cancel()

		pid, err := m.AddPlayer(id, "solo")
		require.NoError(t, err)
		_, err = m.Start(id)
		require.NoError(t, err)
		_, err = m.Play(id, game.Move{PlayerID: pid, Action: game.PassAction})
		require.NoError(t, err)

		require.Equal(t, JoinEvent, (<-events).Type)
		start := <-events
		require.Equal(t, StartEvent, start.Type)
		require.NotNil(t, start.State)
		move := <-events
		require.Equal(t, MoveEvent, move.Type)
		require.Equal(t, pid, move.Result.PlayerID)
	})

	t.Run("a full subscriber drops events instead of blocking", func(t *testing.T) {
		m := New(WithEventBuffer(1))
		id, err := m.CreateGame(6, 6, 0)
		require.NoError(t, err)
		events, cancel, err := m.Subscribe(id)
		require.NoError(t, err)
		defer cancel()

		for i := 0; i < 3; i++ {
			_, err := m.AddPlayer(id, fmt.Sprint(i))
			require.NoError(t, err)
		}
		require.Len(t, events, 1)
	})

	t.Run("deleting a game closes its subscriptions", func(t *testing.T) {
		m := New()
		id, err := m.CreateGame(6, 6, 0)
		require.NoError(t, err)
		events, cancel, err := m.Subscribe(id)
		require.NoError(t, err)

		require.NoError(t, m.DeleteGame(id))
		_, open := <-events
		require.False(t, open)
		cancel()
	})

	t.Run("unknown games cannot be subscribed", func(t *testing.T) {
		_, _, err := New().Subscribe("missing")
		require.ErrorIs(t, err, ErrGameNotFound)
	})
}

func TestMasterConcurrentGames(t *testing.T) {
	m := New(WithGameOptions(noObstacles()))
	const games = 8

	var wg sync.WaitGroup
	errs := make(chan error, games)
	for i := 0; i < games; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			id, err := m.CreateGame(8, 8, 2)
			if err != nil {
				errs <- err
				return
			}
			a, _ := m.AddPlayer(id, "a")
			b, _ := m.AddPlayer(id, "b")
			if _, err := m.Start(id); err != nil {
				errs <- err
				return
			}
			for turn := 0; turn < 10; turn++ {
				pid := a
				if turn%2 == 1 {
					pid = b
				}
				if _, err := m.Play(id, game.Move{PlayerID: pid, Action: game.PassAction}); err != nil {
					errs <- err
					return
				}
			}
		}()
	}
	wg.Wait()
	close(errs)
	for err := range errs {
		require.NoError(t, err)
	}
	require.Len(t, m.Games(), games)
}
