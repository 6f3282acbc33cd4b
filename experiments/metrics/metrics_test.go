package metrics

import (
	"encoding/csv"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestCollector(t *testing.T) {
	c := NewCollector()
	c.Start()
	c.AddMove(true)
	c.AddMove(true)
	c.AddMove(false)
	c.AddSettlement()
	c.AddGame()

	m := c.Complete()

	require.Equal(t, 2, m.Accepted)
	require.Equal(t, 1, m.Rejected)
	require.Equal(t, 1, m.Settlements)
	require.Equal(t, 1, m.Games)
	require.Positive(t, m.Duration)
}

func TestMovesPerSecond(t *testing.T) {
	require.Zero(t, RunMetric{Accepted: 3}.MovesPerSecond())
	require.InDelta(t, 4.0, RunMetric{Accepted: 6, Rejected: 2, Duration: 2 * time.Second}.MovesPerSecond(), 1e-9)
}

func TestWriter(t *testing.T) {
	w, err := NewWriter(t.TempDir())
	require.NoError(t, err)

	config := LoadConfig{ID: 7, Goroutines: 2, Games: 3, Rounds: 4, BoardSize: 12, OceanWidth: 2}
	require.NoError(t, w.WriteLoadConfigs([]LoadConfig{config}))
	require.NoError(t, w.WriteRunRecords([]RunRecord{{
		Config:    config,
		RunMetric: RunMetric{Games: 3, Accepted: 24, Settlements: 12, Duration: time.Second},
	}}))

	f, err := os.Open(filepath.Join(w.Dir(), "run_records.csv"))
	require.NoError(t, err)
	defer f.Close()
	rows, err := csv.NewReader(f).ReadAll()
	require.NoError(t, err)
	require.Len(t, rows, 2)
	require.Equal(t, []string{"7", "3", "24", "0", "12", "1s", "24.0"}, rows[1])

	_, err = os.Stat(filepath.Join(w.Dir(), "load_configs.csv"))
	require.NoError(t, err)
}
