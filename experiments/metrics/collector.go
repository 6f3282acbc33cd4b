package metrics

import (
	"sync/atomic"
	"time"
)

// RunMetric summarizes one throughput run.
type RunMetric struct {
	Games       int
	Accepted    int
	Rejected    int
	Settlements int
	Duration    time.Duration
}

func (m RunMetric) MovesPerSecond() float64 {
	if m.Duration <= 0 {
		return 0
	}
	return float64(m.Accepted+m.Rejected) / m.Duration.Seconds()
}

type Collector interface {
	Start()
	AddGame()
	AddMove(accepted bool)
	AddSettlement()
	Complete() RunMetric
}

type collector struct {
	startTime   time.Time
	games       atomic.Int32
	accepted    atomic.Int32
	rejected    atomic.Int32
	settlements atomic.Int32
}

func NewCollector() Collector {
	return &collector{}
}

func (m *collector) Start() {
	m.startTime = time.Now()
}

func (m *collector) AddGame() {
	m.games.Add(1)
}

func (m *collector) AddMove(accepted bool) {
	if accepted {
		m.accepted.Add(1)
	} else {
		m.rejected.Add(1)
	}
}

func (m *collector) AddSettlement() {
	m.settlements.Add(1)
}

func (m *collector) Complete() RunMetric {
	return RunMetric{
		Games:       int(m.games.Load()),
		Accepted:    int(m.accepted.Load()),
		Rejected:    int(m.rejected.Load()),
		Settlements: int(m.settlements.Load()),
		Duration:    time.Since(m.startTime),
	}
}
