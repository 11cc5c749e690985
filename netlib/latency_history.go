package netlib

import (
	"sync"

	"github.com/VividCortex/ewma"
)

// latencyHistory keeps an exponentially weighted latency of each
// endpoint across probing runs. It matters only for long living
// processes like monitor mode or HTTP API.
type latencyHistory struct {
	mutex  sync.Mutex
	values map[string]ewma.MovingAverage
}

func (l *latencyHistory) Add(candidateID string, latencyMs float64) float64 {
	l.mutex.Lock()
	defer l.mutex.Unlock()

	avg, ok := l.values[candidateID]
	if !ok {
		avg = ewma.NewMovingAverage()
		l.values[candidateID] = avg
	}

	avg.Add(latencyMs)

	return avg.Value()
}

func (l *latencyHistory) Get(candidateID string) (float64, bool) {
	l.mutex.Lock()
	defer l.mutex.Unlock()

	if avg, ok := l.values[candidateID]; ok {
		return avg.Value(), true
	}

	return 0, false
}

func newLatencyHistory() *latencyHistory {
	return &latencyHistory{
		values: map[string]ewma.MovingAverage{},
	}
}
