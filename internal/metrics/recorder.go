package metrics

import (
	"sync"
	"time"
)

type endpointStats struct {
	calls           int
	errors          int
	lastCallLatency time.Duration
}

// Recorder captures lightweight, in-memory metrics about upstream calls.
// It is intentionally simple so it can be swapped for a real backend later.
type Recorder struct {
	mu    sync.Mutex
	stats map[string]*endpointStats
}

func NewRecorder() *Recorder {
	return &Recorder{stats: make(map[string]*endpointStats)}
}

// RecordFetch increments counters for one upstream call and stores the last
// observed latency. A nil Recorder drops the observation.
func (r *Recorder) RecordFetch(endpoint string, duration time.Duration, err error) {
	if r == nil {
		return
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	stats, ok := r.stats[endpoint]
	if !ok {
		stats = &endpointStats{}
		r.stats[endpoint] = stats
	}
	stats.calls++
	stats.lastCallLatency = duration
	if err != nil {
		stats.errors++
	}
}

// Snapshot is a copy of the counters for one endpoint.
type Snapshot struct {
	Calls           int
	Errors          int
	LastCallLatency time.Duration
}

func (r *Recorder) Snapshot(endpoint string) Snapshot {
	if r == nil {
		return Snapshot{}
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if stats, ok := r.stats[endpoint]; ok && stats != nil {
		return Snapshot{
			Calls:           stats.calls,
			Errors:          stats.errors,
			LastCallLatency: stats.lastCallLatency,
		}
	}
	return Snapshot{}
}

// SnapshotAll copies the counters for every endpoint seen so far.
func (r *Recorder) SnapshotAll() map[string]Snapshot {
	if r == nil {
		return nil
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	out := make(map[string]Snapshot, len(r.stats))
	for endpoint, stats := range r.stats {
		out[endpoint] = Snapshot{
			Calls:           stats.calls,
			Errors:          stats.errors,
			LastCallLatency: stats.lastCallLatency,
		}
	}
	return out
}

// Calls returns the total attempts recorded for an endpoint.
func (r *Recorder) Calls(endpoint string) int {
	return r.Snapshot(endpoint).Calls
}

// Errors returns the total failed attempts recorded for an endpoint.
func (r *Recorder) Errors(endpoint string) int {
	return r.Snapshot(endpoint).Errors
}
