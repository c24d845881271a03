// Package telemetry collects per-stage execution observations and rolls
// them up into a summary keyed by stage name.
package telemetry

import "sync"

// Observation is one recorded stage execution. Observations are appended,
// never mutated.
type Observation struct {
	Stage     string
	LatencyMs int
	Status    string
}

// StageSummary is the derived rollup for one stage.
type StageSummary struct {
	// AverageLatencyMs is the arithmetic mean of all latencies recorded
	// for the stage, truncated toward zero.
	AverageLatencyMs int
	// LatestStatus is the status of the last observation recorded for the
	// stage, in insertion order.
	LatestStatus string
}

// Recorder is the contract stages use to report executions.
type Recorder interface {
	Track(stage string, latencyMs int, status string)
}

// NoopRecorder discards observations.
type NoopRecorder struct{}

func (NoopRecorder) Track(string, int, string) {}

// Aggregator records observations and produces per-stage rollups. State is
// scoped to one coordinator instance; construct a fresh aggregator to
// reset it.
type Aggregator struct {
	mu           sync.RWMutex
	observations []Observation
}

// NewAggregator constructs an empty aggregator.
func NewAggregator() *Aggregator {
	return &Aggregator{}
}

// Track appends one observation. Negative latencies are recorded as zero.
func (a *Aggregator) Track(stage string, latencyMs int, status string) {
	if a == nil || stage == "" {
		return
	}
	if latencyMs < 0 {
		latencyMs = 0
	}
	a.mu.Lock()
	defer a.mu.Unlock()
	a.observations = append(a.observations, Observation{
		Stage:     stage,
		LatencyMs: latencyMs,
		Status:    status,
	})
}

// Summarize computes the per-stage rollup. It is side-effect-free and may
// be called any number of times without altering stored observations.
func (a *Aggregator) Summarize() map[string]StageSummary {
	if a == nil {
		return nil
	}
	a.mu.RLock()
	defer a.mu.RUnlock()

	totals := make(map[string]int)
	counts := make(map[string]int)
	latest := make(map[string]string)
	for _, obs := range a.observations {
		totals[obs.Stage] += obs.LatencyMs
		counts[obs.Stage]++
		latest[obs.Stage] = obs.Status
	}

	summary := make(map[string]StageSummary, len(counts))
	for stage, count := range counts {
		summary[stage] = StageSummary{
			AverageLatencyMs: totals[stage] / count,
			LatestStatus:     latest[stage],
		}
	}
	return summary
}

// Observations returns a copy of every recorded observation in insertion
// order.
func (a *Aggregator) Observations() []Observation {
	if a == nil {
		return nil
	}
	a.mu.RLock()
	defer a.mu.RUnlock()
	return append([]Observation(nil), a.observations...)
}

// Len returns the number of recorded observations.
func (a *Aggregator) Len() int {
	if a == nil {
		return 0
	}
	a.mu.RLock()
	defer a.mu.RUnlock()
	return len(a.observations)
}
