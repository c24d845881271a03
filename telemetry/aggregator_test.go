package telemetry

import (
	"sync"
	"testing"

	"github.com/google/go-cmp/cmp"
)

func TestSummarizeTruncatedMeanAndLatestStatus(t *testing.T) {
	agg := NewAggregator()
	agg.Track("checkout", 80, "A")
	agg.Track("checkout", 100, "B")

	summary := agg.Summarize()
	want := map[string]StageSummary{
		"checkout": {AverageLatencyMs: 90, LatestStatus: "B"},
	}
	if diff := cmp.Diff(want, summary); diff != "" {
		t.Fatalf("unexpected summary (-want +got):\n%s", diff)
	}
}

func TestSummarizeTruncatesTowardZero(t *testing.T) {
	agg := NewAggregator()
	agg.Track("fulfillment", 10, "ok")
	agg.Track("fulfillment", 10, "ok")
	agg.Track("fulfillment", 11, "ok")

	if got := agg.Summarize()["fulfillment"].AverageLatencyMs; got != 10 {
		t.Fatalf("expected truncated mean 10, got %d", got)
	}
}

func TestSummarizeGroupsByStage(t *testing.T) {
	agg := NewAggregator()
	agg.Track("checkout", 80, "accepted")
	agg.Track("fulfillment", 120, "reserved")
	agg.Track("notification", 40, "delivered")

	summary := agg.Summarize()
	if len(summary) != 3 {
		t.Fatalf("expected 3 stages, got %d", len(summary))
	}
	if summary["fulfillment"].LatestStatus != "reserved" {
		t.Fatalf("unexpected fulfillment status: %q", summary["fulfillment"].LatestStatus)
	}
}

func TestSummarizeIsIdempotent(t *testing.T) {
	agg := NewAggregator()
	agg.Track("checkout", 80, "A")

	first := agg.Summarize()
	second := agg.Summarize()
	if diff := cmp.Diff(first, second); diff != "" {
		t.Fatalf("summaries diverged between calls:\n%s", diff)
	}
	if agg.Len() != 1 {
		t.Fatalf("summarize mutated observations, len=%d", agg.Len())
	}
}

func TestTrackIgnoresEmptyStageAndClampsLatency(t *testing.T) {
	agg := NewAggregator()
	agg.Track("", 80, "A")
	agg.Track("checkout", -5, "A")

	obs := agg.Observations()
	if len(obs) != 1 {
		t.Fatalf("expected 1 observation, got %d", len(obs))
	}
	if obs[0].LatencyMs != 0 {
		t.Fatalf("expected negative latency clamped to 0, got %d", obs[0].LatencyMs)
	}
}

func TestTrackConcurrentWriters(t *testing.T) {
	agg := NewAggregator()

	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for j := 0; j < 100; j++ {
				agg.Track("checkout", 10, "ok")
			}
		}()
	}
	wg.Wait()

	if agg.Len() != 800 {
		t.Fatalf("expected 800 observations, got %d", agg.Len())
	}
}
