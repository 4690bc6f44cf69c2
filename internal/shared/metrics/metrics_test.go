package metrics

import (
	"strings"
	"testing"
	"time"
)

func TestIncStageRendersLabels(t *testing.T) {
	before := StageCount("keywords", OutcomeFallback)
	IncStage("keywords", OutcomeFallback)
	IncStage("keywords", OutcomeFallback)

	if got := StageCount("keywords", OutcomeFallback); got != before+2 {
		t.Fatalf("expected %d, got %d", before+2, got)
	}
	out := Render()
	if !strings.Contains(out, `pipeline_stage_total{stage="keywords",outcome="fallback"}`) {
		t.Fatalf("missing stage series in:\n%s", out)
	}
}

func TestHistogramCumulativeBuckets(t *testing.T) {
	h := newHistogram([]float64{10, 100})
	h.Observe(5)
	h.Observe(50)
	h.Observe(500)

	snap := h.Snapshot()
	if snap.count != 3 || snap.counts[0] != 1 || snap.counts[1] != 1 {
		t.Fatalf("unexpected snapshot %+v", snap)
	}

	ObserveLLMDuration(1500 * time.Millisecond)
	if !strings.Contains(Render(), `llm_call_duration_ms_bucket{le="2000"}`) {
		t.Fatalf("expected llm histogram buckets")
	}
}
