package metrics

import (
	"bytes"
	"fmt"
	"net/http"
	"sort"
	"strconv"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
)

// Stage outcomes.
const (
	OutcomePrimary  = "primary"
	OutcomeFallback = "fallback"
	OutcomeError    = "error"
)

var (
	stageMu     sync.Mutex
	stageTotals = map[stageKey]uint64{}

	llmDuration = newHistogram([]float64{100, 250, 500, 1000, 2000, 5000, 10000, 30000, 60000})
)

type stageKey struct {
	stage   string
	outcome string
}

// IncStage counts one pipeline stage result.
func IncStage(stage, outcome string) {
	stageMu.Lock()
	stageTotals[stageKey{stage: stage, outcome: outcome}]++
	stageMu.Unlock()
}

// StageCount returns the current count for stage and outcome.
func StageCount(stage, outcome string) uint64 {
	stageMu.Lock()
	defer stageMu.Unlock()
	return stageTotals[stageKey{stage: stage, outcome: outcome}]
}

// ObserveLLMDuration records a gateway call duration.
func ObserveLLMDuration(d time.Duration) {
	ms := float64(d) / float64(time.Millisecond)
	if ms < 0 {
		ms = 0
	}
	llmDuration.Observe(ms)
}

// Handler exposes metrics in Prometheus text format.
func Handler() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Header("Content-Type", "text/plain; version=0.0.4")
		c.String(http.StatusOK, Render())
	}
}

// Render renders metrics in Prometheus text format.
func Render() string {
	var buf bytes.Buffer
	writeStages(&buf)
	writeHistogram(&buf, "llm_call_duration_ms", "AI gateway call duration in milliseconds", llmDuration.Snapshot())
	return buf.String()
}

func writeStages(buf *bytes.Buffer) {
	stageMu.Lock()
	keys := make([]stageKey, 0, len(stageTotals))
	for k := range stageTotals {
		keys = append(keys, k)
	}
	values := make(map[stageKey]uint64, len(stageTotals))
	for k, v := range stageTotals {
		values[k] = v
	}
	stageMu.Unlock()

	sort.Slice(keys, func(i, j int) bool {
		if keys[i].stage != keys[j].stage {
			return keys[i].stage < keys[j].stage
		}
		return keys[i].outcome < keys[j].outcome
	})

	const name = "pipeline_stage_total"
	fmt.Fprintf(buf, "# HELP %s Pipeline stage results by outcome\n", name)
	fmt.Fprintf(buf, "# TYPE %s counter\n", name)
	for _, k := range keys {
		fmt.Fprintf(buf, "%s{stage=%q,outcome=%q} %d\n", name, k.stage, k.outcome, values[k])
	}
}

type histogram struct {
	mu      sync.Mutex
	buckets []float64
	counts  []uint64
	sum     float64
	count   uint64
}

type histogramSnapshot struct {
	buckets []float64
	counts  []uint64
	sum     float64
	count   uint64
}

func newHistogram(buckets []float64) *histogram {
	return &histogram{
		buckets: buckets,
		counts:  make([]uint64, len(buckets)),
	}
}

// Observe counts value in the first bucket whose bound it does not exceed.
func (h *histogram) Observe(value float64) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.count++
	h.sum += value
	for i, bound := range h.buckets {
		if value <= bound {
			h.counts[i]++
			return
		}
	}
}

func (h *histogram) Snapshot() histogramSnapshot {
	h.mu.Lock()
	defer h.mu.Unlock()
	return histogramSnapshot{
		buckets: append([]float64(nil), h.buckets...),
		counts:  append([]uint64(nil), h.counts...),
		sum:     h.sum,
		count:   h.count,
	}
}

func writeHistogram(buf *bytes.Buffer, name, help string, snap histogramSnapshot) {
	fmt.Fprintf(buf, "# HELP %s %s\n", name, help)
	fmt.Fprintf(buf, "# TYPE %s histogram\n", name)
	var cumulative uint64
	for i, bound := range snap.buckets {
		cumulative += snap.counts[i]
		fmt.Fprintf(buf, "%s_bucket{le=\"%s\"} %d\n", name, formatFloat(bound), cumulative)
	}
	fmt.Fprintf(buf, "%s_bucket{le=\"+Inf\"} %d\n", name, snap.count)
	fmt.Fprintf(buf, "%s_sum %s\n", name, formatFloat(snap.sum))
	fmt.Fprintf(buf, "%s_count %d\n", name, snap.count)
}

func formatFloat(value float64) string {
	if value == float64(int64(value)) {
		return strconv.FormatInt(int64(value), 10)
	}
	return strconv.FormatFloat(value, 'f', -1, 64)
}
