package engine

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"sync/atomic"
	"time"
)

// Metrics tracks operational counters across the engine.
var metrics struct {
	SummarizeRequests          atomic.Int64
	VideoRequests              atomic.Int64
	PageRequests               atomic.Int64
	TranscriptRequests         atomic.Int64
	TranscriptStrategyFailures atomic.Int64
	FetchRequests              atomic.Int64
	FetchErrors                atomic.Int64
	LLMCalls                   atomic.Int64
	LLMErrors                  atomic.Int64
	NoContent                  atomic.Int64
	ContextTooLarge            atomic.Int64
}

// metricKeys fixes the output order of FormatMetrics.
var metricKeys = []string{
	"summarize_requests", "video_requests", "page_requests",
	"transcript_requests", "transcript_strategy_failures",
	"fetch_requests", "fetch_errors",
	"llm_calls", "llm_errors",
	"no_content", "context_too_large",
}

// GetMetrics returns a snapshot of all metrics.
func GetMetrics() map[string]int64 {
	return map[string]int64{
		"summarize_requests":           metrics.SummarizeRequests.Load(),
		"video_requests":               metrics.VideoRequests.Load(),
		"page_requests":                metrics.PageRequests.Load(),
		"transcript_requests":          metrics.TranscriptRequests.Load(),
		"transcript_strategy_failures": metrics.TranscriptStrategyFailures.Load(),
		"fetch_requests":               metrics.FetchRequests.Load(),
		"fetch_errors":                 metrics.FetchErrors.Load(),
		"llm_calls":                    metrics.LLMCalls.Load(),
		"llm_errors":                   metrics.LLMErrors.Load(),
		"no_content":                   metrics.NoContent.Load(),
		"context_too_large":            metrics.ContextTooLarge.Load(),
	}
}

// FormatMetrics returns metrics as a simple text format for HTTP endpoint.
func FormatMetrics() string {
	m := GetMetrics()
	var sb strings.Builder
	for _, k := range metricKeys {
		fmt.Fprintf(&sb, "%s %d\n", k, m[k])
	}
	return sb.String()
}

// Incrementors for the sources sub-package.
func IncrTranscriptRequests()         { metrics.TranscriptRequests.Add(1) }
func IncrTranscriptStrategyFailures() { metrics.TranscriptStrategyFailures.Add(1) }

// TrackOperation logs a warning if an operation takes longer than threshold.
func TrackOperation(ctx context.Context, name string, fn func(context.Context) error) error {
	start := time.Now()
	err := fn(ctx)
	elapsed := time.Since(start)
	if elapsed > 30*time.Second {
		slog.Warn("slow operation", slog.String("op", name), slog.Duration("elapsed", elapsed))
	}
	return err
}
