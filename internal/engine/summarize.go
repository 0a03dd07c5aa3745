package engine

import (
	"context"
	"errors"
	"log/slog"
	"strings"
)

// SummaryRequest is the per-call configuration, built once by the caller.
type SummaryRequest struct {
	URL       string      `json:"url"`
	ChunkSize int         `json:"chunk_size"`
	Overlap   int         `json:"overlap"`
	Model     ModelParams `json:"model"`
}

// Validate rejects configurations the pipeline will not run with.
// overlap >= chunkSize is refused here rather than clamped.
func (r SummaryRequest) Validate() error {
	switch {
	case strings.TrimSpace(r.URL) == "":
		return invalidConfig("url is required")
	case r.ChunkSize <= 0:
		return invalidConfig("chunk size must be greater than zero, got %d", r.ChunkSize)
	case r.Overlap < 0:
		return invalidConfig("chunk overlap cannot be negative, got %d", r.Overlap)
	case r.Overlap >= r.ChunkSize:
		return invalidConfig("chunk overlap %d must be smaller than chunk size %d", r.Overlap, r.ChunkSize)
	case r.Model.Temperature < 0 || r.Model.Temperature > 1:
		return invalidConfig("temperature must be within [0, 1], got %g", r.Model.Temperature)
	}
	return nil
}

// SummaryResult is either a summary (Err == nil) or a typed failure.
type SummaryResult struct {
	Text     string
	Document Document // the summarized source; on failure only metadata, if any
	Chunks   int
	Err      *Error
}

// OK reports whether the result is a success.
func (r SummaryResult) OK() bool { return r.Err == nil }

func failed(err error) SummaryResult {
	var e *Error
	if !errors.As(err, &e) {
		e = newError(KindOf(err), err)
	}
	switch e.Kind {
	case ErrKindNoContent:
		metrics.NoContent.Add(1)
	case ErrKindContextTooLarge:
		metrics.ContextTooLarge.Add(1)
	}
	return SummaryResult{Err: e}
}

// Summarize chunks docs, assembles one prompt and calls gen exactly once.
// The completion is returned verbatim.
func Summarize(ctx context.Context, docs []Document, gen Generator, template string, chunkSize, overlap int) (string, error) {
	text, _, err := summarize(ctx, docs, gen, template, chunkSize, overlap)
	return text, err
}

func summarize(ctx context.Context, docs []Document, gen Generator, template string, chunkSize, overlap int) (string, int, error) {
	chunks := Split(docs, chunkSize, overlap)
	if len(chunks) == 0 {
		return "", 0, newError(ErrKindNoContent, ErrNoContent)
	}
	slog.Debug("summarize: chunked",
		slog.Int("docs", len(docs)), slog.Int("chunks", len(chunks)),
		slog.Int("chunk_size", chunkSize), slog.Int("overlap", EffectiveOverlap(chunkSize, overlap)))

	prompt, err := Assemble(template, chunks)
	if err != nil {
		return "", len(chunks), newError(ErrKindInvalidConfig, err)
	}

	metrics.LLMCalls.Add(1)
	text, err := gen.Generate(ctx, prompt)
	if err != nil {
		metrics.LLMErrors.Add(1)
		return "", len(chunks), classifyGenerateError(err)
	}
	return text, len(chunks), nil
}
