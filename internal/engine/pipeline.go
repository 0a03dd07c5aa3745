package engine

import (
	"context"
	"errors"
	"log/slog"
	"maps"
	"time"
)

// VideoFetcher retrieves a video's transcript as a Document.
// The only error it returns wraps ErrNoContent.
type VideoFetcher interface {
	FetchVideoDocument(ctx context.Context, videoID, rawURL string) (Document, error)
}

// VideoMetadata is the best-effort display information of a video.
type VideoMetadata struct {
	Title  string `json:"title"`
	Author string `json:"author"`
}

// MetadataFetcher looks up VideoMetadata. Failures are logged and ignored.
type MetadataFetcher interface {
	FetchVideoMetadata(ctx context.Context, rawURL string) (VideoMetadata, error)
}

// Pipeline wires the fetch collaborators to the summarizer.
type Pipeline struct {
	Videos       VideoFetcher
	Pages        PageFetcher
	Metadata     MetadataFetcher // optional
	Template     string          // "" = DefaultSummaryTemplate
	NewGenerator func(ModelParams) (Generator, error)
}

func (p *Pipeline) template() string {
	if p.Template == "" {
		return DefaultSummaryTemplate
	}
	return p.Template
}

func (p *Pipeline) generator(m ModelParams) (Generator, error) {
	if p.NewGenerator != nil {
		return p.NewGenerator(m)
	}
	return NewGenerator(m)
}

// SummarizeURL fetches, chunks and summarizes one URL. It never returns a Go
// error: every failure is reported through SummaryResult.Err.
func (p *Pipeline) SummarizeURL(ctx context.Context, req SummaryRequest) SummaryResult {
	var res SummaryResult
	err := TrackOperation(ctx, "summarize:"+req.URL, func(ctx context.Context) error {
		res = p.summarizeURL(ctx, req)
		if res.Err != nil {
			return res.Err
		}
		return nil
	})
	if err != nil {
		slog.Info("summarize: failed", slog.String("url", req.URL), slog.String("kind", string(KindOf(err))))
	}
	return res
}

func (p *Pipeline) summarizeURL(ctx context.Context, req SummaryRequest) SummaryResult {
	metrics.SummarizeRequests.Add(1)
	start := time.Now()

	if err := req.Validate(); err != nil {
		return failed(err)
	}
	gen, err := p.generator(req.Model)
	if err != nil {
		return failed(err)
	}

	doc, err := p.FetchDocument(ctx, req.URL)
	if err != nil {
		slog.Warn("summarize: fetch failed", slog.String("url", req.URL), slog.Any("error", err))
		res := failed(err)
		res.Document = doc
		return res
	}

	text, n, err := summarize(ctx, []Document{doc}, gen, p.template(), req.ChunkSize, req.Overlap)
	if err != nil {
		slog.Warn("summarize: generate failed",
			slog.String("url", req.URL), slog.String("provider", req.Model.Provider), slog.Any("error", err))
		return failed(err)
	}

	slog.Info("summarize: done",
		slog.String("url", req.URL),
		slog.String("kind", doc.Meta(MetaKind)),
		slog.String("model", req.Model.Name),
		slog.Int("chunks", n),
		slog.Int("summary_len", len(text)),
		slog.Duration("elapsed", time.Since(start)),
	)
	return SummaryResult{Text: text, Document: doc, Chunks: n}
}

// FetchDocument classifies rawURL and retrieves its content.
// Video failures become NoContentFound, page failures FetchFailure with the cause.
// A failed video fetch still returns a Document holding the video metadata.
func (p *Pipeline) FetchDocument(ctx context.Context, rawURL string) (Document, error) {
	src := Classify(rawURL)
	if src.Kind == KindVideo {
		return p.fetchVideo(ctx, src)
	}
	return p.fetchPage(ctx, src)
}

func (p *Pipeline) fetchVideo(ctx context.Context, src Source) (Document, error) {
	metrics.VideoRequests.Add(1)

	extra := map[string]string{
		MetaSource:  src.URL,
		MetaKind:    KindVideo.String(),
		MetaVideoID: src.VideoID,
	}
	if p.Metadata != nil {
		if vm, err := p.Metadata.FetchVideoMetadata(ctx, src.URL); err != nil {
			slog.Debug("video metadata unavailable", slog.String("id", src.VideoID), slog.Any("error", err))
		} else {
			if vm.Title != "" {
				extra[MetaTitle] = vm.Title
			}
			if vm.Author != "" {
				extra[MetaAuthor] = vm.Author
			}
		}
	}

	doc, err := p.Videos.FetchVideoDocument(ctx, src.VideoID, src.URL)
	if err != nil {
		return Document{Metadata: extra}, newError(ErrKindNoContent, err)
	}
	return withMetadata(doc, extra), nil
}

func (p *Pipeline) fetchPage(ctx context.Context, src Source) (Document, error) {
	metrics.PageRequests.Add(1)

	title, text, err := p.Pages.FetchPage(ctx, src.URL)
	if err != nil {
		return Document{}, newError(ErrKindFetchFailure, err)
	}
	meta := map[string]string{
		MetaSource: src.URL,
		MetaKind:   KindGenericPage.String(),
	}
	if title != "" {
		meta[MetaTitle] = title
	}
	doc, err := Normalize(text, meta)
	if errors.Is(err, ErrEmptyContent) {
		return Document{}, newError(ErrKindNoContent, ErrNoContent)
	}
	return doc, err
}

// withMetadata returns a copy of doc whose metadata also holds extra.
// Keys already set on doc win.
func withMetadata(doc Document, extra map[string]string) Document {
	meta := make(map[string]string, len(doc.Metadata)+len(extra))
	maps.Copy(meta, extra)
	maps.Copy(meta, doc.Metadata)
	return Document{Content: doc.Content, Metadata: meta}
}
