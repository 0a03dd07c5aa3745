package engine

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeVideos struct {
	doc   Document
	err   error
	calls int
}

func (f *fakeVideos) FetchVideoDocument(_ context.Context, videoID, rawURL string) (Document, error) {
	f.calls++
	if f.err != nil {
		return Document{}, f.err
	}
	return withMetadata(f.doc, map[string]string{MetaVideoID: videoID, MetaSource: rawURL}), nil
}

type fakePages struct {
	title, text string
	err         error
	calls       int
}

func (f *fakePages) FetchPage(context.Context, string) (string, string, error) {
	f.calls++
	return f.title, f.text, f.err
}

type fakeMeta struct {
	meta VideoMetadata
	err  error
}

func (f fakeMeta) FetchVideoMetadata(context.Context, string) (VideoMetadata, error) {
	return f.meta, f.err
}

// recordingGenerator returns reply (or err) and remembers the prompts it saw.
type recordingGenerator struct {
	reply   string
	err     error
	prompts []string
}

func (g *recordingGenerator) Generate(_ context.Context, prompt string) (string, error) {
	g.prompts = append(g.prompts, prompt)
	return g.reply, g.err
}

func newTestPipeline(v *fakeVideos, p *fakePages, g *recordingGenerator) *Pipeline {
	return &Pipeline{
		Videos:       v,
		Pages:        p,
		Metadata:     fakeMeta{meta: VideoMetadata{Title: "Never Gonna", Author: "Rick"}},
		Template:     "Summarize:\n{text}",
		NewGenerator: func(ModelParams) (Generator, error) { return g, nil },
	}
}

func testRequest(url string) SummaryRequest {
	return SummaryRequest{
		URL:       url,
		ChunkSize: 500,
		Overlap:   50,
		Model:     ModelParams{Provider: ProviderGroq, Name: "llama-3.3-70b-versatile", Temperature: 0.3},
	}
}

func TestSummarizeURLVideo(t *testing.T) {
	videos := &fakeVideos{doc: Document{Content: "Bonjour le monde", Metadata: map[string]string{MetaStrategy: "player"}}}
	pages := &fakePages{}
	gen := &recordingGenerator{reply: "## Title\nGreeting"}
	p := newTestPipeline(videos, pages, gen)

	res := p.SummarizeURL(context.Background(), testRequest("https://youtu.be/dQw4w9WgXcQ"))

	require.True(t, res.OK(), "err: %v", res.Err)
	assert.Equal(t, "## Title\nGreeting", res.Text)
	assert.Equal(t, 1, res.Chunks)
	assert.Equal(t, 1, videos.calls)
	assert.Zero(t, pages.calls)
	require.Len(t, gen.prompts, 1)
	assert.Equal(t, "Summarize:\nBonjour le monde", gen.prompts[0])

	doc := res.Document
	assert.Equal(t, "dQw4w9WgXcQ", doc.Meta(MetaVideoID))
	assert.Equal(t, "video", doc.Meta(MetaKind))
	assert.Equal(t, "Never Gonna", doc.Meta(MetaTitle))
	assert.Equal(t, "Rick", doc.Meta(MetaAuthor))
	assert.Equal(t, "player", doc.Meta(MetaStrategy))
}

func TestSummarizeURLVideoMetadataFailureIgnored(t *testing.T) {
	videos := &fakeVideos{doc: Document{Content: "some transcript text"}}
	gen := &recordingGenerator{reply: "ok"}
	p := newTestPipeline(videos, &fakePages{}, gen)
	p.Metadata = fakeMeta{err: errors.New("oembed down")}

	res := p.SummarizeURL(context.Background(), testRequest("https://www.youtube.com/watch?v=dQw4w9WgXcQ"))

	require.True(t, res.OK())
	assert.Empty(t, res.Document.Meta(MetaTitle))
}

func TestSummarizeURLVideoNoTranscript(t *testing.T) {
	videos := &fakeVideos{err: fmt.Errorf("%w: captions: transcripts disabled", ErrNoContent)}
	gen := &recordingGenerator{reply: "unused"}
	p := newTestPipeline(videos, &fakePages{}, gen)

	res := p.SummarizeURL(context.Background(), testRequest("https://youtu.be/dQw4w9WgXcQ"))

	require.False(t, res.OK())
	assert.Equal(t, ErrKindNoContent, res.Err.Kind)
	assert.True(t, errors.Is(res.Err, ErrNoContent))
	assert.Empty(t, gen.prompts, "generator must not be called")
	assert.Empty(t, res.Text)
	assert.Equal(t, "Never Gonna", res.Document.Meta(MetaTitle), "video info kept on failure")
	assert.Equal(t, "Rick", res.Document.Meta(MetaAuthor))
	assert.Empty(t, res.Document.Content)
}

func TestSummarizeURLPage(t *testing.T) {
	pages := &fakePages{title: "Go 1.26", text: "Go 1.26 ships a new garbage collector.\n\nIt is faster."}
	gen := &recordingGenerator{reply: "summary"}
	p := newTestPipeline(&fakeVideos{}, pages, gen)

	res := p.SummarizeURL(context.Background(), testRequest("https://go.dev/blog/go1.26"))

	require.True(t, res.OK())
	assert.Equal(t, "summary", res.Text)
	assert.Equal(t, "page", res.Document.Meta(MetaKind))
	assert.Equal(t, "Go 1.26", res.Document.Meta(MetaTitle))
	assert.Equal(t, "https://go.dev/blog/go1.26", res.Document.Meta(MetaSource))
	assert.Contains(t, gen.prompts[0], "It is faster.")
}

func TestSummarizeURLPageFailures(t *testing.T) {
	tests := []struct {
		name  string
		pages *fakePages
		want  ErrorKind
	}{
		{"fetch error", &fakePages{err: errors.New("status 404")}, ErrKindFetchFailure},
		{"empty body", &fakePages{text: ""}, ErrKindNoContent},
		{"whitespace body", &fakePages{title: "t", text: " \n\t "}, ErrKindNoContent},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			gen := &recordingGenerator{reply: "never"}
			p := newTestPipeline(&fakeVideos{}, tt.pages, gen)

			res := p.SummarizeURL(context.Background(), testRequest("https://example.com/post"))

			require.False(t, res.OK())
			assert.Equal(t, tt.want, res.Err.Kind)
			assert.Empty(t, res.Text)
			assert.Empty(t, gen.prompts)
		})
	}
}

func TestSummarizeURLFetchFailureCarriesCause(t *testing.T) {
	p := newTestPipeline(&fakeVideos{}, &fakePages{err: errors.New("status 503")}, &recordingGenerator{})

	res := p.SummarizeURL(context.Background(), testRequest("https://example.com"))

	require.False(t, res.OK())
	assert.Contains(t, res.Err.UserMessage(), "status 503")
}

func TestSummarizeURLInvalidConfiguration(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*SummaryRequest)
	}{
		{"empty url", func(r *SummaryRequest) { r.URL = " " }},
		{"zero chunk size", func(r *SummaryRequest) { r.ChunkSize = 0 }},
		{"negative overlap", func(r *SummaryRequest) { r.Overlap = -1 }},
		{"overlap equals size", func(r *SummaryRequest) { r.Overlap = r.ChunkSize }},
		{"overlap above size", func(r *SummaryRequest) { r.Overlap = r.ChunkSize + 10 }},
		{"temperature too high", func(r *SummaryRequest) { r.Model.Temperature = 1.5 }},
		{"temperature negative", func(r *SummaryRequest) { r.Model.Temperature = -0.1 }},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			videos := &fakeVideos{}
			pages := &fakePages{}
			p := newTestPipeline(videos, pages, &recordingGenerator{})
			req := testRequest("https://example.com")
			tt.mutate(&req)

			res := p.SummarizeURL(context.Background(), req)

			require.False(t, res.OK())
			assert.Equal(t, ErrKindInvalidConfig, res.Err.Kind)
			assert.Zero(t, videos.calls+pages.calls, "nothing should be fetched")
		})
	}
}

func TestSummarizeURLUnknownProvider(t *testing.T) {
	pages := &fakePages{text: "content"}
	p := &Pipeline{Pages: pages, Videos: &fakeVideos{}}
	req := testRequest("https://example.com")
	req.Model.Provider = "cohere"

	res := p.SummarizeURL(context.Background(), req)

	require.False(t, res.OK())
	assert.Equal(t, ErrKindInvalidConfig, res.Err.Kind)
	assert.Zero(t, pages.calls)
}

func TestSummarizeURLGeneratorErrors(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want ErrorKind
	}{
		{"context too large", errors.New("This model's maximum context length is 8192 tokens"), ErrKindContextTooLarge},
		{"request too large", errors.New("Request too large for model"), ErrKindContextTooLarge},
		{"provider", errors.New("invalid api key"), ErrKindProvider},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			gen := &recordingGenerator{err: tt.err}
			p := newTestPipeline(&fakeVideos{}, &fakePages{text: strings.Repeat("word ", 400)}, gen)

			res := p.SummarizeURL(context.Background(), testRequest("https://example.com"))

			require.False(t, res.OK())
			assert.Equal(t, tt.want, res.Err.Kind)
			assert.Len(t, gen.prompts, 1, "no retries")
			assert.Contains(t, res.Err.Detail, tt.err.Error())
		})
	}
}

func TestSummarizeURLDefaultTemplate(t *testing.T) {
	gen := &recordingGenerator{reply: "x"}
	p := newTestPipeline(&fakeVideos{}, &fakePages{text: "body text"}, gen)
	p.Template = ""

	res := p.SummarizeURL(context.Background(), testRequest("https://example.com"))

	require.True(t, res.OK())
	assert.True(t, strings.HasSuffix(gen.prompts[0], "Content:\nbody text"))
}

func TestSummarizeChunksWholeDocument(t *testing.T) {
	text := strings.Repeat("x", 1200)
	gen := &recordingGenerator{reply: "done"}

	out, err := Summarize(context.Background(), []Document{{Content: text}}, gen, "{text}", 500, 50)

	require.NoError(t, err)
	assert.Equal(t, "done", out)
	require.Len(t, gen.prompts, 1)
	// three chunks of 500, 500 and 300 runes joined by blank lines
	assert.Equal(t, 1300+2*len(ChunkSeparator), len(gen.prompts[0]))
}

func TestSummarizeNoChunks(t *testing.T) {
	gen := &recordingGenerator{reply: "never"}
	_, err := Summarize(context.Background(), []Document{{Content: "  "}}, gen, "{text}", 100, 10)

	require.Error(t, err)
	assert.Equal(t, ErrKindNoContent, KindOf(err))
	assert.Empty(t, gen.prompts)
}

func TestSummarizeBadTemplate(t *testing.T) {
	gen := &recordingGenerator{}
	_, err := Summarize(context.Background(), []Document{{Content: "text"}}, gen, "no placeholder", 100, 10)

	assert.Equal(t, ErrKindInvalidConfig, KindOf(err))
	assert.True(t, errors.Is(err, ErrInvalidTemplate))
}

func TestFetchDocumentBareVideoID(t *testing.T) {
	videos := &fakeVideos{doc: Document{Content: "transcript"}}
	p := newTestPipeline(videos, &fakePages{}, &recordingGenerator{})

	doc, err := p.FetchDocument(context.Background(), "dQw4w9WgXcQ")

	require.NoError(t, err)
	assert.Equal(t, "https://www.youtube.com/watch?v=dQw4w9WgXcQ", doc.Meta(MetaSource))
}

func TestMetricsCountFailures(t *testing.T) {
	before := GetMetrics()
	p := newTestPipeline(&fakeVideos{err: ErrNoContent}, &fakePages{}, &recordingGenerator{})
	p.SummarizeURL(context.Background(), testRequest("https://youtu.be/dQw4w9WgXcQ"))
	after := GetMetrics()

	assert.Equal(t, before["summarize_requests"]+1, after["summarize_requests"])
	assert.Equal(t, before["video_requests"]+1, after["video_requests"])
	assert.Equal(t, before["no_content"]+1, after["no_content"])
	assert.Contains(t, FormatMetrics(), "no_content ")
}

type ctxKey struct{}

func TestSummarizeURLPassesContextToGenerator(t *testing.T) {
	var seen any
	gen := GeneratorFunc(func(ctx context.Context, prompt string) (string, error) {
		seen = ctx.Value(ctxKey{})
		return "summary of " + strings.TrimPrefix(prompt, "Summarize:\n"), nil
	})
	p := newTestPipeline(&fakeVideos{}, &fakePages{text: "page body"}, nil)
	p.NewGenerator = func(ModelParams) (Generator, error) { return gen, nil }
	ctx := context.WithValue(context.Background(), ctxKey{}, "req-1")

	res := p.SummarizeURL(ctx, testRequest("https://example.com"))

	require.True(t, res.OK())
	assert.Equal(t, "summary of page body", res.Text)
	assert.Equal(t, "req-1", seen)
}
