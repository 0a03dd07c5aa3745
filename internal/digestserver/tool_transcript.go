package digestserver

import (
	"context"
	"errors"
	"fmt"

	"github.com/anatolykoptev/go_digest/internal/engine"
	"github.com/anatolykoptev/go_digest/internal/toolutil"
	"github.com/modelcontextprotocol/go-sdk/mcp"
)

func registerGetTranscript(server *mcp.Server, p *engine.Pipeline) {
	mcp.AddTool(server, &mcp.Tool{
		Name:        "get_transcript",
		Description: "Fetch the raw text behind a URL without summarizing: the transcript of a YouTube video or the readable text of a web page. Metadata includes the transcript strategy used, video id, title and detected language.",
		Annotations: &mcp.ToolAnnotations{ReadOnlyHint: true},
	}, func(ctx context.Context, _ *mcp.CallToolRequest, input engine.TranscriptInput) (*mcp.CallToolResult, engine.TranscriptOutput, error) {
		rawURL := toolutil.NormURL(input.URL)
		if rawURL == "" {
			return nil, engine.TranscriptOutput{}, fmt.Errorf("url is required")
		}

		doc, err := p.FetchDocument(ctx, rawURL)
		if err != nil {
			var e *engine.Error
			if errors.As(err, &e) {
				return nil, engine.TranscriptOutput{}, fmt.Errorf("%s", e.UserMessage())
			}
			return nil, engine.TranscriptOutput{}, err
		}

		content, truncated := toolutil.Clip(doc.Content, input.MaxLength)
		return nil, engine.TranscriptOutput{
			URL:       rawURL,
			Kind:      doc.Meta(engine.MetaKind),
			Content:   content,
			Metadata:  doc.Metadata,
			Truncated: truncated,
		}, nil
	})
}
