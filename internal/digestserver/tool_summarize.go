package digestserver

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/anatolykoptev/go_digest/internal/engine"
	"github.com/anatolykoptev/go_digest/internal/toolutil"
	"github.com/modelcontextprotocol/go-sdk/mcp"
)

func registerSummarizeURL(server *mcp.Server, p *engine.Pipeline) {
	mcp.AddTool(server, &mcp.Tool{
		Name:        "summarize_url",
		Description: "Summarize a YouTube video (from its transcript) or any web page (from its readable text) with an LLM. Returns a markdown summary with title, overview, key points and conclusion, plus video title/author and detected language. Failures are reported in the error field: no_content_found, fetch_failure, context_too_large, provider_error, invalid_configuration.",
		Annotations: &mcp.ToolAnnotations{ReadOnlyHint: true},
	}, func(ctx context.Context, _ *mcp.CallToolRequest, input engine.SummarizeURLInput) (*mcp.CallToolResult, engine.SummarizeURLOutput, error) {
		input.URL = toolutil.NormURL(input.URL)
		if input.URL == "" {
			return nil, engine.SummarizeURLOutput{}, fmt.Errorf("url is required")
		}

		res := p.SummarizeURL(ctx, input.Request())
		if !res.OK() {
			slog.Info("summarize_url: failed",
				slog.String("url", input.URL), slog.String("kind", string(res.Err.Kind)))
		}
		return nil, engine.NewSummarizeURLOutput(input.URL, res, input.Transcript), nil
	})
}
