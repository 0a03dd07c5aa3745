package digestserver

import (
	"context"
	"fmt"

	"github.com/anatolykoptev/go_digest/internal/engine"
	"github.com/anatolykoptev/go_digest/internal/toolutil"
	"github.com/modelcontextprotocol/go-sdk/mcp"
)

func registerClassifyURL(server *mcp.Server) {
	mcp.AddTool(server, &mcp.Tool{
		Name:        "classify_url",
		Description: "Tell whether a URL is a YouTube video (and extract its 11-character id) or a generic web page. Pure pattern matching, no network access.",
		Annotations: &mcp.ToolAnnotations{ReadOnlyHint: true},
	}, func(_ context.Context, _ *mcp.CallToolRequest, input engine.ClassifyInput) (*mcp.CallToolResult, engine.ClassifyOutput, error) {
		rawURL := toolutil.NormURL(input.URL)
		if rawURL == "" {
			return nil, engine.ClassifyOutput{}, fmt.Errorf("url is required")
		}
		src := engine.Classify(rawURL)
		return nil, engine.ClassifyOutput{URL: src.URL, Kind: src.Kind.String(), VideoID: src.VideoID}, nil
	})
}
