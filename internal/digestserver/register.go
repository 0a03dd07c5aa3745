// Package digestserver registers the digest MCP tools.
package digestserver

import (
	"github.com/anatolykoptev/go_digest/internal/engine"
	"github.com/modelcontextprotocol/go-sdk/mcp"
)

// RegisterTools registers summarize_url, get_transcript and classify_url
// on the given MCP server, all backed by p.
func RegisterTools(server *mcp.Server, p *engine.Pipeline) {
	registerSummarizeURL(server, p)
	registerGetTranscript(server, p)
	registerClassifyURL(server)
}

// ToolCount is the number of tools RegisterTools adds.
const ToolCount = 3
