// go_digest is a video and web page summarization MCP server.
//
// Exposes three MCP tools: summarize_url, get_transcript, classify_url.
// Runs as HTTP MCP server or stdio transport.
package main

import (
	"log/slog"
	"os"
	"time"

	"github.com/anatolykoptev/go-kit/env"
	"github.com/anatolykoptev/go-mcpserver"
	"github.com/anatolykoptev/go_digest/internal/digestserver"
	"github.com/anatolykoptev/go_digest/internal/engine"
	"github.com/anatolykoptev/go_digest/internal/toolutil"
	"github.com/joho/godotenv"
	"github.com/modelcontextprotocol/go-sdk/mcp"
)

var version = "dev"

func main() {
	// .env is optional
	_ = godotenv.Load()
	mcpPort := env.Str("MCP_PORT", "8892")

	pipeline, err := toolutil.InitEngine(engine.ConfigFromEnv(), env.Str("WEBSHARE_API_KEY", ""))
	if err != nil {
		slog.Error("engine init failed", slog.Any("error", err))
		os.Exit(1)
	}

	slog.Info("starting go_digest",
		slog.String("port", mcpPort),
		slog.String("provider", engine.Cfg.LLMProvider),
		slog.String("model", engine.Cfg.LLMModel),
	)

	server := mcp.NewServer(&mcp.Implementation{
		Name:    "go_digest",
		Version: version,
	}, nil)

	digestserver.RegisterTools(server, pipeline)
	slog.Info("tools registered", slog.Int("count", digestserver.ToolCount))

	if err := mcpserver.Run(server, mcpserver.Config{
		Name:         "go_digest",
		Version:      version,
		Port:         mcpPort,
		WriteTimeout: 300 * time.Second,
		Metrics:      engine.FormatMetrics,
	}); err != nil {
		slog.Error("server failed", slog.Any("error", err))
	}
}
