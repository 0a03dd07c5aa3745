package digestserver

import (
	"testing"

	"github.com/anatolykoptev/go_digest/internal/engine"
	"github.com/modelcontextprotocol/go-sdk/mcp"
)

func TestRegisterTools(t *testing.T) {
	server := mcp.NewServer(&mcp.Implementation{Name: "go_digest_test", Version: "test"}, nil)
	// AddTool panics on schema problems, so registering is the test.
	RegisterTools(server, &engine.Pipeline{})
}
