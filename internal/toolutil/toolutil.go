// Package toolutil provides shared helpers for the digest MCP tools and CLI.
package toolutil

import (
	"fmt"
	"strings"

	"github.com/anatolykoptev/go_digest/internal/engine"
)

// NormURL trims whitespace and surrounding angle brackets from a pasted URL.
func NormURL(raw string) string {
	return strings.Trim(strings.TrimSpace(raw), "<>")
}

// Clip caps content at maxLen runes. maxLen <= 0 means no limit.
func Clip(content string, maxLen int) (string, bool) {
	if maxLen <= 0 || len([]rune(content)) <= maxLen {
		return content, false
	}
	return engine.TruncateRunes(content, maxLen, "..."), true
}

// FormatMarkdown renders a summary output as a markdown report.
func FormatMarkdown(out engine.SummarizeURLOutput) string {
	var sb strings.Builder
	if out.Error != "" {
		fmt.Fprintf(&sb, "**Error** (%s): %s\n", out.ErrorKind, out.Error)
		return sb.String()
	}
	if out.Title != "" {
		fmt.Fprintf(&sb, "# %s\n\n", out.Title)
	}
	if out.Author != "" {
		fmt.Fprintf(&sb, "_by %s_\n\n", out.Author)
	}
	sb.WriteString(strings.TrimSpace(out.Summary))
	sb.WriteString("\n")
	if out.Transcript != "" {
		sb.WriteString("\n---\n\n## Transcript\n\n")
		sb.WriteString(out.Transcript)
		sb.WriteString("\n")
	}
	return sb.String()
}
