package toolutil

import (
	"strings"
	"testing"

	"github.com/anatolykoptev/go_digest/internal/engine"
)

func TestNormURL(t *testing.T) {
	tests := []struct{ in, want string }{
		{"https://a.b/c", "https://a.b/c"},
		{"  https://a.b/c \n", "https://a.b/c"},
		{"<https://a.b/c>", "https://a.b/c"},
		{"", ""},
	}
	for _, tt := range tests {
		if got := NormURL(tt.in); got != tt.want {
			t.Errorf("NormURL(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestClip(t *testing.T) {
	tests := []struct {
		name      string
		in        string
		max       int
		want      string
		truncated bool
	}{
		{"no limit", "hello world", 0, "hello world", false},
		{"under limit", "hello", 10, "hello", false},
		{"exact", "hello", 5, "hello", false},
		{"cyrillic", "привет мир", 6, "привет...", true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, truncated := Clip(tt.in, tt.max)
			if truncated != tt.truncated {
				t.Errorf("truncated = %v, want %v", truncated, tt.truncated)
			}
			if !tt.truncated && got != tt.want {
				t.Errorf("Clip = %q, want %q", got, tt.want)
			}
			if tt.truncated && !strings.HasPrefix(got, "пр") {
				t.Errorf("Clip = %q, want a prefix of the input", got)
			}
		})
	}
}

func TestFormatMarkdown(t *testing.T) {
	out := FormatMarkdown(engine.SummarizeURLOutput{
		Title:      "Talk",
		Author:     "Speaker",
		Summary:    "## Overview\nStuff.\n",
		Transcript: "hello there",
	})
	for _, want := range []string{"# Talk\n", "_by Speaker_", "## Overview\nStuff.", "## Transcript\n\nhello there"} {
		if !strings.Contains(out, want) {
			t.Errorf("markdown missing %q:\n%s", want, out)
		}
	}

	failed := FormatMarkdown(engine.SummarizeURLOutput{Error: "No transcript", ErrorKind: "no_content_found"})
	if !strings.Contains(failed, "no_content_found") || strings.Contains(failed, "#") {
		t.Errorf("failure markdown = %q", failed)
	}
}

func TestNewPipelineWiring(t *testing.T) {
	p := NewPipeline([]string{"en"}, "")
	if p.Videos == nil || p.Pages == nil || p.Metadata == nil {
		t.Fatalf("pipeline not fully wired: %+v", p)
	}
}
