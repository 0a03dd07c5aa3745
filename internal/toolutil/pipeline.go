package toolutil

import (
	"log/slog"

	"github.com/anatolykoptev/go_digest/internal/engine"
	"github.com/anatolykoptev/go_digest/internal/engine/sources"
)

// InitEngine finishes c (browser client, prompt template), installs it with
// engine.Init and returns the pipeline wired to the YouTube and HTTP fetchers.
func InitEngine(c engine.Config, webshareAPIKey string) (*engine.Pipeline, error) {
	if c.BrowserClient == nil {
		bc, err := engine.NewBrowserClient(webshareAPIKey)
		if err != nil {
			slog.Warn("stealth client init failed, watch page uses plain HTTP", slog.Any("error", err))
		} else {
			c.BrowserClient = bc
			slog.Info("stealth browser client initialized")
		}
	}

	template := ""
	if c.PromptFile != "" {
		t, err := engine.LoadPromptTemplate(c.PromptFile)
		if err != nil {
			return nil, err
		}
		template = t
		slog.Info("prompt template loaded", slog.String("file", c.PromptFile))
	}

	engine.Init(c)
	return NewPipeline(engine.Cfg.TranscriptLangs, template), nil
}

// NewPipeline wires the default fetch collaborators.
func NewPipeline(langs []string, template string) *engine.Pipeline {
	return &engine.Pipeline{
		Videos:   sources.NewTranscriptFetcher(sources.WatchPageCaptions{Langs: langs}, langs),
		Pages:    engine.HTTPPageFetcher{},
		Metadata: sources.OEmbed{},
		Template: template,
	}
}
