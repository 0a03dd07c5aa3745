package engine

import (
	"net/http"
	"time"

	"github.com/anatolykoptev/go-kit/env"
)

// Config holds all engine configuration, injected from main.
type Config struct {
	LLMProvider        string
	LLMModel           string
	LLMTemperature     float64
	LLMMaxTokens       int
	LLMAPIBase         string            // overrides the base URL of LLMProvider only
	LLMAPIKeyFallbacks []string          // extra LLMProvider keys rotated on 429
	ProviderKeys       map[string]string // provider name → API key
	OllamaURL          string
	ChunkSize          int
	ChunkOverlap       int
	TranscriptLangs    []string
	FetchTimeout       time.Duration
	MaxPageBytes       int64
	PromptFile         string
	HTTPClient         *http.Client
	BrowserClient      *BrowserClient // nil = watch page fetched with HTTPClient
}

var cfg Config

// Cfg exposes the engine configuration for sub-packages (sources).
// Always points to the current cfg value.
var Cfg = &cfg

// Init initializes the engine with the given configuration.
func Init(c Config) {
	if c.HTTPClient == nil {
		c.HTTPClient = &http.Client{Timeout: 15 * time.Second}
	}
	if c.FetchTimeout <= 0 {
		c.FetchTimeout = 15 * time.Second
	}
	if c.MaxPageBytes <= 0 {
		c.MaxPageBytes = 4 << 20
	}
	if len(c.TranscriptLangs) == 0 {
		c.TranscriptLangs = []string{"en"}
	}
	cfg = c
	Cfg = &cfg
}

// ConfigFromEnv reads the engine configuration from the process environment.
// Defaults mirror the original form: groq, chunk 2000, overlap 100, temperature 0.3.
func ConfigFromEnv() Config {
	return Config{
		LLMProvider:        env.Str("LLM_PROVIDER", ProviderGroq),
		LLMModel:           env.Str("LLM_MODEL", "llama-3.3-70b-versatile"),
		LLMTemperature:     env.Float("LLM_TEMPERATURE", 0.3),
		LLMMaxTokens:       env.Int("LLM_MAX_TOKENS", 4096),
		LLMAPIBase:         env.Str("LLM_API_BASE", ""),
		LLMAPIKeyFallbacks: env.List("LLM_API_KEY_FALLBACKS", ""),
		ProviderKeys: map[string]string{
			ProviderGroq:      env.Str("GROQ_API_KEY", ""),
			ProviderOpenAI:    env.Str("OPENAI_API_KEY", ""),
			ProviderGemini:    env.Str("GEMINI_API_KEY", ""),
			ProviderAnthropic: env.Str("ANTHROPIC_API_KEY", ""),
		},
		OllamaURL:       env.Str("OLLAMA_URL", "http://127.0.0.1:11434"),
		ChunkSize:       env.Int("CHUNK_SIZE", 2000),
		ChunkOverlap:    env.Int("CHUNK_OVERLAP", 100),
		TranscriptLangs: env.List("TRANSCRIPT_LANGS", "en"),
		FetchTimeout:    env.Duration("FETCH_TIMEOUT", 15*time.Second),
		MaxPageBytes:    int64(env.Int("MAX_PAGE_BYTES", 4<<20)),
		PromptFile:      env.Str("PROMPT_FILE", ""),
		HTTPClient: &http.Client{
			Timeout: 15 * time.Second,
			Transport: &http.Transport{
				MaxIdleConns:        20,
				MaxIdleConnsPerHost: 10,
				IdleConnTimeout:     60 * time.Second,
			},
		},
	}
}

// DefaultRequest builds a SummaryRequest for url from the configured defaults.
func DefaultRequest(url string) SummaryRequest {
	return SummaryRequest{
		URL:       url,
		ChunkSize: cfg.ChunkSize,
		Overlap:   cfg.ChunkOverlap,
		Model: ModelParams{
			Provider:    cfg.LLMProvider,
			Name:        cfg.LLMModel,
			Temperature: cfg.LLMTemperature,
		},
	}
}
