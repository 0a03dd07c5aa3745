package engine

import (
	"context"
	"fmt"
	"net/http"
	"slices"
	"strings"
	"time"

	"github.com/anatolykoptev/go-kit/llm"
	"github.com/tmc/langchaingo/llms"
	"github.com/tmc/langchaingo/llms/anthropic"
	"github.com/tmc/langchaingo/llms/ollama"
)

// Supported LLM providers. The provider is always chosen explicitly,
// never guessed from the shape of an API key.
const (
	ProviderGroq      = "groq"
	ProviderOpenAI    = "openai"
	ProviderGemini    = "gemini"
	ProviderAnthropic = "anthropic"
	ProviderOllama    = "ollama"
)

// openAICompatibleBases maps providers served through go-kit/llm to their API base.
var openAICompatibleBases = map[string]string{
	ProviderGroq:   "https://api.groq.com/openai/v1",
	ProviderOpenAI: "https://api.openai.com/v1",
	ProviderGemini: "https://generativelanguage.googleapis.com/v1beta/openai",
}

// Providers lists every provider name NewGenerator accepts.
func Providers() []string {
	return []string{ProviderGroq, ProviderOpenAI, ProviderGemini, ProviderAnthropic, ProviderOllama}
}

// GroqModels are the Groq models offered in tool and CLI help.
var GroqModels = []string{"gemma2-9b-it", "llama-3.3-70b-versatile"}

var defaultModels = map[string]string{
	ProviderGroq:      "llama-3.3-70b-versatile",
	ProviderOpenAI:    "gpt-4o-mini",
	ProviderGemini:    "gemini-2.5-flash",
	ProviderAnthropic: "claude-3-5-haiku-latest",
	ProviderOllama:    "llama3.2",
}

// DefaultModel returns the model used for provider when none is named.
func DefaultModel(provider string) string {
	return defaultModels[strings.ToLower(provider)]
}

// ModelParams selects and tunes the LLM for one request.
type ModelParams struct {
	Provider    string  `json:"provider"`
	Name        string  `json:"model"`
	Temperature float64 `json:"temperature"`
}

// Generator is the LLM capability: one prompt in, one completion out.
type Generator interface {
	Generate(ctx context.Context, prompt string) (string, error)
}

// GeneratorFunc adapts a function to Generator.
type GeneratorFunc func(ctx context.Context, prompt string) (string, error)

func (f GeneratorFunc) Generate(ctx context.Context, prompt string) (string, error) {
	return f(ctx, prompt)
}

// NewGenerator builds the Generator for p from the engine configuration.
func NewGenerator(p ModelParams) (Generator, error) {
	provider := strings.ToLower(strings.TrimSpace(p.Provider))
	if !slices.Contains(Providers(), provider) {
		return nil, invalidConfig("unknown provider %q (supported: %s)", p.Provider, strings.Join(Providers(), ", "))
	}
	if p.Name == "" {
		return nil, invalidConfig("model name is required")
	}

	switch provider {
	case ProviderOllama:
		g, err := newOllamaGenerator(p)
		if err != nil {
			return nil, err
		}
		return g, nil
	case ProviderAnthropic:
		key := cfg.ProviderKeys[provider]
		if key == "" {
			return nil, invalidConfig("please set the %s API key", provider)
		}
		g, err := newAnthropicGenerator(p, key)
		if err != nil {
			return nil, err
		}
		return g, nil
	default:
		key := cfg.ProviderKeys[provider]
		if key == "" {
			return nil, invalidConfig("please set the %s API key", provider)
		}
		return newChatGenerator(p, apiBase(provider), key, fallbackKeys(provider)), nil
	}
}

// isDefaultProvider reports whether provider is the one the server is configured for.
func isDefaultProvider(provider string) bool {
	return provider == strings.ToLower(strings.TrimSpace(cfg.LLMProvider))
}

// apiBase returns the base URL for an OpenAI-compatible provider.
// LLMAPIBase only applies to the configured default provider.
func apiBase(provider string) string {
	if cfg.LLMAPIBase != "" && isDefaultProvider(provider) {
		return cfg.LLMAPIBase
	}
	return openAICompatibleBases[provider]
}

// fallbackKeys returns the rotation keys for provider. They belong to the
// configured default provider only.
func fallbackKeys(provider string) []string {
	if isDefaultProvider(provider) {
		return cfg.LLMAPIKeyFallbacks
	}
	return nil
}

// chatGenerator talks to OpenAI-compatible chat completion APIs.
type chatGenerator struct {
	client *llm.Client
}

func newChatGenerator(p ModelParams, base, key string, fallbacks []string) *chatGenerator {
	return &chatGenerator{
		client: llm.NewClient(base, key, p.Name,
			llm.WithFallbackKeys(fallbacks),
			llm.WithMaxTokens(cfg.LLMMaxTokens),
			llm.WithTemperature(p.Temperature),
			llm.WithHTTPClient(&http.Client{Timeout: 120 * time.Second}),
		),
	}
}

func (g *chatGenerator) Generate(ctx context.Context, prompt string) (string, error) {
	return g.client.Complete(ctx, "", prompt)
}

// langchainGenerator covers providers with their own wire protocol.
type langchainGenerator struct {
	model       llms.Model
	temperature float64
}

func newAnthropicGenerator(p ModelParams, key string) (*langchainGenerator, error) {
	m, err := anthropic.New(anthropic.WithModel(p.Name), anthropic.WithToken(key))
	if err != nil {
		return nil, fmt.Errorf("anthropic client: %w", err)
	}
	return &langchainGenerator{model: m, temperature: p.Temperature}, nil
}

func newOllamaGenerator(p ModelParams) (*langchainGenerator, error) {
	opts := []ollama.Option{ollama.WithModel(p.Name)}
	if cfg.OllamaURL != "" {
		opts = append(opts, ollama.WithServerURL(cfg.OllamaURL))
	}
	m, err := ollama.New(opts...)
	if err != nil {
		return nil, fmt.Errorf("ollama client: %w", err)
	}
	return &langchainGenerator{model: m, temperature: p.Temperature}, nil
}

func (g *langchainGenerator) Generate(ctx context.Context, prompt string) (string, error) {
	opts := []llms.CallOption{llms.WithTemperature(g.temperature)}
	if cfg.LLMMaxTokens > 0 {
		opts = append(opts, llms.WithMaxTokens(cfg.LLMMaxTokens))
	}
	return llms.GenerateFromSinglePrompt(ctx, g.model, prompt, opts...)
}

// contextTooLargeMarkers are substrings providers use when rejecting oversized input.
var contextTooLargeMarkers = []string{
	"context_length_exceeded",
	"context length",
	"context window",
	"maximum context",
	"too many tokens",
	"prompt is too long",
	"request too large",
	"request entity too large",
	"reduce the length",
	"input is too long",
	"status 413",
	"http 413",
}

// isContextTooLarge reports whether a provider error rejects the prompt size.
func isContextTooLarge(err error) bool {
	if err == nil {
		return false
	}
	msg := strings.ToLower(err.Error())
	for _, m := range contextTooLargeMarkers {
		if strings.Contains(msg, m) {
			return true
		}
	}
	return false
}

// classifyGenerateError converts a Generator failure into a typed Error.
func classifyGenerateError(err error) *Error {
	if isContextTooLarge(err) {
		return newError(ErrKindContextTooLarge, err)
	}
	return newError(ErrKindProvider, err)
}
