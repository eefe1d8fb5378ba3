// Package ai provides text generation backends used to classify and
// summarize transactions.
package ai

import (
	"context"
	"fmt"
	"net/http"
	"strings"

	"finbot/internal/config"
)

// Temperature used for every backend.
const Temperature = 0.7

// Generator produces a completion for a single user prompt.
type Generator interface {
	// Name returns the backend's display name (e.g. "Groq", "Anthropic").
	Name() string

	// Generate returns the trimmed model output for prompt, limited to maxTokens.
	Generate(ctx context.Context, prompt string, maxTokens int) (string, error)
}

// New builds the generator selected by cfg. It returns a nil Generator and no
// error when AI is disabled or the selected provider has no API key, in which
// case callers use their deterministic paths.
func New(ctx context.Context, cfg config.Config, httpClient *http.Client) (Generator, error) {
	if cfg.DisableAI {
		return nil, nil
	}
	if httpClient == nil {
		httpClient = &http.Client{Timeout: cfg.AIRequestTimeout}
	}

	switch cfg.AIProvider {
	case config.ProviderGroq:
		if cfg.GroqAPIKey == "" {
			return nil, nil
		}
		return NewChatClient("Groq", cfg.GroqBaseURL, cfg.GroqAPIKey, cfg.GroqModel, httpClient), nil
	case config.ProviderOpenRouter:
		if cfg.OpenRouterAPIKey == "" {
			return nil, nil
		}
		c := NewChatClient("OpenRouter", cfg.OpenRouterURL, cfg.OpenRouterAPIKey, cfg.OpenRouterModel, httpClient)
		c.headers = map[string]string{
			"HTTP-Referer": "https://github.com/finance-ai-bot",
			"X-Title":      "Finance AI Bot",
		}
		return c, nil
	case config.ProviderAnthropic:
		if cfg.AnthropicAPIKey == "" {
			return nil, nil
		}
		return NewAnthropicGenerator(cfg.AnthropicAPIKey, cfg.AnthropicModel, httpClient), nil
	case config.ProviderGemini:
		if cfg.GeminiAPIKey == "" {
			return nil, nil
		}
		g, err := NewGeminiGenerator(ctx, cfg.GeminiAPIKey, cfg.GeminiModel, httpClient, "")
		if err != nil {
			return nil, err
		}
		return g, nil
	default:
		return nil, fmt.Errorf("unsupported AI provider %q", cfg.AIProvider)
	}
}

// StripCodeFence removes a Markdown code fence around model output and trims
// anything outside the outermost JSON object.
func StripCodeFence(raw string) string {
	s := strings.TrimSpace(raw)

	if strings.HasPrefix(s, "```") {
		idx := strings.Index(s, "\n")
		if idx == -1 {
			return strings.Trim(s, "`")
		}
		s = strings.TrimSpace(s[idx+1:])
	}
	if idx := strings.LastIndex(s, "```"); idx != -1 {
		s = s[:idx]
	}
	s = strings.TrimSpace(s)

	if start := strings.Index(s, "{"); start != -1 {
		if end := strings.LastIndex(s, "}"); end > start {
			s = s[start : end+1]
		}
	}
	return s
}
