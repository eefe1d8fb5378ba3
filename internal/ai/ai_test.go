package ai

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"finbot/internal/config"

	"github.com/anthropics/anthropic-sdk-go/option"
)

func TestChatClient_Generate_Success(t *testing.T) {
	var got chatRequest
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/chat/completions" {
			t.Errorf("unexpected path %s", r.URL.Path)
		}
		if r.Header.Get("Authorization") != "Bearer secret" {
			t.Errorf("unexpected auth header %q", r.Header.Get("Authorization"))
		}
		if r.Header.Get("X-Title") != "Finance AI Bot" {
			t.Errorf("expected OpenRouter headers, got %q", r.Header.Get("X-Title"))
		}
		if err := json.NewDecoder(r.Body).Decode(&got); err != nil {
			t.Errorf("failed to decode request: %v", err)
		}
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"choices":[{"message":{"role":"assistant","content":"  {\"type\":\"expense\"}  "}}]}`))
	}))
	defer server.Close()

	cfg := config.Config{
		AIProvider:       config.ProviderOpenRouter,
		OpenRouterAPIKey: "secret",
		OpenRouterModel:  "test-model",
		OpenRouterURL:    server.URL + "/",
		AIRequestTimeout: time.Second,
	}
	gen, err := New(context.Background(), cfg, server.Client())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if gen.Name() != "OpenRouter" {
		t.Errorf("expected OpenRouter, got %s", gen.Name())
	}

	text, err := gen.Generate(context.Background(), "classify this", 100)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if text != `{"type":"expense"}` {
		t.Errorf("expected trimmed content, got %q", text)
	}
	if got.Model != "test-model" || got.MaxTokens != 100 || got.Temperature != Temperature {
		t.Errorf("unexpected request body %+v", got)
	}
	if len(got.Messages) != 1 || got.Messages[0].Role != "user" || got.Messages[0].Content != "classify this" {
		t.Errorf("unexpected messages %+v", got.Messages)
	}
}

func TestChatClient_Generate_Errors(t *testing.T) {
	tests := []struct {
		name    string
		status  int
		body    string
		timeout time.Duration
		delay   time.Duration
	}{
		{"non-200 status", http.StatusTooManyRequests, `{"error":"rate limited"}`, time.Second, 0},
		{"malformed body", http.StatusOK, `not json`, time.Second, 0},
		{"no choices", http.StatusOK, `{"choices":[]}`, time.Second, 0},
		{"timeout", http.StatusOK, `{"choices":[]}`, 20 * time.Millisecond, 200 * time.Millisecond},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				if tt.delay > 0 {
					select {
					case <-time.After(tt.delay):
					case <-r.Context().Done():
						return
					}
				}
				w.WriteHeader(tt.status)
				_, _ = w.Write([]byte(tt.body))
			}))
			defer server.Close()

			c := NewChatClient("Groq", server.URL, "k", "m", server.Client())
			ctx, cancel := context.WithTimeout(context.Background(), tt.timeout)
			defer cancel()

			if _, err := c.Generate(ctx, "p", 10); err == nil {
				t.Error("expected error")
			}
		})
	}
}

func TestNew_Disabled(t *testing.T) {
	tests := []struct {
		name string
		cfg  config.Config
	}{
		{"disabled flag", config.Config{DisableAI: true, AIProvider: config.ProviderGroq, GroqAPIKey: "k"}},
		{"groq without key", config.Config{AIProvider: config.ProviderGroq, AIRequestTimeout: time.Second}},
		{"anthropic without key", config.Config{AIProvider: config.ProviderAnthropic, AIRequestTimeout: time.Second}},
		{"gemini without key", config.Config{AIProvider: config.ProviderGemini, AIRequestTimeout: time.Second}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			gen, err := New(context.Background(), tt.cfg, nil)
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if gen != nil {
				t.Errorf("expected nil generator, got %s", gen.Name())
			}
		})
	}

	t.Run("unknown provider", func(t *testing.T) {
		if _, err := New(context.Background(), config.Config{AIProvider: "oracle", AIRequestTimeout: time.Second}, nil); err == nil {
			t.Error("expected error")
		}
	})
}

func TestAnthropicGenerator_Generate(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Header.Get("X-Api-Key") != "secret" {
			t.Errorf("unexpected api key header %q", r.Header.Get("X-Api-Key"))
		}
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{
			"id": "msg_1", "type": "message", "role": "assistant", "model": "claude-test",
			"content": [{"type": "text", "text": "{\"type\": \"income\", "}, {"type": "text", "text": "\"category\": \"премия\"}"}],
			"stop_reason": "end_turn", "usage": {"input_tokens": 1, "output_tokens": 1}
		}`))
	}))
	defer server.Close()

	g := NewAnthropicGenerator("secret", "claude-test", server.Client(), option.WithBaseURL(server.URL+"/"))
	text, err := g.Generate(context.Background(), "p", 100)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if text != `{"type": "income", "category": "премия"}` {
		t.Errorf("unexpected text %q", text)
	}
}

func TestGeminiGenerator_Generate(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"candidates":[{"content":{"role":"model","parts":[{"text":"Совет: экономьте"}]}}]}`))
	}))
	defer server.Close()

	g, err := NewGeminiGenerator(context.Background(), "secret", "gemini-test", server.Client(), server.URL)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	text, err := g.Generate(context.Background(), "p", 100)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if text != "Совет: экономьте" {
		t.Errorf("unexpected text %q", text)
	}
}

func TestStripCodeFence(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
	}{
		{"plain", `{"type":"expense"}`, `{"type":"expense"}`},
		{"json fence", "```json\n{\"type\":\"expense\"}\n```", `{"type":"expense"}`},
		{"bare fence", "```\n{\"a\":1}\n```", `{"a":1}`},
		{"surrounding prose", "Ответ: {\"a\":1} готово", `{"a":1}`},
		{"no json", "nothing here", "nothing here"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := StripCodeFence(tt.in); got != tt.want {
				t.Errorf("StripCodeFence(%q) = %q, want %q", tt.in, got, tt.want)
			}
		})
	}
}
