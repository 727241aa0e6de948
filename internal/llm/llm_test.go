package llm

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
)

// ════════════════════════════════════════════════════════════════════
// provider.go — Options
// ════════════════════════════════════════════════════════════════════

func TestDefaultGenerateOptions(t *testing.T) {
	opts := DefaultGenerateOptions()
	if opts.Temperature != 0.6 || opts.TopP != 0.8 || opts.TopK != 40 || opts.MaxTokens != 8192 {
		t.Fatalf("unexpected defaults: %+v", opts)
	}
}

// ════════════════════════════════════════════════════════════════════
// gemini.go — REST client against a stub server
// ════════════════════════════════════════════════════════════════════

func stubGemini(t *testing.T, status int, body string) *GeminiProvider {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(status)
		w.Write([]byte(body))
	}))
	t.Cleanup(srv.Close)

	p, err := NewGeminiProvider("test-key", WithGeminiBaseURL(srv.URL))
	if err != nil {
		t.Fatalf("NewGeminiProvider: %v", err)
	}
	return p
}

func TestNewGeminiProviderRequiresKey(t *testing.T) {
	if _, err := NewGeminiProvider(""); !errors.Is(err, ErrNoAPIKey) {
		t.Fatalf("expected ErrNoAPIKey, got %v", err)
	}
}

func TestGeminiGenerate(t *testing.T) {
	p := stubGemini(t, http.StatusOK, `{
		"candidates": [{"content": {"role": "model", "parts": [{"text": "{\"escopo\":{}}"}]}, "finishReason": "STOP"}],
		"usageMetadata": {"promptTokenCount": 10, "candidatesTokenCount": 5, "totalTokenCount": 15}
	}`)

	resp, err := p.Generate(context.Background(), "analise o segmento fitness", DefaultGenerateOptions())
	if err != nil {
		t.Fatalf("Generate: %v", err)
	}
	if resp.Content != `{"escopo":{}}` {
		t.Errorf("content: got %q", resp.Content)
	}
	if resp.Usage.TotalTokens != 15 {
		t.Errorf("usage: got %d, want 15", resp.Usage.TotalTokens)
	}
	if resp.Provider != ProviderGemini {
		t.Errorf("provider: got %q", resp.Provider)
	}
}

func TestGeminiGenerateEmptyReply(t *testing.T) {
	p := stubGemini(t, http.StatusOK, `{"candidates": []}`)

	_, err := p.Generate(context.Background(), "prompt", nil)
	if !errors.Is(err, ErrEmptyReply) {
		t.Fatalf("expected ErrEmptyReply, got %v", err)
	}
}

func TestGeminiErrorMapping(t *testing.T) {
	tests := []struct {
		name   string
		status int
		body   string
		want   error
	}{
		{"rate limit", http.StatusTooManyRequests, `{"error": {"code": 429, "message": "quota exceeded", "status": "RESOURCE_EXHAUSTED"}}`, ErrRateLimit},
		{"bad key", http.StatusForbidden, `{"error": {"code": 403, "message": "API key invalid", "status": "PERMISSION_DENIED"}}`, ErrNoAPIKey},
		{"bad model", http.StatusBadRequest, `{"error": {"code": 400, "message": "model not found", "status": "INVALID_ARGUMENT"}}`, ErrInvalidModel},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := stubGemini(t, tt.status, tt.body)
			_, err := p.Generate(context.Background(), "prompt", nil)
			if !errors.Is(err, tt.want) {
				t.Fatalf("expected %v, got %v", tt.want, err)
			}
		})
	}
}

func TestGeminiPing(t *testing.T) {
	p := stubGemini(t, http.StatusOK, `{"models": []}`)
	if err := p.Ping(context.Background()); err != nil {
		t.Fatalf("Ping: %v", err)
	}

	bad := stubGemini(t, http.StatusForbidden, `{}`)
	if err := bad.Ping(context.Background()); !errors.Is(err, ErrNoAPIKey) {
		t.Fatalf("expected ErrNoAPIKey, got %v", err)
	}
}
