// Package llm provides the text-generation interface used by the
// analysis engine, with a Gemini REST backend.
package llm

import (
	"context"
	"errors"
	"time"
)

// Provider names for configuration.
const (
	ProviderGemini = "gemini"
)

// Common errors returned by LLM providers.
var (
	ErrNoAPIKey     = errors.New("llm: API key not configured")
	ErrRateLimit    = errors.New("llm: rate limit exceeded")
	ErrProviderDown = errors.New("llm: provider unavailable")
	ErrInvalidModel = errors.New("llm: invalid model")
	ErrEmptyReply   = errors.New("llm: empty response")
)

// GenerateOptions configures a single generation request.
type GenerateOptions struct {
	Model       string  `json:"model,omitempty"`
	Temperature float64 `json:"temperature,omitempty"`
	MaxTokens   int     `json:"max_tokens,omitempty"`
	TopP        float64 `json:"top_p,omitempty"`
	TopK        int     `json:"top_k,omitempty"`
}

// DefaultGenerateOptions returns the generation parameters used for
// analysis prompts.
func DefaultGenerateOptions() *GenerateOptions {
	return &GenerateOptions{
		Temperature: 0.6,
		TopP:        0.8,
		TopK:        40,
		MaxTokens:   8192,
	}
}

// Usage tracks token consumption for a request.
type Usage struct {
	PromptTokens     int `json:"prompt_tokens"`
	CompletionTokens int `json:"completion_tokens"`
	TotalTokens      int `json:"total_tokens"`
}

// Response represents a complete response from the provider.
type Response struct {
	Content  string        `json:"content"`
	Model    string        `json:"model"`
	Provider string        `json:"provider"`
	Usage    Usage         `json:"usage"`
	Latency  time.Duration `json:"latency"`
}

// Provider is the interface every text-generation backend implements.
type Provider interface {
	// Name returns the provider identifier (e.g., "gemini").
	Name() string

	// Generate sends a single prompt and returns the full response.
	Generate(ctx context.Context, prompt string, opts *GenerateOptions) (*Response, error)

	// Ping checks if the provider is reachable and the API key is valid.
	Ping(ctx context.Context) error
}
