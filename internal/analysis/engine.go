package analysis

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"strings"

	"github.com/arqvlabs/arqv30/internal/llm"
	"github.com/arqvlabs/arqv30/pkg/format"
)

// ════════════════════════════════════════════════════════════════════
// Engine — briefing → prompt → Gemini → Result, with fallback
// ════════════════════════════════════════════════════════════════════

// ResearchFinding is one web finding contributed to the prompt context.
type ResearchFinding struct {
	Query   string `json:"query"`
	Title   string `json:"title"`
	URL     string `json:"url,omitempty"`
	Snippet string `json:"snippet,omitempty"`
}

// Researcher gathers best-effort web context for a segment. Failures
// must degrade to an empty slice, never an error.
type Researcher interface {
	Research(ctx context.Context, segment string) []ResearchFinding
}

// Engine runs the avatar-archeology analysis.
type Engine struct {
	provider llm.Provider
	research Researcher
	opts     *llm.GenerateOptions
}

// EngineOption configures the engine.
type EngineOption func(*Engine)

// WithProvider sets the LLM backend. A nil provider means every run
// uses the deterministic fallback analysis.
func WithProvider(p llm.Provider) EngineOption {
	return func(e *Engine) { e.provider = p }
}

// WithResearcher sets the web research source.
func WithResearcher(r Researcher) EngineOption {
	return func(e *Engine) { e.research = r }
}

// WithGenerateOptions overrides the generation parameters.
func WithGenerateOptions(opts *llm.GenerateOptions) EngineOption {
	return func(e *Engine) { e.opts = opts }
}

// NewEngine creates an analysis engine.
func NewEngine(opts ...EngineOption) *Engine {
	e := &Engine{opts: llm.DefaultGenerateOptions()}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Analyze produces the full analysis for a briefing.
//
// Without a provider the deterministic fallback analysis is returned.
// A provider transport/quota error is returned to the caller so the
// surface layer can report it; an unparsable model reply falls back,
// the user still gets a complete report.
func (e *Engine) Analyze(ctx context.Context, b Briefing) (*Result, error) {
	if err := b.Validate(); err != nil {
		return nil, err
	}

	if e.provider == nil {
		log.Printf("[analysis] no LLM provider configured, using fallback for %q", b.Segmento)
		return e.finish(FallbackResult(b)), nil
	}

	var findings []ResearchFinding
	if e.research != nil {
		findings = e.research.Research(ctx, b.Segmento)
		log.Printf("[analysis] research: %d findings for %q", len(findings), b.Segmento)
	}

	prompt := buildPrompt(b, findings)

	resp, err := e.provider.Generate(ctx, prompt, e.opts)
	if err != nil {
		return nil, fmt.Errorf("analysis: generating for %q: %w", b.Segmento, err)
	}

	result, err := parseResult(resp.Content)
	if err != nil {
		log.Printf("[analysis] unparsable model reply (%v), using fallback for %q", err, b.Segmento)
		return e.finish(FallbackResult(b)), nil
	}

	return e.finish(result), nil
}

func (e *Engine) finish(r *Result) *Result {
	r.GeneratedAt = format.NowBrasilia()
	return r
}

// parseResult strips markdown code fences and unmarshals the reply.
func parseResult(raw string) (*Result, error) {
	cleaned := stripJSONFence(raw)

	var r Result
	if err := json.Unmarshal([]byte(cleaned), &r); err != nil {
		return nil, fmt.Errorf("decoding analysis JSON: %w", err)
	}
	return &r, nil
}

// stripJSONFence removes a surrounding ```json ... ``` block, which
// models frequently add despite instructions.
func stripJSONFence(s string) string {
	s = strings.TrimSpace(s)
	if strings.HasPrefix(s, "```json") {
		s = strings.TrimPrefix(s, "```json")
	} else if strings.HasPrefix(s, "```") {
		s = strings.TrimPrefix(s, "```")
	}
	s = strings.TrimSuffix(strings.TrimSpace(s), "```")
	return strings.TrimSpace(s)
}
