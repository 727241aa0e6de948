package analysis

import (
	"context"
	"errors"
	"strings"
	"testing"
	"unicode/utf8"

	"github.com/arqvlabs/arqv30/internal/llm"
)

// fakeProvider returns a canned reply or error.
type fakeProvider struct {
	reply string
	err   error
}

func (f *fakeProvider) Name() string { return "fake" }
func (f *fakeProvider) Generate(ctx context.Context, prompt string, opts *llm.GenerateOptions) (*llm.Response, error) {
	if f.err != nil {
		return nil, f.err
	}
	return &llm.Response{Content: f.reply, Provider: "fake"}, nil
}
func (f *fakeProvider) Ping(ctx context.Context) error { return f.err }

func TestBriefingValidate(t *testing.T) {
	tests := []struct {
		name    string
		b       Briefing
		wantErr error
	}{
		{"ok", Briefing{Segmento: "fitness"}, nil},
		{"empty", Briefing{}, ErrSegmentRequired},
		{"blank", Briefing{Segmento: "   "}, ErrSegmentRequired},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if err := tt.b.Validate(); !errors.Is(err, tt.wantErr) {
				t.Errorf("Validate() = %v, want %v", err, tt.wantErr)
			}
		})
	}
}

func TestAnalyzeWithoutProviderUsesFallback(t *testing.T) {
	e := NewEngine()
	r, err := e.Analyze(context.Background(), Briefing{Segmento: "fitness"})
	if err != nil {
		t.Fatalf("Analyze: %v", err)
	}
	if !r.FromFallback {
		t.Error("expected fallback result")
	}
	if r.Scope == nil || r.Scope.SegmentoPrincipal != "fitness" {
		t.Fatalf("scope: %+v", r.Scope)
	}
	if r.Scope.TamanhoMercado.TAM != "R$ 3,2 bilhões" {
		t.Errorf("TAM: got %q", r.Scope.TamanhoMercado.TAM)
	}
	if r.Projections == nil || r.Projections.Realista.ROI != "380%" {
		t.Error("expected realistic scenario ROI 380%")
	}
	if r.GeneratedAt.IsZero() {
		t.Error("GeneratedAt not set")
	}
}

func TestAnalyzeRejectsBlankSegment(t *testing.T) {
	e := NewEngine()
	_, err := e.Analyze(context.Background(), Briefing{})
	if !errors.Is(err, ErrSegmentRequired) {
		t.Fatalf("expected ErrSegmentRequired, got %v", err)
	}
}

func TestAnalyzeParsesFencedReply(t *testing.T) {
	reply := "```json\n{\"escopo\": {\"segmento_principal\": \"fitness\", \"produto_ideal\": \"Consultoria\"}}\n```"
	e := NewEngine(WithProvider(&fakeProvider{reply: reply}))

	r, err := e.Analyze(context.Background(), Briefing{Segmento: "fitness"})
	if err != nil {
		t.Fatalf("Analyze: %v", err)
	}
	if r.FromFallback {
		t.Error("should not have fallen back")
	}
	if r.Scope == nil || r.Scope.ProdutoIdeal != "Consultoria" {
		t.Fatalf("scope: %+v", r.Scope)
	}
	if r.Avatar != nil {
		t.Error("absent facets must stay nil")
	}
}

func TestAnalyzeFallsBackOnGarbageReply(t *testing.T) {
	e := NewEngine(WithProvider(&fakeProvider{reply: "desculpe, não consegui gerar"}))

	r, err := e.Analyze(context.Background(), Briefing{Segmento: "fitness", Preco: "1.200,00"})
	if err != nil {
		t.Fatalf("Analyze: %v", err)
	}
	if !r.FromFallback {
		t.Error("expected fallback result")
	}
	// Briefing price flows into the fallback projections.
	if got := r.Projections.Realista.TicketMedio; got != "R$ 1.200" {
		t.Errorf("ticket: got %q", got)
	}
}

func TestAnalyzeSurfacesProviderError(t *testing.T) {
	e := NewEngine(WithProvider(&fakeProvider{err: llm.ErrRateLimit}))

	_, err := e.Analyze(context.Background(), Briefing{Segmento: "fitness"})
	if !errors.Is(err, llm.ErrRateLimit) {
		t.Fatalf("expected ErrRateLimit, got %v", err)
	}
}

func TestStripJSONFence(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  string
	}{
		{"plain", `{"a": 1}`, `{"a": 1}`},
		{"json fence", "```json\n{\"a\": 1}\n```", `{"a": 1}`},
		{"bare fence", "```\n{\"a\": 1}\n```", `{"a": 1}`},
		{"padded", "  \n```json\n{}\n```  ", `{}`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := stripJSONFence(tt.input); got != tt.want {
				t.Errorf("stripJSONFence = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestBuildPromptIncludesResearch(t *testing.T) {
	p := buildPrompt(Briefing{Segmento: "fitness", Produto: "Mentoria"}, []ResearchFinding{
		{Query: "fitness mercado brasileiro", Title: "Panorama 2026", Snippet: "mercado em expansão"},
	})
	for _, want := range []string{"fitness", "Mentoria", "Panorama 2026", "segmento_principal", "APENAS o JSON"} {
		if !strings.Contains(p, want) {
			t.Errorf("prompt missing %q", want)
		}
	}
}

func TestBuildPromptTruncatesOnRuneBoundary(t *testing.T) {
	// 160 runes of multi-byte text; a byte-index cut would split one.
	long := strings.Repeat("ção é ", 32)
	p := buildPrompt(Briefing{Segmento: "fitness"}, []ResearchFinding{
		{Query: "fitness", Title: "Tendências", Snippet: long},
	})

	if !utf8.ValidString(p) {
		t.Fatal("prompt contains invalid UTF-8")
	}
	if strings.Contains(p, long) {
		t.Error("long snippet should have been truncated")
	}
}

func TestTruncateRunes(t *testing.T) {
	tests := []struct {
		name  string
		input string
		n     int
		want  string
	}{
		{"short", "mercado", 150, "mercado"},
		{"exact", "abc", 3, "abc"},
		{"cut ascii", "abcdef", 3, "abc..."},
		{"cut accented", "ação", 2, "aç..."},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := truncateRunes(tt.input, tt.n); got != tt.want {
				t.Errorf("truncateRunes = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestSummarize(t *testing.T) {
	if s := Summarize(nil); s.Segmento != "" || s.Insights != 0 {
		t.Errorf("nil result: %+v", s)
	}

	r := FallbackResult(Briefing{Segmento: "fitness"})
	s := Summarize(r)
	if s.Segmento != "fitness" {
		t.Errorf("segmento: got %q", s.Segmento)
	}
	if s.Insights != 4 {
		t.Errorf("insights: got %d, want 4", s.Insights)
	}
}
