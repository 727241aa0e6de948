package research

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"
)

const sampleResultsHTML = `<html><body>
<div class="result">
  <a class="result__a" href="https://duckduckgo.com/l/?uddg=https%3A%2F%2Fexemplo.com.br%2Ffitness">Mercado fitness cresce no Brasil</a>
  <div class="result__snippet">O setor de fitness brasileiro movimentou bilhões em 2024.</div>
</div>
<div class="result">
  <a class="result__a" href="https://outro.com.br/tendencias">Tendências do consumidor</a>
  <div class="result__snippet">Novos hábitos de consumo.</div>
</div>
</body></html>`

const sampleNewsRSS = `<?xml version="1.0" encoding="UTF-8"?>
<rss version="2.0"><channel>
<title>Google News</title>
<item>
  <title>Academias registram recorde de matrículas</title>
  <link>https://noticias.exemplo.com.br/academias</link>
  <description>&lt;b&gt;Setor&lt;/b&gt; em alta no país.</description>
</item>
</channel></rss>`

func newTestClient(t *testing.T, handler http.Handler) (*Client, *httptest.Server) {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)
	c := NewClient(
		WithHTTPClient(srv.Client()),
		WithSearchBaseURL(srv.URL+"/html/"),
		WithNewsBaseURL(srv.URL+"/rss/search"),
		WithMaxPerQuery(4),
	)
	// Generous limiter so tests never block.
	c.limiter = NewRateLimiter(100, time.Millisecond)
	return c, srv
}

func TestSearchDuckDuckGo(t *testing.T) {
	c, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Query().Get("q") == "" {
			t.Error("missing query parameter")
		}
		w.Write([]byte(sampleResultsHTML))
	}))

	findings, err := c.searchDuckDuckGo(context.Background(), "fitness mercado")
	if err != nil {
		t.Fatalf("searchDuckDuckGo: %v", err)
	}
	if len(findings) != 2 {
		t.Fatalf("got %d findings, want 2", len(findings))
	}
	if findings[0].Title != "Mercado fitness cresce no Brasil" {
		t.Errorf("title = %q", findings[0].Title)
	}
	// The uddg redirect is unwrapped to the target URL.
	if findings[0].URL != "https://exemplo.com.br/fitness" {
		t.Errorf("url = %q, want unwrapped target", findings[0].URL)
	}
	if !strings.Contains(findings[0].Snippet, "bilhões") {
		t.Errorf("snippet = %q", findings[0].Snippet)
	}
}

func TestNewsHeadlines(t *testing.T) {
	c, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/rss+xml")
		w.Write([]byte(sampleNewsRSS))
	}))

	findings, err := c.newsHeadlines(context.Background(), "fitness")
	if err != nil {
		t.Fatalf("newsHeadlines: %v", err)
	}
	if len(findings) != 1 {
		t.Fatalf("got %d findings, want 1", len(findings))
	}
	if findings[0].Title != "Academias registram recorde de matrículas" {
		t.Errorf("title = %q", findings[0].Title)
	}
	if findings[0].Snippet != "Setor em alta no país." {
		t.Errorf("snippet = %q, want HTML stripped", findings[0].Snippet)
	}
}

func TestResearchDegradesOnFailure(t *testing.T) {
	c, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "service unavailable", http.StatusServiceUnavailable)
	}))

	findings := c.Research(context.Background(), "fitness")
	if len(findings) != 0 {
		t.Errorf("got %d findings from failing sources, want 0", len(findings))
	}
}

func TestResearchEmptySegment(t *testing.T) {
	c := NewClient()
	if findings := c.Research(context.Background(), ""); findings != nil {
		t.Errorf("empty segment should yield nil, got %v", findings)
	}
}

func TestResearchCaches(t *testing.T) {
	var calls int
	c, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls++
		if strings.HasPrefix(r.URL.Path, "/rss") {
			w.Write([]byte(sampleNewsRSS))
			return
		}
		w.Write([]byte(sampleResultsHTML))
	}))

	first := c.Research(context.Background(), "fitness")
	if len(first) == 0 {
		t.Fatal("expected findings on first run")
	}
	callsAfterFirst := calls

	second := c.Research(context.Background(), "fitness")
	if calls != callsAfterFirst {
		t.Errorf("second run hit the network (%d extra calls)", calls-callsAfterFirst)
	}
	if len(second) != len(first) {
		t.Errorf("cached run returned %d findings, want %d", len(second), len(first))
	}
}

func TestBuildQueries(t *testing.T) {
	queries := BuildQueries("fitness")
	if len(queries) != 4 {
		t.Fatalf("got %d queries, want 4", len(queries))
	}
	if queries[0] != "fitness mercado brasileiro 2024 2025" {
		t.Errorf("first query = %q", queries[0])
	}
	for _, q := range queries {
		if !strings.Contains(q, "fitness") {
			t.Errorf("query %q missing segment", q)
		}
	}
}

func TestResolveRedirect(t *testing.T) {
	tests := []struct {
		in, want string
	}{
		{"https://duckduckgo.com/l/?uddg=https%3A%2F%2Fa.com%2Fb", "https://a.com/b"},
		{"https://direto.com.br/pagina", "https://direto.com.br/pagina"},
	}
	for _, tt := range tests {
		if got := resolveRedirect(tt.in); got != tt.want {
			t.Errorf("resolveRedirect(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestRateLimiterRespectsContext(t *testing.T) {
	rl := NewRateLimiter(1, time.Hour)
	if err := rl.Wait(context.Background()); err != nil {
		t.Fatalf("first token: %v", err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
	defer cancel()
	if err := rl.Wait(ctx); err == nil {
		t.Error("expected context deadline error when tokens exhausted")
	}
}

func TestCacheExpiry(t *testing.T) {
	c := NewCache(10 * time.Millisecond)
	c.Set("k", "v")
	if v, ok := c.Get("k"); !ok || v != "v" {
		t.Fatal("fresh entry should be returned")
	}
	time.Sleep(20 * time.Millisecond)
	if _, ok := c.Get("k"); ok {
		t.Error("expired entry should not be returned")
	}
}
