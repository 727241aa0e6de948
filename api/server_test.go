package api

import (
	"bytes"
	"encoding/json"
	"io"
	"net/http"
	"net/http/cookiejar"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"
	"time"

	"github.com/arqvlabs/arqv30/internal/analysis"
	"github.com/arqvlabs/arqv30/internal/config"
	"github.com/arqvlabs/arqv30/internal/llm"
)

// newTestServer spins up the full router over httptest with a
// cookie-jar client, so view flows behave like a browser session.
func newTestServer(t *testing.T, opts ...ServerOption) (*httptest.Server, *http.Client) {
	t.Helper()

	cfg := &config.Config{}
	cfg.Report.Author = "ARQV30"

	srv := NewServer(cfg, opts...)
	ts := httptest.NewServer(srv.Router())
	t.Cleanup(ts.Close)

	jar, err := cookiejar.New(nil)
	if err != nil {
		t.Fatalf("cookie jar: %v", err)
	}
	return ts, &http.Client{Jar: jar}
}

// stubGeminiError returns a Gemini provider whose backend always
// answers with the given status and API error message.
func stubGeminiError(t *testing.T, status int, message string) llm.Provider {
	t.Helper()
	backend := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(status)
		json.NewEncoder(w).Encode(map[string]interface{}{
			"error": map[string]interface{}{"code": status, "message": message, "status": "ERROR"},
		})
	}))
	t.Cleanup(backend.Close)

	p, err := llm.NewGeminiProvider("test-key", llm.WithGeminiBaseURL(backend.URL))
	if err != nil {
		t.Fatalf("NewGeminiProvider: %v", err)
	}
	return p
}

func getBody(t *testing.T, client *http.Client, url string) string {
	t.Helper()
	resp, err := client.Get(url)
	if err != nil {
		t.Fatalf("GET %s: %v", url, err)
	}
	defer resp.Body.Close()
	body, _ := io.ReadAll(resp.Body)
	return string(body)
}

// waitForPage polls GET / until the page contains want.
func waitForPage(t *testing.T, client *http.Client, base, want string) string {
	t.Helper()
	deadline := time.Now().Add(5 * time.Second)
	var body string
	for time.Now().Before(deadline) {
		body = getBody(t, client, base+"/")
		if strings.Contains(body, want) {
			return body
		}
		time.Sleep(50 * time.Millisecond)
	}
	t.Fatalf("page never contained %q; last body:\n%s", want, body)
	return ""
}

func signup(t *testing.T, client *http.Client, base string) {
	t.Helper()
	resp, err := client.PostForm(base+"/signup", url.Values{
		"name":     {"Ana Souza"},
		"email":    {"ana@exemplo.com.br"},
		"password": {"senha-forte"},
	})
	if err != nil {
		t.Fatalf("signup: %v", err)
	}
	resp.Body.Close()
}

// ── JSON API ──

func TestHealth(t *testing.T) {
	ts, client := newTestServer(t)

	resp, err := client.Get(ts.URL + "/api/health")
	if err != nil {
		t.Fatalf("GET /api/health: %v", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("status = %d", resp.StatusCode)
	}

	var env APIResponse
	if err := json.NewDecoder(resp.Body).Decode(&env); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if !env.Success {
		t.Error("health should report success")
	}
}

func TestAnalyzeJSONRequiresSegment(t *testing.T) {
	ts, client := newTestServer(t)

	resp, err := client.Post(ts.URL+"/api/analyze", "application/json", strings.NewReader(`{}`))
	if err != nil {
		t.Fatalf("POST: %v", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusBadRequest {
		t.Fatalf("status = %d, want 400", resp.StatusCode)
	}

	var env APIResponse
	json.NewDecoder(resp.Body).Decode(&env)
	if env.Error != "Segmento é obrigatório" {
		t.Errorf("error = %q", env.Error)
	}
}

func TestAnalyzeJSONFallback(t *testing.T) {
	ts, client := newTestServer(t)

	body := `{"segmento": "fitness", "produto": "Programa Fit"}`
	resp, err := client.Post(ts.URL+"/api/analyze", "application/json", strings.NewReader(body))
	if err != nil {
		t.Fatalf("POST: %v", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("status = %d, want 200", resp.StatusCode)
	}

	var env struct {
		Success bool             `json:"success"`
		Data    *analysis.Result `json:"data"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&env); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if !env.Success || env.Data == nil {
		t.Fatal("expected a successful analysis")
	}
	if !env.Data.FromFallback {
		t.Error("engine without provider should produce the fallback analysis")
	}
	if env.Data.Scope == nil || env.Data.Scope.SegmentoPrincipal != "fitness" {
		t.Error("fallback analysis should carry the briefing segment")
	}
}

func TestAnalyzeJSONSurfacesProviderError(t *testing.T) {
	engine := analysis.NewEngine(analysis.WithProvider(stubGeminiError(t, http.StatusTooManyRequests, "quota exceeded")))
	ts, client := newTestServer(t, WithEngine(engine))

	resp, err := client.Post(ts.URL+"/api/analyze", "application/json", strings.NewReader(`{"segmento":"fitness"}`))
	if err != nil {
		t.Fatalf("POST: %v", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusInternalServerError {
		t.Fatalf("status = %d, want 500", resp.StatusCode)
	}

	var env APIResponse
	json.NewDecoder(resp.Body).Decode(&env)
	if !strings.Contains(env.Error, "quota exceeded") {
		t.Errorf("error = %q, want the backend error text", env.Error)
	}
}

func TestGeneratePDFRequiresAnalysis(t *testing.T) {
	ts, client := newTestServer(t)

	resp, err := client.Post(ts.URL+"/api/generate-pdf", "application/json", strings.NewReader(`{}`))
	if err != nil {
		t.Fatalf("POST: %v", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusBadRequest {
		t.Errorf("status = %d, want 400", resp.StatusCode)
	}
}

func TestGeneratePDFDownload(t *testing.T) {
	ts, client := newTestServer(t)

	result := analysis.FallbackResult(analysis.Briefing{Segmento: "fitness"})
	payload, _ := json.Marshal(GeneratePDFRequest{Analysis: result, UserID: "user42"})

	resp, err := client.Post(ts.URL+"/api/generate-pdf", "application/json", bytes.NewReader(payload))
	if err != nil {
		t.Fatalf("POST: %v", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("status = %d, want 200", resp.StatusCode)
	}

	cd := resp.Header.Get("Content-Disposition")
	if !strings.Contains(cd, "attachment; filename=relatorio_arqueologia_user42_") {
		t.Errorf("Content-Disposition = %q", cd)
	}
	data, _ := io.ReadAll(resp.Body)
	if len(data) == 0 {
		t.Error("empty download body")
	}
}

func TestAnalysesWithoutStore(t *testing.T) {
	ts, client := newTestServer(t)

	resp, err := client.Get(ts.URL + "/api/analyses")
	if err != nil {
		t.Fatalf("GET: %v", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		t.Errorf("list status = %d, want 200", resp.StatusCode)
	}

	resp2, err := client.Get(ts.URL + "/api/analyses/latest")
	if err != nil {
		t.Fatalf("GET latest: %v", err)
	}
	resp2.Body.Close()
	if resp2.StatusCode != http.StatusNotFound {
		t.Errorf("latest status = %d, want 404", resp2.StatusCode)
	}

	req, _ := http.NewRequest(http.MethodDelete, ts.URL+"/api/analyses/1", nil)
	resp3, err := client.Do(req)
	if err != nil {
		t.Fatalf("DELETE: %v", err)
	}
	resp3.Body.Close()
	if resp3.StatusCode != http.StatusNotFound {
		t.Errorf("delete status = %d, want 404", resp3.StatusCode)
	}
}

// ── View flow ──

func TestIndexStartsAtLogin(t *testing.T) {
	ts, client := newTestServer(t)

	body := getBody(t, client, ts.URL+"/")
	if !strings.Contains(body, "Entrar") {
		t.Error("anonymous session should land on the login page")
	}
}

func TestSignupLandsOnForm(t *testing.T) {
	ts, client := newTestServer(t)
	signup(t, client, ts.URL)

	body := getBody(t, client, ts.URL+"/")
	if !strings.Contains(body, "Novo Briefing") {
		t.Error("signed-up session should land on the briefing form")
	}
	if !strings.Contains(body, "Ana Souza") {
		t.Error("topbar should show the signed-in user")
	}
}

func TestAnalyzeFormBlankSegmentStaysOnForm(t *testing.T) {
	ts, client := newTestServer(t)
	signup(t, client, ts.URL)

	resp, err := client.PostForm(ts.URL+"/analyze", url.Values{"segmento": {""}})
	if err != nil {
		t.Fatalf("POST /analyze: %v", err)
	}
	defer resp.Body.Close()
	body, _ := io.ReadAll(resp.Body)

	if !strings.Contains(string(body), "Segmento é obrigatório") {
		t.Error("blank segment should render the inline validation message")
	}
	if !strings.Contains(string(body), "Novo Briefing") {
		t.Error("blank segment should stay on the form")
	}
}

// A briefing with only the segment completes loading and renders the
// results page with the overview infographic.
func TestAnalyzeFormMinimalBriefingReachesResults(t *testing.T) {
	ts, client := newTestServer(t)
	signup(t, client, ts.URL)

	resp, err := client.PostForm(ts.URL+"/analyze", url.Values{"segmento": {"fitness"}})
	if err != nil {
		t.Fatalf("POST /analyze: %v", err)
	}
	resp.Body.Close()

	body := waitForPage(t, client, ts.URL, "overview")
	for _, want := range []string{"fitness", "Mercado (TAM)", "ROI Realista", "Baixar PDF"} {
		if !strings.Contains(body, want) {
			t.Errorf("results page missing %q", want)
		}
	}
}

// A backend failure tears down loading and restores the form with a
// notification carrying the backend error text.
func TestAnalyzeFormBackendErrorRestoresForm(t *testing.T) {
	engine := analysis.NewEngine(analysis.WithProvider(stubGeminiError(t, http.StatusTooManyRequests, "quota exceeded")))
	ts, client := newTestServer(t, WithEngine(engine))
	signup(t, client, ts.URL)

	resp, err := client.PostForm(ts.URL+"/analyze", url.Values{"segmento": {"fitness"}})
	if err != nil {
		t.Fatalf("POST /analyze: %v", err)
	}
	resp.Body.Close()

	body := waitForPage(t, client, ts.URL, "quota exceeded")
	if !strings.Contains(body, "Novo Briefing") {
		t.Error("failed run should restore the briefing form")
	}
	if !strings.Contains(body, "notice") {
		t.Error("failed run should show a notification")
	}
}

func TestDownloadWithoutResultRedirects(t *testing.T) {
	ts, client := newTestServer(t)
	signup(t, client, ts.URL)

	// Follow redirects: with no result the download bounces to /.
	body := getBody(t, client, ts.URL+"/download")
	if !strings.Contains(body, "Novo Briefing") {
		t.Error("download without a result should land back on the form")
	}
}

// ── WebSocket hub ──

func waitFor(t *testing.T, cond func() bool) {
	t.Helper()
	deadline := time.Now().Add(2 * time.Second)
	for time.Now().Before(deadline) {
		if cond() {
			return
		}
		time.Sleep(5 * time.Millisecond)
	}
	t.Fatal("condition not reached in time")
}

// Dropping a slow client must not close its send channel while the
// read pump can still reply to pings.
func TestHubDropsSlowClientSafely(t *testing.T) {
	hub := NewWSHub()
	go hub.Run()

	client := &WSClient{hub: hub, send: make(chan WSMessage, 1), done: make(chan struct{})}
	hub.Register(client)
	waitFor(t, func() bool { return hub.ClientCount() == 1 })

	hub.Broadcast(WSMessage{Type: "progress"})
	hub.Broadcast(WSMessage{Type: "progress"}) // overflows the buffer
	waitFor(t, func() bool { return hub.ClientCount() == 0 })

	// The pong reply path takes the done branch after the drop.
	select {
	case client.send <- WSMessage{Type: "pong"}:
		t.Error("send should not proceed after disconnect")
	case <-client.done:
	}

	// A late unregister is a no-op, not a double close.
	hub.Unregister(client)
}

// ── Progress simulator ──

func TestProgressSimAdvancesAndParks(t *testing.T) {
	hub := NewWSHub()
	go hub.Run()

	p := NewProgressSim(hub)
	p.interval = 10 * time.Millisecond

	p.Start("tok")
	time.Sleep(150 * time.Millisecond)

	// The simulator parks on the last step rather than finishing.
	if got := p.Step("tok"); got != len(ProgressSteps)-1 {
		t.Errorf("step = %d, want %d", got, len(ProgressSteps)-1)
	}

	p.Finish("tok")
	if got := p.Step("tok"); got != 0 {
		t.Errorf("step after finish = %d, want 0", got)
	}
}
