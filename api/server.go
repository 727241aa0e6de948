// Package api provides the HTTP server for ARQV30.
//
// It serves the session-driven web flow (login, briefing form, loading,
// results), a JSON API for analysis and PDF export, the saved-analyses
// history, and a WebSocket channel streaming progress updates.
package api

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"strconv"
	"sync"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"

	"github.com/arqvlabs/arqv30/internal/analysis"
	"github.com/arqvlabs/arqv30/internal/config"
	"github.com/arqvlabs/arqv30/internal/report"
	"github.com/arqvlabs/arqv30/internal/session"
	"github.com/arqvlabs/arqv30/internal/storage"
	"github.com/arqvlabs/arqv30/web"
)

// Version is stamped by the build; the health endpoint reports it.
var Version = "dev"

// Server is the HTTP server.
type Server struct {
	router   chi.Router
	cfg      *config.Config
	engine   *analysis.Engine
	store    *storage.Store
	sessions *session.Manager
	wsHub    *WSHub
	progress *ProgressSim
}

// ServerOption overrides a dependency, used by tests and the CLI.
type ServerOption func(*Server)

// WithEngine sets the analysis engine.
func WithEngine(e *analysis.Engine) ServerOption {
	return func(s *Server) { s.engine = e }
}

// WithStore sets the history store. A nil store disables history.
func WithStore(st *storage.Store) ServerOption {
	return func(s *Server) { s.store = st }
}

// NewServer creates a configured server with all routes and middleware.
func NewServer(cfg *config.Config, opts ...ServerOption) *Server {
	srv := &Server{
		cfg:   cfg,
		wsHub: NewWSHub(),
	}
	srv.progress = NewProgressSim(srv.wsHub)

	for _, opt := range opts {
		opt(srv)
	}
	if srv.engine == nil {
		srv.engine = analysis.NewEngine()
	}
	if srv.store != nil {
		srv.sessions = session.NewManager(session.WithUserStore(srv.store))
	} else {
		srv.sessions = session.NewManager()
	}

	srv.router = srv.buildRouter()
	return srv
}

// Router returns the chi router for testing.
func (s *Server) Router() chi.Router {
	return s.router
}

// ListenAndServe starts the HTTP server with graceful shutdown.
func (s *Server) ListenAndServe(addr string) error {
	httpSrv := &http.Server{
		Addr:         addr,
		Handler:      s.router,
		ReadTimeout:  30 * time.Second,
		WriteTimeout: 120 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go s.wsHub.Run()

	done := make(chan os.Signal, 1)
	signal.Notify(done, os.Interrupt, syscall.SIGINT, syscall.SIGTERM)

	go func() {
		if err := httpSrv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("HTTP server error: %v", err)
		}
	}()

	<-done
	log.Println("Shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()

	return httpSrv.Shutdown(ctx)
}

// buildRouter configures all routes and middleware.
func (s *Server) buildRouter() chi.Router {
	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)
	r.Use(middleware.Timeout(120 * time.Second))

	origins := []string{"*"}
	if len(s.cfg.API.CORSOrigins) > 0 {
		origins = s.cfg.API.CORSOrigins
	}
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   origins,
		AllowedMethods:   []string{"GET", "POST", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type", "X-Request-ID"},
		ExposedHeaders:   []string{"X-Request-ID", "Content-Disposition"},
		AllowCredentials: true,
		MaxAge:           300,
	}))

	// Server-rendered views
	r.Get("/", s.handleIndex)
	r.Post("/login", s.handleLogin)
	r.Post("/signup", s.handleSignup)
	r.Post("/logout", s.handleLogout)
	r.Post("/analyze", s.handleAnalyzeForm)
	r.Get("/signup", s.handleSignupPage)
	r.Get("/novo", s.handleNewAnalysis)
	r.Get("/download", s.handleDownload)

	// JSON API
	r.Route("/api", func(r chi.Router) {
		r.Get("/health", s.handleHealth)
		r.Post("/analyze", s.handleAnalyzeJSON)
		r.Post("/generate-pdf", s.handleGeneratePDF)

		r.Get("/analyses", s.handleListAnalyses)
		r.Get("/analyses/latest", s.handleLatestAnalysis)
		r.Get("/analyses/{id}", s.handleGetAnalysis)
		r.Delete("/analyses/{id}", s.handleDeleteAnalysis)
	})

	// WebSocket progress stream
	r.Get("/ws/progress", s.handleWebSocket)

	// Static assets
	r.Handle("/static/*", http.StripPrefix("/static/", http.FileServer(http.FS(web.StaticFS()))))

	return r
}

// ============================================================
// Request / Response types
// ============================================================

// APIResponse is the standard JSON envelope.
type APIResponse struct {
	Success bool        `json:"success"`
	Data    interface{} `json:"data,omitempty"`
	Error   string      `json:"error,omitempty"`
}

// GeneratePDFRequest is the body for POST /api/generate-pdf.
type GeneratePDFRequest struct {
	Analysis *analysis.Result `json:"analysis"`
	UserID   string           `json:"user_id,omitempty"`
}

// ============================================================
// JSON Handlers
// ============================================================

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, APIResponse{
		Success: true,
		Data: map[string]interface{}{
			"status":        "ok",
			"version":       Version,
			"pdf_supported": report.IsPDFSupported(),
			"history":       s.store != nil,
		},
	})
}

func (s *Server) handleAnalyzeJSON(w http.ResponseWriter, r *http.Request) {
	var briefing analysis.Briefing
	if err := json.NewDecoder(r.Body).Decode(&briefing); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	if err := briefing.Validate(); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Minute)
	defer cancel()

	result, err := s.engine.Analyze(ctx, briefing)
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}

	s.saveResult(ctx, briefing, result)

	s.wsHub.Broadcast(WSMessage{
		Type: "analysis_complete",
		Data: map[string]interface{}{"segmento": briefing.Segmento},
	})

	writeJSON(w, http.StatusOK, APIResponse{Success: true, Data: result})
}

func (s *Server) handleGeneratePDF(w http.ResponseWriter, r *http.Request) {
	var req GeneratePDFRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if req.Analysis == nil {
		writeError(w, http.StatusBadRequest, "analysis is required")
		return
	}

	s.servePDF(w, req.Analysis, req.UserID)
}

// servePDF renders an analysis and writes it as a download. Without a
// PDF engine the HTML itself is served, still as an attachment.
func (s *Server) servePDF(w http.ResponseWriter, result *analysis.Result, userID string) {
	cfg := report.DefaultReportConfig()
	cfg.Author = s.cfg.Report.Author

	html, err := report.Generate(result, cfg)
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}

	data, isPDF, err := report.GeneratePDFBytes(html)
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}

	filename := report.ReportFilename(userID)
	contentType := "application/pdf"
	if !isPDF {
		filename = filename[:len(filename)-4] + ".html"
		contentType = "text/html; charset=utf-8"
	}

	w.Header().Set("Content-Type", contentType)
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%s", filename))
	w.WriteHeader(http.StatusOK)
	if _, err := w.Write(data); err != nil {
		log.Printf("failed to write report download: %v", err)
	}
}

func (s *Server) handleListAnalyses(w http.ResponseWriter, r *http.Request) {
	limit := 0
	if v := r.URL.Query().Get("limit"); v != "" {
		limit, _ = strconv.Atoi(v)
	}

	list, err := s.store.List(r.Context(), limit)
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	if list == nil {
		list = []storage.Summary{}
	}
	writeJSON(w, http.StatusOK, APIResponse{Success: true, Data: list})
}

func (s *Server) handleGetAnalysis(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid analysis id")
		return
	}

	rec, err := s.store.Get(r.Context(), id)
	if errors.Is(err, storage.ErrNotFound) {
		writeError(w, http.StatusNotFound, "analysis not found")
		return
	}
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	writeJSON(w, http.StatusOK, APIResponse{Success: true, Data: rec})
}

func (s *Server) handleLatestAnalysis(w http.ResponseWriter, r *http.Request) {
	rec, err := s.store.Latest(r.Context(), r.URL.Query().Get("user_id"))
	if errors.Is(err, storage.ErrNotFound) {
		writeError(w, http.StatusNotFound, "analysis not found")
		return
	}
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	writeJSON(w, http.StatusOK, APIResponse{Success: true, Data: rec})
}

func (s *Server) handleDeleteAnalysis(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid analysis id")
		return
	}

	err = s.store.Delete(r.Context(), id)
	if errors.Is(err, storage.ErrNotFound) {
		writeError(w, http.StatusNotFound, "analysis not found")
		return
	}
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	writeJSON(w, http.StatusOK, APIResponse{Success: true})
}

// saveResult persists a completed analysis. History failures are
// logged, never surfaced.
func (s *Server) saveResult(ctx context.Context, b analysis.Briefing, r *analysis.Result) {
	if s.store == nil {
		return
	}
	rec := &storage.Record{
		UserID:   b.UserID,
		Segmento: b.Segmento,
		Produto:  b.Produto,
		Result:   r,
	}
	if err := s.store.Save(ctx, rec); err != nil {
		log.Printf("failed to save analysis: %v", err)
	}
}

func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		log.Printf("failed to write JSON response: %v", err)
	}
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, APIResponse{
		Success: false,
		Error:   msg,
	})
}

// ============================================================
// WebSocket Hub
// ============================================================

// WSMessage is a message sent over WebSocket connections.
type WSMessage struct {
	Type string      `json:"type"`
	Data interface{} `json:"data,omitempty"`
}

// WSHub manages WebSocket connections and message broadcasting.
type WSHub struct {
	mu         sync.RWMutex
	clients    map[*WSClient]bool
	broadcast  chan WSMessage
	register   chan *WSClient
	unregister chan *WSClient
}

// WSClient represents a single WebSocket connection. The hub signals
// disconnection by closing done; the send channel itself is never
// closed, so the read pump's pong reply cannot hit a closed channel.
type WSClient struct {
	hub  *WSHub
	send chan WSMessage
	done chan struct{}
}

// NewWSHub creates a new WebSocket hub.
func NewWSHub() *WSHub {
	return &WSHub{
		clients:    make(map[*WSClient]bool),
		broadcast:  make(chan WSMessage, 256),
		register:   make(chan *WSClient),
		unregister: make(chan *WSClient),
	}
}

// Run starts the hub event loop.
func (h *WSHub) Run() {
	for {
		select {
		case client := <-h.register:
			h.mu.Lock()
			h.clients[client] = true
			h.mu.Unlock()
		case client := <-h.unregister:
			h.mu.Lock()
			if _, ok := h.clients[client]; ok {
				delete(h.clients, client)
				close(client.done)
			}
			h.mu.Unlock()
		case msg := <-h.broadcast:
			h.mu.Lock()
			for client := range h.clients {
				select {
				case client.send <- msg:
				default:
					// Slow client; disconnect
					delete(h.clients, client)
					close(client.done)
				}
			}
			h.mu.Unlock()
		}
	}
}

// Broadcast sends a message to all connected WebSocket clients.
func (h *WSHub) Broadcast(msg WSMessage) {
	select {
	case h.broadcast <- msg:
	default:
		// Drop message if broadcast channel is full
	}
}

// ClientCount returns the number of connected WebSocket clients.
func (h *WSHub) ClientCount() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.clients)
}

// Register adds a client to the hub.
func (h *WSHub) Register(client *WSClient) {
	h.register <- client
}

// Unregister removes a client from the hub.
func (h *WSHub) Unregister(client *WSClient) {
	h.unregister <- client
}
