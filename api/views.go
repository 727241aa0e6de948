package api

import (
	"bytes"
	"context"
	"html/template"
	"log"
	"net/http"
	"time"

	"github.com/arqvlabs/arqv30/internal/analysis"
	"github.com/arqvlabs/arqv30/internal/report"
	"github.com/arqvlabs/arqv30/internal/session"
)

const sessionCookie = "arqv30_session"

// pageData is the model for every server-rendered page.
type pageData struct {
	Title     string
	User      *session.User
	Notice    string
	FormError string
	Briefing  analysis.Briefing

	// loading page
	Steps       []string
	CurrentStep int
	Percent     int

	// results page
	Report template.HTML
}

// currentSession resolves (or creates) the browser session from the
// cookie.
func (s *Server) currentSession(w http.ResponseWriter, r *http.Request) *session.Session {
	if c, err := r.Cookie(sessionCookie); err == nil {
		if sess, err := s.sessions.Get(c.Value); err == nil {
			return sess
		}
	}

	sess := s.sessions.Start(nil)
	http.SetCookie(w, &http.Cookie{
		Name:     sessionCookie,
		Value:    sess.Token,
		Path:     "/",
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	})
	return sess
}

// handleIndex dispatches on the session's view state.
func (s *Server) handleIndex(w http.ResponseWriter, r *http.Request) {
	sess := s.currentSession(w, r)

	switch sess.View {
	case session.ViewSignup:
		s.renderPage(w, signupTemplate, pageData{Title: "Criar conta", Notice: s.sessions.TakeNotice(sess.Token)})
	case session.ViewForm:
		s.renderForm(w, sess, analysis.Briefing{}, "")
	case session.ViewLoading:
		s.renderLoading(w, sess)
	case session.ViewResults:
		s.renderResults(w, sess)
	default:
		s.renderPage(w, loginTemplate, pageData{Title: "Entrar", Notice: s.sessions.TakeNotice(sess.Token)})
	}
}

func (s *Server) handleSignupPage(w http.ResponseWriter, r *http.Request) {
	sess := s.currentSession(w, r)
	s.sessions.SetView(sess.Token, session.ViewSignup)
	http.Redirect(w, r, "/", http.StatusSeeOther)
}

// handleNewAnalysis returns a signed-in session to the briefing form.
func (s *Server) handleNewAnalysis(w http.ResponseWriter, r *http.Request) {
	sess := s.currentSession(w, r)
	if sess.View == session.ViewResults {
		s.sessions.SetView(sess.Token, session.ViewForm)
	}
	http.Redirect(w, r, "/", http.StatusSeeOther)
}

func (s *Server) handleLogin(w http.ResponseWriter, r *http.Request) {
	sess := s.currentSession(w, r)

	u, err := s.sessions.Login(r.FormValue("email"), r.FormValue("password"))
	if err != nil {
		s.sessions.SetNotice(sess.Token, err.Error())
		http.Redirect(w, r, "/", http.StatusSeeOther)
		return
	}

	s.sessions.SetUser(sess.Token, u)
	s.sessions.SetView(sess.Token, session.ViewForm)
	http.Redirect(w, r, "/", http.StatusSeeOther)
}

func (s *Server) handleSignup(w http.ResponseWriter, r *http.Request) {
	sess := s.currentSession(w, r)

	u, err := s.sessions.Signup(r.FormValue("name"), r.FormValue("email"), r.FormValue("password"))
	if err != nil {
		s.sessions.SetNotice(sess.Token, err.Error())
		s.sessions.SetView(sess.Token, session.ViewSignup)
		http.Redirect(w, r, "/", http.StatusSeeOther)
		return
	}

	s.sessions.SetUser(sess.Token, u)
	s.sessions.SetView(sess.Token, session.ViewForm)
	http.Redirect(w, r, "/", http.StatusSeeOther)
}

func (s *Server) handleLogout(w http.ResponseWriter, r *http.Request) {
	sess := s.currentSession(w, r)
	s.sessions.SignOut(sess.Token)
	http.Redirect(w, r, "/", http.StatusSeeOther)
}

// handleAnalyzeForm starts an analysis run from the briefing form. A
// blank segment never reaches the engine: the form re-renders with an
// inline validation message.
func (s *Server) handleAnalyzeForm(w http.ResponseWriter, r *http.Request) {
	sess := s.currentSession(w, r)

	briefing := analysis.Briefing{
		Segmento:           r.FormValue("segmento"),
		Produto:            r.FormValue("produto"),
		Descricao:          r.FormValue("descricao"),
		Preco:              r.FormValue("preco"),
		Publico:            r.FormValue("publico"),
		ObjetivoReceita:    r.FormValue("objetivo_receita"),
		OrcamentoMarketing: r.FormValue("orcamento_marketing"),
		PrazoLancamento:    r.FormValue("prazo_lancamento"),
		Concorrentes:       r.FormValue("concorrentes"),
		DadosAdicionais:    r.FormValue("dados_adicionais"),
	}
	if sess.User != nil {
		briefing.UserID = sess.User.ID
		briefing.Email = sess.User.Email
	}

	if err := briefing.Validate(); err != nil {
		s.renderForm(w, sess, briefing, err.Error())
		return
	}

	s.sessions.SetView(sess.Token, session.ViewLoading)
	s.progress.Start(sess.Token)
	go s.runAnalysis(sess.Token, briefing)

	http.Redirect(w, r, "/", http.StatusSeeOther)
}

// runAnalysis executes the engine in the background. Its completion is
// what flips the session to results; the progress simulation is
// cosmetic and independent.
func (s *Server) runAnalysis(token string, briefing analysis.Briefing) {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Minute)
	defer cancel()

	result, err := s.engine.Analyze(ctx, briefing)
	if err != nil {
		log.Printf("analysis run failed: %v", err)
		s.progress.Fail(token, err.Error())
		s.sessions.FailRun(token, err.Error())
		return
	}

	s.saveResult(ctx, briefing, result)
	s.progress.Finish(token)
	s.sessions.SetResult(token, result)
}

// handleDownload serves the current session result as a PDF download.
func (s *Server) handleDownload(w http.ResponseWriter, r *http.Request) {
	sess := s.currentSession(w, r)
	if sess.Result == nil {
		http.Redirect(w, r, "/", http.StatusSeeOther)
		return
	}

	userID := ""
	if sess.User != nil {
		userID = sess.User.ID
	}
	s.servePDF(w, sess.Result, userID)
}

// ============================================================
// Renderers
// ============================================================

func (s *Server) renderForm(w http.ResponseWriter, sess *session.Session, briefing analysis.Briefing, formError string) {
	s.renderPage(w, formTemplate, pageData{
		Title:     "Novo Briefing",
		User:      sess.User,
		Notice:    s.sessions.TakeNotice(sess.Token),
		FormError: formError,
		Briefing:  briefing,
	})
}

func (s *Server) renderLoading(w http.ResponseWriter, sess *session.Session) {
	step := s.progress.Step(sess.Token)
	percent := (step + 1) * 100 / len(ProgressSteps)
	s.renderPage(w, loadingTemplate, pageData{
		Title:       "Analisando",
		User:        sess.User,
		Steps:       ProgressSteps,
		CurrentStep: step,
		Percent:     percent,
	})
}

func (s *Server) renderResults(w http.ResponseWriter, sess *session.Session) {
	cfg := report.DefaultReportConfig()
	cfg.Author = s.cfg.Report.Author

	html, err := report.Generate(sess.Result, cfg)
	if err != nil {
		// Should be unreachable: every facet is optional with fallbacks.
		log.Printf("report render failed: %v", err)
		s.sessions.FailRun(sess.Token, err.Error())
		s.renderForm(w, sess, analysis.Briefing{}, "")
		return
	}

	s.renderPage(w, resultsTemplate, pageData{
		Title:  "Resultados",
		User:   sess.User,
		Report: template.HTML(html),
	})
}

func (s *Server) renderPage(w http.ResponseWriter, tmpl *template.Template, data pageData) {
	var buf bytes.Buffer
	if err := tmpl.Execute(&buf, data); err != nil {
		log.Printf("failed to render page: %v", err)
		http.Error(w, "internal error", http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.Header().Set("Cache-Control", "no-cache, no-store, must-revalidate")
	if _, err := w.Write(buf.Bytes()); err != nil {
		log.Printf("failed to write page: %v", err)
	}
}
