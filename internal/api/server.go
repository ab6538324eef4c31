// Package api provides the HTTP API for fakecheck.
//
// Every request is scored independently; the server keeps no state
// between requests apart from the shared report cache.
package api

import (
	"context"
	"encoding/json"
	"errors"
	"log"
	"net/http"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"

	"github.com/ppiankov/fakecheck/internal/highlight"
	"github.com/ppiankov/fakecheck/internal/model"
	"github.com/ppiankov/fakecheck/internal/pipeline"
	"github.com/ppiankov/fakecheck/internal/score"
	"github.com/ppiankov/fakecheck/internal/util"
)

const (
	requestTimeout  = 60 * time.Second
	shutdownTimeout = 15 * time.Second
)

// Server is the HTTP API server
type Server struct {
	router      chi.Router
	cfg         *model.Config
	pipeline    *pipeline.Pipeline
	highlighter *highlight.Highlighter
	version     string
}

// NewServer creates a server with all routes and middleware. URL sources
// on loopback, private or link-local addresses are refused unless
// server.allow_private_urls is set.
func NewServer(cfg *model.Config, version string, opts ...pipeline.Option) *Server {
	if cfg == nil {
		cfg = model.DefaultConfig()
	}

	fetchCfg := *cfg
	fetchCfg.HTTP.BlockPrivateNetworks = cfg.HTTP.BlockPrivateNetworks || !cfg.Server.AllowPrivateURLs

	s := &Server{
		cfg:         cfg,
		pipeline:    pipeline.NewPipeline(&fetchCfg, opts...),
		highlighter: highlight.New(),
		version:     version,
	}
	s.router = s.buildRouter()
	return s
}

// Router returns the chi router for testing
func (s *Server) Router() chi.Router {
	return s.router
}

// ListenAndServe serves until ctx is cancelled, then shuts down gracefully
func (s *Server) ListenAndServe(ctx context.Context, addr string) error {
	httpSrv := &http.Server{
		Addr:         addr,
		Handler:      s.router,
		ReadTimeout:  30 * time.Second,
		WriteTimeout: requestTimeout + 10*time.Second,
		IdleTimeout:  60 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		log.Printf("fakecheck API listening on %s", addr)
		if err := httpSrv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	log.Println("Shutting down server...")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	return httpSrv.Shutdown(shutdownCtx)
}

func (s *Server) buildRouter() chi.Router {
	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)
	r.Use(middleware.Timeout(requestTimeout))

	origins := []string{"*"}
	if len(s.cfg.Server.CORSOrigins) > 0 {
		origins = s.cfg.Server.CORSOrigins
	}
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins: origins,
		AllowedMethods: []string{"GET", "POST", "OPTIONS"},
		AllowedHeaders: []string{"Accept", "Content-Type", "X-Request-ID"},
		ExposedHeaders: []string{"X-Request-ID"},
		MaxAge:         300,
	}))

	r.Get("/health", s.handleHealth)

	r.Route("/api/v1", func(r chi.Router) {
		r.Get("/health", s.handleHealth)
		r.Post("/analyze", s.handleAnalyze)
		r.Post("/score", s.handleScore)
		r.Post("/highlight", s.handleHighlight)
		r.Post("/hint", s.handleHint)
		r.Get("/keywords", s.handleKeywords)
	})

	return r
}

// ============================================================
// Request / Response types
// ============================================================

// APIResponse is the standard JSON envelope
type APIResponse struct {
	Success bool        `json:"success"`
	Data    interface{} `json:"data,omitempty"`
	Error   string      `json:"error,omitempty"`
}

// AnalyzeRequest is the body for POST /api/v1/analyze.
// Either text or url is required; text wins when both are set.
type AnalyzeRequest struct {
	Text  string `json:"text"`
	Title string `json:"title,omitempty"`
	URL   string `json:"url,omitempty"`
}

// TextRequest is the body for /score and /highlight
type TextRequest struct {
	Text string `json:"text"`
}

// HintRequest is the body for POST /api/v1/hint. A supplied analysis is
// explained as-is; otherwise text is scored first.
type HintRequest struct {
	Text     string                `json:"text,omitempty"`
	Analysis *model.AnalysisResult `json:"analysis,omitempty"`
}

// HighlightResponse carries highlighted, HTML-escaped text
type HighlightResponse struct {
	HTML string `json:"html"`
}

// HintResponse carries the hint paragraph
type HintResponse struct {
	Hint       string `json:"hint"`
	Tendency   string `json:"tendency"`
	Disclaimer string `json:"disclaimer"`
}

// KeywordsResponse lists the keyword tables used for scoring
type KeywordsResponse struct {
	Sensational     []string `json:"sensational"`
	Polarizing      []string `json:"polarizing"`
	VagueSource     []string `json:"vague_source"`
	SourceIndicator []string `json:"source_indicator"`
	Extraordinary   []string `json:"extraordinary"`
	Clickbait       []string `json:"clickbait"`
}

// ============================================================
// Handlers
// ============================================================

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, APIResponse{
		Success: true,
		Data: map[string]string{
			"status":  "ok",
			"version": s.version,
		},
	})
}

func (s *Server) handleAnalyze(w http.ResponseWriter, r *http.Request) {
	var req AnalyzeRequest
	if !s.decode(w, r, &req) {
		return
	}

	var (
		report *model.Report
		err    error
	)
	switch {
	case strings.TrimSpace(req.Text) != "":
		report, err = s.pipeline.AnalyzeText(r.Context(), req.Text, pipeline.Source{
			Subject: req.Title,
			Origin:  "api",
		})
	case req.URL != "":
		if !pipeline.IsURL(req.URL) {
			writeError(w, http.StatusBadRequest, "url must be http or https")
			return
		}
		report, err = s.pipeline.AnalyzeURL(r.Context(), req.URL)
		if errors.Is(err, util.ErrBlockedAddress) {
			writeError(w, http.StatusForbidden, "url points to a private or local address")
			return
		}
		if errors.Is(err, pipeline.ErrEmptyText) {
			writeError(w, http.StatusUnprocessableEntity, "no text found at url")
			return
		}
		if err != nil {
			writeError(w, http.StatusBadGateway, err.Error())
			return
		}
	default:
		writeError(w, http.StatusBadRequest, "text is required")
		return
	}
	if err != nil {
		s.writeAnalysisError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, APIResponse{Success: true, Data: report})
}

func (s *Server) handleScore(w http.ResponseWriter, r *http.Request) {
	var req TextRequest
	if !s.decode(w, r, &req) || !requireText(w, req.Text) {
		return
	}

	writeJSON(w, http.StatusOK, APIResponse{Success: true, Data: score.Analyze(req.Text)})
}

func (s *Server) handleHighlight(w http.ResponseWriter, r *http.Request) {
	var req TextRequest
	if !s.decode(w, r, &req) || !requireText(w, req.Text) {
		return
	}

	writeJSON(w, http.StatusOK, APIResponse{
		Success: true,
		Data:    HighlightResponse{HTML: s.highlighter.Highlight(req.Text)},
	})
}

func (s *Server) handleHint(w http.ResponseWriter, r *http.Request) {
	var req HintRequest
	if !s.decode(w, r, &req) {
		return
	}

	var analysis model.AnalysisResult
	switch {
	case req.Analysis != nil:
		analysis = *req.Analysis
	case strings.TrimSpace(req.Text) != "":
		analysis = score.Analyze(req.Text)
	default:
		writeError(w, http.StatusBadRequest, "text is required")
		return
	}

	writeJSON(w, http.StatusOK, APIResponse{
		Success: true,
		Data: HintResponse{
			Hint:       score.BuildHint(analysis),
			Tendency:   score.Tendency(analysis.FakePercent),
			Disclaimer: score.Disclaimer(),
		},
	})
}

func (s *Server) handleKeywords(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, APIResponse{
		Success: true,
		Data: KeywordsResponse{
			Sensational:     score.SensationalKeywords(),
			Polarizing:      score.PolarizingKeywords(),
			VagueSource:     score.VagueSourceKeywords(),
			SourceIndicator: score.SourceIndicatorKeywords(),
			Extraordinary:   score.ExtraordinaryKeywords(),
			Clickbait:       score.ClickbaitPhrases(),
		},
	})
}

// ============================================================
// Helpers
// ============================================================

// decode reads a size-limited JSON body into v, writing an error response
// and returning false on failure.
func (s *Server) decode(w http.ResponseWriter, r *http.Request, v interface{}) bool {
	if s.cfg.Server.MaxBodyBytes > 0 {
		r.Body = http.MaxBytesReader(w, r.Body, s.cfg.Server.MaxBodyBytes)
	}

	if err := json.NewDecoder(r.Body).Decode(v); err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			writeError(w, http.StatusRequestEntityTooLarge, "request body too large")
			return false
		}
		writeError(w, http.StatusBadRequest, "invalid request body")
		return false
	}
	return true
}

func requireText(w http.ResponseWriter, text string) bool {
	if strings.TrimSpace(text) == "" {
		writeError(w, http.StatusBadRequest, "text is required")
		return false
	}
	return true
}

func (s *Server) writeAnalysisError(w http.ResponseWriter, err error) {
	if errors.Is(err, pipeline.ErrEmptyText) {
		writeError(w, http.StatusBadRequest, "text is required")
		return
	}
	log.Printf("analysis failed: %v", err)
	writeError(w, http.StatusInternalServerError, "analysis failed")
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
