package api

import (
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/agriguard/agriguard/internal/config"
	"github.com/agriguard/agriguard/internal/diagnose"
	"github.com/agriguard/agriguard/internal/locale"
	"github.com/agriguard/agriguard/internal/pipeline"
)

// Server is the HTTP API server for agriguard.
type Server struct {
	router       chi.Router
	orchestrator *pipeline.Orchestrator
	gemini       *diagnose.GeminiClient
	log          *slog.Logger
	cfg          config.Config
}

// NewServer creates and configures the HTTP server. gemini may be nil when
// no API key is configured; diagnosis requests then fail with a
// configuration error while segmentation keeps working.
func NewServer(orch *pipeline.Orchestrator, gemini *diagnose.GeminiClient, log *slog.Logger, cfg config.Config) *Server {
	s := &Server{
		orchestrator: orch,
		gemini:       gemini,
		log:          log,
		cfg:          cfg,
	}
	s.setupRoutes()
	return s
}

func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.router.ServeHTTP(w, r)
}

func (s *Server) setupRoutes() {
	r := chi.NewRouter()
	r.Use(middleware.Recoverer)
	r.Use(middleware.RequestID)
	r.Use(RequestLogger(s.log))

	// Public endpoints.
	r.Get("/health", s.handleHealth)

	r.Group(func(r chi.Router) {
		if s.cfg.APIKey != "" {
			r.Use(AuthMiddleware(s.cfg.APIKey, s.log))
		}

		r.Post("/api/diagnose", s.handleDiagnose)
		r.Get("/api/diagnose/{jobID}", s.handleDiagnoseStatus)
		r.Get("/api/diagnose/{jobID}/report", s.handleDiagnoseReport)

		r.Post("/api/segment", s.handleSegment)
		r.Post("/api/segment/file", s.handleSegmentFile)

		r.Get("/api/stats/llm", s.handleLLMStats)
	})

	s.router = r
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	w.Write([]byte(`{"status":"ok"}`))
}

// language resolves a request language code, falling back to the
// configured default.
func (s *Server) language(code string) (locale.Language, error) {
	if code == "" {
		if s.cfg.DefaultLanguage != "" {
			return s.cfg.DefaultLanguage, nil
		}
		return locale.Default, nil
	}
	return locale.Parse(code)
}

func writeJSON(w http.ResponseWriter, code int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	json.NewEncoder(w).Encode(v)
}

func jsonError(w http.ResponseWriter, msg string, code int) {
	writeJSON(w, code, map[string]string{"error": msg})
}
