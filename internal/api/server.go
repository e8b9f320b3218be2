package api

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/MikeSquared-Agency/quill/internal/processor"
	"github.com/MikeSquared-Agency/quill/internal/prompt"
	"github.com/MikeSquared-Agency/quill/internal/store"
)

type Server struct {
	router   *chi.Mux
	port     int
	apiToken string
	proc     *processor.Processor
	engine   *prompt.Engine
	store    *store.Store
	logger   *slog.Logger
}

func NewServer(port int, apiToken string, proc *processor.Processor, eng *prompt.Engine, st *store.Store, logger *slog.Logger) *Server {
	router := chi.NewRouter()
	router.Use(middleware.Logger)
	router.Use(middleware.Recoverer)

	s := &Server{
		router:   router,
		port:     port,
		apiToken: apiToken,
		proc:     proc,
		engine:   eng,
		store:    st,
		logger:   logger,
	}

	router.Get("/health", s.health)

	router.Route("/api/v1", func(r chi.Router) {
		r.Get("/quill/status", s.status)

		r.Group(func(r chi.Router) {
			r.Use(bearerAuth(apiToken))
			r.Post("/process", s.processConfig)
			r.Post("/variables", s.extractVariables)
			r.Post("/prompts", s.generatePrompts)
			r.Get("/runs/recent", s.recentRuns)
		})
	})

	return s
}

func (s *Server) Start() error {
	addr := fmt.Sprintf(":%d", s.port)
	s.logger.Info("API server starting", "addr", addr)
	return http.ListenAndServe(addr, s.router)
}

// bearerAuth rejects requests without the configured token. An empty token
// disables the check, for local development only.
func bearerAuth(token string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if token == "" {
				next.ServeHTTP(w, r)
				return
			}
			auth := r.Header.Get("Authorization")
			if !strings.HasPrefix(auth, "Bearer ") || strings.TrimPrefix(auth, "Bearer ") != token {
				writeJSON(w, http.StatusUnauthorized, map[string]string{"error": "unauthorized"})
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

func (s *Server) health(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (s *Server) status(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{
		"agent":  "quill",
		"status": "ready",
	})
}
