package daemon

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/cors"

	"github.com/kirikab-27/courselab/internal/attempt"
	"github.com/kirikab-27/courselab/internal/config"
	"github.com/kirikab-27/courselab/internal/course"
	"github.com/kirikab-27/courselab/internal/domain"
	"github.com/kirikab-27/courselab/internal/progress"
)

// Server is the courselab daemon HTTP server. It exposes the course catalog,
// attempt lifecycle and progress tracking to browser front ends.
type Server struct {
	cfg    *config.LocalConfig
	server *http.Server
	router chi.Router

	catalog  *course.Catalog
	attempts attempt.AttemptService
	progress progress.ProgressService
	history  attempt.History
	version  string
}

// ServerConfig holds the dependencies for creating a server
type ServerConfig struct {
	Config   *config.LocalConfig
	Catalog  *course.Catalog
	Attempts attempt.AttemptService
	Progress progress.ProgressService
	History  attempt.History // optional, enables the attempt history endpoint
	Version  string
}

// NewServer wires routes and middleware around the provided services
func NewServer(cfg ServerConfig) *Server {
	s := &Server{
		cfg:      cfg.Config,
		catalog:  cfg.Catalog,
		attempts: cfg.Attempts,
		progress: cfg.Progress,
		history:  cfg.History,
		version:  cfg.Version,
	}
	if s.version == "" {
		s.version = "dev"
	}

	s.router = s.buildRouter()

	s.server = &http.Server{
		Addr:         cfg.Config.Daemon.Addr(),
		Handler:      s.router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 60 * time.Second,
		IdleTimeout:  120 * time.Second,
	}

	return s
}

// buildRouter configures the middleware chain and all HTTP routes
func (s *Server) buildRouter() chi.Router {
	r := chi.NewRouter()

	r.Use(correlationIDMiddleware)
	r.Use(recoveryMiddleware)
	r.Use(loggingMiddleware)
	r.Use(cors.Handler(cors.Options{
		// The daemon serves browser front ends running on developer machines
		AllowedOrigins: []string{"http://localhost:*", "http://127.0.0.1:*"},
		AllowedMethods: []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders: []string{"Authorization", "Content-Type", CorrelationIDHeader},
		ExposedHeaders: []string{"Content-Length", CorrelationIDHeader},
		MaxAge:         300,
	}))

	r.Route("/v1", func(r chi.Router) {
		r.Get("/health", s.handleHealth)
		r.Get("/status", s.handleStatus)

		r.Route("/courses", func(r chi.Router) {
			r.Get("/", s.handleListCourses)
			r.Route("/{courseID}", func(r chi.Router) {
				r.Get("/", s.handleGetCourse)
				r.Get("/lessons/{lessonID}", s.handleGetLesson)
				r.Get("/progress", s.handleCourseProgress)
				r.Post("/progress/time", s.handleAddTime)
				r.Delete("/progress", s.handleResetProgress)
				r.Get("/exercises/{exerciseID}/history", s.handleExerciseHistory)
			})
		})

		r.Get("/progress", s.handleProgressOverview)

		r.Route("/attempts", func(r chi.Router) {
			r.Post("/", s.handleOpenAttempt)
			r.Route("/{attemptID}", func(r chi.Router) {
				r.Get("/", s.handleGetAttempt)
				r.Delete("/", s.handleCloseAttempt)
				r.Post("/evaluate", s.handleEvaluate)
				r.Post("/hints", s.handleRevealHint)
				r.Post("/solution", s.handleRevealSolution)
				r.Post("/reset", s.handleResetAttempt)
			})
		})
	})

	return r
}

// Start starts the HTTP server
func (s *Server) Start() error {
	slog.Info("starting courselab daemon",
		"addr", s.server.Addr,
		"courses", s.catalog.Stats().CourseCount,
		"simulator", s.cfg.Simulator.Backend,
	)
	return s.server.ListenAndServe()
}

// Shutdown gracefully shuts down the server
func (s *Server) Shutdown(ctx context.Context) error {
	slog.Info("shutting down daemon...")
	return s.server.Shutdown(ctx)
}

// Health & status handlers

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	s.jsonResponse(w, http.StatusOK, map[string]interface{}{
		"status":    "healthy",
		"timestamp": time.Now().UTC().Format(time.RFC3339),
	})
}

func (s *Server) handleStatus(w http.ResponseWriter, r *http.Request) {
	stats := s.catalog.Stats()
	s.jsonResponse(w, http.StatusOK, map[string]interface{}{
		"status":    "running",
		"version":   s.version,
		"simulator": s.cfg.Simulator.Backend,
		"storage":   s.cfg.Storage.Backend,
		"catalog": map[string]interface{}{
			"courses":   stats.CourseCount,
			"lessons":   stats.LessonCount,
			"exercises": stats.ExerciseCount,
		},
	})
}

// Helper methods

func (s *Server) jsonResponse(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(data); err != nil {
		slog.Error("failed to encode response", "error", err)
	}
}

func (s *Server) jsonError(w http.ResponseWriter, status int, message string, err error) {
	response := map[string]interface{}{
		"error":  message,
		"status": status,
	}
	if err != nil {
		response["details"] = err.Error()
	}
	s.jsonResponse(w, status, response)
}

// serviceError writes an error response with the status derived from the
// error's domain sentinel
func (s *Server) serviceError(w http.ResponseWriter, message string, err error) {
	s.jsonError(w, errorStatus(err), message, err)
}

// errorStatus maps domain sentinels to HTTP status codes
func errorStatus(err error) int {
	switch {
	case errors.Is(err, domain.ErrCourseNotFound),
		errors.Is(err, domain.ErrLessonNotFound),
		errors.Is(err, domain.ErrExerciseNotFound),
		errors.Is(err, domain.ErrAttemptNotFound),
		errors.Is(err, domain.ErrProgressNotFound):
		return http.StatusNotFound
	case errors.Is(err, domain.ErrHintIndex),
		errors.Is(err, domain.ErrNoSolution),
		errors.Is(err, domain.ErrInvalidInput):
		return http.StatusBadRequest
	case errors.Is(err, domain.ErrAttemptSuperseded):
		return http.StatusConflict
	default:
		return http.StatusInternalServerError
	}
}
