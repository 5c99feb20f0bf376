// Package server exposes the intake HTTP surface: session lifecycle,
// selection webhook, health probes and Prometheus metrics on one mux.
package server

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus/promhttp"

	"place-intake/internal/common/errors"
	"place-intake/internal/common/logger"
	"place-intake/internal/common/metrics"
	"place-intake/internal/common/validation"
	"place-intake/internal/models"
	"place-intake/internal/sessions"
)

// maxBodyBytes caps selection event bodies. Place records are small;
// anything bigger is garbage.
const maxBodyBytes = 1 << 20

type Server struct {
	registry *sessions.Registry
	errs     *errors.ErrorHandler
	logger   logger.Logger
	httpSrv  *http.Server
}

func New(address string, registry *sessions.Registry, log logger.Logger) *Server {
	s := &Server{
		registry: registry,
		errs:     errors.NewErrorHandler(log),
		logger:   log.WithFields(map[string]interface{}{"component": "server"}),
	}

	mux := http.NewServeMux()
	mux.HandleFunc("POST /v1/sessions", s.handleCreateSession)
	mux.HandleFunc("POST /v1/sessions/{id}/selection", s.handleSelection)
	mux.HandleFunc("DELETE /v1/sessions/{id}", s.handleTeardown)
	mux.HandleFunc("GET /health", s.handleHealth)
	mux.HandleFunc("GET /ready", s.handleHealth)
	mux.Handle("GET /metrics", promhttp.Handler())

	s.httpSrv = &http.Server{
		Addr:              address,
		Handler:           mux,
		ReadHeaderTimeout: 5 * time.Second,
	}
	return s
}

// Handler returns the configured mux, for tests.
func (s *Server) Handler() http.Handler {
	return s.httpSrv.Handler
}

// ListenAndServe blocks serving the intake surface.
func (s *Server) ListenAndServe() error {
	s.logger.Info("intake server listening", map[string]interface{}{
		"address": s.httpSrv.Addr,
	})
	return s.httpSrv.ListenAndServe()
}

func (s *Server) Shutdown(ctx context.Context) error {
	return s.httpSrv.Shutdown(ctx)
}

func (s *Server) handleCreateSession(w http.ResponseWriter, r *http.Request) {
	id, err := s.registry.Install("")
	if err != nil {
		s.errs.WriteHTTP(w, err)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusCreated)
	_ = json.NewEncoder(w).Encode(map[string]string{
		"session_id": id,
	})
}

// handleSelection accepts one "place selected" notification. The response
// is 202 whether or not the handler ends up submitting: duplicates and
// skips look the same as submissions to the caller.
func (s *Server) handleSelection(w http.ResponseWriter, r *http.Request) {
	sessionID := r.PathValue("id")

	body, err := io.ReadAll(http.MaxBytesReader(w, r.Body, maxBodyBytes))
	if err != nil {
		s.errs.WriteHTTP(w, errors.NewPlaceInvalidError("unreadable request body"))
		return
	}

	if result := validation.ValidatePlaceEvent(body); !result.Valid {
		s.errs.WriteHTTP(w, errors.NewPlaceInvalidError(result.Summary()))
		return
	}

	var place models.Place
	if err := json.Unmarshal(body, &place); err != nil {
		s.errs.WriteHTTP(w, errors.NewPlaceInvalidError(err.Error()))
		return
	}

	metrics.SelectionsReceived.WithLabelValues("webhook").Inc()

	if err := s.registry.Dispatch(sessionID, &place); err != nil {
		s.errs.WriteHTTP(w, err)
		return
	}

	w.WriteHeader(http.StatusAccepted)
}

func (s *Server) handleTeardown(w http.ResponseWriter, r *http.Request) {
	sessionID := r.PathValue("id")

	if err := s.registry.Teardown(r.Context(), sessionID); err != nil {
		s.errs.WriteHTTP(w, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	_ = json.NewEncoder(w).Encode(map[string]string{
		"status": "healthy",
		"time":   time.Now().Format(time.RFC3339),
	})
}
