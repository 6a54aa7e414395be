// Package server exposes the dashboard controller as a JSON API.
//
// Routes:
//
//	GET  /api/fichas?q=          → visible state
//	POST /api/reload             → fetch the day's fichas
//	POST /api/selection/{index}  → toggle one row
//	POST /api/selection/all?q=   → toggle every visible row
//	DELETE /api/selection        → clear the selection
//	POST /api/submit             → send the selection
//	GET  /api/submissions        → recent journal entries
//	GET  /healthz
//	GET  /metrics
package server

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/ukaji3/fichas-go/pkg/fichas"
	"github.com/ukaji3/fichas-go/pkg/fichas/dashboard"
	"github.com/ukaji3/fichas-go/pkg/fichas/journal"
	"github.com/ukaji3/fichas-go/pkg/fichas/metrics"
	"go.uber.org/zap"
)

const defaultHistoryLimit = 20

// History lists past submissions.
type History interface {
	Recent(ctx context.Context, limit int) ([]journal.Entry, error)
}

// Config controls server startup.
type Config struct {
	Addr            string
	ShutdownTimeout time.Duration
}

// Server routes HTTP requests to a dashboard controller.
type Server struct {
	cfg     Config
	mux     *http.ServeMux
	ctrl    *dashboard.Controller
	history History
	metrics *metrics.Metrics
	logger  *zap.Logger
}

// New builds a Server. history and m may be nil.
func New(cfg Config, ctrl *dashboard.Controller, history History, m *metrics.Metrics, logger *zap.Logger) *Server {
	if logger == nil {
		logger = zap.NewNop()
	}
	if cfg.ShutdownTimeout <= 0 {
		cfg.ShutdownTimeout = 10 * time.Second
	}
	s := &Server{
		cfg:     cfg,
		mux:     http.NewServeMux(),
		ctrl:    ctrl,
		history: history,
		metrics: m,
		logger:  logger,
	}
	s.routes()
	return s
}

// Handler returns the root handler.
func (s *Server) Handler() http.Handler {
	return s.mux
}

// ListenAndServe serves until ctx is cancelled, then shuts down gracefully.
func (s *Server) ListenAndServe(ctx context.Context) error {
	srv := &http.Server{
		Addr:              s.cfg.Addr,
		Handler:           s.mux,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		s.logger.Info("Listening", zap.String("addr", s.cfg.Addr))
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), s.cfg.ShutdownTimeout)
	defer cancel()
	s.logger.Info("Shutting down")
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return err
	}
	if err := <-errCh; !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

func (s *Server) routes() {
	s.mux.HandleFunc("GET /api/fichas", s.handleState)
	s.mux.HandleFunc("POST /api/reload", s.handleReload)
	s.mux.HandleFunc("POST /api/selection/all", s.handleToggleAll)
	s.mux.HandleFunc("POST /api/selection/{index}", s.handleToggle)
	s.mux.HandleFunc("DELETE /api/selection", s.handleClearSelection)
	s.mux.HandleFunc("POST /api/submit", s.handleSubmit)
	s.mux.HandleFunc("GET /api/submissions", s.handleSubmissions)
	s.mux.HandleFunc("GET /healthz", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
	})
	if s.metrics != nil {
		s.mux.Handle("GET /metrics", s.metrics.Handler())
	}
}

func (s *Server) handleState(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, s.ctrl.Snapshot(r.URL.Query().Get("q")))
}

func (s *Server) handleReload(w http.ResponseWriter, r *http.Request) {
	err := s.ctrl.Reload(r.Context())
	q := r.URL.Query().Get("q")
	switch {
	case errors.Is(err, fichas.ErrBusy):
		writeError(w, http.StatusConflict, err)
	case err != nil:
		writeJSON(w, http.StatusBadGateway, s.ctrl.Snapshot(q))
	default:
		writeJSON(w, http.StatusOK, s.ctrl.Snapshot(q))
	}
}

func (s *Server) handleToggle(w http.ResponseWriter, r *http.Request) {
	idx, err := strconv.Atoi(r.PathValue("index"))
	if err != nil {
		writeError(w, http.StatusBadRequest, errors.New("index must be an integer"))
		return
	}
	s.ctrl.Toggle(idx)
	writeJSON(w, http.StatusOK, s.ctrl.Snapshot(r.URL.Query().Get("q")))
}

func (s *Server) handleToggleAll(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query().Get("q")
	s.ctrl.ToggleAll(q)
	writeJSON(w, http.StatusOK, s.ctrl.Snapshot(q))
}

func (s *Server) handleClearSelection(w http.ResponseWriter, r *http.Request) {
	s.ctrl.ClearSelection()
	writeJSON(w, http.StatusOK, s.ctrl.Snapshot(r.URL.Query().Get("q")))
}

func (s *Server) handleSubmit(w http.ResponseWriter, r *http.Request) {
	_, err := s.ctrl.Submit(r.Context())
	q := r.URL.Query().Get("q")
	switch {
	case errors.Is(err, fichas.ErrBusy):
		writeError(w, http.StatusConflict, err)
	case err != nil:
		writeJSON(w, http.StatusBadGateway, s.ctrl.Snapshot(q))
	default:
		writeJSON(w, http.StatusOK, s.ctrl.Snapshot(q))
	}
}

func (s *Server) handleSubmissions(w http.ResponseWriter, r *http.Request) {
	if s.history == nil {
		writeJSON(w, http.StatusOK, []journal.Entry{})
		return
	}
	limit := defaultHistoryLimit
	if v := r.URL.Query().Get("limit"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n <= 0 {
			writeError(w, http.StatusBadRequest, errors.New("limit must be a positive integer"))
			return
		}
		limit = n
	}
	entries, err := s.history.Recent(r.Context(), limit)
	if err != nil {
		s.logger.Error("Failed to read journal", zap.Error(err))
		writeError(w, http.StatusInternalServerError, errors.New("journal unavailable"))
		return
	}
	writeJSON(w, http.StatusOK, entries)
}

func writeJSON(w http.ResponseWriter, code int, v interface{}) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(code)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, code int, err error) {
	writeJSON(w, code, map[string]string{"error": err.Error()})
}
