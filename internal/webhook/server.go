package webhook

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/geekgonecrazy/rfd-tool-rc-app/internal/reconcile"
	"github.com/geekgonecrazy/rfd-tool-rc-app/internal/rfd"
	"github.com/geekgonecrazy/rfd-tool-rc-app/internal/signature"
	"github.com/geekgonecrazy/rfd-tool-rc-app/internal/store"
)

// Server represents the webhook HTTP server.
type Server struct {
	config      Config
	reconciler  EventReconciler
	discussions *store.DiscussionStore
	deliveries  *store.DeliveryLog
	logger      *slog.Logger
	server      *http.Server
	started     time.Time
}

// New creates a new webhook server instance. deliveries may be nil to skip
// audit logging.
func New(config Config, rec EventReconciler, discussions *store.DiscussionStore, deliveries *store.DeliveryLog, logger *slog.Logger) *Server {
	if config.MaxBodySize == 0 {
		config.MaxBodySize = DefaultMaxBodySize
	}
	if config.Path == "" {
		config.Path = "/webhook/rfd"
	}
	return &Server{
		config:      config,
		reconciler:  rec,
		discussions: discussions,
		deliveries:  deliveries,
		logger:      logger,
	}
}

// Start starts the webhook HTTP server (blocking).
func (s *Server) Start(ctx context.Context) error {
	router := s.setupRoutes()
	s.started = time.Now()

	s.server = &http.Server{
		Addr:         s.config.Listen,
		Handler:      router,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 30 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	s.logger.Info("webhook server starting", "listen", s.config.Listen, "path", s.config.Path)

	errCh := make(chan error, 1)
	go func() {
		if err := s.server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			errCh <- err
		}
	}()

	select {
	case <-ctx.Done():
		s.logger.Info("webhook server shutting down")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := s.server.Shutdown(shutdownCtx); err != nil {
			return fmt.Errorf("webhook server shutdown failed: %w", err)
		}
		return ctx.Err()
	case err := <-errCh:
		return fmt.Errorf("webhook server error: %w", err)
	}
}

// Routes returns the configured router. Exposed for in-process testing.
func (s *Server) Routes() http.Handler {
	return s.setupRoutes()
}

// setupRoutes configures the HTTP router.
func (s *Server) setupRoutes() *chi.Mux {
	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(s.loggingMiddleware)
	r.Use(middleware.Recoverer)

	r.Post(s.config.Path, s.handleEvent)
	r.Get("/healthz", s.handleHealthz)

	return r
}

// loggingMiddleware logs HTTP requests (excludes sensitive payloads).
func (s *Server) loggingMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		next.ServeHTTP(ww, r)

		s.logger.Info("webhook request",
			"method", r.Method,
			"path", r.URL.Path,
			"status", ww.Status(),
			"duration_ms", time.Since(start).Milliseconds(),
			"request_id", middleware.GetReqID(r.Context()),
			"remote_addr", r.RemoteAddr,
		)
	})
}

// handleEvent handles incoming RFD webhook POST requests.
func (s *Server) handleEvent(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	limitedReader := io.LimitReader(r.Body, s.config.MaxBodySize+1)
	body, err := io.ReadAll(limitedReader)
	if err != nil {
		s.respondError(w, http.StatusInternalServerError, "failed to read request body")
		return
	}
	if int64(len(body)) > s.config.MaxBodySize {
		s.respondError(w, http.StatusRequestEntityTooLarge, "payload too large")
		return
	}

	// Signature is verified over the exact raw bytes, before any parsing.
	sig := r.Header.Get(SignatureHeader)
	if !signature.Verify(body, sig, s.config.Secret) {
		s.logger.Warn("webhook signature verification failed",
			"path", r.URL.Path,
			"present", sig != "",
		)
		s.respondError(w, http.StatusUnauthorized, "invalid signature")
		return
	}

	var ev rfd.Event
	if err := json.Unmarshal(body, &ev); err != nil {
		s.respondError(w, http.StatusBadRequest, "malformed payload")
		return
	}
	if err := ev.Validate(); err != nil {
		s.respondError(w, http.StatusBadRequest, err.Error())
		return
	}

	result, err := s.reconciler.Reconcile(ctx, &ev)
	if err != nil {
		s.logger.Error("reconciliation failed",
			"event", ev.Event,
			"rfd_id", ev.RFD.ID,
			"error", err,
		)
		s.recordDelivery(ctx, &ev, store.OutcomeFailed, err.Error())
		s.respondError(w, http.StatusInternalServerError, "reconciliation failed")
		return
	}

	s.recordDelivery(ctx, &ev, outcomeFor(result.Action), result.URL)

	s.respondJSON(w, http.StatusOK, Response{
		Success:    true,
		Discussion: &Discussion{ID: result.RoomID, URL: result.URL},
	})
}

// handleHealthz reports liveness plus store counters.
func (s *Server) handleHealthz(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	health := map[string]any{
		"status":   "ok",
		"uptime_s": int64(time.Since(s.started).Seconds()),
	}
	if s.discussions != nil {
		if n, err := s.discussions.Count(ctx); err == nil {
			health["discussions"] = n
		}
	}
	if s.deliveries != nil {
		if counts, err := s.deliveries.CountByOutcome(ctx); err == nil {
			health["deliveries"] = counts
		}
	}
	s.respondJSON(w, http.StatusOK, health)
}

func (s *Server) recordDelivery(ctx context.Context, ev *rfd.Event, outcome, detail string) {
	if s.deliveries == nil {
		return
	}
	if _, err := s.deliveries.Append(ctx, string(ev.Event), ev.RFD.ID, outcome, detail); err != nil {
		s.logger.Warn("failed to record delivery", "rfd_id", ev.RFD.ID, "error", err)
	}
}

func outcomeFor(a reconcile.Action) string {
	switch a {
	case reconcile.ActionCreated:
		return store.OutcomeCreated
	case reconcile.ActionUpdated:
		return store.OutcomeUpdated
	default:
		return store.OutcomeNoop
	}
}

// respondJSON sends a JSON response.
func (s *Server) respondJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(data)
}

// respondError sends a JSON error response.
func (s *Server) respondError(w http.ResponseWriter, status int, message string) {
	s.respondJSON(w, status, Response{Success: false, Error: message})
}
