// Package api exposes the assistant over HTTP: a JSON chat endpoint, the
// risk prediction endpoint, session inspection, a health probe and a
// websocket chat.
package api

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"slices"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/edgard/grossessebot/internal/assistant"
	"github.com/edgard/grossessebot/internal/config"
	"github.com/edgard/grossessebot/internal/logger"
)

// Service identity reported by the health probe.
const (
	ServiceName    = "Chatbot Grossesse API"
	ServiceVersion = "1.0.0"
)

// NewRouter builds the chi router serving every endpoint.
func NewRouter(svc *assistant.Service, cfg config.HTTPConfig, log *slog.Logger) http.Handler {
	if log == nil {
		log = slog.Default()
	}
	h := newHandler(svc, cfg.AllowedOrigins, log.With("component", "http_api"))

	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(logger.HTTPMiddleware(log))
	r.Use(middleware.Recoverer)
	r.Use(middleware.StripSlashes)
	r.Use(corsMiddleware(cfg.AllowedOrigins))

	r.Get("/health", h.health)

	r.Route("/chatbot", func(r chi.Router) {
		r.Post("/api", h.chat)
		r.Get("/ws", h.chatSocket)
	})

	r.Route("/api", func(r chi.Router) {
		r.Post("/predict", h.predict)
		r.Post("/predire", h.predict)
		r.Get("/info/{category}", h.info)
		r.Route("/sessions/{id}", func(r chi.Router) {
			r.Get("/summary", h.summary)
			r.Get("/history", h.history)
			r.Delete("/", h.reset)
		})
	})

	return r
}

// corsMiddleware answers preflight requests and sets the allow headers. An
// origin list containing "*" allows every origin.
func corsMiddleware(origins []string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if origin := r.Header.Get("Origin"); originAllowed(origins, origin) {
				if slices.Contains(origins, "*") {
					w.Header().Set("Access-Control-Allow-Origin", "*")
				} else {
					w.Header().Set("Access-Control-Allow-Origin", origin)
					w.Header().Add("Vary", "Origin")
				}
				w.Header().Set("Access-Control-Allow-Methods", "POST, GET, OPTIONS, DELETE")
				w.Header().Set("Access-Control-Allow-Headers", "Accept, Content-Type, Content-Length, Accept-Encoding, Authorization")
			}
			if r.Method == http.MethodOptions {
				w.WriteHeader(http.StatusNoContent)
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

func originAllowed(origins []string, origin string) bool {
	if origin == "" {
		return false
	}
	for _, o := range origins {
		if o == "*" || strings.EqualFold(o, origin) {
			return true
		}
	}
	return false
}

// Server runs the HTTP API until its context is cancelled.
type Server struct {
	srv             *http.Server
	logger          *slog.Logger
	shutdownTimeout time.Duration
}

// NewServer wraps handler in an http.Server configured from cfg.
func NewServer(cfg config.HTTPConfig, handler http.Handler, log *slog.Logger) *Server {
	if log == nil {
		log = slog.Default()
	}
	return &Server{
		srv: &http.Server{
			Addr:              cfg.Addr,
			Handler:           handler,
			ReadHeaderTimeout: cfg.ReadTimeout,
			ReadTimeout:       cfg.ReadTimeout,
			WriteTimeout:      cfg.WriteTimeout,
		},
		logger:          log.With("component", "http_server"),
		shutdownTimeout: cfg.ShutdownTimeout,
	}
}

// Run listens until ctx is cancelled, then shuts down gracefully.
func (s *Server) Run(ctx context.Context) error {
	errCh := make(chan error, 1)
	go func() {
		s.logger.Info("HTTP server listening", "addr", s.srv.Addr)
		errCh <- s.srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return fmt.Errorf("http server failed: %w", err)
	case <-ctx.Done():
	}

	s.logger.Info("Shutdown signal received, stopping HTTP server...")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), s.shutdownTimeout)
	defer cancel()
	if err := s.srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("http server shutdown failed: %w", err)
	}
	s.logger.Info("HTTP server stopped gracefully.")
	return nil
}
