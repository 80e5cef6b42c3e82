// Package feedserver serves the generated feed document over HTTP.
package feedserver

import (
	"context"
	"net/http"
	"os"
	"time"

	"github.com/go-chi/chi/v5"

	"sjsage522/fyndworker/logger"
)

// Server exposes the rendered feed file and a health check
type Server struct {
	srv      *http.Server
	feedPath string
	log      *logger.Logger
}

// NewServer creates a feed server for the given listen address and feed file
func NewServer(addr, feedPath string) *Server {
	s := &Server{
		feedPath: feedPath,
		log:      logger.ForServer(),
	}

	r := chi.NewRouter()
	r.Get("/rss", s.handleFeed)
	r.Get("/healthz", s.handleHealth)

	s.srv = &http.Server{
		Addr:         addr,
		Handler:      r,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	return s
}

// Start begins serving in the background
func (s *Server) Start() {
	go func() {
		s.log.Info().Str("addr", s.srv.Addr).Msg("Feed server listening")
		if err := s.srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			s.log.Error().Err(err).Msg("Feed server stopped")
		}
	}()
}

// Shutdown stops the server, waiting for in-flight requests
func (s *Server) Shutdown(ctx context.Context) error {
	return s.srv.Shutdown(ctx)
}

// handleFeed serves the feed file as rendered by the last successful run
func (s *Server) handleFeed(w http.ResponseWriter, r *http.Request) {
	data, err := os.ReadFile(s.feedPath)
	if err != nil {
		http.Error(w, "feed not generated yet", http.StatusNotFound)
		return
	}
	w.Header().Set("Content-Type", "application/rss+xml; charset=utf-8")
	w.Write(data)
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	w.WriteHeader(http.StatusOK)
	w.Write([]byte("ok"))
}
