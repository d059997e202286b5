package server

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
)

// Server represents the HTTP server
type Server struct {
	router   *gin.Engine
	http     *http.Server
	sessions *SessionRegistry
}

// NewServer wraps the assembled router and session registry.
func NewServer(router *gin.Engine, sessions *SessionRegistry) *Server {
	return &Server{
		router:   router,
		sessions: sessions,
	}
}

// Start runs the server until SIGINT/SIGTERM, then shuts down gracefully
// and flushes every pending cloud push.
func (s *Server) Start(addr string) error {
	s.http = &http.Server{
		Addr:    addr,
		Handler: s.router,
	}

	go func() {
		if err := s.http.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("Failed to start server: %v", err)
		}
	}()
	log.Printf("Server listening on %s", addr)

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	s.sessions.Close(ctx)
	return s.http.Shutdown(ctx)
}

// Stop gracefully stops the HTTP server
func (s *Server) Stop(ctx context.Context) error {
	s.sessions.Close(ctx)
	if s.http != nil {
		return s.http.Shutdown(ctx)
	}
	return nil
}
