// Package api serves the snake over the Battlesnake HTTP protocol and exposes
// the recorded games to viewers.
package api

import (
	"context"
	"net/http"
	"time"

	"github.com/battlesnakeio/nol/brain"
	"github.com/battlesnakeio/nol/store"
	"github.com/julienschmidt/httprouter"
	"github.com/rs/cors"
	log "github.com/sirupsen/logrus"
	"golang.org/x/time/rate"
)

// SnakeInfo is how the snake presents itself to the game server.
type SnakeInfo struct {
	Name  string
	Color string
	Head  string
	Tail  string
	Taunt string
}

// Server is the snake API server.
type Server struct {
	hs      *http.Server
	engine  *brain.Engine
	store   store.Store
	limiter *rate.Limiter
	info    SnakeInfo
}

// Option configures a Server.
type Option func(*Server)

// WithStore records every decision to st. The default store keeps games in
// memory.
func WithStore(st store.Store) Option {
	return func(s *Server) { s.store = st }
}

// WithRateLimit rejects move requests beyond the limiter's rate.
func WithRateLimit(l *rate.Limiter) Option {
	return func(s *Server) { s.limiter = l }
}

// WithSnakeInfo sets the name and looks reported by the info and start
// endpoints.
func WithSnakeInfo(info SnakeInfo) Option {
	return func(s *Server) { s.info = info }
}

// New creates a new api server listening on addr.
func New(addr string, engine *brain.Engine, opts ...Option) *Server {
	s := &Server{
		engine:  engine,
		store:   store.InMemStore(),
		limiter: rate.NewLimiter(rate.Inf, 0),
	}
	for _, opt := range opts {
		opt(s)
	}

	router := httprouter.New()
	router.GET("/", instrumented("/", s.index))
	router.GET("/ping", instrumented("/ping", s.ping))
	router.POST("/ping", instrumented("/ping", s.ping))
	router.POST("/start", instrumented("/start", s.start))
	router.POST("/move", instrumented("/move", s.move))
	router.POST("/end", instrumented("/end", s.end))
	router.GET("/games/:id", instrumented("/games/:id", s.game))
	router.GET("/socket/:id", s.socket)

	s.hs = &http.Server{
		Addr:         addr,
		Handler:      cors.Default().Handler(router),
		ReadTimeout:  5 * time.Second,
		WriteTimeout: 0, // sockets stream for the length of a game
	}
	return s
}

// WaitForExit starts up the server and blocks until the server shuts down.
func (s *Server) WaitForExit() error {
	log.WithField("addr", s.hs.Addr).Info("nol listening")
	err := s.hs.ListenAndServe()
	if err == http.ErrServerClosed {
		return nil
	}
	return err
}

// Handler returns the http handler serving the api.
func (s *Server) Handler() http.Handler { return s.hs.Handler }

// Shutdown stops the server gracefully.
func (s *Server) Shutdown(ctx context.Context) error {
	return s.hs.Shutdown(ctx)
}
