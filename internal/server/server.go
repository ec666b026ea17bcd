// Package server exposes the keep-alive HTTP endpoint the hosting platform
// pings, plus a read-only snapshot of the live tallies for debugging.
package server

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/bytedance/sonic"
	"github.com/go-chi/chi/v5"
	"github.com/recuentobot/recuento/internal/tracker"
	"go.uber.org/zap"
)

// KeepAliveMessage is the static confirmation string served on the root path.
const KeepAliveMessage = "Bot de Discord en funcionamiento"

// Server is the liveness HTTP server.
type Server struct {
	srv    *http.Server
	store  *tracker.Store
	logger *zap.Logger
}

// New builds the liveness server on the configured port.
func New(port int, store *tracker.Store, logger *zap.Logger) *Server {
	s := &Server{
		store:  store,
		logger: logger.Named("server"),
	}

	r := chi.NewRouter()
	r.Get("/", s.handleRoot)
	r.Get("/tallies", s.handleTallies)

	s.srv = &http.Server{
		Addr:              fmt.Sprintf(":%d", port),
		Handler:           r,
		ReadTimeout:       30 * time.Second,
		WriteTimeout:      30 * time.Second,
		IdleTimeout:       120 * time.Second,
		ReadHeaderTimeout: 10 * time.Second,
	}

	return s
}

// Handler exposes the router, mainly for tests.
func (s *Server) Handler() http.Handler {
	return s.srv.Handler
}

// Start serves in the background; a failed listen is logged, not fatal,
// so the bot keeps running without its keep-alive endpoint.
func (s *Server) Start() {
	go func() {
		s.logger.Info("Starting liveness server", zap.String("address", s.srv.Addr))

		if err := s.srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			s.logger.Error("Liveness server failed", zap.Error(err))
		}
	}()
}

// Stop shuts the server down gracefully.
func (s *Server) Stop(ctx context.Context) {
	if err := s.srv.Shutdown(ctx); err != nil {
		s.logger.Error("Failed to shut down liveness server", zap.Error(err))
	}
}

func (s *Server) handleRoot(w http.ResponseWriter, _ *http.Request) {
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	_, _ = w.Write([]byte(KeepAliveMessage))
}

// memberTallies is the JSON shape of one member's live counters.
type memberTallies struct {
	Daily  int            `json:"daily"`
	Weekly map[string]int `json:"weekly"`
}

func (s *Server) handleTallies(w http.ResponseWriter, _ *http.Request) {
	out := make(map[string]map[string]memberTallies)

	for guildID, members := range s.store.SnapshotAll() {
		guild := make(map[string]memberTallies, len(members))

		for memberID, counters := range members {
			weekly := make(map[string]int, len(counters.Weekly))
			for day, count := range counters.Weekly {
				weekly[day.Name()] = count
			}

			guild[memberID.String()] = memberTallies{Daily: counters.Daily, Weekly: weekly}
		}

		out[guildID.String()] = guild
	}

	body, err := sonic.Marshal(out)
	if err != nil {
		s.logger.Error("Failed to encode tallies snapshot", zap.Error(err))
		http.Error(w, "encoding failure", http.StatusInternalServerError)

		return
	}

	w.Header().Set("Content-Type", "application/json")
	_, _ = w.Write(body)
}
