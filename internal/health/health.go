// Package health serves the liveness endpoint polled by the hosting platform.
package health

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"combain-support-bot/internal/models"
)

// Status is reported on /status. Nil means the route is not mounted.
type Status func() map[string]any

// Sessions is what /status reports about the session store.
type Sessions interface {
	Len() int
	Registered() []models.User
}

// BotStatus reports session counts and, when the scheduler knows it, the
// next broadcast time.
func BotStatus(sessions Sessions, nextBroadcast func() (time.Time, error)) Status {
	return func() map[string]any {
		st := map[string]any{
			"sessions":         sessions.Len(),
			"registered_users": len(sessions.Registered()),
		}
		if next, err := nextBroadcast(); err == nil && !next.IsZero() {
			st["next_broadcast"] = next.Format(time.RFC3339)
		}
		return st
	}
}

func Routes(status Status) http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.Recoverer)

	r.Get("/", ok)
	r.Get("/healthz", ok)
	if status != nil {
		r.Get("/status", func(w http.ResponseWriter, _ *http.Request) {
			w.Header().Set("Content-Type", "application/json")
			_ = json.NewEncoder(w).Encode(status())
		})
	}
	return r
}

func ok(w http.ResponseWriter, _ *http.Request) {
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	_, _ = w.Write([]byte("ok"))
}

type Server struct {
	srv *http.Server
	log *slog.Logger
}

func NewServer(addr string, status Status, log *slog.Logger) *Server {
	if log == nil {
		log = slog.Default()
	}
	return &Server{
		srv: &http.Server{
			Addr:         addr,
			Handler:      Routes(status),
			ReadTimeout:  5 * time.Second,
			WriteTimeout: 10 * time.Second,
			IdleTimeout:  120 * time.Second,
		},
		log: log,
	}
}

// Start listens in the background. A listen failure is logged; the bot keeps running.
func (s *Server) Start() {
	go func() {
		s.log.Info("liveness endpoint listening", "addr", s.srv.Addr)
		if err := s.srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			s.log.Error("liveness endpoint", "err", err)
		}
	}()
}

func (s *Server) Shutdown(ctx context.Context) error {
	return s.srv.Shutdown(ctx)
}
