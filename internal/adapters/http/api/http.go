// Package api serves the read-only HTTP view of the leaderboard.
package api

import (
	"context"
	"encoding/json"
	"net/http"

	"github.com/okian/xalps/internal/adapters/render"
)

// BoardProvider exposes the last drawn leaderboard.
type BoardProvider interface {
	Board() (render.Frame, bool)
}

// Server wires HTTP routes for the leaderboard view.
type Server struct {
	healthHandler      *HealthHandler
	leaderboardHandler *LeaderboardHandler
}

// NewServer creates a new API server with all handlers.
func NewServer(board BoardProvider) *Server {
	return &Server{
		healthHandler:      NewHealthHandler(board),
		leaderboardHandler: NewLeaderboardHandler(board),
	}
}

// Register attaches all HTTP routes to mux.
func (s *Server) Register(_ context.Context, mux *http.ServeMux) {
	mux.HandleFunc("/healthz", MetricsMiddleware(s.healthHandler.HandleHealth, "healthz"))
	mux.HandleFunc("/metrics", MetricsMiddleware(s.healthHandler.HandleMetrics, "metrics"))
	mux.HandleFunc("/leaderboard", MetricsMiddleware(s.leaderboardHandler.HandleGetLeaderboard, "leaderboard"))
}

type errorResponse struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, code string, err error) {
	msg := http.StatusText(status)
	if err != nil {
		msg = err.Error()
	}
	writeJSON(w, status, errorResponse{Code: code, Message: msg})
}
