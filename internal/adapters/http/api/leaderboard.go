package api

import (
	"math"
	"net/http"
	"strconv"
	"time"

	"github.com/okian/xalps/internal/domain/summary"
)

// LeaderboardHandler handles leaderboard requests.
type LeaderboardHandler struct {
	board BoardProvider
}

// NewLeaderboardHandler creates a new leaderboard handler.
func NewLeaderboardHandler(board BoardProvider) *LeaderboardHandler {
	return &LeaderboardHandler{board: board}
}

// Entry is one leaderboard row. Unknown readings are null.
type Entry struct {
	Rank           int      `json:"rank"`
	Name           string   `json:"name"`
	DisplayName    string   `json:"display_name"`
	Team           string   `json:"team"`
	Altitude       *float64 `json:"altitude"`
	Speed          *float64 `json:"speed"`
	DistanceToGoal *float64 `json:"distance_to_goal_km"`
	Status         string   `json:"status"`
	Since          string   `json:"since"`
	Change         string   `json:"change"`
}

// Leaderboard is the GET /leaderboard response.
type Leaderboard struct {
	UpdatedAt time.Time `json:"updated_at"`
	Tracked   bool      `json:"tracked"`
	Entries   []Entry   `json:"entries"`
}

// HandleGetLeaderboard handles GET /leaderboard and GET /leaderboard?limit=N.
func (h *LeaderboardHandler) HandleGetLeaderboard(w http.ResponseWriter, r *http.Request) {
	const op = "api.get_leaderboard"
	if r.Method != http.MethodGet {
		http.NotFound(w, r)
		return
	}

	frame, ok := h.board.Board()
	if !ok {
		writeError(w, http.StatusServiceUnavailable, "not_ready", NewKind(op, ErrNotReady))
		return
	}

	n := len(frame.Rows)
	if limitStr := r.URL.Query().Get("limit"); limitStr != "" {
		limit, err := strconv.Atoi(limitStr)
		if err != nil || limit < 1 {
			writeError(w, http.StatusBadRequest, "bad_request", NewKind(op, ErrBadRequest))
			return
		}
		n = min(n, limit)
	}

	resp := Leaderboard{
		UpdatedAt: frame.At,
		Tracked:   frame.Tracked,
		Entries:   make([]Entry, n),
	}
	for i, row := range frame.Rows[:n] {
		resp.Entries[i] = Entry{
			Rank:           row.Rank + 1,
			Name:           row.FullName,
			DisplayName:    row.DisplayName(),
			Team:           row.Team,
			Altitude:       reading(row.Altitude),
			Speed:          reading(row.Speed),
			DistanceToGoal: finite(row.Distance),
			Status:         row.Status.String(),
			Since:          row.Since,
			Change:         row.Change.String(),
		}
	}
	writeJSON(w, http.StatusOK, resp)
}

func reading(r summary.Reading) *float64 {
	v, ok := r.Value()
	if !ok {
		return nil
	}
	return finite(v)
}

// finite drops values JSON cannot carry.
func finite(v float64) *float64 {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return nil
	}
	return &v
}
