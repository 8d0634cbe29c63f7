package feedsim

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"

	"github.com/okian/xalps/internal/adapters/feed"
	"github.com/okian/xalps/internal/adapters/feed/trackpb"
	"github.com/okian/xalps/internal/domain/model"
)

// OverviewPath is where the simulated overview document is served.
const OverviewPath = "/overview.json"

// Handler serves the race on the upstream routes.
func (r *Race) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("GET "+OverviewPath, r.handleOverview)
	mux.HandleFunc("GET /race/{resource}", r.handleStatus)
	mux.HandleFunc("GET /race/athlete/{id}/track/{file...}", r.handleTrack)
	return mux
}

// Server is a running simulated feed.
type Server struct {
	*httptest.Server
	Race *Race
}

// NewServer starts an httptest server for race.
func NewServer(race *Race) *Server {
	return &Server{Server: httptest.NewServer(race.Handler()), Race: race}
}

// Client returns a feed client wired to the server.
func (s *Server) Client(opts ...feed.Option) *feed.Client {
	opts = append([]feed.Option{
		feed.WithHTTPClient(s.Server.Client()),
		feed.WithBaseURLs(s.URL+OverviewPath, s.URL),
	}, opts...)
	return feed.NewClient(opts...)
}

// intercept counts the hit and applies injected faults.
func (r *Race) intercept(w http.ResponseWriter, name string) bool {
	r.mu.Lock()
	r.hits[name]++
	code, failing := r.failures[name]
	corrupt := r.corrupt[name]
	r.mu.Unlock()

	if failing {
		http.Error(w, http.StatusText(code), code)
		return true
	}
	if corrupt {
		_, _ = w.Write([]byte{0xff, 0x00, '{'})
		return true
	}
	return false
}

func (r *Race) handleOverview(w http.ResponseWriter, _ *http.Request) {
	if r.intercept(w, feed.FeedOverview) {
		return
	}
	writeJSON(w, r.Overview())
}

func (r *Race) handleStatus(w http.ResponseWriter, req *http.Request) {
	resource := req.PathValue("resource")
	switch {
	case resource == "race-status":
		if r.intercept(w, feed.FeedStatus) {
			return
		}
		r.mu.Lock()
		st := append([]model.StatusEntry(nil), r.status...)
		r.mu.Unlock()
		writeJSON(w, st)
	case strings.HasPrefix(resource, "race-status-replay_"):
		if r.intercept(w, feed.FeedStatusReplay) {
			return
		}
		r.mu.Lock()
		snap := model.StatusReplay{
			Timestamp: r.now().UnixMilli(),
			Status:    append([]model.StatusEntry(nil), r.status...),
		}
		r.mu.Unlock()
		writeJSON(w, []model.StatusReplay{snap})
	default:
		http.NotFound(w, req)
	}
}

func (r *Race) handleTrack(w http.ResponseWriter, req *http.Request) {
	if r.intercept(w, feed.FeedTrack) {
		return
	}
	r.mu.Lock()
	tr, ok := r.tracks[req.PathValue("id")]
	r.mu.Unlock()
	if !ok {
		// Athletes without telemetry get an empty message.
		tr = model.Track{}
	}
	w.Header().Set("Content-Type", "application/x-protobuf")
	_, _ = w.Write(trackpb.Encode(tr))
}

func writeJSON(w http.ResponseWriter, v any) {
	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(v); err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
	}
}
