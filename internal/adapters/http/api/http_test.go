package api_test

import (
	"context"
	"encoding/json"
	"math"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/okian/xalps/internal/adapters/http/api"
	"github.com/okian/xalps/internal/adapters/render"
	"github.com/okian/xalps/internal/domain/delta"
	"github.com/okian/xalps/internal/domain/model"
	"github.com/okian/xalps/internal/domain/summary"
	"github.com/okian/xalps/pkg/metrics"
	. "github.com/smartystreets/goconvey/convey"
)

type stubBoard struct {
	frame render.Frame
	ok    bool
}

func (s *stubBoard) Board() (render.Frame, bool) { return s.frame, s.ok }

func boardFrame() render.Frame {
	return render.Frame{
		At:      time.Date(2023, 6, 14, 12, 0, 0, 0, time.UTC),
		Tracked: true,
		Rows: []delta.Marked{
			{AthleteSummary: summary.AthleteSummary{
				FullName: "Max A", Team: "AUT1", Altitude: summary.Known(0), Speed: summary.Unknown(),
				Distance: 20, Rank: 0, Status: model.StatusFly, Since: "0m 3s",
			}, Change: delta.RankUp},
			{AthleteSummary: summary.AthleteSummary{
				FullName: "Lea B", Team: "GER1", Altitude: summary.Known(1500), Speed: summary.Known(12),
				Distance: math.NaN(), Rank: 1, Status: model.StatusRest, Since: "1m 0s",
			}, Change: delta.RankDown},
		},
	}
}

func newMux(board api.BoardProvider) *http.ServeMux {
	mux := http.NewServeMux()
	api.NewServer(board).Register(context.Background(), mux)
	return mux
}

func TestLeaderboardEndpoint(t *testing.T) {
	Convey("Given the API over a drawn board", t, func() {
		mux := newMux(&stubBoard{frame: boardFrame(), ok: true})

		Convey("When requesting the leaderboard", func() {
			rec := httptest.NewRecorder()
			mux.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/leaderboard", nil))

			Convey("Then every row should be returned with nulls for missing data", func() {
				So(rec.Code, ShouldEqual, http.StatusOK)
				var lb api.Leaderboard
				So(json.Unmarshal(rec.Body.Bytes(), &lb), ShouldBeNil)
				So(lb.Tracked, ShouldBeTrue)
				So(lb.Entries, ShouldHaveLength, 2)
				So(lb.Entries[0].Rank, ShouldEqual, 1)
				So(lb.Entries[0].DisplayName, ShouldEqual, "Max A ▲")
				So(*lb.Entries[0].Altitude, ShouldEqual, 0.0)
				So(lb.Entries[0].Speed, ShouldBeNil)
				So(lb.Entries[1].DistanceToGoal, ShouldBeNil)
				So(rec.Body.String(), ShouldContainSubstring, `"change":"rank_down"`)
			})
		})

		Convey("When requesting with a limit", func() {
			rec := httptest.NewRecorder()
			mux.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/leaderboard?limit=1", nil))
			var lb api.Leaderboard
			So(json.Unmarshal(rec.Body.Bytes(), &lb), ShouldBeNil)
			So(lb.Entries, ShouldHaveLength, 1)
		})

		Convey("When the limit is invalid", func() {
			rec := httptest.NewRecorder()
			mux.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/leaderboard?limit=zero", nil))
			So(rec.Code, ShouldEqual, http.StatusBadRequest)
			So(rec.Body.String(), ShouldContainSubstring, "bad_request")
		})

		Convey("When using another method", func() {
			rec := httptest.NewRecorder()
			mux.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/leaderboard", nil))
			So(rec.Code, ShouldEqual, http.StatusNotFound)
		})
	})

	Convey("Given the API before the first board", t, func() {
		mux := newMux(&stubBoard{})

		Convey("Then the leaderboard should not be ready", func() {
			rec := httptest.NewRecorder()
			mux.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/leaderboard", nil))
			So(rec.Code, ShouldEqual, http.StatusServiceUnavailable)
			So(rec.Body.String(), ShouldContainSubstring, api.ErrNotReady.Error())
		})

		Convey("Then health should report starting", func() {
			rec := httptest.NewRecorder()
			mux.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/healthz", nil))
			So(rec.Code, ShouldEqual, http.StatusOK)
			So(rec.Body.String(), ShouldContainSubstring, `"status":"starting"`)
		})
	})
}

func TestHealthAndMetrics(t *testing.T) {
	Convey("Given the API over a drawn board", t, func() {
		mux := newMux(&stubBoard{frame: boardFrame(), ok: true})

		Convey("When checking health", func() {
			rec := httptest.NewRecorder()
			mux.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/healthz", nil))
			So(rec.Code, ShouldEqual, http.StatusOK)
			So(rec.Body.String(), ShouldContainSubstring, `"status":"ok"`)
			So(rec.Body.String(), ShouldContainSubstring, "2023-06-14T12:00:00Z")
		})

		Convey("When scraping metrics after a request", func() {
			metrics.RecordTick()
			mux.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/leaderboard", nil))
			rec := httptest.NewRecorder()
			mux.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))

			Convey("Then the private registry should be exposed", func() {
				So(rec.Code, ShouldEqual, http.StatusOK)
				body := rec.Body.String()
				So(body, ShouldContainSubstring, "xalps_leaderboard_ticks_total")
				So(body, ShouldContainSubstring, `xalps_leaderboard_http_requests_total{endpoint="leaderboard"`)
				So(strings.Contains(body, "go_goroutines"), ShouldBeFalse)
			})
		})
	})
}

func TestErrors(t *testing.T) {
	Convey("Given tagged API errors", t, func() {
		err := api.NewKind("api.op", api.ErrBadRequest)
		So(err.Error(), ShouldEqual, "api.op: bad request")
		So(api.Wrap("api.op", nil), ShouldBeNil)
		So(api.Wrap("api.op", api.ErrNotReady).Error(), ShouldContainSubstring, "api.op")
	})
}
