package feedsim_test

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/okian/xalps/internal/adapters/feed"
	"github.com/okian/xalps/internal/adapters/feed/feedsim"
	. "github.com/smartystreets/goconvey/convey"
)

func TestRace(t *testing.T) {
	Convey("Given a generated race", t, func() {
		clock := time.UnixMilli(1_686_751_800_000)
		race := feedsim.New(feedsim.WithSeed(42), feedsim.WithClock(func() time.Time { return clock }))
		race.Generate(5)

		Convey("Then every athlete should have a unique id and team", func() {
			ov := race.Overview()
			So(ov.Athletes, ShouldHaveLength, 5)
			So(ov.Validate(), ShouldBeNil)
			So(race.Standings(), ShouldHaveLength, 5)
		})

		Convey("When the race advances", func() {
			before := race.Standings()
			race.Advance()
			race.Advance()

			Convey("Then every athlete should have a track and the same roster", func() {
				So(race.Standings(), ShouldHaveLength, len(before))
				srv := feedsim.NewServer(race)
				defer srv.Close()
				resp, err := srv.Server.Client().Get(srv.URL + "/race/athlete/" + before[0] + "/track/latest.pbf")
				So(err, ShouldBeNil)
				defer resp.Body.Close()
				So(resp.StatusCode, ShouldEqual, http.StatusOK)
				So(resp.ContentLength, ShouldBeGreaterThan, 0)
			})
		})

		Convey("When a feed is made to fail", func() {
			race.Fail(feed.FeedStatus, http.StatusBadGateway)
			rec := httptest.NewRecorder()
			race.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/race/race-status", nil))

			Convey("Then it should answer with the injected code until cleared", func() {
				So(rec.Code, ShouldEqual, http.StatusBadGateway)
				race.Fail(feed.FeedStatus, 0)
				rec = httptest.NewRecorder()
				race.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/race/race-status", nil))
				So(rec.Code, ShouldEqual, http.StatusOK)
				So(race.Hits(feed.FeedStatus), ShouldEqual, 2)
			})
		})

		Convey("When an unknown race resource is requested", func() {
			rec := httptest.NewRecorder()
			race.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/race/nothing", nil))
			So(rec.Code, ShouldEqual, http.StatusNotFound)
		})
	})
}
