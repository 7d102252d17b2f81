package steam_test

import (
	"context"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"

	. "github.com/smartystreets/goconvey/convey"

	"github.com/squadgate/gatekeeper/internal/adapters/steam"
)

const (
	gamesBody   = `{"response":{"games":[{"appid":393380,"playtime_forever":30000}]}}`
	playerBody  = `{"response":{"players":[{"personaname":"玩家","communityvisibilitystate":3}]}}`
	friendsBody = `{"friendslist":{"friends":[{"steamid":"a"}]}}`
	badgesBody  = `{"response":{"badges":[{"badgeid":1}]}}`
)

// countingServer serves full fixtures, except that the badges endpoint fails
// until failBadges attempts have been consumed. It counts total requests.
func countingServer(failBadges int) (*httptest.Server, *atomic.Int64) {
	var requests atomic.Int64
	var badgeCalls atomic.Int64
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		requests.Add(1)
		w.Header().Set("Content-Type", "application/json")
		switch r.URL.Path {
		case "/IPlayerService/GetOwnedGames/v0001/":
			_, _ = w.Write([]byte(gamesBody))
		case "/ISteamUser/GetPlayerSummaries/v0002/":
			_, _ = w.Write([]byte(playerBody))
		case "/ISteamUser/GetFriendList/v0001/":
			_, _ = w.Write([]byte(friendsBody))
		case "/IPlayerService/GetBadges/v1/":
			if badgeCalls.Add(1) <= int64(failBadges) {
				w.WriteHeader(http.StatusInternalServerError)
				return
			}
			_, _ = w.Write([]byte(badgesBody))
		default:
			w.WriteHeader(http.StatusNotFound)
		}
	}))
	return srv, &requests
}

func TestRetrieverStopsWhenComplete(t *testing.T) {
	Convey("Given a server that answers every attribute first try", t, func() {
		srv, requests := countingServer(0)
		defer srv.Close()

		c := steam.NewClient("k", steam.WithBaseURL(srv.URL))
		r := steam.NewRetriever(c, steam.WithRetryDelay(0))

		Convey("When a profile is fetched", func() {
			p := r.Fetch(context.Background(), testID)

			Convey("Then the profile is complete after one attempt of four requests", func() {
				So(p.Complete(), ShouldBeTrue)
				So(p.GameHours.Value, ShouldEqual, 500.0)
				So(p.VisibilityLevel.Value, ShouldEqual, 3)
				So(p.GameCount.Value, ShouldEqual, 1)
				So(p.Name.Value, ShouldEqual, "玩家")
				So(p.FriendCount.Value, ShouldEqual, 1)
				So(p.BadgeCount.Value, ShouldEqual, 1)
				So(requests.Load(), ShouldEqual, 4)
			})
		})
	})
}

func TestRetrieverRetriesUntilComplete(t *testing.T) {
	Convey("Given a badges endpoint that fails once", t, func() {
		srv, requests := countingServer(1)
		defer srv.Close()

		c := steam.NewClient("k", steam.WithBaseURL(srv.URL))
		r := steam.NewRetriever(c, steam.WithRetryDelay(0))

		Convey("When a profile is fetched", func() {
			p := r.Fetch(context.Background(), testID)

			Convey("Then the second attempt completes the profile", func() {
				So(p.Complete(), ShouldBeTrue)
				// Two full attempts: every attribute refetched, not just badges.
				So(requests.Load(), ShouldEqual, 8)
			})
		})
	})
}

func TestRetrieverLeavesFieldsAbsent(t *testing.T) {
	Convey("Given a badges endpoint that always fails", t, func() {
		srv, requests := countingServer(1 << 30)
		defer srv.Close()

		c := steam.NewClient("k", steam.WithBaseURL(srv.URL))
		r := steam.NewRetriever(c, steam.WithRetryDelay(0), steam.WithAttempts(3))

		Convey("When a profile is fetched", func() {
			p := r.Fetch(context.Background(), testID)

			Convey("Then badges stay absent after three attempts", func() {
				So(p.BadgeCount.OK(), ShouldBeFalse)
				So(p.GameHours.OK(), ShouldBeTrue)
				So(p.CoreMissing(), ShouldBeFalse)
				So(requests.Load(), ShouldEqual, 12) // 3 attempts x 4 fetches
			})
		})
	})
}

func TestRetrieverTotalFailure(t *testing.T) {
	Convey("Given an unreachable service", t, func() {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
			w.WriteHeader(http.StatusBadGateway)
		}))
		defer srv.Close()

		c := steam.NewClient("k", steam.WithBaseURL(srv.URL))
		r := steam.NewRetriever(c, steam.WithRetryDelay(0))

		Convey("When a profile is fetched", func() {
			p := r.Fetch(context.Background(), testID)

			Convey("Then every field is absent and the core is missing", func() {
				So(p.CoreMissing(), ShouldBeTrue)
				So(p.Name.OK(), ShouldBeFalse)
				So(p.DisplayName(), ShouldNotBeEmpty)
			})
		})
	})
}
