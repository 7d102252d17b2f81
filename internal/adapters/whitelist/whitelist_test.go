package whitelist_test

import (
	"context"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"

	. "github.com/smartystreets/goconvey/convey"

	"github.com/squadgate/gatekeeper/internal/adapters/whitelist"
	"github.com/squadgate/gatekeeper/internal/domain/model"
)

func TestLoadLocal(t *testing.T) {
	Convey("Given a local whitelist file", t, func() {
		dir := t.TempDir()
		path := filepath.Join(dir, "white.txt")
		content := "76561198000000001\n\n  76561198000000002  \n76561198000000003"
		So(os.WriteFile(path, []byte(content), 0o644), ShouldBeNil)

		Convey("When loaded", func() {
			ids, err := whitelist.LoadLocal(path)

			Convey("Then identifiers are parsed, trimmed, and blanks skipped", func() {
				So(err, ShouldBeNil)
				So(ids, ShouldResemble, []model.Identifier{
					"76561198000000001",
					"76561198000000002",
					"76561198000000003",
				})
			})
		})
	})

	Convey("Given a missing file", t, func() {
		_, err := whitelist.LoadLocal(filepath.Join(t.TempDir(), "absent.txt"))
		So(err, ShouldNotBeNil)
	})
}

func TestRemoteSourceFetch(t *testing.T) {
	Convey("Given a remote whitelist endpoint", t, func() {
		ctx := context.Background()

		Convey("When the endpoint serves a newline-separated list", func() {
			srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
				_, _ = w.Write([]byte("76561198000000001\n76561198000000002\n"))
			}))
			defer srv.Close()

			ids, err := whitelist.NewRemoteSource(srv.URL).Fetch(ctx)

			Convey("Then both identifiers are returned", func() {
				So(err, ShouldBeNil)
				So(len(ids), ShouldEqual, 2)
			})
		})

		Convey("When the endpoint returns a non-2xx status", func() {
			srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
				w.WriteHeader(http.StatusServiceUnavailable)
			}))
			defer srv.Close()

			ids, err := whitelist.NewRemoteSource(srv.URL).Fetch(ctx)

			Convey("Then the fetch fails", func() {
				So(err, ShouldNotBeNil)
				So(ids, ShouldBeNil)
			})
		})

		Convey("When the endpoint is unreachable", func() {
			srv := httptest.NewServer(http.HandlerFunc(func(http.ResponseWriter, *http.Request) {}))
			srv.Close()

			_, err := whitelist.NewRemoteSource(srv.URL).Fetch(ctx)
			So(err, ShouldNotBeNil)
		})

		Convey("When the body is empty", func() {
			srv := httptest.NewServer(http.HandlerFunc(func(http.ResponseWriter, *http.Request) {}))
			defer srv.Close()

			ids, err := whitelist.NewRemoteSource(srv.URL).Fetch(ctx)
			So(err, ShouldBeNil)
			So(ids, ShouldBeEmpty)
		})
	})
}
