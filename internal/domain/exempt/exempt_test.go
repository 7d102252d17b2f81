package exempt_test

import (
	"context"
	"errors"
	"testing"

	. "github.com/smartystreets/goconvey/convey"

	"github.com/squadgate/gatekeeper/internal/domain/exempt"
	"github.com/squadgate/gatekeeper/internal/domain/model"
	"github.com/squadgate/gatekeeper/pkg/logger"
)

type stubSource struct {
	ids   []model.Identifier
	err   error
	calls int
}

func (s *stubSource) Fetch(_ context.Context) ([]model.Identifier, error) {
	s.calls++
	return s.ids, s.err
}

func TestMain(m *testing.M) {
	_ = logger.Init()
	m.Run()
}

func TestResolverMembership(t *testing.T) {
	Convey("Given a resolver with local and remote sets", t, func() {
		ctx := context.Background()
		source := &stubSource{ids: []model.Identifier{"76561198000000002"}}
		r := exempt.New([]model.Identifier{"76561198000000001"}, source)
		r.RefreshRemote(ctx)

		Convey("Then local identifiers are exempt", func() {
			So(r.IsExempt("76561198000000001"), ShouldBeTrue)
		})

		Convey("Then remote identifiers are exempt", func() {
			So(r.IsExempt("76561198000000002"), ShouldBeTrue)
		})

		Convey("Then unknown identifiers are not exempt", func() {
			So(r.IsExempt("76561198000000003"), ShouldBeFalse)
		})

		Convey("Then sizes report both sets", func() {
			local, remote := r.Sizes()
			So(local, ShouldEqual, 1)
			So(remote, ShouldEqual, 1)
		})
	})
}

func TestResolverDegradesOnRefreshFailure(t *testing.T) {
	Convey("Given a remote source that starts failing", t, func() {
		ctx := context.Background()
		source := &stubSource{ids: []model.Identifier{"76561198000000002"}}
		r := exempt.New([]model.Identifier{"76561198000000001"}, source)
		r.RefreshRemote(ctx)
		So(r.IsExempt("76561198000000002"), ShouldBeTrue)

		Convey("When the next refresh fails", func() {
			source.err = errors.New("connection refused")
			r.RefreshRemote(ctx)

			Convey("Then the remote set degrades to empty", func() {
				So(r.IsExempt("76561198000000002"), ShouldBeFalse)
				_, remote := r.Sizes()
				So(remote, ShouldEqual, 0)
			})

			Convey("Then local exemptions still hold", func() {
				So(r.IsExempt("76561198000000001"), ShouldBeTrue)
			})
		})
	})
}

func TestResolverWithoutSource(t *testing.T) {
	Convey("Given a resolver with no remote source", t, func() {
		r := exempt.New([]model.Identifier{"76561198000000001"}, nil)

		Convey("Then refresh is a no-op and local checks work", func() {
			r.RefreshRemote(context.Background())
			So(r.IsExempt("76561198000000001"), ShouldBeTrue)
			So(r.IsExempt("76561198000000009"), ShouldBeFalse)
		})
	})
}
