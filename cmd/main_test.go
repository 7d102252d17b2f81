package main

import (
	"context"
	"net/http"
	"os"
	"testing"

	"github.com/smartystreets/goconvey/convey"

	"github.com/squadgate/gatekeeper/internal/adapters/http/api"
	"github.com/squadgate/gatekeeper/internal/config"
	"github.com/squadgate/gatekeeper/pkg/logger"
)

func TestMain(m *testing.M) {
	_ = logger.Init()
	os.Exit(m.Run())
}

func TestMainFunction(t *testing.T) {
	convey.Convey("Given the main application", t, func() {
		convey.Convey("When testing configuration loading", func() {
			_ = os.Setenv("GATEKEEPER_STEAM_API_KEY", "test-key")
			_ = os.Setenv("GATEKEEPER_BAN_URL", "http://localhost/ban")
			_ = os.Setenv("GATEKEEPER_ADDR", ":8080")
			defer func() {
				_ = os.Unsetenv("GATEKEEPER_STEAM_API_KEY")
				_ = os.Unsetenv("GATEKEEPER_BAN_URL")
				_ = os.Unsetenv("GATEKEEPER_ADDR")
			}()

			convey.Convey("Then configuration should be loadable", func() {
				ctx := context.Background()
				cfg, err := config.Load(ctx)
				convey.So(err, convey.ShouldBeNil)
				convey.So(cfg, convey.ShouldNotBeNil)
				convey.So(cfg.Addr, convey.ShouldEqual, ":8080")
				convey.So(cfg.SteamAPIKey, convey.ShouldEqual, "test-key")
				convey.So(cfg.AppID, convey.ShouldEqual, 393380)
			})
		})

		convey.Convey("When testing service wiring", func() {
			ctx := context.Background()
			cfg := config.New()
			cfg.SteamAPIKey = "test-key"
			cfg.BanURL = "http://localhost/ban"
			cfg.CloudWhitelistURL = "http://localhost/whitelist"

			convey.Convey("Then the full pipeline should be buildable", func() {
				svc := buildService(ctx, cfg, logger.Get())
				convey.So(svc, convey.ShouldNotBeNil)
				convey.So(svc.GetStats(), convey.ShouldNotBeNil)
			})

			convey.Convey("And ops routes should be registrable against it", func() {
				svc := buildService(ctx, cfg, logger.Get())
				mux := http.NewServeMux()
				convey.So(func() { api.Register(mux, svc) }, convey.ShouldNotPanic)
			})
		})
	})
}

func TestMainApplicationErrorHandling(t *testing.T) {
	convey.Convey("Given main application error handling", t, func() {
		convey.Convey("When required configuration is missing", func() {
			// No steam_api_key or ban_url in the environment.
			convey.Convey("Then configuration loading should fail", func() {
				ctx := context.Background()
				cfg, err := config.Load(ctx)
				convey.So(err, convey.ShouldNotBeNil)
				convey.So(cfg, convey.ShouldBeNil)
			})
		})
	})
}
