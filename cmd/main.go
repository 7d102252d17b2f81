package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"

	"github.com/squadgate/gatekeeper/internal/adapters/audit"
	"github.com/squadgate/gatekeeper/internal/adapters/ban"
	"github.com/squadgate/gatekeeper/internal/adapters/http/api"
	"github.com/squadgate/gatekeeper/internal/adapters/rconlog"
	"github.com/squadgate/gatekeeper/internal/adapters/steam"
	"github.com/squadgate/gatekeeper/internal/adapters/whitelist"
	app "github.com/squadgate/gatekeeper/internal/app"
	"github.com/squadgate/gatekeeper/internal/config"
	"github.com/squadgate/gatekeeper/internal/domain/enforce"
	"github.com/squadgate/gatekeeper/internal/domain/exempt"
	"github.com/squadgate/gatekeeper/pkg/logger"
)

// HTTP server timeout constants.
const (
	readTimeout       = 10 * time.Second
	writeTimeout      = 10 * time.Second
	idleTimeout       = 60 * time.Second
	readHeaderTimeout = 5 * time.Second
	shutdownTimeout   = 30 * time.Second
)

func main() {
	// Disable default Go metrics collection; the pipeline exposes its own.
	prometheus.Unregister(collectors.NewGoCollector())
	prometheus.Unregister(collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))

	if err := logger.Init(); err != nil {
		os.Stderr.WriteString("failed to initialize logging: " + err.Error() + "\n")
		return
	}

	loggerInstance := logger.Get()

	// Root context with cancel on SIGINT/SIGTERM.
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// Load configuration (defaults -> optional file -> env)
	cfg, err := config.Load(ctx)
	if err != nil {
		os.Stderr.WriteString("failed to load config: " + err.Error() + "\n")
		return
	}

	// Apply configured log level (fallback to info on invalid input)
	if err := logger.SetLevelString(cfg.LogLevel); err != nil {
		loggerInstance.Warn(ctx, "invalid log_level; falling back to info", logger.String("log_level", cfg.LogLevel), logger.Error(err))
		_ = logger.SetLevelString("info")
	}

	svc := buildService(ctx, cfg, loggerInstance)

	// Run the poll loop alongside the ops HTTP server.
	go func() {
		if err := svc.Run(ctx); err != nil && err != context.Canceled {
			loggerInstance.Error(ctx, "service stopped", logger.Error(err))
		}
	}()

	// Ops HTTP mux: health and stats only; no business routes.
	mux := http.NewServeMux()
	api.Register(mux, svc)

	srv := &http.Server{
		Addr:              cfg.Addr,
		Handler:           mux,
		ReadTimeout:       readTimeout,
		WriteTimeout:      writeTimeout,
		IdleTimeout:       idleTimeout,
		ReadHeaderTimeout: readHeaderTimeout,
	}

	go func() {
		loggerInstance.Info(ctx, "starting ops HTTP server", logger.String("addr", cfg.Addr))
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			os.Stderr.WriteString("HTTP server failed: " + err.Error() + "\n")
			return
		}
	}()

	// Wait for shutdown signal
	<-ctx.Done()
	loggerInstance.Info(ctx, "shutting down...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		loggerInstance.Error(ctx, "server shutdown failed", logger.Error(err))
	}

	loggerInstance.Info(ctx, "stopped")
}

// buildService wires the pipeline collaborators from configuration.
func buildService(ctx context.Context, cfg *config.Config, loggerInstance logger.Logger) *app.Service {
	timeout := time.Duration(cfg.RequestTimeoutSeconds) * time.Second
	retryDelay := time.Duration(cfg.RetryDelaySeconds) * time.Second

	// A missing local whitelist file is not fatal; the resolver degrades
	// to the remote set.
	local, err := whitelist.LoadLocal(cfg.WhitelistPath)
	if err != nil {
		loggerInstance.Warn(ctx, "local whitelist unavailable",
			logger.String("path", cfg.WhitelistPath),
			logger.Error(err),
		)
	}

	var remote exempt.Source
	if cfg.CloudWhitelistURL != "" {
		remote = whitelist.NewRemoteSource(cfg.CloudWhitelistURL, whitelist.WithTimeout(timeout))
	}
	exempter := exempt.New(local, remote)

	steamClient := steam.NewClient(cfg.SteamAPIKey,
		steam.WithBaseURL(cfg.SteamAPIURL),
		steam.WithAppID(cfg.AppID),
		steam.WithTimeout(timeout),
	)
	retriever := steam.NewRetriever(steamClient,
		steam.WithAttempts(cfg.RetryAttempts),
		steam.WithRetryDelay(retryDelay),
	)

	banClient := ban.NewClient(cfg.BanURL,
		ban.WithDuration(cfg.BanDuration),
		ban.WithAttempts(cfg.RetryAttempts),
		ban.WithRetryDelay(retryDelay),
		ban.WithTimeout(timeout),
	)

	enforcer := enforce.New(banClient, exempter,
		enforce.WithThreshold(cfg.BanThreshold),
		enforce.WithWindowLimit(cfg.BanLimit),
		enforce.WithWindowDuration(time.Duration(cfg.BanWindowMinutes)*time.Minute),
	)

	return app.New(
		app.WithLogger(loggerInstance),
		app.WithLogSource(rconlog.NewReader(cfg.RconLogPath)),
		app.WithRetriever(retriever),
		app.WithExempter(exempter),
		app.WithEnforcer(enforcer),
		app.WithAuditSink(audit.NewFileSink(cfg.SuspectLogPath)),
		app.WithPollInterval(time.Duration(cfg.PollIntervalSeconds)*time.Second),
	)
}
