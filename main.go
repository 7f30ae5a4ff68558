package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/redis/go-redis/v9"
	zlog "github.com/rs/zerolog/log"

	"github.com/traincore/dashboard-bff/internal/api"
	"github.com/traincore/dashboard-bff/internal/api/handlers"
	"github.com/traincore/dashboard-bff/internal/cache"
	"github.com/traincore/dashboard-bff/internal/config"
	"github.com/traincore/dashboard-bff/internal/logger"
	"github.com/traincore/dashboard-bff/internal/tracing"
	"github.com/traincore/dashboard-bff/internal/upstream"
	"github.com/traincore/dashboard-bff/internal/workflow"
	"github.com/traincore/dashboard-bff/middleware"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}

	logger.Init(cfg.LogLevel, cfg.LogFormat)
	zlog.Logger = logger.Log

	ctx := context.Background()

	tp, err := tracing.Init(ctx, tracing.Config{
		ServiceName:    "dashboard-bff",
		ServiceVersion: "1.0.0",
		OTLPEndpoint:   cfg.OTLPEndpoint,
		Enabled:        cfg.TracingEnabled,
	})
	if err != nil {
		logger.Log.Fatal().Err(err).Msg("tracing init failed")
	}
	defer tp.Shutdown(ctx)

	// Redis backs the template cache and the write rate limiter. Both fail
	// open, so a missing REDIS_ADDR just disables them.
	var rdb *redis.Client
	if cfg.RedisAddr != "" {
		rdb = redis.NewClient(&redis.Options{
			Addr:     cfg.RedisAddr,
			Password: cfg.RedisPass,
			DB:       cfg.RedisDB,
		})
		pingCtx, cancel := context.WithTimeout(ctx, 2*time.Second)
		if err := rdb.Ping(pingCtx).Err(); err != nil {
			logger.Log.Warn().Err(err).Msg("redis unreachable, cache and rate limiting degraded")
		}
		cancel()
	}

	core := upstream.NewClient(cfg.CoreAPIURL, upstream.DefaultClientConfig())
	attendeeClient := upstream.NewAttendeeClient(core, cfg.ScanImageTimeout, cfg.ScanPDFTimeout)
	courseClient := upstream.NewCourseClient(core)
	templateClient := upstream.NewTemplateClient(core)
	waitlistClient := upstream.NewWaitlistClient(core)

	tplCache := cache.NewTemplateCache(rdb, cfg.TemplateCacheTTL)
	audit := workflow.NewAudit(logger.Log)
	orchestrator := workflow.NewOrchestrator(courseClient, waitlistClient, audit, logger.Log)

	deps := api.Deps{
		Attendees: handlers.NewAttendeeHandler(attendeeClient, waitlistClient, templateClient, tplCache),
		Courses:   handlers.NewCourseHandler(courseClient, templateClient, orchestrator, audit),
		Templates: handlers.NewTemplateHandler(templateClient, courseClient, waitlistClient, orchestrator, tplCache),
		Waitlist:  handlers.NewWaitlistHandler(waitlistClient),
		Remarks:   handlers.NewRemarkHandler(attendeeClient),
		Documents: handlers.NewDocumentHandler(attendeeClient),
		Readiness: handlers.NewReadinessHandler(
			handlers.NewHTTPReadinessChecker("core-api", cfg.CoreAPIURL+"/healthz"),
			handlers.NewRedisReadinessChecker(rdb),
		),
		Limiter: middleware.NewRedisRateLimiter(rdb),
	}

	router, err := api.NewRouter(cfg, deps)
	if err != nil {
		logger.Log.Fatal().Err(err).Msg("router setup failed")
	}

	srv := &http.Server{
		Addr:              fmt.Sprintf(":%d", cfg.Port),
		Handler:           router,
		ReadHeaderTimeout: 5 * time.Second,
	}

	go func() {
		logger.Log.Info().Int("port", cfg.Port).Str("env", cfg.AppEnv).Msg("dashboard bff starting")
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Log.Fatal().Err(err).Msg("server failed")
		}
	}()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, os.Interrupt, syscall.SIGTERM)
	<-stop

	shutdownCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Log.Error().Err(err).Msg("shutdown incomplete")
	}
	logger.Log.Info().Msg("dashboard bff stopped")
}
