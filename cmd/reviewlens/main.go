package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	chiMiddleware "github.com/go-chi/chi/v5/middleware"
	"go.uber.org/zap"

	"github.com/kailas-cloud/reviewlens/internal/config"
	"github.com/kailas-cloud/reviewlens/internal/db"
	dbRedis "github.com/kailas-cloud/reviewlens/internal/db/redis"
	logpkg "github.com/kailas-cloud/reviewlens/internal/logger"
	"github.com/kailas-cloud/reviewlens/internal/metrics"
	"github.com/kailas-cloud/reviewlens/internal/repository/respcache"
	chiTransport "github.com/kailas-cloud/reviewlens/internal/transport/chi"
	"github.com/kailas-cloud/reviewlens/internal/transport/discovery"
	healthuc "github.com/kailas-cloud/reviewlens/internal/usecase/health"
	searchuc "github.com/kailas-cloud/reviewlens/internal/usecase/search"
	usageuc "github.com/kailas-cloud/reviewlens/internal/usecase/usage"
	"github.com/kailas-cloud/reviewlens/internal/version"
)

// cacheReadinessTimeout bounds the wait for the cache store at startup.
const cacheReadinessTimeout = 10 * time.Second

func main() {
	// Load configuration based on ENV
	env := config.GetEnv()

	cfg, err := config.Load(env)
	if err != nil {
		panic("failed to load config: " + err.Error())
	}

	logger, err := logpkg.NewLogger(env, cfg.Logging.Level)
	if err != nil {
		panic("failed to create logger: " + err.Error())
	}
	defer func() { _ = logger.Sync() }()

	// Validated by config.Load; the target never changes after this point.
	target, err := cfg.Discovery.Target()
	if err != nil {
		logger.Fatal("Invalid discovery target", zap.Error(err))
	}

	logger.Info("Starting reviewlens API server",
		zap.String("version", version.Version),
		zap.String("commit", version.Commit),
		zap.String("env", env),
		zap.Int("http_port", cfg.HTTP.Port),
		zap.String("api_version", string(target.Version())),
		zap.Bool("cache_enabled", cfg.Cache.Enabled),
		zap.Int64("monthly_query_limit", cfg.Usage.MonthlyLimit),
	)

	// Register upstream metrics explicitly (no init())
	metrics.RegisterUpstreamMetrics()

	var store db.Store
	if cfg.Cache.Enabled {
		rs, err := dbRedis.NewStore(dbRedis.Config{
			Addrs:    cfg.Cache.Addrs,
			Password: cfg.Cache.Password,
		})
		if err != nil {
			logger.Fatal("Failed to create cache store", zap.Error(err))
		}
		defer rs.Close()

		if err := rs.WaitForReady(context.Background(), cacheReadinessTimeout); err != nil {
			logger.Fatal("Cache store not ready", zap.Error(err))
		}
		logger.Info("Connected to cache store", zap.Strings("addrs", cfg.Cache.Addrs))
		store = rs
	}

	upstreamTimeout := time.Duration(cfg.Discovery.TimeoutSec) * time.Second
	client := discovery.NewClient(&discovery.Config{
		BaseURL:     cfg.Discovery.BaseURL,
		APIKey:      cfg.Discovery.APIKey,
		VersionDate: cfg.Discovery.VersionDate,
		Timeout:     upstreamTimeout,
		Logger:      logger,
	})

	usageSvc, querier := buildQuerier(
		context.Background(), client, upstreamTimeout, store, cfg.Cache, cfg.Usage, logger,
	)
	searchSvc := searchuc.New(target, querier, logger)

	// Pass nil interface (not typed nil pointer!) when the cache is disabled.
	var cachePinger healthuc.CachePinger
	if store != nil {
		cachePinger = store
	}
	healthSvc := healthuc.New(cachePinger, client, target)

	server := chiTransport.NewServer(searchSvc, usageSvc, healthSvc, logger)

	r := chi.NewRouter()
	r.Use(jsonRecoverer(logger))
	r.Use(chiMiddleware.RequestID)
	r.Use(wideEventMiddleware(logger))
	r.Use(metrics.Middleware())
	server.Register(r)

	addr := fmt.Sprintf(":%d", cfg.HTTP.Port)
	srv := &http.Server{
		Addr:         addr,
		Handler:      r,
		ReadTimeout:  time.Duration(cfg.HTTP.ReadTimeoutSec) * time.Second,
		WriteTimeout: time.Duration(cfg.HTTP.WriteTimeoutSec) * time.Second,
	}

	// Graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt, syscall.SIGTERM)

	go func() {
		logger.Info("Starting HTTP server", zap.String("addr", addr))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Fatal("HTTP server error", zap.Error(err))
		}
	}()

	<-quit
	logger.Info("Received shutdown signal")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), time.Duration(cfg.HTTP.ShutdownSec)*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("Error during shutdown", zap.Error(err))
	}

	logger.Info("Server stopped gracefully")
}

// buildQuerier assembles the decorator chain: Discovery -> Counting -> Shared -> Cached.
// Cache hits and callers joining an in-flight query never reach the usage counter.
func buildQuerier(
	ctx context.Context,
	client *discovery.Client,
	upstreamTimeout time.Duration,
	store db.Store,
	cacheCfg config.CacheConfig,
	usageCfg config.UsageConfig,
	logger *zap.Logger,
) (*usageuc.Service, searchuc.Querier) {
	var usageStore usageuc.Store
	if store != nil {
		usageStore = store
	}
	usageSvc := usageuc.New(usageStore, cacheCfg.KeyPrefix)

	counting := usageuc.NewCountingQuerier(client, usageSvc, logger)
	if usageCfg.MonthlyLimit > 0 {
		budget := usageuc.NewBudget(usageCfg.MonthlyLimit, usageuc.BudgetAction(usageCfg.LimitAction), logger)
		budget.Load(ctx, usageSvc)
		counting.WithBudget(budget)
	}

	var querier searchuc.Querier = discovery.NewSharedQuerier(counting, upstreamTimeout)
	if store != nil {
		querier = respcache.New(querier, store, respcache.Config{
			KeyPrefix: cacheCfg.KeyPrefix,
			TTL:       time.Duration(cacheCfg.TTLSec) * time.Second,
		}, metrics.ResponseCacheTotal, logger)
	}
	return usageSvc, querier
}

// jsonRecoverer is a recovery middleware that returns JSON instead of a plain text stacktrace.
func jsonRecoverer(logger *zap.Logger) func(next http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			defer func() {
				if rvr := recover(); rvr != nil {
					logger.Error("panic recovered",
						zap.Any("panic", rvr),
						zap.Stack("stacktrace"),
					)
					w.Header().Set("Content-Type", "application/json")
					w.WriteHeader(http.StatusInternalServerError)
					_ = json.NewEncoder(w).Encode(chiTransport.ErrorResponse{
						Code:    chiTransport.CodeInternalError,
						Message: "internal error",
					})
				}
			}()
			next.ServeHTTP(w, r)
		})
	}
}

// wideEventMiddleware emits a canonical log line per request and propagates X-Request-ID.
func wideEventMiddleware(logger *zap.Logger) func(next http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()

			// chi.middleware.RequestID already placed request_id in context
			requestID := chiMiddleware.GetReqID(r.Context())
			if requestID != "" {
				w.Header().Set("X-Request-ID", requestID)
			}

			reqLogger := logger.With(zap.String("request_id", requestID))
			ctx := logpkg.ContextWithLogger(r.Context(), reqLogger)

			ww := chiMiddleware.NewWrapResponseWriter(w, r.ProtoMajor)
			next.ServeHTTP(ww, r.WithContext(ctx))

			reqLogger.Info("http_request",
				zap.String("method", r.Method),
				zap.String("path", r.URL.Path),
				zap.String("query", r.URL.RawQuery),
				zap.Int("status", ww.Status()),
				zap.Duration("latency", time.Since(start)),
				zap.String("ip", r.RemoteAddr),
				zap.String("user_agent", r.UserAgent()),
				zap.Int("response_bytes", ww.BytesWritten()),
			)
		})
	}
}
