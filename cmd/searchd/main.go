package main

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	chiMiddleware "github.com/go-chi/chi/v5/middleware"
	"go.uber.org/zap"

	"github.com/opendash/searchd/internal/config"
	"github.com/opendash/searchd/internal/db"
	dbRedis "github.com/opendash/searchd/internal/db/redis"
	logpkg "github.com/opendash/searchd/internal/logger"
	"github.com/opendash/searchd/internal/metrics"
	"github.com/opendash/searchd/internal/provider/memory"
	"github.com/opendash/searchd/internal/ratelimit"
	"github.com/opendash/searchd/internal/registry"
	chiTransport "github.com/opendash/searchd/internal/transport/chi"
	healthuc "github.com/opendash/searchd/internal/usecase/health"
	searchuc "github.com/opendash/searchd/internal/usecase/search"
	"github.com/opendash/searchd/internal/version"
)

func main() {
	// Load configuration based on ENV
	env := config.GetEnv()

	cfg, err := config.Load(env)
	if err != nil {
		panic("failed to load config: " + err.Error())
	}

	logger, err := logpkg.New(env, cfg.Logging.Level)
	if err != nil {
		panic("failed to create logger: " + err.Error())
	}
	defer func() { _ = logger.Sync() }()

	logger.Info("Starting searchd API server",
		zap.String("version", version.Version),
		zap.String("commit", version.Commit),
		zap.String("env", env),
		zap.Int("http_port", cfg.HTTP.Port),
		zap.Int("providers", len(cfg.Catalog.Providers)),
	)

	// Shared counter store is optional; without it rate limiting is per-instance.
	var store db.Store
	if len(cfg.Database.Addrs) > 0 {
		store, err = dbRedis.NewStore(dbRedis.Config{
			Addrs:    cfg.Database.Addrs,
			Password: cfg.Database.Password,
		})
		if err != nil {
			logger.Fatal("Failed to create counter store", zap.Error(err))
		}
		defer store.Close()

		ctx := context.Background()
		if err := store.WaitForReady(ctx, time.Duration(cfg.Database.ReadinessTimeout)*time.Second); err != nil {
			logger.Fatal("Counter store not ready", zap.Error(err))
		}
		logger.Info("Connected to counter store", zap.Strings("addrs", cfg.Database.Addrs))
	}

	// Register search metrics explicitly (no init())
	metrics.RegisterSearchMetrics()

	// Rate limiter — shared counters when a store is configured, in-memory otherwise.
	var counters ratelimit.CounterStore
	if store != nil {
		counters = ratelimit.NewKVStore(store)
	} else {
		counters = ratelimit.NewMemoryStore()
		logger.Info("Rate limiting uses in-process counters")
	}
	limiter := ratelimit.New(counters, map[ratelimit.Class]ratelimit.Policy{
		ratelimit.ClassSearch: {
			Limit:  cfg.RateLimit.Search.Limit,
			Window: time.Duration(cfg.RateLimit.Search.WindowSec) * time.Second,
		},
		ratelimit.ClassQuickSearch: {
			Limit:  cfg.RateLimit.QuickSearch.Limit,
			Window: time.Duration(cfg.RateLimit.QuickSearch.WindowSec) * time.Second,
		},
	}, logger)

	// Provider registry — populated once at startup from the catalog.
	reg := registry.New(logger)
	for _, pc := range cfg.Catalog.Providers {
		records, err := memory.LoadCatalog(pc.File)
		if err != nil {
			logger.Fatal("Failed to load provider catalog",
				zap.String("entity_type", pc.EntityType),
				zap.Error(err),
			)
		}
		reg.Register(memory.New(pc.EntityType, pc.Permission, records))
		logger.Info("Registered search provider",
			zap.String("entity_type", pc.EntityType),
			zap.String("permission", pc.Permission),
			zap.Int("records", len(records)),
		)
	}

	// Use case services
	searchSvc := searchuc.New(reg, limiter, searchuc.Config{
		ProviderTimeout: time.Duration(cfg.Search.ProviderTimeoutMS) * time.Millisecond,
		MaxConcurrent:   cfg.Search.MaxConcurrent,
		QuickLimit:      cfg.Search.QuickLimit,
	}, logger)

	var pinger healthuc.DBPinger
	if store != nil {
		pinger = store
	}
	healthSvc := healthuc.New(pinger, reg)

	// Create chi server
	server := chiTransport.NewServer(searchSvc, healthSvc, logger)

	authKeys := make([]chiTransport.Key, 0, len(cfg.Auth.APIKeys))
	for _, k := range cfg.Auth.APIKeys {
		authKeys = append(authKeys, chiTransport.Key{
			Key:         k.Key,
			UserID:      k.UserID,
			Permissions: k.Permissions,
		})
	}

	r := chi.NewRouter()
	r.Use(jsonRecoverer(logger))
	r.Use(chiMiddleware.RequestID)
	r.Use(wideEventMiddleware(logger))
	r.Use(chiTransport.AuthMiddleware(authKeys, cfg.Auth.DefaultPermissions))
	r.Use(metrics.Middleware())
	server.Routes(r)

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
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
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
					_ = json.NewEncoder(w).Encode(map[string]string{
						"code":    "internal_error",
						"message": "internal error",
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

			// Set X-Request-ID in response header
			if requestID != "" {
				w.Header().Set("X-Request-ID", requestID)
			}

			// Per-request logger with request_id
			reqLogger := logger.With(zap.String("request_id", requestID))
			ctx := logpkg.ContextWithLogger(r.Context(), reqLogger)

			ww := chiMiddleware.NewWrapResponseWriter(w, r.ProtoMajor)
			next.ServeHTTP(ww, r.WithContext(ctx))

			// Canonical log line — one line per request
			reqLogger.Info("http_request",
				zap.String("method", r.Method),
				zap.String("path", r.URL.Path),
				zap.Int("status", ww.Status()),
				zap.Duration("latency", time.Since(start)),
				zap.String("ip", r.RemoteAddr),
				zap.String("user_agent", r.UserAgent()),
				zap.Int("response_bytes", ww.BytesWritten()),
			)
		})
	}
}
