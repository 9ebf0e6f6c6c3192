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

	"github.com/edulab-cloud/mentor/internal/config"
	"github.com/edulab-cloud/mentor/internal/corpus"
	"github.com/edulab-cloud/mentor/internal/db"
	dbRedis "github.com/edulab-cloud/mentor/internal/db/redis"
	dbSqlite "github.com/edulab-cloud/mentor/internal/db/sqlite"
	logpkg "github.com/edulab-cloud/mentor/internal/logger"
	"github.com/edulab-cloud/mentor/internal/metrics"
	"github.com/edulab-cloud/mentor/internal/repository/ledger"
	chiTransport "github.com/edulab-cloud/mentor/internal/transport/chi"
	chatuc "github.com/edulab-cloud/mentor/internal/usecase/chat"
	healthuc "github.com/edulab-cloud/mentor/internal/usecase/health"
	interactionuc "github.com/edulab-cloud/mentor/internal/usecase/interaction"
	recommenduc "github.com/edulab-cloud/mentor/internal/usecase/recommend"
	"github.com/edulab-cloud/mentor/internal/version"
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

	logger.Info("Starting mentor API server",
		zap.String("version", version.Version),
		zap.String("commit", version.Commit),
		zap.String("env", env),
		zap.Int("http_port", cfg.HTTP.Port),
		zap.String("ledger_driver", cfg.Ledger.Driver),
	)

	// Create ledger store based on driver
	var store db.Store
	switch cfg.Ledger.Driver {
	case "redis":
		store, err = dbRedis.NewStore(dbRedis.Config{
			Addrs:    cfg.Ledger.Addrs,
			Password: cfg.Ledger.Password,
		})
	case "sqlite":
		store, err = dbSqlite.NewStore(cfg.Ledger.Path)
	default:
		logger.Fatal("Unknown ledger driver", zap.String("driver", cfg.Ledger.Driver))
	}
	if err != nil {
		logger.Fatal("Failed to create ledger store", zap.Error(err))
	}
	defer store.Close()

	// Wait for the ledger store to be ready
	ctx := context.Background()
	if err := store.WaitForReady(ctx, time.Duration(cfg.Ledger.ReadinessTimeout)*time.Second); err != nil {
		logger.Fatal("Ledger store not ready", zap.Error(err))
	}
	logger.Info("Connected to ledger store")

	// Load the immutable corpus and build the similarity index once,
	// before any request traffic.
	cat, err := corpus.Load(cfg.Corpus.KBPath, cfg.Corpus.MaterialsPath)
	if err != nil {
		logger.Fatal("Failed to load corpus", zap.Error(err))
	}
	index := chatuc.BuildIndex(cat.Questions())
	logger.Info("Corpus loaded",
		zap.Int("kb_entries", len(cat.Entries)),
		zap.Int("materials", len(cat.Materials)),
	)

	// Register domain metrics explicitly (no init())
	metrics.RegisterDomainMetrics()

	// Create ledger repository and use case services
	ledgerRepo := ledger.New(store, cfg.Storage.KeyPrefix)

	chatSvc := chatuc.New(index, cat.Entries, cfg.Chat.SimilarityThreshold, ledgerRepo, logger)
	recommendSvc := recommenduc.New(cat.Materials, ledgerRepo, ledgerRepo, logger)
	interactionSvc := interactionuc.New(ledgerRepo, cat, logger)
	healthSvc := healthuc.New(store)

	// Create chi server
	server := chiTransport.NewServer(
		chatSvc, recommendSvc, interactionSvc, healthSvc,
		cfg.Recommend.DefaultNum, cfg.Recommend.MaxNum,
		logger,
	)

	r := chi.NewRouter()
	r.Use(jsonRecoverer(logger))
	r.Use(chiMiddleware.RequestID)
	r.Use(wideEventMiddleware(logger))
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

			requestID := chiMiddleware.GetReqID(r.Context())
			if requestID != "" {
				w.Header().Set("X-Request-ID", requestID)
			}

			reqLogger := logger.With(zap.String("request_id", requestID))
			ctx := logpkg.ContextWithLogger(r.Context(), reqLogger)

			ww := chiMiddleware.NewWrapResponseWriter(w, r.ProtoMajor)
			next.ServeHTTP(ww, r.WithContext(ctx))

			// Canonical log line, one per request
			reqLogger.Info("http_request",
				zap.String("method", r.Method),
				zap.String("path", r.URL.Path),
				zap.Int("status", ww.Status()),
				zap.Duration("latency", time.Since(start)),
				zap.String("ip", r.RemoteAddr),
				zap.Int("response_bytes", ww.BytesWritten()),
			)
		})
	}
}
