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
	"github.com/joho/godotenv"
	"go.uber.org/zap"

	"github.com/kailas-cloud/filerec/internal/config"
	"github.com/kailas-cloud/filerec/internal/db"
	dbRedis "github.com/kailas-cloud/filerec/internal/db/redis"
	"github.com/kailas-cloud/filerec/internal/domain"
	"github.com/kailas-cloud/filerec/internal/domain/tag"
	logpkg "github.com/kailas-cloud/filerec/internal/logger"
	"github.com/kailas-cloud/filerec/internal/metrics"
	"github.com/kailas-cloud/filerec/internal/repository/embcache"
	filerepo "github.com/kailas-cloud/filerec/internal/repository/file"
	historyrepo "github.com/kailas-cloud/filerec/internal/repository/history"
	"github.com/kailas-cloud/filerec/internal/repository/imagecache"
	chiTransport "github.com/kailas-cloud/filerec/internal/transport/chi"
	openaiEmb "github.com/kailas-cloud/filerec/internal/transport/openai"
	"github.com/kailas-cloud/filerec/internal/transport/websearch"
	embeddinguc "github.com/kailas-cloud/filerec/internal/usecase/embedding"
	healthuc "github.com/kailas-cloud/filerec/internal/usecase/health"
	imagesearchuc "github.com/kailas-cloud/filerec/internal/usecase/imagesearch"
	prefsuc "github.com/kailas-cloud/filerec/internal/usecase/prefs"
	recommenduc "github.com/kailas-cloud/filerec/internal/usecase/recommend"
	"github.com/kailas-cloud/filerec/internal/version"
)

func main() {
	// .env is optional; real env vars win either way.
	_ = godotenv.Load()

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

	logger.Info("Starting filerec API server",
		zap.String("version", version.Version),
		zap.String("commit", version.Commit),
		zap.String("env", env),
		zap.Int("http_port", cfg.HTTP.Port),
		zap.Strings("db_addrs", cfg.Database.Addrs),
	)

	var store db.Store
	store, err = dbRedis.NewStore(dbRedis.Config{
		Addrs:    cfg.Database.Addrs,
		Password: cfg.Database.Password,
	})
	if err != nil {
		logger.Fatal("Failed to create database store", zap.Error(err))
	}
	defer store.Close()

	ctx := context.Background()
	if err := store.WaitForReady(ctx, time.Duration(cfg.Database.ReadinessTimeout)*time.Second); err != nil {
		logger.Fatal("Database not ready", zap.Error(err))
	}
	logger.Info("Connected to database")

	// Register metrics explicitly (no init())
	metrics.RegisterEmbeddingMetrics()
	metrics.RegisterImageSearchMetrics()

	// Embedder chain: OpenAI -> Cached -> Safe (zero-vector degradation)
	base := openaiEmb.NewEmbedder(&openaiEmb.Config{
		APIKey:     cfg.Embedding.APIKey,
		BaseURL:    cfg.Embedding.BaseURL,
		Model:      cfg.Embedding.Model,
		Dimensions: cfg.Embedding.Dimensions,
		Provider:   "openai",
		Logger:     logger,
	})
	var embedder domain.Embedder = embcache.New(base, store, metrics.EmbeddingCacheTotal, logger)
	embedder = embeddinguc.NewSafeEmbedder(embedder, cfg.Embedding.Dimensions, logger)
	logger.Info("Embedder created",
		zap.String("model", cfg.Embedding.Model),
		zap.Int("dimensions", cfg.Embedding.Dimensions),
	)

	norm := tag.New(cfg.Recommend.MinTagLen)

	fileRepo := filerepo.New(store)
	historyRepo := historyrepo.New(store)
	imageCache := imagecache.New(store, time.Duration(cfg.ImageSearch.CacheTTLHours)*time.Hour)

	prefsSvc := prefsuc.New(historyRepo, norm, cfg.Recommend.HistoryWindow, logger)

	var searcher imagesearchuc.Searcher
	if cfg.ImageSearch.Enabled {
		searcher = websearch.NewClient(&websearch.Config{
			BaseURL:       cfg.ImageSearch.BaseURL,
			NavTimeout:    time.Duration(cfg.ImageSearch.NavTimeoutSec) * time.Second,
			SettleTimeout: time.Duration(cfg.ImageSearch.SettleTimeoutSec) * time.Second,
			Logger:        logger,
		})
	}
	imageSvc := imagesearchuc.New(imageCache, searcher, prefsSvc, imagesearchuc.Options{
		Enabled:           cfg.ImageSearch.Enabled,
		MaxImages:         cfg.ImageSearch.MaxImages,
		MaxPreferenceTags: cfg.ImageSearch.MaxPreferenceTags,
		RetryAttempts:     cfg.ImageSearch.RetryAttempts,
	}, logger)

	recommendSvc := recommenduc.New(fileRepo, historyRepo, imageSvc, embedder, norm, recommenduc.Options{
		TopK:     cfg.Recommend.TopK,
		MinScore: cfg.Recommend.MinScore,
	}, logger)

	healthSvc := healthuc.New(store, base)

	server := chiTransport.NewServer(recommendSvc, fileRepo, healthSvc, logger)

	r := chi.NewRouter()
	r.Use(jsonRecoverer(logger))
	r.Use(chiMiddleware.RequestID)
	r.Use(wideEventMiddleware(logger))
	r.Use(chiTransport.BearerAuthMiddleware(cfg.Auth.APIKeys))
	r.Use(metrics.Middleware())
	r.Mount("/", server.Routes())

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
						"error":   "internal error",
						"details": "internal error",
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

			reqLogger.Info("http_request",
				zap.String("method", r.Method),
				zap.String("path", r.URL.Path),
				zap.Int("status", ww.Status()),
				zap.Duration("latency", time.Since(start)),
				zap.String("ip", r.RemoteAddr),
				zap.Int64("content_length", r.ContentLength),
				zap.String("user_agent", r.UserAgent()),
				zap.Int("response_bytes", ww.BytesWritten()),
			)
		})
	}
}
