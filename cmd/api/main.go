// cmd/api/main.go
package main

import (
	"context"
	"database/sql"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"filter-studio/internal/config"
	"filter-studio/internal/handler"
	"filter-studio/internal/kv"
	"filter-studio/internal/logging"
	"filter-studio/internal/service"
	"filter-studio/internal/storage"
	"filter-studio/internal/suggest"

	"github.com/gorilla/handlers"
	"go.uber.org/zap"
)

func main() {
	cfg := config.Load()

	logger, err := logging.New(cfg.Env)
	if err != nil {
		fmt.Fprintln(os.Stderr, "failed to init logger:", err)
		os.Exit(1)
	}
	defer logger.Sync()

	// ── Key-value store (sqlite today, redis/postgres when shared) ────────────
	store, closeStore, err := openStore(cfg, logger)
	if err != nil {
		logger.Fatal("cannot open store", zap.String("type", cfg.StoreType), zap.Error(err))
	}
	defer closeStore()

	// ── Asset storage ─────────────────────────────────────────────────────────
	fileStorage, err := openStorage(cfg, logger)
	if err != nil {
		logger.Fatal("cannot init asset storage", zap.String("type", cfg.StorageType), zap.Error(err))
	}

	// ── Suggestions: no key means fallback texts, never a crash ───────────────
	var gen suggest.Generator
	if g, err := suggest.NewGeminiGenerator(context.Background(), cfg.GeminiAPIKey, cfg.GeminiModel); err != nil {
		logger.Warn("suggestions will use fallback texts", zap.Error(err))
	} else {
		gen = g
	}

	// ── Services & Handlers ───────────────────────────────────────────────────
	editorHandler := &handler.EditorHandler{
		Identity:     service.NewIdentityService(store, logger.Named("identity")),
		Drafts:       service.NewDraftService(store, logger.Named("drafts")),
		Suggestions:  suggest.New(gen, cfg.SuggestTimeout, logger.Named("suggest")),
		Storage:      fileStorage,
		Log:          logger.Named("http"),
		DefaultPrice: cfg.DefaultPrice,
	}
	if p, ok := store.(kv.Pinger); ok {
		editorHandler.Probe = p
	}

	r := handler.NewRouter(editorHandler)

	// Serve local uploads; with S3 the bucket serves files directly
	if cfg.StorageType != "s3" {
		r.PathPrefix("/uploads/").Handler(
			http.StripPrefix("/uploads/", http.FileServer(http.Dir(cfg.UploadDir))),
		)
	}

	cors := handlers.CORS(
		handlers.AllowedOrigins(cfg.AllowedOrigins),
		handlers.AllowedMethods([]string{"GET", "POST", "PUT", "DELETE", "OPTIONS"}),
		handlers.AllowedHeaders([]string{"Content-Type", "Authorization"}),
		handlers.AllowCredentials(),
	)

	stdLog := logging.StdLogger(logger.Named("http"))
	root := handlers.RecoveryHandler(handlers.RecoveryLogger(stdLog))(
		handlers.CombinedLoggingHandler(logging.AccessWriter(logger.Named("access")), cors(r)),
	)

	// ── HTTP Server with timeouts ──────────────────────────────────────────────
	srv := &http.Server{
		Addr:         ":" + cfg.Port,
		Handler:      root,
		ErrorLog:     stdLog,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 30 * time.Second, // suggestions can take a while
		IdleTimeout:  60 * time.Second,
	}

	// ── Graceful Shutdown ──────────────────────────────────────────────────────
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	go func() {
		logger.Info("filter studio running", zap.String("addr", srv.Addr), zap.String("store", cfg.StoreType))
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Fatal("server error", zap.Error(err))
		}
	}()

	<-quit
	logger.Info("shutdown signal received, draining requests")

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer shutdownCancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("forced shutdown", zap.Error(err))
		return
	}
	logger.Info("server stopped cleanly")
}

func openStore(cfg config.Config, logger *zap.Logger) (kv.Store, func(), error) {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	switch cfg.StoreType {
	case "memory":
		logger.Warn("using in-memory store, nothing will survive a restart")
		return kv.NewMemoryStore(), func() {}, nil

	case "postgres":
		if cfg.DatabaseURL == "" {
			return nil, nil, fmt.Errorf("DATABASE_URL is required")
		}
		db, err := sql.Open("postgres", cfg.DatabaseURL)
		if err != nil {
			return nil, nil, err
		}
		db.SetMaxOpenConns(25)
		db.SetMaxIdleConns(5)
		db.SetConnMaxLifetime(5 * time.Minute)

		// fail fast rather than accepting traffic
		if err := db.PingContext(ctx); err != nil {
			db.Close()
			return nil, nil, fmt.Errorf("database ping failed: %w", err)
		}
		s := kv.NewPostgresStore(db, cfg.StoreTimeout)
		if err := s.Migrate(ctx); err != nil {
			db.Close()
			return nil, nil, err
		}
		return s, func() { s.Close() }, nil

	case "redis":
		s := kv.NewRedisStore(kv.NewRedisClient(cfg.RedisAddr, cfg.RedisPassword, cfg.RedisDB), cfg.StoreTimeout)
		if err := s.Ping(ctx); err != nil {
			s.Close()
			return nil, nil, fmt.Errorf("redis ping failed: %w", err)
		}
		return s, func() { s.Close() }, nil

	case "sqlite", "":
		s, err := kv.OpenSQLite(ctx, cfg.SQLitePath)
		if err != nil {
			return nil, nil, err
		}
		s.Timeout = cfg.StoreTimeout
		logger.Info("using sqlite store", zap.String("path", cfg.SQLitePath))
		return s, func() { s.Close() }, nil
	}
	return nil, nil, fmt.Errorf("unknown STORE_TYPE %q", cfg.StoreType)
}

func openStorage(cfg config.Config, logger *zap.Logger) (storage.Storage, error) {
	if cfg.StorageType == "s3" {
		logger.Info("using S3 asset storage", zap.String("bucket", cfg.AWSBucket))
		return storage.NewS3Storage(context.Background(), storage.S3Options{
			Bucket:    cfg.AWSBucket,
			Region:    cfg.AWSRegion,
			AccessKey: cfg.AWSAccessKey,
			SecretKey: cfg.AWSSecretKey,
			Endpoint:  cfg.AWSEndpoint,
		})
	}
	logger.Info("using local asset storage", zap.String("dir", cfg.UploadDir))
	return storage.NewLocalStorage(cfg.UploadDir, cfg.BaseURL)
}
