package main

import (
	"context"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/google/uuid"

	"github.com/shelfspace/shelfspace/internal/app"
	"github.com/shelfspace/shelfspace/internal/auth"
	"github.com/shelfspace/shelfspace/internal/categories"
	"github.com/shelfspace/shelfspace/internal/items"
	"github.com/shelfspace/shelfspace/internal/platform/cache"
	"github.com/shelfspace/shelfspace/internal/platform/db"
	"github.com/shelfspace/shelfspace/internal/uploads"
)

// categoryVerifier adapts the categories service to the existence check the
// items service needs.
type categoryVerifier struct {
	svc *categories.Service
}

func (v categoryVerifier) Verify(ctx context.Context, id, userID uuid.UUID) error {
	_, err := v.svc.Get(ctx, id, userID)
	return err
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	cfg, err := app.LoadConfig()
	if err != nil {
		slog.Default().Error("load config", slog.Any("error", err))
		os.Exit(1)
	}

	logger := app.NewLogger(cfg)

	if err := db.Migrate(ctx, cfg.PGDSN); err != nil {
		logger.Error("run migrations", slog.Any("error", err))
		os.Exit(1)
	}

	pool, err := db.New(ctx, cfg.PGDSN)
	if err != nil {
		logger.Error("connect postgres", slog.Any("error", err))
		os.Exit(1)
	}
	defer pool.Close()

	redisClient, err := cache.New(ctx, cfg.RedisAddr)
	if err != nil {
		// Listing still works without the cache; it just hits postgres.
		logger.Warn("redis unavailable", slog.Any("error", err))
		redisClient = nil
	}
	defer func() {
		if redisClient != nil {
			_ = redisClient.Close()
		}
	}()

	s3Client, err := uploads.NewClient(ctx, uploads.Config{
		Endpoint:  cfg.S3Endpoint,
		Region:    cfg.S3Region,
		AccessKey: cfg.S3AccessKey,
		SecretKey: cfg.S3SecretKey,
	})
	if err != nil {
		logger.Error("object storage client", slog.Any("error", err))
		os.Exit(1)
	}

	tokens := auth.NewTokenIssuer(cfg.JWTSecret, cfg.AccessTokenTTL, cfg.RefreshTokenTTL)
	guard := auth.NewGuard(tokens)
	authService := auth.NewService(auth.NewRepository(pool), tokens)
	authHandler := auth.NewHandler(logger, authService, auth.NewThrottler())

	categoryService := categories.NewService(categories.NewRepository(pool))
	categoriesHandler := categories.NewHandler(logger, categoryService)

	itemCache := items.NewCache(redisClient, cfg.ListCacheTTL)
	itemService := items.NewService(items.NewRepository(pool), categoryVerifier{svc: categoryService}, itemCache)
	itemsHandler := items.NewHandler(logger, itemService)

	uploadService := uploads.NewService(s3Client, cfg.S3Bucket, cfg.S3PublicURL)
	uploadsHandler := uploads.NewHandler(logger, uploadService)

	router := app.NewRouter(app.RouterParams{
		Logger:            logger,
		Config:            cfg,
		Guard:             guard,
		AuthHandler:       authHandler,
		CategoriesHandler: categoriesHandler,
		ItemsHandler:      itemsHandler,
		UploadsHandler:    uploadsHandler,
	})

	server := &http.Server{
		Addr:         cfg.AppAddr,
		Handler:      router,
		ReadTimeout:  cfg.AppReadTimeout,
		WriteTimeout: cfg.AppWriteTimeout,
	}

	go func() {
		logger.Info("starting http server", slog.String("addr", cfg.AppAddr))
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Error("http server", slog.Any("error", err))
			stop()
		}
	}()

	<-ctx.Done()
	logger.Info("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		logger.Error("graceful shutdown", slog.Any("error", err))
	}
}
