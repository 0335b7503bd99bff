package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"blog-api/internal/config"
	"blog-api/internal/db"
	apihttp "blog-api/internal/http"
	"blog-api/internal/service"

	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
	"go.uber.org/zap"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := godotenv.Load(); err != nil {
		log.Printf("warning: loading .env: %v", err)
	}

	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatalf("config: %v", err)
	}

	logger := newLogger(cfg)
	defer logger.Sync()

	jwtSvc, err := service.NewJWTService(cfg.JWTSecret)
	if err != nil {
		logger.Fatal("jwt init", zap.Error(err))
	}

	store, err := db.OpenStore(ctx, cfg, logger)
	if err != nil {
		logger.Fatal("store init", zap.Error(err), zap.String("driver", cfg.StoreDriver))
	}
	defer store.Close()

	if redisClient := db.NewRedisClient(ctx, cfg, logger); redisClient != nil {
		defer redisClient.Close()
		store.WithIdentityCache(redisClient, cfg.IdentityCacheDuration(), logger)
		logger.Info("identity cache enabled", zap.Duration("ttl", cfg.IdentityCacheDuration()))
	}

	userSvc := service.NewUserService(logger, store.Users, service.NewBcryptHasher(), jwtSvc)
	postSvc := service.NewPostService(logger, store.Posts)
	commentSvc := service.NewCommentService(logger, store.Comments, store.Posts)
	resolver := service.NewIdentityResolver(store.Users)

	if !cfg.IsDevelopment() {
		gin.SetMode(gin.ReleaseMode)
	}
	router := apihttp.NewRouter(logger, cfg.CORSOrigins, apihttp.JWTAuthMiddleware(logger, jwtSvc, resolver), apihttp.Handlers{
		Users:    apihttp.NewUserHandler(logger, userSvc),
		Admin:    apihttp.NewAdminHandler(logger, userSvc),
		Posts:    apihttp.NewPostHandler(logger, postSvc),
		Comments: apihttp.NewCommentHandler(logger, commentSvc),
		Health:   apihttp.NewHealthHandler(logger, store.Ping),
	})

	server := &http.Server{
		Addr:              ":" + cfg.HTTPPort,
		Handler:           router,
		ReadHeaderTimeout: 5 * time.Second,
	}

	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := server.Shutdown(shutdownCtx); err != nil {
			logger.Warn("server shutdown", zap.Error(err))
		}
	}()

	logger.Info("starting server",
		zap.String("port", cfg.HTTPPort),
		zap.String("store", cfg.StoreDriver),
	)

	if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		logger.Fatal("server error", zap.Error(err))
	}
	logger.Info("server stopped")
}

func newLogger(cfg *config.Config) *zap.Logger {
	var (
		logger *zap.Logger
		err    error
	)
	if cfg.IsDevelopment() {
		logger, err = zap.NewDevelopment()
	} else {
		logger, err = zap.NewProduction()
	}
	if err != nil {
		log.Fatalf("logger: %v", err)
	}
	return logger
}
