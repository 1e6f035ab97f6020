package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/go-faster/errors"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"food-delivery-backend/cache"
	"food-delivery-backend/config"
	"food-delivery-backend/handlers"
	"food-delivery-backend/middleware"
	"food-delivery-backend/models"
	"food-delivery-backend/routes"
	"food-delivery-backend/services"
	"food-delivery-backend/store"
)

func main() {
	cfg, err := config.LoadConfig()
	if err != nil {
		fmt.Fprintln(os.Stderr, "config:", err)
		os.Exit(1)
	}
	lg, err := config.NewLogger(cfg.LogLevel)
	if err != nil {
		fmt.Fprintln(os.Stderr, "logger:", err)
		os.Exit(1)
	}
	defer func() { _ = lg.Sync() }()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, lg, cfg); err != nil {
		lg.Error("Server stopped with error", zap.Error(err))
		os.Exit(1)
	}
}

// run wires all dependencies, serves until ctx is cancelled and then shuts
// down gracefully.
func run(ctx context.Context, lg *zap.Logger, cfg *config.Config) error {
	gin.SetMode(cfg.GinMode)
	if cfg.JWTSecret == config.DefaultJWTSecret {
		lg.Warn("Using the built-in JWT secret; set FOOD_JWT_SECRET in production")
	}

	gw, err := store.Open(ctx, cfg.DatabaseURL, cfg.DatabaseName)
	if err != nil {
		return errors.Wrap(err, "open store")
	}
	defer func() {
		if err := gw.Close(context.Background()); err != nil {
			lg.Error("Store close error", zap.Error(err))
		}
	}()
	if err := gw.EnsureUnique(ctx, models.UserCollection, "email"); err != nil {
		return errors.Wrap(err, "ensure unique email")
	}
	lg.Info("Database connected", zap.String("backend", fmt.Sprintf("%T", gw)), zap.String("name", gw.Name()))

	rdb := newRedis(ctx, lg, cfg.Redis)
	if rdb != nil {
		defer func() { _ = rdb.Close() }()
	}

	tokens := middleware.NewTokens(cfg.JWTSecret, cfg.TokenTTL)
	auth := services.NewAuth(gw, tokens, lg)
	catalog := cache.NewCachingCatalog(rdb, cfg.Redis.CacheTTL, services.NewCatalog(gw, lg), "catalog", lg)
	h := handlers.NewHandler(
		auth,
		catalog,
		services.NewOrders(gw, lg),
		services.NewDiagnostics(gw, lg),
		lg,
	)
	router := routes.NewRouter(lg, h, routes.Options{
		Tokens:    tokens,
		Sessions:  auth,
		AdminAuth: cfg.AdminAuth,
	})

	server := &http.Server{
		Addr:              cfg.Addr,
		Handler:           router,
		ReadHeaderTimeout: time.Second,
		ReadTimeout:       5 * time.Second,
		WriteTimeout:      10 * time.Second,
		IdleTimeout:       120 * time.Second,
		MaxHeaderBytes:    1 << 20,
	}

	shutdownDone := make(chan struct{})
	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.Graceful.ShutdownTimeout)
		defer cancel()

		lg.Info("Shutting down server", zap.Duration("timeout", cfg.Graceful.ShutdownTimeout))
		if err := server.Shutdown(shutdownCtx); err != nil {
			lg.Error("Server shutdown error", zap.Error(err))
		}
		close(shutdownDone)
	}()

	lg.Info("Server listening", zap.String("addr", cfg.Addr))
	if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return errors.Wrap(err, "server")
	}
	<-shutdownDone
	return nil
}

// newRedis returns nil when caching is disabled or Redis is unreachable; the
// catalog then reads straight from the store.
func newRedis(ctx context.Context, lg *zap.Logger, cfg config.RedisConfig) *redis.Client {
	if cfg.Addr == "" {
		return nil
	}
	rdb := redis.NewClient(&redis.Options{
		Addr:     cfg.Addr,
		Password: cfg.Password,
		DB:       cfg.DB,
	})
	if err := rdb.Ping(ctx).Err(); err != nil {
		lg.Warn("Redis unavailable, catalog cache disabled", zap.String("addr", cfg.Addr), zap.Error(err))
		_ = rdb.Close()
		return nil
	}
	lg.Info("Redis connected", zap.String("addr", cfg.Addr))
	return rdb
}
