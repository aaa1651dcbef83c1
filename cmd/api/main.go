package main

import (
	"context"
	"errors"
	"log"
	"net"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"go.uber.org/fx"
	"go.uber.org/fx/fxevent"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/justsurfingit/job-portal/internal/auth"
	"github.com/justsurfingit/job-portal/internal/config"
	"github.com/justsurfingit/job-portal/internal/database"
	"github.com/justsurfingit/job-portal/internal/handlers"
	"github.com/justsurfingit/job-portal/internal/logger"
	"github.com/justsurfingit/job-portal/internal/middleware"
	"github.com/justsurfingit/job-portal/internal/services"
	"github.com/justsurfingit/job-portal/internal/storage"
)

func newConfig() (*config.Config, error) {
	cfg := config.Load()
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func newDatabase(cfg *config.Config, lc fx.Lifecycle, log *zap.Logger) (*gorm.DB, error) {
	db, err := database.Connect(cfg, log)
	if err != nil {
		return nil, err
	}
	log.Info("database connected", zap.String("driver", cfg.DBDriver))

	lc.Append(fx.Hook{
		OnStop: func(context.Context) error {
			return database.Close(db)
		},
	})
	return db, nil
}

// newRedisClient returns nil when REDIS_URL is unset, which disables login
// rate limiting.
func newRedisClient(cfg *config.Config, lc fx.Lifecycle, log *zap.Logger) (*redis.Client, error) {
	if cfg.RedisURL == "" {
		log.Info("REDIS_URL not set, login rate limiting disabled")
		return nil, nil
	}

	opt, err := redis.ParseURL(cfg.RedisURL)
	if err != nil {
		return nil, err
	}
	client := redis.NewClient(opt)

	lc.Append(fx.Hook{
		OnStart: func(ctx context.Context) error {
			if err := client.Ping(ctx).Err(); err != nil {
				log.Warn("redis unreachable, rate limiter will fail open", zap.Error(err))
			}
			return nil
		},
		OnStop: func(context.Context) error {
			return client.Close()
		},
	})
	return client, nil
}

func newFileStore(cfg *config.Config, log *zap.Logger) (*storage.FileStore, error) {
	return storage.NewFileStore(cfg.UploadDir, cfg.MaxUploadSize, log)
}

func newTokenManager(cfg *config.Config) *auth.TokenManager {
	return auth.NewTokenManager(cfg.JWTSecret, cfg.JWTExpiresIn)
}

func newLoginLimiter(cfg *config.Config, client *redis.Client, log *zap.Logger) *middleware.RateLimiter {
	return middleware.NewRateLimiter(middleware.RateLimiterConfig{
		Redis:    client,
		Limit:    cfg.LoginRateLimit,
		Interval: cfg.LoginRateInterval,
		Prefix:   "login",
		Log:      log,
	})
}

func newHandlers(
	health *handlers.HealthHandler,
	authH *handlers.AuthHandler,
	profile *handlers.ProfileHandler,
	job *handlers.JobHandler,
	application *handlers.ApplicationHandler,
	saved *handlers.SavedJobHandler,
	admin *handlers.AdminHandler,
) *handlers.Handlers {
	return &handlers.Handlers{
		Health:      health,
		Auth:        authH,
		Profile:     profile,
		Job:         job,
		Application: application,
		SavedJob:    saved,
		Admin:       admin,
	}
}

func newServer(cfg *config.Config, router *gin.Engine, lc fx.Lifecycle, log *zap.Logger) *http.Server {
	srv := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
		ReadTimeout:       30 * time.Second,
		WriteTimeout:      30 * time.Second,
		IdleTimeout:       60 * time.Second,
	}

	lc.Append(fx.Hook{
		OnStart: func(context.Context) error {
			ln, err := net.Listen("tcp", srv.Addr)
			if err != nil {
				return err
			}
			log.Info("server starting", zap.String("addr", srv.Addr), zap.String("environment", cfg.Environment))
			go func() {
				if err := srv.Serve(ln); err != nil && !errors.Is(err, http.ErrServerClosed) {
					log.Error("server stopped", zap.Error(err))
				}
			}()
			return nil
		},
		OnStop: func(ctx context.Context) error {
			log.Info("shutting down server")
			return srv.Shutdown(ctx)
		},
	})
	return srv
}

func seedAdmin(lc fx.Lifecycle, cfg *config.Config, authService *services.AuthService, log *zap.Logger) {
	lc.Append(fx.Hook{
		OnStart: func(ctx context.Context) error {
			return authService.EnsureAdmin(ctx, cfg.AdminEmail, cfg.AdminPassword, cfg.AdminName, log)
		},
	})
}

func main() {
	app := fx.New(
		fx.WithLogger(func(log *zap.Logger) fxevent.Logger {
			return &fxevent.ZapLogger{Logger: log}
		}),
		fx.Provide(
			newConfig,
			logger.New,
			newDatabase,
			newRedisClient,
			newFileStore,
			newTokenManager,
			newLoginLimiter,

			services.NewAuthService,
			services.NewProfileService,
			services.NewJobService,
			services.NewApplicationService,
			services.NewSavedJobService,
			services.NewAdminService,

			handlers.NewHealthHandler,
			handlers.NewAuthHandler,
			handlers.NewProfileHandler,
			handlers.NewJobHandler,
			handlers.NewApplicationHandler,
			handlers.NewSavedJobHandler,
			handlers.NewAdminHandler,
			newHandlers,
			handlers.NewRouter,
			newServer,
		),
		fx.Invoke(
			seedAdmin,
			func(*http.Server) {},
		),
	)

	startCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()
	if err := app.Start(startCtx); err != nil {
		log.Fatal(err)
	}

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt, syscall.SIGTERM)
	<-quit

	stopCtx, stopCancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer stopCancel()
	if err := app.Stop(stopCtx); err != nil {
		log.Fatal(err)
	}
}
