package main

import (
	"context"
	"net/http"
	"os/signal"
	"sync/atomic"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"

	"github.com/duynhne/social-service/config"
	database "github.com/duynhne/social-service/internal/core"
	"github.com/duynhne/social-service/internal/core/repository"
	"github.com/duynhne/social-service/internal/core/repository/memory"
	"github.com/duynhne/social-service/internal/logger"
	logicv1 "github.com/duynhne/social-service/internal/logic/v1"
	v1 "github.com/duynhne/social-service/internal/web/v1"
	"github.com/duynhne/social-service/middleware"
)

// memoryDSN selects the in-process store instead of Postgres.
const memoryDSN = "memory"

func main() {
	// Load configuration
	cfg := config.Load()
	if err := cfg.Validate(); err != nil {
		panic("Configuration validation failed: " + err.Error())
	}

	logger.Setup(cfg.Logging.Level, cfg.Logging.Format)
	if cfg.IsProd() {
		gin.SetMode(gin.ReleaseMode)
	}

	log.Info().
		Str("service", cfg.Service.Name).
		Str("version", cfg.Service.Version).
		Str("env", cfg.Service.Env).
		Str("port", cfg.Service.Port).
		Msg("Service starting")

	// Initialize OpenTelemetry tracing
	var tp interface{ Shutdown(context.Context) error }
	if cfg.Tracing.Enabled {
		provider, err := middleware.InitTracing(cfg)
		if err != nil {
			log.Warn().Err(err).Msg("Failed to initialize tracing")
		} else {
			tp = provider
			log.Info().
				Str("endpoint", cfg.Tracing.Endpoint).
				Float64("sample_rate", cfg.Tracing.SampleRate).
				Msg("Tracing initialized")
		}
	} else {
		log.Info().Msg("Tracing disabled (TRACING_ENABLED=false)")
	}

	// Initialize Pyroscope profiling
	if cfg.Profiling.Enabled {
		if err := middleware.InitProfiling(cfg); err != nil {
			log.Warn().Err(err).Msg("Failed to initialize profiling")
		} else {
			log.Info().
				Str("endpoint", cfg.Profiling.Endpoint).
				Msg("Profiling initialized")
			defer middleware.StopProfiling()
		}
	} else {
		log.Info().Msg("Profiling disabled (PROFILING_ENABLED=false)")
	}

	repos, closeStore := openStore(cfg)
	defer closeStore()

	tokens := logicv1.NewTokenManager(cfg.Auth.JWTSecret, cfg.GetTokenTTLDuration())
	hasher := logicv1.NewPasswordHasher(cfg.Auth.BcryptCost)
	handler := v1.NewHandler(v1.NewServices(repos, tokens, hasher), tokens)

	var isShuttingDown atomic.Bool
	r := v1.NewRouter(handler, v1.RouterOptions{
		ServiceName: cfg.Service.Name,
		APIPrefix:   cfg.Service.APIPrefix,
		CORS:        cfg.CORS,
		Ready:       func() bool { return !isShuttingDown.Load() },
	})

	srv := &http.Server{
		Addr:              ":" + cfg.Service.Port,
		Handler:           r,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		log.Info().
			Str("port", cfg.Service.Port).
			Str("api_prefix", cfg.Service.APIPrefix).
			Msg("Starting social service")
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal().Err(err).Msg("Failed to start server")
		}
	}()

	// Graceful shutdown
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGTERM, syscall.SIGINT)
	defer stop()

	<-ctx.Done()
	log.Info().Msg("Shutdown signal received")

	// Fail readiness first and wait for propagation.
	isShuttingDown.Store(true)
	drainDelay := cfg.GetReadinessDrainDelayDuration()
	if drainDelay > 0 {
		log.Info().Dur("delay", drainDelay).Msg("Readiness drain delay started")
		time.Sleep(drainDelay)
		log.Info().Dur("delay", drainDelay).Msg("Readiness drain delay completed")
	}

	shutdownTimeout := cfg.GetShutdownTimeoutDuration()
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	log.Info().Dur("timeout", shutdownTimeout).Msg("Shutting down server...")

	// 1. Shutdown HTTP server
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("HTTP server shutdown error")
	} else {
		log.Info().Msg("HTTP server shutdown complete")
	}

	// 2. Close storage
	closeStore()

	// 3. Shutdown tracer
	if tp != nil {
		if err := tp.Shutdown(shutdownCtx); err != nil {
			log.Error().Err(err).Msg("Tracer shutdown error")
		} else {
			log.Info().Msg("Tracer shutdown complete")
		}
	}

	log.Info().Msg("Graceful shutdown complete")
}

// openStore connects the repositories to Postgres, running migrations when
// enabled, or to the in-process store when DATABASE_URL=memory.
func openStore(cfg *config.Config) (v1.Repositories, func()) {
	if cfg.Database.URL == memoryDSN {
		log.Warn().Msg("Using in-memory store; data is lost on exit")
		s := memory.New()
		return v1.Repositories{
			Users:         s.Users(),
			Posts:         s.Posts(),
			Comments:      s.Comments(),
			Likes:         s.Likes(),
			Follows:       s.Follows(),
			Messages:      s.Messages(),
			Notifications: s.Notifications(),
		}, func() {}
	}

	if cfg.Database.AutoMigrate {
		if err := database.Migrate(cfg.Database.URL); err != nil {
			log.Fatal().Err(err).Msg("Failed to apply migrations")
		}
		log.Info().Msg("Database migrations applied")
	}

	pool, err := database.Connect(context.Background(), cfg.Database)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to connect to database")
	}
	log.Info().Msg("Database connection pool established")

	var once atomic.Bool
	closePool := func() {
		if once.CompareAndSwap(false, true) {
			pool.Close()
			log.Info().Msg("Database pool closed")
		}
	}
	return v1.Repositories{
		Users:         repository.NewUserRepository(pool),
		Posts:         repository.NewPostRepository(pool),
		Comments:      repository.NewCommentRepository(pool),
		Likes:         repository.NewLikeRepository(pool),
		Follows:       repository.NewFollowRepository(pool),
		Messages:      repository.NewMessageRepository(pool),
		Notifications: repository.NewNotificationRepository(pool),
	}, closePool
}
