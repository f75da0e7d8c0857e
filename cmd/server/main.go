package main

import (
	"context"
	"errors"
	"log"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/jonboulle/clockwork"

	"github.com/vizzRG/campusconnect01/internal/app"
	"github.com/vizzRG/campusconnect01/internal/config"
	"github.com/vizzRG/campusconnect01/internal/database"
	"github.com/vizzRG/campusconnect01/internal/logging"
	"github.com/vizzRG/campusconnect01/internal/redis"
	"github.com/vizzRG/campusconnect01/internal/server"
)

func setupConfig() *config.Config {
	cfg, err := config.Load()
	if err != nil {
		// Use log before slog is initialized
		log.Fatalf("Failed to load config: %v", err)
	}
	return cfg
}

func setupDB(cfg *config.Config) *pgxpool.Pool {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	db, err := database.Connect(ctx, cfg.DatabaseURL)
	if err != nil {
		slog.Error("Failed to connect to database", "error", err)
		os.Exit(1)
	}

	if err := database.RunMigrations(ctx, db); err != nil {
		slog.Error("Failed to run migrations", "error", err)
		os.Exit(1)
	}

	return db
}

func setupRedis(cfg *config.Config) *redis.Client {
	client, err := redis.NewClient(cfg.RedisURL)
	if err != nil {
		slog.Error("Failed to connect to Redis", "error", err)
		os.Exit(1)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := client.Ping(ctx); err != nil {
		slog.Error("Failed to ping Redis", "error", err)
		os.Exit(1)
	}

	return client
}

func runGracefulShutdown(srv *server.Server) <-chan struct{} {
	done := make(chan struct{})
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)

	go func() {
		<-sigChan
		slog.Info("Shutdown signal received, cleaning up...")

		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			slog.Error("Server shutdown error", "error", err)
		}

		close(done)
	}()

	return done
}

func main() {
	clock := clockwork.NewRealClock()

	cfg := setupConfig()

	// Initialize structured logging
	logging.InitLogger(cfg.LogLevel, cfg.LogFormat)
	slog.Info("Application starting", "env", cfg.AppEnv, "port", cfg.Port)

	pool := setupDB(cfg)
	defer pool.Close()

	questionRepo := database.NewQuestionRepo(pool)
	answerRepo := database.NewAnswerRepo(pool)
	userRepo := database.NewUserRepo(pool)

	// Vote rate limiting is optional; without Redis all votes are allowed.
	var (
		redisClient *redis.Client
		limiter     app.RateLimiter
	)
	if cfg.RedisURL != "" {
		redisClient = setupRedis(cfg)
		defer func() { _ = redisClient.Close() }()
		limiter = redis.NewVoteRateLimiter(redisClient, clock, cfg.VoteRateCapacity, cfg.VoteRatePerMin)
	} else {
		slog.Warn("REDIS_URL not set, vote rate limiting disabled")
	}

	appSvc := app.NewService(questionRepo, answerRepo, userRepo, limiter, clock)

	// Pass nil explicitly to avoid a typed-nil interface in the readiness check.
	var srv *server.Server
	if redisClient != nil {
		srv = server.NewServer(cfg, appSvc, pool, redisClient)
	} else {
		srv = server.NewServer(cfg, appSvc, pool, nil)
	}

	done := runGracefulShutdown(srv)

	if err := srv.Start(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		slog.Error("Server error", "error", err)
		os.Exit(1)
	}

	<-done
}
