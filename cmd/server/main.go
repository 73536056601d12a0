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
	"github.com/rajdeep564/admin-panel-wildmind-sub001/internal/app"
	"github.com/rajdeep564/admin-panel-wildmind-sub001/internal/config"
	"github.com/rajdeep564/admin-panel-wildmind-sub001/internal/crypto"
	"github.com/rajdeep564/admin-panel-wildmind-sub001/internal/database"
	"github.com/rajdeep564/admin-panel-wildmind-sub001/internal/domain"
	"github.com/rajdeep564/admin-panel-wildmind-sub001/internal/logging"
	"github.com/rajdeep564/admin-panel-wildmind-sub001/internal/redis"
	"github.com/rajdeep564/admin-panel-wildmind-sub001/internal/server"
)

// Login attempt budget per email+IP pair before the limiter kicks in.
const (
	loginAttempts = 10
	loginWindow   = 15 * time.Minute
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

	pool, err := database.Connect(ctx, cfg.DatabaseURL)
	if err != nil {
		slog.Error("Failed to connect to database", "error", err)
		os.Exit(1)
	}

	if err := database.RunMigrations(ctx, pool); err != nil {
		slog.Error("Failed to run migrations", "error", err)
		os.Exit(1)
	}

	return pool
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
		slog.Error("Redis ping failed", "error", err)
		os.Exit(1)
	}

	return client
}

// seedBootstrapAdmin ensures the configured admin account exists so a fresh
// deployment has someone who can log in.
func seedBootstrapAdmin(ctx context.Context, cfg *config.Config, users domain.UserRepository, hasher crypto.Hasher) {
	if cfg.BootstrapAdminEmail == "" || cfg.BootstrapAdminPassword == "" {
		return
	}

	_, err := users.GetByEmail(ctx, cfg.BootstrapAdminEmail)
	if err == nil {
		return
	}
	if !errors.Is(err, domain.ErrUserNotFound) {
		slog.Error("Bootstrap admin lookup failed", "error", err)
		os.Exit(1)
	}

	hash, err := hasher.Hash(cfg.BootstrapAdminPassword)
	if err != nil {
		slog.Error("Failed to hash bootstrap admin password", "error", err)
		os.Exit(1)
	}

	admin, err := users.Create(ctx, domain.NewUser{
		Email:       cfg.BootstrapAdminEmail,
		Username:    "admin",
		DisplayName: "Administrator",
		Role:        domain.RoleAdmin,
	}, hash)
	if err != nil {
		slog.Error("Failed to create bootstrap admin", "error", err)
		os.Exit(1)
	}

	slog.Info("Bootstrap admin created", "email", admin.Email, "user_id", admin.ID)
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

	logging.InitLogger(cfg.LogLevel, cfg.LogFormat)
	slog.Info("Application starting", "env", cfg.AppEnv, "port", cfg.Port)

	pool := setupDB(cfg)
	defer pool.Close()

	redisClient := setupRedis(cfg)
	defer func() { _ = redisClient.Close() }()

	userRepo := database.NewUserRepo(pool)
	generationRepo := database.NewGenerationRepo(pool)
	moderationRepo := database.NewModerationRepo(pool)
	analyticsRepo := database.NewAnalyticsRepo(pool)

	sessionRepo := redis.NewSessionRepo(redisClient.Underlying(), clock)
	loginLimiter := redis.NewLoginLimiter(redisClient.Underlying(), clock, loginAttempts, loginWindow)

	hasher := crypto.NewArgon2idHasher()

	seedCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	seedBootstrapAdmin(seedCtx, cfg, userRepo, hasher)
	cancel()

	appSvc := app.NewService(
		userRepo,
		generationRepo,
		moderationRepo,
		analyticsRepo,
		sessionRepo,
		loginLimiter,
		hasher,
		clock,
		cfg.SessionTTL,
		cfg.AnalyticsCacheTTL,
	)

	healthChecks := []server.HealthCheck{
		{Name: "postgres", Check: pool.Ping},
		{Name: "redis", Check: redisClient.Ping},
	}

	srv, err := server.NewServer(cfg, appSvc, healthChecks)
	if err != nil {
		slog.Error("Failed to create server", "error", err)
		os.Exit(1)
	}

	done := runGracefulShutdown(srv)

	if err := srv.Start(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		slog.Error("Server error", "error", err)
		os.Exit(1)
	}

	<-done
}
