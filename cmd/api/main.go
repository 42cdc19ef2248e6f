package main

import (
	"context"
	"database/sql"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/redis/go-redis/v9"

	"github.com/sickfits/sickfits-go/internal/config"
	"github.com/sickfits/sickfits-go/internal/crypto"
	"github.com/sickfits/sickfits-go/internal/graph"
	"github.com/sickfits/sickfits-go/internal/handler"
	"github.com/sickfits/sickfits-go/internal/logger"
	"github.com/sickfits/sickfits-go/internal/metrics"
	"github.com/sickfits/sickfits-go/internal/middleware"
	"github.com/sickfits/sickfits-go/internal/notify"
	"github.com/sickfits/sickfits-go/internal/ratelimit"
	"github.com/sickfits/sickfits-go/internal/repository"
	"github.com/sickfits/sickfits-go/internal/service"
)

type store interface {
	repository.UserStore
	repository.ItemStore
	repository.Pinger
}

type sqlStore struct {
	*repository.UserRepository
	*repository.ItemRepository
	db *sql.DB
}

func (s sqlStore) PingContext(ctx context.Context) error {
	return s.db.PingContext(ctx)
}

func main() {
	cfg, err := config.Load()
	if err != nil {
		slog.Error("invalid configuration", "error", err)
		os.Exit(1)
	}

	log := logger.New(os.Stdout, cfg.Env, cfg.LogLevel)
	slog.SetDefault(log)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	st, closeStore, err := openStore(ctx, cfg, log)
	if err != nil {
		log.Error("database connection failed", "error", err)
		os.Exit(1)
	}
	defer closeStore()

	m := metrics.New()
	signer := crypto.NewSessionSigner(cfg.AppSecret, cfg.SessionTTL)
	mailer := notify.NewEmailNotifier(cfg.Mail, cfg.FrontendURL, log)

	authService := service.NewAuthService(st, crypto.NewPasswordHasher(crypto.DefaultCost), signer, mailer, log,
		service.WithMetrics(m))
	itemService := service.NewItemService(st, log)

	schema, err := graph.NewSchema(authService, itemService, log)
	if err != nil {
		log.Error("graphql schema invalid", "error", err)
		os.Exit(1)
	}

	limiter, closeLimiter := newLimiter(ctx, cfg, log)
	defer closeLimiter()

	r := chi.NewRouter()
	r.Use(chimw.RequestID)
	r.Use(middleware.TrustProxy(cfg.TrustProxy))
	r.Use(middleware.Logger(log))
	r.Use(chimw.Recoverer)
	r.Use(m.Middleware)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   []string{cfg.FrontendURL},
		AllowedMethods:   []string{http.MethodGet, http.MethodPost, http.MethodOptions},
		AllowedHeaders:   []string{"Accept", "Content-Type"},
		AllowCredentials: true,
		MaxAge:           300,
	}))

	r.Method(http.MethodGet, "/health", handler.NewHealthHandler(st, log))
	r.Method(http.MethodGet, "/metrics", m.Handler())

	r.Group(func(r chi.Router) {
		r.Use(middleware.RateLimit(limiter, m, log))
		r.Use(middleware.Session(signer, authService, cfg.IsProduction(), log))
		r.Method(http.MethodPost, "/graphql", handler.NewGraphQLHandler(schema, cfg.IsProduction(), log))
	})

	srv := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           r,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		log.Info("server starting", "port", cfg.Port, "env", cfg.Env)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Error("server error", "error", err)
			stop()
		}
	}()

	<-ctx.Done()

	log.Info("shutting down server")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error("server forced shutdown", "error", err)
	}
	authService.WaitForMail()

	log.Info("server stopped")
}

func openStore(ctx context.Context, cfg config.Config, log *slog.Logger) (store, func(), error) {
	if cfg.DatabaseDSN == "" {
		log.Warn("DATABASE_DSN not set, using in-memory store")
		return repository.NewMemoryStore(), func() {}, nil
	}

	connectCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	db, err := repository.NewDB(connectCtx, cfg.DatabaseDSN)
	if err != nil {
		return nil, nil, err
	}
	if err := repository.Migrate(connectCtx, db); err != nil {
		db.Close()
		return nil, nil, err
	}

	st := sqlStore{
		UserRepository: repository.NewUserRepository(db),
		ItemRepository: repository.NewItemRepository(db),
		db:             db,
	}
	return st, func() { db.Close() }, nil
}

func newLimiter(ctx context.Context, cfg config.Config, log *slog.Logger) (middleware.Limiter, func()) {
	if cfg.RedisAddr == "" {
		return middleware.NewIPLimiter(ctx, cfg.RateLimitRPS, cfg.RateLimitBurst), func() {}
	}

	rdb := redis.NewClient(&redis.Options{
		Addr:     cfg.RedisAddr,
		Password: cfg.RedisPassword,
	})
	if err := rdb.Ping(ctx).Err(); err != nil {
		log.Warn("redis unreachable, rate limiter will fail open until it recovers", "addr", cfg.RedisAddr, "error", err)
	}
	return ratelimit.NewRedisLimiter(rdb, "", cfg.RateLimitRPS, cfg.RateLimitBurst), func() { rdb.Close() }
}
