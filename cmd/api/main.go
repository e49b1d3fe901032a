// Command api serves the Kanso habits HTTP API.
//
// @title                      Kanso Habits API
// @version                    1.0
// @description                Habit tracking with check-ins, streak analytics, friends and nudges.
// @BasePath                   /api/v1
// @securityDefinitions.apikey BearerAuth
// @in                         header
// @name                       Authorization
package main

import (
	"context"
	"errors"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/jmoiron/sqlx"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog/log"

	"github.com/comitanigiacomo/kanso-habits/internal/adapters/cache"
	adapterHTTP "github.com/comitanigiacomo/kanso-habits/internal/adapters/handler/http"
	"github.com/comitanigiacomo/kanso-habits/internal/adapters/notifier"
	"github.com/comitanigiacomo/kanso-habits/internal/adapters/repository"
	"github.com/comitanigiacomo/kanso-habits/internal/core/domain"
	"github.com/comitanigiacomo/kanso-habits/internal/core/services"
	"github.com/comitanigiacomo/kanso-habits/internal/core/workers"
	"github.com/comitanigiacomo/kanso-habits/internal/platform/config"
	"github.com/comitanigiacomo/kanso-habits/internal/platform/logging"
)

const shutdownTimeout = 5 * time.Second

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatal().Err(err).Msg("invalid configuration")
	}
	if err := logging.Init(logging.Options{Level: cfg.LogLevel, Dir: cfg.LogDir}); err != nil {
		log.Fatal().Err(err).Msg("logging setup failed")
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, cfg); err != nil {
		log.Fatal().Err(err).Msg("server stopped with an error")
	}
	log.Info().Msg("server stopped gracefully")
}

func run(ctx context.Context, cfg *config.Config) error {
	app, err := buildApp(ctx, cfg)
	if err != nil {
		return err
	}
	defer app.Close()

	app.streaks.Start(ctx)

	srv := &http.Server{
		Addr:         ":" + cfg.Port,
		Handler:      app.router,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 10 * time.Second,
		IdleTimeout:  120 * time.Second,
	}

	serveErr := make(chan error, 1)
	go func() {
		log.Info().Str("addr", srv.Addr).Str("storage", string(cfg.Storage)).Msg("kanso api listening")
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serveErr <- err
		}
		close(serveErr)
	}()

	select {
	case err := <-serveErr:
		return err
	case <-ctx.Done():
	}

	log.Info().Msg("stop signal received, shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	return srv.Shutdown(shutdownCtx)
}

type app struct {
	router  http.Handler
	streaks *workers.StreakWorker
	db      *sqlx.DB
	redis   *redis.Client
}

func (a *app) Close() {
	if a.redis != nil {
		_ = a.redis.Close()
	}
	if a.db != nil {
		_ = a.db.Close()
	}
}

type stores struct {
	users       domain.UserRepository
	habits      domain.HabitRepository
	checkIns    domain.CheckInRepository
	friendships domain.FriendshipRepository
	nudges      domain.NudgeRepository
}

// buildApp wires storage, services and the router. Redis is optional: when
// it is unreachable the API runs without the habit cache and rate limiting.
func buildApp(ctx context.Context, cfg *config.Config) (*app, error) {
	a := &app{}

	var s stores
	switch cfg.Storage {
	case config.StorageMemory:
		log.Warn().Msg("using in-memory storage, data is lost on restart")
		s = stores{
			users:       repository.NewInMemoryUserRepository(),
			habits:      repository.NewInMemoryHabitRepository(),
			checkIns:    repository.NewInMemoryCheckInRepository(),
			friendships: repository.NewInMemoryFriendshipRepository(),
			nudges:      repository.NewInMemoryNudgeRepository(),
		}
	default:
		db, err := repository.Open(ctx, cfg.DB.Driver, cfg.DB.DSN())
		if err != nil {
			return nil, err
		}
		if err := repository.Migrate(ctx, db); err != nil {
			_ = db.Close()
			return nil, err
		}
		log.Info().Str("driver", cfg.DB.Driver).Str("host", cfg.DB.Host).Msg("database connected")
		a.db = db
		s = stores{
			users:       repository.NewPostgresUserRepository(db),
			habits:      repository.NewPostgresHabitRepository(db),
			checkIns:    repository.NewPostgresCheckInRepository(db),
			friendships: repository.NewPostgresFriendshipRepository(db),
			nudges:      repository.NewPostgresNudgeRepository(db),
		}
	}

	if cfg.Redis.Host != "" {
		rdb, err := cache.NewRedisClient(ctx, cache.Options{
			Host:     cfg.Redis.Host,
			Port:     cfg.Redis.Port,
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
		})
		if err != nil {
			log.Warn().Err(err).Msg("redis unavailable, running without cache and rate limiting")
		} else {
			a.redis = rdb
			s.habits = repository.NewCachedHabitRepository(s.habits, cache.NewStore(rdb, "kanso", repository.HabitListTTL))
		}
	}

	clock := services.NewZoneClock(cfg.Location)
	a.streaks = workers.NewStreakWorker(s.habits, s.checkIns, clock)

	tokens := services.NewTokenService(cfg.Auth.Secret, cfg.Auth.Issuer, cfg.Auth.TokenTTL, s.users)
	habitSvc := services.NewHabitService(s.habits, s.checkIns, clock)
	friendSvc := services.NewFriendService(s.friendships, s.users)
	analyticsSvc := services.NewAnalyticsService(s.habits, s.checkIns, friendSvc, clock)
	checkInSvc := services.NewCheckInService(s.checkIns, s.habits, a.streaks, clock)
	nudgeSvc := services.NewNudgeService(s.nudges, friendSvc, s.habits, s.checkIns, s.users, newNotifier(cfg.Nudge), clock)

	a.router = adapterHTTP.NewRouter(adapterHTTP.RouterDependencies{
		AuthHandler:      adapterHTTP.NewAuthHandler(services.NewAuthService(s.users, tokens)),
		HabitHandler:     adapterHTTP.NewHabitHandler(habitSvc),
		CheckInHandler:   adapterHTTP.NewCheckInHandler(checkInSvc),
		AnalyticsHandler: adapterHTTP.NewAnalyticsHandler(analyticsSvc, clock),
		FriendHandler:    adapterHTTP.NewFriendHandler(friendSvc, analyticsSvc),
		NudgeHandler:     adapterHTTP.NewNudgeHandler(nudgeSvc),
		Tokens:           tokens,
		DB:               a.db,
		Redis:            a.redis,
		RateLimit:        cfg.RateLimit,
		StartTime:        time.Now(),
	})
	return a, nil
}

func newNotifier(cfg config.NudgeConfig) services.Notifier {
	if cfg.ResendAPIKey == "" {
		log.Info().Msg("RESEND_API_KEY not set, nudges are only logged")
		return notifier.NewLogNotifier(log.Logger)
	}
	return notifier.NewResendNotifier(cfg.ResendAPIKey, cfg.FromEmail)
}

