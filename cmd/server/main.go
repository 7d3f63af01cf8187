package main

import (
	"context"
	"errors"
	"net"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/userhub/user-management/internal/api"
	"github.com/userhub/user-management/internal/api/handler"
	"github.com/userhub/user-management/internal/core/service"
	"github.com/userhub/user-management/internal/infrastructure/config"
	"github.com/userhub/user-management/internal/infrastructure/db/mysql"
	"github.com/userhub/user-management/internal/infrastructure/db/redis"
	"github.com/userhub/user-management/internal/infrastructure/messaging/kafka"
	"github.com/userhub/user-management/internal/infrastructure/queue"
	"github.com/userhub/user-management/internal/infrastructure/session"
	"github.com/userhub/user-management/pkg/logger"
)

const shutdownTimeout = 10 * time.Second

// @title                       User Management API
// @version                     1.0
// @description                 Registration, login sessions and a paginated REST API over the users table.
// @BasePath                    /api/v1
// @securityDefinitions.apikey  BearerAuth
// @in                          header
// @name                        Authorization
func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	cfg, err := config.Load(ctx)
	if err != nil {
		bootLog := logger.New(logger.Options{})
		bootLog.Fatal().Err(err).Msg("failed to load configuration")
	}

	log := logger.New(logger.Options{
		Level:  cfg.LogLevel,
		Pretty: !cfg.IsProduction(),
	})

	db, err := mysql.Connect(ctx, mysql.Config{
		Host:            cfg.MySQL.Host,
		Port:            cfg.MySQL.Port,
		User:            cfg.MySQL.User,
		Password:        cfg.MySQL.Password,
		Database:        cfg.MySQL.Database,
		MaxOpenConns:    cfg.MySQL.MaxOpenConns,
		MaxIdleConns:    cfg.MySQL.MaxIdleConns,
		ConnMaxLifetime: cfg.MySQL.ConnMaxLifetime,
	})
	if err != nil {
		log.Fatal().Err(err).Str("host", cfg.MySQL.Host).Msg("failed to connect to mysql")
	}
	defer db.Close()

	if err := mysql.Migrate(ctx, db); err != nil {
		log.Fatal().Err(err).Msg("failed to apply migrations")
	}

	rdb, err := redis.Connect(ctx, redis.Config{
		Addr:     cfg.Redis.Addr,
		DB:       cfg.Redis.DB,
		Password: cfg.Redis.Password,
		PoolSize: cfg.Redis.PoolSize,
	})
	if err != nil {
		log.Fatal().Err(err).Str("addr", cfg.Redis.Addr).Msg("failed to connect to redis")
	}
	defer rdb.Close()

	userRepo := mysql.NewUserRepository(db, logger.Component(log, "mysql"))
	userService := service.NewUserService(userRepo, cfg.BcryptCost, logger.Component(log, "users"))

	if len(cfg.Events.Brokers) > 0 {
		publisher := kafka.NewPublisher(kafka.Config{
			Brokers: cfg.Events.Brokers,
			Topic:   cfg.Events.Topic,
		})
		defer publisher.Close()

		dispatcher := queue.NewDispatcher(cfg.Events.Workers, publisher, logger.Component(log, "events"))
		dispatcher.Start(context.Background())
		defer dispatcher.Close()

		userService.WithEvents(dispatcher)
		log.Info().Strs("brokers", cfg.Events.Brokers).Str("topic", cfg.Events.Topic).Msg("user events enabled")
	}
	authService := service.NewAuthService(userService, cfg.JWTSecret, cfg.JWTTTL)

	sessions := session.NewManager(redis.NewSessionStore(rdb), session.Options{
		CookieName: cfg.Session.CookieName,
		TTL:        cfg.Session.TTL,
		Secure:     cfg.IsProduction(),
	})

	e, err := api.NewRouter(api.Deps{
		Log:       logger.Component(log, "http"),
		Users:     userService,
		Auth:      authService,
		Sessions:  sessions,
		JWTSecret: cfg.JWTSecret,
		Health: []handler.Dependency{
			{Name: "mysql", Ping: db.PingContext},
			{Name: "redis", Ping: func(ctx context.Context) error { return rdb.Ping(ctx).Err() }},
		},
	})
	if err != nil {
		log.Fatal().Err(err).Msg("failed to build router")
	}

	go func() {
		addr := net.JoinHostPort("", cfg.Port)
		log.Info().Str("addr", addr).Str("env", cfg.Env).Msg("server listening")
		if err := e.Start(addr); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal().Err(err).Msg("server stopped unexpectedly")
		}
	}()

	<-ctx.Done()
	log.Info().Msg("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := e.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("graceful shutdown failed")
	}
}
