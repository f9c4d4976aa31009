package main

import (
	"context"
	"errors"
	"net/http"
	"time"

	goredis "github.com/redis/go-redis/v9"

	"github.com/boxwise/inventory/internal/api"
	"github.com/boxwise/inventory/internal/api/handler"
	"github.com/boxwise/inventory/internal/core/ports"
	"github.com/boxwise/inventory/internal/core/service"
	"github.com/boxwise/inventory/internal/infrastructure/db/redis"
	"github.com/boxwise/inventory/internal/infrastructure/mail"
	"github.com/boxwise/inventory/internal/infrastructure/queue"
	"github.com/boxwise/inventory/internal/pkg/config"
	"github.com/boxwise/inventory/pkg/logger"
)

const shutdownTimeout = 15 * time.Second

func cmdServe(ctx context.Context, cfg *config.Config) error {
	if err := cfg.Validate(); err != nil {
		return err
	}
	log := logger.Component("server")

	// Redis backs the dashboard cache and notification dedup. Without it both
	// are skipped.
	var (
		rdb   *goredis.Client
		cache ports.StatsCache
		dedup service.DedupChecker
	)
	if cfg.Redis.Enabled {
		client, err := redis.Connect(ctx, redis.Config{Addr: cfg.Redis.Addr, Password: cfg.Redis.Password, DB: cfg.Redis.DB})
		if err != nil {
			log.Warn().Err(err).Str("addr", cfg.Redis.Addr).Msg("redis unreachable: dashboard cache and notification dedup are off")
		} else {
			defer client.Close()
			rdb = client
			cache = redis.NewStatsCache(client, cfg.DashboardCacheTTL)
			dedup = redis.NewDedupChecker(client)
		}
	} else {
		log.Warn().Msg("redis disabled: dashboard cache and notification dedup are off")
	}

	a, err := openApp(ctx, cfg, cache)
	if err != nil {
		return err
	}
	defer a.Close()
	a.reminders.WithDedup(dedup)

	health := []handler.NamedPinger{{Name: "mongodb", Pinger: a.store}}
	if rdb != nil {
		health = append(health, handler.NamedPinger{Name: "redis", Pinger: handler.PingFunc(func(ctx context.Context) error {
			return rdb.Ping(ctx).Err()
		})})
	}

	if cfg.MailEnabled() {
		mailer := mail.NewMailer(mail.Config{
			Host:     cfg.SMTP.Host,
			Port:     cfg.SMTP.Port,
			User:     cfg.SMTP.User,
			Password: cfg.SMTP.Password,
			From:     cfg.SMTP.From,
		})
		notifier := service.NewNotificationService(a.store.Reminders, a.store.Items, a.store.Users, mailer, dedup, logger.Component("notifications"))
		dispatcher := queue.NewDispatcher(cfg.Reminders.Workers, notifier, logger.Component("dispatcher"))
		dispatcher.Start(ctx)
		go queue.NewScheduler(a.reminders, dispatcher, cfg.Reminders.ScanInterval, logger.Component("scheduler")).Run(ctx)
		log.Info().Dur("scan_interval", cfg.Reminders.ScanInterval).Int("workers", cfg.Reminders.Workers).Msg("reminder notifications enabled")
	} else {
		log.Info().Msg("SMTP_HOST not set: reminder notifications disabled")
	}

	e := api.NewRouter(api.RouterConfig{
		JWTSecret: cfg.JWTSecret,
		Logger:    logger.Component("http"),
		Services:  a.services(),
		Health:    health,
	})

	errCh := make(chan error, 1)
	go func() {
		log.Info().Str("port", cfg.Port).Msg("server listening")
		if err := e.Start(":" + cfg.Port); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	log.Info().Msg("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	return e.Shutdown(shutdownCtx)
}
