/*
Package main runs the WORK21 portal: the browser-facing server that keeps one
session store per browser and proxies page actions to the WORK21 backend.

It loads configuration, initialises logging, connects the configured
client-local storage, serves HTTP and shuts down gracefully on SIGINT/SIGTERM.
*/
package main

import (
	"context"
	"crypto/rand"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/rs/zerolog"
	"golang.org/x/time/rate"

	"github.com/work21/portal/internal/api"
	"github.com/work21/portal/internal/api/middleware"
	"github.com/work21/portal/internal/core/ports"
	"github.com/work21/portal/internal/core/service"
	"github.com/work21/portal/internal/infrastructure/backend"
	mongostore "github.com/work21/portal/internal/infrastructure/db/mongo"
	redisstore "github.com/work21/portal/internal/infrastructure/db/redis"
	"github.com/work21/portal/internal/infrastructure/http/handlers"
	"github.com/work21/portal/internal/infrastructure/storage"
	"github.com/work21/portal/internal/pkg/config"
	"github.com/work21/portal/pkg/logger"
)

const limiterCleanupEvery = 3 * time.Minute

func main() {
	cfg := config.Load()
	log := logger.Init(logger.ForEnv(cfg.Env, cfg.LogLevel, "work21-portal"))

	log.Info().
		Str("env", cfg.Env).
		Str("port", cfg.Port).
		Str("backend", cfg.Backend.URL).
		Str("storage", cfg.Storage.Driver).
		Strs("allowed_origins", cfg.AllowedOrigins).
		Msg("configuration loaded")

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	provider, storagePing, closeStorage, err := openStorage(ctx, cfg, log)
	if err != nil {
		log.Fatal().Err(err).Str("driver", cfg.Storage.Driver).Msg("storage unavailable")
	}
	defer closeStorage()

	client := backend.New(backend.Config{BaseURL: cfg.Backend.URL, Timeout: cfg.Backend.Timeout}, log)
	registry := service.NewWorkspaceRegistry(provider, func(ls ports.LocalStorage) ports.Backend {
		return client.WithTokens(storage.NewTokenSource(ls, log))
	}, cfg.SessionIdle, log)
	if mem, ok := provider.(*storage.MemoryProvider); ok {
		registry.OnUnmount(mem.Drop)
	}
	go registry.Run(ctx)

	limiter := middleware.NewIPRateLimiter(rate.Limit(cfg.Login.Rate), cfg.Login.Burst, log)
	go limiter.Run(ctx, limiterCleanupEvery)

	secret, err := cookieSecret(cfg, log)
	if err != nil {
		log.Fatal().Err(err).Msg("cookie secret")
	}

	e := api.NewRouter(api.Deps{
		Workspaces: registry,
		Cookie: middleware.CookieConfig{
			Name:   cfg.Cookie.Name,
			Secret: secret,
			Secure: cfg.Cookie.Secure,
			MaxAge: cfg.Cookie.MaxAge,
		},
		LoginLimiter:   limiter,
		AllowedOrigins: cfg.AllowedOrigins,
		Readiness: map[string]handlers.Pinger{
			"storage": storagePing,
			"backend": client,
		},
		Log: log,
	})
	e.Server.ReadTimeout = 10 * time.Second
	e.Server.IdleTimeout = 120 * time.Second

	go func() {
		log.Info().Str("addr", ":"+cfg.Port).Msg("portal starting")
		if err := e.Start(":" + cfg.Port); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal().Err(err).Msg("server failed to start")
		}
	}()

	<-ctx.Done()
	log.Info().Msg("shutdown signal received, draining connections")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := e.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("server forced to shut down")
	}
	registry.Shutdown()

	log.Info().Msg("portal stopped")
}

// openStorage connects the client-local storage selected by STORAGE_DRIVER.
func openStorage(ctx context.Context, cfg *config.Config, log zerolog.Logger) (ports.StorageProvider, handlers.Pinger, func(), error) {
	switch cfg.Storage.Driver {
	case config.DriverRedis:
		rdb, err := redisstore.Connect(ctx, redisstore.Config{
			Addr:     cfg.Redis.Addr,
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
		})
		if err != nil {
			return nil, nil, nil, err
		}
		p := redisstore.NewStorageProvider(rdb, cfg.Storage.TTL)
		return p, p, func() {
			if err := rdb.Close(); err != nil {
				log.Warn().Err(err).Msg("redis close")
			}
		}, nil

	case config.DriverMongo:
		mc, db, err := mongostore.Connect(ctx, mongostore.Config{URI: cfg.Mongo.URI, Database: cfg.Mongo.Database})
		if err != nil {
			return nil, nil, nil, err
		}
		p := mongostore.NewStorageProvider(db, cfg.Storage.TTL)
		if err := p.EnsureIndexes(ctx); err != nil {
			_ = mc.Disconnect(context.Background())
			return nil, nil, nil, err
		}
		return p, p, func() {
			dctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()
			if err := mc.Disconnect(dctx); err != nil {
				log.Warn().Err(err).Msg("mongo disconnect")
			}
		}, nil
	}

	log.Warn().Msg("memory storage: sessions are lost on restart")
	return storage.NewMemoryProvider(), handlers.PingFunc(func(context.Context) error { return nil }), func() {}, nil
}

// cookieSecret returns COOKIE_SECRET, or a random per-process secret outside
// production. Validate already rejects a short secret in production.
func cookieSecret(cfg *config.Config, log zerolog.Logger) ([]byte, error) {
	if cfg.Cookie.Secret != "" {
		return []byte(cfg.Cookie.Secret), nil
	}
	secret := make([]byte, 32)
	if _, err := rand.Read(secret); err != nil {
		return nil, err
	}
	log.Warn().Msg("COOKIE_SECRET unset: using a random secret, browser sessions end on restart")
	return secret, nil
}
