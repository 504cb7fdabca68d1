package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/labstack/echo/v4"
	echomw "github.com/labstack/echo/v4/middleware"
	goredis "github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"

	linkgate "github.com/cameronjim/linkgate"
	echoapi "github.com/cameronjim/linkgate/api/echo"
	"github.com/cameronjim/linkgate/cache"
	"github.com/cameronjim/linkgate/config"
	"github.com/cameronjim/linkgate/log"
	"github.com/cameronjim/linkgate/mongodb"
	redisstore "github.com/cameronjim/linkgate/redis"
	"github.com/cameronjim/linkgate/services"
)

func main() {
	cfg, err := config.LoadConfig()
	if err != nil {
		bootLogger := zerolog.New(os.Stderr).With().Timestamp().Logger()
		bootLogger.Fatal().Err(err).Msg("Failed to load configuration")
	}

	logLevel, parseErr := zerolog.ParseLevel(cfg.LogLevel)
	if parseErr != nil {
		logLevel = zerolog.InfoLevel
	}
	appLogger := log.NewZerologAdapter(logLevel, cfg.LogPretty)

	ctx := context.Background()
	appLogger.Info(ctx, "Starting linkgate server", map[string]interface{}{
		"http_port":     cfg.HTTPPort,
		"store_backend": cfg.StoreBackend,
		"site_url":      cfg.SiteURL,
		"short_domain":  cfg.ShortLinkDomain,
		"log_level":     logLevel.String(),
	})
	if parseErr != nil {
		appLogger.Warn(ctx, "Invalid LOG_LEVEL configured, defaulting to info",
			map[string]interface{}{"configured": cfg.LogLevel})
	}

	tokens, events, cleanup, err := buildStores(ctx, cfg)
	if err != nil {
		appLogger.Error(ctx, "Failed to initialize stores", err)
		os.Exit(1)
	}
	defer cleanup()

	clock := linkgate.SystemClock()
	generator := linkgate.NewTokenGenerator()

	validator := services.NewValidationService(tokens, clock)
	eventLogger := services.NewEventService(events, clock, cfg.IPSalt)
	access := services.NewAccessService(validator, eventLogger, cfg.SiteURL)
	admin := services.NewAdminService(tokens, events, generator, clock,
		cfg.ShortLinkDomain, cfg.DefaultExpiryDays)

	e := echo.New()
	e.HideBanner = true
	e.Use(echomw.Recover())
	e.Use(echomw.CORSWithConfig(echomw.CORSConfig{
		AllowOrigins: []string{cfg.AllowedOrigin},
		AllowMethods: []string{http.MethodGet, http.MethodPost, http.MethodOptions},
		AllowHeaders: []string{echo.HeaderContentType, echo.HeaderAuthorization},
	}))

	echoapi.NewPublicAPI(access).RegisterRoutes(e)
	echoapi.NewAdminAPI(admin, appLogger).RegisterRoutes(e,
		echoapi.BearerAuth(cfg.AdminSecret, cfg.AdminSecretBcrypt))

	go func() {
		if err := e.Start(":" + cfg.HTTPPort); err != nil && !errors.Is(err, http.ErrServerClosed) {
			appLogger.Error(ctx, "HTTP server stopped", err)
			os.Exit(1)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	appLogger.Info(ctx, "Shutting down")
	shutdownCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()
	if err := e.Shutdown(shutdownCtx); err != nil {
		appLogger.Error(shutdownCtx, "Graceful shutdown failed", err)
	}
}

// buildStores wires the configured backend. The returned cleanup is
// safe to call exactly once at shutdown.
func buildStores(ctx context.Context, cfg *config.ServerConfig) (services.TokenDirectory, linkgate.EventStore, func(), error) {
	switch cfg.StoreBackend {
	case "mongo":
		db, disconnect, err := mongodb.Connect(ctx, cfg.MongoURI, cfg.MongoDBName)
		if err != nil {
			return nil, nil, nil, err
		}
		tokens, err := mongodb.NewTokenRepository(ctx, db, cfg.TokensCollection)
		if err != nil {
			_ = disconnect(ctx)
			return nil, nil, nil, err
		}
		events, err := mongodb.NewEventRepository(ctx, db, cfg.EventsCollection)
		if err != nil {
			_ = disconnect(ctx)
			return nil, nil, nil, err
		}
		return tokens, events, func() { _ = disconnect(context.Background()) }, nil

	case "redis":
		client := goredis.NewClient(&goredis.Options{Addr: cfg.RedisAddr})
		if err := client.Ping(ctx).Err(); err != nil {
			return nil, nil, nil, fmt.Errorf("ping redis: %w", err)
		}
		tokens := redisstore.NewTokenStore(client, cfg.RedisPrefix)
		events := redisstore.NewEventStore(client, cfg.RedisPrefix)
		return tokens, events, func() { _ = client.Close() }, nil

	case "memory":
		tokens := cache.NewMemoryTokenStore()
		events := cache.NewMemoryEventStore()
		return tokens, events, func() { _ = tokens.Close() }, nil

	default:
		return nil, nil, nil, fmt.Errorf("unknown store backend %q", cfg.StoreBackend)
	}
}
