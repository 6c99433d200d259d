package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	goredis "github.com/redis/go-redis/v9"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"
	"golang.org/x/time/rate"

	"github.com/jwalitptl/clinic-registry/internal/config"
	clinicHandler "github.com/jwalitptl/clinic-registry/internal/handler/clinic"
	"github.com/jwalitptl/clinic-registry/internal/handler/health"
	prometheusHandler "github.com/jwalitptl/clinic-registry/internal/handler/prometheus"
	"github.com/jwalitptl/clinic-registry/internal/middleware"
	"github.com/jwalitptl/clinic-registry/internal/repository"
	"github.com/jwalitptl/clinic-registry/internal/router"
	clinicService "github.com/jwalitptl/clinic-registry/internal/service/clinic"
	"github.com/jwalitptl/clinic-registry/pkg/messaging"
	redisbroker "github.com/jwalitptl/clinic-registry/pkg/messaging/redis"
	"github.com/jwalitptl/clinic-registry/pkg/metrics"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Initialize the store and serve the HTTP API",
	RunE:  runServe,
}

func init() {
	rootCmd.AddCommand(serveCmd)
}

func runServe(_ *cobra.Command, _ []string) error {
	ctx := context.Background()

	registry := prometheus.NewRegistry()
	appMetrics := metrics.NewMetrics(registry, "clinics", "api")

	store, err := openStore(ctx, cfg)
	if err != nil {
		return fmt.Errorf("failed to open store: %w", err)
	}
	defer func() {
		if err := store.Close(context.Background()); err != nil {
			log.Error().Err(err).Msg("failed to close store")
		}
	}()

	if err := store.Init(ctx); err != nil {
		return err
	}
	log.Info().Str("backend", cfg.Store.Backend).Msg("store ready")

	// Redis is optional; without it events are off and rate limiting is per process.
	var (
		publisher   messaging.Publisher
		redisClient *goredis.Client
	)
	if cfg.Redis.URL != "" {
		redisClient, err = redisbroker.Connect(ctx, redisConfig(cfg.Redis))
		if err != nil {
			return err
		}
		broker := redisbroker.NewRedisBroker(redisClient, lg.Zerolog())
		eventPublisher := messaging.NewEventPublisher(broker, clinicService.EventsChannel)
		defer eventPublisher.Close()
		publisher = eventPublisher
	}

	clinicRepo := repository.NewInstrumentedClinicRepository(store.Clinics(), appMetrics)
	clinicSvc := clinicService.NewService(clinicRepo, publisher, appMetrics, lg.Zerolog())

	r, err := router.NewRouter(
		router.RouterConfig{
			CORSConfig: middleware.CORSConfig{
				AllowOrigins: cfg.Security.AllowedOrigins,
				AllowMethods: cfg.Security.AllowedMethods,
				AllowHeaders: cfg.Security.AllowedHeaders,
			},
			SecurityConfig:  middleware.DefaultSecurityConfig(),
			SizeLimitConfig: middleware.DefaultSizeLimitConfig(),
			CompressConfig:  middleware.DefaultCompressConfig(),
			RateLimiters:    rateLimiters(cfg.RateLimit, redisClient, appMetrics),
		},
		prometheusHandler.New(registry),
		health.NewHandler(store),
		clinicHandler.NewHandler(clinicSvc, cfg.API.DefaultPageSize, cfg.API.MaxPageSize),
	)
	if err != nil {
		return err
	}
	r.Setup()

	srv := &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.Server.Port),
		Handler:      r.Engine(),
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
	}

	serverErr := make(chan error, 1)
	go func() {
		log.Info().Str("addr", srv.Addr).Msg("starting server")
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serverErr <- err
		}
	}()

	// Wait for interrupt signal to gracefully shutdown the server
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	select {
	case <-quit:
	case err := <-serverErr:
		return fmt.Errorf("failed to start server: %w", err)
	}
	log.Info().Msg("shutting down server...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("server forced to shutdown: %w", err)
	}

	log.Info().Msg("server exited properly")
	return nil
}

func redisConfig(c config.RedisConfig) redisbroker.Config {
	return redisbroker.Config{
		URL:          c.URL,
		MaxRetries:   c.MaxRetries,
		RetryBackoff: c.RetryBackoff,
		PoolSize:     c.PoolSize,
		MinIdleConns: c.MinIdleConns,
	}
}

// rateLimiters prefers the shared Redis window when a client is available.
func rateLimiters(c config.RateLimitConfig, client *goredis.Client, m *metrics.Metrics) []gin.HandlerFunc {
	if !c.Enabled {
		return nil
	}
	if client != nil {
		return []gin.HandlerFunc{
			middleware.NewRedisRateLimiter(client, c.RequestsPerSecond, c.Burst, c.Window, m).RateLimit(),
		}
	}
	return []gin.HandlerFunc{
		middleware.NewRateLimiter(middleware.RateLimiterConfig{
			Rate:  rate.Limit(c.RequestsPerSecond),
			Burst: c.Burst,
		}, m).RateLimit(),
	}
}
