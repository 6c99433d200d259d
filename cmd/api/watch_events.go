package main

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"

	clinicService "github.com/jwalitptl/clinic-registry/internal/service/clinic"
	redisbroker "github.com/jwalitptl/clinic-registry/pkg/messaging/redis"
	"github.com/jwalitptl/clinic-registry/pkg/metrics"
	"github.com/jwalitptl/clinic-registry/pkg/worker"
)

var watchEventsCmd = &cobra.Command{
	Use:   "watch-events",
	Short: "Log clinic events published on Redis until interrupted",
	RunE: func(cmd *cobra.Command, _ []string) error {
		if cfg.Redis.URL == "" {
			return errors.New("redis.url is required to watch events")
		}

		ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
		defer stop()

		client, err := redisbroker.Connect(ctx, redisConfig(cfg.Redis))
		if err != nil {
			return err
		}
		broker := redisbroker.NewRedisBroker(client, lg.Zerolog())
		defer broker.Close()

		var watcherMetrics *metrics.Metrics
		if watchMetricsAddr != "" {
			registry := prometheus.NewRegistry()
			watcherMetrics = metrics.NewMetrics(registry, "clinics", "watcher")
			srv := serveMetrics(watchMetricsAddr, registry)
			defer func() {
				shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
				defer cancel()
				srv.Shutdown(shutdownCtx)
			}()
		}

		watcher := worker.NewEventWatcher(
			broker,
			worker.EventWatcherConfig{Channel: clinicService.EventsChannel},
			logEvent,
			lg,
			watcherMetrics,
		)
		return watcher.Start(ctx)
	},
}

var watchMetricsAddr string

func init() {
	watchEventsCmd.Flags().StringVar(&watchMetricsAddr, "metrics-addr", ":9091", "address serving /metrics for the watcher; empty disables it")
	rootCmd.AddCommand(watchEventsCmd)
}

func metricsMux(registry *prometheus.Registry) *http.ServeMux {
	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.HandlerFor(registry, promhttp.HandlerOpts{Registry: registry}))
	return mux
}

func serveMetrics(addr string, registry *prometheus.Registry) *http.Server {
	srv := &http.Server{Addr: addr, Handler: metricsMux(registry)}

	go func() {
		log.Info().Str("addr", addr).Msg("serving watcher metrics")
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Error().Err(err).Msg("metrics server failed")
		}
	}()
	return srv
}

func logEvent(_ context.Context, eventType string, payload json.RawMessage) error {
	var clinic struct {
		ID       string `json:"id"`
		ClinicID string `json:"clinic_id"`
	}
	if err := json.Unmarshal(payload, &clinic); err != nil {
		return err
	}
	lg.Info("Clinic event",
		"event_type", eventType,
		"id", clinic.ID,
		"clinic_id", clinic.ClinicID,
	)
	return nil
}
