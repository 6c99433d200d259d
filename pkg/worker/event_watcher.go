package worker

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/jwalitptl/clinic-registry/pkg/logger"
	"github.com/jwalitptl/clinic-registry/pkg/messaging"
	"github.com/jwalitptl/clinic-registry/pkg/metrics"
)

// EventHandlerFunc processes one decoded event. Errors are logged and counted;
// they never stop the watcher.
type EventHandlerFunc func(ctx context.Context, eventType string, payload json.RawMessage) error

type EventWatcherConfig struct {
	Channel string
}

// EventWatcher consumes the envelopes published by messaging.EventPublisher.
type EventWatcher struct {
	broker  messaging.Broker
	config  EventWatcherConfig
	handle  EventHandlerFunc
	logger  *logger.Logger
	metrics *metrics.Metrics
}

type envelope struct {
	Type    string          `json:"type"`
	Payload json.RawMessage `json:"payload"`
}

func NewEventWatcher(
	broker messaging.Broker,
	config EventWatcherConfig,
	handle EventHandlerFunc,
	logger *logger.Logger,
	metrics *metrics.Metrics,
) *EventWatcher {
	if config.Channel == "" {
		panic("Channel must not be empty")
	}
	if handle == nil {
		panic("handle must not be nil")
	}

	return &EventWatcher{
		broker:  broker,
		config:  config,
		handle:  handle,
		logger:  logger.WithFields(map[string]interface{}{"channel": config.Channel}),
		metrics: metrics,
	}
}

// Start blocks until ctx is cancelled or the subscription ends.
func (w *EventWatcher) Start(ctx context.Context) error {
	messages, err := w.broker.Subscribe(ctx, w.config.Channel)
	if err != nil {
		return fmt.Errorf("failed to subscribe: %w", err)
	}

	w.logger.Info("Starting event watcher")

	for {
		select {
		case <-ctx.Done():
			w.logger.Info("Shutting down event watcher")
			return nil
		case raw, ok := <-messages:
			if !ok {
				w.logger.Warn("Subscription closed")
				return nil
			}
			w.process(ctx, raw)
		}
	}
}

func (w *EventWatcher) process(ctx context.Context, raw []byte) {
	var evt envelope
	if err := json.Unmarshal(raw, &evt); err != nil {
		w.logger.Error(err, "Failed to decode event")
		w.record("unknown", "invalid")
		return
	}

	if err := w.handle(ctx, evt.Type, evt.Payload); err != nil {
		w.logger.Error(err, "Failed to handle event", "event_type", evt.Type)
		w.record(evt.Type, "error")
		return
	}
	w.record(evt.Type, "success")
}

func (w *EventWatcher) record(eventType, status string) {
	if w.metrics == nil {
		return
	}
	w.metrics.EventsReceived.WithLabelValues(eventType, status).Inc()
}
