// Package event bridges storefront analytics events onto the Kafka pipeline.
package event

import (
	"context"
	"log/slog"

	"github.com/utafrali/minicart/internal/analytics"
	"github.com/utafrali/minicart/pkg/kafka"
	"github.com/utafrali/minicart/pkg/logger"
)

const (
	// AnalyticsTopic is the Kafka topic carrying storefront analytics events.
	AnalyticsTopic = "storefront.analytics.events"

	aggregateType = "session"
	source        = "minicart-service"
)

// Publisher is the subset of the Kafka producer used by the dispatcher.
type Publisher interface {
	Publish(ctx context.Context, topic string, event *kafka.Event) error
}

// KafkaDispatcher forwards analytics events to Kafka. It implements
// analytics.Dispatcher and is strictly best-effort: publish failures are
// logged and dropped, never surfaced to the cart flow.
type KafkaDispatcher struct {
	producer Publisher
	logger   *slog.Logger
}

// NewKafkaDispatcher creates a dispatcher publishing to the analytics topic.
func NewKafkaDispatcher(producer Publisher, l *slog.Logger) *KafkaDispatcher {
	return &KafkaDispatcher{producer: producer, logger: l}
}

// Dispatch publishes the analytics event keyed by the session carried in ctx.
// Sessions without an ID still publish, keyed by the empty string, so
// anonymous traffic is not lost.
func (d *KafkaDispatcher) Dispatch(ctx context.Context, event analytics.Event) {
	sessionID := logger.SessionIDFromContext(ctx)

	envelope, err := kafka.NewEvent(event.Name, sessionID, aggregateType, source, event)
	if err != nil {
		d.logger.ErrorContext(ctx, "failed to build analytics envelope",
			slog.String("event_name", event.Name),
			slog.String("error", err.Error()),
		)
		return
	}

	if id := logger.CorrelationIDFromContext(ctx); id != "" {
		envelope.WithCorrelationID(id)
	}

	if err := d.producer.Publish(ctx, AnalyticsTopic, envelope); err != nil {
		d.logger.WarnContext(ctx, "dropping analytics event, publish failed",
			slog.String("event_name", event.Name),
			slog.String("error", err.Error()),
		)
	}
}
