// Package telemetry records mediahook's OpenTelemetry metrics. The host owns
// provider and exporter setup; instruments are created against the global
// meter provider and every recording method is nil-safe, so telemetry can be
// left unwired entirely.
package telemetry

import (
	"context"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
)

const instrumentationName = "github.com/kart-io/mediahook"

// Metrics holds the mediahook instruments.
type Metrics struct {
	meter metric.Meter
	sends metric.Int64Counter
}

// New creates the send counter against the global meter provider.
func New() (*Metrics, error) {
	meter := otel.Meter(instrumentationName)
	sends, err := meter.Int64Counter("mediahook.sends",
		metric.WithDescription("Send outcomes per destination kind"))
	if err != nil {
		return nil, err
	}
	return &Metrics{meter: meter, sends: sends}, nil
}

// RecordSend counts one send outcome for a destination kind.
func (m *Metrics) RecordSend(ctx context.Context, kind, status string) {
	if m == nil {
		return
	}
	m.sends.Add(ctx, 1,
		metric.WithAttributes(
			attribute.String("destination", kind),
			attribute.String("status", status),
		))
}

// RegisterQueueDepth exposes a pending-queue depth gauge fed by depth.
func (m *Metrics) RegisterQueueDepth(queueName string, depth func() int64) error {
	if m == nil {
		return nil
	}
	_, err := m.meter.Int64ObservableGauge("mediahook.queue.depth",
		metric.WithDescription("Deferred item queue depth"),
		metric.WithInt64Callback(func(_ context.Context, o metric.Int64Observer) error {
			o.Observe(depth(), metric.WithAttributes(attribute.String("queue", queueName)))
			return nil
		}))
	return err
}
