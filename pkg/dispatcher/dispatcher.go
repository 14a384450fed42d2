// Package dispatcher fans one event out to every configured destination
// instance. Failures are isolated per destination: a slow, failing or
// panicking destination never affects delivery to its siblings.
package dispatcher

import (
	"context"
	"sync"

	"github.com/kart-io/mediahook/pkg/config"
	"github.com/kart-io/mediahook/pkg/destination"
	"github.com/kart-io/mediahook/pkg/logger"
	"github.com/kart-io/mediahook/pkg/telemetry"
)

// Dispatcher routes events to destination clients per the current
// configuration. The configuration is swapped whole on UpdateConfig; an
// in-flight fan-out keeps the snapshot it started with.
type Dispatcher struct {
	log     logger.Logger
	metrics *telemetry.Metrics

	mu      sync.RWMutex
	cfg     *config.Config
	clients map[string]destination.Client
}

// New creates a dispatcher over the given configuration. Metrics may be nil.
func New(cfg *config.Config, metrics *telemetry.Metrics, log logger.Logger) *Dispatcher {
	if log == nil {
		log = logger.Discard
	}
	if cfg == nil {
		cfg = config.Default()
	}
	return &Dispatcher{
		log:     log,
		metrics: metrics,
		cfg:     cfg,
		clients: make(map[string]destination.Client),
	}
}

// Register adds a destination client for its kind, replacing any previous
// registration.
func (d *Dispatcher) Register(c destination.Client) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.clients[c.Kind()] = c
	d.log.Debug("destination client registered", "kind", c.Kind())
}

// UpdateConfig replaces the whole configuration.
func (d *Dispatcher) UpdateConfig(cfg *config.Config) {
	if cfg == nil {
		cfg = config.Default()
	}
	cfg.Normalize()
	d.mu.Lock()
	d.cfg = cfg
	d.mu.Unlock()
	d.log.Info("configuration updated")
}

// Config returns the current configuration snapshot.
func (d *Dispatcher) Config() *config.Config {
	d.mu.RLock()
	defer d.mu.RUnlock()
	return d.cfg
}

// Dispatch fans the event out to every configured destination instance of
// every registered kind. Sends run concurrently and are joined before
// Dispatch returns; each send receives its own payload clone so
// augmentations never leak across destinations.
func (d *Dispatcher) Dispatch(ctx context.Context, ev destination.Event) {
	d.mu.RLock()
	cfg := d.cfg
	clients := make(map[string]destination.Client, len(d.clients))
	for kind, c := range d.clients {
		clients[kind] = c
	}
	d.mu.RUnlock()

	var wg sync.WaitGroup
	for kind, opts := range cfg.ByKind() {
		client, ok := clients[kind]
		if !ok {
			continue
		}
		for _, opt := range opts {
			wg.Add(1)
			go func(client destination.Client, opt destination.Option) {
				defer wg.Done()
				d.send(ctx, client, opt, ev)
			}(client, opt)
		}
	}
	wg.Wait()
}

func (d *Dispatcher) send(ctx context.Context, client destination.Client, opt destination.Option, ev destination.Event) {
	defer func() {
		if r := recover(); r != nil {
			d.log.Error("destination client panicked", "kind", client.Kind(), "instance", opt.Base().InstanceID, "panic", r)
			d.metrics.RecordSend(ctx, client.Kind(), destination.StatusFailed.String())
		}
	}()

	local := ev
	local.Data = ev.Data.Clone()

	outcome := client.Send(ctx, opt, local)
	d.metrics.RecordSend(ctx, client.Kind(), outcome.Status.String())

	switch outcome.Status {
	case destination.StatusDelivered:
		d.log.Debug("delivered", "kind", client.Kind(), "instance", opt.Base().InstanceID, "type", ev.Type)
	case destination.StatusSkipped:
		d.log.Debug("skipped", "kind", client.Kind(), "instance", opt.Base().InstanceID, "type", ev.Type, "reason", outcome.Reason)
	case destination.StatusFailed:
		d.log.Error("send failed", "kind", client.Kind(), "instance", opt.Base().InstanceID, "type", ev.Type, "error", outcome.Err)
	}
}
