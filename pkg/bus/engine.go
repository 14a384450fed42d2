// Package bus wires the mediahook pipeline together and exposes the surface
// the host's lifecycle hooks call: start, stop, configuration-changed, and
// the typed domain-event entry points.
package bus

import (
	"context"
	"sync"
	"time"

	"github.com/kart-io/mediahook/pkg/config"
	"github.com/kart-io/mediahook/pkg/destinations/chat"
	"github.com/kart-io/mediahook/pkg/destinations/generic"
	"github.com/kart-io/mediahook/pkg/destinations/genericform"
	"github.com/kart-io/mediahook/pkg/destinations/mqtt"
	"github.com/kart-io/mediahook/pkg/destinations/push"
	"github.com/kart-io/mediahook/pkg/destinations/smtp"
	"github.com/kart-io/mediahook/pkg/dispatcher"
	"github.com/kart-io/mediahook/pkg/events"
	"github.com/kart-io/mediahook/pkg/logger"
	"github.com/kart-io/mediahook/pkg/queue"
	"github.com/kart-io/mediahook/pkg/telemetry"
)

// EventSource is the host's notification bus. Subscribe registers the engine
// for domain events and returns the matching unsubscribe; the engine calls it
// during Close so teardown always releases the registration.
type EventSource interface {
	Subscribe(sink *Engine) (unsubscribe func(), err error)
}

// Engine owns the event-to-delivery pipeline: the dispatcher, the deferred
// item queues with their poller, and the broker connection manager.
type Engine struct {
	log     logger.Logger
	server  events.ServerInfo
	metrics *telemetry.Metrics

	dispatcher *dispatcher.Dispatcher
	added      *queue.DeferredQueue
	removed    *queue.DeferredQueue
	poller     *queue.Poller
	brokers    *mqtt.Manager

	mu          sync.Mutex
	unsubscribe []func()
	closeOnce   sync.Once
}

// New assembles an engine over the given configuration and item store.
func New(cfg *config.Config, store queue.ItemStore, server events.ServerInfo, log logger.Logger) (*Engine, error) {
	if log == nil {
		log = logger.Discard
	}
	if cfg == nil {
		cfg = config.Default()
	}
	cfg.Normalize()

	metrics, err := telemetry.New()
	if err != nil {
		log.Warn("telemetry unavailable", "error", err)
		metrics = nil
	}

	e := &Engine{
		log:     log,
		server:  server,
		metrics: metrics,
		brokers: mqtt.NewManager(log),
	}

	e.dispatcher = dispatcher.New(cfg, metrics, log)
	e.dispatcher.Register(generic.NewClient(log))
	e.dispatcher.Register(genericform.NewClient(log))
	e.dispatcher.Register(chat.NewClient(log))
	e.dispatcher.Register(push.NewClient(log))
	e.dispatcher.Register(smtp.NewClient(log))
	e.dispatcher.Register(mqtt.NewClient(e.brokers, log))

	e.added = queue.NewDeferredQueue(events.TypeItemAdded, store, e.dispatchItem, log)
	e.removed = queue.NewDeferredQueue(events.TypeItemDeleted, store, e.dispatchItem, log)
	e.poller = queue.NewPoller(queue.DefaultPollInterval, e.sweep, log)

	if err := metrics.RegisterQueueDepth("item_added", func() int64 { return int64(e.added.Len()) }); err != nil {
		log.Warn("failed to register queue depth gauge", "queue", "item_added", "error", err)
	}
	if err := metrics.RegisterQueueDepth("item_deleted", func() int64 { return int64(e.removed.Len()) }); err != nil {
		log.Warn("failed to register queue depth gauge", "queue", "item_deleted", "error", err)
	}

	return e, nil
}

// Start launches the queue poller and connects the broker destinations.
func (e *Engine) Start() {
	e.brokers.Reconcile(e.dispatcher.Config().MQTT)
	e.poller.Start()
	e.log.Info("mediahook engine started")
}

// Attach subscribes the engine to the host's event bus. The registration is
// released automatically on Close.
func (e *Engine) Attach(src EventSource) error {
	unsubscribe, err := src.Subscribe(e)
	if err != nil {
		return err
	}
	e.mu.Lock()
	e.unsubscribe = append(e.unsubscribe, unsubscribe)
	e.mu.Unlock()
	return nil
}

// ConfigurationChanged replaces the whole configuration and reconciles the
// broker connections against it.
func (e *Engine) ConfigurationChanged(cfg *config.Config) {
	e.dispatcher.UpdateConfig(cfg)
	e.brokers.Reconcile(e.dispatcher.Config().MQTT)
}

// Close tears the pipeline down: host-bus registrations released first, then
// the poller joined, then broker connections stopped. In-flight deliveries
// finish on their own transport timeouts. Safe to call more than once.
func (e *Engine) Close() {
	e.closeOnce.Do(func() {
		e.mu.Lock()
		unsubs := e.unsubscribe
		e.unsubscribe = nil
		e.mu.Unlock()
		for _, unsubscribe := range unsubs {
			unsubscribe()
		}

		e.poller.Stop()
		e.brokers.Close()
		e.log.Info("mediahook engine stopped")
	})
}

// ProcessPending runs one queue sweep. Exposed so a host-managed scheduled
// task can drive the queues instead of the built-in poller.
func (e *Engine) ProcessPending(ctx context.Context) {
	e.sweep(ctx)
}

func (e *Engine) sweep(ctx context.Context) {
	e.added.ProcessPending(ctx)
	e.removed.ProcessPending(ctx)
}

func (e *Engine) now() time.Time { return time.Now() }
