package queue

import (
	"context"
	"sync"
	"time"

	"github.com/kart-io/mediahook/pkg/logger"
)

// DefaultPollInterval is the cadence between queue sweeps.
const DefaultPollInterval = 10 * time.Second

// SweepFunc runs one full pass over pending work.
type SweepFunc func(ctx context.Context)

// Poller drives a sweep function at a fixed interval. Sweeps never overlap:
// the next tick waits for the previous sweep to return. Stop cancels future
// sweeps cooperatively and joins the worker; an in-flight sweep observes the
// cancelled context and finishes on its own.
//
// The queue is equally drivable by a host-managed scheduled task calling
// ProcessPending directly; Poller is the self-contained driver.
type Poller struct {
	interval time.Duration
	sweep    SweepFunc
	log      logger.Logger

	mu      sync.Mutex
	cancel  context.CancelFunc
	wg      sync.WaitGroup
	started bool
}

// NewPoller creates a poller driving sweep every interval. A non-positive
// interval falls back to DefaultPollInterval.
func NewPoller(interval time.Duration, sweep SweepFunc, log logger.Logger) *Poller {
	if interval <= 0 {
		interval = DefaultPollInterval
	}
	if log == nil {
		log = logger.Discard
	}
	return &Poller{interval: interval, sweep: sweep, log: log}
}

// Start launches the polling worker. Starting an already-started poller is a
// no-op.
func (p *Poller) Start() {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.started {
		return
	}
	ctx, cancel := context.WithCancel(context.Background())
	p.cancel = cancel
	p.started = true

	p.wg.Add(1)
	go p.run(ctx)
	p.log.Debug("poller started", "interval", p.interval)
}

func (p *Poller) run(ctx context.Context) {
	defer p.wg.Done()
	ticker := time.NewTicker(p.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			p.sweep(ctx)
		}
	}
}

// Stop cancels polling and waits for the worker to exit. Safe to call more
// than once.
func (p *Poller) Stop() {
	p.mu.Lock()
	if !p.started {
		p.mu.Unlock()
		return
	}
	p.started = false
	cancel := p.cancel
	p.mu.Unlock()

	cancel()
	p.wg.Wait()
	p.log.Debug("poller stopped")
}
