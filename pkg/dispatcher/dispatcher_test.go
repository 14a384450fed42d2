package dispatcher

import (
	"context"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kart-io/mediahook/pkg/config"
	"github.com/kart-io/mediahook/pkg/destination"
	"github.com/kart-io/mediahook/pkg/destinations/generic"
	"github.com/kart-io/mediahook/pkg/events"
	"github.com/kart-io/mediahook/pkg/payload"
)

// fakeClient records every send it receives.
type fakeClient struct {
	kind string

	mu    sync.Mutex
	sends []destination.Event

	panics  bool
	mutate  func(*payload.Payload)
	outcome destination.Outcome
}

func (f *fakeClient) Kind() string { return f.kind }

func (f *fakeClient) Send(_ context.Context, _ destination.Option, ev destination.Event) destination.Outcome {
	if f.panics {
		panic("boom")
	}
	if f.mutate != nil {
		f.mutate(ev.Data)
	}
	f.mu.Lock()
	f.sends = append(f.sends, ev)
	f.mu.Unlock()
	return f.outcome
}

func (f *fakeClient) sendCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.sends)
}

func genericConfig(n int) *config.Config {
	cfg := config.Default()
	for i := 0; i < n; i++ {
		cfg.Generic = append(cfg.Generic, &generic.Option{
			Options: destination.Options{Enabled: true, WebhookURI: "http://localhost/hook"},
		})
	}
	cfg.Normalize()
	return cfg
}

func itemEvent() destination.Event {
	p := payload.New()
	p.Set("Name", "Inception")
	return destination.Event{Type: events.TypeItemAdded, ItemKind: events.KindMovie, Data: p}
}

func TestDispatchFansOutPerInstance(t *testing.T) {
	fc := &fakeClient{kind: "generic", outcome: destination.Delivered()}

	d := New(genericConfig(3), nil, nil)
	d.Register(fc)
	d.Dispatch(context.Background(), itemEvent())

	assert.Equal(t, 3, fc.sendCount())
}

func TestDispatchSkipsUnregisteredKinds(t *testing.T) {
	d := New(genericConfig(2), nil, nil)

	// No client registered for "generic": dispatch is a no-op, not a crash.
	d.Dispatch(context.Background(), itemEvent())
}

func TestDispatchIsolatesPanics(t *testing.T) {
	panicking := &fakeClient{kind: "generic", panics: true}

	d := New(genericConfig(2), nil, nil)
	d.Register(panicking)

	// Must return normally despite both sends panicking.
	d.Dispatch(context.Background(), itemEvent())
}

func TestDispatchClonesPayloadPerSend(t *testing.T) {
	mutating := &fakeClient{
		kind:    "generic",
		outcome: destination.Delivered(),
		mutate: func(p *payload.Payload) {
			p.Set("Mentions", "@here")
		},
	}

	d := New(genericConfig(2), nil, nil)
	d.Register(mutating)

	ev := itemEvent()
	d.Dispatch(context.Background(), ev)

	require.Equal(t, 2, mutating.sendCount())
	// The source payload never sees destination-side augmentation.
	assert.False(t, ev.Data.Has("Mentions"))
	// Each send got its own clone.
	assert.NotSame(t, ev.Data, mutating.sends[0].Data)
	assert.NotSame(t, mutating.sends[0].Data, mutating.sends[1].Data)
}

func TestUpdateConfigSwapsWhole(t *testing.T) {
	fc := &fakeClient{kind: "generic", outcome: destination.Delivered()}

	d := New(genericConfig(1), nil, nil)
	d.Register(fc)

	d.UpdateConfig(genericConfig(4))
	d.Dispatch(context.Background(), itemEvent())

	assert.Equal(t, 4, fc.sendCount())
}

func TestUpdateConfigNilResetsToDefault(t *testing.T) {
	d := New(genericConfig(1), nil, nil)
	d.UpdateConfig(nil)

	require.NotNil(t, d.Config())
	assert.Empty(t, d.Config().Generic)
}

func TestUpdateConfigNormalizes(t *testing.T) {
	d := New(nil, nil, nil)

	cfg := config.Default()
	cfg.Generic = []*generic.Option{{}}
	d.UpdateConfig(cfg)

	assert.NotEmpty(t, d.Config().Generic[0].InstanceID)
}
