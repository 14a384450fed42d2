package destination

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kart-io/mediahook/pkg/errors"
	"github.com/kart-io/mediahook/pkg/events"
	"github.com/kart-io/mediahook/pkg/logger"
	"github.com/kart-io/mediahook/pkg/payload"
)

func movieEvent(name string) Event {
	p := payload.New()
	p.Set("Name", name)
	return Event{Type: events.TypeItemAdded, ItemKind: events.KindMovie, Data: p}
}

func TestRun_Delivers(t *testing.T) {
	o := enabledOptions(events.TypeItemAdded)
	o.Template = EncodeTemplate("{{Name}} added")

	var delivered string
	outcome := Run(context.Background(), "test", o, movieEvent("Inception"), logger.Discard,
		func(_ context.Context, body string) error {
			delivered = body
			return nil
		})

	assert.Equal(t, StatusDelivered, outcome.Status)
	assert.Equal(t, "Inception added", delivered)
}

func TestRun_FilteredSkipsTransport(t *testing.T) {
	o := &Options{
		Enabled:           true,
		EnableMovies:      true,
		NotificationTypes: []events.NotificationType{events.TypeItemAdded},
		Template:          EncodeTemplate("{{Name}} added"),
	}

	ev := movieEvent("Example Series")
	ev.ItemKind = events.KindSeries

	calls := 0
	outcome := Run(context.Background(), "test", o, ev, logger.Discard,
		func(context.Context, string) error {
			calls++
			return nil
		})

	assert.Equal(t, StatusSkipped, outcome.Status)
	assert.Equal(t, "filtered", outcome.Reason)
	assert.Zero(t, calls)
}

func TestRun_EmptyBodySkipped(t *testing.T) {
	o := enabledOptions(events.TypeItemAdded)
	o.Template = EncodeTemplate("   ")
	o.TrimWhitespace = true
	o.SkipEmptyBody = true

	calls := 0
	outcome := Run(context.Background(), "test", o, movieEvent("Inception"), logger.Discard,
		func(context.Context, string) error {
			calls++
			return nil
		})

	assert.Equal(t, StatusSkipped, outcome.Status)
	assert.Equal(t, "empty body", outcome.Reason)
	assert.Zero(t, calls)
}

func TestRun_EmptyBodyDeliveredWithoutFlag(t *testing.T) {
	o := enabledOptions(events.TypeItemAdded)
	o.Template = EncodeTemplate("")

	outcome := Run(context.Background(), "test", o, movieEvent("Inception"), logger.Discard,
		func(context.Context, string) error { return nil })

	assert.Equal(t, StatusDelivered, outcome.Status)
}

func TestRun_RenderFailure(t *testing.T) {
	o := enabledOptions(events.TypeItemAdded)
	o.Template = EncodeTemplate("{{#if_exist Name}}unclosed")

	outcome := Run(context.Background(), "test", o, movieEvent("Inception"), logger.Discard,
		func(context.Context, string) error { return nil })

	require.Equal(t, StatusFailed, outcome.Status)
	assert.Equal(t, errors.ErrTemplateCompile, errors.CodeOf(outcome.Err))
}

func TestRun_TransportFailure(t *testing.T) {
	o := enabledOptions(events.TypeItemAdded)
	o.Template = EncodeTemplate("{{Name}}")

	outcome := Run(context.Background(), "test", o, movieEvent("Inception"), logger.Discard,
		func(context.Context, string) error {
			return errors.New(errors.ErrTransport, "boom")
		})

	require.Equal(t, StatusFailed, outcome.Status)
	assert.Equal(t, errors.ErrTransport, errors.CodeOf(outcome.Err))
}

func TestOutcomeStatus_String(t *testing.T) {
	assert.Equal(t, "delivered", StatusDelivered.String())
	assert.Equal(t, "skipped", StatusSkipped.String())
	assert.Equal(t, "failed", StatusFailed.String())
}
