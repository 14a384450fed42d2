package smtp

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kart-io/mediahook/pkg/destination"
	"github.com/kart-io/mediahook/pkg/errors"
	"github.com/kart-io/mediahook/pkg/events"
	"github.com/kart-io/mediahook/pkg/payload"
)

func validOption() *Option {
	return &Option{
		Options: destination.Options{
			Enabled:           true,
			EnableMovies:      true,
			NotificationTypes: []events.NotificationType{events.TypeItemAdded},
			Template:          destination.EncodeTemplate("{{Name}} added"),
		},
		Server:          "mail.example.com",
		Port:            587,
		From:            "hook@example.com",
		Recipients:      []string{"admin@example.com"},
		SubjectTemplate: destination.EncodeTemplate("New: {{Name}}"),
	}
}

func TestOption_Validate(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Option)
	}{
		{"missing server", func(o *Option) { o.Server = "" }},
		{"zero port", func(o *Option) { o.Port = 0 }},
		{"port out of range", func(o *Option) { o.Port = 70000 }},
		{"missing from", func(o *Option) { o.From = "" }},
		{"no recipients", func(o *Option) { o.Recipients = nil }},
		{"bad subject encoding", func(o *Option) { o.SubjectTemplate = "not base64!" }},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			o := validOption()
			tt.mutate(o)
			assert.Error(t, o.Validate())
		})
	}

	assert.NoError(t, validOption().Validate())
}

func TestOption_CompiledSubject(t *testing.T) {
	o := validOption()

	tpl, err := o.CompiledSubject()
	require.NoError(t, err)

	p := payload.New()
	p.Set("Name", "Inception")
	subject, err := tpl.Render(p)
	require.NoError(t, err)
	assert.Equal(t, "New: Inception", subject)

	again, err := o.CompiledSubject()
	require.NoError(t, err)
	assert.Same(t, tpl, again)
}

func TestOption_CompiledSubjectErrorSticks(t *testing.T) {
	o := validOption()
	o.SubjectTemplate = destination.EncodeTemplate("{{#if_equals}}")

	_, err := o.CompiledSubject()
	require.Error(t, err)

	_, again := o.CompiledSubject()
	assert.Equal(t, err, again)
}

func TestClient_InvalidOptionFails(t *testing.T) {
	c := NewClient(nil)

	o := validOption()
	o.Server = ""
	ev := destination.Event{Type: events.TypeItemAdded, ItemKind: events.KindMovie, Data: payload.New()}

	outcome := c.Send(context.Background(), o, ev)
	assert.Equal(t, destination.StatusFailed, outcome.Status)
	assert.Equal(t, errors.ErrInvalidConfig, errors.CodeOf(outcome.Err))
}

func TestClient_WrongOptionKindFails(t *testing.T) {
	c := NewClient(nil)
	ev := destination.Event{Type: events.TypeItemAdded, ItemKind: events.KindMovie, Data: payload.New()}

	outcome := c.Send(context.Background(), &destination.Options{}, ev)
	assert.Equal(t, destination.StatusFailed, outcome.Status)
}

func TestClient_FilterAppliesBeforeDelivery(t *testing.T) {
	c := NewClient(nil)

	o := validOption()
	ev := destination.Event{Type: events.TypeItemAdded, ItemKind: events.KindSeries, Data: payload.New()}

	outcome := c.Send(context.Background(), o, ev)
	assert.Equal(t, destination.StatusSkipped, outcome.Status)
}
