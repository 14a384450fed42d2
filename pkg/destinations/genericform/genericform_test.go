package genericform

import (
	"context"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kart-io/mediahook/pkg/destination"
	"github.com/kart-io/mediahook/pkg/errors"
	"github.com/kart-io/mediahook/pkg/events"
	"github.com/kart-io/mediahook/pkg/payload"
)

func TestFlatten(t *testing.T) {
	form, err := flatten(`{"name":"Inception","year":2010,"hd":true}`)
	require.NoError(t, err)

	assert.Equal(t, "Inception", form.Get("name"))
	assert.Equal(t, "2010", form.Get("year"))
	assert.Equal(t, "true", form.Get("hd"))
}

func TestFlattenRejectsNonObject(t *testing.T) {
	_, err := flatten("plain text body")
	require.Error(t, err)
	assert.Equal(t, errors.ErrTemplateRender, errors.CodeOf(err))
}

func TestClient_SendFormEncoded(t *testing.T) {
	var gotName atomic.Value
	var gotContentType atomic.Value
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.NoError(t, r.ParseForm())
		gotName.Store(r.PostFormValue("name"))
		gotContentType.Store(r.Header.Get("Content-Type"))
	}))
	defer srv.Close()

	o := &Option{Options: destination.Options{
		Enabled:           true,
		WebhookURI:        srv.URL,
		EnableMovies:      true,
		NotificationTypes: []events.NotificationType{events.TypeItemAdded},
		Template:          destination.EncodeTemplate(`{"name":"{{Name}}"}`),
	}}

	p := payload.New()
	p.Set("Name", "Inception")
	ev := destination.Event{Type: events.TypeItemAdded, ItemKind: events.KindMovie, Data: p}

	outcome := NewClient(nil).Send(context.Background(), o, ev)

	require.Equal(t, destination.StatusDelivered, outcome.Status)
	assert.Equal(t, "Inception", gotName.Load())
	assert.Equal(t, "application/x-www-form-urlencoded", gotContentType.Load())
}

func TestClient_NonJSONBodyFails(t *testing.T) {
	var calls atomic.Int64
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
	}))
	defer srv.Close()

	o := &Option{Options: destination.Options{
		Enabled:           true,
		WebhookURI:        srv.URL,
		EnableMovies:      true,
		NotificationTypes: []events.NotificationType{events.TypeItemAdded},
		Template:          destination.EncodeTemplate("{{Name}} added"),
	}}

	p := payload.New()
	p.Set("Name", "Inception")
	ev := destination.Event{Type: events.TypeItemAdded, ItemKind: events.KindMovie, Data: p}

	outcome := NewClient(nil).Send(context.Background(), o, ev)

	assert.Equal(t, destination.StatusFailed, outcome.Status)
	assert.Zero(t, calls.Load())
}
