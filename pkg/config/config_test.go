package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kart-io/mediahook/pkg/destination"
	"github.com/kart-io/mediahook/pkg/destinations/chat"
	"github.com/kart-io/mediahook/pkg/destinations/generic"
	"github.com/kart-io/mediahook/pkg/destinations/push"
	"github.com/kart-io/mediahook/pkg/events"
)

func TestLoadRoundTrip(t *testing.T) {
	cfg := Default()
	cfg.Generic = []*generic.Option{{
		Options: destination.Options{
			Enabled:           true,
			WebhookURI:        "http://localhost/hook",
			EnableMovies:      true,
			NotificationTypes: []events.NotificationType{events.TypeItemAdded},
			Template:          destination.EncodeTemplate("{{Name}} added"),
		},
		Headers: map[string]string{"X-Token": "secret"},
	}}
	cfg.Chat = []*chat.Option{{
		Options:    destination.Options{Enabled: true, WebhookURI: "http://localhost/chat"},
		Username:   "mediahook",
		EmbedColor: "#AA5CC3",
	}}
	cfg.Normalize()

	data, err := cfg.Marshal()
	require.NoError(t, err)

	loaded, err := Load(data)
	require.NoError(t, err)

	require.Len(t, loaded.Generic, 1)
	assert.Equal(t, cfg.Generic[0].InstanceID, loaded.Generic[0].InstanceID)
	assert.Equal(t, "http://localhost/hook", loaded.Generic[0].WebhookURI)
	assert.Equal(t, "secret", loaded.Generic[0].Headers["X-Token"])
	require.Len(t, loaded.Chat, 1)
	assert.Equal(t, "mediahook", loaded.Chat[0].Username)
}

func TestLoadRejectsMalformedJSON(t *testing.T) {
	_, err := Load([]byte("{not json"))
	assert.Error(t, err)
}

func TestNormalizeAssignsInstanceIDs(t *testing.T) {
	cfg := Default()
	cfg.Generic = []*generic.Option{{}, {}}
	cfg.Push = []*push.Option{{}}

	cfg.Normalize()

	assert.NotEmpty(t, cfg.Generic[0].InstanceID)
	assert.NotEmpty(t, cfg.Generic[1].InstanceID)
	assert.NotEqual(t, cfg.Generic[0].InstanceID, cfg.Generic[1].InstanceID)
	assert.NotEmpty(t, cfg.Push[0].InstanceID)
}

func TestNormalizeKeepsExistingInstanceIDs(t *testing.T) {
	cfg := Default()
	cfg.Generic = []*generic.Option{{Options: destination.Options{InstanceID: "keep-me"}}}

	cfg.Normalize()

	assert.Equal(t, "keep-me", cfg.Generic[0].InstanceID)
}

func TestValidateSkipsDisabledOptions(t *testing.T) {
	cfg := Default()
	// Half-configured but disabled: tolerated.
	cfg.Push = []*push.Option{{}}
	assert.NoError(t, cfg.Validate())

	cfg.Push[0].Enabled = true
	assert.Error(t, cfg.Validate())
}

func TestByKind(t *testing.T) {
	cfg := Default()
	cfg.Generic = []*generic.Option{{}}
	cfg.Chat = []*chat.Option{{}, {}}

	byKind := cfg.ByKind()

	assert.Len(t, byKind["generic"], 1)
	assert.Len(t, byKind["chat"], 2)
	assert.Empty(t, byKind["push"])
}
