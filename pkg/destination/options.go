// Package destination defines the configuration model, routing policy and
// delivery contract shared by every destination kind. Kind-specific packages
// under pkg/destinations embed Options and implement Client.
package destination

import (
	"sync"

	"github.com/google/uuid"

	"github.com/kart-io/mediahook/pkg/errors"
	"github.com/kart-io/mediahook/pkg/events"
	"github.com/kart-io/mediahook/pkg/template"
)

// Options is the configuration record common to every destination instance.
// Kind-specific option structs embed it. Template text is stored encoded
// (see EncodeTemplate) and compiled lazily on first send; configuration edits
// produce a new Options instance, so the compiled cache is never invalidated.
type Options struct {
	InstanceID string `json:"instance_id" yaml:"instance_id"`
	Enabled    bool   `json:"enabled" yaml:"enabled"`
	WebhookURI string `json:"webhook_uri,omitempty" yaml:"webhook_uri,omitempty"`

	EnableMovies   bool `json:"enable_movies" yaml:"enable_movies"`
	EnableEpisodes bool `json:"enable_episodes" yaml:"enable_episodes"`
	EnableSeasons  bool `json:"enable_seasons" yaml:"enable_seasons"`
	EnableSeries   bool `json:"enable_series" yaml:"enable_series"`
	EnableAlbums   bool `json:"enable_albums" yaml:"enable_albums"`
	EnableSongs    bool `json:"enable_songs" yaml:"enable_songs"`

	NotificationTypes []events.NotificationType `json:"notification_types" yaml:"notification_types"`
	UserFilter        []string                  `json:"user_filter,omitempty" yaml:"user_filter,omitempty"`

	// Template is the base64-encoded message template source.
	Template string `json:"template,omitempty" yaml:"template,omitempty"`

	SendAllProperties bool `json:"send_all_properties" yaml:"send_all_properties"`
	TrimWhitespace    bool `json:"trim_whitespace" yaml:"trim_whitespace"`
	SkipEmptyBody     bool `json:"skip_empty_body" yaml:"skip_empty_body"`

	compileOnce sync.Once
	compiled    *template.Template
	compileErr  error
}

// EnsureInstanceID assigns a random instance id when none is configured.
// Persistent-connection identities key off this id.
func (o *Options) EnsureInstanceID() {
	if o.InstanceID == "" {
		o.InstanceID = uuid.NewString()
	}
}

// CompiledTemplate decodes and compiles the stored template on first use and
// memoizes the result. Concurrent first use observes at most one compiled
// instance.
func (o *Options) CompiledTemplate() (*template.Template, error) {
	o.compileOnce.Do(func() {
		source, err := DecodeTemplate(o.Template)
		if err != nil {
			o.compileErr = err
			return
		}
		o.compiled, o.compileErr = template.Compile(source)
	})
	return o.compiled, o.compileErr
}

// Subscribed reports whether the option subscribes to the notification type.
func (o *Options) Subscribed(nt events.NotificationType) bool {
	for _, t := range o.NotificationTypes {
		if t == nt {
			return true
		}
	}
	return false
}

// ItemKindEnabled reports whether the per-kind enable flag for kind is set.
// Kinds outside the six recognized ones are always notifiable.
func (o *Options) ItemKindEnabled(kind events.ItemKind) bool {
	switch kind {
	case events.KindMovie:
		return o.EnableMovies
	case events.KindEpisode:
		return o.EnableEpisodes
	case events.KindSeason:
		return o.EnableSeasons
	case events.KindSeries:
		return o.EnableSeries
	case events.KindAlbum:
		return o.EnableAlbums
	case events.KindSong:
		return o.EnableSongs
	default:
		return true
	}
}

// Validate checks the fields every kind shares.
func (o *Options) Validate() error {
	if _, err := DecodeTemplate(o.Template); err != nil {
		return err
	}
	return nil
}

// Option is implemented by every kind-specific option struct.
type Option interface {
	// Base returns the shared configuration record.
	Base() *Options
}

// Base returns the receiver, satisfying Option for embedders.
func (o *Options) Base() *Options { return o }

// RequireURI returns a configuration error when the option has no webhook
// target URI. Kinds with a mandatory URI call this at send time.
func RequireURI(o *Options) error {
	if o.WebhookURI == "" {
		return errors.New(errors.ErrMissingWebhookURI, "destination option has no webhook URI")
	}
	return nil
}
