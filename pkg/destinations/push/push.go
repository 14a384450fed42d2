// Package push provides the push-notification destination: the rendered body
// is POSTed as a JSON message with token, priority and device routing, to
// either the configured URI or the service's fixed default API endpoint.
package push

import (
	"context"
	"encoding/json"
	"net/http"

	"github.com/kart-io/mediahook/pkg/destination"
	"github.com/kart-io/mediahook/pkg/errors"
	"github.com/kart-io/mediahook/pkg/logger"
)

// DefaultEndpoint is used when an option configures no URI of its own.
const DefaultEndpoint = "https://api.pushover.net/1/messages.json"

// Option configures one push destination instance.
type Option struct {
	destination.Options

	Token   string `json:"token" yaml:"token"`
	UserKey string `json:"user_key" yaml:"user_key"`
	// Device restricts delivery to one registered device when set.
	Device string `json:"device,omitempty" yaml:"device,omitempty"`
	// Priority ranges -2 (lowest) to 2 (emergency).
	Priority int `json:"priority,omitempty" yaml:"priority,omitempty"`
	// Title is the optional notification title.
	Title string `json:"title,omitempty" yaml:"title,omitempty"`
}

// Validate checks the option for send-time viability.
func (o *Option) Validate() error {
	if o.Token == "" {
		return errors.New(errors.ErrInvalidConfig, "push destination requires a token")
	}
	if o.UserKey == "" {
		return errors.New(errors.ErrInvalidConfig, "push destination requires a user key")
	}
	return o.Options.Validate()
}

// Endpoint returns the configured URI, falling back to the fixed default.
func (o *Option) Endpoint() string {
	if o.WebhookURI != "" {
		return o.WebhookURI
	}
	return DefaultEndpoint
}

// message is the wire body of one push API call.
type message struct {
	Token    string `json:"token"`
	User     string `json:"user"`
	Message  string `json:"message"`
	Title    string `json:"title,omitempty"`
	Priority int    `json:"priority,omitempty"`
	Device   string `json:"device,omitempty"`
}

// Client delivers to push-notification destinations.
type Client struct {
	http *http.Client
	log  logger.Logger
}

// NewClient creates a push destination client.
func NewClient(log logger.Logger) *Client {
	if log == nil {
		log = logger.Discard
	}
	return &Client{http: destination.NewHTTPClient(), log: log}
}

// Kind returns the destination kind name.
func (c *Client) Kind() string { return "push" }

// Send augments the payload with the push-specific fields, renders the body
// and POSTs the JSON message.
func (c *Client) Send(ctx context.Context, opt destination.Option, ev destination.Event) destination.Outcome {
	o, ok := opt.(*Option)
	if !ok {
		return destination.Failed(errors.New(errors.ErrInvalidConfig, "option is not a push destination option"))
	}
	if err := o.Validate(); err != nil {
		return destination.Failed(err)
	}

	ev.Data.Set("Priority", o.Priority)
	if o.Device != "" {
		ev.Data.Set("Device", o.Device)
	}

	return destination.Run(ctx, c.Kind(), opt, ev, c.log, func(ctx context.Context, body string) error {
		msg := message{
			Token:    o.Token,
			User:     o.UserKey,
			Message:  body,
			Title:    o.Title,
			Priority: o.Priority,
			Device:   o.Device,
		}
		wire, err := json.Marshal(msg)
		if err != nil {
			return errors.New(errors.ErrTransport, "failed to encode push message").WithCause(err)
		}
		return destination.PostBody(ctx, c.http, o.Endpoint(), "application/json", nil, wire, c.log)
	})
}
