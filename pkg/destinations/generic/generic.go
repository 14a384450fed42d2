// Package generic provides the raw-body HTTP destination: the rendered
// message is POSTed as-is to the configured URI with any extra headers.
package generic

import (
	"context"
	"net/http"

	"github.com/kart-io/mediahook/pkg/destination"
	"github.com/kart-io/mediahook/pkg/errors"
	"github.com/kart-io/mediahook/pkg/logger"
)

// DefaultContentType is used when no header overrides it.
const DefaultContentType = "text/plain"

// Option configures one generic HTTP destination instance.
type Option struct {
	destination.Options

	// Headers are added to every request. A Content-Type entry overrides the
	// default content type.
	Headers map[string]string `json:"headers,omitempty" yaml:"headers,omitempty"`
}

// Validate checks the option for send-time viability.
func (o *Option) Validate() error {
	if err := destination.RequireURI(o.Base()); err != nil {
		return err
	}
	return o.Options.Validate()
}

// Client delivers to generic HTTP destinations.
type Client struct {
	http *http.Client
	log  logger.Logger
}

// NewClient creates a generic HTTP destination client.
func NewClient(log logger.Logger) *Client {
	if log == nil {
		log = logger.Discard
	}
	return &Client{http: destination.NewHTTPClient(), log: log}
}

// Kind returns the destination kind name.
func (c *Client) Kind() string { return "generic" }

// Send renders and POSTs the message body per the option instance.
func (c *Client) Send(ctx context.Context, opt destination.Option, ev destination.Event) destination.Outcome {
	o, ok := opt.(*Option)
	if !ok {
		return destination.Failed(errors.New(errors.ErrInvalidConfig, "option is not a generic destination option"))
	}
	if err := destination.RequireURI(o.Base()); err != nil {
		return destination.Failed(err)
	}

	return destination.Run(ctx, c.Kind(), opt, ev, c.log, func(ctx context.Context, body string) error {
		contentType := DefaultContentType
		return destination.PostBody(ctx, c.http, o.WebhookURI, contentType, o.Headers, []byte(body), c.log)
	})
}
