// Package genericform provides the form-encoded HTTP destination: the
// rendered message is parsed as JSON, flattened to string-string form fields
// and POSTed with the configured headers.
package genericform

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"

	"github.com/kart-io/mediahook/pkg/destination"
	"github.com/kart-io/mediahook/pkg/errors"
	"github.com/kart-io/mediahook/pkg/logger"
)

// Option configures one form-encoded HTTP destination instance. The template
// is expected to render a JSON object; each top-level member becomes one
// form field.
type Option struct {
	destination.Options

	Headers map[string]string `json:"headers,omitempty" yaml:"headers,omitempty"`
}

// Validate checks the option for send-time viability.
func (o *Option) Validate() error {
	if err := destination.RequireURI(o.Base()); err != nil {
		return err
	}
	return o.Options.Validate()
}

// Client delivers to form-encoded HTTP destinations.
type Client struct {
	http *http.Client
	log  logger.Logger
}

// NewClient creates a form-encoded HTTP destination client.
func NewClient(log logger.Logger) *Client {
	if log == nil {
		log = logger.Discard
	}
	return &Client{http: destination.NewHTTPClient(), log: log}
}

// Kind returns the destination kind name.
func (c *Client) Kind() string { return "generic-form" }

// Send renders the body as JSON, flattens it and POSTs the form.
func (c *Client) Send(ctx context.Context, opt destination.Option, ev destination.Event) destination.Outcome {
	o, ok := opt.(*Option)
	if !ok {
		return destination.Failed(errors.New(errors.ErrInvalidConfig, "option is not a generic-form destination option"))
	}
	if err := destination.RequireURI(o.Base()); err != nil {
		return destination.Failed(err)
	}

	return destination.Run(ctx, c.Kind(), opt, ev, c.log, func(ctx context.Context, body string) error {
		form, err := flatten(body)
		if err != nil {
			return err
		}
		return destination.PostBody(ctx, c.http, o.WebhookURI, "application/x-www-form-urlencoded", o.Headers, []byte(form.Encode()), c.log)
	})
}

// flatten converts a rendered JSON object into form values. Non-string
// members are carried by their default string form.
func flatten(body string) (url.Values, error) {
	var fields map[string]any
	if err := json.Unmarshal([]byte(body), &fields); err != nil {
		return nil, errors.New(errors.ErrTemplateRender, "rendered body is not a JSON object").WithCause(err)
	}
	form := make(url.Values, len(fields))
	for key, value := range fields {
		switch v := value.(type) {
		case string:
			form.Set(key, v)
		default:
			form.Set(key, fmt.Sprint(v))
		}
	}
	return form, nil
}
