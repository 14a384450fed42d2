// Package chat provides the chat-platform webhook destination (Discord-style
// incoming webhooks): the rendered body is POSTed as a JSON message with
// optional username/avatar overrides, a mention prefix and an embed color.
package chat

import (
	"context"
	"encoding/json"
	"net/http"
	"strconv"
	"strings"

	"github.com/kart-io/mediahook/pkg/destination"
	"github.com/kart-io/mediahook/pkg/errors"
	"github.com/kart-io/mediahook/pkg/logger"
)

// MentionType selects who a message pings.
type MentionType string

const (
	MentionNone     MentionType = ""
	MentionEveryone MentionType = "everyone"
	MentionHere     MentionType = "here"
	MentionUser     MentionType = "user"
	MentionRole     MentionType = "role"
)

// DefaultEmbedColor is used when an option carries no color.
const DefaultEmbedColor = "#AA5CC3"

// Option configures one chat-platform destination instance.
type Option struct {
	destination.Options

	Username    string      `json:"username,omitempty" yaml:"username,omitempty"`
	AvatarURL   string      `json:"avatar_url,omitempty" yaml:"avatar_url,omitempty"`
	MentionType MentionType `json:"mention_type,omitempty" yaml:"mention_type,omitempty"`
	// MentionID is the user or role id pinged for the user/role mention types.
	MentionID string `json:"mention_id,omitempty" yaml:"mention_id,omitempty"`
	// EmbedColor is a #RRGGBB hex color.
	EmbedColor string `json:"embed_color,omitempty" yaml:"embed_color,omitempty"`
}

// Validate checks the option for send-time viability.
func (o *Option) Validate() error {
	if err := destination.RequireURI(o.Base()); err != nil {
		return err
	}
	if o.EmbedColor != "" {
		if _, err := FormatColor(o.EmbedColor); err != nil {
			return err
		}
	}
	return o.Options.Validate()
}

// Mention returns the literal mention prefix for the option.
func (o *Option) Mention() string {
	switch o.MentionType {
	case MentionEveryone:
		return "@everyone"
	case MentionHere:
		return "@here"
	case MentionUser:
		return "<@" + o.MentionID + ">"
	case MentionRole:
		return "<@&" + o.MentionID + ">"
	default:
		return ""
	}
}

// FormatColor converts a #RRGGBB hex color to the integer form chat
// platforms expect in embeds.
func FormatColor(hex string) (int, error) {
	trimmed := strings.TrimPrefix(hex, "#")
	n, err := strconv.ParseInt(trimmed, 16, 32)
	if err != nil {
		return 0, errors.Newf(errors.ErrInvalidConfig, "invalid embed color %q", hex).WithCause(err)
	}
	return int(n), nil
}

// message is the wire body of one chat webhook post.
type message struct {
	Content   string  `json:"content"`
	Username  string  `json:"username,omitempty"`
	AvatarURL string  `json:"avatar_url,omitempty"`
	Embeds    []embed `json:"embeds,omitempty"`
}

type embed struct {
	Color       int    `json:"color"`
	Description string `json:"description,omitempty"`
}

// Client delivers to chat-platform webhook destinations.
type Client struct {
	http *http.Client
	log  logger.Logger
}

// NewClient creates a chat destination client.
func NewClient(log logger.Logger) *Client {
	if log == nil {
		log = logger.Discard
	}
	return &Client{http: destination.NewHTTPClient(), log: log}
}

// Kind returns the destination kind name.
func (c *Client) Kind() string { return "chat" }

// Send augments the payload with the chat-specific fields, renders the body
// and POSTs the JSON message.
func (c *Client) Send(ctx context.Context, opt destination.Option, ev destination.Event) destination.Outcome {
	o, ok := opt.(*Option)
	if !ok {
		return destination.Failed(errors.New(errors.ErrInvalidConfig, "option is not a chat destination option"))
	}
	if err := destination.RequireURI(o.Base()); err != nil {
		return destination.Failed(err)
	}

	colorHex := o.EmbedColor
	if colorHex == "" {
		colorHex = DefaultEmbedColor
	}
	color, err := FormatColor(colorHex)
	if err != nil {
		return destination.Failed(err)
	}

	// Templates may reference the augmented fields; the dispatcher hands us a
	// dispatch-local payload copy, so setting them here cannot leak into
	// sibling destinations.
	ev.Data.Set("Mentions", o.Mention())
	ev.Data.Set("EmbedColor", color)
	if o.Username != "" {
		ev.Data.Set("BotUsername", o.Username)
	}

	return destination.Run(ctx, c.Kind(), opt, ev, c.log, func(ctx context.Context, body string) error {
		content := body
		if mention := o.Mention(); mention != "" {
			content = mention + " " + content
		}
		msg := message{
			Content:   content,
			Username:  o.Username,
			AvatarURL: o.AvatarURL,
			Embeds:    []embed{{Color: color}},
		}
		wire, err := json.Marshal(msg)
		if err != nil {
			return errors.New(errors.ErrTransport, "failed to encode chat message").WithCause(err)
		}
		return destination.PostBody(ctx, c.http, o.WebhookURI, "application/json", nil, wire, c.log)
	})
}
