package mqtt

import (
	"context"
	"time"

	"github.com/kart-io/mediahook/pkg/destination"
	"github.com/kart-io/mediahook/pkg/errors"
	"github.com/kart-io/mediahook/pkg/logger"
)

// publishTimeout bounds how long one publish waits for broker acknowledgment
// at QoS 1 and 2.
const publishTimeout = 10 * time.Second

// Client publishes to broker destinations through the Manager's connections.
type Client struct {
	manager *Manager
	log     logger.Logger
}

// NewClient creates a broker destination client backed by manager.
func NewClient(manager *Manager, log logger.Logger) *Client {
	if log == nil {
		log = logger.Discard
	}
	return &Client{manager: manager, log: log}
}

// Kind returns the destination kind name.
func (c *Client) Kind() string { return "mqtt" }

// Send renders the topic and body and publishes on the instance's live
// connection. Without a live connection the send is skipped immediately:
// publishing never blocks waiting for a reconnect.
func (c *Client) Send(ctx context.Context, opt destination.Option, ev destination.Event) destination.Outcome {
	o, ok := opt.(*Option)
	if !ok {
		return destination.Failed(errors.New(errors.ErrInvalidConfig, "option is not an mqtt destination option"))
	}

	// Routing first: an event the option would never deliver reports
	// "filtered" regardless of broker state.
	if !destination.ShouldSend(o.Base(), ev.Type, ev.ItemKind, ev.Data, c.log) {
		return destination.Skipped("filtered")
	}

	conn, ok := c.manager.Get(o.InstanceID)
	if !ok || !conn.IsConnected() {
		c.log.Debug("broker not connected, skipping publish", "instance", o.InstanceID)
		return destination.Skipped("not connected")
	}

	return destination.Run(ctx, c.Kind(), opt, ev, c.log, func(ctx context.Context, body string) error {
		topicTpl, err := o.CompiledTopic()
		if err != nil {
			return err
		}
		topic, err := topicTpl.Render(ev.Data)
		if err != nil {
			return err
		}

		token := conn.Publish(topic, o.QoS, false, body)
		if !token.WaitTimeout(publishTimeout) {
			return errors.Newf(errors.ErrTransport, "publish to %q timed out", topic)
		}
		if err := token.Error(); err != nil {
			return errors.Newf(errors.ErrTransport, "publish to %q failed", topic).WithCause(err)
		}
		c.log.Debug("published", "instance", o.InstanceID, "topic", topic, "qos", o.QoS)
		return nil
	})
}
