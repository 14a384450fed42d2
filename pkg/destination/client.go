package destination

import (
	"context"

	"github.com/kart-io/mediahook/pkg/events"
	"github.com/kart-io/mediahook/pkg/logger"
	"github.com/kart-io/mediahook/pkg/payload"
)

// Status classifies the outcome of one send attempt.
type Status int

const (
	// StatusDelivered means the transport accepted the message.
	StatusDelivered Status = iota
	// StatusSkipped means routing or policy decided not to deliver.
	StatusSkipped
	// StatusFailed means delivery was attempted and failed.
	StatusFailed
)

// String returns the outcome status name.
func (s Status) String() string {
	switch s {
	case StatusDelivered:
		return "delivered"
	case StatusSkipped:
		return "skipped"
	case StatusFailed:
		return "failed"
	default:
		return "unknown"
	}
}

// Outcome is the result of one Send call.
type Outcome struct {
	Status Status
	Reason string
	Err    error
}

// Delivered reports a successful delivery.
func Delivered() Outcome { return Outcome{Status: StatusDelivered} }

// Skipped reports a send that policy decided against.
func Skipped(reason string) Outcome { return Outcome{Status: StatusSkipped, Reason: reason} }

// Failed reports a delivery attempt that errored.
func Failed(err error) Outcome { return Outcome{Status: StatusFailed, Err: err} }

// Event is the dispatch context handed to destination clients: the
// notification type, the item kind when the event concerns a library item,
// and the payload. The dispatcher gives every client its own payload clone,
// so clients may augment Data freely.
type Event struct {
	Type     events.NotificationType
	ItemKind events.ItemKind
	Data     *payload.Payload
}

// Client is implemented once per destination kind. Send never panics and
// never returns a raw transport error to the caller: failures are contained
// in the Outcome so one destination cannot abort delivery to its siblings.
type Client interface {
	// Kind returns the destination kind name.
	Kind() string
	// Send applies the routing policy, renders the body and delivers it per
	// the given option instance.
	Send(ctx context.Context, opt Option, ev Event) Outcome
}

// DeliverFunc performs the transport-specific delivery of a rendered body.
type DeliverFunc func(ctx context.Context, body string) error

// Run executes the send pipeline every destination kind shares: pre-render
// routing checks, body rendering, the post-render empty-body check, then
// delivery. Clients call it after augmenting the event payload with their
// kind-specific fields.
func Run(ctx context.Context, kind string, opt Option, ev Event, log logger.Logger, deliver DeliverFunc) Outcome {
	o := opt.Base()

	if !ShouldSend(o, ev.Type, ev.ItemKind, ev.Data, log) {
		return Skipped("filtered")
	}

	body, err := RenderBody(o, ev.Data)
	if err != nil {
		log.Error("failed to render message body", "destination", kind, "instance", o.InstanceID, "error", err)
		return Failed(err)
	}

	if o.SkipEmptyBody && body == "" {
		log.Debug("skipping empty message body", "destination", kind, "instance", o.InstanceID)
		return Skipped("empty body")
	}

	if err := deliver(ctx, body); err != nil {
		log.Error("delivery failed", "destination", kind, "instance", o.InstanceID, "error", err)
		return Failed(err)
	}
	return Delivered()
}
