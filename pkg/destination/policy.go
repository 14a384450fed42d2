package destination

import (
	"strings"

	"github.com/kart-io/mediahook/pkg/events"
	"github.com/kart-io/mediahook/pkg/logger"
	"github.com/kart-io/mediahook/pkg/payload"
)

// ShouldSend decides whether a destination instance participates in an event.
// Rejections are routing decisions, not errors, and log at debug level only.
//
// The user filter never applies to UserCreated: the new account did not exist
// when the event fired, so no filter could name it. A payload without a
// UserId field skips the filter check entirely rather than rejecting.
func ShouldSend(o *Options, nt events.NotificationType, kind events.ItemKind, data *payload.Payload, log logger.Logger) bool {
	if !o.Enabled {
		log.Debug("destination disabled", "instance", o.InstanceID)
		return false
	}

	if !o.Subscribed(nt) {
		log.Debug("notification type not subscribed", "instance", o.InstanceID, "type", nt)
		return false
	}

	if nt != events.TypeUserCreated && len(o.UserFilter) > 0 && data.Has("UserId") {
		if !userAllowed(o.UserFilter, data.GetString("UserId")) {
			log.Debug("user not in filter", "instance", o.InstanceID, "userId", data.GetString("UserId"))
			return false
		}
	}

	if kind != "" && !o.ItemKindEnabled(kind) {
		log.Debug("item kind disabled", "instance", o.InstanceID, "itemKind", kind)
		return false
	}

	return true
}

func userAllowed(filter []string, userID string) bool {
	for _, id := range filter {
		if strings.EqualFold(id, userID) {
			return true
		}
	}
	return false
}
