package payload

import (
	"fmt"
	"strings"
	"time"

	"github.com/kart-io/mediahook/pkg/events"
)

// EmptyUserID is the sentinel emitted when an event carries no user id.
const EmptyUserID = "00000000-0000-0000-0000-000000000000"

// Base creates the payload every event starts from: timestamps, server
// identity and the notification type. Builders below augment it in place.
func Base(nt events.NotificationType, srv events.ServerInfo, now time.Time) *Payload {
	p := New()
	p.Set("Timestamp", now.Format(time.RFC3339))
	p.Set("UtcTimestamp", now.UTC().Format(time.RFC3339))
	p.Set("NotificationType", nt.String())
	p.Set("ServerId", srv.ID)
	p.Set("ServerName", srv.Name)
	p.Set("ServerUrl", srv.URL)
	if srv.Version != "" {
		p.Set("ServerVersion", srv.Version)
	}
	return p
}

// AddItemData merges library item metadata into p and returns p.
//
// Seasons inherit the series name from their parent and fall back to the
// parent's production year when they carry none. Episodes inherit the series
// name from their grandparent, the season number from their parent, and fall
// back to the grandparent's production year. Season and episode numbers are
// also emitted in two zero-padded variants.
func AddItemData(p *Payload, item *events.Item) *Payload {
	if item == nil {
		return p
	}

	p.Set("ItemId", item.ID)
	p.Set("Name", item.Name)
	p.Set("ItemType", item.Kind.String())
	if item.Overview != "" {
		p.Set("Overview", item.Overview)
	}
	if item.RunTicks > 0 {
		p.Set("RunTimeTicks", item.RunTicks)
	}

	year := item.Year
	switch item.Kind {
	case events.KindSeason:
		if item.Parent != nil {
			p.Set("SeriesName", item.Parent.Name)
			if year == 0 {
				year = item.Parent.Year
			}
		}
		if item.Index != nil {
			setPaddedNumber(p, "SeasonNumber", *item.Index)
		}
	case events.KindEpisode:
		if item.Parent != nil {
			if item.Parent.Parent != nil {
				p.Set("SeriesName", item.Parent.Parent.Name)
				if year == 0 {
					year = item.Parent.Parent.Year
				}
			}
			if item.Parent.Index != nil {
				setPaddedNumber(p, "SeasonNumber", *item.Parent.Index)
			}
		}
		if item.Index != nil {
			setPaddedNumber(p, "EpisodeNumber", *item.Index)
		}
	}
	if year != 0 {
		p.Set("Year", year)
	}

	for provider, id := range item.Provider {
		p.Set("Provider_"+strings.ToLower(provider), id)
	}
	return p
}

// setPaddedNumber emits n under key plus 2- and 3-digit zero-padded variants.
func setPaddedNumber(p *Payload, key string, n int) {
	p.Set(key, n)
	p.Set(key+"00", fmt.Sprintf("%02d", n))
	p.Set(key+"000", fmt.Sprintf("%03d", n))
}

// AddUserData merges the acting user's identity into p and returns p. Absent
// users are recorded under the empty-guid sentinel so templates and the
// user-id filter always have a value to compare against.
func AddUserData(p *Payload, user *events.User) *Payload {
	if user == nil {
		p.Set("UserId", EmptyUserID)
		return p
	}
	p.Set("NotificationUsername", user.Name)
	if user.ID != "" {
		p.Set("UserId", user.ID)
	} else {
		p.Set("UserId", EmptyUserID)
	}
	return p
}

// AddSessionData merges device and client metadata into p and returns p.
func AddSessionData(p *Payload, sess *events.Session) *Payload {
	if sess == nil {
		return p
	}
	p.Set("DeviceId", sess.DeviceID)
	p.Set("DeviceName", sess.DeviceName)
	p.Set("ClientName", sess.Client)
	if sess.ClientVersion != "" {
		p.Set("ClientVersion", sess.ClientVersion)
	}
	if sess.RemoteAddr != "" {
		p.Set("RemoteEndPoint", sess.RemoteAddr)
	}
	return p
}

// AddPlaybackData merges playback progress state into p and returns p. A
// missing position reports zero ticks rather than an absent field.
func AddPlaybackData(p *Payload, info *events.PlaybackInfo) *Payload {
	var ticks int64
	paused, automated := false, false
	if info != nil {
		if info.PositionTicks != nil {
			ticks = *info.PositionTicks
		}
		paused = info.IsPaused
		automated = info.IsAutomated
	}
	p.Set("PlaybackPositionTicks", ticks)
	p.Set("IsPaused", paused)
	p.Set("IsAutomated", automated)
	return p
}

// AddTaskData merges a completed scheduled task's result into p and returns p.
func AddTaskData(p *Payload, task *events.TaskResult) *Payload {
	if task == nil {
		return p
	}
	p.Set("TaskName", task.Name)
	p.Set("TaskKey", task.Key)
	if task.Description != "" {
		p.Set("TaskDescription", task.Description)
	}
	p.Set("TaskStatus", task.Status)
	p.Set("TaskStartedAt", task.StartedAt.UTC().Format(time.RFC3339))
	p.Set("TaskEndedAt", task.EndedAt.UTC().Format(time.RFC3339))
	if task.ErrorMessage != "" {
		p.Set("TaskErrorMessage", task.ErrorMessage)
	}
	return p
}

// AddPluginData merges plugin identity into p and returns p.
func AddPluginData(p *Payload, plugin *events.PluginInfo) *Payload {
	if plugin == nil {
		return p
	}
	p.Set("PluginId", plugin.ID)
	p.Set("PluginName", plugin.Name)
	p.Set("PluginVersion", plugin.Version)
	if plugin.Description != "" {
		p.Set("PluginDescription", plugin.Description)
	}
	if plugin.Changelog != "" {
		p.Set("PluginChangelog", plugin.Changelog)
	}
	return p
}

// AddExceptionData merges a failure reason into p and returns p.
func AddExceptionData(p *Payload, err error) *Payload {
	if err == nil {
		return p
	}
	p.Set("ExceptionMessage", err.Error())
	return p
}
