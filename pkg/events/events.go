package events

import "time"

// ServerInfo identifies the host media server emitting events.
type ServerInfo struct {
	ID      string `json:"id"`
	Name    string `json:"name"`
	URL     string `json:"url"`
	Version string `json:"version,omitempty"`
}

// Item is the host's view of a library item at event time. Parent links give
// access to the owning season/series hierarchy; for an episode, Parent is the
// season and Parent.Parent the series.
type Item struct {
	ID       string            `json:"id"`
	Name     string            `json:"name"`
	Kind     ItemKind          `json:"kind"`
	Overview string            `json:"overview,omitempty"`
	Year     int               `json:"year,omitempty"`
	Index    *int              `json:"index,omitempty"`
	RunTicks int64             `json:"run_ticks,omitempty"`
	Provider map[string]string `json:"provider_ids,omitempty"`
	Parent   *Item             `json:"-"`
}

// HasProviderIDs reports whether any external metadata provider has tagged
// the item yet. The deferred item queue keys its readiness check on this.
func (i *Item) HasProviderIDs() bool {
	return i != nil && len(i.Provider) > 0
}

// User is the host's view of an account referenced by an event.
type User struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

// Session describes the device session attached to playback and auth events.
type Session struct {
	DeviceID      string `json:"device_id"`
	DeviceName    string `json:"device_name"`
	Client        string `json:"client"`
	ClientVersion string `json:"client_version,omitempty"`
	RemoteAddr    string `json:"remote_addr,omitempty"`
}

// PlaybackInfo carries playback progress state for playback lifecycle events.
type PlaybackInfo struct {
	PositionTicks *int64 `json:"position_ticks,omitempty"`
	IsPaused      bool   `json:"is_paused"`
	IsAutomated   bool   `json:"is_automated"`
}

// TaskResult describes a completed scheduled task.
type TaskResult struct {
	Name         string    `json:"name"`
	Key          string    `json:"key"`
	Description  string    `json:"description,omitempty"`
	Status       string    `json:"status"`
	StartedAt    time.Time `json:"started_at"`
	EndedAt      time.Time `json:"ended_at"`
	ErrorMessage string    `json:"error_message,omitempty"`
}

// PluginInfo describes a plugin referenced by a plugin lifecycle event.
type PluginInfo struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	Version     string `json:"version"`
	Description string `json:"description,omitempty"`
	Changelog   string `json:"changelog,omitempty"`
}
