// Package events defines the domain event types mediahook consumes from the
// host media server, together with the closed notification-type enumeration
// shared by event producers and destination subscriptions.
package events

// NotificationType identifies the kind of domain event being notified.
type NotificationType string

const (
	TypeItemAdded        NotificationType = "ItemAdded"
	TypeItemDeleted      NotificationType = "ItemDeleted"
	TypePlaybackStart    NotificationType = "PlaybackStart"
	TypePlaybackProgress NotificationType = "PlaybackProgress"
	TypePlaybackStop     NotificationType = "PlaybackStop"
	TypeAuthSuccess      NotificationType = "AuthenticationSuccess"
	TypeAuthFailure      NotificationType = "AuthenticationFailure"
	TypeSessionStart     NotificationType = "SessionStart"
	TypePendingRestart   NotificationType = "PendingRestart"
	TypeTaskCompleted    NotificationType = "TaskCompleted"

	TypePluginInstalling      NotificationType = "PluginInstalling"
	TypePluginInstalled       NotificationType = "PluginInstalled"
	TypePluginInstallFailed   NotificationType = "PluginInstallationFailed"
	TypePluginInstallCancel   NotificationType = "PluginInstallationCancelled"
	TypePluginUninstalled     NotificationType = "PluginUninstalled"
	TypePluginUpdated         NotificationType = "PluginUpdated"

	TypeUserCreated         NotificationType = "UserCreated"
	TypeUserDeleted         NotificationType = "UserDeleted"
	TypeUserUpdated         NotificationType = "UserUpdated"
	TypeUserLockedOut       NotificationType = "UserLockedOut"
	TypeUserPasswordChanged NotificationType = "UserPasswordChanged"
	TypeUserDataSaved       NotificationType = "UserDataSaved"

	TypeGeneric NotificationType = "Generic"
)

// All returns every notification type, in a stable order. Configuration UIs
// use it to offer the full subscription set.
func All() []NotificationType {
	return []NotificationType{
		TypeItemAdded, TypeItemDeleted,
		TypePlaybackStart, TypePlaybackProgress, TypePlaybackStop,
		TypeAuthSuccess, TypeAuthFailure,
		TypeSessionStart, TypePendingRestart, TypeTaskCompleted,
		TypePluginInstalling, TypePluginInstalled, TypePluginInstallFailed,
		TypePluginInstallCancel, TypePluginUninstalled, TypePluginUpdated,
		TypeUserCreated, TypeUserDeleted, TypeUserUpdated,
		TypeUserLockedOut, TypeUserPasswordChanged, TypeUserDataSaved,
		TypeGeneric,
	}
}

// String returns the wire form of the notification type.
func (t NotificationType) String() string { return string(t) }

// Parse resolves the wire form of a notification type. Unrecognized names
// report ok false; the enumeration is closed.
func Parse(name string) (NotificationType, bool) {
	for _, t := range All() {
		if string(t) == name {
			return t, true
		}
	}
	return "", false
}

// ItemKind identifies the media kind of a library item.
type ItemKind string

const (
	KindMovie   ItemKind = "Movie"
	KindEpisode ItemKind = "Episode"
	KindSeason  ItemKind = "Season"
	KindSeries  ItemKind = "Series"
	KindAlbum   ItemKind = "MusicAlbum"
	KindSong    ItemKind = "Audio"
)

// String returns the wire form of the item kind.
func (k ItemKind) String() string { return string(k) }
