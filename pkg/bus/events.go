package bus

import (
	"context"

	"github.com/kart-io/mediahook/pkg/destination"
	"github.com/kart-io/mediahook/pkg/events"
	"github.com/kart-io/mediahook/pkg/payload"
)

// ItemAdded queues a newly added library item. Metadata often arrives after
// the item does, so the notification is deferred until provider ids exist or
// the retry budget runs out.
func (e *Engine) ItemAdded(itemID string) {
	e.added.AddItem(itemID)
}

// ItemRemoved queues a removed library item.
func (e *Engine) ItemRemoved(itemID string) {
	e.removed.AddItem(itemID)
}

// dispatchItem is the deferred queues' dispatch callback.
func (e *Engine) dispatchItem(ctx context.Context, nt events.NotificationType, item *events.Item) {
	p := payload.Base(nt, e.server, e.now())
	payload.AddItemData(p, item)
	e.dispatcher.Dispatch(ctx, destination.Event{Type: nt, ItemKind: item.Kind, Data: p})
}

// PlaybackStart notifies playback starting on an item.
func (e *Engine) PlaybackStart(ctx context.Context, item *events.Item, user *events.User, sess *events.Session, info *events.PlaybackInfo) {
	e.playback(ctx, events.TypePlaybackStart, item, user, sess, info)
}

// PlaybackProgress notifies playback progress on an item.
func (e *Engine) PlaybackProgress(ctx context.Context, item *events.Item, user *events.User, sess *events.Session, info *events.PlaybackInfo) {
	e.playback(ctx, events.TypePlaybackProgress, item, user, sess, info)
}

// PlaybackStop notifies playback stopping on an item.
func (e *Engine) PlaybackStop(ctx context.Context, item *events.Item, user *events.User, sess *events.Session, info *events.PlaybackInfo) {
	e.playback(ctx, events.TypePlaybackStop, item, user, sess, info)
}

func (e *Engine) playback(ctx context.Context, nt events.NotificationType, item *events.Item, user *events.User, sess *events.Session, info *events.PlaybackInfo) {
	p := payload.Base(nt, e.server, e.now())
	payload.AddItemData(p, item)
	payload.AddUserData(p, user)
	payload.AddSessionData(p, sess)
	payload.AddPlaybackData(p, info)
	var kind events.ItemKind
	if item != nil {
		kind = item.Kind
	}
	e.dispatcher.Dispatch(ctx, destination.Event{Type: nt, ItemKind: kind, Data: p})
}

// SessionStart notifies a new device session.
func (e *Engine) SessionStart(ctx context.Context, user *events.User, sess *events.Session) {
	p := payload.Base(events.TypeSessionStart, e.server, e.now())
	payload.AddUserData(p, user)
	payload.AddSessionData(p, sess)
	e.dispatcher.Dispatch(ctx, destination.Event{Type: events.TypeSessionStart, Data: p})
}

// AuthSucceeded notifies a successful authentication.
func (e *Engine) AuthSucceeded(ctx context.Context, user *events.User, sess *events.Session) {
	p := payload.Base(events.TypeAuthSuccess, e.server, e.now())
	payload.AddUserData(p, user)
	payload.AddSessionData(p, sess)
	e.dispatcher.Dispatch(ctx, destination.Event{Type: events.TypeAuthSuccess, Data: p})
}

// AuthFailed notifies a failed authentication attempt. There is no resolved
// user, only the attempted username.
func (e *Engine) AuthFailed(ctx context.Context, username string, sess *events.Session) {
	p := payload.Base(events.TypeAuthFailure, e.server, e.now())
	p.Set("NotificationUsername", username)
	p.Set("UserId", payload.EmptyUserID)
	payload.AddSessionData(p, sess)
	e.dispatcher.Dispatch(ctx, destination.Event{Type: events.TypeAuthFailure, Data: p})
}

// PendingRestart notifies that the server has a restart pending.
func (e *Engine) PendingRestart(ctx context.Context) {
	p := payload.Base(events.TypePendingRestart, e.server, e.now())
	e.dispatcher.Dispatch(ctx, destination.Event{Type: events.TypePendingRestart, Data: p})
}

// TaskCompleted notifies a finished scheduled task.
func (e *Engine) TaskCompleted(ctx context.Context, task *events.TaskResult) {
	p := payload.Base(events.TypeTaskCompleted, e.server, e.now())
	payload.AddTaskData(p, task)
	e.dispatcher.Dispatch(ctx, destination.Event{Type: events.TypeTaskCompleted, Data: p})
}

// PluginInstalling notifies a plugin installation starting.
func (e *Engine) PluginInstalling(ctx context.Context, plugin *events.PluginInfo) {
	e.plugin(ctx, events.TypePluginInstalling, plugin, nil)
}

// PluginInstalled notifies a completed plugin installation.
func (e *Engine) PluginInstalled(ctx context.Context, plugin *events.PluginInfo) {
	e.plugin(ctx, events.TypePluginInstalled, plugin, nil)
}

// PluginInstallFailed notifies a failed plugin installation.
func (e *Engine) PluginInstallFailed(ctx context.Context, plugin *events.PluginInfo, cause error) {
	e.plugin(ctx, events.TypePluginInstallFailed, plugin, cause)
}

// PluginInstallCancelled notifies a cancelled plugin installation.
func (e *Engine) PluginInstallCancelled(ctx context.Context, plugin *events.PluginInfo) {
	e.plugin(ctx, events.TypePluginInstallCancel, plugin, nil)
}

// PluginUninstalled notifies a plugin removal.
func (e *Engine) PluginUninstalled(ctx context.Context, plugin *events.PluginInfo) {
	e.plugin(ctx, events.TypePluginUninstalled, plugin, nil)
}

// PluginUpdated notifies a plugin update.
func (e *Engine) PluginUpdated(ctx context.Context, plugin *events.PluginInfo) {
	e.plugin(ctx, events.TypePluginUpdated, plugin, nil)
}

func (e *Engine) plugin(ctx context.Context, nt events.NotificationType, plugin *events.PluginInfo, cause error) {
	p := payload.Base(nt, e.server, e.now())
	payload.AddPluginData(p, plugin)
	payload.AddExceptionData(p, cause)
	e.dispatcher.Dispatch(ctx, destination.Event{Type: nt, Data: p})
}

// UserCreated notifies a new account. The user-id filter never applies to
// this type.
func (e *Engine) UserCreated(ctx context.Context, user *events.User) {
	e.user(ctx, events.TypeUserCreated, user)
}

// UserDeleted notifies an account removal.
func (e *Engine) UserDeleted(ctx context.Context, user *events.User) {
	e.user(ctx, events.TypeUserDeleted, user)
}

// UserUpdated notifies an account change.
func (e *Engine) UserUpdated(ctx context.Context, user *events.User) {
	e.user(ctx, events.TypeUserUpdated, user)
}

// UserLockedOut notifies an account lockout.
func (e *Engine) UserLockedOut(ctx context.Context, user *events.User) {
	e.user(ctx, events.TypeUserLockedOut, user)
}

// UserPasswordChanged notifies a password change.
func (e *Engine) UserPasswordChanged(ctx context.Context, user *events.User) {
	e.user(ctx, events.TypeUserPasswordChanged, user)
}

// UserDataSaved notifies saved user data.
func (e *Engine) UserDataSaved(ctx context.Context, user *events.User) {
	e.user(ctx, events.TypeUserDataSaved, user)
}

func (e *Engine) user(ctx context.Context, nt events.NotificationType, user *events.User) {
	p := payload.Base(nt, e.server, e.now())
	payload.AddUserData(p, user)
	e.dispatcher.Dispatch(ctx, destination.Event{Type: nt, Data: p})
}

// Generic notifies an arbitrary named event with extra properties.
func (e *Engine) Generic(ctx context.Context, name string, props map[string]any) {
	p := payload.Base(events.TypeGeneric, e.server, e.now())
	p.Set("Name", name)
	for key, value := range props {
		p.Set(key, value)
	}
	e.dispatcher.Dispatch(ctx, destination.Event{Type: events.TypeGeneric, Data: p})
}
