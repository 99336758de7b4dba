package controller

import (
	"context"
	"log/slog"

	"github.com/faceconnect/client/internal/logging"
	"github.com/faceconnect/client/internal/models"
	"github.com/faceconnect/client/internal/realtime"
	"github.com/faceconnect/client/internal/ui"
)

func (c *Controller) subscribe() {
	c.rt.On(realtime.EventConnect, func(ctx context.Context, _ realtime.Event) {
		logging.FromContext(ctx).Info("realtime connected, joining room")
	})
	c.rt.On(realtime.EventDisconnect, c.onDisconnect)
	c.rt.On(realtime.EventConnectError, c.onConnectError)
	c.rt.On(realtime.EventNewNotification, c.onNewNotification)
	c.rt.On(realtime.EventNewMessage, c.onNewMessage)
	c.rt.On(realtime.EventUserTyping, c.onUserTyping)
}

func (c *Controller) onNewNotification(ctx context.Context, e realtime.Event) {
	var payload realtime.NotificationPayload
	if err := e.Decode(&payload); err != nil {
		logging.FromContext(ctx).Warn("malformed notification event", slog.String("error", err.Error()))
		return
	}
	c.notifier.Notify(payload.Content, ui.LevelSuccess)
	_ = c.LoadNotifications(ctx)
}

func (c *Controller) onNewMessage(ctx context.Context, e realtime.Event) {
	var msg models.IncomingMessage
	if err := e.Decode(&msg); err != nil {
		logging.FromContext(ctx).Warn("malformed message event", slog.String("error", err.Error()))
		return
	}
	c.notifier.Notify("New message from "+msg.Sender.FirstName, ui.LevelSuccess)
	c.IncrementMessageBadge()
}

func (c *Controller) onDisconnect(ctx context.Context, e realtime.Event) {
	var payload realtime.DisconnectPayload
	_ = e.Decode(&payload)
	logging.FromContext(ctx).Info("realtime disconnected", slog.String("reason", payload.Reason))
}

func (c *Controller) onConnectError(ctx context.Context, e realtime.Event) {
	var payload realtime.DisconnectPayload
	_ = e.Decode(&payload)
	logging.FromContext(ctx).Error("realtime connection error", slog.String("error", payload.Reason))
}

func (c *Controller) onUserTyping(ctx context.Context, e realtime.Event) {
	var payload realtime.UserTypingPayload
	if err := e.Decode(&payload); err != nil {
		return
	}
	logging.FromContext(ctx).Debug("user typing",
		slog.Int64("user_id", payload.UserID),
		slog.Bool("is_typing", payload.IsTyping),
	)
}
