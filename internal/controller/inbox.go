package controller

import (
	"context"
	"html/template"
	"strings"

	"github.com/faceconnect/client/internal/api"
	"github.com/faceconnect/client/internal/logging"
	"github.com/faceconnect/client/internal/view"
)

// LoadNotifications sets the notification badge to the unread count.
func (c *Controller) LoadNotifications(ctx context.Context) error {
	badge := c.doc.Badge(view.BadgeNotifications)
	ticket := badge.Begin()
	notifications, err := c.api.Notifications(ctx)
	if err != nil {
		return err
	}
	unread := 0
	for _, n := range notifications {
		if !n.IsRead {
			unread++
		}
	}
	if !badge.Commit(ticket, unread) {
		logging.FromContext(ctx).Debug("stale notification count dropped", "unread", unread)
	}
	return nil
}

// ShowNotifications lists every notification in server order.
func (c *Controller) ShowNotifications(ctx context.Context) error {
	return c.openModal(ctx, TitleNotifications, view.FailedNotifications, func(ctx context.Context) (template.HTML, error) {
		notifications, err := c.api.Notifications(ctx)
		if err != nil {
			return "", err
		}
		if len(notifications) == 0 {
			return c.render.Empty(view.EmptyNotifications)
		}
		return c.render.Notifications(notifications)
	})
}

// MarkNotificationRead marks one notification read and refreshes the badge and list.
func (c *Controller) MarkNotificationRead(ctx context.Context, notificationID int64) error {
	if _, err := c.api.MarkNotificationRead(ctx, notificationID); err != nil {
		return err
	}
	if err := c.LoadNotifications(ctx); err != nil {
		return err
	}
	return c.ShowNotifications(ctx)
}

// ShowMessages lists conversations in the modal.
func (c *Controller) ShowMessages(ctx context.Context) error {
	return c.openModal(ctx, TitleMessages, view.FailedMessages, func(ctx context.Context) (template.HTML, error) {
		conversations, err := c.api.Conversations(ctx)
		if err != nil {
			return "", err
		}
		if len(conversations) == 0 {
			return c.render.Empty(view.EmptyConversations)
		}
		return c.render.Conversations(conversations)
	})
}

// OpenChat shows the thread with userID in the modal.
func (c *Controller) OpenChat(ctx context.Context, userID int64) error {
	viewer := c.session.User()
	c.doc.Modal().Open(TitleMessages)
	return c.fill(ctx, c.doc.Container(view.ContainerModal), true, view.FailedMessages, func(ctx context.Context) (template.HTML, error) {
		profile, err := c.profiles.Profile(ctx, userID)
		if err != nil {
			return "", err
		}
		c.doc.Modal().Open(profile.DisplayName())
		messages, err := c.api.Messages(ctx, userID)
		if err != nil {
			return "", err
		}
		return c.render.Thread(profile.User, messages, viewer)
	})
}

// SendMessage sends a direct message and reloads the thread. Blank input is ignored.
func (c *Controller) SendMessage(ctx context.Context, userID int64, content string) error {
	content = strings.TrimSpace(content)
	if content == "" {
		return nil
	}
	if _, err := c.api.SendMessage(ctx, api.SendMessageRequest{ReceiverID: userID, Content: content}); err != nil {
		return err
	}
	return c.OpenChat(ctx, userID)
}

// Typing relays the typing indicator for the open thread with receiverID.
// Without a live real-time channel the indicator is dropped.
func (c *Controller) Typing(ctx context.Context, receiverID int64, isTyping bool) error {
	if !c.rt.Connected() {
		logging.FromContext(ctx).Debug("typing indicator dropped", "receiver_id", receiverID)
		return nil
	}
	return c.rt.Typing(receiverID, isTyping)
}

// IncrementMessageBadge bumps the unread-message counter by one.
func (c *Controller) IncrementMessageBadge() {
	c.doc.Badge(view.BadgeMessages).Increment()
}

// ShowProfile shows a user's profile summary in a blocking dialog. A zero
// userID means the current user.
func (c *Controller) ShowProfile(ctx context.Context, userID int64) error {
	if userID == 0 {
		userID = c.session.UserID()
	}
	profile, err := c.api.Profile(ctx, userID)
	if err != nil {
		return err
	}
	c.dialogsFor(ctx).Alert(ctx, c.render.ProfileText(profile))
	return nil
}
