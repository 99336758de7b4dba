package controller

import (
	"context"
	"html/template"

	"github.com/faceconnect/client/internal/models"
	"github.com/faceconnect/client/internal/ui"
	"github.com/faceconnect/client/internal/view"
)

// Modal titles.
const (
	TitleFriendRequests = "Friend Requests"
	TitleFriends        = "Friends"
	TitleNotifications  = "Notifications"
	TitleMessages       = "Messages"
)

// LoadFriendRequests renders the sidebar widget and sets the request badge.
// The badge only moves when the widget render lands.
func (c *Controller) LoadFriendRequests(ctx context.Context) error {
	badge := c.doc.Badge(view.BadgeFriendRequests)
	ticket := badge.Begin()
	pending := 0
	landed, err := c.load(ctx, c.doc.Container(view.ContainerFriendRequests), false, "", func(ctx context.Context) (template.HTML, error) {
		requests, err := c.api.FriendRequests(ctx)
		if err != nil {
			return "", err
		}
		pending = len(requests)
		return c.render.FriendRequestWidget(requests)
	})
	if landed {
		badge.Commit(ticket, pending)
	}
	return err
}

// ShowFriendRequests lists pending requests in the modal.
func (c *Controller) ShowFriendRequests(ctx context.Context) error {
	return c.openModal(ctx, TitleFriendRequests, view.FailedFriendRequests, func(ctx context.Context) (template.HTML, error) {
		requests, err := c.api.FriendRequests(ctx)
		if err != nil {
			return "", err
		}
		if len(requests) == 0 {
			return c.render.Empty(view.EmptyFriendRequests)
		}
		return c.render.FriendRequests(requests)
	})
}

// AcceptFriendRequest confirms a request and refreshes requests and contacts.
func (c *Controller) AcceptFriendRequest(ctx context.Context, requestID int64) error {
	if _, err := c.api.AcceptFriendRequest(ctx, requestID); err != nil {
		return err
	}
	c.notifier.Notify("Friend request accepted!", ui.LevelSuccess)
	return c.refreshRequests(ctx, true)
}

// RejectFriendRequest declines a request and refreshes the request list.
func (c *Controller) RejectFriendRequest(ctx context.Context, requestID int64) error {
	if _, err := c.api.RejectFriendRequest(ctx, requestID); err != nil {
		return err
	}
	c.notifier.Notify("Friend request declined", ui.LevelSuccess)
	return c.refreshRequests(ctx, false)
}

func (c *Controller) refreshRequests(ctx context.Context, contacts bool) error {
	err := c.LoadFriendRequests(ctx)
	if contacts {
		if ferr := c.LoadOnlineFriends(ctx); err == nil {
			err = ferr
		}
	}
	if c.modalShowing(TitleFriendRequests) {
		if merr := c.ShowFriendRequests(ctx); err == nil {
			err = merr
		}
	}
	return err
}

// LoadOnlineFriends renders the contacts widget with friends currently online.
func (c *Controller) LoadOnlineFriends(ctx context.Context) error {
	return c.fill(ctx, c.doc.Container(view.ContainerOnlineFriends), false, "", func(ctx context.Context) (template.HTML, error) {
		friends, err := c.api.Friends(ctx)
		if err != nil {
			return "", err
		}
		return c.render.OnlineFriends(onlineOnly(friends))
	})
}

func onlineOnly(friends []models.User) []models.User {
	online := make([]models.User, 0, len(friends))
	for _, f := range friends {
		if f.IsOnline {
			online = append(online, f)
		}
	}
	return online
}

// ShowFriends lists all friends in the modal.
func (c *Controller) ShowFriends(ctx context.Context) error {
	return c.openModal(ctx, TitleFriends, view.FailedFriends, func(ctx context.Context) (template.HTML, error) {
		friends, err := c.api.Friends(ctx)
		if err != nil {
			return "", err
		}
		if len(friends) == 0 {
			return c.render.Empty(view.EmptyFriends)
		}
		return c.render.Friends(friends)
	})
}

// Unfriend removes a friend after the user confirms.
func (c *Controller) Unfriend(ctx context.Context, userID int64) error {
	if !c.dialogsFor(ctx).Confirm(ctx, "Are you sure you want to unfriend this person?") {
		return nil
	}
	if _, err := c.api.Unfriend(ctx, userID); err != nil {
		return err
	}
	c.notifier.Notify("Friend removed", ui.LevelSuccess)
	return c.ShowFriends(ctx)
}

// SendFriendRequest asks userID to become a friend.
func (c *Controller) SendFriendRequest(ctx context.Context, userID int64) error {
	if _, err := c.api.SendFriendRequest(ctx, userID); err != nil {
		return err
	}
	c.notifier.Notify("Friend request sent!", ui.LevelSuccess)
	return nil
}

// FollowUser follows userID.
func (c *Controller) FollowUser(ctx context.Context, userID int64) error {
	if _, err := c.api.Follow(ctx, userID); err != nil {
		return err
	}
	c.notifier.Notify("You are now following this user!", ui.LevelSuccess)
	return nil
}

// UnfollowUser stops following userID.
func (c *Controller) UnfollowUser(ctx context.Context, userID int64) error {
	if _, err := c.api.Unfollow(ctx, userID); err != nil {
		return err
	}
	c.notifier.Notify("You unfollowed this user", ui.LevelSuccess)
	return nil
}
