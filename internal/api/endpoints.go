package api

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strconv"

	"github.com/faceconnect/client/internal/models"
)

// FeedPageSize is the page size the feed view requests.
const FeedPageSize = 10

// MessageResponse is the generic {message} acknowledgement of write endpoints.
type MessageResponse struct {
	Message string `json:"message"`
}

// CreatePostRequest is the POST /posts payload. Empty location and feeling are sent as null.
type CreatePostRequest struct {
	Content  string  `json:"content"`
	Location *string `json:"location"`
	Feeling  *string `json:"feeling"`
	Privacy  string  `json:"privacy"`
}

// CreateStoryRequest is the POST /stories payload.
type CreateStoryRequest struct {
	Text            string `json:"text"`
	MediaType       string `json:"media_type"`
	BackgroundColor string `json:"background_color"`
}

// SendMessageRequest is the POST /messages payload.
type SendMessageRequest struct {
	ReceiverID int64  `json:"receiver_id"`
	Content    string `json:"content"`
	Image      string `json:"image,omitempty"`
}

// Search scopes accepted by GET /search.
const (
	SearchAll   = "all"
	SearchUsers = "users"
	SearchPosts = "posts"
)

func (c *Client) write(ctx context.Context, method, endpoint string, body any) (string, error) {
	var resp MessageResponse
	if err := c.Do(ctx, method, endpoint, body, &resp); err != nil {
		return "", err
	}
	return resp.Message, nil
}

// Logout notifies the server that the session ends.
func (c *Client) Logout(ctx context.Context) error {
	return c.Do(ctx, http.MethodPost, "/logout", nil, nil)
}

// Status reports API liveness. It is a background check, so failures are
// returned without a toast and no credentials are sent.
func (c *Client) Status(ctx context.Context) (models.ServerStatus, error) {
	var status models.ServerStatus
	err := c.send(ctx, http.MethodGet, "/status", nil, &status, "")
	return status, err
}

// Feed fetches one page of the caller's feed.
func (c *Client) Feed(ctx context.Context, page, perPage int) (models.FeedPage, error) {
	if page < 1 {
		page = 1
	}
	if perPage < 1 {
		perPage = FeedPageSize
	}
	var feed models.FeedPage
	err := c.Do(ctx, http.MethodGet, fmt.Sprintf("/feed?page=%d&per_page=%d", page, perPage), nil, &feed)
	return feed, err
}

// Trending fetches the trending posts list.
func (c *Client) Trending(ctx context.Context) ([]models.Post, error) {
	var resp struct {
		Posts []models.Post `json:"trending_posts"`
	}
	err := c.Do(ctx, http.MethodGet, "/trending", nil, &resp)
	return resp.Posts, err
}

// Post fetches a post and its comments.
func (c *Client) Post(ctx context.Context, postID int64) (models.PostDetail, error) {
	var detail models.PostDetail
	err := c.Do(ctx, http.MethodGet, "/posts/"+id(postID), nil, &detail)
	return detail, err
}

// CreatePost publishes a new post.
func (c *Client) CreatePost(ctx context.Context, req CreatePostRequest) (string, error) {
	return c.write(ctx, http.MethodPost, "/posts", req)
}

// React sets, changes or toggles off the caller's reaction on a post.
func (c *Client) React(ctx context.Context, postID int64, kind models.ReactionKind) (string, error) {
	return c.write(ctx, http.MethodPost, "/posts/"+id(postID)+"/react", map[string]string{"reaction_type": string(kind)})
}

// AddComment replies to a post.
func (c *Client) AddComment(ctx context.Context, postID int64, content string) (string, error) {
	return c.write(ctx, http.MethodPost, "/posts/"+id(postID)+"/comments", map[string]string{"content": content})
}

// LikeComment toggles a like on a comment.
func (c *Client) LikeComment(ctx context.Context, commentID int64) (string, error) {
	return c.write(ctx, http.MethodPost, "/comments/"+id(commentID)+"/like", nil)
}

// SharePost reshares a post with an optional caption.
func (c *Client) SharePost(ctx context.Context, postID int64, caption string) (string, error) {
	return c.write(ctx, http.MethodPost, "/posts/"+id(postID)+"/share", map[string]string{"caption": caption})
}

// SavePost bookmarks a post.
func (c *Client) SavePost(ctx context.Context, postID int64) (string, error) {
	return c.write(ctx, http.MethodPost, "/posts/"+id(postID)+"/save", nil)
}

// SavedPosts lists bookmarked posts.
func (c *Client) SavedPosts(ctx context.Context) ([]models.Post, error) {
	var resp struct {
		SavedPosts []models.Post `json:"saved_posts"`
	}
	err := c.Do(ctx, http.MethodGet, "/saved-posts", nil, &resp)
	return resp.SavedPosts, err
}

// Stories lists active stories grouped by author.
func (c *Client) Stories(ctx context.Context) ([]models.StoryGroup, error) {
	var resp struct {
		Stories []models.StoryGroup `json:"stories"`
	}
	err := c.Do(ctx, http.MethodGet, "/stories", nil, &resp)
	return resp.Stories, err
}

// CreateStory publishes a story.
func (c *Client) CreateStory(ctx context.Context, req CreateStoryRequest) (string, error) {
	return c.write(ctx, http.MethodPost, "/stories", req)
}

// ViewStory records a story view.
func (c *Client) ViewStory(ctx context.Context, storyID int64) (string, error) {
	return c.write(ctx, http.MethodPost, "/stories/"+id(storyID)+"/view", nil)
}

// FriendRequests lists pending requests addressed to the caller.
func (c *Client) FriendRequests(ctx context.Context) ([]models.FriendRequest, error) {
	var resp struct {
		FriendRequests []models.FriendRequest `json:"friend_requests"`
	}
	err := c.Do(ctx, http.MethodGet, "/friends/requests", nil, &resp)
	return resp.FriendRequests, err
}

// AcceptFriendRequest confirms a pending request.
func (c *Client) AcceptFriendRequest(ctx context.Context, requestID int64) (string, error) {
	return c.write(ctx, http.MethodPut, "/friends/accept/"+id(requestID), nil)
}

// RejectFriendRequest declines a pending request.
func (c *Client) RejectFriendRequest(ctx context.Context, requestID int64) (string, error) {
	return c.write(ctx, http.MethodDelete, "/friends/reject/"+id(requestID), nil)
}

// Friends lists the caller's friends with their online flag.
func (c *Client) Friends(ctx context.Context) ([]models.User, error) {
	var resp struct {
		Friends []models.User `json:"friends"`
	}
	err := c.Do(ctx, http.MethodGet, "/friends", nil, &resp)
	return resp.Friends, err
}

// Unfriend removes a friendship.
func (c *Client) Unfriend(ctx context.Context, userID int64) (string, error) {
	return c.write(ctx, http.MethodDelete, "/friends/unfriend/"+id(userID), nil)
}

// SendFriendRequest asks another user to connect.
func (c *Client) SendFriendRequest(ctx context.Context, userID int64) (string, error) {
	return c.write(ctx, http.MethodPost, "/friends/request", map[string]int64{"friend_id": userID})
}

// Follow subscribes to another user's posts.
func (c *Client) Follow(ctx context.Context, userID int64) (string, error) {
	return c.write(ctx, http.MethodPost, "/follow/"+id(userID), nil)
}

// Unfollow reverses Follow.
func (c *Client) Unfollow(ctx context.Context, userID int64) (string, error) {
	return c.write(ctx, http.MethodDelete, "/unfollow/"+id(userID), nil)
}

// Notifications lists the caller's notifications, newest first as ordered by the server.
func (c *Client) Notifications(ctx context.Context) ([]models.Notification, error) {
	var resp struct {
		Notifications []models.Notification `json:"notifications"`
	}
	err := c.Do(ctx, http.MethodGet, "/notifications", nil, &resp)
	return resp.Notifications, err
}

// MarkNotificationRead flags one notification as read.
func (c *Client) MarkNotificationRead(ctx context.Context, notificationID int64) (string, error) {
	return c.write(ctx, http.MethodPut, "/notifications/"+id(notificationID)+"/read", nil)
}

// Conversations lists message threads.
func (c *Client) Conversations(ctx context.Context) ([]models.Conversation, error) {
	var resp struct {
		Conversations []models.Conversation `json:"conversations"`
	}
	err := c.Do(ctx, http.MethodGet, "/conversations", nil, &resp)
	return resp.Conversations, err
}

// Messages fetches the thread with one user; the server marks it read.
func (c *Client) Messages(ctx context.Context, userID int64) ([]models.Message, error) {
	var resp struct {
		Messages []models.Message `json:"messages"`
	}
	err := c.Do(ctx, http.MethodGet, "/messages/"+id(userID), nil, &resp)
	return resp.Messages, err
}

// SendMessage delivers a direct message.
func (c *Client) SendMessage(ctx context.Context, req SendMessageRequest) (string, error) {
	return c.write(ctx, http.MethodPost, "/messages", req)
}

// Profile fetches a user's profile with its counters.
func (c *Client) Profile(ctx context.Context, userID int64) (models.Profile, error) {
	var profile models.Profile
	err := c.Do(ctx, http.MethodGet, "/profile/"+id(userID), nil, &profile)
	return profile, err
}

// Search queries people and posts. An empty scope means SearchAll.
func (c *Client) Search(ctx context.Context, query, scope string) (models.SearchResults, error) {
	if scope == "" {
		scope = SearchAll
	}
	params := url.Values{}
	params.Set("q", query)
	params.Set("type", scope)
	var results models.SearchResults
	err := c.Do(ctx, http.MethodGet, "/search?"+params.Encode(), nil, &results)
	return results, err
}

func id(v int64) string {
	return strconv.FormatInt(v, 10)
}
